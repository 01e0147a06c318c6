package postgres

import (
	"context"
	"database/sql"
	"testing"

	"appsamples/internal/model"
	"appsamples/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quoteCols = []string{"id", "quote", "uri", "rank", "created", "creation_order", "votesum", "creator"}

func newQuoteRepo(t *testing.T) (*QuotePostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewQuotePostgres(db), mock
}

func TestQuotePostgres_NextVoterCount(t *testing.T) {
	repo, mock := newQuoteRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO voters").
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectCommit()

	n, err := repo.NextVoterCount(context.Background(), "ann@example.com")

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotePostgres_CreateAndFind(t *testing.T) {
	repo, mock := newQuoteRepo(t)
	ctx := context.Background()

	q := &model.Quote{Quote: "hi", Rank: "r", Created: 900, CreationOrder: "co", Creator: "ann@example.com"}
	mock.ExpectQuery("INSERT INTO quotes").
		WithArgs(q.Quote, q.URI, q.Rank, q.Created, q.CreationOrder, q.VoteSum, q.Creator).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(1, "hi", "", "r", 900, "co", 0, "ann@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id = \\$1").
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	created, err := repo.Create(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = repo.FindByID(ctx, 1)
	assert.True(t, IsNoRowsError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotePostgres_Listing(t *testing.T) {
	repo, mock := newQuoteRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM quotes ORDER BY creation_order DESC LIMIT \\$1").
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(2, "b", "", "r2", 1, "co2", 0, "x"))
	mock.ExpectQuery("WHERE creation_order <= \\$1 ORDER BY creation_order DESC LIMIT \\$2").
		WithArgs("co2", 6).
		WillReturnRows(sqlmock.NewRows(quoteCols))
	mock.ExpectQuery("ORDER BY rank DESC LIMIT \\$1 OFFSET \\$2").
		WithArgs(6, 5).
		WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(3, "c", "", "r3", 1, "co3", 2, "x"))

	items, err := repo.ListNewest(ctx, "", 6)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = repo.ListNewest(ctx, "co2", 6)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = repo.ListByRank(ctx, repository.PageQuery{Limit: 6, Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].VoteSum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotePostgres_ApplyVote(t *testing.T) {
	ctx := context.Background()

	t.Run("writes quote and vote when mutator agrees", func(t *testing.T) {
		repo, mock := newQuoteRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id = \\$1 FOR UPDATE").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(5, "q", "", "old", 900, "co", 1, "x"))
		mock.ExpectQuery("SELECT vote FROM votes").
			WithArgs(5, "ann@example.com").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("UPDATE quotes SET votesum").
			WithArgs(5, 2, "new").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO votes").
			WithArgs(5, "ann@example.com", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var seenPrevious = -5
		changed, err := repo.ApplyVote(ctx, 5, "ann@example.com", 1, func(q *model.Quote, previous int) bool {
			seenPrevious = previous
			q.VoteSum++
			q.Rank = "new"
			return true
		})

		assert.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 0, seenPrevious)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unchanged vote commits nothing", func(t *testing.T) {
		repo, mock := newQuoteRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(quoteCols).AddRow(5, "q", "", "old", 900, "co", 1, "x"))
		mock.ExpectQuery("SELECT vote FROM votes").
			WithArgs(5, "ann@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"vote"}).AddRow(1))
		mock.ExpectCommit()

		changed, err := repo.ApplyVote(ctx, 5, "ann@example.com", 1, func(q *model.Quote, previous int) bool {
			return previous != 1
		})

		assert.NoError(t, err)
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing quote rolls back", func(t *testing.T) {
		repo, mock := newQuoteRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(9).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.ApplyVote(ctx, 9, "ann@example.com", 1, func(*model.Quote, int) bool { return true })

		assert.True(t, IsNoRowsError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuotePostgres_Voters(t *testing.T) {
	repo, mock := newQuoteRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT vote FROM votes").WithArgs(1, "ann@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO voters").WithArgs("ann@example.com").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT count, has_voted, has_added_quote FROM voters").
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count", "has_voted", "has_added_quote"}).AddRow(2, true, false))
	mock.ExpectQuery("SELECT count, has_voted, has_added_quote FROM voters").
		WithArgs("bob@example.com").
		WillReturnError(sql.ErrNoRows)

	v, err := repo.VoteOf(ctx, 1, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, repo.MarkVoted(ctx, "ann@example.com"))

	voter, err := repo.Voter(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, voter.HasVoted)
	assert.Equal(t, 2, voter.Count)

	voter, err = repo.Voter(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, &model.Voter{Email: "bob@example.com"}, voter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
