package postgres

import (
	"context"
	"database/sql"
	"errors"

	"appsamples/internal/database"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

const quoteColumns = `id, quote, uri, rank, created, creation_order, votesum, creator`

// QuotePostgres is a PostgreSQL implementation of repository.QuoteRepository.
type QuotePostgres struct {
	db *sql.DB
}

// NewQuotePostgres creates a new QuotePostgres repository.
func NewQuotePostgres(db *sql.DB) *QuotePostgres {
	return &QuotePostgres{db: db}
}

var _ repository.QuoteRepository = (*QuotePostgres)(nil)

func scanQuote(s rowScanner) (*model.Quote, error) {
	var q model.Quote
	if err := s.Scan(&q.ID, &q.Quote, &q.URI, &q.Rank, &q.Created, &q.CreationOrder, &q.VoteSum, &q.Creator); err != nil {
		return nil, err
	}
	return &q, nil
}

// NextVoterCount increments the voter's counter in a transaction.
func (r *QuotePostgres) NextVoterCount(ctx context.Context, email string) (int, error) {
	const q = `
		INSERT INTO voters (email, count, has_added_quote) VALUES ($1, 1, true)
		ON CONFLICT (email) DO UPDATE SET count = voters.count + 1, has_added_quote = true
		RETURNING count
	`
	var count int
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, q, email).Scan(&count)
	})
	return count, err
}

// Create inserts a quote row.
func (r *QuotePostgres) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	const stmt = `
		INSERT INTO quotes (quote, uri, rank, created, creation_order, votesum, creator)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + quoteColumns
	row := r.db.QueryRowContext(ctx, stmt, q.Quote, q.URI, q.Rank, q.Created, q.CreationOrder, q.VoteSum, q.Creator)
	return scanQuote(row)
}

// FindByID fetches a quote.
func (r *QuotePostgres) FindByID(ctx context.Context, id int64) (*model.Quote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
	return scanQuote(row)
}

// Delete removes a quote; votes go with it through the foreign key.
func (r *QuotePostgres) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	return err
}

// ListNewest pages by creation_order.
func (r *QuotePostgres) ListNewest(ctx context.Context, offset string, limit int) ([]model.Quote, error) {
	if offset == "" {
		return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY creation_order DESC LIMIT $1`, limit)
	}
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE creation_order <= $1 ORDER BY creation_order DESC LIMIT $2`, offset, limit)
}

// ListByRank pages by rank.
func (r *QuotePostgres) ListByRank(ctx context.Context, pq repository.PageQuery) ([]model.Quote, error) {
	return r.list(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY rank DESC LIMIT $1 OFFSET $2`, pq.Limit, pq.Offset)
}

func (r *QuotePostgres) list(ctx context.Context, q string, args ...any) ([]model.Quote, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *quote)
	}
	return items, rows.Err()
}

// ApplyVote runs the vote read-modify-write in one transaction with the quote row locked.
func (r *QuotePostgres) ApplyVote(ctx context.Context, id int64, email string, vote int, mutate repository.QuoteMutator) (bool, error) {
	changed := false
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		quote, err := scanQuote(tx.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		previous := 0
		err = tx.QueryRowContext(ctx, `SELECT vote FROM votes WHERE quote_id = $1 AND voter = $2`, id, email).Scan(&previous)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		if !mutate(quote, previous) {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE quotes SET votesum = $2, rank = $3 WHERE id = $1`,
			id, quote.VoteSum, quote.Rank,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (quote_id, voter, vote) VALUES ($1, $2, $3)
			ON CONFLICT (quote_id, voter) DO UPDATE SET vote = EXCLUDED.vote`,
			id, email, vote,
		); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// VoteOf reads one vote.
func (r *QuotePostgres) VoteOf(ctx context.Context, id int64, email string) (int, error) {
	var v int
	err := r.db.QueryRowContext(ctx, `SELECT vote FROM votes WHERE quote_id = $1 AND voter = $2`, id, email).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

// MarkVoted records that the user has voted at least once.
func (r *QuotePostgres) MarkVoted(ctx context.Context, email string) error {
	const q = `
		INSERT INTO voters (email, has_voted) VALUES ($1, true)
		ON CONFLICT (email) DO UPDATE SET has_voted = true
	`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, q, email)
		return err
	})
}

// Voter loads a progress row.
func (r *QuotePostgres) Voter(ctx context.Context, email string) (*model.Voter, error) {
	v := model.Voter{Email: email}
	err := r.db.QueryRowContext(ctx,
		`SELECT count, has_voted, has_added_quote FROM voters WHERE email = $1`, email,
	).Scan(&v.Count, &v.HasVoted, &v.HasAddedQuote)
	if errors.Is(err, sql.ErrNoRows) {
		return &v, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
