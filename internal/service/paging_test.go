package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"appsamples/internal/auth"
	"appsamples/internal/model"
	"appsamples/internal/repository"
	repoMocks "appsamples/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pagingNow = time.Date(2009, 3, 2, 10, 0, 0, 123456000, time.UTC)

func suggestionsN(n int, created time.Time) []model.Suggestion {
	out := make([]model.Suggestion, n)
	for i := range out {
		out[i] = model.Suggestion{ID: int64(i + 1), Suggestion: "s", CreatedAt: created}
	}
	return out
}

func TestBookmark(t *testing.T) {
	c := repository.SuggestionCursor{CreatedAt: pagingNow, ID: 42}

	b := EncodeBookmark(c)
	raw, err := base64.URLEncoding.DecodeString(b)
	require.NoError(t, err)
	assert.Equal(t, "1235988000123456|42", string(raw))

	got, err := DecodeBookmark(b)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(pagingNow))
	assert.Equal(t, int64(42), got.ID)

	for _, bad := range []string{
		"%%%",
		base64.URLEncoding.EncodeToString([]byte("no separator")),
		base64.URLEncoding.EncodeToString([]byte("x|1")),
		base64.URLEncoding.EncodeToString([]byte("1|y")),
	} {
		_, err := DecodeBookmark(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestPagingService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("first page carries a bookmark to the sixth row", func(t *testing.T) {
		mRepo := new(repoMocks.MockSuggestionRepository)
		items := suggestionsN(6, pagingNow)
		mRepo.On("ListFrom", ctx, (*repository.SuggestionCursor)(nil), SuggestionsPerPage+1).Return(items, nil)

		p, err := NewPagingService(mRepo).List(ctx, "")

		require.NoError(t, err)
		assert.Len(t, p.Suggestions, SuggestionsPerPage)
		assert.Equal(t, EncodeBookmark(repository.SuggestionCursor{CreatedAt: pagingNow, ID: 6}), p.Next)
	})

	t.Run("bookmark resumes among equal timestamps", func(t *testing.T) {
		mRepo := new(repoMocks.MockSuggestionRepository)
		from := repository.SuggestionCursor{CreatedAt: pagingNow, ID: 6}
		mRepo.On("ListFrom", ctx, mock.MatchedBy(func(c *repository.SuggestionCursor) bool {
			return c != nil && c.ID == 6 && c.CreatedAt.Equal(pagingNow)
		}), SuggestionsPerPage+1).Return(suggestionsN(1, pagingNow), nil)

		p, err := NewPagingService(mRepo).List(ctx, EncodeBookmark(from))

		require.NoError(t, err)
		assert.Len(t, p.Suggestions, 1)
		assert.Empty(t, p.Next)
	})

	t.Run("bad bookmark", func(t *testing.T) {
		_, err := NewPagingService(new(repoMocks.MockSuggestionRepository)).List(ctx, "!!")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestPagingService_Suggest(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockSuggestionRepository)
	mRepo.On("Create", ctx, &model.Suggestion{Suggestion: "more tea", CreatedAt: pagingNow}).
		Return(&model.Suggestion{ID: 1, Suggestion: "more tea"}, nil)

	svc := &pagingService{repo: mRepo, now: func() time.Time { return pagingNow }}

	s, err := svc.Suggest(ctx, "  more tea ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)

	_, err = svc.Suggest(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	mRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPagingService_Populate(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockSuggestionRepository)
	mRepo.On("CreateMany", ctx, mock.MatchedBy(func(items []model.Suggestion) bool {
		if len(items) != 6 || items[5].Suggestion != "Suggestion 5" {
			return false
		}
		for _, s := range items {
			if !s.CreatedAt.Equal(pagingNow) {
				return false
			}
		}
		return true
	})).Return(nil).Once()
	mRepo.On("CreateMany", ctx, mock.Anything).Return(errors.New("db down"))

	svc := &pagingService{repo: mRepo, now: func() time.Time { return pagingNow }}

	assert.NoError(t, svc.Populate(ctx))
	assert.ErrorContains(t, svc.Populate(ctx), "db down")
}

func TestPagingService_Unique(t *testing.T) {
	ctx := context.Background()
	wantWhen := "2009-03-02T10:00:00|" + uniqueUser("ann@example.com", 4)

	t.Run("suggest builds the when key", func(t *testing.T) {
		mRepo := new(repoMocks.MockSuggestionRepository)
		mRepo.On("NextContributorCount", ctx, "ann@example.com").Return(4, nil)
		mRepo.On("CreateUnique", ctx, &model.Suggestion{Suggestion: "x", CreatedAt: pagingNow, When: wantWhen}).
			Return(&model.Suggestion{ID: 2, When: wantWhen}, nil)

		svc := &pagingService{repo: mRepo, now: func() time.Time { return pagingNow }}
		s, err := svc.SuggestUnique(ctx, ann, "x")

		require.NoError(t, err)
		assert.Equal(t, wantWhen, s.When)
		mRepo.AssertExpectations(t)
	})

	t.Run("login required", func(t *testing.T) {
		svc := NewPagingService(new(repoMocks.MockSuggestionRepository))

		_, err := svc.SuggestUnique(ctx, auth.User{}, "x")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.ErrorIs(t, svc.PopulateUnique(ctx, auth.User{}), ErrUnauthorized)
	})

	t.Run("populate gives every row its own key", func(t *testing.T) {
		mRepo := new(repoMocks.MockSuggestionRepository)
		for n := 1; n <= 6; n++ {
			mRepo.On("NextContributorCount", ctx, "ann@example.com").Return(n, nil).Once()
		}
		seen := map[string]bool{}
		mRepo.On("CreateUnique", ctx, mock.Anything).
			Run(func(args mock.Arguments) { seen[args.Get(1).(*model.Suggestion).When] = true }).
			Return(&model.Suggestion{}, nil)

		svc := &pagingService{repo: mRepo, now: func() time.Time { return pagingNow }}

		require.NoError(t, svc.PopulateUnique(ctx, ann))
		assert.Len(t, seen, 6)
	})

	t.Run("list pages by when", func(t *testing.T) {
		mRepo := new(repoMocks.MockSuggestionRepository)
		items := suggestionsN(6, pagingNow)
		items[5].When = "w6"
		mRepo.On("ListUnique", ctx, "", SuggestionsPerPage+1).Return(items, nil)

		p, err := NewPagingService(mRepo).ListUnique(ctx, "")

		require.NoError(t, err)
		assert.Len(t, p.Suggestions, SuggestionsPerPage)
		assert.Equal(t, "w6", p.Next)
	})
}
