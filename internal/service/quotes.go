package service

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"appsamples/internal/auth"
	"appsamples/internal/cache"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

const (
	// QuotesPerPage is the page size of both listings.
	QuotesPerPage = 5
	// MaxRankPages limits how deep the ranked listing goes.
	MaxRankPages = 20

	dayScale = 4
)

// quoteEpoch is day zero of Quote.Created.
var quoteEpoch = time.Date(2008, 10, 1, 0, 0, 0, 0, time.UTC)

// QuotePage is one page of quotes. Next is the cursor (newest) or page number (ranked) of the following
// page and is empty on the last one.
type QuotePage struct {
	Quotes []model.Quote `json:"quotes"`
	Next   string        `json:"next,omitempty"`
}

// Progress reports what a user has done so far.
type Progress struct {
	HasVoted      bool `json:"has_voted"`
	HasAddedQuote bool `json:"has_added_quote"`
}

// QuoteService defines the overheard use cases.
type QuoteService interface {
	AddQuote(ctx context.Context, user auth.User, text, uri string) (*model.Quote, error)
	// DeleteQuote removes a quote; only its creator or an admin may do so.
	DeleteQuote(ctx context.Context, id int64, user auth.User) error
	GetQuote(ctx context.Context, id int64) (*model.Quote, error)
	// Newest pages by creation order starting at the quote whose creation_order is offset.
	Newest(ctx context.Context, offset string) (*QuotePage, error)
	// Ranked returns page 0..MaxRankPages-1 ordered by rank.
	Ranked(ctx context.Context, page int) (*QuotePage, error)
	// SetVote records a vote in [-1, 1] and reranks the quote.
	SetVote(ctx context.Context, id int64, user auth.User, vote int) error
	// Voted returns the user's vote on a quote, 0 when none.
	Voted(ctx context.Context, id int64, user auth.User) (int, error)
	Progress(ctx context.Context, user auth.User) (*Progress, error)
}

type quoteService struct {
	repo  repository.QuoteRepository
	cache cache.Cache
	now   func() time.Time
}

// NewQuoteService constructs a new QuoteService.
func NewQuoteService(repo repository.QuoteRepository, c cache.Cache) QuoteService {
	return &quoteService{repo: repo, cache: c, now: time.Now}
}

// QuoteRank builds the sortable rank string. Scores below one are squashed into (0, 1) so that newer
// quotes with negative sums still order by age.
func QuoteRank(created, votesum int, creationOrder string) string {
	score := float64(votesum)
	if votesum < 1 {
		score = 1.0 / float64(2-votesum)
	}
	return fmt.Sprintf("%020d|%s", int64(float64(created)*dayScale*score), creationOrder)
}

func uniqueUser(email string, count int) string {
	sum := md5.Sum([]byte(email + "|" + strconv.Itoa(count)))
	return hex.EncodeToString(sum[:])
}

func voteKey(email string, id int64) string {
	return "vote|" + email + "|" + strconv.FormatInt(id, 10)
}

func (s *quoteService) AddQuote(ctx context.Context, user auth.User, text, uri string) (*model.Quote, error) {
	if user.Email == "" {
		return nil, ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: quote is required", ErrInvalidInput)
	}

	count, err := s.repo.NextVoterCount(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("voter count: %w", err)
	}

	now := s.now().UTC()
	created := int(now.Sub(quoteEpoch).Hours() / 24)
	order := now.Format("2006-01-02T15:04:05") + "|" + uniqueUser(user.Email, count)
	q, err := s.repo.Create(ctx, &model.Quote{
		Quote:         text,
		URI:           strings.TrimSpace(uri),
		Rank:          QuoteRank(created, 0, order),
		Created:       created,
		CreationOrder: order,
		Creator:       user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return q, nil
}

func (s *quoteService) GetQuote(ctx context.Context, id int64) (*model.Quote, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *quoteService) DeleteQuote(ctx context.Context, id int64, user auth.User) error {
	if user.Email == "" {
		return ErrUnauthorized
	}
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return err
	}
	if !user.Admin && q.Creator != user.Email {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func page(quotes []model.Quote) ([]model.Quote, bool) {
	if len(quotes) > QuotesPerPage {
		return quotes[:QuotesPerPage], true
	}
	return quotes, false
}

func (s *quoteService) Newest(ctx context.Context, offset string) (*QuotePage, error) {
	quotes, err := s.repo.ListNewest(ctx, offset, QuotesPerPage+1)
	if err != nil {
		return nil, fmt.Errorf("list newest: %w", err)
	}
	res := &QuotePage{}
	var more bool
	if res.Quotes, more = page(quotes); more {
		res.Next = quotes[QuotesPerPage].CreationOrder
	}
	return res, nil
}

func (s *quoteService) Ranked(ctx context.Context, pageNum int) (*QuotePage, error) {
	if pageNum < 0 || pageNum >= MaxRankPages {
		return nil, fmt.Errorf("%w: page must be between 0 and %d", ErrInvalidInput, MaxRankPages-1)
	}
	quotes, err := s.repo.ListByRank(ctx, repository.PageQuery{Limit: QuotesPerPage + 1, Offset: pageNum * QuotesPerPage})
	if err != nil {
		return nil, fmt.Errorf("list ranked: %w", err)
	}
	res := &QuotePage{}
	var more bool
	if res.Quotes, more = page(quotes); more && pageNum < MaxRankPages-1 {
		res.Next = strconv.Itoa(pageNum + 1)
	}
	return res, nil
}

func (s *quoteService) SetVote(ctx context.Context, id int64, user auth.User, vote int) error {
	if user.Email == "" {
		return ErrUnauthorized
	}
	if vote < -1 || vote > 1 {
		return fmt.Errorf("%w: vote must be -1, 0 or 1", ErrInvalidInput)
	}

	changed, err := s.repo.ApplyVote(ctx, id, user.Email, vote, func(q *model.Quote, previous int) bool {
		if previous == vote {
			return false
		}
		q.VoteSum = q.VoteSum - previous + vote
		q.Rank = QuoteRank(q.Created, q.VoteSum, q.CreationOrder)
		return true
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("apply vote: %w", err)
	}
	if changed {
		_ = s.cache.Set(ctx, voteKey(user.Email, id), strconv.Itoa(vote), 0)
	}
	if err := s.repo.MarkVoted(ctx, user.Email); err != nil {
		return fmt.Errorf("mark voted: %w", err)
	}
	return nil
}

func (s *quoteService) Voted(ctx context.Context, id int64, user auth.User) (int, error) {
	if user.Email == "" {
		return 0, nil
	}
	key := voteKey(user.Email, id)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		if v, err := strconv.Atoi(raw); err == nil {
			return v, nil
		}
	}
	v, err := s.repo.VoteOf(ctx, id, user.Email)
	if err != nil {
		return 0, fmt.Errorf("read vote: %w", err)
	}
	_ = s.cache.Set(ctx, key, strconv.Itoa(v), 0)
	return v, nil
}

func (s *quoteService) Progress(ctx context.Context, user auth.User) (*Progress, error) {
	if user.Email == "" {
		return &Progress{}, nil
	}
	v, err := s.repo.Voter(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("load voter: %w", err)
	}
	return &Progress{HasVoted: v.HasVoted, HasAddedQuote: v.HasAddedQuote}, nil
}
