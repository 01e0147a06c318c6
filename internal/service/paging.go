package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"appsamples/internal/auth"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

const (
	// SuggestionsPerPage is the page size of both suggestion listings.
	SuggestionsPerPage = 5
	// MaxSuggestionLength bounds one suggestion, in runes.
	MaxSuggestionLength = 500

	populateCount = 6
)

// SuggestionPage is one page of suggestions. Next is the bookmark of the following page and is empty on
// the last one.
type SuggestionPage struct {
	Suggestions []model.Suggestion `json:"suggestions"`
	Next        string             `json:"next,omitempty"`
}

// PagingService pages suggestions two ways: by a (created, id) bookmark and by a unique "when" key.
type PagingService interface {
	// List returns the page starting at bookmark; an empty bookmark starts at the newest suggestion.
	List(ctx context.Context, bookmark string) (*SuggestionPage, error)
	Suggest(ctx context.Context, text string) (*model.Suggestion, error)
	// Populate adds six suggestions sharing one timestamp, which is the case the bookmark's id exists for.
	Populate(ctx context.Context) error

	// ListUnique returns the page starting at the suggestion whose when key is offset.
	ListUnique(ctx context.Context, offset string) (*SuggestionPage, error)
	SuggestUnique(ctx context.Context, user auth.User, text string) (*model.Suggestion, error)
	PopulateUnique(ctx context.Context, user auth.User) error
}

type pagingService struct {
	repo repository.SuggestionRepository
	now  func() time.Time
}

// NewPagingService constructs a new PagingService.
func NewPagingService(repo repository.SuggestionRepository) PagingService {
	return &pagingService{repo: repo, now: time.Now}
}

// EncodeBookmark renders a cursor as URL-safe base64 of "<unix microseconds>|<id>".
func EncodeBookmark(c repository.SuggestionCursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UnixMicro(), 10) + "|" + strconv.FormatInt(c.ID, 10)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeBookmark parses a bookmark made by EncodeBookmark.
func DecodeBookmark(s string) (repository.SuggestionCursor, error) {
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return repository.SuggestionCursor{}, fmt.Errorf("%w: bookmark is not base64", ErrInvalidInput)
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return repository.SuggestionCursor{}, fmt.Errorf("%w: malformed bookmark", ErrInvalidInput)
	}
	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return repository.SuggestionCursor{}, fmt.Errorf("%w: bookmark timestamp", ErrInvalidInput)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return repository.SuggestionCursor{}, fmt.Errorf("%w: bookmark key", ErrInvalidInput)
	}
	return repository.SuggestionCursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: n}, nil
}

func suggestionText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: suggestion is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > MaxSuggestionLength {
		return "", fmt.Errorf("%w: suggestion exceeds %d characters", ErrInvalidInput, MaxSuggestionLength)
	}
	return text, nil
}

// suggestionPage trims the extra row fetched to detect a following page.
func suggestionPage(items []model.Suggestion) ([]model.Suggestion, *model.Suggestion) {
	if len(items) > SuggestionsPerPage {
		return items[:SuggestionsPerPage], &items[SuggestionsPerPage]
	}
	return items, nil
}

func (s *pagingService) List(ctx context.Context, bookmark string) (*SuggestionPage, error) {
	var from *repository.SuggestionCursor
	if bookmark != "" {
		c, err := DecodeBookmark(bookmark)
		if err != nil {
			return nil, err
		}
		from = &c
	}
	items, err := s.repo.ListFrom(ctx, from, SuggestionsPerPage+1)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	res := &SuggestionPage{}
	var next *model.Suggestion
	if res.Suggestions, next = suggestionPage(items); next != nil {
		res.Next = EncodeBookmark(repository.SuggestionCursor{CreatedAt: next.CreatedAt, ID: next.ID})
	}
	return res, nil
}

func (s *pagingService) Suggest(ctx context.Context, text string) (*model.Suggestion, error) {
	text, err := suggestionText(text)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, &model.Suggestion{Suggestion: text, CreatedAt: s.now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return out, nil
}

func (s *pagingService) Populate(ctx context.Context) error {
	now := s.now().UTC()
	items := make([]model.Suggestion, populateCount)
	for i := range items {
		items[i] = model.Suggestion{Suggestion: fmt.Sprintf("Suggestion %d", i), CreatedAt: now}
	}
	if err := s.repo.CreateMany(ctx, items); err != nil {
		return fmt.Errorf("populate suggestions: %w", err)
	}
	return nil
}

func (s *pagingService) ListUnique(ctx context.Context, offset string) (*SuggestionPage, error) {
	items, err := s.repo.ListUnique(ctx, offset, SuggestionsPerPage+1)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	res := &SuggestionPage{}
	var next *model.Suggestion
	if res.Suggestions, next = suggestionPage(items); next != nil {
		res.Next = next.When
	}
	return res, nil
}

// whenKey is the creation time to the second plus a per-contributor unique suffix, so equal timestamps
// still give distinct, totally ordered keys.
func (s *pagingService) whenKey(ctx context.Context, email string, created time.Time) (string, error) {
	count, err := s.repo.NextContributorCount(ctx, email)
	if err != nil {
		return "", fmt.Errorf("contributor count: %w", err)
	}
	return created.Format("2006-01-02T15:04:05") + "|" + uniqueUser(email, count), nil
}

func (s *pagingService) SuggestUnique(ctx context.Context, user auth.User, text string) (*model.Suggestion, error) {
	if user.Email == "" {
		return nil, ErrUnauthorized
	}
	text, err := suggestionText(text)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	when, err := s.whenKey(ctx, user.Email, now)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.CreateUnique(ctx, &model.Suggestion{Suggestion: text, CreatedAt: now, When: when})
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return out, nil
}

func (s *pagingService) PopulateUnique(ctx context.Context, user auth.User) error {
	if user.Email == "" {
		return ErrUnauthorized
	}
	now := s.now().UTC()
	for i := 0; i < populateCount; i++ {
		when, err := s.whenKey(ctx, user.Email, now)
		if err != nil {
			return err
		}
		if _, err := s.repo.CreateUnique(ctx, &model.Suggestion{
			Suggestion: fmt.Sprintf("Suggestion %d", i),
			CreatedAt:  now,
			When:       when,
		}); err != nil {
			return fmt.Errorf("populate suggestions: %w", err)
		}
	}
	return nil
}
