package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"appsamples/internal/cache"
	"appsamples/internal/model"
	"appsamples/internal/repository"
)

const (
	// GreetingsPerPage is how many greetings a guestbook shows.
	GreetingsPerPage = 10
	// MaxGreetingLength bounds the content of one greeting, in runes.
	MaxGreetingLength = 2000

	greetingsTTL = 10 * time.Second
)

// GuestbookService defines the guestbook use cases.
type GuestbookService interface {
	// List returns the newest greetings of a guestbook, served from cache when fresh.
	List(ctx context.Context, guestbook string) ([]model.Greeting, error)
	// Sign stores a greeting. author may be empty for anonymous visitors.
	Sign(ctx context.Context, guestbook, author, content string) (*model.Greeting, error)
}

type guestbookService struct {
	repo  repository.GreetingRepository
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

// NewGuestbookService constructs a new GuestbookService. Cache failures after a stored write are
// logged to log, which may be nil.
func NewGuestbookService(repo repository.GreetingRepository, c cache.Cache, log *zap.Logger) GuestbookService {
	if log == nil {
		log = zap.NewNop()
	}
	return &guestbookService{repo: repo, cache: c, log: log.With(zap.String("component", "guestbook")), now: time.Now}
}

// GuestbookName normalizes the guestbook_name parameter.
func GuestbookName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.DefaultGuestbook
	}
	return name
}

func greetingsKey(guestbook string) string {
	return "greetings|" + guestbook
}

func (s *guestbookService) List(ctx context.Context, guestbook string) ([]model.Greeting, error) {
	guestbook = GuestbookName(guestbook)
	key := greetingsKey(guestbook)

	var cached []model.Greeting
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return cached, nil
	}

	items, err := s.repo.ListRecent(ctx, guestbook, GreetingsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list greetings: %w", err)
	}
	// A failed cache fill only costs the next request a query.
	_ = cache.SetJSON(ctx, s.cache, key, items, greetingsTTL)
	return items, nil
}

func (s *guestbookService) Sign(ctx context.Context, guestbook, author, content string) (*model.Greeting, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxGreetingLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, MaxGreetingLength)
	}

	guestbook = GuestbookName(guestbook)
	g, err := s.repo.Create(ctx, &model.Greeting{
		Guestbook: guestbook,
		Author:    author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	// The greeting is stored; a stale list only lives until greetingsTTL.
	if err := s.cache.Delete(ctx, greetingsKey(guestbook)); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("greetings_invalidate_failed", zap.String("guestbook", guestbook), zap.Error(err))
	}
	return g, nil
}
