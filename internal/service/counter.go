package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"appsamples/internal/cache"
	"appsamples/internal/repository"
)

const counterTTL = 60 * time.Second

// CounterService defines the sharded counter use cases.
type CounterService interface {
	// Increment adds one to a random shard of the counter.
	Increment(ctx context.Context, name string) error
	// Count returns the counter total.
	Count(ctx context.Context, name string) (int64, error)
	// AddShards raises the shard count by n and returns the new count.
	AddShards(ctx context.Context, name string, n int) (int, error)
}

type counterService struct {
	repo  repository.CounterRepository
	cache cache.Cache
	log   *zap.Logger
	intn  func(int) int
}

// NewCounterService constructs a new CounterService. Cache failures after a stored increment are
// logged to log, which may be nil.
func NewCounterService(repo repository.CounterRepository, c cache.Cache, log *zap.Logger) CounterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &counterService{repo: repo, cache: c, log: log.With(zap.String("component", "counter")), intn: rand.IntN}
}

func counterKey(name string) string {
	return "counter|" + name
}

func counterName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: counter name is required", ErrInvalidInput)
	}
	return name, nil
}

func (s *counterService) Increment(ctx context.Context, name string) error {
	name, err := counterName(name)
	if err != nil {
		return err
	}
	shards, err := s.repo.ShardCount(ctx, name)
	if err != nil {
		return fmt.Errorf("shard count: %w", err)
	}
	if err := s.repo.IncrementShard(ctx, name, s.intn(shards), 1); err != nil {
		return fmt.Errorf("increment shard: %w", err)
	}
	// Only a cached total moves; a missing one is rebuilt from the shards by Count.
	if _, err := s.cache.Incr(ctx, counterKey(name), 1); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("counter_cache_incr_failed", zap.String("counter", name), zap.Error(err))
	}
	return nil
}

func (s *counterService) Count(ctx context.Context, name string) (int64, error) {
	name, err := counterName(name)
	if err != nil {
		return 0, err
	}
	key := counterKey(name)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
	}

	total, err := s.repo.Sum(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("sum shards: %w", err)
	}
	_, _ = s.cache.Add(ctx, key, strconv.FormatInt(total, 10), counterTTL)
	return total, nil
}

func (s *counterService) AddShards(ctx context.Context, name string, n int) (int, error) {
	name, err := counterName(name)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: shard increase must be positive", ErrInvalidInput)
	}
	count, err := s.repo.AddShards(ctx, name, n)
	if err != nil {
		return 0, fmt.Errorf("add shards: %w", err)
	}
	return count, nil
}
