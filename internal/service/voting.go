package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"appsamples/internal/cache"
	"appsamples/internal/model"
	"appsamples/internal/queue"
	"appsamples/internal/repository"
)

// Languages are the choices on the ballot.
var Languages = []string{"Java", "Go", "C++", "Perl", "Python"}

const (
	tallyLease     = 300 * time.Second
	tallyBatch     = 1000
	talliesKey     = "tallies"
	talliesTTL     = 5 * time.Second
	defaultWorkers = 2
)

// TallyResult summarizes one run of the tally loop.
type TallyResult struct {
	Batches int `json:"batches"`
	Votes   int `json:"votes"`
}

// VotingService defines the voterlator use cases.
type VotingService interface {
	// Vote queues a ballot. Choices outside Languages are ignored and report false.
	Vote(ctx context.Context, choice string) (bool, error)
	// Tallies returns the current counts, cached for a few seconds.
	Tallies(ctx context.Context) ([]model.Tally, error)
	// Tally drains the votes queue batch by batch. It always ends with ErrQueueEmpty once nothing is left
	// to lease; the returned result counts what was stored before that.
	Tally(ctx context.Context) (TallyResult, error)
	// Start purges the tally queue and adds workers tally tasks, the i-th delayed by i seconds.
	// workers < 0 selects the default of two.
	Start(ctx context.Context, workers int) (int, error)
}

type votingService struct {
	queue queue.Queue
	repo  repository.TallyRepository
	cache cache.Cache
}

// NewVotingService constructs a new VotingService.
func NewVotingService(q queue.Queue, repo repository.TallyRepository, c cache.Cache) VotingService {
	return &votingService{queue: q, repo: repo, cache: c}
}

func (s *votingService) Vote(ctx context.Context, choice string) (bool, error) {
	if !slices.Contains(Languages, choice) {
		return false, nil
	}
	if _, err := s.queue.Add(ctx, queue.Votes, queue.NewTask{Payload: []byte(choice)}); err != nil {
		return false, fmt.Errorf("queue vote: %w", err)
	}
	return true, nil
}

func (s *votingService) Tallies(ctx context.Context) ([]model.Tally, error) {
	var cached []model.Tally
	if err := cache.GetJSON(ctx, s.cache, talliesKey, &cached); err == nil {
		return cached, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tallies: %w", err)
	}
	_ = cache.SetJSON(ctx, s.cache, talliesKey, items, talliesTTL)
	return items, nil
}

func (s *votingService) Tally(ctx context.Context) (TallyResult, error) {
	var res TallyResult
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		tasks, err := s.queue.Lease(ctx, queue.Votes, tallyLease, tallyBatch)
		if err != nil {
			return res, fmt.Errorf("lease votes: %w", err)
		}
		if len(tasks) == 0 {
			return res, ErrQueueEmpty
		}

		deltas := make(map[string]int64)
		for _, t := range tasks {
			deltas[string(t.Payload)]++
		}
		if err := s.repo.IncrementMany(ctx, deltas); err != nil {
			// Leases run out and the votes are handed out again.
			return res, fmt.Errorf("store tallies: %w", err)
		}
		if err := s.queue.Delete(ctx, queue.Votes, queue.TaskNames(tasks)...); err != nil {
			return res, fmt.Errorf("delete votes: %w", err)
		}

		res.Batches++
		res.Votes += len(tasks)
	}
}

func (s *votingService) Start(ctx context.Context, workers int) (int, error) {
	if workers < 0 {
		workers = defaultWorkers
	}
	if _, err := s.queue.Purge(ctx, queue.Tally); err != nil {
		return 0, fmt.Errorf("purge tally queue: %w", err)
	}
	if workers == 0 {
		return 0, nil
	}

	tasks := make([]queue.NewTask, workers)
	for i := range tasks {
		tasks[i] = queue.NewTask{Countdown: time.Duration(i) * time.Second}
	}
	if _, err := s.queue.Add(ctx, queue.Tally, tasks...); err != nil {
		return 0, fmt.Errorf("add tally tasks: %w", err)
	}
	return workers, nil
}

// IsQueueEmpty reports whether err is the normal end of a tally loop.
func IsQueueEmpty(err error) bool {
	return errors.Is(err, ErrQueueEmpty)
}
