// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and hold no business rules: lookups that miss return
// sql.ErrNoRows and services translate it.
package repository

import (
	"context"
	"time"

	"appsamples/internal/model"
)

// GreetingRepository persists guestbook greetings.
type GreetingRepository interface {
	// Create inserts a greeting and returns it with its generated ID and timestamp.
	Create(ctx context.Context, g *model.Greeting) (*model.Greeting, error)
	// ListRecent returns up to limit greetings of a guestbook, newest first.
	ListRecent(ctx context.Context, guestbook string, limit int) ([]model.Greeting, error)
}

// TallyRepository persists vote tallies.
type TallyRepository interface {
	// List returns every tally ordered by name.
	List(ctx context.Context) ([]model.Tally, error)
	// IncrementMany adds each delta to its tally inside one transaction, creating missing tallies.
	IncrementMany(ctx context.Context, deltas map[string]int64) error
}

// ImageRepository persists image metadata and the task-to-image mapping of the flipper.
type ImageRepository interface {
	// Save inserts or replaces an image row.
	Save(ctx context.Context, img *model.SmallImage) error
	// FindByName returns an image by its name.
	FindByName(ctx context.Context, name string) (*model.SmallImage, error)
	// MapTask records which image a queue task processes.
	MapTask(ctx context.Context, taskName, imageName string) error
	// ImageForTask returns the image name mapped to a task.
	ImageForTask(ctx context.Context, taskName string) (string, error)
}

// CounterRepository persists sharded counters.
type CounterRepository interface {
	// ShardCount returns the configured shard count, or model.InitialShards when the counter is unknown.
	ShardCount(ctx context.Context, name string) (int, error)
	// IncrementShard adds delta to one shard in a transaction, creating it when absent.
	IncrementShard(ctx context.Context, name string, shard int, delta int64) error
	// Sum adds up every shard of the counter.
	Sum(ctx context.Context, name string) (int64, error)
	// AddShards grows the shard count by n in a transaction and returns the new count.
	AddShards(ctx context.Context, name string, n int) (int, error)
}

// QuoteMutator adjusts a locked quote for a new vote given the voter's previous vote.
// It returns false to leave both rows untouched.
type QuoteMutator func(q *model.Quote, previous int) bool

// QuoteRepository persists quotes, votes and voters.
type QuoteRepository interface {
	// NextVoterCount bumps the voter's quote counter, marks it as a quote author and returns the new count.
	NextVoterCount(ctx context.Context, email string) (int, error)
	// Create inserts a quote and returns it with its ID.
	Create(ctx context.Context, q *model.Quote) (*model.Quote, error)
	// FindByID returns a quote.
	FindByID(ctx context.Context, id int64) (*model.Quote, error)
	// Delete removes a quote and its votes.
	Delete(ctx context.Context, id int64) error
	// ListNewest returns up to limit quotes with creation_order <= offset (all when offset is empty),
	// newest first.
	ListNewest(ctx context.Context, offset string, limit int) ([]model.Quote, error)
	// ListByRank returns a rank-ordered page.
	ListByRank(ctx context.Context, pq PageQuery) ([]model.Quote, error)
	// ApplyVote locks the quote, loads the user's previous vote and, when mutate agrees, stores both the
	// quote and the new vote in one transaction. It reports whether anything was written.
	ApplyVote(ctx context.Context, id int64, email string, vote int, mutate QuoteMutator) (bool, error)
	// VoteOf returns the user's vote on a quote (0 when none).
	VoteOf(ctx context.Context, id int64, email string) (int, error)
	// MarkVoted sets has_voted for the user.
	MarkVoted(ctx context.Context, email string) error
	// Voter returns the user's progress row; unknown users yield a zero Voter.
	Voter(ctx context.Context, email string) (*model.Voter, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// SuggestionCursor is the position of a suggestion in the created DESC, id ASC order.
type SuggestionCursor struct {
	CreatedAt time.Time
	ID        int64
}

// SuggestionRepository persists the two suggestion listings of the paging demo.
type SuggestionRepository interface {
	// Create inserts a suggestion into the keyed listing.
	Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error)
	// CreateMany inserts suggestions into the keyed listing in one transaction.
	CreateMany(ctx context.Context, items []model.Suggestion) error
	// ListFrom returns up to limit suggestions starting at from (inclusive), ordered by created_at DESC
	// then id ASC. A nil cursor starts at the newest.
	ListFrom(ctx context.Context, from *SuggestionCursor, limit int) ([]model.Suggestion, error)

	// NextContributorCount bumps the contributor's counter in a transaction and returns the new count.
	NextContributorCount(ctx context.Context, email string) (int, error)
	// CreateUnique inserts a suggestion into the unique-key listing.
	CreateUnique(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error)
	// ListUnique returns up to limit suggestions with when <= offset (all when offset is empty),
	// newest first.
	ListUnique(ctx context.Context, offset string, limit int) ([]model.Suggestion, error)
}
