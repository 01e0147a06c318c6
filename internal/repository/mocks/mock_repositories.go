package mocks

import (
	"context"

	"appsamples/internal/model"
	"appsamples/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockGreetingRepository struct {
	mock.Mock
}

func (m *MockGreetingRepository) Create(ctx context.Context, g *model.Greeting) (*model.Greeting, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Greeting), args.Error(1)
}

func (m *MockGreetingRepository) ListRecent(ctx context.Context, guestbook string, limit int) ([]model.Greeting, error) {
	args := m.Called(ctx, guestbook, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Greeting), args.Error(1)
}

type MockTallyRepository struct {
	mock.Mock
}

func (m *MockTallyRepository) List(ctx context.Context) ([]model.Tally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tally), args.Error(1)
}

func (m *MockTallyRepository) IncrementMany(ctx context.Context, deltas map[string]int64) error {
	args := m.Called(ctx, deltas)
	return args.Error(0)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Save(ctx context.Context, img *model.SmallImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockImageRepository) FindByName(ctx context.Context, name string) (*model.SmallImage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SmallImage), args.Error(1)
}

func (m *MockImageRepository) MapTask(ctx context.Context, taskName, imageName string) error {
	args := m.Called(ctx, taskName, imageName)
	return args.Error(0)
}

func (m *MockImageRepository) ImageForTask(ctx context.Context, taskName string) (string, error) {
	args := m.Called(ctx, taskName)
	return args.String(0), args.Error(1)
}

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) ShardCount(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *MockCounterRepository) IncrementShard(ctx context.Context, name string, shard int, delta int64) error {
	args := m.Called(ctx, name, shard, delta)
	return args.Error(0)
}

func (m *MockCounterRepository) Sum(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) AddShards(ctx context.Context, name string, n int) (int, error) {
	args := m.Called(ctx, name, n)
	return args.Int(0), args.Error(1)
}

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) NextVoterCount(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteRepository) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id int64) (*model.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) ListNewest(ctx context.Context, offset string, limit int) ([]model.Quote, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

func (m *MockQuoteRepository) ListByRank(ctx context.Context, pq repository.PageQuery) ([]model.Quote, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quote), args.Error(1)
}

// ApplyVote runs mutate against the quote passed as the third return value (if any) with the
// previous vote passed as the fourth, so tests can observe what the service computes.
func (m *MockQuoteRepository) ApplyVote(ctx context.Context, id int64, email string, vote int, mutate repository.QuoteMutator) (bool, error) {
	args := m.Called(ctx, id, email, vote, mutate)
	if len(args) > 2 {
		if q, ok := args.Get(2).(*model.Quote); ok && q != nil {
			previous := 0
			if len(args) > 3 {
				previous = args.Int(3)
			}
			changed := mutate(q, previous)
			return changed, args.Error(1)
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) VoteOf(ctx context.Context, id int64, email string) (int, error) {
	args := m.Called(ctx, id, email)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteRepository) MarkVoted(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockQuoteRepository) Voter(ctx context.Context, email string) (*model.Voter, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voter), args.Error(1)
}

type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) CreateMany(ctx context.Context, items []model.Suggestion) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockSuggestionRepository) ListFrom(ctx context.Context, from *repository.SuggestionCursor, limit int) ([]model.Suggestion, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) NextContributorCount(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)
	return args.Int(0), args.Error(1)
}

func (m *MockSuggestionRepository) CreateUnique(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) ListUnique(ctx context.Context, offset string, limit int) ([]model.Suggestion, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Suggestion), args.Error(1)
}
