package mocks

import (
	"context"
	"io"

	"appsamples/internal/auth"
	"appsamples/internal/model"
	"appsamples/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockGuestbookService struct {
	mock.Mock
}

func (m *MockGuestbookService) List(ctx context.Context, guestbook string) ([]model.Greeting, error) {
	args := m.Called(ctx, guestbook)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Greeting), args.Error(1)
}

func (m *MockGuestbookService) Sign(ctx context.Context, guestbook, author, content string) (*model.Greeting, error) {
	args := m.Called(ctx, guestbook, author, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Greeting), args.Error(1)
}

type MockVotingService struct {
	mock.Mock
}

func (m *MockVotingService) Vote(ctx context.Context, choice string) (bool, error) {
	args := m.Called(ctx, choice)
	return args.Bool(0), args.Error(1)
}

func (m *MockVotingService) Tallies(ctx context.Context) ([]model.Tally, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tally), args.Error(1)
}

func (m *MockVotingService) Tally(ctx context.Context) (service.TallyResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.TallyResult), args.Error(1)
}

func (m *MockVotingService) Start(ctx context.Context, workers int) (int, error) {
	args := m.Called(ctx, workers)
	return args.Int(0), args.Error(1)
}

type MockPhotostitchService struct {
	mock.Mock
}

func (m *MockPhotostitchService) Submit(ctx context.Context, email, batch string, archive io.ReaderAt, size int64) (*service.SubmitResult, error) {
	args := m.Called(ctx, email, batch, archive, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockPhotostitchService) Batches(ctx context.Context, email string) ([]model.StitchState, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StitchState), args.Error(1)
}

func (m *MockPhotostitchService) Link(ctx context.Context, email, batch, file string) (string, error) {
	args := m.Called(ctx, email, batch, file)
	return args.String(0), args.Error(1)
}

type MockImageFlipService struct {
	mock.Mock
}

func (m *MockImageFlipService) Upload(ctx context.Context, name string, data []byte) (*model.SmallImage, error) {
	args := m.Called(ctx, name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SmallImage), args.Error(1)
}

func (m *MockImageFlipService) StoreProcessed(ctx context.Context, taskName string, data []byte) (*model.SmallImage, error) {
	args := m.Called(ctx, taskName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SmallImage), args.Error(1)
}

func (m *MockImageFlipService) Open(ctx context.Context, name string) (io.ReadCloser, *model.SmallImage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.SmallImage), args.Error(2)
}

func (m *MockImageFlipService) Status(ctx context.Context, name string) (*service.ImageStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageStatus), args.Error(1)
}

type MockCounterService struct {
	mock.Mock
}

func (m *MockCounterService) Increment(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockCounterService) Count(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterService) AddShards(ctx context.Context, name string, n int) (int, error) {
	args := m.Called(ctx, name, n)
	return args.Int(0), args.Error(1)
}

type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) AddQuote(ctx context.Context, user auth.User, text, uri string) (*model.Quote, error) {
	args := m.Called(ctx, user, text, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) DeleteQuote(ctx context.Context, id int64, user auth.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockQuoteService) GetQuote(ctx context.Context, id int64) (*model.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteService) Newest(ctx context.Context, offset string) (*service.QuotePage, error) {
	args := m.Called(ctx, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuotePage), args.Error(1)
}

func (m *MockQuoteService) Ranked(ctx context.Context, page int) (*service.QuotePage, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuotePage), args.Error(1)
}

func (m *MockQuoteService) SetVote(ctx context.Context, id int64, user auth.User, vote int) error {
	args := m.Called(ctx, id, user, vote)
	return args.Error(0)
}

func (m *MockQuoteService) Voted(ctx context.Context, id int64, user auth.User) (int, error) {
	args := m.Called(ctx, id, user)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteService) Progress(ctx context.Context, user auth.User) (*service.Progress, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Progress), args.Error(1)
}

type MockPagingService struct {
	mock.Mock
}

func (m *MockPagingService) List(ctx context.Context, bookmark string) (*service.SuggestionPage, error) {
	args := m.Called(ctx, bookmark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SuggestionPage), args.Error(1)
}

func (m *MockPagingService) Suggest(ctx context.Context, text string) (*model.Suggestion, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestion), args.Error(1)
}

func (m *MockPagingService) Populate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPagingService) ListUnique(ctx context.Context, offset string) (*service.SuggestionPage, error) {
	args := m.Called(ctx, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SuggestionPage), args.Error(1)
}

func (m *MockPagingService) SuggestUnique(ctx context.Context, user auth.User, text string) (*model.Suggestion, error) {
	args := m.Called(ctx, user, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Suggestion), args.Error(1)
}

func (m *MockPagingService) PopulateUnique(ctx context.Context, user auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
