package mocks

import (
	"context"
	"time"

	"appsamples/internal/model"
	"appsamples/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Add(ctx context.Context, q string, tasks ...queue.NewTask) ([]model.Task, error) {
	args := m.Called(ctx, q, tasks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockQueue) Lease(ctx context.Context, q string, lease time.Duration, max int) ([]model.Task, error) {
	args := m.Called(ctx, q, lease, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockQueue) Delete(ctx context.Context, q string, names ...string) error {
	args := m.Called(ctx, q, names)
	return args.Error(0)
}

func (m *MockQueue) Purge(ctx context.Context, q string) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQueue) Stats(ctx context.Context, q string) (queue.Stats, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queue.Stats), args.Error(1)
}
