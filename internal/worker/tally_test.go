package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"appsamples/internal/model"
	"appsamples/internal/service"
	"appsamples/internal/service/mocks"
)

func TestTallyHandler(t *testing.T) {
	ctx := context.Background()
	task := model.Task{Name: "tally-0"}

	t.Run("drained queue keeps the lease", func(t *testing.T) {
		svc := new(mocks.MockVotingService)
		svc.On("Tally", mock.Anything).Return(service.TallyResult{Batches: 2, Votes: 1500}, service.ErrQueueEmpty).Once()

		err := TallyHandler(svc, zap.NewNop())(ctx, task)
		assert.ErrorIs(t, err, ErrKeepLease)
		svc.AssertExpectations(t)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		svc := new(mocks.MockVotingService)
		svc.On("Tally", mock.Anything).Return(service.TallyResult{}, errors.New("store tallies: deadlock")).Once()

		err := TallyHandler(svc, zap.NewNop())(ctx, task)
		assert.EqualError(t, err, "store tallies: deadlock")
	})
}
