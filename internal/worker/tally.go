package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"appsamples/internal/model"
	"appsamples/internal/service"
)

// TallyHandler drains the votes queue each time a tally task is leased. When the votes queue runs
// dry the tally task keeps its lease and comes back after it expires.
func TallyHandler(svc service.VotingService, log *zap.Logger) Handler {
	log = log.With(zap.String("component", "tally"))
	return func(ctx context.Context, task model.Task) error {
		res, err := svc.Tally(ctx)
		if res.Batches > 0 {
			log.Info("tally_batches_stored",
				zap.String("task", task.Name),
				zap.Int("batches", res.Batches),
				zap.Int("votes", res.Votes),
			)
		}
		if service.IsQueueEmpty(err) {
			return ErrKeepLease
		}
		if err == nil {
			return errors.New("tally returned without draining the queue")
		}
		return err
	}
}
