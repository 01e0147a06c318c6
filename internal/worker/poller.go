package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"appsamples/internal/model"
	"appsamples/internal/queue"
)

// ErrKeepLease is returned by handlers that are not done with a task. The task is left leased and
// handed out again once the lease runs out; nothing is logged as a failure.
var ErrKeepLease = errors.New("keep lease")

// Handler processes one leased task. A nil error acknowledges (deletes) the task.
type Handler func(ctx context.Context, task model.Task) error

// PollerConfig configures a Poller.
type PollerConfig struct {
	Queue    string
	Lease    time.Duration
	Batch    int
	Interval time.Duration
}

// Poller leases tasks from one queue and dispatches them to a handler.
type Poller struct {
	cfg     PollerConfig
	queue   queue.Queue
	handle  Handler
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
	metrics *Metrics
}

// NewPoller builds a Poller. Leasing goes through a circuit breaker so a failing database is not
// hammered every interval.
func NewPoller(cfg PollerConfig, q queue.Queue, h Handler, log *zap.Logger, m *Metrics) *Poller {
	if cfg.Batch <= 0 {
		cfg.Batch = 1
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 300 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if m == nil {
		m = nopMetrics()
	}
	log = log.With(zap.String("component", "worker"), zap.String("queue", cfg.Queue))

	p := &Poller{cfg: cfg, queue: q, handle: h, log: log, metrics: m}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "lease-" + cfg.Queue,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("worker_breaker_state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return p
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("worker_started",
		zap.Duration("lease", p.cfg.Lease),
		zap.Int("batch", p.cfg.Batch),
		zap.Duration("interval", p.cfg.Interval),
	)
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		n, err := p.Poll(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.log.Error("worker_poll_failed", zap.Error(err))
		}
		// A full batch means more work is probably waiting.
		if n > 0 && n == p.cfg.Batch && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			p.log.Info("worker_stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll leases one batch and handles it, returning how many tasks were leased.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.queue.Lease(ctx, p.cfg.Queue, p.cfg.Lease, p.cfg.Batch)
	})
	if err != nil {
		return 0, fmt.Errorf("lease: %w", err)
	}
	tasks := out.([]model.Task)
	p.metrics.leased.WithLabelValues(p.cfg.Queue).Add(float64(len(tasks)))

	for _, task := range tasks {
		p.dispatch(ctx, task)
	}
	return len(tasks), nil
}

func (p *Poller) dispatch(ctx context.Context, task model.Task) {
	start := time.Now()
	log := p.log.With(zap.String("task", task.Name), zap.Int("retry_count", task.RetryCount))

	err := p.handle(ctx, task)
	p.metrics.duration.WithLabelValues(p.cfg.Queue).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		if err := p.queue.Delete(ctx, p.cfg.Queue, task.Name); err != nil {
			log.Error("worker_ack_failed", zap.Error(err))
			return
		}
		p.metrics.deleted.WithLabelValues(p.cfg.Queue).Inc()
		log.Info("worker_task_done", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	case errors.Is(err, ErrKeepLease):
		log.Debug("worker_task_deferred")
	default:
		p.metrics.failed.WithLabelValues(p.cfg.Queue).Inc()
		log.Error("worker_task_failed", zap.Error(err), zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}
