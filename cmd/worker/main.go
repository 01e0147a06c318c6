package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"appsamples/internal/auth"
	"appsamples/internal/cache"
	"appsamples/internal/config"
	"appsamples/internal/database"
	"appsamples/internal/database/migration"
	handlers "appsamples/internal/http/handler"
	"appsamples/internal/logger"
	"appsamples/internal/otel"
	"appsamples/internal/queue"
	"appsamples/internal/repository/postgres"
	"appsamples/internal/service"
	"appsamples/internal/storage"
	"appsamples/internal/worker"
)

func main() {
	cfg := config.Load()
	loc := cfg.Log.Location()
	log := logger.New(cfg.Log.Level, loc).With(zap.String("service", "appsamples-worker"))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "appsamples-worker", log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("db_migration_failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := worker.NewMetrics(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	tasks := queue.NewPostgresQueue(db)
	runner := worker.ExecRunner{}

	handlersByQueue := make(map[string]worker.Handler, len(cfg.Worker.Queues))
	for _, name := range cfg.Worker.Queues {
		switch name {
		case queue.Tally:
			kv, rdb, err := cache.NewRedis(cfg.Redis)
			if err != nil {
				log.Fatal("cache_connect_failed", zap.Error(err))
			}
			defer rdb.Close()
			voting := service.NewVotingService(tasks, postgres.NewTallyPostgres(db), kv)
			handlersByQueue[name] = worker.TallyHandler(voting, log)

		case queue.Photostitch:
			objStore, err := storage.NewMinIO(cfg.MinIO)
			if err != nil {
				log.Fatal("storage_init_failed", zap.Error(err))
			}
			stitcher := worker.NewStitcher(worker.StitcherConfig{
				WorkDir:  cfg.Worker.WorkDir,
				LogDir:   cfg.Worker.LogDir,
				Location: loc,
			}, objStore, runner, log, metrics)
			handlersByQueue[name] = stitcher.Handle

		case queue.ImageConvert:
			tokens, err := auth.NewTaskTokens(cfg.Auth.TaskSecret, cfg.Auth.TokenTTL)
			if err != nil {
				log.Fatal("task_tokens_init_failed", zap.Error(err))
			}
			flipper, err := worker.NewFlipper(worker.FlipperConfig{
				Command:   cfg.Worker.FlipCommand,
				OutputURL: cfg.Worker.OutputURL,
			}, runner, tokens, log)
			if err != nil {
				log.Fatal("flipper_init_failed", zap.Error(err))
			}
			handlersByQueue[name] = flipper.Handle

		default:
			log.Fatal("worker_queue_unknown", zap.String("queue", name))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, h := range handlersByQueue {
		p := worker.NewPoller(worker.PollerConfig{
			Queue:    name,
			Lease:    time.Duration(cfg.Worker.LeaseSeconds) * time.Second,
			Batch:    cfg.Worker.BatchSize,
			Interval: cfg.Worker.PollInterval,
		}, tasks, h, log, metrics)
		g.Go(func() error { return p.Run(gctx) })
	}

	if cfg.Worker.MetricsAddr != "off" {
		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Get("/healthz", handlers.LivenessProbe())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		g.Go(func() error {
			<-gctx.Done()
			return app.ShutdownWithTimeout(5 * time.Second)
		})
		g.Go(func() error {
			log.Info("worker_metrics_listening", zap.String("addr", cfg.Worker.MetricsAddr))
			return app.Listen(cfg.Worker.MetricsAddr)
		})
	}

	log.Info("worker_started", zap.Strings("queues", cfg.Worker.Queues))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker_stopped", zap.Error(err))
	} else {
		log.Info("worker_stopped")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn("tracing_shutdown_failed", zap.Error(err))
	}
}
