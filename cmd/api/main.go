package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"appsamples/docs"
	"appsamples/internal/auth"
	"appsamples/internal/cache"
	"appsamples/internal/config"
	"appsamples/internal/database"
	"appsamples/internal/database/migration"
	handlers "appsamples/internal/http/handler"
	"appsamples/internal/http/middleware"
	"appsamples/internal/logger"
	"appsamples/internal/otel"
	"appsamples/internal/queue"
	"appsamples/internal/repository/postgres"
	"appsamples/internal/service"
	"appsamples/internal/storage"
)

// @title App Samples API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Log.Location()
	log := logger.New(cfg.Log.Level, loc).With(zap.String("service", "appsamples-api"))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "appsamples-api", log)
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

	kv, rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal("cache_connect_failed", zap.Error(err))
	}
	defer rdb.Close()

	// Reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal("storage_init_failed", zap.Error(err))
	}

	tokens, err := auth.NewTaskTokens(cfg.Auth.TaskSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("task_tokens_init_failed", zap.Error(err))
	}

	tasks := queue.NewPostgresQueue(db)

	deps := handlers.Dependencies{
		DB:          db,
		Tokens:      tokens,
		Guestbook:   service.NewGuestbookService(postgres.NewGreetingPostgres(db), kv, log),
		Voting:      service.NewVotingService(tasks, postgres.NewTallyPostgres(db), kv),
		Photostitch: service.NewPhotostitchService(objStore, tasks),
		ImageFlip:   service.NewImageFlipService(objStore, postgres.NewImagePostgres(db), tasks),
		Counter:     service.NewCounterService(postgres.NewCounterPostgres(db), kv, log),
		Quotes:      service.NewQuoteService(postgres.NewQuotePostgres(db), kv),
		Paging:      service.NewPagingService(postgres.NewSuggestionPostgres(db)),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}
	deps.Gatherer = reg

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    80 << 20,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(metrics.Handler())
	app.Use(middleware.User(cfg.Auth.IsAdmin))

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown", zap.String("status", "starting"))
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Error("server_failed", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn("tracing_shutdown_failed", zap.Error(err))
	}
}
