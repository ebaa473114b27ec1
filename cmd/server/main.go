package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/duesoon/internal"
	"github.com/DukeRupert/duesoon/internal/archive"
	"github.com/DukeRupert/duesoon/internal/auth"
	"github.com/DukeRupert/duesoon/internal/dispatch"
	"github.com/DukeRupert/duesoon/internal/dispatch/mock"
	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/handler"
	"github.com/DukeRupert/duesoon/internal/jobs"
	"github.com/DukeRupert/duesoon/internal/metrics"
	"github.com/DukeRupert/duesoon/internal/middleware"
	"github.com/DukeRupert/duesoon/internal/repository"
	"github.com/DukeRupert/duesoon/internal/service"
	"github.com/DukeRupert/duesoon/internal/usage"
	"github.com/DukeRupert/duesoon/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel, "server")

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)
	store := service.NewPostgresStore(repo)

	// ==========================================================================
	// Adapters
	// ==========================================================================

	counter, closeCounter, err := newUsageCounter(cfg, repo)
	if err != nil {
		return fmt.Errorf("usage counter initialization failed: %w", err)
	}
	defer closeCounter()

	gateway, closeGateway, err := newGateway(cfg, logger)
	if err != nil {
		return fmt.Errorf("dispatch gateway initialization failed: %w", err)
	}
	defer closeGateway()

	reports, err := newArchive(cfg, logger)
	if err != nil {
		return fmt.Errorf("archive initialization failed: %w", err)
	}

	logger.Info("Adapters ready",
		"dispatch", cfg.DispatchProvider,
		"usage", cfg.UsageBackend,
		"archive", cfg.ArchiveProvider,
	)

	// ==========================================================================
	// Services
	// ==========================================================================

	limits := domain.PlanLimits{
		domain.PlanTierBasic: int64(cfg.PlanLimitBasic),
		domain.PlanTierPro:   int64(cfg.PlanLimitPro),
	}
	quotaService := service.NewQuotaService(store, counter, limits, logger)
	itemService := service.NewItemService(store, logger)
	sweepService := service.NewSweepService(service.SweepDeps{
		Store:       store,
		Quota:       quotaService,
		Usage:       counter,
		Gateway:     gateway,
		DispatchLog: store,
		Archive:     reports,
	}, service.SweepConfig{DispatchTimeout: cfg.DispatchTimeout}, logger)

	// ==========================================================================
	// Scheduled jobs
	// ==========================================================================

	w, err := worker.New(worker.Config{
		JobTimeout:      cfg.SweepJobTimeout,
		ShutdownTimeout: 30 * time.Second,
	}, logger)
	if err != nil {
		return fmt.Errorf("worker initialization failed: %w", err)
	}

	if cfg.SweepSchedule != "" {
		if err := w.Register(cfg.SweepSchedule, jobs.NewSweepRemindersJob(sweepService, logger)); err != nil {
			return err
		}
	} else {
		logger.Info("Scheduled sweep disabled; use the internal trigger")
	}
	if err := w.Register(cfg.PruneSchedule, jobs.NewPruneDispatchLogJob(store, cfg.DispatchLogRetention, logger)); err != nil {
		return err
	}
	w.Start()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	verifier, err := auth.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("token verifier initialization failed: %w", err)
	}
	authMw := middleware.NewAuthMiddleware(verifier, cfg.InternalAPIKey, logger)
	if cfg.InternalAPIKey == "" {
		logger.Warn("INTERNAL_API_KEY is empty; the sweep trigger rejects every call")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	go limiter.RunCleanup(time.Minute, stopCleanup)
	rateLimit := middleware.NewRateLimitMiddleware(limiter, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword, logger)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	reminderHandler := handler.NewReminderHandler(quotaService, itemService, sweepService, logger)
	reminderHandler.RegisterRoutes(mux,
		middleware.Stack(rateLimit.Limit, authMw.RequireUser),
		authMw.RequireInternalKey,
	)

	requestLogging := middleware.NewRequestLoggingMiddleware(logger)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())
	root := middleware.Stack(
		requestLogging.Handler,
		metrics.Middleware,
		securityHeaders.Handler,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	w.Stop()

	logger.Info("Graceful shutdown complete")
	return nil
}

// newUsageCounter builds the monthly usage counter for the configured backend.
func newUsageCounter(cfg *internal.Config, repo *repository.Queries) (usage.Counter, func(), error) {
	if cfg.UsageBackend != internal.UsageRedis {
		return usage.NewPostgresCounter(repo), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	counter := usage.NewRedisCounter(client, usage.DefaultRedisPrefix, usage.DefaultRedisTTL)
	return counter, func() { client.Close() }, nil
}

// newGateway builds the dispatch gateway for the configured provider.
func newGateway(cfg *internal.Config, logger *slog.Logger) (dispatch.Gateway, func(), error) {
	noop := func() {}

	switch cfg.DispatchProvider {
	case internal.DispatchSMTP:
		return dispatch.NewSMTPGateway(dispatch.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		}, logger), noop, nil

	case internal.DispatchAMQP:
		producer, err := dispatch.NewEventProducer(cfg.AMQPURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		return dispatch.NewAMQPGateway(producer, cfg.AMQPExchange, logger), producer.Close, nil

	case internal.DispatchTelegram:
		bot, err := dispatch.NewTelegramBot(cfg.TelegramBotToken)
		if err != nil {
			return nil, nil, fmt.Errorf("create telegram bot: %w", err)
		}
		return dispatch.NewTelegramGateway(bot, logger), noop, nil

	default:
		logger.Warn("Using mock dispatch gateway; reminders are logged, not delivered")
		return mock.New(logger), noop, nil
	}
}

// newArchive builds the sweep report archive, or nil when disabled.
func newArchive(cfg *internal.Config, logger *slog.Logger) (archive.Archive, error) {
	switch cfg.ArchiveProvider {
	case archive.ProviderLocal:
		return archive.NewLocalArchive(archive.LocalConfig{BasePath: cfg.LocalArchivePath}, logger)
	case archive.ProviderR2:
		return archive.NewR2Archive(archive.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		}, logger)
	default:
		return nil, nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
