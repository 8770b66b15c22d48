package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkstitch_backend/internal/adapters/storage"
	"inkstitch_backend/internal/auth"
	"inkstitch_backend/internal/catalog"
	"inkstitch_backend/internal/costs"
	"inkstitch_backend/internal/email"
	apphttp "inkstitch_backend/internal/http"
	"inkstitch_backend/internal/http/router"
	"inkstitch_backend/internal/imports"
	"inkstitch_backend/internal/notification"
	"inkstitch_backend/internal/pricing"
	"inkstitch_backend/internal/quotes"
	"inkstitch_backend/internal/quotes/session"
	"inkstitch_backend/internal/services"
	"inkstitch_backend/migrations"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/db"
	"inkstitch_backend/platform/events"
	"inkstitch_backend/platform/logger"
	"inkstitch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Redis session store for per-user working quotes
	redisClient, err := session.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	// Storage service for price list uploads (MinIO)
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, "price-lists", cfg.GetMinioBucketPriceLists())
	log.Info("storage service initialized", "priceListsBucket", cfg.GetMinioBucketPriceLists())

	// Asynq client for enqueueing price list import jobs
	importsClient, err := imports.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize import queue client", "error", err)
		panic("failed to initialize import queue client: " + err.Error())
	}
	defer func() { _ = importsClient.Close() }()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	authModule := auth.NewModule(pool, cfg, val, log)
	if err := authModule.Service().SeedAdmin(ctx); err != nil {
		log.Error("failed to seed admin account", "error", err)
		panic("failed to seed admin account: " + err.Error())
	}

	pricingModule := pricing.NewModule(pool, eventBus, val, log)
	catalogModule := catalog.NewModule(pool, val, log)
	servicesModule := services.NewModule(pool, val, log)

	costsModule := costs.NewModule(pool, servicesModule.Service(), val, log)
	if err := costsModule.Service().SeedDefaults(ctx); err != nil {
		log.Error("failed to seed cost defaults", "error", err)
		panic("failed to seed cost defaults: " + err.Error())
	}

	quotesModule := quotes.NewModule(
		pool,
		redisClient,
		cfg.GetSessionTTL(),
		quotes.Deps{
			Pricing:  pricingModule.Service(),
			Catalog:  catalogModule.Service(),
			Services: servicesModule.Service(),
			Profit:   costsModule.Service(),
		},
		eventBus,
		cfg,
		val,
		log,
	)

	importsModule := imports.NewModule(pool, storageSvc, importsClient, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			pricingModule,
			catalogModule,
			servicesModule,
			costsModule,
			quotesModule,
			importsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
