package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-needs/internal/cache"
	"product-needs/internal/config"
	"product-needs/internal/database"
	"product-needs/internal/handler"
	"product-needs/internal/metrics"
	"product-needs/internal/migration"
	"product-needs/internal/repository"
	"product-needs/internal/router"
	"product-needs/internal/seed"
	"product-needs/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("app", cfg.App.Name).Msg("starting product-needs API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := migration.Run(pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	store, closeStore, err := newCacheStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer closeStore()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		if err := m.RegisterCache("entity", store); err != nil {
			return fmt.Errorf("failed to register cache metrics: %w", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	needRepo := repository.NewNeedRepository(pool, logger)
	txManager := database.NewTxManager(pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, txManager, store, logger)
	needService := service.NewNeedService(needRepo, productService, txManager, store, logger)

	if cfg.Seed.Enabled {
		if err := importSeed(ctx, cfg, productService, txManager, logger); err != nil {
			return fmt.Errorf("failed to import seed data: %w", err)
		}
	}

	// Initialize HTTP handlers
	alerts := handler.NewAlerts(cfg.App.Name)
	productHandler := handler.NewProductHandler(productService, alerts, logger)
	needHandler := handler.NewNeedHandler(needService, alerts, logger)

	// Initialize router
	mux := router.New(productHandler, needHandler, m, cfg.App.Name, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCacheStore builds the entity cache for the configured backend and
// returns a function releasing its resources.
func newCacheStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := cache.NewRedisStore(client, cfg.Redis.Prefix, cfg.Cache.TTL())
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Cache.TTL()).Msg("using redis entity cache")
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case config.CacheBackendNone:
		logger.Info().Msg("entity cache disabled")
		return cache.NopStore{}, func() {}, nil

	default:
		logger.Info().
			Int("max_entries", cfg.Cache.MaxEntries).
			Dur("ttl", cfg.Cache.TTL()).
			Msg("using in-memory entity cache")
		return cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.Cache.TTL()), func() {}, nil
	}
}

// importSeed fills an empty catalogue from the configured seed files,
// reading from S3 first when it is enabled.
func importSeed(ctx context.Context, cfg *config.Config, products service.ProductService, tx database.Transactor, logger zerolog.Logger) error {
	fileLoader := seed.NewFileLoader(logger)
	var loader seed.Loader = fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
		}
	}

	imported, err := seed.NewImporter(loader, products, tx, logger).Import(ctx, cfg.Seed.Files)
	if err != nil {
		return err
	}

	logger.Info().Int("products", imported).Msg("seed data imported")
	return nil
}
