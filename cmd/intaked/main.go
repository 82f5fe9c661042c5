package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/freightdock/intake/internal/async"
	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/export"
	"github.com/freightdock/intake/internal/ingest"
	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/server"
	"github.com/freightdock/intake/internal/vendors"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orders, healthCheck, cleanup, err := openOrderStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := vendors.NewDefaultRegistry(logger)
	processor := pipeline.NewProcessor(registry, orders, logger)
	exporter := export.NewService(orders, logger)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithQueueSize(cfg.Ingest.QueueSize),
		async.WithProcessTimeout(cfg.Ingest.ProcessTimeout),
	)

	if cfg.Ingest.WatchDir != "" {
		evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Ingest.WatchDir},
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		}, logger)
		if err != nil {
			logger.Error("failed to start watcher", "dir", cfg.Ingest.WatchDir, "error", err)
			os.Exit(1)
		}
		go func() {
			for path := range evCh {
				_ = queue.Enqueue(ctx, async.Job{Path: path})
			}
		}()
		go func() {
			for err := range errCh {
				logger.Warn("watcher reported error", "error", err)
			}
		}()
		logger.Info("watching drop directory", "dir", cfg.Ingest.WatchDir)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(processor, orders, exporter, healthCheck, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("intake listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
}

// openOrderStore picks the storage backend: Postgres when DB_URL is set,
// SQLite otherwise.
func openOrderStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.OrderRepository, func(r *http.Request) error, func(), error) {
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
			repository.Close(pool, logger)
			return nil, nil, nil, err
		}

		repo := repository.NewPostgresOrderRepository(pool)
		if err := repo.InitSchema(ctx); err != nil {
			repository.Close(pool, logger)
			return nil, nil, nil, err
		}

		health := func(r *http.Request) error {
			return repository.HealthCheck(r.Context(), pool, 3*time.Second, logger)
		}
		cleanup := func() { repository.Close(pool, logger) }
		return repo, health, cleanup, nil
	}

	repo, err := repository.OpenSQLite(cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("using sqlite order store", "path", cfg.Database.SQLitePath)
	cleanup := func() { _ = repo.Close() }
	return repo, nil, cleanup, nil
}
