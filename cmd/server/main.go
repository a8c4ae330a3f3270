package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/tayar/config"
	"github.com/d60-Lab/tayar/internal/api/handler"
	"github.com/d60-Lab/tayar/internal/api/router"
	"github.com/d60-Lab/tayar/internal/ingest"
	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/internal/seed"
	"github.com/d60-Lab/tayar/internal/service"
	"github.com/d60-Lab/tayar/pkg/database"
	"github.com/d60-Lab/tayar/pkg/logger"
	"github.com/d60-Lab/tayar/pkg/tracing"
)

// @title Tayar API
// @version 1.0
// @description 技术资讯聚合服务
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	store := repository.NewStore(db)
	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, store); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	lock, closeLock, err := ingest.NewRunLockFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLock() }()

	pipeline := ingest.NewPipeline(
		store,
		ingest.NewHTTPFetcher(cfg.Ingest.UserAgent, cfg.Ingest.FetchTimeout),
		cfg.Feeds,
		lock,
		ingest.Options{MaxItemsPerFeed: cfg.Ingest.MaxItemsPerFeed, PlaceholderImage: cfg.Ingest.PlaceholderImage},
	)
	stopScheduler := ingest.NewScheduler(pipeline, cfg.Ingest.InitialDelay, cfg.Ingest.Interval).Start()

	enricher := service.NewEnricher(store)
	h := handler.New(
		service.NewArticleService(store, enricher),
		service.NewEngagementService(store, enricher),
		service.NewCatalogService(store),
		pipeline,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.Setup(cfg, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := stopScheduler(shutdownCtx); err != nil {
		logger.Warn("scheduler shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}
