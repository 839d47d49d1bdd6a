package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/agrogest/agrogest/internal/app"
	"github.com/agrogest/agrogest/internal/observability"
	"github.com/agrogest/agrogest/internal/shared"
	"github.com/agrogest/agrogest/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	metrics := observability.NewMetrics()

	var (
		publisher  shared.AuditPublisher = shared.NopAuditPublisher{}
		jobHandler *jobs.Handler
	)
	if cfg.AuditEnabled {
		client := jobs.NewClient(cfg.RedisClientOpt(), metrics.Jobs())
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		publisher = client

		inspector := asynq.NewInspector(cfg.RedisClientOpt())
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	services, err := app.NewServices(cfg, backends, logger, metrics, publisher)
	if err != nil {
		return err
	}
	if _, err := services.Bootstrap(ctx, cfg, logger); err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.AppAddr,
		Handler: app.NewRouter(app.RouterParams{
			Logger:     logger,
			Config:     cfg,
			Services:   services,
			JobHandler: jobHandler,
			Metrics:    metrics,
		}),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
