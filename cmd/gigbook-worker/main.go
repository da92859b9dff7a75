package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gigbook/internal/amqp"
	"gigbook/internal/config"
	"gigbook/internal/log"
	"gigbook/internal/report"
	"gigbook/internal/report/google"
	"gigbook/internal/report/memory"
	"gigbook/internal/storage"
	"gigbook/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", log.FieldError, err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, err := newReportWriter(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize report backend", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to amqp", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewRecomputeWorker(repo, reports)

	// Catch up on anything that changed while the worker was down before
	// handing control to the message stream.
	if err := w.StartupReconcile(ctx); err != nil {
		logger.Error("startup reconcile failed", log.FieldError, err)
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("consuming recompute messages", "queue", cfg.AMQPQueue)
		return amqpClient.ConsumeUserRecompute(ctx, func(msg *amqp.UserRecomputeMessage) error {
			return w.HandleRecomputeMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		w.RunPeriodicReconcile(ctx, cfg.ReconcileInterval)
		return nil
	})

	logger.Info("worker started", "reconcile_interval", cfg.ReconcileInterval.String())

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("worker error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("worker stopped")
}

func newReportWriter(ctx context.Context, cfg *config.Config) (report.Writer, error) {
	switch cfg.ReportBackend {
	case "sheets":
		return google.NewFromEnv(ctx)
	case "memory":
		return memory.New(), nil
	default:
		return nil, nil
	}
}
