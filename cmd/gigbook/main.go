package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gigbook/internal/amqp"
	"gigbook/internal/cache"
	"gigbook/internal/config"
	gighttp "gigbook/internal/http"
	"gigbook/internal/log"
	"gigbook/internal/services"
	"gigbook/internal/storage"
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
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to initialize storage", log.FieldError, err)
		os.Exit(1)
	}
	defer repo.Close()

	// Recompute messages are best-effort from the API's point of view: the
	// worker's periodic reconcile covers any publish the broker never saw,
	// so a missing broker degrades totals freshness rather than the API.
	var publisher services.RecomputePublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("amqp unavailable, recompute messages disabled", log.FieldError, err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	statsCache := cache.NewLRUCache[any](cfg.StatsCacheSize, cfg.StatsCacheTTL)
	stats := services.NewStatsService(repo, statsCache, cfg.ExpiringSoonWindow())

	svc := gighttp.Services{
		Users:    services.NewUserService(repo),
		Projects: services.NewProjectService(repo, stats),
		Entries:  services.NewEntryService(repo, publisher, stats),
		Savings:  services.NewSavingsService(repo, publisher, stats),
		Stats:    stats,
	}

	server := gighttp.NewServer(":"+cfg.Port, cfg.JWTSecret, svc, cfg.ExpiringSoonWindow())
	server.ReadTimeout = 10 * time.Second
	server.WriteTimeout = 10 * time.Second
	server.IdleTimeout = 60 * time.Second
	server.MaxHeaderBytes = 1 << 16

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", log.FieldError, err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down server", "signal", fmt.Sprintf("%v", sig))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
