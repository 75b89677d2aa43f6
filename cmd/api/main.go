package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskmanager/internal/adapter/cache"
	"taskmanager/internal/adapter/database"
	"taskmanager/internal/adapter/database/postgres"
	"taskmanager/internal/adapter/database/sqlite"
	api "taskmanager/internal/adapter/http"
	"taskmanager/internal/adapter/logger"
	adaptertelemetry "taskmanager/internal/adapter/telemetry"
	"taskmanager/internal/config"
	"taskmanager/internal/core/port"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()

	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level

	if err := level.UnmarshalText([]byte(cfg.Telemetry.LogLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(slogger)

	lokiLogger, err := logger.NewLokiLogger(cfg.Telemetry.ServiceName, cfg.Telemetry.LokiURL, cfg.Telemetry.LogLevel)

	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	defer lokiLogger.Sync()

	tel, err := adaptertelemetry.NewContainer(ctx, adaptertelemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	}, slogger)

	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Telemetry shutdown failed", "error", err)
		}
	}()

	db, err := openDatabase(ctx, cfg)

	if err != nil {
		return err
	}

	defer db.Close()

	store, err := openCounterStore(ctx, cfg)

	if err != nil {
		return err
	}

	defer store.Close()

	container, err := api.NewContainer(db, cfg, lokiLogger, tel.AppMetrics, tel.NewTelemetryProbe())

	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	server := api.NewServer(cfg, container, tel.AppMetrics, lokiLogger, store)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	lokiLogger.Info(context.Background(), "Shutting down gracefully...")

	return nil
}

func openDatabase(ctx context.Context, cfg *config.AppConfig) (*database.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, postgres.Config{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
		})

		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		return db, nil
	default:
		db, err := sqlite.Open(sqlite.Config{
			Path:       cfg.Database.Path,
			LogQueries: cfg.Database.LogQueries,
			QueryLog:   os.Stdout,
		})

		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		return db, nil
	}
}

func openCounterStore(ctx context.Context, cfg *config.AppConfig) (port.CounterStore, error) {
	if cfg.RateLimit.Store == "redis" {
		store, err := cache.NewRedisStore(ctx, cfg.RateLimit.RedisURL, cfg.Telemetry.ServiceName+":")

		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}

		return store, nil
	}

	return cache.NewMemoryStore(), nil
}
