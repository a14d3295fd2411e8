package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/leads/repository"
	"simulador_solar_backend/internal/scheduler"
	"simulador_solar_backend/internal/whatsapp"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/db"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/retry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.IsDatabaseEnabled() {
		panic("DATABASE_URL is required for the scheduler")
	}
	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func(ctx context.Context) error {
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

	// Status changes made by the worker are not broadcast; the API process owns the bus.
	leadGateway := gateway.New(repository.New(pool), nil, log)

	// A nil client would acknowledge tasks without sending and mark leads contacted.
	sender := whatsapp.NewClient(cfg, log)
	if !sender.Enabled() {
		panic("WHATSAPP_URL is required for the scheduler")
	}

	worker, err := scheduler.NewWorker(cfg, leadGateway, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, retry.Policy{
		Attempts:  attempts,
		BaseDelay: baseDelay,
		Backoff:   retry.Quadratic,
		OnFailure: func(attempt int, err error) {
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		},
	}, fn)
}
