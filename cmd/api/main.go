package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simulador_solar_backend/internal/adapters"
	"simulador_solar_backend/internal/address"
	"simulador_solar_backend/internal/auth"
	"simulador_solar_backend/internal/email"
	"simulador_solar_backend/internal/events"
	apphttp "simulador_solar_backend/internal/http"
	"simulador_solar_backend/internal/http/router"
	"simulador_solar_backend/internal/leads"
	"simulador_solar_backend/internal/notification"
	"simulador_solar_backend/internal/scheduler"
	"simulador_solar_backend/internal/simulator"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/db"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/retry"
	"simulador_solar_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

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

	pool := connectDatabase(ctx, cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	outreach, closeScheduler := initOutreachScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(email.NewSender(cfg), outreach, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	addressModule := address.NewModule(cfg, log)
	authModule := auth.NewModule(cfg, val, log)

	// Leads and simulator only meet through adapters. The simulator records through
	// a port and the dashboard links back through the message formatter.
	salesLinker := adapters.NewSalesLinker(message.NewFormatter(cfg.GetWhatsAppDeepLinkBase()))
	leadsModule := leads.NewModule(pool, eventBus, salesLinker, val, log)

	simulatorModule, err := simulator.NewModule(cfg, adapters.NewLeadRecorder(leadsModule.Gateway()), eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize simulator module", "error", err)
		panic("failed to initialize simulator module: " + err.Error())
	}
	defer func() {
		_ = simulatorModule.Close()
	}()

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: map[string]apphttp.HealthChecker{
			"database": db.NewPoolAdapter(pool),
			"sessions": simulatorModule,
		},
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			addressModule,
			simulatorModule,
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// connectDatabase opens the pool and applies migrations. Without DATABASE_URL the
// service runs in placeholder mode and returns nil.
func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) *pgxpool.Pool {
	if !cfg.IsDatabaseEnabled() {
		log.Warn("DATABASE_URL not configured; leads will not be persisted")
		return nil
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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func(ctx context.Context) error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return pool
}

func initOutreachScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.OutreachScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; automatic WhatsApp outreach disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize outreach scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
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
