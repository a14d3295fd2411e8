// Package simulator provides the public solar simulation wizard module.
package simulator

import (
	"context"
	"fmt"
	"time"

	"simulador_solar_backend/internal/events"
	apphttp "simulador_solar_backend/internal/http"
	"simulador_solar_backend/internal/simulator/handler"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/ports"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/internal/simulator/service"
	"simulador_solar_backend/internal/simulator/session"
	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/redisopt"
	"simulador_solar_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

const memorySweepInterval = 5 * time.Minute

// Config combines the settings the simulator module reads.
type Config interface {
	config.SessionConfig
	config.QualificationConfig
	config.MessagingConfig
	GetRedisTLSInsecure() bool
}

// Module is the simulator bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	engine    *qualification.Engine
	formatter *message.Formatter
	redis     *redis.Client
	stop      chan struct{}
}

// NewModule wires session storage, the qualification engine and the formatter.
// Sessions live in Redis when REDIS_URL is set and in process memory otherwise.
func NewModule(cfg Config, recorder ports.LeadRecorder, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := validation.RegisterTags(val); err != nil {
		return nil, fmt.Errorf("register simulator validation tags: %w", err)
	}

	table, err := qualification.LoadHSPTable(cfg.GetHSPTablePath())
	if err != nil {
		return nil, err
	}
	engine := qualification.NewEngine(qualification.ConstantsFromConfig(cfg), table)
	formatter := message.NewFormatter(cfg.GetWhatsAppDeepLinkBase())

	m := &Module{engine: engine, formatter: formatter, stop: make(chan struct{})}

	var store session.Store
	if cfg.GetRedisURL() != "" {
		client, err := redisopt.NewClient(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
		if err != nil {
			return nil, fmt.Errorf("simulator session redis: %w", err)
		}
		m.redis = client
		store = session.NewRedisStore(client, cfg.GetSessionTTL())
		log.Info("simulator sessions stored in redis")
	} else {
		mem := session.NewMemoryStore(cfg.GetSessionTTL())
		go sweep(mem, m.stop)
		store = mem
		log.Warn("simulator sessions stored in memory: REDIS_URL not set")
	}

	m.service = service.New(store, engine, formatter, recorder, eventBus, log)
	m.handler = handler.New(m.service, engine, formatter, val, handler.CookieOptions{
		Name:   cfg.GetSessionCookieName(),
		Secure: cfg.GetSessionCookieSecure(),
		MaxAge: cfg.GetSessionTTL(),
	})

	log.Info("simulator module initialized", "hspStates", table.Len())
	return m, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "simulator"
}

// Service returns the wizard service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Engine returns the qualification engine.
func (m *Module) Engine() *qualification.Engine {
	return m.engine
}

// Formatter returns the outreach message formatter.
func (m *Module) Formatter() *message.Formatter {
	return m.formatter
}

// Ping checks the session store. In-memory sessions are always healthy.
func (m *Module) Ping(ctx context.Context) error {
	if m.redis == nil {
		return nil
	}
	return m.redis.Ping(ctx).Err()
}

// Close stops the memory sweeper and releases the redis connection.
func (m *Module) Close() error {
	close(m.stop)
	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}

// RegisterRoutes mounts the public simulator routes, throttled per client IP.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/simulator")
	if ctx.PublicRateLimiter != nil {
		group.Use(ctx.PublicRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

func sweep(store *session.MemoryStore, stop <-chan struct{}) {
	ticker := time.NewTicker(memorySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			store.Sweep()
		case <-stop:
			return
		}
	}
}

var _ apphttp.Module = (*Module)(nil)
