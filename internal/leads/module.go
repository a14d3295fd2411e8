// Package leads provides the stored-lead bounded context: the persistence gateway used
// by the simulator and the admin dashboard routes.
package leads

import (
	"simulador_solar_backend/internal/events"
	apphttp "simulador_solar_backend/internal/http"
	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/leads/handler"
	"simulador_solar_backend/internal/leads/repository"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	gateway *gateway.Gateway
	repo    *repository.Repository
}

// NewModule creates the leads module. A nil pool runs the gateway in placeholder mode.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, linker handler.OutreachLinker, val *validator.Validator, log *logger.Logger) *Module {
	var (
		store gateway.Store
		repo  *repository.Repository
	)
	if pool != nil {
		repo = repository.New(pool)
		store = repo
	} else {
		log.Warn("leads module running without database: submissions return placeholder leads")
	}

	gw := gateway.New(store, eventBus, log)

	return &Module{
		handler: handler.New(gw, linker, val),
		gateway: gw,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Gateway returns the persistence gateway for external use.
func (m *Module) Gateway() *gateway.Gateway {
	return m.gateway
}

// Repository returns the PostgreSQL repository, or nil without a database.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the admin lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
