// Package address provides the CEP lookup bounded context module.
package address

import (
	"simulador_solar_backend/internal/address/client"
	"simulador_solar_backend/internal/address/handler"
	"simulador_solar_backend/internal/address/service"
	apphttp "simulador_solar_backend/internal/http"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"
)

// Module is the address bounded context module implementing http.Module.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// NewModule wires the address client, cache and handler.
func NewModule(cfg config.AddressConfig, log *logger.Logger) *Module {
	apiClient := client.New(client.OptionsFromConfig(cfg), log)
	svc := service.New(apiClient, cfg.GetAddressCacheTTL(), log)

	log.Info("address module initialized", "baseUrl", cfg.GetAddressServiceURL())

	return &Module{
		service: svc,
		handler: handler.New(svc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "address"
}

// Service returns the cached lookup service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public lookup route, throttled per client IP.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/address")
	if ctx.PublicRateLimiter != nil {
		group.Use(ctx.PublicRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
