// Package auth provides the dashboard authentication bounded context module.
package auth

import (
	"simulador_solar_backend/internal/auth/handler"
	"simulador_solar_backend/internal/auth/service"
	apphttp "simulador_solar_backend/internal/http"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module for the configured administrator account.
func NewModule(cfg config.AdminAuthConfig, val *validator.Validator, log *logger.Logger) *Module {
	if !cfg.IsAdminAuthEnabled() {
		log.Warn("admin sign-in disabled: ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set")
	}
	svc := service.New(cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Admin.GET("/me", m.handler.GetMe)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
