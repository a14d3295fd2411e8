package handler

import (
	"simulador_solar_backend/internal/address/service"
	"simulador_solar_backend/internal/address/transport"
	"simulador_solar_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves CEP lookups to the wizard's Location step.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:cep", h.Lookup)
}

func (h *Handler) Lookup(c *gin.Context) {
	addr, cached, err := h.svc.Lookup(c.Request.Context(), c.Param("cep"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LookupResponse{Address: addr, Cached: cached})
}
