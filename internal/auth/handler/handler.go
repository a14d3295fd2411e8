package handler

import (
	"net/http"

	"simulador_solar_backend/internal/auth/service"
	"simulador_solar_backend/internal/auth/transport"
	"simulador_solar_backend/platform/httpkit"
	"simulador_solar_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "Requisição inválida."
	msgValidationFailed = "Dados inválidos."
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sign-in", h.SignIn)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	token, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AuthResponse{AccessToken: token.AccessToken, ExpiresAt: token.ExpiresAt})
}

func (h *Handler) GetMe(c *gin.Context) {
	identity := httpkit.GetIdentity(c)
	if !identity.IsAuthenticated() {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpkit.OK(c, transport.MeResponse{
		ID:    identity.UserID().String(),
		Email: identity.Email(),
		Roles: identity.Roles(),
	})
}
