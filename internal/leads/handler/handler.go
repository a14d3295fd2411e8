package handler

import (
	"net/http"
	"strings"
	"time"

	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/leads/repository"
	"simulador_solar_backend/internal/leads/transport"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/httpkit"
	"simulador_solar_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "Requisição inválida."
	msgValidationFailed = "Dados inválidos."
)

// OutreachLinker builds the click-to-chat link the sales team uses to reach a lead.
type OutreachLinker interface {
	SalesLink(lead gateway.Lead) (phone string, deepLink string)
}

// Handler serves the admin lead dashboard.
type Handler struct {
	gw     *gateway.Gateway
	linker OutreachLinker
	val    *validator.Validator
}

func New(gw *gateway.Gateway, linker OutreachLinker, val *validator.Validator) *Handler {
	return &Handler{gw: gw, linker: linker, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.GET("/:id/whatsapp", h.WhatsAppLink)
}

func (h *Handler) List(c *gin.Context) {
	req := transport.ListLeadsRequest{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	params := repository.ListParams{
		Search:    strings.TrimSpace(req.Search),
		Offset:    (req.Page - 1) * req.PageSize,
		Limit:     req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	params.Status = optional(req.Status)
	params.State = optional(req.State)
	params.UTMSource = optional(req.UTMSource)
	params.UTMCampaign = optional(req.UTMCampaign)
	if req.From != "" {
		from, _ := time.Parse(time.DateOnly, req.From)
		params.CreatedAtFrom = &from
	}
	if req.To != "" {
		to, _ := time.Parse(time.DateOnly, req.To)
		to = to.AddDate(0, 0, 1)
		params.CreatedAtTo = &to
	}

	leads, total, err := h.gw.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.ToLeadResponse(lead))
	}
	totalPages := (total + req.PageSize - 1) / req.PageSize

	httpkit.OK(c, transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.gw.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	actorID := httpkit.GetIdentity(c).UserID()
	updated, err := h.gw.UpdateStatusAs(c.Request.Context(), id, req.Status, &actorID, "admin")
	if httpkit.HandleError(c, err) {
		return
	}
	if !updated {
		httpkit.HandleError(c, apperr.Coded(apperr.KindUnavailable, "STORE_UNAVAILABLE", "Armazenamento de leads não configurado."))
		return
	}

	lead, err := h.gw.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) WhatsAppLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.gw.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	phone, link := h.linker.SalesLink(lead)
	httpkit.OK(c, transport.WhatsAppLinkResponse{Phone: phone, DeepLinkURL: link})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
