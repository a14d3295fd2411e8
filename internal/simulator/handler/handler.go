// Package handler serves the public simulator wizard over HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/internal/simulator/service"
	"simulador_solar_backend/internal/simulator/session"
	"simulador_solar_backend/internal/simulator/transport"
	"simulador_solar_backend/internal/simulator/wizard"
	"simulador_solar_backend/platform/httpkit"
	"simulador_solar_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderSessionID carries the session id for clients that do not keep cookies.
const HeaderSessionID = "X-Session-ID"

const (
	msgInvalidRequest   = "Requisição inválida."
	msgValidationFailed = "Dados inválidos."
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Handler exposes the wizard operations of one visitor session.
type Handler struct {
	svc       *service.Service
	engine    *qualification.Engine
	formatter *message.Formatter
	val       *validator.Validator
	cookie    CookieOptions
}

func New(svc *service.Service, engine *qualification.Engine, formatter *message.Formatter, val *validator.Validator, cookie CookieOptions) *Handler {
	if cookie.Name == "" {
		cookie.Name = "simulador_session"
	}
	return &Handler{svc: svc, engine: engine, formatter: formatter, val: val, cookie: cookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/qualify", h.Qualify)

	sessions := rg.Group("/session")
	sessions.POST("", h.Start)
	sessions.GET("", h.Get)
	sessions.PATCH("/lead", h.UpdateLead)
	sessions.POST("/next", h.Next)
	sessions.POST("/previous", h.Previous)
	sessions.POST("/step", h.SetStep)
	sessions.POST("/reset", h.Reset)
	sessions.POST("/qualification", h.Preview)
	sessions.POST("/submit", h.Submit)
	sessions.GET("/lead", h.Lead)
	sessions.POST("/whatsapp-click", h.WhatsAppClick)
	sessions.GET("/whatsapp-qr.png", h.WhatsAppQRCode)
}

func (h *Handler) Start(c *gin.Context) {
	// The body is optional; chunked bodies have no declared length, so bind and treat
	// an empty stream as no attribution.
	var req transport.StartSessionRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	attr := req.Attribution()
	if attr.IsEmpty() {
		attr = session.AttributionFromQuery(c.Request.URL.Query())
	}

	w, err := h.svc.Start(c.Request.Context(), h.sessionID(c), attr)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, nil)
}

func (h *Handler) Get(c *gin.Context) {
	w, err := h.svc.Get(c.Request.Context(), h.sessionID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, nil)
}

func (h *Handler) UpdateLead(c *gin.Context) {
	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	if req.MonthlyBillAmount != nil && req.MonthlyBillAmount.Err != nil {
		httpkit.HandleError(c, req.MonthlyBillAmount.Err)
		return
	}

	w, problems, err := h.svc.UpdateLeadData(c.Request.Context(), h.sessionID(c), req.Patch())
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, problems, nil)
}

func (h *Handler) Next(c *gin.Context) {
	w, moved, err := h.svc.NextStep(c.Request.Context(), h.sessionID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, &moved)
}

func (h *Handler) Previous(c *gin.Context) {
	w, moved, err := h.svc.PreviousStep(c.Request.Context(), h.sessionID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, &moved)
}

func (h *Handler) SetStep(c *gin.Context) {
	var req transport.SetStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	w, moved, err := h.svc.SetCurrentStep(c.Request.Context(), h.sessionID(c), wizard.Step(*req.Step))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, &moved)
}

func (h *Handler) Reset(c *gin.Context) {
	w, err := h.svc.Reset(c.Request.Context(), h.sessionID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, w, nil, nil)
}

func (h *Handler) Preview(c *gin.Context) {
	w, res, err := h.svc.Preview(c.Request.Context(), h.sessionID(c))
	h.bindSession(c, w)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.QualificationResponse{Qualification: res})
}

func (h *Handler) Submit(c *gin.Context) {
	w, result, err := h.svc.Submit(c.Request.Context(), h.sessionID(c))
	h.bindSession(c, w)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.SubmitResponse{
		Lead:          result.Lead,
		Qualification: result.Qualification,
		Message:       result.Message,
	})
}

func (h *Handler) Lead(c *gin.Context) {
	lead, err := h.svc.Lead(c.Request.Context(), h.sessionID(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadStatusResponse{Lead: lead})
}

func (h *Handler) WhatsAppClick(c *gin.Context) {
	var req transport.WhatsAppClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	updated, err := h.svc.RecordWhatsAppClick(c.Request.Context(), h.sessionID(c), req.LeadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.WhatsAppClickResponse{Updated: updated})
}

func (h *Handler) WhatsAppQRCode(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.svc.WhatsAppQRCode(c.Request.Context(), h.sessionID(c), size)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Qualify runs a one-shot qualification of a complete lead without touching any session.
func (h *Handler) Qualify(c *gin.Context) {
	var req transport.QualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead := req.LeadData()
	res, err := h.engine.Qualify(lead)
	if httpkit.HandleError(c, err) {
		return
	}
	msg := h.formatter.Format(lead, res)
	httpkit.OK(c, transport.QualificationResponse{Qualification: res, Message: &msg})
}

func (h *Handler) respond(c *gin.Context, w *wizard.Wizard, problems map[string]error, moved *bool) {
	h.bindSession(c, w)
	resp := transport.ToSessionResponse(w, problems)
	resp.Moved = moved
	httpkit.OK(c, resp)
}

// sessionID reads the session from the cookie, falling back to the header. Unknown
// or malformed ids resolve to uuid.Nil and start a new session.
func (h *Handler) sessionID(c *gin.Context) uuid.UUID {
	raw, err := c.Cookie(h.cookie.Name)
	if err != nil || raw == "" {
		raw = c.GetHeader(HeaderSessionID)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (h *Handler) bindSession(c *gin.Context, w *wizard.Wizard) {
	if w == nil {
		return
	}
	id := w.SessionID().String()
	c.Header(HeaderSessionID, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, id, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}
