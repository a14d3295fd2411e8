// Package gateway is the persistence boundary for submitted simulator leads.
// It degrades gracefully: without a configured store, inserts return a locally
// synthesized placeholder and reads report nothing instead of failing.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"simulador_solar_backend/internal/events"
	"simulador_solar_backend/internal/leads/domain"
	"simulador_solar_backend/internal/leads/repository"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/phone"
	"simulador_solar_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	CodeInvalidStatus apperr.Code = "INVALID_STATUS"
	CodeInvalidLead   apperr.Code = "INVALID_LEAD"

	msgLeadNotFound = "Lead não encontrado."
)

// Store is the durable lead storage.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	GetLatestBySession(ctx context.Context, sessionID uuid.UUID) (repository.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
}

var _ Store = (*repository.Repository)(nil)

// LeadFields are the caller-supplied values of a lead. Identity and creation time are
// never part of it.
type LeadFields struct {
	PostalCode              string
	City                    string
	State                   string
	MonthlyBillAmount       float64
	ConnectionType          string
	RoofType                string
	FullName                string
	PhoneNumber             string
	Email                   string
	Status                  domain.Status
	SystemSizeKWp           float64
	EstimatedMonthlySavings float64
	DisqualificationReason  string
	Warnings                []string
}

// Attribution is the campaign snapshot stored with the lead.
type Attribution struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// Lead is a stored (or placeholder) lead.
type Lead struct {
	LeadFields
	Attribution
	ID          uuid.UUID
	CreatedAt   time.Time
	SessionID   uuid.UUID
	PhoneE164   string
	Placeholder bool
}

// Gateway inserts and reads leads.
type Gateway struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

// New creates a gateway. A nil store puts it in placeholder mode; bus may be nil.
func New(store Store, bus events.Bus, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	return &Gateway{store: store, bus: bus, log: log, now: time.Now}
}

// Enabled reports whether a durable store is configured.
func (g *Gateway) Enabled() bool {
	return g.store != nil
}

// Insert stores a lead for a session. Invalid input is rejected; an unconfigured or
// failing store yields a placeholder lead instead of an error.
func (g *Gateway) Insert(ctx context.Context, sessionID uuid.UUID, fields LeadFields, attr Attribution) (Lead, error) {
	fields = normalizeFields(fields)
	if err := validateFields(sessionID, fields); err != nil {
		return Lead{}, err
	}
	e164, _ := phone.ToE164(fields.PhoneNumber)

	if g.store == nil {
		g.log.WithContext(ctx).Warn("lead store not configured, returning placeholder lead", "sessionId", sessionID)
		return g.placeholder(sessionID, fields, attr, e164), nil
	}

	row, err := g.store.Create(ctx, repository.CreateLeadParams{
		SessionID:               sessionID,
		Status:                  string(fields.Status),
		PostalCode:              fields.PostalCode,
		City:                    fields.City,
		State:                   fields.State,
		MonthlyBillAmount:       fields.MonthlyBillAmount,
		ConnectionType:          fields.ConnectionType,
		RoofType:                fields.RoofType,
		FullName:                fields.FullName,
		PhoneNumber:             fields.PhoneNumber,
		PhoneE164:               nilIfEmpty(e164),
		Email:                   fields.Email,
		SystemSizeKWp:           fields.SystemSizeKWp,
		EstimatedMonthlySavings: fields.EstimatedMonthlySavings,
		DisqualificationReason:  nilIfEmpty(fields.DisqualificationReason),
		Warnings:                fields.Warnings,
		UTMSource:               nilIfEmpty(attr.Source),
		UTMMedium:               nilIfEmpty(attr.Medium),
		UTMCampaign:             nilIfEmpty(attr.Campaign),
		UTMTerm:                 nilIfEmpty(attr.Term),
		UTMContent:              nilIfEmpty(attr.Content),
	})
	if err != nil {
		log := g.log.WithContext(ctx)
		log.DatabaseError("insert_simulator_lead", err)
		log.Warn("lead store unavailable, returning placeholder lead", "sessionId", sessionID)
		return g.placeholder(sessionID, fields, attr, e164), nil
	}

	return fromRow(row), nil
}

// UpdateStatus sets a lead's status. It returns false without error when no store is
// configured.
func (g *Gateway) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	return g.UpdateStatusAs(ctx, id, status, nil, "system")
}

// UpdateStatusAs is UpdateStatus recording who made the change.
func (g *Gateway) UpdateStatusAs(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID, source string) (bool, error) {
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return false, apperr.Coded(apperr.KindValidation, CodeInvalidStatus, "Status inválido.").
			WithDetails(map[string]string{"field": "status"})
	}
	if g.store == nil {
		return false, nil
	}

	if _, err := g.store.UpdateStatus(ctx, id, string(parsed)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperr.NotFound(msgLeadNotFound)
		}
		g.log.WithContext(ctx).DatabaseError("update_simulator_lead_status", err)
		return false, apperr.Wrap(apperr.KindInternal, "Não foi possível atualizar o status do lead.", err)
	}

	if g.bus != nil {
		g.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			NewStatus: string(parsed),
			ActorID:   actorID,
			Source:    source,
		})
	}
	return true, nil
}

// GetBySession returns the latest lead of a session, or nil when there is none or no
// store is configured.
func (g *Gateway) GetBySession(ctx context.Context, sessionID uuid.UUID) (*Lead, error) {
	if g.store == nil {
		return nil, nil
	}
	row, err := g.store.GetLatestBySession(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		g.log.WithContext(ctx).DatabaseError("get_simulator_lead_by_session", err)
		return nil, apperr.Wrap(apperr.KindInternal, "Não foi possível carregar o lead.", err)
	}
	lead := fromRow(row)
	return &lead, nil
}

// GetByID returns a stored lead.
func (g *Gateway) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	if g.store == nil {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	row, err := g.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		g.log.WithContext(ctx).DatabaseError("get_simulator_lead", err)
		return Lead{}, apperr.Wrap(apperr.KindInternal, "Não foi possível carregar o lead.", err)
	}
	return fromRow(row), nil
}

// List pages through stored leads. Without a store the result is empty.
func (g *Gateway) List(ctx context.Context, params repository.ListParams) ([]Lead, int, error) {
	if g.store == nil {
		return []Lead{}, 0, nil
	}
	rows, total, err := g.store.List(ctx, params)
	if err != nil {
		g.log.WithContext(ctx).DatabaseError("list_simulator_leads", err)
		return nil, 0, apperr.Wrap(apperr.KindInternal, "Não foi possível listar os leads.", err)
	}
	leads := make([]Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, fromRow(row))
	}
	return leads, total, nil
}

func (g *Gateway) placeholder(sessionID uuid.UUID, fields LeadFields, attr Attribution, e164 string) Lead {
	return Lead{
		LeadFields:  fields,
		Attribution: attr,
		ID:          uuid.New(),
		CreatedAt:   g.now().UTC(),
		SessionID:   sessionID,
		PhoneE164:   e164,
		Placeholder: true,
	}
}

func normalizeFields(f LeadFields) LeadFields {
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.City = sanitize.Text(f.City)
	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	f.FullName = sanitize.PersonName(f.FullName)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.DisqualificationReason = strings.TrimSpace(f.DisqualificationReason)
	if f.Status == "" {
		f.Status = domain.InitialStatus(f.DisqualificationReason == "")
	}
	if f.Warnings == nil {
		f.Warnings = []string{}
	}
	return f
}

func validateFields(sessionID uuid.UUID, f LeadFields) error {
	var missing []string
	if sessionID == uuid.Nil {
		missing = append(missing, "sessionId")
	}
	required := map[string]string{
		"postalCode":     f.PostalCode,
		"city":           f.City,
		"state":          f.State,
		"connectionType": f.ConnectionType,
		"roofType":       f.RoofType,
		"fullName":       f.FullName,
		"phoneNumber":    f.PhoneNumber,
		"email":          f.Email,
	}
	for _, field := range []string{"postalCode", "city", "state", "connectionType", "roofType", "fullName", "phoneNumber", "email"} {
		if required[field] == "" {
			missing = append(missing, field)
		}
	}
	if f.MonthlyBillAmount <= 0 {
		missing = append(missing, "monthlyBillAmount")
	}
	if !f.Status.Valid() {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return apperr.Coded(apperr.KindValidation, CodeInvalidLead, "Dados do lead incompletos.").
			WithDetails(map[string][]string{"fields": missing})
	}
	return nil
}

func fromRow(row repository.Lead) Lead {
	return Lead{
		LeadFields: LeadFields{
			PostalCode:              row.PostalCode,
			City:                    row.City,
			State:                   strings.TrimSpace(row.State),
			MonthlyBillAmount:       row.MonthlyBillAmount,
			ConnectionType:          row.ConnectionType,
			RoofType:                row.RoofType,
			FullName:                row.FullName,
			PhoneNumber:             row.PhoneNumber,
			Email:                   row.Email,
			Status:                  domain.Status(row.Status),
			SystemSizeKWp:           row.SystemSizeKWp,
			EstimatedMonthlySavings: row.EstimatedMonthlySavings,
			DisqualificationReason:  deref(row.DisqualificationReason),
			Warnings:                row.Warnings,
		},
		Attribution: Attribution{
			Source:   deref(row.UTMSource),
			Medium:   deref(row.UTMMedium),
			Campaign: deref(row.UTMCampaign),
			Term:     deref(row.UTMTerm),
			Content:  deref(row.UTMContent),
		},
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		SessionID: row.SessionID,
		PhoneE164: deref(row.PhoneE164),
	}
}

func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
