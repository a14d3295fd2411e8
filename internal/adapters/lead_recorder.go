package adapters

import (
	"context"

	leadsdomain "simulador_solar_backend/internal/leads/domain"
	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/ports"
	"simulador_solar_backend/internal/simulator/qualification"

	"github.com/google/uuid"
)

// LeadRecorder adapts the leads gateway for use by the simulator.
// It implements the simulator/ports.LeadRecorder interface.
type LeadRecorder struct {
	gw *gateway.Gateway
}

// NewLeadRecorder creates a recorder backed by the leads gateway.
func NewLeadRecorder(gw *gateway.Gateway) *LeadRecorder {
	return &LeadRecorder{gw: gw}
}

// Record maps the wizard lead and its qualification into gateway fields and inserts it.
func (r *LeadRecorder) Record(ctx context.Context, sessionID uuid.UUID, lead domain.LeadData, res qualification.Result, attr domain.Attribution) (ports.RecordedLead, error) {
	stored, err := r.gw.Insert(ctx, sessionID, gateway.LeadFields{
		PostalCode:              lead.PostalCode,
		City:                    lead.City,
		State:                   lead.State,
		MonthlyBillAmount:       lead.MonthlyBillAmount,
		ConnectionType:          string(lead.ConnectionType),
		RoofType:                string(lead.RoofType),
		FullName:                lead.FullName,
		PhoneNumber:             lead.PhoneNumber,
		Email:                   lead.Email,
		Status:                  leadsdomain.InitialStatus(res.IsQualified),
		SystemSizeKWp:           res.SystemSizeKWp,
		EstimatedMonthlySavings: res.EstimatedMonthlySavings,
		DisqualificationReason:  res.DisqualificationReason,
		Warnings:                res.Warnings,
	}, gateway.Attribution{
		Source:   attr.Source,
		Medium:   attr.Medium,
		Campaign: attr.Campaign,
		Term:     attr.Term,
		Content:  attr.Content,
	})
	if err != nil {
		return ports.RecordedLead{}, err
	}
	return toRecordedLead(stored), nil
}

// FindBySession returns the latest lead of the session, or nil.
func (r *LeadRecorder) FindBySession(ctx context.Context, sessionID uuid.UUID) (*ports.RecordedLead, error) {
	stored, err := r.gw.GetBySession(ctx, sessionID)
	if err != nil || stored == nil {
		return nil, err
	}
	rec := toRecordedLead(*stored)
	return &rec, nil
}

// MarkContactedViaWhatsApp moves the lead to contacted_via_whatsapp.
func (r *LeadRecorder) MarkContactedViaWhatsApp(ctx context.Context, leadID uuid.UUID) (bool, error) {
	return r.gw.UpdateStatusAs(ctx, leadID, string(leadsdomain.StatusContactedViaWhatsApp), nil, "simulator")
}

func toRecordedLead(lead gateway.Lead) ports.RecordedLead {
	return ports.RecordedLead{
		ID:          lead.ID,
		CreatedAt:   lead.CreatedAt,
		Status:      string(lead.Status),
		Placeholder: lead.Placeholder,
	}
}

var _ ports.LeadRecorder = (*LeadRecorder)(nil)
