// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"simulador_solar_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Simulator Domain Events
// =============================================================================

// LeadSubmitted is published after a completed simulation has been recorded.
// Placeholder is true when the lead store was unavailable and LeadID was synthesized
// locally; such leads cannot have their status updated later.
type LeadSubmitted struct {
	BaseEvent
	LeadID                  uuid.UUID `json:"leadId"`
	SessionID               uuid.UUID `json:"sessionId"`
	Placeholder             bool      `json:"placeholder"`
	FullName                string    `json:"fullName"`
	PhoneNumber             string    `json:"phoneNumber"`
	Email                   string    `json:"email"`
	City                    string    `json:"city"`
	State                   string    `json:"state"`
	MonthlyBillAmount       float64   `json:"monthlyBillAmount"`
	IsQualified             bool      `json:"isQualified"`
	DisqualificationReason  string    `json:"disqualificationReason,omitempty"`
	SystemSizeKWp           float64   `json:"systemSizeKwp"`
	EstimatedMonthlySavings float64   `json:"estimatedMonthlySavings"`
	PackageTier             string    `json:"packageTier"`
	Warnings                []string  `json:"warnings"`
	MessageText             string    `json:"messageText"`
	DeepLinkURL             string    `json:"deepLinkUrl"`
	UTMSource               string    `json:"utmSource,omitempty"`
	UTMCampaign             string    `json:"utmCampaign,omitempty"`
}

func (e LeadSubmitted) EventName() string { return "simulator.lead.submitted" }

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadStatusChanged is published when a stored lead moves to a new status.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID  `json:"leadId"`
	NewStatus string     `json:"newStatus"`
	ActorID   *uuid.UUID `json:"actorId,omitempty"`
	Source    string     `json:"source"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }
