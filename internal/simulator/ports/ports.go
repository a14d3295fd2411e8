// Package ports defines what the simulator needs from other bounded contexts.
// Implementations live in internal/adapters so the simulator never imports them.
package ports

import (
	"context"
	"time"

	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/qualification"

	"github.com/google/uuid"
)

// RecordedLead is the simulator's view of a stored submission.
type RecordedLead struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	Placeholder bool      `json:"placeholder"`
}

// LeadRecorder persists submissions. Implementations degrade to placeholder records
// when the store is unavailable; an error means the submission itself was rejected.
type LeadRecorder interface {
	Record(ctx context.Context, sessionID uuid.UUID, lead domain.LeadData, result qualification.Result, attribution domain.Attribution) (RecordedLead, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*RecordedLead, error)
	MarkContactedViaWhatsApp(ctx context.Context, leadID uuid.UUID) (bool, error)
}
