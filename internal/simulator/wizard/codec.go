package wizard

import (
	"encoding/json"
	"fmt"

	"simulador_solar_backend/internal/simulator/domain"

	"github.com/google/uuid"
)

// codecVersion is bumped when the stored layout changes incompatibly.
const codecVersion = 1

type snapshot struct {
	Version     int                `json:"v"`
	SessionID   uuid.UUID          `json:"sessionId"`
	CurrentStep Step               `json:"currentStep"`
	Data        domain.LeadData    `json:"data"`
	Attribution domain.Attribution `json:"attribution"`
	Submission  *domain.Submission `json:"submission,omitempty"`
}

// Encode serializes the wizard for a session store.
func Encode(w *Wizard) ([]byte, error) {
	return json.Marshal(snapshot{
		Version:     codecVersion,
		SessionID:   w.sessionID,
		CurrentStep: w.current,
		Data:        w.data,
		Attribution: w.attribution,
		Submission:  w.submission,
	})
}

// Decode restores a wizard. Validity is recomputed from the data, and a stored step
// that is no longer reachable falls back to the furthest reachable one.
func Decode(raw []byte, opts ...Option) (*Wizard, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode wizard: %w", err)
	}
	if snap.Version != codecVersion {
		return nil, fmt.Errorf("decode wizard: unsupported version %d", snap.Version)
	}
	if snap.SessionID == uuid.Nil {
		return nil, fmt.Errorf("decode wizard: missing session id")
	}

	w := New(snap.Attribution, append(opts, WithSessionID(snap.SessionID))...)
	w.data = snap.Data
	w.submission = snap.Submission
	w.validity = RecomputeValidity(snap.Data)

	step := snap.CurrentStep
	if !step.Valid() {
		step = StepLocation
	}
	for !w.CanNavigateTo(step) {
		step--
	}
	w.current = step
	return w, nil
}
