// Package wizard implements the four-step lead capture state machine.
// A Wizard belongs to one visitor session and is not safe for concurrent use.
package wizard

import (
	"simulador_solar_backend/internal/simulator/domain"

	"github.com/google/uuid"
)

// IDGenerator creates session identifiers.
type IDGenerator func() uuid.UUID

// Wizard holds the in-progress lead, the current step and the per-step validity.
type Wizard struct {
	data        domain.LeadData
	validity    StepValidation
	current     Step
	sessionID   uuid.UUID
	attribution domain.Attribution
	submission  *domain.Submission
	newID       IDGenerator
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithIDGenerator overrides uuid.New for session ids.
func WithIDGenerator(gen IDGenerator) Option {
	return func(w *Wizard) {
		if gen != nil {
			w.newID = gen
		}
	}
}

// WithSessionID resumes an existing session id instead of generating one.
func WithSessionID(id uuid.UUID) Option {
	return func(w *Wizard) {
		w.sessionID = id
	}
}

// New starts an empty wizard on the Location step.
func New(attribution domain.Attribution, opts ...Option) *Wizard {
	w := &Wizard{attribution: attribution, newID: uuid.New}
	for _, opt := range opts {
		opt(w)
	}
	if w.sessionID == uuid.Nil {
		w.sessionID = w.newID()
	}
	return w
}

func (w *Wizard) Data() domain.LeadData           { return w.data }
func (w *Wizard) Validity() StepValidation        { return w.validity }
func (w *Wizard) CurrentStep() Step               { return w.current }
func (w *Wizard) SessionID() uuid.UUID            { return w.sessionID }
func (w *Wizard) Attribution() domain.Attribution { return w.attribution }

// UpdateLeadData merges patch into the lead and recomputes validity of all steps.
func (w *Wizard) UpdateLeadData(patch domain.LeadPatch) {
	w.data = patch.Apply(w.data)
	w.validity = RecomputeValidity(w.data)
}

// CanNavigateTo reports whether every step before target is valid.
func (w *Wizard) CanNavigateTo(target Step) bool {
	if !target.Valid() {
		return false
	}
	for s := StepLocation; s < target; s++ {
		if !w.validity[s] {
			return false
		}
	}
	return true
}

// NextStep advances one step when the next step is reachable.
func (w *Wizard) NextStep() bool {
	next := w.current + 1
	if !next.Valid() || !w.CanNavigateTo(next) {
		return false
	}
	w.current = next
	return true
}

// PreviousStep goes back one step, stopping at Location.
func (w *Wizard) PreviousStep() bool {
	if w.current == StepLocation {
		return false
	}
	w.current--
	return true
}

// SetCurrentStep jumps to step when it is reachable.
func (w *Wizard) SetCurrentStep(step Step) bool {
	if !w.CanNavigateTo(step) {
		return false
	}
	w.current = step
	return true
}

// Progress is the share of valid steps, in percent.
func (w *Wizard) Progress() int {
	return w.validity.ValidCount() * 100 / StepCount
}

// Complete reports whether the wizard reached its terminal state.
func (w *Wizard) Complete() bool {
	return w.validity.ValidCount() == StepCount
}

// CaptureAttribution records the campaign parameters of the visit. Values captured
// earlier are never overwritten, and an empty incoming set changes nothing.
func (w *Wizard) CaptureAttribution(incoming domain.Attribution) bool {
	if !w.attribution.IsEmpty() || incoming.IsEmpty() {
		return false
	}
	w.attribution = incoming
	return true
}

// Submission returns the lead recorded for this run, or nil before submission.
func (w *Wizard) Submission() *domain.Submission {
	if w.submission == nil {
		return nil
	}
	sub := *w.submission
	return &sub
}

// MarkSubmitted records the lead stored for this run. A run has at most one lead.
func (w *Wizard) MarkSubmitted(sub domain.Submission) {
	w.submission = &sub
}

// Reset clears the lead, validity and submission and starts a new session.
// Attribution is kept.
func (w *Wizard) Reset() {
	w.data = domain.LeadData{}
	w.submission = nil
	w.validity = StepValidation{}
	w.current = StepLocation
	w.sessionID = w.newID()
}
