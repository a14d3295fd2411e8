package wizard

import (
	"encoding/json"
	"fmt"
	"strings"

	"simulador_solar_backend/internal/simulator/domain"
)

// Step identifies a wizard screen. Steps are ordered.
type Step int

const (
	StepLocation Step = iota
	StepConsumption
	StepTechnicalFit
	StepContact

	// StepCount is the number of wizard steps.
	StepCount = 4
)

var stepNames = [StepCount]string{"location", "consumption", "technicalFit", "contact"}

// Valid reports whether s is one of the four steps.
func (s Step) Valid() bool {
	return s >= StepLocation && s <= StepContact
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// StepValidation holds the validity flag of every step, indexed by Step.
type StepValidation [StepCount]bool

// ValidCount returns how many steps are valid.
func (v StepValidation) ValidCount() int {
	n := 0
	for _, ok := range v {
		if ok {
			n++
		}
	}
	return n
}

// MarshalJSON renders the flags as an object keyed by step name.
func (v StepValidation) MarshalJSON() ([]byte, error) {
	out := make(map[string]bool, StepCount)
	for i, ok := range v {
		out[stepNames[i]] = ok
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the object form. Unknown keys are ignored.
func (v *StepValidation) UnmarshalJSON(data []byte) error {
	var in map[string]bool
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	for i, name := range stepNames {
		v[i] = in[name]
	}
	return nil
}

// RecomputeValidity evaluates every step against the aggregate lead data.
// Steps only check presence; field-level rules run in the handlers and at submission.
func RecomputeValidity(d domain.LeadData) StepValidation {
	return StepValidation{
		StepLocation:     present(d.PostalCode) && present(d.City) && present(d.State),
		StepConsumption:  d.MonthlyBillAmount > 0 && d.ConnectionType != "",
		StepTechnicalFit: d.RoofType != "",
		StepContact:      present(d.FullName) && present(d.PhoneNumber) && present(d.Email),
	}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
