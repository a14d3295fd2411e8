// Package domain holds the data shared by the simulator wizard, the qualification
// engine, the outreach formatter and the leads gateway.
package domain

import (
	"strings"
	"time"

	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	// CodeInsufficientData is returned when an operation needs a complete lead.
	CodeInsufficientData apperr.Code = "INSUFFICIENT_DATA"
	// CodeUnknownError is returned for unexpected submission failures.
	CodeUnknownError apperr.Code = "UNKNOWN_ERROR"
)

// ConnectionType is the utility grid connection of the residence.
type ConnectionType string

const (
	ConnectionSinglePhase ConnectionType = "monofasico"
	ConnectionTwoPhase    ConnectionType = "bifasico"
	ConnectionThreePhase  ConnectionType = "trifasico"
)

// Valid reports whether c is a known connection type.
func (c ConnectionType) Valid() bool {
	switch c {
	case ConnectionSinglePhase, ConnectionTwoPhase, ConnectionThreePhase:
		return true
	}
	return false
}

// Label is the pt-BR display name.
func (c ConnectionType) Label() string {
	switch c {
	case ConnectionSinglePhase:
		return "Monofásico"
	case ConnectionTwoPhase:
		return "Bifásico"
	case ConnectionThreePhase:
		return "Trifásico"
	}
	return string(c)
}

// RoofType is the roof covering where panels would be installed.
type RoofType string

const (
	RoofClayTile     RoofType = "ceramica"
	RoofMetalTile    RoofType = "metalica"
	RoofFiberCement  RoofType = "fibrocimento"
	RoofConcreteSlab RoofType = "laje"
)

// Valid reports whether r is a known roof type.
func (r RoofType) Valid() bool {
	switch r {
	case RoofClayTile, RoofMetalTile, RoofFiberCement, RoofConcreteSlab:
		return true
	}
	return false
}

// Label is the pt-BR display name.
func (r RoofType) Label() string {
	switch r {
	case RoofClayTile:
		return "Telha cerâmica"
	case RoofMetalTile:
		return "Telha metálica"
	case RoofFiberCement:
		return "Fibrocimento"
	case RoofConcreteSlab:
		return "Laje"
	}
	return string(r)
}

// LeadData is the lead information accumulated across the wizard steps.
// Zero values mean "not provided yet".
type LeadData struct {
	PostalCode        string         `json:"postalCode,omitempty"`
	City              string         `json:"city,omitempty"`
	State             string         `json:"state,omitempty"`
	MonthlyBillAmount float64        `json:"monthlyBillAmount,omitempty"`
	ConnectionType    ConnectionType `json:"connectionType,omitempty"`
	RoofType          RoofType       `json:"roofType,omitempty"`
	FullName          string         `json:"fullName,omitempty"`
	PhoneNumber       string         `json:"phoneNumber,omitempty"`
	Email             string         `json:"email,omitempty"`
}

// Complete reports whether every field is present and individually valid.
func (d LeadData) Complete() bool {
	return d.Problems() == nil
}

// Problems returns the first validation error per missing or invalid field,
// keyed by JSON field name. Nil when the lead is complete.
func (d LeadData) Problems() map[string]error {
	problems := make(map[string]error)
	add := func(field string, err error) {
		if err != nil {
			problems[field] = err
		}
	}

	add("postalCode", validation.ValidateCEP(d.PostalCode))
	add("city", validation.ValidateRequired(d.City, "city"))
	add("state", validateState(d.State))
	add("monthlyBillAmount", validation.ValidateBillAmount(d.MonthlyBillAmount))
	if !d.ConnectionType.Valid() {
		add("connectionType", validation.ValidateRequired("", "connectionType"))
	}
	if !d.RoofType.Valid() {
		add("roofType", validation.ValidateRequired("", "roofType"))
	}
	add("fullName", validation.ValidateRequired(d.FullName, "fullName"))
	add("phoneNumber", validation.ValidatePhoneStrict(d.PhoneNumber))
	add("email", validation.ValidateEmail(d.Email))

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func validateState(state string) error {
	if err := validation.ValidateRequired(state, "state"); err != nil {
		return err
	}
	if len(strings.TrimSpace(state)) != 2 {
		return apperr.Coded(apperr.KindValidation, validation.CodeRequiredField, "Informe a sigla do estado (UF).").
			WithDetails(map[string]string{"field": "state"})
	}
	return nil
}

// LeadPatch is a partial update. Nil fields are left untouched.
type LeadPatch struct {
	PostalCode        *string         `json:"postalCode,omitempty"`
	City              *string         `json:"city,omitempty"`
	State             *string         `json:"state,omitempty"`
	MonthlyBillAmount *float64        `json:"monthlyBillAmount,omitempty"`
	ConnectionType    *ConnectionType `json:"connectionType,omitempty"`
	RoofType          *RoofType       `json:"roofType,omitempty"`
	FullName          *string         `json:"fullName,omitempty"`
	PhoneNumber       *string         `json:"phoneNumber,omitempty"`
	Email             *string         `json:"email,omitempty"`
}

// Apply merges the patch into d and returns the result.
func (p LeadPatch) Apply(d LeadData) LeadData {
	if p.PostalCode != nil {
		d.PostalCode = *p.PostalCode
	}
	if p.City != nil {
		d.City = *p.City
	}
	if p.State != nil {
		d.State = strings.ToUpper(strings.TrimSpace(*p.State))
	}
	if p.MonthlyBillAmount != nil {
		d.MonthlyBillAmount = *p.MonthlyBillAmount
	}
	if p.ConnectionType != nil {
		d.ConnectionType = *p.ConnectionType
	}
	if p.RoofType != nil {
		d.RoofType = *p.RoofType
	}
	if p.FullName != nil {
		d.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		d.PhoneNumber = *p.PhoneNumber
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	return d
}

// Attribution is the marketing campaign snapshot captured once per visit.
type Attribution struct {
	Source   string `json:"utmSource,omitempty"`
	Medium   string `json:"utmMedium,omitempty"`
	Campaign string `json:"utmCampaign,omitempty"`
	Term     string `json:"utmTerm,omitempty"`
	Content  string `json:"utmContent,omitempty"`
}

// IsEmpty reports whether no parameter was captured.
func (a Attribution) IsEmpty() bool {
	return a == Attribution{}
}

// Submission is the lead recorded for a completed wizard run.
type Submission struct {
	LeadID      uuid.UUID `json:"leadId"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	Placeholder bool      `json:"placeholder,omitempty"`
}
