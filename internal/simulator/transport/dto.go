package transport

import (
	"bytes"
	"encoding/json"

	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/ports"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/internal/simulator/wizard"
	"simulador_solar_backend/platform/apperr"

	"github.com/google/uuid"
)

// BillAmount accepts a JSON number or a formatted string such as "R$ 1.234,56".
// Parse failures are kept in Err so they surface as INVALID_BILL_VALUE instead of a
// generic bad request.
type BillAmount struct {
	Value float64
	Err   error
}

func (b *BillAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		b.Value, b.Err = validation.ParseBillAmount(raw)
		return nil
	}

	if err := json.Unmarshal(data, &b.Value); err != nil {
		b.Err = validation.ValidateBillAmount(0)
		return nil
	}
	b.Err = validation.ValidateBillAmount(b.Value)
	return nil
}

// Request DTOs
type StartSessionRequest struct {
	UTMSource   string `json:"utmSource" validate:"max=255"`
	UTMMedium   string `json:"utmMedium" validate:"max=255"`
	UTMCampaign string `json:"utmCampaign" validate:"max=255"`
	UTMTerm     string `json:"utmTerm" validate:"max=255"`
	UTMContent  string `json:"utmContent" validate:"max=255"`
}

func (r StartSessionRequest) Attribution() domain.Attribution {
	return domain.Attribution{
		Source:   r.UTMSource,
		Medium:   r.UTMMedium,
		Campaign: r.UTMCampaign,
		Term:     r.UTMTerm,
		Content:  r.UTMContent,
	}
}

type UpdateLeadRequest struct {
	PostalCode        *string     `json:"postalCode" validate:"omitnil,max=9"`
	City              *string     `json:"city" validate:"omitnil,max=120"`
	State             *string     `json:"state" validate:"omitnil,max=2"`
	MonthlyBillAmount *BillAmount `json:"monthlyBillAmount"`
	ConnectionType    *string     `json:"connectionType" validate:"omitnil,oneof=monofasico bifasico trifasico"`
	RoofType          *string     `json:"roofType" validate:"omitnil,oneof=ceramica metalica fibrocimento laje"`
	FullName          *string     `json:"fullName" validate:"omitnil,max=120"`
	PhoneNumber       *string     `json:"phoneNumber" validate:"omitnil,max=20"`
	Email             *string     `json:"email" validate:"omitnil,max=254"`
}

// Patch converts the request into a wizard patch.
func (r UpdateLeadRequest) Patch() domain.LeadPatch {
	patch := domain.LeadPatch{
		PostalCode:  r.PostalCode,
		City:        r.City,
		State:       r.State,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
	}
	if r.MonthlyBillAmount != nil {
		value := r.MonthlyBillAmount.Value
		patch.MonthlyBillAmount = &value
	}
	if r.ConnectionType != nil {
		ct := domain.ConnectionType(*r.ConnectionType)
		patch.ConnectionType = &ct
	}
	if r.RoofType != nil {
		rt := domain.RoofType(*r.RoofType)
		patch.RoofType = &rt
	}
	return patch
}

type SetStepRequest struct {
	Step *int `json:"step" validate:"required,min=0,max=3"`
}

type WhatsAppClickRequest struct {
	LeadID uuid.UUID `json:"leadId" validate:"required"`
}

// QualifyRequest is a complete lead for one-shot qualification without a session.
type QualifyRequest struct {
	PostalCode        string  `json:"postalCode" validate:"required,cep"`
	City              string  `json:"city" validate:"required,max=120"`
	State             string  `json:"state" validate:"required,len=2,alpha"`
	MonthlyBillAmount float64 `json:"monthlyBillAmount" validate:"required,gt=0"`
	ConnectionType    string  `json:"connectionType" validate:"required,oneof=monofasico bifasico trifasico"`
	RoofType          string  `json:"roofType" validate:"required,oneof=ceramica metalica fibrocimento laje"`
	FullName          string  `json:"fullName" validate:"required,max=120"`
	PhoneNumber       string  `json:"phoneNumber" validate:"required,br_phone"`
	Email             string  `json:"email" validate:"required,email,max=254"`
}

func (r QualifyRequest) LeadData() domain.LeadData {
	return domain.LeadData{
		PostalCode:        r.PostalCode,
		City:              r.City,
		State:             r.State,
		MonthlyBillAmount: r.MonthlyBillAmount,
		ConnectionType:    domain.ConnectionType(r.ConnectionType),
		RoofType:          domain.RoofType(r.RoofType),
		FullName:          r.FullName,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
	}
}

// Response DTOs
type FieldError struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

type SessionResponse struct {
	SessionID       uuid.UUID             `json:"sessionId"`
	CurrentStep     wizard.Step           `json:"currentStep"`
	CurrentStepName string                `json:"currentStepName"`
	Progress        int                   `json:"progress"`
	StepValidation  wizard.StepValidation `json:"stepValidation"`
	Reachable       [wizard.StepCount]bool `json:"reachable"`
	Complete        bool                  `json:"complete"`
	LeadData        domain.LeadData       `json:"leadData"`
	Attribution     domain.Attribution    `json:"attribution"`
	FieldErrors     map[string]FieldError `json:"fieldErrors,omitempty"`
	Moved           *bool                 `json:"moved,omitempty"`
}

type QualificationResponse struct {
	Qualification qualification.Result `json:"qualification"`
	Message       *message.Message     `json:"message,omitempty"`
}

type SubmitResponse struct {
	Lead          ports.RecordedLead   `json:"lead"`
	Qualification qualification.Result `json:"qualification"`
	Message       message.Message      `json:"message"`
}

type LeadStatusResponse struct {
	Lead *ports.RecordedLead `json:"lead"`
}

type WhatsAppClickResponse struct {
	Updated bool `json:"updated"`
}
