package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type ListLeadsRequest struct {
	Status      string `form:"status" json:"status" validate:"omitempty,oneof=new qualified contacted_via_whatsapp contacted"`
	State       string `form:"state" json:"state" validate:"omitempty,len=2,alpha"`
	UTMSource   string `form:"utmSource" json:"utmSource" validate:"max=255"`
	UTMCampaign string `form:"utmCampaign" json:"utmCampaign" validate:"max=255"`
	Search      string `form:"search" json:"search" validate:"max=100"`
	From        string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" json:"page" validate:"min=1"`
	PageSize    int    `form:"pageSize" json:"pageSize" validate:"min=1,max=100"`
	SortBy      string `form:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt fullName city state status monthlyBillAmount systemSizeKwp"`
	SortOrder   string `form:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new qualified contacted_via_whatsapp contacted"`
}

// Response DTOs
type AttributionResponse struct {
	Source   string `json:"utmSource,omitempty"`
	Medium   string `json:"utmMedium,omitempty"`
	Campaign string `json:"utmCampaign,omitempty"`
	Term     string `json:"utmTerm,omitempty"`
	Content  string `json:"utmContent,omitempty"`
}

type LeadResponse struct {
	ID                      uuid.UUID           `json:"id"`
	CreatedAt               time.Time           `json:"createdAt"`
	SessionID               uuid.UUID           `json:"sessionId"`
	Status                  string              `json:"status"`
	PostalCode              string              `json:"postalCode"`
	City                    string              `json:"city"`
	State                   string              `json:"state"`
	MonthlyBillAmount       float64             `json:"monthlyBillAmount"`
	ConnectionType          string              `json:"connectionType"`
	RoofType                string              `json:"roofType"`
	FullName                string              `json:"fullName"`
	PhoneNumber             string              `json:"phoneNumber"`
	PhoneE164               string              `json:"phoneE164,omitempty"`
	Email                   string              `json:"email"`
	SystemSizeKWp           float64             `json:"systemSizeKwp"`
	EstimatedMonthlySavings float64             `json:"estimatedMonthlySavings"`
	DisqualificationReason  string              `json:"disqualificationReason,omitempty"`
	Warnings                []string            `json:"warnings"`
	Attribution             AttributionResponse `json:"attribution"`
	Placeholder             bool                `json:"placeholder,omitempty"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type WhatsAppLinkResponse struct {
	Phone       string `json:"phone"`
	DeepLinkURL string `json:"deepLinkUrl"`
}
