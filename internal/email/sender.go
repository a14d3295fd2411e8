package email

import (
	"context"

	"simulador_solar_backend/platform/config"
)

// LeadNotification is what the sales inbox receives for each submitted simulation.
type LeadNotification struct {
	LeadID                  string
	FullName                string
	PhoneNumber             string
	Email                   string
	City                    string
	State                   string
	MonthlyBillAmount       string
	IsQualified             bool
	DisqualificationReason  string
	SystemSizeKWp           string
	EstimatedMonthlySavings string
	PackageTier             string
	Warnings                []string
	DeepLinkURL             string
	UTMSource               string
	UTMCampaign             string
	Placeholder             bool
}

type Sender interface {
	SendLeadNotification(ctx context.Context, toEmail string, lead LeadNotification) error
}

type NoopSender struct{}

func (NoopSender) SendLeadNotification(ctx context.Context, toEmail string, lead LeadNotification) error {
	return nil
}

// NewSender returns the SMTP sender when e-mail is configured and a NoopSender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
