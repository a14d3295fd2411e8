// Package notification provides event handlers that tell the sales team about new
// simulator leads and schedule the first WhatsApp contact.
// This module subscribes to events so the simulator never knows about e-mail
// providers or the task queue.
package notification

import (
	"context"
	"errors"
	"time"

	"simulador_solar_backend/internal/email"
	"simulador_solar_backend/internal/events"
	"simulador_solar_backend/internal/scheduler"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/phone"
)

// Config provides the notification settings.
type Config interface {
	GetSalesInbox() string
	GetOutreachDelay() time.Duration
}

// Module handles lead events.
type Module struct {
	sender   email.Sender
	outreach scheduler.OutreachScheduler
	cfg      Config
	log      *logger.Logger
}

// New creates the notification module. outreach may be nil when no task queue is configured.
func New(sender email.Sender, outreach scheduler.OutreachScheduler, cfg Config, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, outreach: outreach, cfg: cfg, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadSubmitted{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadSubmitted:
		return m.handleLeadSubmitted(ctx, e)
	case events.LeadStatusChanged:
		m.log.WithContext(ctx).Info("lead status changed", "leadId", e.LeadID, "status", e.NewStatus, "source", e.Source)
		return nil
	default:
		return nil
	}
}

func (m *Module) handleLeadSubmitted(ctx context.Context, e events.LeadSubmitted) error {
	log := m.log.WithContext(ctx).WithSessionID(e.SessionID.String())

	var errs []error
	if inbox := m.cfg.GetSalesInbox(); inbox != "" {
		if err := m.sender.SendLeadNotification(ctx, inbox, toNotification(e)); err != nil {
			log.Error("failed to send lead notification e-mail", "leadId", e.LeadID, "error", err)
			errs = append(errs, err)
		}
	}

	// Placeholder leads have no stored row for the worker to update.
	if m.outreach == nil || !e.IsQualified || e.Placeholder {
		return errors.Join(errs...)
	}
	if !phone.IsMobile(e.PhoneNumber) {
		log.Info("lead outreach skipped: not a mobile number", "leadId", e.LeadID)
		return errors.Join(errs...)
	}

	payload := scheduler.LeadOutreachPayload{
		LeadID:  e.LeadID.String(),
		Phone:   e.PhoneNumber,
		Message: message.Greeting(e.FullName, e.SystemSizeKWp, e.EstimatedMonthlySavings),
	}
	if err := m.outreach.ScheduleLeadOutreach(ctx, payload, m.cfg.GetOutreachDelay()); err != nil {
		log.Error("failed to schedule lead outreach", "leadId", e.LeadID, "error", err)
		errs = append(errs, err)
	} else {
		log.Info("lead outreach scheduled", "leadId", e.LeadID, "delay", m.cfg.GetOutreachDelay())
	}
	return errors.Join(errs...)
}

func toNotification(e events.LeadSubmitted) email.LeadNotification {
	return email.LeadNotification{
		LeadID:                  e.LeadID.String(),
		FullName:                e.FullName,
		PhoneNumber:             e.PhoneNumber,
		Email:                   e.Email,
		City:                    e.City,
		State:                   e.State,
		MonthlyBillAmount:       message.Currency(e.MonthlyBillAmount),
		IsQualified:             e.IsQualified,
		DisqualificationReason:  e.DisqualificationReason,
		SystemSizeKWp:           message.KWp(e.SystemSizeKWp),
		EstimatedMonthlySavings: message.Currency(e.EstimatedMonthlySavings),
		PackageTier:             qualification.PackageTier(e.PackageTier).Label(),
		Warnings:                e.Warnings,
		DeepLinkURL:             e.DeepLinkURL,
		UTMSource:               e.UTMSource,
		UTMCampaign:             e.UTMCampaign,
		Placeholder:             e.Placeholder,
	}
}
