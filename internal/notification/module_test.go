package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"simulador_solar_backend/internal/email"
	"simulador_solar_backend/internal/events"
	"simulador_solar_backend/internal/scheduler"
	"simulador_solar_backend/platform/logger"

	"github.com/google/uuid"
)

type testConfig struct{ inbox string }

func (c testConfig) GetSalesInbox() string           { return c.inbox }
func (c testConfig) GetOutreachDelay() time.Duration { return 2 * time.Minute }

type testSender struct {
	to    []string
	leads []email.LeadNotification
	err   error
}

func (s *testSender) SendLeadNotification(_ context.Context, toEmail string, lead email.LeadNotification) error {
	s.to = append(s.to, toEmail)
	s.leads = append(s.leads, lead)
	return s.err
}

type testScheduler struct {
	payloads []scheduler.LeadOutreachPayload
	delays   []time.Duration
}

func (s *testScheduler) ScheduleLeadOutreach(_ context.Context, payload scheduler.LeadOutreachPayload, delay time.Duration) error {
	s.payloads = append(s.payloads, payload)
	s.delays = append(s.delays, delay)
	return nil
}

func submitted(qualified, placeholder bool) events.LeadSubmitted {
	return events.LeadSubmitted{
		BaseEvent:               events.NewBaseEvent(),
		LeadID:                  uuid.New(),
		SessionID:               uuid.New(),
		Placeholder:             placeholder,
		FullName:                "João Silva",
		PhoneNumber:             "11999999999",
		City:                    "São Paulo",
		State:                   "SP",
		MonthlyBillAmount:       300,
		IsQualified:             qualified,
		SystemSizeKWp:           4,
		EstimatedMonthlySavings: 270,
		PackageTier:             "medium",
	}
}

func TestQualifiedLeadNotifiesAndSchedulesOutreach(t *testing.T) {
	sender := &testSender{}
	sched := &testScheduler{}
	m := New(sender, sched, testConfig{inbox: "vendas@example.com"}, logger.Discard())

	event := submitted(true, false)
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sender.to) != 1 || sender.to[0] != "vendas@example.com" {
		t.Fatalf("expected one e-mail to the sales inbox, got %v", sender.to)
	}
	if got := sender.leads[0]; got.MonthlyBillAmount != "R$ 300,00" || got.PackageTier != "Médio" {
		t.Fatalf("unexpected notification %+v", got)
	}
	if len(sched.payloads) != 1 || sched.payloads[0].LeadID != event.LeadID.String() || sched.delays[0] != 2*time.Minute {
		t.Fatalf("unexpected outreach %+v %v", sched.payloads, sched.delays)
	}
}

func TestOutreachSkippedForPlaceholderAndDisqualifiedLeads(t *testing.T) {
	sched := &testScheduler{}
	m := New(&testSender{}, sched, testConfig{}, logger.Discard())
	ctx := context.Background()

	_ = m.Handle(ctx, submitted(true, true))
	_ = m.Handle(ctx, submitted(false, false))
	if len(sched.payloads) != 0 {
		t.Fatalf("no outreach expected, got %v", sched.payloads)
	}
}

func TestEmailFailureStillSchedulesOutreach(t *testing.T) {
	sched := &testScheduler{}
	m := New(&testSender{err: errors.New("smtp down")}, sched, testConfig{inbox: "vendas@example.com"}, logger.Discard())

	if err := m.Handle(context.Background(), submitted(true, false)); err == nil {
		t.Fatalf("expected the e-mail error to be reported")
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("outreach must still be scheduled")
	}
}

func TestOutreachSkippedForLandline(t *testing.T) {
	sender := &testSender{}
	sched := &testScheduler{}
	m := New(sender, sched, testConfig{inbox: "vendas@example.com"}, logger.Discard())

	event := submitted(true, false)
	event.PhoneNumber = "(11) 3333-4444"
	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sched.payloads) != 0 {
		t.Fatalf("landlines cannot receive WhatsApp outreach, got %v", sched.payloads)
	}
	if len(sender.to) != 1 {
		t.Fatalf("sales must still be notified")
	}
}
