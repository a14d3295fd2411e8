package adapters

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/message"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/platform/logger"

	"github.com/google/uuid"
)

func exampleLead() domain.LeadData {
	return domain.LeadData{
		PostalCode:        "01310-100",
		City:              "São Paulo",
		State:             "SP",
		MonthlyBillAmount: 300,
		ConnectionType:    domain.ConnectionTwoPhase,
		RoofType:          domain.RoofClayTile,
		FullName:          "João Silva",
		PhoneNumber:       "11999999999",
		Email:             "test@example.com",
	}
}

func TestLeadRecorderWithoutStoreReturnsPlaceholder(t *testing.T) {
	recorder := NewLeadRecorder(gateway.New(nil, nil, logger.Discard()))
	ctx := context.Background()
	sessionID := uuid.New()

	res, err := qualification.NewEngine(qualification.DefaultConstants(), nil).Qualify(exampleLead())
	if err != nil {
		t.Fatalf("qualify: %v", err)
	}
	rec, err := recorder.Record(ctx, sessionID, exampleLead(), res, domain.Attribution{Source: "google"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !rec.Placeholder || rec.ID == uuid.Nil || rec.Status != "qualified" {
		t.Fatalf("unexpected placeholder %+v", rec)
	}

	found, err := recorder.FindBySession(ctx, sessionID)
	if err != nil || found != nil {
		t.Fatalf("unconfigured store must report nothing: %+v %v", found, err)
	}
	updated, err := recorder.MarkContactedViaWhatsApp(ctx, rec.ID)
	if err != nil || updated {
		t.Fatalf("unconfigured store must not update: %v %v", updated, err)
	}
}

func TestLeadRecorderDisqualifiedLeadIsNew(t *testing.T) {
	recorder := NewLeadRecorder(gateway.New(nil, nil, logger.Discard()))
	lead := exampleLead()
	lead.MonthlyBillAmount = 100

	res, _ := qualification.NewEngine(qualification.DefaultConstants(), nil).Qualify(lead)
	rec, err := recorder.Record(context.Background(), uuid.New(), lead, res, domain.Attribution{})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Status != "new" {
		t.Fatalf("expected status new, got %q", rec.Status)
	}
}

func TestSalesLinkGreetsByFirstName(t *testing.T) {
	lead := gateway.Lead{LeadFields: gateway.LeadFields{
		FullName:                "Maria da Silva",
		PhoneNumber:             "(21) 98888-7777",
		SystemSizeKWp:           4,
		EstimatedMonthlySavings: 270,
	}}

	phone, link := NewSalesLinker(message.NewFormatter("")).SalesLink(lead)
	if phone != "5521988887777" {
		t.Fatalf("unexpected phone %q", phone)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	text := parsed.Query().Get("text")
	if !strings.HasPrefix(text, "Olá Maria!") || !strings.Contains(text, "4,0 kWp") || !strings.Contains(text, "R$ 270,00") {
		t.Fatalf("unexpected greeting %q", text)
	}
}
