package message

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/qualification"
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

func exampleResult() qualification.Result {
	return qualification.Result{
		IsQualified:             true,
		Warnings:                []string{},
		SystemSizeKWp:           4.0,
		EstimatedMonthlySavings: 270,
		PackageTier:             qualification.TierMedium,
	}
}

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		1234.5:     "R$ 1.234,50",
		270:        "R$ 270,00",
		0.5:        "R$ 0,50",
		1234567.89: "R$ 1.234.567,89",
		149.99:     "R$ 149,99",
	}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Errorf("Currency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestKWp(t *testing.T) {
	if got := KWp(4.0); got != "4,0" {
		t.Errorf("KWp(4.0) = %q", got)
	}
	if got := KWp(12.3); got != "12,3" {
		t.Errorf("KWp(12.3) = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	for _, in := range []string{"11999999999", "(11) 999999999", "11-999999999", "+55 11 99999-9999"} {
		if got := NormalizePhone(in); got != "5511999999999" {
			t.Errorf("NormalizePhone(%q) = %q", in, got)
		}
	}
}

func TestTextStructure(t *testing.T) {
	text := Text(exampleLead(), exampleResult())
	for _, want := range []string{"Nome: João Silva", "Localização: São Paulo/SP", "Conta de luz: R$ 300,00",
		"Tipo de ligação: Bifásico", "Tipo de telhado: Telha cerâmica", "4,0 kWp", "R$ 270,00/mês", "Pacote: Médio"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if !strings.HasSuffix(text, Disclaimer) {
		t.Errorf("text must end with the disclaimer:\n%s", text)
	}
	if strings.Contains(text, "Observações") {
		t.Errorf("warnings section must be absent without warnings")
	}

	lines := strings.Split(text, "\n")
	if lines[0] != header || !strings.HasPrefix(lines[1], "Nome:") || lines[6] != "" {
		t.Errorf("unexpected layout:\n%s", text)
	}
}

func TestTextWithWarnings(t *testing.T) {
	res := exampleResult()
	res.Warnings = []string{qualification.WarningSinglePhaseLowBill, qualification.WarningFiberCementRoof}
	text := Text(exampleLead(), res)

	first := strings.Index(text, "• "+qualification.WarningSinglePhaseLowBill)
	second := strings.Index(text, "• "+qualification.WarningFiberCementRoof)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("warnings missing or out of order:\n%s", text)
	}
	if !strings.HasSuffix(text, Disclaimer) {
		t.Fatalf("text must end with the disclaimer")
	}
}

func TestTextInvariantsAcrossInputs(t *testing.T) {
	engine := qualification.NewEngine(qualification.DefaultConstants(), nil)
	for _, bill := range []float64{100, 180, 250, 999.99, 12000} {
		for _, rt := range []domain.RoofType{domain.RoofClayTile, domain.RoofFiberCement} {
			lead := exampleLead()
			lead.MonthlyBillAmount, lead.RoofType, lead.ConnectionType = bill, rt, domain.ConnectionSinglePhase
			res, err := engine.Qualify(lead)
			if err != nil {
				t.Fatalf("qualify: %v", err)
			}
			text := Text(lead, res)
			for _, want := range []string{"Nome:", "Localização:", "R$"} {
				if !strings.Contains(text, want) {
					t.Fatalf("missing %q for bill %v", want, bill)
				}
			}
			if !strings.HasSuffix(text, Disclaimer) {
				t.Fatalf("disclaimer not last for bill %v", bill)
			}
		}
	}
}

func TestDeepLinkRoundTrip(t *testing.T) {
	res := exampleResult()
	res.Warnings = []string{qualification.WarningFiberCementRoof}
	msg := NewFormatter("").Format(exampleLead(), res)

	if msg.Phone != "5511999999999" {
		t.Fatalf("unexpected phone %q", msg.Phone)
	}
	if !strings.HasPrefix(msg.DeepLinkURL, "https://wa.me/5511999999999?text=") {
		t.Fatalf("unexpected deep link %q", msg.DeepLinkURL)
	}
	if strings.Contains(msg.DeepLinkURL, "+") {
		t.Fatalf("spaces must be encoded as %%20")
	}

	parsed, err := url.Parse(msg.DeepLinkURL)
	if err != nil {
		t.Fatalf("parse deep link: %v", err)
	}
	if parsed.Query().Get("text") != msg.Text {
		t.Fatalf("decoded text differs from original")
	}
}

func TestCustomDeepLinkBase(t *testing.T) {
	link := NewFormatter("https://api.whatsapp.com/send/").DeepLink("5511999999999", "oi")
	if link != "https://api.whatsapp.com/send/5511999999999?text=oi" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("https://wa.me/5511999999999?text=oi", 0)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected PNG output")
	}
}

func TestGreetingUsesFirstName(t *testing.T) {
	got := Greeting("  Ana Paula Souza ", 6.2, 512.3)
	if !strings.HasPrefix(got, "Olá Ana!") || !strings.Contains(got, "6,2 kWp") || !strings.Contains(got, "R$ 512,30") {
		t.Fatalf("unexpected greeting %q", got)
	}
}
