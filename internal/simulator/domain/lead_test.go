package domain

import "testing"

func completeLead() LeadData {
	return LeadData{
		PostalCode:        "01310-100",
		City:              "São Paulo",
		State:             "SP",
		MonthlyBillAmount: 300,
		ConnectionType:    ConnectionTwoPhase,
		RoofType:          RoofClayTile,
		FullName:          "João Silva",
		PhoneNumber:       "11999999999",
		Email:             "test@example.com",
	}
}

func TestComplete(t *testing.T) {
	if !completeLead().Complete() {
		t.Fatalf("expected complete lead, problems: %v", completeLead().Problems())
	}

	cases := map[string]func(*LeadData){
		"postalCode":        func(d *LeadData) { d.PostalCode = "123" },
		"state":             func(d *LeadData) { d.State = "SAO" },
		"monthlyBillAmount": func(d *LeadData) { d.MonthlyBillAmount = 0 },
		"connectionType":    func(d *LeadData) { d.ConnectionType = "solar" },
		"roofType":          func(d *LeadData) { d.RoofType = "" },
		"phoneNumber":       func(d *LeadData) { d.PhoneNumber = "11899999999" },
		"email":             func(d *LeadData) { d.Email = "nope" },
	}
	for field, mutate := range cases {
		d := completeLead()
		mutate(&d)
		if d.Complete() {
			t.Errorf("%s: expected incomplete lead", field)
		}
		if _, ok := d.Problems()[field]; !ok {
			t.Errorf("%s: expected problem on field, got %v", field, d.Problems())
		}
	}
}

func TestPatchApplyOnlyTouchesProvidedFields(t *testing.T) {
	city := "Campinas"
	state := " sp "
	bill := 420.0
	patched := LeadPatch{City: &city, State: &state, MonthlyBillAmount: &bill}.Apply(completeLead())

	if patched.City != "Campinas" || patched.State != "SP" || patched.MonthlyBillAmount != 420 {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if patched.FullName != "João Silva" || patched.RoofType != RoofClayTile {
		t.Fatalf("untouched fields changed: %+v", patched)
	}
}

func TestLabels(t *testing.T) {
	if ConnectionSinglePhase.Label() != "Monofásico" || RoofFiberCement.Label() != "Fibrocimento" {
		t.Fatalf("unexpected labels")
	}
	if (Attribution{}).IsEmpty() != true || (Attribution{Source: "google"}).IsEmpty() {
		t.Fatalf("IsEmpty mismatch")
	}
}
