package domain

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"new", StatusNew, true},
		{" Qualified ", StatusQualified, true},
		{"CONTACTED_VIA_WHATSAPP", StatusContactedViaWhatsApp, true},
		{"contacted", StatusContacted, true},
		{"lost", Status("lost"), false},
		{"", Status(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseStatus(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	if InitialStatus(true) != StatusQualified || InitialStatus(false) != StatusNew {
		t.Fatalf("unexpected initial statuses")
	}
	if !StatusContactedViaWhatsApp.IsContacted() || StatusQualified.IsContacted() {
		t.Fatalf("unexpected IsContacted")
	}
}
