package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"11999999999", "+5511999999999"},
		{"(11) 99999-9999", "+5511999999999"},
		{"+55 21 98765-4321", "+5521987654321"},
		{"  ", ""},
		{"abc", "abc"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsMobile(t *testing.T) {
	if !IsMobile("11999999999") {
		t.Errorf("expected mobile number")
	}
	if IsMobile("not a number") {
		t.Errorf("expected garbage to be rejected")
	}
}
