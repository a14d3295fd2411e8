package validation

import (
	"testing"

	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/validator"
)

func TestCEPRoundTrip(t *testing.T) {
	inputs := []string{"01310100", "01310-100", " 01310 100 ", "99999-999", "00000000"}
	for _, in := range inputs {
		formatted, err := FormatCEP(in)
		if err != nil {
			t.Fatalf("FormatCEP(%q): %v", in, err)
		}
		if CleanCEP(formatted) != CleanCEP(in) {
			t.Errorf("clean(format(%q)) = %q, want %q", in, CleanCEP(formatted), CleanCEP(in))
		}
		again, _ := FormatCEP(CleanCEP(in))
		if again != formatted {
			t.Errorf("format(clean(%q)) = %q, want %q", in, again, formatted)
		}
	}
}

func TestMalformedCEP(t *testing.T) {
	for _, in := range []string{"", "1234567", "123456789", "abcdefgh", "0131-010"} {
		if IsValidCEPFormat(in) {
			t.Errorf("IsValidCEPFormat(%q) should be false", in)
		}
		if _, err := FormatCEP(in); !apperr.HasCode(err, CodeInvalidCEP) {
			t.Errorf("FormatCEP(%q) should fail with INVALID_CEP, got %v", in, err)
		}
		if !apperr.HasCode(ValidateCEP(in), CodeInvalidCEP) {
			t.Errorf("ValidateCEP(%q) should fail with INVALID_CEP", in)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in     string
		basic  bool
		strict bool
	}{
		{"11999999999", true, true},
		{"(11) 99999-9999", true, true},
		{"1133334444", true, true},
		{"11899999999", true, false},   // 11 digits without mobile 9
		{"1193334444", true, false},    // landline starting with 9
		{"1163334444", true, false},    // landline starting with 6
		{"20999999999", true, false},   // unknown DDD
		{"999999999", false, false},    // too short
		{"119999999999", false, false}, // too long
		{"", false, false},
	}

	for _, tc := range cases {
		if got := ValidatePhone(tc.in) == nil; got != tc.basic {
			t.Errorf("ValidatePhone(%q) valid=%v, want %v", tc.in, got, tc.basic)
		}
		err := ValidatePhoneStrict(tc.in)
		if got := err == nil; got != tc.strict {
			t.Errorf("ValidatePhoneStrict(%q) valid=%v, want %v", tc.in, got, tc.strict)
		}
		if err != nil && !apperr.HasCode(err, CodeInvalidPhone) {
			t.Errorf("ValidatePhoneStrict(%q) code = %q", tc.in, apperr.CodeOf(err))
		}
	}
}

func TestWhitelistSize(t *testing.T) {
	if len(validDDDs) != 67 {
		t.Fatalf("expected 67 area codes, got %d", len(validDDDs))
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"test@example.com", "joao.silva+solar@empresa.com.br"}
	invalid := []string{"", "plain", "a@b", "a b@c.com", "@example.com"}
	for _, in := range valid {
		if err := ValidateEmail(in); err != nil {
			t.Errorf("ValidateEmail(%q) = %v", in, err)
		}
	}
	for _, in := range invalid {
		if !apperr.HasCode(ValidateEmail(in), CodeInvalidEmail) {
			t.Errorf("ValidateEmail(%q) should fail", in)
		}
	}
}

func TestParseBillAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"300", 300, true},
		{"300.50", 300.5, true},
		{"300,50", 300.5, true},
		{"R$ 1.234,56", 1234.56, true},
		{"R$ 1.500", 1500, true},
		{"1.234", 1234, true},
		{"1.234.567", 1234567, true},
		{"1.234.567,89", 1234567.89, true},
		{"1,234.56", 1234.56, true},
		{"1,234,567.89", 1234567.89, true},
		{"1,5", 1.5, true},
		{"0.500", 0.5, true},
		{"12.34.56", 0, false},
		{"1.23,45", 0, false},
		{"0", 0, false},
		{"-10", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseBillAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseBillAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
			continue
		}
		if !apperr.HasCode(err, CodeInvalidBillValue) {
			t.Errorf("ParseBillAmount(%q) should fail with INVALID_BILL_VALUE, got %v", tc.in, err)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if ValidateRequired("  João ", "fullName") != nil {
		t.Errorf("non-empty value should pass")
	}
	err := ValidateRequired("   ", "fullName")
	if !apperr.HasCode(err, CodeRequiredField) || !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("blank value should fail with REQUIRED_FIELD, got %v", err)
	}
}

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	if err := RegisterTags(v); err != nil {
		t.Fatalf("register tags: %v", err)
	}

	type form struct {
		PostalCode *string `json:"postalCode" validate:"omitempty,cep"`
		Phone      string  `json:"phone" validate:"br_phone"`
	}
	good := "01310-100"
	bad := "0131"

	if err := v.Struct(form{PostalCode: &good, Phone: "11999999999"}); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	if err := v.Struct(form{Phone: "11999999999"}); err != nil {
		t.Fatalf("nil postal code should be skipped, got %v", err)
	}

	err := v.Struct(form{PostalCode: &bad, Phone: "123"})
	fields := validator.FieldErrors(err)
	if fields["postalCode"] != "cep" || fields["phone"] != "br_phone" {
		t.Fatalf("unexpected field errors %v", fields)
	}
}
