// Package validation holds the field rules of the solar simulator wizard.
// Every rule is a pure function returning nil when the value is valid, or an
// *apperr.Error carrying a stable code and a pt-BR message.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"simulador_solar_backend/platform/apperr"
)

const (
	CodeInvalidCEP       apperr.Code = "INVALID_CEP"
	CodeInvalidPhone     apperr.Code = "INVALID_PHONE"
	CodeInvalidEmail     apperr.Code = "INVALID_EMAIL"
	CodeInvalidBillValue apperr.Code = "INVALID_BILL_VALUE"
	CodeRequiredField    apperr.Code = "REQUIRED_FIELD"
)

const (
	msgInvalidCEP       = "CEP inválido. Informe os 8 dígitos do CEP."
	msgInvalidPhone     = "Telefone inválido. Informe DDD e número."
	msgInvalidEmail     = "E-mail inválido."
	msgInvalidBillValue = "Informe um valor de conta de luz maior que zero."
	msgRequiredField    = "Campo obrigatório."
)

var (
	nonDigit   = regexp.MustCompile(`\D`)
	cepPattern = regexp.MustCompile(`^\d{8}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validDDDs lists the Brazilian area codes in service.
var validDDDs = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true, "16": true, "17": true, "18": true, "19": true,
	"21": true, "22": true, "24": true, "27": true, "28": true,
	"31": true, "32": true, "33": true, "34": true, "35": true, "37": true, "38": true,
	"41": true, "42": true, "43": true, "44": true, "45": true, "46": true, "47": true, "48": true, "49": true,
	"51": true, "53": true, "54": true, "55": true,
	"61": true, "62": true, "63": true, "64": true, "65": true, "66": true, "67": true, "68": true, "69": true,
	"71": true, "73": true, "74": true, "75": true, "77": true, "79": true,
	"81": true, "82": true, "83": true, "84": true, "85": true, "86": true, "87": true, "88": true, "89": true,
	"91": true, "92": true, "93": true, "94": true, "95": true, "96": true, "97": true, "98": true, "99": true,
}

func fieldError(code apperr.Code, msg, field string) *apperr.Error {
	err := apperr.Coded(apperr.KindValidation, code, msg)
	if field != "" {
		err = err.WithDetails(map[string]string{"field": field})
	}
	return err
}

// CleanCEP strips every non-digit character.
func CleanCEP(raw string) string {
	return nonDigit.ReplaceAllString(raw, "")
}

// IsValidCEPFormat reports whether raw holds exactly 8 digits after cleaning.
func IsValidCEPFormat(raw string) bool {
	return cepPattern.MatchString(CleanCEP(raw))
}

// FormatCEP renders the canonical NNNNN-NNN form.
func FormatCEP(raw string) (string, error) {
	digits := CleanCEP(raw)
	if !cepPattern.MatchString(digits) {
		return "", fieldError(CodeInvalidCEP, msgInvalidCEP, "postalCode")
	}
	return digits[:5] + "-" + digits[5:], nil
}

// ValidateCEP checks a required postal code.
func ValidateCEP(raw string) error {
	if strings.TrimSpace(raw) == "" || !IsValidCEPFormat(raw) {
		return fieldError(CodeInvalidCEP, msgInvalidCEP, "postalCode")
	}
	return nil
}

// CleanPhone strips every non-digit character.
func CleanPhone(raw string) string {
	return nonDigit.ReplaceAllString(raw, "")
}

// ValidatePhone checks a required phone with 10 or 11 digits.
func ValidatePhone(raw string) error {
	digits := CleanPhone(raw)
	if len(digits) != 10 && len(digits) != 11 {
		return fieldError(CodeInvalidPhone, msgInvalidPhone, "phoneNumber")
	}
	return nil
}

// ValidatePhoneStrict also checks the area code and the mobile/landline indicator digit.
func ValidatePhoneStrict(raw string) error {
	if err := ValidatePhone(raw); err != nil {
		return err
	}
	digits := CleanPhone(raw)
	if !validDDDs[digits[:2]] {
		return fieldError(CodeInvalidPhone, msgInvalidPhone, "phoneNumber")
	}

	indicator := digits[2]
	if len(digits) == 11 && indicator != '9' {
		return fieldError(CodeInvalidPhone, msgInvalidPhone, "phoneNumber")
	}
	if len(digits) == 10 && !strings.ContainsRune("234578", rune(indicator)) {
		return fieldError(CodeInvalidPhone, msgInvalidPhone, "phoneNumber")
	}
	return nil
}

// ValidateEmail checks a required local@domain.tld address.
func ValidateEmail(raw string) error {
	if !emailRegex.MatchString(strings.TrimSpace(raw)) {
		return fieldError(CodeInvalidEmail, msgInvalidEmail, "email")
	}
	return nil
}

// ValidateBillAmount checks that a monthly bill is a finite positive value.
func ValidateBillAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fieldError(CodeInvalidBillValue, msgInvalidBillValue, "monthlyBillAmount")
	}
	return nil
}

// ParseBillAmount coerces user input such as "300", "300,50", "R$ 1.500" or
// "R$ 1.234,56" to a positive amount. When both separators appear the last one is the
// decimal mark. Dots grouping exactly three digits are thousands separators, so "1.500"
// is fifteen hundred.
func ParseBillAmount(raw string) (float64, error) {
	invalid := fieldError(CodeInvalidBillValue, msgInvalidBillValue, "monthlyBillAmount")

	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, invalid
	}

	normalized, ok := normalizeDecimal(s)
	if !ok {
		return 0, invalid
	}
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, invalid
	}
	if err := ValidateBillAmount(amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// normalizeDecimal rewrites a pt-BR or en-US formatted number with "." as the only
// decimal mark and no grouping.
func normalizeDecimal(s string) (string, bool) {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimal, group := ",", "."
		if lastDot > lastComma {
			decimal, group = ".", ","
		}
		idx := strings.LastIndex(s, decimal)
		intPart, frac := s[:idx], s[idx+1:]
		if !thousandsGrouped(intPart, group) || strings.Contains(frac, group) {
			return "", false
		}
		return strings.ReplaceAll(intPart, group, "") + "." + frac, true
	case lastComma >= 0:
		return singleSeparator(s, ",")
	case lastDot >= 0:
		return singleSeparator(s, ".")
	}
	return s, true
}

// singleSeparator handles numbers using one kind of separator. Repeated separators, or
// a single dot before exactly three digits, mean thousands. A single comma is always the
// pt-BR decimal mark.
func singleSeparator(s, sep string) (string, bool) {
	if (sep == "." || strings.Count(s, sep) > 1) && thousandsGrouped(s, sep) {
		return strings.ReplaceAll(s, sep, ""), true
	}
	if strings.Count(s, sep) > 1 {
		return "", false
	}
	return strings.Replace(s, sep, ".", 1), true
}

// thousandsGrouped reports whether s is digits split by sep into a leading group of
// one to three digits (not starting with 0) followed by groups of exactly three.
func thousandsGrouped(s, sep string) bool {
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return len(parts) == 1 && allDigits(parts[0]) && parts[0] != ""
	}
	if len(parts[0]) == 0 || len(parts[0]) > 3 || parts[0][0] == '0' || !allDigits(parts[0]) {
		return false
	}
	for _, part := range parts[1:] {
		if len(part) != 3 || !allDigits(part) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateRequired checks that a string is non-empty after trimming.
func ValidateRequired(raw, field string) error {
	if strings.TrimSpace(raw) == "" {
		return fieldError(CodeRequiredField, msgRequiredField, field)
	}
	return nil
}
