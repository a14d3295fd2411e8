package validation

import "simulador_solar_backend/platform/validator"

// RegisterTags adds the `cep` and `br_phone` tags to v.
func RegisterTags(v *validator.Validator) error {
	if err := v.RegisterStringRule("cep", IsValidCEPFormat); err != nil {
		return err
	}
	return v.RegisterStringRule("br_phone", func(s string) bool {
		return ValidatePhoneStrict(s) == nil
	})
}
