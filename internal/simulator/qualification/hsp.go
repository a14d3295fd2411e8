package qualification

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"simulador_solar_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// CodeHSPUnavailable is returned when no peak-sun-hours value resolves for a state.
const CodeHSPUnavailable apperr.Code = "HSP_UNAVAILABLE"

//go:embed hsp.yaml
var defaultHSPDocument []byte

type hspDocument struct {
	Fallback float64            `yaml:"fallback"`
	States   map[string]float64 `yaml:"states"`
}

// HSPTable maps a state code to its peak sun hours.
type HSPTable struct {
	values   map[string]float64
	fallback float64
}

// DefaultHSPTable returns the embedded reference table.
func DefaultHSPTable() *HSPTable {
	table, err := ParseHSPTable(defaultHSPDocument)
	if err != nil {
		panic("embedded hsp table: " + err.Error())
	}
	return table
}

// LoadHSPTable reads an override document from path, or the embedded table when path is empty.
func LoadHSPTable(path string) (*HSPTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultHSPTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hsp table: %w", err)
	}
	return ParseHSPTable(raw)
}

// ParseHSPTable decodes a YAML document with a `states` map and an optional `fallback`.
func ParseHSPTable(raw []byte) (*HSPTable, error) {
	var doc hspDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse hsp table: %w", err)
	}
	if doc.Fallback < 0 {
		return nil, fmt.Errorf("parse hsp table: negative fallback")
	}

	values := make(map[string]float64, len(doc.States))
	for state, hsp := range doc.States {
		code := strings.ToUpper(strings.TrimSpace(state))
		if len(code) != 2 {
			return nil, fmt.Errorf("parse hsp table: invalid state %q", state)
		}
		if hsp <= 0 {
			return nil, fmt.Errorf("parse hsp table: non-positive value for %s", code)
		}
		values[code] = hsp
	}
	return &HSPTable{values: values, fallback: doc.Fallback}, nil
}

// WithFallback returns a copy of the table using fallback for unknown states.
func (t *HSPTable) WithFallback(fallback float64) *HSPTable {
	return &HSPTable{values: t.values, fallback: fallback}
}

// Len returns the number of states in the table.
func (t *HSPTable) Len() int {
	return len(t.values)
}

// Lookup returns the value for state, if present.
func (t *HSPTable) Lookup(state string) (float64, bool) {
	v, ok := t.values[strings.ToUpper(strings.TrimSpace(state))]
	return v, ok
}

// Resolve returns the value for state. Unknown states use the fallback when allowed;
// otherwise a domain error is returned.
func (t *HSPTable) Resolve(state string, allowFallback bool) (float64, error) {
	if v, ok := t.Lookup(state); ok {
		return v, nil
	}
	if allowFallback && t.fallback > 0 {
		return t.fallback, nil
	}
	return 0, apperr.Coded(apperr.KindUnprocessable, CodeHSPUnavailable,
		"Não foi possível obter a irradiação solar para o estado informado.").
		WithDetails(map[string]string{"state": state})
}
