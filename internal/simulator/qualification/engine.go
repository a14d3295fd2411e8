// Package qualification decides whether a lead is viable for a residential solar
// system and estimates the system size and savings.
package qualification

import (
	"math"
	"sort"

	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/config"
)

const (
	ReasonBillTooLow          = "Conta de luz abaixo do mínimo para viabilidade de energia solar"
	WarningSinglePhaseLowBill = "Ligação monofásica com conta baixa: verificar viabilidade"
	WarningFiberCementRoof    = "Telhado de fibrocimento pode exigir custos adicionais de estrutura"
)

// PackageTier is the commercial package derived from the system size.
type PackageTier string

const (
	TierSmall  PackageTier = "small"
	TierMedium PackageTier = "medium"
	TierLarge  PackageTier = "large"
)

// Label is the pt-BR display name.
func (t PackageTier) Label() string {
	switch t {
	case TierSmall:
		return "Pequeno"
	case TierMedium:
		return "Médio"
	case TierLarge:
		return "Grande"
	}
	return string(t)
}

// Constants are the business parameters of the sizing formula.
type Constants struct {
	PricePerKWh            float64
	DeratingFactor         float64
	DaysPerMonth           float64
	MinimumBill            float64
	SinglePhaseWarningBill float64
	SavingsRate            float64
	DefaultHSP             float64
	SmallTierMaxKWp        float64
	MediumTierMaxKWp       float64
}

// DefaultConstants returns the reference values.
func DefaultConstants() Constants {
	return Constants{
		PricePerKWh:            0.65,
		DeratingFactor:         0.80,
		DaysPerMonth:           30,
		MinimumBill:            150,
		SinglePhaseWarningBill: 250,
		SavingsRate:            0.9,
		DefaultHSP:             5.0,
		SmallTierMaxKWp:        3,
		MediumTierMaxKWp:       6,
	}
}

// ConstantsFromConfig overrides the defaults with configured values. Non-positive values are ignored.
func ConstantsFromConfig(cfg config.QualificationConfig) Constants {
	c := DefaultConstants()
	override := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	override(&c.PricePerKWh, cfg.GetPricePerKWh())
	override(&c.DeratingFactor, cfg.GetDeratingFactor())
	override(&c.DefaultHSP, cfg.GetDefaultHSP())
	override(&c.MinimumBill, cfg.GetMinimumBill())
	override(&c.SinglePhaseWarningBill, cfg.GetSinglePhaseWarningBill())
	override(&c.SavingsRate, cfg.GetSavingsRate())
	return c
}

// Result is the qualification outcome of one lead.
type Result struct {
	IsQualified             bool        `json:"isQualified"`
	DisqualificationReason  string      `json:"disqualificationReason,omitempty"`
	Warnings                []string    `json:"warnings"`
	SystemSizeKWp           float64     `json:"systemSizeKwp"`
	EstimatedMonthlySavings float64     `json:"estimatedMonthlySavings"`
	PackageTier             PackageTier `json:"packageTier"`
}

// Engine evaluates the qualification rules. It holds no mutable state.
type Engine struct {
	constants Constants
	hsp       *HSPTable
}

// NewEngine builds an engine. A nil table uses the embedded one; the table falls back
// to constants.DefaultHSP for unknown states.
func NewEngine(constants Constants, table *HSPTable) *Engine {
	if table == nil {
		table = DefaultHSPTable()
	}
	return &Engine{constants: constants, hsp: table.WithFallback(constants.DefaultHSP)}
}

// Constants returns the parameters the engine was built with.
func (e *Engine) Constants() Constants {
	return e.constants
}

// Qualify applies the rules in order: minimum bill, single-phase warning, roof warning,
// sizing, savings and tier. Only an incomplete lead is an error.
func (e *Engine) Qualify(d domain.LeadData) (Result, error) {
	if problems := d.Problems(); problems != nil {
		return Result{}, apperr.Coded(apperr.KindUnprocessable, domain.CodeInsufficientData,
			"Dados insuficientes para calcular a simulação.").
			WithDetails(problemFields(problems))
	}

	c := e.constants
	res := Result{IsQualified: true, Warnings: []string{}}

	if d.MonthlyBillAmount < c.MinimumBill {
		res.IsQualified = false
		res.DisqualificationReason = ReasonBillTooLow
	}
	if d.ConnectionType == domain.ConnectionSinglePhase && d.MonthlyBillAmount < c.SinglePhaseWarningBill {
		res.Warnings = append(res.Warnings, WarningSinglePhaseLowBill)
	}
	if d.RoofType == domain.RoofFiberCement {
		res.Warnings = append(res.Warnings, WarningFiberCementRoof)
	}

	size, err := e.SystemSize(d.MonthlyBillAmount, d.State, true)
	if err != nil {
		return Result{}, err
	}
	res.SystemSizeKWp = size
	res.EstimatedMonthlySavings = round(d.MonthlyBillAmount*c.SavingsRate, 2)
	res.PackageTier = e.Tier(size)
	return res, nil
}

// SystemSize estimates the array size in kWp, rounded to one decimal.
func (e *Engine) SystemSize(monthlyBill float64, state string, allowFallback bool) (float64, error) {
	hsp, err := e.hsp.Resolve(state, allowFallback)
	if err != nil {
		return 0, err
	}
	c := e.constants
	monthlyKWh := monthlyBill / c.PricePerKWh
	return round(monthlyKWh/(hsp*c.DaysPerMonth*c.DeratingFactor), 1), nil
}

// Tier maps a system size to its package.
func (e *Engine) Tier(sizeKWp float64) PackageTier {
	switch {
	case sizeKWp <= e.constants.SmallTierMaxKWp:
		return TierSmall
	case sizeKWp <= e.constants.MediumTierMaxKWp:
		return TierMedium
	default:
		return TierLarge
	}
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func problemFields(problems map[string]error) map[string][]string {
	fields := make([]string, 0, len(problems))
	for field := range problems {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return map[string][]string{"missingOrInvalid": fields}
}
