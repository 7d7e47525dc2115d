package domain

import (
	"github.com/shopspring/decimal"
)

// CallPayContext describes the rotation a set of call tiers is computed over.
type CallPayContext struct {
	Specialty       string `yaml:"specialty" json:"specialty"`
	ServiceLine     string `yaml:"service_line" json:"service_line"`
	ProvidersOnCall int    `yaml:"providers_on_call" json:"providers_on_call"`

	// RotationRatio is the N of a 1-in-N rotation. Values <= 0 mean the
	// rotation is not yet configured and per-provider pay is zero rather
	// than a division error.
	RotationRatio decimal.Decimal `yaml:"rotation_ratio" json:"rotation_ratio"`

	ModelYear int `yaml:"model_year" json:"model_year"`

	// AverageProviderFTE normalizes per-provider pay to a 1.0 FTE figure
	// when the surrounding scenario carries FTE data.
	AverageProviderFTE *decimal.Decimal `yaml:"average_provider_fte,omitempty" json:"average_provider_fte,omitempty"`
}

// IsRotationConfigured reports whether the rotation ratio can be divided by.
func (c CallPayContext) IsRotationConfigured() bool {
	return c.RotationRatio.GreaterThan(decimal.Zero)
}

// HasProviders reports whether per-provider aggregates can be computed.
func (c CallPayContext) HasProviders() bool {
	return c.ProvidersOnCall > 0
}
