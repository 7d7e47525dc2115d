package domain

import (
	"github.com/shopspring/decimal"
)

// TierImpact is the computed annual cost contribution of a single tier.
// Never user-edited; recomputed on every input change.
type TierImpact struct {
	TierID   string `json:"tier_id"`
	TierName string `json:"tier_name"`

	// AnnualPayPerProvider is one provider's share on the rotation.
	AnnualPayPerProvider decimal.Decimal `json:"annual_pay_per_provider"`
	// AnnualPayGroup is the whole group's cost for this tier.
	AnnualPayGroup decimal.Decimal `json:"annual_pay_group"`

	// Effective dollar rates derived from the per-provider figure.
	EffectiveRatePer24h  decimal.Decimal `json:"effective_rate_per_24h"`
	EffectiveRatePerCall decimal.Decimal `json:"effective_rate_per_call"`

	// Annual24hEquivalents is the provider's annual 24h coverage blocks
	// after the rotation split; AnnualCalls weights them by callbacks.
	Annual24hEquivalents decimal.Decimal `json:"annual_24h_equivalents"`
	AnnualCalls          decimal.Decimal `json:"annual_calls"`
}

// CallPayImpact aggregates tier impacts into scenario-level figures.
type CallPayImpact struct {
	Tiers []TierImpact `json:"tiers"`

	TotalAnnualSpend      decimal.Decimal `json:"total_annual_spend"`
	AveragePayPerProvider decimal.Decimal `json:"average_pay_per_provider"`
	PayPerFTE             decimal.Decimal `json:"pay_per_fte"`
}

// TierImpactByID returns the impact row for a tier id, if present.
func (i CallPayImpact) TierImpactByID(tierID string) (TierImpact, bool) {
	for _, t := range i.Tiers {
		if t.TierID == tierID {
			return t, true
		}
	}
	return TierImpact{}, false
}
