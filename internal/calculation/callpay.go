package calculation

import (
	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateImpact computes per-tier and aggregate annual call-pay cost for a
// rotation context. Only enabled tiers contribute. The function is pure and
// total: unconfigured rotation ratios and zero provider counts degrade to
// zero figures rather than division errors.
func CalculateImpact(tiers []domain.CallTier, context domain.CallPayContext) domain.CallPayImpact {
	impact := domain.CallPayImpact{
		Tiers:                 make([]domain.TierImpact, 0, len(tiers)),
		TotalAnnualSpend:      decimal.Zero,
		AveragePayPerProvider: decimal.Zero,
		PayPerFTE:             decimal.Zero,
	}

	providers := decimal.NewFromInt(int64(context.ProvidersOnCall))

	for _, tier := range tiers {
		if !tier.Enabled {
			continue
		}
		ti := calculateTierImpact(tier, context)
		ti.AnnualPayGroup = ti.AnnualPayPerProvider.Mul(providers)
		if ti.AnnualPayGroup.LessThan(decimal.Zero) {
			ti.AnnualPayGroup = decimal.Zero
		}
		impact.Tiers = append(impact.Tiers, ti)
		impact.TotalAnnualSpend = impact.TotalAnnualSpend.Add(ti.AnnualPayGroup)
	}

	if context.HasProviders() {
		impact.AveragePayPerProvider = impact.TotalAnnualSpend.Div(providers)
	}

	impact.PayPerFTE = impact.AveragePayPerProvider
	if context.AverageProviderFTE != nil && context.AverageProviderFTE.GreaterThan(decimal.Zero) {
		impact.PayPerFTE = impact.AveragePayPerProvider.Div(*context.AverageProviderFTE)
	}

	return impact
}

// calculateTierImpact computes one provider's annual share of a tier.
func calculateTierImpact(tier domain.CallTier, context domain.CallPayContext) domain.TierImpact {
	ti := domain.TierImpact{
		TierID:               tier.ID,
		TierName:             tier.Name,
		AnnualPayPerProvider: decimal.Zero,
		AnnualPayGroup:       decimal.Zero,
		EffectiveRatePer24h:  decimal.Zero,
		EffectiveRatePerCall: decimal.Zero,
		Annual24hEquivalents: decimal.Zero,
		AnnualCalls:          decimal.Zero,
	}

	// An unconfigured rotation short-circuits to zero contribution so no
	// Infinity or NaN can reach downstream aggregates.
	if !context.IsRotationConfigured() {
		return ti
	}

	for _, rt := range domain.AllRateTypes {
		occurrences := tier.Burden.AnnualOccurrences(rt).Div(context.RotationRatio)
		if occurrences.LessThanOrEqual(decimal.Zero) {
			continue
		}
		ti.AnnualPayPerProvider = ti.AnnualPayPerProvider.Add(tier.Rate.Effective(rt).Mul(occurrences))
		ti.Annual24hEquivalents = ti.Annual24hEquivalents.Add(occurrences)
	}

	if ti.Annual24hEquivalents.GreaterThan(decimal.Zero) {
		ti.EffectiveRatePer24h = ti.AnnualPayPerProvider.Div(ti.Annual24hEquivalents)
	}

	ti.AnnualCalls = ti.Annual24hEquivalents.Mul(tier.Burden.AvgCallbacksPer24h)
	if ti.AnnualCalls.GreaterThan(decimal.Zero) {
		ti.EffectiveRatePerCall = ti.AnnualPayPerProvider.Div(ti.AnnualCalls)
	}

	return ti
}
