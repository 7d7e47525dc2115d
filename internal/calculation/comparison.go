package calculation

import (
	"fmt"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Comparator arity bounds. Fewer than two scenarios has nothing to compare;
// more than four makes the reduced variance set unreadable.
const (
	minComparisonScenarios = 2
	maxComparisonScenarios = 4
)

// CompareScenarios produces a field-by-field variance report between two
// scenarios. Impacts are recomputed when a scenario carries none, so callers
// may pass freshly edited scenarios without staleness concerns.
func CompareScenarios(a, b domain.CallPayScenarioData) domain.ScenarioComparison {
	impactA := ensureImpact(a)
	impactB := ensureImpact(b)

	comparison := domain.ScenarioComparison{
		ScenarioNames: []string{a.Name, b.Name},
	}

	comparison.Variances = append(comparison.Variances,
		varianceRow("total_annual_call_budget", impactA.TotalAnnualSpend, impactB.TotalAnnualSpend),
		varianceRow("average_call_pay_per_provider", impactA.AveragePayPerProvider, impactB.AveragePayPerProvider),
		varianceRow("call_pay_per_fte", impactA.PayPerFTE, impactB.PayPerFTE),
	)

	comparison.Variances = append(comparison.Variances, tierVariances(impactA, impactB)...)

	// Context deltas are emitted only when the scenarios actually differ.
	if a.Context.ProvidersOnCall != b.Context.ProvidersOnCall {
		comparison.Variances = append(comparison.Variances, varianceRow("providers_on_call",
			decimal.NewFromInt(int64(a.Context.ProvidersOnCall)),
			decimal.NewFromInt(int64(b.Context.ProvidersOnCall))))
	}
	if !a.Context.RotationRatio.Equal(b.Context.RotationRatio) {
		comparison.Variances = append(comparison.Variances,
			varianceRow("rotation_ratio", a.Context.RotationRatio, b.Context.RotationRatio))
	}

	comparison.TotalBudgetVariance = impactB.TotalAnnualSpend.Sub(impactA.TotalAnnualSpend)
	comparison.TotalBudgetVariancePercent = percentOf(comparison.TotalBudgetVariance, impactA.TotalAnnualSpend)

	return comparison
}

// CompareMultiple compares every scenario after the first against the first,
// producing headline budget variances only. Arity outside [2, 4] is a caller
// contract violation and fails loudly; no degraded result makes sense.
func CompareMultiple(scenarios []domain.CallPayScenarioData) (domain.ScenarioComparison, error) {
	if len(scenarios) < minComparisonScenarios || len(scenarios) > maxComparisonScenarios {
		return domain.ScenarioComparison{}, fmt.Errorf(
			"scenario comparison requires between %d and %d scenarios, got %d",
			minComparisonScenarios, maxComparisonScenarios, len(scenarios))
	}

	base := scenarios[0]
	baseImpact := ensureImpact(base)

	comparison := domain.ScenarioComparison{}
	for _, s := range scenarios {
		comparison.ScenarioNames = append(comparison.ScenarioNames, s.Name)
	}

	for _, s := range scenarios[1:] {
		impact := ensureImpact(s)
		comparison.Variances = append(comparison.Variances,
			varianceRow("total_annual_call_budget:"+s.Name, baseImpact.TotalAnnualSpend, impact.TotalAnnualSpend),
			varianceRow("average_call_pay_per_provider:"+s.Name, baseImpact.AveragePayPerProvider, impact.AveragePayPerProvider),
		)
	}

	second := ensureImpact(scenarios[1])
	comparison.TotalBudgetVariance = second.TotalAnnualSpend.Sub(baseImpact.TotalAnnualSpend)
	comparison.TotalBudgetVariancePercent = percentOf(comparison.TotalBudgetVariance, baseImpact.TotalAnnualSpend)

	return comparison, nil
}

// ensureImpact returns the scenario's stored impact or recomputes it.
func ensureImpact(s domain.CallPayScenarioData) domain.CallPayImpact {
	if s.Impact != nil {
		return *s.Impact
	}
	return CalculateImpact(s.Tiers, s.Context)
}

// varianceRow builds one comparison row. Variance percent is defined as zero
// when the first value is zero.
func varianceRow(field string, v1, v2 decimal.Decimal) domain.ComparisonVariance {
	variance := v2.Sub(v1)
	return domain.ComparisonVariance{
		Field:           field,
		Value1:          v1,
		Value2:          v2,
		Variance:        variance,
		VariancePercent: percentOf(variance, v1),
	}
}

func percentOf(variance, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return variance.Div(base).Mul(hundred)
}

// tierVariances emits one row per tier present in either impact, in the
// first scenario's tier order followed by tiers only the second has. A tier
// absent on one side contributes a synthetic zero and a +/-100% variance.
func tierVariances(impactA, impactB domain.CallPayImpact) []domain.ComparisonVariance {
	var rows []domain.ComparisonVariance
	seen := make(map[string]bool, len(impactA.Tiers))

	for _, ta := range impactA.Tiers {
		seen[ta.TierID] = true
		row := domain.ComparisonVariance{Field: "tier_annual_pay:" + ta.TierID, Value1: ta.AnnualPayPerProvider}
		if tb, ok := impactB.TierImpactByID(ta.TierID); ok {
			row.Value2 = tb.AnnualPayPerProvider
			row.Variance = row.Value2.Sub(row.Value1)
			row.VariancePercent = percentOf(row.Variance, row.Value1)
		} else {
			row.Value2 = decimal.Zero
			row.Variance = row.Value1.Neg()
			row.VariancePercent = hundred.Neg()
		}
		rows = append(rows, row)
	}

	for _, tb := range impactB.Tiers {
		if seen[tb.TierID] {
			continue
		}
		rows = append(rows, domain.ComparisonVariance{
			Field:           "tier_annual_pay:" + tb.TierID,
			Value1:          decimal.Zero,
			Value2:          tb.AnnualPayPerProvider,
			Variance:        tb.AnnualPayPerProvider,
			VariancePercent: hundred,
		})
	}

	return rows
}
