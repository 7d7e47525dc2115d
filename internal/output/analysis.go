package output

import (
	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation names the lowest-cost scenario in a report and how far
// below the most expensive one it lands.
type Recommendation struct {
	ScenarioName  string
	SpendSavings  decimal.Decimal
	PercentChange decimal.Decimal
}

// AnalyzeScenarios picks the scenario with the lowest total annual spend.
// Returns a zero Recommendation when the report holds fewer than two scenarios.
func AnalyzeScenarios(report *Report) Recommendation {
	if report == nil || len(report.Analyses) < 2 {
		return Recommendation{}
	}
	lowest := report.Analyses[0]
	highest := report.Analyses[0]
	for _, a := range report.Analyses[1:] {
		if a.Impact.TotalAnnualSpend.LessThan(lowest.Impact.TotalAnnualSpend) {
			lowest = a
		}
		if a.Impact.TotalAnnualSpend.GreaterThan(highest.Impact.TotalAnnualSpend) {
			highest = a
		}
	}
	savings := highest.Impact.TotalAnnualSpend.Sub(lowest.Impact.TotalAnnualSpend)
	pct := decimal.Zero
	if !highest.Impact.TotalAnnualSpend.IsZero() {
		pct = savings.Div(highest.Impact.TotalAnnualSpend).Mul(decimal.NewFromInt(100))
	}
	return Recommendation{
		ScenarioName:  lowest.ScenarioName,
		SpendSavings:  savings,
		PercentChange: pct,
	}
}

// RiskCounts tallies FMV risk levels across a scenario's tiers.
func RiskCounts(a domain.ScenarioAnalysis) map[domain.RiskLevel]int {
	counts := make(map[domain.RiskLevel]int)
	for _, r := range a.FMVResults {
		counts[r.RiskLevel]++
	}
	return counts
}
