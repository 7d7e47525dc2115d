package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CallPayScenarioData is one saved call-pay scenario: the rotation context,
// its tiers, and the last computed impact. The engine computes Impact; the
// persistence layer owns storage.
type CallPayScenarioData struct {
	Name    string         `yaml:"name" json:"name"`
	Context CallPayContext `yaml:"context" json:"context"`
	Tiers   []CallTier     `yaml:"tiers" json:"tiers"`
	Impact  *CallPayImpact `yaml:"impact,omitempty" json:"impact,omitempty"`

	// Overrides carries previously entered FMV justifications so they can
	// be merged with newly detected overrides on recalculation.
	Overrides []FMVOverride `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// EnabledTiers returns the tiers that contribute to aggregate calculations.
func (s CallPayScenarioData) EnabledTiers() []CallTier {
	tiers := make([]CallTier, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		if t.Enabled {
			tiers = append(tiers, t)
		}
	}
	return tiers
}

// TCCComponent is one building block of a provider's total cash compensation.
type TCCComponent struct {
	Name   string          `yaml:"name" json:"name"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// ProviderScenario is the productivity-pay scenario shape exchanged with the
// persistence layer: a provider's FTE, production, pay components, and the
// market benchmarks their value is located against.
type ProviderScenario struct {
	ID            string          `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name"`
	ScenarioType  string          `yaml:"scenario_type" json:"scenario_type"`
	FTE           decimal.Decimal `yaml:"fte" json:"fte"`
	AnnualWRVUs   decimal.Decimal `yaml:"annual_wrvus" json:"annual_wrvus"`
	TCCComponents []TCCComponent  `yaml:"tcc_components" json:"tcc_components"`

	// MarketBenchmarks maps a metric name ("tcc", "wrvu", "cf") to its
	// survey percentile points.
	MarketBenchmarks map[string]BenchmarkSet `yaml:"market_benchmarks" json:"market_benchmarks"`

	// ComputedPercentiles is filled by the engine, keyed like MarketBenchmarks.
	ComputedPercentiles map[string]decimal.Decimal `yaml:"computed_percentiles,omitempty" json:"computed_percentiles,omitempty"`

	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updated_at"`
}

// TotalTCC sums the provider's cash compensation components.
func (p ProviderScenario) TotalTCC() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.TCCComponents {
		total = total.Add(c.Amount)
	}
	return total
}

// ConversionFactor returns dollars paid per wRVU, zero when production is zero.
func (p ProviderScenario) ConversionFactor() decimal.Decimal {
	if p.AnnualWRVUs.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return p.TotalTCC().Div(p.AnnualWRVUs)
}

// ComparisonVariance is one field-by-field variance row between two scenarios.
type ComparisonVariance struct {
	Field           string          `json:"field"`
	Value1          decimal.Decimal `json:"value_1"`
	Value2          decimal.Decimal `json:"value_2"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent decimal.Decimal `json:"variance_percent"`
}

// ScenarioComparison is the computed variance report between scenarios.
type ScenarioComparison struct {
	ScenarioNames []string             `json:"scenario_names"`
	Variances     []ComparisonVariance `json:"variances"`

	// Headline aggregates, duplicated out of Variances for direct access.
	TotalBudgetVariance        decimal.Decimal `json:"total_budget_variance"`
	TotalBudgetVariancePercent decimal.Decimal `json:"total_budget_variance_percent"`
}

// ForecastAssumptions are the growth inputs for a multi-year budget forecast.
type ForecastAssumptions struct {
	RateIncreasePercent   decimal.Decimal `yaml:"rate_increase_percent" json:"rate_increase_percent"`
	ProviderGrowthPercent decimal.Decimal `yaml:"provider_growth_percent" json:"provider_growth_percent"`
	YearsToForecast       int             `yaml:"years_to_forecast" json:"years_to_forecast"`
}

// YearForecast is one compounded forecast year.
type YearForecast struct {
	Year                  int             `json:"year"`
	AdjustedBudget        decimal.Decimal `json:"adjusted_budget"`
	TotalProviders        decimal.Decimal `json:"total_providers"`
	AveragePayPerProvider decimal.Decimal `json:"average_pay_per_provider"`
}

// BudgetForecast projects a base-year impact forward under growth assumptions.
type BudgetForecast struct {
	BaseYear   int             `json:"base_year"`
	BaseBudget decimal.Decimal `json:"base_budget"`
	Forecasts  []YearForecast  `json:"forecasts"`

	// TotalProjectedSpend is the base budget plus every forecast year.
	TotalProjectedSpend decimal.Decimal `json:"total_projected_spend"`
}

// ScenarioAnalysis is the engine's full computed view of one scenario.
type ScenarioAnalysis struct {
	ScenarioName string                         `json:"scenario_name"`
	Context      CallPayContext                 `json:"context"`
	Impact       CallPayImpact                  `json:"impact"`
	FMVResults   map[string]FMVEvaluationResult `json:"fmv_results"` // keyed by tier id
	Overrides    []FMVOverride                  `json:"overrides"`
	Forecast     *BudgetForecast                `json:"forecast,omitempty"`
	Assumptions  []string                       `json:"assumptions"`
}

// UnjustifiedOverrides returns the overrides still awaiting a compliance
// justification.
func (a ScenarioAnalysis) UnjustifiedOverrides() []FMVOverride {
	var pending []FMVOverride
	for _, o := range a.Overrides {
		if !o.IsJustified() {
			pending = append(pending, o)
		}
	}
	return pending
}
