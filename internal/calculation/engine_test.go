package calculation

import (
	"testing"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineScenario() domain.CallPayScenarioData {
	tier := weekdayOnlyTier("C1", 1600, 10)
	tier.CoverageType = domain.CoverageUnrestricted
	return domain.CallPayScenarioData{
		Name:    "ortho call panel",
		Context: standardContext(),
		Tiers:   []domain.CallTier{tier},
	}
}

func TestRunScenario_FullAnalysis(t *testing.T) {
	engine := NewCalculationEngine(surveyBenchmarks())

	analysis, err := engine.RunScenario(engineScenario(), &domain.ForecastAssumptions{
		RateIncreasePercent:   decimal.NewFromInt(3),
		ProviderGrowthPercent: decimal.Zero,
		YearsToForecast:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, "ortho call panel", analysis.ScenarioName)
	assert.True(t, analysis.Impact.TotalAnnualSpend.GreaterThan(decimal.Zero))

	// The tier's blended effective rate is $1600/24h, above the p90 of 1500:
	// the FMV evaluation flags HIGH and the override detector fires.
	result, ok := analysis.FMVResults["C1"]
	require.True(t, ok)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel)

	require.Len(t, analysis.Overrides, 1)
	assert.Equal(t, "C1", analysis.Overrides[0].TierID)
	assert.False(t, analysis.Overrides[0].IsJustified())
	assert.Len(t, analysis.UnjustifiedOverrides(), 1)

	require.NotNil(t, analysis.Forecast)
	assert.Len(t, analysis.Forecast.Forecasts, 3)
	assert.NotEmpty(t, analysis.Assumptions)
}

func TestRunScenario_PreservesOverrideJustifications(t *testing.T) {
	engine := NewCalculationEngine(surveyBenchmarks())

	scenario := engineScenario()
	scenario.Overrides = []domain.FMVOverride{{
		TierID:        "C1",
		RateType:      domain.RateTypeWeekday,
		Justification: "documented trauma coverage shortage",
	}}

	analysis, err := engine.RunScenario(scenario, nil)
	require.NoError(t, err)
	require.Len(t, analysis.Overrides, 1)
	assert.Equal(t, "documented trauma coverage shortage", analysis.Overrides[0].Justification)
}

func TestRunScenario_NoBenchmarkTable(t *testing.T) {
	engine := NewCalculationEngine(nil)

	analysis, err := engine.RunScenario(engineScenario(), nil)
	require.NoError(t, err)

	result := analysis.FMVResults["C1"]
	assert.Equal(t, domain.RiskModerate, result.RiskLevel)
	assert.Empty(t, analysis.Overrides, "no benchmark table means no overrides")
	assert.Nil(t, analysis.Forecast)
}

func TestRunScenario_InvalidForecastAssumptions(t *testing.T) {
	engine := NewCalculationEngine(surveyBenchmarks())

	_, err := engine.RunScenario(engineScenario(), &domain.ForecastAssumptions{YearsToForecast: 0})
	assert.Error(t, err)
}

func TestRunComparison_DispatchesByArity(t *testing.T) {
	engine := NewCalculationEngine(nil)

	a := scenarioWithTiers("a", weekdayOnlyTier("C1", 500, 10))
	b := scenarioWithTiers("b", weekdayOnlyTier("C1", 600, 10))
	c := scenarioWithTiers("c", weekdayOnlyTier("C1", 700, 10))

	pairwise, err := engine.RunComparison([]domain.CallPayScenarioData{a, b})
	require.NoError(t, err)
	assert.True(t, len(pairwise.Variances) > 3, "pairwise mode carries the full field set")

	multi, err := engine.RunComparison([]domain.CallPayScenarioData{a, b, c})
	require.NoError(t, err)
	assert.Len(t, multi.Variances, 4, "multi mode carries the reduced headline set")

	_, err = engine.RunComparison([]domain.CallPayScenarioData{a})
	assert.Error(t, err)
}

func TestComputePercentiles(t *testing.T) {
	engine := NewCalculationEngine(nil)

	scenario := &domain.ProviderScenario{
		ID:          "prov-1",
		Name:        "Dr. Example",
		FTE:         decimal.NewFromInt(1),
		AnnualWRVUs: decimal.NewFromInt(8000),
		TCCComponents: []domain.TCCComponent{
			{Name: "base", Amount: decimal.NewFromInt(400000)},
			{Name: "quality bonus", Amount: decimal.NewFromInt(50000)},
		},
		MarketBenchmarks: map[string]domain.BenchmarkSet{
			MetricTCC:  {P25: dec(350000), P50: dec(450000), P75: dec(550000), P90: dec(650000)},
			MetricWRVU: {P25: dec(6000), P50: dec(8000), P75: dec(10000), P90: dec(12000)},
			MetricCF:   {P25: dec(45), P50: dec(55), P75: dec(70), P90: dec(85)},
		},
	}

	engine.ComputePercentiles(scenario)
	require.Len(t, scenario.ComputedPercentiles, 3)

	// TCC 450000 sits exactly at the median.
	assert.True(t, scenario.ComputedPercentiles[MetricTCC].Equal(decimal.NewFromInt(50)))
	// wRVUs 8000 sit exactly at the median.
	assert.True(t, scenario.ComputedPercentiles[MetricWRVU].Equal(decimal.NewFromInt(50)))
	// CF = 450000/8000 = 56.25, between p50 and p75.
	cf := scenario.ComputedPercentiles[MetricCF]
	assert.True(t, cf.GreaterThan(decimal.NewFromInt(50)) && cf.LessThan(decimal.NewFromInt(75)),
		"cf percentile = %s", cf)

	t.Logf("tcc %s, wrvu %s, cf %s",
		scenario.ComputedPercentiles[MetricTCC],
		scenario.ComputedPercentiles[MetricWRVU],
		scenario.ComputedPercentiles[MetricCF])
}
