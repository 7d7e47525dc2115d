package calculation

import (
	"fmt"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Metric names recognized in ProviderScenario.MarketBenchmarks.
const (
	MetricTCC  = "tcc"
	MetricWRVU = "wrvu"
	MetricCF   = "cf"
)

// CalculationEngine orchestrates all compensation analytics: call-pay impact,
// FMV evaluation, override detection, budget forecasting, and provider
// percentile location. All computation is synchronous and side-effect free.
type CalculationEngine struct {
	FMV    *FMVEvaluator
	Debug  bool
	Logger Logger
}

// NewCalculationEngine creates an engine over a benchmark reference table.
func NewCalculationEngine(benchmarks []domain.FMVBenchmark) *CalculationEngine {
	logger := NopLogger{}
	evaluator := NewFMVEvaluator(benchmarks)
	evaluator.Logger = logger
	return &CalculationEngine{
		FMV:    evaluator,
		Logger: logger,
	}
}

// SetLogger sets the logger for the engine. A nil logger installs the no-op.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
	} else {
		ce.Logger = l
	}
	if ce.FMV != nil {
		ce.FMV.Logger = ce.Logger
	}
}

// RunScenario computes the full analysis of one call-pay scenario: impact,
// per-tier FMV evaluation, overrides merged against previously entered
// justifications, and an optional forecast when assumptions are supplied.
func (ce *CalculationEngine) RunScenario(scenario domain.CallPayScenarioData, assumptions *domain.ForecastAssumptions) (*domain.ScenarioAnalysis, error) {
	impact := CalculateImpact(scenario.Tiers, scenario.Context)

	if ce.Debug {
		ce.Logger.Debugf("scenario %q: %d tiers, total spend $%s",
			scenario.Name, len(impact.Tiers), impact.TotalAnnualSpend.StringFixed(2))
	}

	fmvResults := make(map[string]domain.FMVEvaluationResult, len(impact.Tiers))
	for _, tier := range scenario.EnabledTiers() {
		ti, _ := impact.TierImpactByID(tier.ID)
		fmvResults[tier.ID] = ce.FMV.Evaluate(FMVInput{
			Specialty:           scenario.Context.Specialty,
			CoverageType:        tier.CoverageType,
			EffectiveRatePer24h: ti.EffectiveRatePer24h,
			BurdenScore:         tier.BurdenScore,
			ModelYear:           scenario.Context.ModelYear,
		})
	}

	detected := DetectOverrides(scenario.Tiers, ce.overrideBenchmarks(scenario.Context.Specialty))
	overrides := MergeOverrides(scenario.Overrides, detected)

	analysis := &domain.ScenarioAnalysis{
		ScenarioName: scenario.Name,
		Context:      scenario.Context,
		Impact:       impact,
		FMVResults:   fmvResults,
		Overrides:    overrides,
		Assumptions:  ce.describeAssumptions(scenario.Context, assumptions),
	}

	if assumptions != nil {
		forecast, err := GenerateForecast(scenario.Context, impact, *assumptions)
		if err != nil {
			return nil, fmt.Errorf("forecast for scenario %q: %w", scenario.Name, err)
		}
		analysis.Forecast = forecast
	}

	return analysis, nil
}

// RunComparison wraps the comparator for two or more scenarios.
func (ce *CalculationEngine) RunComparison(scenarios []domain.CallPayScenarioData) (domain.ScenarioComparison, error) {
	if len(scenarios) == 2 {
		return CompareScenarios(scenarios[0], scenarios[1]), nil
	}
	return CompareMultiple(scenarios)
}

// ComputePercentiles locates each of a provider scenario's metrics within its
// market benchmarks and fills ComputedPercentiles in place.
func (ce *CalculationEngine) ComputePercentiles(scenario *domain.ProviderScenario) {
	if len(scenario.MarketBenchmarks) == 0 {
		return
	}
	if scenario.ComputedPercentiles == nil {
		scenario.ComputedPercentiles = make(map[string]decimal.Decimal, len(scenario.MarketBenchmarks))
	}
	for metric, benchmarks := range scenario.MarketBenchmarks {
		value := ce.metricValue(scenario, metric)
		scenario.ComputedPercentiles[metric] = EstimatePercentile(value, benchmarks)
	}
}

func (ce *CalculationEngine) metricValue(scenario *domain.ProviderScenario, metric string) decimal.Decimal {
	switch metric {
	case MetricWRVU:
		return scenario.AnnualWRVUs
	case MetricCF:
		return scenario.ConversionFactor()
	default:
		return scenario.TotalTCC()
	}
}

// overrideBenchmarks selects the rate benchmark table used for override
// detection: the best specialty match regardless of coverage type.
func (ce *CalculationEngine) overrideBenchmarks(specialty string) *domain.CallPayBenchmarks {
	benchmark := ce.FMV.MatchBenchmark(specialty, "")
	if benchmark == nil {
		return nil
	}
	return &benchmark.Rates
}

// describeAssumptions builds the human-readable assumption list attached to
// every analysis report.
func (ce *CalculationEngine) describeAssumptions(context domain.CallPayContext, assumptions *domain.ForecastAssumptions) []string {
	described := []string{
		fmt.Sprintf("Rotation: 1-in-%s with %d providers on call", context.RotationRatio, context.ProvidersOnCall),
		fmt.Sprintf("Model year: %d", context.ModelYear),
	}
	if assumptions != nil {
		described = append(described,
			fmt.Sprintf("Rate increase: %s%% annually", assumptions.RateIncreasePercent),
			fmt.Sprintf("Provider growth: %s%% annually over %d years", assumptions.ProviderGrowthPercent, assumptions.YearsToForecast),
		)
	}
	return described
}
