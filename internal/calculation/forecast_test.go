package calculation

import (
	"testing"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseImpactForForecast() domain.CallPayImpact {
	return domain.CallPayImpact{
		TotalAnnualSpend:      decimal.NewFromInt(600000),
		AveragePayPerProvider: decimal.NewFromInt(120000),
	}
}

func TestGenerateForecast_ZeroGrowthHoldsBudget(t *testing.T) {
	forecast, err := GenerateForecast(standardContext(), baseImpactForForecast(), domain.ForecastAssumptions{
		RateIncreasePercent:   decimal.Zero,
		ProviderGrowthPercent: decimal.Zero,
		YearsToForecast:       5,
	})
	require.NoError(t, err)
	require.Len(t, forecast.Forecasts, 5)

	for _, year := range forecast.Forecasts {
		assert.True(t, year.AdjustedBudget.Equal(forecast.BaseBudget),
			"year %d adjusted budget = %s, want %s", year.Year, year.AdjustedBudget, forecast.BaseBudget)
	}

	// base + 5 flat years
	expectedTotal := forecast.BaseBudget.Mul(decimal.NewFromInt(6))
	assert.True(t, forecast.TotalProjectedSpend.Equal(expectedTotal))
}

func TestGenerateForecast_CompoundsRateAndHeadcount(t *testing.T) {
	forecast, err := GenerateForecast(standardContext(), baseImpactForForecast(), domain.ForecastAssumptions{
		RateIncreasePercent:   decimal.NewFromInt(3),
		ProviderGrowthPercent: decimal.NewFromInt(10),
		YearsToForecast:       2,
	})
	require.NoError(t, err)

	// year 1: 600000 * 1.03 * 1.10 = 679800
	year1 := forecast.Forecasts[0]
	assert.True(t, year1.AdjustedBudget.Equal(decimal.NewFromInt(679800)),
		"year 1 = %s", year1.AdjustedBudget)
	assert.Equal(t, standardContext().ModelYear+1, year1.Year)

	// year 2: 600000 * 1.03^2 * 1.10^2 = 770213.40
	year2 := forecast.Forecasts[1]
	assert.True(t, year2.AdjustedBudget.Equal(decimal.NewFromFloat(770213.40)),
		"year 2 = %s", year2.AdjustedBudget)

	// Providers compound on the same factor: 5 * 1.10 = 5.5
	assert.True(t, year1.TotalProviders.Equal(decimal.NewFromFloat(5.5)))

	// adjustedBudget == totalProviders * averagePayPerProvider within tolerance
	for _, year := range forecast.Forecasts {
		product := year.TotalProviders.Mul(year.AveragePayPerProvider)
		diff := product.Sub(year.AdjustedBudget).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)),
			"year %d identity drift %s", year.Year, diff)
	}
}

func TestGenerateForecast_AttritionShrinksBudget(t *testing.T) {
	forecast, err := GenerateForecast(standardContext(), baseImpactForForecast(), domain.ForecastAssumptions{
		RateIncreasePercent:   decimal.Zero,
		ProviderGrowthPercent: decimal.NewFromInt(-10),
		YearsToForecast:       3,
	})
	require.NoError(t, err)

	prev := forecast.BaseBudget
	for _, year := range forecast.Forecasts {
		assert.True(t, year.AdjustedBudget.LessThan(prev),
			"year %d budget %s should shrink below %s", year.Year, year.AdjustedBudget, prev)
		prev = year.AdjustedBudget
	}
}

func TestGenerateForecast_RejectsNonPositiveHorizon(t *testing.T) {
	for _, years := range []int{0, -3} {
		_, err := GenerateForecast(standardContext(), baseImpactForForecast(), domain.ForecastAssumptions{
			YearsToForecast: years,
		})
		assert.Error(t, err, "expected error for horizon %d", years)
	}
}

func TestSolveRateIncreaseForTarget(t *testing.T) {
	ctx := standardContext()
	impact := baseImpactForForecast()

	// A target comfortably above flat spend requires a positive increase.
	target := decimal.NewFromInt(4000000)
	result, err := SolveRateIncreaseForTarget(ctx, impact, decimal.Zero, 5, target)
	require.NoError(t, err)
	assert.True(t, result.Achieved, "solver should converge on a reachable target")

	diff := result.Forecast.TotalProjectedSpend.Sub(target).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromInt(1000)),
		"solved spend %s misses target %s by %s",
		result.Forecast.TotalProjectedSpend, target, diff)
	assert.True(t, result.RateIncreasePercent.GreaterThan(decimal.Zero))

	t.Logf("target $%s reached with %s%% rate increase",
		target, result.RateIncreasePercent.Round(3))
}

func TestSolveRateIncreaseForTarget_RequiresPositiveBudget(t *testing.T) {
	_, err := SolveRateIncreaseForTarget(standardContext(), domain.CallPayImpact{}, decimal.Zero, 5, decimal.NewFromInt(100000))
	assert.Error(t, err)
}

func TestSensitivityGrid_MatchesPointwiseForecasts(t *testing.T) {
	ctx := standardContext()
	impact := baseImpactForForecast()

	rates := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(3)}
	growths := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(5)}

	cells, err := SensitivityGrid(ctx, impact, rates, growths, 4)
	require.NoError(t, err)
	require.Len(t, cells, 4)

	for _, cell := range cells {
		forecast, err := GenerateForecast(ctx, impact, domain.ForecastAssumptions{
			RateIncreasePercent:   cell.RateIncreasePercent,
			ProviderGrowthPercent: cell.ProviderGrowthPercent,
			YearsToForecast:       4,
		})
		require.NoError(t, err)
		assert.True(t, cell.TotalProjectedSpend.Equal(forecast.TotalProjectedSpend))
	}
}
