package calculation

import (
	"fmt"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// GenerateForecast compounds a base-year call-pay impact forward under rate
// and headcount growth assumptions. Negative provider growth (attrition) is
// valid and shrinks the budget. yearsToForecast must be a positive integer.
func GenerateForecast(context domain.CallPayContext, baseImpact domain.CallPayImpact, assumptions domain.ForecastAssumptions) (*domain.BudgetForecast, error) {
	if assumptions.YearsToForecast < 1 {
		return nil, fmt.Errorf("years to forecast must be a positive integer, got %d", assumptions.YearsToForecast)
	}

	baseBudget := baseImpact.TotalAnnualSpend
	rateFactor := one.Add(assumptions.RateIncreasePercent.Div(hundred))
	providerFactor := one.Add(assumptions.ProviderGrowthPercent.Div(hundred))
	baseProviders := decimal.NewFromInt(int64(context.ProvidersOnCall))

	forecast := &domain.BudgetForecast{
		BaseYear:            context.ModelYear,
		BaseBudget:          baseBudget,
		Forecasts:           make([]domain.YearForecast, 0, assumptions.YearsToForecast),
		TotalProjectedSpend: baseBudget,
	}

	for k := 1; k <= assumptions.YearsToForecast; k++ {
		power := decimal.NewFromInt(int64(k))
		compoundedRates := rateFactor.Pow(power)
		compoundedProviders := providerFactor.Pow(power)

		adjusted := baseBudget.Mul(compoundedRates).Mul(compoundedProviders)
		totalProviders := baseProviders.Mul(compoundedProviders)

		// Derived from the same compounding so that
		// adjusted ~= totalProviders * averagePay within rounding.
		averagePay := decimal.Zero
		if totalProviders.GreaterThan(decimal.Zero) {
			averagePay = adjusted.Div(totalProviders)
		}

		forecast.Forecasts = append(forecast.Forecasts, domain.YearForecast{
			Year:                  context.ModelYear + k,
			AdjustedBudget:        adjusted,
			TotalProviders:        totalProviders,
			AveragePayPerProvider: averagePay,
		})
		forecast.TotalProjectedSpend = forecast.TotalProjectedSpend.Add(adjusted)
	}

	return forecast, nil
}

// TargetSolveResult is the outcome of solving for the rate increase that
// keeps a multi-year forecast within a target total spend.
type TargetSolveResult struct {
	RateIncreasePercent decimal.Decimal        `json:"rate_increase_percent"`
	Forecast            *domain.BudgetForecast `json:"forecast"`
	TargetTotalSpend    decimal.Decimal        `json:"target_total_spend"`
	Achieved            bool                   `json:"achieved"`
}

var (
	solverMinRate   = decimal.NewFromInt(-10)
	solverMaxRate   = decimal.NewFromInt(25)
	solverTolerance = decimal.NewFromInt(1000) // within $1,000
)

// SolveRateIncreaseForTarget binary-searches the annual rate increase whose
// total projected spend meets a target budget within tolerance, holding the
// provider growth assumption fixed. Targets outside the searched [-10%, 25%]
// band return the boundary forecast with Achieved=false.
func SolveRateIncreaseForTarget(context domain.CallPayContext, baseImpact domain.CallPayImpact, growthPercent decimal.Decimal, years int, target decimal.Decimal) (*TargetSolveResult, error) {
	if years < 1 {
		return nil, fmt.Errorf("years to forecast must be a positive integer, got %d", years)
	}
	if baseImpact.TotalAnnualSpend.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("base budget must be positive to solve for a target")
	}

	assumptionsAt := func(rate decimal.Decimal) domain.ForecastAssumptions {
		return domain.ForecastAssumptions{
			RateIncreasePercent:   rate,
			ProviderGrowthPercent: growthPercent,
			YearsToForecast:       years,
		}
	}

	minRate := solverMinRate
	maxRate := solverMaxRate
	const maxIterations = 50

	for i := 0; i < maxIterations; i++ {
		testRate := minRate.Add(maxRate).Div(decimal.NewFromInt(2))
		forecast, err := GenerateForecast(context, baseImpact, assumptionsAt(testRate))
		if err != nil {
			return nil, err
		}

		diff := forecast.TotalProjectedSpend.Sub(target)
		if diff.Abs().LessThan(solverTolerance) {
			return &TargetSolveResult{
				RateIncreasePercent: testRate,
				Forecast:            forecast,
				TargetTotalSpend:    target,
				Achieved:            true,
			}, nil
		}

		// Total spend is monotonically increasing in the rate increase.
		if diff.LessThan(decimal.Zero) {
			minRate = testRate
		} else {
			maxRate = testRate
		}

		if maxRate.Sub(minRate).LessThan(decimal.NewFromFloat(0.0001)) {
			break
		}
	}

	finalRate := minRate.Add(maxRate).Div(decimal.NewFromInt(2))
	forecast, err := GenerateForecast(context, baseImpact, assumptionsAt(finalRate))
	if err != nil {
		return nil, err
	}
	return &TargetSolveResult{
		RateIncreasePercent: finalRate,
		Forecast:            forecast,
		TargetTotalSpend:    target,
		Achieved:            forecast.TotalProjectedSpend.Sub(target).Abs().LessThan(solverTolerance),
	}, nil
}

// SensitivityCell is one point on a rate-increase x provider-growth grid.
type SensitivityCell struct {
	RateIncreasePercent   decimal.Decimal `json:"rate_increase_percent"`
	ProviderGrowthPercent decimal.Decimal `json:"provider_growth_percent"`
	TotalProjectedSpend   decimal.Decimal `json:"total_projected_spend"`
}

// SensitivityGrid forecasts total projected spend for every combination of
// the supplied assumption options, for budget what-if displays.
func SensitivityGrid(context domain.CallPayContext, baseImpact domain.CallPayImpact, rateOptions, growthOptions []decimal.Decimal, years int) ([]SensitivityCell, error) {
	if years < 1 {
		return nil, fmt.Errorf("years to forecast must be a positive integer, got %d", years)
	}

	cells := make([]SensitivityCell, 0, len(rateOptions)*len(growthOptions))
	for _, rate := range rateOptions {
		for _, growth := range growthOptions {
			forecast, err := GenerateForecast(context, baseImpact, domain.ForecastAssumptions{
				RateIncreasePercent:   rate,
				ProviderGrowthPercent: growth,
				YearsToForecast:       years,
			})
			if err != nil {
				return nil, err
			}
			cells = append(cells, SensitivityCell{
				RateIncreasePercent:   rate,
				ProviderGrowthPercent: growth,
				TotalProjectedSpend:   forecast.TotalProjectedSpend,
			})
		}
	}
	return cells, nil
}
