package main

import (
	"fmt"
	"os"
	"strconv"

	calc "github.com/compcal/compensation-calculator/internal/calculation"
	"github.com/compcal/compensation-calculator/internal/config"
	"github.com/shopspring/decimal"
)

// Prints the rate increase needed to hit a target total spend, plus a small
// rate-by-growth sensitivity grid around the current assumptions.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: solve_target <scenario-file> <target-total-spend> [years]")
		return
	}
	f := os.Args[1]
	target, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		panic(err)
	}
	years := 5
	if len(os.Args) > 3 {
		years, err = strconv.Atoi(os.Args[3])
		if err != nil {
			panic(err)
		}
	}

	p := config.NewInputParser()
	file, err := p.LoadFromFile(f)
	if err != nil {
		panic(err)
	}
	sc := file.Scenarios[0]
	impact := calc.CalculateImpact(sc.Tiers, sc.Context)
	fmt.Printf("scenario %q base annual spend: $%s\n", sc.Name, impact.TotalAnnualSpend.StringFixed(2))

	growth := decimal.Zero
	if file.Forecast != nil {
		growth = file.Forecast.ProviderGrowthPercent
	}

	res, err := calc.SolveRateIncreaseForTarget(sc.Context, impact, growth, years, decimal.NewFromFloat(target))
	if err != nil {
		panic(err)
	}
	fmt.Printf("target $%s over %d years: rate increase %s%% (achieved=%v, projected $%s)\n",
		decimal.NewFromFloat(target).StringFixed(2), years,
		res.RateIncreasePercent.StringFixed(2), res.Achieved,
		res.Forecast.TotalProjectedSpend.StringFixed(2))

	rates := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(3), decimal.NewFromInt(5)}
	growths := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(5)}
	grid, err := calc.SensitivityGrid(sc.Context, impact, rates, growths, years)
	if err != nil {
		panic(err)
	}
	fmt.Println("sensitivity (rate% x growth% -> total projected spend):")
	for _, cell := range grid {
		fmt.Printf("  %5s%% x %5s%% -> $%s\n",
			cell.RateIncreasePercent.StringFixed(1), cell.ProviderGrowthPercent.StringFixed(1),
			cell.TotalProjectedSpend.StringFixed(2))
	}
}
