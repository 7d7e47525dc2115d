package main

import (
	"fmt"
	"os"

	"github.com/compcal/compensation-calculator/internal/calculation"
	"github.com/compcal/compensation-calculator/internal/config"
	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/compcal/compensation-calculator/internal/output"
	moneydec "github.com/compcal/compensation-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var debugMode bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "compcal",
		Short: "Model physician call-pay cost, FMV risk, and multi-year budgets",
	}
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable calculation debug logging")

	rootCmd.AddCommand(newCalculateCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newForecastCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// stderrLogger satisfies the calculation logger over plain stderr prints.
type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...any) { fmt.Fprintf(os.Stderr, "DEBUG "+format+"\n", args...) }
func (stderrLogger) Infof(format string, args ...any)  { fmt.Fprintf(os.Stderr, "INFO  "+format+"\n", args...) }
func (stderrLogger) Warnf(format string, args ...any)  { fmt.Fprintf(os.Stderr, "WARN  "+format+"\n", args...) }
func (stderrLogger) Errorf(format string, args ...any) { fmt.Fprintf(os.Stderr, "ERROR "+format+"\n", args...) }

func newEngine(file *config.ScenarioFile) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine(file.Benchmarks)
	if debugMode {
		engine.Debug = true
		engine.SetLogger(stderrLogger{})
	}
	return engine
}

func loadScenarioFile(path string) (*config.ScenarioFile, error) {
	parser := config.NewInputParser()
	file, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenarios: %w", err)
	}
	return file, nil
}

func buildReport(engine *calculation.CalculationEngine, file *config.ScenarioFile) (*output.Report, error) {
	analyses := make([]domain.ScenarioAnalysis, 0, len(file.Scenarios))
	for _, sc := range file.Scenarios {
		analysis, err := engine.RunScenario(sc, file.Forecast)
		if err != nil {
			return nil, fmt.Errorf("analyzing scenario %q: %w", sc.Name, err)
		}
		analyses = append(analyses, *analysis)
	}

	var comparison *domain.ScenarioComparison
	if len(file.Scenarios) >= 2 && len(file.Scenarios) <= 4 {
		cmp, err := engine.RunComparison(file.Scenarios)
		if err != nil {
			return nil, fmt.Errorf("comparing scenarios: %w", err)
		}
		comparison = &cmp
	}

	report := output.NewReport(analyses, comparison)
	for i := range file.Providers {
		engine.ComputePercentiles(&file.Providers[i])
	}
	report.Providers = file.Providers
	return report, nil
}

func emitReport(report *output.Report, format string, save bool) error {
	if save {
		return output.GenerateReport(report, format)
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return output.GenerateReport(report, format) // yields the suggestion error
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func newCalculateCmd() *cobra.Command {
	var (
		inputFile string
		format    string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute call-pay impact, FMV risk, and overrides for each scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadScenarioFile(inputFile)
			if err != nil {
				return err
			}
			engine := newEngine(file)
			report, err := buildReport(engine, file)
			if err != nil {
				return err
			}
			return emitReport(report, format, save)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Scenario YAML file")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json)")
	cmd.Flags().BoolVar(&save, "save", false, "Write a timestamped report file instead of stdout")
	cmd.MarkFlagRequired("input")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		inputFile string
		format    string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare 2 to 4 scenarios field by field",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadScenarioFile(inputFile)
			if err != nil {
				return err
			}
			engine := newEngine(file)
			comparison, err := engine.RunComparison(file.Scenarios)
			if err != nil {
				return err
			}
			report := output.NewReport(nil, &comparison)
			return emitReport(report, format, save)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Scenario YAML file")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json)")
	cmd.Flags().BoolVar(&save, "save", false, "Write a timestamped report file instead of stdout")
	cmd.MarkFlagRequired("input")

	return cmd
}

func newForecastCmd() *cobra.Command {
	var (
		inputFile      string
		scenarioName   string
		years          int
		rateIncrease   float64
		providerGrowth float64
		targetSpend    float64
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project a scenario's budget forward, or solve for a target spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadScenarioFile(inputFile)
			if err != nil {
				return err
			}
			scenario, err := pickScenario(file, scenarioName)
			if err != nil {
				return err
			}

			assumptions := domain.ForecastAssumptions{
				RateIncreasePercent:   decimal.NewFromFloat(rateIncrease),
				ProviderGrowthPercent: decimal.NewFromFloat(providerGrowth),
				YearsToForecast:       years,
			}
			if file.Forecast != nil && !cmd.Flags().Changed("years") {
				assumptions = *file.Forecast
			}

			impact := calculation.CalculateImpact(scenario.Tiers, scenario.Context)

			if cmd.Flags().Changed("target") {
				return runTargetSolve(scenario, impact, assumptions, targetSpend)
			}

			forecast, err := calculation.GenerateForecast(scenario.Context, impact, assumptions)
			if err != nil {
				return err
			}
			printForecast(scenario.Name, forecast)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Scenario YAML file")
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario name (default: first in file)")
	cmd.Flags().IntVar(&years, "years", 5, "Years to forecast")
	cmd.Flags().Float64Var(&rateIncrease, "rate-increase", 0, "Annual rate increase percent")
	cmd.Flags().Float64Var(&providerGrowth, "provider-growth", 0, "Annual provider growth percent")
	cmd.Flags().Float64Var(&targetSpend, "target", 0, "Solve for the rate increase that meets this total spend")
	cmd.MarkFlagRequired("input")

	return cmd
}

func pickScenario(file *config.ScenarioFile, name string) (domain.CallPayScenarioData, error) {
	if name == "" {
		return file.Scenarios[0], nil
	}
	for _, sc := range file.Scenarios {
		if sc.Name == name {
			return sc, nil
		}
	}
	return domain.CallPayScenarioData{}, fmt.Errorf("scenario %q not found in input file", name)
}

func runTargetSolve(scenario domain.CallPayScenarioData, impact domain.CallPayImpact, assumptions domain.ForecastAssumptions, targetSpend float64) error {
	target := moneydec.NewMoney(targetSpend)
	result, err := calculation.SolveRateIncreaseForTarget(
		scenario.Context, impact, assumptions.ProviderGrowthPercent, assumptions.YearsToForecast, target.Decimal)
	if err != nil {
		return err
	}
	projected := moneydec.NewMoneyFromDecimal(result.Forecast.TotalProjectedSpend)
	fmt.Printf("Scenario %q: target total spend %s over %d years\n", scenario.Name, target.Format(), assumptions.YearsToForecast)
	if result.Achieved {
		fmt.Printf("Required annual rate increase: %s%%\n", result.RateIncreasePercent.StringFixed(2))
	} else {
		fmt.Printf("Target not reachable within [-10%%, 25%%]; closest rate %s%%\n", result.RateIncreasePercent.StringFixed(2))
	}
	fmt.Printf("Projected total spend at that rate: %s\n", projected.Format())
	return nil
}

func printForecast(name string, forecast *domain.BudgetForecast) {
	fmt.Printf("Scenario %q budget forecast (base year %d, base budget %s)\n",
		name, forecast.BaseYear, output.FormatCurrency(forecast.BaseBudget))
	fmt.Println("Year    Adjusted Budget   Providers   Avg Pay/Provider")
	for _, yr := range forecast.Forecasts {
		fmt.Printf("%d %18s %11s %18s\n",
			yr.Year, output.FormatCurrency(yr.AdjustedBudget), yr.TotalProviders.StringFixed(1), output.FormatCurrency(yr.AveragePayPerProvider))
	}
	fmt.Printf("Total projected spend: %s\n", output.FormatCurrency(forecast.TotalProjectedSpend))
}
