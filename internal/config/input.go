package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrBenchmarkOrder marks benchmark percentile points that are not
// non-decreasing. The engine itself is permissive about ordering; this
// boundary rejects bad data before it can produce a nonsensical percentile.
var ErrBenchmarkOrder = errors.New("benchmark percentile points out of order")

// ScenarioFile is the complete input document: one or more call-pay
// scenarios, the survey benchmark table, and optional forecast assumptions.
type ScenarioFile struct {
	Scenarios  []domain.CallPayScenarioData `yaml:"scenarios" json:"scenarios"`
	Providers  []domain.ProviderScenario    `yaml:"providers,omitempty" json:"providers,omitempty"`
	Benchmarks []domain.FMVBenchmark        `yaml:"benchmarks" json:"benchmarks"`
	Forecast   *domain.ForecastAssumptions  `yaml:"forecast,omitempty" json:"forecast,omitempty"`
}

// InputParser handles parsing of input scenario files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a scenario file.
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Validate(&file); err != nil {
		return nil, fmt.Errorf("scenario file validation failed: %w", err)
	}

	return &file, nil
}

// Validate checks a scenario file for data-entry errors the engine does not
// guard against itself.
func (ip *InputParser) Validate(file *ScenarioFile) error {
	if len(file.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	for i := range file.Scenarios {
		if err := ip.validateScenario(&file.Scenarios[i]); err != nil {
			return fmt.Errorf("scenario %d (%s): %w", i, file.Scenarios[i].Name, err)
		}
	}

	for i := range file.Providers {
		if err := ip.validateProvider(&file.Providers[i]); err != nil {
			return fmt.Errorf("provider %d (%s): %w", i, file.Providers[i].Name, err)
		}
	}

	for i := range file.Benchmarks {
		if err := ip.validateBenchmark(&file.Benchmarks[i]); err != nil {
			return fmt.Errorf("benchmark %d (%s %d): %w", i, file.Benchmarks[i].Source, file.Benchmarks[i].SurveyYear, err)
		}
	}

	if file.Forecast != nil && file.Forecast.YearsToForecast < 1 {
		return fmt.Errorf("forecast years must be a positive integer, got %d", file.Forecast.YearsToForecast)
	}

	return nil
}

func (ip *InputParser) validateScenario(scenario *domain.CallPayScenarioData) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	seen := make(map[string]bool, len(scenario.Tiers))
	for i := range scenario.Tiers {
		tier := &scenario.Tiers[i]
		if tier.ID == "" {
			return fmt.Errorf("tier %d: id is required", i)
		}
		if seen[tier.ID] {
			return fmt.Errorf("duplicate tier id %q", tier.ID)
		}
		seen[tier.ID] = true

		if err := ip.validateTier(tier); err != nil {
			return fmt.Errorf("tier %s: %w", tier.ID, err)
		}
	}

	return nil
}

func (ip *InputParser) validateProvider(provider *domain.ProviderScenario) error {
	if provider.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if provider.FTE.LessThan(decimal.Zero) {
		return fmt.Errorf("fte cannot be negative")
	}
	for metric, bs := range provider.MarketBenchmarks {
		if !bs.IsOrdered() {
			return fmt.Errorf("%w: %s", ErrBenchmarkOrder, metric)
		}
	}
	return nil
}

func (ip *InputParser) validateTier(tier *domain.CallTier) error {
	switch tier.Rate.Mode {
	case domain.RateModeRaw, domain.RateModeUplift, "":
	default:
		return fmt.Errorf("unknown rate mode %q", tier.Rate.Mode)
	}

	if tier.Rate.Weekday.LessThan(decimal.Zero) {
		return fmt.Errorf("weekday rate cannot be negative")
	}

	if tier.Rate.Mode == domain.RateModeUplift {
		if !tier.Rate.Weekend.IsZero() || !tier.Rate.Holiday.IsZero() {
			return fmt.Errorf("uplift mode excludes stored weekend/holiday rates")
		}
	}

	b := tier.Burden
	for name, v := range map[string]decimal.Decimal{
		"weekday_calls_per_month": b.WeekdayCallsPerMonth,
		"weekend_calls_per_month": b.WeekendCallsPerMonth,
		"holidays_per_year":       b.HolidaysPerYear,
		"avg_callbacks_per_24h":   b.AvgCallbacksPer24h,
	} {
		if v.LessThan(decimal.Zero) {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}

	if tier.BurdenScore != nil {
		if tier.BurdenScore.LessThan(decimal.Zero) || tier.BurdenScore.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("burden score must be between 0 and 100")
		}
	}

	return nil
}

func (ip *InputParser) validateBenchmark(benchmark *domain.FMVBenchmark) error {
	if benchmark.Source == "" {
		return fmt.Errorf("survey source is required")
	}
	if benchmark.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}

	for name, bs := range map[string]domain.BenchmarkSet{
		"weekday": benchmark.Rates.Weekday,
		"weekend": benchmark.Rates.Weekend,
		"holiday": benchmark.Rates.Holiday,
	} {
		if !bs.IsOrdered() {
			return fmt.Errorf("%w: %s rates", ErrBenchmarkOrder, name)
		}
	}

	return nil
}
