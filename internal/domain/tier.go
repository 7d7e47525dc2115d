package domain

import (
	"github.com/shopspring/decimal"
)

// CoverageType classifies the kind of on-call coverage a tier provides.
type CoverageType string

const (
	CoverageRestricted   CoverageType = "restricted"   // in-house, must be on site
	CoverageUnrestricted CoverageType = "unrestricted" // pager call from home
	CoverageConcurrent   CoverageType = "concurrent"   // covering multiple sites at once
)

// PaymentMethod classifies how a tier is paid.
type PaymentMethod string

const (
	PaymentDailyStipend   PaymentMethod = "daily_stipend"
	PaymentAnnualRetainer PaymentMethod = "annual_retainer"
	PaymentFeeForService  PaymentMethod = "fee_for_service"
)

// RateType identifies one of the three day-type rates on a tier.
type RateType string

const (
	RateTypeWeekday RateType = "weekday"
	RateTypeWeekend RateType = "weekend"
	RateTypeHoliday RateType = "holiday"
)

// AllRateTypes lists the rate types in calculation order.
var AllRateTypes = []RateType{RateTypeWeekday, RateTypeWeekend, RateTypeHoliday}

// RateMode selects which rate fields on a CallTierRate are authoritative.
type RateMode string

const (
	// RateModeRaw uses the stored weekday/weekend/holiday dollar rates directly.
	RateModeRaw RateMode = "raw"
	// RateModeUplift derives weekend and holiday rates from the weekday rate
	// and the percentage uplift fields.
	RateModeUplift RateMode = "uplift"
)

// CallTierRate holds the per-24h dollar rates for a tier. The Mode field
// decides whether the stored weekend/holiday rates or the uplift percentages
// are authoritative; the two groups are mutually exclusive.
type CallTierRate struct {
	Mode    RateMode        `yaml:"mode" json:"mode"`
	Weekday decimal.Decimal `yaml:"weekday" json:"weekday"`
	Weekend decimal.Decimal `yaml:"weekend,omitempty" json:"weekend,omitempty"`
	Holiday decimal.Decimal `yaml:"holiday,omitempty" json:"holiday,omitempty"`

	WeekendUpliftPercent decimal.Decimal `yaml:"weekend_uplift_percent,omitempty" json:"weekend_uplift_percent,omitempty"`
	HolidayUpliftPercent decimal.Decimal `yaml:"holiday_uplift_percent,omitempty" json:"holiday_uplift_percent,omitempty"`

	// TraumaUpliftPercent, when present, applies on top of every resolved
	// rate for trauma-designated coverage.
	TraumaUpliftPercent *decimal.Decimal `yaml:"trauma_uplift_percent,omitempty" json:"trauma_uplift_percent,omitempty"`
}

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Effective resolves the dollar rate for a rate type according to the mode,
// including the trauma uplift when present.
func (r CallTierRate) Effective(rt RateType) decimal.Decimal {
	var rate decimal.Decimal
	switch rt {
	case RateTypeWeekend:
		if r.Mode == RateModeUplift {
			rate = r.Weekday.Mul(one.Add(r.WeekendUpliftPercent.Div(hundred)))
		} else {
			rate = r.Weekend
		}
	case RateTypeHoliday:
		if r.Mode == RateModeUplift {
			rate = r.Weekday.Mul(one.Add(r.HolidayUpliftPercent.Div(hundred)))
		} else {
			rate = r.Holiday
		}
	default:
		rate = r.Weekday
	}
	if r.TraumaUpliftPercent != nil {
		rate = rate.Mul(one.Add(r.TraumaUpliftPercent.Div(hundred)))
	}
	return rate
}

// CallTierBurden describes how often a tier is actually worked.
type CallTierBurden struct {
	WeekdayCallsPerMonth decimal.Decimal `yaml:"weekday_calls_per_month" json:"weekday_calls_per_month"`
	WeekendCallsPerMonth decimal.Decimal `yaml:"weekend_calls_per_month" json:"weekend_calls_per_month"`
	HolidaysPerYear      decimal.Decimal `yaml:"holidays_per_year" json:"holidays_per_year"`

	// AvgCallbacksPer24h is the average number of callbacks or cases worked
	// during one 24h coverage block.
	AvgCallbacksPer24h decimal.Decimal `yaml:"avg_callbacks_per_24h,omitempty" json:"avg_callbacks_per_24h,omitempty"`
}

var monthsPerYear = decimal.NewFromInt(12)

// AnnualOccurrences returns the number of 24h coverage blocks per year for a
// rate type, before any rotation split.
func (b CallTierBurden) AnnualOccurrences(rt RateType) decimal.Decimal {
	switch rt {
	case RateTypeWeekend:
		return b.WeekendCallsPerMonth.Mul(monthsPerYear)
	case RateTypeHoliday:
		return b.HolidaysPerYear
	default:
		return b.WeekdayCallsPerMonth.Mul(monthsPerYear)
	}
}

// TotalAnnualOccurrences returns the total 24h coverage blocks per year
// across all rate types, before any rotation split.
func (b CallTierBurden) TotalAnnualOccurrences() decimal.Decimal {
	total := decimal.Zero
	for _, rt := range AllRateTypes {
		total = total.Add(b.AnnualOccurrences(rt))
	}
	return total
}

// CallTier represents one on-call coverage tier (e.g. "C1").
type CallTier struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	CoverageType  CoverageType   `yaml:"coverage_type" json:"coverage_type"`
	PaymentMethod PaymentMethod  `yaml:"payment_method" json:"payment_method"`
	Rate          CallTierRate   `yaml:"rate" json:"rate"`
	Burden        CallTierBurden `yaml:"burden" json:"burden"`

	// BurdenScore is an optional user-entered composite (0-100) of coverage
	// intensity, used to contextualize whether a high rate is justified.
	BurdenScore *decimal.Decimal `yaml:"burden_score,omitempty" json:"burden_score,omitempty"`

	// Enabled gates whether the tier contributes to aggregate calculations.
	Enabled bool `yaml:"enabled" json:"enabled"`
}
