package domain

import (
	"github.com/shopspring/decimal"
)

// BenchmarkSet is a sparse record of survey percentile points for one metric
// (TCC, wRVU, conversion factor, or call-pay rate per 24h). Any subset of the
// four points may be absent.
type BenchmarkSet struct {
	P25 *decimal.Decimal `yaml:"p25,omitempty" json:"p25,omitempty"`
	P50 *decimal.Decimal `yaml:"p50,omitempty" json:"p50,omitempty"`
	P75 *decimal.Decimal `yaml:"p75,omitempty" json:"p75,omitempty"`
	P90 *decimal.Decimal `yaml:"p90,omitempty" json:"p90,omitempty"`
}

// BenchmarkPoint pairs a percentile rank with its survey value.
type BenchmarkPoint struct {
	Percentile decimal.Decimal
	Value      decimal.Decimal
}

// Points returns the available benchmark points in ascending percentile order.
// Absent points are skipped.
func (bs BenchmarkSet) Points() []BenchmarkPoint {
	points := make([]BenchmarkPoint, 0, 4)
	add := func(pct int64, v *decimal.Decimal) {
		if v != nil {
			points = append(points, BenchmarkPoint{
				Percentile: decimal.NewFromInt(pct),
				Value:      *v,
			})
		}
	}
	add(25, bs.P25)
	add(50, bs.P50)
	add(75, bs.P75)
	add(90, bs.P90)
	return points
}

// IsEmpty reports whether no percentile points are present.
func (bs BenchmarkSet) IsEmpty() bool {
	return bs.P25 == nil && bs.P50 == nil && bs.P75 == nil && bs.P90 == nil
}

// IsOrdered reports whether the present points are non-decreasing in value.
// The engine never enforces this; the config boundary rejects violations.
func (bs BenchmarkSet) IsOrdered() bool {
	points := bs.Points()
	for i := 1; i < len(points); i++ {
		if points[i].Value.LessThan(points[i-1].Value) {
			return false
		}
	}
	return true
}

// CallPayBenchmarks groups rate-per-24h benchmark sets by rate type.
type CallPayBenchmarks struct {
	Weekday BenchmarkSet `yaml:"weekday" json:"weekday"`
	Weekend BenchmarkSet `yaml:"weekend" json:"weekend"`
	Holiday BenchmarkSet `yaml:"holiday" json:"holiday"`
}

// ForRateType returns the benchmark set for the given rate type.
func (cb CallPayBenchmarks) ForRateType(rt RateType) BenchmarkSet {
	switch rt {
	case RateTypeWeekend:
		return cb.Weekend
	case RateTypeHoliday:
		return cb.Holiday
	default:
		return cb.Weekday
	}
}

// AllSpecialties is the wildcard specialty used by generic survey records.
const AllSpecialties = "All Specialties"

// FMVBenchmark is one named, sourced survey record of call-pay rates for a
// specialty and coverage type. Static reference data; read-only to the engine.
type FMVBenchmark struct {
	Source       string            `yaml:"source" json:"source"`
	SurveyYear   int               `yaml:"survey_year" json:"survey_year"`
	Specialty    string            `yaml:"specialty" json:"specialty"`
	CoverageType CoverageType      `yaml:"coverage_type" json:"coverage_type"`
	Rates        CallPayBenchmarks `yaml:"rates" json:"rates"`
}

// MatchesSpecialty reports whether the record applies to the given specialty,
// treating the "All Specialties" record as generic rather than a match.
func (b FMVBenchmark) MatchesSpecialty(specialty string) bool {
	return b.Specialty == specialty
}

// IsGeneric reports whether this is an "All Specialties" record.
func (b FMVBenchmark) IsGeneric() bool {
	return b.Specialty == AllSpecialties
}
