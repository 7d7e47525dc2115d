package calculation

import (
	"strings"
	"testing"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surveyBenchmarks() []domain.FMVBenchmark {
	return []domain.FMVBenchmark{
		{
			Source:       "MGMA",
			SurveyYear:   2025,
			Specialty:    "Orthopedic Surgery",
			CoverageType: domain.CoverageUnrestricted,
			Rates: domain.CallPayBenchmarks{
				Weekday: domain.BenchmarkSet{P25: dec(800), P50: dec(1000), P75: dec(1300), P90: dec(1500)},
				Weekend: domain.BenchmarkSet{P25: dec(1000), P50: dec(1250), P75: dec(1600), P90: dec(1900)},
				Holiday: domain.BenchmarkSet{P25: dec(1200), P50: dec(1500), P75: dec(1950), P90: dec(2300)},
			},
		},
		{
			Source:       "SullivanCotter",
			SurveyYear:   2024,
			Specialty:    "Orthopedic Surgery",
			CoverageType: domain.CoverageRestricted,
			Rates: domain.CallPayBenchmarks{
				Weekday: domain.BenchmarkSet{P25: dec(1500), P50: dec(1900), P75: dec(2400), P90: dec(2900)},
			},
		},
		{
			Source:       "MGMA",
			SurveyYear:   2025,
			Specialty:    domain.AllSpecialties,
			CoverageType: domain.CoverageUnrestricted,
			Rates: domain.CallPayBenchmarks{
				Weekday: domain.BenchmarkSet{P25: dec(500), P50: dec(700), P75: dec(950), P90: dec(1200)},
			},
		},
	}
}

func TestFMVEvaluator_BandClassification(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())

	tests := []struct {
		name         string
		rate         decimal.Decimal
		expectedPct  decimal.Decimal
		expectedRisk domain.RiskLevel
	}{
		{"below p25 is under-pay risk", decimal.NewFromInt(600), decimal.NewFromInt(15), domain.RiskModerate},
		{"p25 to median", decimal.NewFromInt(900), decimal.NewFromInt(37), domain.RiskLow},
		{"exactly the median", decimal.NewFromInt(1000), decimal.NewFromInt(50), domain.RiskLow},
		{"median to p75", decimal.NewFromInt(1200), decimal.NewFromInt(62), domain.RiskLow},
		{"lower p75-p90 half", decimal.NewFromInt(1350), decimal.NewFromInt(82), domain.RiskModerate},
		{"upper p75-p90 half", decimal.NewFromInt(1450), decimal.NewFromInt(87), domain.RiskModerate},
		{"just above p90", decimal.NewFromInt(1600), decimal.NewFromInt(96), domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(FMVInput{
				Specialty:           "Orthopedic Surgery",
				CoverageType:        domain.CoverageUnrestricted,
				EffectiveRatePer24h: tt.rate,
			})
			require.NotNil(t, result.PercentileEstimate)
			assert.True(t, result.PercentileEstimate.Equal(tt.expectedPct),
				"percentile = %s, want %s", result.PercentileEstimate, tt.expectedPct)
			assert.Equal(t, tt.expectedRisk, result.RiskLevel)
			assert.NotEmpty(t, result.NarrativeSummary)
		})
	}
}

func TestFMVEvaluator_PercentileCapsAt99(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())

	result := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: decimal.NewFromInt(50000),
	})

	require.NotNil(t, result.PercentileEstimate)
	assert.True(t, result.PercentileEstimate.Equal(decimal.NewFromInt(99)),
		"percentile = %s, want 99", result.PercentileEstimate)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel)
}

func TestFMVEvaluator_BurdenAdjustment(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())
	rate := decimal.NewFromInt(1600) // above p90

	noBurden := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: rate,
	})
	assert.Equal(t, domain.RiskHigh, noBurden.RiskLevel)

	highBurden := decimal.NewFromInt(85)
	eased := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: rate,
		BurdenScore:         &highBurden,
	})
	assert.Equal(t, domain.RiskModerate, eased.RiskLevel,
		"burden score 85 should ease HIGH to MODERATE")

	lowBurden := decimal.NewFromInt(40)
	kept := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: rate,
		BurdenScore:         &lowBurden,
	})
	assert.Equal(t, domain.RiskHigh, kept.RiskLevel,
		"low burden score should keep HIGH risk")
}

func TestFMVEvaluator_MatchingOrder(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())

	tests := []struct {
		name           string
		specialty      string
		coverageType   domain.CoverageType
		expectedSource string
		expectedSpec   string
	}{
		{

			name:           "exact specialty and coverage",
			specialty:      "Orthopedic Surgery",
			coverageType:   domain.CoverageRestricted,
			expectedSource: "SullivanCotter",
			expectedSpec:   "Orthopedic Surgery",
		},
		{
			name:           "specialty match with any coverage",
			specialty:      "Orthopedic Surgery",
			coverageType:   domain.CoverageConcurrent,
			expectedSource: "MGMA",
			expectedSpec:   "Orthopedic Surgery",
		},
		{
			name:           "generic fallback with matching coverage",
			specialty:      "Cardiology",
			coverageType:   domain.CoverageUnrestricted,
			expectedSource: "MGMA",
			expectedSpec:   domain.AllSpecialties,
		},
		{
			name:           "generic fallback with any coverage",
			specialty:      "Cardiology",
			coverageType:   domain.CoverageRestricted,
			expectedSource: "MGMA",
			expectedSpec:   domain.AllSpecialties,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := e.MatchBenchmark(tt.specialty, tt.coverageType)
			require.NotNil(t, b)
			assert.Equal(t, tt.expectedSource, b.Source)
			assert.Equal(t, tt.expectedSpec, b.Specialty)
		})
	}
}

func TestFMVEvaluator_NoMatchDegradesToModerate(t *testing.T) {
	e := NewFMVEvaluator(nil)

	result := e.Evaluate(FMVInput{
		Specialty:           "Dermatology",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: decimal.NewFromInt(2000),
	})

	assert.Nil(t, result.Benchmark)
	assert.Nil(t, result.PercentileEstimate)
	assert.Equal(t, domain.RiskModerate, result.RiskLevel)
	assert.NotEmpty(t, result.Notes)
	assert.Contains(t, result.NarrativeSummary, "professional judgment")
}

func TestFMVEvaluator_MissingP90Extrapolates(t *testing.T) {
	benchmarks := []domain.FMVBenchmark{{
		Source:       "MGMA",
		SurveyYear:   2025,
		Specialty:    "General Surgery",
		CoverageType: domain.CoverageUnrestricted,
		Rates: domain.CallPayBenchmarks{
			Weekday: domain.BenchmarkSet{P25: dec(800), P50: dec(1000), P75: dec(1300)},
		},
	}}
	e := NewFMVEvaluator(benchmarks)

	// p90 extrapolates proportionally past p75 (1300 + 0.6*(1300-1000) = 1480),
	// so 1400 still lands in the p75-p90 band, not above it.
	result := e.Evaluate(FMVInput{
		Specialty:           "General Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: decimal.NewFromInt(1400),
	})

	require.NotNil(t, result.PercentileEstimate)
	assert.Equal(t, domain.RiskModerate, result.RiskLevel)
	t.Logf("extrapolated percentile: %s", result.PercentileEstimate)
}

func TestFMVEvaluator_OverageNote(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())

	result := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: decimal.NewFromInt(1900), // 2x the p75-p90 spread over p90
	})

	found := false
	for _, n := range result.Notes {
		if strings.Contains(n, "2x the p75-p90 spread") {
			found = true
		}
	}
	assert.True(t, found, "expected overage multiplier note, got %v", result.Notes)
}

func TestFMVEvaluator_StaleSurveyNote(t *testing.T) {
	benchmarks := surveyBenchmarks()
	benchmarks[0].SurveyYear = 2020
	e := NewFMVEvaluator(benchmarks)

	result := e.Evaluate(FMVInput{
		Specialty:           "Orthopedic Surgery",
		CoverageType:        domain.CoverageUnrestricted,
		EffectiveRatePer24h: decimal.NewFromInt(1000),
		ModelYear:           2026,
	})

	found := false
	for _, n := range result.Notes {
		if strings.Contains(n, "2020") {
			found = true
		}
	}
	assert.True(t, found, "expected stale survey note, got %v", result.Notes)
}

func TestFMVEvaluator_NeverErrorsAcrossInputGrid(t *testing.T) {
	e := NewFMVEvaluator(surveyBenchmarks())

	specialties := []string{"Orthopedic Surgery", "Cardiology", "", domain.AllSpecialties}
	coverages := []domain.CoverageType{domain.CoverageRestricted, domain.CoverageUnrestricted, domain.CoverageConcurrent, ""}
	rates := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100), decimal.NewFromInt(1000), decimal.NewFromInt(999999)}

	for _, s := range specialties {
		for _, c := range coverages {
			for _, r := range rates {
				result := e.Evaluate(FMVInput{Specialty: s, CoverageType: c, EffectiveRatePer24h: r})
				assert.NotEmpty(t, result.RiskLevel)
				assert.NotEmpty(t, result.NarrativeSummary)
			}
		}
	}
}
