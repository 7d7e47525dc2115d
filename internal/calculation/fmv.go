package calculation

import (
	"fmt"
	"strings"

	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// rateBand is one of the intervals defined by consecutive benchmark points.
type rateBand int

const (
	bandNoData rateBand = iota
	bandBelowP25
	bandP25ToMedian
	bandMedian
	bandMedianToP75
	bandP75ToP90
	bandAboveP90
)

func (b rateBand) String() string {
	switch b {
	case bandBelowP25:
		return "below the 25th percentile"
	case bandP25ToMedian:
		return "between the 25th percentile and the median"
	case bandMedian:
		return "at the median"
	case bandMedianToP75:
		return "between the median and the 75th percentile"
	case bandP75ToP90:
		return "between the 75th and 90th percentiles"
	case bandAboveP90:
		return "above the 90th percentile"
	default:
		return "outside the surveyed range"
	}
}

// Burden thresholds for the risk adjustment.
var (
	highBurdenScore = decimal.NewFromInt(80)
	lowBurdenScore  = decimal.NewFromInt(60)
)

// staleSurveyAgeYears is how far a survey year may trail the model year
// before the evaluation carries a staleness note.
const staleSurveyAgeYears = 3

// FMVInput describes one effective rate to be assessed against market data.
type FMVInput struct {
	Specialty           string
	CoverageType        domain.CoverageType
	EffectiveRatePer24h decimal.Decimal

	// BurdenScore is optional; when absent only the base percentile
	// mapping applies.
	BurdenScore *decimal.Decimal

	// ModelYear, when set, enables the stale-survey-data note.
	ModelYear int
}

// FMVEvaluator classifies effective call-pay rates against a static table of
// survey benchmarks. It never returns an error: missing data degrades to a
// MODERATE assessment with an explanatory note.
type FMVEvaluator struct {
	Benchmarks []domain.FMVBenchmark
	Logger     Logger
}

// NewFMVEvaluator creates an evaluator over a benchmark reference table.
func NewFMVEvaluator(benchmarks []domain.FMVBenchmark) *FMVEvaluator {
	return &FMVEvaluator{
		Benchmarks: benchmarks,
		Logger:     NopLogger{},
	}
}

// Evaluate assesses one effective rate. The result always carries a risk
// level, at least one note on degraded paths, and a narrative summary.
func (e *FMVEvaluator) Evaluate(input FMVInput) domain.FMVEvaluationResult {
	benchmark := e.MatchBenchmark(input.Specialty, input.CoverageType)
	if benchmark == nil {
		return domain.FMVEvaluationResult{
			RiskLevel: domain.RiskModerate,
			Notes: []string{
				fmt.Sprintf("No market survey data available for %s (%s); risk defaults to MODERATE.",
					input.Specialty, input.CoverageType),
			},
			NarrativeSummary: e.noDataNarrative(input),
		}
	}

	rates := benchmark.Rates.ForRateType(domain.RateTypeWeekday)
	pct, band := classifyRate(input.EffectiveRatePer24h, rates)
	if band == bandNoData {
		return domain.FMVEvaluationResult{
			Benchmark: benchmark,
			RiskLevel: domain.RiskModerate,
			Notes: []string{
				fmt.Sprintf("Survey %s (%d) matched but carries no rate percentile points; risk defaults to MODERATE.",
					benchmark.Source, benchmark.SurveyYear),
			},
			NarrativeSummary: e.noDataNarrative(input),
		}
	}

	risk := classifyRisk(pct, input.BurdenScore)
	notes := e.buildNotes(input, benchmark, rates, pct, band, risk)

	return domain.FMVEvaluationResult{
		Benchmark:          benchmark,
		PercentileEstimate: &pct,
		RiskLevel:          risk,
		Notes:              notes,
		NarrativeSummary:   e.narrative(input, benchmark, band, pct, risk),
	}
}

// MatchBenchmark locates survey data for a specialty and coverage type.
// Matching order: exact pair, specialty with any coverage, the generic
// "All Specialties" record with matching coverage, then generic with any
// coverage. Returns nil when nothing applies.
func (e *FMVEvaluator) MatchBenchmark(specialty string, coverageType domain.CoverageType) *domain.FMVBenchmark {
	for i := range e.Benchmarks {
		b := &e.Benchmarks[i]
		if b.MatchesSpecialty(specialty) && b.CoverageType == coverageType {
			return b
		}
	}
	for i := range e.Benchmarks {
		b := &e.Benchmarks[i]
		if b.MatchesSpecialty(specialty) && !b.IsGeneric() {
			return b
		}
	}
	for i := range e.Benchmarks {
		b := &e.Benchmarks[i]
		if b.IsGeneric() && b.CoverageType == coverageType {
			return b
		}
	}
	for i := range e.Benchmarks {
		if e.Benchmarks[i].IsGeneric() {
			return &e.Benchmarks[i]
		}
	}
	return nil
}

// classifyRate places a rate into one of the six percentile bands and
// returns a representative percentile for the band. The benchmark shape here
// is four rate points, not arbitrary percentiles, so this is intentionally
// distinct from EstimatePercentile.
func classifyRate(rate decimal.Decimal, bs domain.BenchmarkSet) (decimal.Decimal, rateBand) {
	p25, p50, p75, p90, ok := resolveRatePoints(bs)
	if !ok {
		return decimal.Zero, bandNoData
	}

	switch {
	case rate.LessThan(p25):
		return decimal.NewFromInt(15), bandBelowP25
	case rate.LessThan(p50):
		return decimal.NewFromInt(37), bandP25ToMedian
	case rate.Equal(p50):
		return decimal.NewFromInt(50), bandMedian
	case rate.LessThanOrEqual(p75):
		return decimal.NewFromInt(62), bandMedianToP75
	case rate.LessThanOrEqual(p90):
		mid := p75.Add(p90).Div(decimal.NewFromInt(2))
		if rate.LessThanOrEqual(mid) {
			return decimal.NewFromInt(82), bandP75ToP90
		}
		return decimal.NewFromInt(87), bandP75ToP90
	default:
		return aboveP90Percentile(rate, p75, p90), bandAboveP90
	}
}

// aboveP90Percentile scales from 95 toward 99 by how far the rate exceeds
// p90, measured in units of the p75-p90 spread.
func aboveP90Percentile(rate, p75, p90 decimal.Decimal) decimal.Decimal {
	base := decimal.NewFromInt(95)
	spread := p90.Sub(p75)
	if spread.LessThanOrEqual(decimal.Zero) {
		return maxPercentile
	}
	overage := rate.Sub(p90).Div(spread).Mul(decimal.NewFromInt(2))
	pct := base.Add(overage)
	if pct.GreaterThan(maxPercentile) {
		return maxPercentile
	}
	return pct
}

// resolveRatePoints fills missing rate points by proportional extrapolation
// from whichever points are present. At least two known points are needed to
// establish a spread; a lone median synthesizes a +/-20% spread around itself.
func resolveRatePoints(bs domain.BenchmarkSet) (p25, p50, p75, p90 decimal.Decimal, ok bool) {
	points := bs.Points()
	if len(points) == 0 {
		return p25, p50, p75, p90, false
	}

	at := func(pct int64) decimal.Decimal {
		return valueAtPercentile(decimal.NewFromInt(pct), points)
	}
	return at(25), at(50), at(75), at(90), true
}

// valueAtPercentile estimates the rate value at a percentile rank by linear
// interpolation between (or extension beyond) the known points.
func valueAtPercentile(pct decimal.Decimal, points []domain.BenchmarkPoint) decimal.Decimal {
	if len(points) == 1 {
		// A lone point gives no spread; synthesize 20% per quartile step.
		only := points[0]
		steps := pct.Sub(only.Percentile).Div(decimal.NewFromInt(25))
		return only.Value.Mul(one.Add(steps.Mul(decimal.NewFromFloat(0.2))))
	}

	// Pick the segment containing pct, or the nearest edge segment.
	lo, hi := points[0], points[1]
	for i := 1; i < len(points); i++ {
		lo, hi = points[i-1], points[i]
		if pct.LessThanOrEqual(hi.Percentile) {
			break
		}
	}

	span := hi.Percentile.Sub(lo.Percentile)
	if span.IsZero() {
		return lo.Value
	}
	fraction := pct.Sub(lo.Percentile).Div(span)
	return lo.Value.Add(fraction.Mul(hi.Value.Sub(lo.Value)))
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// classifyRisk applies the base percentile-to-risk mapping and the optional
// burden-score adjustment.
func classifyRisk(pct decimal.Decimal, burdenScore *decimal.Decimal) domain.RiskLevel {
	p90 := decimal.NewFromInt(90)
	p75 := decimal.NewFromInt(75)
	p25 := decimal.NewFromInt(25)

	var risk domain.RiskLevel
	switch {
	case pct.LessThan(p25):
		risk = domain.RiskModerate // under-pay exposure
	case pct.LessThanOrEqual(p75):
		risk = domain.RiskLow
	case pct.LessThanOrEqual(p90):
		risk = domain.RiskModerate
	default:
		risk = domain.RiskHigh
	}

	if burdenScore == nil {
		return risk
	}

	if burdenScore.GreaterThanOrEqual(highBurdenScore) {
		// High burden justifies high pay: ease the top of the mapping.
		if pct.GreaterThanOrEqual(p90) && risk == domain.RiskHigh {
			return domain.RiskModerate
		}
		return risk
	}
	if burdenScore.LessThan(lowBurdenScore) && pct.GreaterThanOrEqual(p90) {
		return domain.RiskHigh
	}
	return risk
}

func (e *FMVEvaluator) buildNotes(input FMVInput, benchmark *domain.FMVBenchmark, rates domain.BenchmarkSet, pct decimal.Decimal, band rateBand, risk domain.RiskLevel) []string {
	var notes []string

	switch band {
	case bandBelowP25:
		notes = append(notes, "Rate is below the 25th percentile of surveyed rates; under-payment can itself be a compliance and retention concern.")
	case bandP75ToP90:
		notes = append(notes, "Rate is in the upper quartile of surveyed rates; documentation of coverage burden is recommended.")
	case bandAboveP90:
		notes = append(notes, "Rate exceeds the 90th percentile of surveyed rates and requires documented justification.")
		if rates.P90 != nil && rates.P75 != nil {
			spread := rates.P90.Sub(*rates.P75)
			if spread.GreaterThan(decimal.Zero) {
				multiple := input.EffectiveRatePer24h.Sub(*rates.P90).Div(spread)
				notes = append(notes, fmt.Sprintf(
					"Rate exceeds the 90th percentile by %sx the p75-p90 spread ($%s over $%s).",
					multiple.Round(2), input.EffectiveRatePer24h.Sub(*rates.P90).Round(0), rates.P90.Round(0)))
			}
		}
	}

	if input.BurdenScore != nil {
		switch {
		case input.BurdenScore.GreaterThanOrEqual(highBurdenScore) && risk == domain.RiskModerate && pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
			notes = append(notes, fmt.Sprintf("Burden score %s supports a rate at this market position; risk eased to MODERATE.", input.BurdenScore.Round(0)))
		case input.BurdenScore.LessThan(lowBurdenScore) && pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
			notes = append(notes, fmt.Sprintf("Burden score %s is low for a rate at this market position; the arrangement is difficult to defend.", input.BurdenScore.Round(0)))
		}
	}

	if input.ModelYear > 0 && input.ModelYear-benchmark.SurveyYear > staleSurveyAgeYears {
		notes = append(notes, fmt.Sprintf("Survey data is from %d, more than %d years before the %d model year; consider refreshed benchmarks.",
			benchmark.SurveyYear, staleSurveyAgeYears, input.ModelYear))
	}

	return notes
}

// narrative builds the templated FMV assessment paragraph.
func (e *FMVEvaluator) narrative(input FMVInput, benchmark *domain.FMVBenchmark, band rateBand, pct decimal.Decimal, risk domain.RiskLevel) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Compared against %s %d survey data for %s (%s coverage), the effective rate of $%s per 24h falls %s (approximately the %s percentile). ",
		benchmark.Source, benchmark.SurveyYear, benchmark.Specialty, benchmark.CoverageType,
		input.EffectiveRatePer24h.Round(0), band, pct.Round(0))

	if input.BurdenScore != nil {
		fmt.Fprintf(&sb, "The reported coverage burden score of %s was considered in this assessment. ", input.BurdenScore.Round(0))
	}

	switch risk {
	case domain.RiskLow:
		sb.WriteString("The arrangement is consistent with fair market value.")
	case domain.RiskModerate:
		sb.WriteString("The arrangement warrants supporting documentation of coverage burden and market conditions.")
	case domain.RiskHigh:
		sb.WriteString("The arrangement presents elevated regulatory risk and requires documented justification and approval.")
	}

	return sb.String()
}

func (e *FMVEvaluator) noDataNarrative(input FMVInput) string {
	return fmt.Sprintf("No comparable market survey data was found for %s (%s coverage) at $%s per 24h. Fair market value cannot be benchmarked and requires professional judgment.",
		input.Specialty, input.CoverageType, input.EffectiveRatePer24h.Round(0))
}
