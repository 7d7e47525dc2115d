package calculation

import (
	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	neutralPercentile = decimal.NewFromInt(50)
	maxPercentile     = decimal.NewFromInt(99)
)

// EstimatePercentile locates a value within a sparse market-benchmark
// distribution and returns an interpolated percentile rank in [0, 99].
//
// Behavior is deterministic for every input shape:
//   - no benchmark points: returns 50, the neutral default
//   - value equal to a benchmark point: that point's percentile exactly
//   - between two points: piecewise-linear interpolation
//   - below the lowest point: linear toward (0, 0), floored at 0
//   - above the highest point: extrapolated along the last segment's slope,
//     capped at 99; with a single point the estimate clamps at that point's
//     percentile since no slope is available
func EstimatePercentile(value decimal.Decimal, benchmarks domain.BenchmarkSet) decimal.Decimal {
	points := benchmarks.Points()
	if len(points) == 0 {
		return neutralPercentile
	}

	// Exact matches return the survey percentile with no rounding drift.
	for _, p := range points {
		if value.Equal(p.Value) {
			return p.Percentile
		}
	}

	lowest := points[0]
	if value.LessThan(lowest.Value) {
		if lowest.Value.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero
		}
		pct := value.Div(lowest.Value).Mul(lowest.Percentile)
		if pct.LessThan(decimal.Zero) {
			return decimal.Zero
		}
		return pct
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if value.LessThan(hi.Value) {
			span := hi.Value.Sub(lo.Value)
			if span.LessThanOrEqual(decimal.Zero) {
				return lo.Percentile
			}
			fraction := value.Sub(lo.Value).Div(span)
			return lo.Percentile.Add(fraction.Mul(hi.Percentile.Sub(lo.Percentile)))
		}
	}

	highest := points[len(points)-1]
	if len(points) == 1 {
		return highest.Percentile
	}

	// Extrapolate past the highest point using the last segment's slope.
	prev := points[len(points)-2]
	span := highest.Value.Sub(prev.Value)
	if span.LessThanOrEqual(decimal.Zero) {
		return highest.Percentile
	}
	slope := highest.Percentile.Sub(prev.Percentile).Div(span)
	pct := highest.Percentile.Add(value.Sub(highest.Value).Mul(slope))
	if pct.GreaterThan(maxPercentile) {
		return maxPercentile
	}
	return pct
}
