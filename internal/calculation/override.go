package calculation

import (
	"github.com/compcal/compensation-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DetectOverrides scans enabled tiers for rates exceeding the 90th-percentile
// benchmark for their rate type. Each hit becomes an override record with an
// empty justification; entering the justification is a human step. A nil
// benchmark table, or an absent p90 for a rate type, produces no override
// for that rate type.
func DetectOverrides(tiers []domain.CallTier, benchmarks *domain.CallPayBenchmarks) []domain.FMVOverride {
	if benchmarks == nil {
		return nil
	}

	var overrides []domain.FMVOverride
	for _, tier := range tiers {
		if !tier.Enabled {
			continue
		}
		for _, rt := range domain.AllRateTypes {
			p90 := benchmarks.ForRateType(rt).P90
			if p90 == nil {
				continue
			}
			rate := tier.Rate.Effective(rt)
			if rate.LessThanOrEqual(decimal.Zero) {
				continue
			}
			if rate.GreaterThan(*p90) {
				overrides = append(overrides, domain.FMVOverride{
					TierID:              tier.ID,
					RateType:            rt,
					Rate:                rate,
					BenchmarkPercentile: 90,
					BenchmarkValue:      *p90,
					Justification:       "",
				})
			}
		}
	}
	return overrides
}

// MergeOverrides reconciles newly detected overrides with previously stored
// ones by (tierID, rateType) key: human-entered justification and approval
// survive recalculation on surviving keys, overrides whose trigger cleared
// are dropped, and new detections start with an empty justification.
func MergeOverrides(existing, detected []domain.FMVOverride) []domain.FMVOverride {
	prior := make(map[string]domain.FMVOverride, len(existing))
	for _, o := range existing {
		prior[o.Key()] = o
	}

	merged := make([]domain.FMVOverride, 0, len(detected))
	for _, o := range detected {
		if kept, ok := prior[o.Key()]; ok {
			o.Justification = kept.Justification
			o.ApprovedBy = kept.ApprovedBy
			o.ApprovedAt = kept.ApprovedAt
		}
		merged = append(merged, o)
	}
	return merged
}
