package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies a compensation arrangement's regulatory exposure.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// FMVEvaluationResult is the computed fair-market-value assessment of one
// effective rate. Benchmark and PercentileEstimate are nil when no survey
// data matched; the "no data" path is a first-class state, not a sentinel.
type FMVEvaluationResult struct {
	Benchmark          *FMVBenchmark    `json:"benchmark,omitempty"`
	PercentileEstimate *decimal.Decimal `json:"percentile_estimate,omitempty"`
	RiskLevel          RiskLevel        `json:"risk_level"`
	Notes              []string         `json:"notes"`
	NarrativeSummary   string           `json:"narrative_summary"`
}

// FMVOverride flags one (tier, rate type) pair whose rate exceeds the 90th
// percentile benchmark and therefore requires documented justification.
// Justification and approval are human-entered and survive recalculation by
// merge on the (TierID, RateType) key.
type FMVOverride struct {
	TierID   string   `yaml:"tier_id" json:"tier_id"`
	RateType RateType `yaml:"rate_type" json:"rate_type"`

	Rate                decimal.Decimal `yaml:"rate" json:"rate"`
	BenchmarkPercentile int             `yaml:"benchmark_percentile" json:"benchmark_percentile"`
	BenchmarkValue      decimal.Decimal `yaml:"benchmark_value" json:"benchmark_value"`

	Justification string     `yaml:"justification" json:"justification"`
	ApprovedBy    string     `yaml:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `yaml:"approved_at,omitempty" json:"approved_at,omitempty"`
}

// Key returns the merge key identifying this override across recalculations.
func (o FMVOverride) Key() string {
	return o.TierID + "/" + string(o.RateType)
}

// IsJustified reports whether a compliance justification has been entered.
func (o FMVOverride) IsJustified() bool {
	return o.Justification != ""
}
