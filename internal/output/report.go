package output

import (
	"errors"
	"time"

	"github.com/compcal/compensation-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned when a report format name does not
// resolve to a registered formatter.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Report bundles everything a formatter may render: the per-scenario
// analyses and, when more than one scenario was modeled, their comparison.
type Report struct {
	GeneratedAt time.Time                  `json:"generatedAt" yaml:"generated_at"`
	Analyses    []domain.ScenarioAnalysis  `json:"analyses" yaml:"analyses"`
	Comparison  *domain.ScenarioComparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`

	// Providers holds productivity-pay scenarios with their computed
	// market percentile locations, when the input supplied any.
	Providers []domain.ProviderScenario `json:"providers,omitempty" yaml:"providers,omitempty"`
}

// NewReport stamps a report with the current time.
func NewReport(analyses []domain.ScenarioAnalysis, comparison *domain.ScenarioComparison) *Report {
	return &Report{GeneratedAt: time.Now(), Analyses: analyses, Comparison: comparison}
}
