package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/compcal/compensation-calculator/internal/domain"
)

// ConsoleFormatter renders the full analysis as plain text: per-scenario
// impact tables, FMV assessments, pending overrides, and the forecast.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "CALL PAY COMPENSATION ANALYSIS")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintln(&buf)

	analyses := append([]domain.ScenarioAnalysis(nil), report.Analyses...)
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].ScenarioName < analyses[j].ScenarioName })

	for _, a := range analyses {
		writeScenario(&buf, a)
	}

	if len(report.Providers) > 0 {
		writeProviders(&buf, report.Providers)
	}

	if report.Comparison != nil {
		writeComparison(&buf, report.Comparison)
	}

	if rec := AnalyzeScenarios(report); rec.ScenarioName != "" {
		fmt.Fprintf(&buf, "Lowest cost: %s (saves %s / %s vs. most expensive)\n",
			rec.ScenarioName, FormatCurrency(rec.SpendSavings), FormatPercentage(rec.PercentChange))
	}
	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, a domain.ScenarioAnalysis) {
	fmt.Fprintf(buf, "Scenario: %s\n", a.ScenarioName)
	fmt.Fprintf(buf, "  Specialty: %s  Providers: %d  Rotation: 1-in-%s\n",
		a.Context.Specialty, a.Context.ProvidersOnCall, a.Context.RotationRatio.String())
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "  Tier                          Pay/Provider     Group Total     Rate/24h")
	for _, t := range a.Impact.Tiers {
		fmt.Fprintf(buf, "  %-28s %14s %15s %12s\n",
			t.TierName,
			FormatCurrency(t.AnnualPayPerProvider),
			FormatCurrency(t.AnnualPayGroup),
			FormatCurrency(t.EffectiveRatePer24h))
	}
	fmt.Fprintf(buf, "  Total Annual Spend: %s\n", FormatCurrency(a.Impact.TotalAnnualSpend))
	fmt.Fprintf(buf, "  Average Pay/Provider: %s\n", FormatCurrency(a.Impact.AveragePayPerProvider))
	if !a.Impact.PayPerFTE.IsZero() {
		fmt.Fprintf(buf, "  Pay Per 1.0 FTE: %s\n", FormatCurrency(a.Impact.PayPerFTE))
	}
	fmt.Fprintln(buf)

	writeFMVSection(buf, a)
	writeOverrideSection(buf, a)
	writeForecastSection(buf, a)

	if len(a.Assumptions) > 0 {
		fmt.Fprintln(buf, "  Assumptions:")
		for _, s := range a.Assumptions {
			fmt.Fprintf(buf, "    - %s\n", s)
		}
		fmt.Fprintln(buf)
	}
}

func writeFMVSection(buf *bytes.Buffer, a domain.ScenarioAnalysis) {
	if len(a.FMVResults) == 0 {
		return
	}
	fmt.Fprintln(buf, "  Fair Market Value Assessment")
	tierIDs := make([]string, 0, len(a.FMVResults))
	for id := range a.FMVResults {
		tierIDs = append(tierIDs, id)
	}
	sort.Strings(tierIDs)
	for _, id := range tierIDs {
		r := a.FMVResults[id]
		name := id
		if t, ok := a.Impact.TierImpactByID(id); ok {
			name = t.TierName
		}
		if r.PercentileEstimate != nil {
			fmt.Fprintf(buf, "    %-28s %s percentile  %s risk\n", name, FormatPercentile(*r.PercentileEstimate), r.RiskLevel)
		} else {
			fmt.Fprintf(buf, "    %-28s no survey data  %s risk\n", name, r.RiskLevel)
		}
		fmt.Fprintf(buf, "      %s\n", r.NarrativeSummary)
		for _, n := range r.Notes {
			fmt.Fprintf(buf, "      note: %s\n", n)
		}
	}
	counts := RiskCounts(a)
	fmt.Fprintf(buf, "    Risk summary: %d low, %d moderate, %d high\n",
		counts[domain.RiskLow], counts[domain.RiskModerate], counts[domain.RiskHigh])
	fmt.Fprintln(buf)
}

func writeOverrideSection(buf *bytes.Buffer, a domain.ScenarioAnalysis) {
	if len(a.Overrides) == 0 {
		return
	}
	fmt.Fprintf(buf, "  FMV Overrides (%d pending justification)\n", len(a.UnjustifiedOverrides()))
	for _, o := range a.Overrides {
		status := "PENDING"
		if o.IsJustified() {
			status = "justified"
			if o.ApprovedBy != "" {
				status = "approved by " + o.ApprovedBy
			}
		}
		fmt.Fprintf(buf, "    %s %s rate %s exceeds p%d benchmark %s [%s]\n",
			o.TierID, o.RateType, FormatCurrency(o.Rate), o.BenchmarkPercentile, FormatCurrency(o.BenchmarkValue), status)
	}
	fmt.Fprintln(buf)
}

func writeForecastSection(buf *bytes.Buffer, a domain.ScenarioAnalysis) {
	if a.Forecast == nil {
		return
	}
	f := a.Forecast
	fmt.Fprintf(buf, "  Budget Forecast (base year %d, base budget %s)\n", f.BaseYear, FormatCurrency(f.BaseBudget))
	fmt.Fprintln(buf, "    Year    Adjusted Budget   Providers   Avg Pay/Provider")
	for _, yr := range f.Forecasts {
		fmt.Fprintf(buf, "    %d %18s %11s %18s\n",
			yr.Year, FormatCurrency(yr.AdjustedBudget), yr.TotalProviders.StringFixed(1), FormatCurrency(yr.AveragePayPerProvider))
	}
	fmt.Fprintf(buf, "    Total Projected Spend: %s\n", FormatCurrency(f.TotalProjectedSpend))
	fmt.Fprintln(buf)
}

func writeProviders(buf *bytes.Buffer, providers []domain.ProviderScenario) {
	fmt.Fprintln(buf, "Provider Market Position")
	fmt.Fprintln(buf, "------------------------")
	for _, p := range providers {
		fmt.Fprintf(buf, "  %s (FTE %s): TCC %s, %s wRVUs, CF %s/wRVU\n",
			p.Name, p.FTE.StringFixed(2), FormatCurrency(p.TotalTCC()), p.AnnualWRVUs.StringFixed(0), p.ConversionFactor().StringFixed(2))
		metrics := make([]string, 0, len(p.ComputedPercentiles))
		for m := range p.ComputedPercentiles {
			metrics = append(metrics, m)
		}
		sort.Strings(metrics)
		for _, m := range metrics {
			fmt.Fprintf(buf, "    %-6s at the %s percentile\n", m, FormatPercentile(p.ComputedPercentiles[m]))
		}
	}
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, cmp *domain.ScenarioComparison) {
	fmt.Fprintln(buf, "Scenario Comparison")
	fmt.Fprintln(buf, "-------------------")
	for i, name := range cmp.ScenarioNames {
		fmt.Fprintf(buf, "  [%d] %s\n", i+1, name)
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "  Field                                   Value 1        Value 2       Variance        %")
	for _, v := range cmp.Variances {
		fmt.Fprintf(buf, "  %-36s %12s %14s %14s %8s\n",
			v.Field, v.Value1.StringFixed(2), v.Value2.StringFixed(2), v.Variance.StringFixed(2), FormatPercentage(v.VariancePercent))
	}
	fmt.Fprintf(buf, "  Total Budget Variance: %s (%s)\n",
		FormatCurrency(cmp.TotalBudgetVariance), FormatPercentage(cmp.TotalBudgetVariancePercent))
	fmt.Fprintln(buf)
}
