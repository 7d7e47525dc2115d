package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/compcal/compensation-calculator/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Specialty", "ProvidersOnCall", "TotalAnnualSpend", "AveragePayPerProvider", "PayPerFTE", "HighRiskTiers", "Overrides", "UnjustifiedOverrides", "TotalProjectedSpend"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	analyses := append([]domain.ScenarioAnalysis(nil), report.Analyses...)
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].ScenarioName < analyses[j].ScenarioName })
	for _, a := range analyses {
		projected := ""
		if a.Forecast != nil {
			projected = a.Forecast.TotalProjectedSpend.StringFixed(2)
		}
		row := []string{
			a.ScenarioName,
			a.Context.Specialty,
			intToString(a.Context.ProvidersOnCall),
			a.Impact.TotalAnnualSpend.StringFixed(2),
			a.Impact.AveragePayPerProvider.StringFixed(2),
			a.Impact.PayPerFTE.StringFixed(2),
			intToString(RiskCounts(a)[domain.RiskHigh]),
			intToString(len(a.Overrides)),
			intToString(len(a.UnjustifiedOverrides())),
			projected,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), nil
}
