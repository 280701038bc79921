package output

import (
	"time"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/domain"
)

// ScenarioReport pairs one scenario's inputs with its run result.
type ScenarioReport struct {
	Name   string                 `json:"name"`
	Input  domain.SimulationInput `json:"input"`
	Config domain.RunConfig       `json:"config"`
	Result *calculation.RunResult `json:"result"`
}

// Output returns the aggregate, or a zero value when the scenario has no result.
func (s ScenarioReport) Output() domain.MonteCarloOutput {
	if s.Result == nil {
		return domain.MonteCarloOutput{}
	}
	return s.Result.Output
}

// Report is everything a formatter renders.
type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Scenarios   []ScenarioReport `json:"scenarios"`
}

// NewReport stamps a report with the given time.
func NewReport(generatedAt time.Time, scenarios ...ScenarioReport) *Report {
	return &Report{GeneratedAt: generatedAt, Scenarios: scenarios}
}

// GenerateReport formats the report and writes it under dir. It returns the file written.
func GenerateReport(report *Report, format, dir string) (string, error) {
	f, err := LookupFormatter(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, report, dir)
}
