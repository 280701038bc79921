package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter provides a concise console summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT MONTE CARLO SUMMARY")
	fmt.Fprintln(&buf, "================================")

	for _, sc := range report.Scenarios {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s (age %d -> %d)\n", sc.Name, sc.Input.CurrentAge, sc.Input.HorizonAge())
		if sc.Result == nil {
			fmt.Fprintln(&buf, "  no result")
			continue
		}
		out := sc.Result.Output
		status := string(sc.Result.Status)
		if out.Partial {
			status += fmt.Sprintf(" (partial: %d of %d paths)", out.CompletedRuns, out.RequestedRuns)
		}
		fmt.Fprintf(&buf, "  Status:          %s\n", status)
		if out.TargetBalance > 0 {
			fmt.Fprintf(&buf, "  Success rate:    %s of paths reach %s\n", FormatPercentage(out.SuccessRate), FormatCurrency(out.TargetBalance))
		}
		fmt.Fprintf(&buf, "  Median:          %s (real %s)\n", FormatCurrency(out.Median), FormatCurrency(out.RealMedian))
		fmt.Fprintf(&buf, "  5th-95th pct:    %s - %s\n", FormatCurrency(out.Percentile5), FormatCurrency(out.Percentile95))
		fmt.Fprintf(&buf, "  Mean:            %s\n", FormatCurrency(out.Mean))
		fmt.Fprintf(&buf, "  Deterministic:   %s\n", FormatCurrency(out.DeterministicBalance))
		if n := len(out.FailureYears); n > 0 {
			fmt.Fprintf(&buf, "  Earliest shortfall: age %d\n", earliestFailureAge(out.FailureYears))
		}
	}

	if rec := AnalyzeScenarios(report); rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (success %s, median %s)\n", rec.ScenarioName, FormatPercentage(rec.SuccessRate), FormatCurrency(rec.Median))
	}
	return buf.Bytes(), nil
}
