package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Status", "CompletedRuns", "RequestedRuns", "Partial", "SuccessRate", "TargetBalance", "Percentile5", "Median", "Percentile95", "Mean", "RealPercentile5", "RealMedian", "RealPercentile95", "DeterministicBalance", "Seed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		if sc.Result == nil {
			continue
		}
		out := sc.Result.Output
		row := []string{
			sc.Name,
			string(sc.Result.Status),
			intToString(out.CompletedRuns),
			intToString(out.RequestedRuns),
			boolToString(out.Partial),
			strconv.FormatFloat(out.SuccessRate, 'f', 4, 64),
			FormatAmount(out.TargetBalance),
			FormatAmount(out.Percentile5),
			FormatAmount(out.Median),
			FormatAmount(out.Percentile95),
			FormatAmount(out.Mean),
			FormatAmount(out.RealPercentile5),
			FormatAmount(out.RealMedian),
			FormatAmount(out.RealPercentile95),
			FormatAmount(out.DeterministicBalance),
			strconv.FormatInt(sc.Result.Seed, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
