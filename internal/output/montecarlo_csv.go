package output

import (
	"bytes"
	"encoding/csv"
)

// BandsCSVExporter writes the per-year percentile bands of every scenario,
// the series a fan chart is drawn from.
type BandsCSVExporter struct{}

func (b BandsCSVExporter) Name() string      { return "bands-csv" }
func (b BandsCSVExporter) Extension() string { return "csv" }

func (b BandsCSVExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Scenario", "Year", "Age", "Percentile5", "Median", "Percentile95"}); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		for _, band := range sc.Output().YearlyBands {
			row := []string{
				sc.Name,
				intToString(band.Year),
				intToString(band.Age),
				FormatAmount(band.Percentile5),
				FormatAmount(band.Median),
				FormatAmount(band.Percentile95),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
