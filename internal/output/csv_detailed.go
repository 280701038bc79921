package output

import (
	"bytes"
	"encoding/csv"
)

// CSVDetailedExporter writes one row per simulated path. When paths were
// retained it writes one row per path and year instead.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Path", "Year", "Age", "Balance", "RealBalance", "Success", "FailureYear"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sc := range report.Scenarios {
		if sc.Result == nil {
			continue
		}
		for _, sim := range sc.Result.Output.Simulations {
			if sim.Path == nil {
				row := []string{
					sc.Name,
					intToString(sim.Index),
					intToString(sc.Input.HorizonYears()),
					intToString(sc.Input.HorizonAge()),
					FormatAmount(sim.EndingBalance),
					FormatAmount(sim.RealEndingBalance),
					boolToString(sim.Success),
					intToString(sim.FailureYear),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
				continue
			}
			for year, balance := range sim.Path.Balances {
				row := []string{
					sc.Name,
					intToString(sim.Index),
					intToString(year),
					intToString(sim.Path.StartAge + year),
					FormatAmount(balance),
					FormatAmount(sim.Path.RealBalances[year]),
					boolToString(sim.Success),
					intToString(sim.FailureYear),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
