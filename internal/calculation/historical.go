package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// HistoricalDataPoint is one year of history. Values are fractions (0.07 = 7%).
type HistoricalDataPoint struct {
	Year      int              `json:"year"`
	Return    decimal.Decimal  `json:"return"`
	Inflation *decimal.Decimal `json:"inflation,omitempty"`
}

// HistoricalStatistics summarizes a series of annual values.
type HistoricalStatistics struct {
	Mean         decimal.Decimal `json:"mean"`
	Median       decimal.Decimal `json:"median"`
	StdDev       decimal.Decimal `json:"std_dev"`
	Min          decimal.Decimal `json:"min"`
	Max          decimal.Decimal `json:"max"`
	Count        int             `json:"count"`
	MissingYears []int           `json:"missing_years"`
}

// ReturnHistory is a loaded annual return series.
type ReturnHistory struct {
	Name       string                `json:"name"`
	Source     string                `json:"source"`
	DataPoints []HistoricalDataPoint `json:"data_points"`
	MinYear    int                   `json:"min_year"`
	MaxYear    int                   `json:"max_year"`
	Returns    HistoricalStatistics  `json:"returns"`
	Inflation  *HistoricalStatistics `json:"inflation,omitempty"`
}

// Calibration is the return model derived from history, in percent.
type Calibration struct {
	ExpectedReturn float64  `json:"expected_return"`
	Volatility     float64  `json:"volatility"`
	InflationRate  *float64 `json:"inflation_rate,omitempty"`
	Years          int      `json:"years"`
}

// ErrNoHistoricalData is returned when a file holds no usable rows.
var ErrNoHistoricalData = errors.New("no valid historical data points")

// LoadReturnHistory reads a CSV with a header row and columns
// year,return[,inflation]. Rows with an unparseable year or return are skipped.
func LoadReturnHistory(path string) (*ReturnHistory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	history, err := ParseReturnHistory(file, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	history.Source = path
	return history, nil
}

// ParseReturnHistory reads the CSV format accepted by LoadReturnHistory.
func ParseReturnHistory(r io.Reader, name string) (*ReturnHistory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}
	hasInflation := len(header) >= 3

	var points []HistoricalDataPoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		ret, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}

		dp := HistoricalDataPoint{Year: year, Return: ret}
		if hasInflation && len(record) >= 3 {
			if inf, err := decimal.NewFromString(strings.TrimSpace(record[2])); err == nil {
				dp.Inflation = &inf
			}
		}
		points = append(points, dp)
	}

	if len(points) == 0 {
		return nil, ErrNoHistoricalData
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	h := &ReturnHistory{
		Name:       name,
		DataPoints: points,
		MinYear:    points[0].Year,
		MaxYear:    points[len(points)-1].Year,
	}

	returns := make([]decimal.Decimal, len(points))
	var inflation []decimal.Decimal
	for i, dp := range points {
		returns[i] = dp.Return
		if dp.Inflation != nil {
			inflation = append(inflation, *dp.Inflation)
		}
	}
	h.Returns = calculateStatistics(returns)
	h.Returns.MissingYears = missingYears(points)
	if len(inflation) > 0 {
		s := calculateStatistics(inflation)
		h.Inflation = &s
	}
	return h, nil
}

func calculateStatistics(values []decimal.Decimal) HistoricalStatistics {
	if len(values) == 0 {
		return HistoricalStatistics{}
	}

	floats := make([]float64, len(values))
	min, max := values[0], values[0]
	for i, v := range values {
		floats[i], _ = v.Float64()
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}

	mean, stdDev := stat.MeanStdDev(floats, nil)
	if len(floats) < 2 {
		stdDev = 0
	}
	sort.Float64s(floats)

	return HistoricalStatistics{
		Mean:   decimal.NewFromFloat(mean),
		Median: decimal.NewFromFloat(stat.Quantile(0.5, stat.Empirical, floats, nil)),
		StdDev: decimal.NewFromFloat(stdDev),
		Min:    min,
		Max:    max,
		Count:  len(values),
	}
}

// missingYears lists gaps between the first and last year of sorted points.
func missingYears(points []HistoricalDataPoint) []int {
	var missing []int
	for i := 1; i < len(points); i++ {
		for y := points[i-1].Year + 1; y < points[i].Year; y++ {
			missing = append(missing, y)
		}
	}
	return missing
}

// Calibration converts the history's sample mean and standard deviation to
// percentages suitable for SimulationInput.
func (h *ReturnHistory) Calibration() Calibration {
	c := Calibration{
		ExpectedReturn: h.Returns.Mean.Mul(decimal.NewFromInt(100)).Round(4).InexactFloat64(),
		Volatility:     h.Returns.StdDev.Mul(decimal.NewFromInt(100)).Round(4).InexactFloat64(),
		Years:          h.Returns.Count,
	}
	if h.Inflation != nil {
		rate := h.Inflation.Mean.Mul(decimal.NewFromInt(100)).Round(4).InexactFloat64()
		c.InflationRate = &rate
	}
	return c
}

// Apply returns a copy of in with the calibrated return model.
func (c Calibration) Apply(in domain.SimulationInput) domain.SimulationInput {
	in.ExpectedReturn = c.ExpectedReturn
	in.Volatility = c.Volatility
	if c.InflationRate != nil {
		in.InflationRate = *c.InflationRate
	}
	return in
}

// ReturnFor returns the recorded return for a year.
func (h *ReturnHistory) ReturnFor(year int) (decimal.Decimal, error) {
	i := sort.Search(len(h.DataPoints), func(i int) bool { return h.DataPoints[i].Year >= year })
	if i < len(h.DataPoints) && h.DataPoints[i].Year == year {
		return h.DataPoints[i].Return, nil
	}
	return decimal.Zero, fmt.Errorf("no data found for year %d", year)
}

// ValidateDataQuality reports gaps, duplicate years and extreme values.
func (h *ReturnHistory) ValidateDataQuality() []string {
	var issues []string

	if len(h.Returns.MissingYears) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years in %s data: %v", h.Name, h.Returns.MissingYears))
	}

	upper := decimal.NewFromInt(1)
	lower := decimal.NewFromFloat(-0.5)
	for i, dp := range h.DataPoints {
		if i > 0 && h.DataPoints[i-1].Year == dp.Year {
			issues = append(issues, fmt.Sprintf("Duplicate entry for year %d", dp.Year))
		}
		if dp.Return.GreaterThan(upper) {
			issues = append(issues, fmt.Sprintf("Extreme positive return for year %d: %s", dp.Year, dp.Return.String()))
		}
		if dp.Return.LessThan(lower) {
			issues = append(issues, fmt.Sprintf("Extreme negative return for year %d: %s", dp.Year, dp.Return.String()))
		}
	}

	if h.Returns.Count < 10 {
		issues = append(issues, fmt.Sprintf("Only %d years of data; calibration will be noisy", h.Returns.Count))
	}
	return issues
}
