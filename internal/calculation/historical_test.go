package calculation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckalew/retirement-sim/internal/domain"
)

const sampleHistory = `year,return,inflation
2002,0.20,0.02
2000,0.10,0.02
2001,-0.05,0.03
not-a-year,0.50,0.01
2004,0.07,0.03
2005,abc,0.02
`

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "equities.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReturnHistory(t *testing.T) {
	h, err := LoadReturnHistory(writeHistory(t, sampleHistory))
	require.NoError(t, err)

	assert.Equal(t, "equities", h.Name)
	assert.Equal(t, 2000, h.MinYear)
	assert.Equal(t, 2004, h.MaxYear)
	require.Len(t, h.DataPoints, 4)
	assert.Equal(t, 2000, h.DataPoints[0].Year)

	assert.Equal(t, 4, h.Returns.Count)
	assert.Equal(t, []int{2003}, h.Returns.MissingYears)
	assert.True(t, h.Returns.Mean.Sub(decimal.NewFromFloat(0.08)).Abs().LessThan(decimal.NewFromFloat(1e-9)))
	assert.True(t, h.Returns.Min.Equal(decimal.NewFromFloat(-0.05)))
	assert.True(t, h.Returns.Max.Equal(decimal.NewFromFloat(0.20)))

	require.NotNil(t, h.Inflation)
	assert.Equal(t, 4, h.Inflation.Count)

	r, err := h.ReturnFor(2001)
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromFloat(-0.05)))
	_, err = h.ReturnFor(2003)
	assert.Error(t, err)
}

func TestReturnHistoryCalibration(t *testing.T) {
	h, err := LoadReturnHistory(writeHistory(t, sampleHistory))
	require.NoError(t, err)

	c := h.Calibration()
	assert.InDelta(t, 8.0, c.ExpectedReturn, 1e-9)
	assert.InDelta(t, 10.2956, c.Volatility, 1e-3)
	assert.Equal(t, 4, c.Years)
	require.NotNil(t, c.InflationRate)
	assert.InDelta(t, 2.5, *c.InflationRate, 1e-9)

	in := c.Apply(domain.SimulationInput{CurrentAge: 30, RetirementAge: 60, ExpectedReturn: 1, Volatility: 1})
	assert.Equal(t, 30, in.CurrentAge)
	assert.InDelta(t, 8.0, in.ExpectedReturn, 1e-9)
	assert.InDelta(t, 2.5, in.InflationRate, 1e-9)
}

func TestReturnHistoryWithoutInflation(t *testing.T) {
	h, err := ParseReturnHistory(strings.NewReader("year,return\n2019,0.31\n2020,0.18\n"), "sp500")
	require.NoError(t, err)
	assert.Nil(t, h.Inflation)

	c := h.Calibration()
	assert.Nil(t, c.InflationRate)
	in := c.Apply(domain.SimulationInput{InflationRate: 3})
	assert.Equal(t, 3.0, in.InflationRate)
}

func TestReturnHistoryErrors(t *testing.T) {
	_, err := LoadReturnHistory(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = ParseReturnHistory(strings.NewReader("year\n2000\n"), "x")
	assert.Error(t, err)

	_, err = ParseReturnHistory(strings.NewReader("year,return\nfoo,bar\n"), "x")
	assert.True(t, errors.Is(err, ErrNoHistoricalData))
}

func TestReturnHistoryDataQuality(t *testing.T) {
	h, err := ParseReturnHistory(strings.NewReader("year,return\n2000,1.5\n2001,-0.6\n2001,0.1\n2003,0.05\n"), "wild")
	require.NoError(t, err)

	issues := h.ValidateDataQuality()
	joined := strings.Join(issues, "\n")
	assert.Contains(t, joined, "Missing years in wild data: [2002]")
	assert.Contains(t, joined, "Duplicate entry for year 2001")
	assert.Contains(t, joined, "Extreme positive return for year 2000")
	assert.Contains(t, joined, "Extreme negative return for year 2001")
	assert.Contains(t, joined, "Only 4 years of data")
}
