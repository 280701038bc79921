package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedInputs(t *testing.T) {
	file := fixedParser().CreateExampleConfiguration()
	inputs := file.NamedInputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, "Baseline", inputs[0].Name)
	assert.Equal(t, file.Scenarios[1].SimulationInput, inputs[1].Input)
}

func TestApplyHistory(t *testing.T) {
	dir := t.TempDir()
	csv := "year,return,inflation\n2000,0.10,0.02\n2001,0.06,0.04\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.csv"), []byte(csv), 0o644))

	file := fixedParser().CreateExampleConfiguration()
	file.HistoryFile = "history.csv"

	history, err := file.ApplyHistory("", dir)
	require.NoError(t, err)
	require.NotNil(t, history)
	assert.Equal(t, 2, history.Returns.Count)

	for _, sc := range file.Scenarios {
		assert.InDelta(t, 8.0, sc.ExpectedReturn, 1e-9)
		assert.InDelta(t, 2.8284, sc.Volatility, 1e-3)
		assert.InDelta(t, 3.0, sc.InflationRate, 1e-9)
	}
}

func TestApplyHistoryNone(t *testing.T) {
	file := fixedParser().CreateExampleConfiguration()
	history, err := file.ApplyHistory("", t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.Equal(t, 7.0, file.Scenarios[0].ExpectedReturn)

	_, err = file.ApplyHistory("missing.csv", t.TempDir())
	assert.Error(t, err)
}
