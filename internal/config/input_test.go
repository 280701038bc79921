package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckalew/retirement-sim/internal/domain"
)

func fixedParser() *InputParser {
	p := NewInputParser()
	p.AsOf = func() time.Time { return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	assert.Equal(t, 1000, parser.Defaults.SimulationRuns)
}

func TestLoadFromFile_Success(t *testing.T) {
	testConfig := "simulation:\n" +
		"  simulation_runs: 500\n" +
		"  batch_size: 50\n" +
		"  update_interval: 100ms\n" +
		"  seed: 7\n" +
		"scenarios:\n" +
		"  - name: \"Standard\"\n" +
		"    current_age: 30\n" +
		"    retirement_age: 65\n" +
		"    current_savings: 50000\n" +
		"    monthly_contribution: 500\n" +
		"    expected_return: 7\n" +
		"    volatility: 15\n" +
		"    inflation_rate: 2.5\n" +
		"  - name: \"Crash\"\n" +
		"    birth_date: \"1990-06-15\"\n" +
		"    retirement_age: 60\n" +
		"    terminal_age: 85\n" +
		"    current_savings: 10000\n" +
		"    expected_return: 6\n" +
		"    volatility: 12\n" +
		"    target_balance: 1000000\n" +
		"    crash:\n" +
		"      crash_year: 3\n" +
		"      decline_percent: 40\n" +
		"      recovery_years: 5\n"

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	file, err := fixedParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 500, file.Simulation.SimulationRuns)
	assert.Equal(t, 50, file.Simulation.BatchSize)
	assert.Equal(t, 100*time.Millisecond, file.Simulation.UpdateInterval)
	assert.Equal(t, int64(7), file.Simulation.Seed)

	require.Len(t, file.Scenarios, 2)
	assert.Equal(t, "Standard", file.Scenarios[0].Name)
	assert.Equal(t, 30, file.Scenarios[0].CurrentAge)
	assert.Equal(t, 7.0, file.Scenarios[0].ExpectedReturn)
	assert.Nil(t, file.Scenarios[0].Crash)

	crash := file.Scenarios[1]
	assert.Equal(t, 34, crash.CurrentAge)
	assert.Equal(t, 85, crash.TerminalAge)
	require.NotNil(t, crash.Crash)
	assert.Equal(t, domain.MarketCrashScenario{CrashYear: 3, DeclinePercent: 40, RecoveryYears: 5}, *crash.Crash)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	file, err := fixedParser().Parse([]byte("scenarios:\n  - name: a\n    current_age: 40\n    retirement_age: 67\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000, file.Simulation.SimulationRuns)
	assert.Equal(t, 100, file.Simulation.BatchSize)
}

func TestLoadFromFile_JSON(t *testing.T) {
	data := `{"simulation": {"simulation_runs": 10}, "scenarios": [{"name": "j", "current_age": 50, "retirement_age": 60}]}`
	file, err := fixedParser().Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 10, file.Simulation.SimulationRuns)
	assert.Equal(t, 60, file.Scenarios[0].RetirementAge)
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad yaml", "scenarios: [", "failed to parse YAML"},
		{"no scenarios", "simulation:\n  simulation_runs: 10\n", "no scenarios provided"},
		{"missing name", "scenarios:\n  - current_age: 30\n    retirement_age: 65\n", "name is required"},
		{"duplicate name", "scenarios:\n  - name: a\n    current_age: 30\n    retirement_age: 65\n  - name: a\n    current_age: 30\n    retirement_age: 65\n", "duplicate name"},
		{"retirement before current", "scenarios:\n  - name: a\n    current_age: 70\n    retirement_age: 65\n", "retirement_age"},
		{"negative runs", "simulation:\n  simulation_runs: -5\nscenarios:\n  - name: a\n    current_age: 30\n    retirement_age: 65\n", "simulation_runs"},
		{"bad birth date", "scenarios:\n  - name: a\n    birth_date: soon\n    retirement_age: 65\n", "birth_date"},
		{"age disagrees", "scenarios:\n  - name: a\n    birth_date: \"1990-06-15\"\n    current_age: 40\n    retirement_age: 65\n", "disagrees"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixedParser().Parse([]byte(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	_, err := fixedParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestExampleConfigurationRoundTrip(t *testing.T) {
	parser := fixedParser()
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, parser.WriteExampleConfiguration(path))

	file, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	example := parser.CreateExampleConfiguration()
	assert.Equal(t, example.Simulation, file.Simulation)
	require.Len(t, file.Scenarios, len(example.Scenarios))
	assert.Equal(t, example.Scenarios[0], file.Scenarios[0])
	assert.Equal(t, 34, file.Scenarios[1].CurrentAge)
	assert.Equal(t, example.Scenarios[1].Crash, file.Scenarios[1].Crash)
}
