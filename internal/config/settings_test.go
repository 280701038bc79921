package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, []string{"*"}, s.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Second, s.Server.SimulationTimeout)
	assert.Equal(t, 10*time.Minute, s.Server.RunRetention)
	assert.Equal(t, 1000, s.Simulation.Runs)
	assert.Equal(t, 100, s.Simulation.BatchSize)

	rc := s.Simulation.RunConfig()
	assert.Equal(t, 1000, rc.SimulationRuns)
	assert.Equal(t, 250*time.Millisecond, rc.UpdateInterval)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	content := "logging:\n" +
		"  level: debug\n" +
		"  format: console\n" +
		"server:\n" +
		"  addr: \":9090\"\n" +
		"  simulation_timeout: 5s\n" +
		"simulation:\n" +
		"  runs: 2000\n"
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("RSIM_SIMULATION_BATCH_SIZE", "250")
	t.Setenv("RSIM_SERVER_ADDR", ":7070")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, ":7070", s.Server.Addr)
	assert.Equal(t, 5*time.Second, s.Server.SimulationTimeout)
	assert.Equal(t, 2000, s.Simulation.Runs)
	assert.Equal(t, 250, s.Simulation.BatchSize)
}

func TestLoadSettingsErrors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("RSIM_SIMULATION_RUNS", "0")
	_, err = LoadSettings("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.runs")
}
