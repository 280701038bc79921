package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. RSIM_SERVER_ADDR.
const EnvPrefix = "RSIM"

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	SimulationTimeout time.Duration `mapstructure:"simulation_timeout"`
	MaxRuns           int           `mapstructure:"max_runs"`

	// RunRetention is how long a finished asynchronous run can still be fetched.
	RunRetention time.Duration `mapstructure:"run_retention"`
}

// SimulationDefaults fill run settings a request leaves unset.
type SimulationDefaults struct {
	Runs           int           `mapstructure:"runs"`
	BatchSize      int           `mapstructure:"batch_size"`
	Workers        int           `mapstructure:"workers"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// Settings is the application configuration.
type Settings struct {
	Logging    LoggingConfig      `mapstructure:"logging"`
	Server     ServerConfig       `mapstructure:"server"`
	Simulation SimulationDefaults `mapstructure:"simulation"`
}

// RunConfig returns the defaults as a run configuration.
func (d SimulationDefaults) RunConfig() domain.RunConfig {
	return domain.RunConfig{
		SimulationRuns: d.Runs,
		BatchSize:      d.BatchSize,
		Workers:        d.Workers,
		UpdateInterval: d.UpdateInterval,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.simulation_timeout", 30*time.Second)
	v.SetDefault("server.max_runs", 100000)
	v.SetDefault("server.run_retention", 10*time.Minute)

	v.SetDefault("simulation.runs", 1000)
	v.SetDefault("simulation.batch_size", 100)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.update_interval", 250*time.Millisecond)
}

// LoadSettings reads an optional settings file (any format viper understands)
// and applies RSIM_* environment overrides.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings that would otherwise fail late.
func (s *Settings) Validate() error {
	if s.Server.SimulationTimeout < 0 {
		return fmt.Errorf("server.simulation_timeout cannot be negative")
	}
	if s.Server.RunRetention < 0 {
		return fmt.Errorf("server.run_retention cannot be negative")
	}
	if s.Server.MaxRuns <= 0 {
		return fmt.Errorf("server.max_runs must be positive")
	}
	if s.Simulation.Runs <= 0 {
		return fmt.Errorf("simulation.runs must be positive")
	}
	if s.Simulation.BatchSize < 0 || s.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.batch_size and simulation.workers cannot be negative")
	}
	return nil
}
