package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/buckalew/retirement-sim/internal/domain"
	"github.com/buckalew/retirement-sim/pkg/dateutil"
)

// ScenarioFile is the on-disk description of one or more simulations that
// share a run configuration.
type ScenarioFile struct {
	Simulation  domain.RunConfig `yaml:"simulation"`
	HistoryFile string           `yaml:"history_file,omitempty"`
	Scenarios   []Scenario       `yaml:"scenarios"`
}

// Scenario is a named SimulationInput. BirthDate may replace current_age.
type Scenario struct {
	Name      string `yaml:"name"`
	BirthDate string `yaml:"birth_date,omitempty"`

	domain.SimulationInput `yaml:",inline"`
}

// InputParser handles parsing of scenario files
type InputParser struct {
	// AsOf is the date ages are computed at when a scenario gives a birth date.
	AsOf func() time.Time
	// Defaults fills run settings the file leaves at zero.
	Defaults domain.RunConfig
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{
		AsOf:     time.Now,
		Defaults: domain.RunConfig{SimulationRuns: 1000, BatchSize: 100},
	}
}

// LoadFromFile loads a scenario file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML (or JSON, which YAML accepts) and validates it.
func (ip *InputParser) Parse(data []byte) (*ScenarioFile, error) {
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.applyDefaults(&file)
	if err := ip.resolveAges(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := ip.ValidateConfiguration(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &file, nil
}

func (ip *InputParser) applyDefaults(file *ScenarioFile) {
	sim := &file.Simulation
	if sim.SimulationRuns == 0 {
		sim.SimulationRuns = ip.Defaults.SimulationRuns
	}
	if sim.BatchSize == 0 {
		sim.BatchSize = ip.Defaults.BatchSize
	}
	if sim.Workers == 0 {
		sim.Workers = ip.Defaults.Workers
	}
	if sim.UpdateInterval == 0 {
		sim.UpdateInterval = ip.Defaults.UpdateInterval
	}
}

func (ip *InputParser) resolveAges(file *ScenarioFile) error {
	asOf := time.Now
	if ip.AsOf != nil {
		asOf = ip.AsOf
	}
	for i := range file.Scenarios {
		sc := &file.Scenarios[i]
		if sc.BirthDate == "" {
			continue
		}
		birth, err := dateutil.ParseDate(sc.BirthDate)
		if err != nil {
			return fmt.Errorf("scenario %q: birth_date: %w", sc.Name, err)
		}
		age := dateutil.Age(birth, asOf())
		if sc.CurrentAge != 0 && sc.CurrentAge != age {
			return fmt.Errorf("scenario %q: current_age %d disagrees with birth_date (age %d)", sc.Name, sc.CurrentAge, age)
		}
		sc.CurrentAge = age
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(file *ScenarioFile) error {
	if err := file.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	if len(file.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i, sc := range file.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true

		if err := sc.SimulationInput.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return nil
}

// CreateExampleConfiguration returns a scenario file that exercises every field.
func (ip *InputParser) CreateExampleConfiguration() *ScenarioFile {
	return &ScenarioFile{
		Simulation: domain.RunConfig{
			SimulationRuns: 1000,
			BatchSize:      100,
			UpdateInterval: 250 * time.Millisecond,
			Seed:           20240601,
		},
		Scenarios: []Scenario{
			{
				Name: "Baseline",
				SimulationInput: domain.SimulationInput{
					CurrentAge:           30,
					RetirementAge:        65,
					CurrentSavings:       50000,
					MonthlyContribution:  500,
					ExpectedReturn:       7,
					Volatility:           15,
					InflationRate:        2.5,
					DesiredMonthlyIncome: 5000,
				},
			},
			{
				Name:      "Early Crash",
				BirthDate: "1990-06-15",
				SimulationInput: domain.SimulationInput{
					RetirementAge:        65,
					TerminalAge:          90,
					CurrentSavings:       50000,
					MonthlyContribution:  750,
					ExpectedReturn:       7,
					Volatility:           15,
					InflationRate:        2.5,
					DesiredMonthlyIncome: 5000,
					Crash: &domain.MarketCrashScenario{
						CrashYear:      5,
						DeclinePercent: 35,
						RecoveryYears:  4,
					},
				},
			},
		},
	}
}

// WriteExampleConfiguration writes the example scenario file as YAML.
func (ip *InputParser) WriteExampleConfiguration(filename string) error {
	data, err := yaml.Marshal(ip.CreateExampleConfiguration())
	if err != nil {
		return fmt.Errorf("failed to encode example configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
