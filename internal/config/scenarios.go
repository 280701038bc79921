package config

import (
	"path/filepath"

	"github.com/buckalew/retirement-sim/internal/calculation"
)

// NamedInputs returns the scenarios in file order for the runner.
func (f *ScenarioFile) NamedInputs() []calculation.NamedInput {
	inputs := make([]calculation.NamedInput, len(f.Scenarios))
	for i, sc := range f.Scenarios {
		inputs[i] = calculation.NamedInput{Name: sc.Name, Input: sc.SimulationInput}
	}
	return inputs
}

// ApplyHistory loads a return history and replaces every scenario's return
// model with its calibration. A relative path is resolved against baseDir.
// An empty path uses the file's history_file; with neither, nothing changes
// and a nil history is returned.
func (f *ScenarioFile) ApplyHistory(path, baseDir string) (*calculation.ReturnHistory, error) {
	if path == "" {
		path = f.HistoryFile
	}
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	history, err := calculation.LoadReturnHistory(path)
	if err != nil {
		return nil, err
	}
	cal := history.Calibration()
	for i := range f.Scenarios {
		f.Scenarios[i].SimulationInput = cal.Apply(f.Scenarios[i].SimulationInput)
	}
	return history, nil
}
