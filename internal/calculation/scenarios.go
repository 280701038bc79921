package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// NamedInput is one scenario of a comparison run.
type NamedInput struct {
	Name  string
	Input domain.SimulationInput
}

// ScenarioRun is the outcome of one scenario.
type ScenarioRun struct {
	Name   string
	Input  domain.SimulationInput
	Result *RunResult
}

// ScenarioProgressFunc receives progress for a named scenario. It may be
// called concurrently from different scenarios.
type ScenarioProgressFunc func(name string, snap ProgressSnapshot)

// RunScenarios runs every scenario concurrently under one run configuration.
// Every scenario uses the same seed, drawn once when cfg.Seed is zero, so
// that scenarios are compared on the same draws.
// Results keep the order of scenarios. The first failure is returned after
// all scenarios have stopped; cancelling ctx yields partial results.
func (r *Runner) RunScenarios(ctx context.Context, scenarios []NamedInput, cfg domain.RunConfig, onProgress ScenarioProgressFunc) ([]ScenarioRun, error) {
	for _, sc := range scenarios {
		if err := sc.Input.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = r.Seeds()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runs := make([]ScenarioRun, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc NamedInput) {
			defer wg.Done()
			var progress ProgressFunc
			if onProgress != nil {
				progress = func(snap ProgressSnapshot) { onProgress(sc.Name, snap) }
			}
			res, err := r.Run(ctx, sc.Input, cfg, progress)
			if err != nil {
				errs[i] = fmt.Errorf("scenario %q: %w", sc.Name, err)
				cancel()
				return
			}
			runs[i] = ScenarioRun{Name: sc.Name, Input: sc.Input, Result: res}
		}(i, sc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}
