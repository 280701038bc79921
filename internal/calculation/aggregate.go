package calculation

import (
	"sort"

	"github.com/buckalew/retirement-sim/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Aggregator accumulates every completed path of a run. Statistics are always
// recomputed from the full sample, so any batching of Add calls yields the
// same result as a single pass. It is not safe for concurrent use.
type Aggregator struct {
	plan   *simulationPlan
	retain bool

	ending    []float64
	real      []float64
	yearly    [][]float64 // yearly[y-1] holds every path's balance at year-end y
	results   []domain.PathResult
	failures  []domain.FailureYear
	successes int
}

func newAggregator(plan *simulationPlan, retain bool) *Aggregator {
	return &Aggregator{
		plan:   plan,
		retain: retain,
		yearly: make([][]float64, plan.horizon),
	}
}

// Add folds completed paths into the sample.
func (a *Aggregator) Add(outcomes ...pathOutcome) {
	for _, o := range outcomes {
		a.ending = append(a.ending, o.ending())
		a.real = append(a.real, o.realEnding())
		for y := 1; y < len(o.balances); y++ {
			a.yearly[y-1] = append(a.yearly[y-1], o.balances[y])
		}
		if o.success {
			a.successes++
		} else if o.failureYear > 0 {
			a.failures = append(a.failures, domain.FailureYear{
				Path: o.index,
				Year: o.failureYear,
				Age:  a.plan.input.CurrentAge + o.failureYear,
			})
		}

		result := domain.PathResult{
			Index:             o.index,
			EndingBalance:     o.ending(),
			RealEndingBalance: o.realEnding(),
			Success:           o.success,
			FailureYear:       o.failureYear,
		}
		if a.retain {
			result.Path = &domain.SimulationPath{
				StartAge:     a.plan.input.CurrentAge,
				Balances:     o.balances,
				RealBalances: o.realBalances,
			}
		}
		a.results = append(a.results, result)
	}
}

// Count returns the number of paths folded in so far.
func (a *Aggregator) Count() int { return len(a.ending) }

// Snapshot computes the aggregate over every path added so far.
func (a *Aggregator) Snapshot() domain.MonteCarloOutput {
	out := domain.MonteCarloOutput{
		TargetBalance: a.plan.target,
		CompletedRuns: a.Count(),
	}
	if a.Count() == 0 {
		out.Simulations = []domain.PathResult{}
		out.FailureYears = []domain.FailureYear{}
		out.YearlyBands = []domain.YearBand{}
		return out
	}

	nominal := sortedCopy(a.ending)
	out.Median = quantile(nominal, 0.5)
	out.Percentile5 = quantile(nominal, 0.05)
	out.Percentile95 = quantile(nominal, 0.95)
	out.Mean = stat.Mean(nominal, nil)

	adjusted := sortedCopy(a.real)
	out.RealMedian = quantile(adjusted, 0.5)
	out.RealPercentile5 = quantile(adjusted, 0.05)
	out.RealPercentile95 = quantile(adjusted, 0.95)

	out.SuccessRate = float64(a.successes) / float64(a.Count())

	out.Simulations = append([]domain.PathResult(nil), a.results...)
	sort.Slice(out.Simulations, func(i, j int) bool { return out.Simulations[i].Index < out.Simulations[j].Index })

	out.FailureYears = append([]domain.FailureYear{}, a.failures...)
	sort.Slice(out.FailureYears, func(i, j int) bool { return out.FailureYears[i].Path < out.FailureYears[j].Path })

	out.YearlyBands = make([]domain.YearBand, len(a.yearly))
	for i, values := range a.yearly {
		sorted := sortedCopy(values)
		out.YearlyBands[i] = domain.YearBand{
			Year:         i + 1,
			Age:          a.plan.input.CurrentAge + i + 1,
			Percentile5:  quantile(sorted, 0.05),
			Median:       quantile(sorted, 0.5),
			Percentile95: quantile(sorted, 0.95),
		}
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	c := append([]float64(nil), values...)
	sort.Float64s(c)
	return c
}

// quantile returns the empirical p-quantile of already sorted values.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
