package calculation

import (
	"math"
	"runtime"
	"sync"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// MonteCarloSimulator generates randomized retirement paths. It holds no
// per-run state and can be shared by concurrent runs.
type MonteCarloSimulator struct {
	Logger  Logger
	Metrics MetricsSink
}

// NewMonteCarloSimulator creates a simulator. Nil collaborators are replaced with no-ops.
func NewMonteCarloSimulator(logger Logger, metrics MetricsSink) *MonteCarloSimulator {
	if logger == nil {
		logger = NopLogger{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &MonteCarloSimulator{Logger: logger, Metrics: metrics}
}

// simulationPlan is everything derived from the input that every path shares.
// It is built once per run and only read afterwards.
type simulationPlan struct {
	input        domain.SimulationInput
	seed         int64
	model        ReturnModel
	horizon      int
	accumulation int
	target       float64
	deflators    []float64 // deflators[y] = (1+inflation)^y
	viable       []float64 // viable[y] = minimum year-end balance still on track for the target
}

func newSimulationPlan(in domain.SimulationInput, seed int64) *simulationPlan {
	p := &simulationPlan{
		input:        in,
		seed:         seed,
		model:        NewReturnModel(in.ExpectedReturn, in.Volatility),
		horizon:      in.HorizonYears(),
		accumulation: in.AccumulationYears(),
		target:       in.Target(),
	}

	p.deflators = make([]float64, p.horizon+1)
	inflation := 1 + in.InflationRate/100
	p.deflators[0] = 1
	for y := 1; y <= p.horizon; y++ {
		p.deflators[y] = p.deflators[y-1] * inflation
	}

	p.viable = viableTrajectory(p.target, p.model.Mean(), in.MonthlyContribution, p.accumulation, p.horizon)
	return p
}

// viableTrajectory walks back from the target at the horizon, removing each
// year's contributions and mean growth, to find the balance a path needs at
// every year-end to still reach the target.
func viableTrajectory(target, factor, monthlyContribution float64, accumulation, horizon int) []float64 {
	viable := make([]float64, horizon+1)
	viable[horizon] = target
	if target <= 0 {
		return viable
	}

	yearGrowth := 1.0
	for m := 0; m < monthsPerYear; m++ {
		yearGrowth *= factor
	}

	for y := horizon; y >= 1; y-- {
		contribution := 0.0
		if y <= accumulation {
			contribution = monthlyContribution
		}
		var contributed float64
		for m := 0; m < monthsPerYear; m++ {
			contributed = growMonth(contributed, contribution, factor)
		}
		viable[y-1] = math.Max(0, (viable[y]-contributed)/yearGrowth)
	}
	return viable
}

// pathOutcome is the raw result of one path before aggregation.
type pathOutcome struct {
	index        int
	balances     []float64
	realBalances []float64
	success      bool
	failureYear  int
}

func (o pathOutcome) ending() float64     { return o.balances[len(o.balances)-1] }
func (o pathOutcome) realEnding() float64 { return o.realBalances[len(o.realBalances)-1] }

// simulatePath runs one path to completion. It is never suspended part-way.
func (s *MonteCarloSimulator) simulatePath(plan *simulationPlan, index int) (pathOutcome, error) {
	in := plan.input
	rng := newPathRand(plan.seed, index)

	balances := make([]float64, plan.horizon+1)
	realBalances := make([]float64, plan.horizon+1)
	balances[0] = in.CurrentSavings
	realBalances[0] = in.CurrentSavings

	crash := in.Crash
	var crashFloor float64
	if crash != nil {
		crashFloor = 1 - crash.DeclinePercent/100
	}
	overlay := 1.0
	shortfallYear := 0

	balance := in.CurrentSavings
	for year := 1; year <= plan.horizon; year++ {
		if crash != nil && year == crash.CrashYear {
			balance *= crashFloor
			overlay = crashFloor
		}

		contribution := 0.0
		if year <= plan.accumulation {
			contribution = in.MonthlyContribution
		}
		for m := 0; m < monthsPerYear; m++ {
			balance = growMonth(balance, contribution, plan.model.Draw(rng))
		}

		if crash != nil && crash.RecoveryYears > 0 && year > crash.CrashYear && year <= crash.CrashYear+crash.RecoveryYears {
			recovered := crashFloor + (1-crashFloor)*float64(year-crash.CrashYear)/float64(crash.RecoveryYears)
			balance *= recovered / overlay
			overlay = recovered
		}

		if math.IsNaN(balance) || math.IsInf(balance, 0) {
			return pathOutcome{}, &domain.NumericAnomalyError{Path: index, Year: year, Value: balance}
		}

		balances[year] = balance
		realBalances[year] = balance / plan.deflators[year]
		if shortfallYear == 0 && balance < plan.viable[year] {
			shortfallYear = year
		}
	}

	outcome := pathOutcome{
		index:        index,
		balances:     balances,
		realBalances: realBalances,
		success:      balance >= plan.target,
	}
	if !outcome.success {
		outcome.failureYear = shortfallYear
	}
	return outcome, nil
}

// runBatch generates paths [first, first+count) on a bounded worker pool.
// Outcomes are returned in index order; the first anomaly by index wins.
func (s *MonteCarloSimulator) runBatch(plan *simulationPlan, first, count, workers int) ([]pathOutcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]pathOutcome, count)
	errs := make([]error, count)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcomes[slot], errs[slot] = s.simulatePath(plan, first+slot)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}
