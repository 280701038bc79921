package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// RunStatus is the lifecycle state of a simulation run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusCancelled RunStatus = "cancelled"
	StatusFailed    RunStatus = "failed"
)

// ErrRunNotFound is returned when a run ID is not registered with the runner.
var ErrRunNotFound = errors.New("simulation run not found")

// DefaultRetention is how long a finished run stays registered.
const DefaultRetention = 10 * time.Minute

// ProgressSnapshot is an informational view of a run between batches.
// The aggregate is computed over every path completed so far; per-path
// results are left out and only appear in the final RunResult.
type ProgressSnapshot struct {
	RunID            string                  `json:"run_id"`
	ExecutionTime    time.Duration           `json:"execution_time_ns"`
	MemoryUsageMB    *float64                `json:"memory_usage_mb,omitempty"`
	BatchesCompleted int                     `json:"batches_completed"`
	TotalBatches     int                     `json:"total_batches"`
	CompletedRuns    int                     `json:"completed_runs"`
	Aggregate        domain.MonteCarloOutput `json:"aggregate"`
}

// ProgressFunc receives progress snapshots on the run's goroutine.
type ProgressFunc func(ProgressSnapshot)

// RunResult is the authoritative outcome of a run.
type RunResult struct {
	ID               string                  `json:"id"`
	Status           RunStatus               `json:"status"`
	Seed             int64                   `json:"seed"`
	Output           domain.MonteCarloOutput `json:"output"`
	BatchesCompleted int                     `json:"batches_completed"`
	TotalBatches     int                     `json:"total_batches"`
	ExecutionTime    time.Duration           `json:"execution_time_ns"`
}

// Handle tracks one asynchronous run.
type Handle struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}

	mu         sync.RWMutex
	status     RunStatus
	progress   *ProgressSnapshot
	result     *RunResult
	err        error
	finishedAt time.Time
}

// Cancel requests cooperative cancellation. The batch in flight finishes and
// no further batches start. Calling Cancel after completion has no effect.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed when the run has finished for any reason.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the run finishes. A cancelled run is not an error: its
// result carries StatusCancelled and a partial output.
func (h *Handle) Wait() (*RunResult, error) {
	<-h.done
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result, h.err
}

// Status returns the current lifecycle state.
func (h *Handle) Status() RunStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Progress returns the most recent snapshot, or nil before the first batch completes.
func (h *Handle) Progress() *ProgressSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.progress == nil {
		return nil
	}
	p := *h.progress
	return &p
}

// Result returns the final result and error without blocking. Both are nil while running.
func (h *Handle) Result() (*RunResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result, h.err
}

func (h *Handle) setProgress(p ProgressSnapshot) {
	h.mu.Lock()
	h.progress = &p
	h.mu.Unlock()
}

func (h *Handle) finish(result *RunResult, err error, at time.Time) {
	h.mu.Lock()
	h.result = result
	h.err = err
	h.finishedAt = at
	switch {
	case err != nil:
		h.status = StatusFailed
	case result != nil:
		h.status = result.Status
	}
	h.mu.Unlock()
	close(h.done)
}

// Runner drives the simulator batch by batch and keeps a registry of
// handles. Each run owns its own plan and aggregator; the registry is the only
// state a Runner shares between runs. Finished runs are dropped from the
// registry once Retention has passed; zero keeps them until Forget.
type Runner struct {
	Simulator *MonteCarloSimulator
	Clock     Clock
	Seeds     SeedSource
	Retention time.Duration

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewRunner creates a runner around sim. A nil simulator gets no-op collaborators.
func NewRunner(sim *MonteCarloSimulator) *Runner {
	if sim == nil {
		sim = NewMonteCarloSimulator(nil, nil)
	}
	return &Runner{
		Simulator: sim,
		Clock:     time.Now,
		Seeds:     defaultSeed,
		Retention: DefaultRetention,
		handles:   make(map[string]*Handle),
	}
}

// Start validates the request and launches the run on its own goroutine.
// Invalid input is reported here, before any path is generated.
func (r *Runner) Start(ctx context.Context, in domain.SimulationInput, cfg domain.RunConfig, onProgress ProgressFunc) (*Handle, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = r.Seeds()
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ID:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
		status: StatusRunning,
	}

	r.mu.Lock()
	r.pruneLocked()
	r.handles[h.ID] = h
	r.mu.Unlock()

	go func() {
		defer cancel()
		result, err := r.execute(runCtx, h, in, cfg, onProgress)
		h.finish(result, err, r.Clock())
	}()
	return h, nil
}

// Run executes a simulation and blocks until it finishes or ctx is cancelled.
// The handle is removed from the registry afterwards.
func (r *Runner) Run(ctx context.Context, in domain.SimulationInput, cfg domain.RunConfig, onProgress ProgressFunc) (*RunResult, error) {
	h, err := r.Start(ctx, in, cfg, onProgress)
	if err != nil {
		return nil, err
	}
	defer r.Forget(h.ID)
	return h.Wait()
}

// Get returns a registered handle.
func (r *Runner) Get(id string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	h, ok := r.handles[id]
	return h, ok
}

// Cancel requests cancellation of a registered run.
func (r *Runner) Cancel(id string) error {
	h, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	h.Cancel()
	return nil
}

// Forget drops a handle from the registry, cancelling it if still running.
func (r *Runner) Forget(id string) {
	r.mu.Lock()
	h, ok := r.handles[id]
	delete(r.handles, id)
	r.mu.Unlock()
	if ok {
		h.Cancel()
	}
}

// Active returns the IDs of registered runs that have not finished.
func (r *Runner) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	var ids []string
	for id, h := range r.handles {
		select {
		case <-h.done:
		default:
			ids = append(ids, id)
		}
	}
	return ids
}

// Registered returns the number of handles in the registry, finished or not.
func (r *Runner) Registered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	return len(r.handles)
}

// pruneLocked drops finished handles older than Retention. r.mu must be held.
func (r *Runner) pruneLocked() {
	if r.Retention <= 0 || len(r.handles) == 0 {
		return
	}
	now := r.Clock()
	for id, h := range r.handles {
		select {
		case <-h.done:
		default:
			continue
		}
		h.mu.RLock()
		expired := now.Sub(h.finishedAt) >= r.Retention
		h.mu.RUnlock()
		if expired {
			delete(r.handles, id)
		}
	}
}

func (r *Runner) execute(ctx context.Context, h *Handle, in domain.SimulationInput, cfg domain.RunConfig, onProgress ProgressFunc) (*RunResult, error) {
	sim := r.Simulator
	start := r.Clock()
	plan := newSimulationPlan(in, cfg.Seed)
	agg := newAggregator(plan, cfg.RetainPaths)

	baseline, err := deterministicBaseline(in)
	if err != nil {
		return nil, err
	}

	size := cfg.EffectiveBatchSize()
	total := cfg.Batches()
	completed := 0
	var lastEmit time.Time

	sim.Logger.Debugf("run %s: %d paths in %d batches (seed %d)", h.ID, cfg.SimulationRuns, total, cfg.Seed)

	for batch := 0; batch < total; batch++ {
		if ctx.Err() != nil {
			break
		}

		first := batch * size
		count := size
		if first+count > cfg.SimulationRuns {
			count = cfg.SimulationRuns - first
		}

		batchStart := r.Clock()
		outcomes, err := sim.runBatch(plan, first, count, cfg.Workers)
		if err != nil {
			sim.Logger.Errorf("run %s: batch %d failed: %v", h.ID, batch+1, err)
			sim.Metrics.RecordRun(RunMetrics{RunID: h.ID, Status: StatusFailed, CompletedRuns: agg.Count(), Batches: completed, Duration: r.Clock().Sub(start)})
			return nil, err
		}
		agg.Add(outcomes...)
		completed++
		sim.Metrics.RecordBatch(BatchMetrics{RunID: h.ID, Batch: completed, Paths: count, Duration: r.Clock().Sub(batchStart)})

		now := r.Clock()
		if lastEmit.IsZero() || now.Sub(lastEmit) >= cfg.UpdateInterval {
			lastEmit = now
			snap := ProgressSnapshot{
				RunID:            h.ID,
				ExecutionTime:    now.Sub(start),
				BatchesCompleted: completed,
				TotalBatches:     total,
				CompletedRuns:    agg.Count(),
				Aggregate:        r.decorate(agg.Snapshot(), baseline, cfg, false),
			}
			snap.Aggregate.Simulations = nil
			if cfg.ReportMemory {
				snap.MemoryUsageMB = memoryUsageMB()
			}
			h.setProgress(snap)
			if onProgress != nil {
				onProgress(snap)
			}
		}

		// Batch boundary: let other goroutines (and a pending Cancel) in.
		runtime.Gosched()
	}

	status := StatusCompleted
	partial := completed < total
	if partial {
		status = StatusCancelled
		sim.Logger.Infof("run %s: cancelled after %d of %d batches", h.ID, completed, total)
	}

	elapsed := r.Clock().Sub(start)
	sim.Metrics.RecordRun(RunMetrics{RunID: h.ID, Status: status, CompletedRuns: agg.Count(), Batches: completed, Duration: elapsed})

	return &RunResult{
		ID:               h.ID,
		Status:           status,
		Seed:             cfg.Seed,
		Output:           r.decorate(agg.Snapshot(), baseline, cfg, partial),
		BatchesCompleted: completed,
		TotalBatches:     total,
		ExecutionTime:    elapsed,
	}, nil
}

func (r *Runner) decorate(out domain.MonteCarloOutput, baseline float64, cfg domain.RunConfig, partial bool) domain.MonteCarloOutput {
	out.DeterministicBalance = baseline
	out.RequestedRuns = cfg.SimulationRuns
	out.Partial = partial
	return out
}

// deterministicBaseline projects the input at its mean return with no
// volatility and no crash: contributions until retirement, growth only after.
func deterministicBaseline(in domain.SimulationInput) (float64, error) {
	growth, err := CompoundInvestmentGrowth(in.CurrentSavings, in.MonthlyContribution, in.ExpectedReturn, in.AccumulationYears())
	if err != nil {
		return 0, err
	}
	if extra := in.HorizonYears() - in.AccumulationYears(); extra > 0 {
		growth, err = CompoundInvestmentGrowth(growth.FinalBalance, 0, in.ExpectedReturn, extra)
		if err != nil {
			return 0, err
		}
	}
	return growth.FinalBalance, nil
}

func memoryUsageMB() *float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	mb := float64(ms.HeapAlloc) / (1024 * 1024)
	return &mb
}

// RunSimulation runs a simulation synchronously without a registry.
func (s *MonteCarloSimulator) RunSimulation(ctx context.Context, in domain.SimulationInput, cfg domain.RunConfig) (*RunResult, error) {
	return NewRunner(s).Run(ctx, in, cfg, nil)
}
