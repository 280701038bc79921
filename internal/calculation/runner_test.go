package calculation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buckalew/retirement-sim/internal/domain"
)

func TestRunnerCancellationPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := NewPerformanceMonitor()
	runner := NewRunner(NewMonteCarloSimulator(nil, monitor))
	cfg := domain.RunConfig{SimulationRuns: 1000, BatchSize: 100, Seed: 21}

	res, err := runner.Run(ctx, baseInput(), cfg, func(p ProgressSnapshot) {
		if p.BatchesCompleted == 3 {
			cancel()
		}
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, 3, res.BatchesCompleted)
	assert.Equal(t, 10, res.TotalBatches)
	assert.True(t, res.Output.Partial)
	assert.Equal(t, 300, res.Output.CompletedRuns)
	assert.Equal(t, 1000, res.Output.RequestedRuns)
	assert.Len(t, res.Output.Simulations, 300)
	assertOrdered(t, res.Output)

	// The partial aggregate is exactly the aggregate of the first 300 paths.
	full := runSync(t, baseInput(), domain.RunConfig{SimulationRuns: 300, Seed: 21})
	assert.Equal(t, full.Output.Median, res.Output.Median)
	assert.Equal(t, full.Output.Percentile95, res.Output.Percentile95)

	summary := monitor.Summary()
	assert.Equal(t, 3, summary.Batches)
	assert.Equal(t, 300, summary.Paths)
	assert.Equal(t, 1, summary.Cancelled)
}

func TestRunnerHandleCancel(t *testing.T) {
	runner := NewRunner(nil)
	reached := make(chan struct{})
	gate := make(chan struct{})

	h, err := runner.Start(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 500, BatchSize: 50, Seed: 2},
		func(p ProgressSnapshot) {
			if p.BatchesCompleted == 2 {
				close(reached)
				<-gate
			}
		})
	require.NoError(t, err)
	require.NotEmpty(t, h.ID)

	<-reached
	assert.Equal(t, StatusRunning, h.Status())
	require.NoError(t, runner.Cancel(h.ID))
	close(gate)

	res, err := h.Wait()
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, h.Status())
	assert.Equal(t, 2, res.BatchesCompleted)
	assert.Equal(t, 100, res.Output.CompletedRuns)
	assert.True(t, res.Output.Partial)

	select {
	case <-h.Done():
	default:
		t.Fatal("Done should be closed after Wait returns")
	}
}

func TestRunnerProgressOrdering(t *testing.T) {
	var snapshots []ProgressSnapshot
	cfg := domain.RunConfig{SimulationRuns: 95, BatchSize: 10, Seed: 6, ReportMemory: true}

	res, err := NewRunner(nil).Run(context.Background(), baseInput(), cfg, func(p ProgressSnapshot) {
		snapshots = append(snapshots, p)
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.False(t, res.Output.Partial)

	require.Len(t, snapshots, 10)
	for i, s := range snapshots {
		assert.Equal(t, i+1, s.BatchesCompleted)
		assert.Equal(t, 10, s.TotalBatches)
		assert.Equal(t, s.CompletedRuns, s.Aggregate.CompletedRuns)
		require.NotNil(t, s.MemoryUsageMB)
		assert.Greater(t, *s.MemoryUsageMB, 0.0)
		if i > 0 {
			assert.Greater(t, s.CompletedRuns, snapshots[i-1].CompletedRuns)
			assert.GreaterOrEqual(t, s.ExecutionTime, snapshots[i-1].ExecutionTime)
		}
	}
	assert.Equal(t, 95, snapshots[9].CompletedRuns)
}

func TestRunnerProgressInterval(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks int
	runner := NewRunner(nil)
	runner.Clock = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Second)
	}

	var emitted int
	cfg := domain.RunConfig{SimulationRuns: 100, BatchSize: 10, Seed: 1, UpdateInterval: time.Hour}
	_, err := runner.Run(context.Background(), baseInput(), cfg, func(ProgressSnapshot) { emitted++ })
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
}

func TestRunnerSeedSource(t *testing.T) {
	runner := NewRunner(nil)
	runner.Seeds = func() int64 { return 1234 }

	res, err := runner.Run(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 50}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), res.Seed)

	explicit := runSync(t, baseInput(), domain.RunConfig{SimulationRuns: 50, Seed: 1234})
	assert.Equal(t, explicit.Output.Median, res.Output.Median)
}

func TestRunnerRegistry(t *testing.T) {
	runner := NewRunner(nil)
	h, err := runner.Start(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 20, Seed: 1}, nil)
	require.NoError(t, err)

	got, ok := runner.Get(h.ID)
	require.True(t, ok)
	assert.Same(t, h, got)

	_, err = h.Wait()
	require.NoError(t, err)
	assert.NotContains(t, runner.Active(), h.ID)

	runner.Forget(h.ID)
	_, ok = runner.Get(h.ID)
	assert.False(t, ok)

	err = runner.Cancel("missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunnerAlreadyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(nil).Run(ctx, baseInput(), domain.RunConfig{SimulationRuns: 100, BatchSize: 10, Seed: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, 0, res.Output.CompletedRuns)
	assert.Equal(t, 0.0, res.Output.Median)
	assert.True(t, res.Output.Partial)
}

func TestRunnerConcurrentRunsIsolated(t *testing.T) {
	runner := NewRunner(nil)
	cfg := domain.RunConfig{SimulationRuns: 200, BatchSize: 20, Seed: 10}

	low := baseInput()
	high := baseInput()
	high.MonthlyContribution = 2000

	h1, err := runner.Start(context.Background(), low, cfg, nil)
	require.NoError(t, err)
	h2, err := runner.Start(context.Background(), high, cfg, nil)
	require.NoError(t, err)

	r1, err := h1.Wait()
	require.NoError(t, err)
	r2, err := h2.Wait()
	require.NoError(t, err)

	assert.Equal(t, runSync(t, low, cfg).Output.Median, r1.Output.Median)
	assert.Equal(t, runSync(t, high, cfg).Output.Median, r2.Output.Median)
}

func TestPerformanceMonitorSummary(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.RecordBatch(BatchMetrics{RunID: "a", Batch: 1, Paths: 100, Duration: time.Second})
	pm.RecordBatch(BatchMetrics{RunID: "a", Batch: 2, Paths: 100, Duration: time.Second})
	pm.RecordRun(RunMetrics{RunID: "a", Status: StatusCompleted, CompletedRuns: 200, Batches: 2})
	pm.RecordRun(RunMetrics{RunID: "b", Status: StatusFailed})

	s := pm.Summary()
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 200, s.Paths)
	assert.Equal(t, time.Second, s.AverageBatch)
	assert.InDelta(t, 100, s.PathsPerSecond, 1e-9)
	require.NotNil(t, s.LastRun)
	assert.Equal(t, "b", s.LastRun.RunID)
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRunnerForgetsFinishedRunsAfterRetention(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	runner := NewRunner(nil)
	runner.Clock = clock.Now
	runner.Retention = 5 * time.Minute

	h, err := runner.Start(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 40, BatchSize: 10, Seed: 4}, nil)
	require.NoError(t, err)
	_, err = h.Wait()
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, ok := runner.Get(h.ID)
	assert.True(t, ok, "finished run is kept within the retention window")

	clock.Advance(time.Minute)
	_, ok = runner.Get(h.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, runner.Registered())
	assert.ErrorIs(t, runner.Cancel(h.ID), ErrRunNotFound)
}

func TestRunnerKeepsRunningHandlesPastRetention(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	runner := NewRunner(nil)
	runner.Clock = clock.Now
	runner.Retention = time.Minute

	reached := make(chan struct{})
	gate := make(chan struct{})
	h, err := runner.Start(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 100, BatchSize: 10, Seed: 4},
		func(p ProgressSnapshot) {
			if p.BatchesCompleted == 1 {
				close(reached)
				<-gate
			}
		})
	require.NoError(t, err)
	<-reached

	clock.Advance(time.Hour)
	_, ok := runner.Get(h.ID)
	assert.True(t, ok)
	assert.Equal(t, []string{h.ID}, runner.Active())

	close(gate)
	_, err = h.Wait()
	require.NoError(t, err)
	clock.Advance(time.Minute)
	assert.Equal(t, 0, runner.Registered())
}

func TestRunnerZeroRetentionKeepsUntilForget(t *testing.T) {
	runner := NewRunner(nil)
	runner.Retention = 0

	h, err := runner.Start(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 10, Seed: 4}, nil)
	require.NoError(t, err)
	_, err = h.Wait()
	require.NoError(t, err)

	assert.Equal(t, 1, runner.Registered())
	runner.Forget(h.ID)
	assert.Equal(t, 0, runner.Registered())
}

func TestProgressSnapshotOmitsPathResults(t *testing.T) {
	var snapshots []ProgressSnapshot
	res, err := NewRunner(nil).Run(context.Background(), baseInput(), domain.RunConfig{SimulationRuns: 30, BatchSize: 10, Seed: 8},
		func(p ProgressSnapshot) { snapshots = append(snapshots, p) })
	require.NoError(t, err)

	require.Len(t, snapshots, 3)
	for _, s := range snapshots {
		assert.Nil(t, s.Aggregate.Simulations)
		assert.Equal(t, s.CompletedRuns, s.Aggregate.CompletedRuns)
	}
	assert.Len(t, res.Output.Simulations, 30)
}
