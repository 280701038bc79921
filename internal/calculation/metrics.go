package calculation

import (
	"sync"
	"time"
)

// MetricsSink receives execution metrics from the runner. Implementations are
// passed in explicitly so concurrent runs and tests never share a collector
// unless the caller wants them to.
type MetricsSink interface {
	RecordBatch(BatchMetrics)
	RecordRun(RunMetrics)
}

// BatchMetrics describes one completed batch.
type BatchMetrics struct {
	RunID    string
	Batch    int
	Paths    int
	Duration time.Duration
}

// RunMetrics describes one finished run.
type RunMetrics struct {
	RunID         string
	Status        RunStatus
	CompletedRuns int
	Batches       int
	Duration      time.Duration
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordBatch(BatchMetrics) {}
func (NopMetrics) RecordRun(RunMetrics)     {}

// PerformanceSummary is a point-in-time view of a PerformanceMonitor.
type PerformanceSummary struct {
	Runs           int           `json:"runs"`
	Completed      int           `json:"completed"`
	Cancelled      int           `json:"cancelled"`
	Failed         int           `json:"failed"`
	Batches        int           `json:"batches"`
	Paths          int           `json:"paths"`
	BatchTime      time.Duration `json:"batch_time_ns"`
	AverageBatch   time.Duration `json:"average_batch_ns"`
	PathsPerSecond float64       `json:"paths_per_second"`
	LastRun        *RunMetrics   `json:"last_run,omitempty"`
}

// PerformanceMonitor is an in-memory MetricsSink safe for concurrent use.
type PerformanceMonitor struct {
	mu      sync.Mutex
	summary PerformanceSummary
}

// NewPerformanceMonitor creates an empty monitor.
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{}
}

func (pm *PerformanceMonitor) RecordBatch(b BatchMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.summary.Batches++
	pm.summary.Paths += b.Paths
	pm.summary.BatchTime += b.Duration
}

func (pm *PerformanceMonitor) RecordRun(r RunMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.summary.Runs++
	switch r.Status {
	case StatusCompleted:
		pm.summary.Completed++
	case StatusCancelled:
		pm.summary.Cancelled++
	case StatusFailed:
		pm.summary.Failed++
	}
	last := r
	pm.summary.LastRun = &last
}

// Summary returns a copy of the collected metrics.
func (pm *PerformanceMonitor) Summary() PerformanceSummary {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	s := pm.summary
	if s.Batches > 0 {
		s.AverageBatch = s.BatchTime / time.Duration(s.Batches)
	}
	if s.BatchTime > 0 {
		s.PathsPerSecond = float64(s.Paths) / s.BatchTime.Seconds()
	}
	if s.LastRun != nil {
		last := *s.LastRun
		s.LastRun = &last
	}
	return s
}
