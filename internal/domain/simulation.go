package domain

import (
	"time"
)

// SafeWithdrawalRate is the fixed fraction of a balance assumed sustainable per year.
const SafeWithdrawalRate = 0.04

// MarketCrashScenario describes a deterministic shock overlaid on the stochastic returns.
type MarketCrashScenario struct {
	CrashYear      int     `json:"crash_year" yaml:"crash_year"`           // 1-based projection year
	DeclinePercent float64 `json:"decline_percent" yaml:"decline_percent"` // immediate loss, percent of balance
	RecoveryYears  int     `json:"recovery_years" yaml:"recovery_years"`   // 0 means the loss is permanent
}

// SimulationInput is the retirement profile a simulation projects. Rates are in percent.
type SimulationInput struct {
	CurrentAge          int     `json:"current_age" yaml:"current_age"`
	RetirementAge       int     `json:"retirement_age" yaml:"retirement_age"`
	TerminalAge         int     `json:"terminal_age,omitempty" yaml:"terminal_age,omitempty"`
	CurrentSavings      float64 `json:"current_savings" yaml:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution" yaml:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return" yaml:"expected_return"`
	Volatility          float64 `json:"volatility" yaml:"volatility"`
	InflationRate       float64 `json:"inflation_rate" yaml:"inflation_rate"`

	// Success target. TargetBalance wins when positive; otherwise the desired
	// income is converted to a balance with the safe withdrawal rate.
	TargetBalance        float64 `json:"target_balance,omitempty" yaml:"target_balance,omitempty"`
	DesiredMonthlyIncome float64 `json:"desired_monthly_income,omitempty" yaml:"desired_monthly_income,omitempty"`

	Crash *MarketCrashScenario `json:"crash,omitempty" yaml:"crash,omitempty"`
}

// AccumulationYears is the number of contribution years.
func (in SimulationInput) AccumulationYears() int {
	return in.RetirementAge - in.CurrentAge
}

// HorizonAge is the age at which ending balances are measured.
func (in SimulationInput) HorizonAge() int {
	if in.TerminalAge > in.RetirementAge {
		return in.TerminalAge
	}
	return in.RetirementAge
}

// HorizonYears is the number of projected years.
func (in SimulationInput) HorizonYears() int {
	return in.HorizonAge() - in.CurrentAge
}

// Target returns the ending balance a path must reach to count as a success.
func (in SimulationInput) Target() float64 {
	if in.TargetBalance > 0 {
		return in.TargetBalance
	}
	if in.DesiredMonthlyIncome > 0 {
		return in.DesiredMonthlyIncome * 12 / SafeWithdrawalRate
	}
	return 0
}

// RunConfig controls how many paths are generated and how they are batched.
type RunConfig struct {
	SimulationRuns int           `json:"simulation_runs" yaml:"simulation_runs"`
	BatchSize      int           `json:"batch_size" yaml:"batch_size"`
	UpdateInterval time.Duration `json:"update_interval" yaml:"update_interval"`
	Seed           int64         `json:"seed,omitempty" yaml:"seed,omitempty"`
	Workers        int           `json:"workers,omitempty" yaml:"workers,omitempty"`
	RetainPaths    bool          `json:"retain_paths,omitempty" yaml:"retain_paths,omitempty"`
	ReportMemory   bool          `json:"report_memory,omitempty" yaml:"report_memory,omitempty"`
}

// EffectiveBatchSize returns the batch size, treating zero as a single batch.
func (rc RunConfig) EffectiveBatchSize() int {
	if rc.BatchSize <= 0 || rc.BatchSize > rc.SimulationRuns {
		return rc.SimulationRuns
	}
	return rc.BatchSize
}

// Batches returns ceil(SimulationRuns / BatchSize).
func (rc RunConfig) Batches() int {
	size := rc.EffectiveBatchSize()
	if size <= 0 {
		return 0
	}
	return (rc.SimulationRuns + size - 1) / size
}

// SimulationPath holds the year-end balances of one simulated trajectory.
// Index 0 of each series is the starting balance at CurrentAge.
type SimulationPath struct {
	StartAge     int       `json:"start_age"`
	Balances     []float64 `json:"balances"`
	RealBalances []float64 `json:"real_balances"`
}

// PathResult is the retained summary of a single path.
type PathResult struct {
	Index             int             `json:"index"`
	EndingBalance     float64         `json:"ending_balance"`
	RealEndingBalance float64         `json:"real_ending_balance"`
	Success           bool            `json:"success"`
	FailureYear       int             `json:"failure_year,omitempty"` // 0 when the path never falls short
	Path              *SimulationPath `json:"path,omitempty"`
}

// FailureYear records when a failing path first fell below the viable trajectory.
type FailureYear struct {
	Path int `json:"path"`
	Year int `json:"year"`
	Age  int `json:"age"`
}

// YearBand is the cross-path balance distribution at one year-end.
type YearBand struct {
	Year         int     `json:"year"`
	Age          int     `json:"age"`
	Percentile5  float64 `json:"p5"`
	Median       float64 `json:"median"`
	Percentile95 float64 `json:"p95"`
}

// MonteCarloOutput is the aggregate result of a simulation run.
type MonteCarloOutput struct {
	SuccessRate      float64 `json:"success_rate"`
	Median           float64 `json:"median"`
	Percentile5      float64 `json:"percentile_5"`
	Percentile95     float64 `json:"percentile_95"`
	Mean             float64 `json:"mean"`
	RealMedian       float64 `json:"real_median"`
	RealPercentile5  float64 `json:"real_percentile_5"`
	RealPercentile95 float64 `json:"real_percentile_95"`

	TargetBalance        float64 `json:"target_balance"`
	DeterministicBalance float64 `json:"deterministic_balance"`

	RequestedRuns int  `json:"requested_runs"`
	CompletedRuns int  `json:"completed_runs"`
	Partial       bool `json:"partial"`

	Simulations  []PathResult  `json:"simulations"`
	FailureYears []FailureYear `json:"failure_years"`
	YearlyBands  []YearBand    `json:"yearly_bands"`
}
