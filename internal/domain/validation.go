package domain

import "math"

// Validate checks the profile before any path is generated.
func (in SimulationInput) Validate() error {
	finite := []struct {
		field string
		value float64
	}{
		{"current_savings", in.CurrentSavings},
		{"monthly_contribution", in.MonthlyContribution},
		{"expected_return", in.ExpectedReturn},
		{"volatility", in.Volatility},
		{"inflation_rate", in.InflationRate},
		{"target_balance", in.TargetBalance},
		{"desired_monthly_income", in.DesiredMonthlyIncome},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return NewValidationError(f.field, "must be a finite number")
		}
	}

	if in.CurrentAge < 0 {
		return NewValidationError("current_age", "cannot be negative")
	}
	if in.RetirementAge <= in.CurrentAge {
		return NewValidationError("retirement_age", "(%d) must be greater than current age (%d)", in.RetirementAge, in.CurrentAge)
	}
	if in.TerminalAge != 0 && in.TerminalAge < in.RetirementAge {
		return NewValidationError("terminal_age", "(%d) cannot be before retirement age (%d)", in.TerminalAge, in.RetirementAge)
	}
	if in.CurrentSavings < 0 {
		return NewValidationError("current_savings", "cannot be negative")
	}
	if in.MonthlyContribution < 0 {
		return NewValidationError("monthly_contribution", "cannot be negative")
	}
	if in.ExpectedReturn <= -100 {
		return NewValidationError("expected_return", "must be greater than -100%%")
	}
	if in.Volatility < 0 {
		return NewValidationError("volatility", "cannot be negative")
	}
	if in.InflationRate <= -100 {
		return NewValidationError("inflation_rate", "must be greater than -100%%")
	}
	if in.TargetBalance < 0 {
		return NewValidationError("target_balance", "cannot be negative")
	}
	if in.DesiredMonthlyIncome < 0 {
		return NewValidationError("desired_monthly_income", "cannot be negative")
	}

	if c := in.Crash; c != nil {
		if c.CrashYear < 1 || c.CrashYear > in.HorizonYears() {
			return NewValidationError("crash.crash_year", "must be between 1 and %d", in.HorizonYears())
		}
		if math.IsNaN(c.DeclinePercent) || c.DeclinePercent < 0 || c.DeclinePercent >= 100 {
			return NewValidationError("crash.decline_percent", "must be in [0, 100)")
		}
		if c.RecoveryYears < 0 {
			return NewValidationError("crash.recovery_years", "cannot be negative")
		}
	}
	return nil
}

// Validate checks the run configuration.
func (rc RunConfig) Validate() error {
	if rc.SimulationRuns <= 0 {
		return NewValidationError("simulation_runs", "must be positive")
	}
	if rc.BatchSize < 0 {
		return NewValidationError("batch_size", "cannot be negative")
	}
	if rc.Workers < 0 {
		return NewValidationError("workers", "cannot be negative")
	}
	if rc.UpdateInterval < 0 {
		return NewValidationError("update_interval", "cannot be negative")
	}
	return nil
}
