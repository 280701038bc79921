package output

import (
	"fmt"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// DefaultAssumptions lists the modeling assumptions shared by every scenario.
var DefaultAssumptions = []string{
	"Monthly returns are lognormal with mean expected_return/12 and standard deviation volatility/sqrt(12)",
	"Contributions are added at the start of each month, before that month's growth",
	"Income targets convert to a balance with a 4% safe withdrawal rate",
	"Real balances are deflated by (1 + inflation)^years",
}

// GenerateAssumptions lists the scenario-specific assumptions for a report.
func GenerateAssumptions(in domain.SimulationInput, cfg domain.RunConfig) []string {
	lines := []string{
		fmt.Sprintf("Expected return: %.2f%% annually, volatility %.2f%%", in.ExpectedReturn, in.Volatility),
		fmt.Sprintf("Inflation: %.2f%% annually", in.InflationRate),
		fmt.Sprintf("Contributions of %s/month from age %d to %d", FormatCurrency(in.MonthlyContribution), in.CurrentAge, in.RetirementAge),
	}
	if in.HorizonAge() > in.RetirementAge {
		lines = append(lines, fmt.Sprintf("Balances measured at age %d with no contributions after retirement", in.HorizonAge()))
	}
	if c := in.Crash; c != nil {
		recovery := "permanent"
		if c.RecoveryYears > 0 {
			recovery = fmt.Sprintf("recovering over %d years", c.RecoveryYears)
		}
		lines = append(lines, fmt.Sprintf("Market crash of %.0f%% in year %d (age %d), %s", c.DeclinePercent, c.CrashYear, in.CurrentAge+c.CrashYear, recovery))
	}
	if target := in.Target(); target > 0 {
		lines = append(lines, fmt.Sprintf("Success target: %s at age %d", FormatCurrency(target), in.HorizonAge()))
	}
	lines = append(lines, fmt.Sprintf("%d simulated paths", cfg.SimulationRuns))
	return append(lines, DefaultAssumptions...)
}
