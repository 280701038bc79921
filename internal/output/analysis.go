package output

import (
	"sort"

	"github.com/buckalew/retirement-sim/internal/domain"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName string
	SuccessRate  float64
	Median       float64
	// MedianVsDeterministic is median / deterministic balance - 1.
	MedianVsDeterministic float64
}

// AnalyzeScenarios picks the scenario with the highest success rate,
// breaking ties on median ending balance. Scenarios without a result are ignored.
func AnalyzeScenarios(report *Report) Recommendation {
	type ranked struct {
		name string
		out  domain.MonteCarloOutput
	}
	var ranks []ranked
	for _, sc := range report.Scenarios {
		if sc.Result == nil {
			continue
		}
		ranks = append(ranks, ranked{sc.Name, sc.Result.Output})
	}
	if len(ranks) == 0 {
		return Recommendation{}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].out.SuccessRate != ranks[j].out.SuccessRate {
			return ranks[i].out.SuccessRate > ranks[j].out.SuccessRate
		}
		return ranks[i].out.Median > ranks[j].out.Median
	})
	best := ranks[0]
	rec := Recommendation{ScenarioName: best.name, SuccessRate: best.out.SuccessRate, Median: best.out.Median}
	if best.out.DeterministicBalance != 0 {
		rec.MedianVsDeterministic = best.out.Median/best.out.DeterministicBalance - 1
	}
	return rec
}
