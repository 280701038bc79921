package calculation

import (
	"math"
	"math/rand"
)

// ReturnModel draws monthly gross growth factors. The factor is lognormal
// with mean 1 + μ/12 and standard deviation σ/√12, so twelve draws compound
// to the annual expected return on average and dispersion scales with σ.
// A lognormal factor is always positive, which keeps balances non-negative.
type ReturnModel struct {
	mean  float64
	mu    float64
	sigma float64
}

// NewReturnModel builds the model from annual percentages.
func NewReturnModel(expectedReturnPercent, volatilityPercent float64) ReturnModel {
	mean := monthlyFactor(expectedReturnPercent)
	sd := volatilityPercent / 100 / math.Sqrt(monthsPerYear)
	if sd == 0 {
		return ReturnModel{mean: mean}
	}
	s2 := math.Log(1 + (sd*sd)/(mean*mean))
	return ReturnModel{
		mean:  mean,
		mu:    math.Log(mean) - s2/2,
		sigma: math.Sqrt(s2),
	}
}

// Mean returns the expected monthly growth factor.
func (m ReturnModel) Mean() float64 { return m.mean }

// Deterministic reports whether every draw equals the mean.
func (m ReturnModel) Deterministic() bool { return m.sigma == 0 }

// Draw samples one monthly growth factor.
func (m ReturnModel) Draw(rng *rand.Rand) float64 {
	if m.sigma == 0 {
		return m.mean
	}
	return math.Exp(m.mu + m.sigma*rng.NormFloat64())
}

// pathSeed derives an independent seed for a path with splitmix64 so that a
// path's draws depend only on the run seed and its index.
func pathSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

func newPathRand(seed int64, index int) *rand.Rand {
	return rand.New(rand.NewSource(pathSeed(seed, index)))
}
