package backtest

import "math/rand"

// SlippageModel supplies the unfavorable price offset applied to
// stop-order fills. Take-profit fills are limit-type and never slip.
// Implementations must be deterministic under a fixed seed so two runs
// with identical inputs produce byte-identical reports.
type SlippageModel interface {
	StopOffset() float64
}

type seededSlippage struct {
	rng *rand.Rand
	max float64
}

// NewSeededSlippage returns a slippage source drawing uniformly from
// [0, 2×pipSize) with its own seeded generator.
func NewSeededSlippage(seed int64, pipSize float64) SlippageModel {
	return &seededSlippage{
		rng: rand.New(rand.NewSource(seed)),
		max: 2 * pipSize,
	}
}

func (s *seededSlippage) StopOffset() float64 {
	return s.rng.Float64() * s.max
}

// NoSlippage is used by tests that need exact fill prices.
type NoSlippage struct{}

func (NoSlippage) StopOffset() float64 { return 0 }
