package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// EqualLevelSweepStrategy fades the sweep of an equal-high or equal-low
// cluster: resting liquidity gets taken, the candle closes back inside.
type EqualLevelSweepStrategy struct{}

func (s *EqualLevelSweepStrategy) Name() string { return "equallevelsweep" }

func (s *EqualLevelSweepStrategy) Generate(ctx *Context) *Candidate {
	c := ctx.Candle
	tolerance := 0.1 * ctx.ATR

	if level, ok := ctx.Detector.EqualLevel(structure.SwingHigh, tolerance); ok {
		if c.High > level && c.Close < level && c.UpperWick() >= 0.5*c.Range() {
			return &Candidate{
				Direction: types.DirectionDown,
				Entry:     c.Close,
				StopLoss:  c.High + 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("equal highs %.5f", level),
			}
		}
	}

	if level, ok := ctx.Detector.EqualLevel(structure.SwingLow, tolerance); ok {
		if c.Low < level && c.Close > level && c.LowerWick() >= 0.5*c.Range() {
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  c.Low - 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("equal lows %.5f", level),
			}
		}
	}

	return nil
}
