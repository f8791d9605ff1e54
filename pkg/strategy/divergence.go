package strategy

import (
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// divergenceWindow is the lookback over which a fresh extreme is judged.
const divergenceWindow = 20

// VolumeDivergenceStrategy fades a fresh price extreme printed on
// below-average volume: the push has no participation behind it.
type VolumeDivergenceStrategy struct{}

func (s *VolumeDivergenceStrategy) Name() string { return "volumedivergence" }

func (s *VolumeDivergenceStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.VolumeSMA.Ready() || ctx.Candles.Len() < divergenceWindow+1 {
		return nil
	}

	avgVol := sess.VolumeSMA.Last()
	c := ctx.Candle
	if avgVol <= 0 || c.Volume >= 0.8*avgVol {
		return nil
	}

	prior := ctx.Candles[:ctx.Candles.Len()-1]

	if c.High > prior.HighestHigh(divergenceWindow) && c.UpperWick() >= 0.3*c.Range() {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  c.High + 0.1*ctx.ATR,
			Tag:       "divergent high",
		}
	}

	if c.Low < prior.LowestLow(divergenceWindow) && c.LowerWick() >= 0.3*c.Range() {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  c.Low - 0.1*ctx.ATR,
			Tag:       "divergent low",
		}
	}

	return nil
}
