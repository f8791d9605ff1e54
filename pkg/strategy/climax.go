package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// ClimaxReversalStrategy fades a volume climax: volume at least three
// times its 20-period average with a rejection wick covering 60% of the
// candle range.
type ClimaxReversalStrategy struct{}

func (s *ClimaxReversalStrategy) Name() string { return "climaxreversal" }

func (s *ClimaxReversalStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.VolumeSMA.Ready() {
		return nil
	}

	avgVol := sess.VolumeSMA.Last()
	c := ctx.Candle
	if avgVol <= 0 || c.Volume < 3*avgVol || c.Range() == 0 {
		return nil
	}

	// selling climax: the long lower wick shows the dump was absorbed
	if c.LowerWick() >= 0.6*c.Range() {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  c.Low - 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("climax vol=%.0fx", c.Volume/avgVol),
		}
	}

	if c.UpperWick() >= 0.6*c.Range() {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  c.High + 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("climax vol=%.0fx", c.Volume/avgVol),
		}
	}

	return nil
}
