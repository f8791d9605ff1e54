package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// LiquiditySweepStrategy trades the reversal after a wick pierces an
// unswept swing point and closes back inside, confirmed by a momentum
// candle in the reclaim direction.
type LiquiditySweepStrategy struct{}

func (s *LiquiditySweepStrategy) Name() string { return "liquiditysweep" }

func (s *LiquiditySweepStrategy) Generate(ctx *Context) *Candidate {
	if ctx.Candles.Len() < 2 {
		return nil
	}

	prev := ctx.Candles.Last(1)
	c := ctx.Candle
	det := ctx.Detector

	if ctx.Bias != types.DirectionDown {
		if sp := det.LastUnsweptSwing(structure.SwingLow); sp != nil {
			if prev.Low < sp.Price && prev.Close > sp.Price &&
				c.IsBullish() && c.BodyRatio() >= 0.5 {
				printed := sp.Time
				return &Candidate{
					Direction: types.DirectionUp,
					Entry:     c.Close,
					StopLoss:  prev.Low - 0.1*ctx.ATR,
					Tag:       fmt.Sprintf("sweep low %.5f", sp.Price),
					Consume:   func() { det.MarkSwingSwept(printed, structure.SwingLow) },
				}
			}
		}
	}

	if ctx.Bias != types.DirectionUp {
		if sp := det.LastUnsweptSwing(structure.SwingHigh); sp != nil {
			if prev.High > sp.Price && prev.Close < sp.Price &&
				c.IsBearish() && c.BodyRatio() >= 0.5 {
				printed := sp.Time
				return &Candidate{
					Direction: types.DirectionDown,
					Entry:     c.Close,
					StopLoss:  prev.High + 0.1*ctx.ATR,
					Tag:       fmt.Sprintf("sweep high %.5f", sp.Price),
					Consume:   func() { det.MarkSwingSwept(printed, structure.SwingHigh) },
				}
			}
		}
	}

	return nil
}
