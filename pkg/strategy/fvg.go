package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// FVGStrategy enters when price retraces into an unfilled gap matching
// the bias and the candle rejects it with a wick at least half its body.
type FVGStrategy struct{}

func (s *FVGStrategy) Name() string { return "fvg" }

func (s *FVGStrategy) Generate(ctx *Context) *Candidate {
	c := ctx.Candle
	det := ctx.Detector

	for i := range det.Gaps {
		g := &det.Gaps[i]
		if g.Filled || g.Direction != ctx.Bias {
			continue
		}

		buffer := g.Size * 0.2

		if g.Direction == types.DirectionUp {
			// retracing down into the gap, rejected by the lower wick
			if c.Low > g.Top || c.Close < g.Bottom {
				continue
			}
			if c.LowerWick() < 0.5*c.Body() {
				continue
			}
			created := g.Time
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  g.Bottom - buffer,
				Tag:       fmt.Sprintf("FVG size=%.5f", g.Size),
				Consume:   func() { det.MarkGapFilled(created, types.DirectionUp) },
			}
		}

		// bearish gap: retracing up into it
		if c.High < g.Bottom || c.Close > g.Top {
			continue
		}
		if c.UpperWick() < 0.5*c.Body() {
			continue
		}
		created := g.Time
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  g.Top + buffer,
			Tag:       fmt.Sprintf("FVG size=%.5f", g.Size),
			Consume:   func() { det.MarkGapFilled(created, types.DirectionDown) },
		}
	}

	return nil
}
