package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// FailedBreakStrategy trades against a structure break that did not
// hold: price closes back through the broken level, trapping the
// breakout side.
type FailedBreakStrategy struct{}

func (s *FailedBreakStrategy) Name() string { return "failedbreak" }

func (s *FailedBreakStrategy) Generate(ctx *Context) *Candidate {
	c := ctx.Candle
	det := ctx.Detector

	if brk := det.Break(types.DirectionUp); brk != nil && brk.Confirmed {
		if c.Close < brk.Level && c.IsBearish() && c.UpperWick() >= 0.5*c.Body() {
			level := brk.Level
			return &Candidate{
				Direction: types.DirectionDown,
				Entry:     c.Close,
				StopLoss:  c.High + 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("failed break %.5f", level),
				Consume:   func() { det.ConsumeBreak(types.DirectionUp) },
			}
		}
	}

	if brk := det.Break(types.DirectionDown); brk != nil && brk.Confirmed {
		if c.Close > brk.Level && c.IsBullish() && c.LowerWick() >= 0.5*c.Body() {
			level := brk.Level
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  c.Low - 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("failed break %.5f", level),
				Consume:   func() { det.ConsumeBreak(types.DirectionDown) },
			}
		}
	}

	return nil
}
