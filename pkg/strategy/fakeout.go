package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// FakeBreakoutStrategy fades a candle that pierces a swing-derived
// support or resistance level and closes back inside, with a rejection
// wick at least as large as the candle body.
type FakeBreakoutStrategy struct{}

func (s *FakeBreakoutStrategy) Name() string { return "fakebreakout" }

func (s *FakeBreakoutStrategy) Generate(ctx *Context) *Candidate {
	c := ctx.Candle

	if sp := ctx.Detector.LastSwing(structure.SwingHigh); sp != nil {
		if c.High > sp.Price && c.Close < sp.Price && c.UpperWick() >= c.Body() {
			return &Candidate{
				Direction: types.DirectionDown,
				Entry:     c.Close,
				StopLoss:  c.High + 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("fakeout high %.5f", sp.Price),
			}
		}
	}

	if sp := ctx.Detector.LastSwing(structure.SwingLow); sp != nil {
		if c.Low < sp.Price && c.Close > sp.Price && c.LowerWick() >= c.Body() {
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  c.Low - 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("fakeout low %.5f", sp.Price),
			}
		}
	}

	return nil
}
