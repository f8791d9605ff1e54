package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// RangeFadeStrategy fades a poke beyond the prior session range that
// closes back inside it, targeting rotation back through the range.
type RangeFadeStrategy struct{}

func (s *RangeFadeStrategy) Name() string { return "rangefade" }

func (s *RangeFadeStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.PriorSessionSet {
		return nil
	}

	c := ctx.Candle

	if c.High > sess.PriorSessionHigh && c.Close < sess.PriorSessionHigh && c.UpperWick() >= 0.4*c.Range() {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  c.High + 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("range fade high %.5f", sess.PriorSessionHigh),
		}
	}

	if c.Low < sess.PriorSessionLow && c.Close > sess.PriorSessionLow && c.LowerWick() >= 0.4*c.Range() {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  c.Low - 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("range fade low %.5f", sess.PriorSessionLow),
		}
	}

	return nil
}
