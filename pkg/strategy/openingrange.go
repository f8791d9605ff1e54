package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// OpeningRangeStrategy trades the breakout of the session opening range
// with a momentum candle, stop on the far side of the range.
type OpeningRangeStrategy struct{}

func (s *OpeningRangeStrategy) Name() string { return "openingrange" }

func (s *OpeningRangeStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.OpeningRangeSet {
		return nil
	}

	c := ctx.Candle

	if c.Close > sess.OpeningRangeHigh && c.IsBullish() && c.BodyRatio() >= 0.5 {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  sess.OpeningRangeLow - 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("ORB above %.5f", sess.OpeningRangeHigh),
		}
	}

	if c.Close < sess.OpeningRangeLow && c.IsBearish() && c.BodyRatio() >= 0.5 {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  sess.OpeningRangeHigh + 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("ORB below %.5f", sess.OpeningRangeLow),
		}
	}

	return nil
}
