package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// AsianFadeStrategy fades the London sweep of the Asian range: a wick
// takes out the overnight high or low and the candle closes back inside.
type AsianFadeStrategy struct{}

func (s *AsianFadeStrategy) Name() string { return "asianfade" }

func (s *AsianFadeStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.AsianSet || !sess.InLondonSession(ctx.Candle.StartTime) {
		return nil
	}

	c := ctx.Candle

	if c.High > sess.AsianHigh && c.Close < sess.AsianHigh && c.UpperWick() >= 0.5*c.Range() {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  c.High + 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("asian fade high %.5f", sess.AsianHigh),
		}
	}

	if c.Low < sess.AsianLow && c.Close > sess.AsianLow && c.LowerWick() >= 0.5*c.Range() {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  c.Low - 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("asian fade low %.5f", sess.AsianLow),
		}
	}

	return nil
}
