package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// BollSqueezeStrategy trades the breakout out of a volatility squeeze:
// bandwidth under its trailing 20th percentile, then a momentum close
// beyond a band. Stop at the middle band.
type BollSqueezeStrategy struct{}

func (s *BollSqueezeStrategy) Name() string { return "bollsqueeze" }

func (s *BollSqueezeStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.Boll.Ready() || !sess.SqueezeActive() {
		return nil
	}

	c := ctx.Candle
	mid := sess.Boll.LastSMA()

	if c.Close > sess.Boll.LastUpBand() && c.IsBullish() && c.BodyRatio() >= 0.5 && mid < c.Close {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  mid,
			Tag:       fmt.Sprintf("squeeze break up bw=%.4f", sess.Boll.LastBandwidth()),
		}
	}

	if c.Close < sess.Boll.LastDownBand() && c.IsBearish() && c.BodyRatio() >= 0.5 && mid > c.Close {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  mid,
			Tag:       fmt.Sprintf("squeeze break down bw=%.4f", sess.Boll.LastBandwidth()),
		}
	}

	return nil
}
