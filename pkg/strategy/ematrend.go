package strategy

import (
	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// EMATrendStrategy follows a 9/21/50 EMA stack: aligned averages, a
// pullback touching the fast EMA, and a momentum candle resuming the
// trend. The stop sits at the most recent swing extreme.
type EMATrendStrategy struct{}

func (s *EMATrendStrategy) Name() string { return "ematrend" }

func (s *EMATrendStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.EMA50.Ready() {
		return nil
	}

	ema9 := sess.EMA9.Last()
	ema21 := sess.EMA21.Last()
	ema50 := sess.EMA50.Last()
	c := ctx.Candle

	if ema9 > ema21 && ema21 > ema50 {
		// pullback touched the fast EMA, momentum candle resumes up
		if c.Low <= ema9 && c.IsBullish() && c.BodyRatio() >= 0.5 && c.Close > ema9 {
			stop := c.Low - 0.1*ctx.ATR
			if sp := ctx.Detector.LastSwing(structure.SwingLow); sp != nil && sp.Price < c.Close {
				stop = sp.Price - 0.1*ctx.ATR
			}
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  stop,
				Tag:       "EMA stack up",
			}
		}
	}

	if ema9 < ema21 && ema21 < ema50 {
		if c.High >= ema9 && c.IsBearish() && c.BodyRatio() >= 0.5 && c.Close < ema9 {
			stop := c.High + 0.1*ctx.ATR
			if sp := ctx.Detector.LastSwing(structure.SwingHigh); sp != nil && sp.Price > c.Close {
				stop = sp.Price + 0.1*ctx.ATR
			}
			return &Candidate{
				Direction: types.DirectionDown,
				Entry:     c.Close,
				StopLoss:  stop,
				Tag:       "EMA stack down",
			}
		}
	}

	return nil
}
