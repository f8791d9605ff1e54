package strategy

import (
	"fmt"
	"math"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// BOSPullbackStrategy waits for a confirmed structure break, then enters
// on the pullback to the broken level with a continuation candle.
type BOSPullbackStrategy struct{}

func (s *BOSPullbackStrategy) Name() string { return "bospullback" }

func (s *BOSPullbackStrategy) Generate(ctx *Context) *Candidate {
	if ctx.Bias == types.DirectionNone {
		return nil
	}

	brk := ctx.Detector.Break(ctx.Bias)
	if brk == nil || !brk.Confirmed {
		return nil
	}

	c := ctx.Candle
	if math.Abs(c.Close-brk.Level) > 0.5*ctx.ATR {
		return nil
	}

	det := ctx.Detector
	dir := ctx.Bias

	if dir == types.DirectionUp {
		if !c.IsBullish() {
			return nil
		}
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  math.Min(c.Low, brk.Level) - 0.2*ctx.ATR,
			Tag:       fmt.Sprintf("BOS pullback %.5f", brk.Level),
			Consume:   func() { det.ConsumeBreak(types.DirectionUp) },
		}
	}

	if !c.IsBearish() {
		return nil
	}
	return &Candidate{
		Direction: types.DirectionDown,
		Entry:     c.Close,
		StopLoss:  math.Max(c.High, brk.Level) + 0.2*ctx.ATR,
		Tag:       fmt.Sprintf("BOS pullback %.5f", brk.Level),
		Consume:   func() { det.ConsumeBreak(types.DirectionDown) },
	}
}
