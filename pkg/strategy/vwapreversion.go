package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// VWAPReversionStrategy trades back toward the session VWAP once price
// has stretched beyond two standard deviations and prints a reversion
// candle.
type VWAPReversionStrategy struct{}

func (s *VWAPReversionStrategy) Name() string { return "vwapreversion" }

func (s *VWAPReversionStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.VWAP.Ready() {
		return nil
	}

	c := ctx.Candle
	dev := sess.VWAP.Deviation(c.Close)

	if dev <= -2 && c.IsBullish() {
		return &Candidate{
			Direction: types.DirectionUp,
			Entry:     c.Close,
			StopLoss:  c.Low - 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("VWAP dev=%.2f", dev),
		}
	}

	if dev >= 2 && c.IsBearish() {
		return &Candidate{
			Direction: types.DirectionDown,
			Entry:     c.Close,
			StopLoss:  c.High + 0.1*ctx.ATR,
			Tag:       fmt.Sprintf("VWAP dev=%.2f", dev),
		}
	}

	return nil
}
