package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// chochBreakScan is how many recent LTF candles may separate the
// character-changing break from the retracement entry.
const chochBreakScan = 10

// CHoCHStrategy trades the change of character: a higher-high/higher-low
// sequence inverting through the last swing low (or the mirror for
// downtrends), entered on the 50-78.6% retracement of the break leg.
type CHoCHStrategy struct{}

func (s *CHoCHStrategy) Name() string { return "choch" }

func (s *CHoCHStrategy) Generate(ctx *Context) *Candidate {
	highs := ctx.Detector.RecentSwings(structure.SwingHigh, 2)
	lows := ctx.Detector.RecentSwings(structure.SwingLow, 2)
	if len(highs) < 2 || len(lows) < 2 {
		return nil
	}

	c := ctx.Candle

	// uptrend inverting: rising highs and lows, a recent close below the
	// last swing low, now pulling back up into the retracement zone
	risingHighs := highs[0].Price > highs[1].Price
	risingLows := lows[0].Price > lows[1].Price
	if risingHighs && risingLows && s.brokeBelow(ctx, lows[0].Price) {
		top := highs[0].Price
		bottom := lows[0].Price
		leg := top - bottom
		if leg > 0 {
			zoneLow := bottom + 0.5*leg
			zoneHigh := bottom + 0.786*leg
			if c.Close >= zoneLow && c.Close <= zoneHigh && c.IsBearish() {
				return &Candidate{
					Direction: types.DirectionDown,
					Entry:     c.Close,
					StopLoss:  top + 0.1*ctx.ATR,
					Tag:       fmt.Sprintf("CHoCH down leg=%.5f", leg),
				}
			}
		}
	}

	fallingHighs := highs[0].Price < highs[1].Price
	fallingLows := lows[0].Price < lows[1].Price
	if fallingHighs && fallingLows && s.brokeAbove(ctx, highs[0].Price) {
		top := highs[0].Price
		bottom := lows[0].Price
		leg := top - bottom
		if leg > 0 {
			zoneHigh := top - 0.5*leg
			zoneLow := top - 0.786*leg
			if c.Close >= zoneLow && c.Close <= zoneHigh && c.IsBullish() {
				return &Candidate{
					Direction: types.DirectionUp,
					Entry:     c.Close,
					StopLoss:  bottom - 0.1*ctx.ATR,
					Tag:       fmt.Sprintf("CHoCH up leg=%.5f", leg),
				}
			}
		}
	}

	return nil
}

func (s *CHoCHStrategy) brokeBelow(ctx *Context, level float64) bool {
	for i := 1; i <= chochBreakScan && i < ctx.Candles.Len(); i++ {
		if ctx.Candles.Last(i).Close < level {
			return true
		}
	}
	return false
}

func (s *CHoCHStrategy) brokeAbove(ctx *Context, level float64) bool {
	for i := 1; i <= chochBreakScan && i < ctx.Candles.Len(); i++ {
		if ctx.Candles.Last(i).Close > level {
			return true
		}
	}
	return false
}
