package strategy

import (
	"fmt"
	"math"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// absorptionTests is how many candles back the level-test scan covers.
const absorptionTests = 5

// AbsorptionStrategy looks for repeated tests of a level on declining
// volume, then a high-volume rejection candle off it.
type AbsorptionStrategy struct{}

func (s *AbsorptionStrategy) Name() string { return "absorption" }

func (s *AbsorptionStrategy) Generate(ctx *Context) *Candidate {
	sess := ctx.Session
	if !sess.VolumeSMA.Ready() || ctx.Candles.Len() < absorptionTests+1 {
		return nil
	}

	avgVol := sess.VolumeSMA.Last()
	c := ctx.Candle
	if avgVol <= 0 || c.Volume < 1.5*avgVol {
		return nil
	}

	tolerance := 0.25 * ctx.ATR

	// absorbed selling: lows repeatedly test the level on fading volume,
	// then the rejection candle closes bullish with a long lower wick
	if c.IsBullish() && c.LowerWick() >= 0.5*c.Range() {
		if s.testsDeclining(ctx, c.Low, tolerance, func(x types.Candle) float64 { return x.Low }) {
			return &Candidate{
				Direction: types.DirectionUp,
				Entry:     c.Close,
				StopLoss:  c.Low - 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("absorption low %.5f", c.Low),
			}
		}
	}

	if c.IsBearish() && c.UpperWick() >= 0.5*c.Range() {
		if s.testsDeclining(ctx, c.High, tolerance, func(x types.Candle) float64 { return x.High }) {
			return &Candidate{
				Direction: types.DirectionDown,
				Entry:     c.Close,
				StopLoss:  c.High + 0.1*ctx.ATR,
				Tag:       fmt.Sprintf("absorption high %.5f", c.High),
			}
		}
	}

	return nil
}

// testsDeclining requires at least two prior touches of the level within
// tolerance, with volume declining across the touches.
func (s *AbsorptionStrategy) testsDeclining(ctx *Context, level, tolerance float64, extreme func(types.Candle) float64) bool {
	touches := 0
	lastVolume := math.MaxFloat64
	declining := true

	for i := absorptionTests; i >= 1; i-- {
		if i >= ctx.Candles.Len() {
			continue
		}
		prev := ctx.Candles.Last(i)
		if math.Abs(extreme(prev)-level) > tolerance {
			continue
		}
		touches++
		if prev.Volume >= lastVolume {
			declining = false
		}
		lastVolume = prev.Volume
	}

	return touches >= 2 && declining
}
