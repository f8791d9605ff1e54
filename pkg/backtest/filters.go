package backtest

import (
	"math"

	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/strategy"
	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// applyFilters gates a raw candidate. The order is fixed; the first
// failing check discards the candidate for this candle and the reason is
// only surfaced at debug level.
func (e *Engine) applyFilters(sig *strategy.Candidate, ctx *strategy.Context) (bool, string) {
	if e.cfg.RequireOTE && !e.inOTEZone(sig, ctx) {
		return false, "outside OTE retracement zone"
	}

	if e.cfg.MinConfluence > 0 {
		if score := e.confluenceScore(sig, ctx); score < e.cfg.MinConfluence {
			return false, "confluence score too low"
		}
	}

	if e.cfg.RequireStrongFVG && !e.hasStrongFVG(sig, ctx) {
		return false, "no strong FVG overlap"
	}

	if e.cfg.RequireInducement && !e.hasInducement(sig, ctx) {
		return false, "no inducement sweep near entry"
	}

	if e.cfg.RequireEqualHighLow && !e.hasEqualLevel(sig, ctx) {
		return false, "no equal high/low cluster"
	}

	if f := e.cfg.EMAFilter; f != nil && f.Enabled && !e.emaAligned(sig, ctx) {
		return false, "EMA trend misaligned"
	}

	if e.cfg.UseKillZones && !e.sess.InKillZone(ctx.Candle.StartTime) {
		return false, "outside kill zone"
	}
	if e.lastExitIndex >= 0 && ctx.Index-e.lastExitIndex < e.cfg.CooldownCandles {
		return false, "cooldown after last trade"
	}

	dist := math.Abs(sig.Entry - sig.StopLoss)
	if dist < e.market.PipsToPrice(e.market.MinStopPips) {
		return false, "stop distance below instrument minimum"
	}

	return true, ""
}

// inOTEZone checks the 61.8-78.6% retracement of the active swing,
// direction-aware: longs buy the discount end of an up leg, shorts sell
// the premium end of a down leg.
func (e *Engine) inOTEZone(sig *strategy.Candidate, ctx *strategy.Context) bool {
	high := ctx.Detector.LastSwing(structure.SwingHigh)
	low := ctx.Detector.LastSwing(structure.SwingLow)
	if high == nil || low == nil || high.Price <= low.Price {
		return false
	}

	leg := high.Price - low.Price
	if sig.Direction == types.DirectionUp {
		zoneTop := high.Price - 0.618*leg
		zoneBottom := high.Price - 0.786*leg
		return sig.Entry >= zoneBottom && sig.Entry <= zoneTop
	}

	zoneBottom := low.Price + 0.618*leg
	zoneTop := low.Price + 0.786*leg
	return sig.Entry >= zoneBottom && sig.Entry <= zoneTop
}

// confluenceScore is the weighted sum of supporting evidence, capped at
// 100: bias alignment 30, structure presence 25, EMA alignment 25,
// volume confirmation 20.
func (e *Engine) confluenceScore(sig *strategy.Candidate, ctx *strategy.Context) float64 {
	score := 0.0

	if sig.Direction == ctx.Bias {
		score += 30
	}

	if e.hasSupportingStructure(sig, ctx) {
		score += 25
	}

	ema50 := ctx.Session.EMA50
	if ema50.Ready() {
		above := ctx.Candle.Close > ema50.Last()
		if (sig.Direction == types.DirectionUp && above) || (sig.Direction == types.DirectionDown && !above) {
			score += 25
		}
	}

	if ctx.Session.VolumeSMA.Ready() && ctx.Candle.Volume >= ctx.Session.VolumeSMA.Last() {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (e *Engine) hasSupportingStructure(sig *strategy.Candidate, ctx *strategy.Context) bool {
	for i := range ctx.Detector.OrderBlocks {
		ob := &ctx.Detector.OrderBlocks[i]
		if !ob.Used && !ob.Mitigated && ob.Direction == sig.Direction {
			return true
		}
	}
	for i := range ctx.Detector.Gaps {
		g := &ctx.Detector.Gaps[i]
		if !g.Filled && g.Direction == sig.Direction {
			return true
		}
	}
	return false
}

// hasStrongFVG requires an unfilled gap of at least one ATR whose zone
// overlaps the entry.
func (e *Engine) hasStrongFVG(sig *strategy.Candidate, ctx *strategy.Context) bool {
	for i := range ctx.Detector.Gaps {
		g := &ctx.Detector.Gaps[i]
		if g.Filled || g.Direction != sig.Direction || g.Size < ctx.ATR {
			continue
		}
		if sig.Entry >= g.Bottom-0.25*ctx.ATR && sig.Entry <= g.Top+0.25*ctx.ATR {
			return true
		}
	}
	return false
}

// hasInducement wants a minor swing near the entry whose liquidity was
// taken by one of the recent candles before the signal fired.
func (e *Engine) hasInducement(sig *strategy.Candidate, ctx *strategy.Context) bool {
	const scan = 5
	for i := range ctx.Detector.Swings {
		sp := &ctx.Detector.Swings[i]
		if math.Abs(sp.Price-sig.Entry) > ctx.ATR {
			continue
		}
		for j := 0; j <= scan && j < ctx.Candles.Len(); j++ {
			c := ctx.Candles.Last(j)
			if sp.Kind == structure.SwingLow && c.Low < sp.Price {
				return true
			}
			if sp.Kind == structure.SwingHigh && c.High > sp.Price {
				return true
			}
		}
	}
	return false
}

// hasEqualLevel requires resting liquidity on the target side: equal
// highs above a long entry, equal lows below a short entry.
func (e *Engine) hasEqualLevel(sig *strategy.Candidate, ctx *strategy.Context) bool {
	tolerance := 0.1 * ctx.ATR
	if sig.Direction == types.DirectionUp {
		level, ok := ctx.Detector.EqualLevel(structure.SwingHigh, tolerance)
		return ok && level > sig.Entry
	}
	level, ok := ctx.Detector.EqualLevel(structure.SwingLow, tolerance)
	return ok && level < sig.Entry
}

// emaAligned applies the configured strictness mode against the filter
// EMA owned by the engine.
func (e *Engine) emaAligned(sig *strategy.Candidate, ctx *strategy.Context) bool {
	if e.filterEMA == nil || !e.filterEMA.Ready() {
		return false
	}

	ema := e.filterEMA.Last()
	price := ctx.Candle.Close
	long := sig.Direction == types.DirectionUp

	if long && price <= ema {
		return false
	}
	if !long && price >= ema {
		return false
	}

	switch e.cfg.EMAFilter.Strictness {
	case config.EMAStrictnessPrice:
		return true

	case config.EMAStrictnessSlope:
		slope := e.filterEMA.Slope()
		return (long && slope > 0) || (!long && slope < 0)

	case config.EMAStrictnessDistance:
		return math.Abs(price-ema) >= e.market.PipsToPrice(e.cfg.EMAFilter.MinDistance)
	}

	return false
}
