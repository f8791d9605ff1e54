package backtest

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

type levelKind int

const (
	levelStop levelKind = iota
	levelTakeProfit
	levelTP1
	levelTP2
	levelTP3
)

// managePosition advances the live position through one closed candle:
// first the intra-candle level resolution, then the time and opposing
// exits, then stop maintenance (breakeven, trailing) for the candles
// that follow.
func (e *Engine) managePosition(c types.Candle, i int) {
	if e.resolveLevels(c, i) {
		return
	}

	p := e.position
	p.UpdateExtreme(c)

	if te := e.cfg.TimeExit; te != nil && te.Enabled && i-p.EntryIndex > te.MaxCandleHold {
		e.closePosition(c.Close, types.ExitReasonTimeLimit, i, c.StartTime)
		return
	}

	if oe := e.cfg.OpposingExit; oe != nil && oe.Enabled && e.opposingSignal(c, oe.MinScore) {
		e.closePosition(c.Close, types.ExitReasonOpposing, i, c.StartTime)
		return
	}

	if be := e.cfg.Breakeven; be != nil && be.Enabled && !p.MovedToBreakeven {
		if p.UnrealizedR(c.Close) >= be.TriggerR {
			stop := p.Entry + p.Direction.Sign()*e.market.PipsToPrice(be.BufferPips)
			p.TightenStop(stop)
			p.MovedToBreakeven = true
		}
	}

	if tr := e.cfg.Trailing; tr != nil && tr.Enabled {
		if !p.TrailingActive && p.UnrealizedR(c.Close) >= tr.ActivationR {
			p.TrailingActive = true
		}
		if p.TrailingActive {
			if atr := e.det.ATR(); atr > 0 {
				p.TightenStop(p.Extreme() - p.Direction.Sign()*tr.ATRMultiple*atr)
			}
		}
	}
}

// resolveLevels walks the reconstructed intra-candle path and fills
// every level in the order the path crosses them. A partial fill that
// moves the stop changes the level set mid-walk, which is exactly why
// the walk re-collects levels after every fill. Returns whether the
// position fully closed.
func (e *Engine) resolveLevels(c types.Candle, i int) bool {
	path := pricePath(c)
	cur := path[0]

	for seg := 1; seg < len(path); seg++ {
		to := path[seg]
		for {
			prices, kinds := e.activeLevels()
			idx := nextLevelCrossed(cur, to, prices)
			if idx < 0 {
				break
			}
			if e.fillLevel(kinds[idx], prices[idx], c, i) {
				return true
			}
			cur = prices[idx]
		}
		cur = to
	}

	return false
}

// activeLevels collects the currently armed price levels: the stop,
// plus either the unhit tiers or the plain take-profit.
func (e *Engine) activeLevels() ([]float64, []levelKind) {
	p := e.position
	prices := []float64{p.StopLoss}
	kinds := []levelKind{levelStop}

	if tp := e.cfg.TieredTP; tp != nil && tp.Enabled {
		if !p.TP1Hit {
			prices = append(prices, p.TP1)
			kinds = append(kinds, levelTP1)
		}
		if len(tp.Tiers) > 1 && !p.TP2Hit {
			prices = append(prices, p.TP2)
			kinds = append(kinds, levelTP2)
		}
		if len(tp.Tiers) > 2 && !p.TP3Hit {
			prices = append(prices, p.TP3)
			kinds = append(kinds, levelTP3)
		}
	} else {
		prices = append(prices, p.TakeProfit)
		kinds = append(kinds, levelTakeProfit)
	}

	return prices, kinds
}

// fillLevel executes one crossed level. Stop fills slip unfavorably by
// the seeded model; take-profit fills are limit-type and fill exactly.
func (e *Engine) fillLevel(kind levelKind, price float64, c types.Candle, i int) bool {
	p := e.position

	switch kind {
	case levelStop:
		fill := price - p.Direction.Sign()*e.slippage.StopOffset()
		e.closePosition(fill, p.stopExitReason(), i, c.StartTime)
		return true

	case levelTakeProfit:
		e.closePosition(price, types.ExitReasonTakeProfit, i, c.StartTime)
		return true

	case levelTP1, levelTP2, levelTP3:
		return e.fillTier(kind, price, i, c.StartTime)
	}

	return false
}

// fillTier closes the configured share of the original size at a tier
// level. The final tier closes the remainder and records the trade,
// labeled with the tier that actually closed it.
func (e *Engine) fillTier(kind levelKind, price float64, i int, ts time.Time) bool {
	p := e.position
	tp := e.cfg.TieredTP

	tierIdx := 0
	reason := types.ExitReasonTP1
	switch kind {
	case levelTP2:
		tierIdx, reason = 1, types.ExitReasonTP2
	case levelTP3:
		tierIdx, reason = 2, types.ExitReasonTP3
	}

	final := tierIdx == len(tp.Tiers)-1

	switch kind {
	case levelTP1:
		p.TP1Hit = true
	case levelTP2:
		p.TP2Hit = true
	case levelTP3:
		p.TP3Hit = true
	}

	if final {
		e.closePosition(price, reason, i, ts)
		return true
	}

	lots := round2(p.OriginalLotSize * tp.Tiers[tierIdx].Percent / 100)
	if lots > p.LotSize {
		lots = p.LotSize
	}

	pnl := p.PnlAt(price, lots, e.market.ContractSize)
	p.PartialPnl += pnl
	e.balance += pnl
	p.LotSize = round2(p.LotSize - lots)

	log.Debugf("%s tier %d filled @ %.5f, %.2f lots, pnl %.2f",
		e.market.Symbol, tierIdx+1, price, lots, pnl)

	if p.LotSize <= 0 {
		// tiers consumed the whole size early
		e.closePosition(price, reason, i, ts)
		return true
	}

	if kind == levelTP1 && tp.MoveStopOnTP1 {
		p.TightenStop(p.Entry)
	}
	if kind == levelTP2 && tp.MoveStopOnTP2 {
		p.TightenStop(p.TP1)
	}

	return false
}

// opposingSignal reports a high-score order block of the opposite
// polarity forming at the current price with a strong opposing candle.
func (e *Engine) opposingSignal(c types.Candle, minScore float64) bool {
	p := e.position
	opposite := p.Direction.Opposite()

	if c.Direction() != opposite || c.BodyRatio() <= 0.5 {
		return false
	}

	for i := range e.det.OrderBlocks {
		ob := &e.det.OrderBlocks[i]
		if ob.Used || ob.Mitigated || ob.Direction != opposite {
			continue
		}
		if ob.Score >= minScore && ob.Contains(c.Close, 0) {
			return true
		}
	}

	return false
}

// closePosition closes the remaining size at price and records the
// immutable trade snapshot. This is the only place a trade is written.
func (e *Engine) closePosition(price float64, reason types.ExitReason, i int, ts time.Time) {
	p := e.position

	remainderPnl := p.PnlAt(price, p.LotSize, e.market.ContractSize)
	e.balance += remainderPnl

	trade := types.ClosedTrade{
		ID:               p.ID,
		Symbol:           e.market.Symbol,
		Direction:        p.Direction,
		Entry:            p.Entry,
		Exit:             price,
		StopLoss:         p.StopLoss,
		OriginalStopLoss: p.OriginalStopLoss,
		TakeProfit:       p.TakeProfit,
		LotSize:          p.LotSize,
		OriginalLotSize:  p.OriginalLotSize,
		PartialPnl:       p.PartialPnl,
		RemainderPnl:     remainderPnl,
		Pnl:              p.PartialPnl + remainderPnl,
		Reason:           reason,
		TP1Hit:           p.TP1Hit,
		TP2Hit:           p.TP2Hit,
		TP3Hit:           p.TP3Hit,
		EntryTime:        p.EntryTime,
		ExitTime:         ts,
		EntryIndex:       p.EntryIndex,
		ExitIndex:        i,
	}
	e.trades = append(e.trades, trade)

	log.Debugf("%s close %s @ %.5f reason=%s pnl=%.2f balance=%.2f",
		e.market.Symbol, p.Direction, price, reason, trade.Pnl, e.balance)

	e.position = nil
	e.lastExitIndex = i
}
