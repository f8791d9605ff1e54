package backtest

import (
	"math"
	"time"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// Position is the single live trade. The engine owns at most one
// instance at any time; nothing else mutates it.
type Position struct {
	ID        string
	Direction types.Direction

	Entry            float64
	StopLoss         float64
	OriginalStopLoss float64
	TakeProfit       float64

	TP1, TP2, TP3          float64
	TP1Hit, TP2Hit, TP3Hit bool

	LotSize         float64
	OriginalLotSize float64

	EntryTime  time.Time
	EntryIndex int

	PartialPnl float64

	MovedToBreakeven bool
	TrailingActive   bool

	// favorable price extreme reached since entry, drives trailing
	extreme float64

	Tag string
}

// RiskDistance is the initial entry-to-stop distance, the R unit.
func (p *Position) RiskDistance() float64 {
	return math.Abs(p.Entry - p.OriginalStopLoss)
}

// UnrealizedR expresses the open profit at price as a multiple of the
// initial risk.
func (p *Position) UnrealizedR(price float64) float64 {
	risk := p.RiskDistance()
	if risk == 0 {
		return 0
	}
	return (price - p.Entry) * p.Direction.Sign() / risk
}

// PnlAt values lots closed at price against the entry.
func (p *Position) PnlAt(price, lots, contractSize float64) float64 {
	return (price - p.Entry) * p.Direction.Sign() * lots * contractSize
}

// TightenStop moves the stop only in the favorable direction: up for a
// long, down for a short. Returns whether the stop actually moved.
func (p *Position) TightenStop(stop float64) bool {
	if p.Direction == types.DirectionUp {
		if stop <= p.StopLoss {
			return false
		}
	} else {
		if stop >= p.StopLoss {
			return false
		}
	}
	p.StopLoss = stop
	return true
}

// UpdateExtreme folds the candle extremes into the favorable extreme.
func (p *Position) UpdateExtreme(c types.Candle) {
	if p.Direction == types.DirectionUp {
		if c.High > p.extreme {
			p.extreme = c.High
		}
	} else {
		if p.extreme == 0 || c.Low < p.extreme {
			p.extreme = c.Low
		}
	}
}

func (p *Position) Extreme() float64 {
	return p.extreme
}

// TiersHit counts the partial levels already filled.
func (p *Position) TiersHit() int {
	n := 0
	if p.TP1Hit {
		n++
	}
	if p.TP2Hit {
		n++
	}
	if p.TP3Hit {
		n++
	}
	return n
}

// stopExitReason maps the tier state to the recorded exit reason for a
// stop-out.
func (p *Position) stopExitReason() types.ExitReason {
	switch {
	case p.TP2Hit:
		return types.ExitReasonSLAfterTP2
	case p.TP1Hit:
		return types.ExitReasonSLAfterTP1
	default:
		return types.ExitReasonStopLoss
	}
}
