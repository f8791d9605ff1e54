package backtest

import (
	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// Metrics is the aggregate outcome of one run. It is a pure fold over
// the closed-trade list: recomputing it from the same trades yields the
// same values.
type Metrics struct {
	Symbol  string         `json:"symbol"`
	Variant config.Variant `json:"variant"`

	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`

	// WinRate in [0, 1], 0 for a zero-trade run.
	WinRate float64 `json:"winRate"`

	GrossProfit float64 `json:"grossProfit"`
	GrossLoss   float64 `json:"grossLoss"`
	NetProfit   float64 `json:"netProfit"`

	// ProfitFactor is grossProfit / grossLoss. With zero losses it is
	// reported as 0 — both for the empty run and for the unbounded
	// case — to keep downstream consumers numeric-safe.
	ProfitFactor float64 `json:"profitFactor"`

	// MaxDrawdown is the largest equity decline from a peak, as a
	// fraction of that peak.
	MaxDrawdown float64 `json:"maxDrawdown"`

	InitialBalance float64 `json:"initialBalance"`
	FinalBalance   float64 `json:"finalBalance"`

	ExitCounts map[types.ExitReason]int `json:"exitCounts"`

	TP1Hits int `json:"tp1Hits"`
	TP2Hits int `json:"tp2Hits"`
	TP3Hits int `json:"tp3Hits"`

	EquityCurve []float64 `json:"equityCurve,omitempty"`

	Trades []types.ClosedTrade `json:"trades,omitempty"`
}

// ComputeMetrics folds closed trades into run metrics. It is the single
// source of truth: the engine never tracks aggregates on the side.
func ComputeMetrics(trades []types.ClosedTrade, initialBalance float64) *Metrics {
	m := &Metrics{
		InitialBalance: initialBalance,
		FinalBalance:   initialBalance,
		ExitCounts:     make(map[types.ExitReason]int),
		Trades:         trades,
	}

	equity := initialBalance
	peak := initialBalance
	m.EquityCurve = append(m.EquityCurve, equity)

	for _, t := range trades {
		m.TotalTrades++
		if t.IsWin() {
			m.Wins++
			m.GrossProfit += t.Pnl
		} else {
			m.Losses++
			m.GrossLoss += -t.Pnl
		}
		m.NetProfit += t.Pnl
		m.ExitCounts[t.Reason]++
		if t.TP1Hit {
			m.TP1Hits++
		}
		if t.TP2Hit {
			m.TP2Hits++
		}
		if t.TP3Hit {
			m.TP3Hits++
		}

		equity += t.Pnl
		m.EquityCurve = append(m.EquityCurve, equity)
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak
			if dd > m.MaxDrawdown {
				m.MaxDrawdown = dd
			}
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.TotalTrades)
	}
	if m.GrossLoss > 0 {
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	}

	m.FinalBalance = equity
	return m
}
