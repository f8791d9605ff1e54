package types

import "time"

// ExitReason tags how a closed trade left the market.
type ExitReason string

const (
	ExitReasonStopLoss    ExitReason = "SL"
	ExitReasonTakeProfit  ExitReason = "TP"
	ExitReasonTP1         ExitReason = "TP1"
	ExitReasonTP2         ExitReason = "TP2"
	ExitReasonTP3         ExitReason = "TP3"
	ExitReasonSLAfterTP1  ExitReason = "SL_AFTER_TP1"
	ExitReasonSLAfterTP2  ExitReason = "SL_AFTER_TP2"
	ExitReasonTimeLimit   ExitReason = "TIME"
	ExitReasonOpposing    ExitReason = "OPPOSING"
	ExitReasonEndOfSeries ExitReason = "END"
)

// ClosedTrade is an immutable snapshot written exactly once when a
// position is fully closed.
type ClosedTrade struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`

	Entry            float64 `json:"entry"`
	Exit             float64 `json:"exit"`
	StopLoss         float64 `json:"stopLoss"`
	OriginalStopLoss float64 `json:"originalStopLoss"`
	TakeProfit       float64 `json:"takeProfit"`

	LotSize         float64 `json:"lotSize"`
	OriginalLotSize float64 `json:"originalLotSize"`

	// PartialPnl is the realized pnl from tiered partial closes,
	// RemainderPnl is from closing the final portion. Pnl is always the
	// exact sum of both.
	PartialPnl   float64 `json:"partialPnl"`
	RemainderPnl float64 `json:"remainderPnl"`
	Pnl          float64 `json:"pnl"`

	Reason ExitReason `json:"reason"`

	TP1Hit bool `json:"tp1Hit"`
	TP2Hit bool `json:"tp2Hit"`
	TP3Hit bool `json:"tp3Hit"`

	EntryTime  time.Time `json:"entryTime"`
	ExitTime   time.Time `json:"exitTime"`
	EntryIndex int       `json:"entryIndex"`
	ExitIndex  int       `json:"exitIndex"`
}

func (t ClosedTrade) IsWin() bool {
	return t.Pnl > 0
}

func (t ClosedTrade) HoldCandles() int {
	return t.ExitIndex - t.EntryIndex
}
