package backtest

import "time"

// DailyTracker implements the daily drawdown circuit breaker. Once the
// intraday loss from the day's starting balance reaches the threshold,
// new entries stay disabled until the next UTC day. Open positions are
// not touched.
type DailyTracker struct {
	Date            time.Time
	StartingBalance float64
	Locked          bool
}

// Roll resets the tracker at each UTC day boundary.
func (t *DailyTracker) Roll(ts time.Time, balance float64) {
	day := ts.UTC().Truncate(24 * time.Hour)
	if day.Equal(t.Date) {
		return
	}
	t.Date = day
	t.StartingBalance = balance
	t.Locked = false
}

// Check locks the day once the drawdown threshold is breached. The lock
// is one-way within a day.
func (t *DailyTracker) Check(balance, maxDrawdownPercent float64) {
	if t.Locked || t.StartingBalance <= 0 {
		return
	}
	loss := (t.StartingBalance - balance) / t.StartingBalance * 100
	if loss >= maxDrawdownPercent {
		t.Locked = true
	}
}
