package indicator

import (
	"math"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// SessionVWAP is a session-anchored volume weighted average price with a
// running volume-weighted variance, so price distance from the anchor can
// be expressed in standard deviations.
type SessionVWAP struct {
	pv     float64 // Σ price·volume
	pv2    float64 // Σ price²·volume
	volume float64
}

// Reset re-anchors the accumulator at a session boundary.
func (inc *SessionVWAP) Reset() {
	*inc = SessionVWAP{}
}

func (inc *SessionVWAP) Update(c types.Candle) {
	price := (c.High + c.Low + c.Close) / 3
	inc.pv += price * c.Volume
	inc.pv2 += price * price * c.Volume
	inc.volume += c.Volume
}

func (inc *SessionVWAP) Ready() bool {
	return inc.volume > 0
}

func (inc *SessionVWAP) Value() float64 {
	if inc.volume == 0 {
		return 0
	}
	return inc.pv / inc.volume
}

// StdDev is the volume-weighted standard deviation of typical price
// around the session VWAP.
func (inc *SessionVWAP) StdDev() float64 {
	if inc.volume == 0 {
		return 0
	}
	mean := inc.pv / inc.volume
	variance := inc.pv2/inc.volume - mean*mean
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// Deviation returns how many standard deviations price sits from the
// VWAP, 0 while the variance is degenerate.
func (inc *SessionVWAP) Deviation(price float64) float64 {
	std := inc.StdDev()
	if std == 0 {
		return 0
	}
	return (price - inc.Value()) / std
}
