package structure

import (
	"time"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// OrderBlock is the zone left behind by a candle that precedes a strong
// displacement move. A block is consumed at most once.
type OrderBlock struct {
	Direction types.Direction `json:"direction"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Time      time.Time       `json:"time"`

	// Score grades the block 0..100 from body strength, freshness,
	// swing confluence and displacement strength.
	Score float64 `json:"score"`

	// Mitigated is set once price has traded through the whole zone.
	Mitigated bool `json:"mitigated"`

	// Used is set once an entry consumed the block. Never reused.
	Used bool `json:"used"`
}

func (ob *OrderBlock) Width() float64 {
	return ob.High - ob.Low
}

func (ob *OrderBlock) Mid() float64 {
	return (ob.High + ob.Low) / 2
}

// Contains reports whether price sits inside the zone extended by the
// given fraction of the block width on both sides.
func (ob *OrderBlock) Contains(price, extension float64) bool {
	pad := ob.Width() * extension
	return price >= ob.Low-pad && price <= ob.High+pad
}

// FairValueGap is a three-candle price imbalance.
type FairValueGap struct {
	Direction types.Direction `json:"direction"`
	Top       float64         `json:"top"`
	Bottom    float64         `json:"bottom"`
	Time      time.Time       `json:"time"`
	Size      float64         `json:"size"`

	// Filled is set once price has traded back through the gap, or once
	// an entry consumed it.
	Filled bool `json:"filled"`
}

func (g *FairValueGap) Contains(price float64) bool {
	return price >= g.Bottom && price <= g.Top
}

// SwingKind tags a swing point as a local high or low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a local extremum over a symmetric lookback window.
type SwingPoint struct {
	Kind  SwingKind `json:"kind"`
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`

	// Swept is set once a liquidity-sweep or inducement signal consumed
	// the point.
	Swept bool `json:"swept"`
}

// StructureBreak records a close beyond the most recent swing in the
// direction of bias. At most one unconsumed break exists per direction.
type StructureBreak struct {
	Direction types.Direction `json:"direction"`
	Level     float64         `json:"level"`
	Time      time.Time       `json:"time"`
	Confirmed bool            `json:"confirmed"`
}
