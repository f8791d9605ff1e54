package types

import (
	"fmt"
	"math"
	"time"
)

// Candle is a single OHLCV bar. Candles are immutable once produced, the
// engine never mutates a candle after it enters a series.
type Candle struct {
	StartTime time.Time `json:"startTime"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

func (c Candle) Direction() Direction {
	if c.Close > c.Open {
		return DirectionUp
	} else if c.Close < c.Open {
		return DirectionDown
	}
	return DirectionNone
}

func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Range is the full high-to-low extent of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Body is the absolute open-to-close extent.
func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

func (c Candle) UpperWick() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

func (c Candle) LowerWick() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// BodyRatio returns body / range, 0 when the candle has no range.
func (c Candle) BodyRatio() float64 {
	r := c.Range()
	if r == 0 {
		return 0
	}
	return c.Body() / r
}

func (c Candle) Mid() float64 {
	return (c.High + c.Low) / 2
}

func (c Candle) String() string {
	return fmt.Sprintf("Candle %s O:%.5f H:%.5f L:%.5f C:%.5f V:%.2f",
		c.StartTime.UTC().Format(time.RFC3339), c.Open, c.High, c.Low, c.Close, c.Volume)
}

// CandleSlice is a time-ordered, append-only candle series.
type CandleSlice []Candle

func (s CandleSlice) Len() int {
	return len(s)
}

// Last returns the i-th candle counting backwards, Last(0) is the most
// recent one.
func (s CandleSlice) Last(i int) Candle {
	return s[len(s)-1-i]
}

// Tail returns up to size trailing candles without copying.
func (s CandleSlice) Tail(size int) CandleSlice {
	if len(s) <= size {
		return s
	}
	return s[len(s)-size:]
}

// Interval derives the series interval from the first two candles. A
// series with fewer than two candles has no measurable interval.
func (s CandleSlice) Interval() time.Duration {
	if len(s) < 2 {
		return 0
	}
	return s[1].StartTime.Sub(s[0].StartTime)
}

// HighestHigh returns the maximum high over the last size candles.
func (s CandleSlice) HighestHigh(size int) float64 {
	high := -math.MaxFloat64
	for _, c := range s.Tail(size) {
		high = math.Max(high, c.High)
	}
	return high
}

// LowestLow returns the minimum low over the last size candles.
func (s CandleSlice) LowestLow(size int) float64 {
	low := math.MaxFloat64
	for _, c := range s.Tail(size) {
		low = math.Min(low, c.Low)
	}
	return low
}

// SortedByTime reports whether timestamps are strictly increasing. The
// data provider is responsible for ordering, the engine only asserts it.
func (s CandleSlice) SortedByTime() bool {
	for i := 1; i < len(s); i++ {
		if !s[i].StartTime.After(s[i-1].StartTime) {
			return false
		}
	}
	return true
}
