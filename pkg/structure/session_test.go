package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

func TestInKillZone(t *testing.T) {
	s := NewSessionState()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		hour int
		want bool
	}{
		{3, false},  // Asian session
		{7, true},   // London open
		{9, true},   // inside London
		{10, false}, // London close is exclusive
		{11, false}, // dead zone
		{12, true},  // New York open
		{14, true},  // inside New York
		{15, false}, // New York close is exclusive
		{20, false},
	}
	for _, tc := range cases {
		got := s.InKillZone(day.Add(time.Duration(tc.hour) * time.Hour))
		assert.Equal(t, tc.want, got, "hour %d", tc.hour)
	}

	assert.True(t, s.InLondonSession(day.Add(8*time.Hour)))
	assert.False(t, s.InLondonSession(day.Add(13*time.Hour)))
}

func TestSessionRanges(t *testing.T) {
	s := NewSessionState()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	hourly := func(hour int, high, low float64) types.Candle {
		return types.Candle{
			StartTime: day.Add(time.Duration(hour) * time.Hour),
			Open:      (high + low) / 2, High: high, Low: low, Close: (high + low) / 2,
			Volume: 100,
		}
	}

	s.Update(hourly(0, 102, 98))
	assert.False(t, s.OpeningRangeSet)
	assert.False(t, s.AsianSet)

	s.Update(hourly(1, 103, 99))
	assert.True(t, s.OpeningRangeSet)
	assert.Equal(t, 102.0, s.OpeningRangeHigh)
	assert.Equal(t, 98.0, s.OpeningRangeLow)

	s.Update(hourly(3, 105, 97))
	s.Update(hourly(5, 104, 96))
	assert.False(t, s.AsianSet)

	s.Update(hourly(6, 106, 100))
	assert.True(t, s.AsianSet)
	assert.Equal(t, 105.0, s.AsianHigh)
	assert.Equal(t, 96.0, s.AsianLow)

	// the day's totals roll into the prior-session range at midnight
	s.Update(hourly(23, 108, 95))
	assert.False(t, s.PriorSessionSet)

	next := types.Candle{
		StartTime: day.Add(24 * time.Hour),
		Open:      100, High: 101, Low: 99, Close: 100,
		Volume: 100,
	}
	s.Update(next)
	assert.True(t, s.PriorSessionSet)
	assert.Equal(t, 108.0, s.PriorSessionHigh)
	assert.Equal(t, 95.0, s.PriorSessionLow)
	assert.False(t, s.OpeningRangeSet)
	assert.False(t, s.AsianSet)
}

func TestBandwidthPercentile(t *testing.T) {
	s := NewSessionState()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// widening price swings, then a dead-flat tail compresses the bands
	price := 100.0
	for i := 0; i < 80; i++ {
		swing := 5.0
		if i >= 40 {
			swing = 0.1
		}
		if i%2 == 0 {
			price += swing
		} else {
			price -= swing
		}
		s.Update(types.Candle{
			StartTime: day.Add(time.Duration(i) * 15 * time.Minute),
			Open:      price, High: price + 0.05, Low: price - 0.05, Close: price,
			Volume: 100,
		})
	}

	assert.Less(t, s.BandwidthPercentile(), 0.2)
	assert.True(t, s.SqueezeActive())
}
