package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

func TestPricePathWickDominance(t *testing.T) {
	// dominant lower wick: the dip is assumed to print first
	c := types.Candle{Open: 100, High: 110, Low: 90, Close: 105}
	assert.Equal(t, [4]float64{100, 90, 110, 105}, pricePath(c))

	// dominant upper wick: the spike is assumed to print first
	c = types.Candle{Open: 100, High: 110, Low: 99, Close: 105}
	assert.Equal(t, [4]float64{100, 110, 99, 105}, pricePath(c))

	// equal wicks resolve to the low-first shape
	c = types.Candle{Open: 100, High: 106, Low: 94, Close: 100}
	assert.Equal(t, [4]float64{100, 94, 106, 100}, pricePath(c))
}

func TestNextLevelCrossed(t *testing.T) {
	levels := []float64{95, 108, 103}

	// rising segment: 103 is nearer than 108
	assert.Equal(t, 2, nextLevelCrossed(100, 110, levels))

	// falling segment
	assert.Equal(t, 0, nextLevelCrossed(100, 90, levels))

	// nothing in the way
	assert.Equal(t, -1, nextLevelCrossed(100, 102, levels))

	// level exactly at the segment boundary counts
	assert.Equal(t, 1, nextLevelCrossed(100, 108, []float64{108}))
	assert.Equal(t, 0, nextLevelCrossed(108, 110, []float64{108}))
}
