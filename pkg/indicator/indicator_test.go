package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

func TestATRWarmupAndConstantRange(t *testing.T) {
	atr := NewATR(3)

	// the first candle only primes the previous close
	atr.UpdateCandle(types.Candle{High: 102, Low: 100, Close: 101})
	assert.Equal(t, 0.0, atr.Last())

	atr.UpdateCandle(types.Candle{High: 102, Low: 100, Close: 101})
	atr.UpdateCandle(types.Candle{High: 102, Low: 100, Close: 101})
	assert.Equal(t, 0.0, atr.Last(), "still warming up")

	atr.UpdateCandle(types.Candle{High: 102, Low: 100, Close: 101})
	assert.InDelta(t, 2.0, atr.Last(), 1e-9)
}

func TestATRGapTrueRange(t *testing.T) {
	atr := NewATR(1)
	atr.UpdateCandle(types.Candle{High: 101, Low: 99, Close: 100})

	// gap up: the true range spans from the previous close
	atr.UpdateCandle(types.Candle{High: 106, Low: 105, Close: 105.5})
	assert.InDelta(t, 6.0, atr.Last(), 1e-9)
}

func TestEWMA(t *testing.T) {
	ema := NewEWMA(2)
	ema.Update(1)
	assert.False(t, ema.Ready())
	assert.Equal(t, 1.0, ema.Last())

	ema.Update(2)
	assert.True(t, ema.Ready())
	assert.InDelta(t, 5.0/3.0, ema.Last(), 1e-9)
	assert.InDelta(t, 2.0/3.0, ema.Slope(), 1e-9)
	assert.Greater(t, ema.Slope(), 0.0)
}

func TestSMARollingWindow(t *testing.T) {
	sma := NewSMA(3)
	for _, v := range []float64{1, 2, 3, 4} {
		sma.Update(v)
	}
	assert.True(t, sma.Ready())
	assert.InDelta(t, 3.0, sma.Last(), 1e-9)
	assert.InDelta(t, 2.0, sma.Index(1), 1e-9)
}

func TestBOLL(t *testing.T) {
	boll := NewBOLL(3, 2)
	boll.Update(1)
	boll.Update(2)
	assert.False(t, boll.Ready())

	boll.Update(3)
	assert.True(t, boll.Ready())
	assert.InDelta(t, 2.0, boll.LastSMA(), 1e-9)
	assert.InDelta(t, 4.0, boll.LastUpBand(), 1e-9)
	assert.InDelta(t, 0.0, boll.LastDownBand(), 1e-9)
	assert.InDelta(t, 2.0, boll.LastBandwidth(), 1e-9)
}

func TestBOLLFlatSeries(t *testing.T) {
	boll := NewBOLL(3, 2)
	for i := 0; i < 5; i++ {
		boll.Update(5)
	}
	assert.InDelta(t, 5.0, boll.LastUpBand(), 1e-9)
	assert.InDelta(t, 5.0, boll.LastDownBand(), 1e-9)
	assert.InDelta(t, 0.0, boll.LastBandwidth(), 1e-9)
}

func TestSessionVWAP(t *testing.T) {
	var vwap SessionVWAP
	assert.False(t, vwap.Ready())
	assert.Equal(t, 0.0, vwap.Value())

	vwap.Update(types.Candle{High: 12, Low: 8, Close: 10, Volume: 1})  // typical 10
	vwap.Update(types.Candle{High: 22, Low: 18, Close: 20, Volume: 3}) // typical 20

	assert.True(t, vwap.Ready())
	assert.InDelta(t, 17.5, vwap.Value(), 1e-9)
	assert.InDelta(t, math.Sqrt(18.75), vwap.StdDev(), 1e-9)
	assert.InDelta(t, 0.0, vwap.Deviation(17.5), 1e-9)
	assert.Greater(t, vwap.Deviation(25), 0.0)
	assert.Less(t, vwap.Deviation(10), 0.0)

	vwap.Reset()
	assert.False(t, vwap.Ready())
}
