package structure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

func candleAt(t0 time.Time, i int, o, h, l, c float64) types.Candle {
	return types.Candle{
		StartTime: t0.Add(time.Duration(i) * time.Hour),
		Open:      o, High: h, Low: l, Close: c,
		Volume: 100,
	}
}

func TestDetectSwingLow(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{SwingLookback: 2, ATRWindow: 14})

	// V shape: the middle candle is a strict low on both sides
	lows := []float64{10, 9, 5, 9, 10}
	highs := []float64{11, 10, 6, 10, 11}
	for i := range lows {
		d.UpdateMTF(candleAt(t0, i, highs[i]-0.5, highs[i], lows[i], lows[i]+0.5), types.DirectionNone)
	}

	require.Len(t, d.Swings, 1)
	assert.Equal(t, SwingLow, d.Swings[0].Kind)
	assert.Equal(t, 5.0, d.Swings[0].Price)

	sp := d.LastSwing(SwingLow)
	require.NotNil(t, sp)
	assert.Equal(t, 5.0, sp.Price)
	assert.Nil(t, d.LastSwing(SwingHigh))
}

func TestDetectSwingRejectsEqualNeighbors(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{SwingLookback: 2, ATRWindow: 14})

	// the pivot low is tied with a neighbor, strict dominance fails
	lows := []float64{10, 5, 5, 9, 10}
	highs := []float64{11, 10, 6, 10, 11}
	for i := range lows {
		d.UpdateMTF(candleAt(t0, i, highs[i]-0.5, highs[i], lows[i], lows[i]+0.5), types.DirectionNone)
	}

	assert.Empty(t, d.Swings)
}

func TestDetectOrderBlock(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{ATRWindow: 1, ATRMultiplier: 1.5, MinGapSize: 0.5})

	// bearish seed candle followed by a two-candle displacement up
	d.UpdateMTF(candleAt(t0, 0, 100, 101, 99, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 1, 100, 100.5, 99, 99.5), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 2, 99.5, 101, 99.4, 101), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 3, 101, 103, 100.9, 103), types.DirectionNone)

	require.Len(t, d.OrderBlocks, 1)
	ob := d.OrderBlocks[0]
	assert.Equal(t, types.DirectionUp, ob.Direction)
	assert.Equal(t, 100.5, ob.High)
	assert.Equal(t, 99.0, ob.Low)
	assert.Equal(t, 60.0, ob.Score)
	assert.False(t, ob.Mitigated)
	assert.True(t, ob.Contains(100.0, 0))
	assert.False(t, ob.Contains(102.0, 0))
}

func TestOrderBlockMitigation(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{ATRWindow: 1, ATRMultiplier: 1.5, MinGapSize: 0.5})

	d.UpdateMTF(candleAt(t0, 0, 100, 101, 99, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 1, 100, 100.5, 99, 99.5), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 2, 99.5, 101, 99.4, 101), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 3, 101, 103, 100.9, 103), types.DirectionNone)
	require.Len(t, d.OrderBlocks, 1)

	// close through the bullish zone invalidates it; the prune pass
	// removes it immediately
	d.UpdateMTF(candleAt(t0, 4, 100, 100.2, 98, 98.5), types.DirectionNone)
	assert.Empty(t, d.OrderBlocks)
}

func TestDetectFairValueGap(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{ATRWindow: 1, ATRMultiplier: 5, MinGapSize: 0.5})

	d.UpdateMTF(candleAt(t0, 0, 100, 101, 99, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 1, 100, 100.5, 99.5, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 2, 100, 101, 100, 101), types.DirectionNone)
	// the low of this candle clears the first candle's high
	d.UpdateMTF(candleAt(t0, 3, 103, 104, 102.5, 104), types.DirectionNone)

	require.Len(t, d.Gaps, 1)
	g := d.Gaps[0]
	assert.Equal(t, types.DirectionUp, g.Direction)
	assert.Equal(t, 102.5, g.Top)
	assert.Equal(t, 100.5, g.Bottom)
	assert.InDelta(t, 2.0, g.Size, 1e-9)
}

func TestFairValueGapFill(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{ATRWindow: 1, ATRMultiplier: 5, MinGapSize: 0.5})

	d.UpdateMTF(candleAt(t0, 0, 100, 101, 99, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 1, 100, 100.5, 99.5, 100), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 2, 100, 101, 100, 101), types.DirectionNone)
	d.UpdateMTF(candleAt(t0, 3, 103, 104, 102.5, 104), types.DirectionNone)
	require.Len(t, d.Gaps, 1)

	// full retrace to the gap bottom fills and prunes it
	d.UpdateMTF(candleAt(t0, 4, 103, 103.5, 100.4, 101), types.DirectionNone)
	assert.Empty(t, d.Gaps)
}

func TestEqualLevel(t *testing.T) {
	d := NewDetector(DefaultOptions())
	now := time.Now()

	d.Swings = []SwingPoint{
		{Kind: SwingHigh, Price: 105.00, Time: now},
		{Kind: SwingLow, Price: 100.00, Time: now},
		{Kind: SwingHigh, Price: 105.02, Time: now},
	}

	level, ok := d.EqualLevel(SwingHigh, 0.05)
	require.True(t, ok)
	assert.Equal(t, 105.02, level)

	_, ok = d.EqualLevel(SwingHigh, 0.01)
	assert.False(t, ok)

	_, ok = d.EqualLevel(SwingLow, 0.05)
	assert.False(t, ok, "a single low is not a cluster")
}

func TestStructureBreakLifecycle(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(Options{SwingLookback: 2, ATRWindow: 14})

	lows := []float64{10, 11, 15, 11, 10}
	highs := []float64{11, 12, 16, 12, 11}
	for i := range lows {
		d.UpdateMTF(candleAt(t0, i, lows[i], highs[i], lows[i], lows[i]+0.5), types.DirectionNone)
	}
	require.NotNil(t, d.LastSwing(SwingHigh))
	assert.Nil(t, d.Break(types.DirectionUp))

	// a close above the swing high under bullish bias records the break
	d.UpdateMTF(candleAt(t0, 5, 15, 17, 15, 16.5), types.DirectionUp)
	br := d.Break(types.DirectionUp)
	require.NotNil(t, br)
	assert.Equal(t, 16.0, br.Level)
	assert.True(t, br.Confirmed)

	d.ConsumeBreak(types.DirectionUp)
	assert.Nil(t, d.Break(types.DirectionUp))
}

func TestMarkByIdentityAfterPrune(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := NewDetector(DefaultOptions())

	d.OrderBlocks = []OrderBlock{
		{Direction: types.DirectionUp, High: 96, Low: 95, Score: 70, Time: t0, Mitigated: true},
		{Direction: types.DirectionUp, High: 101, Low: 99, Score: 80, Time: t0.Add(time.Hour)},
	}
	d.Gaps = []FairValueGap{
		{Direction: types.DirectionDown, Top: 104, Bottom: 103, Size: 1, Time: t0, Filled: true},
		{Direction: types.DirectionUp, Top: 98, Bottom: 97, Size: 1, Time: t0.Add(time.Hour)},
	}
	d.Swings = []SwingPoint{
		{Kind: SwingLow, Price: 95, Time: t0},
		{Kind: SwingLow, Price: 97, Time: t0.Add(time.Hour)},
	}

	d.prune(t0.Add(2 * time.Hour))
	require.Len(t, d.OrderBlocks, 1, "the mitigated block leaves the arena")
	require.Len(t, d.Gaps, 1)

	// the survivors moved to index 0; identity lookups still land on them
	assert.True(t, d.MarkOrderBlockUsed(t0.Add(time.Hour), types.DirectionUp))
	assert.True(t, d.OrderBlocks[0].Used)

	assert.True(t, d.MarkGapFilled(t0.Add(time.Hour), types.DirectionUp))
	assert.True(t, d.Gaps[0].Filled)

	assert.True(t, d.MarkSwingSwept(t0.Add(time.Hour), SwingLow))
	assert.True(t, d.Swings[1].Swept)
	assert.False(t, d.Swings[0].Swept)

	// pruned identities report false instead of touching a survivor
	assert.False(t, d.MarkOrderBlockUsed(t0, types.DirectionUp))
	assert.False(t, d.MarkGapFilled(t0, types.DirectionDown))
	assert.False(t, d.MarkSwingSwept(t0.Add(3*time.Hour), SwingLow))
}
