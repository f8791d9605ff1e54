package backtest

import "github.com/tradewindlabs/smcbt/pkg/types"

// pricePath reconstructs a deterministic intra-candle traversal from
// OHLC. True tick order is unknowable; the wick-dominance heuristic
// assumes the larger wick was printed first: a candle with a dominant
// lower wick dipped before it rallied, and vice versa. Dojis resolve by
// the same wick comparison. Downstream strategy comparisons depend on
// this tie-breaking staying stable, so the shape must not change
// silently.
func pricePath(c types.Candle) [4]float64 {
	if c.LowerWick() >= c.UpperWick() {
		return [4]float64{c.Open, c.Low, c.High, c.Close}
	}
	return [4]float64{c.Open, c.High, c.Low, c.Close}
}

// nextLevelCrossed finds, among levels, the one crossed first while
// price travels from "from" to "to". Levels exactly at the segment
// boundary count as crossed. Returns the index into levels, or -1.
func nextLevelCrossed(from, to float64, levels []float64) int {
	best := -1
	bestDist := 0.0

	for i, lvl := range levels {
		var crossed bool
		if to >= from {
			crossed = lvl >= from && lvl <= to
		} else {
			crossed = lvl <= from && lvl >= to
		}
		if !crossed {
			continue
		}
		dist := lvl - from
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}

	return best
}
