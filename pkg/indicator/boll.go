package indicator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// BOLL is the Bollinger band indicator. Bandwidth is tracked alongside
// the bands because squeeze detection ranks it against its own history.
type BOLL struct {
	Window int

	// K is the multiple of the standard deviation, generally 2.
	K float64

	SMA       types.Float64Slice
	StdDev    types.Float64Slice
	UpBand    types.Float64Slice
	DownBand  types.Float64Slice
	Bandwidth types.Float64Slice

	window types.Float64Slice
}

func NewBOLL(window int, k float64) *BOLL {
	return &BOLL{Window: window, K: k}
}

func (inc *BOLL) Update(value float64) {
	inc.window.Push(value)
	if len(inc.window) > inc.Window {
		inc.window = inc.window[1:]
	}
	if len(inc.window) < inc.Window {
		return
	}

	sma := inc.window.Mean()
	std := stat.StdDev(inc.window, nil)
	band := inc.K * std

	inc.SMA.Push(sma)
	inc.StdDev.Push(std)
	inc.UpBand.Push(sma + band)
	inc.DownBand.Push(sma - band)

	if sma != 0 {
		inc.Bandwidth.Push(2 * band / sma)
	} else {
		inc.Bandwidth.Push(0)
	}
}

func (inc *BOLL) Ready() bool {
	return len(inc.SMA) > 0
}

func (inc *BOLL) LastSMA() float64 {
	return inc.SMA.Last(0)
}

func (inc *BOLL) LastUpBand() float64 {
	return inc.UpBand.Last(0)
}

func (inc *BOLL) LastDownBand() float64 {
	return inc.DownBand.Last(0)
}

func (inc *BOLL) LastBandwidth() float64 {
	return inc.Bandwidth.Last(0)
}
