package indicator

import "github.com/tradewindlabs/smcbt/pkg/types"

// SMA is a plain rolling mean over a fixed window.
type SMA struct {
	Window int

	Values types.Float64Slice

	window types.Float64Slice
	sum    float64
}

func NewSMA(window int) *SMA {
	return &SMA{Window: window}
}

func (inc *SMA) Update(value float64) {
	inc.window.Push(value)
	inc.sum += value
	if len(inc.window) > inc.Window {
		inc.sum -= inc.window[0]
		inc.window = inc.window[1:]
	}
	inc.Values.Push(inc.sum / float64(len(inc.window)))
}

func (inc *SMA) Last() float64 {
	return inc.Values.Last(0)
}

func (inc *SMA) Index(i int) float64 {
	return inc.Values.Last(i)
}

func (inc *SMA) Length() int {
	return len(inc.Values)
}

func (inc *SMA) Ready() bool {
	return len(inc.Values) >= inc.Window
}
