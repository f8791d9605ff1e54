package indicator

import "github.com/tradewindlabs/smcbt/pkg/types"

// EWMA is the standard exponential moving average.
type EWMA struct {
	Window int

	Values types.Float64Slice
}

func NewEWMA(window int) *EWMA {
	return &EWMA{Window: window}
}

func (inc *EWMA) Update(value float64) {
	multiplier := 2.0 / float64(1+inc.Window)

	if len(inc.Values) == 0 {
		inc.Values.Push(value)
		return
	}

	ema := (1-multiplier)*inc.Last() + multiplier*value
	inc.Values.Push(ema)
}

func (inc *EWMA) Last() float64 {
	return inc.Values.Last(0)
}

func (inc *EWMA) Index(i int) float64 {
	return inc.Values.Last(i)
}

func (inc *EWMA) Length() int {
	return len(inc.Values)
}

// Ready reports whether enough samples were seen for the average to be
// meaningful.
func (inc *EWMA) Ready() bool {
	return len(inc.Values) >= inc.Window
}

// Slope is the difference between the last two values, positive when the
// average is rising.
func (inc *EWMA) Slope() float64 {
	if len(inc.Values) < 2 {
		return 0
	}
	return inc.Values.Last(0) - inc.Values.Last(1)
}
