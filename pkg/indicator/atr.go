package indicator

import (
	"math"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// ATR is the classic Wilder average true range over a fixed window.
type ATR struct {
	Window int

	Values types.Float64Slice

	previousClose float64
	rma           *RMA
}

func NewATR(window int) *ATR {
	return &ATR{
		Window: window,
		rma:    &RMA{Window: window, Adjust: true},
	}
}

func (inc *ATR) Update(high, low, cloze float64) {
	if inc.Window <= 0 {
		panic("atr window must be greater than 0")
	}

	if inc.previousClose == 0 {
		inc.previousClose = cloze
		return
	}

	trueRange := types.Float64Slice{
		high - low,
		math.Abs(high - inc.previousClose),
		math.Abs(low - inc.previousClose),
	}.Max()

	inc.previousClose = cloze

	inc.rma.Update(trueRange)
	inc.Values.Push(inc.rma.Last())
}

func (inc *ATR) UpdateCandle(c types.Candle) {
	inc.Update(c.High, c.Low, c.Close)
}

// Last returns the latest ATR value, 0 while the indicator is warming up.
func (inc *ATR) Last() float64 {
	if len(inc.Values) < inc.Window {
		return 0
	}
	return inc.Values.Last(0)
}

func (inc *ATR) Index(i int) float64 {
	return inc.Values.Last(i)
}

func (inc *ATR) Length() int {
	return len(inc.Values)
}
