package indicator

import "github.com/tradewindlabs/smcbt/pkg/types"

// RMA is the Wilder smoothed moving average used by ATR.
type RMA struct {
	Window int

	// Adjust averages plainly until the window is full, then switches to
	// the recursive smoothing.
	Adjust bool

	Values types.Float64Slice

	counter int
	sum     float64
	last    float64
}

func (inc *RMA) Update(x float64) {
	lambda := 1 / float64(inc.Window)

	inc.counter++
	if inc.counter <= inc.Window && inc.Adjust {
		inc.sum += x
		inc.last = inc.sum / float64(inc.counter)
	} else {
		inc.last = inc.last*(1-lambda) + x*lambda
	}

	inc.Values.Push(inc.last)
}

func (inc *RMA) Last() float64 {
	return inc.Values.Last(0)
}

func (inc *RMA) Length() int {
	return len(inc.Values)
}
