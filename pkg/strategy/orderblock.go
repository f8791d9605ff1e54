package strategy

import (
	"fmt"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// OrderBlockStrategy enters when price trades back into an unused,
// unmitigated, score-qualifying block that matches the bias.
type OrderBlockStrategy struct{}

func (s *OrderBlockStrategy) Name() string { return "orderblock" }

func (s *OrderBlockStrategy) Generate(ctx *Context) *Candidate {
	price := ctx.Candle.Close
	det := ctx.Detector

	for i := range det.OrderBlocks {
		ob := &det.OrderBlocks[i]
		if ob.Used || ob.Mitigated {
			continue
		}
		if ob.Direction != ctx.Bias {
			continue
		}
		if ob.Score < ctx.Config.MinOBScore {
			continue
		}
		if !ob.Contains(price, 0.5) {
			continue
		}

		buffer := ob.Width() * 0.2
		var stop float64
		if ob.Direction == types.DirectionUp {
			stop = ob.Low - buffer
		} else {
			stop = ob.High + buffer
		}

		seeded, dir := ob.Time, ob.Direction
		return &Candidate{
			Direction: dir,
			Entry:     price,
			StopLoss:  stop,
			Tag:       fmt.Sprintf("OB score=%.0f", ob.Score),
			Consume:   func() { det.MarkOrderBlockUsed(seeded, dir) },
		}
	}

	return nil
}
