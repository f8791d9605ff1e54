package backtest

import (
	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// Run is the one-shot entry point: build an engine for cfg and replay
// the three time-aligned series.
func Run(htf, mtf, ltf types.CandleSlice, cfg *config.Strategy) (*Metrics, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Run(htf, mtf, ltf)
}
