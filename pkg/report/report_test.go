package report

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tradewindlabs/smcbt/pkg/backtest"
	"github.com/tradewindlabs/smcbt/pkg/config"
)

func TestRenderBatchTable(t *testing.T) {
	results := []backtest.BatchResult{
		{
			Preset:  config.Preset{Name: "loser"},
			Metrics: &backtest.Metrics{Symbol: "EURUSD", Variant: config.VariantFVG, NetProfit: -50},
		},
		{
			Preset:  config.Preset{Name: "winner"},
			Metrics: &backtest.Metrics{Symbol: "BTCUSDT", Variant: config.VariantOrderBlock, NetProfit: 120},
		},
		{
			Preset: config.Preset{Name: "broken"},
			Err:    errors.New("missing data file"),
		},
	}

	var buf bytes.Buffer
	RenderBatchTable(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "winner")
	assert.Contains(t, out, "loser")
	assert.Contains(t, out, "missing data file")

	// sorted by net profit descending
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("winner")), bytes.Index(buf.Bytes(), []byte("loser")))
}
