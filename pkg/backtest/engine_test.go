package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/strategy"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

type stubGenerator struct {
	sig *strategy.Candidate
}

func (s stubGenerator) Name() string { return "stub" }

func (s stubGenerator) Generate(*strategy.Context) *strategy.Candidate {
	return s.sig
}

func warmDetector(e *Engine) {
	for i := 0; i < 16; i++ {
		e.det.UpdateMTF(types.Candle{
			StartTime: testStart.Add(time.Duration(i-16) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100,
			Volume: 100,
		}, types.DirectionNone)
	}
}

func seedLTF(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.ltf = append(e.ltf, bar(i, 100, 101, 99, 100))
	}
}

func flatSeries(n int, interval time.Duration) types.CandleSlice {
	var s types.CandleSlice
	for i := 0; i < n; i++ {
		s = append(s, types.Candle{
			StartTime: testStart.Add(time.Duration(i) * interval),
			Open:      100, High: 101, Low: 99, Close: 100,
			Volume: 100,
		})
	}
	return s
}

func TestOpenPositionSizingAndTarget(t *testing.T) {
	e, err := NewEngine(config.Defaults())
	require.NoError(t, err)
	e.reset()
	e.slippage = NoSlippage{}

	consumed := false
	sig := &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     1.1000,
		StopLoss:  1.0950,
		Tag:       "test",
		Consume:   func() { consumed = true },
	}
	e.openPosition(sig, bar(0, 1.0995, 1.1005, 1.0990, 1.1000), 0)

	require.NotNil(t, e.position)
	p := e.position

	// one pip of spread on the EURUSD default market
	assert.InDelta(t, 1.1001, p.Entry, 1e-9)

	// 1% of 10000 risked over a 51 pip stop on a 100k contract
	assert.InDelta(t, 0.20, p.LotSize, 1e-9)

	// the target is always entry plus fixedRR times the stop distance
	dist := p.Entry - p.StopLoss
	assert.InDelta(t, p.Entry+2*dist, p.TakeProfit, 1e-9)
	assert.InDelta(t, 1.1103, p.TakeProfit, 1e-9)

	assert.True(t, consumed)
}

func TestOpenPositionRejectsDustLots(t *testing.T) {
	e, err := NewEngine(config.Defaults())
	require.NoError(t, err)
	e.reset()

	consumed := false
	sig := &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     1.1000,
		StopLoss:  0.8000,
		Consume:   func() { consumed = true },
	}
	e.openPosition(sig, bar(0, 1.0995, 1.1005, 1.0990, 1.1000), 0)

	assert.Nil(t, e.position, "stop too wide to size within the risk budget")
	assert.False(t, consumed, "a discarded candidate must not consume its structure")
}

func TestEvaluateEntryRejectsWrongSideStop(t *testing.T) {
	e := newTestEngine(t, nil)
	warmDetector(e)
	seedLTF(e, 10)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  101, // stop above a long entry
	}}

	e.evaluateEntry(bar(9, 100, 101, 99, 100), 9)
	assert.Nil(t, e.position)
}

func TestCooldownBlocksEntry(t *testing.T) {
	e := newTestEngine(t, nil)
	warmDetector(e)
	seedLTF(e, 20)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
	}}
	e.lastExitIndex = 10

	e.evaluateEntry(bar(12, 100, 101, 99, 100), 12)
	assert.Nil(t, e.position, "12 is within the 4 candle cooldown after 10")

	e.evaluateEntry(bar(14, 100, 101, 99, 100), 14)
	assert.NotNil(t, e.position)
}

func TestKillZoneGate(t *testing.T) {
	e := newTestEngine(t, func(c *config.Strategy) {
		c.UseKillZones = true
	})
	warmDetector(e)
	seedLTF(e, 10)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
	}}

	deadZone := types.Candle{
		StartTime: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		Open:      100, High: 101, Low: 99, Close: 100, Volume: 100,
	}
	e.evaluateEntry(deadZone, 9)
	assert.Nil(t, e.position)

	london := types.Candle{
		StartTime: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Open:      100, High: 101, Low: 99, Close: 100, Volume: 100,
	}
	e.evaluateEntry(london, 9)
	assert.NotNil(t, e.position)
}

func TestConfirmationFlow(t *testing.T) {
	e := newTestEngine(t, func(c *config.Strategy) {
		c.Confirmation = &config.Confirmation{
			Enabled: true,
			Type:    config.ConfirmationClose,
			MaxAge:  types.Duration(4 * time.Hour),
		}
	})
	warmDetector(e)
	seedLTF(e, 10)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
		Tag:       "test",
	}}

	e.evaluateEntry(bar(5, 100, 101, 99, 100), 5)
	require.Nil(t, e.position)
	require.NotNil(t, e.pending, "signal parks awaiting confirmation")

	// a close below the entry does not confirm a long
	e.checkPending(bar(6, 100, 100.4, 99.6, 99.8), 6)
	require.NotNil(t, e.pending)
	require.Nil(t, e.position)

	// a close above the entry confirms; execution is repriced there
	e.checkPending(bar(7, 100, 101, 99.9, 100.6), 7)
	require.Nil(t, e.pending)
	require.NotNil(t, e.position)
	assert.InDelta(t, 100.6, e.position.Entry, 1e-9)
}

func TestConfirmationExpiry(t *testing.T) {
	e := newTestEngine(t, func(c *config.Strategy) {
		c.Confirmation = &config.Confirmation{
			Enabled: true,
			Type:    config.ConfirmationClose,
			MaxAge:  types.Duration(time.Hour),
		}
	})
	warmDetector(e)
	seedLTF(e, 10)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
	}}

	e.evaluateEntry(bar(5, 100, 101, 99, 100), 5)
	require.NotNil(t, e.pending)

	stale := types.Candle{
		StartTime: testStart.Add(6 * time.Hour),
		Open:      100, High: 102, Low: 99, Close: 101.5,
		Volume: 100,
	}
	e.checkPending(stale, 9)
	assert.Nil(t, e.pending, "a pending signal past its age is dropped, not filled")
	assert.Nil(t, e.position)
}

type fireOnceGenerator struct {
	index int
	stop  float64 // entry-to-stop distance
}

func (g fireOnceGenerator) Name() string { return "fireonce" }

func (g fireOnceGenerator) Generate(ctx *strategy.Context) *strategy.Candidate {
	if ctx.Index != g.index {
		return nil
	}
	return &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     ctx.Candle.Close,
		StopLoss:  ctx.Candle.Close - g.stop,
		Tag:       "fireonce",
	}
}

func risingSeries(n int, interval time.Duration) types.CandleSlice {
	var s types.CandleSlice
	for i := 0; i < n; i++ {
		open := 100 + 0.2*float64(i)
		s = append(s, types.Candle{
			StartTime: testStart.Add(time.Duration(i) * interval),
			Open:      open, High: open + 0.25, Low: open - 0.05, Close: open + 0.2,
			Volume: 100,
		})
	}
	return s
}

func TestRunSingleBuyScenario(t *testing.T) {
	cfg := config.Defaults()
	cfg.InitialBalance = 1000
	cfg.RiskPercent = 2
	cfg.Market = &types.Market{
		Symbol:       "TEST",
		PipSize:      0.01,
		ContractSize: 1,
		MinVolume:    0.01,
		MinStopPips:  1,
	}

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	e.gen = fireOnceGenerator{index: 110, stop: 1}

	m, err := e.Run(nil, flatSeries(200, time.Hour), risingSeries(130, 15*time.Minute))
	require.NoError(t, err)

	require.Equal(t, 1, m.TotalTrades, "exactly one BUY trade")
	trade := m.Trades[0]
	assert.Equal(t, types.DirectionUp, trade.Direction)
	assert.Equal(t, types.ExitReasonTakeProfit, trade.Reason)

	// the target is always derived as entry plus fixedRR times risk
	dist := trade.Entry - trade.OriginalStopLoss
	assert.InDelta(t, trade.Entry+2*dist, trade.TakeProfit, 1e-9)
	assert.InDelta(t, trade.TakeProfit, trade.Exit, 1e-9)

	// 2% of 1000 over a 1.0 stop distance on a unit contract
	assert.InDelta(t, 20.0, trade.OriginalLotSize, 1e-9)
	assert.InDelta(t, 1040.0, m.FinalBalance, 1e-9)
}

func TestUnreachableScoreProducesNoTrades(t *testing.T) {
	cfg := config.Defaults()
	cfg.Variant = config.VariantOrderBlock
	cfg.MinOBScore = 101 // scores cap at 100

	m, err := Run(
		flatSeries(60, 4*time.Hour),
		risingSeries(200, time.Hour),
		risingSeries(400, 15*time.Minute),
		cfg,
	)
	require.NoError(t, err)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 10000.0, m.FinalBalance)
}

func TestDailyLockSuppressesEntriesUntilNextDay(t *testing.T) {
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	series := func(n int, interval time.Duration) types.CandleSlice {
		var s types.CandleSlice
		for i := 0; i < n; i++ {
			s = append(s, types.Candle{
				StartTime: midnight.Add(time.Duration(i) * interval),
				Open:      100, High: 101, Low: 99, Close: 100,
				Volume: 100,
			})
		}
		return s
	}

	// each stop-out loses ~6% of the balance, past the 5% daily limit
	e := newTestEngine(t, func(c *config.Strategy) {
		c.RiskPercent = 6
	})
	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
	}}

	m, err := e.Run(nil, series(60, time.Hour), series(200, 15*time.Minute))
	require.NoError(t, err)

	// the generator fires on every candle, yet after each losing trade
	// the day lock holds every entry back until the next UTC midnight
	require.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 1, m.Trades[0].ExitTime.Day())
	assert.Equal(t, midnight.AddDate(0, 0, 1), m.Trades[1].EntryTime)
	assert.Equal(t, midnight.AddDate(0, 0, 2), m.Trades[2].EntryTime)
	for _, trade := range m.Trades {
		assert.Equal(t, types.ExitReasonStopLoss, trade.Reason)
	}
}

func TestPendingSignalDiscardedWhenLocked(t *testing.T) {
	e := newTestEngine(t, func(c *config.Strategy) {
		c.Confirmation = &config.Confirmation{
			Enabled: true,
			Type:    config.ConfirmationClose,
			MaxAge:  types.Duration(4 * time.Hour),
		}
	})
	warmDetector(e)
	seedLTF(e, 10)

	e.gen = stubGenerator{sig: &strategy.Candidate{
		Direction: types.DirectionUp,
		Entry:     100,
		StopLoss:  99,
	}}

	e.evaluateEntry(bar(5, 100, 101, 99, 100), 5)
	require.NotNil(t, e.pending)

	// the day locks while the signal is parked; a confirming close must
	// drop the signal instead of opening
	e.daily.Locked = true
	e.checkPending(bar(6, 100, 101, 99.9, 100.6), 6)
	assert.Nil(t, e.pending)
	assert.Nil(t, e.position)
}

func TestRunRejectsUnsortedInput(t *testing.T) {
	e, err := NewEngine(config.Defaults())
	require.NoError(t, err)

	ltf := flatSeries(120, 15*time.Minute)
	ltf[50].StartTime = ltf[49].StartTime

	_, err = e.Run(nil, nil, ltf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sorted")
}

func TestRunShortSeriesYieldsEmptyMetrics(t *testing.T) {
	e, err := NewEngine(config.Defaults())
	require.NoError(t, err)

	m, err := e.Run(nil, nil, flatSeries(10, 15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 10000.0, m.FinalBalance)
}

func TestRunFlatSeriesProducesNoTrades(t *testing.T) {
	m, err := Run(
		flatSeries(60, 4*time.Hour),
		flatSeries(200, time.Hour),
		flatSeries(400, 15*time.Minute),
		config.Defaults(),
	)
	require.NoError(t, err)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 10000.0, m.FinalBalance)
}

func TestRunIsDeterministic(t *testing.T) {
	htf := flatSeries(60, 4*time.Hour)
	mtf := flatSeries(200, time.Hour)
	ltf := flatSeries(400, 15*time.Minute)

	e, err := NewEngine(config.Defaults())
	require.NoError(t, err)

	a, err := e.Run(htf, mtf, ltf)
	require.NoError(t, err)
	b, err := e.Run(htf, mtf, ltf)
	require.NoError(t, err)

	require.Equal(t, a, b)
}
