package backtest

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/indicator"
	"github.com/tradewindlabs/smcbt/pkg/strategy"
	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// minLTFCandles is the minimum series length for a meaningful run.
// Shorter input yields zero-trade metrics instead of an error.
const minLTFCandles = 100

const biasEMAWindow = 50

// Engine replays one LTF series for one (symbol, variant) pair. A run
// is single-threaded and owns all of its state; engines never share
// anything mutable, so batches of runs parallelize without locking.
type Engine struct {
	cfg    *config.Strategy
	market types.Market
	gen    strategy.Generator

	slippage SlippageModel

	det  *structure.Detector
	sess *structure.SessionState

	filterEMA *indicator.EWMA
	biasEMA   *indicator.EWMA

	bias         types.Direction
	lastHTFClose float64

	balance  float64
	position *Position
	pending  *pendingSignal
	daily    DailyTracker

	trades        []types.ClosedTrade
	lastExitIndex int

	ltf types.CandleSlice

	prevCandle    types.Candle
	hasPrevCandle bool
}

type pendingSignal struct {
	candidate *strategy.Candidate
	created   int // LTF index the signal was parked at
	createdAt types.Candle
}

// NewEngine validates the configuration and builds a fresh engine. The
// configuration is copied and immutable for the engine's lifetime.
func NewEngine(cfg *config.Strategy) (*Engine, error) {
	c := *cfg
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid strategy config")
	}

	gen, err := strategy.New(c.Variant)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    &c,
		market: *c.Market,
		gen:    gen,
	}
	return e, nil
}

// Run replays the three time-aligned series and returns the aggregated
// metrics. The engine is fully reset first, so an engine may be reused
// across runs.
func (e *Engine) Run(htf, mtf, ltf types.CandleSlice) (*Metrics, error) {
	e.reset()

	if !htf.SortedByTime() || !mtf.SortedByTime() || !ltf.SortedByTime() {
		return nil, errors.New("candle series must be chronologically sorted with unique timestamps")
	}

	if ltf.Len() < minLTFCandles {
		log.Debugf("%s %s: only %d LTF candles, returning empty metrics",
			e.market.Symbol, e.cfg.Variant, ltf.Len())
		return e.finish(), nil
	}

	e.ltf = ltf

	ltfDur := ltf.Interval()
	mtfDur := mtf.Interval()
	htfDur := htf.Interval()

	htfIdx, mtfIdx := 0, 0

	for i := range ltf {
		c := ltf[i]
		closedBy := c.StartTime.Add(ltfDur)

		for htfIdx < htf.Len() && !htf[htfIdx].StartTime.Add(htfDur).After(closedBy) {
			e.biasEMA.Update(htf[htfIdx].Close)
			e.lastHTFClose = htf[htfIdx].Close
			htfIdx++
		}
		e.updateBias()

		for mtfIdx < mtf.Len() && !mtf[mtfIdx].StartTime.Add(mtfDur).After(closedBy) {
			e.det.UpdateMTF(mtf[mtfIdx], e.bias)
			mtfIdx++
		}

		e.sess.Update(c)
		if e.filterEMA != nil {
			e.filterEMA.Update(c.Close)
		}
		e.daily.Roll(c.StartTime, e.balance)

		if e.position != nil {
			e.managePosition(c, i)
		}
		e.daily.Check(e.balance, e.cfg.MaxDailyDrawdownPercent)

		if e.position == nil {
			if e.pending != nil {
				e.checkPending(c, i)
			} else if !e.daily.Locked {
				e.evaluateEntry(c, i)
			}
		}

		e.prevCandle = c
		e.hasPrevCandle = true
	}

	if e.position != nil {
		last := ltf.Last(0)
		e.closePosition(last.Close, types.ExitReasonEndOfSeries, ltf.Len()-1, last.StartTime)
	}

	return e.finish(), nil
}

func (e *Engine) reset() {
	e.det = structure.NewDetector(structure.Options{
		SwingLookback: e.cfg.SwingLookback,
		ATRMultiplier: e.cfg.ATRMultiplier,
		MinGapSize:    e.cfg.MinGapSize,
	})
	e.sess = structure.NewSessionState()
	e.biasEMA = indicator.NewEWMA(biasEMAWindow)
	e.filterEMA = nil
	if f := e.cfg.EMAFilter; f != nil && f.Enabled {
		e.filterEMA = indicator.NewEWMA(f.Period)
	}
	e.slippage = NewSeededSlippage(e.cfg.SlippageSeed, e.market.PipSize)

	e.bias = types.DirectionNone
	e.lastHTFClose = 0
	e.balance = e.cfg.InitialBalance
	e.position = nil
	e.pending = nil
	e.daily = DailyTracker{}
	e.trades = nil
	e.lastExitIndex = -1
	e.hasPrevCandle = false
	e.ltf = nil
}

func (e *Engine) finish() *Metrics {
	m := ComputeMetrics(e.trades, e.cfg.InitialBalance)
	m.Symbol = e.market.Symbol
	m.Variant = e.cfg.Variant
	return m
}

func (e *Engine) updateBias() {
	if !e.biasEMA.Ready() || e.lastHTFClose == 0 {
		e.bias = types.DirectionNone
		return
	}
	if e.lastHTFClose > e.biasEMA.Last() {
		e.bias = types.DirectionUp
	} else {
		e.bias = types.DirectionDown
	}
}

func (e *Engine) strategyContext(c types.Candle, i int, ltf types.CandleSlice) *strategy.Context {
	return &strategy.Context{
		Index:    i,
		Candle:   c,
		Candles:  ltf,
		Bias:     e.bias,
		ATR:      e.det.ATR(),
		Detector: e.det,
		Session:  e.sess,
		Config:   e.cfg,
		Market:   e.market,
	}
}

// evaluateEntry runs the generator and the filter pipeline for a flat
// engine. Any failing check drops the candidate for this candle; there
// is no retry within the candle.
func (e *Engine) evaluateEntry(c types.Candle, i int) {
	atr := e.det.ATR()
	if atr <= 0 {
		return
	}

	ctx := e.strategyContext(c, i, e.ltfWindow(c, i))

	sig := e.gen.Generate(ctx)
	if sig == nil {
		return
	}

	// stop must sit on the protective side of the entry
	if sig.Direction == types.DirectionUp && sig.StopLoss >= sig.Entry {
		return
	}
	if sig.Direction == types.DirectionDown && sig.StopLoss <= sig.Entry {
		return
	}

	if ok, reason := e.applyFilters(sig, ctx); !ok {
		log.Debugf("%s %s candidate dropped: %s", e.market.Symbol, sig.Tag, reason)
		return
	}

	if conf := e.cfg.Confirmation; conf != nil && conf.Enabled {
		e.pending = &pendingSignal{candidate: sig, created: i, createdAt: c}
		log.Debugf("%s %s parked for confirmation", e.market.Symbol, sig.Tag)
		return
	}

	e.openPosition(sig, c, i)
}

// checkPending confirms, expires or keeps a parked signal.
func (e *Engine) checkPending(c types.Candle, i int) {
	conf := e.cfg.Confirmation
	pend := e.pending

	if c.StartTime.Sub(pend.createdAt.StartTime) > conf.MaxAge.Duration() {
		log.Debugf("%s pending signal expired unconfirmed", e.market.Symbol)
		e.pending = nil
		return
	}

	if !e.confirms(pend.candidate, c, conf.Type) {
		return
	}

	e.pending = nil
	if e.daily.Locked {
		return
	}

	// execution is re-priced at the confirming close, with fresh spread
	// and size
	sig := *pend.candidate
	sig.Entry = c.Close
	e.openPosition(&sig, c, i)
}

func (e *Engine) confirms(sig *strategy.Candidate, c types.Candle, t config.ConfirmationType) bool {
	long := sig.Direction == types.DirectionUp

	switch t {
	case config.ConfirmationClose:
		if long {
			return c.Close > sig.Entry
		}
		return c.Close < sig.Entry

	case config.ConfirmationEngulf:
		if !e.hasPrevCandle || c.Direction() != sig.Direction {
			return false
		}
		prevTop := math.Max(e.prevCandle.Open, e.prevCandle.Close)
		prevBottom := math.Min(e.prevCandle.Open, e.prevCandle.Close)
		top := math.Max(c.Open, c.Close)
		bottom := math.Min(c.Open, c.Close)
		return top >= prevTop && bottom <= prevBottom

	case config.ConfirmationStrong:
		return c.Direction() == sig.Direction && c.BodyRatio() >= 0.6
	}

	return false
}

// openPosition prices, sizes and installs the single live position.
func (e *Engine) openPosition(sig *strategy.Candidate, c types.Candle, i int) {
	spread := e.market.PipsToPrice(e.market.TypicalSpread)
	entry := sig.Entry + sig.Direction.Sign()*spread

	dist := math.Abs(entry - sig.StopLoss)
	if dist <= 0 {
		return
	}

	riskAmount := e.balance * e.cfg.RiskPercent / 100
	lots := round2(riskAmount / (dist * e.market.ContractSize))
	if lots < e.market.MinVolume {
		// stop too wide to size within the risk budget
		log.Debugf("%s %s candidate dropped: lot size %.2f below broker minimum", e.market.Symbol, sig.Tag, lots)
		return
	}

	sign := sig.Direction.Sign()
	p := &Position{
		ID:               uuid.NewString(),
		Direction:        sig.Direction,
		Entry:            entry,
		StopLoss:         sig.StopLoss,
		OriginalStopLoss: sig.StopLoss,
		TakeProfit:       entry + sign*dist*e.cfg.FixedRR,
		LotSize:          lots,
		OriginalLotSize:  lots,
		EntryTime:        c.StartTime,
		EntryIndex:       i,
		Tag:              sig.Tag,
	}
	p.extreme = entry

	if tp := e.cfg.TieredTP; tp != nil && tp.Enabled {
		tiers := tp.Tiers
		p.TP1 = entry + sign*dist*tiers[0].RR
		if len(tiers) > 1 {
			p.TP2 = entry + sign*dist*tiers[1].RR
		}
		if len(tiers) > 2 {
			p.TP3 = entry + sign*dist*tiers[2].RR
		}
	}

	e.position = p
	if sig.Consume != nil {
		sig.Consume()
	}

	log.Debugf("%s open %s %.2f lots @ %.5f sl=%.5f tp=%.5f (%s)",
		e.market.Symbol, sig.Direction, lots, entry, p.StopLoss, p.TakeProfit, sig.Tag)
}

// ltfWindow exposes the LTF candles seen so far to the generators.
func (e *Engine) ltfWindow(c types.Candle, i int) types.CandleSlice {
	return e.ltf[:i+1]
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
