package structure

import (
	"math"
	"time"

	"github.com/tradewindlabs/smcbt/pkg/indicator"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

type Options struct {
	ATRWindow     int
	SwingLookback int

	// ATRMultiplier scales the displacement required to seed an order
	// block, MinGapSize the minimal fair value gap, both in ATR units.
	ATRMultiplier float64
	MinGapSize    float64

	// MaxAge prunes order blocks and gaps that were never touched.
	MaxAge time.Duration

	// MaxSwings caps the retained swing history.
	MaxSwings int
}

func DefaultOptions() Options {
	return Options{
		ATRWindow:     14,
		SwingLookback: 5,
		ATRMultiplier: 1.5,
		MinGapSize:    0.5,
		MaxAge:        72 * time.Hour,
		MaxSwings:     60,
	}
}

// Detector maintains the rolling market-structure state over the MTF
// series: swings, order blocks, fair value gaps and structure breaks.
// The engine owns exactly one detector per run and is the only mutator.
type Detector struct {
	opts Options

	atr     *indicator.ATR
	candles types.CandleSlice

	Swings      []SwingPoint
	OrderBlocks []OrderBlock
	Gaps        []FairValueGap

	bullBreak *StructureBreak
	bearBreak *StructureBreak
}

func NewDetector(opts Options) *Detector {
	if opts.ATRWindow <= 0 {
		opts.ATRWindow = 14
	}
	if opts.SwingLookback <= 0 {
		opts.SwingLookback = 5
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 72 * time.Hour
	}
	if opts.MaxSwings <= 0 {
		opts.MaxSwings = 60
	}
	return &Detector{
		opts: opts,
		atr:  indicator.NewATR(opts.ATRWindow),
	}
}

// ATR returns the current MTF average true range, 0 while warming up.
// Signal evaluation halts on a zero ATR.
func (d *Detector) ATR() float64 {
	return d.atr.Last()
}

func (d *Detector) Candles() types.CandleSlice {
	return d.candles
}

// UpdateMTF folds one newly closed MTF candle into the detector state.
func (d *Detector) UpdateMTF(c types.Candle, bias types.Direction) {
	d.candles = append(d.candles, c)
	d.atr.UpdateCandle(c)

	d.detectSwing()
	d.detectOrderBlock()
	d.detectGap()
	d.detectBreak(c, bias)
	d.refreshStates(c)
	d.prune(c.StartTime)
}

// detectSwing checks whether the candle that just moved out of the
// lookback shadow is a strict local extremum on both sides.
func (d *Detector) detectSwing() {
	lb := d.opts.SwingLookback
	n := len(d.candles)
	if n < 2*lb+1 {
		return
	}

	i := n - 1 - lb
	pivot := d.candles[i]

	isHigh, isLow := true, true
	for j := i - lb; j <= i+lb; j++ {
		if j == i {
			continue
		}
		if d.candles[j].High >= pivot.High {
			isHigh = false
		}
		if d.candles[j].Low <= pivot.Low {
			isLow = false
		}
	}

	if isHigh {
		d.Swings = append(d.Swings, SwingPoint{Kind: SwingHigh, Price: pivot.High, Time: pivot.StartTime})
	}
	if isLow {
		d.Swings = append(d.Swings, SwingPoint{Kind: SwingLow, Price: pivot.Low, Time: pivot.StartTime})
	}
}

// detectOrderBlock seeds a block when a candle is followed by a
// two-candle displacement move beyond ATRMultiplier × ATR.
func (d *Detector) detectOrderBlock() {
	atr := d.atr.Last()
	n := len(d.candles)
	if atr <= 0 || n < 3 {
		return
	}

	seed := d.candles[n-3]
	last := d.candles[n-1]
	threshold := d.opts.ATRMultiplier * atr

	var dir types.Direction
	var move float64
	if seed.IsBearish() && last.Close-seed.Close >= threshold {
		dir = types.DirectionUp
		move = last.Close - seed.Close
	} else if seed.IsBullish() && seed.Close-last.Close >= threshold {
		dir = types.DirectionDown
		move = seed.Close - last.Close
	} else {
		return
	}

	mid := seed.Mid()
	for i := range d.OrderBlocks {
		ob := &d.OrderBlocks[i]
		if ob.Direction == dir && math.Abs(ob.Mid()-mid) < 0.5*atr {
			return
		}
	}

	score := 50.0
	if seed.BodyRatio() > 0.6 {
		score += 15
	}
	score += 10 // fresh at creation
	if d.nearSwing(dir, mid, atr) {
		score += 15
	}
	if move >= 1.5*threshold {
		score += 10
	}
	if score > 100 {
		score = 100
	}

	d.OrderBlocks = append(d.OrderBlocks, OrderBlock{
		Direction: dir,
		High:      seed.High,
		Low:       seed.Low,
		Time:      seed.StartTime,
		Score:     score,
	})
}

// nearSwing reports whether a prior swing of matching polarity sits
// within one ATR of the zone mid: a swing low under a bullish block, a
// swing high over a bearish one.
func (d *Detector) nearSwing(dir types.Direction, price, atr float64) bool {
	want := SwingLow
	if dir == types.DirectionDown {
		want = SwingHigh
	}
	for i := range d.Swings {
		sp := &d.Swings[i]
		if sp.Kind == want && math.Abs(sp.Price-price) <= atr {
			return true
		}
	}
	return false
}

// detectGap looks for the classic three-candle imbalance.
func (d *Detector) detectGap() {
	atr := d.atr.Last()
	n := len(d.candles)
	if atr <= 0 || n < 3 {
		return
	}

	c1 := d.candles[n-3]
	c3 := d.candles[n-1]
	minSize := d.opts.MinGapSize * atr

	var gap FairValueGap
	if c3.Low > c1.High && c3.Low-c1.High >= minSize {
		gap = FairValueGap{
			Direction: types.DirectionUp,
			Top:       c3.Low,
			Bottom:    c1.High,
			Size:      c3.Low - c1.High,
			Time:      c3.StartTime,
		}
	} else if c3.High < c1.Low && c1.Low-c3.High >= minSize {
		gap = FairValueGap{
			Direction: types.DirectionDown,
			Top:       c1.Low,
			Bottom:    c3.High,
			Size:      c1.Low - c3.High,
			Time:      c3.StartTime,
		}
	} else {
		return
	}

	mid := (gap.Top + gap.Bottom) / 2
	for i := range d.Gaps {
		g := &d.Gaps[i]
		if g.Direction == gap.Direction && math.Abs((g.Top+g.Bottom)/2-mid) < 0.5*atr {
			return
		}
	}

	d.Gaps = append(d.Gaps, gap)
}

// detectBreak records a close beyond the most recent swing in the bias
// direction. At most one live break per direction.
func (d *Detector) detectBreak(c types.Candle, bias types.Direction) {
	switch bias {
	case types.DirectionUp:
		if d.bullBreak != nil {
			return
		}
		if sp := d.LastSwing(SwingHigh); sp != nil && c.Close > sp.Price {
			d.bullBreak = &StructureBreak{
				Direction: types.DirectionUp,
				Level:     sp.Price,
				Time:      c.StartTime,
				Confirmed: true,
			}
		}

	case types.DirectionDown:
		if d.bearBreak != nil {
			return
		}
		if sp := d.LastSwing(SwingLow); sp != nil && c.Close < sp.Price {
			d.bearBreak = &StructureBreak{
				Direction: types.DirectionDown,
				Level:     sp.Price,
				Time:      c.StartTime,
				Confirmed: true,
			}
		}
	}
}

// refreshStates flips mitigation and fill flags from plain price action.
func (d *Detector) refreshStates(c types.Candle) {
	for i := range d.OrderBlocks {
		ob := &d.OrderBlocks[i]
		if ob.Mitigated || ob.Used {
			continue
		}
		if ob.Direction == types.DirectionUp && c.Close < ob.Low {
			ob.Mitigated = true
		} else if ob.Direction == types.DirectionDown && c.Close > ob.High {
			ob.Mitigated = true
		}
	}

	for i := range d.Gaps {
		g := &d.Gaps[i]
		if g.Filled {
			continue
		}
		if g.Direction == types.DirectionUp && c.Low <= g.Bottom {
			g.Filled = true
		} else if g.Direction == types.DirectionDown && c.High >= g.Top {
			g.Filled = true
		}
	}
}

// prune is the single garbage-collection pass: consumed or aged entities
// leave the arena here, nowhere else.
func (d *Detector) prune(now time.Time) {
	keptOB := d.OrderBlocks[:0]
	for _, ob := range d.OrderBlocks {
		if ob.Used || ob.Mitigated || now.Sub(ob.Time) > d.opts.MaxAge {
			continue
		}
		keptOB = append(keptOB, ob)
	}
	d.OrderBlocks = keptOB

	keptGaps := d.Gaps[:0]
	for _, g := range d.Gaps {
		if g.Filled || now.Sub(g.Time) > d.opts.MaxAge {
			continue
		}
		keptGaps = append(keptGaps, g)
	}
	d.Gaps = keptGaps

	if len(d.Swings) > d.opts.MaxSwings {
		d.Swings = d.Swings[len(d.Swings)-d.opts.MaxSwings:]
	}
}

// LastSwing returns the most recent swing of the given kind, swept or
// not, nil when none exists.
func (d *Detector) LastSwing(kind SwingKind) *SwingPoint {
	for i := len(d.Swings) - 1; i >= 0; i-- {
		if d.Swings[i].Kind == kind {
			return &d.Swings[i]
		}
	}
	return nil
}

// LastUnsweptSwing returns the most recent swing of the given kind that
// no signal has consumed yet.
func (d *Detector) LastUnsweptSwing(kind SwingKind) *SwingPoint {
	for i := len(d.Swings) - 1; i >= 0; i-- {
		if d.Swings[i].Kind == kind && !d.Swings[i].Swept {
			return &d.Swings[i]
		}
	}
	return nil
}

// RecentSwings returns up to n most recent swings of the given kind,
// newest first.
func (d *Detector) RecentSwings(kind SwingKind, n int) []*SwingPoint {
	var out []*SwingPoint
	for i := len(d.Swings) - 1; i >= 0 && len(out) < n; i-- {
		if d.Swings[i].Kind == kind {
			out = append(out, &d.Swings[i])
		}
	}
	return out
}

// EqualLevel finds a cluster of two or more swings of the same kind
// within tolerance of each other and returns the cluster level.
func (d *Detector) EqualLevel(kind SwingKind, tolerance float64) (float64, bool) {
	swings := d.RecentSwings(kind, 10)
	for i := 0; i < len(swings); i++ {
		for j := i + 1; j < len(swings); j++ {
			if math.Abs(swings[i].Price-swings[j].Price) <= tolerance {
				if kind == SwingHigh {
					return math.Max(swings[i].Price, swings[j].Price), true
				}
				return math.Min(swings[i].Price, swings[j].Price), true
			}
		}
	}
	return 0, false
}

// Break returns the live structure break for the direction, nil if none.
func (d *Detector) Break(dir types.Direction) *StructureBreak {
	if dir == types.DirectionUp {
		return d.bullBreak
	}
	return d.bearBreak
}

// ConsumeBreak clears the live break after it triggered a pullback
// entry, freeing the slot for the next one.
func (d *Detector) ConsumeBreak(dir types.Direction) {
	if dir == types.DirectionUp {
		d.bullBreak = nil
	} else {
		d.bearBreak = nil
	}
}

// A signal parked for confirmation fires its Consume hook candles after
// Generate ran, and prune may have compacted the entity slices in
// between. Deferred consumers therefore address entities by identity
// (creation time plus polarity), never by element pointer.

// MarkOrderBlockUsed consumes the block seeded at t with the given
// direction. Returns false when the block has already left the arena.
func (d *Detector) MarkOrderBlockUsed(t time.Time, dir types.Direction) bool {
	for i := range d.OrderBlocks {
		ob := &d.OrderBlocks[i]
		if ob.Direction == dir && ob.Time.Equal(t) {
			ob.Used = true
			return true
		}
	}
	return false
}

// MarkGapFilled consumes the gap created at t with the given direction.
func (d *Detector) MarkGapFilled(t time.Time, dir types.Direction) bool {
	for i := range d.Gaps {
		g := &d.Gaps[i]
		if g.Direction == dir && g.Time.Equal(t) {
			g.Filled = true
			return true
		}
	}
	return false
}

// MarkSwingSwept consumes the swing printed at t of the given kind.
func (d *Detector) MarkSwingSwept(t time.Time, kind SwingKind) bool {
	for i := range d.Swings {
		sp := &d.Swings[i]
		if sp.Kind == kind && sp.Time.Equal(t) {
			sp.Swept = true
			return true
		}
	}
	return false
}

// Reset clears every collection for a fresh run.
func (d *Detector) Reset() {
	d.atr = indicator.NewATR(d.opts.ATRWindow)
	d.candles = nil
	d.Swings = nil
	d.OrderBlocks = nil
	d.Gaps = nil
	d.bullBreak = nil
	d.bearBreak = nil
}
