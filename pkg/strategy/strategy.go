package strategy

import (
	"github.com/pkg/errors"

	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/structure"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// Context is everything a generator may read for one evaluation. It is
// rebuilt by the engine per LTF candle; generators never retain it.
type Context struct {
	// Index is the position of Candle within the LTF series.
	Index int

	// Candle is the LTF candle that just closed.
	Candle types.Candle

	// Candles are the LTF candles up to and including Candle.
	Candles types.CandleSlice

	// Bias is the higher-timeframe directional bias.
	Bias types.Direction

	// ATR is the current MTF average true range. The engine never calls
	// a generator with a zero ATR.
	ATR float64

	Detector *structure.Detector
	Session  *structure.SessionState

	Config *config.Strategy
	Market types.Market
}

// Candidate is a raw directional trade proposal. The take-profit is
// intentionally absent: it is derived centrally from the fixed RR, so
// risk/reward framing never varies per strategy.
type Candidate struct {
	Direction types.Direction
	Entry     float64
	StopLoss  float64

	// Tag names the structure that produced the candidate, for logs.
	Tag string

	// Consume marks the originating structure as used. The engine calls
	// it once, after the candidate actually becomes a position; filtered
	// candidates leave the structure untouched.
	Consume func()
}

// Generator is one strategy variant. Implementations are pure: given the
// same context they return the same candidate, and they only mutate
// detector state through Candidate.Consume.
type Generator interface {
	Name() string
	Generate(ctx *Context) *Candidate
}

// New returns the generator for a variant. The variant set is closed;
// an unknown value is a configuration error, not an extension point.
func New(v config.Variant) (Generator, error) {
	switch v {
	case config.VariantOrderBlock:
		return &OrderBlockStrategy{}, nil
	case config.VariantFVG:
		return &FVGStrategy{}, nil
	case config.VariantLiquiditySweep:
		return &LiquiditySweepStrategy{}, nil
	case config.VariantBOSPullback:
		return &BOSPullbackStrategy{}, nil
	case config.VariantCHoCH:
		return &CHoCHStrategy{}, nil
	case config.VariantFakeBreakout:
		return &FakeBreakoutStrategy{}, nil
	case config.VariantEqualLevelSweep:
		return &EqualLevelSweepStrategy{}, nil
	case config.VariantFailedBreak:
		return &FailedBreakStrategy{}, nil
	case config.VariantEMATrend:
		return &EMATrendStrategy{}, nil
	case config.VariantClimaxReversal:
		return &ClimaxReversalStrategy{}, nil
	case config.VariantOpeningRange:
		return &OpeningRangeStrategy{}, nil
	case config.VariantVWAPReversion:
		return &VWAPReversionStrategy{}, nil
	case config.VariantBollSqueeze:
		return &BollSqueezeStrategy{}, nil
	case config.VariantAbsorption:
		return &AbsorptionStrategy{}, nil
	case config.VariantAsianFade:
		return &AsianFadeStrategy{}, nil
	case config.VariantVolumeDivergence:
		return &VolumeDivergenceStrategy{}, nil
	case config.VariantRangeFade:
		return &RangeFadeStrategy{}, nil
	}
	return nil, errors.Errorf("no generator registered for variant %q", v)
}
