package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// ConfirmationType selects how a deferred signal is confirmed.
type ConfirmationType string

const (
	ConfirmationClose  ConfirmationType = "close"
	ConfirmationEngulf ConfirmationType = "engulf"
	ConfirmationStrong ConfirmationType = "strong"
)

// EMAStrictness selects how hard the EMA trend filter gates entries.
type EMAStrictness string

const (
	// EMAStrictnessPrice requires price on the right side of the EMA.
	EMAStrictnessPrice EMAStrictness = "price"
	// EMAStrictnessSlope additionally requires the EMA slope to agree.
	EMAStrictnessSlope EMAStrictness = "slope"
	// EMAStrictnessDistance additionally requires a minimum distance
	// between price and the EMA, in pips.
	EMAStrictnessDistance EMAStrictness = "distance"
)

type Breakeven struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	TriggerR   float64 `json:"triggerR" yaml:"triggerR"`
	BufferPips float64 `json:"bufferPips" yaml:"bufferPips"`
}

type Trailing struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	ATRMultiple float64 `json:"atrMultiple" yaml:"atrMultiple"`
	ActivationR float64 `json:"activationR" yaml:"activationR"`
}

// TPTier is one partial take-profit level. RR is the level expressed as a
// multiple of the initial risk, Percent the share of the original lot size
// closed when the level fills.
type TPTier struct {
	RR      float64 `json:"rr" yaml:"rr"`
	Percent float64 `json:"percent" yaml:"percent"`
}

type TieredTP struct {
	Enabled       bool     `json:"enabled" yaml:"enabled"`
	Tiers         []TPTier `json:"tiers" yaml:"tiers"`
	MoveStopOnTP1 bool     `json:"moveStopOnTP1" yaml:"moveStopOnTP1"`
	MoveStopOnTP2 bool     `json:"moveStopOnTP2" yaml:"moveStopOnTP2"`
}

type TimeExit struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	MaxCandleHold int  `json:"maxCandleHold" yaml:"maxCandleHold"`
}

type OpposingExit struct {
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	MinScore float64 `json:"minScore" yaml:"minScore"`
}

type Confirmation struct {
	Enabled bool             `json:"enabled" yaml:"enabled"`
	Type    ConfirmationType `json:"type" yaml:"type"`
	// MaxAge is how long a pending signal stays valid before it is
	// discarded unconfirmed.
	MaxAge types.Duration `json:"maxAge" yaml:"maxAge"`
}

type EMAFilter struct {
	Enabled    bool          `json:"enabled" yaml:"enabled"`
	Period     int           `json:"period" yaml:"period"`
	Strictness EMAStrictness `json:"strictness" yaml:"strictness"`
	// MinDistance in pips, only used with EMAStrictnessDistance.
	MinDistance float64 `json:"minDistance" yaml:"minDistance"`
}

// Strategy is the full parameter set for one backtest run. It is
// validated once at engine construction and never mutated afterwards.
type Strategy struct {
	Variant Variant `json:"variant" yaml:"variant"`
	Symbol  string  `json:"symbol" yaml:"symbol"`

	Market *types.Market `json:"market,omitempty" yaml:"market,omitempty"`

	InitialBalance float64 `json:"initialBalance" yaml:"initialBalance"`
	RiskPercent    float64 `json:"riskPercent" yaml:"riskPercent"`

	// FixedRR is the reward target as a multiple of the entry-to-stop
	// distance. Take-profits are always derived from it centrally.
	FixedRR float64 `json:"fixedRR" yaml:"fixedRR"`

	MinOBScore    float64 `json:"minOBScore" yaml:"minOBScore"`
	ATRMultiplier float64 `json:"atrMultiplier" yaml:"atrMultiplier"`
	MinGapSize    float64 `json:"minGapSize" yaml:"minGapSize"`
	SwingLookback int     `json:"swingLookback" yaml:"swingLookback"`

	UseKillZones    bool `json:"useKillZones" yaml:"useKillZones"`
	CooldownCandles int  `json:"cooldownCandles" yaml:"cooldownCandles"`

	MaxDailyDrawdownPercent float64 `json:"maxDailyDrawdownPercent" yaml:"maxDailyDrawdownPercent"`

	RequireOTE          bool    `json:"requireOTE" yaml:"requireOTE"`
	MinConfluence       float64 `json:"minConfluence" yaml:"minConfluence"`
	RequireStrongFVG    bool    `json:"requireStrongFVG" yaml:"requireStrongFVG"`
	RequireInducement   bool    `json:"requireInducement" yaml:"requireInducement"`
	RequireEqualHighLow bool    `json:"requireEqualHighLow" yaml:"requireEqualHighLow"`

	Confirmation *Confirmation `json:"confirmation,omitempty" yaml:"confirmation,omitempty"`
	Breakeven    *Breakeven    `json:"breakeven,omitempty" yaml:"breakeven,omitempty"`
	Trailing     *Trailing     `json:"trailing,omitempty" yaml:"trailing,omitempty"`
	TieredTP     *TieredTP     `json:"tieredTP,omitempty" yaml:"tieredTP,omitempty"`
	TimeExit     *TimeExit     `json:"timeExit,omitempty" yaml:"timeExit,omitempty"`
	OpposingExit *OpposingExit `json:"opposingExit,omitempty" yaml:"opposingExit,omitempty"`
	EMAFilter    *EMAFilter    `json:"emaFilter,omitempty" yaml:"emaFilter,omitempty"`

	// SlippageSeed seeds the stop-fill slippage source so runs are
	// reproducible. Two runs with identical input and seed are
	// byte-identical.
	SlippageSeed int64 `json:"slippageSeed" yaml:"slippageSeed"`
}

// Defaults returns a Strategy populated with the documented defaults.
func Defaults() *Strategy {
	return &Strategy{
		Variant:                 VariantOrderBlock,
		Symbol:                  "EURUSD",
		InitialBalance:          10000,
		RiskPercent:             1,
		FixedRR:                 2,
		MinOBScore:              60,
		ATRMultiplier:           1.5,
		MinGapSize:              0.5,
		SwingLookback:           5,
		MaxDailyDrawdownPercent: 5,
		CooldownCandles:         4,
		SlippageSeed:            1,
	}
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
// Malformed presets degrade to defaults instead of crashing the run.
func (c *Strategy) ApplyDefaults() {
	def := Defaults()
	if c.Variant == "" {
		c.Variant = def.Variant
	}
	if c.Symbol == "" {
		c.Symbol = def.Symbol
	}
	if c.InitialBalance <= 0 {
		c.InitialBalance = def.InitialBalance
	}
	if c.RiskPercent <= 0 {
		c.RiskPercent = def.RiskPercent
	}
	if c.FixedRR <= 0 {
		c.FixedRR = def.FixedRR
	}
	if c.MinOBScore == 0 {
		c.MinOBScore = def.MinOBScore
	}
	if c.ATRMultiplier <= 0 {
		c.ATRMultiplier = def.ATRMultiplier
	}
	if c.MinGapSize <= 0 {
		c.MinGapSize = def.MinGapSize
	}
	if c.SwingLookback <= 0 {
		c.SwingLookback = def.SwingLookback
	}
	if c.MaxDailyDrawdownPercent <= 0 {
		c.MaxDailyDrawdownPercent = def.MaxDailyDrawdownPercent
	}
	if c.CooldownCandles <= 0 {
		c.CooldownCandles = def.CooldownCandles
	}
	if c.SlippageSeed == 0 {
		c.SlippageSeed = def.SlippageSeed
	}
	if c.Market == nil {
		m := types.DefaultMarket(c.Symbol)
		c.Market = &m
	}
	if c.Confirmation != nil && c.Confirmation.Enabled {
		if c.Confirmation.Type == "" {
			c.Confirmation.Type = ConfirmationClose
		}
		if c.Confirmation.MaxAge <= 0 {
			c.Confirmation.MaxAge = types.Duration(4 * time.Hour)
		}
	}
	if c.Breakeven != nil && c.Breakeven.Enabled && c.Breakeven.TriggerR <= 0 {
		c.Breakeven.TriggerR = 1
	}
	if c.Trailing != nil && c.Trailing.Enabled {
		if c.Trailing.ATRMultiple <= 0 {
			c.Trailing.ATRMultiple = 2
		}
		if c.Trailing.ActivationR <= 0 {
			c.Trailing.ActivationR = 1
		}
	}
	if c.TimeExit != nil && c.TimeExit.Enabled && c.TimeExit.MaxCandleHold <= 0 {
		c.TimeExit.MaxCandleHold = 48
	}
	if c.OpposingExit != nil && c.OpposingExit.Enabled && c.OpposingExit.MinScore <= 0 {
		c.OpposingExit.MinScore = 75
	}
	if c.EMAFilter != nil && c.EMAFilter.Enabled {
		if c.EMAFilter.Period <= 0 {
			c.EMAFilter.Period = 50
		}
		if c.EMAFilter.Strictness == "" {
			c.EMAFilter.Strictness = EMAStrictnessPrice
		}
	}
}

// Validate rejects parameter combinations the engine cannot run with.
func (c *Strategy) Validate() error {
	if !c.Variant.Valid() {
		return errors.Errorf("unknown strategy variant %q", c.Variant)
	}
	if c.RiskPercent <= 0 || c.RiskPercent > 100 {
		return errors.Errorf("riskPercent %v out of range (0, 100]", c.RiskPercent)
	}
	if c.FixedRR <= 0 {
		return errors.Errorf("fixedRR must be positive, got %v", c.FixedRR)
	}
	if c.TieredTP != nil && c.TieredTP.Enabled {
		if n := len(c.TieredTP.Tiers); n == 0 || n > 3 {
			return errors.Errorf("tieredTP supports 1 to 3 tiers, got %d", n)
		}
		var total, prevRR float64
		for i, tier := range c.TieredTP.Tiers {
			if tier.RR <= prevRR {
				return errors.Errorf("tier %d RR %v must exceed the previous tier", i+1, tier.RR)
			}
			if tier.Percent <= 0 || tier.Percent > 100 {
				return errors.Errorf("tier %d percent %v out of range (0, 100]", i+1, tier.Percent)
			}
			prevRR = tier.RR
			total += tier.Percent
		}
		if total > 100 {
			return errors.Errorf("tier percentages sum to %v, must not exceed 100", total)
		}
	}
	if c.Confirmation != nil && c.Confirmation.Enabled {
		switch c.Confirmation.Type {
		case ConfirmationClose, ConfirmationEngulf, ConfirmationStrong:
		default:
			return errors.Errorf("unknown confirmation type %q", c.Confirmation.Type)
		}
	}
	if c.EMAFilter != nil && c.EMAFilter.Enabled {
		switch c.EMAFilter.Strictness {
		case EMAStrictnessPrice, EMAStrictnessSlope, EMAStrictnessDistance:
		default:
			return errors.Errorf("unknown emaFilter strictness %q", c.EMAFilter.Strictness)
		}
	}
	return nil
}
