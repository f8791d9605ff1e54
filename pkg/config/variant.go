package config

import "github.com/pkg/errors"

// Variant identifies one of the built-in signal generators. The set is
// closed: the strategy registry owns exactly one generator per variant.
type Variant string

const (
	VariantOrderBlock       Variant = "orderblock"
	VariantFVG              Variant = "fvg"
	VariantLiquiditySweep   Variant = "liquiditysweep"
	VariantBOSPullback      Variant = "bospullback"
	VariantCHoCH            Variant = "choch"
	VariantFakeBreakout     Variant = "fakebreakout"
	VariantEqualLevelSweep  Variant = "equallevelsweep"
	VariantFailedBreak      Variant = "failedbreak"
	VariantEMATrend         Variant = "ematrend"
	VariantClimaxReversal   Variant = "climaxreversal"
	VariantOpeningRange     Variant = "openingrange"
	VariantVWAPReversion    Variant = "vwapreversion"
	VariantBollSqueeze      Variant = "bollsqueeze"
	VariantAbsorption       Variant = "absorption"
	VariantAsianFade        Variant = "asianfade"
	VariantVolumeDivergence Variant = "volumedivergence"
	VariantRangeFade        Variant = "rangefade"
)

// Variants lists every supported variant in a stable order.
var Variants = []Variant{
	VariantOrderBlock,
	VariantFVG,
	VariantLiquiditySweep,
	VariantBOSPullback,
	VariantCHoCH,
	VariantFakeBreakout,
	VariantEqualLevelSweep,
	VariantFailedBreak,
	VariantEMATrend,
	VariantClimaxReversal,
	VariantOpeningRange,
	VariantVWAPReversion,
	VariantBollSqueeze,
	VariantAbsorption,
	VariantAsianFade,
	VariantVolumeDivergence,
	VariantRangeFade,
}

func (v Variant) Valid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", errors.Errorf("unknown strategy variant %q", s)
	}
	return v, nil
}
