package types

// Market carries the per-instrument metadata the engine needs for sizing
// and price arithmetic.
type Market struct {
	Symbol string `json:"symbol" yaml:"symbol"`

	// PipSize is the minimal quoted price unit, e.g. 0.0001 for EURUSD.
	PipSize float64 `json:"pipSize" yaml:"pipSize"`

	// ContractSize is the value of one full lot per unit of price change.
	ContractSize float64 `json:"contractSize" yaml:"contractSize"`

	// MinVolume is the broker's minimal order size in lots.
	MinVolume float64 `json:"minVolume" yaml:"minVolume"`

	// MinStopPips is the minimal stop distance accepted for an entry.
	MinStopPips float64 `json:"minStopPips" yaml:"minStopPips"`

	// TypicalSpread, in pips, applied on market entries.
	TypicalSpread float64 `json:"typicalSpread" yaml:"typicalSpread"`
}

// DefaultMarket is a generic FX-style instrument used when a preset does
// not carry symbol metadata.
func DefaultMarket(symbol string) Market {
	return Market{
		Symbol:        symbol,
		PipSize:       0.0001,
		ContractSize:  100000,
		MinVolume:     0.01,
		MinStopPips:   5,
		TypicalSpread: 1,
	}
}

func (m Market) PipsToPrice(pips float64) float64 {
	return pips * m.PipSize
}

func (m Market) PriceToPips(price float64) float64 {
	if m.PipSize == 0 {
		return 0
	}
	return price / m.PipSize
}
