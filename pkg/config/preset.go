package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DataFiles points a preset at its candle CSV files, one per timeframe.
type DataFiles struct {
	HTF string `json:"htf" yaml:"htf"`
	MTF string `json:"mtf" yaml:"mtf"`
	LTF string `json:"ltf" yaml:"ltf"`
}

// Preset is one named entry of a batch run list. Preset lists are data,
// not code: they live in YAML files next to the candle data.
type Preset struct {
	Name     string    `json:"name" yaml:"name"`
	Data     DataFiles `json:"data" yaml:"data"`
	Strategy Strategy  `json:"strategy" yaml:"strategy"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads a YAML preset list, applying defaults and validating
// every entry.
func LoadPresets(path string) ([]Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can not read preset file %s", path)
	}

	var f presetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "can not parse preset file %s", path)
	}

	if len(f.Presets) == 0 {
		return nil, errors.Errorf("preset file %s contains no presets", path)
	}

	for i := range f.Presets {
		p := &f.Presets[i]
		p.Strategy.ApplyDefaults()
		if err := p.Strategy.Validate(); err != nil {
			return nil, errors.Wrapf(err, "preset %q", p.Name)
		}
		if p.Data.LTF == "" {
			return nil, errors.Errorf("preset %q is missing the LTF data file", p.Name)
		}
	}

	return f.Presets, nil
}
