package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tradewindlabs/smcbt/pkg/backtest"
	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/datasource/csv"
	"github.com/tradewindlabs/smcbt/pkg/report"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

func init() {
	BacktestCmd.Flags().String("presets", "", "preset YAML file")
	BacktestCmd.Flags().String("name", "", "preset name to run (defaults to the first)")
	BacktestCmd.Flags().String("json", "", "write the full report to this JSON file")
	RootCmd.AddCommand(BacktestCmd)
}

var BacktestCmd = &cobra.Command{
	Use:          "backtest",
	Short:        "replay one preset and print its report",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		presetFile, err := cmd.Flags().GetString("presets")
		if err != nil {
			return err
		}
		if presetFile == "" {
			return errors.New("--presets option is required")
		}

		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return err
		}

		jsonOut, err := cmd.Flags().GetString("json")
		if err != nil {
			return err
		}

		presets, err := config.LoadPresets(presetFile)
		if err != nil {
			return err
		}

		preset := &presets[0]
		if name != "" {
			preset = nil
			for i := range presets {
				if presets[i].Name == name {
					preset = &presets[i]
					break
				}
			}
			if preset == nil {
				return errors.Errorf("no preset named %q in %s", name, presetFile)
			}
		}

		htf, mtf, ltf, err := loadPresetData(*preset)
		if err != nil {
			return err
		}

		metrics, err := backtest.Run(htf, mtf, ltf, &preset.Strategy)
		if err != nil {
			return err
		}

		report.PrintSummary(metrics)

		if jsonOut != "" {
			if err := report.WriteJSON(jsonOut, metrics); err != nil {
				return err
			}
		}

		return nil
	},
}

// loadPresetData reads the three series a preset points at. A missing
// HTF or MTF file degrades to an empty series: the engine then runs
// without bias or structure, which is still a valid (if silent) replay.
func loadPresetData(p config.Preset) (htf, mtf, ltf types.CandleSlice, err error) {
	if p.Data.HTF != "" {
		if htf, err = csv.ReadFile(p.Data.HTF); err != nil {
			return
		}
	}
	if p.Data.MTF != "" {
		if mtf, err = csv.ReadFile(p.Data.MTF); err != nil {
			return
		}
	}
	ltf, err = csv.ReadFile(p.Data.LTF)
	return
}
