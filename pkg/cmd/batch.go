package cmd

import (
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tradewindlabs/smcbt/pkg/backtest"
	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/report"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

func init() {
	BatchCmd.Flags().String("presets", "", "preset YAML file")
	BatchCmd.Flags().Int("workers", 0, "concurrent runs, 0 means one per CPU")
	BatchCmd.Flags().String("json", "", "write all results to this JSON file")
	RootCmd.AddCommand(BatchCmd)
}

var BatchCmd = &cobra.Command{
	Use:          "batch",
	Short:        "replay every preset of a list and rank the results",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		presetFile, err := cmd.Flags().GetString("presets")
		if err != nil {
			return err
		}
		if presetFile == "" {
			return errors.New("--presets option is required")
		}

		workers, err := cmd.Flags().GetInt("workers")
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

		bar := pb.StartNew(len(presets))

		load := func(p config.Preset) (htf, mtf, ltf types.CandleSlice, err error) {
			return loadPresetData(p)
		}
		results := backtest.RunBatch(cmd.Context(), presets, load, workers, func() {
			bar.Increment()
		})
		bar.Finish()

		report.RenderBatchTable(os.Stdout, results)

		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
				log.WithError(r.Err).Errorf("preset %q failed", r.Preset.Name)
			}
		}

		if jsonOut != "" {
			if err := report.WriteJSON(jsonOut, results); err != nil {
				return err
			}
		}

		if failed > 0 {
			return errors.Errorf("%d of %d presets failed", failed, len(presets))
		}
		return nil
	},
}
