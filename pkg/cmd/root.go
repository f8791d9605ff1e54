package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "smcbt",
	Short: "smcbt replays historical candles to evaluate rule-based strategies",

	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "verbose level")
}

func Execute() error {
	return RootCmd.Execute()
}
