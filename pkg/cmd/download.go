package cmd

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tradewindlabs/smcbt/pkg/datasource/binance"
)

func init() {
	DownloadCmd.Flags().String("symbol", "", "symbol to download, e.g. BTCUSDT")
	DownloadCmd.Flags().String("interval", "15m", "kline interval, e.g. 15m, 1h, 4h")
	DownloadCmd.Flags().String("start", "", "start date, e.g. 2024-01-01")
	DownloadCmd.Flags().String("end", "", "end date, defaults to now")
	DownloadCmd.Flags().String("output", "", "CSV file to write")
	RootCmd.AddCommand(DownloadCmd)
}

var DownloadCmd = &cobra.Command{
	Use:          "download",
	Short:        "download historical klines into a CSV candle file",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}
		if symbol == "" {
			return errors.New("--symbol option is required")
		}

		interval, err := cmd.Flags().GetString("interval")
		if err != nil {
			return err
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		if output == "" {
			return errors.New("--output option is required")
		}

		startStr, err := cmd.Flags().GetString("start")
		if err != nil {
			return err
		}
		if startStr == "" {
			return errors.New("--start option is required")
		}
		start, err := time.ParseInLocation("2006-01-02", startStr, time.UTC)
		if err != nil {
			return errors.Wrapf(err, "bad --start date %q", startStr)
		}

		end := time.Now().UTC()
		endStr, err := cmd.Flags().GetString("end")
		if err != nil {
			return err
		}
		if endStr != "" {
			end, err = time.ParseInLocation("2006-01-02", endStr, time.UTC)
			if err != nil {
				return errors.Wrapf(err, "bad --end date %q", endStr)
			}
		}

		downloader := binance.NewDownloader()
		candles, err := downloader.Download(cmd.Context(), symbol, interval, start, end)
		if err != nil {
			return err
		}

		if err := binance.WriteCSV(output, candles); err != nil {
			return err
		}

		log.Infof("wrote %d %s %s candles to %s", len(candles), symbol, interval, output)
		return nil
	},
}
