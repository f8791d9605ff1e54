// Package binance fetches historical klines for offline replay. The
// engine itself never talks to an exchange; this is the collaborator
// that fills the CSV cache the data files point at.
package binance

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

const pageLimit = 1000

// Downloader pages klines out of the public REST API with retry.
type Downloader struct {
	client *binance.Client
}

func NewDownloader() *Downloader {
	// public market data needs no credentials
	return &Downloader{client: binance.NewClient("", "")}
}

// Download fetches [start, end) klines for one symbol and interval.
func (d *Downloader) Download(ctx context.Context, symbol, interval string, start, end time.Time) (types.CandleSlice, error) {
	var candles types.CandleSlice

	cursor := start.UnixMilli()
	endMs := end.UnixMilli()

	for cursor < endMs {
		var page []*binance.Kline

		op := func() (err error) {
			page, err = d.client.NewKlinesService().
				Symbol(symbol).
				Interval(interval).
				StartTime(cursor).
				EndTime(endMs).
				Limit(pageLimit).
				Do(ctx)
			return err
		}

		policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
		if err := backoff.Retry(op, backoff.WithMaxRetries(policy, 5)); err != nil {
			return nil, errors.Wrapf(err, "kline request failed for %s %s", symbol, interval)
		}

		if len(page) == 0 {
			break
		}

		for _, k := range page {
			candle, err := convertKline(k)
			if err != nil {
				return nil, err
			}
			candles = append(candles, candle)
		}

		cursor = page[len(page)-1].CloseTime + 1
		log.Debugf("%s %s: fetched %d klines, cursor at %s",
			symbol, interval, len(page), time.UnixMilli(cursor).UTC().Format(time.RFC3339))
	}

	if !candles.SortedByTime() {
		return nil, errors.Errorf("%s %s: exchange returned unsorted klines", symbol, interval)
	}

	return candles, nil
}

func convertKline(k *binance.Kline) (types.Candle, error) {
	candle := types.Candle{StartTime: time.UnixMilli(k.OpenTime).UTC()}

	fields := []struct {
		raw string
		dst *float64
	}{
		{k.Open, &candle.Open},
		{k.High, &candle.High},
		{k.Low, &candle.Low},
		{k.Close, &candle.Close},
		{k.Volume, &candle.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return candle, errors.Wrapf(err, "bad kline field %q", f.raw)
		}
		*f.dst = v
	}

	return candle, nil
}

// WriteCSV stores candles in the layout pkg/datasource/csv reads back.
func WriteCSV(path string, candles types.CandleSlice) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can not create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, c := range candles {
		record := []string{
			strconv.FormatInt(c.StartTime.Unix(), 10),
			formatPrice(c.Open),
			formatPrice(c.High),
			formatPrice(c.Low),
			formatPrice(c.Close),
			formatPrice(c.Volume),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%g", v)
}
