// Package csv loads candle series from kline CSV files in the layout
// the download command writes: time,open,high,low,close,volume with the
// timestamp in unix seconds or milliseconds. A header row is skipped.
package csv

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/tradewindlabs/smcbt/pkg/types"
)

// ReadFile loads one candle series and asserts chronological order with
// unique timestamps; broken input fails fast instead of being repaired.
func ReadFile(path string) (types.CandleSlice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can not open candle file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "can not parse candle file %s", path)
	}

	var candles types.CandleSlice
	for i, rec := range records {
		if len(rec) < 6 {
			return nil, errors.Errorf("%s row %d: expected 6 columns, got %d", path, i+1, len(rec))
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			if i == 0 {
				// header row
				continue
			}
			return nil, errors.Wrapf(err, "%s row %d: bad timestamp", path, i+1)
		}

		candle := types.Candle{StartTime: parseTimestamp(ts)}
		fields := []*float64{&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %d col %d", path, i+1, j+2)
			}
			*dst = v
		}

		candles = append(candles, candle)
	}

	if !candles.SortedByTime() {
		return nil, errors.Errorf("%s: candles are not chronologically sorted with unique timestamps", path)
	}

	return candles, nil
}

// parseTimestamp accepts unix seconds or milliseconds.
func parseTimestamp(ts int64) time.Time {
	if ts > 1e12 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}
