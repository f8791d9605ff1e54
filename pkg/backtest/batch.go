package backtest

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tradewindlabs/smcbt/pkg/config"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// CandleLoader fetches the three series for one preset. Loaders are
// called concurrently and must be safe for concurrent use; candle data
// itself is read-only and may be shared between runs.
type CandleLoader func(p config.Preset) (htf, mtf, ltf types.CandleSlice, err error)

// BatchResult pairs a preset with its run outcome. Err is mirrored
// into Error so failure reasons survive JSON serialization.
type BatchResult struct {
	RunID   string        `json:"runId"`
	Preset  config.Preset `json:"preset"`
	Metrics *Metrics      `json:"metrics,omitempty"`
	Error   string        `json:"error,omitempty"`
	Err     error         `json:"-"`
}

func (r *BatchResult) fail(err error) {
	r.Err = err
	r.Error = err.Error()
}

// RunBatch replays every preset on its own engine. Runs share no
// mutable state, so they parallelize freely; workers bounds the
// concurrency (0 means GOMAXPROCS). The progress callback, if set, is
// invoked once per finished run from the run's goroutine.
func RunBatch(ctx context.Context, presets []config.Preset, load CandleLoader, workers int, progress func()) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(presets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range presets {
		i := i
		g.Go(func() error {
			defer func() {
				if progress != nil {
					progress()
				}
			}()

			select {
			case <-ctx.Done():
				res := BatchResult{Preset: presets[i]}
				res.fail(ctx.Err())
				results[i] = res
				return nil
			default:
			}

			res := BatchResult{
				RunID:  uuid.NewString(),
				Preset: presets[i],
			}

			htf, mtf, ltf, err := load(presets[i])
			if err != nil {
				res.fail(err)
				results[i] = res
				return nil
			}

			res.Metrics, err = Run(htf, mtf, ltf, &presets[i].Strategy)
			if err != nil {
				res.fail(err)
			}
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	return results
}
