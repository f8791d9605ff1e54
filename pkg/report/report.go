package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/tradewindlabs/smcbt/pkg/backtest"
	"github.com/tradewindlabs/smcbt/pkg/types"
)

// PrintSummary renders one run's metrics to the console.
func PrintSummary(m *backtest.Metrics) {
	color.Green("%s %s BACKTEST REPORT", m.Symbol, m.Variant)
	color.Green("===============================================")

	fmt.Printf("TRADES: %d (%d wins / %d losses)\n", m.TotalTrades, m.Wins, m.Losses)
	fmt.Printf("WIN RATE: %.1f%%\n", m.WinRate*100)
	fmt.Printf("PROFIT FACTOR: %.2f\n", m.ProfitFactor)
	fmt.Printf("MAX DRAWDOWN: %.2f%%\n", m.MaxDrawdown*100)

	if m.NetProfit >= 0 {
		color.Green("NET PROFIT: +%.2f (%.2f -> %.2f)", m.NetProfit, m.InitialBalance, m.FinalBalance)
	} else {
		color.Red("NET PROFIT: %.2f (%.2f -> %.2f)", m.NetProfit, m.InitialBalance, m.FinalBalance)
	}

	if len(m.ExitCounts) > 0 {
		fmt.Println("EXITS:")
		reasons := make([]string, 0, len(m.ExitCounts))
		for r := range m.ExitCounts {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Printf("  %-14s %d\n", r, m.ExitCounts[types.ExitReason(r)])
		}
	}

	if m.TP1Hits+m.TP2Hits+m.TP3Hits > 0 {
		fmt.Printf("TIERS HIT: tp1=%d tp2=%d tp3=%d\n", m.TP1Hits, m.TP2Hits, m.TP3Hits)
	}
}

// RenderBatchTable renders batch results as a console table, sorted by
// net profit descending.
func RenderBatchTable(w io.Writer, results []backtest.BatchResult) {
	sorted := make([]backtest.BatchResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, mj := sorted[i].Metrics, sorted[j].Metrics
		if mi == nil || mj == nil {
			return mj == nil && mi != nil
		}
		return mi.NetProfit > mj.NetProfit
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Preset", "Symbol", "Variant", "Trades", "Win%", "PF", "MaxDD%", "Net"})

	for _, r := range sorted {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Preset.Name, r.Preset.Strategy.Symbol, r.Preset.Strategy.Variant,
				"-", "-", "-", "-", fmt.Sprintf("error: %v", r.Err)})
			continue
		}
		m := r.Metrics
		t.AppendRow(table.Row{
			r.Preset.Name,
			m.Symbol,
			m.Variant,
			m.TotalTrades,
			fmt.Sprintf("%.1f", m.WinRate*100),
			fmt.Sprintf("%.2f", m.ProfitFactor),
			fmt.Sprintf("%.2f", m.MaxDrawdown*100),
			fmt.Sprintf("%.2f", m.NetProfit),
		})
	}

	t.Render()
}

// WriteJSON dumps metrics (single run or batch) to a file.
func WriteJSON(path string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can not marshal report")
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Wrapf(err, "can not write report to %s", path)
	}
	return nil
}
