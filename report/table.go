package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rustyeddy/portfolio/aggregate"
)

// PrintSummary writes the portfolio summary as a plain text block.
func PrintSummary(w io.Writer, s aggregate.Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Portfolio Summary")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Backtests:     %d (%d included)\n", s.BacktestCount, s.IncludedCount)
	if s.Span.Known() {
		fmt.Fprintf(w, "Span:          %s .. %s\n", Stamp(s.Span.Start), Stamp(s.Span.End))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       %s\n", money(s.TotalPnL))
	fmt.Fprintf(w, "Deals:         %d (%d won, %d lost)\n", s.TotalDeals, s.ProfitDeals, s.LossDeals)
	fmt.Fprintf(w, "Win Rate:      %s\n", pct(s.WinRate))
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}
	fmt.Fprintf(w, "P/L per Deal:  %s\n", money(s.AvgPnLPerDeal))
	fmt.Fprintf(w, "P/L per Bot:   %s\n", money(s.AvgPnLPerBacktest))
	fmt.Fprintf(w, "Avg Duration:  %s\n", Duration(s.AvgDurationSec))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Drawdown:  %s\n", money(s.MaxDrawdown))
	fmt.Fprintf(w, "Worst Bot DD:  %s\n", money(s.WorstBacktestDrawdown))
	fmt.Fprintf(w, "Peak Risk:     %s\n", money(s.Risk.Peak))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Concurrency")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max:           %d\n", s.Concurrency.Max)
	fmt.Fprintf(w, "Average:       %.2f\n", s.Concurrency.Average)
	fmt.Fprintf(w, "Active / Idle: %s / %s\n", Ms(s.Concurrency.ActiveMs), Ms(s.Concurrency.ZeroSpanMs))
	fmt.Fprintf(w, "No-Trade Days: %d\n", s.NoTradeDays)

	st := s.Daily.Stats
	if st.Days > 0 {
		fmt.Fprintf(w, "Daily Max:     mean %.2f  p75 %.2f  p90 %.2f  p95 %.2f\n", st.MeanMax, st.P75, st.P90, st.P95)
		fmt.Fprintf(w, "Limits:        p75 %d  p90 %d  p95 %d\n", st.Limits.P75, st.Limits.P90, st.Limits.P95)
	}
	if s.MaxConcurrentBots > 0 {
		fmt.Fprintf(w, "Over %d bots:   %d of %d days\n", s.MaxConcurrentBots, s.DaysOverLimit, st.Days)
	}

	fmt.Fprintln(w)
}

// PrintBacktests writes one table row per backtest.
func PrintBacktests(w io.Writer, metrics []aggregate.BacktestMetrics, excluded map[string]bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Symbol", "Net P/L", "Deals", "Win Rate", "Max DD", "Max Risk", "Max Conc", "Included"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)

	for _, m := range metrics {
		included := "yes"
		if excluded[m.ID] {
			included = "no"
		}
		table.Append([]string{
			m.ID,
			m.Name,
			m.Symbol,
			money(m.PnL),
			strconv.Itoa(m.TotalDeals),
			pct(m.WinRate),
			money(m.MaxDrawdown),
			money(m.MaxRisk),
			strconv.Itoa(m.Concurrency.Max),
			included,
		})
	}
	table.Render()
}

// PrintLimits writes the position-limit exploration table.
func PrintLimits(w io.Writer, points []aggregate.LimitPoint) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Limit", "Days Within", "Share"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, p := range points {
		table.Append([]string{strconv.Itoa(p.Limit), strconv.Itoa(p.DaysWithin), pct(p.Share)})
	}
	table.Render()
}

// PrintDaily writes the per-day concurrency table.
func PrintDaily(w io.Writer, records []aggregate.DailyConcurrencyRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Active", "Max", "Avg Active"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, r := range records {
		table.Append([]string{Date(r.DayIndex), Ms(r.ActiveDurationMs), strconv.Itoa(r.MaxCount), fmt.Sprintf("%.2f", r.AvgActiveCount)})
	}
	table.Render()
}
