package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/portfolio/aggregate"
	"github.com/rustyeddy/portfolio/report"
	"github.com/spf13/cobra"
)

func newMetricsCmd(rc *RootConfig) *cobra.Command {
	var inputs []string

	cmd := &cobra.Command{
		Use:   "metrics [backtest-id]...",
		Short: "Show per-backtest metrics",
		Long: `Metrics computes P/L, drawdown, risk and concurrency for each backtest
on its own. With no ids every backtest in the journal is shown.

Example:
  portfolio metrics 01HQ7Z5D4M8Y4T1Z3J2Q6W9ABC
  portfolio metrics -i exports/grid.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := rc.loadBacktests(cmd.Context(), args, inputs)
			if err != nil {
				return err
			}
			metrics := rc.computeMetrics(bts)
			report.PrintBacktests(cmd.OutOrStdout(), metrics, rc.Config.Analysis.Options().Excluded)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "read backtests from files instead of the journal")
	return cmd
}

type summarizeFlags struct {
	inputs    []string
	exclude   []string
	maxBots   int
	limits    int
	title     string
	equityCSV string
	dailyCSV  string
	orgPath   string
	daily     bool
}

func newSummarizeCmd(rc *RootConfig) *cobra.Command {
	var fl summarizeFlags

	cmd := &cobra.Command{
		Use:   "summarize [backtest-id]...",
		Short: "Summarize backtests as one portfolio",
		Long: `Summarize merges the selected backtests (default: all in the journal)
into portfolio P/L, drawdown, aggregate risk, concurrency and daily
concurrency percentiles, and optionally writes CSV and Org reports.

Examples:
  portfolio summarize
  portfolio summarize --exclude bt-3 --max-bots 4 --org portfolio.org
  portfolio summarize -i exports/grid.json -i exports/dca.yaml --equity-csv equity.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd, rc, fl, args)
		},
	}

	cmd.Flags().StringSliceVarP(&fl.inputs, "input", "i", nil, "read backtests from files instead of the journal")
	cmd.Flags().StringSliceVarP(&fl.exclude, "exclude", "x", nil, "backtest ids to leave out (adds to config)")
	cmd.Flags().IntVar(&fl.maxBots, "max-bots", 0, "exploratory cap on concurrent bots (overrides config)")
	cmd.Flags().IntVar(&fl.limits, "limits", -1, "explore position limits 1..N (overrides config)")
	cmd.Flags().StringVar(&fl.title, "title", "", "report title")
	cmd.Flags().StringVar(&fl.equityCSV, "equity-csv", "", "write the equity series as CSV")
	cmd.Flags().StringVar(&fl.dailyCSV, "daily-csv", "", "write daily concurrency as CSV")
	cmd.Flags().StringVar(&fl.orgPath, "org", "", "write an Org-mode report")
	cmd.Flags().BoolVar(&fl.daily, "daily", false, "print the per-day concurrency table")
	return cmd
}

func runSummarize(cmd *cobra.Command, rc *RootConfig, fl summarizeFlags, ids []string) error {
	cfg := rc.Config
	analysis := cfg.Analysis
	analysis.Exclude = append(append([]string(nil), analysis.Exclude...), fl.exclude...)
	if fl.maxBots > 0 {
		analysis.MaxConcurrentBots = fl.maxBots
	}
	if fl.limits >= 0 {
		analysis.LimitSweep = fl.limits
	}
	opts := analysis.Options()

	bts, err := rc.loadBacktests(cmd.Context(), ids, fl.inputs)
	if err != nil {
		return err
	}
	metrics := rc.computeMetrics(bts)
	summary := aggregate.Summarize(metrics, opts)
	limits := aggregate.ExploreLimits(summary.Daily.Records, analysis.LimitSweep)

	rc.Log.Info().
		Int("backtests", summary.BacktestCount).
		Int("included", summary.IncludedCount).
		Float64("pnl", summary.TotalPnL).
		Float64("max_drawdown", summary.MaxDrawdown).
		Int("max_concurrency", summary.Concurrency.Max).
		Msg("summarized")

	out := cmd.OutOrStdout()
	report.PrintSummary(out, summary)
	report.PrintBacktests(out, metrics, opts.Excluded)
	if fl.daily {
		fmt.Fprintln(out)
		report.PrintDaily(out, summary.Daily.Records)
	}
	if len(limits) > 0 {
		fmt.Fprintln(out)
		report.PrintLimits(out, limits)
	}

	equityCSV := firstNonEmpty(fl.equityCSV, cfg.Report.EquityCSV)
	dailyCSV := firstNonEmpty(fl.dailyCSV, cfg.Report.DailyCSV)
	orgPath := firstNonEmpty(fl.orgPath, cfg.Report.OrgPath)

	if equityCSV != "" {
		err := report.WriteFile(equityCSV, func(w io.Writer) error {
			return report.WriteEquityCSV(w, summary.Equity)
		})
		if err != nil {
			return fmt.Errorf("write equity csv: %w", err)
		}
		rc.Log.Info().Str("path", equityCSV).Int("points", len(summary.Equity.Points)).Msg("wrote equity series")
	}
	if dailyCSV != "" {
		err := report.WriteFile(dailyCSV, func(w io.Writer) error {
			return report.WriteDailyCSV(w, summary.Daily.Records)
		})
		if err != nil {
			return fmt.Errorf("write daily csv: %w", err)
		}
		rc.Log.Info().Str("path", dailyCSV).Int("days", len(summary.Daily.Records)).Msg("wrote daily concurrency")
	}
	if orgPath != "" {
		p := report.Portfolio{
			Title:     fl.title,
			Created:   time.Now(),
			Summary:   summary,
			Backtests: metrics,
			Excluded:  opts.Excluded,
			Limits:    limits,
		}
		err := report.WriteFile(orgPath, func(w io.Writer) error {
			return report.WriteOrg(w, p)
		})
		if err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		rc.Log.Info().Str("path", orgPath).Msg("wrote org report")
	}
	return nil
}

func newLimitsCmd(rc *RootConfig) *cobra.Command {
	var (
		inputs []string
		maxN   int
	)

	cmd := &cobra.Command{
		Use:   "limits [backtest-id]...",
		Short: "Explore caps on simultaneously running bots",
		Long: `Limits reports, for caps 1..N, how many active days the selected
backtests would have fit under, plus the percentile-based suggestions.

Example:
  portfolio limits --max 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := rc.loadBacktests(cmd.Context(), args, inputs)
			if err != nil {
				return err
			}
			opts := rc.Config.Analysis.Options()
			n := maxN
			if n <= 0 {
				n = rc.Config.Analysis.LimitSweep
			}

			summary := aggregate.Summarize(rc.computeMetrics(bts), opts)
			st := summary.Daily.Stats

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Active days:   %d\n", st.Days)
			fmt.Fprintf(out, "Mean max:      %.2f\n", st.MeanMax)
			fmt.Fprintf(out, "Suggested:     p75 %d  p90 %d  p95 %d\n\n", st.Limits.P75, st.Limits.P90, st.Limits.P95)
			report.PrintLimits(out, aggregate.ExploreLimits(summary.Daily.Records, n))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "read backtests from files instead of the journal")
	cmd.Flags().IntVarP(&maxN, "max", "n", 0, "largest cap to explore (default from config)")
	return cmd
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
