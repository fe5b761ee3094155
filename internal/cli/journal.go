package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newImportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import exported backtests into the journal",
		Long: `Import reads backtest documents (JSON, JSON lines or multi-document YAML)
and stores each backtest's stats and cycles in the SQLite journal.
A backtest with an id already in the journal is replaced; one without an id
is given a new ULID.

Example:
  portfolio import exports/grid.json exports/dca.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := rc.decodeInputs(args, false)
			if err != nil {
				return err
			}

			j, err := rc.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			for _, bt := range bts {
				backtestID, err := j.RecordBacktest(cmd.Context(), bt)
				if err != nil {
					return fmt.Errorf("record %q: %w", bt.Stats.ID, err)
				}
				rc.Log.Info().
					Str("backtest", backtestID).
					Str("source", bt.Source).
					Int("cycles", len(bt.Cycles)).
					Msg("imported")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d backtest(s) into %s\n", len(bts), rc.Config.Journal.DBPath)
			return nil
		},
	}
}

func newListCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backtests stored in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := rc.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.ListBacktests(cmd.Context())
			if err != nil {
				return fmt.Errorf("list backtests: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Name", "Symbol", "Cycles", "Net P/L", "Imported", "Source"})
			table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
			table.SetCenterSeparator("|")
			for _, e := range entries {
				pnl := "-"
				if !math.IsNaN(e.PnL) {
					pnl = strconv.FormatFloat(e.PnL, 'f', 2, 64)
				}
				table.Append([]string{
					e.ID, e.Name, e.Symbol, strconv.Itoa(e.Cycles), pnl,
					e.ImportedAt.Local().Format("2006-01-02 15:04"), e.Source,
				})
			}
			table.Render()
			return nil
		},
	}
}

func newDeleteCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <backtest-id>...",
		Short: "Remove backtests from the journal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := rc.openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			for _, backtestID := range args {
				if err := j.DeleteBacktest(cmd.Context(), backtestID); err != nil {
					return err
				}
				rc.Log.Info().Str("backtest", backtestID).Msg("deleted")
			}
			return nil
		},
	}
}
