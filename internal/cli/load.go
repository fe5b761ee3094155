package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rustyeddy/portfolio/aggregate"
	"github.com/rustyeddy/portfolio/ingest"
	"github.com/rustyeddy/portfolio/journal"
)

func (rc *RootConfig) openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(rc.Config.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// decodeInputs reads backtest files. With nameAfterFile, backtests without
// an id are named after their file; otherwise the id stays empty for the
// journal to assign.
func (rc *RootConfig) decodeInputs(paths []string, nameAfterFile bool) ([]journal.Backtest, error) {
	var out []journal.Backtest
	for _, path := range paths {
		bts, rep, err := ingest.DecodeFile(path)
		if err != nil {
			return nil, err
		}
		rc.logReport(path, len(bts), rep)

		for i, bt := range bts {
			if nameAfterFile && bt.Stats.ID == "" {
				bt.Stats.ID = fmt.Sprintf("%s#%d", filepath.Base(path), i+1)
			}
			out = append(out, journal.Backtest{Stats: bt.Stats, Cycles: bt.Cycles, Source: path})
		}
	}
	return out, nil
}

func (rc *RootConfig) logReport(path string, backtests int, rep ingest.Report) {
	rc.Log.Debug().
		Str("file", path).
		Int("backtests", backtests).
		Int("cycles", rep.Cycles).
		Int("finished", rep.Finished).
		Msg("decoded backtests")

	if rep.MissingClose > 0 || rep.Skipped > 0 {
		rc.Log.Warn().
			Str("file", path).
			Int("missing_close", rep.MissingClose).
			Int("skipped", rep.Skipped).
			Msg("some cycles cannot be placed in time and are left out of interval statistics")
	}
}

// loadBacktests reads inputs when given, otherwise the journal.
func (rc *RootConfig) loadBacktests(ctx context.Context, ids, inputs []string) ([]journal.Backtest, error) {
	if len(inputs) > 0 {
		bts, err := rc.decodeInputs(inputs, true)
		if err != nil {
			return nil, err
		}
		return filterIDs(bts, ids)
	}

	j, err := rc.openJournal()
	if err != nil {
		return nil, err
	}
	defer j.Close()

	return journal.LoadBacktests(ctx, j, ids)
}

func filterIDs(bts []journal.Backtest, ids []string) ([]journal.Backtest, error) {
	if len(ids) == 0 {
		return bts, nil
	}
	byID := make(map[string]journal.Backtest, len(bts))
	for _, bt := range bts {
		byID[bt.Stats.ID] = bt
	}
	out := make([]journal.Backtest, 0, len(ids))
	for _, backtestID := range ids {
		bt, ok := byID[backtestID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", journal.ErrNotFound, backtestID)
		}
		out = append(out, bt)
	}
	return out, nil
}

// computeMetrics derives BacktestMetrics for each loaded backtest.
func (rc *RootConfig) computeMetrics(bts []journal.Backtest) []aggregate.BacktestMetrics {
	out := make([]aggregate.BacktestMetrics, len(bts))
	for i, bt := range bts {
		out[i] = aggregate.ComputeBacktestMetrics(bt.Stats, bt.Cycles)
		rc.Log.Debug().
			Str("backtest", out[i].ID).
			Int("intervals", len(out[i].ConcurrencyIntervals)).
			Float64("pnl", out[i].PnL).
			Msg("computed metrics")
	}
	return out
}
