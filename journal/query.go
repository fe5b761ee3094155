package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/portfolio/aggregate"
)

// GetBacktest loads a stored backtest with its cycles and execution times.
func (j *SQLite) GetBacktest(ctx context.Context, backtestID string) (Backtest, error) {
	var (
		bt        Backtest
		netPnL    sql.NullFloat64
		avgDur    sql.NullFloat64
		spanStart sql.NullInt64
		spanEnd   sql.NullInt64
	)

	row := j.db.QueryRowContext(ctx, `
		SELECT id, name, symbol, net_pnl, profit_count, loss_count, total_deals, avg_duration_sec, span_start, span_end, source, imported_at
		FROM backtests
		WHERE id = ?`, backtestID)

	err := row.Scan(
		&bt.Stats.ID,
		&bt.Stats.Name,
		&bt.Stats.Symbol,
		&netPnL,
		&bt.Stats.ProfitCount,
		&bt.Stats.LossCount,
		&bt.Stats.TotalDeals,
		&avgDur,
		&spanStart,
		&spanEnd,
		&bt.Source,
		&bt.ImportedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Backtest{}, fmt.Errorf("%w: %q", ErrNotFound, backtestID)
		}
		return Backtest{}, err
	}
	bt.Stats.NetPnL = orNaN(netPnL)
	bt.Stats.AvgDurationSec = orNaN(avgDur)
	bt.Stats.Span = spanFrom(spanStart, spanEnd)

	bt.Cycles, err = j.listCycles(ctx, backtestID)
	if err != nil {
		return Backtest{}, err
	}
	return bt, nil
}

func (j *SQLite) listCycles(ctx context.Context, backtestID string) ([]aggregate.Cycle, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT cycle_id, status, close_time, duration_sec, net, mae, mfe
		FROM cycles
		WHERE backtest_id = ?
		ORDER BY seq ASC`, backtestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregate.Cycle
	for rows.Next() {
		var c aggregate.Cycle
		var closeT, dur, net, mae, mfe sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Status, &closeT, &dur, &net, &mae, &mfe); err != nil {
			return nil, err
		}
		c.CloseTime = orNaN(closeT)
		c.DurationSec = orNaN(dur)
		c.Net = orNaN(net)
		c.MAE = orNaN(mae)
		c.MFE = orNaN(mfe)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	execRows, err := j.db.QueryContext(ctx, `
		SELECT seq, time
		FROM executions
		WHERE backtest_id = ?
		ORDER BY seq ASC, rowid ASC`, backtestID)
	if err != nil {
		return nil, err
	}
	defer execRows.Close()

	for execRows.Next() {
		var (
			seq int
			ts  float64
		)
		if err := execRows.Scan(&seq, &ts); err != nil {
			return nil, err
		}
		if seq >= 0 && seq < len(out) {
			out[seq].ExecutionTimes = append(out[seq].ExecutionTimes, ts)
		}
	}
	return out, execRows.Err()
}

// ListBacktests returns every stored backtest in import order.
func (j *SQLite) ListBacktests(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.symbol, b.net_pnl, b.source, b.imported_at,
			(SELECT COUNT(*) FROM cycles c WHERE c.backtest_id = b.id)
		FROM backtests b
		ORDER BY b.imported_at ASC, b.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e   Entry
			pnl sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Symbol, &pnl, &e.Source, &e.ImportedAt, &e.Cycles); err != nil {
			return nil, err
		}
		e.PnL = orNaN(pnl)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadBacktests loads the given backtests, or all of them when ids is empty.
func LoadBacktests(ctx context.Context, j Journal, ids []string) ([]Backtest, error) {
	if len(ids) == 0 {
		entries, err := j.ListBacktests(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
	}

	out := make([]Backtest, 0, len(ids))
	for _, backtestID := range ids {
		bt, err := j.GetBacktest(ctx, backtestID)
		if err != nil {
			return nil, err
		}
		out = append(out, bt)
	}
	return out, nil
}
