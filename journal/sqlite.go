package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/portfolio/aggregate"
	"github.com/rustyeddy/portfolio/pkg/id"
)

type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordBacktest stores bt, replacing any backtest with the same id.
// A backtest without an id is given a fresh ULID, which is returned.
func (j *SQLite) RecordBacktest(ctx context.Context, bt Backtest) (string, error) {
	if bt.Stats.ID == "" {
		bt.Stats.ID = id.New()
	}
	if bt.ImportedAt.IsZero() {
		bt.ImportedAt = time.Now()
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := deleteRows(ctx, tx, bt.Stats.ID); err != nil {
		return "", err
	}

	st := bt.Stats
	spanStart, spanEnd := sql.NullInt64{}, sql.NullInt64{}
	if st.Span.Known() {
		spanStart = sql.NullInt64{Int64: st.Span.Start, Valid: true}
		spanEnd = sql.NullInt64{Int64: st.Span.End, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO backtests
		(id, name, symbol, net_pnl, profit_count, loss_count, total_deals, avg_duration_sec, span_start, span_end, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.Name, st.Symbol, nullFloat(st.NetPnL), st.ProfitCount, st.LossCount,
		st.TotalDeals, nullFloat(st.AvgDurationSec), spanStart, spanEnd, bt.Source, bt.ImportedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert backtest: %w", err)
	}

	cycleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cycles
		(backtest_id, seq, cycle_id, status, close_time, duration_sec, net, mae, mfe)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer cycleStmt.Close()

	execStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO executions (backtest_id, seq, time) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer execStmt.Close()

	for seq, c := range bt.Cycles {
		_, err := cycleStmt.ExecContext(ctx,
			st.ID, seq, c.ID, c.Status, nullFloat(c.CloseTime), nullFloat(c.DurationSec),
			nullFloat(c.Net), nullFloat(c.MAE), nullFloat(c.MFE),
		)
		if err != nil {
			return "", fmt.Errorf("insert cycle %d: %w", seq, err)
		}
		for _, ts := range c.ExecutionTimes {
			if math.IsNaN(ts) || math.IsInf(ts, 0) {
				continue
			}
			if _, err := execStmt.ExecContext(ctx, st.ID, seq, ts); err != nil {
				return "", fmt.Errorf("insert execution: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return st.ID, nil
}

// DeleteBacktest removes a backtest and its cycles.
func (j *SQLite) DeleteBacktest(ctx context.Context, backtestID string) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM backtests WHERE id = ?`, backtestID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, backtestID)
	}
	if err := deleteRows(ctx, tx, backtestID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteRows(ctx context.Context, tx *sql.Tx, backtestID string) error {
	for _, q := range []string{
		`DELETE FROM backtests WHERE id = ?`,
		`DELETE FROM cycles WHERE backtest_id = ?`,
		`DELETE FROM executions WHERE backtest_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, backtestID); err != nil {
			return err
		}
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(x float64) sql.NullFloat64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}

func orNaN(x sql.NullFloat64) float64 {
	if !x.Valid {
		return math.NaN()
	}
	return x.Float64
}

func spanFrom(start, end sql.NullInt64) aggregate.Span {
	if !start.Valid || !end.Valid {
		return aggregate.Span{}
	}
	return aggregate.Span{Start: start.Int64, End: end.Int64}
}
