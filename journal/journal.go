package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/portfolio/aggregate"
)

// ErrNotFound is returned when a backtest id is not in the journal.
var ErrNotFound = errors.New("backtest not found")

// Backtest is one imported backtest: its reported stats and its cycles.
type Backtest struct {
	Stats      aggregate.Stats
	Cycles     []aggregate.Cycle
	ImportedAt time.Time
	Source     string // file the backtest was imported from
}

// Entry is a listing row for a stored backtest.
type Entry struct {
	ID         string
	Name       string
	Symbol     string
	Cycles     int
	PnL        float64 // NaN when not reported
	ImportedAt time.Time
	Source     string
}

type Journal interface {
	RecordBacktest(ctx context.Context, bt Backtest) (string, error)
	GetBacktest(ctx context.Context, id string) (Backtest, error)
	ListBacktests(ctx context.Context) ([]Entry, error)
	DeleteBacktest(ctx context.Context, id string) error
	Close() error
}
