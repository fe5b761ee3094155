// Package ingest normalizes exported backtest documents (JSON or YAML) into
// the strict aggregate model. Bad values degrade to NaN or are dropped;
// only documents that cannot be decoded at all return an error.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/portfolio/aggregate"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a document holds no backtest.
var ErrEmptyDocument = errors.New("empty backtest document")

// Backtest is one normalized (stats, cycles) pair.
type Backtest struct {
	Stats  aggregate.Stats
	Cycles []aggregate.Cycle
}

// Report counts what normalization had to degrade.
type Report struct {
	Cycles          int
	Finished        int
	MissingClose    int // finished cycles without a usable close time
	MissingDuration int // finished cycles falling back to order times
	Skipped         int // cycle entries that were not objects
}

// Add accumulates another report.
func (r *Report) Add(o Report) {
	r.Cycles += o.Cycles
	r.Finished += o.Finished
	r.MissingClose += o.MissingClose
	r.MissingDuration += o.MissingDuration
	r.Skipped += o.Skipped
}

// DecodeFile reads every backtest document in path.
func DecodeFile(path string) ([]Backtest, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeAll(bytes.NewReader(data))
}

// DecodeAll reads a stream of backtest documents: YAML documents separated
// by "---", or one or more concatenated JSON values (JSON lines included).
func DecodeAll(r io.Reader) ([]Backtest, Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Report{}, fmt.Errorf("read documents: %w", err)
	}

	var dec decoder
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		jd := json.NewDecoder(bytes.NewReader(trimmed))
		jd.UseNumber()
		dec = jd
	} else {
		dec = yaml.NewDecoder(bytes.NewReader(data))
	}

	var (
		out []Backtest
		rep Report
	)
	for n := 1; ; n++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("decode document %d: %w", n, err)
		}
		for _, d := range split(doc) {
			bt, dr, err := normalize(d)
			if err != nil {
				return nil, rep, fmt.Errorf("document %d: %w", n, err)
			}
			rep.Add(dr)
			out = append(out, bt)
		}
	}
	if len(out) == 0 {
		return nil, rep, ErrEmptyDocument
	}
	return out, rep, nil
}

// Decode reads the first backtest document in data.
func Decode(data []byte) (Backtest, Report, error) {
	all, rep, err := DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Backtest{}, rep, err
	}
	return all[0], rep, nil
}

type decoder interface {
	Decode(v any) error
}

// split unpacks a list of whole backtests; any other document is one.
func split(doc any) []any {
	switch v := doc.(type) {
	case nil:
		return nil
	case []any:
		if len(v) == 0 {
			return []any{v}
		}
		if first, ok := v[0].(map[string]any); ok {
			if _, nested := lookup(first, cyclesKeys).([]any); nested {
				return v
			}
		}
	}
	return []any{doc}
}

func normalize(doc any) (Backtest, Report, error) {
	var statsObj map[string]any
	var cyclesRaw []any

	switch v := doc.(type) {
	case map[string]any:
		statsObj, _ = lookup(v, statsKeys).(map[string]any)
		if statsObj == nil {
			// Stats fields may sit at the top level next to the cycles.
			statsObj = v
		}
		cyclesRaw, _ = lookup(v, cyclesKeys).([]any)
	case []any:
		cyclesRaw = v
	default:
		return Backtest{}, Report{}, fmt.Errorf("unexpected document of type %T", doc)
	}

	bt := Backtest{Stats: StatsFrom(statsObj)}
	var rep Report
	for _, raw := range cyclesRaw {
		obj, ok := raw.(map[string]any)
		if !ok {
			rep.Skipped++
			continue
		}
		c := CycleFrom(obj)
		rep.Cycles++
		if c.Finished() {
			rep.Finished++
			if !finite(c.CloseTime) {
				rep.MissingClose++
			}
			if !finite(c.DurationSec) {
				rep.MissingDuration++
			}
		}
		bt.Cycles = append(bt.Cycles, c)
	}
	return bt, rep, nil
}

// StatsFrom maps a stats object onto aggregate.Stats.
func StatsFrom(obj map[string]any) aggregate.Stats {
	st := aggregate.Stats{
		ID:             text(lookup(obj, idKeys)),
		Name:           text(lookup(obj, nameKeys)),
		Symbol:         text(lookup(obj, symbolKeys)),
		NetPnL:         number(lookup(obj, netPnLKeys)),
		ProfitCount:    count(lookup(obj, profitCountKeys)),
		LossCount:      count(lookup(obj, lossCountKeys)),
		TotalDeals:     count(lookup(obj, totalDealsKeys)),
		AvgDurationSec: number(lookup(obj, avgDurationKeys)),
	}

	start := timestamp(lookup(obj, spanStartKeys))
	end := timestamp(lookup(obj, spanEndKeys))
	if aggregate.ValidTime(start) && aggregate.ValidTime(end) && end >= start {
		st.Span = aggregate.Span{Start: int64(math.Round(start)), End: int64(math.Round(end))}
	}
	return st
}

// CycleFrom maps one cycle object onto aggregate.Cycle.
func CycleFrom(obj map[string]any) aggregate.Cycle {
	c := aggregate.Cycle{
		ID:          text(lookup(obj, cycleIDKeys)),
		Status:      status(text(lookup(obj, statusKeys))),
		CloseTime:   timestamp(lookup(obj, closeKeys)),
		DurationSec: number(lookup(obj, durationKeys)),
		Net:         number(lookup(obj, netKeys)),
		MAE:         number(lookup(obj, maeKeys)),
		MFE:         number(lookup(obj, mfeKeys)),
	}

	orders, _ := lookup(obj, ordersKeys).([]any)
	for _, o := range orders {
		var ts float64
		if m, ok := o.(map[string]any); ok {
			ts = timestamp(lookup(m, execKeys))
		} else {
			ts = timestamp(o)
		}
		if finite(ts) {
			c.ExecutionTimes = append(c.ExecutionTimes, ts)
		}
	}
	return c
}

func lookup(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func status(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if finishedAliases[s] {
		return aggregate.StatusFinished
	}
	return s
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func number(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float64:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func count(v any) int {
	f := number(v)
	if !finite(f) || f < 0 {
		return 0
	}
	return int(math.Round(f))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timestamp returns epoch ms. Numbers are taken as epoch ms already.
func timestamp(v any) float64 {
	switch x := v.(type) {
	case time.Time:
		return float64(x.UnixMilli())
	case string:
		s := strings.TrimSpace(x)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return float64(t.UTC().UnixMilli())
			}
		}
		return math.NaN()
	default:
		return number(v)
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
