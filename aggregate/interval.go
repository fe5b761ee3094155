// Package aggregate turns per-backtest trade records into portfolio level
// drawdown, concurrency, risk and equity statistics. Every function is a pure
// transform of its arguments.
package aggregate

import (
	"math"
	"strings"
)

// DayMs is the width of one UTC day bucket in epoch milliseconds.
const DayMs int64 = 86_400_000

// MaxTimeMs bounds accepted timestamps to 100,000,000 days either side of
// the epoch.
const MaxTimeMs = 8.64e15

// MaxIntervalMs caps the length of one resolved cycle. A duration or order
// time implying a longer cycle is treated as corrupt.
const MaxIntervalMs int64 = 100 * 366 * DayMs

// StatusFinished marks a cycle whose position has been closed.
const StatusFinished = "finished"

// Cycle is one trade record of a backtest. Numeric fields use NaN for
// missing or unparseable values; timestamps are epoch milliseconds.
type Cycle struct {
	ID     string
	Status string

	CloseTime   float64 // epoch ms
	DurationSec float64
	Net         float64
	MAE         float64 // magnitude of the worst unrealized loss
	MFE         float64 // magnitude of the best unrealized gain

	// ExecutionTimes are the epoch ms timestamps of the cycle's orders.
	ExecutionTimes []float64
}

// Finished reports whether the cycle contributes to interval statistics.
func (c Cycle) Finished() bool {
	return strings.EqualFold(strings.TrimSpace(c.Status), StatusFinished)
}

// TimeInterval is a half-open [Start, End) span in epoch ms.
type TimeInterval struct {
	Start int64
	End   int64
}

// Valid reports End >= Start.
func (iv TimeInterval) Valid() bool {
	return iv.End >= iv.Start
}

// RiskInterval is a TimeInterval carrying the capital at risk during it.
type RiskInterval struct {
	TimeInterval
	Value float64
}

// Span is the window a backtest's data covers. The zero value is unknown.
type Span struct {
	Start int64
	End   int64
}

// Known reports whether the span was declared and is well formed.
func (s Span) Known() bool {
	return (s.Start != 0 || s.End != 0) && s.End >= s.Start
}

// Union returns the smallest span covering both s and o.
func (s Span) Union(o Span) Span {
	switch {
	case !s.Known():
		return o
	case !o.Known():
		return s
	}
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ValidTime reports whether ms is a finite epoch ms instant within MaxTimeMs.
func ValidTime(ms float64) bool {
	return finite(ms) && math.Abs(ms) <= MaxTimeMs
}

// DayIndex returns the UTC day bucket containing t.
func DayIndex(t int64) int64 {
	d := t / DayMs
	if t%DayMs != 0 && t < 0 {
		d--
	}
	return d
}

// lastDay is the bucket holding the last covered millisecond of [start, end).
func lastDay(start, end int64) int64 {
	if end > start {
		return DayIndex(end - 1)
	}
	return DayIndex(start)
}

// ResolveInterval derives the time interval a cycle occupied. It returns
// false when the close time is not a valid instant. Durations and order
// times that would stretch the cycle beyond MaxIntervalMs are ignored.
func ResolveInterval(c Cycle) (TimeInterval, bool) {
	if !ValidTime(c.CloseTime) {
		return TimeInterval{}, false
	}
	end := int64(math.Round(c.CloseTime))
	start := end

	if dur := c.DurationSec * 1000; finite(dur) && math.Abs(dur) <= float64(MaxIntervalMs) {
		start = end - int64(math.Round(dur))
	} else if first, ok := earliest(c.ExecutionTimes, end); ok {
		start = first
	}

	if start > end {
		start = end
	}
	return TimeInterval{Start: start, End: end}, true
}

// earliest returns the first order time no more than MaxIntervalMs before end.
func earliest(ts []float64, end int64) (int64, bool) {
	var (
		lo    float64
		found bool
	)
	for _, t := range ts {
		if !ValidTime(t) || float64(end)-t > float64(MaxIntervalMs) {
			continue
		}
		if !found || t < lo {
			lo = t
			found = true
		}
	}
	return int64(math.Round(lo)), found
}
