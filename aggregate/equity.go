package aggregate

import "sort"

// EquityPoint is the cumulative portfolio P&L at an instant.
type EquityPoint struct {
	Time  int64
	Value float64
}

// EquitySeries is a chronological portfolio equity curve.
type EquitySeries struct {
	Points   []EquityPoint
	MinValue float64
	MaxValue float64
}

// Final returns the last cumulative value, or 0 for an empty series.
func (s EquitySeries) Final() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Value
}

// MergeEquity folds the trade events of many backtests into one cumulative
// series, ordered by close time then open time. When any span start is
// known the series is seeded with a zero point at the earliest of them
// (never after the first trade).
func MergeEquity(trades []TradeEvent, spans []Span) EquitySeries {
	sorted := make([]TradeEvent, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Time != sorted[j].Time {
			return sorted[i].Time < sorted[j].Time
		}
		return sorted[i].Start < sorted[j].Start
	})

	var (
		seed   int64
		seeded bool
	)
	for _, s := range spans {
		if !s.Known() {
			continue
		}
		if !seeded || s.Start < seed {
			seed = s.Start
			seeded = true
		}
	}

	if len(sorted) == 0 && !seeded {
		return EquitySeries{}
	}

	points := make([]EquityPoint, 0, len(sorted)+1)
	if seeded {
		if len(sorted) > 0 && sorted[0].Time < seed {
			seed = sorted[0].Time
		}
		points = append(points, EquityPoint{Time: seed})
	}

	// The zero baseline counts toward the extrema even when not emitted.
	series := EquitySeries{}
	var cumulative float64
	for _, t := range sorted {
		cumulative += t.Net
		points = append(points, EquityPoint{Time: t.Time, Value: cumulative})
		if cumulative < series.MinValue {
			series.MinValue = cumulative
		}
		if cumulative > series.MaxValue {
			series.MaxValue = cumulative
		}
	}
	series.Points = points
	return series
}
