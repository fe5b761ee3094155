package aggregate

import "sort"

// TradeEvent is the realized P&L of one finished cycle at its close.
type TradeEvent struct {
	Start int64 // epoch ms the cycle opened
	Time  int64 // epoch ms the cycle closed
	Net   float64
}

// EquityEvent is one step of a cumulative equity curve. Cumulative and
// Drawdown are derived while walking the curve.
type EquityEvent struct {
	Time       int64
	Delta      float64
	Cumulative float64
	Drawdown   float64
}

// Drawdown is a cumulative equity curve and its deepest decline from a peak.
type Drawdown struct {
	MaxDrawdown float64
	Events      []EquityEvent
}

// BuildDrawdown walks trade events in close-time order (stable on ties),
// tracking the running peak of cumulative P&L from a zero baseline.
func BuildDrawdown(trades []TradeEvent) Drawdown {
	if len(trades) == 0 {
		return Drawdown{}
	}

	sorted := make([]TradeEvent, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	steps := make([]EquityEvent, len(sorted))
	for i, t := range sorted {
		steps[i] = EquityEvent{Time: t.Time, Delta: t.Net}
	}
	return walkEquity(steps)
}

// BuildPortfolioDrawdown is BuildDrawdown across many backtests. Trades
// closing at the same instant are collapsed into one combined delta first,
// so the curve never peaks between two halves of a single instant.
func BuildPortfolioDrawdown(trades []TradeEvent) Drawdown {
	if len(trades) == 0 {
		return Drawdown{}
	}

	sorted := make([]TradeEvent, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	steps := make([]EquityEvent, 0, len(sorted))
	for _, t := range sorted {
		if n := len(steps); n > 0 && steps[n-1].Time == t.Time {
			steps[n-1].Delta += t.Net
			continue
		}
		steps = append(steps, EquityEvent{Time: t.Time, Delta: t.Net})
	}
	return walkEquity(steps)
}

func walkEquity(steps []EquityEvent) Drawdown {
	var cumulative, peak, maxDD float64
	for i := range steps {
		cumulative += steps[i].Delta
		if cumulative > peak {
			peak = cumulative
		}
		dd := peak - cumulative
		if dd > maxDD {
			maxDD = dd
		}
		steps[i].Cumulative = cumulative
		steps[i].Drawdown = dd
	}
	return Drawdown{MaxDrawdown: maxDD, Events: steps}
}
