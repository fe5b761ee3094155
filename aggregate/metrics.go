package aggregate

import (
	"math"
	"sort"
)

// Stats are the aggregate counters a platform reports for one backtest.
// NetPnL and AvgDurationSec are NaN when not reported.
type Stats struct {
	ID     string
	Name   string
	Symbol string

	NetPnL         float64
	ProfitCount    int
	LossCount      int
	TotalDeals     int
	AvgDurationSec float64

	Span Span
}

// BacktestMetrics is everything the summarizer needs from one backtest.
// It is a pure function of (Stats, cycles) and safe to cache.
type BacktestMetrics struct {
	ID     string
	Name   string
	Symbol string

	PnL            float64
	TotalDeals     int
	ProfitDeals    int
	LossDeals      int
	AvgDurationSec float64
	WinRate        float64
	GrossProfit    float64
	GrossLoss      float64 // magnitude

	MaxDrawdown  float64
	MaxRisk      float64 // largest single-cycle MAE magnitude
	MaxFavorable float64 // largest single-cycle MFE magnitude

	Concurrency          ConcurrencyStats
	ConcurrencyIntervals []TimeInterval
	RiskIntervals        []RiskInterval
	Trades               []TradeEvent

	// ActiveDays are the sorted day indices touched by a finished interval
	// or by any order execution, finished or not.
	ActiveDays []int64
	Span       Span
}

// ComputeBacktestMetrics derives the metrics of one backtest. Malformed
// cycles are dropped from the steps they cannot feed; nothing errors.
func ComputeBacktestMetrics(stats Stats, cycles []Cycle) BacktestMetrics {
	m := BacktestMetrics{
		ID:     stats.ID,
		Name:   stats.Name,
		Symbol: stats.Symbol,
	}

	days := map[int64]struct{}{}
	var (
		finished, profits, losses int
		netSum, durationSum       float64
		durations                 int
		extent                    Span
	)

	for _, c := range cycles {
		for _, t := range c.ExecutionTimes {
			if ValidTime(t) {
				days[DayIndex(int64(math.Round(t)))] = struct{}{}
			}
		}
		if !c.Finished() {
			continue
		}

		finished++
		if finite(c.Net) {
			netSum += c.Net
			switch {
			case c.Net > 0:
				profits++
				m.GrossProfit += c.Net
			case c.Net < 0:
				losses++
				m.GrossLoss -= c.Net
			}
		}
		if finite(c.MFE) && math.Abs(c.MFE) > m.MaxFavorable {
			m.MaxFavorable = math.Abs(c.MFE)
		}

		iv, ok := ResolveInterval(c)
		if !ok {
			continue
		}
		m.ConcurrencyIntervals = append(m.ConcurrencyIntervals, iv)
		extent = extent.Union(Span{Start: iv.Start, End: iv.End})
		for d := DayIndex(iv.Start); d <= lastDay(iv.Start, iv.End); d++ {
			days[d] = struct{}{}
		}
		durationSum += float64(iv.End-iv.Start) / 1000
		durations++

		if finite(c.Net) {
			m.Trades = append(m.Trades, TradeEvent{Start: iv.Start, Time: iv.End, Net: c.Net})
		}
		if finite(c.MAE) {
			risk := math.Abs(c.MAE)
			m.RiskIntervals = append(m.RiskIntervals, RiskInterval{TimeInterval: iv, Value: risk})
			if risk > m.MaxRisk {
				m.MaxRisk = risk
			}
		}
	}

	m.PnL = netSum
	if finite(stats.NetPnL) {
		m.PnL = stats.NetPnL
	}

	m.TotalDeals, m.ProfitDeals, m.LossDeals = finished, profits, losses
	if stats.TotalDeals > 0 {
		m.TotalDeals, m.ProfitDeals, m.LossDeals = stats.TotalDeals, stats.ProfitCount, stats.LossCount
	}
	if m.TotalDeals > 0 {
		m.WinRate = float64(m.ProfitDeals) / float64(m.TotalDeals)
	}

	switch {
	case finite(stats.AvgDurationSec) && stats.AvgDurationSec >= 0:
		m.AvgDurationSec = stats.AvgDurationSec
	case durations > 0:
		m.AvgDurationSec = durationSum / float64(durations)
	}

	m.Span = stats.Span
	if !m.Span.Known() {
		m.Span = extent
	}

	m.MaxDrawdown = BuildDrawdown(m.Trades).MaxDrawdown
	m.Concurrency = SweepConcurrency(m.ConcurrencyIntervals, m.Span)
	m.ActiveDays = sortedDays(days)
	return m
}

func sortedDays(days map[int64]struct{}) []int64 {
	if len(days) == 0 {
		return nil
	}
	out := make([]int64, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
