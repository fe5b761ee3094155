package aggregate

// Options tune Summarize.
type Options struct {
	// Excluded backtest IDs are skipped.
	Excluded map[string]bool

	// MaxConcurrentBots is an exploratory cap. It never filters trades;
	// the summary reports how many active days exceed it. Zero is unset.
	MaxConcurrentBots int
}

// Summary is the portfolio view over the included backtests. It is a
// fresh projection of its inputs and never persisted.
type Summary struct {
	BacktestCount int
	IncludedCount int

	TotalPnL          float64
	TotalDeals        int
	ProfitDeals       int
	LossDeals         int
	GrossProfit       float64
	GrossLoss         float64
	AvgPnLPerDeal     float64
	AvgPnLPerBacktest float64
	AvgDurationSec    float64 // deal-weighted
	WinRate           float64
	ProfitFactor      float64

	MaxDrawdown           float64 // of the merged portfolio curve
	WorstBacktestDrawdown float64
	DrawdownEvents        []EquityEvent

	Risk        RiskStats
	Concurrency ConcurrencyStats
	Daily       DailyConcurrency
	Equity      EquitySeries

	Span        Span
	NoTradeDays int

	MaxConcurrentBots int
	DaysOverLimit     int
}

// Summarize merges per-backtest metrics into one portfolio summary.
// Empty input yields a zero summary.
func Summarize(metrics []BacktestMetrics, opts Options) Summary {
	s := Summary{
		BacktestCount:     len(metrics),
		MaxConcurrentBots: opts.MaxConcurrentBots,
	}

	var (
		trades        []TradeEvent
		intervals     []TimeInterval
		risks         []RiskInterval
		spans         []Span
		durationDeals int
		durationSum   float64
	)
	active := map[int64]struct{}{}

	for _, m := range metrics {
		if opts.Excluded[m.ID] {
			continue
		}
		s.IncludedCount++

		s.TotalPnL += m.PnL
		s.TotalDeals += m.TotalDeals
		s.ProfitDeals += m.ProfitDeals
		s.LossDeals += m.LossDeals
		s.GrossProfit += m.GrossProfit
		s.GrossLoss += m.GrossLoss
		if m.TotalDeals > 0 {
			durationSum += m.AvgDurationSec * float64(m.TotalDeals)
			durationDeals += m.TotalDeals
		}
		if m.MaxDrawdown > s.WorstBacktestDrawdown {
			s.WorstBacktestDrawdown = m.MaxDrawdown
		}

		trades = append(trades, m.Trades...)
		intervals = append(intervals, m.ConcurrencyIntervals...)
		risks = append(risks, m.RiskIntervals...)
		if m.Span.Known() {
			spans = append(spans, m.Span)
			s.Span = s.Span.Union(m.Span)
		}
		for _, d := range m.ActiveDays {
			active[d] = struct{}{}
		}
	}

	if s.TotalDeals > 0 {
		s.AvgPnLPerDeal = s.TotalPnL / float64(s.TotalDeals)
		s.WinRate = float64(s.ProfitDeals) / float64(s.TotalDeals)
	}
	if s.IncludedCount > 0 {
		s.AvgPnLPerBacktest = s.TotalPnL / float64(s.IncludedCount)
	}
	if durationDeals > 0 {
		s.AvgDurationSec = durationSum / float64(durationDeals)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}

	dd := BuildPortfolioDrawdown(trades)
	s.MaxDrawdown = dd.MaxDrawdown
	s.DrawdownEvents = dd.Events

	s.Risk = SweepRisk(risks)
	s.Concurrency = SweepConcurrency(intervals, s.Span)
	s.Daily = BucketDaily(intervals)
	s.Equity = MergeEquity(trades, spans)
	s.NoTradeDays = noTradeDays(s.Span, active)

	if s.MaxConcurrentBots > 0 {
		for _, r := range s.Daily.Records {
			if r.MaxCount > s.MaxConcurrentBots {
				s.DaysOverLimit++
			}
		}
	}
	return s
}

// noTradeDays counts the day buckets of span that saw no activity.
func noTradeDays(span Span, active map[int64]struct{}) int {
	if !span.Known() {
		return 0
	}
	first, last := DayIndex(span.Start), lastDay(span.Start, span.End)
	idle := int(last - first + 1)
	for d := range active {
		if d >= first && d <= last {
			idle--
		}
	}
	return idle
}

// LimitPoint tells how many active days would have fit under a cap on
// simultaneous positions.
type LimitPoint struct {
	Limit      int
	DaysWithin int
	Share      float64
}

// ExploreLimits evaluates the caps 1..n against the daily maxima.
func ExploreLimits(records []DailyConcurrencyRecord, n int) []LimitPoint {
	if n <= 0 {
		return nil
	}
	points := make([]LimitPoint, n)
	for i := range points {
		limit := i + 1
		p := LimitPoint{Limit: limit}
		for _, r := range records {
			if r.MaxCount <= limit {
				p.DaysWithin++
			}
		}
		if len(records) > 0 {
			p.Share = float64(p.DaysWithin) / float64(len(records))
		}
		points[i] = p
	}
	return points
}
