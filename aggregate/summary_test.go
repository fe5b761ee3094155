package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedCycle(closeMs int64, durationSec, net, mae float64) Cycle {
	return Cycle{
		Status:      StatusFinished,
		CloseTime:   float64(closeMs),
		DurationSec: durationSec,
		Net:         net,
		MAE:         mae,
		MFE:         math.NaN(),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil, Options{})
	assert.Zero(t, s.TotalPnL)
	assert.Zero(t, s.TotalDeals)
	assert.Zero(t, s.AvgPnLPerDeal)
	assert.Zero(t, s.AvgPnLPerBacktest)
	assert.Zero(t, s.MaxDrawdown)
	assert.Zero(t, s.NoTradeDays)
	assert.Equal(t, ConcurrencyStats{}, s.Concurrency)
	assert.Empty(t, s.Daily.Records)
	assert.Empty(t, s.Equity.Points)
	assert.Empty(t, s.DrawdownEvents)
}

func TestSummarizeTwoTrades(t *testing.T) {
	t.Parallel()

	stats := unknownStats("a")
	stats.Span = Span{Start: 1, End: 3000}
	m := ComputeBacktestMetrics(stats, []Cycle{
		finishedCycle(1000, 0.5, 100, 10),
		finishedCycle(2000, 0.5, -40, 50),
	})

	s := Summarize([]BacktestMetrics{m}, Options{})
	assert.InDelta(t, 60.0, s.TotalPnL, 1e-9)
	assert.Equal(t, []EquityPoint{
		{Time: 1, Value: 0},
		{Time: 1000, Value: 100},
		{Time: 2000, Value: 60},
	}, s.Equity.Points)
	assert.Equal(t, 2, s.TotalDeals)
	assert.InDelta(t, 30.0, s.AvgPnLPerDeal, 1e-9)
	assert.InDelta(t, 60.0, s.AvgPnLPerBacktest, 1e-9)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 2.5, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 40.0, s.MaxDrawdown, 1e-9)
	assert.InDelta(t, 50.0, s.Risk.Peak, 1e-9)
	assert.Zero(t, s.NoTradeDays)
}

func TestSummarizePortfolio(t *testing.T) {
	t.Parallel()

	hour := time.Hour.Milliseconds()
	hours := func(n int64) float64 { return float64(n * hour / 1000) }

	a := unknownStats("a")
	a.Span = Span{Start: 0, End: 5 * DayMs}
	b := unknownStats("b")
	b.Span = Span{Start: DayMs, End: 4 * DayMs}
	c := unknownStats("c")

	metrics := []BacktestMetrics{
		ComputeBacktestMetrics(a, []Cycle{
			finishedCycle(4*hour, hours(4), 50, 30),
			{Status: "started", CloseTime: math.NaN(), DurationSec: math.NaN(),
				ExecutionTimes: []float64{float64(2*DayMs + hour)}},
		}),
		ComputeBacktestMetrics(b, []Cycle{
			finishedCycle(4*hour, hours(2), -80, 20),
		}),
		ComputeBacktestMetrics(c, []Cycle{
			finishedCycle(4*DayMs, hours(1), 1000, 1),
		}),
	}

	s := Summarize(metrics, Options{
		Excluded:          map[string]bool{"c": true},
		MaxConcurrentBots: 1,
	})

	assert.Equal(t, 3, s.BacktestCount)
	assert.Equal(t, 2, s.IncludedCount)
	assert.InDelta(t, -30.0, s.TotalPnL, 1e-9)
	assert.InDelta(t, -15.0, s.AvgPnLPerBacktest, 1e-9)
	assert.InDelta(t, hours(3), s.AvgDurationSec, 1e-9)

	// both trades close at the same instant and collapse into one step
	require.Len(t, s.DrawdownEvents, 1)
	assert.InDelta(t, 30.0, s.MaxDrawdown, 1e-9)
	assert.InDelta(t, 80.0, s.WorstBacktestDrawdown, 1e-9)

	assert.InDelta(t, 50.0, s.Risk.Peak, 1e-9)
	assert.Equal(t, 3, s.Concurrency.Max)
	assert.Equal(t, Span{Start: 0, End: 5 * DayMs}, s.Span)

	require.Len(t, s.Daily.Records, 1)
	assert.Equal(t, 2, s.Daily.Records[0].MaxCount)
	assert.Equal(t, 1, s.DaysOverLimit)

	// days 0..4, activity on day 0 (trades) and day 2 (order only)
	assert.Equal(t, 3, s.NoTradeDays)

	require.Len(t, s.Equity.Points, 3)
	assert.Equal(t, EquityPoint{Time: 0, Value: 0}, s.Equity.Points[0])
	assert.Equal(t, EquityPoint{Time: 4 * hour, Value: 50}, s.Equity.Points[1])
	assert.InDelta(t, -30.0, s.Equity.Final(), 1e-9)
}

func TestSummarizeLimitIsInformational(t *testing.T) {
	t.Parallel()

	m := ComputeBacktestMetrics(unknownStats("a"), []Cycle{
		finishedCycle(1000, 1, 10, 1),
		finishedCycle(1500, 1, 10, 1),
	})

	base := Summarize([]BacktestMetrics{m}, Options{})
	capped := Summarize([]BacktestMetrics{m}, Options{MaxConcurrentBots: 1})

	assert.Equal(t, base.TotalPnL, capped.TotalPnL)
	assert.Equal(t, base.MaxDrawdown, capped.MaxDrawdown)
	assert.Zero(t, base.DaysOverLimit)
	assert.Equal(t, 1, capped.DaysOverLimit)
}

func TestExploreLimits(t *testing.T) {
	t.Parallel()

	records := []DailyConcurrencyRecord{
		{DayIndex: 0, MaxCount: 1},
		{DayIndex: 1, MaxCount: 3},
		{DayIndex: 2, MaxCount: 2},
		{DayIndex: 3, MaxCount: 3},
	}

	got := ExploreLimits(records, 3)
	assert.Equal(t, []LimitPoint{
		{Limit: 1, DaysWithin: 1, Share: 0.25},
		{Limit: 2, DaysWithin: 2, Share: 0.5},
		{Limit: 3, DaysWithin: 4, Share: 1},
	}, got)
	assert.Nil(t, ExploreLimits(records, 0))
	assert.Equal(t, []LimitPoint{{Limit: 1}}, ExploreLimits(nil, 1))
}

func TestSummarizeOutOfRangeTimesStayBounded(t *testing.T) {
	t.Parallel()

	done := make(chan Summary, 1)
	go func() {
		m := ComputeBacktestMetrics(unknownStats("bt"), corruptCycles())
		done <- Summarize([]BacktestMetrics{m}, Options{})
	}()

	var s Summary
	select {
	case s = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Summarize did not return")
	}

	require.Len(t, s.Daily.Records, 1)
	assert.Equal(t, DayIndex(1_700_000_000_000), s.Daily.Records[0].DayIndex)
	assert.Equal(t, 3, s.Concurrency.Max)
	assert.Zero(t, s.NoTradeDays)
	assert.InDelta(t, 12.0, s.Equity.Final(), 1e-9)
	assert.InDelta(t, 13.0, s.TotalPnL, 1e-9)
	assert.Len(t, s.Equity.Points, 4)
}
