package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketDailyEmpty(t *testing.T) {
	t.Parallel()

	got := BucketDaily(nil)
	assert.Empty(t, got.Records)
	assert.Equal(t, DailyStats{}, got.Stats)
}

func TestBucketDailySplitsAtUTCBoundary(t *testing.T) {
	t.Parallel()

	start := 10 * DayMs
	end := start + (36 * time.Hour).Milliseconds()

	got := BucketDaily([]TimeInterval{{Start: start, End: end}})
	require.Len(t, got.Records, 2)

	assert.Equal(t, DailyConcurrencyRecord{
		DayIndex:         10,
		ActiveDurationMs: DayMs,
		MaxCount:         1,
		AvgActiveCount:   1,
	}, got.Records[0])
	assert.Equal(t, DailyConcurrencyRecord{
		DayIndex:         11,
		ActiveDurationMs: (12 * time.Hour).Milliseconds(),
		MaxCount:         1,
		AvgActiveCount:   1,
	}, got.Records[1])
}

func TestBucketDailyPerDayMaxAndAverage(t *testing.T) {
	t.Parallel()

	hour := time.Hour.Milliseconds()
	got := BucketDaily([]TimeInterval{
		{Start: 0, End: 4 * hour},
		{Start: 2 * hour, End: 6 * hour},
		{Start: DayMs + hour, End: DayMs + 2*hour},
		{Start: 3 * DayMs, End: 3 * DayMs}, // zero length, omitted
	})
	require.Len(t, got.Records, 2)

	day0 := got.Records[0]
	assert.Equal(t, int64(0), day0.DayIndex)
	assert.Equal(t, 6*hour, day0.ActiveDurationMs)
	assert.Equal(t, 2, day0.MaxCount)
	assert.InDelta(t, 8.0/6.0, day0.AvgActiveCount, 1e-9)

	day1 := got.Records[1]
	assert.Equal(t, int64(1), day1.DayIndex)
	assert.Equal(t, 1, day1.MaxCount)

	assert.Equal(t, 2, got.Stats.Days)
	assert.InDelta(t, 1.5, got.Stats.MeanMax, 1e-9)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 2, 4}

	assert.Equal(t, 1.0, Percentile(values, 0))
	assert.Equal(t, 4.0, Percentile(values, 1))
	assert.InDelta(t, 2.5, Percentile(values, 0.5), 1e-9)
	assert.InDelta(t, 3.25, Percentile(values, 0.75), 1e-9)
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 0.9))

	prev := Percentile(values, 0)
	for p := 0.0; p <= 1.0; p += 0.01 {
		got := Percentile(values, p)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}

	// input order is untouched
	assert.Equal(t, []float64{3, 1, 2, 4}, values)
}

func TestDailyStatsLimits(t *testing.T) {
	t.Parallel()

	records := []DailyConcurrencyRecord{
		{DayIndex: 1, MaxCount: 2},
		{DayIndex: 2, MaxCount: 5},
		{DayIndex: 3, MaxCount: 1},
		{DayIndex: 4, MaxCount: 2},
	}

	st := DailyStatsFrom(records)
	assert.Equal(t, 4, st.Days)
	assert.InDelta(t, 2.5, st.MeanMax, 1e-9)
	assert.InDelta(t, 2.75, st.P75, 1e-9)
	assert.InDelta(t, 4.1, st.P90, 1e-9)
	assert.InDelta(t, 4.55, st.P95, 1e-9)
	assert.Equal(t, Limits{P75: 3, P90: 5, P95: 5}, st.Limits)
}

func TestDailyStatsWholeLimits(t *testing.T) {
	t.Parallel()

	st := DailyStatsFrom([]DailyConcurrencyRecord{{MaxCount: 3}, {MaxCount: 3}, {MaxCount: 3}})
	assert.Equal(t, Limits{P75: 3, P90: 3, P95: 3}, st.Limits)
}
