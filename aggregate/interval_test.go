package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveInterval(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	tests := []struct {
		name  string
		cycle Cycle
		want  TimeInterval
		ok    bool
	}{
		{
			name:  "duration in seconds",
			cycle: Cycle{CloseTime: 10_000, DurationSec: 4},
			want:  TimeInterval{Start: 6_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "falls back to earliest execution",
			cycle: Cycle{CloseTime: 10_000, DurationSec: nan, ExecutionTimes: []float64{7_000, nan, 3_000, 9_000}},
			want:  TimeInterval{Start: 3_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "no duration and no executions is zero length",
			cycle: Cycle{CloseTime: 10_000, DurationSec: math.Inf(1)},
			want:  TimeInterval{Start: 10_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "negative duration clamps start",
			cycle: Cycle{CloseTime: 10_000, DurationSec: -5},
			want:  TimeInterval{Start: 10_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "execution after close clamps start",
			cycle: Cycle{CloseTime: 10_000, DurationSec: nan, ExecutionTimes: []float64{12_000}},
			want:  TimeInterval{Start: 10_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "overflowing duration falls back to executions",
			cycle: Cycle{CloseTime: 10_000, DurationSec: 1e300, ExecutionTimes: []float64{3_000}},
			want:  TimeInterval{Start: 3_000, End: 10_000},
			ok:    true,
		},
		{
			name:  "centuries long duration is zero length",
			cycle: Cycle{CloseTime: 1_700_000_000_000, DurationSec: 1e13},
			want:  TimeInterval{Start: 1_700_000_000_000, End: 1_700_000_000_000},
			ok:    true,
		},
		{
			name: "out of range executions are ignored",
			cycle: Cycle{
				CloseTime:      1_700_000_000_000,
				DurationSec:    nan,
				ExecutionTimes: []float64{-1e300, 1e17, 1_700_000_000_000 - 200*366*float64(DayMs), 1_699_999_000_000},
			},
			want: TimeInterval{Start: 1_699_999_000_000, End: 1_700_000_000_000},
			ok:   true,
		},
		{
			name:  "close time beyond representable dates",
			cycle: Cycle{CloseTime: 1e300, DurationSec: 10},
			ok:    false,
		},
		{
			name:  "close time just past the date range",
			cycle: Cycle{CloseTime: -9e15, DurationSec: 10},
			ok:    false,
		},
		{
			name:  "missing close time",
			cycle: Cycle{CloseTime: nan, DurationSec: 10},
			ok:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveInterval(tt.cycle)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.True(t, got.Valid())
				assert.LessOrEqual(t, got.End-got.Start, MaxIntervalMs)
			}
		})
	}
}

func TestValidTime(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidTime(0))
	assert.True(t, ValidTime(-MaxTimeMs))
	assert.True(t, ValidTime(MaxTimeMs))
	assert.False(t, ValidTime(MaxTimeMs+1e6))
	assert.False(t, ValidTime(math.NaN()))
	assert.False(t, ValidTime(math.Inf(-1)))
}

func TestCycleFinished(t *testing.T) {
	t.Parallel()

	assert.True(t, Cycle{Status: "finished"}.Finished())
	assert.True(t, Cycle{Status: " FINISHED "}.Finished())
	assert.False(t, Cycle{Status: "started"}.Finished())
	assert.False(t, Cycle{}.Finished())
}

func TestDayIndex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), DayIndex(0))
	assert.Equal(t, int64(0), DayIndex(DayMs-1))
	assert.Equal(t, int64(1), DayIndex(DayMs))
	assert.Equal(t, int64(-1), DayIndex(-1))
	assert.Equal(t, int64(-1), DayIndex(-DayMs))
	assert.Equal(t, int64(-2), DayIndex(-DayMs-1))
}

func TestSpanUnion(t *testing.T) {
	t.Parallel()

	a := Span{Start: 100, End: 200}
	b := Span{Start: 50, End: 150}

	assert.Equal(t, Span{Start: 50, End: 200}, a.Union(b))
	assert.Equal(t, a, a.Union(Span{}))
	assert.Equal(t, b, Span{}.Union(b))
	assert.False(t, Span{}.Known())
	assert.False(t, Span{Start: 10, End: 5}.Known())
}
