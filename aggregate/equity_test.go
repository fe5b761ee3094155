package aggregate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEquityEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EquitySeries{}, MergeEquity(nil, nil))
	assert.Equal(t, EquitySeries{}, MergeEquity(nil, []Span{{}}))

	seeded := MergeEquity(nil, []Span{{Start: 500, End: 900}})
	assert.Equal(t, []EquityPoint{{Time: 500, Value: 0}}, seeded.Points)
}

func TestMergeEquitySeedsBaseline(t *testing.T) {
	t.Parallel()

	got := MergeEquity([]TradeEvent{
		{Start: 1500, Time: 2000, Net: -40},
		{Start: 500, Time: 1000, Net: 100},
	}, []Span{{Start: 200, End: 3000}, {Start: 100, End: 2500}})

	assert.Equal(t, []EquityPoint{
		{Time: 100, Value: 0},
		{Time: 1000, Value: 100},
		{Time: 2000, Value: 60},
	}, got.Points)
	assert.Equal(t, 0.0, got.MinValue)
	assert.Equal(t, 100.0, got.MaxValue)
	assert.Equal(t, 60.0, got.Final())
}

func TestMergeEquitySeedNeverAfterFirstTrade(t *testing.T) {
	t.Parallel()

	got := MergeEquity([]TradeEvent{{Time: 50, Net: -5}}, []Span{{Start: 100, End: 200}})
	require.Len(t, got.Points, 2)
	assert.Equal(t, EquityPoint{Time: 50, Value: 0}, got.Points[0])
	assert.Equal(t, -5.0, got.MinValue)
	assert.Equal(t, 0.0, got.MaxValue)
}

func TestMergeEquityWithoutSpan(t *testing.T) {
	t.Parallel()

	got := MergeEquity([]TradeEvent{{Time: 10, Net: 3}}, nil)
	assert.Equal(t, []EquityPoint{{Time: 10, Value: 3}}, got.Points)
}

func TestMergeEquityTieOrderByStart(t *testing.T) {
	t.Parallel()

	got := MergeEquity([]TradeEvent{
		{Start: 9, Time: 10, Net: 1},
		{Start: 2, Time: 10, Net: 100},
	}, nil)
	require.Len(t, got.Points, 2)
	assert.Equal(t, 100.0, got.Points[0].Value)
	assert.Equal(t, 101.0, got.Points[1].Value)
}

func TestMergeEquityFinalIsOrderIndependent(t *testing.T) {
	t.Parallel()

	trades := []TradeEvent{
		{Time: 10, Net: 0.5},
		{Time: 10, Net: -2},
		{Time: 10, Net: 7},
		{Time: 20, Net: 1.25},
		{Time: 20, Net: -3},
	}
	want := 0.0
	for _, tr := range trades {
		want += tr.Net
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(trades), func(a, b int) { trades[a], trades[b] = trades[b], trades[a] })
		assert.InDelta(t, want, MergeEquity(trades, nil).Final(), 1e-9)
	}
}
