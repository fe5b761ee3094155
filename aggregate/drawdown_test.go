package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDrawdownEmpty(t *testing.T) {
	t.Parallel()

	dd := BuildDrawdown(nil)
	assert.Zero(t, dd.MaxDrawdown)
	assert.Empty(t, dd.Events)
}

func TestBuildDrawdownMonotonic(t *testing.T) {
	t.Parallel()

	dd := BuildDrawdown([]TradeEvent{
		{Time: 3, Net: 5},
		{Time: 1, Net: 10},
		{Time: 2, Net: 0},
	})
	assert.Zero(t, dd.MaxDrawdown)
	require.Len(t, dd.Events, 3)
	assert.Equal(t, int64(1), dd.Events[0].Time)
	assert.Equal(t, 15.0, dd.Events[2].Cumulative)
}

func TestBuildDrawdownPeakToTrough(t *testing.T) {
	t.Parallel()

	dd := BuildDrawdown([]TradeEvent{
		{Time: 1000, Net: 100},
		{Time: 2000, Net: -40},
		{Time: 3000, Net: -30},
		{Time: 4000, Net: 200},
		{Time: 5000, Net: -50},
	})

	assert.InDelta(t, 70.0, dd.MaxDrawdown, 1e-9)
	want := []EquityEvent{
		{Time: 1000, Delta: 100, Cumulative: 100, Drawdown: 0},
		{Time: 2000, Delta: -40, Cumulative: 60, Drawdown: 40},
		{Time: 3000, Delta: -30, Cumulative: 30, Drawdown: 70},
		{Time: 4000, Delta: 200, Cumulative: 230, Drawdown: 0},
		{Time: 5000, Delta: -50, Cumulative: 180, Drawdown: 50},
	}
	assert.Equal(t, want, dd.Events)
}

func TestBuildDrawdownLossFromBaseline(t *testing.T) {
	t.Parallel()

	dd := BuildDrawdown([]TradeEvent{{Time: 1, Net: -25}})
	assert.InDelta(t, 25.0, dd.MaxDrawdown, 1e-9)
}

func TestBuildDrawdownStableTies(t *testing.T) {
	t.Parallel()

	dd := BuildDrawdown([]TradeEvent{
		{Time: 5, Net: 100},
		{Time: 5, Net: -100},
	})
	require.Len(t, dd.Events, 2)
	assert.Equal(t, 100.0, dd.Events[0].Delta)
	assert.InDelta(t, 100.0, dd.MaxDrawdown, 1e-9)
}

func TestBuildPortfolioDrawdownCollapsesInstants(t *testing.T) {
	t.Parallel()

	dd := BuildPortfolioDrawdown([]TradeEvent{
		{Time: 5, Net: 100},
		{Time: 5, Net: -100},
		{Time: 9, Net: -10},
	})
	require.Len(t, dd.Events, 2)
	assert.Equal(t, EquityEvent{Time: 5, Delta: 0, Cumulative: 0, Drawdown: 0}, dd.Events[0])
	assert.InDelta(t, 10.0, dd.MaxDrawdown, 1e-9)
}

func TestBuildDrawdownDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []TradeEvent{{Time: 2, Net: 1}, {Time: 1, Net: 2}}
	BuildDrawdown(in)
	BuildPortfolioDrawdown(in)
	assert.Equal(t, int64(2), in[0].Time)
}
