package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomq/fathom/internal/core"
)

func day(d int) core.Date {
	return core.NewDate(2024, time.January, d)
}

func TestPortfolio_RebalanceSingleTarget(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(
		map[string]bool{"A": true},
		map[string]*float64{"A": core.Float(10)},
		day(1),
	)

	snaps := p.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, 1.0, snaps[0].Equity, "buying does not change equity")
	assert.Equal(t, 0.1, snaps[0].Positions["A"])
}

func TestPortfolio_RebalanceEqualWeights(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(
		map[string]bool{"A": true, "B": true},
		map[string]*float64{"A": core.Float(10), "B": core.Float(5)},
		day(1),
	)

	snaps := p.Snapshots()
	require.Len(t, snaps, 1)
	// 0.5 equity per ticker.
	assert.InDelta(t, 0.05, snaps[0].Positions["A"], 1e-12)
	assert.InDelta(t, 0.10, snaps[0].Positions["B"], 1e-12)
}

func TestPortfolio_RebalanceSkipsUnpricedTargets(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(
		map[string]bool{"A": true, "B": true, "C": true},
		map[string]*float64{"A": core.Float(10), "B": nil, "C": core.Float(-1)},
		day(1),
	)

	snaps := p.Snapshots()
	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0].Positions, 1, "only the priced target is bought")
	assert.Equal(t, 0.1, snaps[0].Positions["A"])
}

func TestPortfolio_RebalanceToCashWhenNothingPriced(t *testing.T) {
	p := NewPortfolio()

	// Day 1: buy A at 10.
	p.Rebalance(map[string]bool{"A": true}, map[string]*float64{"A": core.Float(10)}, day(1))
	// Day 2: A doubled, but no target has a usable price.
	p.Rebalance(map[string]bool{"B": true}, map[string]*float64{"A": core.Float(20), "B": nil}, day(2))

	snaps := p.Snapshots()
	require.Len(t, snaps, 2)
	assert.Empty(t, snaps[1].Positions)
	assert.Equal(t, 2.0, snaps[1].Equity, "equity keeps the pre-rebalance mark-to-market value")
}

func TestPortfolio_MarkToMarketDropsUnpricedPositions(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(
		map[string]bool{"A": true, "B": true},
		map[string]*float64{"A": core.Float(10), "B": core.Float(10)},
		day(1),
	)
	// B has no price on day 2: its value evaporates from the total.
	p.UpdateSnapshot(map[string]*float64{"A": core.Float(10), "B": nil}, day(2))

	snaps := p.Snapshots()
	require.Len(t, snaps, 2)
	assert.InDelta(t, 0.5, snaps[1].Equity, 1e-12)
	// Positions themselves are untouched by a snapshot update.
	assert.Contains(t, snaps[1].Positions, "B")
}

func TestPortfolio_UpdateSnapshotTracksPrices(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(map[string]bool{"A": true}, map[string]*float64{"A": core.Float(10)}, day(1))
	p.UpdateSnapshot(map[string]*float64{"A": core.Float(15)}, day(2))
	p.UpdateSnapshot(map[string]*float64{"A": core.Float(12)}, day(3))

	snaps := p.Snapshots()
	require.Len(t, snaps, 3)
	assert.InDelta(t, 1.5, snaps[1].Equity, 1e-12)
	assert.InDelta(t, 1.2, snaps[2].Equity, 1e-12)
}

func TestPortfolio_SnapshotsAreIndependentCopies(t *testing.T) {
	p := NewPortfolio()

	p.Rebalance(map[string]bool{"A": true}, map[string]*float64{"A": core.Float(10)}, day(1))
	first := p.Snapshots()[0]

	// A later rebalance must not mutate the earlier snapshot.
	p.Rebalance(map[string]bool{"B": true}, map[string]*float64{"A": core.Float(10), "B": core.Float(5)}, day(2))

	assert.Equal(t, 0.1, first.Positions["A"])
	assert.NotContains(t, first.Positions, "B")
}

func TestPortfolio_EmptyPortfolioKeepsEquityOnUpdate(t *testing.T) {
	p := NewPortfolio()
	p.UpdateSnapshot(map[string]*float64{}, day(1))

	snaps := p.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, 1.0, snaps[0].Equity, "no positions means nothing to mark")
}
