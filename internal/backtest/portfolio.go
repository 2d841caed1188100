package backtest

import (
	"sort"

	"github.com/fathomq/fathom/internal/core"
)

// Portfolio simulates one long-only account. Equity starts at 1.0 and is
// always recomputed from position value on each step; it is never
// incremented or decremented independently.
//
// A Portfolio is owned by exactly one Engine and is not safe for
// concurrent use.
type Portfolio struct {
	equity    float64
	positions map[string]float64 // ticker -> shares
	snapshots []Snapshot
}

// NewPortfolio creates an empty portfolio with unit starting equity.
func NewPortfolio() *Portfolio {
	return &Portfolio{
		equity:    1.0,
		positions: make(map[string]float64),
	}
}

// Rebalance marks the portfolio to market, then splits equity evenly
// across the target tickers that have a known positive price. Targets
// without a usable price are skipped; if none remain the portfolio sits
// in cash until the next successful rebalance. A snapshot is appended
// either way.
func (p *Portfolio) Rebalance(targets map[string]bool, prices map[string]*float64, day core.Date) {
	p.markToMarket(prices)

	p.positions = make(map[string]float64)

	valid := make([]string, 0, len(targets))
	for ticker := range targets {
		if price := prices[ticker]; price != nil && *price > 0 {
			valid = append(valid, ticker)
		}
	}

	if len(valid) > 0 {
		sort.Strings(valid)
		allocation := p.equity / float64(len(valid))
		for _, ticker := range valid {
			p.positions[ticker] = allocation / *prices[ticker]
		}
	}

	p.appendSnapshot(day)
}

// UpdateSnapshot marks to market and appends a snapshot without changing
// positions. Used for the benchmark's buy-and-hold period.
func (p *Portfolio) UpdateSnapshot(prices map[string]*float64, day core.Date) {
	p.markToMarket(prices)
	p.appendSnapshot(day)
}

// Snapshots returns the daily snapshot sequence in chronological order.
func (p *Portfolio) Snapshots() []Snapshot {
	return p.snapshots
}

// markToMarket recomputes equity as the sum of position values. Positions
// whose price is missing or non-positive contribute nothing, so their
// value evaporates from the total.
func (p *Portfolio) markToMarket(prices map[string]*float64) {
	if len(p.positions) == 0 {
		return
	}
	total := 0.0
	for ticker, shares := range p.positions {
		if price := prices[ticker]; price != nil && *price > 0 {
			total += shares * *price
		}
	}
	p.equity = total
}

func (p *Portfolio) appendSnapshot(day core.Date) {
	positions := make(map[string]float64, len(p.positions))
	for ticker, shares := range p.positions {
		positions[ticker] = shares
	}
	p.snapshots = append(p.snapshots, Snapshot{
		Date:      day,
		Equity:    p.equity,
		Positions: positions,
	})
}
