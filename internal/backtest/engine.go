package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/metrics"
	"github.com/fathomq/fathom/internal/valuation"
)

// progressInterval controls how often the engine logs simulation progress.
const progressInterval = 50

// Engine drives the day-by-day simulation of the signal strategy against
// an equal-weight buy-and-hold benchmark. Each day's portfolio state
// depends on the prior day's mark-to-market equity, so the loop is
// strictly sequential.
type Engine struct {
	stocks []core.Stock
	start  core.Date
	end    core.Date

	strategy  *Portfolio
	benchmark *Portfolio

	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewEngine validates preconditions and builds an engine. Every stock
// must carry daily history; a stock without data aborts construction
// rather than silently skewing the run.
func NewEngine(stocks []core.Stock, start, end core.Date, logger ...*zap.Logger) (*Engine, error) {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}

	if end.Before(start) {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backtest end %s before start %s", end, start))
	}
	for _, stock := range stocks {
		if len(stock.History.Daily) == 0 {
			return nil, core.WrapError(core.ErrNoData,
				fmt.Errorf("ticker %s has no daily history", stock.Info.Ticker))
		}
	}

	return &Engine{
		stocks:    stocks,
		start:     start,
		end:       end,
		strategy:  NewPortfolio(),
		benchmark: NewPortfolio(),
		logger:    l,
	}, nil
}

// SetMetrics attaches a metrics registry. Optional; a nil registry is a
// no-op.
func (e *Engine) SetMetrics(m *metrics.Registry) {
	e.metrics = m
}

// Run executes the simulation and returns the completed result. The
// context is checked between days; cancellation aborts the whole run,
// there is no partial-day rollback.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	days := e.tradingDays()

	allTickers := make(map[string]bool, len(e.stocks))
	for _, stock := range e.stocks {
		allTickers[stock.Info.Ticker] = true
	}

	e.logger.Info("backtest starting",
		zap.Int("stocks", len(e.stocks)),
		zap.Int("trading_days", len(days)),
		zap.String("start", e.start.String()),
		zap.String("end", e.end.String()),
	)

	for i, day := range days {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if i%progressInterval == 0 {
			e.logger.Debug("backtest progress",
				zap.Int("day", i),
				zap.Int("total", len(days)),
				zap.String("date", day.String()),
			)
		}

		prices := e.pricesOn(day)

		// Strategy: rebalance into whatever passes every signal today.
		targets := e.targetsOn(day)
		e.strategy.Rebalance(targets, prices, day)

		// Benchmark: equal-weight buy of the whole universe on day one,
		// then hold.
		if i == 0 {
			e.benchmark.Rebalance(allTickers, prices, day)
		} else {
			e.benchmark.UpdateSnapshot(prices, day)
		}

		e.metrics.AddBacktestDay()
	}

	e.metrics.ObserveBacktestDuration(time.Since(started).Seconds())
	e.logger.Info("backtest complete",
		zap.Int("trading_days", len(days)),
		zap.Duration("elapsed", time.Since(started)),
	)

	strategySnapshots := e.strategy.Snapshots()
	benchmarkSnapshots := e.benchmark.Snapshots()

	return &Result{
		RunID:            uuid.NewString(),
		Start:            e.start,
		End:              e.end,
		Strategy:         strategySnapshots,
		Benchmark:        benchmarkSnapshots,
		StrategySummary:  Summarize(strategySnapshots),
		BenchmarkSummary: Summarize(benchmarkSnapshots),
	}, nil
}

// tradingDays returns the sorted union of all daily dates across the
// universe, restricted to the backtest period.
func (e *Engine) tradingDays() []core.Date {
	seen := make(map[core.Date]bool)
	for _, stock := range e.stocks {
		for day := range stock.History.Daily {
			if !day.Before(e.start) && !day.After(e.end) {
				seen[day] = true
			}
		}
	}
	days := make([]core.Date, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// pricesOn collects each ticker's price for the day, nil when the ticker
// has no bar.
func (e *Engine) pricesOn(day core.Date) map[string]*float64 {
	prices := make(map[string]*float64, len(e.stocks))
	for _, stock := range e.stocks {
		if bar, ok := stock.History.Daily[day]; ok {
			prices[stock.Info.Ticker] = bar.Price
		} else {
			prices[stock.Info.Ticker] = nil
		}
	}
	return prices
}

// targetsOn runs the full signal analysis for every stock as of the day
// and returns the tickers passing all four signals. Analysis is
// re-evaluated from scratch every trading day; one stock's failure never
// affects the rest of the day.
func (e *Engine) targetsOn(day core.Date) map[string]bool {
	targets := make(map[string]bool)
	for _, stock := range e.stocks {
		result := valuation.Analyze(stock, &day)
		if result.Failed() {
			e.metrics.IncAnalysis("error")
			e.logger.Debug("analysis failed",
				zap.String("ticker", stock.Info.Ticker),
				zap.String("date", day.String()),
				zap.String("error", result.Err),
			)
			continue
		}
		e.metrics.IncAnalysis("ok")
		if result.Signals.AllPass() {
			targets[stock.Info.Ticker] = true
		}
	}
	return targets
}
