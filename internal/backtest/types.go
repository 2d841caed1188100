package backtest

import (
	"github.com/fathomq/fathom/internal/core"
)

// Snapshot records a portfolio's state at the end of one trading day.
// Immutable once appended; a new one is taken every simulated day.
type Snapshot struct {
	Date      core.Date          `json:"date"`
	Equity    float64            `json:"equity"`
	Positions map[string]float64 `json:"positions"` // ticker -> shares
}

// Summary reduces an equity curve to headline performance numbers. All
// fields degrade to 0.0 under insufficient data, never to an error.
type Summary struct {
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
}

// Result is a completed backtest run: both snapshot sequences plus their
// summaries, tagged with a run ID for archiving.
type Result struct {
	RunID     string     `json:"run_id"`
	Start     core.Date  `json:"start"`
	End       core.Date  `json:"end"`
	Strategy  []Snapshot `json:"strategy"`
	Benchmark []Snapshot `json:"benchmark"`

	StrategySummary  Summary `json:"strategy_summary"`
	BenchmarkSummary Summary `json:"benchmark_summary"`
}

// EquityCurve extracts the equity values from a snapshot sequence.
func EquityCurve(snapshots []Snapshot) []float64 {
	curve := make([]float64, len(snapshots))
	for i, s := range snapshots {
		curve[i] = s.Equity
	}
	return curve
}
