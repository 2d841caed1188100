// Package report renders analysis and backtest results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/valuation"
)

// Expected sample counts for fully populated percentile windows.
const (
	fullWindowFiveYear = 1250
	fullWindowOneYear  = 250
)

// Recommendation buckets a stock by how many signals it passes.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Avoid     Recommendation = "AVOID"
)

// Recommend maps signal counts to a recommendation tier.
func Recommend(s valuation.Signals) Recommendation {
	switch {
	case s.AllPass():
		return StrongBuy
	case s.Count() >= 3:
		return Buy
	case s.Count() >= 2:
		return Hold
	default:
		return Avoid
	}
}

func mark(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

// WriteAnalysis renders one stock's full analysis.
func WriteAnalysis(w io.Writer, r valuation.Result) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s (%s) - %s\n", r.Info.Ticker, r.Info.Name, r.Info.Category)
	fmt.Fprintln(w, rule)

	if r.Failed() {
		fmt.Fprintf(w, "  ERROR: %s\n", r.Err)
		return
	}

	m := r.Metrics
	s := r.Signals

	fmt.Fprintln(w, "  Current Metrics:")
	if m.PENTM != nil {
		fmt.Fprintf(w, "    P/E NTM:           %.2f\n", *m.PENTM)
	}

	fmt.Fprintln(w, "  P/E NTM 5Y Cycle:")
	writeCycle(w, m.PENTM, m.Q1FiveYear, m.SamplesFiveYear, fullWindowFiveYear, s.FiveYearCycle)

	fmt.Fprintln(w, "  P/E NTM 1Y Cycle:")
	writeCycle(w, m.PENTM, m.Q1OneYear, m.SamplesOneYear, fullWindowOneYear, s.OneYearCycle)

	fmt.Fprintln(w, "  Normalized Income Growth (1Y TTM):")
	if m.Growth != nil {
		fmt.Fprintf(w, "    Value:             %+.2f%%\n", *m.Growth*100)
		fmt.Fprintf(w, "    Signal (> 0):      %s\n", mark(s.GrowthPositive))
	} else {
		fmt.Fprintln(w, "    (Insufficient data)")
	}

	fmt.Fprintln(w, "  Net Income Margin (LTM):")
	if m.Margin != nil {
		fmt.Fprintf(w, "    Value:             %.2f%%\n", *m.Margin*100)
		fmt.Fprintf(w, "    Signal (> 0):      %s\n", mark(s.MarginPositive))
	} else {
		fmt.Fprintln(w, "    (Insufficient data)")
	}

	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "  Signal Summary: %d/4 passed\n", s.Count())
	fmt.Fprintf(w, "  RECOMMENDATION: %s\n", Recommend(s))
}

func writeCycle(w io.Writer, pe, q1 *float64, samples, fullWindow int, pass bool) {
	if q1 == nil {
		fmt.Fprintln(w, "    (No data)")
		return
	}
	sampleInfo := ""
	if samples < fullWindow {
		sampleInfo = fmt.Sprintf(" (%d/%d)", samples, fullWindow)
	}
	fmt.Fprintf(w, "    Q1 (25%%):          %.2f%s\n", *q1, sampleInfo)
	if pe != nil {
		fmt.Fprintf(w, "    Signal (P/E < Q1): %s\n", mark(pass))
	}
}

// WriteSummary renders all analyzed stocks grouped by recommendation.
func WriteSummary(w io.Writer, results []valuation.Result) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%*s\n", (70+len("SUMMARY REPORT"))/2, "SUMMARY REPORT")
	fmt.Fprintln(w, rule)

	groups := map[Recommendation][]valuation.Result{}
	var failed []valuation.Result
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
			continue
		}
		tier := Recommend(r.Signals)
		groups[tier] = append(groups[tier], r)
	}

	for _, tier := range []Recommendation{StrongBuy, Buy, Hold, Avoid} {
		writeGroup(w, tier, groups[tier])
	}

	if len(failed) > 0 {
		fmt.Fprintf(w, "\nERRORS (%d):\n", len(failed))
		for _, r := range failed {
			fmt.Fprintf(w, "  %-6s | %s\n", r.Info.Ticker, r.Err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Total: %d stocks analyzed\n", len(results))
	fmt.Fprintln(w, rule)
}

func writeGroup(w io.Writer, tier Recommendation, results []valuation.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", tier, len(results))
	for _, r := range results {
		m := r.Metrics
		pe := "   N/A"
		if m.PENTM != nil {
			pe = fmt.Sprintf("%6.1f", *m.PENTM)
		}
		growth := "    N/A"
		if m.Growth != nil {
			growth = fmt.Sprintf("%+6.1f%%", *m.Growth*100)
		}
		margin := "  N/A"
		if m.Margin != nil {
			margin = fmt.Sprintf("%5.1f%%", *m.Margin*100)
		}
		fmt.Fprintf(w, "  %-6s | P/E:%s | Growth:%s | Margin:%s | Signals: %d/4\n",
			r.Info.Ticker, pe, growth, margin, r.Signals.Count())
	}
}

// WriteBacktest renders the strategy vs benchmark comparison.
func WriteBacktest(w io.Writer, strategy, benchmark backtest.Summary) {
	fmt.Fprintf(w, "\n%-13s | %9s | %9s\n", "Metric", "Strategy", "Benchmark")
	fmt.Fprintf(w, "%s-+-%s-+-%s\n", strings.Repeat("-", 13), strings.Repeat("-", 9), strings.Repeat("-", 9))

	writeRow(w, "Total Return", strategy.TotalReturn, benchmark.TotalReturn, true)
	writeRow(w, "Annual Return", strategy.AnnualReturn, benchmark.AnnualReturn, true)
	writeRow(w, "Max Drawdown", strategy.MaxDrawdown, benchmark.MaxDrawdown, true)
	writeRow(w, "Sharpe Ratio", strategy.SharpeRatio, benchmark.SharpeRatio, false)

	excess := strategy.TotalReturn - benchmark.TotalReturn
	if excess > 0 {
		fmt.Fprintf(w, "\nStrategy outperformed by %+.2f%%\n", excess*100)
	} else if excess < 0 {
		fmt.Fprintf(w, "\nStrategy underperformed by %+.2f%%\n", excess*100)
	}
}

func writeRow(w io.Writer, label string, strategy, benchmark float64, pct bool) {
	format := "%.2f"
	scale := 1.0
	if pct {
		format = "%+.2f%%"
		scale = 100
	}
	s := fmt.Sprintf(format, strategy*scale)
	b := fmt.Sprintf(format, benchmark*scale)
	fmt.Fprintf(w, "%-13s | %9s | %9s\n", label, s, b)
}
