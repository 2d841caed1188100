package report

import (
	"strings"
	"testing"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/valuation"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		signals  valuation.Signals
		expected Recommendation
	}{
		{valuation.Signals{FiveYearCycle: true, OneYearCycle: true, GrowthPositive: true, MarginPositive: true}, StrongBuy},
		{valuation.Signals{FiveYearCycle: true, OneYearCycle: true, GrowthPositive: true}, Buy},
		{valuation.Signals{FiveYearCycle: true, OneYearCycle: true}, Hold},
		{valuation.Signals{FiveYearCycle: true}, Avoid},
		{valuation.Signals{}, Avoid},
	}

	for _, tc := range tests {
		if got := Recommend(tc.signals); got != tc.expected {
			t.Errorf("Recommend(%+v) = %s, want %s", tc.signals, got, tc.expected)
		}
	}
}

func passingResult(ticker string) valuation.Result {
	return valuation.Result{
		Info: core.StockInfo{Ticker: ticker, Category: core.CategoryOnline, Name: ticker + " Inc"},
		Metrics: valuation.Metrics{
			PENTM:           core.Float(15.0),
			Q1FiveYear:      core.Float(18.0),
			Q1OneYear:       core.Float(17.0),
			SamplesFiveYear: 1250,
			SamplesOneYear:  250,
			Growth:          core.Float(0.12),
			Margin:          core.Float(0.25),
		},
		Signals: valuation.Signals{FiveYearCycle: true, OneYearCycle: true, GrowthPositive: true, MarginPositive: true},
	}
}

func TestWriteAnalysis(t *testing.T) {
	var sb strings.Builder
	WriteAnalysis(&sb, passingResult("GOOGL"))
	out := sb.String()

	for _, want := range []string{
		"GOOGL (GOOGL Inc) - Online",
		"P/E NTM:           15.00",
		"Signal Summary: 4/4 passed",
		"RECOMMENDATION: STRONG BUY",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// full windows: no sample counter shown
	if strings.Contains(out, "/1250") || strings.Contains(out, "/250") {
		t.Errorf("sample counts shown for full windows:\n%s", out)
	}
}

func TestWriteAnalysisUnderPopulatedWindow(t *testing.T) {
	r := passingResult("META")
	r.Metrics.SamplesFiveYear = 800
	r.Metrics.SamplesOneYear = 250

	var sb strings.Builder
	WriteAnalysis(&sb, r)
	if !strings.Contains(sb.String(), "(800/1250)") {
		t.Errorf("expected under-populated window counter:\n%s", sb.String())
	}
}

func TestWriteAnalysisError(t *testing.T) {
	r := valuation.Result{
		Info: core.StockInfo{Ticker: "XYZ", Category: core.CategoryFinance},
		Err:  "no historical data",
	}

	var sb strings.Builder
	WriteAnalysis(&sb, r)
	out := sb.String()
	if !strings.Contains(out, "ERROR: no historical data") {
		t.Errorf("expected error line:\n%s", out)
	}
	if strings.Contains(out, "RECOMMENDATION") {
		t.Errorf("failed analysis should not get a recommendation:\n%s", out)
	}
}

func TestWriteSummaryGroups(t *testing.T) {
	hold := passingResult("MSFT")
	hold.Signals = valuation.Signals{FiveYearCycle: true, OneYearCycle: true}

	failed := valuation.Result{
		Info: core.StockInfo{Ticker: "BAD", Category: core.CategoryHardware},
		Err:  "fetch failed",
	}

	var sb strings.Builder
	WriteSummary(&sb, []valuation.Result{passingResult("GOOGL"), hold, failed})
	out := sb.String()

	for _, want := range []string{
		"STRONG BUY (1):",
		"HOLD (1):",
		"ERRORS (1):",
		"BAD    | fetch failed",
		"Total: 3 stocks analyzed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "AVOID (") {
		t.Errorf("empty tier should be omitted:\n%s", out)
	}
}

func TestWriteBacktest(t *testing.T) {
	strategy := backtest.Summary{TotalReturn: 0.50, AnnualReturn: 0.12, MaxDrawdown: 0.20, SharpeRatio: 1.1}
	benchmark := backtest.Summary{TotalReturn: 0.30, AnnualReturn: 0.08, MaxDrawdown: 0.25, SharpeRatio: 0.7}

	var sb strings.Builder
	WriteBacktest(&sb, strategy, benchmark)
	out := sb.String()

	for _, want := range []string{
		"Total Return",
		"+50.00%",
		"+30.00%",
		"Sharpe Ratio",
		"Strategy outperformed by +20.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteBacktestUnderperformance(t *testing.T) {
	strategy := backtest.Summary{TotalReturn: 0.10}
	benchmark := backtest.Summary{TotalReturn: 0.30}

	var sb strings.Builder
	WriteBacktest(&sb, strategy, benchmark)
	if !strings.Contains(sb.String(), "underperformed by -20.00%") {
		t.Errorf("expected underperformance line:\n%s", sb.String())
	}
}
