package report

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/llm"
	"github.com/fathomq/fathom/internal/valuation"
)

// Narrator asks a completion provider for commentary on results.
type Narrator struct {
	llm    llm.Provider
	logger *zap.Logger
}

// NewNarrator creates a narrator.
func NewNarrator(provider llm.Provider, logger *zap.Logger) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{llm: provider, logger: logger}
}

const analystSystemPrompt = `You are an equity analyst reviewing the output of a rule-based valuation screen. The screen flags stocks whose forward P/E sits below the 25th percentile of its 5-year and 1-year history and whose normalized net income growth and margin are positive.

Write a short commentary in plain prose:
1. Call out the strongest candidates and what drives their signals
2. Note stocks where signals disagree and what that usually means
3. Flag anything with incomplete data that deserves manual review

Be specific and grounded in the numbers given. Do not invent data.`

// NarrateAnalyses returns commentary on a batch of stock analyses.
func (n *Narrator) NarrateAnalyses(ctx context.Context, results []valuation.Result) (string, error) {
	if len(results) == 0 {
		return "", core.WrapError(core.ErrNoData, fmt.Errorf("no analyses to narrate"))
	}

	var sb strings.Builder
	sb.WriteString("## Screen Results\n\n")
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(&sb, "- %s: analysis failed (%s)\n", r.Info.Ticker, r.Err)
			continue
		}
		m := r.Metrics
		fmt.Fprintf(&sb, "- %s (%s): P/E=%s 5Y-Q1=%s 1Y-Q1=%s Growth=%s Margin=%s Signals=%d/4 -> %s\n",
			r.Info.Ticker, r.Info.Category,
			formatMetric(m.PENTM, "%.1f"),
			formatMetric(m.Q1FiveYear, "%.1f"),
			formatMetric(m.Q1OneYear, "%.1f"),
			formatMetric(m.Growth, "%+.1f%%", 100),
			formatMetric(m.Margin, "%.1f%%", 100),
			r.Signals.Count(), Recommend(r.Signals))
	}
	sb.WriteString("\nWrite the commentary.\n")

	return n.complete(ctx, sb.String())
}

// NarrateBacktest returns commentary on a backtest run.
func (n *Narrator) NarrateBacktest(ctx context.Context, result *backtest.Result) (string, error) {
	if result == nil {
		return "", core.WrapError(core.ErrNoData, fmt.Errorf("no backtest to narrate"))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Backtest %s to %s (%d trading days)\n\n", result.Start, result.End, len(result.Strategy))
	fmt.Fprintf(&sb, "Strategy:  total=%+.2f%% annual=%+.2f%% maxdd=%.2f%% sharpe=%.2f\n",
		result.StrategySummary.TotalReturn*100, result.StrategySummary.AnnualReturn*100,
		result.StrategySummary.MaxDrawdown*100, result.StrategySummary.SharpeRatio)
	fmt.Fprintf(&sb, "Benchmark: total=%+.2f%% annual=%+.2f%% maxdd=%.2f%% sharpe=%.2f\n",
		result.BenchmarkSummary.TotalReturn*100, result.BenchmarkSummary.AnnualReturn*100,
		result.BenchmarkSummary.MaxDrawdown*100, result.BenchmarkSummary.SharpeRatio)
	sb.WriteString("\nAssess whether the screen added value over buy-and-hold and where the risk sits.\n")

	return n.complete(ctx, sb.String())
}

func (n *Narrator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := n.llm.Complete(ctx, llm.Request{
		SystemPrompt: analystSystemPrompt,
		Prompt:       prompt,
		MaxTokens:    2048,
		Temperature:  0.4,
	})
	if err != nil {
		return "", core.WrapError(core.ErrLLMFailed, err)
	}
	n.logger.Debug("narrative generated",
		zap.String("provider", n.llm.Name()),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))
	return resp.Content, nil
}

func formatMetric(v *float64, format string, scale ...float64) string {
	if v == nil {
		return "n/a"
	}
	s := 1.0
	if len(scale) > 0 {
		s = scale[0]
	}
	return fmt.Sprintf(format, *v*s)
}
