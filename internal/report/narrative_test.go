package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fathomq/fathom/internal/backtest"
	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/llm"
	"github.com/fathomq/fathom/internal/valuation"
)

type fakeProvider struct {
	lastReq llm.Request
	reply   string
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.reply}, nil
}

func TestNarrateAnalyses(t *testing.T) {
	provider := &fakeProvider{reply: "looks cheap"}
	n := NewNarrator(provider, nil)

	results := []valuation.Result{
		passingResult("GOOGL"),
		{Info: core.StockInfo{Ticker: "BAD"}, Err: "fetch failed"},
	}

	got, err := n.NarrateAnalyses(context.Background(), results)
	if err != nil {
		t.Fatalf("NarrateAnalyses: %v", err)
	}
	if got != "looks cheap" {
		t.Errorf("narrative = %q", got)
	}
	if !strings.Contains(provider.lastReq.Prompt, "GOOGL") {
		t.Errorf("prompt missing ticker:\n%s", provider.lastReq.Prompt)
	}
	if !strings.Contains(provider.lastReq.Prompt, "analysis failed (fetch failed)") {
		t.Errorf("prompt missing failure line:\n%s", provider.lastReq.Prompt)
	}
	if provider.lastReq.SystemPrompt == "" {
		t.Error("expected a system prompt")
	}
}

func TestNarrateAnalysesEmpty(t *testing.T) {
	n := NewNarrator(&fakeProvider{}, nil)
	_, err := n.NarrateAnalyses(context.Background(), nil)
	if !errors.Is(err, core.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestNarrateBacktest(t *testing.T) {
	provider := &fakeProvider{reply: "added value"}
	n := NewNarrator(provider, nil)

	result := &backtest.Result{
		RunID:            "run-1",
		Start:            core.NewDate(2020, 1, 2),
		End:              core.NewDate(2024, 12, 31),
		StrategySummary:  backtest.Summary{TotalReturn: 0.5, SharpeRatio: 1.2},
		BenchmarkSummary: backtest.Summary{TotalReturn: 0.3, SharpeRatio: 0.8},
	}

	got, err := n.NarrateBacktest(context.Background(), result)
	if err != nil {
		t.Fatalf("NarrateBacktest: %v", err)
	}
	if got != "added value" {
		t.Errorf("narrative = %q", got)
	}
	if !strings.Contains(provider.lastReq.Prompt, "+50.00%") {
		t.Errorf("prompt missing strategy return:\n%s", provider.lastReq.Prompt)
	}
}

func TestNarrateProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	n := NewNarrator(provider, nil)

	_, err := n.NarrateAnalyses(context.Background(), []valuation.Result{passingResult("GOOGL")})
	if !errors.Is(err, core.ErrLLMFailed) {
		t.Fatalf("expected ErrLLMFailed, got %v", err)
	}
}
