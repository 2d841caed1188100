package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegistry_NilIsNoOp(t *testing.T) {
	var r *Registry

	// None of these may panic.
	r.IncAnalysis("ok")
	r.AddBacktestDay()
	r.ObserveBacktestDuration(1.5)
	r.IncFetch("eod", "200")
	r.SetWatchlistSize(10)
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.IncAnalysis("ok")
	r.IncAnalysis("error")
	r.SetWatchlistSize(42)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"fathom_analyses_total",
		"fathom_watchlist_size 42",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistry_FetchCounter(t *testing.T) {
	r := NewRegistry()
	r.IncFetch("fundamentals", "200")
	r.IncFetch("fundamentals", "200")
	r.IncFetch("eod", "429")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `fathom_fetch_requests_total{endpoint="fundamentals",status="200"} 2`) {
		t.Errorf("fetch counter not aggregated:\n%s", body)
	}
}
