// Package collector defines the data acquisition interfaces.
package collector

import (
	"context"

	"github.com/fathomq/fathom/internal/core"
)

// HistoryProvider fetches a stock's historical daily and quarterly series.
type HistoryProvider interface {
	// FetchHistory returns the series from the given date to the present.
	FetchHistory(ctx context.Context, ticker string, from core.Date) (core.History, error)
}

// LiveProvider fetches point-in-time data for "as of now" analysis.
type LiveProvider interface {
	FetchLive(ctx context.Context, ticker string) (*core.LiveQuote, error)
	CompanyName(ctx context.Context, ticker string) (string, error)
}
