package eodhd

import (
	"context"
	"fmt"

	"github.com/fathomq/fathom/internal/core"
)

type realTimeResponse struct {
	Close any `json:"close"`
}

// FetchLive returns a point-in-time quote: the latest traded price plus
// the current EPS(NTM) consensus and shares outstanding.
func (c *Client) FetchLive(ctx context.Context, ticker string) (*core.LiveQuote, error) {
	if err := validateSymbol(ticker); err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}

	var rt realTimeResponse
	endpoint := fmt.Sprintf("real-time/%s.%s", ticker, c.exchange)
	if err := c.getJSON(ctx, endpoint, nil, &rt); err != nil {
		return nil, err
	}

	fundamentals, err := c.fetchFundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}

	today := core.Today()
	fyEndMonth := fiscalYearEndMonth(fundamentals.General.FiscalYearEnd)

	return &core.LiveQuote{
		Price:             parseFloat(rt.Close),
		EPSNTM:            epsNTMOn(today, fundamentals.quarterlyEstimates(), fundamentals.fiscalYearEstimates(), fyEndMonth),
		SharesOutstanding: parseFloat(fundamentals.SharesStats.SharesOutstanding),
	}, nil
}

// CompanyName resolves a ticker to its registered company name.
func (c *Client) CompanyName(ctx context.Context, ticker string) (string, error) {
	if err := validateSymbol(ticker); err != nil {
		return "", core.WrapError(core.ErrFetchFailed, err)
	}
	fundamentals, err := c.fetchFundamentals(ctx, ticker)
	if err != nil {
		return "", err
	}
	if fundamentals.General.Name == "" {
		return ticker, nil
	}
	return fundamentals.General.Name, nil
}
