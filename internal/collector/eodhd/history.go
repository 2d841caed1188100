package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fathomq/fathom/internal/core"
)

type eodBar struct {
	Date          string `json:"date"`
	AdjustedClose any    `json:"adjusted_close"`
}

// FetchHistory builds a stock's full series: adjusted daily closes from
// the EOD endpoint, quarterly fundamentals and per-day EPS(NTM) estimates
// from the fundamentals endpoint.
func (c *Client) FetchHistory(ctx context.Context, ticker string, from core.Date) (core.History, error) {
	if err := validateSymbol(ticker); err != nil {
		return core.History{}, core.WrapError(core.ErrFetchFailed, err)
	}

	params := url.Values{}
	params.Set("from", from.String())
	params.Set("period", "d")

	var bars []eodBar
	endpoint := fmt.Sprintf("eod/%s.%s", ticker, c.exchange)
	if err := c.getJSON(ctx, endpoint, params, &bars); err != nil {
		return core.History{}, err
	}
	if len(bars) == 0 {
		return core.History{}, core.WrapError(core.ErrNoData, fmt.Errorf("no price bars for %s", ticker))
	}

	fundamentals, err := c.fetchFundamentals(ctx, ticker)
	if err != nil {
		return core.History{}, err
	}

	qEstimates := fundamentals.quarterlyEstimates()
	fyEstimates := fundamentals.fiscalYearEstimates()
	fyEndMonth := fiscalYearEndMonth(fundamentals.General.FiscalYearEnd)

	daily := make(map[core.Date]core.DailyBar, len(bars))
	for _, bar := range bars {
		d, err := core.ParseDate(bar.Date)
		if err != nil {
			continue
		}
		daily[d] = core.DailyBar{
			Price:  parseFloat(bar.AdjustedClose),
			EPSNTM: epsNTMOn(d, qEstimates, fyEstimates, fyEndMonth),
		}
	}

	return core.History{
		Daily:     daily,
		Quarterly: fundamentals.quarterlyReports(),
	}, nil
}
