package eodhd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fathomq/fathom/internal/core"
	"github.com/fathomq/fathom/internal/valuation"
)

type fundamentalsResponse struct {
	General struct {
		Code          string `json:"Code"`
		Name          string `json:"Name"`
		FiscalYearEnd string `json:"FiscalYearEnd"`
	} `json:"General"`
	SharesStats struct {
		SharesOutstanding any `json:"SharesOutstanding"`
	} `json:"SharesStats"`
	Financials struct {
		IncomeStatement struct {
			Quarterly map[string]incomeStatement `json:"quarterly"`
		} `json:"Income_Statement"`
	} `json:"Financials"`
	OutstandingShares struct {
		Quarterly map[string]sharesEntry `json:"quarterly"`
	} `json:"outstandingShares"`
	Earnings struct {
		Trend map[string]trendEntry `json:"Trend"`
	} `json:"Earnings"`
}

type incomeStatement struct {
	Date         string `json:"date"`
	NetIncome    any    `json:"netIncome"`
	TotalRevenue any    `json:"totalRevenue"`
}

type sharesEntry struct {
	DateFormatted string `json:"dateFormatted"`
	Shares        any    `json:"shares"`
}

type trendEntry struct {
	Period              string `json:"period"`
	EarningsEstimateAvg any    `json:"earningsEstimateAvg"`
}

func (c *Client) fetchFundamentals(ctx context.Context, ticker string) (*fundamentalsResponse, error) {
	var resp fundamentalsResponse
	endpoint := fmt.Sprintf("fundamentals/%s.%s", ticker, c.exchange)
	if err := c.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// quarterlyReports joins quarterly income statements with the shares
// outstanding series by quarter-end date.
func (f *fundamentalsResponse) quarterlyReports() map[core.Date]core.QuarterlyReport {
	shares := make(map[core.Date]*float64, len(f.OutstandingShares.Quarterly))
	for _, entry := range f.OutstandingShares.Quarterly {
		d, err := core.ParseDate(entry.DateFormatted)
		if err != nil {
			continue
		}
		shares[d] = parseFloat(entry.Shares)
	}

	reports := make(map[core.Date]core.QuarterlyReport, len(f.Financials.IncomeStatement.Quarterly))
	for key, stmt := range f.Financials.IncomeStatement.Quarterly {
		dateStr := stmt.Date
		if dateStr == "" {
			dateStr = key
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			continue
		}
		reports[d] = core.QuarterlyReport{
			NetIncome:         parseFloat(stmt.NetIncome),
			Revenue:           parseFloat(stmt.TotalRevenue),
			SharesOutstanding: shares[d],
		}
	}
	return reports
}

// quarterlyEstimates extracts per-quarter EPS consensus estimates from the
// earnings trend, keyed by quarter-end date.
func (f *fundamentalsResponse) quarterlyEstimates() map[core.Date]float64 {
	estimates := make(map[core.Date]float64)
	for dateStr, entry := range f.Earnings.Trend {
		if !strings.HasSuffix(entry.Period, "q") {
			continue
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			continue
		}
		if eps := parseFloat(entry.EarningsEstimateAvg); eps != nil {
			estimates[d] = *eps
		}
	}
	return estimates
}

// fiscalYearEstimates extracts the current and next fiscal year EPS
// consensus, keyed by fiscal year end date.
func (f *fundamentalsResponse) fiscalYearEstimates() map[core.Date]float64 {
	estimates := make(map[core.Date]float64)
	for dateStr, entry := range f.Earnings.Trend {
		if entry.Period != "0y" && entry.Period != "+1y" {
			continue
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			continue
		}
		if eps := parseFloat(entry.EarningsEstimateAvg); eps != nil {
			estimates[d] = *eps
		}
	}
	return estimates
}

// fyEstimatesFor looks up the FY1 and FY2 estimates for a date. When FY2
// is not published yet, FY1 stands in for both.
func fyEstimatesFor(d core.Date, fyEndMonth time.Month, estimates map[core.Date]float64) (fy1, fy2 *float64) {
	fy1Year := d.Year()
	if d.Month() > fyEndMonth {
		fy1Year++
	}
	fy2Year := fy1Year + 1

	fy1End := core.NewDate(fy1Year, fyEndMonth, lastDayOfMonth(fy1Year, fyEndMonth))
	fy2End := core.NewDate(fy2Year, fyEndMonth, lastDayOfMonth(fy2Year, fyEndMonth))

	if v, ok := estimates[fy1End]; ok {
		fy1 = core.Float(v)
	}
	if v, ok := estimates[fy2End]; ok {
		fy2 = core.Float(v)
	}
	if fy1 != nil && fy2 == nil {
		fy2 = fy1
	}
	return fy1, fy2
}

// epsNTMOn computes the next-twelve-months EPS estimate for a date. It
// blends five consecutive quarterly estimates weighted by the fraction of
// the current quarter remaining; when the quarterly ladder is incomplete
// it falls back to time-weighting the fiscal year consensus.
func epsNTMOn(d core.Date, qEstimates, fyEstimates map[core.Date]float64, fyEndMonth time.Month) *float64 {
	q := quarterEndFor(d)
	var ladder [5]float64
	complete := true
	for i := range ladder {
		v, ok := qEstimates[q]
		if !ok {
			complete = false
			break
		}
		ladder[i] = v
		q = nextQuarterEnd(q)
	}
	if complete {
		w := quarterWeight(d)
		return core.Float(valuation.EPSNTMFromQuarters(w, ladder[0], ladder[1], ladder[2], ladder[3], ladder[4]))
	}

	fy1, fy2 := fyEstimatesFor(d, fyEndMonth, fyEstimates)
	return valuation.EPSNTMFromFiscalYears(daysRemainingInFiscalYear(d, fyEndMonth), fy1, fy2)
}
