package core

import (
	"fmt"
	"sort"
)

// Category groups watchlist stocks by business model. The set is closed:
// configuration referring to an unknown category is rejected at load time.
type Category string

const (
	CategoryOnline     Category = "Online"
	CategoryOffline    Category = "Offline"
	CategoryHardware   Category = "Hardware"
	CategoryFinance    Category = "Finance"
	CategoryIndustrial Category = "Industrial"
	CategoryConsumer   Category = "Consumer"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryOnline,
	CategoryOffline,
	CategoryHardware,
	CategoryFinance,
	CategoryIndustrial,
	CategoryConsumer,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Float returns a pointer to v. Price, EPS and income fields are modeled
// as *float64 so that "value absent" is distinct from zero.
func Float(v float64) *float64 {
	return &v
}

// StockInfo identifies a stock on the watchlist.
type StockInfo struct {
	Ticker   string   `json:"ticker"`
	Category Category `json:"category"`
	Name     string   `json:"name,omitempty"`
}

// DailyBar holds one day of market data. EPSNTM is the consensus
// earnings-per-share estimate for the next twelve months as of that day.
type DailyBar struct {
	Price  *float64 `json:"price"`
	EPSNTM *float64 `json:"eps_ntm"`
}

// QuarterlyReport holds one fiscal quarter of fundamentals, keyed by the
// quarter-end date.
type QuarterlyReport struct {
	NetIncome         *float64 `json:"net_income"`
	Revenue           *float64 `json:"revenue"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
}

// LiveQuote is a point-in-time snapshot used for "as of now" analysis.
type LiveQuote struct {
	Price             *float64 `json:"price"`
	EPSNTM            *float64 `json:"eps_ntm"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
}

// History holds a stock's full time series. The core treats it as
// read-only input; it is assembled by a collector or loaded from storage.
type History struct {
	Daily     map[Date]DailyBar        `json:"daily"`
	Quarterly map[Date]QuarterlyReport `json:"quarterly"`
}

// DailyDatesDesc returns the daily dates at or before the cutoff, most
// recent first.
func (h History) DailyDatesDesc(cutoff Date) []Date {
	dates := make([]Date, 0, len(h.Daily))
	for d := range h.Daily {
		if !d.After(cutoff) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	return dates
}

// QuarterDatesDesc returns the quarter-end dates at or before the cutoff,
// most recent first.
func (h History) QuarterDatesDesc(cutoff Date) []Date {
	dates := make([]Date, 0, len(h.Quarterly))
	for d := range h.Quarterly {
		if !d.After(cutoff) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })
	return dates
}

// Stock bundles identity, history and an optional live quote.
type Stock struct {
	Info    StockInfo
	History History
	Live    *LiveQuote
}
