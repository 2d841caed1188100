package valuation

import (
	"fmt"

	"github.com/fathomq/fathom/internal/core"
)

// Lookback windows for the P/E(NTM) cycle thresholds, in years of 365
// calendar days.
const (
	fiveYearWindow = 5
	oneYearWindow  = 1
)

// Metrics holds the point-in-time valuation metrics for one stock. Every
// field is independently computable; a nil field means its inputs were
// missing, not that the whole analysis failed.
type Metrics struct {
	PENTM      *float64 `json:"pe_ntm"`
	Q1FiveYear *float64 `json:"pe_ntm_q1_5y"`
	Q1OneYear  *float64 `json:"pe_ntm_q1_1y"`

	// Sample counts behind the percentile thresholds, for transparency
	// when a window is under-populated.
	SamplesFiveYear int `json:"pe_ntm_days_5y"`
	SamplesOneYear  int `json:"pe_ntm_days_1y"`

	Growth *float64 `json:"nni_cagr"`
	Margin *float64 `json:"nni_margin"`
}

// Result is the outcome of analyzing one stock: either metrics and
// signals, or an error description. The two are mutually exclusive by
// construction; use the constructors.
type Result struct {
	Info    core.StockInfo
	Metrics Metrics
	Signals Signals
	Err     string
}

// Failed reports whether the analysis produced an error instead of
// metrics.
func (r Result) Failed() bool {
	return r.Err != ""
}

func success(info core.StockInfo, m Metrics) Result {
	return Result{
		Info:    info,
		Metrics: m,
		Signals: Signals{
			FiveYearCycle:  CycleSignal(m.PENTM, m.Q1FiveYear),
			OneYearCycle:   CycleSignal(m.PENTM, m.Q1OneYear),
			GrowthPositive: GrowthSignal(m.Growth),
			MarginPositive: MarginSignal(m.Margin),
		},
	}
}

func failure(info core.StockInfo, err error) Result {
	return Result{Info: info, Err: err.Error()}
}

// Analyze computes metrics and signals for a stock as of the given date.
// A nil asOf means "now" and requires the stock's live quote. Analyze
// never panics to the caller; any failure is captured on the result so a
// batch or backtest day continues past one bad stock.
func Analyze(stock core.Stock, asOf *core.Date) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(stock.Info, fmt.Errorf("analysis panic: %v", r))
		}
	}()

	metrics, err := computeMetrics(stock, asOf)
	if err != nil {
		return failure(stock.Info, err)
	}
	return success(stock.Info, metrics)
}

func computeMetrics(stock core.Stock, asOf *core.Date) (Metrics, error) {
	analysisDate := core.Today()
	if asOf != nil {
		analysisDate = *asOf
	}

	dailyDates := stock.History.DailyDatesDesc(analysisDate)
	quarterDates := stock.History.QuarterDatesDesc(analysisDate)

	var currentPrice, currentEPS *float64
	if asOf == nil {
		if stock.Live == nil {
			return Metrics{}, core.ErrLiveDataMissing
		}
		currentPrice = stock.Live.Price
		currentEPS = stock.Live.EPSNTM
	} else if len(dailyDates) > 0 {
		latest := stock.History.Daily[dailyDates[0]]
		currentPrice = latest.Price
		currentEPS = latest.EPSNTM
	}

	m := Metrics{PENTM: PENTM(currentPrice, currentEPS)}

	// Historical daily P/E(NTM), keeping only days with a positive price
	// and a positive estimate.
	peDates := make([]core.Date, 0, len(dailyDates))
	peValues := make([]float64, 0, len(dailyDates))
	for _, day := range dailyDates {
		bar := stock.History.Daily[day]
		if bar.Price != nil && *bar.Price > 0 && bar.EPSNTM != nil && *bar.EPSNTM > 0 {
			if pe := PENTM(bar.Price, bar.EPSNTM); pe != nil {
				peDates = append(peDates, day)
				peValues = append(peValues, *pe)
			}
		}
	}

	m.Q1FiveYear, m.SamplesFiveYear = cycleThreshold(peDates, peValues, fiveYearWindow, analysisDate)
	m.Q1OneYear, m.SamplesOneYear = cycleThreshold(peDates, peValues, oneYearWindow, analysisDate)

	// Growth needs two consecutive trailing-twelve-month periods, eight
	// quarters in total.
	if len(quarterDates) >= 8 {
		current := normalizedTTM(stock.History, quarterDates[:4])
		prior := normalizedTTM(stock.History, quarterDates[4:8])
		m.Growth = GrowthRate(current, prior)
	}

	if len(quarterDates) >= 4 {
		var netIncomes, revenues []*float64
		for _, q := range quarterDates[:4] {
			report := stock.History.Quarterly[q]
			netIncomes = append(netIncomes, report.NetIncome)
			revenues = append(revenues, report.Revenue)
		}
		m.Margin = Margin(NetIncomeTTM(netIncomes), RevenueLTM(revenues))
	}

	return m, nil
}

// cycleThreshold computes the Q1 threshold over the trailing window ending
// at the analysis date, along with the sample count it was computed from.
func cycleThreshold(dates []core.Date, values []float64, years int, end core.Date) (*float64, int) {
	cutoff := end.AddDays(-365 * years)
	window := make([]float64, 0, len(values))
	for i, day := range dates {
		if !day.Before(cutoff) {
			window = append(window, values[i])
		}
	}
	return Percentile(window, 25), len(window)
}

// normalizedTTM sums net income over four quarters and normalizes by the
// most recent quarter's shares outstanding.
func normalizedTTM(history core.History, quarters []core.Date) *float64 {
	netIncomes := make([]*float64, 0, len(quarters))
	for _, q := range quarters {
		netIncomes = append(netIncomes, history.Quarterly[q].NetIncome)
	}
	niTTM := NetIncomeTTM(netIncomes)
	shares := history.Quarterly[quarters[0]].SharesOutstanding
	return NormalizedNetIncome(niTTM, shares)
}
