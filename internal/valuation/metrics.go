// Package valuation derives point-in-time valuation metrics and boolean
// signals from a stock's price and fundamental time series.
//
// Missing inputs are modeled as nil *float64 and propagate: every function
// returns nil (or false, for signals) rather than erroring when an input
// is absent or degenerate.
package valuation

import (
	"math"
	"sort"
)

// PENTM is price divided by the next-twelve-months EPS estimate. Returns
// nil unless price is positive and the estimate is non-zero.
func PENTM(price, epsNTM *float64) *float64 {
	if price == nil || *price <= 0 || epsNTM == nil || *epsNTM == 0 {
		return nil
	}
	v := *price / *epsNTM
	return &v
}

// Percentile computes the p-th percentile of values using linear
// interpolation between closest ranks. Returns nil on empty input.
func Percentile(values []float64, p float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := lower + 1
	if upper >= len(sorted) {
		v := sorted[len(sorted)-1]
		return &v
	}
	fraction := index - float64(lower)
	v := sorted[lower]*(1-fraction) + sorted[upper]*fraction
	return &v
}

// NetIncomeTTM sums four quarterly net incomes. Returns nil unless exactly
// four values are supplied and all are present.
func NetIncomeTTM(quarters []*float64) *float64 {
	return sumFourQuarters(quarters)
}

// RevenueLTM sums four quarterly revenues under the same contract as
// NetIncomeTTM.
func RevenueLTM(quarters []*float64) *float64 {
	return sumFourQuarters(quarters)
}

func sumFourQuarters(quarters []*float64) *float64 {
	if len(quarters) != 4 {
		return nil
	}
	var sum float64
	for _, q := range quarters {
		if q == nil {
			return nil
		}
		sum += *q
	}
	return &sum
}

// NormalizedNetIncome divides trailing-twelve-month net income by shares
// outstanding.
func NormalizedNetIncome(niTTM, sharesOutstanding *float64) *float64 {
	if niTTM == nil || sharesOutstanding == nil || *sharesOutstanding == 0 {
		return nil
	}
	v := *niTTM / *sharesOutstanding
	return &v
}

// GrowthRate is the year-over-year rate current/prior - 1. Returns nil
// when either input is absent or the prior period is zero.
func GrowthRate(current, priorYear *float64) *float64 {
	if current == nil || priorYear == nil || *priorYear == 0 {
		return nil
	}
	v := *current / *priorYear - 1
	return &v
}

// Margin is trailing-twelve-month net income over last-twelve-month
// revenue.
func Margin(niTTM, revenueLTM *float64) *float64 {
	if niTTM == nil || revenueLTM == nil || *revenueLTM == 0 {
		return nil
	}
	v := *niTTM / *revenueLTM
	return &v
}

// EPSNTMFromQuarters blends five consecutive quarterly EPS estimates into
// a rolling twelve-month-forward estimate. weight is the fraction of the
// current quarter still remaining: the current quarter contributes
// weight*q and the fifth quarter picks up the balance (1-weight)*q4.
func EPSNTMFromQuarters(weight, q, q1, q2, q3, q4 float64) float64 {
	return weight*q + q1 + q2 + q3 + (1-weight)*q4
}

// EPSNTMFromFiscalYears blends the current and next fiscal-year EPS
// estimates by the days remaining in the current fiscal year. Used as a
// fallback when quarterly estimates are unavailable.
func EPSNTMFromFiscalYears(daysRemainingFY1 int, epsFY1, epsFY2 *float64) *float64 {
	if epsFY1 == nil || epsFY2 == nil {
		return nil
	}
	d := float64(daysRemainingFY1)
	v := (d/365)**epsFY1 + ((365-d)/365)**epsFY2
	return &v
}
