package backtest

import (
	"math"
)

// tradingDaysPerYear is the canonical annualization constant.
const tradingDaysPerYear = 252

// Summarize reduces a snapshot sequence to its performance summary.
func Summarize(snapshots []Snapshot) Summary {
	curve := EquityCurve(snapshots)
	total := TotalReturn(curve)
	return Summary{
		TotalReturn:  total,
		AnnualReturn: AnnualReturn(total, len(curve)),
		MaxDrawdown:  MaxDrawdown(curve),
		SharpeRatio:  SharpeRatio(curve),
	}
}

// TotalReturn is the fractional change from the first to the last point
// of the equity curve.
func TotalReturn(curve []float64) float64 {
	if len(curve) == 0 || curve[0] == 0 {
		return 0.0
	}
	return (curve[len(curve)-1] - curve[0]) / curve[0]
}

// AnnualReturn annualizes a total return observed over tradingDays days.
func AnnualReturn(totalReturn float64, tradingDays int) float64 {
	if tradingDays == 0 {
		return 0.0
	}
	years := float64(tradingDays) / tradingDaysPerYear
	return math.Pow(1+totalReturn, 1/years) - 1
}

// MaxDrawdown is the largest fractional decline from a running peak.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0.0
	}
	peak := curve[0]
	maxDD := 0.0
	for _, equity := range curve {
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SharpeRatio is the mean daily return over its standard deviation,
// annualized by sqrt(252). Transitions from a non-positive equity value
// are excluded; fewer than two usable returns or zero variance yield 0.
func SharpeRatio(curve []float64) float64 {
	var returns []float64
	for i := 1; i < len(curve); i++ {
		if curve[i-1] > 0 {
			returns = append(returns, (curve[i]-curve[i-1])/curve[i-1])
		}
	}
	if len(returns) < 2 {
		return 0.0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)))
	if std == 0 {
		return 0.0
	}

	return (mean / std) * math.Sqrt(tradingDaysPerYear)
}
