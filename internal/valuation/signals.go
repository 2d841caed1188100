package valuation

// CycleSignal reports whether the current P/E(NTM) sits below the Q1
// (25th percentile) threshold of its historical window. False on any
// missing input or a non-positive current multiple.
func CycleSignal(current, q1Threshold *float64) bool {
	if current == nil || q1Threshold == nil || *current <= 0 {
		return false
	}
	return *current < *q1Threshold
}

// GrowthSignal reports whether normalized net income grew year over year.
func GrowthSignal(growthRate *float64) bool {
	return growthRate != nil && *growthRate > 0
}

// MarginSignal reports whether the normalized net income margin is
// positive.
func MarginSignal(margin *float64) bool {
	return margin != nil && *margin > 0
}

// Signals holds the four boolean valuation signals for one stock.
type Signals struct {
	FiveYearCycle  bool `json:"five_year_cycle"`
	OneYearCycle   bool `json:"one_year_cycle"`
	GrowthPositive bool `json:"growth_positive"`
	MarginPositive bool `json:"margin_positive"`
}

// AllPass reports whether every signal passed.
func (s Signals) AllPass() bool {
	return s.FiveYearCycle && s.OneYearCycle && s.GrowthPositive && s.MarginPositive
}

// Count returns how many signals passed.
func (s Signals) Count() int {
	n := 0
	for _, pass := range []bool{s.FiveYearCycle, s.OneYearCycle, s.GrowthPositive, s.MarginPositive} {
		if pass {
			n++
		}
	}
	return n
}
