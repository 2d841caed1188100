package eodhd

import (
	"time"

	"github.com/fathomq/fathom/internal/core"
)

var fiscalMonths = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// fiscalYearEndMonth converts the API's month name to a month number,
// defaulting to December for unrecognized values.
func fiscalYearEndMonth(name string) time.Month {
	if m, ok := fiscalMonths[name]; ok {
		return m
	}
	return time.December
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the next month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// quarterEndFor returns the calendar quarter end containing the date.
func quarterEndFor(d core.Date) core.Date {
	switch {
	case d.Month() <= time.March:
		return core.NewDate(d.Year(), time.March, 31)
	case d.Month() <= time.June:
		return core.NewDate(d.Year(), time.June, 30)
	case d.Month() <= time.September:
		return core.NewDate(d.Year(), time.September, 30)
	default:
		return core.NewDate(d.Year(), time.December, 31)
	}
}

func nextQuarterEnd(q core.Date) core.Date {
	switch q.Month() {
	case time.March:
		return core.NewDate(q.Year(), time.June, 30)
	case time.June:
		return core.NewDate(q.Year(), time.September, 30)
	case time.September:
		return core.NewDate(q.Year(), time.December, 31)
	default:
		return core.NewDate(q.Year()+1, time.March, 31)
	}
}

// quarterWeight returns the fraction of the current quarter remaining at
// the date, clamped to [0, 1]. Both endpoints count as full days.
func quarterWeight(d core.Date) float64 {
	qEnd := quarterEndFor(d)

	var qStart core.Date
	switch qEnd.Month() {
	case time.March:
		qStart = core.NewDate(qEnd.Year(), time.January, 1)
	case time.June:
		qStart = core.NewDate(qEnd.Year(), time.April, 1)
	case time.September:
		qStart = core.NewDate(qEnd.Year(), time.July, 1)
	default:
		qStart = core.NewDate(qEnd.Year(), time.October, 1)
	}

	totalDays := float64(qEnd.Time().Sub(qStart.Time()).Hours()/24) + 1
	remaining := float64(qEnd.Time().Sub(d.Time()).Hours()/24) + 1

	w := remaining / totalDays
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// daysRemainingInFiscalYear counts the days from the date to its fiscal
// year end, clamped to [0, 365].
func daysRemainingInFiscalYear(d core.Date, fyEndMonth time.Month) int {
	fyEnd := core.NewDate(d.Year(), fyEndMonth, lastDayOfMonth(d.Year(), fyEndMonth))
	if d.After(fyEnd) {
		fyEnd = core.NewDate(d.Year()+1, fyEndMonth, lastDayOfMonth(d.Year()+1, fyEndMonth))
	}

	days := int(fyEnd.Time().Sub(d.Time()).Hours() / 24)
	if days < 0 {
		return 0
	}
	if days > 365 {
		return 365
	}
	return days
}
