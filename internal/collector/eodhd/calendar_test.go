package eodhd

import (
	"math"
	"testing"
	"time"

	"github.com/fathomq/fathom/internal/core"
)

func TestQuarterEndFor(t *testing.T) {
	tests := []struct {
		date     core.Date
		expected core.Date
	}{
		{core.NewDate(2024, time.February, 15), core.NewDate(2024, time.March, 31)},
		{core.NewDate(2024, time.March, 31), core.NewDate(2024, time.March, 31)},
		{core.NewDate(2024, time.May, 1), core.NewDate(2024, time.June, 30)},
		{core.NewDate(2024, time.August, 31), core.NewDate(2024, time.September, 30)},
		{core.NewDate(2024, time.November, 2), core.NewDate(2024, time.December, 31)},
	}

	for _, tc := range tests {
		got := quarterEndFor(tc.date)
		if got != tc.expected {
			t.Errorf("quarterEndFor(%s) = %s, want %s", tc.date, got, tc.expected)
		}
	}
}

func TestNextQuarterEnd(t *testing.T) {
	tests := []struct {
		quarter  core.Date
		expected core.Date
	}{
		{core.NewDate(2024, time.March, 31), core.NewDate(2024, time.June, 30)},
		{core.NewDate(2024, time.June, 30), core.NewDate(2024, time.September, 30)},
		{core.NewDate(2024, time.September, 30), core.NewDate(2024, time.December, 31)},
		{core.NewDate(2024, time.December, 31), core.NewDate(2025, time.March, 31)},
	}

	for _, tc := range tests {
		got := nextQuarterEnd(tc.quarter)
		if got != tc.expected {
			t.Errorf("nextQuarterEnd(%s) = %s, want %s", tc.quarter, got, tc.expected)
		}
	}
}

func TestQuarterWeight(t *testing.T) {
	// Q1 2024 has 91 days inclusive.
	tests := []struct {
		date     core.Date
		expected float64
	}{
		{core.NewDate(2024, time.January, 1), 1.0},
		{core.NewDate(2024, time.March, 31), 1.0 / 91},
		{core.NewDate(2024, time.February, 15), 46.0 / 91},
	}

	for _, tc := range tests {
		got := quarterWeight(tc.date)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("quarterWeight(%s) = %f, want %f", tc.date, got, tc.expected)
		}
	}
}

func TestDaysRemainingInFiscalYear(t *testing.T) {
	tests := []struct {
		date     core.Date
		fyEnd    time.Month
		expected int
	}{
		{core.NewDate(2024, time.June, 30), time.December, 184},
		{core.NewDate(2024, time.December, 31), time.December, 0},
		// past this fiscal year's end: rolls to the next one
		{core.NewDate(2024, time.July, 1), time.June, 364},
	}

	for _, tc := range tests {
		got := daysRemainingInFiscalYear(tc.date, tc.fyEnd)
		if got != tc.expected {
			t.Errorf("daysRemainingInFiscalYear(%s, %s) = %d, want %d", tc.date, tc.fyEnd, got, tc.expected)
		}
	}
}

func TestFiscalYearEndMonth(t *testing.T) {
	if got := fiscalYearEndMonth("June"); got != time.June {
		t.Errorf("expected June, got %s", got)
	}
	if got := fiscalYearEndMonth("unknown"); got != time.December {
		t.Errorf("expected December default, got %s", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := lastDayOfMonth(2024, time.February); got != 29 {
		t.Errorf("expected 29 for leap February, got %d", got)
	}
	if got := lastDayOfMonth(2023, time.February); got != 28 {
		t.Errorf("expected 28, got %d", got)
	}
	if got := lastDayOfMonth(2024, time.December); got != 31 {
		t.Errorf("expected 31, got %d", got)
	}
}
