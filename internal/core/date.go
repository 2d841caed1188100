package core

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout used for dates everywhere in fathom.
const DateFormat = "2006-01-02"

// Date is a calendar date with day granularity. It is comparable and safe
// to use as a map key, unlike time.Time.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns a normalized Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.year, d.month, d.day = d.Time().Date()
	return d
}

// Today returns the current date in UTC.
func Today() Date {
	return NewDate(time.Now().UTC().Date())
}

// ParseDate parses an ISO-8601 date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return NewDate(t.Date()), nil
}

// Time returns the canonical time.Time for the date (midnight UTC).
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Year returns the year of the date.
func (d Date) Year() int { return d.year }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month.
func (d Date) Day() int { return d.day }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// After reports whether d is after other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// AddDays returns a new Date the given number of days later (or earlier
// when negative).
func (d Date) AddDays(days int) Date {
	return NewDate(d.year, d.month, d.day+days)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format(DateFormat)
}

// MarshalText implements encoding.TextMarshaler, so Date works as a JSON
// object key.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
