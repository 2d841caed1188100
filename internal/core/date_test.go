package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDate_Normalizes(t *testing.T) {
	// Day overflow rolls into the next month.
	d := NewDate(2024, time.January, 32)
	if d.String() != "2024-02-01" {
		t.Errorf("expected 2024-02-01, got %s", d)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-06-30")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2023 || d.Month() != time.June || d.Day() != 30 {
		t.Errorf("unexpected date: %s", d)
	}

	if _, err := ParseDate("30/06/2023"); err == nil {
		t.Error("expected error for non-ISO format")
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.March, 15)
	b := NewDate(2024, time.March, 16)

	if !a.Before(b) {
		t.Error("a should be before b")
	}
	if !b.After(a) {
		t.Error("b should be after a")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	if got := d.AddDays(-1); got.String() != "2024-02-29" {
		t.Errorf("expected leap day, got %s", got)
	}
	if got := d.AddDays(365); got.String() != "2025-03-01" {
		t.Errorf("expected 2025-03-01, got %s", got)
	}
}

func TestDate_MapKey(t *testing.T) {
	m := map[Date]string{
		NewDate(2024, time.January, 2): "first",
	}
	if m[NewDate(2024, time.January, 2)] != "first" {
		t.Error("equal dates should hit the same map key")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	in := map[Date]float64{NewDate(2024, time.July, 4): 1.5}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[Date]float64
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[NewDate(2024, time.July, 4)] != 1.5 {
		t.Errorf("round trip lost value: %v", out)
	}
}
