package domain

import (
	"testing"
	"time"
)

func TestMonthKeyOf_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 2024-01-31 22:00 at -5 is 2024-02-01 in UTC
	key := MonthKeyOf(time.Date(2024, 1, 31, 22, 0, 0, 0, loc))

	if key.Year != 2024 || key.Month != time.February {
		t.Errorf("MonthKeyOf() = %v, want 2024-02", key)
	}
}

func TestMonthKey_Formats(t *testing.T) {
	key := MonthKey{Year: 2024, Month: time.January}

	if key.Label() != "January 2024" {
		t.Errorf("Label() = %q, want %q", key.Label(), "January 2024")
	}
	if key.String() != "2024-01" {
		t.Errorf("String() = %q, want %q", key.String(), "2024-01")
	}
	if !key.Start().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start() = %v", key.Start())
	}
}

func TestMonthKey_Before(t *testing.T) {
	tests := []struct {
		a, b     MonthKey
		expected bool
	}{
		{MonthKey{2024, time.January}, MonthKey{2024, time.February}, true},
		{MonthKey{2023, time.December}, MonthKey{2024, time.January}, true},
		{MonthKey{2024, time.March}, MonthKey{2024, time.March}, false},
		{MonthKey{2025, time.January}, MonthKey{2024, time.December}, false},
	}

	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.expected {
			t.Errorf("%v.Before(%v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
