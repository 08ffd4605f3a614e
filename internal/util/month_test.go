package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"plain date", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"surrounding whitespace", " 2024-02-01 ", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"leap day", "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"not a leap year", "2023-02-29", time.Time{}, true},
		{"day out of range", "2024-04-31", time.Time{}, true},
		{"month out of range", "2024-13-01", time.Time{}, true},
		{"wrong layout", "15/01/2024", time.Time{}, true},
		{"timestamp", "2024-01-15T10:00:00Z", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-03-01 05:00 at +10 is still 2024-02-29 in UTC
	local := time.Date(2024, 3, 1, 5, 0, 0, 0, loc)

	if got := FormatDate(local); got != "2024-02-29" {
		t.Errorf("FormatDate() = %s, want 2024-02-29", got)
	}
}
