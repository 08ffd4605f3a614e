package util

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in storage
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
// It never consults the process time zone or locale.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats t as a YYYY-MM-DD calendar date in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
