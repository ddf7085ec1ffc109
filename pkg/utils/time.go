package utils

import "time"

// TimestampLayout is RFC3339 with fixed microsecond precision. Formatted in UTC
// it sorts lexically in chronological order, which string-compared filters rely on.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp formats t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses any RFC3339 timestamp, with or without fractional seconds
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// DaysSince returns the number of whole and fractional days elapsed between t and now.
func DaysSince(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}
