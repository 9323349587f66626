package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-MM-dd string as a UTC calendar day.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd: %w", dateStr, err)
	}
	return t, nil
}

// DayBounds returns the UTC [start, end) instants of the calendar day
// containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ParseTimeIn parses a provider timestamp. Strings that carry their own
// offset (RFC3339) are honored; bare local timestamps are interpreted in
// loc. Either way the result is converted to UTC, so this is the single
// point where a provider's timezone assumption is applied.
func ParseTimeIn(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		return &u, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		u := t.UTC()
		return &u, nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, loc); e == nil {
			u := tt.UTC()
			return &u, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}
