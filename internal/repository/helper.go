package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the formats timestamps may come back from SQLite in:
// what this package writes, and what CURRENT_TIMESTAMP produces.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a date string in RFC3339, "2006-01-02 15:04:05" or
// "2006-01-02" format.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// formatTime is the storage format of timestamps.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate normalizes a stored date to YYYY-MM-DD.
func ParseDate(str string) (string, error) {
	t, err := ParseTime(str)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
