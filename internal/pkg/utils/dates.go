package utils

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC 3339. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Today is midnight UTC of the current day.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
