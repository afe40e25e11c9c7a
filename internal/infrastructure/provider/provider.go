// Package provider adapts the three upstream news APIs to the normalized
// article shape. Each adapter only parses; source/category resolution and
// persistence happen downstream.
package provider

import "time"

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime parses a provider timestamp, substituting fallback when the field
// is absent or unparseable. Items never fail on a bad date.
func parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
