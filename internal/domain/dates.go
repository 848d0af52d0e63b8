package domain

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts cover full timestamps: RFC 3339 with an offset or trailing Z,
// plus the offset-less and space-separated variants some APIs emit.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
}

// dayLayouts cover bare calendar dates, year-first then US month-first,
// tried in order.
var dayLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01-02-2006",
	"01/02/2006",
}

// ParseDate normalizes a date string to a UTC instant. Full timestamps are
// tried first, then day-only formats; day-only values land on midnight UTC.
// Failure is explicit: no default is ever substituted.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrDateParse)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, s)
}
