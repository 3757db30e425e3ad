package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts is the fixed precedence order used by ParseDate. Ambiguous
// values such as "01/02/2023" resolve to the first layout that accepts them
// (day-first before month-first). Day, month and hour fields accept one or
// two digits, so "7/5/2023" and "07/05/2023" parse alike.
var DateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"2/1/2006",
	"1-2-2006",
	"1/2/2006",
	"2006-1-2 15:04:05",
	"2.1.2006",
	// round-trip forms written by this program
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate converts v into a time.Time using DateLayouts.
// It returns false when v is nil or matches none of the layouts.
func ParseDate(v any) (time.Time, bool) {
	return ParseDateWith(v, DateLayouts)
}

// ParseDateWith is ParseDate with a caller-supplied layout list.
func ParseDateWith(v any, layouts []string) (time.Time, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		s = val
	default:
		s = fmt.Sprint(val)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
