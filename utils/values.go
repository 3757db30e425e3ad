package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCell converts a raw cell read from a delimited file into a typed
// value: nil for an empty cell, int or float64 when numeric, the trimmed
// string otherwise.
func ParseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return f
	}
	return s
}

// ToFloat coerces v to a float64. It reports false for nil, NaN and values
// that do not parse as a number.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint64:
		f = float64(val)
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(val)), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToString stringifies v and trims it. nil becomes "".
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// IsMissing reports whether v is an absent cell.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if f, ok := v.(float64); ok {
		return math.IsNaN(f)
	}
	return false
}
