// Package normalize coerces loosely typed JSON / form values into the shapes the
// storage layer persists. Nothing here returns an error: values that cannot be
// coerced fall back to a documented default.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number returns v as a finite float64. Numeric strings are accepted.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StrictNumber is like Number but only accepts JSON numbers, never strings.
// Measurement metrics use it: a string "0.4" is not a reading.
func StrictNumber(v any) (float64, bool) {
	if _, ok := v.(string); ok {
		return 0, false
	}
	return Number(v)
}

// Coordinate returns a pointer to a finite float, or nil.
func Coordinate(v any) *float64 {
	f, ok := Number(v)
	if !ok {
		return nil
	}
	return &f
}

// Count coerces v to a non-negative integer, 0 when v is not numeric.
// Fractions are truncated.
func Count(v any) int {
	n, ok := CountOK(v)
	if !ok {
		return 0
	}
	return n
}

// CountOK reports whether v could be read as a number at all.
func CountOK(v any) (int, bool) {
	f, ok := Number(v)
	if !ok {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	return int(f), true
}

// Text returns strings as-is and renders numbers without a trailing ".0", so a
// legacy numeric building year of 2010 becomes "2010".
func Text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	}
	if f, ok := Number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// TextOK is Text restricted to values that are strings or numbers.
func TextOK(v any) (string, bool) {
	switch v.(type) {
	case string:
		return v.(string), true
	case float64, float32, int, int64, json.Number:
		return Text(v), true
	}
	return "", false
}

// Upper returns the trimmed, upper-cased string form of v, "" for nil.
func Upper(v any) string {
	return strings.ToUpper(strings.TrimSpace(Text(v)))
}

// FirstPresent returns the value of the first key in m that holds a non-nil value.
func FirstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// StringList coerces v into a list of non-empty strings. Anything that is not
// an array yields an empty, non-nil slice.
func StringList(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			if s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range list {
			if s := Text(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
