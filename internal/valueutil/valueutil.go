// Package valueutil canonicalises decoded values so that documents coming
// from JSON, YAML and XML share one set of Go types.
package valueutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// maxExactInt is the largest integer a float64 represents exactly (2^53).
const maxExactInt = 1 << 53

// Canonical converts a decoded value tree in place where possible:
// map[any]any becomes map[string]any, json.Number becomes int or float64,
// and sized integer types become int. Everything else is returned unchanged.
func Canonical(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = Canonical(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[KeyString(k)] = Canonical(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = Canonical(item)
		}
		return val
	case json.Number:
		if n, ok := ParseNumber(val.String()); ok {
			return n
		}
		return val.String()
	case int64:
		if val >= math.MinInt && val <= math.MaxInt {
			return int(val)
		}
		return float64(val)
	case int32:
		return int(val)
	case uint64:
		if val <= math.MaxInt {
			return int(val)
		}
		return float64(val)
	case uint:
		if val <= math.MaxInt {
			return int(val)
		}
		return float64(val)
	case float32:
		return float64(val)
	}
	return v
}

// ParseNumber parses a trimmed decimal literal. Integers become int, other
// finite values float64; integral floats within the exactly representable
// range collapse to int. Hexadecimal, infinities and NaN are rejected.
func ParseNumber(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 0); err == nil {
		return int(i), true
	}
	if !isDecimalLiteral(s) {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
		return int(f), true
	}
	return f, true
}

func isDecimalLiteral(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

// KeyString renders a value used as a mapping key (an id or lang attribute
// after coercion) as a string.
func KeyString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		abs := math.Abs(val)
		if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
			return strconv.FormatFloat(val, 'g', -1, 64)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}
