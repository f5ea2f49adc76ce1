// Package money provides numeric coercion and rounding helpers for
// monetary values received from the commerce backend, which reports
// amounts as strings, numbers or nulls depending on the endpoint.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToFloat converts a backend-supplied value into a float64, falling back
// when the value is missing, non-numeric or not finite. It never panics
// and never returns NaN or an infinity.
func ToFloat(value any, fallback float64) float64 {
	var parsed float64
	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		parsed = v
	case float32:
		parsed = float64(v)
	case int:
		parsed = float64(v)
	case int64:
		parsed = float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fallback
		}
		parsed = f
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
		if err != nil {
			return fallback
		}
		parsed = f
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fallback
	}
	return parsed
}

// ParseFloat behaves like ToFloat for plain strings.
func ParseFloat(value string, fallback float64) float64 {
	return ToFloat(value, fallback)
}

// Round2 rounds an amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinorUnits converts a major-unit amount into the gateway's minor
// currency unit (paise for INR), rounding to the nearest unit.
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}
