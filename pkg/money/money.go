// Package money guards the pricing pipeline from malformed numeric input
// and owns the rounding policy for displayed and submitted amounts.
package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToNumber coerces untrusted input to a finite float64. Malformed,
// missing, or non-finite values coerce to 0 rather than propagating NaN
// into totals. Never panics.
func ToNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		return finite(parsed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return finite(parsed)
	default:
		return 0
	}
}

// Round2 rounds an amount to two decimal places. Intermediate math stays
// unrounded; callers apply this only at display and submission boundaries.
func Round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(finite(value)).Round(2).Float64()
	return rounded
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
