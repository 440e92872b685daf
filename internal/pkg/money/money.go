package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// groupingReplacer strips thousands separators before parsing.
var groupingReplacer = strings.NewReplacer(
	",", "",
	"_", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// NaN is the "no data" sentinel returned by Parse. It is distinct from zero.
func NaN() float64 {
	return math.NaN()
}

// IsNaN reports whether v is the "no data" sentinel.
func IsNaN(v float64) bool {
	return math.IsNaN(v)
}

// IsFinite reports whether v is a usable number (not NaN, not ±Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Parse turns an amount that may arrive as a number or as a formatted string
// ("1,250.50", "1 250.50") into a float64. nil, empty and non-numeric inputs
// yield NaN so callers can tell "no data" apart from a zero amount.
// Infinities ("inf", "Infinity" or an infinite float) are not amounts and
// also yield NaN.
func Parse(v any) float64 {
	f := parse(v)
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

func parse(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case *float64:
		if x == nil {
			return math.NaN()
		}
		return *x
	case decimal.Decimal:
		return x.InexactFloat64()
	case json.Number:
		return parseString(string(x))
	case string:
		return parseString(x)
	case []byte:
		return parseString(string(x))
	default:
		return math.NaN()
	}
}

func parseString(s string) float64 {
	s = groupingReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Round2 rounds a terminal monetary value to 2 decimal places (half away from
// zero). NaN and infinities pass through unchanged.
func Round2(v float64) float64 {
	if !IsFinite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Decimal converts v into a decimal rounded to cents. Anything that does not
// parse counts as zero, which is what sums over snapshot data want.
func Decimal(v any) decimal.Decimal {
	f := Parse(v)
	if !IsFinite(f) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}

// OrZero returns v, or 0 when v is the NaN sentinel.
func OrZero(v float64) float64 {
	if !IsFinite(v) {
		return 0
	}
	return v
}
