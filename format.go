package safeeval

import (
	"math"
	"strconv"
)

// displayDigits is the significant precision of non-integral results.
const displayDigits = 10

// Format renders a result for display. Values with no fractional part are
// rendered as integers with no decimal point, so 8.0 displays as "8".
// Everything else is rounded to ten significant digits.
func Format(v float64) string {
	switch {
	case v == 0:
		// Includes negative zero.
		return "0"
	case math.IsNaN(v) || math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'g', -1, 64)
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'g', displayDigits, 64)
	}
}
