package gauge

import (
	"math"
	"strconv"
)

// FormatField renders v for writing back into a linked field. The output is
// the shortest decimal that parses back to v, so it always satisfies
// IsComplete. Non-finite values render as "".
func FormatField(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDisplay renders v for result tables: exponent form below 1e-4,
// then 6, 4, 2 and 0 decimals as magnitude grows.
func FormatDisplay(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	a := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case a < 0.0001:
		return strconv.FormatFloat(v, 'e', 4, 64)
	case a < 0.01:
		return strconv.FormatFloat(v, 'f', 6, 64)
	case a < 1:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case a < 1000:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}
