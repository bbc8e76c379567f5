package utils

import (
	"strconv"
	"strings"
)

// FormatFloat renders value with at most decimals digits after the point and trims trailing
// zeros, e.g. FormatFloat(1.5, 3) is "1.5" and FormatFloat(2, 3) is "2". Controller parsers
// consume this format directly.
func FormatFloat(value float64, decimals int) string {
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatFloats renders every value with FormatFloat and joins the results with commas.
func FormatFloats(values []float64, decimals int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v, decimals)
	}
	return strings.Join(parts, ",")
}
