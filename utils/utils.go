package utils

import (
	"math"
	"strconv"
)

// FormatFloat rounds f to round decimal places. NaN and infinities are
// returned unchanged.
func FormatFloat(f float64, round int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow(10, float64(round))
	return math.Round(f*scale) / scale
}

// Percent renders a probability as a percentage without trailing zeros,
// 0.025 -> "2.5".
func Percent(p float64) string {
	return strconv.FormatFloat(FormatFloat(p*100, 6), 'f', -1, 64)
}

func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
