package models

import "errors"

// ErrInvalidInput marks a precondition violation at the core's boundary,
// such as a non-positive floor area or an unknown category string.
var ErrInvalidInput = errors.New("invalid input")

// SafeRatio divides num by den, returning fallback when den is not positive.
// Every divide-by-near-zero fallback in the scoring formulas goes through
// here so the fallback paths stay uniform.
func SafeRatio(num, den, fallback float64) float64 {
	if den <= 0 {
		return fallback
	}
	return num / den
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
