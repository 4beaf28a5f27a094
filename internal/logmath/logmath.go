// Package logmath provides numerically stable arithmetic on quantities
// stored as natural logarithms.
//
// The convention throughout is that math.Inf(-1) represents log(0).
package logmath

import "math"

// Add returns log(exp(a) + exp(b)) without leaving the log domain.
// Skips the log1p/exp work when the smaller term is below float64
// precision (exp(-36) ~ 2.3e-16).
func Add(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(b, -1) {
		return a
	}
	d := b - a
	if d < -36 {
		return a
	}

	return a + math.Log1p(math.Exp(d))
}

// Sub returns log(exp(a) - exp(b)), assuming a >= b.
// Returns -Inf when a <= b.
func Sub(a, b float64) float64 {
	if math.IsInf(b, -1) {
		return a
	}
	if a <= b {
		return math.Inf(-1)
	}

	return a + math.Log1p(-math.Exp(b-a))
}
