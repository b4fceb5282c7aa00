package lms

import "math"

// =============================================================================
// STANDARD NORMAL CDF
// =============================================================================
//
// Percentiles are derived from the Z-score via the standard normal CDF
// Phi(z) = 0.5 * (1 + erf(z / sqrt(2))).
//
// erf is computed with the Abramowitz & Stegun closed-form approximation
// (Handbook of Mathematical Functions, formula 7.1.26), which has a maximum
// absolute error of 1.5e-7. The closed form is used instead of a library
// call so that reported percentiles stay bit-stable across ports of this
// engine; substituting a different erf implementation would silently drift
// historical outputs.
// =============================================================================

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// erf approximates the error function. Odd symmetry handles negative input:
// erf(-x) = -erf(x).
func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}
	t := 1.0 / (1.0 + erfP*x)
	poly := ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t + erfA1) * t
	return sign * (1.0 - poly*math.Exp(-x*x))
}

// Phi is the standard normal cumulative distribution function.
func Phi(z float64) float64 {
	return 0.5 * (1.0 + erf(z/math.Sqrt2))
}
