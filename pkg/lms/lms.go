// Package lms converts raw growth measurements into population percentiles
// using the LMS (lambda-mu-sigma) method.
//
// The LMS method summarizes a skewed, age- and sex-specific measurement
// distribution with three published parameters per age bucket: L (Box-Cox
// power), M (median) and S (coefficient of variation). A raw value is first
// mapped to a standardized Z-score with the Box-Cox power transform
//
//	Z = ((value/M)^L - 1) / (L*S)   when L != 0
//	Z = ln(value/M) / S             when L == 0
//
// and the Z-score is then mapped to a percentile through the standard normal
// CDF. The L == 0 case is the removable singularity of the power transform
// (it degenerates to a log transform) and is an explicit branch, not a
// numerical limit.
//
// The engine is pure and deterministic: same inputs against the same table
// always produce the same percentile. It is safe for concurrent use once the
// backing store is published.
package lms

import (
	"fmt"
	"math"

	"github.com/sprouthq/sprout/pkg/reference"
	"gonum.org/v1/gonum/stat/distuv"
)

// Store is the engine's one dependency: lookup of LMS parameters by key.
// *reference.Table satisfies it; a remote store can be substituted as long
// as it preserves lookup semantics (absence is reported, never invented).
type Store interface {
	Lookup(sex reference.Sex, measurement reference.Measurement, ageMonths int) (reference.Params, bool)
}

// NotFoundError reports that no reference row exists for the requested age
// bucket. This is an expected, user-facing outcome ("no data for this age"),
// not a system fault.
type NotFoundError struct {
	Measurement reference.Measurement
	AgeMonths   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s reference data for age %d months", e.Measurement, e.AgeMonths)
}

// InvalidInputError reports input the engine refuses to compute with, such
// as a non-positive measurement value or a negative age. Computing anyway
// would propagate NaN into a reported percentile.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Engine computes percentiles against a reference store.
type Engine struct {
	store Store
}

// New creates an Engine backed by store.
func New(store Store) *Engine {
	return &Engine{store: store}
}

// ZScore computes the LMS-standardized Z-score for value.
//
// Returns *InvalidInputError for value <= 0 or ageMonths < 0, and
// *NotFoundError when the store has no row for the key.
func (e *Engine) ZScore(sex reference.Sex, measurement reference.Measurement, ageMonths int, value float64) (float64, error) {
	if err := validate(ageMonths, value); err != nil {
		return 0, err
	}
	p, ok := e.store.Lookup(sex, measurement, ageMonths)
	if !ok {
		return 0, &NotFoundError{Measurement: measurement, AgeMonths: ageMonths}
	}
	return zScore(value, p), nil
}

// Percentile computes the population percentile for value, in [0, 100],
// rounded to two decimal places. This is the engine's single rounding site;
// every caller reports the value unchanged.
func (e *Engine) Percentile(sex reference.Sex, measurement reference.Measurement, ageMonths int, value float64) (float64, error) {
	z, err := e.ZScore(sex, measurement, ageMonths, value)
	if err != nil {
		return 0, err
	}
	pct := Phi(z) * 100
	pct = math.Round(pct*100) / 100
	return clamp(pct, 0, 100), nil
}

// ValueAtPercentile inverts the transform: the measurement value a subject
// at the given percentile (exclusive 0..100) would have. Used to render
// percentile curves; the forward path never depends on it.
func (e *Engine) ValueAtPercentile(sex reference.Sex, measurement reference.Measurement, ageMonths int, percentile float64) (float64, error) {
	if percentile <= 0 || percentile >= 100 {
		return 0, &InvalidInputError{Field: "percentile", Msg: "must be strictly between 0 and 100"}
	}
	if ageMonths < 0 {
		return 0, &InvalidInputError{Field: "age", Msg: "must not be negative"}
	}
	p, ok := e.store.Lookup(sex, measurement, ageMonths)
	if !ok {
		return 0, &NotFoundError{Measurement: measurement, AgeMonths: ageMonths}
	}
	z := distuv.UnitNormal.Quantile(percentile / 100)
	if p.L != 0 {
		return p.M * math.Pow(1+p.L*p.S*z, 1/p.L), nil
	}
	return p.M * math.Exp(p.S*z), nil
}

func validate(ageMonths int, value float64) error {
	if ageMonths < 0 {
		return &InvalidInputError{Field: "age", Msg: "must not be negative"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &InvalidInputError{Field: "value", Msg: "must be finite"}
	}
	if value <= 0 {
		return &InvalidInputError{Field: "value", Msg: "must be positive"}
	}
	return nil
}

func zScore(value float64, p reference.Params) float64 {
	if p.L != 0 {
		return (math.Pow(value/p.M, p.L) - 1) / (p.L * p.S)
	}
	return math.Log(value/p.M) / p.S
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
