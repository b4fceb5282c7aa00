// Package reference holds the LMS growth-reference tables: for every
// (sex, measurement, age-in-months) key a published (L, M, S) parameter
// triple describing the age- and sex-specific measurement distribution.
//
// Tables are built once from CSV source data (see Builder), published as an
// immutable Table, and read concurrently without locking thereafter.
package reference

import (
	"fmt"
	"strings"
)

// Sex identifies which reference population a row belongs to.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// Measurement identifies the measured quantity a table covers.
type Measurement string

const (
	Height Measurement = "height" // standing height / recumbent length, cm
	Weight Measurement = "weight" // body weight, kg

	// HeadCircumference is accepted by the data model but not shipped in the
	// default dataset.
	HeadCircumference Measurement = "head_circumference"
)

// ParseSex normalizes user- or file-supplied sex labels.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "boy":
		return Male, nil
	case "female", "f", "girl":
		return Female, nil
	default:
		return "", fmt.Errorf("unknown sex %q (want male or female)", s)
	}
}

// ParseMeasurement normalizes user- or file-supplied measurement labels.
func ParseMeasurement(s string) (Measurement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "height", "length", "stature":
		return Height, nil
	case "weight":
		return Weight, nil
	case "head_circumference", "head":
		return HeadCircumference, nil
	default:
		return "", fmt.Errorf("unknown measurement %q (want height or weight)", s)
	}
}

// Params is the LMS parameter triple for one age bucket.
//
// L is the Box-Cox power (may be any real, including 0), M the median
// (must be > 0), S the generalized coefficient of variation (must be > 0).
type Params struct {
	L float64 `json:"l"`
	M float64 `json:"m"`
	S float64 `json:"s"`
}

// Row is one growth-reference table entry.
type Row struct {
	Sex         Sex         `json:"sex"`
	Measurement Measurement `json:"measurement"`
	AgeMonths   int         `json:"age_months"`
	Params      Params      `json:"params"`
}

// Key uniquely identifies a Row within a Table.
type Key struct {
	Sex         Sex
	Measurement Measurement
	AgeMonths   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%dmo", k.Sex, k.Measurement, k.AgeMonths)
}
