// Package age computes a subject's age in whole calendar months, the bucket
// convention the growth-reference tables are keyed by.
package age

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is wrapped by ParseDate for unparseable input.
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the accepted calendar-date format.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// Months returns the number of calendar months elapsed between birth and
// today: year and month subtraction with a borrow, the day of month ignored
// entirely. A child is 12 months old for the whole calendar month in which
// the first birthday falls.
//
// The reference tables are bucketed by this exact convention, so it must not
// be "corrected" to day-precise month counting: that would shift lookups
// near month boundaries. today before birth yields a negative result, which
// callers treat as "no data" rather than attempting a lookup.
func Months(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	months := int(today.Month()) - int(birth.Month())
	if months < 0 {
		years--
		months += 12
	}
	return years*12 + months
}

// MonthsAt parses both dates and returns Months. It fails fast on malformed
// input instead of producing a garbage bucket.
func MonthsAt(birthDate, onDate string) (int, error) {
	birth, err := ParseDate(birthDate)
	if err != nil {
		return 0, err
	}
	on, err := ParseDate(onDate)
	if err != nil {
		return 0, err
	}
	return Months(birth, on), nil
}
