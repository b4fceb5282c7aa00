package reference

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// SeriesKey identifies one (sex, measurement) table within a dataset.
type SeriesKey struct {
	Sex         Sex
	Measurement Measurement
}

// Table is an immutable in-memory growth-reference table.
//
// It is populated once via NewTable and safe for unsynchronized concurrent
// reads afterwards. Lookup misses are a normal outcome: the shipped data
// covers months 0 through 227, and gaps or out-of-range ages simply have no
// row.
type Table struct {
	rows     map[Key]Params
	coverage map[SeriesKey]*roaring.Bitmap
}

// NewTable builds a Table from rows. Duplicate keys and parameter values
// outside their valid domain (M <= 0, S <= 0, negative age) are construction
// errors; a Table never holds a row the engine cannot evaluate.
func NewTable(rows []Row) (*Table, error) {
	t := &Table{
		rows:     make(map[Key]Params, len(rows)),
		coverage: make(map[SeriesKey]*roaring.Bitmap),
	}
	for _, r := range rows {
		if err := validateRow(r); err != nil {
			return nil, err
		}
		key := Key{Sex: r.Sex, Measurement: r.Measurement, AgeMonths: r.AgeMonths}
		if _, dup := t.rows[key]; dup {
			return nil, fmt.Errorf("duplicate reference row for %s", key)
		}
		t.rows[key] = r.Params

		sk := SeriesKey{Sex: r.Sex, Measurement: r.Measurement}
		bm, ok := t.coverage[sk]
		if !ok {
			bm = roaring.New()
			t.coverage[sk] = bm
		}
		bm.Add(uint32(r.AgeMonths))
	}
	return t, nil
}

func validateRow(r Row) error {
	key := Key{Sex: r.Sex, Measurement: r.Measurement, AgeMonths: r.AgeMonths}
	switch {
	case r.Sex != Male && r.Sex != Female:
		return fmt.Errorf("row %s: invalid sex %q", key, r.Sex)
	case r.Measurement == "":
		return fmt.Errorf("row %s: empty measurement", key)
	case r.AgeMonths < 0:
		return fmt.Errorf("row %s: negative age", key)
	case r.Params.M <= 0:
		return fmt.Errorf("row %s: M must be positive, got %v", key, r.Params.M)
	case r.Params.S <= 0:
		return fmt.Errorf("row %s: S must be positive, got %v", key, r.Params.S)
	}
	return nil
}

// Lookup returns the LMS parameters for the given key. The boolean reports
// whether a row exists; absence is expected (age out of range or a gap in
// the source tables) and is not an error.
func (t *Table) Lookup(sex Sex, measurement Measurement, ageMonths int) (Params, bool) {
	p, ok := t.rows[Key{Sex: sex, Measurement: measurement, AgeMonths: ageMonths}]
	return p, ok
}

// Len returns the total number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Coverage returns a copy of the populated age buckets for one
// (sex, measurement) series. The returned bitmap is owned by the caller.
func (t *Table) Coverage(sex Sex, measurement Measurement) *roaring.Bitmap {
	bm, ok := t.coverage[SeriesKey{Sex: sex, Measurement: measurement}]
	if !ok {
		return roaring.New()
	}
	return bm.Clone()
}

// AgeRange returns the lowest and highest populated age bucket for a series.
// ok is false when the series has no rows at all.
func (t *Table) AgeRange(sex Sex, measurement Measurement) (minAge, maxAge int, ok bool) {
	bm, exists := t.coverage[SeriesKey{Sex: sex, Measurement: measurement}]
	if !exists || bm.IsEmpty() {
		return 0, 0, false
	}
	return int(bm.Minimum()), int(bm.Maximum()), true
}

// Series lists the (sex, measurement) combinations present in the table,
// sorted for stable output.
func (t *Table) Series() []SeriesKey {
	keys := make([]SeriesKey, 0, len(t.coverage))
	for sk := range t.coverage {
		keys = append(keys, sk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Sex != keys[j].Sex {
			return keys[i].Sex < keys[j].Sex
		}
		return keys[i].Measurement < keys[j].Measurement
	})
	return keys
}
