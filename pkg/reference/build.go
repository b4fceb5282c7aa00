package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// BuildError reports malformed source data encountered while building a
// dataset. Builds are all-or-nothing: a single bad row fails the whole build
// rather than silently skipping it.
type BuildError struct {
	Path string
	Line int // 1-based line within the file, 0 when not row-specific
	Msg  string
}

func (e *BuildError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Source describes one CSV file to ingest: a (sex, measurement) series with
// columns age_months,l,m,s and a header row.
type Source struct {
	Sex         Sex
	Measurement Measurement
	Path        string
}

// buildColumns is the required CSV header, in order.
var buildColumns = []string{"age_months", "l", "m", "s"}

// Builder ingests growth-reference CSV files into Rows.
type Builder struct {
	onProgress func()
}

// Option configures a Builder.
type Option func(*Builder)

// WithProgress sets a callback invoked after each source file is parsed.
// The callback must be safe for concurrent use.
func WithProgress(fn func()) Option {
	return func(b *Builder) {
		b.onProgress = fn
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses all sources in parallel and returns the combined rows, sorted
// by (sex, measurement, age). The first malformed file, in source order,
// fails the build with a *BuildError.
func (b *Builder) Build(sources []Source) ([]Row, error) {
	rowsBySource := make([][]Row, len(sources))
	errsBySource := make([]error, len(sources))

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(4)
	for i, src := range sources {
		p.Go(func() {
			rows, err := parseSource(src)
			mu.Lock()
			rowsBySource[i] = rows
			errsBySource[i] = err
			mu.Unlock()
			if b.onProgress != nil {
				b.onProgress()
			}
		})
	}
	p.Wait()

	// Report errors deterministically in source order.
	for _, err := range errsBySource {
		if err != nil {
			return nil, err
		}
	}

	var rows []Row
	for _, rs := range rowsBySource {
		rows = append(rows, rs...)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Sex != b.Sex {
			return a.Sex < b.Sex
		}
		if a.Measurement != b.Measurement {
			return a.Measurement < b.Measurement
		}
		return a.AgeMonths < b.AgeMonths
	})
	return rows, nil
}

func parseSource(src Source) ([]Row, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, &BuildError{Path: src.Path, Msg: err.Error()}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, &BuildError{Path: src.Path, Line: 1, Msg: "missing header row"}
	}
	if err := checkHeader(header); err != nil {
		return nil, &BuildError{Path: src.Path, Line: 1, Msg: err.Error()}
	}

	var rows []Row
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &BuildError{Path: src.Path, Line: line, Msg: err.Error()}
		}
		row, err := parseRecord(src, record)
		if err != nil {
			return nil, &BuildError{Path: src.Path, Line: line, Msg: err.Error()}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &BuildError{Path: src.Path, Msg: "no data rows"}
	}
	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(buildColumns) {
		return fmt.Errorf("want columns %v, got %v", buildColumns, header)
	}
	for i, want := range buildColumns {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return fmt.Errorf("want columns %v, got %v", buildColumns, header)
		}
	}
	return nil
}

func parseRecord(src Source, record []string) (Row, error) {
	if len(record) != len(buildColumns) {
		return Row{}, fmt.Errorf("want %d fields, got %d", len(buildColumns), len(record))
	}
	ageMonths, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Row{}, fmt.Errorf("age_months: %v", err)
	}
	vals := make([]float64, 3)
	for i, name := range buildColumns[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return Row{}, fmt.Errorf("%s: %v", name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Row{}, fmt.Errorf("%s: non-finite value", name)
		}
		vals[i] = v
	}
	row := Row{
		Sex:         src.Sex,
		Measurement: src.Measurement,
		AgeMonths:   ageMonths,
		Params:      Params{L: vals[0], M: vals[1], S: vals[2]},
	}
	if err := validateRow(row); err != nil {
		return Row{}, err
	}
	return row, nil
}

// DiscoverSources scans dir for files named <sex>_<measurement>.csv
// (e.g. male_height.csv) and returns them as build sources in lexical order.
func DiscoverSources(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		sexPart, measPart, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("csv file %q does not match <sex>_<measurement>.csv", e.Name())
		}
		sex, err := ParseSex(sexPart)
		if err != nil {
			return nil, fmt.Errorf("csv file %q: %w", e.Name(), err)
		}
		measurement, err := ParseMeasurement(measPart)
		if err != nil {
			return nil, fmt.Errorf("csv file %q: %w", e.Name(), err)
		}
		sources = append(sources, Source{
			Sex:         sex,
			Measurement: measurement,
			Path:        filepath.Join(dir, e.Name()),
		})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no reference CSV files found in %s", dir)
	}
	return sources, nil
}
