package reference

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const maleHeightCSV = `age_months,l,m,s
0,1,49.9,0.038
1,1,54.7,0.037
24,1,87.1,0.040
`

const femaleWeightCSV = `age_months,l,m,s
12,-0.2,8.9,0.11
24,-0.3,11.5,0.10
`

func TestBuild_MergesAndSortsSources(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Sex: Female, Measurement: Weight, Path: writeCSV(t, dir, "female_weight.csv", femaleWeightCSV)},
		{Sex: Male, Measurement: Height, Path: writeCSV(t, dir, "male_height.csv", maleHeightCSV)},
	}

	rows, err := NewBuilder().Build(sources)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	// Sorted by (sex, measurement, age); female sorts before male.
	if rows[0].Sex != Female || rows[0].AgeMonths != 12 {
		t.Errorf("rows[0] = %+v, want female/weight/12", rows[0])
	}
	if rows[4].Sex != Male || rows[4].AgeMonths != 24 {
		t.Errorf("rows[4] = %+v, want male/height/24", rows[4])
	}
}

func TestBuild_ReportsProgressPerSource(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Sex: Male, Measurement: Height, Path: writeCSV(t, dir, "male_height.csv", maleHeightCSV)},
		{Sex: Female, Measurement: Weight, Path: writeCSV(t, dir, "female_weight.csv", femaleWeightCSV)},
	}

	var ticks atomic.Int64
	_, err := NewBuilder(WithProgress(func() { ticks.Add(1) })).Build(sources)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := ticks.Load(); got != 2 {
		t.Errorf("progress ticks = %d, want 2", got)
	}
}

func TestBuild_FailsOnMalformedData(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{"wrong header", "age,lambda,mu,sigma\n0,1,49.9,0.038\n", 1},
		{"non-numeric age", "age_months,l,m,s\nabc,1,49.9,0.038\n", 2},
		{"non-positive M", "age_months,l,m,s\n0,1,49.9,0.038\n1,1,0,0.037\n", 3},
		{"short record", "age_months,l,m,s\n0,1,49.9\n", 2},
		{"empty body", "age_months,l,m,s\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := Source{Sex: Male, Measurement: Height, Path: writeCSV(t, dir, "male_height.csv", tt.content)}
			_, err := NewBuilder().Build([]Source{src})
			var buildErr *BuildError
			if !errors.As(err, &buildErr) {
				t.Fatalf("err = %v, want *BuildError", err)
			}
			if buildErr.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d (%v)", buildErr.Line, tt.wantLine, buildErr)
			}
		})
	}
}

func TestBuild_MissingFile(t *testing.T) {
	src := Source{Sex: Male, Measurement: Height, Path: filepath.Join(t.TempDir(), "absent.csv")}
	_, err := NewBuilder().Build([]Source{src})
	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err = %v, want *BuildError", err)
	}
}

func TestBuild_FirstErrorInSourceOrder(t *testing.T) {
	dir := t.TempDir()
	badA := writeCSV(t, dir, "a.csv", "bad header\n")
	badB := writeCSV(t, dir, "b.csv", "also bad\n")
	sources := []Source{
		{Sex: Male, Measurement: Height, Path: badA},
		{Sex: Female, Measurement: Weight, Path: badB},
	}

	// The parallel build must still surface the same error every run.
	for i := 0; i < 10; i++ {
		_, err := NewBuilder().Build(sources)
		var buildErr *BuildError
		if !errors.As(err, &buildErr) {
			t.Fatalf("err = %v, want *BuildError", err)
		}
		if buildErr.Path != badA {
			t.Fatalf("run %d reported %s first, want %s", i, buildErr.Path, badA)
		}
	}
}

func TestDiscoverSources(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "male_height.csv", maleHeightCSV)
	writeCSV(t, dir, "female_weight.csv", femaleWeightCSV)
	writeCSV(t, dir, "male_head.csv", "age_months,l,m,s\n0,1,34.5,0.035\n")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := DiscoverSources(dir)
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(sources))
	}
	// Lexical order: female_weight, male_head, male_height.
	if sources[0].Sex != Female || sources[0].Measurement != Weight {
		t.Errorf("sources[0] = %+v, want female/weight", sources[0])
	}
	if sources[1].Measurement != HeadCircumference {
		t.Errorf("sources[1] = %+v, want head circumference", sources[1])
	}
}

func TestDiscoverSources_RejectsUnknownNames(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "alien_height.csv", maleHeightCSV)
	if _, err := DiscoverSources(dir); err == nil {
		t.Error("expected error for unknown sex in filename")
	}

	dir = t.TempDir()
	writeCSV(t, dir, "noseparator.csv", maleHeightCSV)
	if _, err := DiscoverSources(dir); err == nil {
		t.Error("expected error for filename without underscore")
	}

	if _, err := DiscoverSources(t.TempDir()); err == nil {
		t.Error("expected error for directory with no CSV files")
	}
}
