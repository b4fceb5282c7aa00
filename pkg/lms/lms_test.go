package lms

import (
	"errors"
	"math"
	"testing"

	"github.com/sprouthq/sprout/pkg/reference"
)

func testTable(t *testing.T) *reference.Table {
	t.Helper()
	table, err := reference.NewTable([]reference.Row{
		{Sex: reference.Male, Measurement: reference.Height, AgeMonths: 24,
			Params: reference.Params{L: 1.0, M: 87.0, S: 0.04}},
		{Sex: reference.Male, Measurement: reference.Weight, AgeMonths: 24,
			Params: reference.Params{L: -0.5, M: 12.5, S: 0.09}},
		{Sex: reference.Female, Measurement: reference.Height, AgeMonths: 36,
			Params: reference.Params{L: 0, M: 10.0, S: 0.1}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestPercentile_MedianIs50(t *testing.T) {
	engine := New(testTable(t))
	got, err := engine.Percentile(reference.Male, reference.Height, 24, 87.0)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if math.Abs(got-50.0) > 0.01 {
		t.Errorf("percentile at median = %v, want 50.0", got)
	}
}

func TestPercentile_AboveMedian(t *testing.T) {
	engine := New(testTable(t))
	got, err := engine.Percentile(reference.Male, reference.Height, 24, 95.0)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if got <= 50.0 {
		t.Errorf("percentile above median = %v, want > 50", got)
	}
	if got < 0 || got > 100 {
		t.Errorf("percentile %v outside [0,100]", got)
	}
}

func TestPercentile_Deterministic(t *testing.T) {
	engine := New(testTable(t))
	first, err := engine.Percentile(reference.Male, reference.Weight, 24, 13.2)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := engine.Percentile(reference.Male, reference.Weight, 24, 13.2)
		if err != nil {
			t.Fatalf("Percentile: %v", err)
		}
		if got != first {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestPercentile_MonotonicInValue(t *testing.T) {
	engine := New(testTable(t))
	cases := []struct {
		sex  reference.Sex
		m    reference.Measurement
		age  int
		lo   float64
		hi   float64
		step float64
	}{
		{reference.Male, reference.Height, 24, 70, 105, 0.5},
		{reference.Male, reference.Weight, 24, 8, 20, 0.25},
		{reference.Female, reference.Height, 36, 5, 20, 0.25},
	}
	for _, tc := range cases {
		prevZ := math.Inf(-1)
		for v := tc.lo; v <= tc.hi; v += tc.step {
			z, err := engine.ZScore(tc.sex, tc.m, tc.age, v)
			if err != nil {
				t.Fatalf("ZScore(%v): %v", v, err)
			}
			if z <= prevZ {
				t.Fatalf("%s/%s: z-score not increasing at value %v", tc.sex, tc.m, v)
			}
			prevZ = z
		}
	}
}

func TestPercentile_RangeInvariant(t *testing.T) {
	engine := New(testTable(t))
	// Extreme values must clamp, never escape [0,100] or go NaN.
	for _, v := range []float64{0.001, 1, 50, 87, 200, 1e6} {
		got, err := engine.Percentile(reference.Male, reference.Height, 24, v)
		if err != nil {
			t.Fatalf("Percentile(%v): %v", v, err)
		}
		if got < 0 || got > 100 || math.IsNaN(got) {
			t.Errorf("Percentile(%v) = %v, outside [0,100]", v, got)
		}
	}
}

func TestZScore_LogBranchWhenLIsZero(t *testing.T) {
	engine := New(testTable(t))
	// Row (L=0, M=10, S=0.1) must use ln(value/M)/S exactly.
	for _, value := range []float64{5, 9.5, 10, 10.5, 20} {
		got, err := engine.ZScore(reference.Female, reference.Height, 36, value)
		if err != nil {
			t.Fatalf("ZScore(%v): %v", value, err)
		}
		want := math.Log(value/10.0) / 0.1
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("ZScore(%v) = %v, want log branch result %v", value, got, want)
		}
	}
}

func TestZScore_PowerBranch(t *testing.T) {
	engine := New(testTable(t))
	// L=-0.5, M=12.5, S=0.09.
	value := 14.0
	got, err := engine.ZScore(reference.Male, reference.Weight, 24, value)
	if err != nil {
		t.Fatalf("ZScore: %v", err)
	}
	want := (math.Pow(value/12.5, -0.5) - 1) / (-0.5 * 0.09)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ZScore = %v, want %v", got, want)
	}
}

func TestPercentile_MissingRow(t *testing.T) {
	engine := New(testTable(t))
	_, err := engine.Percentile(reference.Male, reference.Height, 300, 87.0)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if notFound.AgeMonths != 300 || notFound.Measurement != reference.Height {
		t.Errorf("NotFoundError = %+v, want age 300 / height", notFound)
	}
}

func TestPercentile_InvalidInputs(t *testing.T) {
	engine := New(testTable(t))
	tests := []struct {
		name  string
		age   int
		value float64
	}{
		{"zero value", 24, 0},
		{"negative value", 24, -5},
		{"NaN value", 24, math.NaN()},
		{"infinite value", 24, math.Inf(1)},
		{"negative age", -3, 87},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Percentile(reference.Male, reference.Height, tt.age, tt.value)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("err = %v, want *InvalidInputError", err)
			}
		})
	}
}

func TestPercentile_RoundedToTwoDecimals(t *testing.T) {
	engine := New(testTable(t))
	got, err := engine.Percentile(reference.Male, reference.Height, 24, 91.3)
	if err != nil {
		t.Fatalf("Percentile: %v", err)
	}
	if scaled := got * 100; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Errorf("percentile %v not rounded to two decimals", got)
	}
}

func TestValueAtPercentile_InvertsPercentile(t *testing.T) {
	engine := New(testTable(t))
	cases := []struct {
		sex reference.Sex
		m   reference.Measurement
		age int
	}{
		{reference.Male, reference.Height, 24},
		{reference.Male, reference.Weight, 24},
		{reference.Female, reference.Height, 36},
	}
	for _, tc := range cases {
		for _, p := range []float64{3, 25, 50, 75, 97} {
			v, err := engine.ValueAtPercentile(tc.sex, tc.m, tc.age, p)
			if err != nil {
				t.Fatalf("ValueAtPercentile(%v): %v", p, err)
			}
			back, err := engine.Percentile(tc.sex, tc.m, tc.age, v)
			if err != nil {
				t.Fatalf("Percentile(%v): %v", v, err)
			}
			if math.Abs(back-p) > 0.01 {
				t.Errorf("%s/%s P%v: round trip gave %v", tc.sex, tc.m, p, back)
			}
		}
	}
}

func TestValueAtPercentile_RejectsBounds(t *testing.T) {
	engine := New(testTable(t))
	for _, p := range []float64{0, 100, -1, 150} {
		_, err := engine.ValueAtPercentile(reference.Male, reference.Height, 24, p)
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("ValueAtPercentile(%v): err = %v, want *InvalidInputError", p, err)
		}
	}
}
