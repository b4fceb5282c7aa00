package reference

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDataset_WriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth-reference.json")
	if err := WriteDataset(path, sampleRows()); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	table, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if table.Len() != len(sampleRows()) {
		t.Errorf("Len = %d, want %d", table.Len(), len(sampleRows()))
	}
	p, ok := table.Lookup(Male, Height, 24)
	if !ok || p.M != 87.1 {
		t.Errorf("Lookup after reload = (%+v, %v)", p, ok)
	}
}

func TestLoadDataset_RejectsTamperedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth-reference.json")
	if err := WriteDataset(path, sampleRows()); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "87.1", "99.9", 1)
	if tampered == string(data) {
		t.Fatal("tamper target not found in dataset file")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = LoadDataset(path)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("err = %v, want checksum mismatch", err)
	}
}

func TestLoadDataset_RejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth-reference.json")
	if err := WriteDataset(path, sampleRows()); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		t.Fatal(err)
	}
	ds.Version = 99
	out, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = LoadDataset(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported version") {
		t.Errorf("err = %v, want unsupported version", err)
	}
}

func TestLoadDataset_MissingAndMalformedFiles(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDataset(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestChecksum_IndentationInsensitive(t *testing.T) {
	compact := []byte(`[{"a":1},{"b":2}]`)
	indented := []byte("[\n  {\"a\": 1},\n  {\"b\": 2}\n]")

	sumA, err := checksum(compact)
	if err != nil {
		t.Fatal(err)
	}
	sumB, err := checksum(indented)
	if err != nil {
		t.Fatal(err)
	}
	if sumA != sumB {
		t.Errorf("checksums differ across formatting: %s vs %s", sumA, sumB)
	}
}
