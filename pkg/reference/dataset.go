package reference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// datasetVersion is bumped whenever the on-disk layout changes.
const datasetVersion = 1

// dataset is the on-disk envelope: the rows payload plus an integrity
// checksum so a truncated or hand-edited file is rejected at load time
// instead of serving wrong percentiles.
type dataset struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Rows     json.RawMessage `json:"rows"`
}

// checksum hashes the compact JSON encoding of the rows payload, so the
// value is stable regardless of how the envelope was indented.
func checksum(payload []byte) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(compact.Bytes())), nil
}

// WriteDataset marshals rows into a dataset file at path.
func WriteDataset(path string, rows []Row) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	sum, err := checksum(payload)
	if err != nil {
		return fmt.Errorf("checksum rows: %w", err)
	}
	out, err := json.MarshalIndent(dataset{
		Version:  datasetVersion,
		Checksum: sum,
		Rows:     payload,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return os.WriteFile(path, append(out, '\n'), 0o644)
}

// LoadDataset reads a dataset file, verifies its checksum, and publishes the
// rows as an immutable Table. Any failure here is fatal for the caller: a
// process must not serve queries from a partially loaded table.
func LoadDataset(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	if ds.Version != datasetVersion {
		return nil, fmt.Errorf("dataset %s: unsupported version %d (want %d)", path, ds.Version, datasetVersion)
	}
	got, err := checksum(ds.Rows)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	if got != ds.Checksum {
		return nil, fmt.Errorf("dataset %s: checksum mismatch (file %s, computed %s)", path, ds.Checksum, got)
	}
	var rows []Row
	if err := json.Unmarshal(ds.Rows, &rows); err != nil {
		return nil, fmt.Errorf("decode rows in %s: %w", path, err)
	}
	table, err := NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return table, nil
}
