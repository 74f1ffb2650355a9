package state

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmptyDataset is returned when a dataset has no rows or no columns.
	ErrEmptyDataset = errors.New("dataset has no rows or no columns")

	// ErrRaggedDataset is returned when row lengths do not match the header count.
	ErrRaggedDataset = errors.New("dataset rows have inconsistent lengths")
)

// Dataset is an in-memory snapshot of tabular data: named columns over
// string-encoded cell values. It is treated as immutable for the duration
// of a profiling/analysis cycle.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	return len(d.Headers)
}

// Validate checks structural integrity. Zero rows or columns and ragged
// rows are the only fatal dataset conditions.
func (d *Dataset) Validate() error {
	if len(d.Headers) == 0 || len(d.Rows) == 0 {
		return ErrEmptyDataset
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d values, expected %d: %w", i, len(row), len(d.Headers), ErrRaggedDataset)
		}
	}
	return nil
}

// Column returns the values of the column at idx in row order.
func (d *Dataset) Column(idx int) []string {
	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// ColumnIndex returns the index of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// IsMissing reports whether a cell value counts as missing.
func IsMissing(value string) bool {
	return value == "" || value == "null" || value == "NULL" || value == "None"
}

// AppState holds the datasets registered with the server, keyed by ID.
type AppState struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewAppState creates an empty registry.
func NewAppState() *AppState {
	return &AppState{datasets: make(map[string]*Dataset)}
}

// AddDataset registers a dataset under the given ID.
func (s *AppState) AddDataset(id string, ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[id] = ds
}

// GetDataset retrieves a dataset by ID, or nil.
func (s *AppState) GetDataset(id string) *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasets[id]
}

// RemoveDataset deletes a dataset from the registry.
func (s *AppState) RemoveDataset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, id)
}

// ListDatasets returns the registered IDs mapped to dataset names.
func (s *AppState) ListDatasets() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.datasets))
	for id, ds := range s.datasets {
		out[id] = ds.Name
	}
	return out
}
