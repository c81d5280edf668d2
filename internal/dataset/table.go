// Package dataset provides the tabular data model and the cleaning and
// splitting operations of the pipeline.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// Dataset errors.
var (
	ErrEmptyTable     = errors.New("dataset has no header row")
	ErrColumnNotFound = errors.New("column not found")
)

// Table holds an ordered header and the string-valued rows of a CSV file.
// Columns the pipeline does not touch pass through unchanged.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable loads a CSV file into a Table. The first record is the header.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteTable writes the table to a CSV file, header first.
func (t *Table) WriteTable(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)

	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	return nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// EnsureColumn returns the position of the named column, appending an empty
// one to the header and every row when it is absent.
func (t *Table) EnsureColumn(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}

	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}

	return len(t.Header) - 1
}
