package dataset

import (
	"fmt"
	"strings"

	"rdfpipe/internal/logger"
)

// Cell rewrites applied by the cleaner.
const (
	rawUnitPlaceholder = "-"
	dimensionlessUnit  = "Dimensionless"
	qualityPrefix      = "Qualità della misura: "
	currentPrefix      = "Current"
)

// Columns names the dataset columns the cleaner operates on.
type Columns struct {
	Timestamp string
	Unit      string
	Quality   string
	Register  string
	Property  string
}

// DefaultColumns returns the column names of the sensor export format.
func DefaultColumns() Columns {
	return Columns{
		Timestamp: "data_rilevazione",
		Unit:      "unit",
		Quality:   "quality",
		Register:  "register_name",
		Property:  "property",
	}
}

// Cleaner applies the sensor export cleaning rules to a dataset.
type Cleaner struct {
	columns Columns
	logger  *logger.Logger
}

// NewCleaner creates a cleaner for the given column layout.
func NewCleaner(columns Columns, log *logger.Logger) *Cleaner {
	return &Cleaner{
		columns: columns,
		logger:  log,
	}
}

// Clean reads the input CSV, applies the cleaning rules and writes the
// result. Returns the number of rows written.
func (c *Cleaner) Clean(inputPath, outputPath string) (int, error) {
	table, err := ReadTable(inputPath)
	if err != nil {
		return 0, err
	}

	if err := c.CleanTable(table); err != nil {
		return 0, err
	}

	if err := table.WriteTable(outputPath); err != nil {
		return 0, err
	}

	c.logger.Info(fmt.Sprintf("Cleaned %d rows: %s -> %s", len(table.Rows), inputPath, outputPath))

	return len(table.Rows), nil
}

// CleanTable rewrites the table in place:
//   - the timestamp column is rendered as ISO 8601; any malformed value
//     fails the whole operation
//   - a unit cell holding exactly "-" becomes "Dimensionless"
//   - the quality prefix text is removed wherever it occurs
//   - the property column is derived from the register column with digits
//     stripped, and any value starting with "Current" collapses to "Current"
//
// Row count and order are preserved. An existing property column is
// overwritten, so cleaning an already cleaned table is a no-op for it.
func (c *Cleaner) CleanTable(table *Table) error {
	tsIdx, err := table.ColumnIndex(c.columns.Timestamp)
	if err != nil {
		return err
	}

	unitIdx, err := table.ColumnIndex(c.columns.Unit)
	if err != nil {
		return err
	}

	qualityIdx, err := table.ColumnIndex(c.columns.Quality)
	if err != nil {
		return err
	}

	registerIdx, err := table.ColumnIndex(c.columns.Register)
	if err != nil {
		return err
	}

	propertyIdx := table.EnsureColumn(c.columns.Property)

	for i, row := range table.Rows {
		iso, err := ToISO8601(row[tsIdx])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row[tsIdx] = iso

		if row[unitIdx] == rawUnitPlaceholder {
			row[unitIdx] = dimensionlessUnit
		}

		row[qualityIdx] = strings.ReplaceAll(row[qualityIdx], qualityPrefix, "")

		property := StripDigits(row[registerIdx])
		if strings.HasPrefix(property, currentPrefix) {
			property = currentPrefix
		}
		row[propertyIdx] = property
	}

	return nil
}
