// Package dataset loads a tabular product file into an immutable in-memory table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultRowLimit is the number of data rows read when no limit is given.
const DefaultRowLimit = 2000

// ErrNoHeader is returned when the source has no header row.
var ErrNoHeader = errors.New("missing header row")

// naTokens are cell values treated as missing, in addition to the empty string.
var naTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "NA": true, "n/a": true,
	"NULL": true, "null": true, "None": true,
}

// Cell is a single value. Missing cells have OK == false.
type Cell struct {
	Value string
	OK    bool
}

// Row is one record, positionally aligned with Dataset.Columns.
type Row []Cell

// Dataset is a read-only table. Callers must not mutate it after Load.
type Dataset struct {
	Columns []string
	Rows    []Row
	index   map[string]int
}

// New builds a dataset from columns and raw records. Records shorter than the
// header are padded with missing cells; longer ones are truncated.
func New(columns []string, records [][]string) *Dataset {
	d := &Dataset{
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := d.index[c]; !dup {
			d.index[c] = i
		}
	}
	for _, rec := range records {
		row := make(Row, len(columns))
		for i := range columns {
			if i < len(rec) {
				row[i] = parseCell(rec[i])
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

func parseCell(s string) Cell {
	if s == "" || naTokens[s] {
		return Cell{}
	}
	return Cell{Value: s, OK: true}
}

// Value returns the cell of row under column col.
func (d *Dataset) Value(row Row, col string) (string, bool) {
	i, ok := d.index[col]
	if !ok || i >= len(row) {
		return "", false
	}
	c := row[i]
	return c.Value, c.OK
}

// HasColumn reports whether col is part of the schema.
func (d *Dataset) HasColumn(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Load reads the first limit data rows of the CSV file at path.
// A limit <= 0 means DefaultRowLimit.
func Load(path string, limit int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	d, err := Read(f, limit)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return d, nil
}

// Read parses CSV from r with a header row, keeping at most limit data rows.
func Read(r io.Reader, limit int) (*Dataset, error) {
	if limit <= 0 {
		limit = DefaultRowLimit
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var records [][]string
	for len(records) < limit {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	return New(header, records), nil
}
