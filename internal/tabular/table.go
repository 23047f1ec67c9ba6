// Package tabular reads raw spreadsheet exports and writes the intermediate CSV files.
package tabular

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-etl/internal/common"
)

// Table is a header row plus data rows. Header names are trimmed and lowercased so column
// lookups are insensitive to case and surrounding whitespace.
type Table struct {
	index  map[string]int
	Source string
	header []string
	rows   []Row
}

// Row is one data row of a Table.
type Row struct {
	table *Table
	cells []string
	// Line is the 1-based position in the source, counting the header as line 1.
	Line int
}

// NewTable builds a table from raw records whose first record is the header. Rows whose
// cells are all blank are skipped.
func NewTable(source string, records [][]string) *Table {
	t := &Table{Source: source, index: make(map[string]int)}
	if len(records) == 0 {
		return t
	}

	t.header = make([]string, len(records[0]))
	for i, h := range records[0] {
		name := normalizeHeader(h)
		t.header[i] = name
		if _, dup := t.index[name]; !dup && name != "" {
			t.index[name] = i
		}
	}

	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, Row{table: t, cells: rec, Line: i + 2})
	}
	return t
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Header returns the normalized column names in source order.
func (t *Table) Header() []string {
	return t.header
}

// Rows returns the data rows in source order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Column returns the position of a column by name.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[normalizeHeader(name)]
	return i, ok
}

// Require fails with common.ErrMissingColumn when any of names is not a column.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.Column(n); !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", t.Source, common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the raw cell in column col, or "" when the column or cell does not exist.
func (r Row) Get(col string) string {
	i, ok := r.table.Column(col)
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}
