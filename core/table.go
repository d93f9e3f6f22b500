package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Table is an ordered set of rows over a fixed, ordered set of named columns.
// Every cell is a string; the empty string marks a missing value.
//
// Table is not safe for concurrent mutation. Passes that fan work out to
// goroutines write to disjoint cells only.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable creates a table from a header and rows.
// Rows shorter than the header are padded with missing values; longer rows are rejected.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		index[name] = i
	}

	copied := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrInvalidTable, i, len(row), len(columns))
		}
		r := make([]string, len(columns))
		copy(r, row)
		copied[i] = r
	}

	return &Table{
		columns: slices.Clone(columns),
		index:   index,
		rows:    copied,
	}, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if !t.HasColumn(name) {
			return false
		}
	}
	return true
}

// Get returns the value of a cell. ok is false if the column is absent
// or the row is out of range.
func (t *Table) Get(row int, column string) (value string, ok bool) {
	i, found := t.index[column]
	if !found || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return t.rows[row][i], true
}

// Set replaces the value of a cell.
func (t *Table) Set(row int, column, value string) error {
	i, found := t.index[column]
	if !found {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	t.rows[row][i] = value
	return nil
}

// Float parses a cell as a float64.
func (t *Table) Float(row int, column string) (float64, error) {
	v, ok := t.Get(row, column)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// Int parses a cell as an int. Values written as floats ("3.0") are accepted.
func (t *Table) Int(row int, column string) (int, error) {
	v, ok := t.Get(row, column)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i, found := t.index[name]
	if !found {
		return nil, false
	}
	values := make([]string, len(t.rows))
	for r, row := range t.rows {
		values[r] = row[i]
	}
	return values, true
}

// SetColumn replaces the values of a column, appending the column if it is absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("%w: %q has %d values, table has %d rows",
			ErrLengthMismatch, name, len(values), len(t.rows))
	}
	i, found := t.index[name]
	if !found {
		i = len(t.columns)
		t.columns = append(t.columns, name)
		t.index[name] = i
		for r := range t.rows {
			t.rows[r] = append(t.rows[r], "")
		}
	}
	for r, v := range values {
		t.rows[r][i] = v
	}
	return nil
}

// DropColumns removes the named columns. Absent names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if t.HasColumn(name) {
			drop[name] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := make([]int, 0, len(t.columns))
	columns := make([]string, 0, len(t.columns))
	for i, name := range t.columns {
		if !drop[name] {
			keep = append(keep, i)
			columns = append(columns, name)
		}
	}
	for r, row := range t.rows {
		next := make([]string, len(keep))
		for j, i := range keep {
			next[j] = row[i]
		}
		t.rows[r] = next
	}
	t.columns = columns
	t.reindex()
}

// IsColumnBlank reports whether the column is absent or every value is blank.
func (t *Table) IsColumnBlank(name string) bool {
	i, found := t.index[name]
	if !found {
		return true
	}
	for _, row := range t.rows {
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = slices.Clone(row)
	}
	c := &Table{
		columns: slices.Clone(t.columns),
		rows:    rows,
	}
	c.reindex()
	return c
}

// Reorder returns a copy of the table with the preferred columns first, in the
// given order, followed by every other column in its original relative order.
// Preferred names the table lacks are skipped.
func (t *Table) Reorder(preferred []string) *Table {
	order := make([]string, 0, len(t.columns))
	seen := make(map[string]bool, len(t.columns))
	for _, name := range preferred {
		if t.HasColumn(name) && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	for _, name := range t.columns {
		if !seen[name] {
			order = append(order, name)
		}
	}

	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		next := make([]string, len(order))
		for j, name := range order {
			next[j] = row[t.index[name]]
		}
		rows[r] = next
	}
	c := &Table{columns: order, rows: rows}
	c.reindex()
	return c
}

// Records returns the header followed by every row, suitable for a CSV writer.
// The returned slices are copies.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, slices.Clone(t.columns))
	for _, row := range t.rows {
		records = append(records, slices.Clone(row))
	}
	return records
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, name := range t.columns {
		t.index[name] = i
	}
}
