package data

import (
	"fmt"
	"strconv"
)

// Table is an ordered set of rows sharing one header.
// Cells hold a raw string, an int64 or a float64.
type Table struct {
	Header []string
	Rows   [][]any
}

// NewTable allocates an empty table with a copy of header.
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Header: h}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]any, error) {
	j := t.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	col := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col, nil
}

// Floats returns the named column as float64 values.
// Every cell must already be numeric.
func (t *Table) Floats(name string) ([]float64, error) {
	j := t.Index(name)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, ok := AsFloat(row[j])
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d value %v", ErrNotNumeric, name, i, row[j])
		}
		out[i] = v
	}
	return out, nil
}

// Clone deep-copies the header and the row slices.
func (t *Table) Clone() *Table {
	c := NewTable(t.Header)
	c.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(row))
		copy(r, row)
		c.Rows[i] = r
	}
	return c
}

// Records renders the table as strings, header first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	h := make([]string, len(t.Header))
	copy(h, t.Header)
	out = append(out, h)
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = FormatCell(v)
		}
		out = append(out, rec)
	}
	return out
}

// AsFloat reports the numeric value of an already-typed cell.
// Strings are not parsed.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// FormatCell renders a cell the way it is written to CSV.
func FormatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
