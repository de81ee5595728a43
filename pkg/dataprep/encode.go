package dataprep

import (
	"fmt"
	"sort"

	"heartprep/pkg/data"
)

// OrdinalMap is a fixed category to code lookup.
type OrdinalMap map[string]float64

// Codomain returns the distinct codes in ascending order.
func (m OrdinalMap) Codomain() []float64 {
	seen := make(map[float64]struct{}, len(m))
	out := make([]float64, 0, len(m))
	for _, v := range m {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// EncodeOrdinal replaces every value of column with its code.
// A value missing from codes fails with data.ErrUnknownCategory.
func EncodeOrdinal(t *data.Table, column string, codes OrdinalMap) (*data.Table, error) {
	j := t.Index(column)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", data.ErrMissingColumn, column)
	}
	out := t.Clone()
	for i, row := range out.Rows {
		key := data.FormatCell(row[j])
		code, ok := codes[key]
		if !ok {
			return nil, fmt.Errorf("%w: column %q row %d value %q", data.ErrUnknownCategory, column, i, key)
		}
		row[j] = code
	}
	return out, nil
}

// EncodeOneHot replaces column with one 0/1 indicator column per category,
// inserted where column was. Indicators are named by the category value.
// With no declared categories the set is every distinct value observed,
// sorted; otherwise it is the sorted declared set and any other value fails
// with data.ErrUnknownCategory. A declared set overrides the observed one,
// so a declared category absent from the data still gets an all-zero
// column. Empty cells always fail.
// It returns the new table and the generated column names.
func EncodeOneHot(t *data.Table, column string, categories []string) (*data.Table, []string, error) {
	j := t.Index(column)
	if j < 0 {
		return nil, nil, fmt.Errorf("%w: %q", data.ErrMissingColumn, column)
	}

	keys := make([]string, t.Len())
	for i, row := range t.Rows {
		keys[i] = data.FormatCell(row[j])
		if keys[i] == "" {
			return nil, nil, fmt.Errorf("%w: column %q row %d is empty", data.ErrUnknownCategory, column, i)
		}
	}

	var names []string
	if len(categories) > 0 {
		names = uniqueSorted(categories)
	} else {
		names = uniqueSorted(keys)
	}
	unique := make(map[string]int, len(names))
	for k, name := range names {
		unique[name] = k
	}
	for i, key := range keys {
		if _, ok := unique[key]; !ok {
			return nil, nil, fmt.Errorf("%w: column %q row %d value %q", data.ErrUnknownCategory, column, i, key)
		}
	}

	header := make([]string, 0, len(t.Header)-1+len(names))
	header = append(header, t.Header[:j]...)
	header = append(header, names...)
	header = append(header, t.Header[j+1:]...)
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, ok := seen[h]; ok {
			return nil, nil, fmt.Errorf("%w: %q generated from column %q", data.ErrDuplicateColumn, h, column)
		}
		seen[h] = struct{}{}
	}

	out := data.NewTable(header)
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, 0, len(header))
		r = append(r, row[:j]...)
		vec := make([]any, len(names))
		for k := range vec {
			vec[k] = 0.0
		}
		vec[unique[keys[i]]] = 1.0
		r = append(r, vec...)
		r = append(r, row[j+1:]...)
		out.Rows[i] = r
	}
	return out, names, nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
