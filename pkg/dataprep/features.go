package dataprep

import (
	"fmt"

	"heartprep/pkg/data"
)

// Select returns a table holding exactly the named columns, in the order
// given. Row order and values are preserved. A column absent from t fails
// with data.ErrMissingColumn naming it.
func Select(t *data.Table, columns []string) (*data.Table, error) {
	indices := make([]int, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for k, name := range columns {
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q selected twice", data.ErrDuplicateColumn, name)
		}
		seen[name] = struct{}{}
		indices[k] = t.Index(name)
		if indices[k] < 0 {
			return nil, fmt.Errorf("select: %w: %q", data.ErrMissingColumn, name)
		}
	}

	out := data.NewTable(columns)
	out.Rows = make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		selected := make([]any, len(indices))
		for k, idx := range indices {
			selected[k] = row[idx]
		}
		out.Rows[i] = selected
	}
	return out, nil
}
