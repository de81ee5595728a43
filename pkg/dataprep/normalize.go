package dataprep

import (
	"math"
	"strconv"

	"heartprep/pkg/data"
)

// Normalize converts every column to float64 cells. A column converts only
// when all of its cells do; otherwise it keeps its original cells and its
// name is returned in failed. Normalization never aborts.
func Normalize(t *data.Table) (out *data.Table, failed []string) {
	out = t.Clone()
	col := make([]float64, len(out.Rows))
	for j, name := range out.Header {
		ok := true
		for i, row := range out.Rows {
			v, good := toFloat(row[j])
			if !good {
				ok = false
				break
			}
			col[i] = v
		}
		if !ok {
			failed = append(failed, name)
			continue
		}
		for i, row := range out.Rows {
			row[j] = col[i]
		}
	}
	return out, failed
}

func toFloat(v any) (float64, bool) {
	if f, ok := data.AsFloat(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
