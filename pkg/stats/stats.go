package stats

import (
	"gonum.org/v1/gonum/floats"
)

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Column copies column j out of a row-major matrix.
func Column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i, row := range X {
		col[i] = row[j]
	}
	return col
}

// Midpoint returns the center of [lo, hi].
func Midpoint(lo, hi float64) float64 {
	return lo + (hi-lo)/2
}
