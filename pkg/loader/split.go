package loader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"heartprep/pkg/data"
)

// ErrInvalidFraction is returned for a test fraction outside (0, 1).
var ErrInvalidFraction = errors.New("test fraction must be in (0, 1)")

// Permutation returns a reproducible permutation of [0, n) for seed.
func Permutation(n int, seed int64) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// Shuffle returns a copy of t with its rows reordered by Permutation.
// The same seed over the same row order always gives the same result.
func Shuffle(t *data.Table, seed int64) *data.Table {
	out := data.NewTable(t.Header)
	out.Rows = make([][]any, len(t.Rows))
	for i, idx := range Permutation(len(t.Rows), seed) {
		row := make([]any, len(t.Rows[idx]))
		copy(row, t.Rows[idx])
		out.Rows[i] = row
	}
	return out
}

// Split holds aligned feature and target vectors for both partitions.
// Row i of XTrain belongs with row i of YTrain, likewise for test.
type Split struct {
	Features []string
	Target   string

	XTrain, XTest [][]float64
	YTrain, YTest [][]float64
}

// TestSize returns round(testFraction * n).
func TestSize(n int, testFraction float64) int {
	return int(math.Round(testFraction * float64(n)))
}

// TrainTestSplit separates target from the remaining columns and partitions
// the rows: the first TestSize rows form the test set, the rest the training
// set. Rows are taken in their current order, so shuffle first. Every cell
// must be numeric.
func TrainTestSplit(t *data.Table, target string, testFraction float64) (*Split, error) {
	if !(testFraction > 0 && testFraction < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFraction, testFraction)
	}
	ti := t.Index(target)
	if ti < 0 {
		return nil, fmt.Errorf("target: %w: %q", data.ErrMissingColumn, target)
	}

	s := &Split{Target: target}
	for j, h := range t.Header {
		if j != ti {
			s.Features = append(s.Features, h)
		}
	}

	nTest := TestSize(t.Len(), testFraction)
	for i, row := range t.Rows {
		x := make([]float64, 0, len(row)-1)
		var y float64
		for j, v := range row {
			f, ok := data.AsFloat(v)
			if !ok {
				return nil, fmt.Errorf("%w: column %q row %d value %v", data.ErrNotNumeric, t.Header[j], i, v)
			}
			if j == ti {
				y = f
			} else {
				x = append(x, f)
			}
		}
		if i < nTest {
			s.XTest = append(s.XTest, x)
			s.YTest = append(s.YTest, []float64{y})
		} else {
			s.XTrain = append(s.XTrain, x)
			s.YTrain = append(s.YTrain, []float64{y})
		}
	}
	return s, nil
}
