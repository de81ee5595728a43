package stats

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotFitted     = errors.New("scaler is not fitted")
	ErrEmptyInput    = errors.New("no rows to fit")
	ErrWidthMismatch = errors.New("column count differs from fitted data")
	ErrBadInterval   = errors.New("scale interval must satisfy lo < hi")
)

// MinMaxScaler maps each column linearly onto [Lo, Hi] using the column
// minimum and maximum seen by Fit. Transform always reuses those fitted
// statistics, so fit on training rows only and apply the same scaler to
// held-out rows. A column whose fitted min equals its max maps to the
// midpoint of [Lo, Hi].
type MinMaxScaler struct {
	Lo, Hi float64
	// Clip bounds transformed values to [Lo, Hi]; values from unseen
	// data may otherwise fall outside.
	Clip bool

	Min []float64
	Max []float64
	fit bool
}

// NewMinMaxScaler returns an unfitted scaler for [lo, hi].
func NewMinMaxScaler(lo, hi float64) *MinMaxScaler {
	return &MinMaxScaler{Lo: lo, Hi: hi}
}

// Fitted reports whether Fit has succeeded.
func (s *MinMaxScaler) Fitted() bool { return s.fit }

// Fit records the per-column minimum and maximum of X.
func (s *MinMaxScaler) Fit(X [][]float64) error {
	if !(s.Lo < s.Hi) {
		return fmt.Errorf("%w: [%v, %v]", ErrBadInterval, s.Lo, s.Hi)
	}
	if len(X) == 0 {
		return ErrEmptyInput
	}
	c := len(X[0])
	for i, row := range X {
		if len(row) != c {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrWidthMismatch, i, len(row), c)
		}
	}
	s.Min = make([]float64, c)
	s.Max = make([]float64, c)
	for j := 0; j < c; j++ {
		s.Min[j], s.Max[j] = MinMax(Column(X, j))
	}
	s.fit = true
	return nil
}

// Transform scales X with the fitted statistics. X is not modified.
func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.fit {
		return nil, ErrNotFitted
	}
	mid := Midpoint(s.Lo, s.Hi)
	width := s.Hi - s.Lo
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Min) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrWidthMismatch, i, len(row), len(s.Min))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			rng := s.Max[j] - s.Min[j]
			if rng == 0 {
				scaled[j] = mid
				continue
			}
			y := s.Lo + (v-s.Min[j])*width/rng
			// values inside the fitted range stay inside [Lo, Hi] despite rounding
			if s.Clip || (v >= s.Min[j] && v <= s.Max[j]) {
				y = math.Max(s.Lo, math.Min(s.Hi, y))
			}
			scaled[j] = y
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on X and returns X scaled.
func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
