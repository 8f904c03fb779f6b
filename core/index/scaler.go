package index

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes feature vectors to zero mean and unit variance
// per dimension. It is fit once against the whole reference corpus and reused
// for every query, so all queries live in the same normalized space.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// FitStandardScaler computes per-dimension mean and population standard
// deviation over the given feature matrix. Dimensions with zero variance get
// scale 1 so they map to zero instead of dividing by zero.
func FitStandardScaler(features [][]float64) (*StandardScaler, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty feature matrix")
	}
	dim := len(features[0])

	column := make([]float64, len(features))
	scaler := &StandardScaler{
		mean:  make([]float64, dim),
		scale: make([]float64, dim),
	}
	for d := 0; d < dim; d++ {
		for i, row := range features {
			if len(row) != dim {
				return nil, fmt.Errorf("feature row %d has dimension %d, want %d", i, len(row), dim)
			}
			column[i] = row[d]
		}
		mean := stat.Mean(column, nil)

		var variance float64
		for _, v := range column {
			diff := v - mean
			variance += diff * diff
		}
		variance /= float64(len(column))

		scaler.mean[d] = mean
		if variance > 0 {
			scaler.scale[d] = math.Sqrt(variance)
		} else {
			scaler.scale[d] = 1
		}
	}
	return scaler, nil
}

// NewStandardScaler rebuilds a scaler from previously fitted statistics, for
// example ones persisted alongside a stored corpus.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("scaler statistics are empty")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("mean has dimension %d, scale has %d", len(mean), len(scale))
	}
	for d, v := range scale {
		if v <= 0 {
			return nil, fmt.Errorf("scale dimension %d is not positive: %g", d, v)
		}
	}
	return &StandardScaler{mean: mean, scale: scale}, nil
}

// Dimension returns the vector length the scaler was fit on.
func (s *StandardScaler) Dimension() int { return len(s.mean) }

// Mean returns a copy of the per-dimension means.
func (s *StandardScaler) Mean() []float64 {
	mean := make([]float64, len(s.mean))
	copy(mean, s.mean)
	return mean
}

// Scale returns a copy of the per-dimension scales.
func (s *StandardScaler) Scale() []float64 {
	scale := make([]float64, len(s.scale))
	copy(scale, s.scale)
	return scale
}

// Transform standardizes a single vector with the fitted statistics.
func (s *StandardScaler) Transform(v []float64) ([]float64, error) {
	if len(v) != len(s.mean) {
		return nil, fmt.Errorf("vector has dimension %d, scaler was fit on %d", len(v), len(s.mean))
	}
	out := make([]float64, len(v))
	for d, value := range v {
		out[d] = (value - s.mean[d]) / s.scale[d]
	}
	return out, nil
}

// InverseTransform maps a standardized vector back to raw feature space.
func (s *StandardScaler) InverseTransform(v []float64) ([]float64, error) {
	if len(v) != len(s.mean) {
		return nil, fmt.Errorf("vector has dimension %d, scaler was fit on %d", len(v), len(s.mean))
	}
	out := make([]float64, len(v))
	for d, value := range v {
		out[d] = value*s.scale[d] + s.mean[d]
	}
	return out, nil
}
