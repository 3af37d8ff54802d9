package dbscan

import (
	"fmt"
	"math"
)

// PointSet is an immutable set of n points of equal dimensionality. Points
// are identified by their zero-based position in the input. Coordinates are
// stored flat in row-major order.
type PointSet struct {
	data []float64
	n    int
	dims int
}

// NewPointSet copies rows into a new PointSet. Every row must have the same
// non-zero length as rows[0] and contain only finite values.
func NewPointSet(rows [][]float64) (*PointSet, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	dims := len(rows[0])
	if dims == 0 {
		return nil, fmt.Errorf("%w: points have no features", ErrEmptyInput)
	}

	data := make([]float64, n*dims)
	for i, row := range rows {
		if len(row) != dims {
			return nil, &DimensionMismatchError{Index: i, Expected: dims, Actual: len(row)}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, invalidParam("point %d feature %d is not finite (%v)", i, j, v)
			}
		}
		copy(data[i*dims:], row)
	}

	return &PointSet{data: data, n: n, dims: dims}, nil
}

// Len returns the number of points.
func (p *PointSet) Len() int { return p.n }

// Dims returns the dimensionality shared by all points.
func (p *PointSet) Dims() int { return p.dims }

// Point returns a read-only view of point i. Callers must not modify it.
func (p *PointSet) Point(i int) []float64 {
	return p.data[i*p.dims : (i+1)*p.dims : (i+1)*p.dims]
}

// Rows returns a deep copy of the points as a slice of rows.
func (p *PointSet) Rows() [][]float64 {
	rows := make([][]float64, p.n)
	for i := range rows {
		rows[i] = append([]float64(nil), p.Point(i)...)
	}
	return rows
}
