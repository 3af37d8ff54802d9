package dbscan

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointSet(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	ps, err := NewPointSet(rows)
	require.NoError(t, err)

	assert.Equal(t, 3, ps.Len())
	assert.Equal(t, 2, ps.Dims())
	assert.Equal(t, []float64{3, 4}, ps.Point(1))
	assert.Equal(t, rows, ps.Rows())
}

func TestNewPointSet_CopiesInput(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}}
	ps, err := NewPointSet(rows)
	require.NoError(t, err)

	rows[0][0] = 100
	assert.Equal(t, 1.0, ps.Point(0)[0], "point set must not alias caller rows")

	out := ps.Rows()
	out[1][1] = -1
	assert.Equal(t, 4.0, ps.Point(1)[1], "Rows must return a deep copy")
}

func TestNewPointSet_PointViewCannotGrowIntoNeighbor(t *testing.T) {
	ps, err := NewPointSet([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	p := ps.Point(0)
	assert.Equal(t, 2, cap(p))
	_ = append(p, 99)
	assert.Equal(t, []float64{3, 4}, ps.Point(1))
}

func TestNewPointSet_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"nil", nil, ErrEmptyInput},
		{"empty", [][]float64{}, ErrEmptyInput},
		{"no features", [][]float64{{}, {}}, ErrEmptyInput},
		{"ragged", [][]float64{{1, 2}, {3}}, ErrDimensionMismatch},
		{"NaN", [][]float64{{1, math.NaN()}}, ErrInvalidParameter},
		{"Inf", [][]float64{{math.Inf(-1), 0}}, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := NewPointSet(tt.rows)
			assert.Nil(t, ps)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewPointSet_DimensionMismatchDetails(t *testing.T) {
	_, err := NewPointSet([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8}})

	var dm *DimensionMismatchError
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Index)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
	assert.Contains(t, err.Error(), "point 2")
}
