package dbscan

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a point set has no points (or no features).
	ErrEmptyInput = errors.New("dbscan: empty input")

	// ErrInsufficientData is returned when there are too few points for the
	// requested neighbor count during epsilon estimation.
	ErrInsufficientData = errors.New("dbscan: insufficient data")

	// ErrInvalidParameter is returned for out-of-range parameters such as a
	// non-positive epsilon, minPts < 1 or k < 1.
	ErrInvalidParameter = errors.New("dbscan: invalid parameter")

	// ErrDimensionMismatch is matched by every *DimensionMismatchError.
	ErrDimensionMismatch = errors.New("dbscan: dimension mismatch")
)

// DimensionMismatchError reports a feature vector whose length differs from
// the expected dimensionality. Index is the offending row, or -1 when the
// mismatch is between two free-standing vectors.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("dbscan: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("dbscan: dimension mismatch at point %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// Is lets errors.Is(err, ErrDimensionMismatch) match.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}
