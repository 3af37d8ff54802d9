package dbscan

import "math"

// DistanceMetric computes the dissimilarity between two feature vectors of
// equal length. Implementations must be symmetric and return 0 for identical
// vectors. Distance is called on the hot path and does not check lengths;
// use the package-level Distance helper for checked evaluation.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric. Custom
// functions are only ever served by the brute-force index, since nothing is
// known about their geometry.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// Distance evaluates m on a and b after checking that both vectors have the
// same length. It returns a *DimensionMismatchError otherwise.
func Distance(m DistanceMetric, a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Index: -1, Expected: len(a), Actual: len(b)}
	}
	if m == nil {
		m = EuclideanMetric{}
	}
	return m.Distance(a, b), nil
}

// EuclideanMetric computes the Euclidean (L2) distance. It is the default.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return math.Sqrt(euclideanSumOfSquares(a, b))
}

func euclideanSumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// It does not satisfy the triangle inequality, so only the brute-force
// index accepts it. Zero vectors are treated as orthogonal to everything
// except another zero vector.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		if normA == normB {
			return 0
		}
		return 1
	}
	d := 1.0 - dot/math.Sqrt(normA*normB)
	if d < 0 {
		return 0
	}
	return d
}

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	var maxVal float64
	for i := range a {
		if v := math.Abs(a[i] - b[i]); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1; Cluster and NewIndex reject smaller values.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return math.Pow(sum, 1.0/m.P)
}

// Validate reports whether P is a usable exponent.
func (m MinkowskiMetric) Validate() error {
	if !(m.P >= 1) || math.IsInf(m.P, 1) {
		return invalidParam("MinkowskiMetric.P must be a finite value >= 1, got %v", m.P)
	}
	return nil
}

// validateMetric checks metric-specific parameters.
func validateMetric(m DistanceMetric) error {
	if mk, ok := m.(MinkowskiMetric); ok {
		return mk.Validate()
	}
	return nil
}
