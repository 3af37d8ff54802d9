package dbscan

import (
	"errors"
	"math"
	"testing"
)

// --- EuclideanMetric tests ---

func TestEuclideanDistance_IdenticalVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanDistance_UnitVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	// sqrt((1-0)^2 + (0-1)^2 + (0-0)^2) = sqrt(2)
	if d := m.Distance(a, b); !almostEqual(d, math.Sqrt(2), floatTol) {
		t.Errorf("expected %v, got %v", math.Sqrt(2), d)
	}
}

func TestEuclideanDistance_HandComputed(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt(9+16+0) = 5
	if d := m.Distance(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestEuclideanDistance_Symmetric(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{0.3, -1.7, 2.2}
	b := []float64{-4.1, 0.9, 7.5}
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Errorf("Distance(a,b)=%v != Distance(b,a)=%v", m.Distance(a, b), m.Distance(b, a))
	}
}

// --- ManhattanMetric tests ---

func TestManhattanDistance_HandComputed(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// |4-1| + |6-2| + |3-3| = 7
	if d := m.Distance(a, b); !almostEqual(d, 7.0, floatTol) {
		t.Errorf("expected 7.0, got %v", d)
	}
}

// --- ChebyshevMetric tests ---

func TestChebyshevDistance_HandComputed(t *testing.T) {
	m := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// max(3, 4, 0) = 4
	if d := m.Distance(a, b); d != 4 {
		t.Errorf("expected 4, got %v", d)
	}
}

// --- MinkowskiMetric tests ---

func TestMinkowskiDistance_P2MatchesEuclidean(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	got := MinkowskiMetric{P: 2}.Distance(a, b)
	want := EuclideanMetric{}.Distance(a, b)
	if !almostEqual(got, want, floatTol) {
		t.Errorf("Minkowski(P=2) = %v, Euclidean = %v", got, want)
	}
}

func TestMinkowskiDistance_P1MatchesManhattan(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	got := MinkowskiMetric{P: 1}.Distance(a, b)
	if !almostEqual(got, 7, floatTol) {
		t.Errorf("Minkowski(P=1) = %v, want 7", got)
	}
}

func TestMinkowskiValidate(t *testing.T) {
	tests := []struct {
		p       float64
		wantErr bool
	}{
		{1, false},
		{2.5, false},
		{0.5, true},
		{0, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}
	for _, tt := range tests {
		err := MinkowskiMetric{P: tt.p}.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("P=%v: err=%v, wantErr=%v", tt.p, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("P=%v: error %v does not match ErrInvalidParameter", tt.p, err)
		}
	}
}

// --- CosineMetric tests ---

func TestCosineDistance_ParallelVectors(t *testing.T) {
	m := CosineMetric{}
	if d := m.Distance([]float64{1, 2, 3}, []float64{2, 4, 6}); !almostEqual(d, 0, floatTol) {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestCosineDistance_OrthogonalVectors(t *testing.T) {
	m := CosineMetric{}
	if d := m.Distance([]float64{1, 0}, []float64{0, 1}); !almostEqual(d, 1, floatTol) {
		t.Errorf("expected 1, got %v", d)
	}
}

func TestCosineDistance_ZeroVectors(t *testing.T) {
	m := CosineMetric{}
	if d := m.Distance([]float64{0, 0}, []float64{0, 0}); d != 0 {
		t.Errorf("two zero vectors: expected 0, got %v", d)
	}
	if d := m.Distance([]float64{0, 0}, []float64{1, 0}); d != 1 {
		t.Errorf("zero vs non-zero: expected 1, got %v", d)
	}
}

// --- DistanceFunc and checked Distance ---

func TestDistanceFunc(t *testing.T) {
	f := DistanceFunc(func(a, b []float64) float64 { return math.Abs(a[0] - b[0]) })
	if d := f.Distance([]float64{3}, []float64{-1}); d != 4 {
		t.Errorf("expected 4, got %v", d)
	}
}

func TestDistance_DimensionMismatch(t *testing.T) {
	_, err := Distance(EuclideanMetric{}, []float64{1, 2}, []float64{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("expected *DimensionMismatchError, got %T", err)
	}
	if dm.Expected != 2 || dm.Actual != 3 {
		t.Errorf("got Expected=%d Actual=%d, want 2 and 3", dm.Expected, dm.Actual)
	}
}

func TestDistance_NilMetricIsEuclidean(t *testing.T) {
	d, err := Distance(nil, []float64{0, 0}, []float64{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(d, 5, floatTol) {
		t.Errorf("expected 5, got %v", d)
	}
}
