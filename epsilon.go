package dbscan

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Estimate is the outcome of an epsilon estimation.
type Estimate struct {
	// Epsilon is the proposed neighborhood radius, KDistances[KneeIndex].
	Epsilon float64

	// KneeIndex is the position of the knee on the sorted k-distance curve.
	KneeIndex int

	// K is the neighbor rank the curve was built from.
	K int

	// KDistances is the ascending k-distance curve, one entry per point.
	KDistances []float64

	// SecondDifferences is the discrete second derivative of KDistances;
	// entry i is centered on KDistances[i+1].
	SecondDifferences []float64
}

// minEstimatePoints returns how many points an estimation with neighbor
// rank k needs: k other points per query plus two for double differencing.
func minEstimatePoints(k int) int { return k + 3 }

// EstimateEpsilon proposes a DBSCAN epsilon for data from the knee of its
// sorted k-distance curve. cfg supplies the metric, index and worker
// settings; Epsilon and MinPts are ignored.
//
// The knee finder is a heuristic: it takes the largest discrete second
// difference of the curve and assumes a single dominant elbow. On data with
// several density levels it still returns a value from the curve, but not
// necessarily the most useful one.
func EstimateEpsilon(data [][]float64, k int, cfg Config) (float64, error) {
	return EstimateEpsilonContext(context.Background(), data, k, cfg)
}

// EstimateEpsilonContext is EstimateEpsilon with a context that is checked
// while k-distances are computed.
func EstimateEpsilonContext(ctx context.Context, data [][]float64, k int, cfg Config) (epsilon float64, err error) {
	applyDefaults(&cfg)
	log := cfg.Logger.WithRun("estimate")
	start := time.Now()
	defer func() {
		cfg.Metrics.RecordEstimate(len(data), k, time.Since(start), err)
		if err != nil {
			log.LogFailure(ctx, err)
		}
	}()

	if k < 1 {
		return 0, invalidParam("k must be >= 1, got %d", k)
	}
	if err := validateIndexConfig(&cfg); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: %w", ErrInsufficientData, ErrEmptyInput)
	}
	points, err := NewPointSet(data)
	if err != nil {
		return 0, err
	}
	if n := points.Len(); n < minEstimatePoints(k) {
		return 0, fmt.Errorf("%w: k=%d needs at least %d points, got %d", ErrInsufficientData, k, minEstimatePoints(k), n)
	}

	index, err := buildIndex(ctx, points, &cfg, log)
	if err != nil {
		return 0, err
	}
	est, err := estimate(ctx, index, k, cfg.estimateWorkers())
	if err != nil {
		return 0, err
	}
	log.DebugContext(ctx, "epsilon estimated",
		"k", k,
		"points", points.Len(),
		"knee", est.KneeIndex,
		"epsilon", est.Epsilon,
	)
	return est.Epsilon, nil
}

// EstimateEpsilonIndex runs the estimation over a prebuilt index and returns
// the full Estimate, including the curve for plotting.
func EstimateEpsilonIndex(index NeighborIndex, k int) (*Estimate, error) {
	if k < 1 {
		return nil, invalidParam("k must be >= 1, got %d", k)
	}
	if index == nil || index.Points() == nil {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientData, ErrEmptyInput)
	}
	if n := index.Points().Len(); n < minEstimatePoints(k) {
		return nil, fmt.Errorf("%w: k=%d needs at least %d points, got %d", ErrInsufficientData, k, minEstimatePoints(k), n)
	}
	return estimate(context.Background(), index, k, 1)
}

func estimate(ctx context.Context, index NeighborIndex, k, workers int) (*Estimate, error) {
	curve, err := kDistancesAll(ctx, index, k, workers)
	if err != nil {
		return nil, err
	}
	slices.Sort(curve)

	knee, second, err := findKnee(curve)
	if err != nil {
		return nil, err
	}
	return &Estimate{
		Epsilon:           curve[knee],
		KneeIndex:         knee,
		K:                 k,
		KDistances:        curve,
		SecondDifferences: second,
	}, nil
}

// KDistances returns the ascending k-distance curve of the indexed points:
// for each point the distance to its k-th nearest other point, sorted.
func KDistances(index NeighborIndex, k int) ([]float64, error) {
	if k < 1 {
		return nil, invalidParam("k must be >= 1, got %d", k)
	}
	if index == nil || index.Points() == nil {
		return nil, ErrEmptyInput
	}
	if n := index.Points().Len(); n < k+1 {
		return nil, fmt.Errorf("%w: k=%d needs at least %d points, got %d", ErrInsufficientData, k, k+1, n)
	}
	curve, err := kDistancesAll(context.Background(), index, k, 1)
	if err != nil {
		return nil, err
	}
	slices.Sort(curve)
	return curve, nil
}

// FindKnee returns the knee position of an ascending curve: one past the
// argmax of its second difference, the first one on ties. The curve needs
// at least 3 values.
func FindKnee(curve []float64) (int, error) {
	knee, _, err := findKnee(curve)
	return knee, err
}

func findKnee(curve []float64) (int, []float64, error) {
	if len(curve) < 3 {
		return 0, nil, fmt.Errorf("%w: knee detection needs at least 3 values, got %d", ErrInsufficientData, len(curve))
	}
	first := diff(curve)
	second := diff(first)
	// The second difference at i is centered on curve[i+1].
	return floats.MaxIdx(second) + 1, second, nil
}

// diff returns the first difference s[i+1] - s[i].
func diff(s []float64) []float64 {
	out := make([]float64, len(s)-1)
	floats.SubTo(out, s[1:], s[:len(s)-1])
	return out
}
