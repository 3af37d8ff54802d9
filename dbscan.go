package dbscan

import (
	"context"
	"math"
	"runtime"
	"time"
)

// Config controls clustering and epsilon estimation.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Epsilon is the neighborhood radius. Two points are neighbors when
	// their distance is <= Epsilon. Must be > 0 and finite. Default: 0.5.
	Epsilon float64

	// MinPts is the number of points (the point itself included) an
	// epsilon-neighborhood must hold for its center to be a core point.
	// Must be >= 1. Default: 5.
	MinPts int

	// Metric is the distance function. Built-in: EuclideanMetric,
	// ManhattanMetric, ChebyshevMetric, MinkowskiMetric, CosineMetric. Use
	// DistanceFunc to wrap a custom function. Default: EuclideanMetric.
	Metric DistanceMetric

	// Index selects the neighbor index. "auto" picks a KD-tree for
	// axis-decomposable metrics up to 60 dimensions, a ball tree for other
	// tree-compatible metrics and brute force otherwise. The choice never
	// changes results, only speed. Default: "auto".
	Index IndexKind

	// LeafSize is the maximum number of points in a tree leaf. Default: 40.
	LeafSize int

	// Workers is the number of goroutines used to precompute neighborhoods
	// and k-distances. Clustering with Workers > 1 stores every
	// epsilon-neighborhood up front, which needs memory proportional to the
	// total neighborhood size (up to n*n indices for a large epsilon);
	// otherwise neighborhoods are queried lazily one at a time.
	// 0 means lazy clustering and runtime.NumCPU() goroutines for
	// k-distances, which only need one value per point. Default: 0.
	Workers int

	// Logger receives debug records for each run. Default: NoopLogger().
	Logger *Logger

	// Metrics receives per-run metrics. Default: NoopMetricsCollector{}.
	Metrics MetricsCollector
}

// DefaultConfig returns a Config with the defaults of the reference
// clustering script: epsilon 0.5 and minPts 5.
func DefaultConfig() Config {
	return Config{
		Epsilon:  0.5,
		MinPts:   5,
		Metric:   EuclideanMetric{},
		Index:    IndexAuto,
		LeafSize: DefaultLeafSize,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
// Epsilon and MinPts are not defaulted: a zero there is a caller error.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Index == "" {
		cfg.Index = IndexAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = DefaultLeafSize
	}
	if cfg.Logger == nil {
		cfg.Logger = NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetricsCollector{}
	}
}

// clusterWorkers is the worker count for neighborhood precomputation.
func (c Config) clusterWorkers() int {
	return max(c.Workers, 1)
}

// estimateWorkers is the worker count for k-distance computation.
func (c Config) estimateWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// validateIndexConfig checks the fields shared by clustering and estimation.
func validateIndexConfig(cfg *Config) error {
	if cfg.LeafSize < 1 {
		return invalidParam("LeafSize must be >= 1, got %d", cfg.LeafSize)
	}
	if cfg.Workers < 0 {
		return invalidParam("Workers must be >= 0, got %d", cfg.Workers)
	}
	switch cfg.Index {
	case IndexAuto, IndexBrute, IndexKDTree, IndexBallTree, IndexVPTree:
	default:
		return invalidParam("unknown index kind %q", cfg.Index)
	}
	return validateMetric(cfg.Metric)
}

// validateClusterParams checks epsilon and minPts.
func validateClusterParams(epsilon float64, minPts int) error {
	if !(epsilon > 0) || math.IsInf(epsilon, 1) {
		return invalidParam("epsilon must be > 0 and finite, got %v", epsilon)
	}
	if minPts < 1 {
		return invalidParam("minPts must be >= 1, got %d", minPts)
	}
	return nil
}

// Cluster runs DBSCAN on data with cfg.Epsilon and cfg.MinPts.
// Each element is a point; all points must have the same dimensionality.
// It fails with ErrInvalidParameter, ErrEmptyInput or a
// *DimensionMismatchError, and never returns a partial result.
func Cluster(data [][]float64, cfg Config) (*Result, error) {
	return ClusterContext(context.Background(), data, cfg)
}

// ClusterContext is Cluster with a context that is checked periodically;
// when it is done the run stops and returns ctx.Err().
func ClusterContext(ctx context.Context, data [][]float64, cfg Config) (res *Result, err error) {
	applyDefaults(&cfg)
	log := cfg.Logger.WithRun("cluster")
	start := time.Now()
	defer func() {
		if err != nil {
			log.LogFailure(ctx, err)
			cfg.Metrics.RecordCluster(len(data), 0, 0, time.Since(start), err)
			return
		}
		cfg.Metrics.RecordCluster(res.Len(), res.ClusterCount(), res.NoiseCount(), time.Since(start), nil)
		log.DebugContext(ctx, "clustering finished",
			"points", res.Len(),
			"clusters", res.ClusterCount(),
			"noise", res.NoiseCount(),
			"duration", time.Since(start),
		)
	}()

	if err := validateClusterParams(cfg.Epsilon, cfg.MinPts); err != nil {
		return nil, err
	}
	if err := validateIndexConfig(&cfg); err != nil {
		return nil, err
	}

	points, err := NewPointSet(data)
	if err != nil {
		return nil, err
	}
	index, err := buildIndex(ctx, points, &cfg, log)
	if err != nil {
		return nil, err
	}
	return clusterIndex(ctx, index, cfg.Epsilon, cfg.MinPts, cfg.clusterWorkers())
}

// ClusterIndex runs DBSCAN over a prebuilt index on the calling goroutine.
// Swapping index implementations never changes the result.
func ClusterIndex(index NeighborIndex, epsilon float64, minPts int) (*Result, error) {
	if err := validateClusterParams(epsilon, minPts); err != nil {
		return nil, err
	}
	if index == nil || index.Points() == nil || index.Points().Len() == 0 {
		return nil, ErrEmptyInput
	}
	return clusterIndex(context.Background(), index, epsilon, minPts, 1)
}

// clusterIndex runs the engine. With more than one worker every
// neighborhood is computed concurrently first; the expansion itself is
// always sequential, so the result does not depend on workers.
func clusterIndex(ctx context.Context, index NeighborIndex, epsilon float64, minPts, workers int) (*Result, error) {
	n := index.Points().Len()
	if uint64(n) > math.MaxUint32 {
		return nil, invalidParam("at most %d points are supported, got %d", uint64(math.MaxUint32), n)
	}

	var neighbors [][]int
	if workers > 1 {
		var err error
		neighbors, err = rangeQueryAll(ctx, index, epsilon, workers)
		if err != nil {
			return nil, err
		}
	}
	return newEngine(index, epsilon, minPts, neighbors).run(ctx)
}

// buildIndex builds the index selected by cfg and reports it.
func buildIndex(ctx context.Context, points *PointSet, cfg *Config, log *Logger) (NeighborIndex, error) {
	start := time.Now()
	index, err := NewIndex(points, cfg.Metric, cfg.Index, cfg.LeafSize)
	if err != nil {
		return nil, err
	}
	kind := IndexKindOf(index)
	cfg.Metrics.RecordIndexBuild(kind, points.Len(), time.Since(start))
	log.LogIndexBuilt(ctx, kind, points.Len(), points.Dims())
	return index, nil
}
