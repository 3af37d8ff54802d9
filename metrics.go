package dbscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from the top-level entry
// points. Implement it to integrate with a monitoring system; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordIndexBuild is called after a neighbor index has been built.
	RecordIndexBuild(kind IndexKind, n int, duration time.Duration)

	// RecordCluster is called after each clustering run. clusters and noise
	// are zero when err is non-nil.
	RecordCluster(n, clusters, noise int, duration time.Duration, err error)

	// RecordEstimate is called after each epsilon estimation.
	RecordEstimate(n, k int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndexBuild(IndexKind, int, time.Duration)    {}
func (NoopMetricsCollector) RecordCluster(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordEstimate(int, int, time.Duration, error)     {}

// BasicMetricsCollector keeps simple in-memory counters.
type BasicMetricsCollector struct {
	IndexBuilds     atomic.Int64
	ClusterRuns     atomic.Int64
	ClusterErrors   atomic.Int64
	ClustersFound   atomic.Int64
	NoisePoints     atomic.Int64
	PointsClustered atomic.Int64
	ClusterNanos    atomic.Int64
	EstimateRuns    atomic.Int64
	EstimateErrors  atomic.Int64
	EstimateNanos   atomic.Int64
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(_ IndexKind, _ int, _ time.Duration) {
	b.IndexBuilds.Add(1)
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(n, clusters, noise int, duration time.Duration, err error) {
	b.ClusterRuns.Add(1)
	b.ClusterNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClusterErrors.Add(1)
		return
	}
	b.PointsClustered.Add(int64(n))
	b.ClustersFound.Add(int64(clusters))
	b.NoisePoints.Add(int64(noise))
}

// RecordEstimate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEstimate(_, _ int, duration time.Duration, err error) {
	b.EstimateRuns.Add(1)
	b.EstimateNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EstimateErrors.Add(1)
	}
}
