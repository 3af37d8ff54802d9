// Package prommetrics exports dbscan run metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TrevorS/dbscan"
)

// Collector implements dbscan.MetricsCollector on Prometheus counters and
// histograms.
type Collector struct {
	indexBuilds   *prometheus.CounterVec
	indexLatency  *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	runLatency    *prometheus.HistogramVec
	points        *prometheus.CounterVec
	clustersFound prometheus.Counter
	noisePoints   prometheus.Counter
}

var _ dbscan.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics on reg. A nil reg
// means prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		indexBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dbscan_index_builds_total",
			Help: "Neighbor indexes built, by index kind.",
		}, []string{"index"}),
		indexLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dbscan_index_build_seconds",
			Help:    "Time spent building neighbor indexes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"index"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dbscan_runs_total",
			Help: "Clustering and estimation runs, by operation and status.",
		}, []string{"op", "status"}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dbscan_run_seconds",
			Help:    "Duration of clustering and estimation runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dbscan_points_total",
			Help: "Points processed by successful runs, by operation.",
		}, []string{"op"}),
		clustersFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dbscan_clusters_found_total",
			Help: "Clusters found by successful clustering runs.",
		}),
		noisePoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dbscan_noise_points_total",
			Help: "Points labelled noise by successful clustering runs.",
		}),
	}

	collectors := []prometheus.Collector{
		c.indexBuilds, c.indexLatency, c.runs, c.runLatency,
		c.points, c.clustersFound, c.noisePoints,
	}
	for i, m := range collectors {
		if err := reg.Register(m); err != nil {
			// Leave reg as it was so that a later New can succeed.
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordIndexBuild implements dbscan.MetricsCollector.
func (c *Collector) RecordIndexBuild(kind dbscan.IndexKind, _ int, d time.Duration) {
	c.indexBuilds.WithLabelValues(string(kind)).Inc()
	c.indexLatency.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// RecordCluster implements dbscan.MetricsCollector.
func (c *Collector) RecordCluster(n, clusters, noise int, d time.Duration, err error) {
	s := status(err)
	c.runs.WithLabelValues("cluster", s).Inc()
	c.runLatency.WithLabelValues("cluster", s).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.points.WithLabelValues("cluster").Add(float64(n))
	c.clustersFound.Add(float64(clusters))
	c.noisePoints.Add(float64(noise))
}

// RecordEstimate implements dbscan.MetricsCollector.
func (c *Collector) RecordEstimate(n, _ int, d time.Duration, err error) {
	s := status(err)
	c.runs.WithLabelValues("estimate", s).Inc()
	c.runLatency.WithLabelValues("estimate", s).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.points.WithLabelValues("estimate").Add(float64(n))
}
