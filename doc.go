// Package dbscan implements Density-Based Spatial Clustering of Applications
// with Noise (DBSCAN) together with a k-distance heuristic for choosing its
// neighborhood radius.
//
// DBSCAN grows clusters from core points, points with at least MinPts
// points (themselves included) within Epsilon. Points reachable from a core
// point join its cluster; everything else is noise.
//
// Basic usage:
//
//	eps, err := dbscan.EstimateEpsilon(data, 4, dbscan.DefaultConfig())
//	cfg := dbscan.DefaultConfig()
//	cfg.Epsilon = eps
//	cfg.MinPts = 5
//	result, err := dbscan.Cluster(data, cfg)
//	// result.LabelOf(i) is the cluster of point i (dbscan.Noise for noise)
//	// result.Labels() is the same as []int with -1 for noise
//
// # Neighbor indexes
//
// All neighbor queries go through a [NeighborIndex]. Brute force works with
// any metric; the KD-tree, ball tree and vantage-point tree prune the search
// for the built-in metrics. Every index returns exactly the same neighbors,
// so the choice affects speed only:
//
//	points, _ := dbscan.NewPointSet(data)
//	index, _ := dbscan.NewIndex(points, dbscan.EuclideanMetric{}, dbscan.IndexBallTree, 0)
//	est, _ := dbscan.EstimateEpsilonIndex(index, 4)
//	result, _ := dbscan.ClusterIndex(index, est.Epsilon, 5)
//
// # Determinism
//
// Points are scanned in input order and neighborhoods are returned in
// ascending index order, so identical inputs always give identical labels,
// whatever the index or worker count.
package dbscan
