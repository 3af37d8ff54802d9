// Package testutil provides data generators and brute-force ground truth for
// testing and benchmarking the dbscan package.
//
// It does not import dbscan, so it can be used from dbscan's own tests.
//
// # Data Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Blobs([][]float64{{0, 0}, {10, 10}}, 50, 0.5)
//	noise := rng.UniformPoints(20, 2, -5, 15)
//
// # Ground Truth
//
//	idx := testutil.ExactRange(data, i, eps, testutil.Euclidean)
//	nn := testutil.ExactKNearest(data, i, k, testutil.Euclidean)
package testutil
