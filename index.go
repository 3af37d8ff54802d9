package dbscan

import (
	"container/heap"
	"math"
)

// Neighbor is a point index paired with its distance to a query point.
type Neighbor struct {
	Index    int
	Distance float64
}

// NeighborIndex answers exact radius and k-nearest-neighbor queries over a
// fixed PointSet. Implementations are read-only after construction and safe
// for concurrent use. Query indices must be in [0, Points().Len()).
//
// Every implementation must return identical results for the same points
// and metric; only performance differs.
type NeighborIndex interface {
	// Points returns the indexed point set.
	Points() *PointSet

	// Metric returns the distance metric used by the index.
	Metric() DistanceMetric

	// RangeQuery returns, in ascending order, every index j with
	// Distance(point i, point j) <= radius. Since the self-distance is 0 the
	// result contains i itself whenever radius >= 0. A negative radius
	// yields an empty result.
	RangeQuery(i int, radius float64) []int

	// KNearest returns the min(k, n-1) nearest neighbors of point i,
	// excluding i, ordered by ascending distance with ties broken by
	// ascending index. k <= 0 yields an empty result.
	KNearest(i int, k int) []Neighbor
}

// IndexKind selects a NeighborIndex implementation.
type IndexKind string

const (
	IndexAuto     IndexKind = "auto"
	IndexBrute    IndexKind = "brute"
	IndexKDTree   IndexKind = "kdtree"
	IndexBallTree IndexKind = "balltree"
	IndexVPTree   IndexKind = "vptree"
)

// kdTreeMaxDims is the dimensionality above which auto selection prefers a
// ball tree over a KD-tree.
const kdTreeMaxDims = 60

// DefaultLeafSize is the leaf capacity used by tree indexes when none is given.
const DefaultLeafSize = 40

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees need metrics that decompose along coordinate axes.
func KDTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// TreeValidMetric reports whether the metric satisfies the triangle
// inequality, which ball trees and vantage-point trees rely on for pruning.
func TreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// selectIndex resolves IndexAuto into a concrete kind from the metric and
// dimensionality, and checks that a forced kind supports the metric.
func selectIndex(kind IndexKind, metric DistanceMetric, dims int) (IndexKind, error) {
	switch kind {
	case IndexAuto, "":
		if !TreeValidMetric(metric) {
			return IndexBrute, nil
		}
		if KDTreeValidMetric(metric) && dims <= kdTreeMaxDims {
			return IndexKDTree, nil
		}
		return IndexBallTree, nil
	case IndexBrute:
		return IndexBrute, nil
	case IndexKDTree:
		if !KDTreeValidMetric(metric) {
			return "", invalidParam("metric %T is not supported by the KD-tree index", metric)
		}
		return IndexKDTree, nil
	case IndexBallTree, IndexVPTree:
		if !TreeValidMetric(metric) {
			return "", invalidParam("metric %T is not supported by the %s index", metric, kind)
		}
		return kind, nil
	default:
		return "", invalidParam("unknown index kind %q", kind)
	}
}

// NewIndex builds a NeighborIndex of the requested kind. A nil metric means
// EuclideanMetric; leafSize <= 0 means DefaultLeafSize.
func NewIndex(points *PointSet, metric DistanceMetric, kind IndexKind, leafSize int) (NeighborIndex, error) {
	metric, err := checkIndexInput(points, metric)
	if err != nil {
		return nil, err
	}
	resolved, err := selectIndex(kind, metric, points.Dims())
	if err != nil {
		return nil, err
	}
	switch resolved {
	case IndexKDTree:
		return NewKDTree(points, metric, leafSize)
	case IndexBallTree:
		return NewBallTree(points, metric, leafSize)
	case IndexVPTree:
		return NewVPTree(points, metric)
	default:
		return NewBruteForceIndex(points, metric)
	}
}

// IndexKindOf reports the kind of a built-in index, or "" for foreign
// implementations.
func IndexKindOf(index NeighborIndex) IndexKind {
	switch index.(type) {
	case *BruteForceIndex:
		return IndexBrute
	case *KDTree:
		return IndexKDTree
	case *BallTree:
		return IndexBallTree
	case *VPTree:
		return IndexVPTree
	default:
		return ""
	}
}

func checkIndexInput(points *PointSet, metric DistanceMetric) (DistanceMetric, error) {
	if points == nil || points.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if err := validateMetric(metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// boundSlack widens pruning thresholds so that rounding in lower-bound
// computations never discards a point whose exact distance qualifies.
const boundSlack = 1e-9

func withSlack(r float64) float64 {
	return r + math.Abs(r)*boundSlack
}

// neighborLess orders neighbors by distance, then by index.
func neighborLess(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Index < b.Index
}

// neighborHeap is a bounded max-heap of Neighbor (worst neighbor on top)
// used to collect the k best candidates of a kNN query.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return neighborLess(h[j], h[i]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any)        { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// offer adds nb if the heap holds fewer than k items or nb beats the worst.
func (h *neighborHeap) offer(nb Neighbor, k int) {
	if h.Len() < k {
		heap.Push(h, nb)
	} else if neighborLess(nb, (*h)[0]) {
		(*h)[0] = nb
		heap.Fix(h, 0)
	}
}

// full reports whether the heap holds k items.
func (h *neighborHeap) full(k int) bool { return h.Len() >= k }

// worst returns the current k-th best distance; only valid when non-empty.
func (h *neighborHeap) worst() float64 { return (*h)[0].Distance }

// sorted drains the heap into a slice ordered best first.
func (h *neighborHeap) sorted() []Neighbor {
	out := make([]Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Neighbor)
	}
	return out
}

// clampK limits k to the number of other points available.
func clampK(k, n int) int {
	return min(k, n-1)
}
