package dbscan

// BruteForceIndex answers queries by scanning every point. It is O(n) per
// query, always exact, and accepts any metric.
type BruteForceIndex struct {
	points *PointSet
	metric DistanceMetric
}

// NewBruteForceIndex returns a brute-force index over points. A nil metric
// means EuclideanMetric.
func NewBruteForceIndex(points *PointSet, metric DistanceMetric) (*BruteForceIndex, error) {
	metric, err := checkIndexInput(points, metric)
	if err != nil {
		return nil, err
	}
	return &BruteForceIndex{points: points, metric: metric}, nil
}

func (b *BruteForceIndex) Points() *PointSet      { return b.points }
func (b *BruteForceIndex) Metric() DistanceMetric { return b.metric }

// RangeQuery implements NeighborIndex.
func (b *BruteForceIndex) RangeQuery(i int, radius float64) []int {
	if radius < 0 {
		return nil
	}
	q := b.points.Point(i)
	var out []int
	for j := 0; j < b.points.Len(); j++ {
		if b.metric.Distance(q, b.points.Point(j)) <= radius {
			out = append(out, j)
		}
	}
	return out
}

// KNearest implements NeighborIndex.
func (b *BruteForceIndex) KNearest(i int, k int) []Neighbor {
	k = clampK(k, b.points.Len())
	if k <= 0 {
		return nil
	}
	q := b.points.Point(i)
	h := make(neighborHeap, 0, k)
	for j := 0; j < b.points.Len(); j++ {
		if j == i {
			continue
		}
		h.offer(Neighbor{Index: j, Distance: b.metric.Distance(q, b.points.Point(j))}, k)
	}
	return h.sorted()
}
