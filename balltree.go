package dbscan

import (
	"math"
	"slices"
)

// BallTree is a ball tree NeighborIndex. Each node stores the centroid and
// radius of the smallest centroid-centered ball enclosing its points, which
// gives a lower bound for any metric obeying the triangle inequality.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
type BallTree struct {
	points   *PointSet
	dims     int
	leafSize int
	metric   DistanceMetric
	idxArray []int      // permutation: tree-order position → original index
	nodes    []NodeData // one entry per tree node; Radius is used
	// centroids[node*dims .. (node+1)*dims) = centroid of node
	centroids []float64
	numNodes  int
}

// NewBallTree builds a ball tree over points. The metric must satisfy the
// triangle inequality (see TreeValidMetric). leafSize <= 0 means
// DefaultLeafSize.
func NewBallTree(points *PointSet, metric DistanceMetric, leafSize int) (*BallTree, error) {
	metric, err := checkIndexInput(points, metric)
	if err != nil {
		return nil, err
	}
	if !TreeValidMetric(metric) {
		return nil, invalidParam("metric %T is not supported by the balltree index", metric)
	}
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}

	n, dims := points.Len(), points.Dims()
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := treeMaxNodes(n, leafSize)
	t := &BallTree{
		points:    points,
		dims:      dims,
		leafSize:  leafSize,
		metric:    metric,
		idxArray:  idxArray,
		nodes:     make([]NodeData, maxNodes),
		centroids: make([]float64, maxNodes*dims),
	}
	t.buildNode(0, 0, n)
	t.nodes = usedNodes(t.nodes)
	t.numNodes = countNodes(t.nodes, 0)
	return t, nil
}

// buildNode recursively builds the ball tree for points in idxArray[start:end].
func (t *BallTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.centroids = append(t.centroids, make([]float64, t.dims)...)
	}

	centroid := t.computeCentroid(nodeID, start, end)
	var radius float64
	for _, ptIdx := range t.idxArray[start:end] {
		radius = max(radius, t.metric.Distance(centroid, t.points.Point(ptIdx)))
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, Radius: radius}
	sortByDim(t.points, t.idxArray[start:end], t.findSpreadDim(start, end))
	mid := start + count/2

	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// computeCentroid stores the mean of points idxArray[start:end] as the
// centroid of nodeID and returns it.
func (t *BallTree) computeCentroid(nodeID, start, end int) []float64 {
	c := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	clear(c)
	for _, ptIdx := range t.idxArray[start:end] {
		for d, v := range t.points.Point(ptIdx) {
			c[d] += v
		}
	}
	count := float64(end - start)
	for d := range c {
		c[d] /= count
	}
	return c
}

// findSpreadDim returns the dimension with the greatest spread among
// points in idxArray[start:end].
func (t *BallTree) findSpreadDim(start, end int) int {
	bestDim := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, ptIdx := range t.idxArray[start:end] {
			v := t.points.Point(ptIdx)[d]
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if spread := hi - lo; spread > bestSpread {
			bestSpread = spread
			bestDim = d
		}
	}
	return bestDim
}

func (t *BallTree) Points() *PointSet         { return t.points }
func (t *BallTree) Metric() DistanceMetric    { return t.metric }
func (t *BallTree) IdxArray() []int           { return t.idxArray }
func (t *BallTree) NodeDataArray() []NodeData { return t.nodes }
func (t *BallTree) NumNodes() int             { return t.numNodes }

// minDistPoint returns max(0, d(point, centroid) - radius), a lower bound on
// the distance from point to anything inside node.
func (t *BallTree) minDistPoint(node int, point []float64) float64 {
	centroid := t.centroids[node*t.dims : (node+1)*t.dims]
	return max(0, t.metric.Distance(point, centroid)-t.nodes[node].Radius)
}

// RangeQuery implements NeighborIndex.
func (t *BallTree) RangeQuery(i int, radius float64) []int {
	if radius < 0 {
		return nil
	}
	var out []int
	t.rangeSearch(0, t.points.Point(i), radius, withSlack(radius), &out)
	slices.Sort(out)
	return out
}

func (t *BallTree) rangeSearch(nodeID int, query []float64, radius, bound float64, out *[]int) {
	// The triangle inequality is only approximate in floating point, so the
	// bound is compared against a widened radius.
	if t.minDistPoint(nodeID, query) > bound+t.nodes[nodeID].Radius*boundSlack {
		return
	}
	node := t.nodes[nodeID]
	if node.IsLeaf {
		for _, ptIdx := range t.idxArray[node.IdxStart:node.IdxEnd] {
			if t.metric.Distance(query, t.points.Point(ptIdx)) <= radius {
				*out = append(*out, ptIdx)
			}
		}
		return
	}
	t.rangeSearch(2*nodeID+1, query, radius, bound, out)
	t.rangeSearch(2*nodeID+2, query, radius, bound, out)
}

// KNearest implements NeighborIndex.
func (t *BallTree) KNearest(i int, k int) []Neighbor {
	k = clampK(k, t.points.Len())
	if k <= 0 {
		return nil
	}
	h := make(neighborHeap, 0, k)
	t.knnSearch(0, i, t.points.Point(i), k, &h)
	return h.sorted()
}

// knnSearch performs a single-tree KNN traversal, nearer ball first.
func (t *BallTree) knnSearch(nodeID, self int, query []float64, k int, h *neighborHeap) {
	node := t.nodes[nodeID]
	if node.IsLeaf {
		for _, ptIdx := range t.idxArray[node.IdxStart:node.IdxEnd] {
			if ptIdx == self {
				continue
			}
			h.offer(Neighbor{Index: ptIdx, Distance: t.metric.Distance(query, t.points.Point(ptIdx))}, k)
		}
		return
	}

	left, right := 2*nodeID+1, 2*nodeID+2
	leftDist := t.minDistPoint(left, query)
	rightDist := t.minDistPoint(right, query)

	nearChild, farChild := left, right
	nearDist, farDist := leftDist, rightDist
	if rightDist < leftDist {
		nearChild, farChild = right, left
		nearDist, farDist = rightDist, leftDist
	}

	if !h.full(k) || nearDist <= t.knnBound(h, nearChild) {
		t.knnSearch(nearChild, self, query, k, h)
	}
	if !h.full(k) || farDist <= t.knnBound(h, farChild) {
		t.knnSearch(farChild, self, query, k, h)
	}
}

// knnBound is the pruning threshold for a child: the current k-th distance,
// widened by the same slack the range search applies.
func (t *BallTree) knnBound(h *neighborHeap, node int) float64 {
	return withSlack(h.worst()) + t.nodes[node].Radius*boundSlack
}
