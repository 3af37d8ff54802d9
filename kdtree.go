package dbscan

import (
	"math"
	"slices"
	"sort"
)

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// KDTree is a KD-tree NeighborIndex. Points are referenced through an index
// permutation array so that every node covers a contiguous range of it.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - node bounds are stored as min/max per dimension per node
type KDTree struct {
	points   *PointSet
	dims     int
	leafSize int
	metric   DistanceMetric
	idxArray []int      // permutation: tree-order position → original index
	nodes    []NodeData // one entry per tree node
	// nodeBoundsMin[node*dims + j] = min value of feature j in node
	nodeBoundsMin []float64
	// nodeBoundsMax[node*dims + j] = max value of feature j in node
	nodeBoundsMax []float64
	numNodes      int
}

// NewKDTree builds a KD-tree over points. The metric must decompose along
// coordinate axes (see KDTreeValidMetric). leafSize <= 0 means
// DefaultLeafSize.
func NewKDTree(points *PointSet, metric DistanceMetric, leafSize int) (*KDTree, error) {
	metric, err := checkIndexInput(points, metric)
	if err != nil {
		return nil, err
	}
	if !KDTreeValidMetric(metric) {
		return nil, invalidParam("metric %T is not supported by the KD-tree index", metric)
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
	t := &KDTree{
		points:        points,
		dims:          dims,
		leafSize:      leafSize,
		metric:        metric,
		idxArray:      idxArray,
		nodes:         make([]NodeData, maxNodes),
		nodeBoundsMin: make([]float64, maxNodes*dims),
		nodeBoundsMax: make([]float64, maxNodes*dims),
	}
	t.buildNode(0, 0, n)
	t.nodes = usedNodes(t.nodes)
	t.numNodes = countNodes(t.nodes, 0)
	return t, nil
}

// treeMaxNodes returns an upper bound on the number of nodes needed for a
// binary tree with n points and the given leaf size.
func treeMaxNodes(n, leafSize int) int {
	// Depth of tree: ceil(log2(ceil(n/leafSize))) + 1.
	// Number of nodes in a complete binary tree of depth d = 2^(d+1) - 1.
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	for v := 1; v < leaves; v *= 2 {
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2
}

// usedNodes trims nodes after the last slot written by the build. Unused
// slots inside the prefix have IdxStart == IdxEnd.
func usedNodes(nodes []NodeData) []NodeData {
	last := 0
	for i, nd := range nodes {
		if nd.IdxEnd > nd.IdxStart {
			last = i
		}
	}
	return nodes[:last+1]
}

// countNodes counts the nodes reachable from nodeID.
func countNodes(nodes []NodeData, nodeID int) int {
	if nodeID >= len(nodes) {
		return 0
	}
	if nodes[nodeID].IdxStart == nodes[nodeID].IdxEnd && nodeID != 0 {
		return 0
	}
	count := 1
	if !nodes[nodeID].IsLeaf {
		count += countNodes(nodes, 2*nodeID+1)
		count += countNodes(nodes, 2*nodeID+2)
	}
	return count
}

// buildNode recursively builds the tree for points in idxArray[start:end].
func (t *KDTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.nodeBoundsMin = append(t.nodeBoundsMin, make([]float64, t.dims)...)
		t.nodeBoundsMax = append(t.nodeBoundsMax, make([]float64, t.dims)...)
	}

	t.computeNodeBounds(nodeID, start, end)

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true}
		return
	}

	// Split at the median of the dimension with greatest spread.
	base := nodeID * t.dims
	splitDim := 0
	maxSpread := -1.0
	for d := 0; d < t.dims; d++ {
		if spread := t.nodeBoundsMax[base+d] - t.nodeBoundsMin[base+d]; spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}
	sortByDim(t.points, t.idxArray[start:end], splitDim)
	mid := start + count/2

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end}
	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// computeNodeBounds computes min/max per dimension for points idxArray[start:end].
func (t *KDTree) computeNodeBounds(nodeID, start, end int) {
	lo := t.nodeBoundsMin[nodeID*t.dims : (nodeID+1)*t.dims]
	hi := t.nodeBoundsMax[nodeID*t.dims : (nodeID+1)*t.dims]
	for d := range lo {
		lo[d] = math.Inf(1)
		hi[d] = math.Inf(-1)
	}
	for _, ptIdx := range t.idxArray[start:end] {
		for d, v := range t.points.Point(ptIdx) {
			lo[d] = min(lo[d], v)
			hi[d] = max(hi[d], v)
		}
	}
}

// sortByDim sorts a slice of point indices by one coordinate.
func sortByDim(points *PointSet, sub []int, dim int) {
	sort.Slice(sub, func(i, j int) bool {
		return points.Point(sub[i])[dim] < points.Point(sub[j])[dim]
	})
}

func (t *KDTree) Points() *PointSet         { return t.points }
func (t *KDTree) Metric() DistanceMetric    { return t.metric }
func (t *KDTree) IdxArray() []int           { return t.idxArray }
func (t *KDTree) NodeDataArray() []NodeData { return t.nodes }
func (t *KDTree) NumNodes() int             { return t.numNodes }

// valid reports whether nodeID was initialized by the build.
func (t *KDTree) valid(nodeID int) bool {
	if nodeID >= len(t.nodes) {
		return false
	}
	return nodeID == 0 || t.nodes[nodeID].IdxStart != t.nodes[nodeID].IdxEnd
}

// RangeQuery implements NeighborIndex.
func (t *KDTree) RangeQuery(i int, radius float64) []int {
	if radius < 0 {
		return nil
	}
	var out []int
	t.rangeSearch(0, t.points.Point(i), radius, withSlack(radius), &out)
	slices.Sort(out)
	return out
}

func (t *KDTree) rangeSearch(nodeID int, query []float64, radius, bound float64, out *[]int) {
	if !t.valid(nodeID) || t.minDistPoint(nodeID, query) > bound {
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
func (t *KDTree) KNearest(i int, k int) []Neighbor {
	k = clampK(k, t.points.Len())
	if k <= 0 {
		return nil
	}
	h := make(neighborHeap, 0, k)
	t.knnSearch(0, i, t.points.Point(i), k, &h)
	return h.sorted()
}

// knnSearch performs a single-tree KNN traversal, nearer child first.
func (t *KDTree) knnSearch(nodeID, self int, query []float64, k int, h *neighborHeap) {
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
	if !t.valid(left) || !t.valid(right) {
		return
	}
	leftDist := t.minDistPoint(left, query)
	rightDist := t.minDistPoint(right, query)

	nearChild, farChild := left, right
	nearDist, farDist := leftDist, rightDist
	if rightDist < leftDist {
		nearChild, farChild = right, left
		nearDist, farDist = rightDist, leftDist
	}

	// Equal distances must still be visited: a tie may have a lower index.
	if !h.full(k) || nearDist <= withSlack(h.worst()) {
		t.knnSearch(nearChild, self, query, k, h)
	}
	if !h.full(k) || farDist <= withSlack(h.worst()) {
		t.knnSearch(farChild, self, query, k, h)
	}
}

// minDistPoint returns a lower bound on the distance between point and any
// point inside the bounding box of node.
func (t *KDTree) minDistPoint(node int, point []float64) float64 {
	lo := t.nodeBoundsMin[node*t.dims : (node+1)*t.dims]
	hi := t.nodeBoundsMax[node*t.dims : (node+1)*t.dims]

	var acc float64
	for j, v := range point {
		var d float64
		if v < lo[j] {
			d = lo[j] - v
		} else if v > hi[j] {
			d = v - hi[j]
		}
		switch m := t.metric.(type) {
		case EuclideanMetric:
			acc += d * d
		case ManhattanMetric:
			acc += d
		case ChebyshevMetric:
			acc = max(acc, d)
		case MinkowskiMetric:
			acc += math.Pow(d, m.P)
		}
	}

	switch m := t.metric.(type) {
	case EuclideanMetric:
		return math.Sqrt(acc)
	case MinkowskiMetric:
		return math.Pow(acc, 1.0/m.P)
	default:
		return acc
	}
}
