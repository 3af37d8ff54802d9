package dbscan

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/spatial/vptree"
)

// VPTree is a NeighborIndex backed by gonum's vantage-point tree. The gonum
// tree is used to gather candidates with a slightly widened radius; the
// exact metric then decides membership, so results match every other index.
//
// The gonum builder drops each vantage point by position after sorting by
// distance, which is only sound when no other element sits at distance 0.
// The tree is therefore built over unique coordinate vectors, each carrying
// the indices of the points that share it.
type VPTree struct {
	points *PointSet
	metric DistanceMetric
	// tree is nil when the built tree did not hold every group exactly once;
	// candidates are then taken from a full scan.
	tree    *vptree.Tree
	groups  []vpPoint
	groupOf []int
	// slack is an absolute widening scaled to the data extent, since the
	// gonum pruning tests compare differences of potentially large distances.
	slack float64
}

// vpPoint adapts a group of coincident points to vptree.Comparable.
type vpPoint struct {
	group   int
	members []int
	coords  []float64
	metric  DistanceMetric
}

func (p vpPoint) Distance(c vptree.Comparable) float64 {
	return p.metric.Distance(p.coords, c.(vpPoint).coords)
}

// vpSeed fixes the shape of every tree built from the same input.
var vpSeed = [2]uint64{0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9}

// NewVPTree builds a vantage-point tree over points. The metric must satisfy
// the triangle inequality (see TreeValidMetric).
func NewVPTree(points *PointSet, metric DistanceMetric) (*VPTree, error) {
	metric, err := checkIndexInput(points, metric)
	if err != nil {
		return nil, err
	}
	if !TreeValidMetric(metric) {
		return nil, invalidParam("metric %T is not supported by the vptree index", metric)
	}

	groups, groupOf := groupCoincident(points, metric)
	comparables := make([]vptree.Comparable, len(groups))
	for i := range groups {
		comparables[i] = groups[i]
	}
	tree, err := vptree.New(comparables, 0, rand.NewPCG(vpSeed[0], vpSeed[1]))
	if err != nil {
		return nil, fmt.Errorf("dbscan: building vptree: %w", err)
	}
	if !holdsEachOnce(tree, len(groups)) {
		tree = nil
	}

	var extent float64
	for _, v := range points.data {
		extent = max(extent, math.Abs(v))
	}
	return &VPTree{
		points:  points,
		metric:  metric,
		tree:    tree,
		groups:  groups,
		groupOf: groupOf,
		slack:   (1 + extent) * boundSlack * 1e-3,
	}, nil
}

// groupCoincident groups points with identical coordinates, treating -0 and
// +0 as equal. Groups and their members are in ascending index order.
func groupCoincident(points *PointSet, metric DistanceMetric) ([]vpPoint, []int) {
	byKey := make(map[string]int, points.Len())
	groupOf := make([]int, points.Len())
	var groups []vpPoint
	key := make([]byte, 0, 8*points.Dims())
	for i := range points.Len() {
		key = key[:0]
		for _, v := range points.Point(i) {
			key = binary.LittleEndian.AppendUint64(key, math.Float64bits(v+0))
		}
		g, ok := byKey[string(key)]
		if !ok {
			g = len(groups)
			byKey[string(key)] = g
			groups = append(groups, vpPoint{group: g, coords: points.Point(i), metric: metric})
		}
		groups[g].members = append(groups[g].members, i)
		groupOf[i] = g
	}
	return groups, groupOf
}

// holdsEachOnce reports whether every group is stored in tree exactly once.
// Distinct coordinates can still be at distance 0 when squared differences
// underflow, which defeats the builder's vantage removal.
func holdsEachOnce(tree *vptree.Tree, n int) bool {
	seen := make([]bool, n)
	count := 0
	dup := tree.Do(func(c vptree.Comparable, _ int) bool {
		g := c.(vpPoint).group
		if seen[g] {
			return true
		}
		seen[g] = true
		count++
		return false
	})
	return !dup && count == n
}

func (t *VPTree) Points() *PointSet      { return t.points }
func (t *VPTree) Metric() DistanceMetric { return t.metric }

// candidates returns the indices of all points in groups the tree reports
// within bound of point i, unsorted and unfiltered.
func (t *VPTree) candidates(i int, bound float64) []int {
	if t.tree == nil {
		out := make([]int, t.points.Len())
		for j := range out {
			out[j] = j
		}
		return out
	}
	keeper := vptree.NewDistKeeper(bound)
	t.tree.NearestSet(keeper, t.groups[t.groupOf[i]])
	var out []int
	for _, cd := range keeper.Heap {
		if cd.Comparable == nil {
			continue // sentinel
		}
		out = append(out, cd.Comparable.(vpPoint).members...)
	}
	return out
}

// RangeQuery implements NeighborIndex.
func (t *VPTree) RangeQuery(i int, radius float64) []int {
	if radius < 0 {
		return nil
	}
	q := t.points.Point(i)
	var out []int
	for _, j := range t.candidates(i, withSlack(radius)+t.slack) {
		if t.metric.Distance(q, t.points.Point(j)) <= radius {
			out = append(out, j)
		}
	}
	slices.Sort(out)
	return out
}

// KNearest implements NeighborIndex.
//
// Any k+1 groups hold at least k points other than i, so the distance to
// the farthest of the k+1 nearest groups bounds the k-th nearest other
// point; an exact pass over that radius then resolves ties by index.
func (t *VPTree) KNearest(i int, k int) []Neighbor {
	k = clampK(k, t.points.Len())
	if k <= 0 {
		return nil
	}

	bound := math.Inf(1)
	if t.tree != nil {
		keeper := vptree.NewNKeeper(k + 1)
		t.tree.NearestSet(keeper, t.groups[t.groupOf[i]])
		bound = 0
		for _, cd := range keeper.Heap {
			if cd.Comparable != nil {
				bound = max(bound, cd.Dist)
			}
		}
		bound = withSlack(bound) + t.slack
	}

	q := t.points.Point(i)
	h := make(neighborHeap, 0, k)
	for _, j := range t.candidates(i, bound) {
		if j == i {
			continue
		}
		h.offer(Neighbor{Index: j, Distance: t.metric.Distance(q, t.points.Point(j))}, k)
	}
	return h.sorted()
}
