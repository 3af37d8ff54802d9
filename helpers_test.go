package dbscan

import (
	"math"
	"testing"

	"github.com/TrevorS/dbscan/testutil"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// labelsEquivalent checks if two label arrays are equivalent under label
// permutation. Noise (-1) must match exactly.
func labelsEquivalent(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	forward := make(map[int]int)
	backward := make(map[int]int)
	for i := range a {
		if a[i] == -1 || b[i] == -1 {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if m, ok := forward[a[i]]; ok && m != b[i] {
			return false
		}
		if m, ok := backward[b[i]]; ok && m != a[i] {
			return false
		}
		forward[a[i]] = b[i]
		backward[b[i]] = a[i]
	}
	return true
}

var allIndexKinds = []IndexKind{IndexBrute, IndexKDTree, IndexBallTree, IndexVPTree}

// buildIndexes builds every index kind that supports metric.
func buildIndexes(t *testing.T, data [][]float64, metric DistanceMetric) map[IndexKind]NeighborIndex {
	t.Helper()
	points, err := NewPointSet(data)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	out := make(map[IndexKind]NeighborIndex)
	for _, kind := range allIndexKinds {
		if _, err := selectIndex(kind, metric, points.Dims()); err != nil {
			continue
		}
		idx, err := NewIndex(points, metric, kind, 4)
		if err != nil {
			t.Fatalf("NewIndex(%s): %v", kind, err)
		}
		out[kind] = idx
	}
	return out
}

// checkDBSCANInvariants verifies res against a brute-force characterization
// of DBSCAN output:
//   - core flags match neighborhood sizes;
//   - core points within epsilon of each other share a cluster, and each
//     cluster's core points are connected through epsilon steps;
//   - a non-core point joins the lowest cluster id among core points within
//     epsilon, or is noise when there is none;
//   - cluster ids follow the index order of each cluster's first core point.
func checkDBSCANInvariants(t *testing.T, data [][]float64, dist testutil.DistanceFunc, eps float64, minPts int, res *Result) {
	t.Helper()
	n := len(data)
	if res.Len() != n {
		t.Fatalf("result has %d labels, want %d", res.Len(), n)
	}

	neighbors := make([][]int, n)
	core := make([]bool, n)
	for i := range data {
		neighbors[i] = testutil.ExactRange(data, i, eps, dist)
		core[i] = len(neighbors[i]) >= minPts
	}

	for i, l := range res.All() {
		if l == Unvisited {
			t.Fatalf("point %d left unvisited", i)
		}
		if l != Noise && (l < 0 || int(l) >= res.ClusterCount()) {
			t.Fatalf("point %d has out-of-range label %d (clusters=%d)", i, l, res.ClusterCount())
		}
		if res.IsCore(i) != core[i] {
			t.Errorf("point %d: IsCore=%v, want %v", i, res.IsCore(i), core[i])
		}
	}

	for i := range data {
		li := res.LabelOf(i)
		if core[i] {
			if li == Noise {
				t.Errorf("core point %d labelled noise", i)
			}
			for _, j := range neighbors[i] {
				if core[j] && res.LabelOf(j) != li {
					t.Errorf("core points %d and %d are neighbors but in clusters %v and %v", i, j, li, res.LabelOf(j))
				}
			}
			continue
		}
		want := Noise
		for _, j := range neighbors[i] {
			if core[j] && (want == Noise || res.LabelOf(j) < want) {
				want = res.LabelOf(j)
			}
		}
		if li != want {
			t.Errorf("non-core point %d: label %v, want %v", i, li, want)
		}
	}

	// Connectivity of each cluster's core points, and id order.
	firstCore := make([]int, res.ClusterCount())
	for c := range firstCore {
		firstCore[c] = -1
	}
	for i := range data {
		if core[i] && res.LabelOf(i) >= 0 {
			c := int(res.LabelOf(i))
			if firstCore[c] == -1 {
				firstCore[c] = i
			}
		}
	}
	for c, start := range firstCore {
		if start == -1 {
			t.Fatalf("cluster %d has no core point", c)
		}
		if c > 0 && firstCore[c-1] >= start {
			t.Errorf("cluster %d starts at %d, not after cluster %d at %d", c, start, c-1, firstCore[c-1])
		}
		seen := map[int]bool{start: true}
		queue := []int{start}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, j := range neighbors[p] {
				if core[j] && !seen[j] {
					seen[j] = true
					queue = append(queue, j)
				}
			}
		}
		for i := range data {
			if core[i] && int(res.LabelOf(i)) == c && !seen[i] {
				t.Errorf("core point %d of cluster %d is not reachable from %d", i, c, start)
			}
		}
	}
}
