package dbscan

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/vptree"

	"github.com/TrevorS/dbscan/testutil"
)

// coincidentData holds two stacks of identical points.
func coincidentData() [][]float64 {
	return [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {5, 5}, {5, 5}, {5, 5}}
}

func TestVPTree_CoincidentPointsMatchBruteForce(t *testing.T) {
	data := coincidentData()
	points, err := NewPointSet(data)
	require.NoError(t, err)
	brute, err := NewBruteForceIndex(points, nil)
	require.NoError(t, err)
	want, err := ClusterIndex(brute, 0.5, 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0, 0, 1, 1, 1}, want.Labels())

	for build := range 200 {
		tree, err := NewVPTree(points, nil)
		require.NoError(t, err)
		for i := range data {
			if got, exp := tree.RangeQuery(i, 0.5), brute.RangeQuery(i, 0.5); !slices.Equal(got, exp) {
				t.Fatalf("build %d: RangeQuery(%d) = %v, want %v", build, i, got, exp)
			}
			if got, exp := tree.KNearest(i, 4), brute.KNearest(i, 4); !slices.Equal(got, exp) {
				t.Fatalf("build %d: KNearest(%d) = %v, want %v", build, i, got, exp)
			}
		}
		res, err := ClusterIndex(tree, 0.5, 3)
		require.NoError(t, err)
		if !slices.Equal(res.Labels(), want.Labels()) {
			t.Fatalf("build %d: labels %v, want %v", build, res.Labels(), want.Labels())
		}
	}
}

func TestVPTree_GroupsCoincidentPoints(t *testing.T) {
	negZero := math.Copysign(0, -1)
	points, err := NewPointSet([][]float64{{0, 1}, {2, 2}, {negZero, 1}, {0, 1}, {2, 2}})
	require.NoError(t, err)

	tree, err := NewVPTree(points, nil)
	require.NoError(t, err)
	require.Len(t, tree.groups, 2, "-0 and +0 share a group")
	assert.Equal(t, []int{0, 2, 3}, tree.groups[0].members)
	assert.Equal(t, []int{1, 4}, tree.groups[1].members)
	assert.Equal(t, []int{0, 1, 0, 0, 1}, tree.groupOf)
	assert.NotNil(t, tree.tree)
}

func TestVPTree_DeterministicShape(t *testing.T) {
	data := testutil.NewRNG(19).UniformPoints(200, 3, 0, 1)
	points, err := NewPointSet(data)
	require.NoError(t, err)

	shape := func() []int {
		tree, err := NewVPTree(points, nil)
		require.NoError(t, err)
		var order []int
		tree.tree.Do(func(c vptree.Comparable, depth int) bool {
			order = append(order, c.(vpPoint).group, depth)
			return false
		})
		return order
	}
	assert.Equal(t, shape(), shape())
}

func TestVPTree_UnderflowingDistancesMatchBruteForce(t *testing.T) {
	// 0 and 1e-200 are distinct coordinates whose Euclidean distance
	// underflows to 0.
	data := [][]float64{{0}, {1e-200}, {0}, {1e-200}, {1e-200}, {5}, {0}}
	points, err := NewPointSet(data)
	require.NoError(t, err)
	brute, err := NewBruteForceIndex(points, nil)
	require.NoError(t, err)

	for range 50 {
		tree, err := NewVPTree(points, nil)
		require.NoError(t, err)
		for i := range data {
			require.Equal(t, brute.RangeQuery(i, 0), tree.RangeQuery(i, 0), "point %d", i)
			require.Equal(t, brute.KNearest(i, 3), tree.KNearest(i, 3), "point %d", i)
		}
	}
}
