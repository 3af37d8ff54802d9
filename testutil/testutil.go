package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// RNG wraps a seeded math/rand source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformPoints generates num points with every coordinate in [lo, hi).
func (r *RNG) UniformPoints(num, dims int, lo, hi float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dims)
	points := make([][]float64, num)
	for i := range num {
		p := data[i*dims : (i+1)*dims : (i+1)*dims]
		for j := range p {
			p[j] = lo + r.rand.Float64()*(hi-lo)
		}
		points[i] = p
	}
	return points
}

// Blobs generates perCenter Gaussian points around each center, center by
// center, with the given standard deviation on every axis.
func (r *RNG) Blobs(centers [][]float64, perCenter int, stddev float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([][]float64, 0, len(centers)*perCenter)
	for _, c := range centers {
		for range perCenter {
			p := make([]float64, len(c))
			for j := range p {
				p[j] = c[j] + r.rand.NormFloat64()*stddev
			}
			points = append(points, p)
		}
	}
	return points
}

// Shuffle returns a permutation of points and the permutation itself:
// out[i] = points[perm[i]].
func (r *RNG) Shuffle(points [][]float64) (out [][]float64, perm []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	perm = r.rand.Perm(len(points))
	out = make([][]float64, len(points))
	for i, j := range perm {
		out[i] = points[j]
	}
	return out, perm
}

// Line returns n points on the x-axis spaced step apart, in dims dimensions.
func Line(n, dims int, step float64) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		points[i] = make([]float64, dims)
		points[i][0] = float64(i) * step
	}
	return points
}

// DistanceFunc is a distance between two equal-length vectors.
type DistanceFunc func(a, b []float64) float64

// Euclidean is a straightforward L2 distance used as ground truth.
func Euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Neighbor is a ground-truth neighbor.
type Neighbor struct {
	Index    int
	Distance float64
}

// ExactRange returns, in ascending order, every j with dist(points[i], points[j]) <= radius.
func ExactRange(points [][]float64, i int, radius float64, dist DistanceFunc) []int {
	var out []int
	for j := range points {
		if dist(points[i], points[j]) <= radius {
			out = append(out, j)
		}
	}
	return out
}

// ExactKNearest returns the k nearest other points of points[i], ordered
// by distance and then index, by sorting all distances.
func ExactKNearest(points [][]float64, i, k int, dist DistanceFunc) []Neighbor {
	all := make([]Neighbor, 0, len(points))
	for j := range points {
		if j != i {
			all = append(all, Neighbor{Index: j, Distance: dist(points[i], points[j])})
		}
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Index < all[b].Index
	})
	return all[:min(k, len(all))]
}
