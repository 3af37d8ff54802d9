package dbscan

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
)

// engine holds the state of one DBSCAN pass over an index. Labels move from
// Unvisited to Noise or a cluster id, and Noise may later become a cluster
// id (border absorption); a cluster id is never changed.
type engine struct {
	index   NeighborIndex
	epsilon float64
	minPts  int

	labels []Label
	core   []bool
	// queued records every point ever placed in a seed queue. A queued point
	// is labelled with a cluster id when popped, so it never needs to be
	// queued again by any cluster.
	queued *roaring.Bitmap

	// neighbors holds precomputed neighborhoods; nil means query lazily.
	neighbors [][]int
}

func newEngine(index NeighborIndex, epsilon float64, minPts int, neighbors [][]int) *engine {
	n := index.Points().Len()
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Unvisited
	}
	return &engine{
		index:     index,
		epsilon:   epsilon,
		minPts:    minPts,
		labels:    labels,
		core:      make([]bool, n),
		queued:    roaring.New(),
		neighbors: neighbors,
	}
}

// neighborhood returns the epsilon-neighborhood of i, itself included.
// Each point's neighborhood is requested at most once per run.
func (e *engine) neighborhood(i int) []int {
	if e.neighbors != nil {
		return e.neighbors[i]
	}
	return e.index.RangeQuery(i, e.epsilon)
}

// run scans points in index order, starting a new cluster at every
// unvisited core point.
func (e *engine) run(ctx context.Context) (*Result, error) {
	var next Label
	for p := range e.labels {
		if p%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if e.labels[p] != Unvisited {
			continue
		}

		nbrs := e.neighborhood(p)
		if len(nbrs) < e.minPts {
			e.labels[p] = Noise
			continue
		}

		c := next
		next++
		e.core[p] = true
		e.labels[p] = c
		e.queued.Add(uint32(p))
		e.expand(c, nbrs)
	}

	return &Result{labels: e.labels, core: e.core, clusters: int(next)}, nil
}

// expand grows cluster c from the seed neighborhood of its first core point
// until no density-reachable point remains.
func (e *engine) expand(c Label, seeds []int) {
	queue := e.enqueue(make([]int, 0, len(seeds)), seeds)
	for head := 0; head < len(queue); head++ {
		q := queue[head]
		switch e.labels[q] {
		case Noise:
			// Border point: joins c but was already found not to be core.
			e.labels[q] = c
		case Unvisited:
			e.labels[q] = c
			nq := e.neighborhood(q)
			if len(nq) >= e.minPts {
				e.core[q] = true
				queue = e.enqueue(queue, nq)
			}
		}
	}
}

// enqueue appends the candidates that are still Unvisited or Noise and have
// never been queued. Points already in any cluster keep their label.
func (e *engine) enqueue(queue, candidates []int) []int {
	for _, j := range candidates {
		if l := e.labels[j]; l != Unvisited && l != Noise {
			continue
		}
		if e.queued.CheckedAdd(uint32(j)) {
			queue = append(queue, j)
		}
	}
	return queue
}
