package dbscan

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachRange splits [0, n) into contiguous row ranges, one per worker, and
// runs fn on each range concurrently. With workers <= 1 it runs fn once on
// the calling goroutine. Workers write disjoint slots of their outputs, so no
// further synchronization is needed.
func forEachRange(ctx context.Context, n, workers int, fn func(ctx context.Context, start, end int) error) error {
	if workers <= 1 || n <= 1 {
		return fn(ctx, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	rowsPerWorker := (n + workers - 1) / workers
	for start := 0; start < n; start += rowsPerWorker {
		end := min(start+rowsPerWorker, n)
		g.Go(func() error {
			return fn(gctx, start, end)
		})
	}
	return g.Wait()
}

// ctxCheckInterval is how many points a loop processes between context checks.
const ctxCheckInterval = 256

// rangeQueryAll computes the epsilon-neighborhood of every point.
// The result is identical for any worker count.
func rangeQueryAll(ctx context.Context, index NeighborIndex, radius float64, workers int) ([][]int, error) {
	n := index.Points().Len()
	neighbors := make([][]int, n)
	err := forEachRange(ctx, n, workers, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if (i-start)%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			neighbors[i] = index.RangeQuery(i, radius)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return neighbors, nil
}

// kDistancesAll computes, for every point, the distance to its k-th nearest
// other point, in point order. Callers guarantee k <= n-1.
func kDistancesAll(ctx context.Context, index NeighborIndex, k, workers int) ([]float64, error) {
	n := index.Points().Len()
	dists := make([]float64, n)
	err := forEachRange(ctx, n, workers, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if (i-start)%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			nbrs := index.KNearest(i, k)
			dists[i] = nbrs[len(nbrs)-1].Distance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dists, nil
}
