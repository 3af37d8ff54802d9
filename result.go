package dbscan

import "iter"

// Result is the immutable outcome of a clustering run: one terminal Label
// per point plus the number of clusters found. Accessors return copies.
type Result struct {
	labels   []Label
	core     []bool
	clusters int
}

// Len returns the number of labelled points.
func (r *Result) Len() int { return len(r.labels) }

// LabelOf returns the label of point i.
func (r *Result) LabelOf(i int) Label { return r.labels[i] }

// ClusterCount returns the number of clusters. Cluster ids are 0..ClusterCount()-1.
func (r *Result) ClusterCount() int { return r.clusters }

// All yields (index, label) pairs in index order. The sequence can be
// ranged over any number of times.
func (r *Result) All() iter.Seq2[int, Label] {
	return func(yield func(int, Label) bool) {
		for i, l := range r.labels {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Labels returns the labels as plain ints, -1 for noise, ready to be
// appended to the source table as a cluster column.
func (r *Result) Labels() []int {
	out := make([]int, len(r.labels))
	for i, l := range r.labels {
		out[i] = int(l)
	}
	return out
}

// IsCore reports whether point i had at least minPts points within epsilon.
func (r *Result) IsCore(i int) bool { return r.core[i] }

// CoreIndices returns the core points in ascending order.
func (r *Result) CoreIndices() []int {
	var out []int
	for i, c := range r.core {
		if c {
			out = append(out, i)
		}
	}
	return out
}

// NoiseCount returns the number of points labelled Noise.
func (r *Result) NoiseCount() int {
	var n int
	for _, l := range r.labels {
		if l == Noise {
			n++
		}
	}
	return n
}

// Sizes returns the number of members of each cluster, indexed by cluster id.
func (r *Result) Sizes() []int {
	sizes := make([]int, r.clusters)
	for _, l := range r.labels {
		if l >= 0 {
			sizes[l]++
		}
	}
	return sizes
}

// Members returns the points of cluster c in ascending order, or nil if c is
// not a cluster id of this result.
func (r *Result) Members(c int) []int {
	if c < 0 || c >= r.clusters {
		return nil
	}
	var out []int
	for i, l := range r.labels {
		if int(l) == c {
			out = append(out, i)
		}
	}
	return out
}
