package dbscan

import "strconv"

// Label classifies a point. Non-negative values are cluster ids.
type Label int

const (
	// Unvisited is the initial state of every point during clustering. It
	// never appears in a Result.
	Unvisited Label = -2

	// Noise marks a point that is neither core nor border of any cluster.
	Noise Label = -1
)

// IsNoise reports whether l is Noise.
func (l Label) IsNoise() bool { return l == Noise }

// ClusterID returns the cluster id and true when l names a cluster.
func (l Label) ClusterID() (int, bool) {
	if l < 0 {
		return 0, false
	}
	return int(l), true
}

func (l Label) String() string {
	switch {
	case l == Noise:
		return "noise"
	case l == Unvisited:
		return "unvisited"
	case l >= 0:
		return "cluster " + strconv.Itoa(int(l))
	default:
		return "Label(" + strconv.Itoa(int(l)) + ")"
	}
}
