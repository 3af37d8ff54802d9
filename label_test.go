package dbscan

import "testing"

func TestLabel_String(t *testing.T) {
	tests := []struct {
		l    Label
		want string
	}{
		{Noise, "noise"},
		{Unvisited, "unvisited"},
		{0, "cluster 0"},
		{12, "cluster 12"},
		{-7, "Label(-7)"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("Label(%d).String() = %q, want %q", int(tt.l), got, tt.want)
		}
	}
}

func TestLabel_ClusterID(t *testing.T) {
	if id, ok := Label(3).ClusterID(); !ok || id != 3 {
		t.Errorf("Label(3).ClusterID() = %d, %v", id, ok)
	}
	for _, l := range []Label{Noise, Unvisited} {
		if _, ok := l.ClusterID(); ok {
			t.Errorf("%v.ClusterID() reported a cluster", l)
		}
	}
}

func TestLabel_IsNoise(t *testing.T) {
	if !Noise.IsNoise() {
		t.Error("Noise.IsNoise() = false")
	}
	if Label(0).IsNoise() || Unvisited.IsNoise() {
		t.Error("only Noise is noise")
	}
}
