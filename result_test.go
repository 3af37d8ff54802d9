package dbscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testResult() *Result {
	return &Result{
		labels:   []Label{0, 1, Noise, 0, 1, 1},
		core:     []bool{true, true, false, false, true, false},
		clusters: 2,
	}
}

func TestResult_Accessors(t *testing.T) {
	r := testResult()

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, 2, r.ClusterCount())
	assert.Equal(t, Noise, r.LabelOf(2))
	assert.Equal(t, []int{0, 1, -1, 0, 1, 1}, r.Labels())
	assert.Equal(t, []int{0, 1, 4}, r.CoreIndices())
	assert.Equal(t, 1, r.NoiseCount())
	assert.Equal(t, []int{2, 3}, r.Sizes())
	assert.Equal(t, []int{1, 4, 5}, r.Members(1))
	assert.Nil(t, r.Members(2))
	assert.Nil(t, r.Members(-1))
}

func TestResult_LabelsIsACopy(t *testing.T) {
	r := testResult()
	labels := r.Labels()
	labels[0] = 42
	assert.Equal(t, Label(0), r.LabelOf(0))
}

func TestResult_AllIsReiterable(t *testing.T) {
	r := testResult()

	collect := func() []Label {
		var out []Label
		for i, l := range r.All() {
			assert.Equal(t, len(out), i)
			out = append(out, l)
		}
		return out
	}
	first := collect()
	second := collect()
	assert.Equal(t, r.labels, first)
	assert.Equal(t, first, second)

	var n int
	for range r.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
