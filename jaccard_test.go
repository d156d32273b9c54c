package rolling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveJaccard[T comparable](window []T, target []T) float64 {
	windowSet := make(map[T]struct{})
	for _, v := range window {
		windowSet[v] = struct{}{}
	}
	targetSet := make(map[T]struct{})
	for _, v := range target {
		targetSet[v] = struct{}{}
	}
	var intersection int
	union := len(targetSet)
	for v := range windowSet {
		if _, ok := targetSet[v]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func TestJaccardIndex_NaiveEquivalence(t *testing.T) {
	rnd := rand.New(rand.NewSource(100))
	values := randInts(rnd, 200, 10)
	target := []int{0, 2, 4, 6, 8}

	for _, kind := range []WindowKind{Fixed, Variable} {
		var windows [][]int
		if kind == Fixed {
			windows = naiveWindowsFixed(values, 6)
		} else {
			windows = naiveWindowsVariable(values, 6)
		}
		want := make([]float64, len(windows))
		for i, w := range windows {
			want[i] = naiveJaccard(w, target)
		}
		requireInEpsilonSlice(t, want, mustCollect(t, JaccardIndex(SliceStream(values), NewWindow(6, kind), target)))
	}
}

func TestJaccardIndex_DisjointAndIdentical(t *testing.T) {
	agg := JaccardIndex(SliceStream([]int{1, 2, 3}), NewWindow(3, Fixed), []int{7, 8})
	got := mustCollect(t, agg)
	require.Len(t, got, 1)
	assert.Zero(t, got[0])

	agg = JaccardIndex(SliceStream([]int{1, 2, 2, 1}), NewWindow(4, Fixed), []int{1, 2})
	got = mustCollect(t, agg)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0])
}

func TestJaccardIndex_EmptyTarget(t *testing.T) {
	op := NewJaccardIndexOp([]string(nil))
	v, err := op.Value()
	require.NoError(t, err)
	assert.Zero(t, v)
	require.NoError(t, op.Add("a"))
	v, err = op.Value()
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestJaccardOp_EmptyRemove(t *testing.T) {
	assert.ErrorIs(t, NewJaccardIndexOp([]int{1}).Remove(), ErrEmptyWindow)
}
