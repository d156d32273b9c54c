package rolling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveMin[T int | float64](window []T) T {
	m := window[0]
	for _, v := range window[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func naiveMax[T int | float64](window []T) T {
	m := window[0]
	for _, v := range window[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func TestMax_Scenario(t *testing.T) {
	agg := Max(SliceStream([]int{3, 1, 4, 1, 5, 9, 2}), NewWindow(5, Fixed))
	assert.Equal(t, []int{5, 9, 9}, mustCollect(t, agg))
}

func TestMinMax_NaiveEquivalence(t *testing.T) {
	rnd := rand.New(rand.NewSource(10))
	values := randInts(rnd, 200, 50)

	for _, size := range []int{1, 2, 5, 17} {
		for _, kind := range []WindowKind{Fixed, Variable} {
			var windows [][]int
			if kind == Fixed {
				windows = naiveWindowsFixed(values, size)
			} else {
				windows = naiveWindowsVariable(values, size)
			}

			got := mustCollect(t, Min(SliceStream(values), NewWindow(size, kind)))
			require.Len(t, got, len(windows))
			for i, w := range windows {
				assert.Equal(t, naiveMin(w), got[i], "min size=%d kind=%v index=%d", size, kind, i)
			}

			got = mustCollect(t, Max(SliceStream(values), NewWindow(size, kind)))
			for i, w := range windows {
				assert.Equal(t, naiveMax(w), got[i], "max size=%d kind=%v index=%d", size, kind, i)
			}
		}
	}
}

func TestMinMax_Indexed(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	pairs := randIndexed(rnd, 100)
	windows := naiveWindowsIndexed(pairs, 4)

	agg, err := RollIndexed(SliceStream(pairs), NewIndexedWindow(4), NewMaxOp[int]())
	require.NoError(t, err)
	got := mustCollect(t, agg)
	require.Len(t, got, len(windows))
	for i, w := range windows {
		assert.Equal(t, naiveMax(w), got[i], "index=%d", i)
	}
}

func TestMinMax_Strings(t *testing.T) {
	agg := Min(SliceStream([]string{"pear", "apple", "plum", "fig"}), NewWindow(2, Fixed))
	assert.Equal(t, []string{"apple", "apple", "fig"}, mustCollect(t, agg))
}

func TestExtremumOp_Errors(t *testing.T) {
	op := NewMinOp[int]()
	assert.ErrorIs(t, op.Remove(), ErrEmptyWindow)
	_, err := op.Value()
	assert.ErrorIs(t, err, ErrInsufficientData)
}
