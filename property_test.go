package rolling

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveWindowsFixed recomputes every full window slice of values.
func naiveWindowsFixed[T any](values []T, size int) [][]T {
	var out [][]T
	for end := size; end <= len(values); end++ {
		out = append(out, values[end-size:end])
	}
	return out
}

// naiveWindowsVariable recomputes the growing prefix, steady state, and
// shrinking suffix window slices of values.
func naiveWindowsVariable[T any](values []T, size int) [][]T {
	var out [][]T
	n := len(values)
	for end := 1; end <= n; end++ {
		start := end - size
		if start < 0 {
			start = 0
		}
		out = append(out, values[start:end])
	}
	start := n - size
	if start < 0 {
		start = 0
	}
	for start++; start > 0 && start < n; start++ {
		out = append(out, values[start:n])
	}
	return out
}

// naiveWindowsIndexed recomputes, for each input, the window of all
// elements whose index lies within (current-span, current].
func naiveWindowsIndexed[T any](pairs []IndexedValue[T], span float64) [][]T {
	var out [][]T
	for i, p := range pairs {
		var window []T
		for j := 0; j <= i; j++ {
			if p.Index-pairs[j].Index < span {
				window = append(window, pairs[j].Value)
			}
		}
		out = append(out, window)
	}
	return out
}

// mustCollect drains the aggregator, requiring clean exhaustion.
func mustCollect[T, R any](t *testing.T, agg *Aggregator[T, R]) []R {
	t.Helper()
	out, err := agg.Collect()
	require.NoError(t, err)
	return out
}

// requireInEpsilonSlice compares float sequences within 1e-9 relative
// tolerance, falling back to 1e-9 absolute for near-zero expectations.
func requireInEpsilonSlice(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		tolerance := 1e-9
		if abs := math.Abs(want[i]); abs > 1 {
			tolerance *= abs
		}
		assert.InDelta(t, want[i], got[i], tolerance, "index %d", i)
	}
}

func randFloats(rnd *rand.Rand, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = rnd.NormFloat64() * 100
	}
	return values
}

func randInts(rnd *rand.Rand, n, bound int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = rnd.Intn(bound)
	}
	return values
}

// randIndexed produces pairs with non-decreasing, duplicate-tolerant
// float indices.
func randIndexed(rnd *rand.Rand, n int) []IndexedValue[int] {
	pairs := make([]IndexedValue[int], n)
	var index float64
	for i := range pairs {
		if rnd.Intn(4) != 0 {
			index += rnd.Float64() * 3
		}
		pairs[i] = IndexedValue[int]{Index: index, Value: rnd.Intn(10)}
	}
	return pairs
}

func TestLengthLaw_Fixed(t *testing.T) {
	for _, tc := range []struct{ n, k, want int }{
		{0, 1, 0},
		{3, 5, 0},
		{5, 5, 1},
		{7, 3, 5},
		{10, 1, 10},
	} {
		t.Run(fmt.Sprintf("n=%d,k=%d", tc.n, tc.k), func(t *testing.T) {
			agg := Sum(SliceStream(make([]int, tc.n)), NewWindow(tc.k, Fixed))
			assert.Len(t, mustCollect(t, agg), tc.want)
		})
	}
}

func TestLengthLaw_Variable(t *testing.T) {
	for _, tc := range []struct{ n, k, want int }{
		{0, 3, 0},
		{1, 3, 1},
		{2, 5, 3},
		{7, 3, 9},
		{10, 1, 10},
	} {
		t.Run(fmt.Sprintf("n=%d,k=%d", tc.n, tc.k), func(t *testing.T) {
			agg := Sum(SliceStream(make([]int, tc.n)), NewWindow(tc.k, Variable))
			assert.Len(t, mustCollect(t, agg), tc.want)
		})
	}
}

func TestLengthLaw_Indexed(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pairs := randIndexed(rnd, 50)
	agg, err := RollIndexed(SliceStream(pairs), NewIndexedWindow(5), NewSumOp[int]())
	require.NoError(t, err)
	assert.Len(t, mustCollect(t, agg), len(pairs))
}

func TestExtendLaw_Fixed(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	values := randInts(rnd, 20, 100)
	w := NewWindow(4, Fixed)
	want := mustCollect(t, Sum(SliceStream(values), w))

	for split := 0; split <= len(values); split++ {
		t.Run(fmt.Sprintf("split=%d", split), func(t *testing.T) {
			// fully consume the prefix, then extend with the remainder
			agg := Sum(SliceStream(values[:split]), w)
			got := mustCollect(t, agg)
			agg.Extend(SliceStream(values[split:]))
			got = append(got, mustCollect(t, agg)...)
			assert.Equal(t, want, got)
		})
	}
}

func TestExtendLaw_Variable(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	values := randInts(rnd, 15, 100)
	w := NewWindow(4, Variable)
	want := mustCollect(t, Max(SliceStream(values), w))

	for split := 0; split <= len(values); split++ {
		t.Run(fmt.Sprintf("split=%d", split), func(t *testing.T) {
			// extend before consumption begins
			agg := Max(SliceStream(values[:split]), w)
			agg.Extend(SliceStream(values[split:]))
			assert.Equal(t, want, mustCollect(t, agg))
		})
	}
}

func TestExtendLaw_Indexed(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	pairs := randIndexed(rnd, 30)
	w := NewIndexedWindow(4)
	wantAgg, err := RollIndexed(SliceStream(pairs), w, NewSumOp[int]())
	require.NoError(t, err)
	want := mustCollect(t, wantAgg)

	for _, split := range []int{0, 7, 15, 30} {
		agg, err := RollIndexed(SliceStream(pairs[:split]), w, NewSumOp[int]())
		require.NoError(t, err)
		got := mustCollect(t, agg)
		agg.ExtendIndexed(SliceStream(pairs[split:]))
		got = append(got, mustCollect(t, agg)...)
		assert.Equal(t, want, got, "split=%d", split)
	}
}

func TestEvictionInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	values := randInts(rnd, 40, 10)

	for _, kind := range []WindowKind{Fixed, Variable} {
		t.Run(kind.String(), func(t *testing.T) {
			agg := Nunique(SliceStream(values), NewWindow(6, kind))
			for {
				if _, err := agg.Next(); err != nil {
					require.ErrorIs(t, err, ErrEndOfStream)
					break
				}
				assert.LessOrEqual(t, agg.Count(), 6)
			}
		})
	}

	t.Run("indexed", func(t *testing.T) {
		pairs := randIndexed(rnd, 40)
		agg, err := RollIndexed(SliceStream(pairs), NewIndexedWindow(3), NewNuniqueOp[int]())
		require.NoError(t, err)
		var i int
		for {
			if _, err := agg.Next(); err != nil {
				require.ErrorIs(t, err, ErrEndOfStream)
				break
			}
			// every retained index is within span of the newest
			oldest := agg.indices.Front()
			assert.Less(t, pairs[i].Index-oldest, 3.0)
			i++
		}
	})
}
