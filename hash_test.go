package rolling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naivePolynomialHash(window []uint64, base, modulus uint64) uint64 {
	var h uint64
	for _, v := range window {
		h = addmod(mulmod(h, base, modulus), v%modulus, modulus)
	}
	return h
}

func TestPolynomialHash_NaiveEquivalence(t *testing.T) {
	rnd := rand.New(rand.NewSource(90))
	values := make([]uint64, 200)
	for i := range values {
		values[i] = uint64(rnd.Intn(1 << 16))
	}

	for _, kind := range []WindowKind{Fixed, Variable} {
		var windows [][]uint64
		if kind == Fixed {
			windows = naiveWindowsFixed(values, 8)
		} else {
			windows = naiveWindowsVariable(values, 8)
		}
		got := mustCollect(t, PolynomialHash(SliceStream(values), NewWindow(8, kind)))
		require.Len(t, got, len(windows))
		for i, w := range windows {
			assert.Equal(t, naivePolynomialHash(w, defaultHashBase, defaultHashModulus), got[i], "kind=%v index=%d", kind, i)
		}
	}
}

func TestPolynomialHash_CustomParameters(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}
	const base, modulus = 31, 1_000_000_007
	windows := naiveWindowsFixed(values, 3)
	got := mustCollect(t, PolynomialHash(
		SliceStream(values),
		NewWindow(3, Fixed),
		WithHashBase(base),
		WithHashModulus(modulus),
	))
	require.Len(t, got, len(windows))
	for i, w := range windows {
		u := make([]uint64, len(w))
		for j, v := range w {
			u[j] = uint64(v)
		}
		assert.Equal(t, naivePolynomialHash(u, base, modulus), got[i], "index %d", i)
	}
}

func TestPolynomialHash_LargeModulus(t *testing.T) {
	// near the top of uint64, exercising the overflow-safe modular ops
	const modulus = 1<<63 - 25 // prime
	values := []uint64{1 << 62, 1<<63 - 26, 12345, 0, 1 << 61}
	windows := naiveWindowsFixed(values, 2)
	got := mustCollect(t, PolynomialHash(
		SliceStream(values),
		NewWindow(2, Fixed),
		WithHashModulus(modulus),
	))
	require.Len(t, got, len(windows))
	for i, w := range windows {
		assert.Equal(t, naivePolynomialHash(w, defaultHashBase, modulus), got[i], "index %d", i)
	}
}

func TestPolynomialHash_RangeError(t *testing.T) {
	agg := PolynomialHash(SliceStream([]int{1, -1}), NewWindow(1, Fixed))
	_, err := agg.Next()
	require.NoError(t, err)
	_, err = agg.Next()
	assert.ErrorIs(t, err, ErrHashRange)

	agg = PolynomialHash(SliceStream([]int{defaultHashModulus}), NewWindow(1, Fixed))
	_, err = agg.Next()
	assert.ErrorIs(t, err, ErrHashRange)
}

func TestHashOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { WithHashBase(0) })
	assert.Panics(t, func() { WithHashModulus(1) })
}

func TestModularArithmetic(t *testing.T) {
	const m = 1<<61 - 1
	assert.Equal(t, uint64(0), mulmod(m, m, m))
	assert.Equal(t, uint64(1), mulmod(m+1, 1, m))
	assert.Equal(t, uint64(m-1), addmod(m-2, 1, m))
	assert.Equal(t, uint64(0), addmod(m-1, 1, m))
	assert.Equal(t, uint64(m-1), submod(0, 1, m))
	assert.Equal(t, uint64(1), powmod(2, 0, m))
	assert.Equal(t, uint64(1024), powmod(2, 10, m))
	assert.Equal(t, powmod(3, 100, m), mulmod(powmod(3, 60, m), powmod(3, 40, m), m))
}
