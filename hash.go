package rolling

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

const (
	defaultHashBase = 256

	// defaultHashModulus is the Mersenne prime 2^31-1.
	defaultHashModulus = 2147483647
)

type (
	// HashOption models optional configuration for [PolynomialHash].
	HashOption func(*hashConfig)

	hashConfig struct {
		base    uint64
		modulus uint64
	}

	// polynomialHashOp maintains the modular polynomial hash
	// sum(v_i * base^(n-1-i)) mod modulus of the windowed values: appends
	// multiply the register through, and evictions subtract the oldest
	// value's base^(n-1) contribution.
	polynomialHashOp[T constraints.Integer] struct {
		buf     *ringBuffer[uint64]
		hash    uint64
		base    uint64
		modulus uint64
	}
)

// WithHashBase sets the polynomial base (default 256). A panic will occur
// if base is zero.
func WithHashBase(base uint64) HashOption {
	if base == 0 {
		panic(`rolling: hash base must be positive`)
	}
	return func(c *hashConfig) {
		c.base = base
	}
}

// WithHashModulus sets the hash modulus (default the Mersenne prime
// 2^31-1). A panic will occur if modulus is less than 2.
func WithHashModulus(modulus uint64) HashOption {
	if modulus < 2 {
		panic(`rolling: hash modulus must be at least 2`)
	}
	return func(c *hashConfig) {
		c.modulus = modulus
	}
}

// NewPolynomialHashOp returns an [Op] yielding the rolling polynomial hash
// of the window. Values must lie in [0, modulus); violations surface as
// errors wrapping [ErrHashRange]. Appends are O(1); evictions are O(log k)
// for the modular exponentiation.
func NewPolynomialHashOp[T constraints.Integer](opts ...HashOption) Op[T, uint64] {
	c := hashConfig{base: defaultHashBase, modulus: defaultHashModulus}
	for _, opt := range opts {
		opt(&c)
	}
	return &polynomialHashOp[T]{
		buf:     newRingBuffer[uint64](minRingCapacity),
		base:    c.base % c.modulus,
		modulus: c.modulus,
	}
}

// PolynomialHash aggregates the rolling polynomial hash of src, under w,
// see [NewPolynomialHashOp].
func PolynomialHash[T constraints.Integer](src Stream[T], w Window, opts ...HashOption) *Aggregator[T, uint64] {
	return mustRoll(src, w, NewPolynomialHashOp[T](opts...))
}

// mulmod returns a*b mod m, without overflow.
func mulmod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

// addmod returns a+b mod m, for a, b < m, without overflow.
func addmod(a, b, m uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 || s >= m {
		s -= m
	}
	return s
}

// submod returns a-b mod m, for a, b < m.
func submod(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + (m - b)
}

// powmod returns base^exp mod m, by binary exponentiation.
func powmod(base, exp, m uint64) uint64 {
	result := uint64(1 % m)
	base %= m
	for exp != 0 {
		if exp&1 != 0 {
			result = mulmod(result, base, m)
		}
		base = mulmod(base, base, m)
		exp >>= 1
	}
	return result
}

func (x *polynomialHashOp[T]) Add(value T) error {
	if value < 0 || uint64(value) >= x.modulus {
		return fmt.Errorf(`%w: %v not in [0, %d)`, ErrHashRange, value, x.modulus)
	}
	v := uint64(value)
	x.hash = addmod(mulmod(x.hash, x.base, x.modulus), v, x.modulus)
	x.buf.PushBack(v)
	return nil
}

func (x *polynomialHashOp[T]) Remove() error {
	n := x.buf.Len()
	if n == 0 {
		return fmt.Errorf(`%w: hash remove`, ErrEmptyWindow)
	}
	v := x.buf.PopFront()
	shift := powmod(x.base, uint64(n-1), x.modulus)
	x.hash = submod(x.hash, mulmod(v, shift, x.modulus), x.modulus)
	return nil
}

func (x *polynomialHashOp[T]) Value() (uint64, error) {
	if x.buf.Len() == 0 {
		return 0, fmt.Errorf(`%w: hash of empty window`, ErrInsufficientData)
	}
	return x.hash, nil
}

func (x *polynomialHashOp[T]) Count() int {
	return x.buf.Len()
}
