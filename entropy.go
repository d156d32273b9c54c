package rolling

import (
	"fmt"
	"math"
)

type (
	// EntropyOption models optional configuration for [Entropy].
	EntropyOption[T comparable] func(*entropyConfig[T])

	entropyConfig[T comparable] struct {
		base      float64
		reference map[T]float64
	}

	// entropyOp maintains value -> count, plus the running sums
	// s = sum(c*ln(c)) and (reference mode) p = sum(c*ln(ref(v))), from
	// which the (relative) entropy of a full window derives in O(1).
	entropyOp[T comparable] struct {
		counts    map[T]int
		order     *ringBuffer[T]
		reference map[T]float64
		s         float64
		p         float64
		logBase   float64
		size      int
	}
)

// WithEntropyBase sets the logarithm base of [Entropy] (default e). A panic
// will occur unless base is positive and != 1.
func WithEntropyBase[T comparable](base float64) EntropyOption[T] {
	if !(base > 0) || base == 1 {
		panic(fmt.Errorf(`rolling: invalid entropy base: %v`, base))
	}
	return func(c *entropyConfig[T]) {
		c.base = base
	}
}

// WithEntropyReference supplies a reference distribution, switching
// [Entropy] to the relative entropy (Kullback-Leibler divergence) of the
// window against it. Observing a value with zero (or absent) reference
// probability surfaces an error wrapping [ErrDomain]. The mapping is
// copied.
func WithEntropyReference[T comparable](reference map[T]float64) EntropyOption[T] {
	ref := make(map[T]float64, len(reference))
	for value, prob := range reference {
		ref[value] = prob
	}
	return func(c *entropyConfig[T]) {
		c.reference = ref
	}
}

// NewEntropyOp returns an [Op] yielding the Shannon entropy of a full
// window of the given size, in the configured logarithm base, or the
// relative entropy if a reference distribution was supplied. Each update
// is O(1).
func NewEntropyOp[T comparable](size int, opts ...EntropyOption[T]) Op[T, float64] {
	if size < 1 {
		panic(fmt.Errorf(`rolling: entropy window size must be positive: %d`, size))
	}
	c := entropyConfig[T]{base: math.E}
	for _, opt := range opts {
		opt(&c)
	}
	return &entropyOp[T]{
		counts:    make(map[T]int),
		order:     newRingBuffer[T](minRingCapacity),
		reference: c.reference,
		logBase:   math.Log(c.base),
		size:      size,
	}
}

// Entropy aggregates the Shannon entropy (or, with
// [WithEntropyReference], the relative entropy) of src, under w. Only
// [Fixed] windows are supported; anything else returns an error wrapping
// [ErrWindowType].
func Entropy[T comparable](src Stream[T], w Window, opts ...EntropyOption[T]) (*Aggregator[T, float64], error) {
	w.validate()
	if w.Kind != Fixed {
		return nil, fmt.Errorf(`%w: entropy requires a fixed window, got %v`, ErrWindowType, w.Kind)
	}
	return Roll(src, w, NewEntropyOp[T](w.Size, opts...))
}

func (x *entropyOp[T]) validateWindow(w Window) error {
	if w.Kind != Fixed {
		return fmt.Errorf(`%w: entropy requires a fixed window, got %v`, ErrWindowType, w.Kind)
	}
	if w.Size != x.size {
		return fmt.Errorf(`%w: entropy op sized for %d, window is %d`, ErrWindowType, x.size, w.Size)
	}
	return nil
}

// xlogx returns c*ln(c), with the 0*ln(0) = 0 convention.
func xlogx(c int) float64 {
	if c == 0 {
		return 0
	}
	f := float64(c)
	return f * math.Log(f)
}

func (x *entropyOp[T]) Add(value T) error {
	if x.reference != nil {
		prob, ok := x.reference[value]
		if !ok || !(prob > 0) {
			return fmt.Errorf(`%w: zero reference probability for observed value %v`, ErrDomain, value)
		}
		x.p += math.Log(prob)
	}
	c := x.counts[value]
	x.counts[value] = c + 1
	x.s += xlogx(c+1) - xlogx(c)
	x.order.PushBack(value)
	return nil
}

func (x *entropyOp[T]) Remove() error {
	if x.order.Len() == 0 {
		return fmt.Errorf(`%w: entropy remove`, ErrEmptyWindow)
	}
	value := x.order.PopFront()
	c := x.counts[value]
	if c == 1 {
		delete(x.counts, value)
	} else {
		x.counts[value] = c - 1
	}
	x.s += xlogx(c-1) - xlogx(c)
	if x.reference != nil {
		x.p -= math.Log(x.reference[value])
	}
	return nil
}

func (x *entropyOp[T]) Value() (float64, error) {
	if x.order.Len() != x.size {
		return 0, fmt.Errorf(`%w: entropy requires a full window of %d values, have %d`, ErrInsufficientData, x.size, x.order.Len())
	}
	k := float64(x.size)
	if x.reference != nil {
		// sum((c/k)*ln(c/(k*p))) = s/k - ln(k) - p/k
		return (x.s/k - math.Log(k) - x.p/k) / x.logBase, nil
	}
	// -sum((c/k)*ln(c/k)) = ln(k) - s/k
	return (math.Log(k) - x.s/k) / x.logBase, nil
}

func (x *entropyOp[T]) Count() int {
	return x.order.Len()
}
