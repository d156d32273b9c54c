package rolling

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type (
	// extremumEntry tags a value with its birth index (total values
	// ingested prior), so eviction can tell whether the oldest windowed
	// element is still represented in the deque.
	extremumEntry[T constraints.Ordered] struct {
		value T
		obs   int
	}

	// extremumOp implements the ascending-minima / descending-maxima
	// algorithm: the deque holds, oldest first, exactly the windowed
	// elements not dominated by a later-arriving, equal-or-better element.
	// The front is always the current extremum.
	extremumOp[T constraints.Ordered] struct {
		deque *ringBuffer[extremumEntry[T]]
		obs   int
		n     int
		max   bool
	}
)

// NewMinOp returns an [Op] yielding the window minimum, in O(1) amortised
// time per step, via a monotonic deque.
func NewMinOp[T constraints.Ordered]() Op[T, T] {
	return &extremumOp[T]{deque: newRingBuffer[extremumEntry[T]](minRingCapacity)}
}

// NewMaxOp returns an [Op] yielding the window maximum, in O(1) amortised
// time per step, via a monotonic deque.
func NewMaxOp[T constraints.Ordered]() Op[T, T] {
	return &extremumOp[T]{
		deque: newRingBuffer[extremumEntry[T]](minRingCapacity),
		max:   true,
	}
}

// Min aggregates the window minimum of src, under w.
func Min[T constraints.Ordered](src Stream[T], w Window) *Aggregator[T, T] {
	return mustRoll(src, w, NewMinOp[T]())
}

// Max aggregates the window maximum of src, under w.
func Max[T constraints.Ordered](src Stream[T], w Window) *Aggregator[T, T] {
	return mustRoll(src, w, NewMaxOp[T]())
}

func (x *extremumOp[T]) Add(value T) error {
	// drop dominated entries from the back, preserving strict monotonicity
	for x.deque.Len() != 0 {
		if back := x.deque.Back(); (x.max && back.value <= value) || (!x.max && back.value >= value) {
			x.deque.PopBack()
			continue
		}
		break
	}
	x.deque.PushBack(extremumEntry[T]{value: value, obs: x.obs})
	x.obs++
	x.n++
	return nil
}

func (x *extremumOp[T]) Remove() error {
	if x.n == 0 {
		return fmt.Errorf(`%w: extremum remove`, ErrEmptyWindow)
	}
	// the evicted element is the oldest windowed one; it is only present
	// in the deque if it was never superseded
	if x.deque.Front().obs == x.obs-x.n {
		x.deque.PopFront()
	}
	x.n--
	return nil
}

func (x *extremumOp[T]) Value() (T, error) {
	if x.n == 0 {
		var zero T
		return zero, fmt.Errorf(`%w: extremum of empty window`, ErrInsufficientData)
	}
	return x.deque.Front().value, nil
}

func (x *extremumOp[T]) Count() int {
	return x.n
}
