package rolling

import (
	"fmt"
)

type (
	// Pair groups one element from each of two parallel streams, see [Zip]
	// and [ApplyPairwise].
	Pair[A, B any] struct {
		First  A
		Second B
	}

	// applyOp materialises the window into a ring buffer, and invokes a
	// user function against a copied slice of it. Update cost is the cost
	// of the function.
	applyOp[T, R any] struct {
		buf *ringBuffer[T]
		fn  func([]T) R
	}

	// applyPairwiseOp maintains two synchronised window buffers over the
	// elements of two parallel streams.
	applyPairwiseOp[A, B, R any] struct {
		as *ringBuffer[A]
		bs *ringBuffer[B]
		fn func([]A, []B) R
	}
)

// NewApplyOp returns an [Op] applying fn to the materialised window. The
// slice passed to fn is a copy, ordered oldest first. A panic will occur
// if fn is nil.
func NewApplyOp[T, R any](fn func([]T) R) Op[T, R] {
	if fn == nil {
		panic(`rolling: apply: nil operation`)
	}
	return &applyOp[T, R]{
		buf: newRingBuffer[T](minRingCapacity),
		fn:  fn,
	}
}

// Apply aggregates fn over the materialised window of src, under w.
func Apply[T, R any](src Stream[T], w Window, fn func([]T) R) *Aggregator[T, R] {
	return mustRoll(src, w, NewApplyOp(fn))
}

// NewApplyPairwiseOp returns an [Op] over [Pair] elements, applying fn to
// the two materialised parallel windows. A panic will occur if fn is nil.
func NewApplyPairwiseOp[A, B, R any](fn func([]A, []B) R) Op[Pair[A, B], R] {
	if fn == nil {
		panic(`rolling: apply pairwise: nil operation`)
	}
	return &applyPairwiseOp[A, B, R]{
		as: newRingBuffer[A](minRingCapacity),
		bs: newRingBuffer[B](minRingCapacity),
		fn: fn,
	}
}

// ApplyPairwise aggregates fn over the synchronised windows of two
// parallel streams, under w. The streams must be of equal length: if one
// ends before the other, an error wrapping [ErrStreamMismatch] surfaces
// from [Aggregator.Next]. Use [Aggregator.Extend] with [Zip] to extend.
func ApplyPairwise[A, B, R any](a Stream[A], b Stream[B], w Window, fn func([]A, []B) R) *Aggregator[Pair[A, B], R] {
	return mustRoll(Zip(a, b), w, NewApplyPairwiseOp[A, B, R](fn))
}

// Zip pairs two streams element-wise. If one stream ends before the
// other, an error wrapping [ErrStreamMismatch] is returned in place of a
// value.
func Zip[A, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	if a == nil || b == nil {
		panic(`rolling: zip: nil stream`)
	}
	return func() (Pair[A, B], error) {
		av, err1 := a()
		bv, err2 := b()
		switch {
		case err1 == nil && err2 == nil:
			return Pair[A, B]{First: av, Second: bv}, nil
		case IsEndOfStream(err1) && IsEndOfStream(err2):
			return Pair[A, B]{}, ErrEndOfStream
		case err1 != nil && !IsEndOfStream(err1):
			return Pair[A, B]{}, err1
		case err2 != nil && !IsEndOfStream(err2):
			return Pair[A, B]{}, err2
		default:
			return Pair[A, B]{}, fmt.Errorf(`%w: streams ended at different points`, ErrStreamMismatch)
		}
	}
}

func (x *applyOp[T, R]) Add(value T) error {
	x.buf.PushBack(value)
	return nil
}

func (x *applyOp[T, R]) Remove() error {
	if x.buf.Len() == 0 {
		return fmt.Errorf(`%w: apply remove`, ErrEmptyWindow)
	}
	x.buf.PopFront()
	return nil
}

func (x *applyOp[T, R]) Value() (R, error) {
	if x.buf.Len() == 0 {
		var zero R
		return zero, fmt.Errorf(`%w: apply on empty window`, ErrInsufficientData)
	}
	return x.fn(x.buf.Slice()), nil
}

func (x *applyOp[T, R]) Count() int {
	return x.buf.Len()
}

func (x *applyPairwiseOp[A, B, R]) Add(value Pair[A, B]) error {
	x.as.PushBack(value.First)
	x.bs.PushBack(value.Second)
	return nil
}

func (x *applyPairwiseOp[A, B, R]) Remove() error {
	if x.as.Len() == 0 {
		return fmt.Errorf(`%w: apply pairwise remove`, ErrEmptyWindow)
	}
	x.as.PopFront()
	x.bs.PopFront()
	return nil
}

func (x *applyPairwiseOp[A, B, R]) Value() (R, error) {
	if x.as.Len() == 0 {
		var zero R
		return zero, fmt.Errorf(`%w: apply pairwise on empty window`, ErrInsufficientData)
	}
	return x.fn(x.as.Slice(), x.bs.Slice()), nil
}

func (x *applyPairwiseOp[A, B, R]) Count() int {
	return x.as.Len()
}
