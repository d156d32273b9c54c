package rolling

import (
	"fmt"
)

// medianOp keys an indexable skiplist by value, for O(log k) rank lookups,
// with a parallel ring buffer preserving arrival order for eviction.
type medianOp[T Real] struct {
	list  *indexableSkiplist[T]
	order *ringBuffer[T]
}

// NewMedianOp returns an [Op] yielding the window median: the middle value
// for odd counts, and the mean of the two middle values for even counts.
// Insert, evict, and query are all O(log k) expected.
func NewMedianOp[T Real]() Op[T, float64] {
	return &medianOp[T]{
		list:  newIndexableSkiplist[T](),
		order: newRingBuffer[T](minRingCapacity),
	}
}

// Median aggregates the window median of src, under w.
func Median[T Real](src Stream[T], w Window) *Aggregator[T, float64] {
	return mustRoll(src, w, NewMedianOp[T]())
}

func (x *medianOp[T]) Add(value T) error {
	x.list.Insert(value)
	x.order.PushBack(value)
	return nil
}

func (x *medianOp[T]) Remove() error {
	if x.order.Len() == 0 {
		return fmt.Errorf(`%w: median remove`, ErrEmptyWindow)
	}
	value := x.order.PopFront()
	if !x.list.Remove(value) {
		return fmt.Errorf(`%w: median eviction of untracked value`, ErrEmptyWindow)
	}
	return nil
}

func (x *medianOp[T]) Value() (float64, error) {
	n := x.list.Len()
	if n == 0 {
		return 0, fmt.Errorf(`%w: median of empty window`, ErrInsufficientData)
	}
	if n%2 != 0 {
		return float64(x.list.At(n / 2)), nil
	}
	return (float64(x.list.At(n/2-1)) + float64(x.list.At(n/2))) / 2, nil
}

func (x *medianOp[T]) Count() int {
	return x.list.Len()
}
