package rolling

import (
	"fmt"
)

type (
	// nuniqueOp maintains a value -> count multiset index.
	nuniqueOp[T comparable] struct {
		counts map[T]int
		order  *ringBuffer[T]
	}

	// ModeResult is the aggregate of [Mode]: the set of most-frequent
	// windowed values (in unspecified order), and their shared frequency.
	// An empty window yields an empty Values and a zero Count.
	ModeResult[T comparable] struct {
		Values []T
		Count  int
	}

	// modeOp is a bidirectional counter: value -> count, and
	// count -> set-of-values, with the current maximum count tracked so
	// both mutations and queries are O(1).
	modeOp[T comparable] struct {
		counts   map[T]int
		buckets  map[int]map[T]struct{}
		order    *ringBuffer[T]
		maxCount int
	}
)

// NewNuniqueOp returns an [Op] yielding the number of distinct windowed
// values.
func NewNuniqueOp[T comparable]() Op[T, int] {
	return &nuniqueOp[T]{
		counts: make(map[T]int),
		order:  newRingBuffer[T](minRingCapacity),
	}
}

// Nunique aggregates the distinct value count of src, under w.
func Nunique[T comparable](src Stream[T], w Window) *Aggregator[T, int] {
	return mustRoll(src, w, NewNuniqueOp[T]())
}

// NewModeOp returns an [Op] yielding the most frequent windowed values,
// see [ModeResult].
func NewModeOp[T comparable]() Op[T, ModeResult[T]] {
	return &modeOp[T]{
		counts:  make(map[T]int),
		buckets: make(map[int]map[T]struct{}),
		order:   newRingBuffer[T](minRingCapacity),
	}
}

// Mode aggregates the most frequent values of src, under w.
func Mode[T comparable](src Stream[T], w Window) *Aggregator[T, ModeResult[T]] {
	return mustRoll(src, w, NewModeOp[T]())
}

func (x *nuniqueOp[T]) Add(value T) error {
	x.counts[value]++
	x.order.PushBack(value)
	return nil
}

func (x *nuniqueOp[T]) Remove() error {
	if x.order.Len() == 0 {
		return fmt.Errorf(`%w: nunique remove`, ErrEmptyWindow)
	}
	value := x.order.PopFront()
	if c := x.counts[value]; c == 1 {
		delete(x.counts, value)
	} else {
		x.counts[value] = c - 1
	}
	return nil
}

func (x *nuniqueOp[T]) Value() (int, error) {
	return len(x.counts), nil
}

func (x *nuniqueOp[T]) Count() int {
	return x.order.Len()
}

func (x *modeOp[T]) promote(value T, from, to int) {
	if from != 0 {
		bucket := x.buckets[from]
		delete(bucket, value)
		if len(bucket) == 0 {
			delete(x.buckets, from)
		}
	}
	if to != 0 {
		bucket := x.buckets[to]
		if bucket == nil {
			bucket = make(map[T]struct{})
			x.buckets[to] = bucket
		}
		bucket[value] = struct{}{}
	}
}

func (x *modeOp[T]) Add(value T) error {
	c := x.counts[value]
	x.counts[value] = c + 1
	x.promote(value, c, c+1)
	x.order.PushBack(value)
	if c+1 > x.maxCount {
		x.maxCount = c + 1
	}
	return nil
}

func (x *modeOp[T]) Remove() error {
	if x.order.Len() == 0 {
		return fmt.Errorf(`%w: mode remove`, ErrEmptyWindow)
	}
	value := x.order.PopFront()
	c := x.counts[value]
	if c == 1 {
		delete(x.counts, value)
	} else {
		x.counts[value] = c - 1
	}
	x.promote(value, c, c-1)
	// a demotion from the top bucket can only lower the maximum by one
	if c == x.maxCount && x.buckets[c] == nil {
		x.maxCount--
	}
	return nil
}

func (x *modeOp[T]) Value() (ModeResult[T], error) {
	result := ModeResult[T]{Count: x.maxCount}
	if bucket := x.buckets[x.maxCount]; len(bucket) != 0 {
		result.Values = make([]T, 0, len(bucket))
		for value := range bucket {
			result.Values = append(result.Values, value)
		}
	}
	return result, nil
}

func (x *modeOp[T]) Count() int {
	return x.order.Len()
}
