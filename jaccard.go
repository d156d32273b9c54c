package rolling

import (
	"fmt"
)

// jaccardOp tracks the window as a value -> count multiset, with running
// intersection and union cardinalities against a fixed target set, so each
// mutation is O(1).
type jaccardOp[T comparable] struct {
	counts       map[T]int
	order        *ringBuffer[T]
	target       map[T]struct{}
	intersection int
	union        int
}

// NewJaccardIndexOp returns an [Op] yielding the Jaccard similarity
// |window ∩ target| / |window ∪ target| of the distinct windowed values
// against the target set, or 0 when the union is empty. The target is
// copied (and deduplicated).
func NewJaccardIndexOp[T comparable](target []T) Op[T, float64] {
	set := make(map[T]struct{}, len(target))
	for _, value := range target {
		set[value] = struct{}{}
	}
	return &jaccardOp[T]{
		counts: make(map[T]int),
		order:  newRingBuffer[T](minRingCapacity),
		target: set,
		union:  len(set),
	}
}

// JaccardIndex aggregates the Jaccard similarity of the window over src
// against target, under w.
func JaccardIndex[T comparable](src Stream[T], w Window, target []T) *Aggregator[T, float64] {
	return mustRoll(src, w, NewJaccardIndexOp(target))
}

func (x *jaccardOp[T]) Add(value T) error {
	c := x.counts[value]
	x.counts[value] = c + 1
	x.order.PushBack(value)
	if c == 0 {
		if _, ok := x.target[value]; ok {
			x.intersection++
		} else {
			x.union++
		}
	}
	return nil
}

func (x *jaccardOp[T]) Remove() error {
	if x.order.Len() == 0 {
		return fmt.Errorf(`%w: jaccard remove`, ErrEmptyWindow)
	}
	value := x.order.PopFront()
	c := x.counts[value]
	if c == 1 {
		delete(x.counts, value)
		if _, ok := x.target[value]; ok {
			x.intersection--
		} else {
			x.union--
		}
	} else {
		x.counts[value] = c - 1
	}
	return nil
}

func (x *jaccardOp[T]) Value() (float64, error) {
	if x.union == 0 {
		return 0, nil
	}
	return float64(x.intersection) / float64(x.union), nil
}

func (x *jaccardOp[T]) Count() int {
	return x.order.Len()
}
