package rolling

import (
	"fmt"
)

// matchOp retains the window buffer, comparing it against a fixed target
// sequence. Worst-case O(k) per query, amortised lower when a mismatch is
// found early.
type matchOp[T comparable] struct {
	target []T
	window *ringBuffer[T]
}

// NewMatchOp returns an [Op] reporting whether the window equals the
// target sequence, element-wise. The target is copied.
func NewMatchOp[T comparable](target []T) Op[T, bool] {
	return &matchOp[T]{
		target: append([]T(nil), target...),
		window: newRingBuffer[T](len(target)),
	}
}

// Match aggregates whether the window over src equals target, under w.
func Match[T comparable](src Stream[T], w Window, target []T) *Aggregator[T, bool] {
	return mustRoll(src, w, NewMatchOp(target))
}

func (x *matchOp[T]) Add(value T) error {
	x.window.PushBack(value)
	return nil
}

func (x *matchOp[T]) Remove() error {
	if x.window.Len() == 0 {
		return fmt.Errorf(`%w: match remove`, ErrEmptyWindow)
	}
	x.window.PopFront()
	return nil
}

func (x *matchOp[T]) Value() (bool, error) {
	if x.window.Len() != len(x.target) {
		return false, nil
	}
	for i, want := range x.target {
		if x.window.Get(i) != want {
			return false, nil
		}
	}
	return true, nil
}

func (x *matchOp[T]) Count() int {
	return x.window.Len()
}
