package rolling

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type (
	// anyOp tracks the birth index of the most recent truthy value; the
	// window contains a truthy value iff that index is still windowed.
	// Constant memory.
	anyOp struct {
		obs      int
		n        int
		lastTrue int
	}

	// allOp tracks the birth index of the most recent falsy value.
	// Constant memory.
	allOp struct {
		obs       int
		n         int
		lastFalse int
	}

	// monotonicOp tracks the previous value and the lengths of the maximal
	// non-decreasing and non-increasing suffix runs. Eviction only shrinks
	// the window, so the run lengths never need to flip back to covering
	// the full window within the same contiguous input. Constant memory.
	monotonicOp[T constraints.Ordered] struct {
		prev      T
		n         int
		incStreak int
		decStreak int
	}
)

// NewAnyOp returns an [Op] reporting whether any windowed value is true.
func NewAnyOp() Op[bool, bool] {
	return &anyOp{lastTrue: -1}
}

// NewAllOp returns an [Op] reporting whether all windowed values are true.
func NewAllOp() Op[bool, bool] {
	return &allOp{lastFalse: -1}
}

// NewMonotonicOp returns an [Op] reporting whether the windowed values are
// monotonic (non-decreasing or non-increasing, in arrival order). Runs of
// equal values count as both, so a constant window is monotonic.
func NewMonotonicOp[T constraints.Ordered]() Op[T, bool] {
	return &monotonicOp[T]{}
}

// Any aggregates whether any windowed value of src is true, under w.
func Any(src Stream[bool], w Window) *Aggregator[bool, bool] {
	return mustRoll(src, w, NewAnyOp())
}

// All aggregates whether all windowed values of src are true, under w.
func All(src Stream[bool], w Window) *Aggregator[bool, bool] {
	return mustRoll(src, w, NewAllOp())
}

// Monotonic aggregates whether the windowed values of src are monotonic,
// under w.
func Monotonic[T constraints.Ordered](src Stream[T], w Window) *Aggregator[T, bool] {
	return mustRoll(src, w, NewMonotonicOp[T]())
}

func (x *anyOp) Add(value bool) error {
	if value {
		x.lastTrue = x.obs
	}
	x.obs++
	x.n++
	return nil
}

func (x *anyOp) Remove() error {
	if x.n == 0 {
		return fmt.Errorf(`%w: any remove`, ErrEmptyWindow)
	}
	x.n--
	return nil
}

func (x *anyOp) Value() (bool, error) {
	return x.lastTrue >= x.obs-x.n, nil
}

func (x *anyOp) Count() int {
	return x.n
}

func (x *allOp) Add(value bool) error {
	if !value {
		x.lastFalse = x.obs
	}
	x.obs++
	x.n++
	return nil
}

func (x *allOp) Remove() error {
	if x.n == 0 {
		return fmt.Errorf(`%w: all remove`, ErrEmptyWindow)
	}
	x.n--
	return nil
}

func (x *allOp) Value() (bool, error) {
	return x.lastFalse < x.obs-x.n, nil
}

func (x *allOp) Count() int {
	return x.n
}

func (x *monotonicOp[T]) Add(value T) error {
	if x.n == 0 {
		x.incStreak = 1
		x.decStreak = 1
	} else {
		if value >= x.prev {
			x.incStreak++
		} else {
			x.incStreak = 1
		}
		if value <= x.prev {
			x.decStreak++
		} else {
			x.decStreak = 1
		}
	}
	x.prev = value
	x.n++
	return nil
}

func (x *monotonicOp[T]) Remove() error {
	if x.n == 0 {
		return fmt.Errorf(`%w: monotonic remove`, ErrEmptyWindow)
	}
	x.n--
	return nil
}

func (x *monotonicOp[T]) Value() (bool, error) {
	return x.incStreak >= x.n || x.decStreak >= x.n, nil
}

func (x *monotonicOp[T]) Count() int {
	return x.n
}
