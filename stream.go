package rolling

import (
	"errors"
	"iter"
)

type (
	// Stream models a lazy, single-pass producer of values. Each call
	// returns the next value, or an error. After the final value, calls
	// must return an error satisfying errors.Is against [ErrEndOfStream],
	// and must continue to do so on subsequent calls.
	//
	// Streams are pull-based: no work happens until the consumer requests
	// the next value. They are not safe for concurrent use.
	Stream[T any] func() (T, error)

	// IndexedValue pairs a value with its index, for [Indexed] windows, see
	// [WindowKind]. Indices must be monotonically non-decreasing.
	IndexedValue[T any] struct {
		// Index positions the value on the window axis.
		Index float64
		// Value is the stream element proper.
		Value T
	}

	// teeState is the shared cursor state behind Tee.
	teeState[T any] struct {
		src     Stream[T]
		pending []*ringBuffer[T]
		done    error
	}
)

// SliceStream returns a Stream yielding the elements of s, in order. The
// slice is not copied; it must not be modified while the stream is in use.
func SliceStream[T any](s []T) Stream[T] {
	var i int
	return func() (T, error) {
		if i >= len(s) {
			var zero T
			return zero, ErrEndOfStream
		}
		v := s[i]
		i++
		return v, nil
	}
}

// SeqStream adapts a push-style iterator into a Stream. The iterator is
// paused between pulls, and stopped on exhaustion.
func SeqStream[T any](seq iter.Seq[T]) Stream[T] {
	next, stop := iter.Pull(seq)
	return func() (T, error) {
		v, ok := next()
		if !ok {
			stop()
			var zero T
			return zero, ErrEndOfStream
		}
		return v, nil
	}
}

// ChanStream returns a Stream receiving from ch, until it is closed.
func ChanStream[T any](ch <-chan T) Stream[T] {
	return func() (T, error) {
		v, ok := <-ch
		if !ok {
			var zero T
			return zero, ErrEndOfStream
		}
		return v, nil
	}
}

// Concat returns a Stream yielding all values of each stream, in order,
// moving to the next stream when the current one ends.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	var i int
	return func() (T, error) {
		for i < len(streams) {
			v, err := streams[i]()
			if err == nil {
				return v, nil
			}
			if !IsEndOfStream(err) {
				var zero T
				return zero, err
			}
			i++
		}
		var zero T
		return zero, ErrEndOfStream
	}
}

// Enumerate adapts a plain stream into an indexed stream, assigning each
// value its zero-based position as the index.
func Enumerate[T any](src Stream[T]) Stream[IndexedValue[T]] {
	var i float64
	return func() (IndexedValue[T], error) {
		v, err := src()
		if err != nil {
			return IndexedValue[T]{}, err
		}
		iv := IndexedValue[T]{Index: i, Value: v}
		i++
		return iv, nil
	}
}

// ZipIndex pairs an index stream with a value stream, yielding
// [IndexedValue] pairs. If one stream ends before the other, an error
// wrapping [ErrStreamMismatch] is returned.
func ZipIndex[T any](indices Stream[float64], values Stream[T]) Stream[IndexedValue[T]] {
	return func() (IndexedValue[T], error) {
		idx, err1 := indices()
		v, err2 := values()
		switch {
		case err1 == nil && err2 == nil:
			return IndexedValue[T]{Index: idx, Value: v}, nil
		case IsEndOfStream(err1) && IsEndOfStream(err2):
			return IndexedValue[T]{}, ErrEndOfStream
		case err1 != nil && !IsEndOfStream(err1):
			return IndexedValue[T]{}, err1
		case err2 != nil && !IsEndOfStream(err2):
			return IndexedValue[T]{}, err2
		default:
			return IndexedValue[T]{}, ErrStreamMismatch
		}
	}
}

// Tee splits a single stream into n independent cursors. Values are
// buffered per cursor, as needed, to allow the cursors to advance at
// different rates. The source must not be used directly, once split.
//
// Aggregators never share a stream implicitly; to aggregate "the same"
// stream twice, split it with Tee, and construct one aggregator per cursor.
func Tee[T any](src Stream[T], n int) []Stream[T] {
	if src == nil {
		panic(`rolling: tee: nil stream`)
	}
	if n < 1 {
		panic(`rolling: tee: cursor count must be positive`)
	}

	state := teeState[T]{
		src:     src,
		pending: make([]*ringBuffer[T], n),
	}
	for i := range state.pending {
		state.pending[i] = newRingBuffer[T](minRingCapacity)
	}

	cursors := make([]Stream[T], n)
	for i := range cursors {
		cursors[i] = state.cursor(i)
	}
	return cursors
}

func (x *teeState[T]) cursor(i int) Stream[T] {
	return func() (T, error) {
		if q := x.pending[i]; q.Len() != 0 {
			return q.PopFront(), nil
		}
		if x.done != nil {
			var zero T
			return zero, x.done
		}
		v, err := x.src()
		if err != nil {
			x.done = err
			var zero T
			return zero, err
		}
		for j, q := range x.pending {
			if j != i {
				q.PushBack(v)
			}
		}
		return v, nil
	}
}

// IsEndOfStream reports whether err indicates normal stream exhaustion.
func IsEndOfStream(err error) bool {
	return err != nil && errors.Is(err, ErrEndOfStream)
}
