package rolling

import (
	"container/heap"
	"fmt"

	"golang.org/x/exp/constraints"
)

// entryHeap is a min-heap of windowed values, ordered by value.
type entryHeap[T constraints.Ordered] []extremumEntry[T]

// Implement heap.Interface for entryHeap
func (h entryHeap[T]) Len() int           { return len(h) }
func (h entryHeap[T]) Less(i, j int) bool { return h[i].value < h[j].value }
func (h entryHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap[T]) Push(x any) {
	*h = append(*h, x.(extremumEntry[T]))
}

func (h *entryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// minHeapOp yields the window minimum via a binary heap with lazy deletion:
// evictions only decrement the live count, and stale heap tops (entries
// whose birth index has left the window) are purged at query time. Compared
// to [NewMinOp] this trades O(log k) updates for a smaller constant factor
// on adds, and is primarily useful when reads are sparse.
type minHeapOp[T constraints.Ordered] struct {
	heap entryHeap[T]
	obs  int
	n    int
}

// NewMinHeapOp returns an [Op] yielding the window minimum via a
// lazy-deletion binary heap.
func NewMinHeapOp[T constraints.Ordered]() Op[T, T] {
	return &minHeapOp[T]{}
}

// MinHeap aggregates the window minimum of src, under w, using a
// lazy-deletion heap, see [NewMinHeapOp].
func MinHeap[T constraints.Ordered](src Stream[T], w Window) *Aggregator[T, T] {
	return mustRoll(src, w, NewMinHeapOp[T]())
}

func (x *minHeapOp[T]) Add(value T) error {
	heap.Push(&x.heap, extremumEntry[T]{value: value, obs: x.obs})
	x.obs++
	x.n++
	return nil
}

func (x *minHeapOp[T]) Remove() error {
	if x.n == 0 {
		return fmt.Errorf(`%w: heap remove`, ErrEmptyWindow)
	}
	x.n--
	return nil
}

func (x *minHeapOp[T]) Value() (T, error) {
	if x.n == 0 {
		var zero T
		return zero, fmt.Errorf(`%w: minimum of empty window`, ErrInsufficientData)
	}
	// purge entries that have already left the window
	for x.heap[0].obs < x.obs-x.n {
		heap.Pop(&x.heap)
	}
	return x.heap[0].value, nil
}

func (x *minHeapOp[T]) Count() int {
	return x.n
}
