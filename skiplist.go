package rolling

import (
	"math/rand"

	"golang.org/x/exp/constraints"
)

const skiplistMaxLevel = 32

type (
	skiplistNode[T constraints.Ordered] struct {
		value T
		// forward[i] is the next node at level i; width[i] is the number of
		// rank positions it skips, enabling O(log k) rank queries
		forward []*skiplistNode[T]
		width   []int
	}

	// indexableSkiplist is a duplicate-tolerant ordered multiset with
	// O(log k) expected insert, remove, and rank lookup. Each forward
	// pointer carries the span of ranks it skips.
	indexableSkiplist[T constraints.Ordered] struct {
		head   *skiplistNode[T]
		rnd    *rand.Rand
		length int
		level  int
	}
)

func newIndexableSkiplist[T constraints.Ordered]() *indexableSkiplist[T] {
	return &indexableSkiplist[T]{
		head: &skiplistNode[T]{
			forward: make([]*skiplistNode[T], skiplistMaxLevel),
			width:   make([]int, skiplistMaxLevel),
		},
		// deterministic source: level assignment needs no entropy, only a
		// fair coin, and reproducibility aids debugging
		rnd:   rand.New(rand.NewSource(0x9E3779B97F4A7C15)),
		level: 1,
	}
}

func (x *indexableSkiplist[T]) Len() int {
	return x.length
}

func (x *indexableSkiplist[T]) randomLevel() int {
	level := 1
	for level < skiplistMaxLevel && x.rnd.Int63()&1 == 1 {
		level++
	}
	return level
}

// Insert adds value to the multiset; equal values are retained.
func (x *indexableSkiplist[T]) Insert(value T) {
	var (
		update [skiplistMaxLevel]*skiplistNode[T]
		rank   [skiplistMaxLevel]int
	)

	node := x.head
	for i := x.level - 1; i >= 0; i-- {
		if i != x.level-1 {
			rank[i] = rank[i+1]
		}
		for node.forward[i] != nil && node.forward[i].value < value {
			rank[i] += node.width[i]
			node = node.forward[i]
		}
		update[i] = node
	}

	level := x.randomLevel()
	if level > x.level {
		for i := x.level; i < level; i++ {
			rank[i] = 0
			update[i] = x.head
			x.head.width[i] = x.length
		}
		x.level = level
	}

	node = &skiplistNode[T]{
		value:   value,
		forward: make([]*skiplistNode[T], level),
		width:   make([]int, level),
	}
	for i := 0; i < level; i++ {
		node.forward[i] = update[i].forward[i]
		update[i].forward[i] = node
		node.width[i] = update[i].width[i] - (rank[0] - rank[i])
		update[i].width[i] = rank[0] - rank[i] + 1
	}
	for i := level; i < x.level; i++ {
		update[i].width[i]++
	}
	x.length++
}

// Remove deletes one instance of value, reporting whether it was present.
func (x *indexableSkiplist[T]) Remove(value T) bool {
	var update [skiplistMaxLevel]*skiplistNode[T]

	node := x.head
	for i := x.level - 1; i >= 0; i-- {
		for node.forward[i] != nil && node.forward[i].value < value {
			node = node.forward[i]
		}
		update[i] = node
	}

	target := update[0].forward[0]
	if target == nil || target.value != value {
		return false
	}

	for i := 0; i < x.level; i++ {
		if update[i].forward[i] == target {
			update[i].width[i] += target.width[i] - 1
			update[i].forward[i] = target.forward[i]
		} else {
			update[i].width[i]--
		}
	}
	for x.level > 1 && x.head.forward[x.level-1] == nil {
		x.level--
	}
	x.length--
	return true
}

// At returns the value at the given zero-based rank. A panic will occur if
// rank is out of range.
func (x *indexableSkiplist[T]) At(rank int) T {
	if rank < 0 || rank >= x.length {
		panic(`rolling: skiplist: rank out of range`)
	}
	node := x.head
	var traversed int
	target := rank + 1
	for i := x.level - 1; i >= 0; i-- {
		for node.forward[i] != nil && traversed+node.width[i] <= target {
			traversed += node.width[i]
			node = node.forward[i]
		}
		if traversed == target {
			break
		}
	}
	return node.value
}
