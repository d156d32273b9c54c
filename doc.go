// Package rolling implements incremental rolling-window aggregations over
// lazy, single-pass input streams. Each aggregator pairs a windowing driver
// with an operation that maintains auxiliary state (monotonic deque,
// indexable skiplist, running moments, frequency counters, etc), such that
// advancing the window by one element costs O(1) or O(log k), rather than
// recomputing the reduction over all k windowed elements.
//
// Aggregators are lazy sequences themselves: the caller drives progress by
// requesting the next output, which pulls (at least) one input, mutates the
// operation state, and reads the current aggregate. Three window kinds are
// supported, see [WindowKind]. Aggregators are single-consumer, and hold no
// resources beyond their in-memory state.
package rolling
