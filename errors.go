package rolling

import (
	"errors"
)

var (
	// ErrEndOfStream indicates that a [Stream], or an [Aggregator], has no
	// further values. It is a control flow signal, not a failure; it is
	// reported (possibly wrapped) by [Stream] implementations and
	// [Aggregator.Next], after the final value.
	ErrEndOfStream = errors.New(`rolling: end of stream`)

	// ErrEmptyWindow indicates an attempt to evict from an empty window.
	// Receiving this error from an [Aggregator] indicates either upstream
	// misuse, or a bug in this library, as the windowing driver only evicts
	// windowed elements.
	ErrEmptyWindow = errors.New(`rolling: empty window`)

	// ErrInsufficientData indicates that the current aggregate was requested
	// before enough elements had arrived, e.g. a variance with fewer than
	// ddof+1 windowed elements, or an entropy prior to the window filling.
	ErrInsufficientData = errors.New(`rolling: insufficient data`)

	// ErrWindowType indicates an operation was combined with a window kind
	// it does not support, e.g. [Entropy] with anything but [Fixed].
	ErrWindowType = errors.New(`rolling: unsupported window type`)

	// ErrDomain indicates numerically invalid input, e.g. an [Entropy]
	// reference distribution assigning zero probability to an observed
	// value.
	ErrDomain = errors.New(`rolling: domain error`)

	// ErrIndexOrder indicates that an indexed stream produced a decreasing
	// index. Indexed windows require monotonically non-decreasing indices.
	ErrIndexOrder = errors.New(`rolling: non-monotonic index`)

	// ErrStreamMismatch indicates that the two streams of an
	// [ApplyPairwise] aggregation terminated at different points.
	ErrStreamMismatch = errors.New(`rolling: paired streams have mismatched lengths`)

	// ErrHashRange indicates a [PolynomialHash] input outside [0, modulus).
	ErrHashRange = errors.New(`rolling: hash value out of range`)
)
