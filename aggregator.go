package rolling

import (
	"fmt"
)

type (
	// Op is the uniform capability set shared by every aggregation
	// algorithm: incorporate a newly-arrived value, evict the oldest
	// windowed value, read the current aggregate, and report the windowed
	// element count. Implementations maintain whatever auxiliary state the
	// operation requires, e.g. a monotonic deque, or running moments.
	//
	// Ops are driven by [Roll] and [RollIndexed]; they are not safe for
	// concurrent use, and most callers never invoke the methods directly.
	Op[T, R any] interface {
		// Add incorporates a newly-arrived value.
		Add(value T) error

		// Remove evicts the oldest value currently in the window. An error
		// wrapping [ErrEmptyWindow] is returned if no value is present.
		Remove() error

		// Value returns the reduction of the current window. An error
		// wrapping [ErrInsufficientData] is returned if fewer values are
		// present than the operation requires.
		Value() (R, error)

		// Count returns the number of values currently in the window.
		Count() int
	}

	aggregatorPhase int

	// Aggregator couples an input stream cursor, a window specification,
	// and an [Op]. It is itself a lazy sequence: repeated [Aggregator.Next]
	// calls yield successive window reductions, ending with
	// [ErrEndOfStream]. Instances must be constructed via [Roll] or
	// [RollIndexed] (possibly indirectly, e.g. [Max], [Sum], [Median]).
	//
	// Aggregators are single-consumer, and not safe for concurrent use.
	Aggregator[T, R any] struct {
		op      Op[T, R]
		window  Window
		sources []Stream[T]
		indexed []Stream[IndexedValue[T]]
		// indices retained per windowed element, Indexed windows only
		indices   *ringBuffer[float64]
		lastIndex float64
		observed  int
		phase     aggregatorPhase
	}
)

const (
	phasePriming aggregatorPhase = iota
	phaseActive
	phaseDraining
	phaseDrained
)

func (p aggregatorPhase) String() string {
	switch p {
	case phasePriming:
		return "priming"
	case phaseActive:
		return "active"
	case phaseDraining:
		return "draining"
	case phaseDrained:
		return "drained"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Roll constructs an [Aggregator] applying op to src under a [Fixed] or
// [Variable] window. Operations restricted to particular window kinds are
// validated here, the error wrapping [ErrWindowType].
//
// A panic will occur if src or op are nil, if w is invalid, or if w is an
// [Indexed] window (see [RollIndexed]).
func Roll[T, R any](src Stream[T], w Window, op Op[T, R]) (*Aggregator[T, R], error) {
	w.validate()
	if w.Kind == Indexed {
		panic(`rolling: roll: indexed windows require RollIndexed`)
	}
	if src == nil {
		panic(`rolling: roll: nil stream`)
	}
	if op == nil {
		panic(`rolling: roll: nil op`)
	}
	if v, ok := op.(windowValidator); ok {
		if err := v.validateWindow(w); err != nil {
			return nil, err
		}
	}
	return &Aggregator[T, R]{
		op:      op,
		window:  w,
		sources: []Stream[T]{src},
	}, nil
}

// RollIndexed constructs an [Aggregator] applying op to an indexed stream,
// under an [Indexed] window: after each input, every retained element whose
// index is at least Span behind the newest is evicted, then the aggregate
// is emitted. Indices must be monotonically non-decreasing; a violation
// surfaces from [Aggregator.Next], wrapping [ErrIndexOrder].
//
// A panic will occur if src or op are nil, or w is not an [Indexed] window.
func RollIndexed[T, R any](src Stream[IndexedValue[T]], w Window, op Op[T, R]) (*Aggregator[T, R], error) {
	w.validate()
	if w.Kind != Indexed {
		panic(`rolling: roll indexed: window kind must be Indexed`)
	}
	if src == nil {
		panic(`rolling: roll indexed: nil stream`)
	}
	if op == nil {
		panic(`rolling: roll indexed: nil op`)
	}
	if v, ok := op.(windowValidator); ok {
		if err := v.validateWindow(w); err != nil {
			return nil, err
		}
	}
	return &Aggregator[T, R]{
		op:      op,
		window:  w,
		indexed: []Stream[IndexedValue[T]]{src},
		indices: newRingBuffer[float64](minRingCapacity),
		phase:   phaseActive,
	}, nil
}

// mustRoll backs the convenience constructors whose ops have no window kind
// restrictions, and therefore cannot fail.
func mustRoll[T, R any](src Stream[T], w Window, op Op[T, R]) *Aggregator[T, R] {
	x, err := Roll(src, w, op)
	if err != nil {
		panic(err)
	}
	return x
}

// Window returns the window specification.
func (x *Aggregator[T, R]) Window() Window {
	return x.window
}

// Count returns the number of elements currently in the window.
func (x *Aggregator[T, R]) Count() int {
	return x.op.Count()
}

// Observed returns the total number of inputs ingested so far, across all
// extensions.
func (x *Aggregator[T, R]) Observed() int {
	return x.observed
}

// Next returns the next window reduction. Once the input is exhausted (and,
// for [Variable] windows, the shrinking drain suffix has been emitted), it
// returns an error wrapping [ErrEndOfStream], and continues to do so until
// extended, see [Aggregator.Extend].
func (x *Aggregator[T, R]) Next() (R, error) {
	switch x.window.Kind {
	case Variable:
		return x.nextVariable()
	case Indexed:
		return x.nextIndexed()
	default:
		return x.nextFixed()
	}
}

// Collect pulls the aggregator to exhaustion, returning all remaining
// outputs. A partial prefix is returned alongside any non-exhaustion error.
func (x *Aggregator[T, R]) Collect() ([]R, error) {
	var out []R
	for {
		v, err := x.Next()
		if err != nil {
			if IsEndOfStream(err) {
				return out, nil
			}
			return out, err
		}
		out = append(out, v)
	}
}

// Extend appends more input to the aggregator, resuming from its current
// internal state: it is equivalent to concatenating the streams up front,
// except that it is permitted after consumption has begun, including after
// the aggregator has drained. Note that a [Variable] aggregator which has
// already emitted (part of) its shrinking drain suffix resumes from the
// shrunken window.
func (x *Aggregator[T, R]) Extend(src Stream[T]) {
	if src == nil {
		panic(`rolling: extend: nil stream`)
	}
	if x.window.Kind == Indexed {
		panic(`rolling: extend: indexed windows require ExtendIndexed`)
	}
	x.sources = append(x.sources, src)
	x.resume()
}

// ExtendIndexed appends more input to an [Indexed] aggregator, resuming
// from its current internal state. The first extended index must still be
// >= the last ingested index.
func (x *Aggregator[T, R]) ExtendIndexed(src Stream[IndexedValue[T]]) {
	if src == nil {
		panic(`rolling: extend: nil stream`)
	}
	if x.window.Kind != Indexed {
		panic(`rolling: extend: window kind must be Indexed`)
	}
	x.indexed = append(x.indexed, src)
	x.resume()
}

// resume re-enters the appropriate live phase, after extension.
func (x *Aggregator[T, R]) resume() {
	prev := x.phase
	switch x.window.Kind {
	case Indexed:
		x.phase = phaseActive
	default:
		if x.op.Count() < x.window.Size {
			x.phase = phasePriming
		} else {
			x.phase = phaseActive
		}
	}
	if prev != x.phase {
		loggerInstance().Trace().
			Str(`phase`, x.phase.String()).
			Str(`from`, prev.String()).
			Int(`observed`, x.observed).
			Log(`rolling: aggregator extended`)
	}
}

// pull returns the next input, draining the pending stream queue in order.
func (x *Aggregator[T, R]) pull() (T, error) {
	for len(x.sources) != 0 {
		v, err := x.sources[0]()
		if err == nil {
			return v, nil
		}
		if !IsEndOfStream(err) {
			var zero T
			return zero, err
		}
		x.sources = x.sources[1:]
	}
	var zero T
	return zero, ErrEndOfStream
}

func (x *Aggregator[T, R]) pullIndexed() (IndexedValue[T], error) {
	for len(x.indexed) != 0 {
		v, err := x.indexed[0]()
		if err == nil {
			return v, nil
		}
		if !IsEndOfStream(err) {
			return IndexedValue[T]{}, err
		}
		x.indexed = x.indexed[1:]
	}
	return IndexedValue[T]{}, ErrEndOfStream
}

func (x *Aggregator[T, R]) transition(phase aggregatorPhase) {
	if x.phase != phase {
		loggerInstance().Trace().
			Str(`phase`, phase.String()).
			Str(`from`, x.phase.String()).
			Int(`observed`, x.observed).
			Int(`windowed`, x.op.Count()).
			Log(`rolling: aggregator phase transition`)
		x.phase = phase
	}
}

func (x *Aggregator[T, R]) nextFixed() (R, error) {
	var zero R
	switch x.phase {
	case phaseDrained:
		return zero, ErrEndOfStream

	case phasePriming:
		for x.op.Count() < x.window.Size {
			v, err := x.pull()
			if err != nil {
				if IsEndOfStream(err) {
					x.transition(phaseDrained)
				}
				return zero, err
			}
			if err := x.op.Add(v); err != nil {
				return zero, err
			}
			x.observed++
		}
		x.transition(phaseActive)
		return x.op.Value()

	default:
		v, err := x.pull()
		if err != nil {
			if IsEndOfStream(err) {
				x.transition(phaseDrained)
			}
			return zero, err
		}
		if err := x.op.Add(v); err != nil {
			return zero, err
		}
		x.observed++
		if err := x.op.Remove(); err != nil {
			return zero, err
		}
		return x.op.Value()
	}
}

func (x *Aggregator[T, R]) nextVariable() (R, error) {
	var zero R
	switch x.phase {
	case phaseDrained:
		return zero, ErrEndOfStream

	case phaseDraining:
		return x.drainStep()

	case phasePriming:
		v, err := x.pull()
		if err != nil {
			if !IsEndOfStream(err) {
				return zero, err
			}
			x.transition(phaseDraining)
			return x.drainStep()
		}
		if err := x.op.Add(v); err != nil {
			return zero, err
		}
		x.observed++
		if x.op.Count() == x.window.Size {
			x.transition(phaseActive)
		}
		return x.op.Value()

	default:
		v, err := x.pull()
		if err != nil {
			if !IsEndOfStream(err) {
				return zero, err
			}
			x.transition(phaseDraining)
			return x.drainStep()
		}
		if err := x.op.Add(v); err != nil {
			return zero, err
		}
		x.observed++
		if err := x.op.Remove(); err != nil {
			return zero, err
		}
		return x.op.Value()
	}
}

// drainStep emits the shrinking suffix of a [Variable] window, one
// eviction per output, stopping before the empty window.
func (x *Aggregator[T, R]) drainStep() (R, error) {
	var zero R
	if x.op.Count() == 0 {
		x.transition(phaseDrained)
		return zero, ErrEndOfStream
	}
	if err := x.op.Remove(); err != nil {
		return zero, err
	}
	if x.op.Count() == 0 {
		x.transition(phaseDrained)
		return zero, ErrEndOfStream
	}
	return x.op.Value()
}

func (x *Aggregator[T, R]) nextIndexed() (R, error) {
	var zero R
	if x.phase == phaseDrained {
		return zero, ErrEndOfStream
	}
	iv, err := x.pullIndexed()
	if err != nil {
		if IsEndOfStream(err) {
			x.transition(phaseDrained)
		}
		return zero, err
	}
	if x.observed != 0 && iv.Index < x.lastIndex {
		return zero, fmt.Errorf(`%w: %v after %v`, ErrIndexOrder, iv.Index, x.lastIndex)
	}
	x.lastIndex = iv.Index
	if err := x.op.Add(iv.Value); err != nil {
		return zero, err
	}
	x.observed++
	x.indices.PushBack(iv.Index)
	var evicted int
	for x.indices.Len() != 0 && iv.Index-x.indices.Front() >= x.window.Span {
		if err := x.op.Remove(); err != nil {
			return zero, err
		}
		x.indices.PopFront()
		evicted++
	}
	if evicted != 0 {
		loggerInstance().Trace().
			Int(`evicted`, evicted).
			Float64(`index`, iv.Index).
			Int(`windowed`, x.op.Count()).
			Log(`rolling: indexed eviction`)
	}
	return x.op.Value()
}
