package rolling

import (
	"fmt"
)

type (
	// WindowKind selects the windowing strategy of an [Aggregator].
	WindowKind int

	// Window is an immutable window specification. Use [NewWindow] or
	// [NewIndexedWindow] to construct valid values.
	Window struct {
		// Size is the number of windowed elements, for [Fixed] and
		// [Variable] windows.
		Size int
		// Span is the index distance covered by an [Indexed] window: at any
		// point the window holds every element whose index idx satisfies
		// current − Span < idx <= current.
		Span float64
		// Kind selects the windowing strategy.
		Kind WindowKind
	}

	// windowValidator is implemented by operations restricted to particular
	// window kinds, e.g. [NewEntropyOp]. It is consulted by [Roll] and
	// [RollIndexed], at construction.
	windowValidator interface {
		validateWindow(w Window) error
	}
)

const (
	// Fixed windows emit full windows only: the first output appears once
	// Size inputs have arrived, and output stops with the input.
	Fixed WindowKind = iota

	// Variable windows additionally emit growing windows while priming
	// (sizes 1..Size), and shrinking windows once the input ends
	// (sizes Size-1..1).
	Variable

	// Indexed windows hold every element whose index lies within
	// (current − Span, current]; the input must be a stream of
	// [IndexedValue] pairs, with non-decreasing indices. Both the window
	// length, and the eviction count per step, are data dependent.
	Indexed
)

// String returns the lower-case name of the window kind.
func (k WindowKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Variable:
		return "variable"
	case Indexed:
		return "indexed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// NewWindow returns a [Fixed] or [Variable] window specification of the
// given size. A panic will occur if size is not positive, or kind is not
// one of [Fixed], [Variable].
func NewWindow(size int, kind WindowKind) Window {
	if size < 1 {
		panic(fmt.Errorf(`rolling: window size must be positive: %d`, size))
	}
	if kind != Fixed && kind != Variable {
		panic(fmt.Errorf(`rolling: invalid window kind: %v`, kind))
	}
	return Window{Size: size, Kind: kind}
}

// NewIndexedWindow returns an [Indexed] window specification covering the
// given span of indices. A panic will occur if span is not positive.
func NewIndexedWindow(span float64) Window {
	if !(span > 0) {
		panic(fmt.Errorf(`rolling: window span must be positive: %v`, span))
	}
	return Window{Span: span, Kind: Indexed}
}

func (w Window) validate() {
	switch w.Kind {
	case Fixed, Variable:
		if w.Size < 1 {
			panic(fmt.Errorf(`rolling: window size must be positive: %d`, w.Size))
		}
	case Indexed:
		if !(w.Span > 0) {
			panic(fmt.Errorf(`rolling: window span must be positive: %v`, w.Span))
		}
	default:
		panic(fmt.Errorf(`rolling: invalid window kind: %v`, w.Kind))
	}
}
