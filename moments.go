package rolling

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type (
	// Real constrains the numeric element types accepted by the moment
	// aggregations ([Sum], [Mean], [Var], etc), and by [Median].
	Real interface {
		constraints.Integer | constraints.Float
	}

	// StatOption models optional configuration for [Var] and [Std].
	StatOption func(*statConfig)

	statConfig struct {
		ddof int
	}

	// momentState accumulates the first four central moments of the
	// windowed values, using Welford-style online updates, extended to
	// arbitrary moments, and inverted for eviction. A ring buffer retains
	// the windowed values, in arrival order, so eviction knows the value
	// leaving.
	//
	// m2..m4 hold sums of centered powers (not averaged).
	momentState struct {
		buf            *ringBuffer[float64]
		m1, m2, m3, m4 float64
	}

	sumOp[T Real] struct {
		buf   *ringBuffer[T]
		total T
	}

	// productOp tracks the running product of the non-zero windowed values
	// separately from a zero count, so evicting a zero is exact.
	productOp[T Real] struct {
		buf     *ringBuffer[float64]
		product float64
		zeros   int
	}

	meanOp[T Real] struct {
		momentState
	}

	varOp[T Real] struct {
		momentState
		ddof int
		sqrt bool
	}

	skewOp[T Real] struct {
		momentState
	}

	kurtosisOp[T Real] struct {
		momentState
	}
)

// WithDDof sets the delta degrees of freedom for [Var] or [Std]: the
// divisor used is count − ddof. A panic will occur if ddof is negative.
func WithDDof(ddof int) StatOption {
	if ddof < 0 {
		panic(fmt.Errorf(`rolling: ddof must be non-negative: %d`, ddof))
	}
	return func(c *statConfig) {
		c.ddof = ddof
	}
}

func newStatConfig(opts []StatOption) (c statConfig) {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func newMomentState() momentState {
	return momentState{buf: newRingBuffer[float64](minRingCapacity)}
}

// NewSumOp returns an [Op] yielding the window sum, as T, via a running
// total (exact for integer element types).
func NewSumOp[T Real]() Op[T, T] {
	return &sumOp[T]{buf: newRingBuffer[T](minRingCapacity)}
}

// NewProductOp returns an [Op] yielding the window product.
func NewProductOp[T Real]() Op[T, float64] {
	return &productOp[T]{
		buf:     newRingBuffer[float64](minRingCapacity),
		product: 1,
	}
}

// NewMeanOp returns an [Op] yielding the window arithmetic mean.
func NewMeanOp[T Real]() Op[T, float64] {
	return &meanOp[T]{newMomentState()}
}

// NewVarOp returns an [Op] yielding the window variance, with divisor
// count − ddof. At least ddof+1 windowed values are required.
func NewVarOp[T Real](ddof int) Op[T, float64] {
	return &varOp[T]{momentState: newMomentState(), ddof: ddof}
}

// NewStdOp returns an [Op] yielding the window standard deviation, with
// divisor count − ddof. At least ddof+1 windowed values are required.
func NewStdOp[T Real](ddof int) Op[T, float64] {
	return &varOp[T]{momentState: newMomentState(), ddof: ddof, sqrt: true}
}

// NewSkewOp returns an [Op] yielding the adjusted Fisher-Pearson sample
// skewness of the window. At least 3 windowed values are required.
func NewSkewOp[T Real]() Op[T, float64] {
	return &skewOp[T]{newMomentState()}
}

// NewKurtosisOp returns an [Op] yielding the bias-corrected sample excess
// kurtosis of the window. At least 4 windowed values are required.
func NewKurtosisOp[T Real]() Op[T, float64] {
	return &kurtosisOp[T]{newMomentState()}
}

// Sum aggregates the window sum of src, under w.
func Sum[T Real](src Stream[T], w Window) *Aggregator[T, T] {
	return mustRoll(src, w, NewSumOp[T]())
}

// Product aggregates the window product of src, under w.
func Product[T Real](src Stream[T], w Window) *Aggregator[T, float64] {
	return mustRoll(src, w, NewProductOp[T]())
}

// Mean aggregates the window arithmetic mean of src, under w.
func Mean[T Real](src Stream[T], w Window) *Aggregator[T, float64] {
	return mustRoll(src, w, NewMeanOp[T]())
}

// Var aggregates the window variance of src, under w, see [WithDDof].
func Var[T Real](src Stream[T], w Window, opts ...StatOption) *Aggregator[T, float64] {
	return mustRoll(src, w, NewVarOp[T](newStatConfig(opts).ddof))
}

// Std aggregates the window standard deviation of src, under w, see
// [WithDDof].
func Std[T Real](src Stream[T], w Window, opts ...StatOption) *Aggregator[T, float64] {
	return mustRoll(src, w, NewStdOp[T](newStatConfig(opts).ddof))
}

// Skew aggregates the window sample skewness of src, under w.
func Skew[T Real](src Stream[T], w Window) *Aggregator[T, float64] {
	return mustRoll(src, w, NewSkewOp[T]())
}

// Kurtosis aggregates the window sample excess kurtosis of src, under w.
func Kurtosis[T Real](src Stream[T], w Window) *Aggregator[T, float64] {
	return mustRoll(src, w, NewKurtosisOp[T]())
}

func (x *momentState) add(v float64) {
	n1 := float64(x.buf.Len())
	x.buf.PushBack(v)
	n := n1 + 1
	delta := v - x.m1
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n1
	x.m1 += deltaN
	x.m4 += term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*x.m2 - 4*deltaN*x.m3
	x.m3 += term1*deltaN*(n-2) - 3*deltaN*x.m2
	x.m2 += term1
}

func (x *momentState) remove() error {
	if x.buf.Len() == 0 {
		return fmt.Errorf(`%w: moment remove`, ErrEmptyWindow)
	}
	n := float64(x.buf.Len())
	v := x.buf.PopFront()
	if x.buf.Len() == 0 {
		x.m1, x.m2, x.m3, x.m4 = 0, 0, 0, 0
		return nil
	}
	// invert the add of v to the remaining buf.Len() values
	n1 := n - 1
	m1 := (n*x.m1 - v) / n1
	delta := v - m1
	deltaN := delta / n
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * n1
	m2 := x.m2 - term1
	m3 := x.m3 - (term1*deltaN*(n-2) - 3*deltaN*m2)
	m4 := x.m4 - (term1*deltaN2*(n*n-3*n+3) + 6*deltaN2*m2 - 4*deltaN*m3)
	x.m1, x.m2, x.m3, x.m4 = m1, m2, m3, m4
	return nil
}

func (x *momentState) Count() int {
	return x.buf.Len()
}

// variance returns the centered second moment sum, clamped at zero, as
// floating-point cancellation can drive it slightly negative.
func (x *momentState) variance() float64 {
	if x.m2 < 0 {
		return 0
	}
	return x.m2
}

func (x *sumOp[T]) Add(value T) error {
	x.buf.PushBack(value)
	x.total += value
	return nil
}

func (x *sumOp[T]) Remove() error {
	if x.buf.Len() == 0 {
		return fmt.Errorf(`%w: sum remove`, ErrEmptyWindow)
	}
	x.total -= x.buf.PopFront()
	return nil
}

func (x *sumOp[T]) Value() (T, error) {
	if x.buf.Len() == 0 {
		var zero T
		return zero, fmt.Errorf(`%w: sum of empty window`, ErrInsufficientData)
	}
	return x.total, nil
}

func (x *sumOp[T]) Count() int {
	return x.buf.Len()
}

func (x *productOp[T]) Add(value T) error {
	v := float64(value)
	x.buf.PushBack(v)
	if v == 0 {
		x.zeros++
	} else {
		x.product *= v
	}
	return nil
}

func (x *productOp[T]) Remove() error {
	if x.buf.Len() == 0 {
		return fmt.Errorf(`%w: product remove`, ErrEmptyWindow)
	}
	if v := x.buf.PopFront(); v == 0 {
		x.zeros--
	} else {
		x.product /= v
	}
	return nil
}

func (x *productOp[T]) Value() (float64, error) {
	if x.buf.Len() == 0 {
		return 0, fmt.Errorf(`%w: product of empty window`, ErrInsufficientData)
	}
	if x.zeros != 0 {
		return 0, nil
	}
	return x.product, nil
}

func (x *productOp[T]) Count() int {
	return x.buf.Len()
}

func (x *meanOp[T]) Add(value T) error {
	x.add(float64(value))
	return nil
}

func (x *meanOp[T]) Remove() error {
	return x.remove()
}

func (x *meanOp[T]) Value() (float64, error) {
	if x.Count() == 0 {
		return 0, fmt.Errorf(`%w: mean of empty window`, ErrInsufficientData)
	}
	return x.m1, nil
}

func (x *varOp[T]) Add(value T) error {
	x.add(float64(value))
	return nil
}

func (x *varOp[T]) Remove() error {
	return x.remove()
}

func (x *varOp[T]) Value() (float64, error) {
	n := x.Count()
	if n <= x.ddof {
		return 0, fmt.Errorf(`%w: variance needs more than ddof=%d values, have %d`, ErrInsufficientData, x.ddof, n)
	}
	v := x.variance() / float64(n-x.ddof)
	if x.sqrt {
		v = math.Sqrt(v)
	}
	return v, nil
}

func (x *skewOp[T]) Add(value T) error {
	x.add(float64(value))
	return nil
}

func (x *skewOp[T]) Remove() error {
	return x.remove()
}

func (x *skewOp[T]) Value() (float64, error) {
	n := float64(x.Count())
	if n < 3 {
		return 0, fmt.Errorf(`%w: skewness needs at least 3 values, have %d`, ErrInsufficientData, x.Count())
	}
	m2 := x.variance() / n
	if m2 == 0 {
		return math.NaN(), nil
	}
	m3 := x.m3 / n
	g1 := m3 / math.Pow(m2, 1.5)
	return math.Sqrt(n*(n-1)) / (n - 2) * g1, nil
}

func (x *kurtosisOp[T]) Add(value T) error {
	x.add(float64(value))
	return nil
}

func (x *kurtosisOp[T]) Remove() error {
	return x.remove()
}

func (x *kurtosisOp[T]) Value() (float64, error) {
	n := float64(x.Count())
	if n < 4 {
		return 0, fmt.Errorf(`%w: kurtosis needs at least 4 values, have %d`, ErrInsufficientData, x.Count())
	}
	s2 := x.variance() / (n - 1)
	if s2 == 0 {
		return math.NaN(), nil
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*(x.m4/(s2*s2)) -
		3*(n-1)*(n-1)/((n-2)*(n-3)), nil
}
