package diffeq

// Convention tags how a host function communicates its result to the engine.
type Convention int

const (
	// ConventionOutOfPlace functions return a newly created value.
	ConventionOutOfPlace Convention = iota
	// ConventionInPlace functions write into a caller-supplied buffer passed
	// as their first argument; any return value is ignored.
	ConventionInPlace
)

func (c Convention) String() string {
	if c == ConventionInPlace {
		return "in-place"
	}
	return "out-of-place"
}

// DerivFunc is an out-of-place derivative, noise or map function.
type DerivFunc func(u State, p any, t float64) State

// DerivInPlaceFunc writes the derivative into du. It must not retain du or u
// past its return; the engine may reuse the buffers between calls.
type DerivInPlaceFunc func(du, u State, p any, t float64)

// Callable pairs a host function with its declared calling convention. The
// convention is never inferred from the function itself.
type Callable struct {
	conv        Convention
	precompiled bool
	oop         DerivFunc
	ip          DerivInPlaceFunc
}

// OutOfPlace binds f under the out-of-place convention.
func OutOfPlace(f DerivFunc) Callable { return Callable{conv: ConventionOutOfPlace, oop: f} }

// InPlace binds f under the in-place convention.
func InPlace(f DerivInPlaceFunc) Callable { return Callable{conv: ConventionInPlace, ip: f} }

// Precompiled marks c as a pre-compiled binding. The marshalling path is
// identical to a plain callable; the tag exists so call sites ported from
// environments with a compilation step keep their shape.
func Precompiled(c Callable) Callable {
	c.precompiled = true
	return c
}

func (c Callable) Convention() Convention { return c.conv }
func (c Callable) IsPrecompiled() bool    { return c.precompiled }

func (c Callable) valid() bool {
	if c.conv == ConventionInPlace {
		return c.ip != nil
	}
	return c.oop != nil
}

// call evaluates the binding, writing the result into out regardless of
// convention. Out-of-place results are length-checked against out.
func (c Callable) call(out, u State, p any, t float64) error {
	if c.conv == ConventionInPlace {
		c.ip(out, u, p, t)
		return nil
	}
	res := c.oop(u, p, t)
	if len(res) != len(out) {
		return shapeMismatch("callable returned %d values, want %d", len(res), len(out))
	}
	copy(out, res)
	return nil
}

// ResidualFunc is a DAE residual. It follows the in-place convention with the
// state derivative as an extra input.
type ResidualFunc func(res, du, u State, p any, t float64)

// Residual binds a DAE residual function. Residuals are in-place only.
type Residual struct {
	fn ResidualFunc
}

func NewResidual(f ResidualFunc) Residual { return Residual{fn: f} }

func (r Residual) valid() bool { return r.fn != nil }

// DelayedFunc is an out-of-place DDE derivative. delayed holds the state at
// t-lag for each declared constant lag, in declaration order.
type DelayedFunc func(u State, delayed []State, p any, t float64) State

// DelayedInPlaceFunc is the in-place form of DelayedFunc.
type DelayedInPlaceFunc func(du, u State, delayed []State, p any, t float64)

// DelayedCallable binds a DDE derivative with its calling convention.
type DelayedCallable struct {
	conv Convention
	oop  DelayedFunc
	ip   DelayedInPlaceFunc
}

func DelayedOutOfPlace(f DelayedFunc) DelayedCallable {
	return DelayedCallable{conv: ConventionOutOfPlace, oop: f}
}

func DelayedInPlace(f DelayedInPlaceFunc) DelayedCallable {
	return DelayedCallable{conv: ConventionInPlace, ip: f}
}

func (c DelayedCallable) Convention() Convention { return c.conv }

func (c DelayedCallable) valid() bool {
	if c.conv == ConventionInPlace {
		return c.ip != nil
	}
	return c.oop != nil
}

func (c DelayedCallable) call(out, u State, delayed []State, p any, t float64) error {
	if c.conv == ConventionInPlace {
		c.ip(out, u, delayed, p, t)
		return nil
	}
	res := c.oop(u, delayed, p, t)
	if len(res) != len(out) {
		return shapeMismatch("delayed callable returned %d values, want %d", len(res), len(out))
	}
	copy(out, res)
	return nil
}

// RandomFunc is an out-of-place RODE derivative; w is the driving noise
// process sampled at t.
type RandomFunc func(u State, w []float64, p any, t float64) State

// RandomInPlaceFunc is the in-place form of RandomFunc.
type RandomInPlaceFunc func(du, u State, w []float64, p any, t float64)

// RandomCallable binds a RODE derivative with its calling convention.
type RandomCallable struct {
	conv Convention
	oop  RandomFunc
	ip   RandomInPlaceFunc
}

func RandomOutOfPlace(f RandomFunc) RandomCallable {
	return RandomCallable{conv: ConventionOutOfPlace, oop: f}
}

func RandomInPlace(f RandomInPlaceFunc) RandomCallable {
	return RandomCallable{conv: ConventionInPlace, ip: f}
}

func (c RandomCallable) Convention() Convention { return c.conv }

func (c RandomCallable) valid() bool {
	if c.conv == ConventionInPlace {
		return c.ip != nil
	}
	return c.oop != nil
}

func (c RandomCallable) call(out, u State, w []float64, p any, t float64) error {
	if c.conv == ConventionInPlace {
		c.ip(out, u, w, p, t)
		return nil
	}
	res := c.oop(u, w, p, t)
	if len(res) != len(out) {
		return shapeMismatch("random callable returned %d values, want %d", len(res), len(out))
	}
	copy(out, res)
	return nil
}

// HistoryFunc is an out-of-place DDE history function, evaluated by the
// engine for times at or before the span start.
type HistoryFunc func(p any, t float64) State

// HistoryInPlaceFunc is the in-place form of HistoryFunc.
type HistoryInPlaceFunc func(u State, p any, t float64)

// History binds a DDE history function with its calling convention.
type History struct {
	conv Convention
	oop  HistoryFunc
	ip   HistoryInPlaceFunc
}

func HistoryOutOfPlace(f HistoryFunc) History {
	return History{conv: ConventionOutOfPlace, oop: f}
}

func HistoryInPlace(f HistoryInPlaceFunc) History {
	return History{conv: ConventionInPlace, ip: f}
}

func (c History) Convention() Convention { return c.conv }

func (c History) valid() bool {
	if c.conv == ConventionInPlace {
		return c.ip != nil
	}
	return c.oop != nil
}

func (c History) call(out State, p any, t float64) error {
	if c.conv == ConventionInPlace {
		c.ip(out, p, t)
		return nil
	}
	res := c.oop(p, t)
	if len(res) != len(out) {
		return shapeMismatch("history callable returned %d values, want %d", len(res), len(out))
	}
	copy(out, res)
	return nil
}

// RateFunc computes a jump's propensity at the current state.
type RateFunc func(u State, p any, t float64) float64

// AffectFunc applies a jump by mutating u in place.
type AffectFunc func(u State, p any, t float64)

// Jump is a constant-rate jump: a propensity and the state change applied
// when the jump fires.
type Jump struct {
	Rate   RateFunc
	Affect AffectFunc
}

func NewJump(rate RateFunc, affect AffectFunc) Jump {
	return Jump{Rate: rate, Affect: affect}
}

func (j Jump) valid() bool { return j.Rate != nil && j.Affect != nil }
