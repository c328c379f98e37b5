package diffeq

import (
	"fmt"
	"sync"

	"github.com/alec-shirazi/godiffeq/internal/callback"
	"github.com/alec-shirazi/godiffeq/internal/julia"
)

// Kind tags the problem variant.
type Kind int

const (
	Discrete Kind = iota
	ODE
	SplitODE
	SDE
	RODE
	DAE
	DDE
	JumpKind
)

func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case ODE:
		return "ode"
	case SplitODE:
		return "split-ode"
	case SDE:
		return "sde"
	case RODE:
		return "rode"
	case DAE:
		return "dae"
	case DDE:
		return "dde"
	case JumpKind:
		return "jump"
	}
	return "unknown"
}

// Problem is a constructed foreign problem descriptor. It is bound to the
// bridge runtime and must be used by at most one in-flight solve at a time.
type Problem struct {
	kind   Kind
	rt     *julia.Runtime
	handle int64
	dim    int
	span   TimeSpan
	ids    []int32

	mu     sync.Mutex
	closed bool
}

func (p *Problem) Kind() Kind     { return p.kind }
func (p *Problem) Dim() int       { return p.dim }
func (p *Problem) Span() TimeSpan { return p.span }

// Close releases the foreign descriptor and the callable bindings. A closed
// problem cannot be solved.
func (p *Problem) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	callback.Unregister(p.ids...)
	return p.rt.Release(p.handle)
}

type problemConfig struct {
	params     any
	noiseProto *Matrix
	diffVars   []bool
	lags       []float64
}

// ProblemOption is a named option accepted by the problem constructors.
type ProblemOption func(*problemConfig)

// WithParams attaches an opaque parameter value, passed through unmodified
// to every callable of the problem. It never crosses the bridge.
func WithParams(p any) ProblemOption {
	return func(c *problemConfig) { c.params = p }
}

// WithNoiseRatePrototype declares non-diagonal noise: rows are state
// components, columns independent noise channels. SDE only.
func WithNoiseRatePrototype(m *Matrix) ProblemOption {
	return func(c *problemConfig) { c.noiseProto = m }
}

// WithDifferentialVars marks which state components are governed by a
// differential equation (true) versus an algebraic constraint. DAE only.
func WithDifferentialVars(mask []bool) ProblemOption {
	return func(c *problemConfig) { c.diffVars = mask }
}

// WithConstantLags declares the constant delays of a DDE.
func WithConstantLags(lags []float64) ProblemOption {
	return func(c *problemConfig) { c.lags = lags }
}

func applyOptions(opts []ProblemOption) problemConfig {
	var cfg problemConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func validateCommon(kind Kind, u0 State, span TimeSpan, cfg problemConfig) error {
	if len(u0) == 0 {
		return invalidProblem("%s: empty initial state", kind)
	}
	if !u0.IsValid() {
		return invalidProblem("%s: initial state contains NaN or Inf", kind)
	}
	if span.Start == span.End {
		return invalidProblem("%s: degenerate time span [%g, %g]", kind, span.Start, span.End)
	}
	if cfg.noiseProto != nil && kind != SDE {
		return invalidProblem("%s: noise rate prototype is only valid for SDE problems", kind)
	}
	if cfg.diffVars != nil && kind != DAE {
		return invalidProblem("%s: differential vars mask is only valid for DAE problems", kind)
	}
	if cfg.lags != nil && kind != DDE {
		return invalidProblem("%s: constant lags are only valid for DDE problems", kind)
	}
	return nil
}

// bindDeriv registers a derivative-shaped callable and returns its foreign
// identity. The parameter value stays host-side; it rides in the closure.
func bindDeriv(c Callable, p any) (julia.Callable, int32) {
	id := callback.RegisterDeriv(func(out, u []float64, t float64) error {
		return c.call(State(out), State(u), p, t)
	})
	return julia.Callable{Ptr: callback.DerivPtr, ID: id}, id
}

func newProblem(kind Kind, rt *julia.Runtime, handle int64, dim int, span TimeSpan, ids []int32) *Problem {
	return &Problem{kind: kind, rt: rt, handle: handle, dim: dim, span: span, ids: ids}
}

// buildFail releases bindings after a failed foreign construction.
func buildFail(err error, ids ...int32) error {
	callback.Unregister(ids...)
	return fmt.Errorf("%w: foreign construction: %v", ErrInvalidProblem, err)
}

// NewODEProblem constructs an ordinary differential equation problem
// du/dt = f(u, p, t) over span.
func NewODEProblem(f Callable, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f.valid() {
		return nil, invalidProblem("ode: derivative callable is unset")
	}
	if err := validateCommon(ODE, u0, span, cfg); err != nil {
		return nil, err
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	fc, id := bindDeriv(f, cfg.params)
	handle, err := rt.BuildODE(fc, u0, span.Start, span.End)
	if err != nil {
		return nil, buildFail(err, id)
	}
	return newProblem(ODE, rt, handle, len(u0), span, []int32{id}), nil
}

// NewDiscreteProblem constructs a discrete map problem u[n+1] = f(u[n], p, t).
func NewDiscreteProblem(f Callable, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f.valid() {
		return nil, invalidProblem("discrete: map callable is unset")
	}
	if err := validateCommon(Discrete, u0, span, cfg); err != nil {
		return nil, err
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	fc, id := bindDeriv(f, cfg.params)
	handle, err := rt.BuildDiscrete(fc, u0, span.Start, span.End)
	if err != nil {
		return nil, buildFail(err, id)
	}
	return newProblem(Discrete, rt, handle, len(u0), span, []int32{id}), nil
}

// NewSplitODEProblem constructs a split ODE du/dt = f1(u,p,t) + f2(u,p,t),
// letting the engine treat the two parts with different methods.
func NewSplitODEProblem(f1, f2 Callable, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f1.valid() || !f2.valid() {
		return nil, invalidProblem("split-ode: both part callables must be set")
	}
	if err := validateCommon(SplitODE, u0, span, cfg); err != nil {
		return nil, err
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	c1, id1 := bindDeriv(f1, cfg.params)
	c2, id2 := bindDeriv(f2, cfg.params)
	handle, err := rt.BuildSplitODE(c1, c2, u0, span.Start, span.End)
	if err != nil {
		return nil, buildFail(err, id1, id2)
	}
	return newProblem(SplitODE, rt, handle, len(u0), span, []int32{id1, id2}), nil
}

// probeNoise evaluates the noise callable once against the initial state and
// rejects output that does not fit the expected shape. Probing happens before
// any foreign call so a misshapen noise function can never reach the engine.
func probeNoise(g Callable, u0 State, p any, t float64, want int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shapeMismatch("noise callable wrote outside its %d-element output: %v", want, r)
		}
	}()
	out := make(State, want)
	return g.call(out, u0.Clone(), p, t)
}

// NewSDEProblem constructs a stochastic problem du = f dt + g dW. With a
// noise-rate prototype the noise output is the prototype's shape flattened
// row-major; otherwise noise is diagonal with the state's shape.
func NewSDEProblem(f, g Callable, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f.valid() {
		return nil, invalidProblem("sde: drift callable is unset")
	}
	if !g.valid() {
		return nil, invalidProblem("sde: noise callable is unset")
	}
	if err := validateCommon(SDE, u0, span, cfg); err != nil {
		return nil, err
	}
	noiseLen := len(u0)
	protoRows, protoCols := 0, 0
	if cfg.noiseProto != nil {
		protoRows, protoCols = cfg.noiseProto.Dims()
		if protoRows != len(u0) {
			return nil, shapeMismatch("noise rate prototype has %d rows, want state dimension %d", protoRows, len(u0))
		}
		noiseLen = protoRows * protoCols
	}
	if err := probeNoise(g, u0, cfg.params, span.Start, noiseLen); err != nil {
		return nil, err
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	fc, fid := bindDeriv(f, cfg.params)
	gc, gid := bindDeriv(g, cfg.params)
	handle, err := rt.BuildSDE(fc, gc, u0, span.Start, span.End, protoRows, protoCols)
	if err != nil {
		return nil, buildFail(err, fid, gid)
	}
	return newProblem(SDE, rt, handle, len(u0), span, []int32{fid, gid}), nil
}

// NewRODEProblem constructs a random ODE du/dt = f(u, w, p, t) driven by the
// engine's noise process w.
func NewRODEProblem(f RandomCallable, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f.valid() {
		return nil, invalidProblem("rode: derivative callable is unset")
	}
	if err := validateCommon(RODE, u0, span, cfg); err != nil {
		return nil, err
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	p := cfg.params
	id := callback.RegisterRandom(func(out, u, w []float64, t float64) error {
		return f.call(State(out), State(u), w, p, t)
	})
	handle, err := rt.BuildRODE(julia.Callable{Ptr: callback.RandomPtr, ID: id}, u0, span.Start, span.End)
	if err != nil {
		return nil, buildFail(err, id)
	}
	return newProblem(RODE, rt, handle, len(u0), span, []int32{id}), nil
}

// NewDAEProblem constructs a fully implicit problem 0 = res(du, u, p, t)
// from the residual, consistent initial state and initial derivative.
func NewDAEProblem(res Residual, u0, du0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !res.valid() {
		return nil, invalidProblem("dae: residual callable is unset")
	}
	if err := validateCommon(DAE, u0, span, cfg); err != nil {
		return nil, err
	}
	if len(du0) != len(u0) {
		return nil, shapeMismatch("dae: initial derivative has %d components, want %d", len(du0), len(u0))
	}
	if cfg.diffVars != nil && len(cfg.diffVars) != len(u0) {
		return nil, invalidProblem("dae: differential vars mask has %d entries, want %d", len(cfg.diffVars), len(u0))
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	p := cfg.params
	id := callback.RegisterResidual(func(out, du, u []float64, t float64) error {
		res.fn(State(out), State(du), State(u), p, t)
		return nil
	})
	handle, err := rt.BuildDAE(julia.Callable{Ptr: callback.ResidualPtr, ID: id},
		u0, du0, span.Start, span.End, cfg.diffVars)
	if err != nil {
		return nil, buildFail(err, id)
	}
	return newProblem(DAE, rt, handle, len(u0), span, []int32{id}), nil
}

// NewDDEProblem constructs a delay problem. The derivative receives the state
// at t-lag for each lag declared with WithConstantLags; h supplies the state
// for times at or before the span start.
func NewDDEProblem(f DelayedCallable, h History, u0 State, span TimeSpan, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if !f.valid() {
		return nil, invalidProblem("dde: derivative callable is unset")
	}
	if !h.valid() {
		return nil, invalidProblem("dde: history callable is unset")
	}
	if err := validateCommon(DDE, u0, span, cfg); err != nil {
		return nil, err
	}
	if len(cfg.lags) == 0 {
		return nil, invalidProblem("dde: at least one constant lag is required")
	}
	for _, lag := range cfg.lags {
		if lag <= 0 {
			return nil, invalidProblem("dde: lags must be positive, got %g", lag)
		}
	}
	rt, err := bridge()
	if err != nil {
		return nil, err
	}
	p := cfg.params
	dim := len(u0)
	fid := callback.RegisterDelayed(func(out, u, hist []float64, t float64) error {
		delayed := make([]State, len(hist)/dim)
		for i := range delayed {
			delayed[i] = State(hist[i*dim : (i+1)*dim])
		}
		return f.call(State(out), State(u), delayed, p, t)
	})
	hid := callback.RegisterHistory(func(out []float64, t float64) error {
		return h.call(State(out), p, t)
	})
	handle, err := rt.BuildDDE(
		julia.Callable{Ptr: callback.DelayedPtr, ID: fid},
		julia.Callable{Ptr: callback.HistoryPtr, ID: hid},
		cfg.lags, u0, span.Start, span.End)
	if err != nil {
		return nil, buildFail(err, fid, hid)
	}
	return newProblem(DDE, rt, handle, dim, span, []int32{fid, hid}), nil
}

// NewJumpProblem wraps an existing problem with constant-rate jumps. The base
// problem must stay open for the lifetime of the jump problem.
func NewJumpProblem(base *Problem, jumps []Jump, opts ...ProblemOption) (*Problem, error) {
	cfg := applyOptions(opts)
	if base == nil {
		return nil, invalidProblem("jump: base problem is nil")
	}
	base.mu.Lock()
	closed := base.closed
	base.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: jump base problem", ErrClosed)
	}
	if len(jumps) == 0 {
		return nil, invalidProblem("jump: at least one jump is required")
	}
	for i, j := range jumps {
		if !j.valid() {
			return nil, invalidProblem("jump: jump %d is missing its rate or affect", i)
		}
	}
	if cfg.noiseProto != nil || cfg.diffVars != nil || cfg.lags != nil {
		return nil, invalidProblem("jump: variant-specific options belong on the base problem")
	}
	p := cfg.params
	var specs []julia.JumpSpec
	var ids []int32
	for _, j := range jumps {
		j := j
		rid := callback.RegisterRate(func(u []float64, t float64) (float64, error) {
			return j.Rate(State(u), p, t), nil
		})
		aid := callback.RegisterAffect(func(u []float64, t float64) error {
			j.Affect(State(u), p, t)
			return nil
		})
		ids = append(ids, rid, aid)
		specs = append(specs, julia.JumpSpec{
			Rate:   julia.Callable{Ptr: callback.RatePtr, ID: rid},
			Affect: julia.Callable{Ptr: callback.AffectPtr, ID: aid},
		})
	}
	handle, err := base.rt.BuildJump(base.handle, specs)
	if err != nil {
		return nil, buildFail(err, ids...)
	}
	return newProblem(JumpKind, base.rt, handle, base.dim, base.span, ids), nil
}
