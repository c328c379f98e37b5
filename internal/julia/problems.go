package julia

import (
	"fmt"
	"runtime"
	"strings"
)

// Callable identifies a bound host function: the trampoline entry point for
// its signature and the registry id dispatched to.
type Callable struct {
	Ptr uintptr
	ID  int32
}

func (c Callable) wrap(helper string, extra ...string) string {
	args := fmt.Sprintf("0x%x, %d", c.Ptr, c.ID)
	if len(extra) > 0 {
		args += ", " + strings.Join(extra, ", ")
	}
	return fmt.Sprintf("%s(%s)", helper, args)
}

// BuildODE constructs an ODE problem and returns its handle.
func (r *Runtime) BuildODE(f Callable, u0 []float64, t0, t1 float64) (int64, error) {
	code := fmt.Sprintf("_dq_store(DE.ODEProblem(%s, %s, (%s, %s)))",
		f.wrap("_dq_deriv"), vecArg(u0), FloatLit(t0), FloatLit(t1))
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return h, err
}

// BuildDiscrete constructs a discrete map problem.
func (r *Runtime) BuildDiscrete(f Callable, u0 []float64, t0, t1 float64) (int64, error) {
	code := fmt.Sprintf("_dq_store(DE.DiscreteProblem(%s, %s, (%s, %s)))",
		f.wrap("_dq_deriv"), vecArg(u0), FloatLit(t0), FloatLit(t1))
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return h, err
}

// BuildSplitODE constructs a split ODE problem from the two part functions.
func (r *Runtime) BuildSplitODE(f1, f2 Callable, u0 []float64, t0, t1 float64) (int64, error) {
	code := fmt.Sprintf("_dq_store(DE.SplitODEProblem(%s, %s, %s, (%s, %s)))",
		f1.wrap("_dq_deriv"), f2.wrap("_dq_deriv"), vecArg(u0), FloatLit(t0), FloatLit(t1))
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return h, err
}

// BuildSDE constructs an SDE problem. protoRows/protoCols describe the
// noise-rate prototype; both zero means diagonal noise.
func (r *Runtime) BuildSDE(f, g Callable, u0 []float64, t0, t1 float64, protoRows, protoCols int) (int64, error) {
	var code string
	if protoRows > 0 {
		code = fmt.Sprintf(
			"_dq_store(DE.SDEProblem(%s, %s, %s, (%s, %s); noise_rate_prototype = zeros(%d, %d)))",
			f.wrap("_dq_deriv"), g.wrap("_dq_noise_rm", IntLit(int64(protoRows)), IntLit(int64(protoCols))),
			vecArg(u0), FloatLit(t0), FloatLit(t1), protoRows, protoCols)
	} else {
		code = fmt.Sprintf("_dq_store(DE.SDEProblem(%s, %s, %s, (%s, %s)))",
			f.wrap("_dq_deriv"), g.wrap("_dq_deriv"), vecArg(u0), FloatLit(t0), FloatLit(t1))
	}
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return h, err
}

// BuildRODE constructs a random ODE problem.
func (r *Runtime) BuildRODE(f Callable, u0 []float64, t0, t1 float64) (int64, error) {
	code := fmt.Sprintf("_dq_store(DE.RODEProblem(%s, %s, (%s, %s)))",
		f.wrap("_dq_rode"), vecArg(u0), FloatLit(t0), FloatLit(t1))
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return h, err
}

// BuildDAE constructs a DAE problem. The engine takes the initial derivative
// before the initial state; diffVars may be nil.
func (r *Runtime) BuildDAE(res Callable, u0, du0 []float64, t0, t1 float64, diffVars []bool) (int64, error) {
	kw := ""
	if diffVars != nil {
		kw = fmt.Sprintf("; differential_vars = %s", boolVecLit(diffVars))
	}
	code := fmt.Sprintf("_dq_store(DE.DAEProblem(%s, %s, %s, (%s, %s)%s))",
		res.wrap("_dq_residual"), vecArg(du0), vecArg(u0), FloatLit(t0), FloatLit(t1), kw)
	h, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	runtime.KeepAlive(du0)
	return h, err
}

// BuildDDE constructs a DDE problem with constant lags.
func (r *Runtime) BuildDDE(f, h Callable, lags []float64, u0 []float64, t0, t1 float64) (int64, error) {
	code := fmt.Sprintf(
		"_dq_store(DE.DDEProblem(%s, %s, %s, (%s, %s); constant_lags = %s))",
		f.wrap("_dq_dde", VecLit(lags)), vecArg(u0),
		h.wrap("_dq_history", IntLit(int64(len(u0)))),
		FloatLit(t0), FloatLit(t1), VecLit(lags))
	hd, err := r.EvalStore(code)
	runtime.KeepAlive(u0)
	return hd, err
}

// JumpSpec pairs the rate and affect callables of one constant-rate jump.
type JumpSpec struct {
	Rate   Callable
	Affect Callable
}

// BuildJump wraps an already-built problem with constant-rate jumps under
// the engine's direct aggregator.
func (r *Runtime) BuildJump(base int64, jumps []JumpSpec) (int64, error) {
	var parts []string
	for _, j := range jumps {
		parts = append(parts, fmt.Sprintf("DE.ConstantRateJump(%s, %s)",
			j.Rate.wrap("_dq_rate"), j.Affect.wrap("_dq_affect")))
	}
	code := fmt.Sprintf("_dq_store(DE.JumpProblem(_dq_fetch(%d), DE.Direct(), %s))",
		base, strings.Join(parts, ", "))
	return r.EvalStore(code)
}
