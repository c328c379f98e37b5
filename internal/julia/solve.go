package julia

import (
	"fmt"
	"runtime"
	"strings"
)

// Kwarg is one rendered solver keyword argument.
type Kwarg struct {
	Name string
	Expr string
}

// Solve dispatches a solve on the problem behind handle. alg is a Julia
// algorithm expression resolved in the solver module; empty defers to the
// engine's default selection. Returns the solution handle.
func (r *Runtime) Solve(handle int64, alg string, kwargs []Kwarg) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "_dq_finish(DE.solve(_dq_fetch(%d)", handle)
	if alg != "" {
		fmt.Fprintf(&b, ", Core.eval(DE, Meta.parse(%s))", quote(alg))
	}
	if len(kwargs) > 0 {
		b.WriteString("; ")
		for i, kw := range kwargs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(kw.Name)
			b.WriteString(" = ")
			b.WriteString(kw.Expr)
		}
	}
	b.WriteString("))")
	return r.EvalStore(b.String())
}

// SolutionLen returns the number of recorded output points.
func (r *Runtime) SolutionLen(sol int64) (int, error) {
	n, err := r.EvalInt(fmt.Sprintf("_dq_sol_len(%d)", sol))
	return int(n), err
}

// SolutionDim returns the state dimension of the recorded points.
func (r *Runtime) SolutionDim(sol int64) (int, error) {
	n, err := r.EvalInt(fmt.Sprintf("_dq_sol_dim(%d)", sol))
	return int(n), err
}

// CopyTimes materializes the solution's time points.
func (r *Runtime) CopyTimes(sol int64, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]float64, n)
	err := r.Eval(fmt.Sprintf("_dq_copy_t(%d, 0x%x)", sol, ptrOf(buf)))
	runtime.KeepAlive(buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// CopyStates materializes the solution's states as one row-major buffer of
// n points by dim components.
func (r *Runtime) CopyStates(sol int64, n, dim int) ([]float64, error) {
	if n*dim == 0 {
		return nil, nil
	}
	buf := make([]float64, n*dim)
	err := r.Eval(fmt.Sprintf("_dq_copy_u(%d, 0x%x)", sol, ptrOf(buf)))
	runtime.KeepAlive(buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Interp evaluates the engine's continuous extension at t.
func (r *Runtime) Interp(sol int64, t float64, dim int) ([]float64, error) {
	buf := make([]float64, dim)
	err := r.Eval(fmt.Sprintf("_dq_interp(%d, %s, 0x%x)", sol, FloatLit(t), ptrOf(buf)))
	runtime.KeepAlive(buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
