package diffeq

import (
	"fmt"
	"sort"

	"github.com/alec-shirazi/godiffeq/internal/callback"
	"github.com/alec-shirazi/godiffeq/internal/julia"
)

// SolveOptions is the common solver option set. The zero value lets the
// engine pick the algorithm, tolerances and output points.
type SolveOptions struct {
	// Algorithm is an engine algorithm expression such as "Tsit5()" or
	// "Rodas5P()", resolved in the solver namespace. Empty defers entirely
	// to the engine's default selection for the problem variant.
	Algorithm string

	// SaveStep records output on a fixed stride over the span. Mutually
	// exclusive with SaveAt.
	SaveStep float64

	// SaveAt records output at explicit times, which must lie within the
	// span and be strictly monotonic in the span's direction.
	SaveAt []float64

	// AbsTol and RelTol are passed through unmodified when positive.
	AbsTol float64
	RelTol float64

	// Extra holds engine-specific passthrough options. Values of type
	// string are treated as raw engine expressions; numeric, bool and
	// []float64 values are rendered as literals.
	Extra map[string]any
}

func (o SolveOptions) validate(span TimeSpan) error {
	if o.AbsTol < 0 {
		return invalidProblem("abstol must be non-negative, got %g", o.AbsTol)
	}
	if o.RelTol < 0 {
		return invalidProblem("reltol must be non-negative, got %g", o.RelTol)
	}
	if o.SaveStep < 0 {
		return invalidProblem("saveat stride must be non-negative, got %g", o.SaveStep)
	}
	if o.SaveStep > 0 && len(o.SaveAt) > 0 {
		return invalidProblem("saveat stride and explicit saveat times are mutually exclusive")
	}
	dir := 1.0
	if span.Reversed() {
		dir = -1.0
	}
	for i, t := range o.SaveAt {
		if !span.Contains(t) {
			return invalidProblem("saveat time %g lies outside span [%g, %g]", t, span.Start, span.End)
		}
		if i > 0 && (t-o.SaveAt[i-1])*dir <= 0 {
			return invalidProblem("saveat times must be strictly monotonic in the span's direction")
		}
	}
	return nil
}

func (o SolveOptions) kwargs() ([]julia.Kwarg, error) {
	var kw []julia.Kwarg
	if o.SaveStep > 0 {
		kw = append(kw, julia.Kwarg{Name: "saveat", Expr: julia.FloatLit(o.SaveStep)})
	}
	if len(o.SaveAt) > 0 {
		kw = append(kw, julia.Kwarg{Name: "saveat", Expr: julia.VecLit(o.SaveAt)})
	}
	if o.AbsTol > 0 {
		kw = append(kw, julia.Kwarg{Name: "abstol", Expr: julia.FloatLit(o.AbsTol)})
	}
	if o.RelTol > 0 {
		kw = append(kw, julia.Kwarg{Name: "reltol", Expr: julia.FloatLit(o.RelTol)})
	}
	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		expr, err := renderExtra(o.Extra[k])
		if err != nil {
			return nil, invalidProblem("option %q: %v", k, err)
		}
		kw = append(kw, julia.Kwarg{Name: k, Expr: expr})
	}
	return kw, nil
}

func renderExtra(v any) (string, error) {
	switch x := v.(type) {
	case float64:
		return julia.FloatLit(x), nil
	case float32:
		return julia.FloatLit(float64(x)), nil
	case int:
		return julia.IntLit(int64(x)), nil
	case int64:
		return julia.IntLit(x), nil
	case bool:
		return julia.BoolLit(x), nil
	case string:
		return x, nil
	case []float64:
		return julia.VecLit(x), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Solve dispatches the problem to the foreign engine and blocks until the
// integration finishes. During the call the engine invokes the problem's
// callables synchronously; a callable failure aborts the solve and discards
// any partial results. Engine failures surface as SolveError, verbatim and
// unretried.
func Solve(p *Problem, opts SolveOptions) (*Solution, error) {
	if p == nil {
		return nil, invalidProblem("nil problem")
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: problem", ErrClosed)
	}
	if err := opts.validate(p.span); err != nil {
		return nil, err
	}
	kw, err := opts.kwargs()
	if err != nil {
		return nil, err
	}

	callback.ClearFailures(p.ids...)
	sid, err := p.rt.Solve(p.handle, opts.Algorithm, kw)
	if err != nil {
		if cbErr := callback.TakeFailure(p.ids...); cbErr != nil {
			return nil, &CallableError{Original: cbErr}
		}
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	return wrapSolution(p.rt, sid)
}
