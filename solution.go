package diffeq

import (
	"fmt"
	"sync"

	"github.com/alec-shirazi/godiffeq/internal/julia"
)

// Solution is an integrated trajectory. T and U are the recorded output
// points, materialized eagerly and immutable after creation; At delegates to
// the engine's continuous extension of the integration.
type Solution struct {
	// T holds the output times in integration order.
	T []float64
	// U holds the state at each output time, parallel to T.
	U []State

	dim    int
	rt     *julia.Runtime
	handle int64

	mu     sync.Mutex
	closed bool
}

func wrapSolution(rt *julia.Runtime, handle int64) (*Solution, error) {
	n, err := rt.SolutionLen(handle)
	if err != nil {
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	dim, err := rt.SolutionDim(handle)
	if err != nil {
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	t, err := rt.CopyTimes(handle, n)
	if err != nil {
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	flat, err := rt.CopyStates(handle, n, dim)
	if err != nil {
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	u := make([]State, n)
	for i := range u {
		u[i] = State(flat[i*dim : (i+1)*dim])
	}
	return &Solution{T: t, U: u, dim: dim, rt: rt, handle: handle}, nil
}

// Dim returns the state dimension.
func (s *Solution) Dim() int { return s.dim }

// At evaluates the engine's interpolant at time t. The time must lie within
// [T[0], T[len-1]]; the bridge never extrapolates.
func (s *Solution) At(t float64) (State, error) {
	if len(s.T) == 0 {
		return nil, fmt.Errorf("%w: empty solution", ErrOutOfRange)
	}
	lo, hi := s.T[0], s.T[len(s.T)-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if t < lo || t > hi {
		return nil, fmt.Errorf("%w: t=%g outside [%g, %g]", ErrOutOfRange, t, lo, hi)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: solution", ErrClosed)
	}
	v, err := s.rt.Interp(s.handle, t, s.dim)
	if err != nil {
		return nil, &SolveError{Diagnostic: err.Error()}
	}
	return State(v), nil
}

// Close releases the engine-side solution state. The recorded T and U stay
// valid; only At requires the foreign handle.
func (s *Solution) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rt.Release(s.handle)
}
