package diffeq

import (
	"errors"
	"fmt"
)

// Error conditions surfaced by the bridge.
var (
	// ErrShapeMismatch indicates a buffer whose rank or extent does not match
	// an expected template (state vector, noise-rate prototype).
	ErrShapeMismatch = errors.New("diffeq: shape mismatch")

	// ErrInvalidProblem indicates a structurally inconsistent problem
	// description, detected before any foreign call.
	ErrInvalidProblem = errors.New("diffeq: invalid problem spec")

	// ErrCallableFailed indicates a user-supplied derivative, noise or
	// residual function panicked or failed during evaluation.
	ErrCallableFailed = errors.New("diffeq: callable failed")

	// ErrSolveFailed indicates the foreign integration failed or diverged.
	ErrSolveFailed = errors.New("diffeq: solve failed")

	// ErrOutOfRange indicates interpolation outside the solution's time span.
	ErrOutOfRange = errors.New("diffeq: interpolation time out of range")

	// ErrBridgeUnavailable indicates the Julia runtime or the solver package
	// is not installed or not reachable.
	ErrBridgeUnavailable = errors.New("diffeq: solver bridge unavailable")

	// ErrClosed indicates use of a problem or solution after Close.
	ErrClosed = errors.New("diffeq: handle closed")
)

// CallableError carries the original failure raised by a host callable
// during a solve. The in-flight solve is aborted and no partial solution
// is returned.
type CallableError struct {
	Original error
}

func (e *CallableError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCallableFailed, e.Original)
}

func (e *CallableError) Unwrap() error { return ErrCallableFailed }

// SolveError carries the engine diagnostic verbatim. The bridge does not
// classify or translate numerical failure causes, and never retries.
type SolveError struct {
	Diagnostic string
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSolveFailed, e.Diagnostic)
}

func (e *SolveError) Unwrap() error { return ErrSolveFailed }

func invalidProblem(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProblem, fmt.Sprintf(format, args...))
}

func shapeMismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShapeMismatch, fmt.Sprintf(format, args...))
}
