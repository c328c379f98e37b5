// Package diffeq solves differential equations defined by ordinary Go
// functions, delegating the numerical integration to the Julia SciML stack
// (DifferentialEquations.jl) through an in-process bridge.
//
// The bridge is established once with Setup, which loads libjulia and the
// solver namespace. Problems are then constructed per variant and solved:
//
//	if err := diffeq.Setup(); err != nil {
//		log.Fatal(err)
//	}
//	f := diffeq.OutOfPlace(func(u diffeq.State, p any, t float64) diffeq.State {
//		return diffeq.State{-u[0]}
//	})
//	prob, err := diffeq.NewODEProblem(f, diffeq.State{0.5}, diffeq.Span(0, 1))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer prob.Close()
//	sol, err := diffeq.Solve(prob, diffeq.SolveOptions{RelTol: 1e-8})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sol.Close()
//	last := sol.U[len(sol.U)-1]
//
// Host functions cross the runtime boundary under a declared calling
// convention, either out-of-place (return a new value) or in-place (write
// into the engine-supplied buffer passed first). The engine invokes them
// synchronously on the bridge thread for the duration of Solve; buffers
// handed to a callable must not be retained past its return.
//
// Running a solve requires a local Julia installation with
// DifferentialEquations.jl; Setup reports ErrBridgeUnavailable otherwise.
package diffeq
