// Package demo registers the example problems used by the diffeq CLI. Each
// definition builds a ready-to-solve problem through the public bridge API.
package demo

import (
	"fmt"
	"sort"

	diffeq "github.com/alec-shirazi/godiffeq"
)

// Definition is a named, self-contained example problem.
type Definition struct {
	Name        string
	Description string
	Labels      []string
	Algorithm   string // suggested algorithm, empty = engine default
	Build       func() (*diffeq.Problem, error)
}

var registry = map[string]Definition{
	"decay": {
		Name:        "decay",
		Description: "scalar linear decay du/dt = -u",
		Labels:      []string{"u"},
		Build: func() (*diffeq.Problem, error) {
			f := diffeq.OutOfPlace(func(u diffeq.State, p any, t float64) diffeq.State {
				return diffeq.State{-u[0]}
			})
			return diffeq.NewODEProblem(f, diffeq.State{0.5}, diffeq.Span(0, 1))
		},
	},
	"lotka": {
		Name:        "lotka",
		Description: "Lotka-Volterra predator-prey",
		Labels:      []string{"prey", "predator"},
		Build: func() (*diffeq.Problem, error) {
			f := diffeq.InPlace(func(du, u diffeq.State, p any, t float64) {
				a := p.([]float64)
				du[0] = a[0]*u[0] - a[1]*u[0]*u[1]
				du[1] = -a[2]*u[1] + a[3]*u[0]*u[1]
			})
			return diffeq.NewODEProblem(f, diffeq.State{1, 1}, diffeq.Span(0, 10),
				diffeq.WithParams([]float64{1.5, 1.0, 3.0, 1.0}))
		},
	},
	"lorenz": {
		Name:        "lorenz",
		Description: "Lorenz attractor",
		Labels:      []string{"x", "y", "z"},
		Build: func() (*diffeq.Problem, error) {
			f := diffeq.InPlace(func(du, u diffeq.State, p any, t float64) {
				du[0] = 10 * (u[1] - u[0])
				du[1] = u[0]*(28-u[2]) - u[1]
				du[2] = u[0]*u[1] - (8.0/3.0)*u[2]
			})
			return diffeq.NewODEProblem(f, diffeq.State{1, 0, 0}, diffeq.Span(0, 30))
		},
	},
	"noisy-decay": {
		Name:        "noisy-decay",
		Description: "decay with diagonal multiplicative noise",
		Labels:      []string{"u"},
		Algorithm:   "SOSRI()",
		Build: func() (*diffeq.Problem, error) {
			f := diffeq.OutOfPlace(func(u diffeq.State, p any, t float64) diffeq.State {
				return diffeq.State{-u[0]}
			})
			g := diffeq.OutOfPlace(func(u diffeq.State, p any, t float64) diffeq.State {
				return diffeq.State{0.1 * u[0]}
			})
			return diffeq.NewSDEProblem(f, g, diffeq.State{0.5}, diffeq.Span(0, 1))
		},
	},
	"robertson": {
		Name:        "robertson",
		Description: "Robertson stiff DAE with one algebraic constraint",
		Labels:      []string{"y1", "y2", "y3"},
		Algorithm:   "DFBDF()",
		Build: func() (*diffeq.Problem, error) {
			res := diffeq.NewResidual(func(out, du, u diffeq.State, p any, t float64) {
				out[0] = -0.04*u[0] + 1e4*u[1]*u[2] - du[0]
				out[1] = 0.04*u[0] - 3e7*u[1]*u[1] - 1e4*u[1]*u[2] - du[1]
				out[2] = u[0] + u[1] + u[2] - 1
			})
			return diffeq.NewDAEProblem(res,
				diffeq.State{1, 0, 0}, diffeq.State{-0.04, 0.04, 0}, diffeq.Span(0, 100),
				diffeq.WithDifferentialVars([]bool{true, true, false}))
		},
	},
	"delayed-logistic": {
		Name:        "delayed-logistic",
		Description: "logistic growth with a unit feedback delay",
		Labels:      []string{"u"},
		Algorithm:   "MethodOfSteps(Tsit5())",
		Build: func() (*diffeq.Problem, error) {
			f := diffeq.DelayedOutOfPlace(func(u diffeq.State, delayed []diffeq.State, p any, t float64) diffeq.State {
				return diffeq.State{u[0] * (1 - delayed[0][0])}
			})
			h := diffeq.HistoryOutOfPlace(func(p any, t float64) diffeq.State {
				return diffeq.State{0.1}
			})
			return diffeq.NewDDEProblem(f, h, diffeq.State{0.1}, diffeq.Span(0, 20),
				diffeq.WithConstantLags([]float64{1}))
		},
	},
}

// Get returns the definition for name.
func Get(name string) (Definition, error) {
	d, ok := registry[name]
	if !ok {
		return Definition{}, fmt.Errorf("unknown problem %q (try: %v)", name, Names())
	}
	return d, nil
}

// Names lists the registered problems in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
