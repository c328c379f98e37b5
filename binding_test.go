package diffeq

import (
	"errors"
	"math"
	"testing"
)

func TestCallableConventionEquivalence(t *testing.T) {
	oop := OutOfPlace(func(u State, p any, t float64) State {
		return State{-u[0], 2 * u[1]}
	})
	ip := InPlace(func(du, u State, p any, t float64) {
		du[0] = -u[0]
		du[1] = 2 * u[1]
	})

	u := State{0.5, 1.5}
	out1 := make(State, 2)
	out2 := make(State, 2)
	if err := oop.call(out1, u, nil, 0); err != nil {
		t.Fatalf("out-of-place call: %v", err)
	}
	if err := ip.call(out2, u, nil, 0); err != nil {
		t.Fatalf("in-place call: %v", err)
	}
	for i := range out1 {
		if math.Abs(out1[i]-out2[i]) > 1e-15 {
			t.Errorf("component %d: out-of-place %g != in-place %g", i, out1[i], out2[i])
		}
	}
}

func TestCallableOutOfPlaceWrongLength(t *testing.T) {
	c := OutOfPlace(func(u State, p any, t float64) State {
		return State{1, 2, 3}
	})
	err := c.call(make(State, 2), State{0, 0}, nil, 0)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("want ErrShapeMismatch, got %v", err)
	}
}

func TestCallableParamsPassThrough(t *testing.T) {
	type carrier struct{ k float64 }
	p := &carrier{k: 3}
	var seen any
	c := InPlace(func(du, u State, got any, t float64) {
		seen = got
		du[0] = got.(*carrier).k * u[0]
	})
	out := make(State, 1)
	if err := c.call(out, State{2}, p, 0); err != nil {
		t.Fatal(err)
	}
	if seen != p {
		t.Error("parameters were not passed through unmodified")
	}
	if out[0] != 6 {
		t.Errorf("got %g, want 6", out[0])
	}
}

func TestPrecompiledSamePath(t *testing.T) {
	base := OutOfPlace(func(u State, p any, t float64) State {
		return State{u[0] + 1}
	})
	pre := Precompiled(base)
	if !pre.IsPrecompiled() {
		t.Error("precompiled flag not set")
	}
	if pre.Convention() != base.Convention() {
		t.Error("precompiled binding changed convention")
	}
	out1 := make(State, 1)
	out2 := make(State, 1)
	if err := base.call(out1, State{1}, nil, 0); err != nil {
		t.Fatal(err)
	}
	if err := pre.call(out2, State{1}, nil, 0); err != nil {
		t.Fatal(err)
	}
	if out1[0] != out2[0] {
		t.Errorf("precompiled path diverged: %g != %g", out1[0], out2[0])
	}
}

func TestDelayedCallable(t *testing.T) {
	c := DelayedOutOfPlace(func(u State, delayed []State, p any, t float64) State {
		return State{u[0] * delayed[0][0]}
	})
	out := make(State, 1)
	if err := c.call(out, State{3}, []State{{2}}, nil, 0); err != nil {
		t.Fatal(err)
	}
	if out[0] != 6 {
		t.Errorf("got %g, want 6", out[0])
	}
}

func TestHistoryCallable(t *testing.T) {
	h := HistoryInPlace(func(u State, p any, t float64) {
		for i := range u {
			u[i] = t
		}
	})
	out := make(State, 2)
	if err := h.call(out, nil, -1.5); err != nil {
		t.Fatal(err)
	}
	if out[0] != -1.5 || out[1] != -1.5 {
		t.Errorf("got %v", out)
	}
}

func TestConventionString(t *testing.T) {
	if ConventionOutOfPlace.String() != "out-of-place" {
		t.Error(ConventionOutOfPlace.String())
	}
	if ConventionInPlace.String() != "in-place" {
		t.Error(ConventionInPlace.String())
	}
}
