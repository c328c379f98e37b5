package callback

import (
	"errors"
	"testing"
	"unsafe"
)

func ptr(s []float64) uintptr {
	return uintptr(unsafe.Pointer(&s[0]))
}

func TestDerivTrampolineDispatch(t *testing.T) {
	id := RegisterDeriv(func(out, u []float64, t float64) error {
		for i := range out {
			out[i] = -u[i] * t
		}
		return nil
	})
	defer Unregister(id)

	u := []float64{1, 2, 3}
	out := make([]float64, 3)
	if st := derivTrampoline(id, ptr(out), ptr(u), 3, 3, 2.0); st != 0 {
		t.Fatalf("status %d", st)
	}
	want := []float64{-2, -4, -6}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestTrampolineUnknownID(t *testing.T) {
	out := []float64{0}
	u := []float64{1}
	if st := derivTrampoline(9999, ptr(out), ptr(u), 1, 1, 0); st != 1 {
		t.Fatalf("status %d, want 1", st)
	}
	if err := TakeFailure(9999); err == nil {
		t.Fatal("expected a recorded failure")
	}
}

func TestTrampolinePanicRecovered(t *testing.T) {
	id := RegisterDeriv(func(out, u []float64, t float64) error {
		panic("derivative blew up")
	})
	defer Unregister(id)

	u := []float64{1}
	out := []float64{0}
	if st := derivTrampoline(id, ptr(out), ptr(u), 1, 1, 0); st != 1 {
		t.Fatalf("status %d, want 1", st)
	}
	err := TakeFailure(id)
	if err == nil {
		t.Fatal("expected a recorded failure")
	}
	if got := err.Error(); got != "panic in host callable: derivative blew up" {
		t.Fatalf("failure = %q", got)
	}
	// Taking a failure clears it.
	if err := TakeFailure(id); err != nil {
		t.Fatalf("stale failure %v", err)
	}
}

func TestTrampolineHandlerError(t *testing.T) {
	sentinel := errors.New("bad shape")
	id := RegisterDeriv(func(out, u []float64, t float64) error {
		return sentinel
	})
	defer Unregister(id)

	u := []float64{1}
	out := []float64{0}
	if st := derivTrampoline(id, ptr(out), ptr(u), 1, 1, 0); st != 1 {
		t.Fatalf("status %d, want 1", st)
	}
	if err := TakeFailure(id); !errors.Is(err, sentinel) {
		t.Fatalf("failure = %v, want %v", err, sentinel)
	}
}

func TestFirstFailureWins(t *testing.T) {
	first := errors.New("first")
	fail(42, first)
	fail(42, errors.New("second"))
	if err := TakeFailure(42); !errors.Is(err, first) {
		t.Fatalf("got %v, want first", err)
	}
}

func TestClearFailures(t *testing.T) {
	fail(7, errors.New("stale"))
	ClearFailures(7)
	if err := TakeFailure(7); err != nil {
		t.Fatalf("got %v after clear", err)
	}
}

func TestRateTrampolineWritesResult(t *testing.T) {
	id := RegisterRate(func(u []float64, t float64) (float64, error) {
		return u[0] * 10, nil
	})
	defer Unregister(id)

	u := []float64{0.5}
	var rate float64
	st := rateTrampoline(id, ptr(u), 1, 0, uintptr(unsafe.Pointer(&rate)))
	if st != 0 {
		t.Fatalf("status %d", st)
	}
	if rate != 5 {
		t.Fatalf("rate = %g, want 5", rate)
	}
}

func TestResidualTrampoline(t *testing.T) {
	id := RegisterResidual(func(res, du, u []float64, t float64) error {
		for i := range res {
			res[i] = du[i] - u[i]
		}
		return nil
	})
	defer Unregister(id)

	du := []float64{3, 4}
	u := []float64{1, 1}
	res := make([]float64, 2)
	if st := residualTrampoline(id, ptr(res), ptr(du), ptr(u), 2, 0); st != 0 {
		t.Fatalf("status %d", st)
	}
	if res[0] != 2 || res[1] != 3 {
		t.Fatalf("res = %v", res)
	}
}

func TestUnregisterDropsBinding(t *testing.T) {
	id := RegisterAffect(func(u []float64, t float64) error { return nil })
	Unregister(id)

	u := []float64{1}
	if st := affectTrampoline(id, ptr(u), 1, 0); st != 1 {
		t.Fatalf("status %d after unregister, want 1", st)
	}
	ClearFailures(id)
}
