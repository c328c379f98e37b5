package callback

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Trampoline entry points, one per foreign call shape. The engine-side
// wrappers ccall these with the binding id and raw buffer pointers; a
// non-zero return tells the wrapper to raise and abort the solve.
var (
	DerivPtr    = purego.NewCallback(derivTrampoline)
	ResidualPtr = purego.NewCallback(residualTrampoline)
	DelayedPtr  = purego.NewCallback(delayedTrampoline)
	RandomPtr   = purego.NewCallback(randomTrampoline)
	HistoryPtr  = purego.NewCallback(historyTrampoline)
	RatePtr     = purego.NewCallback(rateTrampoline)
	AffectPtr   = purego.NewCallback(affectTrampoline)
)

func view(p uintptr, n int32) []float64 {
	if p == 0 || n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(p)), int(n))
}

func derivTrampoline(id int32, out, u uintptr, n, m int32, t float64) int32 {
	h, ok := lookup(id).(DerivHandler)
	if !ok {
		fail(id, fmt.Errorf("no derivative binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(out, m), view(u, n), t) })
}

func residualTrampoline(id int32, res, du, u uintptr, n int32, t float64) int32 {
	h, ok := lookup(id).(ResidualHandler)
	if !ok {
		fail(id, fmt.Errorf("no residual binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(res, n), view(du, n), view(u, n), t) })
}

func delayedTrampoline(id int32, out, u, hist uintptr, n, m, hn int32, t float64) int32 {
	h, ok := lookup(id).(DelayedHandler)
	if !ok {
		fail(id, fmt.Errorf("no delayed binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(out, m), view(u, n), view(hist, hn), t) })
}

func randomTrampoline(id int32, out, u, w uintptr, n, wn int32, t float64) int32 {
	h, ok := lookup(id).(RandomHandler)
	if !ok {
		fail(id, fmt.Errorf("no random binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(out, n), view(u, n), view(w, wn), t) })
}

func historyTrampoline(id int32, out uintptr, n int32, t float64) int32 {
	h, ok := lookup(id).(HistoryHandler)
	if !ok {
		fail(id, fmt.Errorf("no history binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(out, n), t) })
}

func rateTrampoline(id int32, u uintptr, n int32, t float64, out uintptr) int32 {
	h, ok := lookup(id).(RateHandler)
	if !ok {
		fail(id, fmt.Errorf("no rate binding %d", id))
		return 1
	}
	return guard(id, func() error {
		r, err := h(view(u, n), t)
		if err != nil {
			return err
		}
		*(*float64)(unsafe.Pointer(out)) = r
		return nil
	})
}

func affectTrampoline(id int32, u uintptr, n int32, t float64) int32 {
	h, ok := lookup(id).(AffectHandler)
	if !ok {
		fail(id, fmt.Errorf("no affect binding %d", id))
		return 1
	}
	return guard(id, func() error { return h(view(u, n), t) })
}
