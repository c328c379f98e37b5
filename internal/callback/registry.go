// Package callback holds host functions that the foreign solver engine
// invokes during integration. Each bound function is addressed by an integer
// id; the engine reaches it through a per-signature C trampoline created with
// purego.NewCallback, so a single trampoline serves every binding of its
// shape.
package callback

import (
	"fmt"
	"sync"
)

// Handler signatures, one per foreign call shape. Buffers are views over
// engine-owned memory and must not be retained past the handler's return.
type (
	DerivHandler    func(out, u []float64, t float64) error
	ResidualHandler func(res, du, u []float64, t float64) error
	DelayedHandler  func(out, u, hist []float64, t float64) error
	RandomHandler   func(out, u, w []float64, t float64) error
	HistoryHandler  func(out []float64, t float64) error
	RateHandler     func(u []float64, t float64) (float64, error)
	AffectHandler   func(u []float64, t float64) error
)

var (
	mu       sync.Mutex
	nextID   int32 = 1
	handlers       = make(map[int32]any)
	failures       = make(map[int32]error)
)

func register(h any) int32 {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	handlers[id] = h
	return id
}

// RegisterDeriv binds a derivative, noise or map handler and returns its id.
func RegisterDeriv(h DerivHandler) int32       { return register(h) }
func RegisterResidual(h ResidualHandler) int32 { return register(h) }
func RegisterDelayed(h DelayedHandler) int32   { return register(h) }
func RegisterRandom(h RandomHandler) int32     { return register(h) }
func RegisterHistory(h HistoryHandler) int32   { return register(h) }
func RegisterRate(h RateHandler) int32         { return register(h) }
func RegisterAffect(h AffectHandler) int32     { return register(h) }

// Unregister releases the given bindings and any recorded failures.
func Unregister(ids ...int32) {
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		delete(handlers, id)
		delete(failures, id)
	}
}

func lookup(id int32) any {
	mu.Lock()
	defer mu.Unlock()
	return handlers[id]
}

// fail records the first failure for id. Later failures are dropped; the
// solve is already doomed by the first one.
func fail(id int32, err error) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := failures[id]; !ok {
		failures[id] = err
	}
}

// ClearFailures resets the failure mailbox for the given bindings. Called
// before each solve so a stale failure cannot leak into a new attempt.
func ClearFailures(ids ...int32) {
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		delete(failures, id)
	}
}

// TakeFailure returns the first recorded failure among ids, clearing it.
func TakeFailure(ids ...int32) error {
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		if err, ok := failures[id]; ok {
			delete(failures, id)
			return err
		}
	}
	return nil
}

// guard runs f, converting a panic into an error. Panics must not unwind
// through the foreign stack frames below the trampoline.
func guard(id int32, f func() error) (status int32) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in host callable: %v", r)
			}
		}()
		err = f()
	}()
	if err != nil {
		fail(id, err)
		return 1
	}
	return 0
}
