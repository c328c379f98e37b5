package diffeq

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/alec-shirazi/godiffeq/internal/julia"
)

// Config controls bridge initialization.
type Config struct {
	// JuliaLib overrides the libjulia location. Defaults to the
	// DIFFEQ_JULIA_LIB environment variable, then the platform soname.
	JuliaLib string

	// Logger receives bridge diagnostics. Nil logs nothing.
	Logger *zap.Logger
}

var (
	setupMu sync.Mutex
	rt      *julia.Runtime
)

// Setup establishes the foreign-runtime connection and loads the solver
// namespace. It must precede any problem construction. Setup is idempotent:
// repeated calls reuse the established runtime without re-initializing
// foreign state.
func Setup() error { return SetupWith(Config{}) }

// SetupWith is Setup with explicit configuration. Configuration passed after
// the bridge is already established is ignored.
func SetupWith(cfg Config) error {
	setupMu.Lock()
	defer setupMu.Unlock()
	if rt != nil {
		return nil
	}
	r, err := julia.Open(julia.Config{LibPath: cfg.JuliaLib, Logger: cfg.Logger})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	rt = r
	return nil
}

// bridge returns the established runtime. Construction and solving refuse to
// run before Setup rather than initializing implicitly.
func bridge() (*julia.Runtime, error) {
	setupMu.Lock()
	defer setupMu.Unlock()
	if rt == nil {
		return nil, fmt.Errorf("%w: Setup has not been called", ErrBridgeUnavailable)
	}
	return rt, nil
}
