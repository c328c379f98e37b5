// Package julia hosts the embedded Julia runtime behind the bridge. It loads
// libjulia with purego, installs the solver namespace once per process, and
// serializes every engine interaction onto a single locked OS thread, which
// libjulia requires.
package julia

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

//go:embed prelude.jl
var preludeSrc string

// ErrUnavailable reports that libjulia or the solver package cannot be
// loaded. The caller maps it onto its own error taxonomy.
var ErrUnavailable = errors.New("julia runtime unavailable")

// Config controls bridge initialization. The zero value loads the platform
// default library name and logs nothing.
type Config struct {
	// LibPath overrides the libjulia location. Defaults to the
	// DIFFEQ_JULIA_LIB environment variable, then the platform soname.
	LibPath string
	Logger  *zap.Logger
}

// Runtime is the process-wide Julia instance. Julia can only be initialized
// once per process, so there is at most one.
type Runtime struct {
	log  *zap.Logger
	reqs chan func()

	jlEvalString        func(string) uintptr
	jlExceptionOccurred func() uintptr
	jlUnboxInt64        func(uintptr) int64
	jlStringPtr         func(uintptr) string
}

var (
	openOnce sync.Once
	shared   *Runtime
	openErr  error
)

// Open initializes the runtime, or returns the already-initialized one.
// Repeated calls are cheap and never re-initialize foreign state; a config
// passed after the first call is ignored.
func Open(cfg Config) (*Runtime, error) {
	openOnce.Do(func() {
		shared, openErr = boot(cfg)
	})
	return shared, openErr
}

func boot(cfg Config) (*Runtime, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runtime{log: log, reqs: make(chan func())}

	ready := make(chan error, 1)
	go func() {
		// libjulia is bound to the thread that ran jl_init; every eval,
		// and therefore every host callback, happens on this thread.
		runtime.LockOSThread()
		ready <- r.initJulia(cfg)
		for f := range r.reqs {
			f()
		}
	}()
	if err := <-ready; err != nil {
		close(r.reqs)
		return nil, err
	}
	return r, nil
}

func libName(cfg Config) string {
	if cfg.LibPath != "" {
		return cfg.LibPath
	}
	if p := os.Getenv("DIFFEQ_JULIA_LIB"); p != "" {
		return p
	}
	if runtime.GOOS == "darwin" {
		return "libjulia.dylib"
	}
	return "libjulia.so"
}

func (r *Runtime) initJulia(cfg Config) error {
	name := libName(cfg)
	lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: dlopen %s: %v", ErrUnavailable, name, err)
	}
	if _, err := purego.Dlsym(lib, "jl_init"); err != nil {
		return fmt.Errorf("%w: %s is not a Julia runtime: %v", ErrUnavailable, name, err)
	}

	var jlInit func()
	purego.RegisterLibFunc(&jlInit, lib, "jl_init")
	purego.RegisterLibFunc(&r.jlEvalString, lib, "jl_eval_string")
	purego.RegisterLibFunc(&r.jlExceptionOccurred, lib, "jl_exception_occurred")
	purego.RegisterLibFunc(&r.jlUnboxInt64, lib, "jl_unbox_int64")
	purego.RegisterLibFunc(&r.jlStringPtr, lib, "jl_string_ptr")

	r.log.Info("initializing julia runtime", zap.String("lib", name))
	jlInit()

	// Guarded import so a missing solver package yields a readable
	// diagnostic instead of a bare toplevel exception.
	v := r.jlEvalString(`try; import DifferentialEquations; import SciMLBase; "ok"; catch err; sprint(showerror, err); end`)
	if v == 0 || r.jlExceptionOccurred() != 0 {
		return fmt.Errorf("%w: solver package probe failed", ErrUnavailable)
	}
	if msg := r.jlStringPtr(v); msg != "ok" {
		return fmt.Errorf("%w: DifferentialEquations.jl not loadable: %s", ErrUnavailable, msg)
	}

	if r.jlEvalString(preludeSrc); r.jlExceptionOccurred() != 0 {
		return fmt.Errorf("%w: bridge prelude failed to install", ErrUnavailable)
	}
	r.log.Info("julia runtime ready")
	return nil
}

// do runs f on the runtime thread and blocks until it returns. Foreign
// callables invoked during f run reentrantly on that same thread.
func (r *Runtime) do(f func() error) error {
	errc := make(chan error, 1)
	r.reqs <- func() { errc <- f() }
	return <-errc
}

// run evaluates code through the prelude's guard. On failure it returns the
// engine diagnostic verbatim. Must be called on the runtime thread.
func (r *Runtime) run(code string) error {
	r.log.Debug("eval", zap.String("code", truncate(code, 256)))
	r.jlEvalString("_dq_run(" + quote(code) + ")")
	if r.intExpr("_dq_status") != 0 {
		return errors.New(r.strExpr("_dq_err"))
	}
	return nil
}

// intExpr evaluates a known-safe expression yielding an Int.
func (r *Runtime) intExpr(expr string) int64 {
	return r.jlUnboxInt64(r.jlEvalString(expr))
}

func (r *Runtime) strExpr(expr string) string {
	return r.jlStringPtr(r.jlEvalString(expr))
}

// Eval runs code for its side effects.
func (r *Runtime) Eval(code string) error {
	return r.do(func() error { return r.run(code) })
}

// EvalStore runs code whose value is a ref handle and returns the handle.
func (r *Runtime) EvalStore(code string) (int64, error) {
	var h int64
	err := r.do(func() error {
		if err := r.run(code); err != nil {
			return err
		}
		h = r.intExpr("_dq_ans")
		return nil
	})
	return h, err
}

// EvalInt runs code yielding an Int.
func (r *Runtime) EvalInt(code string) (int64, error) {
	return r.EvalStore(code)
}

// Release drops the engine-side reference behind handle.
func (r *Runtime) Release(handle int64) error {
	return r.Eval(fmt.Sprintf("_dq_release(%d)", handle))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
