package diffeq

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func noopDeriv() Callable {
	return InPlace(func(du, u State, p any, t float64) {
		for i := range du {
			du[i] = 0
		}
	})
}

// Construction-time validation runs before any foreign call, so none of
// these require the bridge to be set up.

func TestODEValidation(t *testing.T) {
	g := NewWithT(t)

	_, err := NewODEProblem(Callable{}, State{1}, Span(0, 1))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewODEProblem(noopDeriv(), State{}, Span(0, 1))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewODEProblem(noopDeriv(), State{1}, Span(2, 2))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewODEProblem(noopDeriv(), State{math.Inf(1)}, Span(0, 1))
	g.Expect(err).To(MatchError(ErrInvalidProblem))
}

func TestOptionsBelongToVariant(t *testing.T) {
	g := NewWithT(t)

	_, err := NewODEProblem(noopDeriv(), State{1}, Span(0, 1),
		WithNoiseRatePrototype(Zeros(1, 1)))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewODEProblem(noopDeriv(), State{1}, Span(0, 1),
		WithDifferentialVars([]bool{true}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewODEProblem(noopDeriv(), State{1}, Span(0, 1),
		WithConstantLags([]float64{1}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))
}

func TestDAEMaskLength(t *testing.T) {
	g := NewWithT(t)
	res := NewResidual(func(out, du, u State, p any, t float64) {})

	// Mask shorter than the state is rejected, never truncated or padded.
	_, err := NewDAEProblem(res, State{1, 2, 3}, State{0, 0, 0}, Span(0, 1),
		WithDifferentialVars([]bool{true, false}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewDAEProblem(res, State{1, 2, 3}, State{0, 0, 0}, Span(0, 1),
		WithDifferentialVars([]bool{true, true, false, false}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))
}

func TestDAEInitialDerivativeShape(t *testing.T) {
	g := NewWithT(t)
	res := NewResidual(func(out, du, u State, p any, t float64) {})

	_, err := NewDAEProblem(res, State{1, 2, 3}, State{0, 0}, Span(0, 1))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}

func TestSDEPrototypeRowCount(t *testing.T) {
	g := NewWithT(t)
	f := noopDeriv()
	noise := noopDeriv()

	// Prototype rows must equal the state dimension.
	_, err := NewSDEProblem(f, noise, State{1, 2, 3}, Span(0, 1),
		WithNoiseRatePrototype(Zeros(2, 2)))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}

func TestSDENoiseProbeOutOfPlace(t *testing.T) {
	g := NewWithT(t)
	f := noopDeriv()

	// A (3,2) prototype expects 6 noise values; a callable producing a 3x3
	// worth of output is rejected before any solve attempt.
	bad := OutOfPlace(func(u State, p any, t float64) State {
		return make(State, 9)
	})
	_, err := NewSDEProblem(f, bad, State{1, 2, 3}, Span(0, 1),
		WithNoiseRatePrototype(Zeros(3, 2)))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}

func TestSDENoiseProbeInPlace(t *testing.T) {
	g := NewWithT(t)
	f := noopDeriv()

	// An in-place callable writing a 3x3 pattern overruns the (3,2) buffer.
	bad := InPlace(func(dw, u State, p any, t float64) {
		for i := 0; i < 9; i++ {
			dw[i] = 1
		}
	})
	_, err := NewSDEProblem(f, bad, State{1, 2, 3}, Span(0, 1),
		WithNoiseRatePrototype(Zeros(3, 2)))
	g.Expect(err).To(MatchError(ErrShapeMismatch))
}

func TestDDEValidation(t *testing.T) {
	g := NewWithT(t)
	f := DelayedOutOfPlace(func(u State, delayed []State, p any, t float64) State {
		return State{0}
	})
	h := HistoryOutOfPlace(func(p any, t float64) State { return State{0} })

	_, err := NewDDEProblem(f, h, State{1}, Span(0, 1))
	g.Expect(err).To(MatchError(ErrInvalidProblem)) // no lags

	_, err = NewDDEProblem(f, h, State{1}, Span(0, 1), WithConstantLags([]float64{-1}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))

	_, err = NewDDEProblem(f, History{}, State{1}, Span(0, 1), WithConstantLags([]float64{1}))
	g.Expect(err).To(MatchError(ErrInvalidProblem))
}

func TestJumpValidation(t *testing.T) {
	g := NewWithT(t)

	_, err := NewJumpProblem(nil, nil)
	g.Expect(err).To(MatchError(ErrInvalidProblem))
}

func TestMatrixShape(t *testing.T) {
	g := NewWithT(t)

	_, err := NewMatrix(0, 2, nil)
	g.Expect(err).To(MatchError(ErrShapeMismatch))

	_, err = NewMatrix(2, 2, []float64{1, 2, 3})
	g.Expect(err).To(MatchError(ErrShapeMismatch))

	m, err := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	g.Expect(err).NotTo(HaveOccurred())
	r, c := m.Dims()
	g.Expect(r).To(Equal(2))
	g.Expect(c).To(Equal(3))
	g.Expect(m.RawRowMajor()).To(Equal([]float64{1, 2, 3, 4, 5, 6}))
}

func TestTimeSpan(t *testing.T) {
	g := NewWithT(t)

	fwd := Span(0, 10)
	g.Expect(fwd.Reversed()).To(BeFalse())
	g.Expect(fwd.Contains(5.0)).To(BeTrue())
	g.Expect(fwd.Contains(-0.1)).To(BeFalse())

	rev := Span(10, 0)
	g.Expect(rev.Reversed()).To(BeTrue())
	g.Expect(rev.Contains(5.0)).To(BeTrue())
	g.Expect(rev.Contains(10.5)).To(BeFalse())
}
