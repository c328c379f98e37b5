package diffeq

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State is a state vector. Scalar problems use a length-1 state.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TimeSpan is the integration interval. Start > End requests reverse
// integration; Start == End is invalid.
type TimeSpan struct {
	Start float64
	End   float64
}

func Span(start, end float64) TimeSpan { return TimeSpan{Start: start, End: end} }

// Reversed reports whether the span integrates backward in time.
func (ts TimeSpan) Reversed() bool { return ts.Start > ts.End }

// Contains reports whether t lies inside the closed span, in either
// direction.
func (ts TimeSpan) Contains(t float64) bool {
	lo, hi := ts.Start, ts.End
	if ts.Reversed() {
		lo, hi = hi, lo
	}
	return t >= lo && t <= hi
}

// Matrix is a dense row-major matrix crossing the bridge boundary, used for
// noise-rate prototypes. Only its extents participate in validation; the
// engine side allocates its own storage.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix returns an r-by-c matrix. A nil data slice yields zeros;
// otherwise data is the row-major element order and its length must be r*c.
func NewMatrix(r, c int, data []float64) (*Matrix, error) {
	if r <= 0 || c <= 0 {
		return nil, shapeMismatch("matrix extents must be positive, got %dx%d", r, c)
	}
	if data != nil && len(data) != r*c {
		return nil, shapeMismatch("matrix data has %d elements, want %d", len(data), r*c)
	}
	return &Matrix{d: mat.NewDense(r, c, data)}, nil
}

// Zeros returns an r-by-c zero matrix, the usual form of a noise-rate
// prototype. It panics on non-positive extents.
func Zeros(r, c int) *Matrix {
	m, err := NewMatrix(r, c, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matrix) Dims() (r, c int) { return m.d.Dims() }

// RawRowMajor exposes the backing row-major element slice.
func (m *Matrix) RawRowMajor() []float64 { return m.d.RawMatrix().Data }

// Dense exposes the underlying gonum matrix.
func (m *Matrix) Dense() *mat.Dense { return m.d }
