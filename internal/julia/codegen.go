package julia

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

// quote renders s as a Julia string literal. Dollar signs are escaped so
// host-supplied text can never interpolate.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// FloatLit renders v as a Julia float literal.
func FloatLit(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// IntLit renders v as a Julia integer literal.
func IntLit(v int64) string { return strconv.FormatInt(v, 10) }

// BoolLit renders v as a Julia bool literal.
func BoolLit(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// VecLit renders v as a Float64 vector literal. Suitable for option-sized
// data; state vectors cross by pointer instead.
func VecLit(v []float64) string {
	var b strings.Builder
	b.WriteString("Float64[")
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FloatLit(x))
	}
	b.WriteByte(']')
	return b.String()
}

func boolVecLit(v []bool) string {
	var b strings.Builder
	b.WriteString("Bool[")
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(BoolLit(x))
	}
	b.WriteByte(']')
	return b.String()
}

// vecArg references a host slice by pointer; the far side copies it within
// the same eval. Callers keep the slice alive across the eval.
func vecArg(s []float64) string {
	return fmt.Sprintf("_dq_vec(0x%x, %d)", uintptr(unsafe.Pointer(&s[0])), len(s))
}

func ptrOf(s []float64) uintptr {
	return uintptr(unsafe.Pointer(&s[0]))
}
