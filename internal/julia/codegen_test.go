package julia

import "testing"

func TestQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{``, `""`},
		{`plain`, `"plain"`},
		{`a "b" c`, `"a \"b\" c"`},
		{`back\slash`, `"back\\slash"`},
		{`no $interp`, `"no \$interp"`},
		{"line\nbreak", `"line\nbreak"`},
		{"tab\there", `"tab\there"`},
	}
	for _, tc := range cases {
		if got := quote(tc.in); got != tc.want {
			t.Errorf("quote(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFloatLit(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-3, "-3.0"},
		{0.25, "0.25"},
		{1e-8, "1e-08"},
		{1e6, "1e+06"},
	}
	for _, tc := range cases {
		if got := FloatLit(tc.in); got != tc.want {
			t.Errorf("FloatLit(%g) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestVecLit(t *testing.T) {
	if got := VecLit(nil); got != "Float64[]" {
		t.Errorf("empty = %s", got)
	}
	if got := VecLit([]float64{1, 0.5}); got != "Float64[1.0, 0.5]" {
		t.Errorf("got %s", got)
	}
}

func TestBoolVecLit(t *testing.T) {
	if got := boolVecLit([]bool{true, false, true}); got != "Bool[true, false, true]" {
		t.Errorf("got %s", got)
	}
}
