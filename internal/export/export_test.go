package export

import (
	"encoding/json"
	"strings"
	"testing"
)

func sample() Data {
	return Data{
		Problem:   "lotka",
		Algorithm: "Tsit5()",
		Points:    3,
		Times:     []float64{0, 0.5, 1},
		States: [][]float64{
			{1, 1},
			{1.25, 0.75},
			{1.5, 0.5},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	if err := WriteJSON(&b, sample()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got Data
	if err := json.Unmarshal([]byte(b.String()), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Problem != "lotka" || got.Points != 3 {
		t.Fatalf("got %+v", got)
	}
	if len(got.Times) != 3 || got.Times[1] != 0.5 {
		t.Fatalf("times %v", got.Times)
	}
	if len(got.States) != 3 || got.States[2][0] != 1.5 {
		t.Fatalf("states %v", got.States)
	}
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "t,u0,u1" {
		t.Fatalf("header %q", lines[0])
	}
	if lines[2] != "0.5,1.25,0.75" {
		t.Fatalf("row %q", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, Data{Problem: "empty"}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if strings.TrimSpace(b.String()) != "t" {
		t.Fatalf("got %q", b.String())
	}
}
