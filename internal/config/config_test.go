package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffeq.yaml")

	want := &Config{
		Problem:   "lorenz",
		Algorithm: "Vern7()",
		AbsTol:    1e-10,
		RelTol:    1e-9,
		SaveStep:  0.01,
		Plot:      Plot{Height: 15, Width: 120},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("problem: lotka\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Problem != "lotka" {
		t.Fatalf("problem %q", got.Problem)
	}
	// Keys absent from the document keep their defaults.
	if got.AbsTol != DefaultAbsTol || got.Plot.Width != DefaultWidth {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lorenz", "fine")
	if cfg == nil {
		t.Fatal("missing preset")
	}
	if cfg.Algorithm != "Vern7()" {
		t.Fatalf("algorithm %q", cfg.Algorithm)
	}
	if GetPreset("lorenz", "nope") != nil {
		t.Fatal("unknown preset should be nil")
	}
	if GetPreset("nope", "fine") != nil {
		t.Fatal("unknown problem should be nil")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("decay")
	if len(names) != 2 {
		t.Fatalf("got %v", names)
	}
	if ListPresets("nope") != nil {
		t.Fatal("unknown problem should be nil")
	}
}
