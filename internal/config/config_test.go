package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Params.Validate(); err != nil {
		t.Errorf("default params must validate: %v", err)
	}
	if cfg.Step <= 0 {
		t.Error("step should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.TMax <= 0 {
		t.Error("tmax should be positive")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.R1 = 1.7
	cfg.Initial.X = 2.5
	cfg.Trajectories = 6
	cfg.Seed = 99

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Params.R1 != 1.7 {
		t.Errorf("r1 = %v, want 1.7", got.Params.R1)
	}
	if got.Initial.X != 2.5 {
		t.Errorf("initial x = %v, want 2.5", got.Initial.X)
	}
	if got.Trajectories != 6 || got.Seed != 99 {
		t.Errorf("ensemble settings lost: %d, %d", got.Trajectories, got.Seed)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("params:\n  r1: 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.R1 != 2.0 {
		t.Errorf("r1 = %v, want 2.0", cfg.Params.R1)
	}
	if cfg.Step != DefaultStep {
		t.Errorf("step lost its default: %v", cfg.Step)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected classic preset")
	}
	if cfg.Params.Alpha != 0.5 {
		t.Errorf("alpha = %v, want 0.5", cfg.Params.Alpha)
	}
	if cfg.Step != DefaultStep {
		t.Error("preset should inherit the default grid step")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Error("preset names should be sorted")
		}
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trajectories = 3
	cfg.Seed = 7

	opts := cfg.Options()
	if opts.Ensemble != 3 || opts.Seed != 7 {
		t.Errorf("ensemble settings not forwarded: %+v", opts)
	}
	if len(opts.Initial) != 1 || opts.Initial[0][0] != DefaultX0 {
		t.Errorf("initial condition not forwarded: %v", opts.Initial)
	}
}
