package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEngineConfigIsValid(t *testing.T) {
	if err := DefaultEngineConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}
	if cfg.Physics.MaxContactIterations <= 0 {
		t.Errorf("MaxContactIterations = %d", cfg.Physics.MaxContactIterations)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	data := []byte("physics:\n  gravity: -9.8\n  max_contact_iterations: 5\nworld:\n  cell_size: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Physics.Gravity != -9.8 {
		t.Errorf("Gravity = %f, expected -9.8", cfg.Physics.Gravity)
	}
	if cfg.Physics.MaxContactIterations != 5 {
		t.Errorf("MaxContactIterations = %d, expected 5", cfg.Physics.MaxContactIterations)
	}
	if cfg.World.CellSize != 2 {
		t.Errorf("CellSize = %f, expected 2", cfg.World.CellSize)
	}
	// Unset keys keep defaults
	if cfg.Physics.TickRate != DefaultEngineConfig().Physics.TickRate {
		t.Errorf("TickRate = %d, expected default", cfg.Physics.TickRate)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "physics: [oops"},
		{"zero cell size", "world:\n  cell_size: 0\n"},
		{"zero iterations", "physics:\n  max_contact_iterations: 0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
	}{
		{DifficultyEasy, true, 0.0},
		{DifficultyNormal, true, 0.3},
		{DifficultyHard, true, 0.7},
		{DifficultyFixed, false, 0.0},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultEngineConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if tc.enabled && cfg.Difficulty.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %f, expected %f", cfg.Difficulty.InitialLevel, tc.level)
			}
		})
	}
}

func TestDifficultyManagerLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0, SightMultiplier: 0.5},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		ticks    int
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{1000, 1.0},
	}
	for _, tc := range tests {
		if got := d.Level(0, tc.ticks); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(0, %d) = %f, expected %f", tc.ticks, got, tc.expected)
		}
	}

	if got := d.Speed(2, 0, 100); math.Abs(got-4) > 1e-9 {
		t.Errorf("Speed at max = %f, expected 4", got)
	}
	if got := d.Sight(6, 0, 100); math.Abs(got-9) > 1e-9 {
		t.Errorf("Sight at max = %f, expected 9", got)
	}
	if got := d.Sight(6, 0, 0); math.Abs(got-6.6) > 1e-9 {
		t.Errorf("Sight at start = %f, expected 6.6", got)
	}
}

func TestDifficultyManagerDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{Enabled: false, InitialLevel: 0.4})
	if d.IsEnabled() {
		t.Error("expected disabled")
	}
	if got := d.Level(1000, 1000); got != 0.4 {
		t.Errorf("Level = %f, expected 0.4", got)
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/abs/path")
	if err != nil || got != "/abs/path" {
		t.Errorf("ExpandHome(abs) = %q, %v", got, err)
	}
	got, err = ExpandHome("~/x.log")
	if err != nil {
		t.Fatalf("ExpandHome error: %v", err)
	}
	if filepath.Base(got) != "x.log" || got == "~/x.log" {
		t.Errorf("ExpandHome(~/x.log) = %q", got)
	}
}
