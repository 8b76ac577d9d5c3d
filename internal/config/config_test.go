package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "random" {
		t.Errorf("expected scenario random, got %s", cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.Steps(); got != 1200 {
		t.Errorf("expected 1200 steps, got %d", got)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("heavy_light")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	cfg.Explicit[0].Mass = 1
	cfg.Width = 1

	fresh := GetPreset("heavy_light")
	if fresh.Explicit[0].Mass != 25 || fresh.Width != 800 {
		t.Error("GetPreset must hand out copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"billiards", "classic", "crowded", "gas", "heavy_light"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("heavy_light")
	cfg.Seed = 99
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 99 || loaded.Scenario != "explicit" || len(loaded.Explicit) != 5 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Explicit[1] != cfg.Explicit[1] {
		t.Errorf("expected %+v, got %+v", cfg.Explicit[1], loaded.Explicit[1])
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero frame dt", func(c *Config) { c.FrameDt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"record every", func(c *Config) { c.RecordEvery = 0 }},
		{"radius range", func(c *Config) { c.Bodies.RadiusMax = 1 }},
		{"speed range", func(c *Config) { c.Bodies.SpeedMin = -1 }},
		{"density", func(c *Config) { c.Bodies.Density = 0 }},
		{"explicit empty", func(c *Config) { c.Scenario = "explicit" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
