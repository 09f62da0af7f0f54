package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parse(defaultGemFusionYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != DefaultGemFusionConfig() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, DefaultGemFusionConfig())
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := writeConfig(t, `
scoring:
  points_per_gem: 80
safety:
  max_resolve_time: 500ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scoring.PointsPerGem != 80 {
		t.Errorf("PointsPerGem = %d, expected 80", cfg.Scoring.PointsPerGem)
	}
	if cfg.Safety.MaxResolveTime != 500*time.Millisecond {
		t.Errorf("MaxResolveTime = %v, expected 500ms", cfg.Safety.MaxResolveTime)
	}
	// Untouched keys keep their defaults
	if cfg.Scoring.ComboStep != 0.5 {
		t.Errorf("ComboStep = %v, expected 0.5", cfg.Scoring.ComboStep)
	}
	if cfg.Presentation.FlashTicks != 12 {
		t.Errorf("FlashTicks = %d, expected 12", cfg.Presentation.FlashTicks)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml")},
		{"bad yaml", writeConfig(t, "scoring: [1, 2")},
		{"negative value", writeConfig(t, "scoring:\n  points_per_gem: -1\n")},
		{"unknown preset", writeConfig(t, "difficulty:\n  preset: brutal\n")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(tc.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != DefaultGemFusionConfig() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}
}

func TestLoadPrefersLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	body := []byte("presentation:\n  flash_ticks: 3\n")
	if err := os.WriteFile(filepath.Join("configs", FileName), body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Presentation.FlashTicks != 3 {
		t.Errorf("FlashTicks = %d, expected 3", cfg.Presentation.FlashTicks)
	}
}

func TestRulesMapping(t *testing.T) {
	cfg := DefaultGemFusionConfig()
	cfg.Scoring.ComboStep = 0.25
	cfg.Safety.MaxCascades = 7

	r := cfg.Rules()
	expected := engine.Rules{
		PointsPerGem:           50,
		ComboStep:              0.25,
		ActivationPointsPerGem: 50,
		MaxCascades:            7,
		MaxResolveTime:         2 * time.Second,
		MaxShuffleAttempts:     100,
	}
	if r != expected {
		t.Errorf("Rules() = %+v, expected %+v", r, expected)
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in       string
		expected DifficultyPreset
		ok       bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{"hard", DifficultyHard, true},
		{"fixed", DifficultyFixed, true},
		{"HARD", "", false},
		{"nightmare", "", false},
	}

	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParsePreset(%q): err = %v, expected ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && got != tc.expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestDifficultyMoves(t *testing.T) {
	cfg := DefaultGemFusionConfig().Difficulty

	tests := []struct {
		preset   DifficultyPreset
		base     int
		expected int
	}{
		{DifficultyNormal, 20, 20},
		{DifficultyFixed, 20, 20},
		{DifficultyEasy, 20, 25},
		{DifficultyHard, 20, 17},
		{DifficultyHard, 3, 1},
		{DifficultyHard, 1, 1},
	}

	for _, tc := range tests {
		d := NewDifficultyManager(cfg)
		d.SetPreset(tc.preset)
		if got := d.Moves(tc.base); got != tc.expected {
			t.Errorf("Moves(%s, %d) = %d, expected %d", tc.preset, tc.base, got, tc.expected)
		}
	}
}

func TestDifficultyManagerDefaultsToNormal(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{})
	if d.Preset() != DifficultyNormal {
		t.Errorf("Preset() = %q, expected normal", d.Preset())
	}
	if d.Moves(10) != 10 {
		t.Errorf("Moves(10) = %d, expected 10", d.Moves(10))
	}
}

func TestIsFixedPreset(t *testing.T) {
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyHard) {
		t.Error("IsFixedPreset mismatch")
	}
}
