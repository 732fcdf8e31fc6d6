package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseDoteat(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultDoteatConfig() {
		t.Errorf("embedded defaults = %+v, expected %+v", cfg, DefaultDoteatConfig())
	}
}

func TestLoadDoteatCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("movement:\n  player_interval: 0.3\nenemies:\n  count: 4\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDoteat(path)
	if err != nil {
		t.Fatalf("LoadDoteat() error: %v", err)
	}
	if cfg.Movement.PlayerInterval != 0.3 {
		t.Errorf("PlayerInterval = %v, expected 0.3", cfg.Movement.PlayerInterval)
	}
	if cfg.Enemies.Count != 4 {
		t.Errorf("Count = %d, expected 4", cfg.Enemies.Count)
	}
	// Unmentioned values keep their defaults.
	if cfg.Movement.EnemyInterval != 0.6 {
		t.Errorf("EnemyInterval = %v, expected default 0.6", cfg.Movement.EnemyInterval)
	}
}

func TestLoadDoteatErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadDoteat(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("movement: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDoteat(bad); err == nil {
		t.Error("malformed custom config should be an error")
	}
}

func TestNormalize(t *testing.T) {
	cfg, err := parseDoteat([]byte("movement:\n  player_interval: -1\n  enemy_interval: 0\nenemies:\n  endless_speedup: 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultDoteatConfig()
	if cfg.Movement.PlayerInterval != def.Movement.PlayerInterval || cfg.Movement.EnemyInterval != def.Movement.EnemyInterval {
		t.Errorf("non-positive intervals should fall back to defaults, got %+v", cfg.Movement)
	}
	if cfg.Enemies.EndlessSpeedup != def.Enemies.EndlessSpeedup {
		t.Errorf("EndlessSpeedup = %v, expected default", cfg.Enemies.EndlessSpeedup)
	}
}

func TestApplyDoteatPreset(t *testing.T) {
	tests := []struct {
		preset      DifficultyPreset
		enabled     bool
		initial     float64
		enemyCount  int
		enemyPeriod float64
	}{
		{"", true, 0.0, 2, 0.6},
		{DifficultyEasy, true, 0.0, 1, 0.8},
		{DifficultyNormal, true, 0.3, 2, 0.6},
		{DifficultyHard, true, 0.7, 3, 0.45},
		{DifficultyFixed, false, 0.0, 2, 0.6},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultDoteatConfig()
			ApplyDoteatPreset(&cfg, tc.preset)

			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.initial {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.initial)
			}
			if cfg.Enemies.Count != tc.enemyCount {
				t.Errorf("Count = %d, expected %d", cfg.Enemies.Count, tc.enemyCount)
			}
			if cfg.Movement.EnemyInterval != tc.enemyPeriod {
				t.Errorf("EnemyInterval = %v, expected %v", cfg.Movement.EnemyInterval, tc.enemyPeriod)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"", "easy", "normal", "hard", "fixed"} {
		if _, ok := ParsePreset(s); !ok {
			t.Errorf("ParsePreset(%q) should succeed", s)
		}
	}
	if _, ok := ParsePreset("insane"); ok {
		t.Error("ParsePreset(insane) should fail")
	}
}

func TestDifficultyProgression(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := dm.Level(tc.score, 0); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}

	if got := dm.Speed(1.0, 100, 0); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Speed() at max = %v, expected 2.0", got)
	}
	if got := dm.Interval(0.6, 0.1, 100, 0); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("Interval() at max = %v, expected 0.3", got)
	}
	if got := dm.Interval(0.6, 0.5, 100, 0); got != 0.5 {
		t.Errorf("Interval() should respect the minimum, got %v", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})

	if dm.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	if got := dm.Level(1000, 1000); got != 0.4 {
		t.Errorf("Level() = %v, expected fixed 0.4", got)
	}
}
