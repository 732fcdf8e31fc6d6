package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const doteatFile = "doteat.yaml"

// LoadDoteat loads the maze game configuration.
// Search order: customPath -> ~/.doteat/configs/doteat.yaml -> ./configs/doteat.yaml -> embedded default.
// Only a broken customPath is an error; other candidates are skipped when unreadable.
func LoadDoteat(customPath string) (DoteatConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DoteatConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseDoteat(data)
		if err != nil {
			return DoteatConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(doteatFile), filepath.Join("configs", doteatFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parseDoteat(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parseDoteat(defaultDoteatYAML)
	if err != nil {
		return DefaultDoteatConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseDoteat decodes data on top of the hard-coded defaults, so partial
// files only override what they mention.
func parseDoteat(data []byte) (DoteatConfig, error) {
	cfg := DefaultDoteatConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize replaces values that would stall or break the game.
func (c *DoteatConfig) normalize() {
	def := DefaultDoteatConfig()
	if c.Movement.PlayerInterval <= 0 {
		c.Movement.PlayerInterval = def.Movement.PlayerInterval
	}
	if c.Movement.EnemyInterval <= 0 {
		c.Movement.EnemyInterval = def.Movement.EnemyInterval
	}
	if c.Movement.LevelPause < 0 {
		c.Movement.LevelPause = 0
	}
	if c.Enemies.Count < 0 {
		c.Enemies.Count = 0
	}
	if c.Enemies.EndlessSpeedup <= 0 || c.Enemies.EndlessSpeedup > 1 {
		c.Enemies.EndlessSpeedup = def.Enemies.EndlessSpeedup
	}
	if c.Enemies.MinInterval <= 0 {
		c.Enemies.MinInterval = def.Enemies.MinInterval
	}
	if c.Input.PointerDeadzone < 0 {
		c.Input.PointerDeadzone = 0
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".doteat", "configs", filename)
}
