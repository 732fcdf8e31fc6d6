package config

import (
	_ "embed"
)

//go:embed defaults/doteat.yaml
var defaultDoteatYAML []byte

// DefaultDoteatConfig returns the hard-coded maze game configuration.
func DefaultDoteatConfig() DoteatConfig {
	return DoteatConfig{
		Movement: MovementConfig{
			PlayerInterval: 0.6,
			EnemyInterval:  0.6,
			LevelPause:     1.5,
		},
		Enemies: EnemiesConfig{
			Count:          2,
			EndlessSpeedup: 0.85,
			MinInterval:    0.15,
		},
		Input: InputConfig{
			PointerDeadzone: 0.7,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 300,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML for the maze game.
func DefaultYAML() []byte {
	return defaultDoteatYAML
}
