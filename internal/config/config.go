// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// DoteatConfig contains all tunables of the maze game.
type DoteatConfig struct {
	Movement   MovementConfig   `yaml:"movement"`
	Enemies    EnemiesConfig    `yaml:"enemies"`
	Input      InputConfig      `yaml:"input"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// MovementConfig defines how often characters step, in seconds.
type MovementConfig struct {
	PlayerInterval float64 `yaml:"player_interval"`
	EnemyInterval  float64 `yaml:"enemy_interval"`
	LevelPause     float64 `yaml:"level_pause"` // pause after a cleared level
}

// EnemiesConfig defines enemy spawning and endless-mode speed-up.
type EnemiesConfig struct {
	Count          int     `yaml:"count"`           // used when a level lists no enemies
	EndlessSpeedup float64 `yaml:"endless_speedup"` // interval factor applied per endless cycle
	MinInterval    float64 `yaml:"min_interval"`
}

// InputConfig defines pointer handling.
type InputConfig struct {
	PointerDeadzone float64 `yaml:"pointer_deadzone"` // in tiles
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to enemy speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string is accepted and
// means "keep the loaded configuration".
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyDoteatPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyDoteatPreset(cfg *DoteatConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Enemies.Count = 1
		cfg.Movement.EnemyInterval = 0.8
	case DifficultyHard:
		cfg.Enemies.Count = 3
		cfg.Movement.EnemyInterval = 0.45
	}
}
