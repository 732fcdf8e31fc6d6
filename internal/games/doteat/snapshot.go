package doteat

import (
	"sort"

	"github.com/vovakirdan/doteat/internal/actor"
	"github.com/vovakirdan/doteat/internal/levels"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StatePaused       GameStateType = "paused"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// CharacterSnapshot is the observable state of one character.
type CharacterSnapshot struct {
	ID        int    `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Direction string `json:"direction"`
	Active    bool   `json:"active"`
}

// Snapshot captures the complete game state for determinism testing and
// for network hosts.
type Snapshot struct {
	Tick        uint64              `json:"tick"`
	Mode        string              `json:"mode"`
	Level       int                 `json:"level"` // 1-indexed, counts endless cycles
	LevelID     string              `json:"level_id"`
	LevelName   string              `json:"level_name"`
	Score       int                 `json:"score"`
	FlowersLeft int                 `json:"flowers_left"`
	Flowers     []levels.Point      `json:"flowers"`
	Player      CharacterSnapshot   `json:"player"`
	Enemies     []CharacterSnapshot `json:"enemies"`
	PlayerEvery int                 `json:"player_every_ticks"`
	EnemyEvery  int                 `json:"enemy_every_ticks"`
	State       GameStateType       `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	}

	flowers := make([]levels.Point, 0, len(g.flowers))
	for p := range g.flowers {
		flowers = append(flowers, levels.Point{X: p.X, Y: p.Y})
	}
	sort.Slice(flowers, func(i, j int) bool {
		if flowers[i].Y != flowers[j].Y {
			return flowers[i].Y < flowers[j].Y
		}
		return flowers[i].X < flowers[j].X
	})

	enemies := make([]CharacterSnapshot, len(g.enemies))
	for i, e := range g.enemies {
		enemies[i] = characterSnapshot(e.Character)
	}

	lvl := g.Level()
	return Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Level:       g.levelIndex + 1,
		LevelID:     lvl.ID,
		LevelName:   lvl.Title(),
		Score:       g.score,
		FlowersLeft: len(g.flowers),
		Flowers:     flowers,
		Player:      characterSnapshot(g.player.Character),
		Enemies:     enemies,
		PlayerEvery: g.playerEvery,
		EnemyEvery:  g.enemyEvery,
		State:       state,
	}
}

func characterSnapshot(c *actor.Character) CharacterSnapshot {
	p := c.Position()
	return CharacterSnapshot{
		ID:        int(c.ID()),
		X:         p.X,
		Y:         p.Y,
		Direction: c.Direction().String(),
		Active:    c.Active(),
	}
}
