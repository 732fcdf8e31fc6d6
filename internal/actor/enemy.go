package actor

import (
	"math/rand"

	"github.com/vovakirdan/doteat/internal/maze"
)

// RandomSource picks integers in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource returns a seeded math/rand source.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// Enemy wanders the maze: it keeps going straight along corridors and picks
// a random way out at junctions and walls.
type Enemy struct {
	*Character
	rng RandomSource
}

// NewEnemy creates an idle enemy at start.
func NewEnemy(id CharacterID, world World, start maze.TilePosition, rng RandomSource) *Enemy {
	return &Enemy{
		Character: NewCharacter(id, world, start),
		rng:       rng,
	}
}

// WanderDirections returns the directions the enemy may choose from.
// It is MovableDirections, except that a dead end offers the way back.
func (e *Enemy) WanderDirections() []maze.Direction {
	dirs := e.MovableDirections()
	if len(dirs) > 0 {
		return dirs
	}
	if back := e.Direction().Reverse(); back != maze.None && e.CanRotate(back) {
		return []maze.Direction{back}
	}
	return dirs
}

// Tick chooses a new direction when the current one is blocked or when
// standing on a junction, then moves like any character.
func (e *Enemy) Tick() Outcome {
	dirs := e.WanderDirections()

	next := e.NextDirection()
	canAdvance := next != maze.None && e.CanRotate(next)
	if len(dirs) > 0 && (!canAdvance || len(dirs) > 1) {
		e.SetNextDirection(dirs[e.rng.Intn(len(dirs))])
	}

	e.Start()
	return e.Character.Tick()
}
