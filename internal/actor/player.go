package actor

import "github.com/vovakirdan/doteat/internal/maze"

// Player is the character steered by the user. Every committed step also
// picks up whatever lies on the new tile.
type Player struct {
	*Character
}

// NewPlayer creates an idle player at start with PlayerID.
func NewPlayer(world World, start maze.TilePosition) *Player {
	return &Player{Character: NewCharacter(PlayerID, world, start)}
}

// SetIntent applies a direction requested by the user.
// None stops the player in place. Any other direction is accepted only if the
// neighbouring tile is passable right now; an accepted intent also wakes an
// idle player. Returns whether the intent was accepted.
func (p *Player) SetIntent(d maze.Direction) bool {
	if d == maze.None {
		p.SetNextDirection(maze.None)
		return true
	}
	if !p.CanRotate(d) {
		return false
	}
	p.SetNextDirection(d)
	p.Start()
	return true
}

// Tick moves the player and reports the item pickup at the new position.
func (p *Player) Tick() Outcome {
	out := p.Character.Tick()
	if out.Committed() {
		p.world.ItemCollected(p.Position())
	}
	return out
}

// PointerIntent converts a pointer offset from the player's on-screen cell
// into a direction. Offsets use screen orientation (y grows downward). Inside
// the deadzone, or at zero offset, the result is None, meaning "stop".
func PointerIntent(dx, dy, deadzone float64) maze.Direction {
	ax, ay := abs(dx), abs(dy)
	if (ax < deadzone && ay < deadzone) || (ax == 0 && ay == 0) {
		return maze.None
	}
	if ax > ay {
		if dx > 0 {
			return maze.Right
		}
		return maze.Left
	}
	if dy < 0 {
		return maze.Up
	}
	return maze.Down
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
