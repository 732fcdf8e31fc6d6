package actor

import "github.com/vovakirdan/doteat/internal/maze"

// Outcome describes what a single Tick did.
type Outcome int

const (
	// Idle means the character was not active and nothing happened.
	Idle Outcome = iota
	// Stepped means the character advanced in its requested direction.
	Stepped
	// Steered means the requested direction was blocked and the character
	// followed the only available turn instead.
	Steered
	// Stopped means no move was possible and the character went idle.
	Stopped
)

func (o Outcome) String() string {
	switch o {
	case Stepped:
		return "stepped"
	case Steered:
		return "steered"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Committed reports whether the tick changed the committed position.
func (o Outcome) Committed() bool {
	return o == Stepped || o == Steered
}

// Character is the movement state machine shared by players and enemies.
type Character struct {
	id            CharacterID
	world         World
	position      maze.TilePosition
	direction     maze.Direction // last committed
	nextDirection maze.Direction // requested
	active        bool
}

// NewCharacter creates an idle character at start, facing nowhere.
func NewCharacter(id CharacterID, world World, start maze.TilePosition) *Character {
	return &Character{
		id:       id,
		world:    world,
		position: start,
	}
}

// ID returns the character identity used in notifications.
func (c *Character) ID() CharacterID {
	return c.id
}

// Position returns the committed position.
func (c *Character) Position() maze.TilePosition {
	return c.position
}

// Direction returns the last committed direction.
func (c *Character) Direction() maze.Direction {
	return c.direction
}

// NextDirection returns the requested direction for the next step.
func (c *Character) NextDirection() maze.Direction {
	return c.nextDirection
}

// SetNextDirection replaces the requested direction without any checks.
func (c *Character) SetNextDirection(d maze.Direction) {
	c.nextDirection = d
}

// Active reports whether the character is being ticked.
func (c *Character) Active() bool {
	return c.active
}

// Start makes the character active. Starting an active character is a no-op.
func (c *Character) Start() {
	c.active = true
}

// Stop makes the character idle. Stopping an idle character is a no-op.
func (c *Character) Stop() {
	c.active = false
}

// CanMove reports whether p holds a passable tile.
func (c *Character) CanMove(p maze.TilePosition) bool {
	t, ok := c.world.TileAt(p)
	return ok && t.Passable()
}

// CanRotate reports whether the neighbour in direction d is passable.
func (c *Character) CanRotate(d maze.Direction) bool {
	return c.CanMove(c.position.Moved(d))
}

// MovableDirections returns the passable neighbour directions, excluding the
// reverse of the committed direction.
func (c *Character) MovableDirections() []maze.Direction {
	back := c.direction.Reverse()
	dirs := make([]maze.Direction, 0, len(maze.Cardinals))
	for _, d := range maze.Cardinals {
		if d != back && c.CanRotate(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Tick advances an active character by at most one cell.
//
// The requested direction is taken if its tile is passable. Otherwise the
// character follows the single non-reversing turn if there is exactly one;
// with zero or several alternatives it stops and waits for a new request.
// A character with no requested direction holds its cell, which still counts
// as a committed step.
func (c *Character) Tick() Outcome {
	if !c.active {
		return Idle
	}

	candidate := c.position.Moved(c.nextDirection)
	if c.CanMove(candidate) {
		c.commit(candidate)
		return Stepped
	}

	dirs := c.MovableDirections()
	if len(dirs) == 1 {
		c.nextDirection = dirs[0]
		c.commit(c.position.Moved(c.nextDirection))
		return Steered
	}

	c.Stop()
	return Stopped
}

// commit is the only place the committed position changes.
func (c *Character) commit(p maze.TilePosition) {
	c.direction = c.nextDirection
	c.position = p
	c.world.CharacterMoved(c.id, p)
}
