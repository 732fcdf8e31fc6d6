// Package maze contains the static part of the game world: tile types, the
// direction and position algebra, and the read-only grid built from map data.
// It has no external dependencies so the movement rules stay pure and testable.
package maze

import "fmt"

// Direction is a cardinal movement direction. None means "not moving".
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Cardinals lists the four movement directions in the order characters
// examine them.
var Cardinals = [4]Direction{Up, Down, Left, Right}

// Reverse returns the opposite direction. None maps to itself.
func (d Direction) Reverse() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// Delta returns the (dx, dy) offset of a single step.
// Y grows downward, matching row order in map files.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection converts a name produced by String back to a Direction.
// Unknown names yield None and false.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "none", "stop":
		return None, true
	default:
		return None, false
	}
}

// TilePosition addresses a cell of the grid.
type TilePosition struct {
	X, Y int
}

// P is a convenience constructor for TilePosition.
func P(x, y int) TilePosition {
	return TilePosition{X: x, Y: y}
}

// Moved returns the position one cell away in direction d.
func (p TilePosition) Moved(d Direction) TilePosition {
	dx, dy := d.Delta()
	return TilePosition{X: p.X + dx, Y: p.Y + dy}
}

func (p TilePosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
