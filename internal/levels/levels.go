// Package levels loads maze levels from YAML files.
// Built-in levels are embedded in the binary; extra ones can be read from a
// directory.
package levels

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/doteat/internal/maze"
)

// Point is a tile coordinate as written in level files.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Pos converts p to a maze position.
func (p Point) Pos() maze.TilePosition {
	return maze.P(p.X, p.Y)
}

// Level is a parsed level definition.
type Level struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Format  maze.Format `yaml:"format"`
	Layout  string      `yaml:"layout"`
	Player  *Point      `yaml:"player,omitempty"`
	Enemies []Point     `yaml:"enemies,omitempty"`

	// FilePath is empty for built-in levels.
	FilePath string `yaml:"-"`
}

// Parse decodes and validates a YAML level.
func Parse(data []byte) (Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if lvl.Format == "" {
		lvl.Format = maze.FormatASCII
	}
	if err := lvl.Validate(); err != nil {
		return Level{}, err
	}
	return lvl, nil
}

// Grid builds the level's grid with the loader for its format.
func (l *Level) Grid() (*maze.Grid, error) {
	loader, err := maze.LoaderFor(l.Format)
	if err != nil {
		return nil, err
	}
	return loader.Load(l.Layout), nil
}

// PlayerStart returns the player's start tile, (0,0) unless set.
func (l *Level) PlayerStart() maze.TilePosition {
	if l.Player == nil {
		return maze.P(0, 0)
	}
	return l.Player.Pos()
}

// EnemyStarts returns the enemy start tiles. Levels that list none get
// fallback enemies stacked on (w-2, h-2).
func (l *Level) EnemyStarts(g *maze.Grid, fallback int) []maze.TilePosition {
	if len(l.Enemies) > 0 {
		out := make([]maze.TilePosition, len(l.Enemies))
		for i, e := range l.Enemies {
			out[i] = e.Pos()
		}
		return out
	}
	out := make([]maze.TilePosition, fallback)
	for i := range out {
		out[i] = maze.P(g.Width()-2, g.Height()-2)
	}
	return out
}

// Validate checks that the level can be played.
func (l *Level) Validate() error {
	if l.ID == "" {
		return errors.New("level has no id")
	}
	g, err := l.Grid()
	if err != nil {
		return fmt.Errorf("level %s: %w", l.ID, err)
	}
	if g.Width() == 0 || g.Height() == 0 {
		return fmt.Errorf("level %s: empty layout", l.ID)
	}
	if !g.InBounds(l.PlayerStart()) {
		return fmt.Errorf("level %s: player start %v outside the map", l.ID, l.PlayerStart())
	}
	for _, e := range l.Enemies {
		if !g.InBounds(e.Pos()) {
			return fmt.Errorf("level %s: enemy start %v outside the map", l.ID, e.Pos())
		}
	}
	// Flowers grow on straight segments; a level without any could never be cleared.
	if len(g.Positions(maze.TileType.IsStraight)) == 0 {
		return fmt.Errorf("level %s: no straight roads for flowers", l.ID)
	}
	return nil
}

// Title returns the display name, falling back to the ID.
func (l Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}
