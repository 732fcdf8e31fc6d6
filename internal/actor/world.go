// Package actor implements the movement rules shared by every character in
// the maze, and the two policies built on top of them: the wandering enemy and
// the intent-driven player.
//
// Characters hold no timers. A host calls Tick on each active character at its
// own cadence and learns about the results through the World it supplied.
package actor

import "github.com/vovakirdan/doteat/internal/maze"

// CharacterID identifies a character in move notifications.
type CharacterID int

// PlayerID is the identity conventionally given to the player character.
const PlayerID CharacterID = 0

// World is the set of capabilities a character needs from its host.
// The host owns the grid, the collectibles and the score; characters only
// query tiles and report what happened.
type World interface {
	// TileAt returns the tile at p, or false if there is none.
	TileAt(p maze.TilePosition) (maze.TileType, bool)

	// CharacterMoved is called after every committed step.
	CharacterMoved(id CharacterID, p maze.TilePosition)

	// ItemCollected is called by the player after every committed step.
	ItemCollected(p maze.TilePosition)
}
