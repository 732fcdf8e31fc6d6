package doteat

import (
	"fmt"

	"github.com/vovakirdan/doteat/internal/core"
	"github.com/vovakirdan/doteat/internal/maze"
)

const (
	hudHeight = 2
	cellW     = 2 // screen columns per tile
	minWidth  = 44
)

var roadGlyphs = map[maze.TileType]rune{
	maze.Road1:        '─',
	maze.Road2:        '│',
	maze.Road3:        '┌',
	maze.Road4:        '┐',
	maze.Road5:        '┘',
	maze.Road6:        '└',
	maze.Road7:        '┬',
	maze.Road8:        '┤',
	maze.Road9:        '┴',
	maze.Road10:       '├',
	maze.Road11:       '┼',
	maze.EnclosedRoad: '·',
}

var obstacleGlyphs = map[maze.TileType]struct {
	r rune
	c core.Color
}{
	maze.ObstacleA: {'♣', core.ColorTree},
	maze.ObstacleB: {'▲', core.ColorRock},
	maze.ObstacleC: {'≈', core.ColorWater},
}

// connectsRight reports whether a road tile continues to the east, which
// decides if the gap column after it is drawn as a line.
func connectsRight(t maze.TileType) bool {
	switch t {
	case maze.Road1, maze.Road3, maze.Road6, maze.Road7, maze.Road9, maze.Road10, maze.Road11:
		return true
	}
	return false
}

// BoardSize returns the smallest screen that fits the current level.
func (g *Game) BoardSize() (w, h int) {
	return max(minWidth, g.grid.Width()*cellW+2), hudHeight + g.grid.Height() + 2
}

// layout places the board on screen. A zero screen size means a headless
// host; the screen is then sized to each level's board.
func (g *Game) layout() {
	if g.runtime.ScreenW <= 0 || g.runtime.ScreenH <= 0 {
		g.screenW, g.screenH = g.BoardSize()
	}

	w := g.grid.Width()*cellW + 2
	h := g.grid.Height() + 2
	g.tooSmall = g.screenW < w || g.screenH < hudHeight+h
	g.board = core.NewRect((g.screenW-w)/2, hudHeight, w, h)
}

// Resize adapts the layout to a new screen size without restarting. A board
// that no longer fits pauses the game until the screen grows again.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW, g.runtime.ScreenH = w, h
	g.screenW, g.screenH = w, h
	g.layout()
}

func (g *Game) tileX(x int) int {
	return g.board.X + 1 + x*cellW
}

func (g *Game) tileY(y int) int {
	return g.board.Y + 1 + y
}

// pointerOffset converts a screen cell into an offset from the player, in
// tiles, y growing downward.
func (g *Game) pointerOffset(px, py int) (dx, dy float64) {
	p := g.player.Position()
	dx = (float64(px-g.tileX(p.X)) - 0.5) / cellW
	dy = float64(py - g.tileY(p.Y))
	return dx, dy
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	dst.DrawBox(g.board, core.ColorFrame)
	g.renderTiles(dst)

	for p := range g.flowers {
		dst.SetColored(g.tileX(p.X), g.tileY(p.Y), '✿', core.ColorFlower)
	}
	for _, e := range g.enemies {
		p := e.Position()
		dst.SetColored(g.tileX(p.X), g.tileY(p.Y), 'W', core.ColorWolf)
	}
	p := g.player.Position()
	dst.SetColored(g.tileX(p.X), g.tileY(p.Y), '@', core.ColorPlayer)

	switch {
	case g.won:
		g.renderOverlay(dst, "All flowers picked!", "Press R to play again")
	case g.levelCleared:
		g.renderOverlay(dst, "Level cleared!", g.Level().Title())
	case g.gameOver:
		g.renderOverlay(dst, "Caught by a wolf", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderTiles(dst *core.Screen) {
	for y := 0; y < g.grid.Height(); y++ {
		for x := 0; x < g.grid.Width(); x++ {
			t, ok := g.grid.TileAt(maze.P(x, y))
			if !ok {
				continue
			}
			sx, sy := g.tileX(x), g.tileY(y)
			if r, ok := roadGlyphs[t]; ok {
				dst.SetColored(sx, sy, r, core.ColorRoad)
				if connectsRight(t) {
					dst.SetColored(sx+1, sy, '─', core.ColorRoad)
				}
				continue
			}
			if o, ok := obstacleGlyphs[t]; ok {
				dst.SetColored(sx, sy, o.r, o.c)
			}
		}
	}
}

// renderHUD draws the top status bar. The score is kept off screen.
func (g *Game) renderHUD(dst *core.Screen) {
	lvl := g.Level()
	var hud string
	if g.mode == ModeEndless {
		hud = fmt.Sprintf(" %s · %s  Cycle %d  Flowers left: %d", g.Title(), lvl.Title(), g.cycle()+1, len(g.flowers))
	} else {
		hud = fmt.Sprintf(" %s · %s  Level %d/%d  Flowers left: %d", g.Title(), lvl.Title(), g.levelIndex+1, len(g.levels), len(g.flowers))
	}
	dst.DrawText(0, 0, hud)

	for x := range dst.Width() {
		dst.SetColored(x, 1, '─', core.ColorFrame)
	}
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, core.ColorTitle)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorTitle)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorDefault)
}
