package maze

// Grid is a rectangular tile layout. It is built once from map data and never
// mutated afterwards, so any number of characters may read it concurrently.
// Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	w, h  int
	cells []cell
}

type cell struct {
	tile    TileType
	present bool
}

// NewGrid builds a grid from rows of tokens. Width is the longest row; missing
// cells of shorter rows and unrecognized tokens become absent cells.
func NewGrid(rows [][]string) *Grid {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	g := &Grid{
		w:     w,
		h:     len(rows),
		cells: make([]cell, w*len(rows)),
	}
	for y, row := range rows {
		for x, tok := range row {
			if t, ok := ParseTileType(tok); ok {
				g.cells[y*w+x] = cell{tile: t, present: true}
			}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// InBounds returns true if p lies inside [0,W)×[0,H).
func (g *Grid) InBounds(p TilePosition) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// TileAt returns the tile at p. The second result is false when p is out of
// bounds or the cell held an unrecognized token.
func (g *Grid) TileAt(p TilePosition) (TileType, bool) {
	if !g.InBounds(p) {
		return Empty, false
	}
	c := g.cells[p.Y*g.w+p.X]
	return c.tile, c.present
}

// Passable reports whether p holds a passable tile.
func (g *Grid) Passable(p TilePosition) bool {
	t, ok := g.TileAt(p)
	return ok && t.Passable()
}

// Positions returns every in-bounds position whose tile satisfies keep,
// in row-major order.
func (g *Grid) Positions(keep func(TileType) bool) []TilePosition {
	var out []TilePosition
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.present && keep(c.tile) {
				out = append(out, TilePosition{X: x, Y: y})
			}
		}
	}
	return out
}

// Tokens renders the grid back into map tokens, one row per slice.
// Absent cells are rendered as "?".
func (g *Grid) Tokens() [][]string {
	rows := make([][]string, g.h)
	for y := range rows {
		rows[y] = make([]string, g.w)
		for x := range rows[y] {
			c := g.cells[y*g.w+x]
			if c.present {
				rows[y][x] = c.tile.Token()
			} else {
				rows[y][x] = "?"
			}
		}
	}
	return rows
}
