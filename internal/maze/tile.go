package maze

import "strconv"

// TileType identifies what occupies a grid cell.
type TileType int

const (
	Empty TileType = iota
	Road1          // horizontal straight
	Road2          // vertical straight
	Road3          // corner: right + down
	Road4          // corner: left + down
	Road5          // corner: up + left
	Road6          // corner: up + right
	Road7          // tee: left + right + down
	Road8          // tee: up + left + down
	Road9          // tee: up + left + right
	Road10         // tee: up + right + down
	Road11         // crossing
	EnclosedRoad   // road cell with no neighbours
	ObstacleA
	ObstacleB
	ObstacleC
)

// tileTokens maps tile types to the tokens used in map files.
var tileTokens = map[TileType]string{
	Empty:        "0",
	EnclosedRoad: "x",
	ObstacleA:    "A",
	ObstacleB:    "B",
	ObstacleC:    "C",
}

// ParseTileType converts a map token into a tile type.
// Unrecognized tokens return false; callers treat the cell as absent.
func ParseTileType(token string) (TileType, bool) {
	switch token {
	case "0":
		return Empty, true
	case "x":
		return EnclosedRoad, true
	case "A":
		return ObstacleA, true
	case "B":
		return ObstacleB, true
	case "C":
		return ObstacleC, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > 11 || strconv.Itoa(n) != token {
		return Empty, false
	}
	return Road1 + TileType(n-1), true
}

// Passable reports whether characters may stand on or walk over the tile.
func (t TileType) Passable() bool {
	return t.IsRoad() || t == EnclosedRoad
}

// IsRoad reports whether t is one of the numbered road segments.
func (t TileType) IsRoad() bool {
	return t >= Road1 && t <= Road11
}

// IsStraight reports whether t is a straight road segment.
func (t TileType) IsStraight() bool {
	return t == Road1 || t == Road2
}

// IsObstacle reports whether t is one of the obstacle markers.
func (t TileType) IsObstacle() bool {
	return t >= ObstacleA && t <= ObstacleC
}

// Token returns the map token that parses back to t.
func (t TileType) Token() string {
	if t.IsRoad() {
		return strconv.Itoa(int(t-Road1) + 1)
	}
	if tok, ok := tileTokens[t]; ok {
		return tok
	}
	return "?"
}

func (t TileType) String() string {
	switch {
	case t == Empty:
		return "empty"
	case t.IsRoad():
		return "road" + t.Token()
	case t == EnclosedRoad:
		return "enclosed"
	case t.IsObstacle():
		return "obstacle" + t.Token()
	default:
		return "unknown"
	}
}
