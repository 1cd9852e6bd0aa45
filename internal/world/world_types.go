package world

import "fmt"

// TileType identifies a kind of terrain cell. Values below dynamicTileBase are the
// core tiles the game refers to by name; tiles that only exist in tiles.yaml get
// dynamic ids at load time.
type TileType int

const (
	TileFloor  TileType = iota // Walkable ground
	TileWall                   // Impassable, never interactive
	TileTree                   // Choppable with an axe
	TileRock                   // Breakable with a hammer
	TileStump                  // What a chopped tree leaves behind
	TileRubble                 // What a broken rock leaves behind
	TileWater                  // Impassable, not interactive
	TileSpawn                  // Player start marker, walkable
)

const dynamicTileBase TileType = 1000

// Interaction is the tool action a tile accepts.
type Interaction string

const (
	InteractionNone  Interaction = ""
	InteractionChop  Interaction = "chop"
	InteractionBreak Interaction = "break"
)

// GridCoordinate identifies a cell inside a zone.
type GridCoordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift returns the coordinate offset by (dx, dy).
func (c GridCoordinate) Shift(dx, dy int) GridCoordinate {
	return GridCoordinate{X: c.X + dx, Y: c.Y + dy}
}

// Delta returns the offset from c to other.
func (c GridCoordinate) Delta(other GridCoordinate) (dx, dy int) {
	return other.X - c.X, other.Y - c.Y
}

func (c GridCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Side names a zone edge.
type Side int

const (
	SideNone Side = iota
	North
	East
	South
	West
)

// Opposite returns the edge facing s.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return SideNone
	}
}

// Delta returns the zone-grid step taken when leaving through s.
func (s Side) Delta() (dx, dy int) {
	switch s {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

func (s Side) String() string {
	switch s {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "none"
	}
}
