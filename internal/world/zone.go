package world

import (
	"errors"
	"fmt"

	"tilecraft/internal/mathutil"
)

// ErrOutOfBounds is returned when a coordinate lies outside a zone.
var ErrOutOfBounds = errors.New("coordinate out of zone bounds")

// Zone is one screen of the world: a rectangular tile grid placed at (ZX, ZY)
// in the zone grid.
type Zone struct {
	Key         string
	Name        string
	ZX, ZY      int
	Width       int
	Height      int
	Tiles       [][]TileType
	StartX      int
	StartY      int
	EnemySpawns []EnemySpawn
	ItemSpawns  []ItemSpawn

	tiles *TileManager
}

// NewZone builds a zone from parsed map data.
func NewZone(key string, zx, zy int, data *MapData, tm *TileManager) *Zone {
	tiles := make([][]TileType, data.Height)
	for y := range data.Tiles {
		tiles[y] = append([]TileType(nil), data.Tiles[y]...)
	}
	return &Zone{
		Key:         key,
		ZX:          zx,
		ZY:          zy,
		Width:       data.Width,
		Height:      data.Height,
		Tiles:       tiles,
		StartX:      data.StartX,
		StartY:      data.StartY,
		EnemySpawns: data.EnemySpawns,
		ItemSpawns:  data.ItemSpawns,
		tiles:       tm,
	}
}

// InBounds reports whether (x, y) lies inside the zone.
func (z *Zone) InBounds(x, y int) bool {
	return x >= 0 && x < z.Width && y >= 0 && y < z.Height
}

// TileAt returns the tile at (x, y).
func (z *Zone) TileAt(x, y int) (TileType, error) {
	if !z.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in zone %q", ErrOutOfBounds, x, y, z.Key)
	}
	return z.Tiles[y][x], nil
}

// SetTile replaces the tile at (x, y).
func (z *Zone) SetTile(x, y int, tileType TileType) error {
	if !z.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in zone %q", ErrOutOfBounds, x, y, z.Key)
	}
	z.Tiles[y][x] = tileType
	return nil
}

// IsTileBlocking reports whether a tile stops movement. Out of bounds counts as
// blocking.
func (z *Zone) IsTileBlocking(x, y int) bool {
	if !z.InBounds(x, y) {
		return true
	}
	if z.tiles == nil {
		return false
	}
	return !z.tiles.IsWalkable(z.Tiles[y][x])
}

// GetWorldBounds returns the zone size in tiles.
func (z *Zone) GetWorldBounds() (width, height int) {
	return z.Width, z.Height
}

// ZoneCoords returns the zone's position in the zone grid.
func (z *Zone) ZoneCoords() (zx, zy int) {
	return z.ZX, z.ZY
}

// Start returns the player start cell.
func (z *Zone) Start() GridCoordinate {
	return GridCoordinate{X: z.StartX, Y: z.StartY}
}

// ExitSide returns the edge an out-of-bounds coordinate crosses. Horizontal
// edges win on corners.
func (z *Zone) ExitSide(x, y int) Side {
	switch {
	case x < 0:
		return West
	case x >= z.Width:
		return East
	case y < 0:
		return North
	case y >= z.Height:
		return South
	default:
		return SideNone
	}
}

// NearestWalkable searches rings around c for the closest non-blocking cell.
// Cells for which skip returns true are passed over; skip may be nil.
func (z *Zone) NearestWalkable(c GridCoordinate, maxRadius int, skip func(GridCoordinate) bool) (GridCoordinate, bool) {
	free := func(x, y int) bool {
		return z.InBounds(x, y) && !z.IsTileBlocking(x, y) && (skip == nil || !skip(GridCoordinate{X: x, Y: y}))
	}
	if free(c.X, c.Y) {
		return c, true
	}
	for radius := 1; radius <= maxRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if mathutil.IntMax(mathutil.IntAbs(dx), mathutil.IntAbs(dy)) != radius {
					continue
				}
				x, y := c.X+dx, c.Y+dy
				if free(x, y) {
					return GridCoordinate{X: x, Y: y}, true
				}
			}
		}
	}
	return GridCoordinate{}, false
}
