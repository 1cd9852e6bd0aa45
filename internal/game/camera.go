package game

import (
	"tilecraft/internal/mathutil"
	"tilecraft/internal/world"
)

// Camera maps zone cells to screen pixels. The zone view sits below the HUD
// and scrolls to keep the player centred when the zone is larger than the view.
type Camera struct {
	TileSize int
	Top      int
	ViewW    int
	ViewH    int

	// Top-left visible cell.
	X, Y int
}

// NewCamera creates a camera for a view of viewW x viewH pixels starting top
// pixels down the screen.
func NewCamera(tileSize, top, viewW, viewH int) *Camera {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Camera{TileSize: tileSize, Top: top, ViewW: viewW, ViewH: viewH}
}

// Cols returns how many cells fit across the view.
func (c *Camera) Cols() int {
	return c.ViewW / c.TileSize
}

// Rows returns how many cells fit down the view.
func (c *Camera) Rows() int {
	return c.ViewH / c.TileSize
}

// Follow centres the view on pos, clamped to the zone edges.
func (c *Camera) Follow(pos world.GridCoordinate, zoneW, zoneH int) {
	c.X = mathutil.IntClamp(pos.X-c.Cols()/2, 0, mathutil.IntMax(0, zoneW-c.Cols()))
	c.Y = mathutil.IntClamp(pos.Y-c.Rows()/2, 0, mathutil.IntMax(0, zoneH-c.Rows()))
}

// ToScreen returns the top-left pixel of cell.
func (c *Camera) ToScreen(cell world.GridCoordinate) (x, y int) {
	return (cell.X - c.X) * c.TileSize, c.Top + (cell.Y-c.Y)*c.TileSize
}

// ToGrid returns the cell under pixel (x, y). ok is false outside the view.
func (c *Camera) ToGrid(x, y int) (cell world.GridCoordinate, ok bool) {
	if x < 0 || y < c.Top || x >= c.ViewW || y >= c.Top+c.ViewH {
		return world.GridCoordinate{}, false
	}
	return world.GridCoordinate{
		X: c.X + x/c.TileSize,
		Y: c.Y + (y-c.Top)/c.TileSize,
	}, true
}
