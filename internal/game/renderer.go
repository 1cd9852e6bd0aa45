package game

import (
	"image/color"

	"tilecraft/internal/session"
	"tilecraft/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	gridLineColor = color.RGBA{0, 0, 0, 60}
	pathColor     = color.RGBA{255, 255, 255, 70}
	targetColor   = color.RGBA{255, 220, 60, 255}
	defaultEnemy  = [3]int{200, 60, 60}
	defaultItem   = [3]int{230, 200, 80}
)

// Renderer draws the current zone top-down: tiles, ground items, enemies, the
// player and any planned route.
type Renderer struct {
	camera      *Camera
	playerColor [3]int
}

// NewRenderer creates a renderer drawing through camera.
func NewRenderer(camera *Camera, playerColor [3]int) *Renderer {
	if playerColor == ([3]int{}) {
		playerColor = [3]int{70, 140, 240}
	}
	return &Renderer{camera: camera, playerColor: playerColor}
}

// Draw renders s onto screen. path and target come from the controller.
func (r *Renderer) Draw(screen *ebiten.Image, s *session.Session, path []world.GridCoordinate, target *world.GridCoordinate) {
	zone := s.CurrentZone()
	if zone == nil {
		return
	}
	r.camera.Follow(s.Player.Pos, zone.Width, zone.Height)
	ts := float32(r.camera.TileSize)

	var floorColor [3]int
	if zc, ok := s.World.ZoneConfigs[zone.Key]; ok {
		floorColor = zc.FloorColor
	}

	for y := r.camera.Y; y < r.camera.Y+r.camera.Rows() && y < zone.Height; y++ {
		for x := r.camera.X; x < r.camera.X+r.camera.Cols() && x < zone.Width; x++ {
			cell := world.GridCoordinate{X: x, Y: y}
			sx, sy := r.camera.ToScreen(cell)
			vector.DrawFilledRect(screen, float32(sx), float32(sy), ts, ts, rgb(tileColor(s.Tiles, zone.Tiles[y][x], floorColor)), false)
			vector.StrokeRect(screen, float32(sx), float32(sy), ts, ts, 1, gridLineColor, false)
		}
	}

	for _, cell := range path {
		sx, sy := r.camera.ToScreen(cell)
		inset := ts / 3
		vector.DrawFilledRect(screen, float32(sx)+inset, float32(sy)+inset, ts-2*inset, ts-2*inset, pathColor, false)
	}
	if target != nil {
		sx, sy := r.camera.ToScreen(*target)
		vector.StrokeRect(screen, float32(sx)+1, float32(sy)+1, ts-2, ts-2, 2, targetColor, false)
	}

	for _, item := range s.GroundItems() {
		c := defaultItem
		if def, ok := s.ItemCatalog.Get(item.Key); ok && def.Color != ([3]int{}) {
			c = def.Color
		}
		r.drawMarker(screen, item.Pos, ts/4, rgb(c))
	}

	for _, e := range s.Enemies() {
		c := defaultEnemy
		if def, err := s.EnemyCatalog.Get(e.Key); err == nil && def.Color != ([3]int{}) {
			c = def.Color
		}
		r.drawMarker(screen, e.Pos, ts/2-2, rgb(c))
	}

	r.drawMarker(screen, s.Player.Pos, ts/2-2, rgb(r.playerColor))
}

func (r *Renderer) drawMarker(screen *ebiten.Image, cell world.GridCoordinate, radius float32, clr color.Color) {
	sx, sy := r.camera.ToScreen(cell)
	half := float32(r.camera.TileSize) / 2
	vector.DrawFilledCircle(screen, float32(sx)+half, float32(sy)+half, radius, clr, true)
}

// tileColor uses the zone's floor colour, when set, for floor and start cells.
func tileColor(tm *world.TileManager, t world.TileType, floor [3]int) [3]int {
	if floor != ([3]int{}) && (t == world.TileFloor || t == world.TileSpawn) {
		return floor
	}
	return tm.GetColor(t)
}

func rgb(c [3]int) color.RGBA {
	return color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
}
