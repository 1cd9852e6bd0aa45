package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"tilecraft/internal/config"
	"tilecraft/internal/mathutil"
	"tilecraft/internal/world"
	"tilecraft/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 320
	lineHeight   = 14
)

const (
	tabInfo = iota
	tabLegend
)

var (
	panelColor  = color.RGBA{20, 20, 35, 255}
	borderColor = color.RGBA{70, 70, 90, 255}
	startColor  = color.RGBA{50, 200, 255, 255}
	enemyColor  = color.RGBA{230, 80, 80, 255}
	itemColor   = color.RGBA{230, 200, 80, 255}
)

type zoneInfo struct {
	Key    string
	Config *config.ZoneConfig
	Data   *world.MapData
	Err    error
}

type viewer struct {
	zones        []zoneInfo
	zoneIndex    int
	tiles        *world.TileManager
	enemyNames   map[string]string
	legendLines  []string
	legendScroll int
	sidebarTab   int
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	logger.Init()
	log := logger.Component("map_viewer")
	ensureRuntimeCWD(*configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	tm := world.NewTileManager()
	if err := tm.LoadTileConfig(cfg.GetTilesFile()); err != nil {
		log.WithError(err).Fatal("failed to load tile config")
	}

	zones, err := loadZones(cfg, tm)
	if err != nil {
		log.WithError(err).Warn("no zones loaded")
	}

	v := &viewer{
		zones:       zones,
		tiles:       tm,
		enemyNames:  enemyNamesByLetter(cfg.Enemies),
		legendLines: buildLegendLines(tm, cfg.Enemies),
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Tilecraft Zone Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.WithError(err).Fatal("viewer exited with error")
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.sidebarTab = 1 - v.sidebarTab
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}

	if n := len(v.zones); n > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
			v.zoneIndex = (v.zoneIndex + 1) % n
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
			v.zoneIndex = (v.zoneIndex + n - 1) % n
		}
	}

	if v.sidebarTab == tabLegend {
		_, wheelY := ebiten.Wheel()
		v.legendScroll -= int(wheelY * lineHeight)
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			v.legendScroll += lineHeight
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			v.legendScroll -= lineHeight
		}
		v.legendScroll = mathutil.IntClamp(v.legendScroll, 0, v.maxLegendScroll())
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.zones) == 0 {
		ebitenutil.DebugPrintAt(screen, "no zones loaded", 16, 16)
		return
	}

	z := v.zones[v.zoneIndex]
	if z.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zone %s failed to load: %v", z.Key, z.Err), 16, 16)
		return
	}

	padding := 16
	mapW := windowWidth - sidebarWidth - padding*3
	mapH := windowHeight - padding*2
	v.drawZone(screen, z, padding, padding, mapW, mapH)
	v.drawSidebar(screen, z, padding*2+mapW, padding, sidebarWidth, mapH)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) maxLegendScroll() int {
	content := windowHeight - 32 - 24 - 12
	total := len(v.legendLines) * lineHeight
	if total <= content {
		return 0
	}
	return total - content
}

func (v *viewer) drawZone(screen *ebiten.Image, z zoneInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, panelColor)
	drawRectBorder(screen, x, y, w, h, 2, borderColor)

	data := z.Data
	if data.Width <= 0 || data.Height <= 0 {
		ebitenutil.DebugPrintAt(screen, "empty zone", x+12, y+12)
		return
	}

	tileSize := max(2, min(w/data.Width, (h-40)/data.Height))
	originX := x + (w-data.Width*tileSize)/2
	originY := y + 40 + (h-40-data.Height*tileSize)/2

	for ty := 0; ty < data.Height; ty++ {
		for tx := 0; tx < data.Width; tx++ {
			c := tileColor(v.tiles, data.Tiles[ty][tx], z.Config.FloorColor)
			vector.DrawFilledRect(screen, float32(originX+tx*tileSize), float32(originY+ty*tileSize), float32(tileSize), float32(tileSize), c, false)
		}
	}

	drawMarker(screen, originX, originY, tileSize, data.StartX, data.StartY, startColor, true)
	for _, spawn := range data.EnemySpawns {
		drawMarker(screen, originX, originY, tileSize, spawn.X, spawn.Y, enemyColor, false)
		drawLetter(screen, originX, originY, tileSize, spawn.X, spawn.Y, spawn.Letter)
	}
	for _, spawn := range data.ItemSpawns {
		drawMarker(screen, originX, originY, tileSize, spawn.X, spawn.Y, itemColor, false)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s) at %d,%d", z.Config.Name, z.Key, z.Config.X, z.Config.Y), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch zones, Tab for legend, Esc to quit", x+12, y+22)
}

func (v *viewer) drawSidebar(screen *ebiten.Image, z zoneInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, borderColor)

	tabH := 24
	drawTabs(screen, x, y, w, tabH, v.sidebarTab)
	row := y + tabH + 12

	if v.sidebarTab == tabLegend {
		for i, line := range v.legendLines {
			drawY := row - v.legendScroll + i*lineHeight
			if drawY < row-lineHeight || drawY > y+h-lineHeight {
				continue
			}
			ebitenutil.DebugPrintAt(screen, line, x+10, drawY)
		}
		return
	}

	for _, line := range zoneSummary(z, v.tiles, v.enemyNames) {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}
}

// zoneSummary lists the zone's size, spawns and how many tiles can be
// chopped or broken.
func zoneSummary(z zoneInfo, tm *world.TileManager, enemyNames map[string]string) []string {
	chop, brk := 0, 0
	for _, row := range z.Data.Tiles {
		for _, t := range row {
			switch {
			case tm.IsChoppable(t):
				chop++
			case tm.IsBreakable(t):
				brk++
			}
		}
	}

	lines := []string{
		fmt.Sprintf("Tiles: %dx%d", z.Data.Width, z.Data.Height),
		fmt.Sprintf("Start: %d,%d", z.Data.StartX, z.Data.StartY),
		fmt.Sprintf("Choppable: %d  Breakable: %d", chop, brk),
		fmt.Sprintf("Enemies: %d", len(z.Data.EnemySpawns)),
	}
	counts := make(map[string]int)
	for _, spawn := range z.Data.EnemySpawns {
		name := enemyNames[spawn.Letter]
		if name == "" {
			name = "unknown '" + spawn.Letter + "'"
		}
		counts[name]++
	}
	lines = append(lines, sortedCounts(counts)...)

	lines = append(lines, fmt.Sprintf("Items: %d", len(z.Data.ItemSpawns)))
	counts = make(map[string]int)
	for _, spawn := range z.Data.ItemSpawns {
		counts[spawn.ItemKey]++
	}
	lines = append(lines, sortedCounts(counts)...)

	return append(lines, "", "Cyan: start  Red: enemies  Yellow: items")
}

func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s x%d", k, counts[k]))
	}
	return lines
}

func loadZones(cfg *config.Config, tm *world.TileManager) ([]zoneInfo, error) {
	wm := world.NewWorldManager(tm, cfg.GetMapsDir())
	if err := wm.LoadZoneConfigs(cfg.GetZonesFile()); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(wm.ZoneConfigs))
	for key := range wm.ZoneConfigs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loader := world.NewMapLoader(tm)
	zones := make([]zoneInfo, 0, len(keys))
	for _, key := range keys {
		zc := wm.ZoneConfigs[key]
		data, err := loader.LoadMap(filepath.Join(cfg.GetMapsDir(), zc.File))
		zones = append(zones, zoneInfo{Key: key, Config: zc, Data: data, Err: err})
	}
	return zones, nil
}

func buildLegendLines(tm *world.TileManager, enemies map[string]config.EnemyDefinition) []string {
	lines := []string{"Tiles (letter -> key: action)", "-----------------------------"}
	for _, key := range tm.GetAllTileKeys() {
		t, _ := tm.GetTileTypeFromKey(key)
		data := tm.GetTileData(t)
		if data == nil || data.Letter == "" {
			continue
		}
		action := "walkable"
		if !data.Walkable {
			action = "blocked"
		}
		if data.Interaction != "" {
			action = fmt.Sprintf("%s -> %s", data.Interaction, data.Becomes)
			if data.Yield != "" {
				action += " (+" + data.Yield + ")"
			}
		}
		lines = append(lines, fmt.Sprintf("%s -> %s: %s", data.Letter, key, action))
	}

	lines = append(lines, "", "Enemies (letter -> key)", "-----------------------")
	keys := make([]string, 0, len(enemies))
	for key := range enemies {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s -> %s (%d hp)", enemies[key].Letter, key, enemies[key].MaxHitPoints))
	}

	return append(lines, "", "+ = start", "@ = item placeholder filled by >[item:key]")
}

func enemyNamesByLetter(enemies map[string]config.EnemyDefinition) map[string]string {
	names := make(map[string]string, len(enemies))
	for key, def := range enemies {
		names[def.Letter] = key
	}
	return names
}

func tileColor(tm *world.TileManager, t world.TileType, floor [3]int) color.RGBA {
	c := tm.GetColor(t)
	if floor != ([3]int{}) && (t == world.TileFloor || t == world.TileSpawn) {
		c = floor
	}
	return color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
}

func drawTabs(screen *ebiten.Image, x, y, w, h, active int) {
	tabW := w / 2
	inactive, selected := color.RGBA{40, 40, 55, 255}, color.RGBA{70, 70, 95, 255}
	infoColor, legendColor := selected, inactive
	if active == tabLegend {
		infoColor, legendColor = inactive, selected
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, borderColor)
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

func drawMarker(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, clr color.RGBA, stroke bool) {
	cx := float32(originX + tx*tileSize + tileSize/2)
	cy := float32(originY + ty*tileSize + tileSize/2)
	radius := float32(tileSize) * 0.35
	vector.DrawFilledCircle(screen, cx, cy, radius, clr, true)
	if stroke {
		vector.StrokeCircle(screen, cx, cy, radius, 1, color.White, true)
	}
}

func drawLetter(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, letter string) {
	if tileSize < 6 || letter == "" {
		return
	}
	ebitenutil.DebugPrintAt(screen, letter, originX+tx*tileSize+2, originY+ty*tileSize+1)
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), float32(thickness), clr, false)
}

// ensureRuntimeCWD switches to the executable's directory when the config is
// not reachable from the current one.
func ensureRuntimeCWD(configPath string) {
	if _, err := os.Stat(configPath); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
