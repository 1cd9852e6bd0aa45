package main

import (
	"path/filepath"
	"strings"
	"testing"

	"tilecraft/internal/config"
	"tilecraft/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTiles(t *testing.T) *world.TileManager {
	t.Helper()
	tm := world.NewTileManager()
	require.NoError(t, tm.LoadTileConfig(filepath.Join("..", "tiles.yaml")))
	return tm
}

func TestBuildLegendLines(t *testing.T) {
	tm := loadTiles(t)
	lines := buildLegendLines(tm, map[string]config.EnemyDefinition{
		"wolf": {Letter: "w", MaxHitPoints: 4},
	})

	assert.Contains(t, lines, "T -> tree: chop -> stump (+wood)")
	assert.Contains(t, lines, "# -> wall: blocked")
	assert.Contains(t, lines, ". -> floor: walkable")
	assert.Contains(t, lines, "w -> wolf (4 hp)")
	for _, line := range lines {
		assert.False(t, strings.HasPrefix(line, " -> spawn"), "tiles without a letter are not listed")
	}
}

func TestZoneSummary(t *testing.T) {
	tm := loadTiles(t)
	data, err := world.NewMapLoader(tm).ParseMap(strings.NewReader(strings.Join([]string{
		"#####",
		"#+TR#",
		"#w@w#  >[item:rope]",
		"#####",
	}, "\n")))
	require.NoError(t, err)

	lines := zoneSummary(zoneInfo{Key: "test", Config: &config.ZoneConfig{}, Data: data}, tm, map[string]string{"w": "wolf"})
	assert.Contains(t, lines, "Tiles: 5x4")
	assert.Contains(t, lines, "Start: 1,1")
	assert.Contains(t, lines, "Choppable: 1  Breakable: 1")
	assert.Contains(t, lines, "Enemies: 2")
	assert.Contains(t, lines, "  wolf x2")
	assert.Contains(t, lines, "  rope x1")
}

func TestTileColorUsesZoneFloor(t *testing.T) {
	tm := loadTiles(t)
	floor := [3]int{1, 2, 3}
	assert.Equal(t, uint8(1), tileColor(tm, world.TileFloor, floor).R)
	assert.Equal(t, uint8(1), tileColor(tm, world.TileSpawn, floor).R)
	assert.NotEqual(t, uint8(1), tileColor(tm, world.TileWall, floor).R)
	assert.Equal(t, uint8(tm.GetColor(world.TileFloor)[0]), tileColor(tm, world.TileFloor, [3]int{}).R)
}
