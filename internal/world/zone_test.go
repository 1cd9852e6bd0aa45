package world

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestZone(t *testing.T, key string, zx, zy int, rows ...string) *Zone {
	t.Helper()
	tm := newTestTileManager(t)
	mapData, err := NewMapLoader(tm).ParseMap(strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	return NewZone(key, zx, zy, mapData, tm)
}

func TestZoneTileAccess(t *testing.T) {
	z := newTestZone(t, "meadow", 0, 0,
		"+.T",
		".R~",
	)

	tile, err := z.TileAt(2, 0)
	require.NoError(t, err)
	assert.Equal(t, TileTree, tile)

	_, err = z.TileAt(3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = z.TileAt(0, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, z.SetTile(2, 0, TileStump))
	tile, _ = z.TileAt(2, 0)
	assert.Equal(t, TileStump, tile)
	assert.ErrorIs(t, z.SetTile(-1, 0, TileFloor), ErrOutOfBounds)
}

func TestZoneDoesNotShareMapData(t *testing.T) {
	tm := newTestTileManager(t)
	mapData, err := NewMapLoader(tm).ParseMap(strings.NewReader("+T\n"))
	require.NoError(t, err)

	z := NewZone("a", 0, 0, mapData, tm)
	require.NoError(t, z.SetTile(1, 0, TileStump))
	assert.Equal(t, TileTree, mapData.Tiles[0][1])
}

func TestZoneBlocking(t *testing.T) {
	z := newTestZone(t, "meadow", 0, 0,
		"+.T",
		",R~",
	)

	assert.False(t, z.IsTileBlocking(0, 0))
	assert.False(t, z.IsTileBlocking(0, 1))
	assert.True(t, z.IsTileBlocking(2, 0))
	assert.True(t, z.IsTileBlocking(1, 1))
	assert.True(t, z.IsTileBlocking(2, 1))
	assert.True(t, z.IsTileBlocking(5, 5))

	w, h := z.GetWorldBounds()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestZoneExitSide(t *testing.T) {
	z := newTestZone(t, "meadow", 0, 0, "+..", "...")

	assert.Equal(t, West, z.ExitSide(-1, 0))
	assert.Equal(t, East, z.ExitSide(3, 1))
	assert.Equal(t, North, z.ExitSide(1, -1))
	assert.Equal(t, South, z.ExitSide(1, 2))
	assert.Equal(t, East, z.ExitSide(3, -1))
	assert.Equal(t, SideNone, z.ExitSide(1, 1))
}

func TestZoneNearestWalkable(t *testing.T) {
	z := newTestZone(t, "meadow", 0, 0,
		"+TT",
		"TTT",
		"TT.",
	)

	c, ok := z.NearestWalkable(GridCoordinate{X: 0, Y: 0}, 3, nil)
	require.True(t, ok)
	assert.Equal(t, GridCoordinate{X: 0, Y: 0}, c)

	c, ok = z.NearestWalkable(GridCoordinate{X: 1, Y: 1}, 3, nil)
	require.True(t, ok)
	assert.Equal(t, GridCoordinate{X: 0, Y: 0}, c)

	_, ok = z.NearestWalkable(GridCoordinate{X: 1, Y: 1}, 0, nil)
	assert.False(t, ok)

	taken := func(c GridCoordinate) bool { return c == GridCoordinate{X: 0, Y: 0} }
	c, ok = z.NearestWalkable(GridCoordinate{X: 0, Y: 0}, 3, taken)
	require.True(t, ok)
	assert.Equal(t, GridCoordinate{X: 2, Y: 2}, c)
}

func TestSideHelpers(t *testing.T) {
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, SideNone, SideNone.Opposite())

	dx, dy := West.Delta()
	assert.Equal(t, -1, dx)
	assert.Equal(t, 0, dy)
	assert.Equal(t, "south", South.String())

	c := GridCoordinate{X: 2, Y: 3}
	assert.Equal(t, GridCoordinate{X: 3, Y: 2}, c.Shift(1, -1))
	dx, dy = c.Delta(GridCoordinate{X: 0, Y: 5})
	assert.Equal(t, -2, dx)
	assert.Equal(t, 2, dy)
	assert.Equal(t, "(2,3)", c.String())
}
