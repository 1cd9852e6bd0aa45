package collision

import (
	"testing"

	"tilecraft/internal/world"

	"github.com/stretchr/testify/assert"
)

// mockTileChecker implements TileChecker for testing
type mockTileChecker struct {
	width, height int
	blockingTiles map[world.GridCoordinate]bool
}

func newMockTileChecker(width, height int) *mockTileChecker {
	return &mockTileChecker{
		width:         width,
		height:        height,
		blockingTiles: make(map[world.GridCoordinate]bool),
	}
}

func (m *mockTileChecker) IsTileBlocking(tileX, tileY int) bool {
	return m.blockingTiles[world.GridCoordinate{X: tileX, Y: tileY}]
}

func (m *mockTileChecker) GetWorldBounds() (width, height int) {
	return m.width, m.height
}

func (m *mockTileChecker) setBlocking(x, y int) {
	m.blockingTiles[world.GridCoordinate{X: x, Y: y}] = true
}

func cell(x, y int) world.GridCoordinate {
	return world.GridCoordinate{X: x, Y: y}
}

func TestCanMoveTo(t *testing.T) {
	checker := newMockTileChecker(5, 5)
	checker.setBlocking(2, 2)
	cs := NewCollisionSystem(checker)

	cs.RegisterEntity(NewEntity("player", cell(0, 0), true, EntityPlayer))
	cs.RegisterEntity(NewEntity("wolf", cell(1, 0), true, EntityEnemy))
	cs.RegisterEntity(NewEntity("axe", cell(0, 1), false, EntityItem))

	assert.False(t, cs.CanMoveTo("player", cell(1, 0)), "solid entity")
	assert.True(t, cs.CanMoveTo("player", cell(0, 1)), "items are not solid")
	assert.False(t, cs.CanMoveTo("player", cell(2, 2)), "blocking tile")
	assert.False(t, cs.CanMoveTo("player", cell(-1, 0)), "out of bounds")
	assert.False(t, cs.CanMoveTo("ghost", cell(3, 3)), "unregistered")
	assert.True(t, cs.CanMoveTo("wolf", cell(1, 0)), "own cell")

	cs.UpdateEntity("wolf", cell(4, 4))
	assert.True(t, cs.CanMoveTo("player", cell(1, 0)))

	cs.UnregisterEntity("wolf")
	assert.Nil(t, cs.GetEntityByID("wolf"))
}

func TestEntitiesAtAndTouching(t *testing.T) {
	cs := NewCollisionSystem(newMockTileChecker(6, 6))
	cs.RegisterEntity(NewEntity("player", cell(2, 2), true, EntityPlayer))
	cs.RegisterEntity(NewEntity("b_wolf", cell(3, 3), true, EntityEnemy))
	cs.RegisterEntity(NewEntity("a_wolf", cell(1, 2), true, EntityEnemy))
	cs.RegisterEntity(NewEntity("far_wolf", cell(5, 5), true, EntityEnemy))
	cs.RegisterEntity(NewEntity("coin", cell(2, 3), false, EntityItem))
	cs.RegisterEntity(NewEntity("gem", cell(2, 2), false, EntityItem))

	touching := cs.Touching("player")
	if assert.Len(t, touching, 2) {
		assert.Equal(t, "a_wolf", touching[0].ID)
		assert.Equal(t, "b_wolf", touching[1].ID)
	}
	assert.Nil(t, cs.Touching("nobody"))

	at := cs.EntitiesAt(cell(2, 2))
	if assert.Len(t, at, 2) {
		assert.Equal(t, "gem", at[0].ID)
		assert.Equal(t, "player", at[1].ID)
	}

	assert.Len(t, cs.GetAllEntities(), 6)
	cs.Clear()
	assert.Empty(t, cs.GetAllEntities())
}

func TestCheckLineOfSight(t *testing.T) {
	checker := newMockTileChecker(10, 10)
	cs := NewCollisionSystem(checker)

	assert.True(t, cs.CheckLineOfSight(cell(0, 0), cell(5, 0)))
	assert.True(t, cs.CheckLineOfSight(cell(0, 0), cell(3, 3)))
	assert.True(t, cs.CheckLineOfSight(cell(2, 2), cell(2, 2)))

	checker.setBlocking(3, 0)
	assert.False(t, cs.CheckLineOfSight(cell(0, 0), cell(5, 0)))
	assert.True(t, cs.CheckLineOfSight(cell(0, 0), cell(3, 0)), "endpoints never block")

	checker.setBlocking(2, 2)
	assert.False(t, cs.CheckLineOfSight(cell(0, 0), cell(4, 4)))
	assert.False(t, cs.CheckLineOfSight(cell(4, 4), cell(0, 0)))
}
