package items

import (
	"testing"

	"tilecraft/internal/config"
	"tilecraft/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog(map[string]config.ItemDefinition{
		"axe":  {Name: "Axe", Grants: "axe"},
		"wood": {Name: "Wood"},
	})

	axe, ok := c.Get("axe")
	require.True(t, ok)
	assert.Equal(t, ItemTool, axe.Type)
	assert.Equal(t, "axe", axe.Grants)

	wood, ok := c.Get("wood")
	require.True(t, ok)
	assert.Equal(t, ItemMaterial, wood.Type)
	assert.Equal(t, "material", wood.Type.String())

	assert.Equal(t, "Wood", c.Name("wood"))
	assert.Equal(t, "gold", c.Name("gold"))
	assert.Equal(t, []string{"axe", "wood"}, c.Keys())

	_, ok = c.Get("gold")
	assert.False(t, ok)
}

func TestInventory(t *testing.T) {
	inv := NewInventory()
	inv.Add("wood", 2)
	inv.Add("stone", 1)
	inv.Add("wood", 0)
	inv.Add("", 3)

	assert.Equal(t, 2, inv.Count("wood"))
	assert.Equal(t, 3, inv.Total())

	assert.False(t, inv.Remove("wood", 3))
	assert.True(t, inv.Remove("wood", 2))
	assert.Equal(t, 0, inv.Count("wood"))

	snap := inv.Snapshot()
	snap["stone"] = 99
	assert.Equal(t, 1, inv.Count("stone"))
	assert.Equal(t, map[string]int{"stone": 1}, inv.Snapshot())
}

func TestNewGroundItem(t *testing.T) {
	item := NewGroundItem("axe", "meadow", world.GridCoordinate{X: 3, Y: 4})
	assert.Equal(t, "item_meadow_axe_3_4", item.ID)
	assert.Equal(t, world.GridCoordinate{X: 3, Y: 4}, item.Pos)
}
