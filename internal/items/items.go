package items

import (
	"fmt"
	"sort"

	"tilecraft/internal/config"
	"tilecraft/internal/world"
)

type ItemType int

const (
	ItemMaterial ItemType = iota // Gathered from terrain, only counted
	ItemTool                     // Grants an ability when picked up
)

func (t ItemType) String() string {
	if t == ItemTool {
		return "tool"
	}
	return "material"
}

// Definition describes one item key from the config catalogue.
type Definition struct {
	Key    string
	Name   string
	Type   ItemType
	Grants string // Ability name, empty for materials
	Color  [3]int
}

// Catalog resolves item keys to their definitions.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog builds a catalogue from the items section of config.yaml.
func NewCatalog(defs map[string]config.ItemDefinition) *Catalog {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for key, def := range defs {
		itemType := ItemMaterial
		if def.Grants != "" {
			itemType = ItemTool
		}
		c.defs[key] = &Definition{
			Key:    key,
			Name:   def.Name,
			Type:   itemType,
			Grants: def.Grants,
			Color:  def.Color,
		}
	}
	return c
}

// Get returns the definition for key.
func (c *Catalog) Get(key string) (*Definition, bool) {
	def, ok := c.defs[key]
	return def, ok
}

// Name returns the display name for key, falling back to the key itself.
func (c *Catalog) Name(key string) string {
	if def, ok := c.defs[key]; ok && def.Name != "" {
		return def.Name
	}
	return key
}

// Keys returns every item key in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.defs))
	for key := range c.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GroundItem is an item lying on a zone cell.
type GroundItem struct {
	ID   string
	Key  string
	Zone string
	Pos  world.GridCoordinate
}

// NewGroundItem creates a ground item with an ID derived from its placement.
func NewGroundItem(key, zone string, pos world.GridCoordinate) *GroundItem {
	return &GroundItem{
		ID:   fmt.Sprintf("item_%s_%s_%d_%d", zone, key, pos.X, pos.Y),
		Key:  key,
		Zone: zone,
		Pos:  pos,
	}
}

// Inventory counts carried items by key.
type Inventory struct {
	counts map[string]int
}

func NewInventory() *Inventory {
	return &Inventory{counts: make(map[string]int)}
}

// Add puts n items of key into the inventory. Non-positive n is ignored.
func (inv *Inventory) Add(key string, n int) {
	if key == "" || n <= 0 {
		return
	}
	inv.counts[key] += n
}

// Remove takes n items of key out. It fails without changes if fewer are held.
func (inv *Inventory) Remove(key string, n int) bool {
	if n <= 0 || inv.counts[key] < n {
		return false
	}
	inv.counts[key] -= n
	if inv.counts[key] == 0 {
		delete(inv.counts, key)
	}
	return true
}

func (inv *Inventory) Count(key string) int {
	return inv.counts[key]
}

// Total returns the number of items carried.
func (inv *Inventory) Total() int {
	total := 0
	for _, n := range inv.counts {
		total += n
	}
	return total
}

// Snapshot returns a copy of the counts, safe to hand to other goroutines.
func (inv *Inventory) Snapshot() map[string]int {
	out := make(map[string]int, len(inv.counts))
	for key, n := range inv.counts {
		out[key] = n
	}
	return out
}
