package monster

import (
	"fmt"
	"sort"
	"strings"

	"tilecraft/internal/config"
)

// Definition holds the configuration for an enemy type.
type Definition struct {
	Key          string
	Name         string
	Letter       string
	MaxHitPoints int
	Damage       int
	VisionRadius int
	Color        [3]int
}

// Catalog resolves enemy keys and map letters to definitions.
type Catalog struct {
	defs     map[string]*Definition
	byLetter map[string]string
}

// NewCatalog builds a catalogue from the enemies section of config.yaml. Map
// letters must be unique.
func NewCatalog(defs map[string]config.EnemyDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:     make(map[string]*Definition, len(defs)),
		byLetter: make(map[string]string),
	}

	letterToEnemies := make(map[string][]string)
	for key, def := range defs {
		c.defs[key] = &Definition{
			Key:          key,
			Name:         def.Name,
			Letter:       def.Letter,
			MaxHitPoints: def.MaxHitPoints,
			Damage:       def.Damage,
			VisionRadius: def.VisionRadius,
			Color:        def.Color,
		}
		if def.Letter != "" {
			letterToEnemies[def.Letter] = append(letterToEnemies[def.Letter], key)
			c.byLetter[def.Letter] = key
		}
	}

	var conflicts []string
	for letter, keys := range letterToEnemies {
		if len(keys) > 1 {
			sort.Strings(keys)
			conflicts = append(conflicts, fmt.Sprintf("letter '%s' is used by multiple enemies: %v", letter, keys))
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, fmt.Errorf("enemy configuration conflicts detected:\n%s", strings.Join(conflicts, "\n"))
	}
	return c, nil
}

// Get returns the definition for key.
func (c *Catalog) Get(key string) (*Definition, error) {
	def, exists := c.defs[key]
	if !exists {
		return nil, fmt.Errorf("enemy with key '%s' not found", key)
	}
	return def, nil
}

// GetByLetter returns the definition drawn with letter in map files.
func (c *Catalog) GetByLetter(letter string) (*Definition, error) {
	key, exists := c.byLetter[letter]
	if !exists {
		return nil, fmt.Errorf("enemy with letter '%s' not found", letter)
	}
	return c.defs[key], nil
}

// Keys returns all enemy keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.defs))
	for key := range c.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
