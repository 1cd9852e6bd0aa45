package collision

import (
	"sort"

	"tilecraft/internal/mathutil"
	"tilecraft/internal/world"
)

// TileChecker interface for checking if tiles block movement
type TileChecker interface {
	IsTileBlocking(tileX, tileY int) bool
	GetWorldBounds() (width, height int)
}

// CollisionSystem tracks which entity stands on which cell of the current zone.
type CollisionSystem struct {
	tileChecker TileChecker
	entities    map[string]*Entity
}

// NewCollisionSystem creates a new collision system
func NewCollisionSystem(tileChecker TileChecker) *CollisionSystem {
	return &CollisionSystem{
		tileChecker: tileChecker,
		entities:    make(map[string]*Entity),
	}
}

// RegisterEntity adds an entity to the collision system
func (cs *CollisionSystem) RegisterEntity(entity *Entity) {
	cs.entities[entity.ID] = entity
}

// UnregisterEntity removes an entity from the collision system
func (cs *CollisionSystem) UnregisterEntity(id string) {
	delete(cs.entities, id)
}

// UpdateEntity moves a registered entity.
func (cs *CollisionSystem) UpdateEntity(id string, pos world.GridCoordinate) {
	if entity, exists := cs.entities[id]; exists {
		entity.Pos = pos
	}
}

// UpdateTileChecker swaps the grid, used when the current zone changes.
func (cs *CollisionSystem) UpdateTileChecker(tileChecker TileChecker) {
	cs.tileChecker = tileChecker
}

// Clear drops every entity.
func (cs *CollisionSystem) Clear() {
	cs.entities = make(map[string]*Entity)
}

// CanMoveTo checks if an entity can enter pos: inside the zone, on a
// non-blocking tile and not onto another solid entity.
func (cs *CollisionSystem) CanMoveTo(entityID string, pos world.GridCoordinate) bool {
	if _, exists := cs.entities[entityID]; !exists {
		return false
	}

	width, height := cs.tileChecker.GetWorldBounds()
	if pos.X < 0 || pos.X >= width || pos.Y < 0 || pos.Y >= height {
		return false
	}
	if cs.tileChecker.IsTileBlocking(pos.X, pos.Y) {
		return false
	}
	return !cs.IsOccupied(pos, entityID)
}

// IsOccupied reports whether a solid entity other than excludeID stands on pos.
func (cs *CollisionSystem) IsOccupied(pos world.GridCoordinate, excludeID string) bool {
	for id, entity := range cs.entities {
		if id != excludeID && entity.Solid && entity.Pos == pos {
			return true
		}
	}
	return false
}

// EntitiesAt returns every entity on pos, ordered by ID.
func (cs *CollisionSystem) EntitiesAt(pos world.GridCoordinate) []*Entity {
	var out []*Entity
	for _, entity := range cs.entities {
		if entity.Pos == pos {
			out = append(out, entity)
		}
	}
	sortByID(out)
	return out
}

// Touching returns the solid entities on a cell next to, or on, the entity's
// cell, ordered by ID.
func (cs *CollisionSystem) Touching(entityID string) []*Entity {
	self, exists := cs.entities[entityID]
	if !exists {
		return nil
	}

	var out []*Entity
	for id, entity := range cs.entities {
		if id == entityID || !entity.Solid {
			continue
		}
		if mathutil.Chebyshev(self.Pos.X, self.Pos.Y, entity.Pos.X, entity.Pos.Y) <= 1 {
			out = append(out, entity)
		}
	}
	sortByID(out)
	return out
}

// CheckLineOfSight walks the cells between from and to and reports whether none
// of the cells strictly between them blocks.
func (cs *CollisionSystem) CheckLineOfSight(from, to world.GridCoordinate) bool {
	dx := mathutil.IntAbs(to.X - from.X)
	dy := -mathutil.IntAbs(to.Y - from.Y)
	sx := mathutil.IntSign(to.X - from.X)
	sy := mathutil.IntSign(to.Y - from.Y)
	errAcc := dx + dy

	x, y := from.X, from.Y
	for {
		if (x != from.X || y != from.Y) && (x != to.X || y != to.Y) {
			if cs.tileChecker.IsTileBlocking(x, y) {
				return false
			}
		}
		if x == to.X && y == to.Y {
			return true
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
	}
}

// GetEntityByID returns the entity with the given ID, or nil if not found
func (cs *CollisionSystem) GetEntityByID(id string) *Entity {
	if entity, ok := cs.entities[id]; ok {
		return entity
	}
	return nil
}

// GetAllEntities returns every entity ordered by ID.
func (cs *CollisionSystem) GetAllEntities() []*Entity {
	entities := make([]*Entity, 0, len(cs.entities))
	for _, e := range cs.entities {
		entities = append(entities, e)
	}
	sortByID(entities)
	return entities
}

func sortByID(entities []*Entity) {
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })
}
