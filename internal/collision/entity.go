package collision

import "tilecraft/internal/world"

type EntityType int

const (
	EntityPlayer EntityType = iota
	EntityEnemy
	EntityItem
)

// Entity is anything that occupies a cell. Solid entities keep others out of
// their cell.
type Entity struct {
	ID    string
	Pos   world.GridCoordinate
	Solid bool
	Type  EntityType
}

func NewEntity(id string, pos world.GridCoordinate, solid bool, entityType EntityType) *Entity {
	return &Entity{
		ID:    id,
		Pos:   pos,
		Solid: solid,
		Type:  entityType,
	}
}
