package player

import (
	"fmt"

	"tilecraft/internal/items"
	"tilecraft/internal/world"
)

// Terrain is the grid a player moves over and acts upon.
type Terrain interface {
	TileAt(x, y int) (world.TileType, error)
	SetTile(x, y int, tileType world.TileType) error
	InBounds(x, y int) bool
	ExitSide(x, y int) world.Side
	ZoneCoords() (zx, zy int)
}

// TileRules is the part of the tile registry movement depends on.
type TileRules interface {
	IsChoppable(world.TileType) bool
	IsBreakable(world.TileType) bool
	IsWalkable(world.TileType) bool
	ResultOf(world.TileType) (world.TileType, bool)
	YieldOf(world.TileType) string
}

// Player is the single controllable character.
type Player struct {
	ID           string
	Pos          world.GridCoordinate
	Abilities    AbilitySet
	Inventory    *items.Inventory
	HitPoints    int
	MaxHitPoints int

	// Counters shown on the HUD.
	Chopped int
	Broken  int
	Steps   int

	rules TileRules
}

// NewPlayer creates a player at start with full hit points.
func NewPlayer(id string, start world.GridCoordinate, maxHitPoints int, abilities AbilitySet, rules TileRules) *Player {
	return &Player{
		ID:           id,
		Pos:          start,
		Abilities:    abilities,
		Inventory:    items.NewInventory(),
		HitPoints:    maxHitPoints,
		MaxHitPoints: maxHitPoints,
		rules:        rules,
	}
}

func (p *Player) HasAbility(a Ability) bool {
	return p.Abilities.Has(a)
}

// Damage lowers hit points, never below zero, and returns the amount taken.
func (p *Player) Damage(amount int) int {
	if amount <= 0 || p.HitPoints == 0 {
		return 0
	}
	if amount > p.HitPoints {
		amount = p.HitPoints
	}
	p.HitPoints -= amount
	return amount
}

func (p *Player) IsAlive() bool {
	return p.HitPoints > 0
}

// Move acts on target. Leaving the terrain reports ExitedZone, a choppable or
// breakable tile the player has the tool for is replaced in place, a walkable
// tile is entered and anything else blocks.
func (p *Player) Move(target world.GridCoordinate, terrain Terrain) (MoveOutcome, error) {
	outcome := MoveOutcome{From: p.Pos, To: target}

	if !terrain.InBounds(target.X, target.Y) {
		side := terrain.ExitSide(target.X, target.Y)
		zx, zy := terrain.ZoneCoords()
		dx, dy := side.Delta()
		outcome.Kind = ExitedZone
		outcome.Exit = side
		outcome.ZoneX = zx + dx
		outcome.ZoneY = zy + dy
		return outcome, nil
	}

	tile, err := terrain.TileAt(target.X, target.Y)
	if err != nil {
		return outcome, err
	}
	outcome.Tile = tile

	switch {
	case p.rules.IsChoppable(tile) && p.HasAbility(Axe):
		outcome.Action = ActionChop
	case p.rules.IsBreakable(tile) && p.HasAbility(Hammer):
		outcome.Action = ActionBreak
	case p.rules.IsWalkable(tile):
		p.Pos = target
		p.Steps++
		outcome.Kind = Moved
		return outcome, nil
	default:
		outcome.Kind = Blocked
		return outcome, nil
	}

	result, ok := p.rules.ResultOf(tile)
	if !ok {
		return outcome, fmt.Errorf("tile %d at %s has no result tile", tile, target)
	}
	if err := terrain.SetTile(target.X, target.Y, result); err != nil {
		return outcome, err
	}

	outcome.Kind = ActedInPlace
	outcome.Result = result
	outcome.Yield = p.rules.YieldOf(tile)
	p.Inventory.Add(outcome.Yield, 1)
	if outcome.Action == ActionChop {
		p.Chopped++
	} else {
		p.Broken++
	}
	return outcome, nil
}
