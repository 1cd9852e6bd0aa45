// Package interaction decides what happens when the player targets a choppable
// or breakable tile.
package interaction

import (
	"tilecraft/internal/events"
	"tilecraft/internal/mathutil"
	"tilecraft/internal/player"
	"tilecraft/internal/world"
)

// TileClassifier answers the two registry questions the resolver needs.
type TileClassifier interface {
	IsChoppable(world.TileType) bool
	IsBreakable(world.TileType) bool
}

// Grid is the current zone's tile lookup.
type Grid interface {
	TileAt(x, y int) (world.TileType, error)
}

// Actor is the controllable player.
type Actor interface {
	HasAbility(player.Ability) bool
	Move(target world.GridCoordinate, grid player.Terrain) (player.MoveOutcome, error)
}

// TurnWorld runs the world-side steps of a turn.
type TurnWorld interface {
	HandleEnemyMovements()
	CheckCollisions()
	CheckItemPickup()
	UpdatePlayerPosition()
	TransitionToZone(zoneX, zoneY int, exit world.Side, anchor world.GridCoordinate) error
}

// Notifier publishes UI notifications without waiting for delivery.
type Notifier interface {
	Publish(events.Event)
}

// AdjacencyFunc reports whether a target at offset (dx, dy) from the player,
// both non-negative, is within reach.
type AdjacencyFunc func(dx, dy int) bool

// ChebyshevAdjacent accepts the eight cells around the player. The player's own
// cell is not adjacent.
func ChebyshevAdjacent(dx, dy int) bool {
	return mathutil.IntMax(dx, dy) == 1
}

// Deps are the collaborators a Resolver works through. Terrain is what the
// player moves over and is usually the same value as Grid; when nil, Grid is
// used if it implements player.Terrain.
type Deps struct {
	Tiles    TileClassifier
	Grid     Grid
	Terrain  player.Terrain
	Player   Actor
	World    TurnWorld
	Notifier Notifier
	Adjacent AdjacencyFunc

	// Stats builds the stats_updated event. Optional.
	Stats func() events.Event
}

// Resolver holds no state of its own; every call reads and mutates the
// collaborators in Deps.
type Resolver struct {
	deps Deps
}

func NewResolver(deps Deps) *Resolver {
	if deps.Adjacent == nil {
		deps.Adjacent = ChebyshevAdjacent
	}
	if deps.Terrain == nil {
		if terrain, ok := deps.Grid.(player.Terrain); ok {
			deps.Terrain = terrain
		}
	}
	return &Resolver{deps: deps}
}

// HandleChoppableTile handles a tap on target while the player stands on
// playerPos. It reports whether the tap was consumed as a chop or break. Only
// the player's move runs; enemies, collisions, pickups and notifications are
// left to the caller.
func (r *Resolver) HandleChoppableTile(target, playerPos world.GridCoordinate) (bool, error) {
	tile, err := r.deps.Grid.TileAt(target.X, target.Y)
	if err != nil {
		return false, err
	}

	dx := mathutil.IntAbs(target.X - playerPos.X)
	dy := mathutil.IntAbs(target.Y - playerPos.Y)
	if !r.deps.Adjacent(dx, dy) {
		return false, nil
	}

	if !r.actionable(tile) {
		return false, nil
	}

	// A zone exit reported here is not acted upon.
	if _, err := r.deps.Player.Move(target, r.deps.Terrain); err != nil {
		return false, err
	}
	return true, nil
}

// ForceChoppableAction performs the chop or break on target as a full turn once
// the player has arrived next to it. Adjacency is not re-checked. A tile the
// player cannot act on leaves everything untouched.
func (r *Resolver) ForceChoppableAction(target, playerPos world.GridCoordinate) error {
	tile, err := r.deps.Grid.TileAt(target.X, target.Y)
	if err != nil {
		return err
	}
	if !r.actionable(tile) {
		return nil
	}

	r.deps.World.HandleEnemyMovements()

	outcome, err := r.deps.Player.Move(target, r.deps.Terrain)
	if err != nil {
		return err
	}
	if outcome.Kind == player.ExitedZone {
		if err := r.deps.World.TransitionToZone(outcome.ZoneX, outcome.ZoneY, outcome.Exit, playerPos); err != nil {
			return err
		}
	}

	r.deps.World.CheckCollisions()
	r.deps.World.CheckItemPickup()
	r.deps.World.UpdatePlayerPosition()
	r.notifyStats()
	return nil
}

// CanAct reports whether the player holds the tool target's tile needs. It
// does not look at distance.
func (r *Resolver) CanAct(target world.GridCoordinate) (bool, error) {
	tile, err := r.deps.Grid.TileAt(target.X, target.Y)
	if err != nil {
		return false, err
	}
	return r.actionable(tile), nil
}

func (r *Resolver) actionable(tile world.TileType) bool {
	switch {
	case r.deps.Tiles.IsChoppable(tile):
		return r.deps.Player.HasAbility(player.Axe)
	case r.deps.Tiles.IsBreakable(tile):
		return r.deps.Player.HasAbility(player.Hammer)
	default:
		return false
	}
}

func (r *Resolver) notifyStats() {
	if r.deps.Notifier == nil {
		return
	}
	ev := events.Event{Type: events.StatsUpdated}
	if r.deps.Stats != nil {
		ev = r.deps.Stats()
	}
	r.deps.Notifier.Publish(ev)
}
