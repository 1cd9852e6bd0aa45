package session

import (
	"tilecraft/internal/events"
	"tilecraft/internal/player"
	"tilecraft/internal/world"
)

// The session is the grid and terrain of whichever zone is current, so
// collaborators holding it keep working across zone transitions.

func (s *Session) TileAt(x, y int) (world.TileType, error) {
	return s.CurrentZone().TileAt(x, y)
}

func (s *Session) SetTile(x, y int, tileType world.TileType) error {
	return s.CurrentZone().SetTile(x, y, tileType)
}

func (s *Session) InBounds(x, y int) bool {
	return s.CurrentZone().InBounds(x, y)
}

func (s *Session) ExitSide(x, y int) world.Side {
	return s.CurrentZone().ExitSide(x, y)
}

func (s *Session) ZoneCoords() (zx, zy int) {
	return s.CurrentZone().ZoneCoords()
}

func (s *Session) IsTileBlocking(x, y int) bool {
	return s.CurrentZone().IsTileBlocking(x, y)
}

func (s *Session) GetWorldBounds() (width, height int) {
	return s.CurrentZone().GetWorldBounds()
}

// Actor returns the player as seen by the resolver. Terrain changes made
// through it are announced on the bus.
func (s *Session) Actor() *Actor {
	return &Actor{s: s}
}

// Actor wraps the player so chops and breaks publish terrain_changed.
type Actor struct {
	s *Session
}

func (a *Actor) HasAbility(ability player.Ability) bool {
	return a.s.Player.HasAbility(ability)
}

func (a *Actor) Move(target world.GridCoordinate, terrain player.Terrain) (player.MoveOutcome, error) {
	outcome, err := a.s.Player.Move(target, terrain)
	if err != nil {
		return outcome, err
	}
	if outcome.Kind == player.ActedInPlace {
		tm := a.s.Tiles
		a.s.publish(events.TerrainChanged, events.TerrainPayload{
			Pos:    target,
			Action: outcome.Action.String(),
			From:   tm.GetName(outcome.Tile),
			To:     tm.GetName(outcome.Result),
			Yield:  outcome.Yield,
		})
		a.s.log.WithField("action", outcome.Action.String()).Debugf("acted on %s", target)
	}
	return outcome, nil
}
