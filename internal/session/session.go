// Package session holds the live game state for one play session and runs the
// world side of each turn.
package session

import (
	"fmt"

	"tilecraft/internal/collision"
	"tilecraft/internal/config"
	"tilecraft/internal/events"
	"tilecraft/internal/interaction"
	"tilecraft/internal/items"
	"tilecraft/internal/monster"
	"tilecraft/internal/player"
	"tilecraft/internal/world"
	"tilecraft/pkg/logger"

	"github.com/sirupsen/logrus"
)

const playerID = "player"

// Session owns the world, the player, enemies and ground items. It is driven
// from the game loop only and is not safe for concurrent use; other goroutines
// observe it through the event bus.
type Session struct {
	World     *world.WorldManager
	Tiles     *world.TileManager
	Player    *player.Player
	Collision *collision.CollisionSystem
	Bus       *events.Bus

	ItemCatalog  *items.Catalog
	EnemyCatalog *monster.Catalog

	Turn int

	enemies       map[string][]*monster.Enemy
	groundItems   map[string][]*items.GroundItem
	contactDamage int
	log           *logrus.Entry
}

// New builds a session on a loaded world. The player starts on the current
// zone's start cell with the configured abilities; enemies and items are placed
// from every zone's spawns.
func New(cfg *config.Config, wm *world.WorldManager, enemyCatalog *monster.Catalog, itemCatalog *items.Catalog, bus *events.Bus) (*Session, error) {
	zone := wm.CurrentZone()
	if zone == nil {
		return nil, fmt.Errorf("world has no current zone")
	}

	abilities, err := player.ParseAbilitySet(cfg.Player.StartingAbilities)
	if err != nil {
		return nil, fmt.Errorf("player starting abilities: %w", err)
	}

	s := &Session{
		World:         wm,
		Tiles:         wm.Tiles(),
		Player:        player.NewPlayer(playerID, zone.Start(), cfg.GetPlayerMaxHitPoints(), abilities, wm.Tiles()),
		Collision:     collision.NewCollisionSystem(zone),
		Bus:           bus,
		ItemCatalog:   itemCatalog,
		EnemyCatalog:  enemyCatalog,
		enemies:       make(map[string][]*monster.Enemy),
		groundItems:   make(map[string][]*items.GroundItem),
		contactDamage: cfg.GetContactDamage(),
		log:           logger.Component("session"),
	}

	var ids monster.IDSource
	for key, z := range wm.LoadedZones {
		for _, spawn := range z.EnemySpawns {
			def, err := enemyCatalog.GetByLetter(spawn.Letter)
			if err != nil {
				s.log.WithError(err).WithField("zone", key).Warn("skipping enemy spawn")
				continue
			}
			pos := world.GridCoordinate{X: spawn.X, Y: spawn.Y}
			s.enemies[key] = append(s.enemies[key], monster.NewEnemy(ids.Next(), key, def, pos, cfg.GetEnemyVisionRadius()))
		}
		for _, spawn := range z.ItemSpawns {
			if _, ok := itemCatalog.Get(spawn.ItemKey); !ok {
				s.log.WithFields(logrus.Fields{"zone": key, "item": spawn.ItemKey}).Warn("skipping unknown item spawn")
				continue
			}
			pos := world.GridCoordinate{X: spawn.X, Y: spawn.Y}
			s.groundItems[key] = append(s.groundItems[key], items.NewGroundItem(spawn.ItemKey, key, pos))
		}
	}

	wm.SetOccupancy(s.enemyAt)
	s.rebuildCollision()
	return s, nil
}

// enemyAt reports whether a live enemy stands on c in the zone keyed zoneKey.
func (s *Session) enemyAt(zoneKey string, c world.GridCoordinate) bool {
	for _, e := range s.enemies[zoneKey] {
		if e.IsAlive() && e.Pos == c {
			return true
		}
	}
	return false
}

// ResolverDeps wires the session into a terrain interaction resolver.
func (s *Session) ResolverDeps() interaction.Deps {
	return interaction.Deps{
		Tiles:    s.Tiles,
		Grid:     s,
		Terrain:  s,
		Player:   s.Actor(),
		World:    s,
		Notifier: s.Bus,
		Stats:    s.StatsEvent,
	}
}

// CurrentZone returns the zone the player is in.
func (s *Session) CurrentZone() *world.Zone {
	return s.World.CurrentZone()
}

// Enemies returns the live enemies of the current zone.
func (s *Session) Enemies() []*monster.Enemy {
	var out []*monster.Enemy
	for _, e := range s.enemies[s.World.CurrentZoneKey] {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// GroundItems returns the items lying in the current zone.
func (s *Session) GroundItems() []*items.GroundItem {
	return s.groundItems[s.World.CurrentZoneKey]
}

// IsOver reports whether the player has died.
func (s *Session) IsOver() bool {
	return !s.Player.IsAlive()
}

// IsOccupied reports whether an enemy blocks pos in the current zone.
func (s *Session) IsOccupied(pos world.GridCoordinate) bool {
	return s.Collision.IsOccupied(pos, playerID)
}

func (s *Session) rebuildCollision() {
	zone := s.CurrentZone()
	s.Collision.Clear()
	s.Collision.UpdateTileChecker(zone)
	s.Collision.RegisterEntity(collision.NewEntity(playerID, s.Player.Pos, true, collision.EntityPlayer))
	for _, e := range s.Enemies() {
		s.Collision.RegisterEntity(collision.NewEntity(e.ID, e.Pos, true, collision.EntityEnemy))
	}
	for _, item := range s.GroundItems() {
		s.Collision.RegisterEntity(collision.NewEntity(item.ID, item.Pos, false, collision.EntityItem))
	}
}

func (s *Session) publish(eventType events.Type, payload interface{}) {
	s.Bus.Publish(events.Event{
		Type:    eventType,
		Turn:    s.Turn,
		Zone:    s.World.CurrentZoneKey,
		Payload: payload,
	})
}

// PlayerPos returns the player's cell in the current zone.
func (s *Session) PlayerPos() world.GridCoordinate {
	return s.Player.Pos
}

// ZoneKey returns the current zone's key.
func (s *Session) ZoneKey() string {
	return s.World.CurrentZoneKey
}
