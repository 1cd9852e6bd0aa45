package session

import (
	"tilecraft/internal/collision"
	"tilecraft/internal/events"
	"tilecraft/internal/items"
	"tilecraft/internal/monster"
	"tilecraft/internal/player"
	"tilecraft/internal/world"

	"github.com/sirupsen/logrus"
)

// HandleEnemyMovements starts a new turn: every enemy that sees the player steps
// one cell toward them.
func (s *Session) HandleEnemyMovements() {
	s.Turn++
	target := s.Player.Pos

	for _, e := range s.Enemies() {
		if !e.CanSee(target) || !s.Collision.CheckLineOfSight(e.Pos, target) {
			e.State = monster.StateIdle
			continue
		}
		canEnter := func(c world.GridCoordinate) bool {
			return s.Collision.CanMoveTo(e.ID, c)
		}
		if e.StepToward(target, canEnter) {
			s.Collision.UpdateEntity(e.ID, e.Pos)
		}
	}
}

// CheckCollisions applies contact damage from every enemy touching the player.
func (s *Session) CheckCollisions() {
	for _, entity := range s.Collision.Touching(playerID) {
		if entity.Type != collision.EntityEnemy {
			continue
		}
		enemy := s.enemyByID(entity.ID)
		if enemy == nil {
			continue
		}

		damage := enemy.Damage
		if damage <= 0 {
			damage = s.contactDamage
		}
		taken := s.Player.Damage(damage)
		if taken == 0 {
			continue
		}

		s.log.WithFields(logrus.Fields{
			"enemy":      enemy.Name,
			"damage":     taken,
			"hit_points": s.Player.HitPoints,
		}).Info("player hurt")
		s.publish(events.PlayerHurt, events.HurtPayload{
			Source:    enemy.Name,
			Amount:    taken,
			HitPoints: s.Player.HitPoints,
		})
	}
}

// CheckItemPickup moves every ground item on the player's cell into the
// inventory. Tools also grant their ability.
func (s *Session) CheckItemPickup() {
	zoneKey := s.World.CurrentZoneKey
	var remaining []*items.GroundItem
	for _, item := range s.groundItems[zoneKey] {
		if item.Pos != s.Player.Pos {
			remaining = append(remaining, item)
			continue
		}

		s.Player.Inventory.Add(item.Key, 1)
		s.Collision.UnregisterEntity(item.ID)

		payload := events.ItemPayload{Key: item.Key, Name: s.ItemCatalog.Name(item.Key)}
		if def, ok := s.ItemCatalog.Get(item.Key); ok && def.Grants != "" {
			if ability, err := player.ParseAbility(def.Grants); err != nil {
				s.log.WithError(err).WithField("item", item.Key).Warn("item grants unknown ability")
			} else {
				s.Player.Abilities.Grant(ability)
				payload.Ability = ability.String()
			}
		}
		s.publish(events.ItemPicked, payload)
	}
	s.groundItems[zoneKey] = remaining
}

// UpdatePlayerPosition syncs the player's cell into the collision grid.
func (s *Session) UpdatePlayerPosition() {
	s.Collision.UpdateEntity(playerID, s.Player.Pos)
}

// TransitionToZone moves the player into the zone at (zoneX, zoneY), entering
// on the edge opposite exit next to anchor.
func (s *Session) TransitionToZone(zoneX, zoneY int, exit world.Side, anchor world.GridCoordinate) error {
	from := s.World.CurrentZoneKey
	entry, err := s.World.TransitionToZone(zoneX, zoneY, exit, anchor)
	if err != nil {
		return err
	}

	s.Player.Pos = entry
	s.rebuildCollision()
	s.publish(events.ZoneChanged, events.ZonePayload{
		From:  from,
		To:    s.World.CurrentZoneKey,
		Exit:  exit.String(),
		Entry: entry,
	})
	return nil
}

// StepPlayer runs one ordinary movement turn toward target: enemies move, the
// player moves or acts, a zone exit is followed, then collisions, pickups and
// the stats refresh. A step into an enemy is refused without using the turn.
func (s *Session) StepPlayer(target world.GridCoordinate) (player.MoveOutcome, error) {
	if s.InBounds(target.X, target.Y) && s.IsOccupied(target) {
		return player.MoveOutcome{Kind: player.Blocked, From: s.Player.Pos, To: target}, nil
	}

	anchor := s.Player.Pos
	s.HandleEnemyMovements()

	// An enemy may have stepped into the way.
	if s.InBounds(target.X, target.Y) && s.IsOccupied(target) {
		s.finishTurn()
		return player.MoveOutcome{Kind: player.Blocked, From: anchor, To: target}, nil
	}

	outcome, err := s.Actor().Move(target, s)
	if err != nil {
		return outcome, err
	}
	if outcome.Kind == player.ExitedZone {
		if err := s.TransitionToZone(outcome.ZoneX, outcome.ZoneY, outcome.Exit, anchor); err != nil {
			s.log.WithError(err).Debug("no zone beyond the edge")
			outcome.Kind = player.Blocked
		}
	}

	s.finishTurn()
	return outcome, nil
}

func (s *Session) finishTurn() {
	s.CheckCollisions()
	s.CheckItemPickup()
	s.UpdatePlayerPosition()
	s.PublishStats()
}

func (s *Session) enemyByID(id string) *monster.Enemy {
	for _, e := range s.enemies[s.World.CurrentZoneKey] {
		if e.ID == id {
			return e
		}
	}
	return nil
}
