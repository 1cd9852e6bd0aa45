package session

import "tilecraft/internal/events"

// StatsEvent builds the stats_updated event for the current state.
func (s *Session) StatsEvent() events.Event {
	p := s.Player
	return events.Event{
		Type: events.StatsUpdated,
		Turn: s.Turn,
		Zone: s.World.CurrentZoneKey,
		Payload: events.StatsPayload{
			Pos:          p.Pos,
			HitPoints:    p.HitPoints,
			MaxHitPoints: p.MaxHitPoints,
			Abilities:    p.Abilities.Names(),
			Inventory:    p.Inventory.Snapshot(),
			Chopped:      p.Chopped,
			Broken:       p.Broken,
			Steps:        p.Steps,
			Enemies:      len(s.Enemies()),
		},
	}
}

// PublishStats announces the current stats without waiting for subscribers.
func (s *Session) PublishStats() {
	s.Bus.Publish(s.StatsEvent())
}
