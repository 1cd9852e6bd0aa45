package events

import (
	"time"

	"tilecraft/internal/world"
)

// Type names a notification.
type Type string

const (
	StatsUpdated   Type = "stats_updated"
	TerrainChanged Type = "terrain_changed"
	ZoneChanged    Type = "zone_changed"
	ItemPicked     Type = "item_picked"
	PlayerHurt     Type = "player_hurt"
)

// Event is one notification on the bus. Payload holds one of the *Payload types
// below, matching Type.
type Event struct {
	Type    Type        `json:"type"`
	Turn    int         `json:"turn"`
	Zone    string      `json:"zone,omitempty"`
	Time    time.Time   `json:"time"`
	Payload interface{} `json:"payload,omitempty"`
}

// StatsPayload is the HUD snapshot carried by stats_updated.
type StatsPayload struct {
	Pos          world.GridCoordinate `json:"pos"`
	HitPoints    int                  `json:"hit_points"`
	MaxHitPoints int                  `json:"max_hit_points"`
	Abilities    []string             `json:"abilities"`
	Inventory    map[string]int       `json:"inventory"`
	Chopped      int                  `json:"chopped"`
	Broken       int                  `json:"broken"`
	Steps        int                  `json:"steps"`
	Enemies      int                  `json:"enemies"`
}

// TerrainPayload describes a tile replaced by a chop or break.
type TerrainPayload struct {
	Pos    world.GridCoordinate `json:"pos"`
	Action string               `json:"action"`
	From   string               `json:"from"`
	To     string               `json:"to"`
	Yield  string               `json:"yield,omitempty"`
}

// ZonePayload describes a zone transition.
type ZonePayload struct {
	From  string               `json:"from"`
	To    string               `json:"to"`
	Exit  string               `json:"exit"`
	Entry world.GridCoordinate `json:"entry"`
}

// ItemPayload describes a picked up ground item.
type ItemPayload struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Ability string `json:"ability,omitempty"`
}

// HurtPayload describes contact damage taken by the player.
type HurtPayload struct {
	Source    string `json:"source"`
	Amount    int    `json:"amount"`
	HitPoints int    `json:"hit_points"`
}
