package monster

import (
	"strconv"

	"tilecraft/internal/world"
)

type State int

const (
	StateIdle State = iota
	StatePursuing
)

func (s State) String() string {
	if s == StatePursuing {
		return "pursuing"
	}
	return "idle"
}

// Enemy is a live enemy in a zone.
type Enemy struct {
	ID           string
	Key          string
	Name         string
	Zone         string
	Pos          world.GridCoordinate
	HitPoints    int
	MaxHitPoints int
	Damage       int
	VisionRadius int
	State        State
}

// IDSource hands out enemy IDs. The zero value starts at 1.
type IDSource struct {
	next int
}

func (s *IDSource) Next() string {
	s.next++
	return "enemy_" + strconv.Itoa(s.next)
}

// NewEnemy creates an enemy from a definition. A definition without a vision
// radius uses defaultVision.
func NewEnemy(id, zone string, def *Definition, pos world.GridCoordinate, defaultVision int) *Enemy {
	vision := def.VisionRadius
	if vision <= 0 {
		vision = defaultVision
	}
	return &Enemy{
		ID:           id,
		Key:          def.Key,
		Name:         def.Name,
		Zone:         zone,
		Pos:          pos,
		HitPoints:    def.MaxHitPoints,
		MaxHitPoints: def.MaxHitPoints,
		Damage:       def.Damage,
		VisionRadius: vision,
	}
}

func (e *Enemy) IsAlive() bool {
	return e.HitPoints > 0
}
