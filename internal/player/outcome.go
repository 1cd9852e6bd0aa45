package player

import "tilecraft/internal/world"

// MoveKind tells what a move did.
type MoveKind int

const (
	Moved MoveKind = iota
	ActedInPlace
	ExitedZone
	Blocked
)

func (k MoveKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case ActedInPlace:
		return "acted_in_place"
	case ExitedZone:
		return "exited_zone"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Action is the terrain action performed by an ActedInPlace move.
type Action int

const (
	ActionNone Action = iota
	ActionChop
	ActionBreak
)

func (a Action) String() string {
	switch a {
	case ActionChop:
		return "chop"
	case ActionBreak:
		return "break"
	default:
		return "none"
	}
}

// MoveOutcome is the result of Player.Move. ZoneX, ZoneY and Exit are only set
// for ExitedZone; Tile, Result and Yield only once the target tile was read.
type MoveOutcome struct {
	Kind   MoveKind
	Action Action
	From   world.GridCoordinate
	To     world.GridCoordinate
	Tile   world.TileType
	Result world.TileType
	Yield  string
	ZoneX  int
	ZoneY  int
	Exit   world.Side
}
