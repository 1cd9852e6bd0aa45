package monster

import (
	"math"

	"tilecraft/internal/mathutil"
	"tilecraft/internal/world"
)

// CanSee reports whether target lies within the enemy's vision radius.
func (e *Enemy) CanSee(target world.GridCoordinate) bool {
	return mathutil.Chebyshev(e.Pos.X, e.Pos.Y, target.X, target.Y) <= e.VisionRadius
}

// StepToward moves the enemy one cell toward target when it can see it. Of the
// eight neighbours that canEnter accepts, the one closest to target wins; the
// enemy stays put unless that neighbour is closer than where it stands.
func (e *Enemy) StepToward(target world.GridCoordinate, canEnter func(world.GridCoordinate) bool) bool {
	if !e.IsAlive() || !e.CanSee(target) {
		e.State = StateIdle
		return false
	}
	e.State = StatePursuing

	best := e.Pos
	bestDist := squaredDistance(e.Pos, target)
	found := false

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			next := e.Pos.Shift(dx, dy)
			if next == target || !canEnter(next) {
				continue
			}
			if dist := squaredDistance(next, target); dist < bestDist {
				bestDist = dist
				best = next
				found = true
			}
		}
	}

	if !found {
		return false
	}
	e.Pos = best
	return true
}

func squaredDistance(a, b world.GridCoordinate) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Pow(dx, 2) + math.Pow(dy, 2)
}
