// Package pathfinding plans player routes across a zone.
package pathfinding

import (
	"tilecraft/internal/world"

	"github.com/zyedidia/generic/mapset"
)

// Grid is the walkability view a search needs.
type Grid interface {
	InBounds(x, y int) bool
	IsTileBlocking(x, y int) bool
}

// Orthogonal steps come first so straight routes win ties.
var directions = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns the cells to walk from from to to, excluding from. ok is
// false when to is blocked or unreachable within maxNodes expansions
// (maxNodes <= 0 means no limit).
func FindPath(grid Grid, from, to world.GridCoordinate, maxNodes int) (path []world.GridCoordinate, ok bool) {
	if !walkable(grid, to) {
		return nil, false
	}
	goals := mapset.New[world.GridCoordinate]()
	goals.Put(to)
	return search(grid, from, goals, maxNodes)
}

// FindPathToAdjacent returns a path ending on a walkable neighbour of target.
// It is empty when from already touches target.
func FindPathToAdjacent(grid Grid, from, target world.GridCoordinate, maxNodes int) (path []world.GridCoordinate, ok bool) {
	goals := mapset.New[world.GridCoordinate]()
	for _, d := range directions {
		c := target.Shift(d[0], d[1])
		if c == from || walkable(grid, c) {
			goals.Put(c)
		}
	}
	if goals.Size() == 0 {
		return nil, false
	}
	return search(grid, from, goals, maxNodes)
}

func search(grid Grid, start world.GridCoordinate, goals mapset.Set[world.GridCoordinate], maxNodes int) ([]world.GridCoordinate, bool) {
	if goals.Has(start) {
		return []world.GridCoordinate{}, true
	}

	visited := mapset.New[world.GridCoordinate]()
	visited.Put(start)
	cameFrom := make(map[world.GridCoordinate]world.GridCoordinate)
	queue := []world.GridCoordinate{start}
	expanded := 0

	for len(queue) > 0 {
		if maxNodes > 0 && expanded >= maxNodes {
			return nil, false
		}
		current := queue[0]
		queue = queue[1:]
		expanded++

		for _, d := range directions {
			next := current.Shift(d[0], d[1])
			if visited.Has(next) || !walkable(grid, next) {
				continue
			}
			visited.Put(next)
			cameFrom[next] = current

			if goals.Has(next) {
				return reconstruct(cameFrom, start, next), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func reconstruct(cameFrom map[world.GridCoordinate]world.GridCoordinate, start, end world.GridCoordinate) []world.GridCoordinate {
	path := make([]world.GridCoordinate, 0, 16)
	for current := end; current != start; current = cameFrom[current] {
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func walkable(grid Grid, c world.GridCoordinate) bool {
	return grid.InBounds(c.X, c.Y) && !grid.IsTileBlocking(c.X, c.Y)
}
