// Package control turns taps and key presses into player turns.
package control

import (
	"time"

	"tilecraft/internal/interaction"
	"tilecraft/internal/mathutil"
	"tilecraft/internal/monitoring"
	"tilecraft/internal/pathfinding"
	"tilecraft/internal/player"
	"tilecraft/internal/world"
	"tilecraft/pkg/logger"

	"github.com/sirupsen/logrus"
)

// World is the game state the controller drives.
type World interface {
	pathfinding.Grid
	TileAt(x, y int) (world.TileType, error)
	PlayerPos() world.GridCoordinate
	ZoneKey() string
	IsOccupied(pos world.GridCoordinate) bool
	IsOver() bool
	StepPlayer(target world.GridCoordinate) (player.MoveOutcome, error)
	PublishStats()
}

// Interactor resolves chops and breaks.
type Interactor interface {
	HandleChoppableTile(target, playerPos world.GridCoordinate) (bool, error)
	ForceChoppableAction(target, playerPos world.GridCoordinate) error
	CanAct(target world.GridCoordinate) (bool, error)
}

// Profiler times named sections.
type Profiler interface {
	ProfiledFunction(name string, fn func()) time.Duration
}

type plan struct {
	path     []world.GridCoordinate
	zone     string
	interact bool
	target   world.GridCoordinate
}

// Controller queues at most one plan: a walk, or a walk followed by a chop or
// break on arrival. Tick advances it one step at a time.
type Controller struct {
	world    World
	resolver Interactor
	tiles    interaction.TileClassifier
	maxNodes int
	plan     *plan
	profiler Profiler
	log      *logrus.Entry
}

// New creates a controller. maxNodes bounds every path search.
func New(w World, resolver Interactor, tiles interaction.TileClassifier, maxNodes int) *Controller {
	return &Controller{
		world:    w,
		resolver: resolver,
		tiles:    tiles,
		maxNodes: maxNodes,
		log:      logger.Component("control"),
	}
}

// SetProfiler times every path search through p.
func (c *Controller) SetProfiler(p Profiler) {
	c.profiler = p
}

func (c *Controller) search(find func() ([]world.GridCoordinate, bool)) (path []world.GridCoordinate, ok bool) {
	if c.profiler == nil {
		return find()
	}
	c.profiler.ProfiledFunction(monitoring.SectionPath, func() { path, ok = find() })
	return path, ok
}

// Tap handles a tap on cell. An adjacent choppable or breakable tile is acted
// on at once; a distant one the player has the tool for gets a walk to one of
// its neighbours that ends in a forced action; any other walkable cell gets a
// plain walk.
func (c *Controller) Tap(cell world.GridCoordinate) error {
	if c.world.IsOver() {
		return nil
	}
	c.Cancel()

	pos := c.world.PlayerPos()
	if cell == pos {
		return nil
	}

	tile, err := c.world.TileAt(cell.X, cell.Y)
	if err != nil {
		return err
	}

	if c.tiles.IsChoppable(tile) || c.tiles.IsBreakable(tile) {
		acted, err := c.resolver.HandleChoppableTile(cell, pos)
		if err != nil {
			return err
		}
		if acted {
			c.world.PublishStats()
			return nil
		}
		if mathutil.Chebyshev(pos.X, pos.Y, cell.X, cell.Y) <= 1 {
			return nil
		}
		can, err := c.resolver.CanAct(cell)
		if err != nil {
			return err
		}
		if !can {
			c.log.WithField("target", cell.String()).Debug("missing tool for target")
			return nil
		}

		path, ok := c.search(func() ([]world.GridCoordinate, bool) {
			return pathfinding.FindPathToAdjacent(c.world, pos, cell, c.maxNodes)
		})
		if !ok {
			c.log.WithField("target", cell.String()).Debug("no route next to target")
			return nil
		}
		c.plan = &plan{path: path, zone: c.world.ZoneKey(), interact: true, target: cell}
		return nil
	}

	path, ok := c.search(func() ([]world.GridCoordinate, bool) {
		return pathfinding.FindPath(c.world, pos, cell, c.maxNodes)
	})
	if !ok {
		c.log.WithField("target", cell.String()).Debug("no route to target")
		return nil
	}
	c.plan = &plan{path: path, zone: c.world.ZoneKey()}
	return nil
}

// Step moves the player one cell in direction (dx, dy) as a full turn. Stepping
// into a tile the player has the tool for acts on it.
func (c *Controller) Step(dx, dy int) error {
	if c.world.IsOver() {
		return nil
	}
	c.Cancel()
	_, err := c.world.StepPlayer(c.world.PlayerPos().Shift(dx, dy))
	return err
}

// Tick executes the next step of the current plan.
func (c *Controller) Tick() error {
	if c.plan == nil {
		return nil
	}
	if c.world.IsOver() || c.world.ZoneKey() != c.plan.zone {
		c.Cancel()
		return nil
	}

	if len(c.plan.path) > 0 {
		next := c.plan.path[0]
		if c.world.IsOccupied(next) {
			c.Cancel()
			return nil
		}
		outcome, err := c.world.StepPlayer(next)
		if err != nil {
			c.Cancel()
			return err
		}
		if outcome.Kind != player.Moved {
			c.Cancel()
			return nil
		}
		c.plan.path = c.plan.path[1:]
		if len(c.plan.path) > 0 {
			return nil
		}
	}

	p := c.plan
	c.Cancel()
	if !p.interact || c.world.IsOver() || c.world.ZoneKey() != p.zone {
		return nil
	}
	return c.resolver.ForceChoppableAction(p.target, c.world.PlayerPos())
}

// Busy reports whether a plan is in progress.
func (c *Controller) Busy() bool {
	return c.plan != nil
}

// Cancel drops the current plan.
func (c *Controller) Cancel() {
	c.plan = nil
}

// Path returns the remaining cells of the current plan.
func (c *Controller) Path() []world.GridCoordinate {
	if c.plan == nil {
		return nil
	}
	return c.plan.path
}

// Target returns the tile the current plan will act on, if any.
func (c *Controller) Target() (world.GridCoordinate, bool) {
	if c.plan == nil || !c.plan.interact {
		return world.GridCoordinate{}, false
	}
	return c.plan.target, true
}
