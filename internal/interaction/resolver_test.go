package interaction

import (
	"errors"
	"fmt"
	"testing"

	"tilecraft/internal/events"
	"tilecraft/internal/player"
	"tilecraft/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// callLog records collaborator calls across every fake in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...interface{}) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeTiles struct{}

func (fakeTiles) IsChoppable(t world.TileType) bool { return t == world.TileTree }
func (fakeTiles) IsBreakable(t world.TileType) bool { return t == world.TileRock }

type fakeGrid struct {
	log   *callLog
	tiles map[world.GridCoordinate]world.TileType
	w, h  int
}

func (g *fakeGrid) TileAt(x, y int) (world.TileType, error) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0, fmt.Errorf("%w: (%d,%d)", world.ErrOutOfBounds, x, y)
	}
	return g.tiles[world.GridCoordinate{X: x, Y: y}], nil
}

func (g *fakeGrid) SetTile(x, y int, t world.TileType) error { return nil }
func (g *fakeGrid) InBounds(x, y int) bool                   { return x >= 0 && y >= 0 && x < g.w && y < g.h }
func (g *fakeGrid) ExitSide(x, y int) world.Side             { return world.SideNone }
func (g *fakeGrid) ZoneCoords() (int, int)                   { return 0, 0 }

type fakeActor struct {
	log       *callLog
	abilities player.AbilitySet
	outcome   player.MoveOutcome
	err       error
	moves     []world.GridCoordinate
}

func (a *fakeActor) HasAbility(ab player.Ability) bool { return a.abilities.Has(ab) }

func (a *fakeActor) Move(target world.GridCoordinate, _ player.Terrain) (player.MoveOutcome, error) {
	a.log.add("move%s", target)
	a.moves = append(a.moves, target)
	return a.outcome, a.err
}

type fakeWorld struct {
	log           *callLog
	transitionErr error
}

func (w *fakeWorld) HandleEnemyMovements() { w.log.add("enemies") }
func (w *fakeWorld) CheckCollisions()      { w.log.add("collisions") }
func (w *fakeWorld) CheckItemPickup()      { w.log.add("pickup") }
func (w *fakeWorld) UpdatePlayerPosition() { w.log.add("position") }

func (w *fakeWorld) TransitionToZone(zx, zy int, exit world.Side, anchor world.GridCoordinate) error {
	w.log.add("transition(%d,%d,%s,%s)", zx, zy, exit, anchor)
	return w.transitionErr
}

type fakeNotifier struct {
	log    *callLog
	events []events.Event
}

func (n *fakeNotifier) Publish(ev events.Event) {
	n.log.add("publish:%s", ev.Type)
	n.events = append(n.events, ev)
}

type fixture struct {
	log      *callLog
	grid     *fakeGrid
	actor    *fakeActor
	world    *fakeWorld
	notifier *fakeNotifier
	resolver *Resolver
}

// newFixture builds a 5x5 grid with a tree at (2,1), a rock at (1,2) and a wall
// at (3,2); everything else is floor.
func newFixture(abilities ...player.Ability) *fixture {
	log := &callLog{}
	f := &fixture{
		log: log,
		grid: &fakeGrid{log: log, w: 5, h: 5, tiles: map[world.GridCoordinate]world.TileType{
			{X: 2, Y: 1}: world.TileTree,
			{X: 1, Y: 2}: world.TileRock,
			{X: 3, Y: 2}: world.TileWall,
		}},
		actor:    &fakeActor{log: log, abilities: player.NewAbilitySet(abilities...), outcome: player.MoveOutcome{Kind: player.ActedInPlace}},
		world:    &fakeWorld{log: log},
		notifier: &fakeNotifier{log: log},
	}
	f.resolver = NewResolver(Deps{
		Tiles:    fakeTiles{},
		Grid:     f.grid,
		Player:   f.actor,
		World:    f.world,
		Notifier: f.notifier,
	})
	return f
}

var (
	center = world.GridCoordinate{X: 2, Y: 2}
	tree   = world.GridCoordinate{X: 2, Y: 1}
	rock   = world.GridCoordinate{X: 1, Y: 2}
	wall   = world.GridCoordinate{X: 3, Y: 2}
	floor  = world.GridCoordinate{X: 3, Y: 3}
)

func TestChebyshevAdjacent(t *testing.T) {
	assert.True(t, ChebyshevAdjacent(1, 0))
	assert.True(t, ChebyshevAdjacent(0, 1))
	assert.True(t, ChebyshevAdjacent(1, 1))
	assert.False(t, ChebyshevAdjacent(0, 0))
	assert.False(t, ChebyshevAdjacent(2, 0))
	assert.False(t, ChebyshevAdjacent(2, 1))
}

func TestHandleChoppableTile(t *testing.T) {
	t.Run("adjacent tree with axe is consumed", func(t *testing.T) {
		f := newFixture(player.Axe)
		ok, err := f.resolver.HandleChoppableTile(tree, center)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []world.GridCoordinate{tree}, f.actor.moves)
		assert.Equal(t, []string{"move(2,1)"}, f.log.calls, "no enemy turn, pickup or notification")
	})

	t.Run("adjacent rock with hammer is consumed", func(t *testing.T) {
		f := newFixture(player.Hammer)
		ok, err := f.resolver.HandleChoppableTile(rock, center)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, f.actor.moves, 1)
	})

	t.Run("diagonal neighbour counts as adjacent", func(t *testing.T) {
		f := newFixture(player.Axe)
		ok, err := f.resolver.HandleChoppableTile(tree, world.GridCoordinate{X: 1, Y: 2})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tree without axe", func(t *testing.T) {
		f := newFixture(player.Hammer)
		ok, err := f.resolver.HandleChoppableTile(tree, center)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.log.calls)
	})

	t.Run("rock without hammer", func(t *testing.T) {
		f := newFixture(player.Axe)
		ok, err := f.resolver.HandleChoppableTile(rock, center)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.log.calls)
	})

	t.Run("tree two cells away", func(t *testing.T) {
		f := newFixture(player.Axe, player.Hammer)
		ok, err := f.resolver.HandleChoppableTile(tree, world.GridCoordinate{X: 2, Y: 3})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.log.calls)
	})

	t.Run("tapping the player's own cell", func(t *testing.T) {
		f := newFixture(player.Axe)
		ok, err := f.resolver.HandleChoppableTile(tree, tree)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.log.calls)
	})

	t.Run("plain tiles never move the player", func(t *testing.T) {
		f := newFixture(player.Axe, player.Hammer)
		for _, target := range []world.GridCoordinate{wall, floor} {
			ok, err := f.resolver.HandleChoppableTile(target, center)
			require.NoError(t, err)
			assert.False(t, ok)
		}
		assert.Empty(t, f.actor.moves)
	})

	t.Run("zone exit from the move is ignored", func(t *testing.T) {
		f := newFixture(player.Axe)
		f.actor.outcome = player.MoveOutcome{Kind: player.ExitedZone, ZoneX: 1, Exit: world.East}
		ok, err := f.resolver.HandleChoppableTile(tree, center)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"move(2,1)"}, f.log.calls)
	})

	t.Run("lookup error propagates unchanged", func(t *testing.T) {
		f := newFixture(player.Axe)
		ok, err := f.resolver.HandleChoppableTile(world.GridCoordinate{X: 9, Y: 9}, center)
		assert.ErrorIs(t, err, world.ErrOutOfBounds)
		assert.False(t, ok)
		assert.Empty(t, f.log.calls)
	})

	t.Run("move error propagates", func(t *testing.T) {
		f := newFixture(player.Axe)
		f.actor.err = errors.New("boom")
		ok, err := f.resolver.HandleChoppableTile(tree, center)
		assert.EqualError(t, err, "boom")
		assert.False(t, ok)
	})

	t.Run("custom adjacency", func(t *testing.T) {
		f := newFixture(player.Axe)
		orthogonal := func(dx, dy int) bool { return dx+dy == 1 }
		r := NewResolver(Deps{Tiles: fakeTiles{}, Grid: f.grid, Player: f.actor, World: f.world, Adjacent: orthogonal})

		ok, err := r.HandleChoppableTile(tree, world.GridCoordinate{X: 1, Y: 2})
		require.NoError(t, err)
		assert.False(t, ok)
		ok, err = r.HandleChoppableTile(tree, center)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCanAct(t *testing.T) {
	f := newFixture(player.Axe)

	ok, err := f.resolver.CanAct(tree)
	require.NoError(t, err)
	assert.True(t, ok, "distance does not matter")

	ok, err = f.resolver.CanAct(rock)
	require.NoError(t, err)
	assert.False(t, ok, "no hammer")

	ok, err = f.resolver.CanAct(floor)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.resolver.CanAct(world.GridCoordinate{X: 9, Y: 0})
	assert.ErrorIs(t, err, world.ErrOutOfBounds)

	assert.Empty(t, f.log.calls)
	assert.Empty(t, f.actor.moves)
}

func TestForceChoppableAction(t *testing.T) {
	t.Run("breakable with hammer runs the full turn in order", func(t *testing.T) {
		f := newFixture(player.Hammer)
		require.NoError(t, f.resolver.ForceChoppableAction(rock, center))
		assert.Equal(t, []string{
			"enemies",
			"move(1,2)",
			"collisions",
			"pickup",
			"position",
			"publish:stats_updated",
		}, f.log.calls)
	})

	t.Run("adjacency is not re-checked", func(t *testing.T) {
		f := newFixture(player.Axe)
		require.NoError(t, f.resolver.ForceChoppableAction(tree, world.GridCoordinate{X: 0, Y: 4}))
		assert.Equal(t, []world.GridCoordinate{tree}, f.actor.moves)
		assert.Len(t, f.log.calls, 6)
	})

	t.Run("zone exit transitions with the pre-action anchor", func(t *testing.T) {
		f := newFixture(player.Axe)
		f.actor.outcome = player.MoveOutcome{Kind: player.ExitedZone, ZoneX: 1, ZoneY: 0, Exit: world.East}
		require.NoError(t, f.resolver.ForceChoppableAction(tree, center))
		assert.Equal(t, []string{
			"enemies",
			"move(2,1)",
			"transition(1,0,east,(2,2))",
			"collisions",
			"pickup",
			"position",
			"publish:stats_updated",
		}, f.log.calls)
	})

	t.Run("transition error stops the turn", func(t *testing.T) {
		f := newFixture(player.Axe)
		f.actor.outcome = player.MoveOutcome{Kind: player.ExitedZone, Exit: world.North}
		f.world.transitionErr = world.ErrNoZone
		err := f.resolver.ForceChoppableAction(tree, center)
		assert.ErrorIs(t, err, world.ErrNoZone)
		assert.NotContains(t, f.log.calls, "collisions")
	})

	t.Run("plain tile makes no calls at all", func(t *testing.T) {
		f := newFixture(player.Axe, player.Hammer)
		require.NoError(t, f.resolver.ForceChoppableAction(wall, center))
		require.NoError(t, f.resolver.ForceChoppableAction(floor, center))
		assert.Empty(t, f.log.calls)
	})

	t.Run("missing ability makes no calls at all", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.resolver.ForceChoppableAction(tree, center))
		require.NoError(t, f.resolver.ForceChoppableAction(rock, center))
		assert.Empty(t, f.log.calls)
	})

	t.Run("stats builder supplies the event", func(t *testing.T) {
		f := newFixture(player.Axe)
		r := NewResolver(Deps{
			Tiles: fakeTiles{}, Grid: f.grid, Player: f.actor, World: f.world, Notifier: f.notifier,
			Stats: func() events.Event { return events.Event{Type: events.StatsUpdated, Turn: 7} },
		})
		require.NoError(t, r.ForceChoppableAction(tree, center))
		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, 7, f.notifier.events[0].Turn)
	})

	t.Run("lookup error propagates before any call", func(t *testing.T) {
		f := newFixture(player.Axe)
		err := f.resolver.ForceChoppableAction(world.GridCoordinate{X: -1, Y: 0}, center)
		assert.ErrorIs(t, err, world.ErrOutOfBounds)
		assert.Empty(t, f.log.calls)
	})
}

type mockActor struct {
	mock.Mock
}

func (m *mockActor) HasAbility(a player.Ability) bool {
	return m.Called(a).Bool(0)
}

func (m *mockActor) Move(target world.GridCoordinate, terrain player.Terrain) (player.MoveOutcome, error) {
	args := m.Called(target, terrain)
	return args.Get(0).(player.MoveOutcome), args.Error(1)
}

func TestHandleChoppableTileMovesExactlyOnce(t *testing.T) {
	f := newFixture()
	actor := &mockActor{}
	actor.On("HasAbility", player.Axe).Return(true)
	actor.On("Move", tree, mock.Anything).Return(player.MoveOutcome{Kind: player.ActedInPlace}, nil).Once()

	r := NewResolver(Deps{Tiles: fakeTiles{}, Grid: f.grid, Player: actor, World: f.world})
	ok, err := r.HandleChoppableTile(tree, center)
	require.NoError(t, err)
	assert.True(t, ok)

	actor.AssertExpectations(t)
	actor.AssertNumberOfCalls(t, "Move", 1)
}
