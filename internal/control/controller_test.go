package control

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"tilecraft/internal/mathutil"
	"tilecraft/internal/player"
	"tilecraft/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorld struct {
	rows     []string
	pos      world.GridCoordinate
	zone     string
	occupied map[world.GridCoordinate]bool
	over     bool
	steps    []world.GridCoordinate
	stats    int
}

func newFakeWorld(rows ...string) *fakeWorld {
	return &fakeWorld{rows: rows, zone: "home", occupied: map[world.GridCoordinate]bool{}}
}

func (w *fakeWorld) InBounds(x, y int) bool {
	return y >= 0 && y < len(w.rows) && x >= 0 && x < len(w.rows[y])
}

func (w *fakeWorld) IsTileBlocking(x, y int) bool {
	t, err := w.TileAt(x, y)
	return err != nil || t == world.TileWall || t == world.TileTree || t == world.TileRock
}

func (w *fakeWorld) TileAt(x, y int) (world.TileType, error) {
	if !w.InBounds(x, y) {
		return 0, world.ErrOutOfBounds
	}
	switch w.rows[y][x] {
	case '#':
		return world.TileWall, nil
	case 'T':
		return world.TileTree, nil
	case 'R':
		return world.TileRock, nil
	}
	return world.TileFloor, nil
}

func (w *fakeWorld) PlayerPos() world.GridCoordinate { return w.pos }
func (w *fakeWorld) ZoneKey() string { return w.zone }
func (w *fakeWorld) IsOccupied(pos world.GridCoordinate) bool { return w.occupied[pos] }
func (w *fakeWorld) IsOver() bool { return w.over }
func (w *fakeWorld) PublishStats() { w.stats++ }

func (w *fakeWorld) StepPlayer(target world.GridCoordinate) (player.MoveOutcome, error) {
	w.steps = append(w.steps, target)
	if w.IsTileBlocking(target.X, target.Y) {
		return player.MoveOutcome{Kind: player.Blocked, From: w.pos, To: target}, nil
	}
	from := w.pos
	w.pos = target
	return player.MoveOutcome{Kind: player.Moved, From: from, To: target}, nil
}

type fakeClassifier struct{}

func (fakeClassifier) IsChoppable(t world.TileType) bool { return t == world.TileTree }
func (fakeClassifier) IsBreakable(t world.TileType) bool { return t == world.TileRock }

type fakeInteractor struct {
	canAct bool
	err    error
	calls  []string
}

func (f *fakeInteractor) HandleChoppableTile(target, playerPos world.GridCoordinate) (bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("handle%s@%s", target, playerPos))
	if f.err != nil {
		return false, f.err
	}
	return f.canAct && mathutil.Chebyshev(target.X, target.Y, playerPos.X, playerPos.Y) == 1, nil
}

func (f *fakeInteractor) CanAct(target world.GridCoordinate) (bool, error) {
	return f.canAct, f.err
}

func (f *fakeInteractor) ForceChoppableAction(target, playerPos world.GridCoordinate) error {
	f.calls = append(f.calls, fmt.Sprintf("force%s@%s", target, playerPos))
	return f.err
}

func at(x, y int) world.GridCoordinate {
	return world.GridCoordinate{X: x, Y: y}
}

func TestTapAdjacentInteractiveTile(t *testing.T) {
	w := newFakeWorld("..T..", ".....")
	w.pos = at(1, 0)
	r := &fakeInteractor{canAct: true}
	c := New(w, r, fakeClassifier{}, 0)

	require.NoError(t, c.Tap(at(2, 0)))
	assert.Equal(t, []string{"handle(2,0)@(1,0)"}, r.calls)
	assert.Equal(t, 1, w.stats)
	assert.False(t, c.Busy())
	assert.Empty(t, w.steps)
}

func TestTapAdjacentWithoutToolDoesNothing(t *testing.T) {
	w := newFakeWorld("..T..", ".....")
	w.pos = at(1, 1)
	r := &fakeInteractor{}
	c := New(w, r, fakeClassifier{}, 0)

	require.NoError(t, c.Tap(at(2, 0)))
	assert.Equal(t, []string{"handle(2,0)@(1,1)"}, r.calls)
	assert.Zero(t, w.stats)
	assert.False(t, c.Busy())
}

func TestTapDistantInteractiveTileWalksThenForces(t *testing.T) {
	w := newFakeWorld(
		"......",
		"....R.",
		"......",
	)
	w.pos = at(0, 1)
	r := &fakeInteractor{canAct: true}
	c := New(w, r, fakeClassifier{}, 0)

	require.NoError(t, c.Tap(at(4, 1)))
	require.True(t, c.Busy())
	target, ok := c.Target()
	require.True(t, ok)
	assert.Equal(t, at(4, 1), target)
	assert.Equal(t, []world.GridCoordinate{at(1, 1), at(2, 1), at(3, 1)}, c.Path())

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Tick())
	}
	assert.False(t, c.Busy())
	assert.Equal(t, at(3, 1), w.pos)
	assert.Equal(t, []string{"handle(4,1)@(0,1)", "force(4,1)@(3,1)"}, r.calls)
}

func TestTapDistantInteractiveTileWithoutToolStaysPut(t *testing.T) {
	w := newFakeWorld("......T")
	r := &fakeInteractor{}
	c := New(w, r, fakeClassifier{}, 0)

	require.NoError(t, c.Tap(at(6, 0)))
	assert.False(t, c.Busy())
	assert.Empty(t, c.Path())

	for i := 0; i < 10 && c.Busy(); i++ {
		require.NoError(t, c.Tick())
	}
	assert.Empty(t, w.steps)
	assert.Equal(t, at(0, 0), w.pos)
	assert.Equal(t, []string{"handle(6,0)@(0,0)"}, r.calls)
}

func TestTapWalkableCellPlansWalk(t *testing.T) {
	w := newFakeWorld("....", "....")
	r := &fakeInteractor{}
	c := New(w, r, fakeClassifier{}, 0)

	require.NoError(t, c.Tap(at(3, 0)))
	assert.Empty(t, r.calls)
	_, interact := c.Target()
	assert.False(t, interact)

	for c.Busy() {
		require.NoError(t, c.Tick())
	}
	assert.Equal(t, at(3, 0), w.pos)
	assert.Len(t, w.steps, 3)
	assert.Empty(t, r.calls)
}

func TestTapIgnored(t *testing.T) {
	t.Run("own cell", func(t *testing.T) {
		w := newFakeWorld("...")
		c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(0, 0)))
		assert.False(t, c.Busy())
	})

	t.Run("game over", func(t *testing.T) {
		w := newFakeWorld("...")
		w.over = true
		r := &fakeInteractor{}
		c := New(w, r, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(2, 0)))
		assert.False(t, c.Busy())
		assert.Empty(t, r.calls)
	})

	t.Run("unreachable", func(t *testing.T) {
		w := newFakeWorld(".#.", "##.", "...")
		c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(2, 2)))
		assert.False(t, c.Busy())
	})

	t.Run("outside the zone", func(t *testing.T) {
		w := newFakeWorld("...")
		c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
		assert.ErrorIs(t, c.Tap(at(9, 9)), world.ErrOutOfBounds)
	})
}

func TestTapPropagatesResolverError(t *testing.T) {
	w := newFakeWorld(".T")
	boom := errors.New("boom")
	c := New(w, &fakeInteractor{err: boom}, fakeClassifier{}, 0)
	assert.ErrorIs(t, c.Tap(at(1, 0)), boom)
}

func TestTickCancels(t *testing.T) {
	t.Run("occupied next cell", func(t *testing.T) {
		w := newFakeWorld("....")
		c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(3, 0)))
		w.occupied[at(1, 0)] = true

		require.NoError(t, c.Tick())
		assert.False(t, c.Busy())
		assert.Empty(t, w.steps)
	})

	t.Run("zone changed", func(t *testing.T) {
		w := newFakeWorld("....")
		c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(3, 0)))
		w.zone = "east"

		require.NoError(t, c.Tick())
		assert.False(t, c.Busy())
		assert.Empty(t, w.steps)
	})

	t.Run("blocked step", func(t *testing.T) {
		w := newFakeWorld("....")
		r := &fakeInteractor{}
		c := New(w, r, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(3, 0)))
		w.rows[0] = ".#.."

		require.NoError(t, c.Tick())
		assert.False(t, c.Busy())
		assert.Equal(t, at(0, 0), w.pos)
	})

	t.Run("player died on the way", func(t *testing.T) {
		w := newFakeWorld(".....R")
		r := &fakeInteractor{canAct: true}
		c := New(w, r, fakeClassifier{}, 0)
		require.NoError(t, c.Tap(at(5, 0)))
		require.NoError(t, c.Tick())
		w.over = true

		require.NoError(t, c.Tick())
		assert.False(t, c.Busy())
		assert.Equal(t, []string{"handle(5,0)@(0,0)"}, r.calls)
	})
}

func TestStep(t *testing.T) {
	w := newFakeWorld("...", "...")
	c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
	require.NoError(t, c.Tap(at(2, 1)))

	require.NoError(t, c.Step(0, 1))
	assert.False(t, c.Busy(), "a key press cancels the plan")
	assert.Equal(t, at(0, 1), w.pos)

	w.over = true
	require.NoError(t, c.Step(1, 0))
	assert.Equal(t, at(0, 1), w.pos)
}

type countingProfiler map[string]int

func (p countingProfiler) ProfiledFunction(name string, fn func()) time.Duration {
	p[name]++
	fn()
	return 0
}

func TestPathSearchesAreProfiled(t *testing.T) {
	w := newFakeWorld("....", "....")
	c := New(w, &fakeInteractor{}, fakeClassifier{}, 0)
	prof := countingProfiler{}
	c.SetProfiler(prof)

	require.NoError(t, c.Tap(at(3, 1)))
	assert.True(t, c.Busy())
	assert.Equal(t, 1, prof["path"])
}
