package game

import (
	"tilecraft/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Commander receives player intents from the input layer.
type Commander interface {
	Tap(cell world.GridCoordinate) error
	Step(dx, dy int) error
	Cancel()
}

type queuedTap struct {
	x, y int
	at   int64
}

type keyDirection struct {
	keys   []ebiten.Key
	dx, dy int
}

var movementKeys = []keyDirection{
	{keys: []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeyNumpad8}, dx: 0, dy: -1},
	{keys: []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS, ebiten.KeyNumpad2}, dx: 0, dy: 1},
	{keys: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA, ebiten.KeyNumpad4}, dx: -1, dy: 0},
	{keys: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD, ebiten.KeyNumpad6}, dx: 1, dy: 0},
	{keys: []ebiten.Key{ebiten.KeyQ, ebiten.KeyNumpad7}, dx: -1, dy: -1},
	{keys: []ebiten.Key{ebiten.KeyE, ebiten.KeyNumpad9}, dx: 1, dy: -1},
	{keys: []ebiten.Key{ebiten.KeyZ, ebiten.KeyNumpad1}, dx: -1, dy: 1},
	{keys: []ebiten.Key{ebiten.KeyC, ebiten.KeyNumpad3}, dx: 1, dy: 1},
}

// InputFacade gathers mouse clicks, touches and key presses each frame and
// turns them into taps on grid cells and single steps. Taps are queued with
// their arrival time and dropped once older than the buffer window.
type InputFacade struct {
	camera   *Camera
	bufferMs int64

	taps     []queuedTap
	touchIDs []ebiten.TouchID
	keys     []ebiten.Key
}

// NewInputFacade creates an input facade that converts through camera.
func NewInputFacade(camera *Camera, bufferMs int64) *InputFacade {
	return &InputFacade{camera: camera, bufferMs: bufferMs}
}

// Poll reads this frame's input state. It must be called from Update.
func (in *InputFacade) Poll(now int64) {
	in.pruneTaps(now)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.QueueTap(x, y, now)
	}

	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.QueueTap(x, y, now)
	}
}

// KeyActive reports whether any key went down this frame.
func (in *InputFacade) KeyActive() bool {
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	return len(in.keys) > 0
}

// QueueTap records a tap at screen pixel (x, y).
func (in *InputFacade) QueueTap(x, y int, now int64) {
	in.taps = append(in.taps, queuedTap{x: x, y: y, at: now})
}

// Pending returns how many taps are waiting.
func (in *InputFacade) Pending() int {
	return len(in.taps)
}

// consumeTap pops the oldest tap that lands on a cell of the view. Taps
// outside the view (on the HUD) are discarded.
func (in *InputFacade) consumeTap() (world.GridCoordinate, bool) {
	for len(in.taps) > 0 {
		tap := in.taps[0]
		in.taps = in.taps[1:]
		if cell, ok := in.camera.ToGrid(tap.x, tap.y); ok {
			return cell, true
		}
	}
	return world.GridCoordinate{}, false
}

func (in *InputFacade) pruneTaps(now int64) {
	if len(in.taps) == 0 {
		return
	}
	keep := in.taps[:0]
	for _, tap := range in.taps {
		if now-tap.at <= in.bufferMs {
			keep = append(keep, tap)
		}
	}
	in.taps = keep
}

// Dispatch hands at most one intent to cmd: a key step wins over a tap, and
// Escape cancels any walk in progress.
func (in *InputFacade) Dispatch(cmd Commander) error {
	return in.dispatch(cmd, inpututil.IsKeyJustPressed)
}

func (in *InputFacade) dispatch(cmd Commander, justPressed func(ebiten.Key) bool) error {
	if justPressed(ebiten.KeyEscape) {
		in.taps = in.taps[:0]
		cmd.Cancel()
		return nil
	}
	if dx, dy, ok := stepFromKeys(justPressed); ok {
		return cmd.Step(dx, dy)
	}
	if cell, ok := in.consumeTap(); ok {
		return cmd.Tap(cell)
	}
	return nil
}

func stepFromKeys(justPressed func(ebiten.Key) bool) (dx, dy int, ok bool) {
	for _, dir := range movementKeys {
		for _, k := range dir.keys {
			if justPressed(k) {
				return dir.dx, dir.dy, true
			}
		}
	}
	return 0, 0, false
}
