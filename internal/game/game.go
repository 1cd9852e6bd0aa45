// Package game runs the ebiten window: it polls input, paces queued walks and
// draws the zone with a HUD.
package game

import (
	"image/color"
	"time"

	"tilecraft/internal/config"
	"tilecraft/internal/control"
	"tilecraft/internal/events"
	"tilecraft/internal/monitoring"
	"tilecraft/internal/session"
	"tilecraft/internal/world"
	"tilecraft/pkg/logger"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

const (
	hudSubscriber    = "hud"
	alertEveryFrames = 600
)

var backgroundColor = color.RGBA{10, 10, 14, 255}

// Game implements ebiten.Game.
type Game struct {
	config     *config.Config
	session    *session.Session
	controller *control.Controller

	camera   *Camera
	input    *InputFacade
	renderer *Renderer
	hud      *HUD
	perf     *monitoring.PerformanceMonitor

	done         <-chan struct{}
	frame        int
	stepInterval int
	now          func() int64
	log          *logrus.Entry
}

// NewGame wires presentation around a session and its controller. The HUD
// subscribes to bus and is primed with the starting stats.
func NewGame(cfg *config.Config, s *session.Session, ctrl *control.Controller, bus *events.Bus) *Game {
	hudHeight := cfg.GetHUDHeight()
	camera := NewCamera(cfg.GetTileSize(), hudHeight, cfg.GetScreenWidth(), cfg.GetScreenHeight()-hudHeight)

	g := &Game{
		config:       cfg,
		session:      s,
		controller:   ctrl,
		camera:       camera,
		input:        NewInputFacade(camera, cfg.GetTapBufferMs()),
		renderer:     NewRenderer(camera, cfg.Player.Color),
		hud:          NewHUD(bus.Subscribe(hudSubscriber, cfg.GetSubscriberBuffer())),
		stepInterval: cfg.GetStepIntervalFrames(),
		now:          func() int64 { return time.Now().UnixMilli() },
		perf:         monitoring.NewPerformanceMonitor(),
		log:          logger.Component("game"),
	}
	s.PublishStats()
	return g
}

// SetMonitor replaces the frame and turn monitor. A nil monitor is ignored.
func (g *Game) SetMonitor(pm *monitoring.PerformanceMonitor) {
	if pm == nil {
		return
	}
	g.perf = pm
}

// Monitor returns the frame and turn monitor.
func (g *Game) Monitor() *monitoring.PerformanceMonitor {
	return g.perf
}

// StopWhen makes Update end the game once done is closed.
func (g *Game) StopWhen(done <-chan struct{}) {
	g.done = done
}

// Update handles input and advances any queued walk for one frame.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	frameTimer := g.perf.StartFrame()
	defer frameTimer.EndFrame()

	g.frame++
	if zone := g.session.CurrentZone(); zone != nil {
		g.camera.Follow(g.session.Player.Pos, zone.Width, zone.Height)
	}

	g.input.Poll(g.now())
	if g.input.Pending() > 0 || g.input.KeyActive() {
		g.perf.ProfiledFunction(monitoring.SectionTurn, func() {
			if err := g.input.Dispatch(g.controller); err != nil {
				g.log.WithError(err).Warn("input rejected")
			}
		})
	}

	if g.controller.Busy() && g.frame%g.stepInterval == 0 {
		g.perf.ProfiledFunction(monitoring.SectionTurn, func() {
			if err := g.controller.Tick(); err != nil {
				g.log.WithError(err).Warn("queued step failed")
			}
		})
	}

	if g.frame%alertEveryFrames == 0 {
		for _, alert := range g.perf.CheckPerformanceAlerts() {
			g.log.WithFields(logrus.Fields{"alert": alert.Type, "value": alert.Value}).Warn(alert.Message)
		}
	}

	g.hud.Update()
	return nil
}

// Draw renders the zone under the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	var target *world.GridCoordinate
	if t, ok := g.controller.Target(); ok {
		target = &t
	}
	g.renderer.Draw(screen, g.session, g.controller.Path(), target)
	g.hud.Draw(screen, g.config.GetHUDHeight())
}

// Layout returns the configured logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}
