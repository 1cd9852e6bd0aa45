package game

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"tilecraft/internal/events"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const maxHUDMessages = 3

var (
	hudBackground = color.RGBA{20, 20, 28, 255}
	hudText       = color.RGBA{230, 230, 230, 255}
	hudWarning    = color.RGBA{240, 90, 80, 255}
)

// HUD shows the latest stats_updated snapshot plus a few recent messages. It
// only learns about the game through its bus subscription.
type HUD struct {
	feed     <-chan events.Event
	stats    events.StatsPayload
	zone     string
	turn     int
	hasStats bool
	messages []string
}

// NewHUD creates a HUD reading from feed.
func NewHUD(feed <-chan events.Event) *HUD {
	return &HUD{feed: feed}
}

// Update drains pending events without blocking.
func (h *HUD) Update() {
	for {
		select {
		case ev, ok := <-h.feed:
			if !ok {
				return
			}
			h.apply(ev)
		default:
			return
		}
	}
}

func (h *HUD) apply(ev events.Event) {
	switch p := ev.Payload.(type) {
	case events.StatsPayload:
		h.stats = p
		h.zone = ev.Zone
		h.turn = ev.Turn
		h.hasStats = true
	case events.TerrainPayload:
		msg := fmt.Sprintf("%s: %s -> %s", p.Action, p.From, p.To)
		if p.Yield != "" {
			msg += " (+" + p.Yield + ")"
		}
		h.push(msg)
	case events.ItemPayload:
		if p.Ability != "" {
			h.push(fmt.Sprintf("picked up %s, can now use %s", p.Name, p.Ability))
		} else {
			h.push("picked up " + p.Name)
		}
	case events.HurtPayload:
		h.push(fmt.Sprintf("%s hits for %d", p.Source, p.Amount))
	case events.ZonePayload:
		h.push(fmt.Sprintf("entered %s", p.To))
	}
}

func (h *HUD) push(msg string) {
	h.messages = append(h.messages, msg)
	if len(h.messages) > maxHUDMessages {
		h.messages = h.messages[len(h.messages)-maxHUDMessages:]
	}
}

// Lines returns the HUD text, one entry per row.
func (h *HUD) Lines() []string {
	if !h.hasStats {
		return append([]string{"waiting for stats..."}, h.messages...)
	}
	s := h.stats

	tools := "none"
	if len(s.Abilities) > 0 {
		tools = strings.Join(s.Abilities, ", ")
	}

	keys := make([]string, 0, len(s.Inventory))
	for k := range s.Inventory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	bag := make([]string, 0, len(keys))
	for _, k := range keys {
		bag = append(bag, fmt.Sprintf("%s x%d", k, s.Inventory[k]))
	}
	inventory := "empty"
	if len(bag) > 0 {
		inventory = strings.Join(bag, ", ")
	}

	lines := []string{
		fmt.Sprintf("HP %d/%d  zone %s  turn %d  pos %s", s.HitPoints, s.MaxHitPoints, h.zone, h.turn, s.Pos),
		fmt.Sprintf("tools: %s  chopped %d  broken %d  enemies %d", tools, s.Chopped, s.Broken, s.Enemies),
		"bag: " + inventory,
	}
	return append(lines, h.messages...)
}

// Dead reports whether the last snapshot shows the player out of hit points.
func (h *HUD) Dead() bool {
	return h.hasStats && h.stats.HitPoints <= 0
}

// Draw renders the HUD across the top height pixels of screen.
func (h *HUD) Draw(screen *ebiten.Image, height int) {
	w := screen.Bounds().Dx()
	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(height), hudBackground, false)

	face := basicfont.Face7x13
	y := face.Ascent + 4
	for _, line := range h.Lines() {
		if y > height {
			break
		}
		ebitext.Draw(screen, line, face, 6, y, hudText)
		y += face.Height + 2
	}

	if h.Dead() {
		msg := "You died. Close the window to quit."
		ebitext.Draw(screen, msg, face, w-len(msg)*7-8, face.Ascent+4, hudWarning)
	}
}
