package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"tilecraft/internal/config"
	"tilecraft/internal/mathutil"
	"tilecraft/pkg/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrNoZone is returned when a transition targets a zone grid cell with no zone.
var ErrNoZone = errors.New("no zone at zone coordinates")

type zoneCoords struct{ x, y int }

// WorldManager owns every loaded zone and the current one.
type WorldManager struct {
	CurrentZoneKey       string
	LoadedZones          map[string]*Zone
	ZoneConfigs          map[string]*config.ZoneConfig
	TransitionInProgress bool

	tiles    *TileManager
	mapsDir  string
	byCoords map[zoneCoords]string
	occupied OccupancyFunc
	log      *logrus.Entry
}

// NewWorldManager creates a world manager reading map files from mapsDir.
func NewWorldManager(tm *TileManager, mapsDir string) *WorldManager {
	return &WorldManager{
		LoadedZones: make(map[string]*Zone),
		ZoneConfigs: make(map[string]*config.ZoneConfig),
		tiles:       tm,
		mapsDir:     mapsDir,
		byCoords:    make(map[zoneCoords]string),
		log:         logger.Component("world"),
	}
}

// Tiles returns the tile table shared by every zone.
func (wm *WorldManager) Tiles() *TileManager {
	return wm.tiles
}

// LoadZoneConfigs loads the zone layout from zones.yaml.
func (wm *WorldManager) LoadZoneConfigs(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read zone configs file: %w", err)
	}

	var zoneConfigs config.ZoneConfigs
	if err := yaml.Unmarshal(data, &zoneConfigs); err != nil {
		return fmt.Errorf("failed to parse zone configs: %w", err)
	}

	wm.ZoneConfigs = make(map[string]*config.ZoneConfig)
	for key, zoneConfig := range zoneConfigs.Zones {
		configCopy := zoneConfig
		wm.ZoneConfigs[key] = &configCopy
	}

	wm.log.WithField("zones", len(wm.ZoneConfigs)).Info("loaded zone configurations")
	return nil
}

// LoadAllZones loads every configured zone and selects startKey as current.
// Zones that fail to load are skipped with a warning; the start zone must load.
func (wm *WorldManager) LoadAllZones(startKey string) error {
	keys := make([]string, 0, len(wm.ZoneConfigs))
	for key := range wm.ZoneConfigs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loader := NewMapLoader(wm.tiles)
	for _, key := range keys {
		zoneConfig := wm.ZoneConfigs[key]
		mapData, err := loader.LoadMap(filepath.Join(wm.mapsDir, zoneConfig.File))
		if err != nil {
			wm.log.WithError(err).WithField("zone", key).Warn("failed to load zone")
			continue
		}
		zone := NewZone(key, zoneConfig.X, zoneConfig.Y, mapData, wm.tiles)
		zone.Name = zoneConfig.Name
		if err := wm.AddZone(zone); err != nil {
			wm.log.WithError(err).WithField("zone", key).Warn("failed to register zone")
		}
	}

	if _, exists := wm.LoadedZones[startKey]; !exists {
		return fmt.Errorf("failed to load start zone: %s", startKey)
	}
	wm.CurrentZoneKey = startKey
	wm.log.WithField("zones", len(wm.LoadedZones)).Info("world manager initialized")
	return nil
}

// AddZone registers a zone. Two zones cannot share zone coordinates.
func (wm *WorldManager) AddZone(zone *Zone) error {
	c := zoneCoords{zone.ZX, zone.ZY}
	if other, taken := wm.byCoords[c]; taken && other != zone.Key {
		return fmt.Errorf("zone %q overlaps %q at (%d,%d)", zone.Key, other, zone.ZX, zone.ZY)
	}
	wm.LoadedZones[zone.Key] = zone
	wm.byCoords[c] = zone.Key
	if wm.CurrentZoneKey == "" {
		wm.CurrentZoneKey = zone.Key
	}
	return nil
}

// CurrentZone returns the zone the player is in.
func (wm *WorldManager) CurrentZone() *Zone {
	return wm.LoadedZones[wm.CurrentZoneKey]
}

// ZoneAt returns the zone placed at zone grid coordinates (zx, zy).
func (wm *WorldManager) ZoneAt(zx, zy int) (*Zone, bool) {
	key, ok := wm.byCoords[zoneCoords{zx, zy}]
	if !ok {
		return nil, false
	}
	return wm.LoadedZones[key], true
}

// SwitchToZone makes key the current zone.
func (wm *WorldManager) SwitchToZone(key string) error {
	if _, exists := wm.LoadedZones[key]; !exists {
		return fmt.Errorf("zone not loaded: %s", key)
	}
	wm.CurrentZoneKey = key
	return nil
}

// OccupancyFunc reports whether something already stands on c in the zone
// with the given key.
type OccupancyFunc func(zoneKey string, c GridCoordinate) bool

// SetOccupancy makes entry points avoid cells fn reports as taken.
func (wm *WorldManager) SetOccupancy(fn OccupancyFunc) {
	wm.occupied = fn
}

// EntryPoint returns where a player leaving through exit enters zone. The cell
// sits on the opposite edge, aligned with anchor, and falls back to the nearest
// free walkable cell and then the zone start.
func (wm *WorldManager) EntryPoint(zone *Zone, exit Side, anchor GridCoordinate) GridCoordinate {
	entry := GridCoordinate{
		X: mathutil.IntClamp(anchor.X, 0, zone.Width-1),
		Y: mathutil.IntClamp(anchor.Y, 0, zone.Height-1),
	}
	switch exit {
	case East:
		entry.X = 0
	case West:
		entry.X = zone.Width - 1
	case North:
		entry.Y = zone.Height - 1
	case South:
		entry.Y = 0
	}

	var skip func(GridCoordinate) bool
	if wm.occupied != nil {
		skip = func(c GridCoordinate) bool { return wm.occupied(zone.Key, c) }
	}
	if c, ok := zone.NearestWalkable(entry, mathutil.IntMax(zone.Width, zone.Height), skip); ok {
		return c
	}
	return zone.Start()
}

// TransitionToZone moves the current zone to the one at (zx, zy) and returns the
// player's entry cell there.
func (wm *WorldManager) TransitionToZone(zx, zy int, exit Side, anchor GridCoordinate) (GridCoordinate, error) {
	zone, ok := wm.ZoneAt(zx, zy)
	if !ok {
		return GridCoordinate{}, fmt.Errorf("%w: (%d,%d)", ErrNoZone, zx, zy)
	}

	wm.TransitionInProgress = true
	defer func() { wm.TransitionInProgress = false }()

	from := wm.CurrentZoneKey
	wm.CurrentZoneKey = zone.Key
	entry := wm.EntryPoint(zone, exit, anchor)

	wm.log.WithFields(logrus.Fields{
		"from":  from,
		"to":    zone.Key,
		"exit":  exit.String(),
		"entry": entry.String(),
	}).Info("zone transition")
	return entry, nil
}
