package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all game configuration values
type Config struct {
	Display       DisplayConfig              `yaml:"display"`
	World         WorldConfig                `yaml:"world"`
	Input         InputConfig                `yaml:"input"`
	Turns         TurnConfig                 `yaml:"turns"`
	Player        PlayerConfig               `yaml:"player"`
	Zones         ZonesConfig                `yaml:"zones"`
	Notifications NotificationConfig         `yaml:"notifications"`
	Journal       JournalConfig              `yaml:"journal"`
	Spectator     SpectatorConfig            `yaml:"spectator"`
	Enemies       map[string]EnemyDefinition `yaml:"enemies"`
	Items         map[string]ItemDefinition  `yaml:"items"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	HUDHeight    int    `yaml:"hud_height"`
}

type WorldConfig struct {
	TileSize   int    `yaml:"tile_size"`
	ZoneWidth  int    `yaml:"zone_width"`
	ZoneHeight int    `yaml:"zone_height"`
	TilesFile  string `yaml:"tiles_file"`
}

type InputConfig struct {
	TapBufferMs        int64 `yaml:"tap_buffer_ms"`
	StepIntervalFrames int   `yaml:"step_interval_frames"`
	MaxPathLength      int   `yaml:"max_path_length"`
}

type TurnConfig struct {
	EnemyVisionRadius int `yaml:"enemy_vision_radius"`
	ContactDamage     int `yaml:"contact_damage"`
}

type PlayerConfig struct {
	MaxHitPoints      int      `yaml:"max_hit_points"`
	StartingAbilities []string `yaml:"starting_abilities"`
	Color             [3]int   `yaml:"color"`
}

type ZonesConfig struct {
	File      string `yaml:"file"`
	StartZone string `yaml:"start_zone"`
	MapsDir   string `yaml:"maps_dir"`
}

type NotificationConfig struct {
	SubscriberBuffer int `yaml:"subscriber_buffer"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

type SpectatorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// EnemyDefinition describes an enemy type placed on maps by its letter
type EnemyDefinition struct {
	Name         string `yaml:"name"`
	Letter       string `yaml:"letter"`
	MaxHitPoints int    `yaml:"max_hit_points"`
	Damage       int    `yaml:"damage"`
	VisionRadius int    `yaml:"vision_radius"`
	Color        [3]int `yaml:"color"`
}

// ItemDefinition describes a ground item and the ability it grants when picked up
type ItemDefinition struct {
	Name   string `yaml:"name"`
	Grants string `yaml:"grants,omitempty"`
	Color  [3]int `yaml:"color"`
}

type TileConfig struct {
	TileData map[string]TileData `yaml:"tiles"`
}

// TileData is one entry of the tile table.
// Interaction is "chop", "break" or empty; a tile never has more than one.
type TileData struct {
	Name        string `yaml:"name" json:"name"`
	Letter      string `yaml:"letter" json:"letter"`
	Walkable    bool   `yaml:"walkable" json:"walkable"`
	Interaction string `yaml:"interaction,omitempty" json:"interaction,omitempty"`
	Becomes     string `yaml:"becomes,omitempty" json:"becomes,omitempty"`
	Yield       string `yaml:"yield,omitempty" json:"yield,omitempty"`
	Color       [3]int `yaml:"color" json:"color"`
}

type ZoneConfig struct {
	Name       string `yaml:"name"`
	File       string `yaml:"file"`
	X          int    `yaml:"x"`
	Y          int    `yaml:"y"`
	FloorColor [3]int `yaml:"floor_color"`
}

type ZoneConfigs struct {
	Zones map[string]ZoneConfig `yaml:"zones"`
}

var GlobalConfig *Config

// LoadConfig loads the configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	GlobalConfig = cfg
	return cfg, nil
}

// ParseConfig decodes a YAML document into a Config
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func (c *Config) GetScreenWidth() int {
	if c.Display.ScreenWidth <= 0 {
		return 960
	}
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	if c.Display.ScreenHeight <= 0 {
		return 720
	}
	return c.Display.ScreenHeight
}

func (c *Config) GetHUDHeight() int {
	if c.Display.HUDHeight <= 0 {
		return 48
	}
	return c.Display.HUDHeight
}

func (c *Config) GetTileSize() int {
	if c.World.TileSize <= 0 {
		return 32
	}
	return c.World.TileSize
}

func (c *Config) GetTilesFile() string {
	if c.World.TilesFile == "" {
		return "assets/tiles.yaml"
	}
	return c.World.TilesFile
}

func (c *Config) GetZonesFile() string {
	if c.Zones.File == "" {
		return "assets/zones.yaml"
	}
	return c.Zones.File
}

func (c *Config) GetMapsDir() string {
	if c.Zones.MapsDir == "" {
		return "assets/maps"
	}
	return c.Zones.MapsDir
}

// GetTapBufferMs returns how long an unhandled tap stays queued
func (c *Config) GetTapBufferMs() int64 {
	if c.Input.TapBufferMs <= 0 {
		return 400
	}
	return c.Input.TapBufferMs
}

// GetStepIntervalFrames returns the frames between two queued path steps (60fps)
func (c *Config) GetStepIntervalFrames() int {
	if c.Input.StepIntervalFrames <= 0 {
		return 8
	}
	return c.Input.StepIntervalFrames
}

func (c *Config) GetMaxPathLength() int {
	if c.Input.MaxPathLength <= 0 {
		return 256
	}
	return c.Input.MaxPathLength
}

func (c *Config) GetEnemyVisionRadius() int {
	if c.Turns.EnemyVisionRadius <= 0 {
		return 6
	}
	return c.Turns.EnemyVisionRadius
}

func (c *Config) GetContactDamage() int {
	if c.Turns.ContactDamage < 0 {
		return 0
	}
	return c.Turns.ContactDamage
}

func (c *Config) GetPlayerMaxHitPoints() int {
	if c.Player.MaxHitPoints <= 0 {
		return 20
	}
	return c.Player.MaxHitPoints
}

func (c *Config) GetSubscriberBuffer() int {
	if c.Notifications.SubscriberBuffer <= 0 {
		return 64
	}
	return c.Notifications.SubscriberBuffer
}

func (c *Config) GetSpectatorAddr() string {
	if c.Spectator.Addr == "" {
		return "127.0.0.1:8787"
	}
	return c.Spectator.Addr
}

func (c *Config) GetJournalDir() string {
	if c.Journal.Dir == "" {
		return "journal"
	}
	return c.Journal.Dir
}

func (c *Config) GetJournalPrefix() string {
	if c.Journal.Prefix == "" {
		return "session"
	}
	return c.Journal.Prefix
}
