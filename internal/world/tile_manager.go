package world

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"tilecraft/internal/config"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tiles.schema.json
var tilesSchemaJSON string

var tilesSchema = jsonschema.MustCompileString("tiles.schema.json", tilesSchemaJSON)

// TileManager holds the tile table loaded from tiles.yaml and answers every
// per-tile question the game asks: walkability, tool interaction, and what a tile
// turns into once it has been acted upon.
type TileManager struct {
	tileData        map[string]*config.TileData
	typeToKey       map[TileType]string
	keyToType       map[string]TileType
	letterToType    map[string]TileType
	typeToLetter    map[TileType]string
	nextDynamicType TileType
}

// NewTileManager creates an empty tile manager.
func NewTileManager() *TileManager {
	return &TileManager{
		tileData:        make(map[string]*config.TileData),
		typeToKey:       make(map[TileType]string),
		keyToType:       make(map[string]TileType),
		letterToType:    make(map[string]TileType),
		typeToLetter:    make(map[TileType]string),
		nextDynamicType: dynamicTileBase,
	}
}

// LoadTileConfig loads and validates the tile table from a YAML file.
func (tm *TileManager) LoadTileConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read tile config file: %w", err)
	}
	if err := tm.LoadTileData(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// LoadTileData validates raw YAML against the tile schema and installs it.
func (tm *TileManager) LoadTileData(data []byte) error {
	if err := validateTileDocument(data); err != nil {
		return err
	}

	var tileConfig config.TileConfig
	if err := yaml.Unmarshal(data, &tileConfig); err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}
	return tm.SetTileData(tileConfig.TileData)
}

// SetTileData replaces the tile table and rebuilds the type and letter mappings.
func (tm *TileManager) SetTileData(tiles map[string]config.TileData) error {
	tm.tileData = make(map[string]*config.TileData, len(tiles))
	for key, tileData := range tiles {
		tileCopy := tileData
		tm.tileData[key] = &tileCopy
	}

	tm.createTypeMapping()
	tm.createLetterMappings()
	return tm.Validate()
}

// validateTileDocument round-trips YAML through JSON so the schema sees plain
// JSON values.
func validateTileDocument(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tile config is not representable as JSON: %w", err)
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("tile config is not representable as JSON: %w", err)
	}
	if err := tilesSchema.Validate(v); err != nil {
		return fmt.Errorf("tile config failed schema validation: %w", err)
	}
	return nil
}

// createTypeMapping binds the core TileType constants to their config keys and
// gives every other key a dynamic type.
func (tm *TileManager) createTypeMapping() {
	coreMapping := map[TileType]string{
		TileFloor:  "floor",
		TileWall:   "wall",
		TileTree:   "tree",
		TileRock:   "rock",
		TileStump:  "stump",
		TileRubble: "rubble",
		TileWater:  "water",
		TileSpawn:  "spawn",
	}

	tm.typeToKey = make(map[TileType]string)
	tm.keyToType = make(map[string]TileType)
	tm.nextDynamicType = dynamicTileBase

	for tileType, key := range coreMapping {
		if _, exists := tm.tileData[key]; exists {
			tm.typeToKey[tileType] = key
			tm.keyToType[key] = tileType
		}
	}

	// Sorted so dynamic ids are stable between runs.
	keys := tm.GetAllTileKeys()
	for _, key := range keys {
		if _, alreadyMapped := tm.keyToType[key]; !alreadyMapped {
			tm.typeToKey[tm.nextDynamicType] = key
			tm.keyToType[key] = tm.nextDynamicType
			tm.nextDynamicType++
		}
	}
}

func (tm *TileManager) createLetterMappings() {
	tm.letterToType = make(map[string]TileType)
	tm.typeToLetter = make(map[TileType]string)

	for tileType, key := range tm.typeToKey {
		if data, ok := tm.tileData[key]; ok && data.Letter != "" {
			tm.letterToType[data.Letter] = tileType
			tm.typeToLetter[tileType] = data.Letter
		}
	}
}

// Validate checks the cross references the schema cannot express.
func (tm *TileManager) Validate() error {
	letters := make(map[string]string)
	for _, key := range tm.GetAllTileKeys() {
		data := tm.tileData[key]
		if data.Letter != "" {
			if other, dup := letters[data.Letter]; dup {
				return fmt.Errorf("tiles %q and %q share letter %q", other, key, data.Letter)
			}
			letters[data.Letter] = key
		}

		switch Interaction(data.Interaction) {
		case InteractionNone:
			if data.Becomes != "" {
				return fmt.Errorf("tile %q declares becomes without an interaction", key)
			}
		case InteractionChop, InteractionBreak:
			if data.Becomes == "" {
				return fmt.Errorf("tile %q has interaction %q but no becomes", key, data.Interaction)
			}
			if _, ok := tm.tileData[data.Becomes]; !ok {
				return fmt.Errorf("tile %q becomes unknown tile %q", key, data.Becomes)
			}
			if data.Becomes == key {
				return fmt.Errorf("tile %q becomes itself", key)
			}
		default:
			return fmt.Errorf("tile %q has unknown interaction %q", key, data.Interaction)
		}
	}
	return nil
}

// GetTileData returns the configuration for a tile type, or nil if unknown.
func (tm *TileManager) GetTileData(tileType TileType) *config.TileData {
	key, ok := tm.typeToKey[tileType]
	if !ok {
		return nil
	}
	return tm.tileData[key]
}

// GetTileKey returns the config key of a tile type.
func (tm *TileManager) GetTileKey(tileType TileType) (string, bool) {
	key, ok := tm.typeToKey[tileType]
	return key, ok
}

// GetTileTypeFromKey returns the tile type registered under key.
func (tm *TileManager) GetTileTypeFromKey(key string) (TileType, bool) {
	tileType, ok := tm.keyToType[key]
	return tileType, ok
}

// GetTileTypeFromLetter returns the tile type drawn with letter in map files.
func (tm *TileManager) GetTileTypeFromLetter(letter string) (TileType, bool) {
	tileType, ok := tm.letterToType[letter]
	return tileType, ok
}

// GetLetterFromTileType returns the map letter for a tile type.
func (tm *TileManager) GetLetterFromTileType(tileType TileType) (string, bool) {
	letter, ok := tm.typeToLetter[tileType]
	return letter, ok
}

// GetAllTileKeys returns every configured key in sorted order.
func (tm *TileManager) GetAllTileKeys() []string {
	keys := make([]string, 0, len(tm.tileData))
	for key := range tm.tileData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsWalkable reports whether a tile can be entered. Unknown tiles are walkable.
func (tm *TileManager) IsWalkable(tileType TileType) bool {
	data := tm.GetTileData(tileType)
	if data == nil {
		return true
	}
	return data.Walkable
}

// InteractionOf returns the tool interaction a tile accepts.
func (tm *TileManager) InteractionOf(tileType TileType) Interaction {
	data := tm.GetTileData(tileType)
	if data == nil {
		return InteractionNone
	}
	return Interaction(data.Interaction)
}

// IsChoppable reports whether a tile can be chopped with an axe.
func (tm *TileManager) IsChoppable(tileType TileType) bool {
	return tm.InteractionOf(tileType) == InteractionChop
}

// IsBreakable reports whether a tile can be broken with a hammer.
func (tm *TileManager) IsBreakable(tileType TileType) bool {
	return tm.InteractionOf(tileType) == InteractionBreak
}

// ResultOf returns the tile left behind after acting on tileType.
func (tm *TileManager) ResultOf(tileType TileType) (TileType, bool) {
	data := tm.GetTileData(tileType)
	if data == nil || data.Becomes == "" {
		return tileType, false
	}
	return tm.GetTileTypeFromKey(data.Becomes)
}

// YieldOf returns the item key dropped when acting on tileType, or "".
func (tm *TileManager) YieldOf(tileType TileType) string {
	data := tm.GetTileData(tileType)
	if data == nil {
		return ""
	}
	return data.Yield
}

// GetColor returns the top-down render color for a tile type.
func (tm *TileManager) GetColor(tileType TileType) [3]int {
	data := tm.GetTileData(tileType)
	if data == nil {
		return [3]int{60, 180, 60}
	}
	return data.Color
}

// GetName returns the display name of a tile type.
func (tm *TileManager) GetName(tileType TileType) string {
	data := tm.GetTileData(tileType)
	if data == nil {
		return "unknown"
	}
	return data.Name
}
