package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"tilecraft/pkg/logger"
)

// EnemySpawn is an enemy letter found in a map file. Resolving the letter to an
// enemy definition is left to the caller.
type EnemySpawn struct {
	X, Y   int
	Letter string
}

// ItemSpawn is a ground item declared with a trailing >[item:key] definition.
type ItemSpawn struct {
	X, Y    int
	ItemKey string
}

// MapData contains the loaded map information.
type MapData struct {
	Width       int
	Height      int
	Tiles       [][]TileType
	EnemySpawns []EnemySpawn
	ItemSpawns  []ItemSpawn
	StartX      int
	StartY      int
}

// MapLoader parses text zone maps. Lines starting with "# " are comments. One
// character is one tile; '+' marks the player start, lowercase letters that are
// not tile letters are enemy spawns and '@' is a placeholder filled by the
// definitions after "  >" at the end of the line.
type MapLoader struct {
	tiles *TileManager
}

// NewMapLoader creates a map loader resolving letters through tm.
func NewMapLoader(tm *TileManager) *MapLoader {
	return &MapLoader{tiles: tm}
}

// LoadMap loads a map from the specified file path.
func (ml *MapLoader) LoadMap(mapPath string) (*MapData, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	mapData, err := ml.ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mapPath, err)
	}
	return mapData, nil
}

// ParseMap reads a map from r.
func (ml *MapLoader) ParseMap(r io.Reader) (*MapData, error) {
	log := logger.Component("map_loader")

	var lines [][]rune
	var itemSpawns []ItemSpawn
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}

		parsedLine, lineItems := ml.parseTileTokens(line, len(lines))
		itemSpawns = append(itemSpawns, lineItems...)
		lines = append(lines, []rune(parsedLine))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data")
	}

	height := len(lines)
	width := len(lines[0])
	for i, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("line %d has inconsistent width: expected %d, got %d", i+1, width, len(line))
		}
	}

	mapData := &MapData{
		Width:      width,
		Height:     height,
		Tiles:      make([][]TileType, height),
		ItemSpawns: itemSpawns,
		StartX:     -1,
		StartY:     -1,
	}

	for y, line := range lines {
		mapData.Tiles[y] = make([]TileType, width)
		for x, char := range line {
			tileType, enemyLetter, isStart := ml.parseMapCharacter(char)
			mapData.Tiles[y][x] = tileType

			if isStart {
				mapData.StartX = x
				mapData.StartY = y
			}
			if enemyLetter != "" {
				mapData.EnemySpawns = append(mapData.EnemySpawns, EnemySpawn{X: x, Y: y, Letter: enemyLetter})
			}
		}
	}

	if mapData.StartX < 0 {
		return nil, fmt.Errorf("map has no start marker '+'")
	}

	log.Debugf("parsed %dx%d map with %d enemies and %d items",
		width, height, len(mapData.EnemySpawns), len(mapData.ItemSpawns))
	return mapData, nil
}

// parseMapCharacter converts a map character to a tile type, an optional enemy
// letter and whether it is the start marker.
func (ml *MapLoader) parseMapCharacter(char rune) (TileType, string, bool) {
	if char == '+' {
		return TileSpawn, "", true
	}

	if ml.tiles != nil {
		if tileType, found := ml.tiles.GetTileTypeFromLetter(string(char)); found {
			return tileType, "", false
		}
	}

	// Enemies stand on floor.
	if unicode.IsLower(char) {
		return TileFloor, string(char), false
	}

	return TileFloor, "", false
}

// parseTileTokens splits a raw line into its tile part and the item definitions
// that follow "  >". Each [item:key] definition is assigned to the next '@' in
// the tile part; the '@' itself becomes floor.
func (ml *MapLoader) parseTileTokens(line string, lineY int) (string, []ItemSpawn) {
	tilesPart := line
	definitions := ""
	if sepIndex := strings.Index(line, "  >"); sepIndex != -1 {
		tilesPart = line[:sepIndex]
		definitions = line[sepIndex+2:]
	}

	var atPositions []int
	for pos, char := range []rune(tilesPart) {
		if char == '@' {
			atPositions = append(atPositions, pos)
		}
	}

	var spawns []ItemSpawn
	next := 0
	for _, def := range strings.Split(definitions, ",") {
		clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(def), ">"))
		if !strings.HasPrefix(clean, "[item:") || !strings.HasSuffix(clean, "]") {
			continue
		}
		if next >= len(atPositions) {
			break
		}
		key := strings.TrimSuffix(strings.TrimPrefix(clean, "[item:"), "]")
		spawns = append(spawns, ItemSpawn{X: atPositions[next], Y: lineY, ItemKey: key})
		next++
	}

	floor := "."
	if ml.tiles != nil {
		if letter, ok := ml.tiles.GetLetterFromTileType(TileFloor); ok {
			floor = letter
		}
	}
	return strings.ReplaceAll(tilesPart, "@", floor), spawns
}
