// Package loader loads Lua world content into Go structs at start-up.
// The Lua VM is discarded after loading; nothing runs Lua at play time.
package loader

import (
	"fmt"
	"image/color"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/antidote/types"
)

// rawFloor holds a floor table before compilation.
type rawFloor struct {
	id    int
	table *lua.LTable
	order int
}

// rawNamed holds a character or enemy table before compilation.
type rawNamed struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// ints returns the numeric array part of a table.
func ints(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	out := make([]int, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// stringList returns the string array part of a table field.
func stringList(tbl *lua.LTable, key string) []string {
	t := getTable(tbl, key)
	if t == nil {
		return nil
	}
	var out []string
	for i := 1; i <= t.Len(); i++ {
		if s, ok := t.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getPoint reads {x, y}.
func getPoint(tbl *lua.LTable, key string) (types.Point, bool) {
	xy := ints(getTable(tbl, key))
	if len(xy) != 2 {
		return types.Point{}, false
	}
	return types.Point{X: xy[0], Y: xy[1]}, true
}

// getRect reads a Rect(x, y, w, h) table.
func getRect(tbl *lua.LTable, key string) types.Rect {
	t := getTable(tbl, key)
	if t == nil {
		return types.Rect{}
	}
	return types.Rect{X: getInt(t, "x"), Y: getInt(t, "y"), W: getInt(t, "w"), H: getInt(t, "h")}
}

// getColor reads {r, g, b}; alpha is always opaque.
func getColor(tbl *lua.LTable, key string) color.RGBA {
	rgb := ints(getTable(tbl, key))
	if len(rgb) != 3 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: 255}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*types.Defs, error) {
	defs := &types.Defs{
		Floors:    map[int]types.FloorDef{},
		Enemies:   map[string]types.EnemyDef{},
		Dialogues: map[string]types.DialogueScript{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	// Floors, with the shop and NPC dialogue scripts they carry.
	for _, raw := range coll.floors {
		if _, dup := defs.Floors[raw.id]; dup {
			return nil, fmt.Errorf("floor %d defined twice", raw.id)
		}
		floor, scripts, err := compileFloor(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling floor %d: %w", raw.id, err)
		}
		defs.Floors[floor.ID] = floor
		for _, s := range scripts {
			if _, dup := defs.Dialogues[s.ID]; dup {
				return nil, fmt.Errorf("dialogue %q defined twice", s.ID)
			}
			defs.Dialogues[s.ID] = s
		}
	}

	// Characters keep declaration order; it is the selection order.
	sort.SliceStable(coll.characters, func(i, j int) bool {
		return coll.characters[i].order < coll.characters[j].order
	})
	for _, raw := range coll.characters {
		defs.Characters = append(defs.Characters, compileCharacter(raw))
	}

	// Enemies.
	for _, raw := range coll.enemies {
		if _, dup := defs.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("enemy %q defined twice", raw.id)
		}
		defs.Enemies[raw.id] = compileEnemy(raw)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	start := getInt(tbl, "start_floor")
	if start == 0 {
		start = 1
	}
	return types.GameDef{
		Title:      getString(tbl, "title"),
		Version:    getString(tbl, "version"),
		Intro:      getString(tbl, "intro"),
		StartFloor: start,
	}
}

// compileFloor compiles a raw floor. Placements are the positional
// entries of the floor table, kept in declaration order.
func compileFloor(raw rawFloor) (types.FloorDef, []types.DialogueScript, error) {
	tbl := raw.table
	floor := types.FloorDef{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Background: getColor(tbl, "background"),
		Encounters: stringList(tbl, "encounters"),
	}
	if floor.Name == "" {
		floor.Name = fmt.Sprintf("%dF", raw.id)
	}
	spawn, ok := getPoint(tbl, "spawn")
	if !ok {
		spawn = types.Point{X: types.ScreenWidth / 2, Y: types.ScreenHeight / 2}
	}
	floor.Spawn = spawn

	if walls := getTable(tbl, "walls"); walls != nil {
		for i := 1; i <= walls.Len(); i++ {
			if w, ok := walls.RawGetInt(i).(*lua.LTable); ok {
				floor.Walls = append(floor.Walls, types.Rect{
					X: getInt(w, "x"), Y: getInt(w, "y"), W: getInt(w, "w"), H: getInt(w, "h"),
				})
			}
		}
	}

	var scripts []types.DialogueScript
	for i := 1; i <= tbl.Len(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return floor, nil, fmt.Errorf("entry %d is not a table", i)
		}
		kind := getString(entry, keyKind)
		id := getString(entry, keyID)

		switch kind {
		case "shop", "npc":
			in := compileInteractable(kind, id, entry)
			floor.Interactables = append(floor.Interactables, in)
			scripts = append(scripts, compileScript(id, entry))
		case "stairs":
			floor.Interactables = append(floor.Interactables, compileInteractable(kind, id, entry))
		case "zone":
			floor.Zones = append(floor.Zones, types.CombatZone{
				ID:      id,
				Area:    getRect(entry, "area"),
				Enemies: stringList(entry, "enemies"),
			})
		case "item":
			floor.Items = append(floor.Items, compileItem(entry))
		default:
			return floor, nil, fmt.Errorf("entry %d has unknown kind %q", i, kind)
		}
	}
	return floor, scripts, nil
}

func compileInteractable(kind, id string, tbl *lua.LTable) types.Interactable {
	in := types.Interactable{
		ID:   id,
		Kind: types.InteractableKind(kind),
		Name: getString(tbl, "name"),
		Area: getRect(tbl, "area"),
	}
	switch in.Kind {
	case types.KindShop:
		sign := getString(tbl, "sign")
		if sign == "" {
			sign = id
		}
		in.Shop = &types.ShopInfo{Sign: sign}
	case types.KindNPC:
		in.NPC = &types.NPCInfo{Number: getInt(tbl, "number")}
	case types.KindStairs:
		landing, _ := getPoint(tbl, "landing")
		in.Stairs = &types.StairsInfo{
			Direction:   getString(tbl, "direction"),
			TargetFloor: getInt(tbl, "to"),
			Landing:     landing,
		}
	}
	return in
}

// compileScript builds the dialogue script carried by a shop or NPC.
func compileScript(id string, tbl *lua.LTable) types.DialogueScript {
	s := types.DialogueScript{
		ID:      id,
		Speaker: getString(tbl, "speaker"),
		Prompt:  getString(tbl, "prompt"),
	}
	opts := getTable(tbl, "options")
	if opts == nil {
		return s
	}
	for i := 1; i <= opts.Len(); i++ {
		o, ok := opts.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		s.Options = append(s.Options, types.DialogueOption{
			Text:     getString(o, "text"),
			Effect:   types.Effect(getString(o, "effect")),
			Info:     getString(o, "info"),
			Requires: compileConditions(getTable(o, "requires")),
		})
	}
	return s
}

// compileConditions compiles a Lua conditions array.
func compileConditions(tbl *lua.LTable) []types.Condition {
	if tbl == nil {
		return nil
	}
	var out []types.Condition
	for i := 1; i <= tbl.Len(); i++ {
		c, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		out = append(out, types.Condition{
			Type:  getString(c, "type"),
			Flag:  types.Flag(getString(c, "flag")),
			Item:  getString(c, "item"),
			Value: getInt(c, "value"),
		})
	}
	return out
}

func compileItem(tbl *lua.LTable) types.FloorItem {
	at, _ := getPoint(tbl, "at")
	return types.FloorItem{
		At: at,
		Item: types.Item{
			Name:        getString(tbl, "name"),
			Type:        types.ItemType(getString(tbl, "type")),
			Value:       getInt(tbl, "value"),
			Description: getString(tbl, "description"),
			Flag:        types.Flag(getString(tbl, "flag")),
			EXP:         getInt(tbl, "exp"),
		},
	}
}

func compileCharacter(raw rawNamed) types.CharacterProfile {
	tbl := raw.table
	return types.CharacterProfile{
		ID:      raw.id,
		Name:    getString(tbl, "name"),
		Speed:   getInt(tbl, "speed"),
		HP:      getInt(tbl, "hp"),
		Attack:  getInt(tbl, "attack"),
		Defense: getInt(tbl, "defense"),
		Color:   getColor(tbl, "color"),
	}
}

func compileEnemy(raw rawNamed) types.EnemyDef {
	tbl := raw.table
	return types.EnemyDef{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		HP:        getInt(tbl, "hp"),
		Attack:    getInt(tbl, "attack"),
		Defense:   getInt(tbl, "defense"),
		EXPReward: getInt(tbl, "exp"),
		Boss:      getBool(tbl, "boss", false),
	}
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
