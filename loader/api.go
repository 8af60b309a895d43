package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Marker keys set on tables built by the nested constructors.
const (
	keyKind = "__kind"
	keyID   = "__id"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerPlacements(L)
	registerConditionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start_floor = 1, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Floor(1) { ... } is curried: Floor(n) returns a function that takes a table.
	L.SetGlobal("Floor", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.floors = append(coll.floors, rawFloor{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Character "id" { ... }
	L.SetGlobal("Character", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.characters = append(coll.characters, rawNamed{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Enemy "id" { ... }
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.enemies = append(coll.enemies, rawNamed{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))
}

// registerPlacements registers the constructors used inside a Floor
// table. Each returns its table tagged with a kind and id.
func registerPlacements(L *lua.LState) {
	for _, kind := range []string{"Shop", "NPC", "Stairs", "Zone"} {
		L.SetGlobal(kind, L.NewFunction(tagged(placementKinds[kind])))
	}

	// Item { name = "...", at = {x, y}, ... }. Items have no id; their
	// identity is derived from the floor and position.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString(keyKind, lua.LString("item"))
		L.Push(tbl)
		return 1
	}))

	// Rect(x, y, w, h)
	L.SetGlobal("Rect", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("x", L.CheckNumber(1))
		tbl.RawSetString("y", L.CheckNumber(2))
		tbl.RawSetString("w", L.CheckNumber(3))
		tbl.RawSetString("h", L.CheckNumber(4))
		L.Push(tbl)
		return 1
	}))

	// Option("text", "effect" [, { info = "...", requires = {...} }])
	L.SetGlobal("Option", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		effect := L.CheckString(2)
		tbl := L.OptTable(3, L.NewTable())
		tbl.RawSetString("text", lua.LString(text))
		tbl.RawSetString("effect", lua.LString(effect))
		L.Push(tbl)
		return 1
	}))
}

var placementKinds = map[string]string{
	"Shop":   "shop",
	"NPC":    "npc",
	"Stairs": "stairs",
	"Zone":   "zone",
}

// tagged builds a curried constructor: Kind "id" { ... }.
func tagged(kind string) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString(keyKind, lua.LString(kind))
			tbl.RawSetString(keyID, lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}
}

func registerConditionHelpers(L *lua.LState) {
	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "flag", "flag", L.CheckString(1)))
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "not_flag", "flag", L.CheckString(1)))
		return 1
	}))

	// HasItem("name")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "has_item", "item", L.CheckString(1)))
		return 1
	}))

	// NoItem("name")
	L.SetGlobal("NoItem", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "no_item", "item", L.CheckString(1)))
		return 1
	}))

	// MinLevel(n)
	L.SetGlobal("MinLevel", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("min_level"))
		tbl.RawSetString("value", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))
}

func condition(L *lua.LState, typ, key, value string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	tbl.RawSetString(key, lua.LString(value))
	return tbl
}
