// Package types defines the shared data structures for the Antidote engine.
// Apart from small value helpers (geometry, enum names) it holds no logic.
package types

import (
	"image/color"
)

// Logical screen and play-field geometry in pixels.
const (
	ScreenWidth  = 1024
	ScreenHeight = 768
	TileSize     = 32

	FieldMinX = 32
	FieldMinY = 32
	FieldMaxX = 960
	FieldMaxY = 704
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned bounding box. Containment is half-open.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the middle of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Direction is a facing or movement direction.
type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "down"
	}
}

// Mode is the top-level game mode. Exactly one is active at a time.
type Mode int

const (
	ModeIntro Mode = iota
	ModeExploration
	ModeDialogue
	ModeCombat
	ModeGameOver
	ModeVictory
)

var modeNames = map[Mode]string{
	ModeIntro:       "intro",
	ModeExploration: "exploration",
	ModeDialogue:    "dialogue",
	ModeCombat:      "combat",
	ModeGameOver:    "game_over",
	ModeVictory:     "victory",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// Terminal reports whether the mode only accepts restart.
func (m Mode) Terminal() bool {
	return m == ModeGameOver || m == ModeVictory
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s {
			return m, true
		}
	}
	return ModeIntro, false
}

// Flag is a named story milestone from a fixed vocabulary.
type Flag string

const (
	FlagHasKeycard         Flag = "has_keycard"
	FlagTalkedToNPC1       Flag = "talked_to_npc1"
	FlagTalkedToNPC2       Flag = "talked_to_npc2"
	FlagTalkedToNPC3       Flag = "talked_to_npc3"
	FlagTalkedToNPC4       Flag = "talked_to_npc4"
	FlagFoundClue1         Flag = "found_clue1"
	FlagFoundClue2         Flag = "found_clue2"
	FlagFoundClue3         Flag = "found_clue3"
	FlagUnlockedThirdFloor Flag = "unlocked_third_floor"
	FlagFoundAntidote      Flag = "found_antidote"
	FlagGameCompleted      Flag = "game_completed"
	FlagDefeatedBoss       Flag = "defeated_boss"
)

// Flags lists the whole vocabulary in display order.
var Flags = []Flag{
	FlagHasKeycard,
	FlagTalkedToNPC1, FlagTalkedToNPC2, FlagTalkedToNPC3, FlagTalkedToNPC4,
	FlagFoundClue1, FlagFoundClue2, FlagFoundClue3,
	FlagUnlockedThirdFloor,
	FlagFoundAntidote,
	FlagGameCompleted,
	FlagDefeatedBoss,
}

// KnownFlag reports whether f is part of the vocabulary.
func KnownFlag(f Flag) bool {
	for _, k := range Flags {
		if k == f {
			return true
		}
	}
	return false
}

// Stats are the player's numeric attributes.
type Stats struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Level   int `json:"level"`
	EXP     int `json:"exp"`
}

// ItemType classifies an item.
type ItemType string

const (
	ItemHealing ItemType = "healing"
	ItemKey     ItemType = "key"
	ItemSpecial ItemType = "special"
	ItemClue    ItemType = "clue"
)

// Item is something the player can carry.
type Item struct {
	Name        string
	Type        ItemType
	Value       int    // heal amount for healing items
	Description string // optional
	Flag        Flag   // optional flag raised on pickup
	EXP         int    // experience granted on pickup
}

// FloorItem is an item lying on a floor at a point.
type FloorItem struct {
	Item Item
	At   Point
}

// EnemyDef is an enemy archetype.
type EnemyDef struct {
	ID        string
	Name      string
	HP        int
	Attack    int
	Defense   int
	EXPReward int
	Boss      bool // defeating it sets defeated_boss
}

// InteractableKind discriminates the Interactable variant.
type InteractableKind string

const (
	KindShop   InteractableKind = "shop"
	KindNPC    InteractableKind = "npc"
	KindStairs InteractableKind = "stairs"
)

// Interactable is a shop, NPC or stairs. The shared base is ID, Kind, Name
// and Area; exactly one of the variant pointers matching Kind is set.
type Interactable struct {
	ID   string
	Kind InteractableKind
	Name string
	Area Rect

	Shop   *ShopInfo
	NPC    *NPCInfo
	Stairs *StairsInfo
}

// ShopInfo holds shop-only fields.
type ShopInfo struct {
	Sign string // sprite key under images/shops
}

// NPCInfo holds NPC-only fields.
type NPCInfo struct {
	Number int // 1..4, selects talked_to_npcN / found_clueN
}

// StairsInfo holds stairs-only fields.
type StairsInfo struct {
	Direction   string // "up" or "down"
	TargetFloor int
	Landing     Point // snap position on the target floor
}

// CombatZone is a consumable area that starts combat on entry.
type CombatZone struct {
	ID      string
	Area    Rect
	Enemies []string // enemy archetype IDs; the first is fought
}

// FloorDef is the static definition of one floor.
type FloorDef struct {
	ID            int
	Name          string
	Background    color.RGBA
	Spawn         Point
	Walls         []Rect
	Interactables []Interactable
	Zones         []CombatZone
	Items         []FloorItem
	Encounters    []string // enemy IDs for random encounters
}

// CharacterProfile is one of the selectable presets. Immutable after selection.
type CharacterProfile struct {
	ID      string
	Name    string
	Speed   int
	HP      int
	Attack  int
	Defense int
	Color   color.RGBA // body colour for programmatic rendering
}

// Effect names one atom of the dialogue effect catalog.
type Effect string

const (
	EffectBuyMedical    Effect = "buy_medical"
	EffectBuyCannedFood Effect = "buy_canned_food"
	EffectSearchDrinks  Effect = "search_drinks"
	EffectShallowSearch Effect = "shallow_search"
	EffectDeepSearch    Effect = "deep_search"
	EffectTakeAntidote  Effect = "take_antidote"
	EffectGiveMedical   Effect = "give_medical"
	EffectPureInfo      Effect = "pure_info"
	EffectLeave         Effect = "leave"
)

// Condition gates a dialogue option.
type Condition struct {
	Type  string // "flag", "not_flag", "has_item", "min_level"
	Flag  Flag
	Item  string
	Value int
}

// DialogueOption is one numbered choice.
type DialogueOption struct {
	Text     string
	Effect   Effect
	Info     string // flavour text for pure_info
	Requires []Condition
}

// DialogueScript is the prompt and options for one shop or NPC.
type DialogueScript struct {
	ID      string
	Speaker string
	Prompt  string
	Options []DialogueOption
}

// GameDef holds game metadata.
type GameDef struct {
	Title      string
	Version    string
	Intro      string
	StartFloor int
}

// Defs is the immutable content compiled by the loader.
type Defs struct {
	Game       GameDef
	Floors     map[int]FloorDef
	Enemies    map[string]EnemyDef
	Characters []CharacterProfile
	Dialogues  map[string]DialogueScript // keyed by interactable ID
}
