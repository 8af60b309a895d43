package engine

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nathoo/antidote/audio"
	audiomock "github.com/nathoo/antidote/audio/mock"
	"github.com/nathoo/antidote/clock"
	"github.com/nathoo/antidote/config"
	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/engine/save"
	"github.com/nathoo/antidote/types"
)

var (
	spawn       = types.Point{X: 512, Y: 384}
	keycardAt   = types.Point{X: 320, Y: 224}
	stairsAt    = types.Point{X: 512, Y: 192}
	thirdLandAt = types.Point{X: 512, Y: 640}
)

func box(cx, cy, w, h int) types.Rect {
	return types.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// testDefs builds a three-floor building small enough to walk by hand.
func testDefs() *types.Defs {
	medical := types.Item{Name: "醫療包", Type: types.ItemHealing, Value: 30}
	keycard := types.Item{Name: "鑰匙卡", Type: types.ItemKey, Flag: types.FlagHasKeycard, EXP: 50, Description: "通往三樓"}

	return &types.Defs{
		Game: types.GameDef{Title: "Test", StartFloor: 1},
		Floors: map[int]types.FloorDef{
			1: {
				ID: 1, Name: "1F", Spawn: spawn, Background: color.RGBA{A: 255},
				Interactables: []types.Interactable{
					{ID: "seven_eleven", Kind: types.KindShop, Name: "7-11", Area: types.Rect{X: 576, Y: 368, W: 64, H: 48}, Shop: &types.ShopInfo{Sign: "seven_eleven"}},
					{ID: "npc1", Kind: types.KindNPC, Name: "店員", Area: box(288, 384, 64, 32), NPC: &types.NPCInfo{Number: 1}},
					{ID: "stairs_1_up", Kind: types.KindStairs, Name: "上樓", Area: box(512, 192, 32, 32),
						Stairs: &types.StairsInfo{Direction: "up", TargetFloor: 2, Landing: types.Point{X: 512, Y: 640}}},
				},
				Zones: []types.CombatZone{
					{ID: "hall", Area: types.Rect{X: 400, Y: 368, W: 64, H: 32}, Enemies: []string{"zombie"}},
				},
				Items:      []types.FloorItem{{Item: medical, At: types.Point{X: 512, Y: 576}}},
				Encounters: []string{"zombie"},
			},
			2: {
				ID: 2, Name: "2F", Spawn: spawn,
				Interactables: []types.Interactable{
					{ID: "coffee", Kind: types.KindShop, Name: "咖啡廳", Area: box(736, 384, 64, 48), Shop: &types.ShopInfo{Sign: "coffee"}},
					{ID: "stairs_2_up", Kind: types.KindStairs, Name: "上樓", Area: box(512, 192, 32, 32),
						Stairs: &types.StairsInfo{Direction: "up", TargetFloor: 3, Landing: thirdLandAt}},
					{ID: "stairs_2_down", Kind: types.KindStairs, Name: "下樓", Area: box(512, 672, 32, 32),
						Stairs: &types.StairsInfo{Direction: "down", TargetFloor: 1, Landing: types.Point{X: 512, Y: 224}}},
				},
				Items: []types.FloorItem{{Item: keycard, At: keycardAt}},
			},
			3: {
				ID: 3, Name: "3F", Spawn: spawn,
				Interactables: []types.Interactable{
					{ID: "npc4", Kind: types.KindNPC, Name: "研究員", Area: box(512, 384, 32, 32), NPC: &types.NPCInfo{Number: 4}},
				},
			},
		},
		Enemies: map[string]types.EnemyDef{
			"zombie": {ID: "zombie", Name: "殭屍", HP: 10, Attack: 8, Defense: 0, EXPReward: 40},
		},
		Characters: []types.CharacterProfile{
			{ID: "alex", Name: "阿力", Speed: 4, HP: 100, Attack: 12, Defense: 5},
			{ID: "bea", Name: "小貝", Speed: 8, HP: 80, Attack: 15, Defense: 3},
		},
		Dialogues: map[string]types.DialogueScript{
			"seven_eleven": {ID: "seven_eleven", Prompt: "歡迎光臨", Options: []types.DialogueOption{
				{Text: "購買醫療用品", Effect: types.EffectBuyMedical},
				{Text: "購買罐頭", Effect: types.EffectBuyCannedFood},
				{Text: "離開", Effect: types.EffectLeave},
			}},
			"coffee": {ID: "coffee", Prompt: "咖啡廳一片狼藉", Options: []types.DialogueOption{
				{Text: "隨便看看", Effect: types.EffectShallowSearch},
				{Text: "深入搜索", Effect: types.EffectDeepSearch, Requires: []types.Condition{{Type: "flag", Flag: types.FlagHasKeycard}}},
				{Text: "離開", Effect: types.EffectLeave},
			}},
			"npc1": {ID: "npc1", Prompt: "救救我", Options: []types.DialogueOption{
				{Text: "給予醫療用品", Effect: types.EffectGiveMedical},
				{Text: "打聽消息", Effect: types.EffectPureInfo, Info: "聽說三樓有解藥"},
				{Text: "離開", Effect: types.EffectLeave},
			}},
			"npc4": {ID: "npc4", Prompt: "這是解藥", Options: []types.DialogueOption{
				{Text: "接過解藥", Effect: types.EffectTakeAntidote},
				{Text: "離開", Effect: types.EffectLeave},
			}},
		},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Gameplay.EncounterChance = 0
	cfg.Gameplay.EnemyTurnDelay = 3
	return cfg
}

type fixture struct {
	g     *Game
	clock *clock.Manual
}

func newFixture(t *testing.T, cfg *config.Config, opts ...func(*Options)) *fixture {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	o := Options{Defs: testDefs(), Config: cfg, Clock: clk, Seed: 42}
	for _, fn := range opts {
		fn(&o)
	}
	g, err := New(o)
	require.NoError(t, err)
	g.Start()
	return &fixture{g: g, clock: clk}
}

// started returns a fixture already in exploration with the first character.
func started(t *testing.T, cfg *config.Config, opts ...func(*Options)) *fixture {
	t.Helper()
	f := newFixture(t, cfg, opts...)
	f.press(input.KeySpace)
	require.Equal(t, types.ModeExploration, f.g.Mode())
	return f
}

func (f *fixture) press(keys ...input.Key) {
	for _, k := range keys {
		f.g.Frame([]input.Event{input.Press(k)})
	}
}

// step presses an arrow and runs frames until the move lands.
func (f *fixture) step(k input.Key) {
	f.press(k)
	for i := 0; i < 100 && f.g.Player.Moving(); i++ {
		f.g.Update()
	}
}

func (f *fixture) frames(n int) {
	for i := 0; i < n; i++ {
		f.g.Update()
	}
}

// place teleports the player without triggering zone entry.
func (f *fixture) place(floor int, p types.Point) {
	f.g.Player.Teleport(floor, p)
	f.g.zones.Observe(f.g.World, floor, p)
}

// interact presses space after the interaction cooldown has elapsed.
func (f *fixture) interact() {
	f.clock.Advance(time.Second)
	f.press(input.KeySpace)
}

func messages(g *Game) []string {
	var out []string
	for _, m := range g.Progress.Messages() {
		out = append(out, m.Text)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	defs := testDefs()
	defs.Characters = nil
	_, err = New(Options{Defs: defs})
	assert.Error(t, err)

	defs = testDefs()
	defs.Game.StartFloor = 9
	_, err = New(Options{Defs: defs})
	assert.Error(t, err)
}

func TestNew_StartsOnIntro(t *testing.T) {
	f := newFixture(t, testConfig())
	g := f.g
	assert.Equal(t, types.ModeIntro, g.Mode())
	assert.Equal(t, 1, g.Player.Floor)
	assert.Equal(t, spawn, g.Player.Pos)
	assert.Equal(t, 100, g.Progress.Stats.HP)
}

func TestNew_CharacterFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Game.Character = "bea"
	f := newFixture(t, cfg)
	assert.Equal(t, 1, f.g.CharacterIndex())
	assert.Equal(t, 80, f.g.Progress.Stats.MaxHP)
}

func TestIntro_SelectAndStart(t *testing.T) {
	f := newFixture(t, testConfig())

	f.press(input.KeyRight)
	assert.Equal(t, 1, f.g.CharacterIndex())
	assert.Equal(t, "bea", f.g.Player.Profile.ID)
	assert.Equal(t, 80, f.g.Progress.Stats.HP)

	f.press(input.KeyRight)
	assert.Equal(t, 0, f.g.CharacterIndex(), "selection wraps")

	f.press(input.Key2)
	assert.Equal(t, 1, f.g.CharacterIndex())

	f.press(input.Key9)
	assert.Equal(t, 1, f.g.CharacterIndex(), "out of range digit ignored")

	f.press(input.KeyI, input.KeyEscape, input.KeyF1)
	assert.Equal(t, types.ModeIntro, f.g.Mode(), "global keys are inactive on the intro")
	assert.Equal(t, OverlayNone, f.g.Overlay())

	f.press(input.KeySpace)
	assert.Equal(t, types.ModeExploration, f.g.Mode())
}

// Fresh run, buy medical.
func TestScenario_BuyMedical(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.Progress.Stats.HP = 50

	f.step(input.KeyRight)
	f.step(input.KeyRight)
	require.Equal(t, types.Point{X: 576, Y: 384}, g.Player.Pos)

	f.interact()
	require.Equal(t, types.ModeDialogue, g.Mode())
	require.NotNil(t, g.Dialogue())
	assert.Len(t, g.Dialogue().Choices(), 3)

	f.press(input.Key1)
	assert.Equal(t, 80, g.Progress.Stats.HP)
	assert.Equal(t, 10, g.Progress.Stats.EXP)
	assert.Nil(t, g.Dialogue())
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.Contains(t, messages(g), "購買了醫療用品，恢復 30 HP")
}

func TestBuyMedical_ClampsToMaxHP(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.Progress.Stats.HP = 90
	f.place(1, types.Point{X: 576, Y: 384})

	f.interact()
	f.press(input.Key1)
	assert.Equal(t, 100, g.Progress.Stats.HP)
}

// Pickup keycard.
func TestScenario_PickupKeycard(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(2, types.Point{X: keycardAt.X + 16, Y: keycardAt.Y + 16})

	f.interact()
	assert.True(t, g.Inventory.Has("鑰匙卡"))
	assert.True(t, g.Progress.Flag(types.FlagHasKeycard))
	assert.Equal(t, 50, g.Progress.Stats.EXP)
	assert.Contains(t, messages(g), "獲得了 鑰匙卡")
	assert.Empty(t, g.World.Items(2), "collected item leaves the world")

	f.interact()
	assert.Equal(t, 1, g.Inventory.Count("鑰匙卡"), "collected item is not re-pickable")
}

func TestPickup_OutsideRadius(t *testing.T) {
	f := started(t, testConfig())
	f.place(2, types.Point{X: keycardAt.X + 32, Y: keycardAt.Y})
	f.interact()
	assert.False(t, f.g.Inventory.Has("鑰匙卡"))
}

func TestPickup_InventoryFull(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.InventoryCapacity = 1
	f := started(t, cfg)
	g := f.g
	require.True(t, g.Inventory.Add(types.Item{Name: "石頭", Type: types.ItemSpecial}))
	f.place(2, keycardAt)

	f.interact()
	assert.False(t, g.Inventory.Has("鑰匙卡"))
	assert.Len(t, g.World.Items(2), 1, "item stays in the world")
	assert.Contains(t, messages(g), "背包已滿")
	assert.False(t, g.Progress.Flag(types.FlagHasKeycard))
}

// Gated stairs.
func TestScenario_GatedStairs(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(2, stairsAt)

	f.interact()
	assert.Equal(t, 2, g.Player.Floor)
	assert.Equal(t, stairsAt, g.Player.Pos)
	assert.Contains(t, messages(g), "需要鑰匙卡")

	require.NoError(t, g.Progress.SetFlag(types.FlagHasKeycard, true))
	f.interact()
	assert.Equal(t, 3, g.Player.Floor)
	assert.Equal(t, thirdLandAt, g.Player.Pos)
	assert.True(t, g.Progress.Flag(types.FlagUnlockedThirdFloor))
}

func TestStairs_FreeBetweenFirstAndSecond(t *testing.T) {
	f := started(t, testConfig())
	f.place(1, stairsAt)
	f.interact()
	assert.Equal(t, 2, f.g.Player.Floor)
	assert.Equal(t, types.Point{X: 512, Y: 640}, f.g.Player.Pos)

	var changed []events.Event
	for _, e := range f.g.RecentEvents() {
		if e.Type == events.FloorChanged {
			changed = append(changed, e)
		}
	}
	require.Len(t, changed, 1)
	assert.Equal(t, 2, changed[0].Data["to"])
}

func TestInteract_Cooldown(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(1, stairsAt)

	f.interact()
	require.Equal(t, 2, g.Player.Floor)
	f.place(2, types.Point{X: 512, Y: 672})

	f.clock.Advance(100 * time.Millisecond)
	f.press(input.KeySpace)
	assert.Equal(t, 2, g.Player.Floor, "second press inside the cooldown is ignored")

	f.clock.Advance(time.Second)
	f.press(input.KeySpace)
	assert.Equal(t, 1, g.Player.Floor)
}

// Combat win consumes zone.
func TestScenario_CombatWinConsumesZone(t *testing.T) {
	f := started(t, testConfig())
	g := f.g

	f.step(input.KeyLeft)
	require.Equal(t, types.ModeExploration, g.Mode())
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())
	require.NotNil(t, g.Combat())
	assert.Equal(t, "hall", g.Combat().ZoneID)

	for i := 0; i < 20 && g.Mode() == types.ModeCombat; i++ {
		f.press(input.Key1)
		f.frames(5)
	}
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.Nil(t, g.Combat())
	assert.Equal(t, 40, g.Progress.Stats.EXP)
	assert.True(t, g.World.ZoneConsumed(1, "hall"))

	f.frames(120)
	f.step(input.KeyRight)
	f.step(input.KeyLeft)
	assert.Equal(t, types.ModeExploration, g.Mode(), "consumed zone must not re-trigger")
}

// Escape consumes zone.
func TestScenario_EscapeConsumesZone(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EscapeChance = 1
	f := started(t, cfg)
	g := f.g

	f.step(input.KeyLeft)
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())

	f.press(input.Key3)
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.True(t, g.World.ZoneConsumed(1, "hall"))
	assert.Equal(t, 0, g.Progress.Stats.EXP)
}

func withAnnex(o *Options) {
	f := o.Defs.Floors[1]
	f.Zones = append(f.Zones, types.CombatZone{ID: "annex", Area: types.Rect{X: 336, Y: 368, W: 64, H: 32}, Enemies: []string{"zombie"}})
	o.Defs.Floors[1] = f
}

func TestZone_EnteredRightAfterEscape(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EscapeChance = 1
	f := started(t, cfg, withAnnex)
	g := f.g

	f.step(input.KeyLeft)
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())
	f.press(input.Key3)
	require.Equal(t, types.ModeExploration, g.Mode())
	require.True(t, g.Player.Invulnerable())

	f.step(input.KeyLeft)
	assert.Equal(t, types.ModeExploration, g.Mode(), "the escaped zone is consumed")
	f.step(input.KeyLeft)
	assert.Equal(t, types.Point{X: 384, Y: 384}, g.Player.Pos)
	require.Equal(t, types.ModeCombat, g.Mode(), "invulnerability does not hide an unconsumed zone")
	assert.Equal(t, "annex", g.Combat().ZoneID)
}

func TestZone_PicksAmongItsEnemies(t *testing.T) {
	seen := map[string]bool{}
	for seed := int64(1); seed <= 40; seed++ {
		f := started(t, testConfig(), func(o *Options) {
			o.Seed = seed
			o.Defs.Enemies["runner"] = types.EnemyDef{ID: "runner", Name: "奔跑者", HP: 8, Attack: 6, EXPReward: 30}
			fl := o.Defs.Floors[1]
			fl.Zones[0].Enemies = []string{"zombie", "runner"}
			o.Defs.Floors[1] = fl
		})
		f.step(input.KeyLeft)
		f.step(input.KeyLeft)
		require.Equal(t, types.ModeCombat, f.g.Mode())
		seen[f.g.Combat().Enemy.ID] = true
	}
	assert.True(t, seen["zombie"])
	assert.True(t, seen["runner"])
}

func TestCombat_FailedEscapeGivesEnemyTurn(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EscapeChance = 0
	f := started(t, cfg)
	g := f.g
	f.step(input.KeyLeft)
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())

	f.press(input.Key3)
	f.frames(cfg.Gameplay.EnemyTurnDelay + 1)
	assert.Equal(t, types.ModeCombat, g.Mode())
	assert.Equal(t, 97, g.Progress.Stats.HP, "zombie attack 8 against defense 5")
	assert.False(t, g.World.ZoneConsumed(1, "hall"))
}

func TestCombat_LoseIsGameOver(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EscapeChance = 0
	f := started(t, cfg)
	g := f.g
	g.Progress.Stats.HP = 2
	f.step(input.KeyLeft)
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())

	f.press(input.Key3)
	f.frames(cfg.Gameplay.EnemyTurnDelay + 2)
	assert.Equal(t, types.ModeGameOver, g.Mode())
	assert.Equal(t, 0, g.Progress.Stats.HP)
	assert.False(t, g.World.ZoneConsumed(1, "hall"), "lost zones remain")

	f.press(input.KeyUp, input.KeyI, input.KeyEscape)
	assert.Equal(t, types.ModeGameOver, g.Mode(), "terminal screens accept only restart")
	assert.Equal(t, OverlayNone, g.Overlay())
}

// Victory.
func TestScenario_Victory(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.Progress.Stats.Level = 3
	f.place(3, spawn)

	f.interact()
	require.Equal(t, types.ModeDialogue, g.Mode())
	assert.True(t, g.Progress.Flag(types.FlagTalkedToNPC4))

	f.press(input.Key1)
	assert.True(t, g.Progress.Flag(types.FlagFoundAntidote))
	assert.True(t, g.Progress.Flag(types.FlagGameCompleted))
	assert.Equal(t, types.ModeVictory, g.Mode())

	f.press(input.KeyR)
	assert.Equal(t, types.ModeIntro, g.Mode())
	assert.Equal(t, 1, g.Player.Floor)
	assert.Equal(t, spawn, g.Player.Pos)
	assert.Equal(t, types.Stats{HP: 100, MaxHP: 100, Attack: 12, Defense: 5, Level: 1}, g.Progress.Stats)
	assert.Empty(t, g.Progress.Flags())
	assert.Zero(t, g.Inventory.Len())
	assert.Equal(t, OverlayNone, g.Overlay())
	assert.Empty(t, g.World.CollectedIDs())
	assert.Empty(t, g.World.ConsumedZones())
}

func TestTakeAntidote_LowLevelHurts(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(3, spawn)

	f.interact()
	f.press(input.Key1)
	assert.Equal(t, 85, g.Progress.Stats.HP, "20 damage against defense 5")
	assert.False(t, g.Progress.Flag(types.FlagFoundAntidote))
	assert.True(t, g.Player.Invulnerable())
	assert.Equal(t, types.ModeExploration, g.Mode())

	f.interact()
	f.press(input.Key1)
	assert.Equal(t, 85, g.Progress.Stats.HP, "no damage while invulnerable")
}

func TestTakeAntidote_LowLevelCanKill(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.Progress.Stats.HP = 10
	f.place(3, spawn)

	f.interact()
	f.press(input.Key1)
	assert.Equal(t, types.ModeGameOver, g.Mode())
}

func TestDialogue_HiddenOptionsAreNotNumbered(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(2, types.Point{X: 736, Y: 384})

	f.interact()
	require.Equal(t, types.ModeDialogue, g.Mode())
	require.Len(t, g.Dialogue().Choices(), 2)

	f.press(input.Key2)
	assert.Equal(t, types.ModeExploration, g.Mode(), "2 is leave while deep search is hidden")
	assert.False(t, g.Progress.Flag(types.FlagFoundAntidote))
	assert.Zero(t, g.Progress.Stats.EXP)
}

func TestDialogue_DeepSearchWithKeycard(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	require.NoError(t, g.Progress.SetFlag(types.FlagHasKeycard, true))
	f.place(2, types.Point{X: 736, Y: 384})

	f.interact()
	require.Len(t, g.Dialogue().Choices(), 3)
	f.press(input.Key2)
	assert.True(t, g.Progress.Flag(types.FlagFoundAntidote))
	assert.Equal(t, 2, g.Progress.Stats.Level)
	assert.Equal(t, types.ModeExploration, g.Mode(), "victory needs level 3")
}

func TestDialogue_OutOfRangeAndSelection(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(1, types.Point{X: 576, Y: 384})
	f.interact()

	f.press(input.Key7)
	assert.Equal(t, types.ModeDialogue, g.Mode(), "out-of-range option is ignored")

	f.press(input.KeyDown, input.KeyDown)
	assert.Equal(t, 2, g.Dialogue().Selected())
	f.press(input.KeySpace)
	assert.Equal(t, types.ModeExploration, g.Mode(), "space runs the highlighted leave option")
	assert.Zero(t, g.Progress.Stats.EXP)
}

func TestDialogue_NPCClues(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	require.True(t, g.Inventory.Add(types.Item{Name: "醫療包", Type: types.ItemHealing, Value: 30}))
	f.place(1, types.Point{X: 288, Y: 384})

	f.interact()
	assert.True(t, g.Progress.Flag(types.FlagTalkedToNPC1))
	f.press(input.Key1)
	assert.True(t, g.Progress.Flag(types.FlagFoundClue1))
	assert.False(t, g.Inventory.Has("醫療包"))
	assert.Equal(t, 40, g.Progress.Stats.EXP)
}

func TestOverlay_FreezesMovement(t *testing.T) {
	f := started(t, testConfig())
	g := f.g

	f.press(input.KeyRight)
	require.True(t, g.Player.Moving())
	f.press(input.KeyI)
	assert.Equal(t, OverlayInventory, g.Overlay())
	assert.False(t, g.Player.Moving(), "opening an overlay cancels movement")
	assert.Equal(t, spawn, g.Player.Pos)

	f.press(input.KeyLeft, input.KeyDown, input.KeySpace)
	f.frames(30)
	assert.Equal(t, spawn, g.Player.Pos)

	f.press(input.KeyM)
	assert.Equal(t, OverlayMap, g.Overlay(), "map replaces inventory")
	f.press(input.KeyM)
	assert.Equal(t, OverlayNone, g.Overlay())

	f.step(input.KeyRight)
	assert.Equal(t, types.Point{X: 544, Y: 384}, g.Player.Pos)
}

func TestOverlay_ForcesExploration(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.place(1, types.Point{X: 576, Y: 384})
	f.interact()
	require.Equal(t, types.ModeDialogue, g.Mode())

	f.press(input.KeyM)
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.Equal(t, OverlayMap, g.Overlay())
	assert.Nil(t, g.Dialogue())
}

func TestEscape_ResetsFromCombat(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	f.step(input.KeyLeft)
	f.step(input.KeyLeft)
	require.Equal(t, types.ModeCombat, g.Mode())

	f.press(input.KeyEscape)
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.Nil(t, g.Combat())
	assert.False(t, g.World.ZoneConsumed(1, "hall"))

	f.frames(10)
	assert.Equal(t, types.ModeExploration, g.Mode(), "standing in the zone does not re-trigger")
}

func TestRestart_IgnoredOutsideTerminalModes(t *testing.T) {
	f := started(t, testConfig())
	f.press(input.KeyR)
	assert.Equal(t, types.ModeExploration, f.g.Mode())
}

func TestUseItem_FromInventory(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.Progress.Stats.HP = 40
	require.True(t, g.Inventory.Add(types.Item{Name: "繃帶", Type: types.ItemHealing, Value: 30}))
	require.True(t, g.Inventory.Add(types.Item{Name: "照片", Type: types.ItemClue, Description: "一張舊照片"}))

	f.press(input.KeyI, input.Key2)
	assert.Equal(t, 2, g.Inventory.Len(), "non-healing items are not consumed")
	assert.Contains(t, messages(g), "照片：一張舊照片")

	f.press(input.Key1)
	assert.Equal(t, 70, g.Progress.Stats.HP)
	assert.False(t, g.Inventory.Has("繃帶"))

	f.press(input.Key5)
	assert.Equal(t, 1, g.Inventory.Len())
}

func TestRandomEncounter(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EncounterChance = 1
	cfg.Gameplay.EncounterInterval = 0
	f := started(t, cfg)
	f.step(input.KeyDown)
	assert.Equal(t, types.ModeCombat, f.g.Mode())
	assert.Empty(t, f.g.Combat().ZoneID)
}

func TestRandomEncounter_SuppressedByOverlayAndInvulnerability(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EncounterChance = 1
	cfg.Gameplay.EncounterInterval = 0
	f := started(t, cfg)
	g := f.g

	f.press(input.KeyI)
	for i := 0; i < 10; i++ {
		f.step(input.KeyDown)
	}
	assert.Equal(t, types.ModeExploration, g.Mode())
	f.press(input.KeyI)

	g.Player.SetInvulnerable(200)
	f.step(input.KeyDown)
	assert.Equal(t, types.ModeExploration, g.Mode())
}

func TestDriftRepair(t *testing.T) {
	f := started(t, testConfig())
	g := f.g
	g.mode = types.ModeDialogue

	g.Update()
	assert.Equal(t, types.ModeExploration, g.Mode())

	var repaired bool
	for _, e := range g.RecentEvents() {
		if e.Type == events.DriftRepaired {
			repaired = true
		}
	}
	assert.True(t, repaired)
}

func TestSafeFrame_RecoversPanic(t *testing.T) {
	f := newFixture(t, testConfig())
	f.g.Subscribe(func(e events.Event) {
		if e.Type == events.ModeChanged {
			panic("hook exploded")
		}
	})
	err := f.g.SafeFrame([]input.Event{input.Press(input.KeySpace)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook exploded")
}

func TestSaveLoad(t *testing.T) {
	store := save.NewFileStore(filepath.Join(t.TempDir(), "save.json"))
	f := started(t, testConfig(), func(o *Options) { o.Store = store })
	g := f.g

	g.Progress.Stats.EXP = 70
	require.NoError(t, g.Progress.SetFlag(types.FlagHasKeycard, true))
	require.True(t, g.Save(context.Background()))
	savedPos := g.RNGPosition()
	var next [3]int
	for i := range next {
		next[i] = g.rng.Range(1, 1000)
	}

	g.Progress.Stats.EXP = 5
	require.NoError(t, g.Progress.SetFlag(types.FlagHasKeycard, false))
	f.press(input.KeyM)

	require.True(t, g.Load(context.Background()))
	assert.Equal(t, 70, g.Progress.Stats.EXP)
	assert.True(t, g.Progress.Flag(types.FlagHasKeycard))
	assert.Equal(t, types.ModeExploration, g.Mode())
	assert.Equal(t, OverlayNone, g.Overlay())
	assert.Equal(t, []string{"已讀取存檔"}, messages(g), "stale banners are dropped")

	require.Equal(t, savedPos, g.RNGPosition(), "the random stream resumes at the saved position")
	for i, want := range next {
		assert.Equal(t, want, g.rng.Range(1, 1000), "roll %d", i)
	}
}

func TestSaveLoad_Failures(t *testing.T) {
	f := started(t, testConfig())
	assert.False(t, f.g.Save(context.Background()))
	assert.False(t, f.g.Load(context.Background()))

	store := save.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	f = started(t, testConfig(), func(o *Options) { o.Store = store })
	assert.False(t, f.g.Load(context.Background()))
	assert.Contains(t, messages(f.g), "沒有存檔")
}

func TestDevKeys(t *testing.T) {
	f := started(t, testConfig())
	g := f.g

	f.press(input.KeyF1)
	assert.True(t, g.Debug())
	f.press(input.KeyF7)
	assert.True(t, g.ShowZones())
	f.press(input.KeyF8)
	assert.False(t, g.MusicEnabled())
	f.press(input.KeyF9)
	assert.False(t, g.SFXEnabled())
	f.press(input.KeyF3)
	assert.Contains(t, messages(g), "無法重新載入圖片")
}

type fakeReloader struct{ groups []string }

func (r *fakeReloader) Reload(group string) error {
	r.groups = append(r.groups, group)
	return nil
}

func TestDevKeys_Reload(t *testing.T) {
	r := &fakeReloader{}
	f := started(t, testConfig(), func(o *Options) { o.Reloader = r })
	f.press(input.KeyF3, input.KeyF4, input.KeyF5)
	assert.Equal(t, []string{ReloadStairs, ReloadFloor, ReloadShops}, r.groups)
}

func TestAudioCues(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := audiomock.NewMockService(ctrl)
	svc.EXPECT().MusicEnabled().Return(true).AnyTimes()
	svc.EXPECT().PlayMusic(audio.MusicIntro, true, gomock.Any())
	svc.EXPECT().PlayMusic(audio.MusicExploration, true, gomock.Any())
	svc.EXPECT().PlaySFX(audio.SFXSuccess)
	svc.EXPECT().PlaySFX(audio.SFXCollectItem)

	f := started(t, testConfig(), func(o *Options) { o.Audio = svc })
	f.place(2, keycardAt)
	f.interact()
}

func TestInvariants_RandomWalk(t *testing.T) {
	cfg := testConfig()
	cfg.Gameplay.EncounterChance = 0.3
	cfg.Gameplay.EncounterInterval = 0
	f := started(t, cfg)
	g := f.g

	keys := []input.Key{
		input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeySpace,
		input.Key1, input.Key2, input.Key3, input.KeyI, input.KeyM, input.KeyEscape,
	}
	collected := 0
	for i := 0; i < 2000; i++ {
		k := keys[g.rng.Pick(len(keys))]
		f.clock.Advance(200 * time.Millisecond)
		before := g.Player.Pos
		overlay := g.Overlay()
		g.Frame([]input.Event{input.Press(k)})

		s := g.Progress.Stats
		require.GreaterOrEqual(t, s.HP, 0)
		require.LessOrEqual(t, s.HP, s.MaxHP)
		require.LessOrEqual(t, g.Inventory.Len(), g.Inventory.Capacity())
		require.GreaterOrEqual(t, len(g.World.CollectedIDs()), collected)
		collected = len(g.World.CollectedIDs())
		if overlay != OverlayNone && g.Overlay() == overlay {
			require.Equal(t, before, g.Player.Pos)
		}
		if g.Mode().Terminal() {
			g.HandleKey(input.Press(input.KeyR))
			g.HandleKey(input.Press(input.KeySpace))
			collected = 0
		}
	}
}
