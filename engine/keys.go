package engine

import (
	"github.com/nathoo/antidote/audio"
	"github.com/nathoo/antidote/engine/combat"
	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/engine/rules"
	"github.com/nathoo/antidote/types"
)

// HandleKey routes one key press. The global branch sees the key first;
// per-mode bindings run only when it declines.
func (g *Game) HandleKey(ev input.Event) {
	k := ev.Key
	if k == input.KeyNone {
		return
	}

	if g.mode == types.ModeIntro {
		g.handleIntro(k)
		return
	}
	if g.handleGlobal(k) {
		return
	}

	switch g.mode {
	case types.ModeExploration:
		g.handleExploration(k)
	case types.ModeDialogue:
		g.handleDialogue(k)
	case types.ModeCombat:
		g.handleCombat(k)
	}
}

func (g *Game) handleIntro(k input.Key) {
	n := len(g.defs.Characters)
	switch {
	case k == input.KeyLeft:
		g.selectCharacter((g.charIndex + n - 1) % n)
	case k == input.KeyRight:
		g.selectCharacter((g.charIndex + 1) % n)
	case k.Digit() > 0:
		if d := k.Digit(); d <= n {
			g.selectCharacter(d - 1)
		}
	case k == input.KeySpace:
		g.beginRun()
	}
}

func (g *Game) selectCharacter(i int) {
	if !g.selecting {
		g.selecting = true
		g.playMusic(audio.MusicCharacterSelect, true)
	}
	if i == g.charIndex {
		return
	}
	g.charIndex = i
	profile := g.defs.Characters[i]
	start := g.defs.Floors[g.defs.Game.StartFloor]
	g.Player.Reset(profile, start.Spawn, start.ID)
	g.Progress.Reset(g.baseStats())
	g.sfx(audio.SFXDialogueBeep)
}

func (g *Game) beginRun() {
	profile := g.Player.Profile
	g.zones.Observe(g.World, g.Player.Floor, g.Player.Pos)
	g.Progress.Push("你選擇了 " + profile.Name)
	if g.defs.Game.Intro != "" {
		g.Progress.Push(g.defs.Game.Intro)
	}
	g.sfx(audio.SFXSuccess)
	g.setMode(types.ModeExploration)
	g.log.Info("run started", "character", profile.ID, "floor", g.Player.Floor)
}

// handleGlobal handles the keys that take precedence in every non-intro
// mode and reports whether it consumed the key.
func (g *Game) handleGlobal(k input.Key) bool {
	if g.mode.Terminal() {
		if k == input.KeyR {
			g.Restart()
		}
		return true
	}

	switch k {
	case input.KeyEscape:
		g.forceExploration("已返回探索模式")
		return true
	case input.KeyI:
		g.toggleOverlay(OverlayInventory)
		return true
	case input.KeyM:
		g.toggleOverlay(OverlayMap)
		return true
	}
	if f := k.Function(); f > 0 {
		g.handleDevKey(f)
		return true
	}
	return false
}

// forceExploration abandons any dialogue or combat, closes the overlays
// and cancels movement. Abandoned combat zones stay unconsumed.
func (g *Game) forceExploration(msg string) {
	g.abandon()
	if g.overlay != OverlayNone {
		g.overlay = OverlayNone
		g.emit(events.OverlayChanged, map[string]any{"overlay": OverlayNone.String()})
	}
	g.Player.Cancel()
	g.setMode(types.ModeExploration)
	if msg != "" {
		g.Progress.Push(msg)
	}
}

func (g *Game) abandon() {
	if g.session != nil {
		g.session = nil
		g.lastInteract = g.clock.Now()
		g.emit(events.DialogueEnded, map[string]any{"abandoned": true})
	}
	if g.fight != nil {
		g.emit(events.CombatResolved, map[string]any{"result": "abandoned", "enemy": g.fight.Enemy.ID})
		g.fight = nil
		g.zones.Observe(g.World, g.Player.Floor, g.Player.Pos)
	}
}

// toggleOverlay opens o, closing the other overlay, or closes o if it is
// already open. Opening forces exploration and cancels movement.
func (g *Game) toggleOverlay(o Overlay) {
	if g.overlay == o {
		g.overlay = OverlayNone
	} else {
		g.abandon()
		g.Player.Cancel()
		g.setMode(types.ModeExploration)
		g.overlay = o
	}
	g.emit(events.OverlayChanged, map[string]any{"overlay": g.overlay.String()})
}

var arrowDirections = map[input.Key]types.Direction{
	input.KeyUp:    types.DirUp,
	input.KeyDown:  types.DirDown,
	input.KeyLeft:  types.DirLeft,
	input.KeyRight: types.DirRight,
}

func (g *Game) handleExploration(k input.Key) {
	if g.overlay == OverlayInventory {
		if d := k.Digit(); d > 0 {
			g.useItem(d - 1)
		}
		return
	}
	if g.overlay != OverlayNone {
		return
	}

	if dir, ok := arrowDirections[k]; ok {
		if g.Player.Move(dir) {
			g.sfx(audio.SFXMove)
		}
		return
	}
	if k == input.KeySpace {
		g.interact()
	}
}

func (g *Game) handleDialogue(k input.Key) {
	s := g.session
	if s == nil {
		return
	}
	switch {
	case k.Digit() > 0:
		if c, ok := s.Choose(k.Digit()); ok {
			g.execute(c)
		}
	case k == input.KeyUp:
		s.Move(-1)
		g.sfx(audio.SFXDialogueBeep)
	case k == input.KeyDown:
		s.Move(1)
		g.sfx(audio.SFXDialogueBeep)
	case k == input.KeySpace:
		if s.TextOnly() {
			g.endDialogue()
			return
		}
		if c, ok := s.Current(); ok {
			g.execute(c)
		}
	}
}

var combatActions = map[input.Key]combat.Action{
	input.Key1: combat.Attack,
	input.Key2: combat.Defend,
	input.Key3: combat.Flee,
}

func (g *Game) handleCombat(k input.Key) {
	f := g.fight
	if f == nil {
		return
	}
	a, ok := combatActions[k]
	if !ok {
		return
	}
	if f.Done() {
		g.finishCombat()
		return
	}
	f.Act(a)
}

// facts adapts the progress and inventory to the condition evaluator.
type facts struct{ g *Game }

var _ rules.Facts = facts{}

func (f facts) Flag(fl types.Flag) bool  { return f.g.Progress.Flag(fl) }
func (f facts) HasItem(name string) bool { return f.g.Inventory.Has(name) }
func (f facts) Level() int               { return f.g.Progress.Stats.Level }
