package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/antidote/audio"
	"github.com/nathoo/antidote/engine/combat"
	"github.com/nathoo/antidote/engine/effects"
	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/player"
	"github.com/nathoo/antidote/engine/resolve"
	"github.com/nathoo/antidote/engine/rules"
	"github.com/nathoo/antidote/engine/world"
	"github.com/nathoo/antidote/types"
)

func (g *Game) baseStats() types.Stats {
	return player.BaseStats(g.Player.Profile)
}

// updateExploration runs the world simulation. It is suspended while an
// overlay is open.
func (g *Game) updateExploration() {
	if g.overlay != OverlayNone {
		return
	}

	if g.Player.Update() {
		g.onArrival()
	}
	if g.mode != types.ModeExploration {
		return
	}

	if g.Progress.Dead() {
		g.gameOver()
		return
	}
	if g.Progress.VictoryReady() {
		g.victory()
	}
}

// onArrival runs the combat-zone and random-encounter checks once per
// completed move. Invulnerability only holds off random encounters.
func (g *Game) onArrival() {
	pos, floor := g.Player.Pos, g.Player.Floor
	if z, ok := g.zones.Enter(g.World, floor, pos); ok {
		if len(z.Enemies) > 0 {
			g.startCombat(z.Enemies[g.rng.Pick(len(z.Enemies))], z.ID)
		}
		return
	}

	enc := g.CurrentFloor().Encounters
	if len(enc) == 0 || g.Player.Invulnerable() {
		return
	}
	if g.Progress.ShouldTriggerEncounter(g.clock.Now()) {
		g.startCombat(enc[g.rng.Pick(len(enc))], "")
	}
}

// interact resolves what the player stands on, under the cooldown.
func (g *Game) interact() {
	now := g.clock.Now()
	if !g.lastInteract.IsZero() && now.Sub(g.lastInteract) < g.cfg.Gameplay.InteractionCooldown {
		return
	}

	res := resolve.Resolve(g.World, g.Player.Floor, g.Player.Pos)
	if res.Kind == resolve.None {
		return
	}
	g.lastInteract = now

	switch res.Kind {
	case resolve.Item:
		g.pickup(res.ItemID, res.Item.Item)
	case resolve.Shop, resolve.NPC:
		g.startDialogue(res.Target)
	case resolve.Stairs:
		g.useStairs(res.Target)
	}
}

func (g *Game) pickup(id string, item types.Item) {
	if !g.Inventory.Add(item) {
		g.Progress.Push("背包已滿")
		g.sfx(audio.SFXError)
		return
	}
	g.World.Collect(id)
	g.Progress.Push("獲得了 " + item.Name)
	g.sfx(audio.SFXCollectItem)

	if item.Flag != "" {
		if err := g.Progress.SetFlag(item.Flag, true); err != nil {
			g.log.Error("item flag rejected", "item", id, "err", err)
		}
	}
	g.emit(events.ItemPicked, map[string]any{"id": id, "item": item.Name})
	g.gainEXP(item.EXP)
}

// gainEXP adds experience and announces each level gained.
func (g *Game) gainEXP(n int) {
	if n <= 0 {
		return
	}
	levels := g.Progress.AddEXP(n)
	g.announceLevels(levels)
}

func (g *Game) announceLevels(levels int) {
	if levels <= 0 {
		return
	}
	g.sfx(audio.SFXLevelUp)
	g.emit(events.LevelUp, map[string]any{"level": g.Progress.Stats.Level, "gained": levels})
}

func (g *Game) startDialogue(target types.Interactable) {
	s, err := g.dialogue.Start(target, facts{g})
	if err != nil {
		g.log.Warn("interaction without dialogue", "target", target.ID, "err", err)
		g.Progress.Push(target.Name + " 沒有回應")
		return
	}
	if target.NPC != nil {
		flag := types.Flag(fmt.Sprintf("talked_to_npc%d", target.NPC.Number))
		if err := g.Progress.SetFlag(flag, true); err != nil {
			g.log.Warn("npc flag rejected", "target", target.ID, "err", err)
		}
	}
	g.session = s
	g.sfx(audio.SFXInteract)
	g.setMode(types.ModeDialogue)
	g.emit(events.DialogueStarted, map[string]any{"target": target.ID, "options": len(s.Choices())})
}

// execute applies the effect of a chosen option and closes the dialogue.
func (g *Game) execute(c rules.Choice) {
	s := g.session
	eff, ok := g.dialogue.Effect(s.Target.ID, c.Index)
	if !ok {
		eff = c.Option.Effect
	}
	if eff == types.EffectLeave {
		g.endDialogue()
		return
	}

	ctx := effects.Context{DescriptorID: s.Target.ID, Info: c.Option.Info}
	if s.Target.NPC != nil {
		ctx.NPC = s.Target.NPC.Number
	}
	env := effects.Env{
		Progress:  g.Progress,
		Inventory: g.Inventory,
		RNG:       g.rng,
		Shielded:  g.Player.Invulnerable(),
	}
	out, err := effects.Apply(env, eff, ctx)
	if err != nil {
		g.log.Error("effect failed", "effect", string(eff), "target", s.Target.ID, "err", err)
		g.Progress.Push("發生了錯誤")
	}
	g.sfx(out.Sounds...)
	g.announceLevels(out.Levels)
	if out.Damage > 0 {
		g.Player.Hit(g.cfg.Gameplay.InvulnerableFrames)
	}
	g.emit(events.EffectApplied, map[string]any{"effect": string(eff), "target": s.Target.ID, "exp": out.EXP})

	g.endDialogue()
	switch {
	case out.GameOver || g.Progress.Dead():
		g.gameOver()
	case out.Victory:
		g.victory()
	}
}

func (g *Game) endDialogue() {
	if g.session == nil {
		return
	}
	target := g.session.Target.ID
	g.session = nil
	g.lastInteract = g.clock.Now()
	g.emit(events.DialogueEnded, map[string]any{"target": target})
	g.setMode(types.ModeExploration)
}

func (g *Game) useStairs(in types.Interactable) {
	st := in.Stairs
	if st == nil {
		return
	}
	from := g.Player.Floor
	err := g.World.Traverse(from, st.TargetFloor, g.Progress.Flag(types.FlagHasKeycard))
	switch {
	case errors.Is(err, world.ErrNeedKeycard):
		g.Progress.Push("需要鑰匙卡")
		g.sfx(audio.SFXError)
		return
	case err != nil:
		g.log.Warn("stairs rejected", "stairs", in.ID, "from", from, "to", st.TargetFloor, "err", err)
		g.sfx(audio.SFXError)
		return
	}

	if st.TargetFloor == 3 && !g.Progress.Flag(types.FlagUnlockedThirdFloor) {
		_ = g.Progress.SetFlag(types.FlagUnlockedThirdFloor, true)
		g.Progress.Push("用鑰匙卡打開了三樓的門")
		g.sfx(audio.SFXDoor)
	}
	g.Player.Teleport(st.TargetFloor, st.Landing)
	g.zones.Observe(g.World, g.Player.Floor, g.Player.Pos)
	if f, ok := g.World.Floor(st.TargetFloor); ok {
		g.Progress.Push("來到了 " + f.Name)
	}
	g.sfx(audio.SFXStairs)
	g.emit(events.FloorChanged, map[string]any{"from": from, "to": st.TargetFloor})
}

func (g *Game) startCombat(enemyID, zoneID string) {
	def, ok := g.defs.Enemies[enemyID]
	if !ok {
		g.log.Warn("unknown enemy", "enemy", enemyID, "zone", zoneID)
		return
	}
	cfg := combat.Config{
		EscapeChance: g.cfg.Gameplay.EscapeChance,
		EnemyDelay:   g.cfg.Gameplay.EnemyTurnDelay,
	}
	g.fight = combat.Start(def, g.Player.Floor, zoneID, cfg, g.rng, g.Progress)
	g.setMode(types.ModeCombat)
	g.emit(events.CombatStarted, map[string]any{"enemy": def.ID, "zone": zoneID, "floor": g.Player.Floor})
}

// finishCombat consumes the session result.
func (g *Game) finishCombat() {
	s := g.fight
	g.fight = nil
	result := s.Result()
	g.emit(events.CombatResolved, map[string]any{"result": result.String(), "enemy": s.Enemy.ID, "zone": s.ZoneID})

	switch result {
	case combat.Lose:
		g.gameOver()
		return
	case combat.Win:
		g.Progress.Push(fmt.Sprintf("擊敗了 %s，獲得 %d 經驗", s.Enemy.Name, s.Enemy.EXPReward))
		g.sfx(audio.SFXSuccess)
		if s.ZoneID != "" {
			g.World.ConsumeZone(s.Floor, s.ZoneID)
		}
		if s.Enemy.Boss {
			_ = g.Progress.SetFlag(types.FlagDefeatedBoss, true)
		}
		g.gainEXP(s.Enemy.EXPReward)
	case combat.Escape:
		g.Progress.Push("成功逃離了戰鬥")
		if s.ZoneID != "" {
			g.World.ConsumeZone(s.Floor, s.ZoneID)
		}
	}

	g.Player.SetInvulnerable(g.cfg.Gameplay.InvulnerableFrames)
	g.zones.Observe(g.World, g.Player.Floor, g.Player.Pos)
	g.setMode(types.ModeExploration)
}

// useItem uses the inventory slot i from the inventory overlay.
func (g *Game) useItem(i int) {
	item, ok := g.Inventory.At(i)
	if !ok {
		return
	}
	if item.Type != types.ItemHealing {
		desc := item.Description
		if desc == "" {
			desc = "無法使用"
		}
		g.Progress.Push(item.Name + "：" + desc)
		return
	}
	if g.Progress.FullHP() {
		g.Progress.Push("HP 已滿")
		return
	}
	g.Inventory.RemoveAt(i)
	healed := g.Progress.Heal(item.Value)
	g.Progress.Push(fmt.Sprintf("使用了 %s，恢復 %d HP", item.Name, healed))
	g.sfx(audio.SFXSuccess)
}

func (g *Game) gameOver() {
	g.overlay = OverlayNone
	g.session = nil
	g.fight = nil
	g.Player.Cancel()
	g.Progress.Push("你倒下了……按 R 重新開始")
	g.setMode(types.ModeGameOver)
	g.log.Info("game over", "floor", g.Player.Floor, "level", g.Progress.Stats.Level)
}

func (g *Game) victory() {
	if !g.Progress.Flag(types.FlagGameCompleted) {
		_ = g.Progress.SetFlag(types.FlagGameCompleted, true)
	}
	g.overlay = OverlayNone
	g.Player.Cancel()
	g.Progress.Push("你找到了解藥，成功逃出大樓！")
	g.setMode(types.ModeVictory)
	g.log.Info("victory", "level", g.Progress.Stats.Level, "hp", g.Progress.Stats.HP)
}
