package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/combat"
	"github.com/nathoo/antidote/types"
)

const (
	panelWidth = 40
	meterWidth = 20
)

func box(title string, lines ...string) string {
	body := append([]string{styleTitle.Render(title)}, lines...)
	return stylePanel.Width(panelWidth).Render(strings.Join(body, "\n"))
}

func hudPanel(g *engine.Game) string {
	s := g.Progress.Stats
	need := s.Level * 100
	lines := []string{
		styleHP.Render(meter(s.HP, s.MaxHP, meterWidth)) + fmt.Sprintf(" %d/%d", s.HP, s.MaxHP),
		styleEXP.Render(meter(s.EXP, need, meterWidth)) + fmt.Sprintf(" %d/%d", s.EXP, need),
		fmt.Sprintf("攻擊 %d  防禦 %d", s.Attack, s.Defense),
		styleDim.Render(fmt.Sprintf("%s  音樂:%s 音效:%s", g.CurrentFloor().Name, onOff(g.MusicEnabled()), onOff(g.SFXEnabled()))),
	}
	if f := flagLine(g); f != "" {
		lines = append(lines, styleSelected.Render(f))
	}
	return box(fmt.Sprintf("%s  Lv.%d", g.Player.Profile.Name, s.Level), lines...)
}

func onOff(on bool) string {
	if on {
		return "開"
	}
	return "關"
}

func flagLine(g *engine.Game) string {
	var parts []string
	if g.Progress.Flag(types.FlagHasKeycard) {
		parts = append(parts, "鑰匙卡")
	}
	clues := 0
	for _, f := range []types.Flag{types.FlagFoundClue1, types.FlagFoundClue2, types.FlagFoundClue3} {
		if g.Progress.Flag(f) {
			clues++
		}
	}
	if clues > 0 {
		parts = append(parts, fmt.Sprintf("線索 %d/3", clues))
	}
	if g.Progress.Flag(types.FlagFoundAntidote) {
		parts = append(parts, "解藥")
	}
	return strings.Join(parts, "  ")
}

// modePanel is the panel for the active dialogue, combat or overlay, or
// empty during plain exploration.
func modePanel(g *engine.Game) string {
	switch {
	case g.Mode().Terminal():
		return terminalPanel(g)
	case g.Mode() == types.ModeDialogue:
		return dialoguePanel(g)
	case g.Mode() == types.ModeCombat:
		return combatPanel(g)
	case g.Overlay() == engine.OverlayInventory:
		return inventoryPanel(g)
	case g.Overlay() == engine.OverlayMap:
		return mapPanel(g)
	}
	return ""
}

func dialoguePanel(g *engine.Game) string {
	s := g.Dialogue()
	if s == nil {
		return ""
	}
	lines := []string{styleText.Render(s.Prompt()), ""}
	if s.TextOnly() {
		lines = append(lines, styleDim.Render("（空白鍵關閉）"))
		return box(s.Speaker(), lines...)
	}
	for i, ch := range s.Choices() {
		line := fmt.Sprintf("%d. %s", i+1, ch.Option.Text)
		if i == s.Selected() {
			lines = append(lines, styleSelected.Render("> "+line))
		} else {
			lines = append(lines, styleText.Render("  "+line))
		}
	}
	return box(s.Speaker(), lines...)
}

func combatPanel(g *engine.Game) string {
	f := g.Combat()
	if f == nil {
		return ""
	}
	s := g.Progress.Stats
	title := "戰鬥"
	if f.Enemy.Boss {
		title = "頭目戰"
	}
	you := fmt.Sprintf("%s %s %d/%d", g.Player.Profile.Name, styleHP.Render(meter(s.HP, s.MaxHP, 10)), s.HP, s.MaxHP)
	if f.Defending() {
		you += " 防禦中"
	}
	lines := []string{
		fmt.Sprintf("%s %s %d/%d", f.Enemy.Name, styleHP.Render(meter(f.Enemy.HP, f.Enemy.MaxHP, 10)), f.Enemy.HP, f.Enemy.MaxHP),
		you,
		"",
	}
	for _, l := range f.Log() {
		lines = append(lines, renderLine(l))
	}
	lines = append(lines, "")
	switch {
	case f.Done():
		lines = append(lines, styleSelected.Render(outcome(f.Result())+"（按 1-3 繼續）"))
	case f.State() == combat.EnemyTurn:
		lines = append(lines, styleDim.Render("敵人行動中……"))
	default:
		lines = append(lines, styleSelected.Render("1.攻擊  2.防禦  3.逃跑"))
	}
	return box(title, lines...)
}

func outcome(r combat.Result) string {
	switch r {
	case combat.Win:
		return "勝利！"
	case combat.Lose:
		return "你倒下了……"
	case combat.Escape:
		return "成功逃脫"
	}
	return ""
}

func inventoryPanel(g *engine.Game) string {
	inv := g.Inventory
	title := fmt.Sprintf("背包 (%d/%d)", inv.Len(), inv.Capacity())
	items := inv.Items()
	if len(items) == 0 {
		return box(title, styleDim.Render("背包是空的"))
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		line := fmt.Sprintf("%d. %s", i+1, it.Name)
		if it.Description != "" {
			line += styleDim.Render("  " + it.Description)
		}
		lines = append(lines, line)
	}
	return box(title, lines...)
}

func mapPanel(g *engine.Game) string {
	defs := g.Defs()
	var lines []string
	for _, id := range g.World.FloorIDs() {
		f := defs.Floors[id]
		var shops, npcs int
		for _, in := range f.Interactables {
			switch in.Kind {
			case types.KindShop:
				shops++
			case types.KindNPC:
				npcs++
			}
		}
		line := fmt.Sprintf("%s  店 %d  人 %d  物品 %d", f.Name, shops, npcs, len(g.World.Items(id)))
		if id == g.Player.Floor {
			lines = append(lines, styleSelected.Render("> "+line+"（目前）"))
		} else {
			lines = append(lines, styleText.Render("  "+line))
		}
	}
	return box("大樓地圖", lines...)
}

func terminalPanel(g *engine.Game) string {
	s := g.Progress.Stats
	stats := styleDim.Render(fmt.Sprintf("等級 %d  HP %d/%d", s.Level, s.HP, s.MaxHP))
	if g.Mode() == types.ModeVictory {
		return box("勝利！", styleText.Render("你找到了解藥，成功活了下來。"), stats, styleSelected.Render("按 R 重新開始"))
	}
	return box("遊戲結束", styleWarn.Render("你倒在了大樓裡……"), stats, styleSelected.Render("按 R 重新開始"))
}

func debugPanel(g *engine.Game) string {
	p := g.Player
	lines := []string{
		fmt.Sprintf("mode %s  overlay %s", g.Mode(), g.Overlay()),
		fmt.Sprintf("floor %d  pos (%d,%d)  %s", p.Floor, p.Pos.X, p.Pos.Y, p.Facing),
		fmt.Sprintf("invuln %d  frame %d  rng %d", p.InvulnerableFrames(), g.FrameCount(), g.RNGPosition()),
	}
	evs := g.RecentEvents()
	if len(evs) > 4 {
		evs = evs[len(evs)-4:]
	}
	for _, e := range evs {
		lines = append(lines, styleDim.Render(e.String()))
	}
	return box("除錯", lines...)
}

// introView is the character select screen.
func introView(g *engine.Game, width int) string {
	defs := g.Defs()
	parts := []string{styleTitle.Render(defs.Game.Title), ""}
	if defs.Game.Intro != "" {
		parts = append(parts, styleDim.Render(defs.Game.Intro), "")
	}
	parts = append(parts, styleText.Render("選擇角色"), "")

	cards := make([]string, 0, len(g.Characters()))
	for i, ch := range g.Characters() {
		card := []string{
			fmt.Sprintf("%d. %s", i+1, ch.Name),
			fmt.Sprintf("HP %d", ch.HP),
			fmt.Sprintf("攻擊 %d 防禦 %d", ch.Attack, ch.Defense),
			fmt.Sprintf("速度 %d", ch.Speed),
		}
		st := stylePanel.Width(20)
		if i == g.CharacterIndex() {
			st = st.BorderForeground(lipgloss.Color("220"))
		}
		cards = append(cards, st.Render(strings.Join(card, "\n")))
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, cards...), "")
	parts = append(parts, styleDim.Render("←/→ 或 1-3 選擇角色，空白鍵開始"))

	return lipgloss.PlaceHorizontal(max(width, 1), lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}
