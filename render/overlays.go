package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/combat"
	"github.com/nathoo/antidote/types"
)

func (r *Renderer) drawIntro(c Canvas, g *engine.Game) {
	c.Fill(colBlack)
	defs := g.Defs()

	centered(c, defs.Game.Title, 90, sizeHuge, colHighlight, true)
	if defs.Game.Intro != "" {
		centered(c, defs.Game.Intro, 170, sizeBody, colGrey, false)
	}
	centered(c, "選擇角色", 240, sizeTitle, colWhite, true)

	chars := g.Characters()
	const cardW, cardH, gap = 220, 280, 30
	total := len(chars)*cardW + (len(chars)-1)*gap
	x0 := (types.ScreenWidth - total) / 2

	for i, ch := range chars {
		x := x0 + i*(cardW+gap)
		card := image.Rect(x, 300, x+cardW, 300+cardH)
		panel(c, card)
		if i == g.CharacterIndex() {
			c.StrokeRect(card.Inset(-4), colHighlight, 3)
		}

		body := image.Rect(x+cardW/2-32, 320, x+cardW/2+32, 384)
		if img, ok := r.sprites.Player(ch.ID, types.DirDown); ok {
			c.DrawImage(img, body)
		} else {
			c.FillRect(body, ch.Color)
		}

		lines := []string{
			fmt.Sprintf("%d. %s", i+1, ch.Name),
			fmt.Sprintf("HP %d", ch.HP),
			fmt.Sprintf("攻擊 %d  防禦 %d", ch.Attack, ch.Defense),
			fmt.Sprintf("速度 %d", ch.Speed),
		}
		for j, l := range lines {
			size := float64(sizeBody)
			if j == 0 {
				size = sizeTitle - 6
			}
			c.Text(l, image.Pt(x+20, 400+j*32), size, colWhite, j == 0)
		}
	}

	centered(c, "←/→ 或 1-3 選擇角色，空白鍵開始", 640, sizeBody, colGrey, false)
}

func (r *Renderer) drawHUD(c Canvas, g *engine.Game) {
	s := g.Progress.Stats
	box := image.Rect(types.ScreenWidth-250, 8, types.ScreenWidth-8, 150)
	panel(c, box)

	x, y := box.Min.X+12, box.Min.Y+10
	c.Text(fmt.Sprintf("%s  Lv.%d", g.Player.Profile.Name, s.Level), image.Pt(x, y), sizeBody, colWhite, true)

	bar(c, image.Rect(x, y+28, box.Max.X-12, y+42), s.HP, s.MaxHP, colHP, colHPBack)
	c.Text(hpText(s), image.Pt(x, y+44), sizeSmall, colWhite, false)

	need := s.Level * 100
	bar(c, image.Rect(x, y+64, box.Max.X-12, y+74), s.EXP, need, colEXP, colEXPBack)
	c.Text(fmt.Sprintf("EXP %d/%d  攻 %d 防 %d", s.EXP, need, s.Attack, s.Defense), image.Pt(x, y+76), sizeSmall, colWhite, false)

	sound := fmt.Sprintf("%s  音樂:%s 音效:%s", g.CurrentFloor().Name, onOff(g.MusicEnabled()), onOff(g.SFXEnabled()))
	c.Text(sound, image.Pt(x, y+96), sizeSmall, colGrey, false)
	c.Text(flagIcons(g), image.Pt(x, y+114), sizeSmall, colHighlight, false)

	c.Text(controlHints(g), image.Pt(12, types.ScreenHeight-24), sizeSmall, colGrey, false)
}

func onOff(on bool) string {
	if on {
		return "開"
	}
	return "關"
}

// flagIcons summarises story progress on one line.
func flagIcons(g *engine.Game) string {
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

func controlHints(g *engine.Game) string {
	switch {
	case g.Mode().Terminal():
		return "R 重新開始"
	case g.Overlay() == engine.OverlayInventory:
		return "1-9 使用物品  I 關閉  Esc 返回"
	case g.Overlay() == engine.OverlayMap:
		return "M 關閉  Esc 返回"
	case g.Mode() == types.ModeDialogue:
		return "1-3 選擇  ↑/↓ 移動  空白鍵 確認  Esc 離開"
	case g.Mode() == types.ModeCombat:
		return "1 攻擊  2 防禦  3 逃跑  Esc 返回"
	}
	return "方向鍵 移動  空白鍵 互動  I 背包  M 地圖  Esc 重置"
}

func (r *Renderer) drawMessages(c Canvas, g *engine.Game) {
	msgs := g.Progress.Messages()
	if len(msgs) == 0 {
		return
	}
	h := len(msgs)*26 + 16
	box := image.Rect(16, 8, 620, 8+h)
	panel(c, box)
	for i, m := range msgs {
		c.Text(m.Text, image.Pt(box.Min.X+12, box.Min.Y+8+i*26), sizeBody, colWhite, false)
	}
}

func (r *Renderer) drawDialogue(c Canvas, g *engine.Game) {
	s := g.Dialogue()
	if s == nil {
		return
	}
	box := image.Rect(64, 480, types.ScreenWidth-64, 720)
	panel(c, box)

	x, y := box.Min.X+20, box.Min.Y+16
	c.Text(s.Speaker(), image.Pt(x, y), sizeTitle-4, colHighlight, true)
	c.Text(s.Prompt(), image.Pt(x, y+36), sizeBody, colWhite, false)

	if s.TextOnly() {
		c.Text("（空白鍵關閉）", image.Pt(x, y+80), sizeBody, colGrey, false)
		return
	}
	for i, ch := range s.Choices() {
		col := colWhite
		line := fmt.Sprintf("%d. %s", i+1, ch.Option.Text)
		if i == s.Selected() {
			col = colHighlight
			line = "> " + line
		} else {
			line = "  " + line
		}
		c.Text(line, image.Pt(x, y+80+i*30), sizeBody, col, i == s.Selected())
	}
}

func (r *Renderer) drawCombat(c Canvas, g *engine.Game) {
	f := g.Combat()
	if f == nil {
		return
	}
	dx, dy := f.Shake()
	box := image.Rect(112+dx, 96+dy, types.ScreenWidth-112+dx, 640+dy)
	panel(c, box)
	if f.Flashing() {
		c.FillRect(box, colFlash)
	}

	x, y := box.Min.X+24, box.Min.Y+20
	title := "戰鬥"
	if f.Enemy.Boss {
		title = "頭目戰"
	}
	c.Text(title, image.Pt(x, y), sizeTitle, colHighlight, true)

	// Enemy.
	c.Text(f.Enemy.Name, image.Pt(x, y+50), sizeBody, colWhite, true)
	bar(c, image.Rect(x, y+76, x+300, y+92), f.Enemy.HP, f.Enemy.MaxHP, colHP, colHPBack)
	c.Text(fmt.Sprintf("HP %d/%d", f.Enemy.HP, f.Enemy.MaxHP), image.Pt(x+310, y+74), sizeSmall, colWhite, false)

	// Player.
	s := g.Progress.Stats
	px := box.Max.X - 340
	c.Text(g.Player.Profile.Name, image.Pt(px, y+50), sizeBody, colWhite, true)
	bar(c, image.Rect(px, y+76, px+220, y+92), s.HP, s.MaxHP, colHP, colHPBack)
	status := hpText(s)
	if f.Defending() {
		status += "  防禦中"
	}
	c.Text(status, image.Pt(px+230, y+74), sizeSmall, colWhite, false)

	// Log.
	for i, line := range f.Log() {
		c.Text(line, image.Pt(x, y+120+i*28), sizeBody, colWhite, false)
	}

	var prompt string
	switch {
	case f.Done():
		prompt = combatOutcome(f.Result()) + "（按 1-3 繼續）"
	case f.State() == combat.EnemyTurn:
		prompt = "敵人行動中……"
	default:
		prompt = "1. 攻擊   2. 防禦   3. 逃跑"
	}
	c.Text(prompt, image.Pt(x, box.Max.Y-44), sizeBody, colHighlight, true)
}

func combatOutcome(r combat.Result) string {
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

func (r *Renderer) drawInventory(c Canvas, g *engine.Game) {
	box := image.Rect(192, 120, types.ScreenWidth-192, 620)
	panel(c, box)

	x, y := box.Min.X+24, box.Min.Y+20
	inv := g.Inventory
	c.Text(fmt.Sprintf("背包 (%d/%d)", inv.Len(), inv.Capacity()), image.Pt(x, y), sizeTitle, colHighlight, true)

	items := inv.Items()
	if len(items) == 0 {
		c.Text("背包是空的", image.Pt(x, y+60), sizeBody, colGrey, false)
		return
	}
	for i, it := range items {
		row := y + 56 + i*40
		col, ok := itemColors[it.Type]
		if !ok {
			col = colWhite
		}
		if img, ok := r.sprites.Item(it.Type); ok {
			c.DrawImage(img, image.Rect(x, row, x+24, row+24))
		} else {
			c.Circle(image.Pt(x+12, row+12), 10, col)
		}
		c.Text(fmt.Sprintf("%d. %s", i+1, it.Name), image.Pt(x+40, row), sizeBody, colWhite, false)
		if it.Description != "" {
			c.Text(it.Description, image.Pt(x+260, row+2), sizeSmall, colGrey, false)
		}
	}
}

// drawMap draws every floor as a miniature, highlighting the current one.
func (r *Renderer) drawMap(c Canvas, g *engine.Game) {
	box := image.Rect(64, 100, types.ScreenWidth-64, 640)
	panel(c, box)
	c.Text("大樓地圖", image.Pt(box.Min.X+24, box.Min.Y+16), sizeTitle, colHighlight, true)

	defs := g.Defs()
	ids := g.World.FloorIDs()
	if len(ids) == 0 {
		return
	}

	const scale = 4 // 1024 / 4 = 256 px per miniature
	mw, mh := types.ScreenWidth/scale, types.ScreenHeight/scale
	gap := (box.Dx() - len(ids)*mw) / (len(ids) + 1)
	top := box.Min.Y + 90

	for i, id := range ids {
		floor := defs.Floors[id]
		x := box.Min.X + gap + i*(mw+gap)
		mini := image.Rect(x, top, x+mw, top+mh)
		c.FillRect(mini, floor.Background)

		scaled := func(a types.Rect) image.Rectangle {
			return image.Rect(x+a.X/scale, top+a.Y/scale, x+(a.X+a.W)/scale, top+(a.Y+a.H)/scale)
		}
		for _, in := range floor.Interactables {
			col := colShop
			switch in.Kind {
			case types.KindNPC:
				col = colNPC
			case types.KindStairs:
				col = colStairs
			}
			c.FillRect(scaled(in.Area), col)
		}
		for _, it := range g.World.Items(id) {
			c.Circle(image.Pt(x+it.At.X/scale, top+it.At.Y/scale), 2, itemColors[it.Item.Type])
		}

		border, label := colGrey, floor.Name
		if id == g.Player.Floor {
			border = colHighlight
			p := g.Player.Pos
			c.Circle(image.Pt(x+(p.X+types.TileSize/2)/scale, top+(p.Y+types.TileSize/2)/scale), 4, colWhite)
			label += "（目前）"
		}
		c.StrokeRect(mini, border, 2)
		c.Text(label, image.Pt(x, top+mh+10), sizeBody, border, id == g.Player.Floor)
	}
}

func (r *Renderer) drawTerminal(c Canvas, g *engine.Game) {
	c.FillRect(c.Bounds(), colShade)
	if g.Mode() == types.ModeVictory {
		centered(c, "勝利！", 260, sizeHuge, colHighlight, true)
		centered(c, "你找到了解藥，成功活了下來。", 340, sizeBody, colWhite, false)
	} else {
		centered(c, "遊戲結束", 260, sizeHuge, colHP, true)
		centered(c, "你倒在了大樓裡……", 340, sizeBody, colWhite, false)
	}
	s := g.Progress.Stats
	centered(c, fmt.Sprintf("等級 %d  %s", s.Level, hpText(s)), 390, sizeBody, colGrey, false)
	centered(c, "按 R 重新開始", 450, sizeTitle-4, colWhite, true)
}

func (r *Renderer) drawDebug(c Canvas, g *engine.Game) {
	box := image.Rect(16, 380, 520, 740)
	panel(c, box)

	p := g.Player
	lines := []string{
		fmt.Sprintf("mode %s  overlay %s", g.Mode(), g.Overlay()),
		fmt.Sprintf("floor %d  pos (%d,%d)  facing %s", p.Floor, p.Pos.X, p.Pos.Y, p.Facing),
		fmt.Sprintf("moving %v  invuln %d", p.Moving(), p.InvulnerableFrames()),
		fmt.Sprintf("frame %d  fps %.1f  rng %d", g.FrameCount(), r.fps, g.RNGPosition()),
	}
	evs := g.RecentEvents()
	if len(evs) > 6 {
		evs = evs[len(evs)-6:]
	}
	for _, e := range evs {
		lines = append(lines, e.String())
	}
	for i, l := range lines {
		c.Text(l, image.Pt(box.Min.X+10, box.Min.Y+10+i*24), sizeSmall, colWhite, false)
	}
}
