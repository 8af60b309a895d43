package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/engine/save"
	"github.com/nathoo/antidote/types"
)

// Asset reload groups bound to F3..F5.
const (
	ReloadStairs = "stairs"
	ReloadFloor  = "floor"
	ReloadShops  = "shops"
)

// handleDevKey dispatches F1..F11.
func (g *Game) handleDevKey(n int) {
	switch n {
	case 1:
		g.debug = !g.debug
		g.Progress.Push(onOff("除錯模式", g.debug))
	case 2:
		g.forceExploration("強制重置完成")
		g.log.Info("forced reset", "frame", g.frame)
	case 3:
		g.reload(ReloadStairs)
	case 4:
		g.reload(ReloadFloor)
	case 5:
		g.reload(ReloadShops)
	case 6:
		g.logDiagnostics()
		g.Progress.Push("除錯資訊已寫入日誌")
	case 7:
		g.showZones = !g.showZones
		g.Progress.Push(onOff("危險區域顯示", g.showZones))
	case 8:
		on := g.audio.ToggleMusic()
		if on {
			mode := g.music
			g.music = ""
			g.playMusic(mode, !g.mode.Terminal())
		} else {
			g.audio.StopMusic(musicFade)
		}
		g.Progress.Push(onOff("音樂", on))
	case 9:
		g.Progress.Push(onOff("音效", g.audio.ToggleSFX()))
	case 10:
		ctx, cancel := context.WithTimeout(context.Background(), saveWait)
		defer cancel()
		g.Save(ctx)
	case 11:
		ctx, cancel := context.WithTimeout(context.Background(), saveWait)
		defer cancel()
		g.Load(ctx)
	}
}

func onOff(what string, on bool) string {
	if on {
		return what + "：開"
	}
	return what + "：關"
}

func (g *Game) reload(group string) {
	if g.reloader == nil {
		g.Progress.Push("無法重新載入圖片")
		return
	}
	if err := g.reloader.Reload(group); err != nil {
		g.log.Warn("asset reload failed", "group", group, "err", err)
		g.Progress.Push("重新載入失敗：" + group)
		return
	}
	g.log.Info("assets reloaded", "group", group)
	g.Progress.Push("已重新載入：" + group)
}

// logDiagnostics writes the full run state to the log.
func (g *Game) logDiagnostics() {
	recent := g.recorder.Events()
	lines := make([]string, len(recent))
	for i, e := range recent {
		lines[i] = e.String()
	}
	g.log.Info("diagnostics",
		"frame", g.frame,
		"mode", g.mode.String(),
		"overlay", g.overlay.String(),
		"floor", g.Player.Floor,
		"pos", fmt.Sprintf("%d,%d", g.Player.Pos.X, g.Player.Pos.Y),
		"moving", g.Player.Moving(),
		"invulnerable", g.Player.InvulnerableFrames(),
		"stats", fmt.Sprintf("%+v", g.Progress.Stats),
		"flags", g.Progress.Flags(),
		"inventory", len(g.Inventory.Items()),
		"collected", g.World.CollectedIDs(),
		"consumed_zones", g.World.ConsumedZones(),
		"rng_seed", g.rng.Seed(),
		"rng_position", g.rng.Position(),
		"events", lines,
	)
}

// Save writes the progress snapshot. Failures are reported to the player
// and logged; the run continues.
func (g *Game) Save(ctx context.Context) bool {
	if g.store == nil {
		g.Progress.Push("存檔功能未啟用")
		return false
	}
	snap := save.New(g.Progress.Stats, g.Progress.Flags(), g.mode, g.clock.Now())
	snap.Character = g.Player.Profile.ID
	snap.Floor = g.Player.Floor
	snap.RNGSeed = g.rng.Seed()
	snap.RNGPosition = g.rng.Position()
	if err := g.store.Save(ctx, snap); err != nil {
		g.log.Error("save failed", "err", err)
		g.Progress.Push("存檔失敗")
		return false
	}
	g.log.Info("saved", "id", snap.ID, "mode", snap.Mode)
	g.Progress.Push("已存檔")
	g.emit(events.Saved, map[string]any{"id": snap.ID})
	return true
}

// Load restores stats, flags and mode from the snapshot in place.
// Dialogue and combat cannot be resumed and load into exploration.
func (g *Game) Load(ctx context.Context) bool {
	if g.store == nil {
		g.Progress.Push("存檔功能未啟用")
		return false
	}
	snap, err := g.store.Load(ctx)
	if err != nil {
		if errors.Is(err, save.ErrNoSnapshot) {
			g.Progress.Push("沒有存檔")
		} else {
			g.log.Error("load failed", "err", err)
			g.Progress.Push("讀檔失敗")
		}
		return false
	}

	g.abandon()
	g.overlay = OverlayNone
	g.Player.Cancel()

	for i, c := range g.defs.Characters {
		if snap.Character != "" && c.ID == snap.Character && i != g.charIndex {
			g.charIndex = i
			g.Player.Profile = c
		}
	}
	if f, ok := g.World.Floor(snap.Floor); ok && f.ID != g.Player.Floor {
		g.Player.Teleport(f.ID, f.Spawn)
	}
	g.Progress.Stats = snap.PlayerStats
	if dropped := g.Progress.ReplaceFlags(snap.TypedFlags()); len(dropped) > 0 {
		g.log.Warn("snapshot flags dropped", "flags", dropped)
	}
	if snap.RNGSeed != 0 {
		g.rng = rng.Restore(snap.RNGSeed, snap.RNGPosition)
		g.Progress.SetRNG(g.rng)
	}
	g.zones.Observe(g.World, g.Player.Floor, g.Player.Pos)

	mode := snap.GameMode()
	switch mode {
	case types.ModeIntro, types.ModeDialogue, types.ModeCombat:
		mode = types.ModeExploration
	}
	g.setMode(mode)
	g.log.Info("loaded", "id", snap.ID, "mode", mode.String(), "rng_position", g.rng.Position())
	g.Progress.ClearMessages()
	g.Progress.Push("已讀取存檔")
	g.emit(events.Loaded, map[string]any{"id": snap.ID})
	return true
}
