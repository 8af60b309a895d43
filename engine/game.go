// Package engine provides the mode controller: it owns the game-mode state
// machine, routes input per mode, gates the world simulation behind the
// overlays and orchestrates dialogue, combat and the world into one frame.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nathoo/antidote/audio"
	"github.com/nathoo/antidote/clock"
	"github.com/nathoo/antidote/config"
	"github.com/nathoo/antidote/engine/combat"
	"github.com/nathoo/antidote/engine/dialogue"
	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/engine/inventory"
	"github.com/nathoo/antidote/engine/player"
	"github.com/nathoo/antidote/engine/resolve"
	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/engine/save"
	"github.com/nathoo/antidote/engine/state"
	"github.com/nathoo/antidote/engine/world"
	"github.com/nathoo/antidote/logging"
	"github.com/nathoo/antidote/types"
)

// TPS is the target number of updates per second.
const TPS = 60

// recentEvents is how many transitions the debug overlay keeps.
const recentEvents = 12

const (
	musicFade = 500 * time.Millisecond
	saveWait  = 2 * time.Second
)

// Overlay is the modal overlay shown over exploration.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayInventory
	OverlayMap
)

func (o Overlay) String() string {
	switch o {
	case OverlayInventory:
		return "inventory"
	case OverlayMap:
		return "map"
	}
	return "none"
}

// Reloader re-reads a group of assets from disk.
type Reloader interface {
	Reload(group string) error
}

// Options configures a Game. Only Defs is required.
type Options struct {
	Defs     *types.Defs
	Config   *config.Config
	Clock    clock.Clock
	Audio    audio.Service
	Store    save.Store
	Reloader Reloader
	Logger   *slog.Logger
	Seed     int64 // 0 seeds from the clock
}

// Game is the mode controller. It exclusively owns the player, progress,
// inventory and world; other components receive references and mutate
// them only within their contracts.
type Game struct {
	Player    *player.Player
	Progress  *state.Progress
	Inventory *inventory.Inventory
	World     *world.World

	defs     *types.Defs
	cfg      *config.Config
	clock    clock.Clock
	audio    audio.Service
	store    save.Store
	reloader Reloader
	log      *slog.Logger
	rng      *rng.RNG

	mode      types.Mode
	overlay   Overlay
	charIndex int
	selecting bool

	dialogue *dialogue.Engine
	session  *dialogue.Session
	fight    *combat.Session
	zones    resolve.ZoneTracker

	lastInteract time.Time
	frame        uint64
	music        string

	bus       *events.Bus
	recorder  *events.Recorder
	debug     bool
	showZones bool
}

// New creates a game on the intro screen.
func New(opts Options) (*Game, error) {
	defs := opts.Defs
	if defs == nil {
		return nil, errors.New("engine: no content definitions")
	}
	if len(defs.Characters) == 0 {
		return nil, errors.New("engine: content defines no characters")
	}
	if _, ok := defs.Floors[defs.Game.StartFloor]; !ok {
		return nil, fmt.Errorf("engine: start floor %d is not defined", defs.Game.StartFloor)
	}

	g := &Game{
		defs:     defs,
		cfg:      opts.Config,
		clock:    opts.Clock,
		audio:    opts.Audio,
		store:    opts.Store,
		reloader: opts.Reloader,
		log:      opts.Logger,
		bus:      events.NewBus(),
		recorder: events.NewRecorder(recentEvents),
	}
	if g.cfg == nil {
		g.cfg = config.Default()
	}
	if g.clock == nil {
		g.clock = clock.New()
	}
	if g.audio == nil {
		g.audio = audio.NewSilent()
	}
	if g.log == nil {
		g.log = logging.Discard()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = g.clock.Now().UnixNano()
	}
	g.rng = rng.New(seed)
	g.showZones = g.cfg.Debug.ShowCombatZones

	if id := g.cfg.Game.Character; id != "" {
		for i, c := range defs.Characters {
			if c.ID == id {
				g.charIndex = i
			}
		}
	}
	profile := defs.Characters[g.charIndex]
	start := defs.Floors[defs.Game.StartFloor]

	g.Player = player.New(profile, start.Spawn, start.ID)
	g.Progress = state.New(player.BaseStats(profile), g.stateConfig(), g.rng)
	g.Inventory = inventory.New(g.cfg.Gameplay.InventoryCapacity)
	g.World = world.New(defs.Floors)
	g.dialogue = dialogue.New(defs.Dialogues)

	g.bus.Subscribe(g.recorder.Record)
	g.bus.Subscribe(func(e events.Event) {
		g.log.Debug("transition", "event", string(e.Type), "frame", e.Frame, "data", e.Data)
	})

	g.log.Info("game created", "seed", seed, "character", profile.ID, "floors", len(defs.Floors))
	return g, nil
}

func (g *Game) stateConfig() state.Config {
	gp := g.cfg.Gameplay
	return state.Config{
		MessageTTL:        gp.MessageTTLFrames,
		EncounterChance:   gp.EncounterChance,
		EncounterInterval: gp.EncounterInterval,
	}
}

// Start begins playback of the intro screen.
func (g *Game) Start() {
	g.playMusic(audio.MusicIntro, true)
}

// Close stops audio and releases the device.
func (g *Game) Close() error {
	g.audio.StopMusic(0)
	return g.audio.Close()
}

// Subscribe registers a transition hook.
func (g *Game) Subscribe(h events.Handler) {
	g.bus.Subscribe(h)
}

// Frame drains the input events in arrival order, then runs one update.
func (g *Game) Frame(evs []input.Event) {
	for _, ev := range evs {
		g.HandleKey(ev)
	}
	g.Update()
}

// SafeFrame runs Frame and converts a panic into an error, logging the
// stack, so the frontend can shut audio and video down cleanly.
func (g *Game) SafeFrame(evs []input.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("frame panicked", "frame", g.frame, "mode", g.mode.String(),
				"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err = fmt.Errorf("frame %d: panic: %v", g.frame, r)
		}
	}()
	g.Frame(evs)
	return nil
}

// Update runs one frame of simulation.
func (g *Game) Update() {
	g.frame++

	// 1. Snap inconsistent state back to exploration.
	g.repairDrift()

	// 2. Age the message banner.
	g.Progress.TickMessages()

	// 3. Per-mode update. Dialogue has no per-frame work.
	switch g.mode {
	case types.ModeExploration:
		g.updateExploration()
	case types.ModeCombat:
		g.updateCombat()
	}
}

func (g *Game) updateCombat() {
	if g.fight == nil {
		return
	}
	g.fight.Update()
	for _, name := range g.fight.DrainSounds() {
		g.audio.PlaySFX(name)
	}
	if g.fight.Done() {
		g.finishCombat()
	}
}

// repairDrift detects a mode that disagrees with the open overlay or
// session and forces exploration.
func (g *Game) repairDrift() {
	var reason string
	switch {
	case g.overlay != OverlayNone && g.mode != types.ModeExploration:
		reason = "overlay open outside exploration"
	case g.mode == types.ModeDialogue && g.session == nil:
		reason = "dialogue mode without a session"
	case g.mode == types.ModeCombat && g.fight == nil:
		reason = "combat mode without a session"
	default:
		return
	}
	g.log.Warn("state drift repaired", "reason", reason, "mode", g.mode.String(), "overlay", g.overlay.String())
	g.overlay = OverlayNone
	g.session = nil
	g.fight = nil
	g.Player.Cancel()
	g.setMode(types.ModeExploration)
	g.emit(events.DriftRepaired, map[string]any{"reason": reason})
}

func (g *Game) setMode(m types.Mode) {
	if g.mode == m {
		return
	}
	from := g.mode
	g.mode = m
	g.emit(events.ModeChanged, map[string]any{"from": from.String(), "to": m.String()})
	g.playMusic(audio.ForMode(m.String()), !m.Terminal())
}

func (g *Game) playMusic(mode string, loop bool) {
	if g.music == mode {
		return
	}
	g.music = mode
	if !g.audio.MusicEnabled() {
		return
	}
	g.audio.PlayMusic(mode, loop, musicFade)
}

func (g *Game) sfx(names ...string) {
	for _, n := range names {
		g.audio.PlaySFX(n)
	}
}

func (g *Game) emit(t events.Type, data map[string]any) {
	g.bus.Emit(events.Event{Type: t, Frame: g.frame, Data: data})
}

// Restart discards the run and returns to the intro screen with fresh
// state. The random source keeps running.
func (g *Game) Restart() {
	profile := g.defs.Characters[g.charIndex]
	start := g.defs.Floors[g.defs.Game.StartFloor]

	g.Progress.Reset(player.BaseStats(profile))
	g.Inventory.Clear()
	g.World.Reset()
	g.Player.Reset(profile, start.Spawn, start.ID)
	g.overlay = OverlayNone
	g.session = nil
	g.fight = nil
	g.zones.Reset()
	g.lastInteract = time.Time{}
	g.selecting = false

	g.emit(events.Restarted, nil)
	g.setMode(types.ModeIntro)
	g.log.Info("run restarted", "character", profile.ID)
}

// Mode returns the active top-level mode.
func (g *Game) Mode() types.Mode { return g.mode }

// Overlay returns the open modal overlay.
func (g *Game) Overlay() Overlay { return g.overlay }

// Dialogue returns the open dialogue session, or nil.
func (g *Game) Dialogue() *dialogue.Session { return g.session }

// Combat returns the running combat session, or nil.
func (g *Game) Combat() *combat.Session { return g.fight }

// Defs returns the content definitions.
func (g *Game) Defs() *types.Defs { return g.defs }

// Characters returns the selectable presets.
func (g *Game) Characters() []types.CharacterProfile { return g.defs.Characters }

// CharacterIndex returns the selected preset.
func (g *Game) CharacterIndex() int { return g.charIndex }

// CurrentFloor returns the definition of the player's floor.
func (g *Game) CurrentFloor() types.FloorDef {
	f, _ := g.World.Floor(g.Player.Floor)
	return f
}

// FrameCount returns the number of updates run so far.
func (g *Game) FrameCount() uint64 { return g.frame }

// Debug reports whether the debug overlay is on.
func (g *Game) Debug() bool { return g.debug }

// ShowZones reports whether combat zones are drawn.
func (g *Game) ShowZones() bool { return g.showZones }

// RecentEvents returns the last transitions, oldest first.
func (g *Game) RecentEvents() []events.Event { return g.recorder.Events() }

// MusicEnabled reports the music toggle for the HUD.
func (g *Game) MusicEnabled() bool { return g.audio.MusicEnabled() }

// SFXEnabled reports the sound-effect toggle for the HUD.
func (g *Game) SFXEnabled() bool { return g.audio.SFXEnabled() }

// RNGPosition returns how many values the random source has produced.
func (g *Game) RNGPosition() int64 { return g.rng.Position() }
