// Package combat implements the turn-based fight between the player and
// one enemy. The mode controller owns the session and applies its result.
package combat

import (
	"fmt"

	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/engine/state"
	"github.com/nathoo/antidote/types"
)

// Log sizes.
const (
	LogKeep    = 10
	LogVisible = 8
)

// DefendHeal is the HP restored by the defend action.
const DefendHeal = 5

const (
	shakeFrames    = 12
	shakeIntensity = 6
	flashFrames    = 10
)

// State is the session state.
type State int

const (
	Inactive State = iota
	PlayerTurn
	EnemyTurn
	Resolved
)

func (s State) String() string {
	switch s {
	case PlayerTurn:
		return "player_turn"
	case EnemyTurn:
		return "enemy_turn"
	case Resolved:
		return "resolved"
	}
	return "inactive"
}

// Result is how a session ended.
type Result int

const (
	None Result = iota
	Win
	Lose
	Escape
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Escape:
		return "escape"
	}
	return "none"
}

// Action is a player command.
type Action int

const (
	Attack Action = iota + 1
	Defend
	Flee
)

// Config holds the combat tunables.
type Config struct {
	EscapeChance float64
	EnemyDelay   int // frames before the enemy acts
}

// Enemy is the session's private copy of an archetype.
type Enemy struct {
	types.EnemyDef
	MaxHP int
}

// Session is one fight.
type Session struct {
	Enemy  Enemy
	Floor  int
	ZoneID string // empty for random encounters

	state     State
	result    Result
	log       []string
	defending bool
	delay     int
	shake     int
	flash     int
	sounds    []string

	cfg      Config
	rng      *rng.RNG
	progress *state.Progress
}

// Start copies the archetype and opens a session on the player's turn.
func Start(def types.EnemyDef, floor int, zoneID string, cfg Config, r *rng.RNG, p *state.Progress) *Session {
	s := &Session{
		Enemy:    Enemy{EnemyDef: def, MaxHP: def.HP},
		Floor:    floor,
		ZoneID:   zoneID,
		state:    PlayerTurn,
		cfg:      cfg,
		rng:      r,
		progress: p,
	}
	msg := fmt.Sprintf("遭遇了 %s！", def.Name)
	s.logf("%s", msg)
	p.Push(msg)
	return s
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Result returns the outcome, None while the fight continues.
func (s *Session) Result() Result { return s.result }

// Done reports whether a result is set.
func (s *Session) Done() bool { return s.result != None }

// Defending reports whether the next enemy hit meets doubled defense.
func (s *Session) Defending() bool { return s.defending }

// Act performs a player action. It is ignored unless it is the player's turn.
func (s *Session) Act(a Action) bool {
	if s.state != PlayerTurn {
		return false
	}
	switch a {
	case Attack:
		s.attack()
	case Defend:
		s.defend()
	case Flee:
		s.flee()
	default:
		return false
	}
	return true
}

func (s *Session) attack() {
	atk := s.progress.Stats.Attack
	roll := s.rng.Range(atk-2, atk+4)
	dmg := roll - s.Enemy.Defense
	if dmg < 1 {
		dmg = 1
	}
	s.Enemy.HP -= dmg
	if s.Enemy.HP < 0 {
		s.Enemy.HP = 0
	}
	s.shake = shakeFrames
	s.sounds = append(s.sounds, "combat_hit")
	s.logf("你攻擊了 %s，造成 %d 傷害", s.Enemy.Name, dmg)

	if s.Enemy.HP <= 0 {
		s.resolve(Win)
		s.logf("擊敗了 %s！", s.Enemy.Name)
		return
	}
	s.enemyTurn()
}

func (s *Session) defend() {
	s.defending = true
	healed := s.progress.Heal(DefendHeal)
	s.sounds = append(s.sounds, "combat_defend")
	if healed > 0 {
		s.logf("你進入防禦姿態，恢復 %d HP", healed)
	} else {
		s.logf("你進入防禦姿態")
	}
	s.enemyTurn()
}

func (s *Session) flee() {
	if s.rng.Chance(s.cfg.EscapeChance) {
		s.logf("成功逃脫！")
		s.resolve(Escape)
		return
	}
	s.sounds = append(s.sounds, "error")
	s.logf("逃跑失敗！")
	s.enemyTurn()
}

func (s *Session) enemyTurn() {
	s.state = EnemyTurn
	s.delay = s.cfg.EnemyDelay
}

// Update runs one frame: decays animations and, after the delay, plays the
// enemy's turn.
func (s *Session) Update() {
	if s.shake > 0 {
		s.shake--
	}
	if s.flash > 0 {
		s.flash--
	}
	if s.state != EnemyTurn {
		return
	}
	if s.delay > 0 {
		s.delay--
		return
	}

	def := s.progress.Stats.Defense
	if s.defending {
		def *= 2
		s.defending = false
	}
	dmg := s.progress.DamageWithDefense(s.Enemy.Attack, def)
	s.flash = flashFrames
	s.sounds = append(s.sounds, "combat_hit")
	s.logf("%s 攻擊了你，造成 %d 傷害", s.Enemy.Name, dmg)

	if s.progress.Dead() {
		s.logf("你倒下了……")
		s.resolve(Lose)
		return
	}
	s.state = PlayerTurn
}

func (s *Session) resolve(r Result) {
	s.result = r
	s.state = Resolved
}

// Log returns the visible tail of the combat log.
func (s *Session) Log() []string {
	start := 0
	if len(s.log) > LogVisible {
		start = len(s.log) - LogVisible
	}
	out := make([]string, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}

// Shake returns the screen offset for the hit animation.
func (s *Session) Shake() (dx, dy int) {
	if s.shake == 0 {
		return 0, 0
	}
	amp := shakeIntensity * s.shake / shakeFrames
	if amp == 0 {
		amp = 1
	}
	if s.shake%2 == 0 {
		return amp, -amp / 2
	}
	return -amp, amp / 2
}

// Flashing reports whether the player was just hit.
func (s *Session) Flashing() bool { return s.flash > 0 }

// DrainSounds returns and clears the queued sound effect names.
func (s *Session) DrainSounds() []string {
	out := s.sounds
	s.sounds = nil
	return out
}

func (s *Session) logf(format string, args ...any) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
	if len(s.log) > LogKeep {
		s.log = s.log[len(s.log)-LogKeep:]
	}
}
