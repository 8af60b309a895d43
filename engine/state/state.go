// Package state manages the player's progress: stats and leveling, the
// story flag vocabulary, the transient message queue and the random
// encounter gate.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/types"
)

// MaxMessages is how many recent messages are kept visible.
const MaxMessages = 3

// Level-up bonus ranges (inclusive).
const (
	bonusMaxHPMin  = 5
	bonusMaxHPMax  = 15
	bonusAttackMin = 1
	bonusAttackMax = 3
	bonusDefMin    = 1
	bonusDefMax    = 2
)

// Victory thresholds.
const (
	VictoryLevel = 3
	VictoryHP    = 50
)

// ErrUnknownFlag is returned when writing a flag outside the vocabulary.
var ErrUnknownFlag = errors.New("unknown progress flag")

// Message is a player-visible line with a remaining lifetime in frames.
// Seq increases with every push for the life of the Progress.
type Message struct {
	Text string
	TTL  int
	Seq  uint64
}

// Config holds the tunables the progress state needs.
type Config struct {
	MessageTTL        int // frames
	EncounterChance   float64
	EncounterInterval time.Duration
}

// Progress is the mutable progress state owned by the mode controller.
type Progress struct {
	Stats         types.Stats
	LastEncounter time.Time

	flags    map[types.Flag]bool
	messages []Message
	seq      uint64
	cfg      Config
	rng      *rng.RNG
}

// New creates progress for a fresh run with the given base stats.
func New(base types.Stats, cfg Config, r *rng.RNG) *Progress {
	p := &Progress{cfg: cfg, rng: r}
	p.Reset(base)
	return p
}

// Reset restores base stats, clears flags, messages and the encounter timer.
func (p *Progress) Reset(base types.Stats) {
	if base.Level < 1 {
		base.Level = 1
	}
	if base.HP > base.MaxHP {
		base.HP = base.MaxHP
	}
	p.Stats = base
	p.flags = map[types.Flag]bool{}
	p.messages = nil
	p.LastEncounter = time.Time{}
}

// SetRNG swaps the random source after a snapshot restores the stream.
func (p *Progress) SetRNG(r *rng.RNG) {
	p.rng = r
}

// Flag returns the value of a flag. Unset flags return false.
func (p *Progress) Flag(f types.Flag) bool {
	return p.flags[f]
}

// SetFlag writes a flag, rejecting names outside the vocabulary.
func (p *Progress) SetFlag(f types.Flag, v bool) error {
	if !types.KnownFlag(f) {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, f)
	}
	p.flags[f] = v
	return nil
}

// Flags returns a copy of the set flags.
func (p *Progress) Flags() map[types.Flag]bool {
	out := make(map[types.Flag]bool, len(p.flags))
	for k, v := range p.flags {
		out[k] = v
	}
	return out
}

// ReplaceFlags overwrites all flags; unknown names are dropped.
func (p *Progress) ReplaceFlags(flags map[types.Flag]bool) []types.Flag {
	var dropped []types.Flag
	p.flags = map[types.Flag]bool{}
	for f, v := range flags {
		if !types.KnownFlag(f) {
			dropped = append(dropped, f)
			continue
		}
		p.flags[f] = v
	}
	return dropped
}

// AddEXP adds experience and applies level-ups. Returns levels gained.
func (p *Progress) AddEXP(amount int) int {
	if amount < 0 {
		amount = 0
	}
	p.Stats.EXP += amount

	gained := 0
	for p.Stats.EXP >= p.Stats.Level*100 && amount > 0 {
		p.levelUp()
		gained++
	}
	return gained
}

func (p *Progress) levelUp() {
	p.Stats.Level++
	p.Stats.EXP = 0
	p.Stats.MaxHP += p.rng.Range(bonusMaxHPMin, bonusMaxHPMax)
	p.Stats.Attack += p.rng.Range(bonusAttackMin, bonusAttackMax)
	p.Stats.Defense += p.rng.Range(bonusDefMin, bonusDefMax)
	p.Stats.HP = p.Stats.MaxHP
	p.Push(fmt.Sprintf("升級了！等級 %d", p.Stats.Level))
}

// Damage applies max(1, amount-defense) and returns the damage dealt.
func (p *Progress) Damage(amount int) int {
	actual := amount - p.Stats.Defense
	if actual < 1 {
		actual = 1
	}
	p.Stats.HP -= actual
	if p.Stats.HP < 0 {
		p.Stats.HP = 0
	}
	return actual
}

// DamageWithDefense applies damage against an explicit defense value
// (combat doubles it while defending).
func (p *Progress) DamageWithDefense(amount, defense int) int {
	actual := amount - defense
	if actual < 1 {
		actual = 1
	}
	p.Stats.HP -= actual
	if p.Stats.HP < 0 {
		p.Stats.HP = 0
	}
	return actual
}

// Heal restores up to amount HP clamped to MaxHP. Returns HP restored.
func (p *Progress) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := p.Stats.HP
	p.Stats.HP += amount
	if p.Stats.HP > p.Stats.MaxHP {
		p.Stats.HP = p.Stats.MaxHP
	}
	return p.Stats.HP - before
}

// FullHP reports whether HP is at its maximum.
func (p *Progress) FullHP() bool {
	return p.Stats.HP >= p.Stats.MaxHP
}

// Dead reports the game-over condition.
func (p *Progress) Dead() bool {
	return p.Stats.HP <= 0
}

// VictoryReady evaluates found_antidote && level >= 3 && hp >= 50.
func (p *Progress) VictoryReady() bool {
	return p.Flag(types.FlagFoundAntidote) &&
		p.Stats.Level >= VictoryLevel &&
		p.Stats.HP >= VictoryHP
}

// Push adds a message. The oldest message is dropped beyond MaxMessages.
func (p *Progress) Push(text string) {
	p.seq++
	p.messages = append(p.messages, Message{Text: text, TTL: p.cfg.MessageTTL, Seq: p.seq})
	if len(p.messages) > MaxMessages {
		p.messages = p.messages[len(p.messages)-MaxMessages:]
	}
}

// Messages returns the visible messages, oldest first.
func (p *Progress) Messages() []Message {
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// TickMessages ages every message by one frame and drops expired ones.
func (p *Progress) TickMessages() {
	kept := p.messages[:0]
	for _, m := range p.messages {
		m.TTL--
		if m.TTL > 0 {
			kept = append(kept, m)
		}
	}
	p.messages = kept
}

// ClearMessages drops all messages.
func (p *Progress) ClearMessages() {
	p.messages = nil
}

// ShouldTriggerEncounter applies the encounter gate: the minimum interval
// must have passed and a Bernoulli trial must succeed. On success the
// encounter timer is updated.
func (p *Progress) ShouldTriggerEncounter(now time.Time) bool {
	if now.Sub(p.LastEncounter) <= p.cfg.EncounterInterval {
		return false
	}
	if !p.rng.Chance(p.cfg.EncounterChance) {
		return false
	}
	p.LastEncounter = now
	return true
}
