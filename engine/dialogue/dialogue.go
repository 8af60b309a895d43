// Package dialogue implements shop and NPC conversations: scripts keyed by
// descriptor id, option filtering and the session cursor.
package dialogue

import (
	"errors"
	"fmt"

	"github.com/nathoo/antidote/engine/rules"
	"github.com/nathoo/antidote/types"
)

// ErrNoScript is returned when a descriptor has no script.
var ErrNoScript = errors.New("no dialogue script")

// Key identifies one declared option of one descriptor.
type Key struct {
	Descriptor string
	Option     int
}

// Engine holds the scripts and the effect table built from them.
type Engine struct {
	scripts map[string]types.DialogueScript
	table   map[Key]types.Effect
}

// New builds an engine. The effect table maps (descriptor id, declared
// option index) to the option's effect.
func New(scripts map[string]types.DialogueScript) *Engine {
	e := &Engine{
		scripts: scripts,
		table:   make(map[Key]types.Effect),
	}
	for id, s := range scripts {
		for i, opt := range s.Options {
			e.table[Key{Descriptor: id, Option: i}] = opt.Effect
		}
	}
	return e
}

// Effect looks up the effect for a declared option.
func (e *Engine) Effect(descriptor string, option int) (types.Effect, bool) {
	eff, ok := e.table[Key{Descriptor: descriptor, Option: option}]
	return eff, ok
}

// Script returns the script for a descriptor id.
func (e *Engine) Script(id string) (types.DialogueScript, bool) {
	s, ok := e.scripts[id]
	return s, ok
}

// Start opens a session for a shop or NPC.
func (e *Engine) Start(target types.Interactable, f rules.Facts) (*Session, error) {
	script, ok := e.scripts[target.ID]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoScript, target.ID)
	}
	s := &Session{Target: target, Script: script}
	s.Refresh(f)
	return s, nil
}

// Session is an open conversation.
type Session struct {
	Target types.Interactable
	Script types.DialogueScript
	Step   int

	choices  []rules.Choice
	selected int
}

// Refresh re-evaluates which options are available.
func (s *Session) Refresh(f rules.Facts) {
	s.choices = rules.Available(s.Script, f)
	if s.selected >= len(s.choices) {
		s.selected = 0
	}
}

// Speaker returns the name shown above the prompt.
func (s *Session) Speaker() string {
	if s.Script.Speaker != "" {
		return s.Script.Speaker
	}
	return s.Target.Name
}

// Prompt returns the prompt text.
func (s *Session) Prompt() string { return s.Script.Prompt }

// Choices returns the available options, numbered from 1 in order.
func (s *Session) Choices() []rules.Choice {
	out := make([]rules.Choice, len(s.choices))
	copy(out, s.choices)
	return out
}

// TextOnly reports whether the page has no options and only closes.
func (s *Session) TextOnly() bool { return len(s.choices) == 0 }

// Selected returns the highlighted option index (0-based).
func (s *Session) Selected() int { return s.selected }

// Move shifts the highlight by delta, wrapping around.
func (s *Session) Move(delta int) {
	n := len(s.choices)
	if n == 0 {
		return
	}
	s.selected = ((s.selected+delta)%n + n) % n
	s.Step++
}

// Choose returns the option shown as number n (1-based).
// Out-of-range numbers are ignored.
func (s *Session) Choose(n int) (rules.Choice, bool) {
	if n < 1 || n > len(s.choices) {
		return rules.Choice{}, false
	}
	s.selected = n - 1
	s.Step++
	return s.choices[n-1], true
}

// Current returns the highlighted option.
func (s *Session) Current() (rules.Choice, bool) {
	return s.Choose(s.selected + 1)
}
