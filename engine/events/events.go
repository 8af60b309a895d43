// Package events is the hook bus for state transitions. Debug overlays,
// diagnostics and audio cues subscribe to it instead of forking the loop.
package events

import "fmt"

// Type names a transition.
type Type string

const (
	ModeChanged     Type = "mode_changed"
	FloorChanged    Type = "floor_changed"
	CombatStarted   Type = "combat_started"
	CombatResolved  Type = "combat_resolved"
	ItemPicked      Type = "item_picked"
	LevelUp         Type = "level_up"
	DialogueStarted Type = "dialogue_started"
	DialogueEnded   Type = "dialogue_ended"
	EffectApplied   Type = "effect_applied"
	OverlayChanged  Type = "overlay_changed"
	Restarted       Type = "restarted"
	Saved           Type = "saved"
	Loaded          Type = "loaded"
	DriftRepaired   Type = "drift_repaired"
)

// Event is one emitted transition.
type Event struct {
	Type  Type
	Frame uint64
	Data  map[string]any
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s %v", e.Frame, e.Type, e.Data)
}

// Handler receives events.
type Handler func(Event)

// Bus delivers events to subscribers in subscription order. Events
// emitted from inside a handler are queued and delivered after the
// current event, never recursively.
type Bus struct {
	handlers    []Handler
	queue       []Event
	dispatching bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds a handler.
func (b *Bus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

// Emit delivers e to every handler.
func (b *Bus) Emit(e Event) {
	b.queue = append(b.queue, e)
	if b.dispatching {
		return
	}
	b.dispatching = true
	defer func() { b.dispatching = false }()

	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		for _, h := range b.handlers {
			h(next)
		}
	}
}

// Recorder keeps the most recent events for the debug overlay.
type Recorder struct {
	events []Event
	size   int
}

// NewRecorder creates a recorder holding up to size events.
func NewRecorder(size int) *Recorder {
	return &Recorder{size: size}
}

// Record is a Handler.
func (r *Recorder) Record(e Event) {
	r.events = append(r.events, e)
	if len(r.events) > r.size {
		r.events = r.events[len(r.events)-r.size:]
	}
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
