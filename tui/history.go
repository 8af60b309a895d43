package tui

import "github.com/nathoo/antidote/engine/state"

// History keeps every banner message the player has seen, after the
// engine has already expired it, so the log pane can scroll back.
type History struct {
	entries []string
	max     int
	lastSeq uint64
}

// NewHistory creates a log holding at most max lines.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
	}
}

// Observe records the visible messages pushed since the last call.
func (h *History) Observe(msgs []state.Message) {
	for _, m := range msgs {
		if m.Seq <= h.lastSeq {
			continue
		}
		h.lastSeq = m.Seq
		h.Push(m.Text)
	}
}

// Push appends a line, dropping the oldest past capacity.
func (h *History) Push(line string) {
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Lines returns the log, oldest first.
func (h *History) Lines() []string {
	return h.entries
}

// Reset empties the log. Sequence tracking continues.
func (h *History) Reset() {
	h.entries = h.entries[:0]
}
