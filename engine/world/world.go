// Package world holds the static floor definitions together with the
// mutable per-run world state: which floor items were collected and which
// combat zones were consumed.
package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/antidote/types"
)

// Stairs traversal errors.
var (
	ErrNeedKeycard = errors.New("keycard required")
	ErrNoRoute     = errors.New("no stairs route")
)

// ItemRef is an uncollected floor item with its stable identity.
type ItemRef struct {
	ID string
	types.FloorItem
}

// World is the world model for one run.
type World struct {
	floors    map[int]types.FloorDef
	collected map[string]bool
	consumed  map[string]bool
}

// New creates a world over the given floor definitions.
func New(floors map[int]types.FloorDef) *World {
	w := &World{floors: floors}
	w.Reset()
	return w
}

// Reset restores every item and combat zone.
func (w *World) Reset() {
	w.collected = map[string]bool{}
	w.consumed = map[string]bool{}
}

// Floor returns the definition of floor id.
func (w *World) Floor(id int) (types.FloorDef, bool) {
	f, ok := w.floors[id]
	return f, ok
}

// FloorIDs returns the floor ids in ascending order.
func (w *World) FloorIDs() []int {
	ids := make([]int, 0, len(w.floors))
	for id := range w.floors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ItemID returns the stable identity of an item placed on a floor.
func ItemID(floorName string, at types.Point) string {
	return fmt.Sprintf("%s_%d_%d", floorName, at.X, at.Y)
}

// Items returns the uncollected items on a floor in declaration order.
func (w *World) Items(floor int) []ItemRef {
	f, ok := w.floors[floor]
	if !ok {
		return nil
	}
	var out []ItemRef
	for _, it := range f.Items {
		id := ItemID(f.Name, it.At)
		if w.collected[id] {
			continue
		}
		out = append(out, ItemRef{ID: id, FloorItem: it})
	}
	return out
}

// Collect marks an item collected. It returns false if it already was.
func (w *World) Collect(id string) bool {
	if w.collected[id] {
		return false
	}
	w.collected[id] = true
	return true
}

// Collected reports whether the item was collected.
func (w *World) Collected(id string) bool {
	return w.collected[id]
}

// CollectedIDs returns the collected item ids, sorted.
func (w *World) CollectedIDs() []string {
	return sortedKeys(w.collected)
}

// zoneKey qualifies a zone id by floor so ids need only be unique per floor.
func zoneKey(floor int, id string) string {
	return fmt.Sprintf("%d:%s", floor, id)
}

// Zones returns the unconsumed combat zones on a floor.
func (w *World) Zones(floor int) []types.CombatZone {
	f, ok := w.floors[floor]
	if !ok {
		return nil
	}
	var out []types.CombatZone
	for _, z := range f.Zones {
		if w.consumed[zoneKey(floor, z.ID)] {
			continue
		}
		out = append(out, z)
	}
	return out
}

// ConsumeZone removes a combat zone from its floor.
func (w *World) ConsumeZone(floor int, id string) {
	w.consumed[zoneKey(floor, id)] = true
}

// ZoneConsumed reports whether a zone was consumed.
func (w *World) ZoneConsumed(floor int, id string) bool {
	return w.consumed[zoneKey(floor, id)]
}

// ConsumedZones returns the consumed zone keys ("floor:id"), sorted.
func (w *World) ConsumedZones() []string {
	return sortedKeys(w.consumed)
}

// Traverse checks the stairs rule for a move between floors: 1<->2 is
// free, 2->3 needs the keycard and 3->2 is free.
func (w *World) Traverse(from, to int, hasKeycard bool) error {
	if _, ok := w.floors[to]; !ok {
		return fmt.Errorf("%w: floor %d does not exist", ErrNoRoute, to)
	}
	switch {
	case from == 1 && to == 2, from == 2 && to == 1, from == 3 && to == 2:
		return nil
	case from == 2 && to == 3:
		if !hasKeycard {
			return ErrNeedKeycard
		}
		return nil
	}
	return fmt.Errorf("%w: %d -> %d", ErrNoRoute, from, to)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
