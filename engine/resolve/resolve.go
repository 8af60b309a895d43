// Package resolve finds what the player is standing at: the floor item,
// shop, NPC or stairs to interact with, and any combat zone being entered.
package resolve

import (
	"github.com/nathoo/antidote/engine/world"
	"github.com/nathoo/antidote/types"
)

// PickupRadius is the item pickup distance in pixels.
const PickupRadius = 30

// Kind is the kind of resolved target.
type Kind int

const (
	None Kind = iota
	Item
	Shop
	NPC
	Stairs
)

func (k Kind) String() string {
	switch k {
	case Item:
		return "item"
	case Shop:
		return "shop"
	case NPC:
		return "npc"
	case Stairs:
		return "stairs"
	}
	return "none"
}

// Result is the highest-priority interaction target.
type Result struct {
	Kind   Kind
	ItemID string
	Item   types.FloorItem
	Target types.Interactable
}

// Resolve scans the floor at p: items within PickupRadius first, then
// interactables in declaration order by box containment.
func Resolve(w *world.World, floor int, p types.Point) Result {
	for _, it := range w.Items(floor) {
		if withinRadius(it.At, p, PickupRadius) {
			return Result{Kind: Item, ItemID: it.ID, Item: it.FloorItem}
		}
	}

	f, ok := w.Floor(floor)
	if !ok {
		return Result{}
	}
	for _, in := range f.Interactables {
		if !in.Area.Contains(p) {
			continue
		}
		return Result{Kind: kindOf(in.Kind), Target: in}
	}
	return Result{}
}

// ZoneAt returns the first unconsumed combat zone containing p.
func ZoneAt(w *world.World, floor int, p types.Point) (types.CombatZone, bool) {
	for _, z := range w.Zones(floor) {
		if z.Area.Contains(p) {
			return z, true
		}
	}
	return types.CombatZone{}, false
}

// ZoneTracker edge-triggers combat zones: a zone fires when the player
// enters it, not while the player stays inside.
type ZoneTracker struct {
	floor  int
	inside string
}

// Enter updates the tracker with the player's position and returns the
// zone just entered, if any.
func (zt *ZoneTracker) Enter(w *world.World, floor int, p types.Point) (types.CombatZone, bool) {
	z, ok := ZoneAt(w, floor, p)
	if !ok {
		zt.floor, zt.inside = floor, ""
		return types.CombatZone{}, false
	}
	if zt.floor == floor && zt.inside == z.ID {
		return types.CombatZone{}, false
	}
	zt.floor, zt.inside = floor, z.ID
	return z, true
}

// Observe records the position without triggering, so a later Enter
// only fires on a fresh entry.
func (zt *ZoneTracker) Observe(w *world.World, floor int, p types.Point) {
	zt.floor = floor
	zt.inside = ""
	if z, ok := ZoneAt(w, floor, p); ok {
		zt.inside = z.ID
	}
}

// Reset forgets the current zone.
func (zt *ZoneTracker) Reset() {
	zt.floor, zt.inside = 0, ""
}

func kindOf(k types.InteractableKind) Kind {
	switch k {
	case types.KindShop:
		return Shop
	case types.KindNPC:
		return NPC
	case types.KindStairs:
		return Stairs
	}
	return None
}

func withinRadius(a, b types.Point, r int) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx+dy*dy <= r*r
}
