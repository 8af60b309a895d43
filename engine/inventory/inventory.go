// Package inventory holds the player's bounded, ordered item list.
package inventory

import (
	"errors"
	"strings"

	"github.com/nathoo/antidote/types"
)

// DefaultCapacity is the slot count used when none is configured.
const DefaultCapacity = 10

// ErrFull is returned by Put when no slot is free.
var ErrFull = errors.New("inventory full")

// medicalMarkers identify items the give-medical effect accepts.
var medicalMarkers = []string{"醫療", "藥", "治療"}

// Inventory is an ordered list of items with a capacity bound.
// Each entry is one carried item; duplicates occupy separate slots.
type Inventory struct {
	items    []types.Item
	capacity int
}

// New creates an empty inventory. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *Inventory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Inventory{capacity: capacity}
}

// Add appends item. It returns false, leaving the inventory unchanged, when full.
func (inv *Inventory) Add(item types.Item) bool {
	return inv.Put(item) == nil
}

// Put is Add with an error result for callers that wrap it.
func (inv *Inventory) Put(item types.Item) error {
	if len(inv.items) >= inv.capacity {
		return ErrFull
	}
	inv.items = append(inv.items, item)
	return nil
}

// Has reports whether an item with the given name is carried.
func (inv *Inventory) Has(name string) bool {
	return inv.indexOf(name) >= 0
}

// Count returns how many items with the given name are carried.
func (inv *Inventory) Count(name string) int {
	n := 0
	for _, it := range inv.items {
		if it.Name == name {
			n++
		}
	}
	return n
}

// Remove drops up to n items with the given name, earliest first.
// It returns the number removed.
func (inv *Inventory) Remove(name string, n int) int {
	if n <= 0 {
		n = 1
	}
	removed := 0
	kept := inv.items[:0]
	for _, it := range inv.items {
		if it.Name == name && removed < n {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	inv.items = kept
	return removed
}

// RemoveAt drops the item at slot i and returns it.
func (inv *Inventory) RemoveAt(i int) (types.Item, bool) {
	if i < 0 || i >= len(inv.items) {
		return types.Item{}, false
	}
	it := inv.items[i]
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
	return it, true
}

// At returns the item at slot i.
func (inv *Inventory) At(i int) (types.Item, bool) {
	if i < 0 || i >= len(inv.items) {
		return types.Item{}, false
	}
	return inv.items[i], true
}

// FindMedical returns the first item whose name marks it as medical.
func (inv *Inventory) FindMedical() (types.Item, bool) {
	for _, it := range inv.items {
		if IsMedical(it) {
			return it, true
		}
	}
	return types.Item{}, false
}

// IsMedical reports whether the item's name contains a medical marker.
// Key and special items never count, whatever their name.
func IsMedical(it types.Item) bool {
	if it.Type == types.ItemKey || it.Type == types.ItemSpecial {
		return false
	}
	for _, m := range medicalMarkers {
		if strings.Contains(it.Name, m) {
			return true
		}
	}
	return false
}

// Items returns a copy of the carried items in order.
func (inv *Inventory) Items() []types.Item {
	out := make([]types.Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of carried items.
func (inv *Inventory) Len() int { return len(inv.items) }

// Capacity returns the slot bound.
func (inv *Inventory) Capacity() int { return inv.capacity }

// Full reports whether no slot is free.
func (inv *Inventory) Full() bool { return len(inv.items) >= inv.capacity }

// Clear empties the inventory.
func (inv *Inventory) Clear() { inv.items = nil }

func (inv *Inventory) indexOf(name string) int {
	for i, it := range inv.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}
