// Package rules evaluates the requirements attached to dialogue options
// and filters a script down to the options the player may choose.
package rules

import (
	"github.com/nathoo/antidote/types"
)

// Condition types understood by EvalCondition.
const (
	CondFlag     = "flag"
	CondNotFlag  = "not_flag"
	CondHasItem  = "has_item"
	CondNoItem   = "no_item"
	CondMinLevel = "min_level"
)

// ConditionTypes lists every recognised condition type.
var ConditionTypes = []string{CondFlag, CondNotFlag, CondHasItem, CondNoItem, CondMinLevel}

// Facts is the read-only view of the run that conditions are checked against.
type Facts interface {
	Flag(f types.Flag) bool
	HasItem(name string) bool
	Level() int
}

// EvalCondition evaluates a single condition. Unknown types are false.
func EvalCondition(c types.Condition, f Facts) bool {
	switch c.Type {
	case CondFlag:
		return f.Flag(c.Flag)
	case CondNotFlag:
		return !f.Flag(c.Flag)
	case CondHasItem:
		return f.HasItem(c.Item)
	case CondNoItem:
		return !f.HasItem(c.Item)
	case CondMinLevel:
		return f.Level() >= c.Value
	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, f Facts) bool {
	for _, c := range conditions {
		if !EvalCondition(c, f) {
			return false
		}
	}
	return true
}

// KnownCondition reports whether t is a recognised condition type.
func KnownCondition(t string) bool {
	for _, k := range ConditionTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Choice is an option available to the player. Index is its position in
// the script's declared option list.
type Choice struct {
	Index  int
	Option types.DialogueOption
}

// Available returns the options whose requirements pass, in declared
// order. The player numbers them from 1 in the returned order.
func Available(script types.DialogueScript, f Facts) []Choice {
	var out []Choice
	for i, opt := range script.Options {
		if !EvalAllConditions(opt.Requires, f) {
			continue
		}
		out = append(out, Choice{Index: i, Option: opt})
	}
	return out
}
