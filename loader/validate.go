package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/antidote/engine/effects"
	"github.com/nathoo/antidote/engine/rules"
	"github.com/nathoo/antidote/logging"
	"github.com/nathoo/antidote/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validItemTypes = map[types.ItemType]bool{
	types.ItemHealing: true,
	types.ItemKey:     true,
	types.ItemSpecial: true,
	types.ItemClue:    true,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *types.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if _, ok := defs.Floors[defs.Game.StartFloor]; !ok {
		ve.errorf("start floor %d not found in defined floors", defs.Game.StartFloor)
	}

	// Characters.
	if len(defs.Characters) == 0 {
		ve.errorf("at least one Character is required")
	}
	for _, c := range defs.Characters {
		if c.Speed <= 0 {
			ve.errorf("character %q speed must be positive", c.ID)
		} else if types.TileSize%c.Speed != 0 {
			ve.warnf("character %q speed %d does not divide the tile size", c.ID, c.Speed)
		}
		if c.HP <= 0 {
			ve.errorf("character %q hp must be positive", c.ID)
		}
	}

	// Enemies.
	for id, e := range defs.Enemies {
		if e.HP <= 0 {
			ve.errorf("enemy %q hp must be positive", id)
		}
	}

	// Floors. Interactable IDs are unique across the building since they
	// key the dialogue scripts.
	ids := map[string]int{}
	for fid, floor := range defs.Floors {
		validateFloor(fid, floor, defs, ids, ve)
	}

	// Dialogues.
	for id, script := range defs.Dialogues {
		validateScript(id, script, ve)
	}

	log := logging.For("loader")
	for _, w := range ve.Warnings {
		log.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateFloor(fid int, floor types.FloorDef, defs *types.Defs, ids map[string]int, ve *ValidationError) {
	if !inField(floor.Spawn) {
		ve.warnf("floor %d spawn %v lies outside the play field", fid, floor.Spawn)
	}

	for _, in := range floor.Interactables {
		if in.ID == "" {
			ve.errorf("floor %d has a %s without an id", fid, in.Kind)
			continue
		}
		if prev, dup := ids[in.ID]; dup {
			ve.errorf("interactable %q defined on floor %d and floor %d", in.ID, prev, fid)
		}
		ids[in.ID] = fid
		if in.Area.W <= 0 || in.Area.H <= 0 {
			ve.errorf("interactable %q has an empty area", in.ID)
		}

		switch in.Kind {
		case types.KindNPC:
			if n := in.NPC.Number; n < 1 || n > 4 {
				ve.errorf("npc %q number %d must be between 1 and 4", in.ID, n)
			}
		case types.KindStairs:
			st := in.Stairs
			if st.Direction != "up" && st.Direction != "down" {
				ve.errorf("stairs %q direction %q must be up or down", in.ID, st.Direction)
			}
			if _, ok := defs.Floors[st.TargetFloor]; !ok {
				ve.errorf("stairs %q target floor %d is not defined", in.ID, st.TargetFloor)
			}
			if !inField(st.Landing) {
				ve.errorf("stairs %q landing %v lies outside the play field", in.ID, st.Landing)
			}
		}
	}

	for _, z := range floor.Zones {
		if z.Area.W <= 0 || z.Area.H <= 0 {
			ve.errorf("zone %q on floor %d has an empty area", z.ID, fid)
		}
		if len(z.Enemies) == 0 {
			ve.errorf("zone %q on floor %d lists no enemies", z.ID, fid)
		}
		for _, e := range z.Enemies {
			if _, ok := defs.Enemies[e]; !ok {
				ve.errorf("zone %q references undefined enemy %q", z.ID, e)
			}
		}
	}

	for _, e := range floor.Encounters {
		if _, ok := defs.Enemies[e]; !ok {
			ve.errorf("floor %d encounter references undefined enemy %q", fid, e)
		}
	}

	for _, it := range floor.Items {
		if it.Item.Name == "" {
			ve.errorf("floor %d has an item without a name", fid)
		}
		if !validItemTypes[it.Item.Type] {
			ve.errorf("item %q has unknown type %q", it.Item.Name, it.Item.Type)
		}
		if it.Item.Flag != "" && !types.KnownFlag(it.Item.Flag) {
			ve.errorf("item %q raises unknown flag %q", it.Item.Name, it.Item.Flag)
		}
		if !inField(it.At) {
			ve.warnf("item %q at %v lies outside the play field", it.Item.Name, it.At)
		}
	}
}

func validateScript(id string, script types.DialogueScript, ve *ValidationError) {
	if len(script.Options) == 0 {
		ve.warnf("dialogue %q has no options", id)
	}
	for i, opt := range script.Options {
		if !effects.Known(opt.Effect) {
			ve.errorf("dialogue %q option %d has unknown effect %q", id, i+1, opt.Effect)
		}
		for _, c := range opt.Requires {
			if !rules.KnownCondition(c.Type) {
				ve.errorf("dialogue %q option %d has unknown condition %q", id, i+1, c.Type)
				continue
			}
			if (c.Type == rules.CondFlag || c.Type == rules.CondNotFlag) && !types.KnownFlag(c.Flag) {
				ve.errorf("dialogue %q option %d references unknown flag %q", id, i+1, c.Flag)
			}
		}
	}
}

func inField(p types.Point) bool {
	return p.X >= types.FieldMinX && p.X <= types.FieldMaxX &&
		p.Y >= types.FieldMinY && p.Y <= types.FieldMaxY
}
