// Package effects implements the dialogue effect catalog. Each effect is
// one atomic change to progress and inventory applied through Apply.
package effects

import (
	"fmt"

	"github.com/nathoo/antidote/engine/inventory"
	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/engine/state"
	"github.com/nathoo/antidote/types"
)

// Catalog lists every effect in display order.
var Catalog = []types.Effect{
	types.EffectBuyMedical,
	types.EffectBuyCannedFood,
	types.EffectSearchDrinks,
	types.EffectShallowSearch,
	types.EffectDeepSearch,
	types.EffectTakeAntidote,
	types.EffectGiveMedical,
	types.EffectPureInfo,
	types.EffectLeave,
}

// Known reports whether e is in the catalog.
func Known(e types.Effect) bool {
	for _, k := range Catalog {
		if k == e {
			return true
		}
	}
	return false
}

// Tunables of the catalog.
const (
	KeycardChance   = 0.3
	AntidoteDamage  = 20
	AntidoteLevel   = 3
	KeycardItemName = "鑰匙卡"
	AntidoteName    = "解藥"
)

// Env is the state an effect may mutate.
type Env struct {
	Progress  *state.Progress
	Inventory *inventory.Inventory
	RNG       *rng.RNG
	Shielded  bool // player is invulnerable; damage is skipped
}

// Context describes where the effect was chosen.
type Context struct {
	DescriptorID string
	NPC          int    // NPC number, 0 for shops
	Info         string // flavour text of the option
}

// Outcome reports what an effect did beyond the direct mutations.
type Outcome struct {
	EXP      int
	Levels   int
	Damage   int
	Sounds   []string
	Victory  bool
	GameOver bool
}

// Apply executes one effect. All effects push a message; leave does nothing.
func Apply(env Env, eff types.Effect, ctx Context) (Outcome, error) {
	var out Outcome
	p := env.Progress

	switch eff {
	case types.EffectBuyMedical:
		heal(env, &out, 30, "購買了醫療用品")
		gainEXP(env, &out, 10)

	case types.EffectBuyCannedFood:
		heal(env, &out, 20, "吃了罐頭食品")
		gainEXP(env, &out, 5)

	case types.EffectSearchDrinks:
		heal(env, &out, 15, "找到了飲料")
		gainEXP(env, &out, 8)

	case types.EffectShallowSearch:
		if !p.Flag(types.FlagHasKeycard) && env.RNG.Chance(KeycardChance) {
			if !env.Inventory.Add(types.Item{Name: KeycardItemName, Type: types.ItemKey, Description: "通往三樓的鑰匙卡"}) {
				p.Push("找到了鑰匙卡，但背包已滿")
				out.Sounds = append(out.Sounds, "error")
				return out, nil
			}
			if err := p.SetFlag(types.FlagHasKeycard, true); err != nil {
				return out, err
			}
			p.Push("找到了鑰匙卡！")
			out.Sounds = append(out.Sounds, "success")
			gainEXP(env, &out, 50)
		} else {
			amount := []int{10, 15}[env.RNG.Pick(2)]
			p.Push(fmt.Sprintf("搜索了一番，獲得 %d 經驗", amount))
			gainEXP(env, &out, amount)
		}

	case types.EffectDeepSearch:
		if !p.Flag(types.FlagHasKeycard) {
			p.Push("需要鑰匙卡")
			out.Sounds = append(out.Sounds, "error")
			return out, nil
		}
		if err := takeAntidote(env, &out, "在深處找到了解藥！"); err != nil {
			return out, err
		}

	case types.EffectTakeAntidote:
		if p.Stats.Level >= AntidoteLevel {
			if err := takeAntidote(env, &out, "接過了解藥！"); err != nil {
				return out, err
			}
			break
		}
		out.Sounds = append(out.Sounds, "error")
		if env.Shielded {
			p.Push("等級不足，無法使用解藥")
			break
		}
		out.Damage = p.Damage(AntidoteDamage)
		p.Push(fmt.Sprintf("等級不足，解藥反噬！受到 %d 傷害", out.Damage))
		out.GameOver = p.Dead()

	case types.EffectGiveMedical:
		item, ok := env.Inventory.FindMedical()
		if !ok {
			p.Push("沒有醫療用品")
			out.Sounds = append(out.Sounds, "error")
			return out, nil
		}
		env.Inventory.Remove(item.Name, 1)
		p.Push(fmt.Sprintf("給予了 %s", item.Name))
		gainEXP(env, &out, 25)
		if err := markClue(env, ctx); err != nil {
			return out, err
		}
		p.Push("獲得了線索！")
		gainEXP(env, &out, 15)
		out.Sounds = append(out.Sounds, "success")

	case types.EffectPureInfo:
		amount := env.RNG.Range(5, 20)
		info := ctx.Info
		if info == "" {
			info = "得到了一些情報"
		}
		p.Push(info)
		if err := markClue(env, ctx); err != nil {
			return out, err
		}
		gainEXP(env, &out, amount)
		out.Sounds = append(out.Sounds, "dialogue_beep")

	case types.EffectLeave:

	default:
		return out, fmt.Errorf("unknown effect %q", eff)
	}

	return out, nil
}

func heal(env Env, out *Outcome, amount int, what string) {
	p := env.Progress
	if p.FullHP() {
		p.Push(what + "，但 HP 已滿")
		return
	}
	restored := p.Heal(amount)
	p.Push(fmt.Sprintf("%s，恢復 %d HP", what, restored))
	out.Sounds = append(out.Sounds, "success")
}

func gainEXP(env Env, out *Outcome, amount int) {
	out.EXP += amount
	levels := env.Progress.AddEXP(amount)
	if levels > 0 {
		out.Levels += levels
		out.Sounds = append(out.Sounds, "level_up")
	}
}

// takeAntidote sets found_antidote, grants the EXP and evaluates victory.
func takeAntidote(env Env, out *Outcome, msg string) error {
	p := env.Progress
	if err := p.SetFlag(types.FlagFoundAntidote, true); err != nil {
		return err
	}
	if !env.Inventory.Has(AntidoteName) {
		env.Inventory.Add(types.Item{Name: AntidoteName, Type: types.ItemSpecial, Description: "能治癒病毒的解藥"})
	}
	p.Push(msg)
	out.Sounds = append(out.Sounds, "success")
	gainEXP(env, out, 100)

	if p.VictoryReady() {
		if err := p.SetFlag(types.FlagGameCompleted, true); err != nil {
			return err
		}
		out.Victory = true
	}
	return nil
}

// markClue sets found_clueN for NPCs 1..3.
func markClue(env Env, ctx Context) error {
	if ctx.NPC < 1 || ctx.NPC > 3 {
		return nil
	}
	return env.Progress.SetFlag(types.Flag(fmt.Sprintf("found_clue%d", ctx.NPC)), true)
}
