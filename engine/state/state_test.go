package state

import (
	"errors"
	"testing"
	"time"

	"github.com/nathoo/antidote/engine/rng"
	"github.com/nathoo/antidote/types"
)

func baseStats() types.Stats {
	return types.Stats{HP: 100, MaxHP: 100, Attack: 10, Defense: 5, Level: 1}
}

func testConfig() Config {
	return Config{
		MessageTTL:        180,
		EncounterChance:   1,
		EncounterInterval: 10 * time.Second,
	}
}

func newProgress(t *testing.T) *Progress {
	t.Helper()
	return New(baseStats(), testConfig(), rng.New(42))
}

func TestNew_Defaults(t *testing.T) {
	p := newProgress(t)
	if p.Stats != baseStats() {
		t.Errorf("stats = %+v, want %+v", p.Stats, baseStats())
	}
	if len(p.Flags()) != 0 {
		t.Errorf("flags = %v, want empty", p.Flags())
	}
	if len(p.Messages()) != 0 {
		t.Errorf("messages = %v, want empty", p.Messages())
	}
}

func TestNew_ClampsLevelAndHP(t *testing.T) {
	p := New(types.Stats{HP: 500, MaxHP: 80}, testConfig(), rng.New(1))
	if p.Stats.Level != 1 {
		t.Errorf("level = %d, want 1", p.Stats.Level)
	}
	if p.Stats.HP != 80 {
		t.Errorf("hp = %d, want 80", p.Stats.HP)
	}
}

func TestSetFlag_Known(t *testing.T) {
	p := newProgress(t)
	if err := p.SetFlag(types.FlagHasKeycard, true); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}
	if !p.Flag(types.FlagHasKeycard) {
		t.Error("has_keycard should be set")
	}
}

func TestSetFlag_Unknown(t *testing.T) {
	p := newProgress(t)
	err := p.SetFlag("talked_to_dragon", true)
	if !errors.Is(err, ErrUnknownFlag) {
		t.Fatalf("err = %v, want ErrUnknownFlag", err)
	}
	if p.Flag("talked_to_dragon") {
		t.Error("unknown flag must not be stored")
	}
}

func TestFlags_ReturnsCopy(t *testing.T) {
	p := newProgress(t)
	_ = p.SetFlag(types.FlagFoundClue1, true)
	flags := p.Flags()
	flags[types.FlagFoundAntidote] = true
	if p.Flag(types.FlagFoundAntidote) {
		t.Error("mutating the copy leaked into progress")
	}
}

func TestReplaceFlags_DropsUnknown(t *testing.T) {
	p := newProgress(t)
	_ = p.SetFlag(types.FlagHasKeycard, true)

	dropped := p.ReplaceFlags(map[types.Flag]bool{
		types.FlagFoundClue2: true,
		"bogus":              true,
	})

	if len(dropped) != 1 || dropped[0] != "bogus" {
		t.Errorf("dropped = %v, want [bogus]", dropped)
	}
	if p.Flag(types.FlagHasKeycard) {
		t.Error("replace should clear previous flags")
	}
	if !p.Flag(types.FlagFoundClue2) {
		t.Error("found_clue2 should be set")
	}
}

func TestAddEXP_Zero(t *testing.T) {
	p := newProgress(t)
	p.Stats.EXP = 99
	for i := 0; i < 5; i++ {
		if gained := p.AddEXP(0); gained != 0 {
			t.Fatalf("AddEXP(0) gained %d levels", gained)
		}
	}
	if p.Stats.Level != 1 || p.Stats.EXP != 99 {
		t.Errorf("stats changed: %+v", p.Stats)
	}
}

func TestAddEXP_BelowThreshold(t *testing.T) {
	p := newProgress(t)
	p.AddEXP(60)
	p.AddEXP(39)
	if p.Stats.Level != 1 {
		t.Errorf("level = %d, want 1", p.Stats.Level)
	}
	if p.Stats.EXP != 99 {
		t.Errorf("exp = %d, want 99", p.Stats.EXP)
	}
}

func TestAddEXP_LevelUp(t *testing.T) {
	p := newProgress(t)
	p.Stats.HP = 40
	before := p.Stats

	gained := p.AddEXP(100)

	if gained != 1 {
		t.Fatalf("gained = %d, want 1", gained)
	}
	s := p.Stats
	if s.Level != 2 {
		t.Errorf("level = %d, want 2", s.Level)
	}
	if s.EXP != 0 {
		t.Errorf("exp = %d, want 0 after level-up", s.EXP)
	}
	if d := s.MaxHP - before.MaxHP; d < bonusMaxHPMin || d > bonusMaxHPMax {
		t.Errorf("max_hp bonus %d out of range", d)
	}
	if d := s.Attack - before.Attack; d < bonusAttackMin || d > bonusAttackMax {
		t.Errorf("attack bonus %d out of range", d)
	}
	if d := s.Defense - before.Defense; d < bonusDefMin || d > bonusDefMax {
		t.Errorf("defense bonus %d out of range", d)
	}
	if s.HP != s.MaxHP {
		t.Errorf("hp = %d, want full heal to %d", s.HP, s.MaxHP)
	}

	msgs := p.Messages()
	if len(msgs) != 1 || msgs[0].Text != "升級了！等級 2" {
		t.Errorf("messages = %v, want level-up message", msgs)
	}
}

func TestAddEXP_Deterministic(t *testing.T) {
	a := New(baseStats(), testConfig(), rng.New(7))
	b := New(baseStats(), testConfig(), rng.New(7))
	a.AddEXP(100)
	b.AddEXP(100)
	if a.Stats != b.Stats {
		t.Errorf("same seed produced %+v and %+v", a.Stats, b.Stats)
	}
}

func TestDamage(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		want   int
	}{
		{"above defense", 15, 10},
		{"equal to defense", 5, 1},
		{"below defense", 2, 1},
		{"zero", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgress(t)
			got := p.Damage(tt.amount)
			if got != tt.want {
				t.Errorf("Damage(%d) = %d, want %d", tt.amount, got, tt.want)
			}
			if p.Stats.HP != 100-tt.want {
				t.Errorf("hp = %d, want %d", p.Stats.HP, 100-tt.want)
			}
		})
	}
}

func TestDamage_ClampsAtZero(t *testing.T) {
	p := newProgress(t)
	p.Stats.HP = 3
	p.Damage(50)
	if p.Stats.HP != 0 {
		t.Errorf("hp = %d, want 0", p.Stats.HP)
	}
	if !p.Dead() {
		t.Error("Dead() should be true at hp 0")
	}
}

func TestDamageWithDefense(t *testing.T) {
	p := newProgress(t)
	if got := p.DamageWithDefense(12, 10); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if got := p.DamageWithDefense(12, 20); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestHeal(t *testing.T) {
	p := newProgress(t)
	p.Stats.HP = 80

	if got := p.Heal(30); got != 20 {
		t.Errorf("Heal(30) = %d, want 20", got)
	}
	if p.Stats.HP != 100 {
		t.Errorf("hp = %d, want 100", p.Stats.HP)
	}
	if got := p.Heal(10); got != 0 {
		t.Errorf("Heal on full hp = %d, want 0", got)
	}
	if !p.FullHP() {
		t.Error("FullHP should be true")
	}
	if got := p.Heal(-5); got != 0 {
		t.Errorf("Heal(-5) = %d, want 0", got)
	}
}

func TestVictoryReady(t *testing.T) {
	tests := []struct {
		name     string
		antidote bool
		level    int
		hp       int
		want     bool
	}{
		{"all met", true, 3, 50, true},
		{"no antidote", false, 3, 100, false},
		{"low level", true, 2, 100, false},
		{"low hp", true, 5, 49, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgress(t)
			p.Stats.MaxHP = 200
			p.Stats.Level = tt.level
			p.Stats.HP = tt.hp
			_ = p.SetFlag(types.FlagFoundAntidote, tt.antidote)
			if got := p.VictoryReady(); got != tt.want {
				t.Errorf("VictoryReady = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessages_KeepsMostRecentThree(t *testing.T) {
	p := newProgress(t)
	for _, s := range []string{"a", "b", "c", "d"} {
		p.Push(s)
	}
	msgs := p.Messages()
	if len(msgs) != MaxMessages {
		t.Fatalf("len = %d, want %d", len(msgs), MaxMessages)
	}
	if msgs[0].Text != "b" || msgs[2].Text != "d" {
		t.Errorf("messages = %v, want [b c d]", msgs)
	}
}

func TestMessages_SeqSurvivesReset(t *testing.T) {
	p := newProgress(t)
	p.Push("a")
	p.Push("b")
	p.Reset(baseStats())
	p.Push("c")
	msgs := p.Messages()
	if len(msgs) != 1 || msgs[0].Seq != 3 {
		t.Errorf("messages = %v, want [c] with seq 3", msgs)
	}
}

func TestTickMessages_ExpiresInOrder(t *testing.T) {
	p := New(baseStats(), Config{MessageTTL: 3}, rng.New(1))
	p.Push("first")
	p.TickMessages()
	p.Push("second")

	p.TickMessages()
	p.TickMessages()
	msgs := p.Messages()
	if len(msgs) != 1 || msgs[0].Text != "second" {
		t.Fatalf("messages = %v, want [second]", msgs)
	}

	p.TickMessages()
	if len(p.Messages()) != 0 {
		t.Errorf("messages = %v, want empty", p.Messages())
	}
}

func TestShouldTriggerEncounter_Interval(t *testing.T) {
	p := newProgress(t)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if !p.ShouldTriggerEncounter(start) {
		t.Fatal("first check with chance 1 should trigger")
	}
	if p.ShouldTriggerEncounter(start.Add(5 * time.Second)) {
		t.Error("within interval should not trigger")
	}
	if p.ShouldTriggerEncounter(start.Add(10 * time.Second)) {
		t.Error("exactly at interval should not trigger")
	}
	if !p.ShouldTriggerEncounter(start.Add(11 * time.Second)) {
		t.Error("after interval should trigger")
	}
	if !p.LastEncounter.Equal(start.Add(11 * time.Second)) {
		t.Errorf("last encounter = %v", p.LastEncounter)
	}
}

func TestShouldTriggerEncounter_ZeroChance(t *testing.T) {
	cfg := testConfig()
	cfg.EncounterChance = 0
	p := New(baseStats(), cfg, rng.New(3))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		if p.ShouldTriggerEncounter(now.Add(time.Duration(i) * time.Minute)) {
			t.Fatal("chance 0 must never trigger")
		}
	}
	if !p.LastEncounter.IsZero() {
		t.Error("failed trials must not update the timer")
	}
}

func TestReset(t *testing.T) {
	p := newProgress(t)
	_ = p.SetFlag(types.FlagHasKeycard, true)
	p.AddEXP(250)
	p.Push("hello")
	p.LastEncounter = time.Now()

	p.Reset(baseStats())

	if p.Stats != baseStats() {
		t.Errorf("stats = %+v", p.Stats)
	}
	if len(p.Flags()) != 0 || len(p.Messages()) != 0 || !p.LastEncounter.IsZero() {
		t.Error("reset should clear flags, messages and encounter timer")
	}
}

func TestSetRNG_LevelUpRollsFromNewSource(t *testing.T) {
	old := rng.New(1)
	p := New(baseStats(), testConfig(), old)
	restored := rng.Restore(9, 5)
	p.SetRNG(restored)

	p.AddEXP(100)
	if old.Position() != 0 {
		t.Errorf("old source used: position %d", old.Position())
	}
	if restored.Position() != 8 {
		t.Errorf("restored position = %d, want 8 (three bonus rolls)", restored.Position())
	}
}

func TestClearMessages(t *testing.T) {
	p := newProgress(t)
	p.Push("a")
	p.Push("b")
	p.ClearMessages()
	if n := len(p.Messages()); n != 0 {
		t.Fatalf("got %d messages after clear", n)
	}
	p.Push("c")
	if m := p.Messages(); len(m) != 1 || m[0].Seq != 3 {
		t.Errorf("messages = %+v, want one with Seq 3", m)
	}
}
