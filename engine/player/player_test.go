package player

import (
	"testing"

	"github.com/nathoo/antidote/types"
)

func profile(speed int) types.CharacterProfile {
	return types.CharacterProfile{ID: "student", Name: "學生", Speed: speed, HP: 100, Attack: 10, Defense: 5}
}

func runUntilIdle(t *testing.T, p *Player, max int) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		if p.Update() {
			return i
		}
	}
	t.Fatalf("move did not complete within %d frames", max)
	return 0
}

func TestMove_ArrivesOnGrid(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 1)
	if !p.Move(types.DirRight) {
		t.Fatal("move should be accepted")
	}
	frames := runUntilIdle(t, p, 100)
	if p.Pos != (types.Point{X: 96, Y: 64}) {
		t.Errorf("pos = %+v, want (96,64)", p.Pos)
	}
	if frames != 8 {
		t.Errorf("frames = %d, want 8", frames)
	}
	if p.Facing != types.DirRight {
		t.Errorf("facing = %v, want right", p.Facing)
	}
}

func TestMove_SingleInFlight(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 1)
	p.Move(types.DirDown)
	p.Update()
	if p.Move(types.DirLeft) {
		t.Fatal("second move must be rejected while animating")
	}
	if p.Facing != types.DirDown {
		t.Errorf("rejected move changed facing to %v", p.Facing)
	}
	runUntilIdle(t, p, 100)
	if p.Pos != (types.Point{X: 64, Y: 96}) {
		t.Errorf("pos = %+v", p.Pos)
	}
}

func TestMove_FastSpeedDoesNotOscillate(t *testing.T) {
	p := New(profile(40), types.Point{X: 64, Y: 64}, 1)
	p.Move(types.DirUp)
	if frames := runUntilIdle(t, p, 3); frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
	if p.Pos != (types.Point{X: 64, Y: 32}) {
		t.Errorf("pos = %+v", p.Pos)
	}
}

func TestMove_ClampedToField(t *testing.T) {
	tests := []struct {
		name  string
		start types.Point
		dir   types.Direction
	}{
		{"left edge", types.Point{X: types.FieldMinX, Y: 100}, types.DirLeft},
		{"top edge", types.Point{X: 100, Y: types.FieldMinY}, types.DirUp},
		{"right edge", types.Point{X: types.FieldMaxX, Y: 100}, types.DirRight},
		{"bottom edge", types.Point{X: 100, Y: types.FieldMaxY}, types.DirDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(profile(4), tt.start, 1)
			if p.Move(tt.dir) {
				t.Error("move off the play-field should be rejected")
			}
			if p.Pos != tt.start {
				t.Errorf("pos = %+v, want %+v", p.Pos, tt.start)
			}
		})
	}
}

func TestNew_ClampsSpawn(t *testing.T) {
	p := New(profile(4), types.Point{X: 0, Y: 2000}, 1)
	if p.Pos != (types.Point{X: types.FieldMinX, Y: types.FieldMaxY}) {
		t.Errorf("pos = %+v", p.Pos)
	}
}

func TestArrival(t *testing.T) {
	tests := []struct {
		speed, want int
	}{
		{1, 2},
		{4, 5},
		{8, 9},
	}
	for _, tt := range tests {
		p := New(profile(tt.speed), types.Point{X: 64, Y: 64}, 1)
		if got := p.Arrival(); got != tt.want {
			t.Errorf("speed %d: arrival = %d, want %d", tt.speed, got, tt.want)
		}
	}
}

func TestCancel_ReturnsToOrigin(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 1)
	p.Move(types.DirRight)
	p.Update()
	p.Update()
	p.Cancel()
	if p.Moving() {
		t.Error("cancel should stop motion")
	}
	if p.Pos != (types.Point{X: 64, Y: 64}) {
		t.Errorf("pos = %+v, want origin", p.Pos)
	}
	if !p.Move(types.DirDown) {
		t.Error("new move should be accepted after cancel")
	}
}

func TestHit_Invulnerability(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 1)
	if !p.Hit(60) {
		t.Fatal("first hit should land")
	}
	if p.Hit(60) {
		t.Fatal("hit during invulnerability should be blocked")
	}
	for i := 0; i < 60; i++ {
		p.Update()
	}
	if p.Invulnerable() {
		t.Error("invulnerability should expire after 60 frames")
	}
	if !p.Hit(60) {
		t.Error("hit after expiry should land")
	}
}

func TestVisible_Flashes(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 1)
	if !p.Visible() {
		t.Fatal("visible when not invulnerable")
	}
	p.SetInvulnerable(8)
	seenHidden := false
	for i := 0; i < 8; i++ {
		if !p.Visible() {
			seenHidden = true
		}
		p.Update()
	}
	if !seenHidden {
		t.Error("sprite should flash while invulnerable")
	}
}

func TestTeleport(t *testing.T) {
	p := New(profile(4), types.Point{X: 64, Y: 64}, 2)
	p.Move(types.DirRight)
	p.Teleport(3, types.Point{X: 480, Y: 672})
	if p.Floor != 3 || p.Pos != (types.Point{X: 480, Y: 672}) || p.Moving() {
		t.Errorf("after teleport: floor=%d pos=%+v moving=%v", p.Floor, p.Pos, p.Moving())
	}
}

func TestBaseStats(t *testing.T) {
	s := BaseStats(profile(4))
	want := types.Stats{HP: 100, MaxHP: 100, Attack: 10, Defense: 5, Level: 1}
	if s != want {
		t.Errorf("stats = %+v, want %+v", s, want)
	}
}
