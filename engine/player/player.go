// Package player implements the player entity: grid-aligned movement
// animation, facing, invulnerability and the selected character profile.
package player

import (
	"github.com/nathoo/antidote/types"
)

// Step is the grid step of one move in pixels.
const Step = types.TileSize

// minArrival is the smallest arrival tolerance in pixels.
const minArrival = 2

// framesPerAnim is how many frames each walk animation frame lasts.
const framesPerAnim = 8

// Player is the grid-aligned avatar. It is owned by the mode controller.
type Player struct {
	Profile types.CharacterProfile
	Pos     types.Point
	Facing  types.Direction
	Floor   int

	moving bool
	origin types.Point
	target types.Point
	frame  int
	ticks  int
	invuln int
}

// New places a player with the given profile at spawn on floor.
func New(profile types.CharacterProfile, spawn types.Point, floor int) *Player {
	if profile.Speed <= 0 {
		profile.Speed = 4
	}
	return &Player{
		Profile: profile,
		Pos:     Clamp(spawn),
		Facing:  types.DirDown,
		Floor:   floor,
	}
}

// BaseStats returns the level-1 stats for the profile.
func BaseStats(p types.CharacterProfile) types.Stats {
	return types.Stats{
		HP:      p.HP,
		MaxHP:   p.HP,
		Attack:  p.Attack,
		Defense: p.Defense,
		Level:   1,
	}
}

// Clamp constrains p to the play-field.
func Clamp(p types.Point) types.Point {
	p.X = clampInt(p.X, types.FieldMinX, types.FieldMaxX)
	p.Y = clampInt(p.Y, types.FieldMinY, types.FieldMaxY)
	return p
}

// Delta returns the one-step pixel offset for a direction.
func Delta(d types.Direction) (dx, dy int) {
	switch d {
	case types.DirUp:
		return 0, -Step
	case types.DirDown:
		return 0, Step
	case types.DirLeft:
		return -Step, 0
	default:
		return Step, 0
	}
}

// Move requests a one-tile move. It is rejected while another move is in
// flight or when the clamped target equals the current position. Facing
// follows the last accepted move.
func (p *Player) Move(d types.Direction) bool {
	if p.moving {
		return false
	}
	dx, dy := Delta(d)
	target := Clamp(types.Point{X: p.Pos.X + dx, Y: p.Pos.Y + dy})
	if target == p.Pos {
		return false
	}
	p.Facing = d
	p.origin = p.Pos
	p.target = target
	p.moving = true
	return true
}

// Moving reports whether a move is in flight.
func (p *Player) Moving() bool { return p.moving }

// Target returns the destination of the in-flight move.
func (p *Player) Target() (types.Point, bool) {
	return p.target, p.moving
}

// Arrival returns the snap tolerance: max(2, speed+1).
func (p *Player) Arrival() int {
	if t := p.Profile.Speed + 1; t > minArrival {
		return t
	}
	return minArrival
}

// Update advances the in-flight move by at most speed pixels per axis and
// counts down invulnerability. It reports whether a move completed.
func (p *Player) Update() bool {
	if p.invuln > 0 {
		p.invuln--
	}
	if !p.moving {
		p.frame = 0
		p.ticks = 0
		return false
	}

	dx := p.target.X - p.Pos.X
	dy := p.target.Y - p.Pos.Y
	tol := p.Arrival()
	if abs(dx) <= tol && abs(dy) <= tol {
		p.Pos = p.target
		p.moving = false
		return true
	}
	p.Pos.X += stepToward(dx, p.Profile.Speed)
	p.Pos.Y += stepToward(dy, p.Profile.Speed)

	p.ticks++
	if p.ticks >= framesPerAnim {
		p.ticks = 0
		p.frame = (p.frame + 1) % 4
	}
	return false
}

// Cancel aborts the in-flight move, returning to the tile it started from.
func (p *Player) Cancel() {
	if !p.moving {
		return
	}
	p.Pos = p.origin
	p.moving = false
	p.frame = 0
	p.ticks = 0
}

// Teleport places the player on floor at pos and stops any motion.
func (p *Player) Teleport(floor int, pos types.Point) {
	p.Floor = floor
	p.Pos = Clamp(pos)
	p.moving = false
	p.frame = 0
	p.ticks = 0
}

// AnimFrame returns the current walk animation frame (0..3).
func (p *Player) AnimFrame() int { return p.frame }

// Invulnerable reports whether damage is currently blocked.
func (p *Player) Invulnerable() bool { return p.invuln > 0 }

// InvulnerableFrames returns the remaining invulnerability.
func (p *Player) InvulnerableFrames() int { return p.invuln }

// SetInvulnerable starts an invulnerability window of n frames.
func (p *Player) SetInvulnerable(n int) {
	if n > p.invuln {
		p.invuln = n
	}
}

// Hit starts an invulnerability window if the player is vulnerable and
// reports whether the hit lands.
func (p *Player) Hit(frames int) bool {
	if p.invuln > 0 {
		return false
	}
	p.invuln = frames
	return true
}

// Visible reports whether the sprite is drawn this frame. The sprite
// flashes every 4 frames while invulnerable.
func (p *Player) Visible() bool {
	if p.invuln == 0 {
		return true
	}
	return (p.invuln/4)%2 == 0
}

// Reset restores the spawn state for a restart.
func (p *Player) Reset(profile types.CharacterProfile, spawn types.Point, floor int) {
	*p = *New(profile, spawn, floor)
}

func stepToward(d, speed int) int {
	switch {
	case d > 0:
		if d < speed {
			return d
		}
		return speed
	case d < 0:
		if -d < speed {
			return d
		}
		return -speed
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
