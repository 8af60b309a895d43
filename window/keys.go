package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nathoo/antidote/engine/input"
)

// keyMap binds ebiten keys to the logical vocabulary. WASD and the keypad
// digits alias the canonical keys.
var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyW:          input.KeyUp,
	ebiten.KeyS:          input.KeyDown,
	ebiten.KeyA:          input.KeyLeft,
	ebiten.KeyD:          input.KeyRight,
	ebiten.KeySpace:      input.KeySpace,
	ebiten.KeyEnter:      input.KeySpace,
	ebiten.KeyEscape:     input.KeyEscape,
	ebiten.KeyI:          input.KeyI,
	ebiten.KeyM:          input.KeyM,
	ebiten.KeyR:          input.KeyR,
	ebiten.Key1:          input.Key1,
	ebiten.Key2:          input.Key2,
	ebiten.Key3:          input.Key3,
	ebiten.Key4:          input.Key4,
	ebiten.Key5:          input.Key5,
	ebiten.Key6:          input.Key6,
	ebiten.Key7:          input.Key7,
	ebiten.Key8:          input.Key8,
	ebiten.Key9:          input.Key9,
	ebiten.KeyNumpad1:    input.Key1,
	ebiten.KeyNumpad2:    input.Key2,
	ebiten.KeyNumpad3:    input.Key3,
	ebiten.KeyF1:         input.KeyF1,
	ebiten.KeyF2:         input.KeyF2,
	ebiten.KeyF3:         input.KeyF3,
	ebiten.KeyF4:         input.KeyF4,
	ebiten.KeyF5:         input.KeyF5,
	ebiten.KeyF6:         input.KeyF6,
	ebiten.KeyF7:         input.KeyF7,
	ebiten.KeyF8:         input.KeyF8,
	ebiten.KeyF9:         input.KeyF9,
	ebiten.KeyF10:        input.KeyF10,
	ebiten.KeyF11:        input.KeyF11,
}

// translate turns this frame's key edges into events. Held movement keys
// repeat every frame; the engine rejects moves while one is animating, so
// holding an arrow walks tile after tile. Callers pass held only during
// exploration.
func translate(pressed, held []ebiten.Key) []input.Event {
	var evs []input.Event
	seen := make(map[input.Key]bool, len(pressed))
	for _, k := range pressed {
		ik, ok := keyMap[k]
		if !ok || seen[ik] {
			continue
		}
		seen[ik] = true
		evs = append(evs, input.Press(ik))
	}
	for _, k := range held {
		ik, ok := keyMap[k]
		if !ok || !ik.Arrow() || seen[ik] {
			continue
		}
		seen[ik] = true
		evs = append(evs, input.Press(ik))
	}
	return evs
}
