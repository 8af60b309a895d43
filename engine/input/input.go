// Package input defines the frontend-neutral key vocabulary. Frontends
// translate their native key events into Events and feed them to the game
// in arrival order.
package input

import (
	"fmt"
	"strings"
)

// Key is a logical key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	KeyI
	KeyM
	KeyR
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
)

var keyNames = map[Key]string{
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeySpace:  "space",
	KeyEscape: "esc",
	KeyI:      "i",
	KeyM:      "m",
	KeyR:      "r",
	Key1:      "1",
	Key2:      "2",
	Key3:      "3",
	Key4:      "4",
	Key5:      "5",
	Key6:      "6",
	Key7:      "7",
	Key8:      "8",
	Key9:      "9",
	KeyF1:     "f1",
	KeyF2:     "f2",
	KeyF3:     "f3",
	KeyF4:     "f4",
	KeyF5:     "f5",
	KeyF6:     "f6",
	KeyF7:     "f7",
	KeyF8:     "f8",
	KeyF9:     "f9",
	KeyF10:    "f10",
	KeyF11:    "f11",
}

var keyAliases = map[string]Key{
	"escape": KeyEscape,
	" ":      KeySpace,
	"enter":  KeySpace,
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "none"
}

// ParseKey maps a key name (case-insensitive) to a Key.
func ParseKey(s string) (Key, error) {
	if s != " " {
		s = strings.ToLower(strings.TrimSpace(s))
	}
	if k, ok := keyAliases[s]; ok {
		return k, nil
	}
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown key %q", s)
}

// Digit returns the number of a digit key, or 0.
func (k Key) Digit() int {
	if k >= Key1 && k <= Key9 {
		return int(k-Key1) + 1
	}
	return 0
}

// DigitKey returns the key for digit n (1..9).
func DigitKey(n int) Key {
	if n < 1 || n > 9 {
		return KeyNone
	}
	return Key1 + Key(n-1)
}

// Function returns the number of a function key, or 0.
func (k Key) Function() int {
	if k >= KeyF1 && k <= KeyF11 {
		return int(k-KeyF1) + 1
	}
	return 0
}

// Arrow reports whether k is a movement key.
func (k Key) Arrow() bool {
	return k == KeyUp || k == KeyDown || k == KeyLeft || k == KeyRight
}

// Event is one key press.
type Event struct {
	Key Key
}

// Press is shorthand for a single key event.
func Press(k Key) Event { return Event{Key: k} }
