package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/antidote/engine/input"
)

// keyMap is the terminal binding of the game's key vocabulary.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Interact  key.Binding
	Back      key.Binding
	Inventory key.Binding
	Map       key.Binding
	Restart   key.Binding
	Choose    key.Binding
	Dev       key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "上")),
		Down:      key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "下")),
		Left:      key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "左")),
		Right:     key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "右")),
		Interact:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "互動")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "返回")),
		Inventory: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "背包")),
		Map:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "地圖")),
		Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "重新開始")),
		Choose: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "選擇")),
		Dev: key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11"),
			key.WithHelp("f1-f11", "除錯")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "離開")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Interact, k.Choose, k.Inventory, k.Map, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Interact, k.Choose, k.Back},
		{k.Inventory, k.Map, k.Restart},
		{k.Dev, k.Quit},
	}
}

// toInput maps a terminal key press to the logical key it stands for.
func (k keyMap) toInput(msg tea.KeyMsg) (input.Key, bool) {
	fixed := []struct {
		binding key.Binding
		key     input.Key
	}{
		{k.Up, input.KeyUp},
		{k.Down, input.KeyDown},
		{k.Left, input.KeyLeft},
		{k.Right, input.KeyRight},
		{k.Interact, input.KeySpace},
		{k.Back, input.KeyEscape},
		{k.Inventory, input.KeyI},
		{k.Map, input.KeyM},
		{k.Restart, input.KeyR},
	}
	for _, f := range fixed {
		if key.Matches(msg, f.binding) {
			return f.key, true
		}
	}
	if key.Matches(msg, k.Choose, k.Dev) {
		if ik, err := input.ParseKey(msg.String()); err == nil {
			return ik, true
		}
	}
	return input.KeyNone, false
}

// logKeyMap scrolls the message log with the page keys only; the arrows
// belong to the game.
func logKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
