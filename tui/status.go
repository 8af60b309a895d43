package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// floor, health, level, mode and frame counter.
func (m Model) renderStatusBar() string {
	g := m.game
	s := g.Progress.Stats

	left := fmt.Sprintf(" %s | HP %d/%d | Lv.%d | %s", g.CurrentFloor().Name, s.HP, s.MaxHP, s.Level, g.Mode())
	if o := g.Overlay().String(); o != "none" {
		left += " | " + o
	}
	right := fmt.Sprintf("背包 %d/%d | F:%d ", g.Inventory.Len(), g.Inventory.Capacity(), g.FrameCount())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(max(m.width, 1)).Render(bar)
}
