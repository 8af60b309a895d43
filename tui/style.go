package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSelected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleHP = lipgloss.NewStyle().
		Foreground(lipgloss.Color("160"))

	styleEXP = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
)

// Tile styles, one per grid cell kind.
var (
	styleFloorTile  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	styleWallTile   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleZoneTile   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	styleShopTile   = lipgloss.NewStyle().Foreground(lipgloss.Color("172")).Bold(true)
	styleNPCTile    = lipgloss.NewStyle().Foreground(lipgloss.Color("71")).Bold(true)
	styleStairsTile = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	styleItemTile   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	stylePlayerTile = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

// lineKind identifies the type of a log line for styling.
type lineKind int

const (
	kindInfo lineKind = iota
	kindGain
	kindWarn
	kindCombat
)

// classifyLine determines what kind of log line this is from its wording.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "擊敗"),
		strings.Contains(line, "戰鬥"):
		return kindCombat
	case strings.Contains(line, "已滿"),
		strings.Contains(line, "需要"),
		strings.Contains(line, "無法"),
		strings.Contains(line, "不足"),
		strings.Contains(line, "失敗"),
		strings.Contains(line, "倒下"):
		return kindWarn
	case strings.Contains(line, "獲得"),
		strings.Contains(line, "恢復"),
		strings.Contains(line, "升級"),
		strings.Contains(line, "找到"):
		return kindGain
	default:
		return kindInfo
	}
}

// renderLine applies the style for a log line.
func renderLine(line string) string {
	switch classifyLine(line) {
	case kindGain:
		return styleGain.Render(line)
	case kindWarn:
		return styleWarn.Render(line)
	case kindCombat:
		return styleCombat.Render(line)
	default:
		return styleText.Render(line)
	}
}

// meter draws a fixed-width text bar such as ██████░░░░.
func meter(value, maxValue, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxValue > 0 && value > 0 {
		filled = width * min(value, maxValue) / maxValue
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
