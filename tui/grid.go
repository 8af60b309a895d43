package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/types"
)

// The terminal shows the screen one character cell pair per tile.
const (
	gridCols = types.ScreenWidth / types.TileSize
	gridRows = types.ScreenHeight / types.TileSize
)

type cell int

const (
	cellFloor cell = iota
	cellWall
	cellZone
	cellShop
	cellNPC
	cellStairsUp
	cellStairsDown
	cellItem
	cellPlayer
)

// Every glyph is two columns wide.
var glyphs = map[cell]struct {
	text  string
	style lipgloss.Style
}{
	cellFloor:      {"· ", styleFloorTile},
	cellWall:       {"██", styleWallTile},
	cellZone:       {"!!", styleZoneTile},
	cellShop:       {"店", styleShopTile},
	cellNPC:        {"人", styleNPCTile},
	cellStairsUp:   {"▲ ", styleStairsTile},
	cellStairsDown: {"▼ ", styleStairsTile},
	cellItem:       {"＊", styleItemTile},
	cellPlayer:     {"＠", stylePlayerTile},
}

type grid [gridRows][gridCols]cell

// buildGrid rasterises the current floor. Later layers overwrite earlier
// ones: walls, zones, interactables, items, then the player.
func buildGrid(g *engine.Game) *grid {
	var gr grid
	floor := g.CurrentFloor()

	for _, w := range floor.Walls {
		gr.paint(w, cellWall)
	}
	if g.ShowZones() {
		for _, z := range g.World.Zones(floor.ID) {
			gr.paint(z.Area, cellZone)
		}
	}
	for _, in := range floor.Interactables {
		c := cellShop
		switch in.Kind {
		case types.KindNPC:
			c = cellNPC
		case types.KindStairs:
			c = cellStairsDown
			if in.Stairs.Direction == "up" {
				c = cellStairsUp
			}
		}
		gr.paint(in.Area, c)
	}
	for _, it := range g.World.Items(floor.ID) {
		gr.set(it.At.X/types.TileSize, it.At.Y/types.TileSize, cellItem)
	}
	if g.Player.Visible() {
		p := g.Player.Pos
		gr.set((p.X+types.TileSize/2)/types.TileSize, (p.Y+types.TileSize/2)/types.TileSize, cellPlayer)
	}
	return &gr
}

func (gr *grid) set(col, row int, c cell) {
	if col < 0 || col >= gridCols || row < 0 || row >= gridRows {
		return
	}
	gr[row][col] = c
}

// paint fills every tile the rectangle touches.
func (gr *grid) paint(r types.Rect, c cell) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x0, y0 := r.X/types.TileSize, r.Y/types.TileSize
	x1, y1 := (r.X+r.W-1)/types.TileSize, (r.Y+r.H-1)/types.TileSize
	for row := y0; row <= y1; row++ {
		for col := x0; col <= x1; col++ {
			gr.set(col, row, c)
		}
	}
}

// render styles runs of equal cells together to keep the escape codes short.
func (gr *grid) render() string {
	lines := make([]string, 0, gridRows)
	for _, row := range gr {
		var b strings.Builder
		start := 0
		for col := 1; col <= gridCols; col++ {
			if col < gridCols && row[col] == row[start] {
				continue
			}
			gl := glyphs[row[start]]
			b.WriteString(gl.style.Render(strings.Repeat(gl.text, col-start)))
			start = col
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
