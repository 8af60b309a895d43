package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/types"
)

// SpriteSource supplies optional sprites. assets.Sprites implements it.
type SpriteSource interface {
	Player(character string, d types.Direction) (image.Image, bool)
	Shop(sign string) (image.Image, bool)
	NPC() (image.Image, bool)
	Stairs(direction string) (image.Image, bool)
	Floor() (image.Image, bool)
	Item(t types.ItemType) (image.Image, bool)
}

type noSprites struct{}

func (noSprites) Player(string, types.Direction) (image.Image, bool) { return nil, false }
func (noSprites) Shop(string) (image.Image, bool)                    { return nil, false }
func (noSprites) NPC() (image.Image, bool)                           { return nil, false }
func (noSprites) Stairs(string) (image.Image, bool)                  { return nil, false }
func (noSprites) Floor() (image.Image, bool)                         { return nil, false }
func (noSprites) Item(types.ItemType) (image.Image, bool)            { return nil, false }

// Palette.
var (
	colBlack     = color.RGBA{A: 255}
	colWhite     = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	colGrey      = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	colPanel     = color.RGBA{R: 16, G: 18, B: 26, A: 220}
	colBorder    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	colHighlight = color.RGBA{R: 250, G: 210, B: 80, A: 255}
	colHP        = color.RGBA{R: 210, G: 60, B: 60, A: 255}
	colHPBack    = color.RGBA{R: 70, G: 20, B: 20, A: 255}
	colEXP       = color.RGBA{R: 80, G: 160, B: 230, A: 255}
	colEXPBack   = color.RGBA{R: 20, G: 40, B: 70, A: 255}
	colWall      = color.RGBA{R: 28, G: 30, B: 36, A: 255}
	colGrid      = color.RGBA{R: 255, G: 255, B: 255, A: 14}
	colShop      = color.RGBA{R: 190, G: 120, B: 60, A: 255}
	colNPC       = color.RGBA{R: 120, G: 190, B: 120, A: 255}
	colStairs    = color.RGBA{R: 150, G: 150, B: 200, A: 255}
	colZone      = color.RGBA{R: 220, G: 40, B: 40, A: 70}
	colShade     = color.RGBA{A: 170}
	colFlash     = color.RGBA{R: 255, A: 60}
)

var itemColors = map[types.ItemType]color.RGBA{
	types.ItemHealing: {R: 230, G: 80, B: 80, A: 255},
	types.ItemKey:     {R: 240, G: 200, B: 60, A: 255},
	types.ItemSpecial: {R: 170, G: 90, B: 220, A: 255},
	types.ItemClue:    {R: 90, G: 200, B: 220, A: 255},
}

// Text sizes.
const (
	sizeSmall = 14
	sizeBody  = 18
	sizeTitle = 28
	sizeHuge  = 48
)

// Renderer draws a game frame.
type Renderer struct {
	sprites SpriteSource
	fps     float64
}

// New creates a renderer. A nil sprites source draws primitives only.
func New(sprites SpriteSource) *Renderer {
	if sprites == nil {
		sprites = noSprites{}
	}
	return &Renderer{sprites: sprites}
}

// SetFPS records the frontend's measured frame rate for the debug overlay.
func (r *Renderer) SetFPS(fps float64) { r.fps = fps }

// Draw renders one frame in the fixed order: world, player, then overlays.
func (r *Renderer) Draw(c Canvas, g *engine.Game) {
	if g.Mode() == types.ModeIntro {
		r.drawIntro(c, g)
		return
	}

	r.drawWorld(c, g)
	r.drawPlayer(c, g)

	switch g.Mode() {
	case types.ModeDialogue:
		r.drawDialogue(c, g)
	case types.ModeCombat:
		r.drawCombat(c, g)
	}
	switch g.Overlay() {
	case engine.OverlayInventory:
		r.drawInventory(c, g)
	case engine.OverlayMap:
		r.drawMap(c, g)
	}

	r.drawHUD(c, g)
	r.drawMessages(c, g)

	if g.Mode().Terminal() {
		r.drawTerminal(c, g)
	}
	if g.Debug() {
		r.drawDebug(c, g)
	}
}

func toRect(r types.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func tileAt(p types.Point) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+types.TileSize, p.Y+types.TileSize)
}

func (r *Renderer) drawWorld(c Canvas, g *engine.Game) {
	floor := g.CurrentFloor()
	c.Fill(floor.Background)

	if tile, ok := r.sprites.Floor(); ok {
		for y := types.FieldMinY; y <= types.FieldMaxY; y += types.TileSize {
			for x := types.FieldMinX; x <= types.FieldMaxX; x += types.TileSize {
				c.DrawImage(tile, tileAt(types.Point{X: x, Y: y}))
			}
		}
	} else {
		for x := types.FieldMinX; x <= types.FieldMaxX+types.TileSize; x += types.TileSize {
			c.FillRect(image.Rect(x, types.FieldMinY, x+1, types.FieldMaxY+types.TileSize), colGrid)
		}
		for y := types.FieldMinY; y <= types.FieldMaxY+types.TileSize; y += types.TileSize {
			c.FillRect(image.Rect(types.FieldMinX, y, types.FieldMaxX+types.TileSize, y+1), colGrid)
		}
	}

	for _, w := range floor.Walls {
		c.FillRect(toRect(w), colWall)
	}

	if g.ShowZones() {
		for _, z := range g.World.Zones(floor.ID) {
			c.FillRect(toRect(z.Area), colZone)
			c.StrokeRect(toRect(z.Area), colHP, 1)
		}
	}

	for _, in := range floor.Interactables {
		r.drawInteractable(c, in)
	}

	for _, it := range g.World.Items(floor.ID) {
		box := image.Rect(it.At.X-12, it.At.Y-12, it.At.X+12, it.At.Y+12)
		if img, ok := r.sprites.Item(it.Item.Type); ok {
			c.DrawImage(img, box)
			continue
		}
		col, ok := itemColors[it.Item.Type]
		if !ok {
			col = colWhite
		}
		c.Circle(image.Pt(it.At.X, it.At.Y), 9, col)
		c.Circle(image.Pt(it.At.X, it.At.Y), 4, colWhite)
	}
}

func (r *Renderer) drawInteractable(c Canvas, in types.Interactable) {
	box := toRect(in.Area)
	var img image.Image
	var ok bool
	fill := colShop

	switch in.Kind {
	case types.KindShop:
		img, ok = r.sprites.Shop(in.Shop.Sign)
	case types.KindNPC:
		img, ok = r.sprites.NPC()
		fill = colNPC
	case types.KindStairs:
		img, ok = r.sprites.Stairs(in.Stairs.Direction)
		fill = colStairs
	}

	if ok {
		c.DrawImage(img, box)
	} else {
		c.FillRect(box, fill)
		c.StrokeRect(box, colBorder, 2)
		if in.Kind == types.KindStairs {
			drawArrow(c, box, in.Stairs.Direction == "up")
		}
	}

	if in.Name != "" {
		w := c.TextWidth(in.Name, sizeSmall, false)
		at := image.Pt(box.Min.X+(box.Dx()-w)/2, box.Min.Y-sizeSmall-4)
		c.Text(in.Name, at, sizeSmall, colWhite, false)
	}
}

func drawArrow(c Canvas, box image.Rectangle, up bool) {
	cx := box.Min.X + box.Dx()/2
	top, bottom := box.Min.Y+box.Dy()/4, box.Max.Y-box.Dy()/4
	half := box.Dx() / 4
	if up {
		c.Polygon([]image.Point{{cx, top}, {cx + half, bottom}, {cx - half, bottom}}, colWhite)
		return
	}
	c.Polygon([]image.Point{{cx - half, top}, {cx + half, top}, {cx, bottom}}, colWhite)
}

// drawPlayer walks the fallback chain: sprite (directional or mirrored),
// then a programmatic body in the character colour, then a plain tile.
func (r *Renderer) drawPlayer(c Canvas, g *engine.Game) {
	p := g.Player
	if !p.Visible() {
		return
	}
	box := tileAt(p.Pos)

	if img, ok := r.sprites.Player(p.Profile.ID, p.Facing); ok {
		c.DrawImage(img, box)
		return
	}
	if p.Profile.Color.A == 0 {
		c.FillRect(box, colWhite)
		c.StrokeRect(box, colBlack, 1)
		return
	}
	drawBody(c, box, p.Profile.Color, p.Facing, p.AnimFrame())
}

// drawBody is the pixel-art avatar: head, torso, two legs that alternate
// with the walk frame, and eyes that follow the facing.
func drawBody(c Canvas, box image.Rectangle, body color.RGBA, facing types.Direction, frame int) {
	x, y := box.Min.X, box.Min.Y
	skin := color.RGBA{R: 240, G: 200, B: 160, A: 255}
	dark := color.RGBA{R: body.R / 2, G: body.G / 2, B: body.B / 2, A: 255}

	c.Circle(image.Pt(x+16, y+9), 7, skin)
	c.FillRect(image.Rect(x+8, y+15, x+24, y+26), body)

	step := 0
	if frame%2 == 1 {
		step = 2
	}
	c.FillRect(image.Rect(x+9, y+26, x+15, y+32-step), dark)
	c.FillRect(image.Rect(x+17, y+26, x+23, y+32-(2-step)), dark)

	switch facing {
	case types.DirLeft:
		c.FillRect(image.Rect(x+11, y+8, x+13, y+10), colBlack)
	case types.DirRight:
		c.FillRect(image.Rect(x+19, y+8, x+21, y+10), colBlack)
	case types.DirDown:
		c.FillRect(image.Rect(x+12, y+8, x+14, y+10), colBlack)
		c.FillRect(image.Rect(x+18, y+8, x+20, y+10), colBlack)
	}
}

func panel(c Canvas, r image.Rectangle) {
	c.FillRect(r, colPanel)
	c.StrokeRect(r, colBorder, 2)
}

func bar(c Canvas, r image.Rectangle, value, maxValue int, fg, bg color.Color) {
	c.FillRect(r, bg)
	if maxValue > 0 && value > 0 {
		w := r.Dx() * min(value, maxValue) / maxValue
		c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), fg)
	}
	c.StrokeRect(r, colBorder, 1)
}

func centered(c Canvas, s string, y int, size float64, col color.Color, bold bool) {
	w := c.TextWidth(s, size, bold)
	c.Text(s, image.Pt((types.ScreenWidth-w)/2, y), size, col, bold)
}

func hpText(s types.Stats) string {
	return fmt.Sprintf("HP %d/%d", s.HP, s.MaxHP)
}
