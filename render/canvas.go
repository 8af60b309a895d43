// Package render draws the game onto a Canvas: the world, the player, the
// HUD and every overlay. It reads the engine and never mutates it.
package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/nathoo/antidote/types"
)

// Canvas is the drawing surface the scene renderer targets.
type Canvas interface {
	Bounds() image.Rectangle
	Fill(c color.Color)
	FillRect(r image.Rectangle, c color.Color)
	StrokeRect(r image.Rectangle, c color.Color, width int)
	Circle(center image.Point, radius int, c color.Color)
	Polygon(pts []image.Point, c color.Color)
	DrawImage(img image.Image, dst image.Rectangle)
	// Text draws s with its top-left corner at at and returns the advance width.
	Text(s string, at image.Point, size float64, c color.Color, bold bool) int
	TextWidth(s string, size float64, bold bool) int
}

// FaceSource hands out font faces. assets.Fonts implements it.
type FaceSource interface {
	Face(size float64, bold bool) font.Face
}

// RGBACanvas is the 1024x768 present buffer.
type RGBACanvas struct {
	img    *image.RGBA
	fonts  FaceSource
	raster *vector.Rasterizer
}

var _ Canvas = (*RGBACanvas)(nil)

// NewRGBACanvas allocates the buffer. A nil fonts uses a fixed bitmap face.
func NewRGBACanvas(fonts FaceSource) *RGBACanvas {
	return &RGBACanvas{
		img:   image.NewRGBA(image.Rect(0, 0, types.ScreenWidth, types.ScreenHeight)),
		fonts: fonts,
	}
}

// Image returns the backing buffer.
func (c *RGBACanvas) Image() *image.RGBA { return c.img }

func (c *RGBACanvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *RGBACanvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *RGBACanvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *RGBACanvas) StrokeRect(r image.Rectangle, col color.Color, width int) {
	if width <= 0 {
		width = 1
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), col)
	c.FillRect(image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), col)
}

// kappa places cubic control points for a quarter-circle arc.
const kappa = 0.5522847

// begin sizes the rasterizer to area clipped to the canvas and returns the
// destination rectangle. Paths are then drawn relative to its Min.
func (c *RGBACanvas) begin(area image.Rectangle) (image.Rectangle, bool) {
	area = area.Intersect(c.img.Bounds())
	if area.Empty() {
		return area, false
	}
	if c.raster == nil {
		c.raster = vector.NewRasterizer(area.Dx(), area.Dy())
	} else {
		c.raster.Reset(area.Dx(), area.Dy())
	}
	return area, true
}

func (c *RGBACanvas) Circle(center image.Point, radius int, col color.Color) {
	if radius <= 0 {
		return
	}
	dst, ok := c.begin(image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1))
	if !ok {
		return
	}
	r := float32(radius)
	k := r * kappa
	cx := float32(center.X-dst.Min.X) + 0.5
	cy := float32(center.Y-dst.Min.Y) + 0.5

	z := c.raster
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(c.img, dst, image.NewUniform(col), image.Point{})
}

// Polygon fills the closed outline through pts.
func (c *RGBACanvas) Polygon(pts []image.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	area := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		area = area.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	dst, ok := c.begin(area)
	if !ok {
		return
	}
	at := func(p image.Point) (float32, float32) {
		return float32(p.X - dst.Min.X), float32(p.Y - dst.Min.Y)
	}

	z := c.raster
	z.MoveTo(at(pts[0]))
	for _, p := range pts[1:] {
		z.LineTo(at(p))
	}
	z.ClosePath()
	z.Draw(c.img, dst, image.NewUniform(col), image.Point{})
}

// DrawImage scales img into dst with nearest-neighbour sampling.
func (c *RGBACanvas) DrawImage(img image.Image, dst image.Rectangle) {
	xdraw.NearestNeighbor.Scale(c.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

func (c *RGBACanvas) face(size float64, bold bool) font.Face {
	if c.fonts == nil {
		return basicfont.Face7x13
	}
	return c.fonts.Face(size, bold)
}

func (c *RGBACanvas) Text(s string, at image.Point, size float64, col color.Color, bold bool) int {
	face := c.face(size, bold)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(at.X, at.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	return (d.Dot.X - fixed.I(at.X)).Ceil()
}

func (c *RGBACanvas) TextWidth(s string, size float64, bold bool) int {
	return font.MeasureString(c.face(size, bold), s).Ceil()
}
