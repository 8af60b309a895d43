// Package window is the desktop frontend: an ebiten game that feeds key
// edges into the engine at 60 TPS and presents the software-rendered frame.
package window

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/render"
	"github.com/nathoo/antidote/types"
)

// ErrQuit is returned from Update when the window asks to close.
var ErrQuit = errors.New("window: quit")

// Options configures the window.
type Options struct {
	Title string
	Fonts render.FaceSource
	Log   *slog.Logger
}

// Game adapts engine.Game to ebiten.Game.
type Game struct {
	game     *engine.Game
	renderer *render.Renderer
	canvas   *render.RGBACanvas
	log      *slog.Logger

	pressed []ebiten.Key
	held    []ebiten.Key
	err     error // set by a failed Draw, returned by the next Update
}

var _ ebiten.Game = (*Game)(nil)

// New wraps g. The renderer is shared with nothing else.
func New(g *engine.Game, r *render.Renderer, opts Options) *Game {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Game{
		game:     g,
		renderer: r,
		canvas:   render.NewRGBACanvas(opts.Fonts),
		log:      log,
	}
}

// Update collects this tick's key edges and advances the engine one frame.
func (w *Game) Update() error {
	if w.err != nil {
		return w.err
	}
	if ebiten.IsWindowBeingClosed() {
		return ErrQuit
	}
	w.pressed = inpututil.AppendJustPressedKeys(w.pressed[:0])
	w.held = w.held[:0]
	if w.game.Mode() == types.ModeExploration {
		w.held = inpututil.AppendPressedKeys(w.held)
	}

	if err := w.game.SafeFrame(translate(w.pressed, w.held)); err != nil {
		return err
	}
	return nil
}

// Draw renders the frame into the RGBA buffer and copies it to the screen.
func (w *Game) Draw(screen *ebiten.Image) {
	if w.err != nil {
		return
	}
	w.renderer.SetFPS(ebiten.ActualFPS())
	if w.err = w.render(); w.err != nil {
		return
	}
	screen.WritePixels(w.canvas.Image().Pix)
}

// render draws the scene into the canvas, converting a panic into an error
// so the loop stops on the next Update instead of crashing the process.
func (w *Game) render() (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("draw panicked", "frame", w.game.FrameCount(), "mode", w.game.Mode().String(),
				"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err = fmt.Errorf("draw frame %d: panic: %v", w.game.FrameCount(), r)
		}
	}()
	w.renderer.Draw(w.canvas, w.game)
	return nil
}

// Layout fixes the logical screen; ebiten scales it to the window.
func (w *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return types.ScreenWidth, types.ScreenHeight
}

// Run opens the window and blocks until it is closed or a frame fails.
// Closing the window is not an error.
func Run(g *engine.Game, r *render.Renderer, opts Options) error {
	title := opts.Title
	if title == "" {
		title = g.Defs().Game.Title
	}
	ebiten.SetWindowSize(types.ScreenWidth, types.ScreenHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(engine.TPS)

	w := New(g, r, opts)
	w.log.Info("window opened", "title", title, "tps", engine.TPS)
	err := ebiten.RunGame(w)
	if errors.Is(err, ErrQuit) {
		err = nil
	}
	w.log.Info("window closed", "frames", g.FrameCount())
	return err
}
