package window

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/antidote/clock"
	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/logging"
	"github.com/nathoo/antidote/render"
	"github.com/nathoo/antidote/types"
)

// brokenSprites fails the way a corrupt asset would deep inside a draw.
type brokenSprites struct{}

func (brokenSprites) Player(string, types.Direction) (image.Image, bool) { return nil, false }
func (brokenSprites) Shop(string) (image.Image, bool)                    { return nil, false }
func (brokenSprites) NPC() (image.Image, bool)                           { return nil, false }
func (brokenSprites) Stairs(string) (image.Image, bool)                  { return nil, false }
func (brokenSprites) Item(types.ItemType) (image.Image, bool)            { return nil, false }
func (brokenSprites) Floor() (image.Image, bool)                         { panic("floor tile exploded") }

func newGame(t *testing.T) *engine.Game {
	t.Helper()
	g, err := engine.New(engine.Options{
		Defs: &types.Defs{
			Game:       types.GameDef{Title: "Test", StartFloor: 1},
			Floors:     map[int]types.FloorDef{1: {ID: 1, Name: "一樓", Spawn: types.Point{X: 512, Y: 384}}},
			Characters: []types.CharacterProfile{{ID: "alex", Name: "阿力", Speed: 8, HP: 100, Attack: 12, Defense: 5}},
		},
		Clock: clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		Seed:  1,
	})
	require.NoError(t, err)
	g.Frame([]input.Event{input.Press(input.KeySpace)})
	require.Equal(t, types.ModeExploration, g.Mode())
	return g
}

func TestRender_RecoversPanic(t *testing.T) {
	w := New(newGame(t), render.New(brokenSprites{}), Options{Log: logging.Discard()})

	w.Draw(nil) // the failed render returns before touching the screen
	require.Error(t, w.err)
	assert.Contains(t, w.err.Error(), "floor tile exploded")
	assert.Equal(t, w.err, w.Update(), "the next tick stops the loop")
}

func TestRender_OK(t *testing.T) {
	w := New(newGame(t), render.New(nil), Options{Log: logging.Discard()})
	assert.NoError(t, w.render())
	assert.NoError(t, w.err)
}
