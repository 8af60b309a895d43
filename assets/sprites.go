// Package assets loads the optional sprites and fonts. Every lookup may
// miss; callers fall back to drawing primitives. Misses are logged once.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // register the PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nathoo/antidote/logging"
	"github.com/nathoo/antidote/types"
)

// Reload groups and the sprite key prefixes they evict.
var reloadGroups = map[string][]string{
	"stairs": {"stairs_"},
	"floor":  {"floor"},
	"shops":  {"shops/"},
}

// Sprites caches decoded PNGs from <dir>/images. Keys are paths relative
// to that directory without the extension, e.g. "player/alex_up".
type Sprites struct {
	dir  string
	log  *slog.Logger
	once logging.Once

	mu    sync.Mutex
	cache map[string]image.Image // nil marks a known miss
}

// NewSprites creates a sprite cache rooted at the asset directory.
func NewSprites(dir string, log *slog.Logger) *Sprites {
	if log == nil {
		log = logging.For("assets")
	}
	return &Sprites{dir: dir, log: log, cache: map[string]image.Image{}}
}

// Get returns the sprite for key.
func (s *Sprites) Get(key string) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if img, ok := s.cache[key]; ok {
		return img, img != nil
	}
	img, err := s.decode(key)
	if err != nil {
		s.once.Warn(s.log, key, "sprite unavailable", "key", key, "err", err)
		s.cache[key] = nil
		return nil, false
	}
	s.cache[key] = img
	return img, true
}

func (s *Sprites) decode(key string) (image.Image, error) {
	path := filepath.Join(s.dir, "images", filepath.FromSlash(key)+".png")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Player returns the character sprite facing d. A directional sprite wins;
// otherwise the single sprite is used, mirrored when facing left.
func (s *Sprites) Player(character string, d types.Direction) (image.Image, bool) {
	if img, ok := s.Get("player/" + character + "_" + d.String()); ok {
		return img, true
	}
	img, ok := s.Get("player/" + character)
	if !ok {
		return nil, false
	}
	if d == types.DirLeft {
		return s.mirrored("player/"+character, img), true
	}
	return img, true
}

// mirrored caches the horizontal flip of img under key+"#mirror".
func (s *Sprites) mirrored(key string, img image.Image) image.Image {
	key += "#mirror"
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.cache[key]; ok && m != nil {
		return m
	}
	m := Mirror(img)
	s.cache[key] = m
	return m
}

// Shop returns the sign sprite of a shop.
func (s *Sprites) Shop(sign string) (image.Image, bool) { return s.Get("shops/" + sign) }

// NPC returns the shared NPC sprite.
func (s *Sprites) NPC() (image.Image, bool) { return s.Get("npc") }

// Stairs returns the stairs sprite for "up" or "down".
func (s *Sprites) Stairs(direction string) (image.Image, bool) { return s.Get("stairs_" + direction) }

// Floor returns the floor tile.
func (s *Sprites) Floor() (image.Image, bool) { return s.Get("floor") }

// Item returns the sprite for an item. Key items use the keycard art.
func (s *Sprites) Item(t types.ItemType) (image.Image, bool) {
	switch t {
	case types.ItemKey:
		return s.Get("items/keycard")
	case types.ItemHealing:
		return s.Get("items/healing")
	}
	return s.Get("items/special")
}

// Reload evicts a group so the next lookup reads the files again.
func (s *Sprites) Reload(group string) error {
	prefixes, ok := reloadGroups[group]
	if !ok {
		return fmt.Errorf("unknown asset group %q", group)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.cache {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(s.cache, key)
				s.once.Forget(key)
				n++
			}
		}
	}
	s.log.Info("assets reloaded", "group", group, "evicted", n)
	return nil
}

// Mirror returns a horizontally flipped copy of img.
func Mirror(img image.Image) *image.RGBA {
	b := img.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	out := image.NewRGBA(src.Bounds())
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(w-1-x, y, src.RGBAAt(x, y))
		}
	}
	return out
}
