package assets

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/nathoo/antidote/logging"
)

// SystemCJKFonts are well-known locations of fonts with CJK coverage,
// tried after the configured ones.
var SystemCJKFonts = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	`C:\Windows\Fonts\msjh.ttc`,
	`C:\Windows\Fonts\msyh.ttc`,
}

// Fonts hands out font faces by size and weight. It never fails: when no
// CJK font can be loaded the Go fonts are used.
type Fonts struct {
	log     *slog.Logger
	regular *opentype.Font
	bold    *opentype.Font
	source  string

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// NewFonts loads the first usable font from preferred, then the system
// list, then falls back to the embedded Go fonts.
func NewFonts(preferred []string, log *slog.Logger) *Fonts {
	if log == nil {
		log = logging.For("assets")
	}
	f := &Fonts{log: log, faces: map[faceKey]font.Face{}}

	for _, path := range append(append([]string{}, preferred...), SystemCJKFonts...) {
		fnt, err := loadFont(path)
		if err != nil {
			log.Debug("font skipped", "path", path, "err", err)
			continue
		}
		f.regular, f.bold, f.source = fnt, fnt, path
		log.Info("font loaded", "path", path)
		return f
	}

	// The Go fonts ship with x/image and always parse.
	f.regular, _ = opentype.Parse(goregular.TTF)
	f.bold, _ = opentype.Parse(gobold.TTF)
	f.source = "gofont"
	log.Warn("no CJK font found, using Go fonts")
	return f
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing collection %s: %w", path, err)
		}
		return coll.Font(0)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fnt, nil
}

// Source names the loaded font file, or "gofont".
func (f *Fonts) Source() string { return f.source }

// Face returns a cached face of the given pixel size.
func (f *Fonts) Face(size float64, bold bool) font.Face {
	key := faceKey{size: size, bold: bold}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face
	}

	src := f.regular
	if bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Size is the only input that can be wrong here.
		f.log.Warn("font face failed, using default size", "size", size, "err", err)
		face, _ = opentype.NewFace(src, &opentype.FaceOptions{Size: 16, DPI: 72})
	}
	f.faces[key] = face
	return face
}

// Close releases the cached faces.
func (f *Fonts) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, face := range f.faces {
		face.Close()
		delete(f.faces, k)
	}
	return nil
}
