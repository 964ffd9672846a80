package canvas

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects one of the four poster font faces.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// fontFiles maps each style to the TTF file name looked up in a custom
// font directory. The names match the Inter family the poster template
// was designed with.
var fontFiles = map[Style]string{
	Regular:    "Inter-Regular.ttf",
	Bold:       "Inter-Bold.ttf",
	Italic:     "Inter-Italic.ttf",
	BoldItalic: "Inter-BoldItalic.ttf",
}

// fallbackTTF holds the embedded Go fonts used when a custom face cannot
// be loaded. A missing or malformed custom font must never block rendering.
var fallbackTTF = map[Style][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
}

// FontSet holds the four parsed poster fonts, loaded once at startup and
// shared read-only by every render. Only the parsed fonts are shared:
// faces carry mutable glyph and raster buffers, so each one is built
// fresh per call and never handed to two renders.
type FontSet struct {
	fonts map[Style]*truetype.Font
}

// Load parses the four poster fonts. If dir is non-empty, matching TTF
// files are tried there first; any face that cannot be read or parsed
// falls back to the embedded Go font of the same weight and style.
// Load only fails if even an embedded fallback fails to parse, which
// indicates a build problem rather than a runtime condition.
func Load(dir string) (*FontSet, error) {
	fs := &FontSet{
		fonts: make(map[Style]*truetype.Font, len(fontFiles)),
	}
	for style, name := range fontFiles {
		data := fallbackTTF[style]
		if dir != "" {
			custom, err := os.ReadFile(filepath.Join(dir, name))
			if err == nil {
				data = custom
			}
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			if dir == "" {
				return nil, fmt.Errorf("parse embedded font %s: %w", name, err)
			}
			// Custom file was malformed, retry with the embedded face.
			parsed, err = truetype.Parse(fallbackTTF[style])
			if err != nil {
				return nil, fmt.Errorf("parse fallback font %s: %w", name, err)
			}
		}
		fs.fonts[style] = parsed
	}
	return fs, nil
}

// Face returns a fresh font.Face for the given style at the given pixel
// size. truetype faces are not safe for concurrent use; returning a new
// one per call keeps overlapping renders (a superseded preview drawing
// alongside its successor, parallel exports) from sharing buffers.
func (fs *FontSet) Face(style Style, size float64) font.Face {
	return truetype.NewFace(fs.fonts[style], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
