// Package textlayout turns styled words into a measured vertical
// document and renders it onto a transparent text layer.
package textlayout

import (
	"log"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"storyscroll/markup"
)

// FontSet holds the four style variants at one size. The closed set of
// variants is fixed: regular, bold, italic, bold-italic.
type FontSet struct {
	Regular    font.Face
	Bold       font.Face
	Italic     font.Face
	BoldItalic font.Face
	Size       float64

	space float64
}

// FontPaths lists candidate TTF files per variant, tried in order.
// Every variant falls back to the embedded Go font, so loading a
// FontSet never fails.
type FontPaths struct {
	Regular    []string
	Bold       []string
	Italic     []string
	BoldItalic []string
}

// Parsed fonts are cached process-wide; the cache is read-only after
// first load of a given path.
var (
	fontCacheMu sync.Mutex
	fontCache   = map[string]*truetype.Font{}
)

func parseCached(key string, data []byte) (*truetype.Font, error) {
	fontCacheMu.Lock()
	defer fontCacheMu.Unlock()
	if f, ok := fontCache[key]; ok {
		return f, nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	fontCache[key] = f
	return f, nil
}

func loadFace(size float64, paths []string, builtin []byte, builtinKey string) font.Face {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := parseCached(path, data)
		if err != nil {
			log.Printf("[fonts] Warning: cannot parse %s: %v", path, err)
			continue
		}
		return newFace(f, size)
	}
	f, err := parseCached(builtinKey, builtin)
	if err != nil {
		// The embedded Go fonts are known-good TTF data.
		panic("textlayout: embedded font failed to parse: " + err.Error())
	}
	return newFace(f, size)
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// LoadFontSet builds a FontSet at the given size, trying each configured
// path in order and ending in the embedded Go fonts.
func LoadFontSet(size float64, p FontPaths) *FontSet {
	fs := &FontSet{
		Regular:    loadFace(size, p.Regular, goregular.TTF, "builtin:regular"),
		Bold:       loadFace(size, p.Bold, gobold.TTF, "builtin:bold"),
		Italic:     loadFace(size, p.Italic, goitalic.TTF, "builtin:italic"),
		BoldItalic: loadFace(size, p.BoldItalic, gobolditalic.TTF, "builtin:bolditalic"),
		Size:       size,
	}
	fs.space = fs.measure(fs.Regular, " ")
	return fs
}

// Face returns the variant matching a word's style. Strikethrough is a
// decoration, not a face.
func (fs *FontSet) Face(w markup.StyledWord) font.Face {
	switch {
	case w.Bold && w.Italic:
		return fs.BoldItalic
	case w.Bold:
		return fs.Bold
	case w.Italic:
		return fs.Italic
	default:
		return fs.Regular
	}
}

// WordWidth measures the advance width of a word in its styled face.
func (fs *FontSet) WordWidth(w markup.StyledWord) float64 {
	return fs.measure(fs.Face(w), w.Text)
}

// SpaceWidth is the regular face's space advance, used between all
// words regardless of their styles.
func (fs *FontSet) SpaceWidth() float64 {
	return fs.space
}

// Ascent is the regular face's baseline offset from the line top.
func (fs *FontSet) Ascent() float64 {
	return float64(fs.Regular.Metrics().Ascent) / 64
}

// LineHeight applies the configured spacing multiplier to the font size.
func (fs *FontSet) LineHeight(spacing float64) int {
	return int(fs.Size * spacing)
}

func (fs *FontSet) measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}
