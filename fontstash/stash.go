package fontstash

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/vg/internal/cache"
	"golang.org/x/text/unicode/norm"
)

// InvalidFont is returned by lookups that find no font.
const InvalidFont = -1

const maxFallbacks = 20

var (
	// ErrAtlasFull is returned when a glyph bitmap does not fit the atlas.
	// Grow it with ExpandAtlas or start over with ResetAtlas and retry.
	ErrAtlasFull = errors.New("fontstash: atlas full")

	// ErrInvalidFont is returned for handles that name no font.
	ErrInvalidFont = errors.New("fontstash: invalid font")

	// ErrFaceIndex is returned when a collection has no face at the index.
	ErrFaceIndex = errors.New("fontstash: face index out of range")
)

// Align is a bit set of horizontal and vertical text alignment.
type Align int

const (
	AlignLeft     Align = 1 << 0
	AlignCenter   Align = 1 << 1
	AlignRight    Align = 1 << 2
	AlignTop      Align = 1 << 3
	AlignMiddle   Align = 1 << 4
	AlignBottom   Align = 1 << 5
	AlignBaseline Align = 1 << 6
)

// Style selects the font and size used by layout calls.
type Style struct {
	Font    int
	Size    float32
	Blur    float32
	Spacing float32
	Align   Align
}

// Quad is a glyph rectangle in pixels with its atlas texture coordinates.
type Quad struct {
	X0, Y0, S0, T0 float32
	X1, Y1, S1, T1 float32
}

// GlyphPos is one laid out glyph.
type GlyphPos struct {
	Str, Next int // byte offsets of the glyph's text and what follows it
	Rune      rune
	X, NextX  float32
	Quad      Quad
	// Visible is false for glyphs with no bitmap, such as spaces.
	Visible bool
}

type runKey struct {
	font  int
	isize int
	text  string
}

// Stash holds fonts and a glyph atlas shared between them.
//
// A Stash is not safe for concurrent use.
type Stash struct {
	atlas   *atlas
	fonts   []*font
	shaping bool
	runs    *cache.Cache[runKey, []shapedGlyph]
}

// New returns a stash with an empty atlas of the given size.
func New(width, height int) *Stash {
	return &Stash{
		atlas: newAtlas(width, height),
		runs:  cache.New[runKey, []shapedGlyph](256),
	}
}

// SetShaping toggles HarfBuzz shaping. When enabled, text set in a font
// that go-text can parse is split into bidi runs and shaped with ligatures
// and GPOS kerning. Fallback fonts are not consulted for shaped text.
func (s *Stash) SetShaping(on bool) {
	if s.shaping != on {
		s.shaping = on
		s.runs.Clear()
	}
}

// AddFont registers face faceIndex of the font data under name and returns
// its handle. Handles start at 0 and grow by one per font.
func (s *Stash) AddFont(name string, data []byte, faceIndex int) (int, error) {
	f, err := parseFont(norm.NFC.String(name), data, faceIndex)
	if err != nil {
		return InvalidFont, err
	}
	s.fonts = append(s.fonts, f)
	return len(s.fonts) - 1, nil
}

// FindFont returns the handle of the font registered under name, or
// InvalidFont. Names are compared after NFC normalization.
func (s *Stash) FindFont(name string) int {
	name = norm.NFC.String(name)
	for i, f := range s.fonts {
		if f.name == name {
			return i
		}
	}
	return InvalidFont
}

// AddFallback appends fallback to the chain searched when base lacks a glyph.
func (s *Stash) AddFallback(base, fallback int) bool {
	f := s.font(base)
	if f == nil || s.font(fallback) == nil || len(f.fallbacks) >= maxFallbacks {
		return false
	}
	f.fallbacks = append(f.fallbacks, fallback)
	return true
}

// ResetFallbacks clears the fallback chain of base and drops its cached glyphs.
func (s *Stash) ResetFallbacks(base int) {
	f := s.font(base)
	if f == nil {
		return
	}
	f.fallbacks = f.fallbacks[:0]
	clear(f.glyphs)
	s.runs.Clear()
}

func (s *Stash) font(id int) *font {
	if id < 0 || id >= len(s.fonts) {
		return nil
	}
	return s.fonts[id]
}

// AtlasSize returns the atlas dimensions.
func (s *Stash) AtlasSize() (width, height int) {
	return s.atlas.width, s.atlas.height
}

// AtlasPixels returns the single-channel atlas, row-major.
func (s *Stash) AtlasPixels() []byte { return s.atlas.pixels }

// Dirty returns the atlas region modified since the last call and clears it.
func (s *Stash) Dirty() (image.Rectangle, bool) {
	r := s.atlas.dirty
	s.atlas.dirty = image.Rectangle{}
	return r, !r.Empty()
}

// AtlasUtilization returns the fraction of atlas rows holding glyphs.
func (s *Stash) AtlasUtilization() float32 { return s.atlas.utilization() }

// ExpandAtlas grows the atlas, keeping all glyphs already rasterized.
func (s *Stash) ExpandAtlas(width, height int) bool {
	return s.atlas.expand(width, height)
}

// ResetAtlas discards every rasterized glyph and resizes the atlas.
func (s *Stash) ResetAtlas(width, height int) {
	s.atlas.reset(width, height)
	for _, f := range s.fonts {
		clear(f.glyphs)
		clear(f.indexed)
	}
}

// VertMetrics returns ascender, descender and line height for style.
func (s *Stash) VertMetrics(st Style) (ascender, descender, lineh float32, err error) {
	f := s.font(st.Font)
	if f == nil {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidFont, st.Font)
	}
	size := quantize(st.Size)
	return f.ascender * size, f.descender * size, f.lineh * size, nil
}

// LineBounds returns the vertical extent of a line positioned at y.
func (s *Stash) LineBounds(st Style, y float32) (miny, maxy float32, err error) {
	f := s.font(st.Font)
	if f == nil {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidFont, st.Font)
	}
	size := quantize(st.Size)
	y += f.vertAlign(st.Align, size)
	miny = y - f.ascender*size
	return miny, miny + f.lineh*size, nil
}

// quantize rounds a size to the tenth of a pixel used as glyph cache key.
func quantize(size float32) float32 {
	return float32(int(size*10)) / 10
}
