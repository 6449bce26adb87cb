package fontstash

import (
	"fmt"
	"image"
	"math"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type glyphKey struct {
	r     rune
	isize int
	iblur int
}

type glyph struct {
	index sfnt.GlyphIndex
	src   *font // font the glyph was found in, may be a fallback

	w, h       int // padded bitmap size
	xoff, yoff int // bitmap origin relative to the pen
	xadv       float32
	ax, ay     int // atlas position
	placed     bool
	empty      bool // no outline, like a space
}

type font struct {
	name string
	data []byte
	face int
	sfnt *sfnt.Font
	buf  sfnt.Buffer

	// Vertical metrics normalized to a font height of 1.
	ascender, descender, lineh float32
	// Font units per em divided by ascender-descender height in units.
	emScale float32

	glyphs    map[glyphKey]*glyph
	indexed   map[glyphKey]*glyph // shaped glyphs, keyed by glyph index
	fallbacks []int

	shaper *hbFont
}

func parseFont(name string, data []byte, faceIndex int) (*font, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("fontstash: parse %q: %w", name, err)
	}
	if faceIndex < 0 || faceIndex >= coll.NumFonts() {
		return nil, fmt.Errorf("%w: %d of %d", ErrFaceIndex, faceIndex, coll.NumFonts())
	}
	sf, err := coll.Font(faceIndex)
	if err != nil {
		return nil, fmt.Errorf("fontstash: face %d of %q: %w", faceIndex, name, err)
	}

	f := &font{
		name:    name,
		data:    data,
		face:    faceIndex,
		sfnt:    sf,
		glyphs:  make(map[glyphKey]*glyph),
		indexed: make(map[glyphKey]*glyph),
	}

	upem := fixed.Int26_6(sf.UnitsPerEm()) << 6
	m, err := sf.Metrics(&f.buf, upem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fontstash: metrics of %q: %w", name, err)
	}
	asc := fixedToFloat(m.Ascent)
	desc := fixedToFloat(m.Descent)
	fh := asc + desc
	if fh <= 0 {
		fh = float32(sf.UnitsPerEm())
	}
	f.ascender = asc / fh
	f.descender = -desc / fh
	f.lineh = fixedToFloat(m.Height) / fh
	f.emScale = float32(sf.UnitsPerEm()) / fh
	return f, nil
}

// ppem converts a pixel height (ascender to descender) to pixels per em.
func (f *font) ppem(size float32) fixed.Int26_6 {
	return fixed.Int26_6(size*f.emScale*64 + 0.5)
}

func (f *font) vertAlign(align Align, size float32) float32 {
	switch {
	case align&AlignTop != 0:
		return f.ascender * size
	case align&AlignMiddle != 0:
		return (f.ascender + f.descender) / 2 * size
	case align&AlignBottom != 0:
		return f.descender * size
	}
	return 0
}

func (f *font) glyphIndex(r rune) sfnt.GlyphIndex {
	gi, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return gi
}

func (f *font) kern(a, b sfnt.GlyphIndex, size float32) float32 {
	k, err := f.sfnt.Kern(&f.buf, a, b, f.ppem(size), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(k)
}

// getGlyph looks r up in f and its fallback chain. With bitmap set the
// glyph is rasterized into the atlas; ErrAtlasFull reports lack of room.
func (s *Stash) getGlyph(f *font, r rune, size, blur float32, bitmap bool) (*glyph, error) {
	isize := int(size * 10)
	if isize < 2 {
		return nil, nil
	}
	iblur := min(int(blur), 20)
	key := glyphKey{r, isize, iblur}

	g, ok := f.glyphs[key]
	if !ok {
		src, gi := f, f.glyphIndex(r)
		if gi == 0 {
			for _, fb := range f.fallbacks {
				if ff := s.font(fb); ff != nil {
					if fgi := ff.glyphIndex(r); fgi != 0 {
						src, gi = ff, fgi
						break
					}
				}
			}
		}
		var err error
		g, err = src.measureGlyph(gi, float32(isize)/10, iblur)
		if err != nil {
			return nil, err
		}
		f.glyphs[key] = g
	}
	if bitmap && !g.placed {
		if err := s.rasterize(g, float32(isize)/10, iblur); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// getGlyphByIndex is getGlyph for glyph indices produced by the shaper.
func (s *Stash) getGlyphByIndex(f *font, gi sfnt.GlyphIndex, size, blur float32, bitmap bool) (*glyph, error) {
	isize := int(size * 10)
	if isize < 2 {
		return nil, nil
	}
	iblur := min(int(blur), 20)
	key := glyphKey{rune(gi), isize, iblur}

	g, ok := f.indexed[key]
	if !ok {
		var err error
		g, err = f.measureGlyph(gi, float32(isize)/10, iblur)
		if err != nil {
			return nil, err
		}
		f.indexed[key] = g
	}
	if bitmap && !g.placed {
		if err := s.rasterize(g, float32(isize)/10, iblur); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (f *font) measureGlyph(gi sfnt.GlyphIndex, size float32, iblur int) (*glyph, error) {
	ppem := f.ppem(size)
	adv, err := f.sfnt.GlyphAdvance(&f.buf, gi, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fontstash: advance of glyph %d: %w", gi, err)
	}
	b, _, err := f.sfnt.GlyphBounds(&f.buf, gi, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("fontstash: bounds of glyph %d: %w", gi, err)
	}
	x0, y0 := b.Min.X.Floor(), b.Min.Y.Floor()
	x1, y1 := b.Max.X.Ceil(), b.Max.Y.Ceil()
	pad := iblur + 2
	return &glyph{
		index: gi,
		src:   f,
		w:     x1 - x0 + pad*2,
		h:     y1 - y0 + pad*2,
		xoff:  x0 - pad,
		yoff:  y0 - pad,
		xadv:  fixedToFloat(adv),
		empty: x1 <= x0 || y1 <= y0,
	}, nil
}

// rasterize renders g into a freshly allocated atlas slot.
func (s *Stash) rasterize(g *glyph, size float32, iblur int) error {
	if g.empty {
		g.placed = true
		return nil
	}
	x, y, ok := s.atlas.allocate(g.w, g.h)
	if !ok {
		return ErrAtlasFull
	}
	g.ax, g.ay, g.placed = x, y, true

	f := g.src
	segs, err := f.sfnt.LoadGlyph(&f.buf, g.index, f.ppem(size), nil)
	if err != nil {
		// Color or missing outlines leave an empty cell.
		segs = nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, g.w, g.h))
	if len(segs) > 0 {
		ox, oy := float32(-g.xoff), float32(-g.yoff)
		r := vector.NewRasterizer(g.w, g.h)
		pt := func(p fixed.Point26_6) (float32, float32) {
			return fixedToFloat(p.X) + ox, fixedToFloat(p.Y) + oy
		}
		for i, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if i > 0 {
					r.ClosePath()
				}
				r.MoveTo(pt(seg.Args[0]))
			case sfnt.SegmentOpLineTo:
				r.LineTo(pt(seg.Args[0]))
			case sfnt.SegmentOpQuadTo:
				cx, cy := pt(seg.Args[0])
				x1, y1 := pt(seg.Args[1])
				r.QuadTo(cx, cy, x1, y1)
			case sfnt.SegmentOpCubeTo:
				c1x, c1y := pt(seg.Args[0])
				c2x, c2y := pt(seg.Args[1])
				x1, y1 := pt(seg.Args[2])
				r.CubeTo(c1x, c1y, c2x, c2y, x1, y1)
			}
		}
		r.ClosePath()
		r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	}

	if iblur > 0 {
		blur(mask.Pix, g.w, g.h, mask.Stride, float32(iblur))
	}

	aw := s.atlas.width
	for row := range g.h {
		copy(s.atlas.pixels[(y+row)*aw+x:(y+row)*aw+x+g.w], mask.Pix[row*mask.Stride:row*mask.Stride+g.w])
	}
	s.atlas.markDirty(image.Rect(x, y, x+g.w, y+g.h))
	return nil
}

const (
	blurAPrec = 16
	blurZPrec = 7
)

func blurRows(dst []byte, w, h, stride int, alpha int) {
	for y := range h {
		row := dst[y*stride:]
		z := 0
		for x := 1; x < w; x++ {
			z += (alpha * ((int(row[x]) << blurZPrec) - z)) >> blurAPrec
			row[x] = byte(z >> blurZPrec)
		}
		row[w-1] = 0
		z = 0
		for x := w - 2; x >= 0; x-- {
			z += (alpha * ((int(row[x]) << blurZPrec) - z)) >> blurAPrec
			row[x] = byte(z >> blurZPrec)
		}
		row[0] = 0
	}
}

func blurCols(dst []byte, w, h, stride int, alpha int) {
	for x := range w {
		z := 0
		for y := stride; y < h*stride; y += stride {
			z += (alpha * ((int(dst[x+y]) << blurZPrec) - z)) >> blurAPrec
			dst[x+y] = byte(z >> blurZPrec)
		}
		dst[x+(h-1)*stride] = 0
		z = 0
		for y := (h - 2) * stride; y >= 0; y -= stride {
			z += (alpha * ((int(dst[x+y]) << blurZPrec) - z)) >> blurAPrec
			dst[x+y] = byte(z >> blurZPrec)
		}
		dst[x] = 0
	}
}

// blur approximates a gaussian with two passes of a recursive
// exponential filter in each direction.
func blur(dst []byte, w, h, stride int, radius float32) {
	if radius < 1 || w < 2 || h < 2 {
		return
	}
	sigma := float64(radius) * 0.57735 // 1/sqrt(3)
	alpha := int(float64(1<<blurAPrec) * (1 - math.Exp(-2.3/(sigma+1))))
	blurRows(dst, w, h, stride, alpha)
	blurCols(dst, w, h, stride, alpha)
	blurRows(dst, w, h, stride, alpha)
	blurCols(dst, w, h, stride, alpha)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
