package vg

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/gogpu/vg/fontstash"
)

// FontProvider registers fonts and lays out glyphs in a single-channel
// atlas. *fontstash.Stash is the default implementation.
//
// Sizes, positions and quads are in device pixels.
type FontProvider interface {
	AddFont(name string, data []byte, faceIndex int) (int, error)
	FindFont(name string) int
	AddFallback(base, fallback int) bool
	ResetFallbacks(base int)

	VertMetrics(st fontstash.Style) (ascender, descender, lineh float32, err error)
	LineBounds(st fontstash.Style, y float32) (miny, maxy float32, err error)
	TextBounds(st fontstash.Style, x, y float32, text string) (advance float32, bounds [4]float32, err error)
	// Layout returns one entry per glyph and fails with
	// fontstash.ErrAtlasFull when bitmaps do not fit the atlas.
	Layout(st fontstash.Style, x, y float32, text string, bitmaps bool) ([]fontstash.GlyphPos, error)

	AtlasSize() (w, h int)
	AtlasPixels() []byte
	Dirty() (image.Rectangle, bool)
	ExpandAtlas(w, h int) bool
	ResetAtlas(w, h int)
}

var _ FontProvider = (*fontstash.Stash)(nil)

// GlyphPosition is the position of one glyph of a string in user space.
type GlyphPosition struct {
	// Str is the byte offset of the glyph's text.
	Str int
	// X is the pen position; MinX and MaxX bound the glyph.
	X, MinX, MaxX float32
}

// TextRow is one line produced by TextBreakLines. Start and End are byte
// offsets of the row text; Next is where the following row starts.
type TextRow struct {
	Start, End, Next int
	Width            float32
	MinX, MaxX       float32
}

// CreateFont loads the first face of a font file under name.
func (c *Context) CreateFont(name, path string) (int, error) {
	return c.CreateFontAtIndex(name, path, 0)
}

// CreateFontAtIndex loads face index of a font or font collection file.
func (c *Context) CreateFontAtIndex(name, path string, index int) (int, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fontstash.InvalidFont, fmt.Errorf("vg: read font: %w", err)
	}
	return c.CreateFontMemAtIndex(name, data, index)
}

// CreateFontMem registers in-memory font data. data must not be modified
// afterwards.
func (c *Context) CreateFontMem(name string, data []byte) (int, error) {
	return c.CreateFontMemAtIndex(name, data, 0)
}

// CreateFontMemAtIndex registers face index of in-memory font data.
func (c *Context) CreateFontMemAtIndex(name string, data []byte, index int) (int, error) {
	id, err := c.fonts.AddFont(name, data, index)
	if err != nil {
		return fontstash.InvalidFont, fmt.Errorf("vg: create font %q: %w", name, err)
	}
	return id, nil
}

// FindFont returns the handle of a font by name, or -1.
func (c *Context) FindFont(name string) int {
	return c.fonts.FindFont(name)
}

// AddFallbackFontID makes fallback searched for glyphs missing in base.
func (c *Context) AddFallbackFontID(base, fallback int) error {
	if !c.fonts.AddFallback(base, fallback) {
		return fmt.Errorf("%w: fallback %d for %d", ErrInvalidFont, fallback, base)
	}
	return nil
}

// AddFallbackFont is AddFallbackFontID with fonts named.
func (c *Context) AddFallbackFont(base, fallback string) error {
	b, f := c.FindFont(base), c.FindFont(fallback)
	if b < 0 || f < 0 {
		return fmt.Errorf("%w: %q or %q", ErrFontNotFound, base, fallback)
	}
	return c.AddFallbackFontID(b, f)
}

// ResetFallbackFontsID clears the fallback chain of base.
func (c *Context) ResetFallbackFontsID(base int) {
	c.fonts.ResetFallbacks(base)
}

// ResetFallbackFonts clears the fallback chain of the named font.
func (c *Context) ResetFallbackFonts(base string) {
	if id := c.FindFont(base); id >= 0 {
		c.fonts.ResetFallbacks(id)
	}
}

// FontSize sets the font size: the distance from ascender to descender.
func (c *Context) FontSize(size float32) { c.state().fontSize = size }

// FontBlur sets the blur radius of text.
func (c *Context) FontBlur(blur float32) { c.state().fontBlur = blur }

// TextLetterSpacing sets extra space between letters.
func (c *Context) TextLetterSpacing(spacing float32) { c.state().letterSpacing = spacing }

// TextLineHeight sets the line height of multiline text as a multiple of
// the font line height.
func (c *Context) TextLineHeight(lineHeight float32) { c.state().lineHeight = lineHeight }

// TextAlign sets the text alignment.
func (c *Context) TextAlign(align Align) { c.state().textAlign = align }

// FontFaceID selects the font used for text.
func (c *Context) FontFaceID(font int) { c.state().fontID = font }

// FontFace selects a font by name. The current font is kept when the name
// is unknown.
func (c *Context) FontFace(name string) error {
	id := c.FindFont(name)
	if id < 0 {
		return fmt.Errorf("%w: %q", ErrFontNotFound, name)
	}
	c.state().fontID = id
	return nil
}

func quantize(a, d float32) float32 {
	return float32(int(a/d+0.5)) * d
}

// fontScale maps user units to device pixels for glyph rasterization.
func (c *Context) fontScale() float32 {
	return min(quantize(c.state().xform.AverageScale(), 0.01), 4) * c.devicePxRatio
}

func (c *Context) fontStyle(scale float32) fontstash.Style {
	st := c.state()
	return fontstash.Style{
		Font:    st.fontID,
		Size:    st.fontSize * scale,
		Blur:    st.fontBlur * scale,
		Spacing: st.letterSpacing * scale,
		Align:   st.textAlign,
	}
}

// Text draws s with its pen at (x, y) and returns the horizontal
// position after the last glyph.
func (c *Context) Text(x, y float32, s string) float32 {
	if !c.drawable("Text") || s == "" {
		return x
	}
	st := c.state()
	scale := c.fontScale()
	invscale := 1 / scale
	style := c.fontStyle(scale)

	var glyphs []fontstash.GlyphPos
	var err error
	for {
		glyphs, err = c.fonts.Layout(style, x*scale, y*scale, s, true)
		if !errors.Is(err, fontstash.ErrAtlasFull) || !c.allocTextAtlas() {
			break
		}
	}
	if err != nil {
		Logger().Warn("vg: text layout", "err", err)
		return x
	}

	verts := make([]Vertex, 0, len(glyphs)*6)
	for _, g := range glyphs {
		if !g.Visible {
			continue
		}
		q := g.Quad
		c0, c1 := st.xform.Point(q.X0*invscale, q.Y0*invscale)
		c2, c3 := st.xform.Point(q.X1*invscale, q.Y0*invscale)
		c4, c5 := st.xform.Point(q.X1*invscale, q.Y1*invscale)
		c6, c7 := st.xform.Point(q.X0*invscale, q.Y1*invscale)
		verts = append(verts,
			Vertex{X: c0, Y: c1, U: q.S0, V: q.T0},
			Vertex{X: c4, Y: c5, U: q.S1, V: q.T1},
			Vertex{X: c2, Y: c3, U: q.S1, V: q.T0},
			Vertex{X: c0, Y: c1, U: q.S0, V: q.T0},
			Vertex{X: c6, Y: c7, U: q.S0, V: q.T1},
			Vertex{X: c4, Y: c5, U: q.S1, V: q.T1},
		)
	}

	c.flushTextTexture()
	c.renderText(verts)

	if n := len(glyphs); n > 0 {
		return glyphs[n-1].NextX * invscale
	}
	return x
}

func (c *Context) renderText(verts []Vertex) {
	if len(verts) == 0 {
		return
	}
	st := c.state()
	paint := st.fill
	paint.Image = c.fontImages[c.fontImageIdx]
	paint.scaleAlpha(st.alpha)

	c.backend.Triangles(&paint, st.compositeOp, &st.scissor, verts, c.tess.FringeWidth)
	c.stats.DrawCalls++
	c.stats.TextTriangles += len(verts) / 3
}

// flushTextTexture uploads the atlas region touched since the last upload.
func (c *Context) flushTextTexture() {
	dirty, ok := c.fonts.Dirty()
	if !ok {
		return
	}
	img := c.fontImages[c.fontImageIdx]
	if img == 0 {
		return
	}
	if err := c.backend.UpdateTexture(img, dirty.Min.X, dirty.Min.Y, dirty.Dx(), dirty.Dy(), c.fonts.AtlasPixels()); err != nil {
		Logger().Warn("vg: font atlas upload", "err", err)
	}
}

// allocTextAtlas moves text to a new, larger atlas texture. The previous
// texture stays alive until EndFrame since queued draws still use it.
func (c *Context) allocTextAtlas() bool {
	c.flushTextTexture()
	if c.fontImageIdx >= maxFontImages-1 {
		return false
	}

	limit := c.opts.maxAtlasSize
	iw, ih := c.fonts.AtlasSize()
	if iw > ih {
		ih *= 2
	} else {
		iw *= 2
	}
	if iw > limit || ih > limit {
		iw, ih = limit, limit
		c.fonts.ResetAtlas(iw, ih)
	} else {
		c.fonts.ExpandAtlas(iw, ih)
	}

	if old := c.fontImages[c.fontImageIdx+1]; old != 0 {
		if err := c.backend.DeleteTexture(old); err != nil {
			Logger().Warn("vg: delete font image", "image", old, "err", err)
		}
	}
	img, err := c.backend.CreateTexture(TextureAlpha, iw, ih, 0, c.fonts.AtlasPixels())
	if err != nil || img <= 0 {
		Logger().Warn("vg: create font atlas", "size", fmt.Sprintf("%dx%d", iw, ih), "err", err)
		c.fontImages[c.fontImageIdx+1] = 0
		return false
	}
	c.fonts.Dirty()
	c.fontImageIdx++
	c.fontImages[c.fontImageIdx] = img
	Logger().Info("vg: font atlas resized", "width", iw, "height", ih)
	return true
}

// TextMetrics returns the ascender, descender and line height of the
// current font in user space.
func (c *Context) TextMetrics() (ascender, descender, lineh float32) {
	scale := c.fontScale()
	invscale := 1 / scale
	asc, desc, lh, err := c.fonts.VertMetrics(c.fontStyle(scale))
	if err != nil {
		return 0, 0, 0
	}
	return asc * invscale, desc * invscale, lh * invscale
}

// TextBounds measures s drawn at (x, y). It returns the advance and the
// bounds [xmin ymin xmax ymax]; the vertical bounds span the full line.
func (c *Context) TextBounds(x, y float32, s string) (float32, [4]float32) {
	scale := c.fontScale()
	invscale := 1 / scale
	style := c.fontStyle(scale)

	adv, b, err := c.fonts.TextBounds(style, x*scale, y*scale, s)
	if err != nil {
		return 0, [4]float32{}
	}
	if miny, maxy, err := c.fonts.LineBounds(style, y*scale); err == nil {
		b[1], b[3] = miny, maxy
	}
	for i := range b {
		b[i] *= invscale
	}
	return adv * invscale, b
}

// TextGlyphPositions returns the position of each glyph of s drawn at (x, y).
func (c *Context) TextGlyphPositions(x, y float32, s string) []GlyphPosition {
	if s == "" {
		return nil
	}
	scale := c.fontScale()
	invscale := 1 / scale
	glyphs, err := c.fonts.Layout(c.fontStyle(scale), x*scale, y*scale, s, false)
	if err != nil {
		return nil
	}
	out := make([]GlyphPosition, 0, len(glyphs))
	for _, g := range glyphs {
		minx, maxx := g.X, g.NextX
		if g.Visible {
			minx = min(minx, g.Quad.X0)
			maxx = max(maxx, g.Quad.X1)
		}
		out = append(out, GlyphPosition{
			Str:  g.Str,
			X:    g.X * invscale,
			MinX: minx * invscale,
			MaxX: maxx * invscale,
		})
	}
	return out
}

// TextBox draws s wrapped into rows of at most breakRowWidth, starting at
// (x, y). Horizontal alignment applies within the row width.
func (c *Context) TextBox(x, y, breakRowWidth float32, s string) {
	if !c.drawable("TextBox") {
		return
	}
	st := c.state()
	oldAlign := st.textAlign
	halign := oldAlign & (AlignLeft | AlignCenter | AlignRight)
	valign := oldAlign & (AlignTop | AlignMiddle | AlignBottom | AlignBaseline)
	_, _, lineh := c.TextMetrics()

	st.textAlign = AlignLeft | valign
	for _, row := range c.TextBreakLines(s, breakRowWidth) {
		c.Text(x+rowOffset(halign, breakRowWidth, row.Width), y, s[row.Start:row.End])
		y += lineh * st.lineHeight
	}
	st.textAlign = oldAlign
}

// TextBoxBounds measures the box TextBox would draw.
func (c *Context) TextBoxBounds(x, y, breakRowWidth float32, s string) [4]float32 {
	st := c.state()
	scale := c.fontScale()
	invscale := 1 / scale
	oldAlign := st.textAlign
	halign := oldAlign & (AlignLeft | AlignCenter | AlignRight)
	valign := oldAlign & (AlignTop | AlignMiddle | AlignBottom | AlignBaseline)
	_, _, lineh := c.TextMetrics()

	st.textAlign = AlignLeft | valign
	defer func() { st.textAlign = oldAlign }()

	minx, maxx := x, x
	miny, maxy := y, y
	rminy, rmaxy, err := c.fonts.LineBounds(c.fontStyle(scale), 0)
	if err != nil {
		return [4]float32{}
	}
	rminy *= invscale
	rmaxy *= invscale

	for _, row := range c.TextBreakLines(s, breakRowWidth) {
		dx := rowOffset(halign, breakRowWidth, row.Width)
		minx = min(minx, x+row.MinX+dx)
		maxx = max(maxx, x+row.MaxX+dx)
		miny = min(miny, y+rminy)
		maxy = max(maxy, y+rmaxy)
		y += lineh * st.lineHeight
	}
	return [4]float32{minx, miny, maxx, maxy}
}

func rowOffset(halign Align, breakRowWidth, rowWidth float32) float32 {
	switch {
	case halign&AlignCenter != 0:
		return breakRowWidth*0.5 - rowWidth*0.5
	case halign&AlignRight != 0:
		return breakRowWidth - rowWidth
	}
	return 0
}
