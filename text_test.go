package vg

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func newTextContext(t *testing.T, opts ...ContextOption) (*Context, *fakeBackend) {
	t.Helper()
	ctx, rec := newRecordedContext(t, Antialias, opts...)
	id, err := ctx.CreateFontMem("sans", goregular.TTF)
	if err != nil {
		t.Fatalf("CreateFontMem: %v", err)
	}
	if id != 0 {
		t.Fatalf("first font id = %d, want 0", id)
	}
	ctx.FontSize(20)
	return ctx, rec
}

func TestFontLookup(t *testing.T) {
	ctx, _ := newTextContext(t)
	mono, err := ctx.CreateFontMem("mono", gomono.TTF)
	if err != nil || mono != 1 {
		t.Fatalf("second font = %d, %v", mono, err)
	}
	if got := ctx.FindFont("mono"); got != mono {
		t.Errorf("FindFont(mono) = %d", got)
	}
	if got := ctx.FindFont("serif"); got != -1 {
		t.Errorf("FindFont(serif) = %d, want -1", got)
	}

	if err := ctx.FontFace("serif"); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("FontFace(serif) = %v", err)
	}
	if err := ctx.FontFace("mono"); err != nil || ctx.state().fontID != mono {
		t.Errorf("FontFace(mono) = %v, font %d", err, ctx.state().fontID)
	}

	if _, err := ctx.CreateFontMem("bad", []byte("not a font")); err == nil {
		t.Error("garbage font accepted")
	}
	if _, err := ctx.CreateFont("file", "/nonexistent/font.ttf"); err == nil {
		t.Error("missing font file accepted")
	}
}

func TestFallbackFonts(t *testing.T) {
	ctx, _ := newTextContext(t)
	if _, err := ctx.CreateFontMem("mono", gomono.TTF); err != nil {
		t.Fatal(err)
	}
	if err := ctx.AddFallbackFont("sans", "mono"); err != nil {
		t.Errorf("AddFallbackFont: %v", err)
	}
	if err := ctx.AddFallbackFont("sans", "serif"); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("unknown fallback = %v", err)
	}
	if err := ctx.AddFallbackFontID(0, 7); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("invalid fallback id = %v", err)
	}
	ctx.ResetFallbackFonts("sans")
	ctx.ResetFallbackFontsID(1)
}

func TestTextEmitsAtlasTriangles(t *testing.T) {
	ctx, rec := newTextContext(t)
	beginFrame(t, ctx)
	ctx.FillColor(RGBf(1, 0, 0))

	end := ctx.Text(10, 40, "Hi there")
	if end <= 10 {
		t.Errorf("Text returned %v, want past the start", end)
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("got %d calls", len(rec.Calls))
	}
	c := rec.Calls[0]
	if c.Op != "triangles" {
		t.Fatalf("op = %s", c.Op)
	}
	// Seven visible glyphs, the space has no bitmap.
	if len(c.Verts) != 7*6 {
		t.Errorf("got %d vertices, want %d", len(c.Verts), 7*6)
	}
	if c.Paint.Image != ctx.fontImages[0] {
		t.Errorf("paint image = %d, want atlas texture %d", c.Paint.Image, ctx.fontImages[0])
	}
	if c.Paint.InnerColor != RGBf(1, 0, 0) {
		t.Errorf("text color = %+v", c.Paint.InnerColor)
	}
	for _, v := range c.Verts {
		if v.U < 0 || v.U > 1 || v.V < 0 || v.V > 1 {
			t.Fatalf("texture coordinate out of range: %+v", v)
		}
	}
	if rec.updates == 0 {
		t.Error("glyph atlas was not uploaded")
	}
	if got := ctx.Stats().TextTriangles; got != 14 {
		t.Errorf("text triangles = %d, want 14", got)
	}
}

func TestTextFollowsTransform(t *testing.T) {
	ctx, rec := newTextContext(t)
	beginFrame(t, ctx)
	ctx.Text(0, 0, "A")
	ctx.Translate(100, 0)
	ctx.Text(0, 0, "A")

	a, b := rec.Calls[0].Verts, rec.Calls[1].Verts
	for i := range a {
		if !nearly(b[i].X-a[i].X, 100) || b[i].Y != a[i].Y {
			t.Fatalf("vertex %d moved from %+v to %+v", i, a[i], b[i])
		}
	}
}

func TestTextMeasuresInUserSpace(t *testing.T) {
	ctx, _ := newTextContext(t)
	adv1, _ := ctx.TextBounds(0, 0, "Hello")
	ctx.Scale(2, 2)
	adv2, _ := ctx.TextBounds(0, 0, "Hello")
	if absf(adv1-adv2) > 2 {
		t.Errorf("advance %v at scale 1, %v at scale 2", adv1, adv2)
	}
}

func TestTextBounds(t *testing.T) {
	ctx, _ := newTextContext(t)
	adv, b := ctx.TextBounds(10, 50, "Hello")
	if adv <= 0 {
		t.Fatalf("advance = %v", adv)
	}
	if b[0] < 9 || b[2] <= b[0] {
		t.Errorf("horizontal bounds = %v", b)
	}
	if !(b[1] < 50 && b[3] > 50) {
		t.Errorf("vertical bounds %v should straddle the baseline", b)
	}

	asc, desc, lineh := ctx.TextMetrics()
	if asc <= 0 || desc >= 0 || lineh < asc-desc-0.5 {
		t.Errorf("metrics = %v %v %v", asc, desc, lineh)
	}
	if !nearly(asc-desc, 20) {
		t.Errorf("ascender to descender = %v, want the font size", asc-desc)
	}
}

func TestTextAlignment(t *testing.T) {
	ctx, _ := newTextContext(t)
	adv, _ := ctx.TextBounds(0, 0, "Hello")

	ctx.TextAlign(AlignRight | AlignBaseline)
	_, b := ctx.TextBounds(100, 0, "Hello")
	if absf(b[2]-100) > 2 {
		t.Errorf("right aligned text ends at %v, want about 100", b[2])
	}
	ctx.TextAlign(AlignCenter | AlignBaseline)
	pos := ctx.TextGlyphPositions(100, 0, "Hello")
	if absf(pos[0].X-(100-adv/2)) > 1 {
		t.Errorf("centered text starts at %v, want %v", pos[0].X, 100-adv/2)
	}
}

func TestTextGlyphPositions(t *testing.T) {
	ctx, _ := newTextContext(t)
	pos := ctx.TextGlyphPositions(5, 0, "héllo")
	if len(pos) != 5 {
		t.Fatalf("got %d positions, want one per rune", len(pos))
	}
	wantStr := []int{0, 1, 3, 4, 5}
	for i, p := range pos {
		if p.Str != wantStr[i] {
			t.Errorf("glyph %d at byte %d, want %d", i, p.Str, wantStr[i])
		}
		if p.MaxX <= p.MinX {
			t.Errorf("glyph %d has empty extent %+v", i, p)
		}
		if i > 0 && p.X <= pos[i-1].X {
			t.Errorf("glyph %d does not advance", i)
		}
	}
	if pos[0].X != 5 {
		t.Errorf("first glyph at %v, want 5", pos[0].X)
	}
	if ctx.TextGlyphPositions(0, 0, "") != nil {
		t.Error("empty string has positions")
	}
}

func rowTexts(s string, rows []TextRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = s[r.Start:r.End]
	}
	return out
}

func TestTextBreakLines(t *testing.T) {
	ctx, _ := newTextContext(t)
	full, _ := ctx.TextBounds(0, 0, "hello world")
	word, _ := ctx.TextBounds(0, 0, "hello")

	tests := []struct {
		name  string
		text  string
		width float32
		want  []string
	}{
		{"fits", "hello world", full + 10, []string{"hello world"}},
		{"wraps at space", "hello world", full * 0.75, []string{"hello", "world"}},
		{"newline", "hello\nworld", 1000, []string{"hello", "world"}},
		{"blank line", "a\n\nb", 1000, []string{"a", "", "b"}},
		{"crlf", "a\r\nb", 1000, []string{"a", "b"}},
		{"leading spaces skipped", "   hello", 1000, []string{"hello"}},
		{"long word", "hellohellohello", word + 1, []string{"hello", "hello", "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ctx.TextBreakLines(tt.text, tt.width)
			if got := rowTexts(tt.text, rows); !slices.Equal(got, tt.want) {
				t.Errorf("rows = %q, want %q", got, tt.want)
			}
			for _, r := range rows {
				if r.Width > tt.width+0.01 {
					t.Errorf("row %q is %v wide, limit %v", tt.text[r.Start:r.End], r.Width, tt.width)
				}
			}
		})
	}
}

func TestTextBreakLinesNext(t *testing.T) {
	ctx, _ := newTextContext(t)
	s := "one two three four five six"
	rows := ctx.TextBreakLines(s, 60)
	if len(rows) < 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	var words []string
	for _, r := range rows {
		words = append(words, strings.Fields(s[r.Start:r.End])...)
	}
	if got := strings.Join(words, " "); got != s {
		t.Errorf("rows rebuild %q", got)
	}
	if last := rows[len(rows)-1]; last.Next != len(s) {
		t.Errorf("last row Next = %d, want %d", last.Next, len(s))
	}
}

func TestTextBox(t *testing.T) {
	ctx, rec := newTextContext(t)
	beginFrame(t, ctx)
	s := "one two three four five six"
	rows := ctx.TextBreakLines(s, 60)

	ctx.TextAlign(AlignCenter | AlignTop)
	ctx.TextBox(10, 10, 60, s)
	if len(rec.Calls) != len(rows) {
		t.Errorf("TextBox issued %d calls for %d rows", len(rec.Calls), len(rows))
	}
	if ctx.state().textAlign != AlignCenter|AlignTop {
		t.Error("TextBox did not restore the alignment")
	}

	_, _, lineh := ctx.TextMetrics()
	b := ctx.TextBoxBounds(10, 10, 60, s)
	if h := b[3] - b[1]; absf(h-lineh*float32(len(rows))) > 1 {
		t.Errorf("box height = %v, want %d lines of %v", h, len(rows), lineh)
	}
	if b[0] < 10-2 || b[2] > 70+2 {
		t.Errorf("box bounds %v exceed the row width", b)
	}
}

func TestTextAtlasGrows(t *testing.T) {
	ctx, rec := newTextContext(t, WithAtlasSize(64, 64))
	beginFrame(t, ctx)
	first := ctx.fontImages[0]

	ctx.FontSize(40)
	ctx.Text(0, 50, "MWQ")
	if ctx.fontImageIdx == 0 {
		t.Fatal("atlas did not grow")
	}
	c := rec.Calls[len(rec.Calls)-1]
	if len(c.Verts) != 18 {
		t.Errorf("got %d vertices, want 18", len(c.Verts))
	}
	current := ctx.fontImages[ctx.fontImageIdx]
	if c.Paint.Image != current {
		t.Errorf("text drawn with texture %d, want %d", c.Paint.Image, current)
	}
	if w, h, _ := rec.TextureSize(current); w*h <= 64*64 {
		t.Errorf("new atlas is %dx%d", w, h)
	}

	if err := ctx.EndFrame(); err != nil {
		t.Fatal(err)
	}
	if ctx.fontImageIdx != 0 || ctx.fontImages[0] != current {
		t.Errorf("after EndFrame images = %v idx %d", ctx.fontImages, ctx.fontImageIdx)
	}
	if !slices.Contains(rec.deleted, first) {
		t.Error("smaller atlas texture not released")
	}
}

func TestTextShaping(t *testing.T) {
	ctx, rec := newTextContext(t, WithTextShaping())
	beginFrame(t, ctx)
	ctx.Text(0, 30, "office")
	if len(rec.Calls) != 1 || len(rec.Calls[0].Verts) == 0 {
		t.Fatal("shaped text drew nothing")
	}
	adv, _ := ctx.TextBounds(0, 0, "office")
	if adv <= 0 {
		t.Errorf("shaped advance = %v", adv)
	}
}
