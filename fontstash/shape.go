package fontstash

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// hbFont is the go-text view of a font, parsed on first use.
type hbFont struct {
	font   *gotext.Font
	shaper shaping.HarfbuzzShaper
	failed bool
}

type shapedGlyph struct {
	index            sfnt.GlyphIndex
	cluster          int // rune index into the shaped text
	xadv, xoff, yoff float32
}

func (f *font) harfbuzz() *hbFont {
	if f.shaper != nil {
		if f.shaper.failed {
			return nil
		}
		return f.shaper
	}
	f.shaper = &hbFont{}
	if f.face == 0 {
		face, err := gotext.ParseTTF(bytes.NewReader(f.data))
		if err == nil {
			f.shaper.font = face.Font
		}
	} else {
		faces, err := gotext.ParseTTC(bytes.NewReader(f.data))
		if err == nil && f.face < len(faces) {
			f.shaper.font = faces[f.face].Font
		}
	}
	if f.shaper.font == nil {
		f.shaper.failed = true
		return nil
	}
	return f.shaper
}

// shape runs HarfBuzz over text split into bidi runs, returned in visual
// order. Results are memoized per font, size and text.
func (s *Stash) shape(id int, f *font, text string, size float32) []shapedGlyph {
	hb := f.harfbuzz()
	if hb == nil || text == "" {
		return nil
	}
	key := runKey{font: id, isize: int(size * 10), text: text}
	return s.runs.GetOrCreate(key, func() []shapedGlyph {
		return hb.shapeText(text, f.ppem(size))
	})
}

func (hb *hbFont) shapeText(text string, ppem fixed.Int26_6) []shapedGlyph {
	runes := []rune(text)
	face := gotext.NewFace(hb.font)

	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return hb.shapeRun(runes, 0, len(runes), di.DirectionLTR, face, ppem, nil)
	}
	ordering, err := p.Order()
	if err != nil {
		return hb.shapeRun(runes, 0, len(runes), di.DirectionLTR, face, ppem, nil)
	}

	var out []shapedGlyph
	for i := range ordering.NumRuns() {
		run := ordering.Run(i)
		start, end := run.Pos()
		dir := di.DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		out = hb.shapeRun(runes, start, end+1, dir, face, ppem, out)
	}
	return out
}

func (hb *hbFont) shapeRun(runes []rune, start, end int, dir di.Direction, face *gotext.Face, ppem fixed.Int26_6, out []shapedGlyph) []shapedGlyph {
	if start >= end {
		return out
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  start,
		RunEnd:    end,
		Direction: dir,
		Face:      face,
		Size:      ppem,
		Script:    detectScript(runes[start:end]),
		Language:  language.NewLanguage("en"),
	}
	output := hb.shaper.Shape(input)
	for _, g := range output.Glyphs {
		out = append(out, shapedGlyph{
			index:   sfnt.GlyphIndex(g.GlyphID),
			cluster: g.TextIndex(),
			xadv:    fixedToFloat(g.Advance),
			xoff:    fixedToFloat(g.XOffset),
			yoff:    fixedToFloat(g.YOffset),
		})
	}
	return out
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
