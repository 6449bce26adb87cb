package fontstash

import (
	"fmt"
	"unicode/utf8"
)

// Layout positions text with its pen starting at (x, y), applying the
// horizontal and vertical alignment of st. With bitmaps set every glyph is
// rasterized into the atlas and ErrAtlasFull aborts the whole layout.
func (s *Stash) Layout(st Style, x, y float32, text string, bitmaps bool) ([]GlyphPos, error) {
	f := s.font(st.Font)
	if f == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFont, st.Font)
	}
	size := quantize(st.Size)

	if st.Align&(AlignRight|AlignCenter) != 0 {
		end, err := s.walk(st, f, size, x, 0, text, false, nil)
		if err != nil {
			return nil, err
		}
		width := end - x
		if st.Align&AlignRight != 0 {
			x -= width
		} else {
			x -= width * 0.5
		}
	}
	y += f.vertAlign(st.Align, size)

	out := make([]GlyphPos, 0, len(text))
	_, err := s.walk(st, f, size, x, y, text, bitmaps, func(gp GlyphPos) {
		out = append(out, gp)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TextBounds measures text drawn at (x, y). It returns the horizontal
// advance and the bounding box [minx miny maxx maxy] of all glyph quads.
func (s *Stash) TextBounds(st Style, x, y float32, text string) (advance float32, bounds [4]float32, err error) {
	f := s.font(st.Font)
	if f == nil {
		return 0, bounds, fmt.Errorf("%w: %d", ErrInvalidFont, st.Font)
	}
	size := quantize(st.Size)

	minx, maxx := x, x
	miny, maxy := y, y
	y += f.vertAlign(st.Align, size)

	end, err := s.walk(st, f, size, x, y, text, false, func(gp GlyphPos) {
		if !gp.Visible {
			return
		}
		q := gp.Quad
		minx = min(minx, q.X0)
		maxx = max(maxx, q.X1)
		miny = min(miny, q.Y0)
		maxy = max(maxy, q.Y1)
	})
	if err != nil {
		return 0, bounds, err
	}
	advance = end - x

	switch {
	case st.Align&AlignRight != 0:
		minx -= advance
		maxx -= advance
	case st.Align&AlignCenter != 0:
		minx -= advance * 0.5
		maxx -= advance * 0.5
	}
	return advance, [4]float32{minx, miny, maxx, maxy}, nil
}

// walk advances a pen over text and reports each glyph to visit.
// It returns the final pen x.
func (s *Stash) walk(st Style, f *font, size, x, y float32, text string, bitmap bool, visit func(GlyphPos)) (float32, error) {
	if s.shaping {
		if run := s.shape(st.Font, f, text, size); run != nil {
			return s.walkShaped(st, f, size, x, y, text, run, bitmap, visit)
		}
	}

	var prev *glyph
	for i := 0; i < len(text); {
		r, n := utf8.DecodeRuneInString(text[i:])
		gp := GlyphPos{Str: i, Next: i + n, Rune: r, X: x}

		g, err := s.getGlyph(f, r, size, st.Blur, bitmap)
		if err != nil {
			return x, err
		}
		if g != nil {
			if prev != nil {
				var adv float32
				if prev.src == g.src {
					adv = g.src.kern(prev.index, g.index, size)
				}
				x += roundf(adv + st.Spacing)
			}
			gp.Quad = s.quad(g, x, y)
			gp.Visible = !g.empty
			x += roundf(g.xadv)
		}
		prev = g
		gp.NextX = x
		if visit != nil {
			visit(gp)
		}
		i += n
	}
	return x, nil
}

func (s *Stash) walkShaped(st Style, f *font, size, x, y float32, text string, run []shapedGlyph, bitmap bool, visit func(GlyphPos)) (float32, error) {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	for i, sg := range run {
		if i > 0 {
			x += st.Spacing
		}
		gp := GlyphPos{X: x}
		if sg.cluster < len(offsets)-1 {
			gp.Str = offsets[sg.cluster]
			gp.Next = offsets[sg.cluster+1]
			gp.Rune, _ = utf8.DecodeRuneInString(text[gp.Str:])
		}

		g, err := s.getGlyphByIndex(f, sg.index, size, st.Blur, bitmap)
		if err != nil {
			return x, err
		}
		if g != nil {
			gp.Quad = s.quad(g, x+sg.xoff, y-sg.yoff)
			gp.Visible = !g.empty
		}
		x += sg.xadv
		gp.NextX = x
		if visit != nil {
			visit(gp)
		}
	}
	return x, nil
}

// quad maps g drawn with its pen at (x, y) to a screen rectangle and atlas
// coordinates. The atlas cell is inset by one pixel on each side.
func (s *Stash) quad(g *glyph, x, y float32) Quad {
	itw := 1 / float32(s.atlas.width)
	ith := 1 / float32(s.atlas.height)

	x0, y0 := float32(g.ax+1), float32(g.ay+1)
	x1, y1 := float32(g.ax+g.w-1), float32(g.ay+g.h-1)

	rx := floorf(x + float32(g.xoff+1))
	ry := floorf(y + float32(g.yoff+1))
	return Quad{
		X0: rx, Y0: ry, X1: rx + x1 - x0, Y1: ry + y1 - y0,
		S0: x0 * itw, T0: y0 * ith, S1: x1 * itw, T1: y1 * ith,
	}
}

func floorf(v float32) float32 {
	f := float32(int(v))
	if f > v {
		f--
	}
	return f
}

func roundf(v float32) float32 { return floorf(v + 0.5) }
