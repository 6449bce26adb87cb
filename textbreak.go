package vg

type codepointType int

const (
	cpSpace codepointType = iota
	cpNewline
	cpChar
	cpCJK
)

func classify(r, prev rune) codepointType {
	switch r {
	case '\t', '\v', '\f', ' ', 0x00a0:
		return cpSpace
	case '\n':
		if prev == '\r' {
			return cpSpace
		}
		return cpNewline
	case '\r':
		if prev == '\n' {
			return cpSpace
		}
		return cpNewline
	case 0x0085:
		return cpNewline
	}
	if (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3000 && r <= 0x30FF) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0x1100 && r <= 0x11FF) ||
		(r >= 0x3130 && r <= 0x318F) ||
		(r >= 0xAC00 && r <= 0xD7AF) {
		return cpCJK
	}
	return cpChar
}

// TextBreakLines splits s into rows no wider than breakRowWidth. Rows
// break at white space; CJK characters may break anywhere, and words
// longer than a row are split between characters. Explicit newlines
// always end a row.
func (c *Context) TextBreakLines(s string, breakRowWidth float32) []TextRow {
	if s == "" {
		return nil
	}
	scale := c.fontScale()
	invscale := 1 / scale
	style := c.fontStyle(scale)
	style.Align = AlignLeft | AlignTop

	glyphs, err := c.fonts.Layout(style, 0, 0, s, false)
	if err != nil {
		return nil
	}
	breakRowWidth *= scale

	var rows []TextRow
	rowStart, rowEnd := -1, -1
	var rowStartX, rowWidth, rowMinX, rowMaxX float32
	wordStart := -1
	var wordStartX, wordMinX float32
	breakEnd := -1
	var breakWidth, breakMaxX float32
	ptype := cpSpace
	var prev rune

	emit := func(start, end, next int, width, minx, maxx float32) {
		rows = append(rows, TextRow{
			Start: start,
			End:   end,
			Next:  next,
			Width: width * invscale,
			MinX:  minx * invscale,
			MaxX:  maxx * invscale,
		})
	}

	for _, g := range glyphs {
		typ := classify(g.Rune, prev)
		x0, x1 := g.X, g.NextX
		if g.Visible {
			x0, x1 = g.Quad.X0, g.Quad.X1
		}
		printable := typ == cpChar || typ == cpCJK

		if typ == cpNewline {
			start, end := g.Str, g.Str
			if rowStart >= 0 {
				start, end = rowStart, rowEnd
			}
			emit(start, end, g.Next, rowWidth, rowMinX, rowMaxX)
			breakEnd = rowStart
			breakWidth, breakMaxX = 0, 0
			rowStart, rowEnd = -1, -1
			rowWidth, rowMinX, rowMaxX = 0, 0, 0
			wordStart = -1
		} else if rowStart < 0 {
			if printable {
				rowStartX = g.X
				rowStart, rowEnd = g.Str, g.Next
				rowWidth = g.NextX - rowStartX
				rowMinX, rowMaxX = x0-rowStartX, x1-rowStartX
				wordStart, wordStartX, wordMinX = g.Str, g.X, x0
				breakEnd = rowStart
				breakWidth, breakMaxX = 0, 0
			}
		} else {
			nextWidth := g.NextX - rowStartX

			if printable {
				rowEnd = g.Next
				rowWidth = g.NextX - rowStartX
				rowMaxX = x1 - rowStartX
			}
			// Break opportunity after a word or at any CJK character.
			if ((ptype == cpChar || ptype == cpCJK) && typ == cpSpace) || typ == cpCJK {
				breakEnd = g.Str
				breakWidth = rowWidth
				breakMaxX = rowMaxX
			}
			// Start of a new word.
			if (ptype == cpSpace && printable) || typ == cpCJK {
				wordStart, wordStartX, wordMinX = g.Str, g.X, x0
			}

			if printable && nextWidth > breakRowWidth {
				if breakEnd == rowStart {
					// The word does not fit a row: break before this character.
					emit(rowStart, g.Str, g.Str, g.X-rowStartX, rowMinX, rowMaxX)
					rowStartX = g.X
					rowStart, rowEnd = g.Str, g.Next
					rowWidth = g.NextX - rowStartX
					rowMinX, rowMaxX = x0-rowStartX, x1-rowStartX
					wordStart, wordStartX, wordMinX = g.Str, g.X, x0
				} else {
					emit(rowStart, breakEnd, wordStart, breakWidth, rowMinX, breakMaxX)
					rowStartX = wordStartX
					rowStart, rowEnd = wordStart, g.Next
					rowWidth = g.NextX - rowStartX
					rowMinX, rowMaxX = wordMinX-rowStartX, x1-rowStartX
				}
				breakEnd = rowStart
				breakWidth, breakMaxX = 0, 0
			}
		}

		prev = g.Rune
		ptype = typ
	}

	if rowStart >= 0 {
		emit(rowStart, rowEnd, len(s), rowWidth, rowMinX, rowMaxX)
	}
	return rows
}
