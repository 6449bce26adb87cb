package fontstash

import "image"

// atlas is a single-channel glyph texture packed with horizontal shelves.
// Each shelf is as tall as the tallest glyph placed on it; glyphs go left
// to right until the shelf is full, then a new shelf opens below.
type atlas struct {
	width, height int
	padding       int
	shelves       []shelf
	pixels        []byte
	dirty         image.Rectangle
}

type shelf struct {
	y      int
	height int
	x      int
}

func newAtlas(width, height int) *atlas {
	return &atlas{
		width:   width,
		height:  height,
		padding: 1,
		shelves: make([]shelf, 0, 16),
		pixels:  make([]byte, width*height),
	}
}

// allocate reserves a w*h region and returns its top-left corner.
func (a *atlas) allocate(w, h int) (x, y int, ok bool) {
	pw, ph := w+a.padding, h+a.padding

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+pw > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow downwards.
			if i != len(a.shelves)-1 || s.y+ph > a.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += pw
		return x, y, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+ph > a.height || pw > a.width {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: pw})
	return 0, newY, true
}

// expand grows the atlas keeping the packed content in place.
func (a *atlas) expand(width, height int) bool {
	width = max(width, a.width)
	height = max(height, a.height)
	if width == a.width && height == a.height {
		return false
	}
	pixels := make([]byte, width*height)
	for y := range a.height {
		copy(pixels[y*width:y*width+a.width], a.pixels[y*a.width:(y+1)*a.width])
	}
	a.pixels = pixels
	a.width, a.height = width, height
	a.dirty = image.Rect(0, 0, width, height)
	return true
}

// reset clears all allocations and resizes the atlas.
func (a *atlas) reset(width, height int) {
	a.shelves = a.shelves[:0]
	if width*height != len(a.pixels) {
		a.pixels = make([]byte, width*height)
	} else {
		clear(a.pixels)
	}
	a.width, a.height = width, height
	a.dirty = image.Rect(0, 0, width, height)
}

func (a *atlas) markDirty(r image.Rectangle) {
	a.dirty = a.dirty.Union(r)
}

// utilization returns the fraction of rows covered by shelves.
func (a *atlas) utilization() float32 {
	if len(a.shelves) == 0 || a.height == 0 {
		return 0
	}
	last := a.shelves[len(a.shelves)-1]
	return float32(last.y+last.height) / float32(a.height)
}
