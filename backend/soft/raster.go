package soft

import (
	"image"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
	"golang.org/x/image/draw"
)

func (b *Backend) render(c *call) {
	if c.scissor.Enabled() && (c.scissor.Extent[0] <= 0 || c.scissor.Extent[1] <= 0) {
		return
	}
	var r image.Rectangle
	switch c.kind {
	case callFill:
		r = b.fillCoverage(c)
	case callStroke:
		r = b.strokeCoverage(c)
	case callTriangles:
		r = b.triangleCoverage(c)
	}
	if r.Empty() {
		return
	}
	b.shade(c, r)
}

// region returns the device pixel rectangle covering verts, clipped to
// the target.
func (b *Backend) region(verts ...[]vg.Vertex) image.Rectangle {
	s := b.ratio
	minx, miny := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxx, maxy := -minx, -miny
	for _, vs := range verts {
		for _, v := range vs {
			minx, miny = min(minx, v.X), min(miny, v.Y)
			maxx, maxy = max(maxx, v.X), max(maxy, v.Y)
		}
	}
	if minx > maxx {
		return image.Rectangle{}
	}
	r := image.Rect(
		int(math.Floor(float64(minx*s))), int(math.Floor(float64(miny*s))),
		int(math.Ceil(float64(maxx*s)))+1, int(math.Ceil(float64(maxy*s)))+1,
	)
	return r.Intersect(b.dst.Rect)
}

// resetMask prepares the rasterizer and the coverage mask for r.
func (b *Backend) resetMask(r image.Rectangle) {
	w, h := r.Dx(), r.Dy()
	b.ras.Reset(w, h)
	b.ras.DrawOp = draw.Src
	if b.mask == nil || cap(b.mask.Pix) < w*h {
		b.mask = image.NewAlpha(image.Rect(0, 0, w, h))
		return
	}
	b.mask.Pix = b.mask.Pix[:w*h]
	b.mask.Stride = w
	b.mask.Rect = image.Rect(0, 0, w, h)
}

func (b *Backend) finishMask() {
	b.ras.Draw(b.mask, b.mask.Rect, image.Opaque, image.Point{})
}

// polygon adds a closed outline in logical units to the rasterizer.
func (b *Backend) polygon(r image.Rectangle, verts ...vg.Vertex) {
	s := b.ratio
	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	b.ras.MoveTo(verts[0].X*s-ox, verts[0].Y*s-oy)
	for _, v := range verts[1:] {
		b.ras.LineTo(v.X*s-ox, v.Y*s-oy)
	}
	b.ras.ClosePath()
}

// fillCoverage accumulates every path outline as a polygon. Holes are
// wound against their enclosing outlines and cancel out.
func (b *Backend) fillCoverage(c *call) image.Rectangle {
	fills := make([][]vg.Vertex, 0, len(c.paths))
	for _, p := range c.paths {
		switch {
		case c.fringe > 0 && len(p.Stroke) >= 6:
			fills = append(fills, backend.FillOutline(p.Stroke))
		case len(p.Fill) >= 3:
			fills = append(fills, p.Fill)
		}
	}
	r := b.region(fills...)
	if r.Empty() {
		return r
	}
	b.resetMask(r)
	for _, f := range fills {
		b.polygon(r, f...)
	}
	b.finishMask()
	return r
}

// strokeCoverage rasterizes stroke strips triangle by triangle, all
// wound the same way so that overlaps saturate instead of cancelling.
func (b *Backend) strokeCoverage(c *call) image.Rectangle {
	strips := make([][]vg.Vertex, 0, len(c.paths))
	for _, p := range c.paths {
		if len(p.Stroke) >= 3 {
			strips = append(strips, backend.NarrowStrip(p.Stroke, (c.strokeWidth+c.fringe)*0.5, c.fringe*0.5))
		}
	}
	r := b.region(strips...)
	if r.Empty() {
		return r
	}
	b.resetMask(r)
	for _, st := range strips {
		for i := 0; i+2 < len(st); i++ {
			b.triangle(r, st[i], st[i+1], st[i+2])
		}
	}
	b.finishMask()
	return r
}

func (b *Backend) triangle(r image.Rectangle, v0, v1, v2 vg.Vertex) {
	a := area2(v0, v1, v2)
	switch {
	case a == 0:
		return
	case a < 0:
		v1, v2 = v2, v1
	}
	b.polygon(r, v0, v1, v2)
}

func area2(v0, v1, v2 vg.Vertex) float32 {
	return (v1.X-v0.X)*(v2.Y-v0.Y) - (v2.X-v0.X)*(v1.Y-v0.Y)
}

// triangleCoverage rasterizes a triangle list and records for every
// pixel the texture coordinate of the triangle it lies most inside of.
func (b *Backend) triangleCoverage(c *call) image.Rectangle {
	n := len(c.verts) / 3 * 3
	if n == 0 {
		return image.Rectangle{}
	}
	verts := c.verts[:n]
	r := b.region(verts)
	if r.Empty() {
		return r
	}
	b.resetMask(r)
	w, h := r.Dx(), r.Dy()
	if cap(b.uv) < 2*w*h {
		b.uv = make([]float32, 2*w*h)
		b.best = make([]float32, w*h)
	}
	b.uv = b.uv[:2*w*h]
	b.best = b.best[:w*h]
	for i := range b.best {
		b.best[i] = float32(math.Inf(-1))
	}

	for i := 0; i < n; i += 3 {
		v0, v1, v2 := verts[i], verts[i+1], verts[i+2]
		b.triangle(r, v0, v1, v2)
		b.assignUV(r, v0, v1, v2)
	}
	b.finishMask()
	return r
}

func (b *Backend) assignUV(r image.Rectangle, v0, v1, v2 vg.Vertex) {
	s := b.ratio
	x0, y0 := v0.X*s, v0.Y*s
	x1, y1 := v1.X*s, v1.Y*s
	x2, y2 := v2.X*s, v2.Y*s
	den := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if den == 0 {
		return
	}
	tr := image.Rect(
		int(math.Floor(float64(min(x0, x1, x2))))-1, int(math.Floor(float64(min(y0, y1, y2))))-1,
		int(math.Ceil(float64(max(x0, x1, x2))))+1, int(math.Ceil(float64(max(y0, y1, y2))))+1,
	).Intersect(r)

	w := r.Dx()
	for py := tr.Min.Y; py < tr.Max.Y; py++ {
		for px := tr.Min.X; px < tr.Max.X; px++ {
			fx, fy := float32(px)+0.5, float32(py)+0.5
			l0 := ((y1-y2)*(fx-x2) + (x2-x1)*(fy-y2)) / den
			l1 := ((y2-y0)*(fx-x2) + (x0-x2)*(fy-y2)) / den
			l2 := 1 - l0 - l1
			inside := min(l0, l1, l2)
			idx := (py-r.Min.Y)*w + (px - r.Min.X)
			if inside <= b.best[idx] {
				continue
			}
			b.best[idx] = inside
			l0, l1, l2 = max(l0, 0), max(l1, 0), max(l2, 0)
			sum := l0 + l1 + l2
			b.uv[2*idx] = (l0*v0.U + l1*v1.U + l2*v2.U) / sum
			b.uv[2*idx+1] = (l0*v0.V + l1*v1.V + l2*v2.V) / sum
		}
	}
}
