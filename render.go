package vg

import (
	"math"

	"github.com/gogpu/vg/internal/tess"
)

// drawable reports whether a draw call may reach the backend. Draw calls
// outside BeginFrame/EndFrame are dropped.
func (c *Context) drawable(op string) bool {
	if !c.inFrame {
		Logger().Warn("vg: draw call outside frame ignored", "op", op)
		return false
	}
	return true
}

func (c *Context) antialiased() bool {
	return c.flags&Antialias != 0 && c.state().shapeAntiAlias
}

// Fill fills the current path with the fill paint.
func (c *Context) Fill() {
	if !c.drawable("Fill") {
		return
	}
	st := c.state()
	c.tess.Flatten(c.commands)

	var w float32
	if c.antialiased() {
		w = c.tess.FringeWidth
	}
	paths := c.tess.ExpandFill(w, tess.JoinMiter, 2.4)
	if !hasFillGeometry(paths) {
		return
	}

	paint := st.fill
	paint.scaleAlpha(st.alpha)
	c.resolvePaint(&paint)

	c.debugCheck("Fill", paths)
	c.backend.Fill(&paint, st.compositeOp, &st.scissor, c.tess.FringeWidth, c.tess.Bounds(), paths)

	c.stats.DrawCalls++
	for _, p := range paths {
		c.stats.FillTriangles += max(0, len(p.Fill)-2) + max(0, len(p.Stroke)-2)
	}
}

// Stroke strokes the current path with the stroke paint and style.
//
// The stroke width is scaled by the current transform and limited to 200
// pixels. Widths that round to nothing are drawn one device pixel wide;
// widths below a pixel are drawn at a pixel with alpha reduced by the
// square of their coverage.
func (c *Context) Stroke() {
	if !c.drawable("Stroke") {
		return
	}
	st := c.state()
	fringe := c.tess.FringeWidth
	strokeWidth := clampf(st.strokeWidth*st.xform.AverageScale(), 0, 200)
	if math.IsNaN(float64(strokeWidth)) {
		strokeWidth = 0
	}

	paint := st.stroke
	switch {
	case strokeWidth <= 0:
		strokeWidth = fringe
	case strokeWidth < fringe:
		alpha := clampf(strokeWidth/fringe, 0, 1)
		paint.scaleAlpha(alpha * alpha)
		strokeWidth = fringe
	}
	paint.scaleAlpha(st.alpha)
	c.resolvePaint(&paint)

	c.tess.Flatten(c.commands)
	var aa float32
	if c.antialiased() {
		aa = fringe
	}
	paths := c.tess.ExpandStroke(strokeWidth*0.5, aa, st.lineCap, st.lineJoin, st.miterLimit)
	if !hasStrokeGeometry(paths) {
		return
	}

	c.debugCheck("Stroke", paths)
	c.backend.Stroke(&paint, st.compositeOp, &st.scissor, fringe, strokeWidth, paths)

	c.stats.DrawCalls++
	for _, p := range paths {
		c.stats.StrokeTriangles += max(0, len(p.Stroke)-2)
	}
}

func hasFillGeometry(paths []Path) bool {
	for _, p := range paths {
		if len(p.Fill) > 0 {
			return true
		}
	}
	return false
}

func hasStrokeGeometry(paths []Path) bool {
	for _, p := range paths {
		if len(p.Stroke) > 0 {
			return true
		}
	}
	return false
}

// resolvePaint swaps the image handle of p for its backend texture id.
func (c *Context) resolvePaint(p *Paint) {
	if p.Image == 0 {
		return
	}
	s, ok := c.images.get(p.Image)
	if !ok {
		Logger().Warn("vg: paint references unknown image", "image", p.Image)
		p.Image = 0
		return
	}
	p.Image = s.tex
}

// debugCheck reports non-finite vertices when the context was created
// with Debug.
func (c *Context) debugCheck(op string, paths []Path) {
	if c.flags&Debug == 0 {
		return
	}
	for i, p := range paths {
		for _, vs := range [2][]Vertex{p.Fill, p.Stroke} {
			for _, v := range vs {
				if !finite(v.X) || !finite(v.Y) {
					Logger().Warn("vg: non-finite vertex", "op", op, "path", i)
					return
				}
			}
		}
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DebugDumpPathCache logs the flattened points and generated vertices of
// the current path at debug level.
func (c *Context) DebugDumpPathCache() {
	log := Logger()
	c.tess.Flatten(c.commands)
	paths := c.tess.Paths()
	log.Debug("vg: path cache", "paths", len(paths), "bounds", c.tess.Bounds())
	for i, p := range paths {
		log.Debug("vg: path",
			"index", i,
			"points", c.tess.PathPoints(i),
			"closed", p.Closed,
			"convex", p.Convex,
			"fill", p.Fill,
			"stroke", p.Stroke)
	}
}
