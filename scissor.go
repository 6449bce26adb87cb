package vg

// Scissor clips later drawing to the rectangle (x, y, w, h) in the
// current user space. The rectangle follows the current transform.
func (c *Context) Scissor(x, y, w, h float32) {
	st := c.state()
	w, h = max(0, w), max(0, h)

	st.scissor.Xform = TransformTranslate(x+w*0.5, y+h*0.5)
	st.scissor.Xform.Multiply(st.xform)
	st.scissor.Extent = [2]float32{w * 0.5, h * 0.5}
}

// IntersectScissor narrows the scissor to its intersection with the
// rectangle (x, y, w, h) in the current user space.
//
// When the current transform differs from the one the existing scissor
// was set under, the existing scissor is replaced by its axis aligned
// bounding box in the current space before intersecting. Rotated
// scissors therefore only ever grow in the approximation.
func (c *Context) IntersectScissor(x, y, w, h float32) {
	st := c.state()
	if !st.scissor.Enabled() {
		c.Scissor(x, y, w, h)
		return
	}

	// Existing scissor expressed in the current user space.
	pxform := st.scissor.Xform
	ex, ey := st.scissor.Extent[0], st.scissor.Extent[1]
	var invxform Transform
	if !st.xform.InverseInto(&invxform) {
		invxform = TransformIdentity()
	}
	pxform.Multiply(invxform)
	tex := ex*absf(pxform[0]) + ey*absf(pxform[2])
	tey := ex*absf(pxform[1]) + ey*absf(pxform[3])

	rx, ry, rw, rh := intersectRects(pxform[4]-tex, pxform[5]-tey, tex*2, tey*2, x, y, w, h)
	c.Scissor(rx, ry, rw, rh)
}

// ResetScissor disables clipping.
func (c *Context) ResetScissor() {
	st := c.state()
	st.scissor = Scissor{Extent: [2]float32{-1, -1}}
}

func intersectRects(ax, ay, aw, ah, bx, by, bw, bh float32) (x, y, w, h float32) {
	minx, miny := max(ax, bx), max(ay, by)
	maxx, maxy := min(ax+aw, bx+bw), min(ay+ah, by+bh)
	return minx, miny, max(0, maxx-minx), max(0, maxy-miny)
}
