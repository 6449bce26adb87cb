package vg

// state is one entry of the render state stack. It is a plain value so
// that Save copies it and tests can compare states with ==.
type state struct {
	compositeOp    CompositeOpState
	shapeAntiAlias bool
	fill           Paint
	stroke         Paint
	strokeWidth    float32
	miterLimit     float32
	lineJoin       LineJoin
	lineCap        LineCap
	alpha          float32
	xform          Transform
	scissor        Scissor
	fontSize       float32
	letterSpacing  float32
	lineHeight     float32
	fontBlur       float32
	textAlign      Align
	fontID         int
}

func defaultState() state {
	return state{
		compositeOp:    CompositeOp(SourceOver),
		shapeAntiAlias: true,
		fill:           solidPaint(RGBA(0, 0, 0, 255)),
		stroke:         solidPaint(RGBA(0, 0, 0, 255)),
		strokeWidth:    1,
		miterLimit:     10,
		lineJoin:       Miter,
		lineCap:        Butt,
		alpha:          1,
		xform:          TransformIdentity(),
		scissor:        Scissor{Extent: [2]float32{-1, -1}},
		fontSize:       16,
		lineHeight:     1,
		textAlign:      AlignLeft | AlignBaseline,
		fontID:         0,
	}
}

func (c *Context) state() *state {
	return &c.states[len(c.states)-1]
}

// Save pushes a copy of the current render state. It does nothing when
// the stack is full.
func (c *Context) Save() {
	if len(c.states) >= c.opts.maxStates {
		Logger().Warn("vg: state stack full, Save ignored", "depth", len(c.states))
		return
	}
	c.states = append(c.states, *c.state())
}

// Restore pops the state pushed by the matching Save. The initial state
// is never popped.
func (c *Context) Restore() {
	if len(c.states) <= 1 {
		return
	}
	c.states = c.states[:len(c.states)-1]
}

// Reset restores the current state to its defaults without changing the
// stack depth.
func (c *Context) Reset() {
	*c.state() = defaultState()
}

// StateDepth returns the number of states on the stack, at least 1.
func (c *Context) StateDepth() int { return len(c.states) }

// ShapeAntiAlias toggles fringe antialiasing of fills and strokes.
// It has no effect on contexts created without Antialias.
func (c *Context) ShapeAntiAlias(enabled bool) {
	c.state().shapeAntiAlias = enabled
}

// StrokeWidth sets the stroke width in user space.
func (c *Context) StrokeWidth(width float32) {
	c.state().strokeWidth = width
}

// MiterLimit sets the ratio of miter length to stroke width above which
// miter joins are beveled.
func (c *Context) MiterLimit(limit float32) {
	c.state().miterLimit = limit
}

// LineCap sets how the ends of open strokes are drawn. Butt is the default.
func (c *Context) LineCap(lineCap LineCap) {
	c.state().lineCap = lineCap
}

// LineJoin sets how stroke segments are joined at corners. Miter is the
// default.
func (c *Context) LineJoin(join LineJoin) {
	c.state().lineJoin = join
}

// GlobalAlpha multiplies the alpha of everything drawn afterwards.
func (c *Context) GlobalAlpha(alpha float32) {
	c.state().alpha = alpha
}

// ResetTransform sets the current transform to identity.
func (c *Context) ResetTransform() {
	c.state().xform = TransformIdentity()
}

// Transform premultiplies the current transform by [a b c d e f].
func (c *Context) Transform(a, b, cc, d, e, f float32) {
	c.state().xform.Premultiply(Transform{a, b, cc, d, e, f})
}

// Translate moves the origin of the coordinate system by (x, y).
func (c *Context) Translate(x, y float32) {
	c.state().xform.Premultiply(TransformTranslate(x, y))
}

// Rotate rotates the coordinate system by angle radians.
func (c *Context) Rotate(angle float32) {
	c.state().xform.Premultiply(TransformRotate(angle))
}

// SkewX skews the coordinate system along the x axis by angle radians.
func (c *Context) SkewX(angle float32) {
	c.state().xform.Premultiply(TransformSkewX(angle))
}

// SkewY skews the coordinate system along the y axis by angle radians.
func (c *Context) SkewY(angle float32) {
	c.state().xform.Premultiply(TransformSkewY(angle))
}

// Scale scales the coordinate system by x and y.
func (c *Context) Scale(x, y float32) {
	c.state().xform.Premultiply(TransformScale(x, y))
}

// CurrentTransform returns the current user to device transform.
func (c *Context) CurrentTransform() Transform {
	return c.state().xform
}

// FillColor sets a solid fill color.
func (c *Context) FillColor(color Color) {
	c.state().fill = solidPaint(color)
}

// FillPaint sets the fill paint. Its transform is composed with the
// current transform at this point.
func (c *Context) FillPaint(p Paint) {
	st := c.state()
	st.fill = p
	st.fill.Xform.Multiply(st.xform)
}

// StrokeColor sets a solid stroke color.
func (c *Context) StrokeColor(color Color) {
	c.state().stroke = solidPaint(color)
}

// StrokePaint sets the stroke paint. Its transform is composed with the
// current transform at this point.
func (c *Context) StrokePaint(p Paint) {
	st := c.state()
	st.stroke = p
	st.stroke.Xform.Multiply(st.xform)
}
