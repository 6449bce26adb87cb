package vg

import "github.com/gogpu/vg/internal/tess"

// kappa90 is the bezier control distance that approximates a quarter circle.
const kappa90 = 0.5522847493

// BeginPath clears the current path and its cached tessellation.
func (c *Context) BeginPath() {
	c.commands = c.commands[:0]
	c.hasPoint = false
	c.tess.Reset()
}

// appendCommands stores path commands, mapping their points to device
// space with the current transform. The last user-space point is kept for
// curves that continue from it.
func (c *Context) appendCommands(vals ...float32) {
	if op := vals[0]; op != tess.CmdClose && op != tess.CmdWinding {
		c.cmdX, c.cmdY = vals[len(vals)-2], vals[len(vals)-1]
		c.hasPoint = true
	}

	xform := c.state().xform
	start := len(c.commands)
	c.commands = append(c.commands, vals...)
	cmds := c.commands[start:]
	for i := 0; i < len(cmds); {
		switch cmds[i] {
		case tess.CmdMoveTo, tess.CmdLineTo:
			cmds[i+1], cmds[i+2] = xform.Point(cmds[i+1], cmds[i+2])
			i += 3
		case tess.CmdBezierTo:
			cmds[i+1], cmds[i+2] = xform.Point(cmds[i+1], cmds[i+2])
			cmds[i+3], cmds[i+4] = xform.Point(cmds[i+3], cmds[i+4])
			cmds[i+5], cmds[i+6] = xform.Point(cmds[i+5], cmds[i+6])
			i += 7
		case tess.CmdWinding:
			i += 2
		default:
			i++
		}
	}
}

// ensurePoint starts a subpath at the origin when there is no current point.
func (c *Context) ensurePoint() {
	if !c.hasPoint {
		c.appendCommands(tess.CmdMoveTo, 0, 0)
	}
}

// MoveTo starts a new subpath at (x, y).
func (c *Context) MoveTo(x, y float32) {
	c.appendCommands(tess.CmdMoveTo, x, y)
}

// LineTo adds a line segment from the current point to (x, y).
func (c *Context) LineTo(x, y float32) {
	c.ensurePoint()
	c.appendCommands(tess.CmdLineTo, x, y)
}

// BezierTo adds a cubic bezier segment from the current point to (x, y)
// with control points (c1x, c1y) and (c2x, c2y).
func (c *Context) BezierTo(c1x, c1y, c2x, c2y, x, y float32) {
	c.ensurePoint()
	c.appendCommands(tess.CmdBezierTo, c1x, c1y, c2x, c2y, x, y)
}

// QuadTo adds a quadratic bezier segment from the current point to (x, y)
// with control point (cx, cy).
func (c *Context) QuadTo(cx, cy, x, y float32) {
	c.ensurePoint()
	x0, y0 := c.cmdX, c.cmdY
	c.appendCommands(tess.CmdBezierTo,
		x0+2.0/3.0*(cx-x0), y0+2.0/3.0*(cy-y0),
		x+2.0/3.0*(cx-x), y+2.0/3.0*(cy-y),
		x, y)
}

// ArcTo adds an arc of the given radius tangent to the lines from the
// current point to (x1, y1) and from (x1, y1) to (x2, y2). Degenerate
// corners become a straight line to (x1, y1).
func (c *Context) ArcTo(x1, y1, x2, y2, radius float32) {
	c.ensurePoint()
	x0, y0 := c.cmdX, c.cmdY
	tol := c.tess.DistTol

	if ptEquals(x0, y0, x1, y1, tol) ||
		ptEquals(x1, y1, x2, y2, tol) ||
		distPtSeg(x1, y1, x0, y0, x2, y2) < tol*tol ||
		radius < tol {
		c.LineTo(x1, y1)
		return
	}

	dx0, dy0 := x0-x1, y0-y1
	dx1, dy1 := x2-x1, y2-y1
	normalize(&dx0, &dy0)
	normalize(&dx1, &dy1)
	a := acosf(clampf(dx0*dx1+dy0*dy1, -1, 1))
	d := radius / tanf(a/2)

	if d > 10000 {
		c.LineTo(x1, y1)
		return
	}

	var cx, cy, a0, a1 float32
	var dir Winding
	if cross(dx0, dy0, dx1, dy1) > 0 {
		cx = x1 + dx0*d + dy0*radius
		cy = y1 + dy0*d - dx0*radius
		a0 = atan2f(dx0, -dy0)
		a1 = atan2f(-dx1, dy1)
		dir = CW
	} else {
		cx = x1 + dx0*d - dy0*radius
		cy = y1 + dy0*d + dx0*radius
		a0 = atan2f(-dx0, dy0)
		a1 = atan2f(dx1, -dy1)
		dir = CCW
	}
	c.Arc(cx, cy, radius, a0, a1, dir)
}

// Arc adds a circular arc around (cx, cy) from angle a0 to a1 in radians,
// swept in direction dir. Sweeps beyond a full turn are clamped. The arc
// is connected to the current point with a line if there is one.
func (c *Context) Arc(cx, cy, r, a0, a1 float32, dir Winding) {
	move := tess.CmdMoveTo
	if len(c.commands) > 0 {
		move = tess.CmdLineTo
	}

	da := a1 - a0
	if dir == CW {
		if absf(da) >= 2*math32Pi {
			da = 2 * math32Pi
		} else {
			for da < 0 {
				da += 2 * math32Pi
			}
		}
	} else {
		if absf(da) >= 2*math32Pi {
			da = -2 * math32Pi
		} else {
			for da > 0 {
				da -= 2 * math32Pi
			}
		}
	}

	// At most five segments of up to a quarter turn each.
	ndivs := max(1, min(int(absf(da)/(math32Pi*0.5)+0.5), 5))
	hda := (da / float32(ndivs)) / 2
	kappa := absf(4.0 / 3.0 * (1 - cosf(hda)) / sinf(hda))
	if dir == CCW {
		kappa = -kappa
	}

	vals := make([]float32, 0, 3+5*7)
	var px, py, ptanx, ptany float32
	for i := 0; i <= ndivs; i++ {
		a := a0 + da*(float32(i)/float32(ndivs))
		dx, dy := cosf(a), sinf(a)
		x, y := cx+dx*r, cy+dy*r
		tanx, tany := -dy*r*kappa, dx*r*kappa

		if i == 0 {
			vals = append(vals, move, x, y)
		} else {
			vals = append(vals, tess.CmdBezierTo, px+ptanx, py+ptany, x-tanx, y-tany, x, y)
		}
		px, py, ptanx, ptany = x, y, tanx, tany
	}
	c.appendCommands(vals...)
}

// Rect adds a closed rectangle subpath.
func (c *Context) Rect(x, y, w, h float32) {
	c.appendCommands(
		tess.CmdMoveTo, x, y,
		tess.CmdLineTo, x, y+h,
		tess.CmdLineTo, x+w, y+h,
		tess.CmdLineTo, x+w, y,
		tess.CmdClose,
	)
}

// RoundedRect adds a rectangle with all corners rounded by r.
func (c *Context) RoundedRect(x, y, w, h, r float32) {
	c.RoundedRectVarying(x, y, w, h, r, r, r, r)
}

// RoundedRectVarying adds a rectangle with a separate radius per corner.
// Radii are limited to half the rectangle size.
func (c *Context) RoundedRectVarying(x, y, w, h, radTopLeft, radTopRight, radBottomRight, radBottomLeft float32) {
	if radTopLeft < 0.1 && radTopRight < 0.1 && radBottomRight < 0.1 && radBottomLeft < 0.1 {
		c.Rect(x, y, w, h)
		return
	}
	halfw, halfh := absf(w)*0.5, absf(h)*0.5
	sw, sh := signf(w), signf(h)
	rxBL, ryBL := min(radBottomLeft, halfw)*sw, min(radBottomLeft, halfh)*sh
	rxBR, ryBR := min(radBottomRight, halfw)*sw, min(radBottomRight, halfh)*sh
	rxTR, ryTR := min(radTopRight, halfw)*sw, min(radTopRight, halfh)*sh
	rxTL, ryTL := min(radTopLeft, halfw)*sw, min(radTopLeft, halfh)*sh
	const k = 1 - kappa90

	c.appendCommands(
		tess.CmdMoveTo, x, y+ryTL,
		tess.CmdLineTo, x, y+h-ryBL,
		tess.CmdBezierTo, x, y+h-ryBL*k, x+rxBL*k, y+h, x+rxBL, y+h,
		tess.CmdLineTo, x+w-rxBR, y+h,
		tess.CmdBezierTo, x+w-rxBR*k, y+h, x+w, y+h-ryBR*k, x+w, y+h-ryBR,
		tess.CmdLineTo, x+w, y+ryTR,
		tess.CmdBezierTo, x+w, y+ryTR*k, x+w-rxTR*k, y, x+w-rxTR, y,
		tess.CmdLineTo, x+rxTL, y,
		tess.CmdBezierTo, x+rxTL*k, y, x, y+ryTL*k, x, y+ryTL,
		tess.CmdClose,
	)
}

// Ellipse adds a closed ellipse subpath centred at (cx, cy).
func (c *Context) Ellipse(cx, cy, rx, ry float32) {
	c.appendCommands(
		tess.CmdMoveTo, cx-rx, cy,
		tess.CmdBezierTo, cx-rx, cy+ry*kappa90, cx-rx*kappa90, cy+ry, cx, cy+ry,
		tess.CmdBezierTo, cx+rx*kappa90, cy+ry, cx+rx, cy+ry*kappa90, cx+rx, cy,
		tess.CmdBezierTo, cx+rx, cy-ry*kappa90, cx+rx*kappa90, cy-ry, cx, cy-ry,
		tess.CmdBezierTo, cx-rx*kappa90, cy-ry, cx-rx, cy-ry*kappa90, cx-rx, cy,
		tess.CmdClose,
	)
}

// Circle adds a closed circle subpath.
func (c *Context) Circle(cx, cy, r float32) {
	c.Ellipse(cx, cy, r, r)
}

// ClosePath closes the current subpath with a line back to its start.
func (c *Context) ClosePath() {
	c.appendCommands(tess.CmdClose)
}

// PathWinding sets the winding of the current subpath: Solid (CCW) fills,
// Hole (CW) cuts out of enclosing solid subpaths.
func (c *Context) PathWinding(dir Winding) {
	c.appendCommands(tess.CmdWinding, float32(dir))
}

func ptEquals(x1, y1, x2, y2, tol float32) bool {
	dx, dy := x2-x1, y2-y1
	return dx*dx+dy*dy < tol*tol
}

// distPtSeg returns the squared distance from (x, y) to segment p-q.
func distPtSeg(x, y, px, py, qx, qy float32) float32 {
	pqx, pqy := qx-px, qy-py
	dx, dy := x-px, y-py
	d := pqx*pqx + pqy*pqy
	t := pqx*dx + pqy*dy
	if d > 0 {
		t /= d
	}
	t = clampf(t, 0, 1)
	dx = px + t*pqx - x
	dy = py + t*pqy - y
	return dx*dx + dy*dy
}
