// Package tess turns a transformed path command buffer into fill and stroke
// geometry: curve flattening, winding enforcement, join and cap expansion,
// and antialiasing fringes.
//
// A Tessellator owns reusable scratch buffers but carries no drawing state
// between calls. The vertex slices it returns alias those buffers and stay
// valid only until the next Reset, Flatten or Expand call.
package tess

// Command opcodes stored in a path command buffer. Coordinates following
// MoveTo, LineTo and BezierTo are already in device space.
const (
	CmdMoveTo   float32 = 0 // x y
	CmdLineTo   float32 = 1 // x y
	CmdBezierTo float32 = 2 // c1x c1y c2x c2y x y
	CmdClose    float32 = 3
	CmdWinding  float32 = 4 // winding
)

// Winding is the orientation a subpath is forced into before expansion.
type Winding int8

const (
	// CCW marks a solid subpath.
	CCW Winding = 1
	// CW marks a hole.
	CW Winding = 2
)

// Cap is the end cap style of open strokes.
type Cap int8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join is the corner style between stroke segments.
type Join int8

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Vertex is a device-space position with texture coordinates. For fills
// and strokes (U, V) drive the antialiasing ramp; for text they address
// the glyph atlas.
type Vertex struct {
	X, Y, U, V float32
}

// Path is one tessellated subpath.
type Path struct {
	// Fill is a triangle fan covering the subpath interior.
	Fill []Vertex
	// Stroke is a triangle strip: the stroke ribbon, or the fill fringe.
	Stroke []Vertex

	Winding Winding
	Closed  bool
	Convex  bool
	NBevel  int

	first, count           int
	fillStart, fillEnd     int
	strokeStart, strokeEnd int
}

const (
	ptCorner     uint8 = 0x01
	ptLeft       uint8 = 0x02
	ptBevel      uint8 = 0x04
	ptInnerBevel uint8 = 0x08

	maxBezierDepth = 10
)

type point struct {
	x, y     float32
	dx, dy   float32
	len      float32
	dmx, dmy float32
	flags    uint8
}

type bezierSeg struct {
	x1, y1, x2, y2, x3, y3, x4, y4 float32
	level                          int
	flags                          uint8
}

// Tessellator converts command buffers into backend-ready geometry.
type Tessellator struct {
	// TessTol is the curve flatness tolerance in device pixels.
	TessTol float32
	// DistTol merges points closer than this distance.
	DistTol float32
	// FringeWidth is the antialiasing fringe width.
	FringeWidth float32

	points   []point
	paths    []Path
	verts    []Vertex
	bezStack []bezierSeg
	bounds   [4]float32

	flattened int // number of commands consumed by the last Flatten, -1 if none
}

// New returns a tessellator configured for the given device pixel ratio.
func New(devicePixelRatio float32) *Tessellator {
	t := &Tessellator{flattened: -1}
	t.SetDevicePixelRatio(devicePixelRatio)
	return t
}

// SetDevicePixelRatio derives the tolerances from the pixel ratio.
func (t *Tessellator) SetDevicePixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	t.TessTol = 0.25 / ratio
	t.DistTol = 0.01 / ratio
	t.FringeWidth = 1.0 / ratio
}

// Reset drops the flattened path cache.
func (t *Tessellator) Reset() {
	t.points = t.points[:0]
	t.paths = t.paths[:0]
	t.flattened = -1
}

// Bounds returns the device-space bounding box [minx miny maxx maxy] of
// the last flattened path set.
func (t *Tessellator) Bounds() [4]float32 { return t.bounds }

// Paths returns the current subpaths.
func (t *Tessellator) Paths() []Path { return t.paths }

// PathPoints returns the flattened points of path i.
func (t *Tessellator) PathPoints(i int) [][2]float32 {
	p := t.paths[i]
	out := make([][2]float32, 0, p.count)
	for _, pt := range t.points[p.first : p.first+p.count] {
		out = append(out, [2]float32{pt.x, pt.y})
	}
	return out
}

// Flatten converts the command buffer into polylines. Repeated calls with
// an unchanged buffer reuse the previous result.
func (t *Tessellator) Flatten(cmds []float32) {
	if t.flattened == len(cmds) {
		return
	}
	t.points = t.points[:0]
	t.paths = t.paths[:0]

	for i := 0; i < len(cmds); {
		switch cmds[i] {
		case CmdMoveTo:
			t.addPath()
			t.addPoint(cmds[i+1], cmds[i+2], ptCorner)
			i += 3
		case CmdLineTo:
			t.addPoint(cmds[i+1], cmds[i+2], ptCorner)
			i += 3
		case CmdBezierTo:
			if last, ok := t.lastPoint(); ok {
				t.tessellateBezier(last.x, last.y,
					cmds[i+1], cmds[i+2], cmds[i+3], cmds[i+4], cmds[i+5], cmds[i+6], ptCorner)
			}
			i += 7
		case CmdClose:
			if n := len(t.paths); n > 0 {
				t.paths[n-1].Closed = true
			}
			i++
		case CmdWinding:
			if n := len(t.paths); n > 0 {
				t.paths[n-1].Winding = Winding(cmds[i+1])
			}
			i += 2
		default:
			i++
		}
	}

	t.bounds = [4]float32{1e6, 1e6, -1e6, -1e6}
	for i := range t.paths {
		path := &t.paths[i]
		pts := t.points[path.first : path.first+path.count]

		// A repeated start point closes the subpath.
		if len(pts) > 1 {
			p0, p1 := &pts[len(pts)-1], &pts[0]
			if ptEquals(p0.x, p0.y, p1.x, p1.y, t.DistTol) {
				path.count--
				path.Closed = true
				pts = pts[:path.count]
			}
		}

		if len(pts) > 2 {
			area := polyArea(pts)
			if (path.Winding == CCW && area < 0) || (path.Winding == CW && area > 0) {
				polyReverse(pts)
			}
		}

		for j := range pts {
			p0 := &pts[j]
			p1 := &pts[(j+1)%len(pts)]
			p0.dx = p1.x - p0.x
			p0.dy = p1.y - p0.y
			p0.len = normalize(&p0.dx, &p0.dy)

			t.bounds[0] = min(t.bounds[0], p0.x)
			t.bounds[1] = min(t.bounds[1], p0.y)
			t.bounds[2] = max(t.bounds[2], p0.x)
			t.bounds[3] = max(t.bounds[3], p0.y)
		}
	}
	t.flattened = len(cmds)
}

func (t *Tessellator) addPath() {
	t.paths = append(t.paths, Path{first: len(t.points), Winding: CCW})
}

func (t *Tessellator) lastPoint() (*point, bool) {
	if len(t.points) == 0 {
		return nil, false
	}
	return &t.points[len(t.points)-1], true
}

func (t *Tessellator) addPoint(x, y float32, flags uint8) {
	if len(t.paths) == 0 {
		return
	}
	path := &t.paths[len(t.paths)-1]
	if path.count > 0 {
		pt := &t.points[len(t.points)-1]
		if ptEquals(pt.x, pt.y, x, y, t.DistTol) {
			pt.flags |= flags
			return
		}
	}
	t.points = append(t.points, point{x: x, y: y, flags: flags})
	path.count++
}

// tessellateBezier subdivides a cubic with an explicit work list instead
// of recursion. Depth is capped at maxBezierDepth.
func (t *Tessellator) tessellateBezier(x1, y1, x2, y2, x3, y3, x4, y4 float32, flags uint8) {
	stack := append(t.bezStack[:0], bezierSeg{x1, y1, x2, y2, x3, y3, x4, y4, 0, flags})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.level > maxBezierDepth {
			continue
		}

		x12, y12 := (s.x1+s.x2)*0.5, (s.y1+s.y2)*0.5
		x23, y23 := (s.x2+s.x3)*0.5, (s.y2+s.y3)*0.5
		x34, y34 := (s.x3+s.x4)*0.5, (s.y3+s.y4)*0.5
		x123, y123 := (x12+x23)*0.5, (y12+y23)*0.5

		dx, dy := s.x4-s.x1, s.y4-s.y1
		d2 := absf((s.x2-s.x4)*dy - (s.y2-s.y4)*dx)
		d3 := absf((s.x3-s.x4)*dy - (s.y3-s.y4)*dx)

		if (d2+d3)*(d2+d3) < t.TessTol*(dx*dx+dy*dy) {
			t.addPoint(s.x4, s.y4, s.flags)
			continue
		}

		x234, y234 := (x23+x34)*0.5, (y23+y34)*0.5
		x1234, y1234 := (x123+x234)*0.5, (y123+y234)*0.5

		// Second half first: the stack pops the first half next.
		stack = append(stack,
			bezierSeg{x1234, y1234, x234, y234, x34, y34, s.x4, s.y4, s.level + 1, s.flags},
			bezierSeg{s.x1, s.y1, x12, y12, x123, y123, x1234, y1234, s.level + 1, 0},
		)
	}
	t.bezStack = stack
}

func (t *Tessellator) vset(x, y, u, v float32) {
	t.verts = append(t.verts, Vertex{x, y, u, v})
}

// commit slices the vertex buffer into each path once all appends are done.
func (t *Tessellator) commit() []Path {
	for i := range t.paths {
		p := &t.paths[i]
		p.Fill = nil
		p.Stroke = nil
		if p.fillEnd > p.fillStart {
			p.Fill = t.verts[p.fillStart:p.fillEnd:p.fillEnd]
		}
		if p.strokeEnd > p.strokeStart {
			p.Stroke = t.verts[p.strokeStart:p.strokeEnd:p.strokeEnd]
		}
	}
	return t.paths
}
