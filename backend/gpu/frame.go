package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vg"
)

// CallType selects the passes a Call is drawn with.
type CallType int

const (
	// CallFill draws a concave or multi-path fill: PassStencilFill over
	// every path fill, PassFringe over every fringe, then PassCover over
	// the bounds quad.
	CallFill CallType = iota + 1
	// CallConvexFill draws a single convex path with PassDirect.
	CallConvexFill
	// CallStroke draws every path ribbon with PassDirect.
	CallStroke
	// CallTriangles draws a textured triangle list with PassDirect.
	CallTriangles
	// CallStencilStroke draws every path ribbon three times: PassStrokeBase
	// with the second uniform slot, PassFringe with the first, then
	// PassStrokeClear. Overlapping segments blend once.
	CallStencilStroke
)

func (t CallType) String() string {
	switch t {
	case CallFill:
		return "fill"
	case CallConvexFill:
		return "convex-fill"
	case CallStroke:
		return "stroke"
	case CallTriangles:
		return "triangles"
	case CallStencilStroke:
		return "stencil-stroke"
	}
	return "unknown"
}

// PathRange locates one path's triangles in Frame.Verts. Counts are in
// vertices; both ranges are triangle lists.
type PathRange struct {
	FillOffset, FillCount     int
	StrokeOffset, StrokeCount int
}

// Call is one draw call of a frame.
type Call struct {
	Type  CallType
	Image int // texture id, 0 for none

	PathOffset, PathCount         int
	TriangleOffset, TriangleCount int

	// UniformOffset is the byte offset of the call's fragment uniforms.
	// CallFill uses two consecutive slots: the stencil-only uniforms and
	// then the paint. CallStencilStroke uses the antialiased paint and
	// then the paint with the solid stroke threshold.
	UniformOffset int

	Blend gputypes.BlendState
}

// Frame is everything a GPU needs to draw one vg frame. Verts use
// VertexLayout; Uniforms holds UniformStride-sized slots for the
// fragment uniform binding.
type Frame struct {
	ViewSize [2]float32
	Verts    []vg.Vertex
	Paths    []PathRange
	Calls    []Call
	Uniforms []byte
}

func (f *Frame) reset() {
	f.Verts = f.Verts[:0]
	f.Paths = f.Paths[:0]
	f.Calls = f.Calls[:0]
	f.Uniforms = f.Uniforms[:0]
}

// clone returns a copy of f that shares no memory with it.
func (f *Frame) clone() *Frame {
	return &Frame{
		ViewSize: f.ViewSize,
		Verts:    append([]vg.Vertex(nil), f.Verts...),
		Paths:    append([]PathRange(nil), f.Paths...),
		Calls:    append([]Call(nil), f.Calls...),
		Uniforms: append([]byte(nil), f.Uniforms...),
	}
}

// appendFan appends a triangle fan as a triangle list.
func appendFan(dst, fan []vg.Vertex) []vg.Vertex {
	for i := 1; i+1 < len(fan); i++ {
		dst = append(dst, fan[0], fan[i], fan[i+1])
	}
	return dst
}

// appendStrip appends a triangle strip as a triangle list. Every other
// triangle is reordered so that all keep the strip's facing.
func appendStrip(dst, strip []vg.Vertex) []vg.Vertex {
	for i := 0; i+2 < len(strip); i++ {
		if i%2 == 0 {
			dst = append(dst, strip[i], strip[i+1], strip[i+2])
		} else {
			dst = append(dst, strip[i+1], strip[i], strip[i+2])
		}
	}
	return dst
}

// appendQuad appends the (x0, y0)-(x1, y1) rectangle as two triangles.
func appendQuad(dst []vg.Vertex, bounds [4]float32) []vg.Vertex {
	x0, y0, x1, y1 := bounds[0], bounds[1], bounds[2], bounds[3]
	return append(dst,
		vg.Vertex{X: x1, Y: y1, U: 0.5, V: 1.0},
		vg.Vertex{X: x1, Y: y0, U: 0.5, V: 1.0},
		vg.Vertex{X: x0, Y: y1, U: 0.5, V: 1.0},
		vg.Vertex{X: x0, Y: y1, U: 0.5, V: 1.0},
		vg.Vertex{X: x1, Y: y0, U: 0.5, V: 1.0},
		vg.Vertex{X: x0, Y: y0, U: 0.5, V: 1.0},
	)
}

// appendPaths appends the fill and stroke geometry of paths and returns
// the offset and count of their ranges.
func (f *Frame) appendPaths(paths []vg.Path, fill, stroke bool) (int, int) {
	off := len(f.Paths)
	for _, p := range paths {
		var r PathRange
		if fill && len(p.Fill) >= 3 {
			r.FillOffset = len(f.Verts)
			f.Verts = appendFan(f.Verts, p.Fill)
			r.FillCount = len(f.Verts) - r.FillOffset
		}
		if stroke && len(p.Stroke) >= 3 {
			r.StrokeOffset = len(f.Verts)
			f.Verts = appendStrip(f.Verts, p.Stroke)
			r.StrokeCount = len(f.Verts) - r.StrokeOffset
		}
		f.Paths = append(f.Paths, r)
	}
	return off, len(paths)
}
