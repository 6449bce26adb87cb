package vg

import (
	"math"
	"testing"

	"github.com/gogpu/vg/internal/tess"
)

func TestCommandsAreTransformedOnAppend(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.Translate(100, 0)
	ctx.MoveTo(1, 2)
	ctx.ResetTransform()
	ctx.LineTo(1, 2)

	want := []float32{tess.CmdMoveTo, 101, 2, tess.CmdLineTo, 1, 2}
	if len(ctx.commands) != len(want) {
		t.Fatalf("commands = %v", ctx.commands)
	}
	for i := range want {
		if ctx.commands[i] != want[i] {
			t.Errorf("commands = %v, want %v", ctx.commands, want)
			break
		}
	}
}

func TestImplicitMoveToOrigin(t *testing.T) {
	tests := []struct {
		name string
		draw func(c *Context)
	}{
		{"LineTo", func(c *Context) { c.LineTo(10, 0) }},
		{"BezierTo", func(c *Context) { c.BezierTo(1, 1, 2, 2, 3, 3) }},
		{"QuadTo", func(c *Context) { c.QuadTo(1, 1, 2, 2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newRecordedContext(t, 0)
			ctx.BeginPath()
			tt.draw(ctx)
			if ctx.commands[0] != tess.CmdMoveTo || ctx.commands[1] != 0 || ctx.commands[2] != 0 {
				t.Errorf("commands = %v, want a leading MoveTo(0, 0)", ctx.commands)
			}
		})
	}
}

func TestQuadToElevatesToCubic(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.MoveTo(0, 0)
	ctx.QuadTo(30, 30, 60, 0)
	got := ctx.commands[3:]
	want := []float32{tess.CmdBezierTo, 20, 20, 40, 20, 60, 0}
	for i := range want {
		if !nearly(got[i], want[i]) {
			t.Fatalf("bezier = %v, want %v", got, want)
		}
	}
}

func TestArcSweepClamped(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.BeginPath()
	ctx.Arc(0, 0, 10, 0, 10*math.Pi, CW)
	// A full turn splits into four quarter segments.
	if n := countOps(ctx.commands, tess.CmdBezierTo); n != 4 {
		t.Errorf("arc has %d bezier segments, want 4", n)
	}
	n := len(ctx.commands)
	x, y := ctx.commands[n-2], ctx.commands[n-1]
	if !nearly(x, 10) || absf(y) > 1e-3 {
		t.Errorf("full turn ends at (%v, %v), want (10, 0)", x, y)
	}
}

func TestArcConnectsWithLine(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.BeginPath()
	ctx.MoveTo(-5, 0)
	ctx.Arc(0, 0, 10, 0, math.Pi/2, CW)
	if ctx.commands[3] != tess.CmdLineTo {
		t.Errorf("arc after MoveTo should start with LineTo, got op %v", ctx.commands[3])
	}
	if n := countOps(ctx.commands, tess.CmdBezierTo); n != 1 {
		t.Errorf("quarter arc has %d segments, want 1", n)
	}
}

func TestArcToDegenerates(t *testing.T) {
	tests := []struct {
		name   string
		x1, y1 float32
		x2, y2 float32
		radius float32
	}{
		{"colinear", 10, 0, 20, 0, 5},
		{"zero radius", 10, 0, 10, 10, 0},
		{"coincident corner", 0, 0, 10, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newRecordedContext(t, 0)
			ctx.BeginPath()
			ctx.MoveTo(0, 0)
			ctx.ArcTo(tt.x1, tt.y1, tt.x2, tt.y2, tt.radius)
			if countOps(ctx.commands, tess.CmdBezierTo) != 0 {
				t.Error("degenerate ArcTo produced an arc")
			}
			n := len(ctx.commands)
			if ctx.commands[n-3] != tess.CmdLineTo || ctx.commands[n-2] != tt.x1 || ctx.commands[n-1] != tt.y1 {
				t.Errorf("commands = %v, want LineTo(x1, y1)", ctx.commands)
			}
		})
	}
}

func TestArcToRoundsCorner(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.BeginPath()
	ctx.MoveTo(0, 0)
	ctx.ArcTo(100, 0, 100, 100, 10)
	if countOps(ctx.commands, tess.CmdBezierTo) == 0 {
		t.Fatal("ArcTo produced no arc")
	}
	// The fillet ends on the second edge, radius below the corner.
	n := len(ctx.commands)
	if x, y := ctx.commands[n-2], ctx.commands[n-1]; !nearly(x, 100) || !nearly(y, 10) {
		t.Errorf("fillet ends at (%v, %v), want (100, 10)", x, y)
	}
}

func TestShapesAreClosed(t *testing.T) {
	shapes := []struct {
		name string
		draw func(c *Context)
	}{
		{"rect", func(c *Context) { c.Rect(0, 0, 10, 10) }},
		{"rounded rect", func(c *Context) { c.RoundedRect(0, 0, 40, 20, 5) }},
		{"varying", func(c *Context) { c.RoundedRectVarying(0, 0, 40, 20, 1, 2, 3, 4) }},
		{"ellipse", func(c *Context) { c.Ellipse(10, 10, 8, 4) }},
		{"circle", func(c *Context) { c.Circle(10, 10, 5) }},
	}
	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newRecordedContext(t, 0)
			ctx.BeginPath()
			tt.draw(ctx)
			if ctx.commands[len(ctx.commands)-1] != tess.CmdClose {
				t.Error("shape does not end with Close")
			}
			ctx.tess.Flatten(ctx.commands)
			p := ctx.tess.Paths()[0]
			if !p.Closed || p.Winding != Solid {
				t.Errorf("path closed=%v winding=%v", p.Closed, p.Winding)
			}
		})
	}
}

func TestRoundedRectSmallRadiusIsRect(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.RoundedRect(0, 0, 10, 10, 0.05)
	if countOps(ctx.commands, tess.CmdBezierTo) != 0 {
		t.Error("tiny radius should produce a plain rectangle")
	}
}

func TestRoundedRectRadiusLimited(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.RoundedRect(0, 0, 20, 10, 50)
	ctx.tess.Flatten(ctx.commands)
	b := ctx.tess.Bounds()
	if !nearly(b[0], 0) || !nearly(b[2], 20) || !nearly(b[1], 0) || !nearly(b[3], 10) {
		t.Errorf("bounds = %v, want the rectangle", b)
	}
}

func TestHoleCutsSolid(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	beginFrame(t, ctx)
	ctx.BeginPath()
	ctx.Rect(0, 0, 100, 100)
	ctx.Circle(50, 50, 20)
	ctx.PathWinding(Hole)
	ctx.Fill()

	paths := rec.Calls[0].Paths
	if len(paths) != 2 {
		t.Fatalf("got %d paths", len(paths))
	}
	if paths[0].Winding != Solid || paths[1].Winding != Hole {
		t.Errorf("windings = %v, %v", paths[0].Winding, paths[1].Winding)
	}
	if area(paths[0].Fill)*area(paths[1].Fill) >= 0 {
		t.Error("hole should be oriented against the solid outline")
	}
}

func TestRectFillUnderTransform(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	beginFrame(t, ctx)
	ctx.Translate(50, 50)
	ctx.Rotate(math.Pi / 4)
	ctx.BeginPath()
	ctx.Rect(-10, -10, 20, 20)
	ctx.Fill()

	c := rec.Calls[0]
	if n := len(c.Paths[0].Fill) - 2; n != 2 {
		t.Errorf("rotated rect fill has %d triangles", n)
	}
	h := float32(10 * math.Sqrt2)
	want := [4]float32{50 - h, 50 - h, 50 + h, 50 + h}
	for i := range want {
		if absf(c.Bounds[i]-want[i]) > 1e-3 {
			t.Errorf("bounds = %v, want %v", c.Bounds, want)
			break
		}
	}
}

func countOps(cmds []float32, op float32) int {
	n := 0
	for i := 0; i < len(cmds); {
		if cmds[i] == op {
			n++
		}
		switch cmds[i] {
		case tess.CmdMoveTo, tess.CmdLineTo:
			i += 3
		case tess.CmdBezierTo:
			i += 7
		case tess.CmdWinding:
			i += 2
		default:
			i++
		}
	}
	return n
}

// area returns the signed area of a fan.
func area(verts []Vertex) float32 {
	var a float32
	for i := range verts {
		j := (i + 1) % len(verts)
		a += verts[i].X*verts[j].Y - verts[j].X*verts[i].Y
	}
	return a / 2
}
