package vg

import (
	"math"
	"testing"
)

func strokeLine(t *testing.T, ctx *Context) {
	t.Helper()
	ctx.BeginPath()
	ctx.MoveTo(10, 10)
	ctx.LineTo(90, 10)
	ctx.Stroke()
}

func TestStrokeWidth(t *testing.T) {
	tests := []struct {
		name      string
		scale     float32
		width     float32
		wantWidth float32
		wantAlpha float32
	}{
		{"plain", 1, 3, 3, 1},
		{"scaled", 2, 3, 6, 1},
		{"clamped", 1, 500, 200, 1},
		{"thin", 1, 0.5, 1, 0.25},
		{"zero", 1, 0, 1, 1},
		{"negative", 1, -4, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newRecordedContext(t, Antialias)
			beginFrame(t, ctx)
			ctx.Scale(tt.scale, tt.scale)
			ctx.StrokeWidth(tt.width)
			strokeLine(t, ctx)

			if len(rec.Calls) != 1 {
				t.Fatalf("got %d calls", len(rec.Calls))
			}
			c := rec.Calls[0]
			if !nearly(c.StrokeWidth, tt.wantWidth) {
				t.Errorf("stroke width = %v, want %v", c.StrokeWidth, tt.wantWidth)
			}
			if !nearly(c.Paint.InnerColor.A, tt.wantAlpha) {
				t.Errorf("alpha = %v, want %v", c.Paint.InnerColor.A, tt.wantAlpha)
			}
			if c.Fringe != 1 {
				t.Errorf("fringe = %v", c.Fringe)
			}
		})
	}
}

func TestStrokeMiterLimit(t *testing.T) {
	count := func(limit float32) int {
		ctx, rec := newRecordedContext(t, 0)
		beginFrame(t, ctx)
		ctx.StrokeWidth(10)
		ctx.MiterLimit(limit)
		ctx.MoveTo(0, 0)
		ctx.LineTo(100, 0)
		ctx.LineTo(100, 100)
		ctx.Stroke()
		return len(rec.Calls[0].Paths[0].Stroke)
	}
	miter, bevel := count(10), count(1)
	if bevel <= miter {
		t.Errorf("limit 1 emitted %d vertices, limit 10 emitted %d; want a bevel", bevel, miter)
	}
}

func TestStrokeCapsAndJoinsReachTessellator(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	beginFrame(t, ctx)
	ctx.StrokeWidth(10)
	ctx.LineCap(SquareCap)
	strokeLine(t, ctx)

	minX := float32(math.MaxFloat32)
	for _, v := range rec.Calls[0].Paths[0].Stroke {
		minX = min(minX, v.X)
	}
	if !nearly(minX, 5) {
		t.Errorf("square cap starts at x=%v, want 5", minX)
	}
}

func TestDrawOutsideFrameDropped(t *testing.T) {
	ctx, rec := newRecordedContext(t, Antialias)
	ctx.Rect(0, 0, 10, 10)
	ctx.Fill()
	ctx.Stroke()
	ctx.Text(0, 0, "x")

	beginFrame(t, ctx)
	if err := ctx.EndFrame(); err != nil {
		t.Fatal(err)
	}
	ctx.Fill()

	if len(rec.Calls) != 0 {
		t.Errorf("backend saw %d draw calls outside a frame", len(rec.Calls))
	}
}

func TestFillAntialiasToggle(t *testing.T) {
	ctx, rec := newRecordedContext(t, Antialias)
	beginFrame(t, ctx)
	ctx.Rect(0, 0, 10, 10)
	ctx.Fill()
	ctx.ShapeAntiAlias(false)
	ctx.Fill()

	if len(rec.Calls[0].Paths[0].Stroke) == 0 {
		t.Error("antialiased fill has no fringe")
	}
	if len(rec.Calls[1].Paths[0].Stroke) != 0 {
		t.Error("fill with ShapeAntiAlias(false) has a fringe")
	}
}

func TestDebugFlagAcceptsFiniteGeometry(t *testing.T) {
	ctx, rec := newRecordedContext(t, Antialias|Debug)
	beginFrame(t, ctx)
	ctx.Circle(50, 50, 20)
	ctx.Fill()
	ctx.DebugDumpPathCache()
	if len(rec.Calls) != 1 {
		t.Errorf("got %d calls", len(rec.Calls))
	}
}

func BenchmarkFillCircle(b *testing.B) {
	rec := newFakeBackend()
	ctx, err := NewContext(rec, Antialias)
	if err != nil {
		b.Fatal(err)
	}
	defer ctx.Delete()
	_ = ctx.BeginFrame(800, 600, 1)
	b.ReportAllocs()
	for b.Loop() {
		ctx.BeginPath()
		ctx.Circle(400, 300, 200)
		ctx.Fill()
		rec.Calls = rec.Calls[:0]
	}
}
