package vg

import (
	"math/rand/v2"
	"testing"
)

// mutations covers every style setter of the render state.
var mutations = []func(c *Context, r *rand.Rand){
	func(c *Context, r *rand.Rand) { c.StrokeWidth(r.Float32() * 10) },
	func(c *Context, r *rand.Rand) { c.MiterLimit(r.Float32() * 20) },
	func(c *Context, r *rand.Rand) { c.LineCap(LineCap(r.IntN(3))) },
	func(c *Context, r *rand.Rand) { c.LineJoin(LineJoin(r.IntN(3))) },
	func(c *Context, r *rand.Rand) { c.GlobalAlpha(r.Float32()) },
	func(c *Context, r *rand.Rand) { c.ShapeAntiAlias(r.IntN(2) == 0) },
	func(c *Context, r *rand.Rand) { c.Translate(r.Float32()*100, r.Float32()*100) },
	func(c *Context, r *rand.Rand) { c.Rotate(r.Float32() * 6) },
	func(c *Context, r *rand.Rand) { c.Scale(r.Float32()+0.5, r.Float32()+0.5) },
	func(c *Context, r *rand.Rand) { c.SkewX(r.Float32()) },
	func(c *Context, r *rand.Rand) { c.SkewY(r.Float32()) },
	func(c *Context, r *rand.Rand) { c.ResetTransform() },
	func(c *Context, r *rand.Rand) { c.Transform(1, r.Float32(), 0, 1, 3, 4) },
	func(c *Context, r *rand.Rand) { c.FillColor(RGBAf(r.Float32(), r.Float32(), r.Float32(), 1)) },
	func(c *Context, r *rand.Rand) { c.StrokeColor(RGBA(uint8(r.IntN(256)), 0, 0, 255)) },
	func(c *Context, r *rand.Rand) {
		c.FillPaint(LinearGradient(0, 0, r.Float32()*50, 10, RGBf(1, 0, 0), RGBf(0, 0, 1)))
	},
	func(c *Context, r *rand.Rand) {
		c.StrokePaint(RadialGradient(5, 5, 1, r.Float32()*20+2, RGBf(1, 1, 1), RGBf(0, 0, 0)))
	},
	func(c *Context, r *rand.Rand) { c.Scissor(0, 0, r.Float32()*100, 50) },
	func(c *Context, r *rand.Rand) { c.IntersectScissor(10, 10, r.Float32()*100, 50) },
	func(c *Context, r *rand.Rand) { c.ResetScissor() },
	func(c *Context, r *rand.Rand) { c.GlobalCompositeOperation(CompositeOperation(r.IntN(11))) },
	func(c *Context, r *rand.Rand) { c.GlobalCompositeBlendFunc(BlendOne, BlendZero) },
	func(c *Context, r *rand.Rand) { c.FontSize(r.Float32() * 40) },
	func(c *Context, r *rand.Rand) { c.FontBlur(r.Float32() * 4) },
	func(c *Context, r *rand.Rand) { c.TextLetterSpacing(r.Float32()) },
	func(c *Context, r *rand.Rand) { c.TextLineHeight(r.Float32() + 1) },
	func(c *Context, r *rand.Rand) { c.TextAlign(AlignCenter | AlignMiddle) },
	func(c *Context, r *rand.Rand) { c.FontFaceID(r.IntN(4)) },
	func(c *Context, r *rand.Rand) { c.Reset() },
}

func TestSaveRestoreIsExact(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{0, 1, 5, 50} {
		ctx, _ := newRecordedContext(t, Antialias)
		ctx.Translate(3, 4)
		ctx.FillColor(RGBA(10, 20, 30, 40))
		before := *ctx.state()

		ctx.Save()
		for range n {
			mutations[r.IntN(len(mutations))](ctx, r)
		}
		ctx.Restore()

		if got := *ctx.state(); got != before {
			t.Errorf("after %d mutations: state = %+v, want %+v", n, got, before)
		}
	}
}

func TestRestoreNeverUnderflows(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.Restore()
	ctx.Restore()
	if ctx.StateDepth() != 1 {
		t.Errorf("depth = %d, want 1", ctx.StateDepth())
	}
	ctx.StrokeWidth(4)
	ctx.Restore()
	if ctx.state().strokeWidth != 4 {
		t.Error("Restore at depth 1 must not touch the state")
	}
}

func TestSaveStopsAtMaxStates(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0, WithMaxStates(3))
	for range 10 {
		ctx.Save()
	}
	if ctx.StateDepth() != 3 {
		t.Errorf("depth = %d, want 3", ctx.StateDepth())
	}
}

func TestResetKeepsDepth(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.Save()
	ctx.Save()
	ctx.StrokeWidth(7)
	ctx.Rotate(1)
	ctx.Reset()
	if ctx.StateDepth() != 3 {
		t.Errorf("depth = %d after Reset, want 3", ctx.StateDepth())
	}
	if *ctx.state() != defaultState() {
		t.Error("Reset did not restore defaults")
	}
}

func TestDefaultState(t *testing.T) {
	st := defaultState()
	black := RGBA(0, 0, 0, 255)
	tests := []struct {
		name string
		ok   bool
	}{
		{"fill black", st.fill.InnerColor == black},
		{"stroke black", st.stroke.InnerColor == black},
		{"stroke width 1", st.strokeWidth == 1},
		{"miter limit 10", st.miterLimit == 10},
		{"butt cap", st.lineCap == Butt},
		{"miter join", st.lineJoin == Miter},
		{"alpha 1", st.alpha == 1},
		{"antialias", st.shapeAntiAlias},
		{"identity", st.xform == TransformIdentity()},
		{"no scissor", !st.scissor.Enabled()},
		{"source over", st.compositeOp == CompositeOp(SourceOver)},
		{"baseline left", st.textAlign == AlignLeft|AlignBaseline},
	}
	for _, tt := range tests {
		if !tt.ok {
			t.Errorf("default state: %s", tt.name)
		}
	}
}

func TestTransformsPremultiply(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.Translate(10, 0)
	ctx.Scale(2, 2)
	// Scale applies in the translated space: (1, 1) -> (2, 2) -> (12, 2).
	x, y := ctx.CurrentTransform().Point(1, 1)
	if !nearly(x, 12) || !nearly(y, 2) {
		t.Errorf("point = (%v, %v), want (12, 2)", x, y)
	}
	ctx.ResetTransform()
	if ctx.CurrentTransform() != TransformIdentity() {
		t.Error("ResetTransform did not restore identity")
	}
}
