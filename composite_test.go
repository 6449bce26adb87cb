package vg

import "testing"

func TestCompositeOp(t *testing.T) {
	tests := []struct {
		op       CompositeOperation
		src, dst BlendFactor
	}{
		{SourceOver, BlendOne, BlendOneMinusSrcAlpha},
		{SourceIn, BlendDstAlpha, BlendZero},
		{SourceOut, BlendOneMinusDstAlpha, BlendZero},
		{Atop, BlendDstAlpha, BlendOneMinusSrcAlpha},
		{DestinationOver, BlendOneMinusDstAlpha, BlendOne},
		{DestinationIn, BlendZero, BlendSrcAlpha},
		{DestinationOut, BlendZero, BlendOneMinusSrcAlpha},
		{DestinationAtop, BlendOneMinusDstAlpha, BlendSrcAlpha},
		{Lighter, BlendOne, BlendOne},
		{Copy, BlendOne, BlendZero},
		{Xor, BlendOneMinusDstAlpha, BlendOneMinusSrcAlpha},
	}
	for _, tt := range tests {
		got := CompositeOp(tt.op)
		want := CompositeOpState{tt.src, tt.dst, tt.src, tt.dst}
		if got != want {
			t.Errorf("CompositeOp(%d) = %+v, want %+v", tt.op, got, want)
		}
	}
	if CompositeOp(99) != CompositeOp(SourceOver) {
		t.Error("unknown operation should fall back to SourceOver")
	}
}

func TestCompositeStateReachesBackend(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	beginFrame(t, ctx)
	ctx.Rect(0, 0, 10, 10)

	ctx.GlobalCompositeOperation(DestinationOut)
	ctx.Fill()
	ctx.GlobalCompositeBlendFuncSeparate(BlendSrcAlpha, BlendOneMinusSrcAlpha, BlendOne, BlendZero)
	ctx.Fill()
	ctx.GlobalCompositeBlendFunc(BlendDstColor, BlendZero)
	ctx.Fill()

	want := []CompositeOpState{
		CompositeOp(DestinationOut),
		{BlendSrcAlpha, BlendOneMinusSrcAlpha, BlendOne, BlendZero},
		{BlendDstColor, BlendZero, BlendDstColor, BlendZero},
	}
	for i, w := range want {
		if got := rec.Calls[i].CompositeOp; got != w {
			t.Errorf("call %d composite = %+v, want %+v", i, got, w)
		}
	}
}

func TestCompositeIsSavedState(t *testing.T) {
	ctx, _ := newRecordedContext(t, 0)
	ctx.Save()
	ctx.GlobalCompositeOperation(Lighter)
	ctx.Restore()
	if ctx.state().compositeOp != CompositeOp(SourceOver) {
		t.Error("Restore did not bring back the composite operation")
	}
}
