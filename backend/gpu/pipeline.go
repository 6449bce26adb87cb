package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vg"
)

// Pass is one pipeline configuration used to draw Calls.
type Pass int

const (
	// PassStencilFill accumulates path windings in the stencil buffer,
	// front faces incrementing and back faces decrementing. No color is
	// written.
	PassStencilFill Pass = iota
	// PassFringe draws antialiasing fringes where the stencil is zero.
	PassFringe
	// PassCover paints where the stencil is non-zero and clears it.
	PassCover
	// PassDirect draws without touching the stencil.
	PassDirect
	// PassStrokeBase paints the solid part of a stroke where the stencil
	// is zero and marks it.
	PassStrokeBase
	// PassStrokeClear zeroes the stencil under a stroke without writing
	// color.
	PassStrokeClear
)

// VertexStride is the byte size of one vg.Vertex.
const VertexStride = 16

// VertexLayout describes Frame.Verts: position at location 0 and
// texture coordinate at location 1.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}}
}

// PipelineState is the fixed-function state of a pass.
type PipelineState struct {
	Target       gputypes.ColorTargetState
	DepthStencil *gputypes.DepthStencilState
	Primitive    gputypes.PrimitiveState
}

func stencil(compare gputypes.CompareFunction, pass gputypes.StencilOperation) gputypes.StencilFaceState {
	return gputypes.StencilFaceState{
		Compare:     compare,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      pass,
	}
}

// Pipeline returns the state for drawing pass into a format target with
// blend.
func Pipeline(pass Pass, format gputypes.TextureFormat, blend gputypes.BlendState) PipelineState {
	ps := PipelineState{
		Target: gputypes.ColorTargetState{
			Format:    format,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
	}
	ds := &gputypes.DepthStencilState{
		Format:           gputypes.TextureFormatDepth24PlusStencil8,
		DepthCompare:     gputypes.CompareFunctionAlways,
		StencilReadMask:  0xFF,
		StencilWriteMask: 0xFF,
	}
	switch pass {
	case PassStencilFill:
		ps.Target.Blend = nil
		ps.Target.WriteMask = gputypes.ColorWriteMaskNone
		ds.StencilFront = stencil(gputypes.CompareFunctionAlways, gputypes.StencilOperationIncrementWrap)
		ds.StencilBack = stencil(gputypes.CompareFunctionAlways, gputypes.StencilOperationDecrementWrap)
	case PassFringe:
		ds.StencilFront = stencil(gputypes.CompareFunctionEqual, gputypes.StencilOperationKeep)
		ds.StencilBack = ds.StencilFront
	case PassCover:
		ds.StencilFront = stencil(gputypes.CompareFunctionNotEqual, gputypes.StencilOperationZero)
		ds.StencilBack = ds.StencilFront
	case PassDirect:
		ds.StencilFront = stencil(gputypes.CompareFunctionAlways, gputypes.StencilOperationKeep)
		ds.StencilBack = ds.StencilFront
	case PassStrokeBase:
		ds.StencilFront = stencil(gputypes.CompareFunctionEqual, gputypes.StencilOperationIncrementClamp)
		ds.StencilBack = ds.StencilFront
	case PassStrokeClear:
		ps.Target.Blend = nil
		ps.Target.WriteMask = gputypes.ColorWriteMaskNone
		ds.StencilFront = stencil(gputypes.CompareFunctionAlways, gputypes.StencilOperationZero)
		ds.StencilBack = ds.StencilFront
	}
	ps.DepthStencil = ds
	return ps
}

var blendFactors = map[vg.BlendFactor]gputypes.BlendFactor{
	vg.BlendZero:             gputypes.BlendFactorZero,
	vg.BlendOne:              gputypes.BlendFactorOne,
	vg.BlendSrcColor:         gputypes.BlendFactorSrc,
	vg.BlendOneMinusSrcColor: gputypes.BlendFactorOneMinusSrc,
	vg.BlendDstColor:         gputypes.BlendFactorDst,
	vg.BlendOneMinusDstColor: gputypes.BlendFactorOneMinusDst,
	vg.BlendSrcAlpha:         gputypes.BlendFactorSrcAlpha,
	vg.BlendOneMinusSrcAlpha: gputypes.BlendFactorOneMinusSrcAlpha,
	vg.BlendDstAlpha:         gputypes.BlendFactorDstAlpha,
	vg.BlendOneMinusDstAlpha: gputypes.BlendFactorOneMinusDstAlpha,
	vg.BlendSrcAlphaSaturate: gputypes.BlendFactorSrcAlphaSaturated,
}

func factor(f vg.BlendFactor) gputypes.BlendFactor {
	if g, ok := blendFactors[f]; ok {
		return g
	}
	return gputypes.BlendFactorUndefined
}

// BlendState converts a composite state. Unknown factors fall back to
// premultiplied source-over.
func BlendState(op vg.CompositeOpState) gputypes.BlendState {
	bs := gputypes.BlendState{
		Color: gputypes.BlendComponent{SrcFactor: factor(op.SrcRGB), DstFactor: factor(op.DstRGB), Operation: gputypes.BlendOperationAdd},
		Alpha: gputypes.BlendComponent{SrcFactor: factor(op.SrcAlpha), DstFactor: factor(op.DstAlpha), Operation: gputypes.BlendOperationAdd},
	}
	for _, f := range []gputypes.BlendFactor{bs.Color.SrcFactor, bs.Color.DstFactor, bs.Alpha.SrcFactor, bs.Alpha.DstFactor} {
		if f == gputypes.BlendFactorUndefined {
			return gputypes.BlendStatePremultiplied()
		}
	}
	return bs
}

// TextureFormat returns the GPU format of a vg texture type.
func TextureFormat(typ vg.TextureType) gputypes.TextureFormat {
	if typ == vg.TextureAlpha {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// Sampler returns the sampler for a texture created with flags.
func Sampler(flags vg.ImageFlags) gputypes.SamplerDescriptor {
	sd := gputypes.LinearSamplerDescriptor()
	if flags&vg.ImageNearest != 0 {
		sd.MagFilter = gputypes.FilterModeNearest
		sd.MinFilter = gputypes.FilterModeNearest
	}
	if flags&vg.ImageGenerateMipmaps == 0 {
		sd.MipmapFilter = gputypes.MipmapFilterModeNearest
		sd.LodMaxClamp = 0
	}
	if flags&vg.ImageRepeatX != 0 {
		sd.AddressModeU = gputypes.AddressModeRepeat
	}
	if flags&vg.ImageRepeatY != 0 {
		sd.AddressModeV = gputypes.AddressModeRepeat
	}
	return sd
}
