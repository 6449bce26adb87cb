package vg

// BlendFactor is a source or destination blend coefficient.
type BlendFactor int

const (
	BlendZero BlendFactor = 1 << iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturate
)

// CompositeOperation is a named Porter-Duff operator.
type CompositeOperation int

const (
	SourceOver CompositeOperation = iota
	SourceIn
	SourceOut
	Atop
	DestinationOver
	DestinationIn
	DestinationOut
	DestinationAtop
	Lighter
	Copy
	Xor
)

// CompositeOpState holds separate color and alpha blend factors for
// premultiplied source and destination colors.
type CompositeOpState struct {
	SrcRGB   BlendFactor
	DstRGB   BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

var compositeFactors = [...][2]BlendFactor{
	SourceOver:      {BlendOne, BlendOneMinusSrcAlpha},
	SourceIn:        {BlendDstAlpha, BlendZero},
	SourceOut:       {BlendOneMinusDstAlpha, BlendZero},
	Atop:            {BlendDstAlpha, BlendOneMinusSrcAlpha},
	DestinationOver: {BlendOneMinusDstAlpha, BlendOne},
	DestinationIn:   {BlendZero, BlendSrcAlpha},
	DestinationOut:  {BlendZero, BlendOneMinusSrcAlpha},
	DestinationAtop: {BlendOneMinusDstAlpha, BlendSrcAlpha},
	Lighter:         {BlendOne, BlendOne},
	Copy:            {BlendOne, BlendZero},
	Xor:             {BlendOneMinusDstAlpha, BlendOneMinusSrcAlpha},
}

// CompositeOp returns the blend state of a named operation. Unknown
// operations fall back to SourceOver.
func CompositeOp(op CompositeOperation) CompositeOpState {
	if op < 0 || int(op) >= len(compositeFactors) {
		op = SourceOver
	}
	f := compositeFactors[op]
	return CompositeOpState{SrcRGB: f[0], DstRGB: f[1], SrcAlpha: f[0], DstAlpha: f[1]}
}

// GlobalCompositeOperation sets the composite operation of later draws.
func (c *Context) GlobalCompositeOperation(op CompositeOperation) {
	c.state().compositeOp = CompositeOp(op)
}

// GlobalCompositeBlendFunc sets the same blend factors for color and alpha.
func (c *Context) GlobalCompositeBlendFunc(src, dst BlendFactor) {
	c.GlobalCompositeBlendFuncSeparate(src, dst, src, dst)
}

// GlobalCompositeBlendFuncSeparate sets separate color and alpha factors.
func (c *Context) GlobalCompositeBlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor) {
	c.state().compositeOp = CompositeOpState{
		SrcRGB:   srcRGB,
		DstRGB:   dstRGB,
		SrcAlpha: srcAlpha,
		DstAlpha: dstAlpha,
	}
}
