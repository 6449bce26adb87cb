package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/vg"
)

// UniformSize is the packed size of the fragment uniforms: eleven vec4
// rows in the layout of the Frag struct in vg.wgsl.
const UniformSize = 176

// UniformStride is the distance between uniform slots, the common
// minimum uniform buffer offset alignment.
const UniformStride = 256

const (
	kindGradient  = 0
	kindImage     = 1
	kindStencil   = 2
	kindTriangles = 3

	texPremultiplied = 0
	texStraight      = 1
	texAlpha         = 2
)

type fragUniforms struct {
	scissorMat   [12]float32 // mat3x3, columns padded to vec4
	paintMat     [12]float32
	innerCol     [4]float32
	outerCol     [4]float32
	scissorExt   [2]float32
	scissorScale [2]float32
	extent       [2]float32
	radius       float32
	feather      float32
	strokeMult   float32
	strokeThr    float32
	texType      float32
	kind         float32
}

func mat3(t vg.Transform) [12]float32 {
	return [12]float32{
		t[0], t[1], 0, 0,
		t[2], t[3], 0, 0,
		t[4], t[5], 1, 0,
	}
}

func premul(c vg.Color) [4]float32 {
	p := c.Premultiplied()
	return [4]float32{p.R, p.G, p.B, p.A}
}

// convertPaint fills the uniforms for drawing paint clipped by scissor.
// width is the stroke width, or the fringe for fills.
func (b *Backend) convertPaint(paint *vg.Paint, scissor *vg.Scissor, width, fringe, strokeThr float32) fragUniforms {
	var u fragUniforms
	u.innerCol = premul(paint.InnerColor)
	u.outerCol = premul(paint.OuterColor)

	if !scissor.Enabled() {
		u.scissorExt = [2]float32{1, 1}
		u.scissorScale = [2]float32{1, 1}
	} else {
		inv, _ := scissor.Xform.Inverse()
		u.scissorMat = mat3(inv)
		u.scissorExt = scissor.Extent
		x := scissor.Xform
		u.scissorScale = [2]float32{
			float32(math.Hypot(float64(x[0]), float64(x[2]))) / fringe,
			float32(math.Hypot(float64(x[1]), float64(x[3]))) / fringe,
		}
	}

	u.extent = paint.Extent
	u.strokeMult = (width*0.5 + fringe*0.5) / fringe
	u.strokeThr = strokeThr

	var inv vg.Transform
	if t, ok := b.textures[paint.Image]; ok && paint.Image != 0 {
		xf := paint.Xform
		if t.Flags&vg.ImageFlipY != 0 {
			m1 := vg.TransformTranslate(0, u.extent[1]*0.5)
			m1.Multiply(paint.Xform)
			m2 := vg.TransformScale(1, -1)
			m2.Multiply(m1)
			xf = vg.TransformTranslate(0, -u.extent[1]*0.5)
			xf.Multiply(m2)
		}
		inv, _ = xf.Inverse()
		u.kind = kindImage
		switch {
		case t.Type == vg.TextureAlpha:
			u.texType = texAlpha
		case t.Flags&vg.ImagePremultiplied != 0:
			u.texType = texPremultiplied
		default:
			u.texType = texStraight
		}
	} else {
		inv, _ = paint.Xform.Inverse()
		u.kind = kindGradient
		u.radius = paint.Radius
		u.feather = paint.Feather
	}
	u.paintMat = mat3(inv)
	return u
}

// appendUniforms packs u little-endian into the next UniformStride slot
// and returns the slot's byte offset.
func appendUniforms(dst []byte, u *fragUniforms) ([]byte, int) {
	off := len(dst)
	dst = append(dst, make([]byte, UniformStride)...)
	w := dst[off:]
	put := func(vs ...float32) {
		for _, v := range vs {
			binary.LittleEndian.PutUint32(w, math.Float32bits(v))
			w = w[4:]
		}
	}
	put(u.scissorMat[:]...)
	put(u.paintMat[:]...)
	put(u.innerCol[:]...)
	put(u.outerCol[:]...)
	put(u.scissorExt[:]...)
	put(u.scissorScale[:]...)
	put(u.extent[:]...)
	put(u.radius, u.feather, u.strokeMult, u.strokeThr, u.texType, u.kind)
	return dst, off
}

// UniformAt decodes the float at index i of the slot at off, for
// inspecting a Frame.
func UniformAt(uniforms []byte, off, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(uniforms[off+4*i:]))
}
