package ebiten

import (
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
	"github.com/hajimehoshi/ebiten/v2"
)

func vertex(v vg.Vertex, ratio float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: v.X * ratio, DstY: v.Y * ratio,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

// appendFill emits every path outline as a triangle fan. Under the
// non-zero rule the fans of holes cancel their enclosing solids.
func appendFill(vs []ebiten.Vertex, is []uint16, paths []vg.Path, fringe, ratio float32) ([]ebiten.Vertex, []uint16) {
	for _, p := range paths {
		outline := p.Fill
		if fringe > 0 && len(p.Stroke) >= 6 {
			outline = backend.FillOutline(p.Stroke)
		}
		if len(outline) < 3 {
			continue
		}
		base := uint16(len(vs))
		for _, v := range outline {
			vs = append(vs, vertex(v, ratio))
		}
		for i := 1; i+1 < len(outline); i++ {
			is = append(is, base, base+uint16(i), base+uint16(i+1))
		}
	}
	return vs, is
}

// appendStroke emits the stroke strips as triangles all wound the same
// way, so that overlapping parts of a stroke cover once.
func appendStroke(vs []ebiten.Vertex, is []uint16, paths []vg.Path, strokeWidth, fringe, ratio float32) ([]ebiten.Vertex, []uint16) {
	for _, p := range paths {
		if len(p.Stroke) < 3 {
			continue
		}
		strip := backend.NarrowStrip(p.Stroke, (strokeWidth+fringe)*0.5, fringe*0.5)
		base := uint16(len(vs))
		for _, v := range strip {
			vs = append(vs, vertex(v, ratio))
		}
		for i := 0; i+2 < len(strip); i++ {
			a, b, c := strip[i], strip[i+1], strip[i+2]
			cross := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
			switch {
			case cross > 0:
				is = append(is, base+uint16(i), base+uint16(i+1), base+uint16(i+2))
			case cross < 0:
				is = append(is, base+uint16(i), base+uint16(i+2), base+uint16(i+1))
			}
		}
	}
	return vs, is
}

// appendTriangles emits a triangle list with texture coordinates scaled to
// a tw*th source image.
func appendTriangles(vs []ebiten.Vertex, is []uint16, verts []vg.Vertex, ratio, tw, th float32) ([]ebiten.Vertex, []uint16) {
	n := len(verts) / 3 * 3
	base := uint16(len(vs))
	for i, v := range verts[:n] {
		ev := vertex(v, ratio)
		ev.SrcX, ev.SrcY = v.U*tw, v.V*th
		vs = append(vs, ev)
		is = append(is, base+uint16(i))
	}
	return vs, is
}

func color4(c vg.Color) []float32 {
	p := c.Premultiplied()
	return []float32{p.R, p.G, p.B, p.A}
}

func boolf(v bool) float32 {
	if v {
		return 1
	}
	return 0
}

// uniforms returns the shader uniforms for c. Transforms are passed
// inverted, as rows mapping logical positions into paint and scissor
// space.
func uniforms(c *call, tex *texture, ratio float32) map[string]any {
	p := &c.paint
	inv, _ := p.Xform.Inverse()
	u := map[string]any{
		"Mode":     float32(0),
		"Ratio":    ratio,
		"PaintX":   []float32{inv[0], inv[2], inv[4]},
		"PaintY":   []float32{inv[1], inv[3], inv[5]},
		"Extent":   []float32{p.Extent[0], p.Extent[1]},
		"Radius":   p.Radius,
		"Feather":  max(p.Feather, 1e-4),
		"InnerCol": color4(p.InnerColor),
		"OuterCol": color4(p.OuterColor),
	}
	switch {
	case c.kind == callTriangles:
		u["Mode"] = float32(2)
		if tex == nil {
			u["Mode"] = float32(0)
		}
	case tex != nil:
		u["Mode"] = float32(1)
		u["TexSize"] = []float32{float32(tex.w), float32(tex.h)}
		u["Repeat"] = []float32{boolf(tex.flags&vg.ImageRepeatX != 0), boolf(tex.flags&vg.ImageRepeatY != 0)}
		u["FlipY"] = boolf(tex.flags&vg.ImageFlipY != 0)
		u["Nearest"] = boolf(tex.flags&vg.ImageNearest != 0)
	}

	// A disabled scissor maps everything to the origin of a unit box.
	u["ScissorX"] = []float32{0, 0, 0}
	u["ScissorY"] = []float32{0, 0, 0}
	u["ScissorExt"] = []float32{1, 1}
	u["ScissorScale"] = []float32{1, 1}
	if sc := c.scissor; sc.Enabled() {
		sinv, _ := sc.Xform.Inverse()
		fringe := c.fringe
		if fringe <= 0 {
			fringe = 1
		}
		u["ScissorX"] = []float32{sinv[0], sinv[2], sinv[4]}
		u["ScissorY"] = []float32{sinv[1], sinv[3], sinv[5]}
		u["ScissorExt"] = []float32{sc.Extent[0], sc.Extent[1]}
		u["ScissorScale"] = []float32{
			float32(math.Hypot(float64(sc.Xform[0]), float64(sc.Xform[2]))) / fringe,
			float32(math.Hypot(float64(sc.Xform[1]), float64(sc.Xform[3]))) / fringe,
		}
	}
	return u
}

var blendFactors = map[vg.BlendFactor]ebiten.BlendFactor{
	vg.BlendZero:             ebiten.BlendFactorZero,
	vg.BlendOne:              ebiten.BlendFactorOne,
	vg.BlendSrcColor:         ebiten.BlendFactorSourceColor,
	vg.BlendOneMinusSrcColor: ebiten.BlendFactorOneMinusSourceColor,
	vg.BlendDstColor:         ebiten.BlendFactorDestinationColor,
	vg.BlendOneMinusDstColor: ebiten.BlendFactorOneMinusDestinationColor,
	vg.BlendSrcAlpha:         ebiten.BlendFactorSourceAlpha,
	vg.BlendOneMinusSrcAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	vg.BlendDstAlpha:         ebiten.BlendFactorDestinationAlpha,
	vg.BlendOneMinusDstAlpha: ebiten.BlendFactorOneMinusDestinationAlpha,
}

// factor maps f for color (alpha false) or alpha blending. Ebiten has no
// saturate factor; min(As, 1-Ad) is approximated by 1-Ad, exact for
// opaque sources.
func factor(f vg.BlendFactor, alpha bool) ebiten.BlendFactor {
	if f == vg.BlendSrcAlphaSaturate {
		if alpha {
			return ebiten.BlendFactorOne
		}
		return ebiten.BlendFactorOneMinusDestinationAlpha
	}
	if ef, ok := blendFactors[f]; ok {
		return ef
	}
	return ebiten.BlendFactorZero
}

func blendOf(op vg.CompositeOpState) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        factor(op.SrcRGB, false),
		BlendFactorSourceAlpha:      factor(op.SrcAlpha, true),
		BlendFactorDestinationRGB:   factor(op.DstRGB, false),
		BlendFactorDestinationAlpha: factor(op.DstAlpha, true),
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

// premultiplied converts n texels of data to the premultiplied RGBA8
// ebiten uploads. Alpha textures spread coverage over all channels.
func premultiplied(typ vg.TextureType, flags vg.ImageFlags, data []byte, n int) []byte {
	out := make([]byte, 4*n)
	if typ == vg.TextureAlpha {
		for i := 0; i < n && i < len(data); i++ {
			a := data[i]
			out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = a, a, a, a
		}
		return out
	}
	copy(out, data)
	if flags&vg.ImagePremultiplied != 0 {
		return out
	}
	for i := 0; i+3 < len(out); i += 4 {
		a := uint32(out[i+3])
		out[i] = uint8((uint32(out[i])*a + 127) / 255)
		out[i+1] = uint8((uint32(out[i+1])*a + 127) / 255)
		out[i+2] = uint8((uint32(out[i+2])*a + 127) / 255)
	}
	return out
}

// cropRegion copies the (x, y, w, h) region out of a full texture with
// the given row stride. It returns nil when data is too short.
func cropRegion(data []byte, stride, bpp, x, y, w, h int) []byte {
	if len(data) < stride*(y+h) {
		return nil
	}
	out := make([]byte, 0, w*h*bpp)
	for row := y; row < y+h; row++ {
		off := row*stride + x*bpp
		out = append(out, data[off:off+w*bpp]...)
	}
	return out
}
