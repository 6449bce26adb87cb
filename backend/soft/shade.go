package soft

import (
	"image"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/internal/imageio"
)

type rgba [4]float32

func premul(c vg.Color) rgba {
	return rgba{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// shader evaluates one call's paint and scissor at a logical position.
type shader struct {
	paintMat   vg.Transform
	extent     [2]float32
	radius     float32
	feather    float32
	inner      rgba
	outer      rgba
	solid      bool
	tex        *texture
	level      int
	texts      bool // sample tex at vertex coordinates
	scissor    bool
	scissorMat vg.Transform
	scissorExt [2]float32
	scissorSc  [2]float32
}

func (b *Backend) newShader(c *call) *shader {
	p := &c.paint
	sh := &shader{
		extent:  p.Extent,
		radius:  p.Radius,
		feather: p.Feather,
		inner:   premul(p.InnerColor),
		outer:   premul(p.OuterColor),
		texts:   c.kind == callTriangles,
	}
	sh.paintMat, _ = p.Xform.Inverse()
	if p.Image != 0 {
		sh.tex = b.textures[p.Image]
	}
	sh.solid = sh.tex == nil && sh.inner == sh.outer
	if sh.tex != nil && !sh.texts && sh.tex.mips != nil && p.Extent[0] > 0 {
		// Texels covered by one device pixel along x.
		pxScale := sh.paintMat.AverageScale() / b.ratio
		texels := float64(pxScale * float32(sh.tex.w) / p.Extent[0])
		if texels > 1 {
			sh.level = min(int(math.Log2(texels)), len(sh.tex.mips)-1)
		}
	}

	if c.scissor.Enabled() {
		sc := c.scissor
		sh.scissor = true
		sh.scissorMat, _ = sc.Xform.Inverse()
		sh.scissorExt = sc.Extent
		fringe := c.fringe
		if fringe <= 0 {
			fringe = 1
		}
		sh.scissorSc = [2]float32{
			float32(math.Hypot(float64(sc.Xform[0]), float64(sc.Xform[2]))) / fringe,
			float32(math.Hypot(float64(sc.Xform[1]), float64(sc.Xform[3]))) / fringe,
		}
	}
	return sh
}

func (sh *shader) scissorMask(x, y float32) float32 {
	if !sh.scissor {
		return 1
	}
	px, py := sh.scissorMat.Point(x, y)
	sx := 0.5 - (absf(px)-sh.scissorExt[0])*sh.scissorSc[0]
	sy := 0.5 - (absf(py)-sh.scissorExt[1])*sh.scissorSc[1]
	return clamp01(sx) * clamp01(sy)
}

// color returns the premultiplied paint color at (x, y). u and v are the
// interpolated texture coordinates of triangle calls.
func (sh *shader) color(x, y, u, v float32) rgba {
	switch {
	case sh.texts:
		if sh.tex == nil {
			return sh.inner
		}
		return mul(sh.tex.sample(u, v, 0), sh.inner)
	case sh.tex != nil:
		px, py := sh.paintMat.Point(x, y)
		return mul(sh.tex.sample(px/sh.extent[0], py/sh.extent[1], sh.level), sh.inner)
	case sh.solid:
		return sh.inner
	}
	px, py := sh.paintMat.Point(x, y)
	d := clamp01((sdroundrect(px, py, sh.extent[0], sh.extent[1], sh.radius) + sh.feather*0.5) / sh.feather)
	return lerp(sh.inner, sh.outer, d)
}

// sdroundrect is the signed distance from (px, py) to a rounded
// rectangle centred on the origin.
func sdroundrect(px, py, ex, ey, r float32) float32 {
	dx := absf(px) - (ex - r)
	dy := absf(py) - (ey - r)
	outside := float32(math.Hypot(float64(max(dx, 0)), float64(max(dy, 0))))
	return min(max(dx, dy), 0) + outside - r
}

// sample returns the premultiplied texel at normalized (u, v) from mip
// level. Alpha textures yield their coverage in every channel.
func (t *texture) sample(u, v float32, level int) rgba {
	pix, w, h := t.pix, t.w, t.h
	if level > 0 {
		pix = t.mips[level]
		w, h = imageio.MipSize(t.w, t.h, level)
	}
	if t.flags&vg.ImageFlipY != 0 {
		v = 1 - v
	}
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5

	if t.flags&vg.ImageNearest != 0 {
		return t.texel(pix, w, h, int(math.Floor(float64(fx+0.5))), int(math.Floor(float64(fy+0.5))))
	}
	x0, y0 := int(math.Floor(float64(fx))), int(math.Floor(float64(fy)))
	ax, ay := fx-float32(x0), fy-float32(y0)
	c00 := t.texel(pix, w, h, x0, y0)
	c10 := t.texel(pix, w, h, x0+1, y0)
	c01 := t.texel(pix, w, h, x0, y0+1)
	c11 := t.texel(pix, w, h, x0+1, y0+1)
	return lerp(lerp(c00, c10, ax), lerp(c01, c11, ax), ay)
}

func (t *texture) texel(pix []byte, w, h, x, y int) rgba {
	x = wrap(x, w, t.flags&vg.ImageRepeatX != 0)
	y = wrap(y, h, t.flags&vg.ImageRepeatY != 0)
	if t.typ == vg.TextureAlpha {
		a := float32(pix[y*w+x]) / 255
		return rgba{a, a, a, a}
	}
	i := (y*w + x) * 4
	c := rgba{float32(pix[i]) / 255, float32(pix[i+1]) / 255, float32(pix[i+2]) / 255, float32(pix[i+3]) / 255}
	if t.flags&vg.ImagePremultiplied == 0 {
		c[0] *= c[3]
		c[1] *= c[3]
		c[2] *= c[3]
	}
	return c
}

func wrap(i, n int, repeat bool) int {
	if repeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return min(max(i, 0), n-1)
}

// shade blends the call's paint into the target wherever the mask for
// region r has coverage.
func (b *Backend) shade(c *call, r image.Rectangle) {
	sh := b.newShader(c)
	inv := 1 / b.ratio
	w := r.Dx()
	dst := b.dst
	for py := r.Min.Y; py < r.Max.Y; py++ {
		mrow := b.mask.Pix[(py-r.Min.Y)*b.mask.Stride:]
		for px := r.Min.X; px < r.Max.X; px++ {
			cov := mrow[px-r.Min.X]
			if cov == 0 {
				continue
			}
			x, y := (float32(px)+0.5)*inv, (float32(py)+0.5)*inv
			alpha := float32(cov) / 255 * sh.scissorMask(x, y)
			if alpha <= 0 {
				continue
			}
			var u, v float32
			if sh.texts {
				idx := (py-r.Min.Y)*w + (px - r.Min.X)
				u, v = b.uv[2*idx], b.uv[2*idx+1]
			}
			src := scale(sh.color(x, y, u, v), alpha)
			i := dst.PixOffset(px, py)
			blend(dst.Pix[i:i+4:i+4], src, c.op)
		}
	}
}

// blend composites premultiplied src onto the dst pixel with separate
// color and alpha factors.
func blend(px []byte, src rgba, op vg.CompositeOpState) {
	d := rgba{float32(px[0]) / 255, float32(px[1]) / 255, float32(px[2]) / 255, float32(px[3]) / 255}
	var out rgba
	for ch := range 3 {
		out[ch] = src[ch]*factor(op.SrcRGB, src, d, ch) + d[ch]*factor(op.DstRGB, src, d, ch)
	}
	out[3] = src[3]*factor(op.SrcAlpha, src, d, 3) + d[3]*factor(op.DstAlpha, src, d, 3)
	for ch := range 4 {
		px[ch] = uint8(clamp01(out[ch])*255 + 0.5)
	}
}

func factor(f vg.BlendFactor, s, d rgba, ch int) float32 {
	switch f {
	case vg.BlendZero:
		return 0
	case vg.BlendOne:
		return 1
	case vg.BlendSrcColor:
		return s[ch]
	case vg.BlendOneMinusSrcColor:
		return 1 - s[ch]
	case vg.BlendDstColor:
		return d[ch]
	case vg.BlendOneMinusDstColor:
		return 1 - d[ch]
	case vg.BlendSrcAlpha:
		return s[3]
	case vg.BlendOneMinusSrcAlpha:
		return 1 - s[3]
	case vg.BlendDstAlpha:
		return d[3]
	case vg.BlendOneMinusDstAlpha:
		return 1 - d[3]
	case vg.BlendSrcAlphaSaturate:
		if ch == 3 {
			return 1
		}
		return min(s[3], 1-d[3])
	}
	return 0
}

func mul(a, b rgba) rgba { return rgba{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]} }

func scale(a rgba, k float32) rgba { return rgba{a[0] * k, a[1] * k, a[2] * k, a[3] * k} }

func lerp(a, b rgba, t float32) rgba {
	return rgba{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

func clamp01(v float32) float32 { return min(max(v, 0), 1) }

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
