package vg

func solidPaint(color Color) Paint {
	return Paint{
		Xform:      TransformIdentity(),
		Feather:    1,
		InnerColor: color,
		OuterColor: color,
	}
}

// LinearGradient returns a paint blending from icol at (sx, sy) to ocol at
// (ex, ey). Coordinates are in the user space active when the paint is
// set with FillPaint or StrokePaint.
func LinearGradient(sx, sy, ex, ey float32, icol, ocol Color) Paint {
	const large = 1e5

	dx, dy := ex-sx, ey-sy
	d := sqrtf(dx*dx + dy*dy)
	if d > 0.0001 {
		dx /= d
		dy /= d
	} else {
		dx, dy = 0, 1
	}

	return Paint{
		Xform:      Transform{dy, -dx, dx, dy, sx - dx*large, sy - dy*large},
		Extent:     [2]float32{large, large + d*0.5},
		Radius:     0,
		Feather:    max(1, d),
		InnerColor: icol,
		OuterColor: ocol,
	}
}

// RadialGradient returns a paint blending from icol at radius inr around
// (cx, cy) to ocol at radius outr.
func RadialGradient(cx, cy, inr, outr float32, icol, ocol Color) Paint {
	r := (inr + outr) * 0.5
	f := outr - inr
	return Paint{
		Xform:      TransformTranslate(cx, cy),
		Extent:     [2]float32{r, r},
		Radius:     r,
		Feather:    max(1, f),
		InnerColor: icol,
		OuterColor: ocol,
	}
}

// BoxGradient returns a paint shading a rounded rectangle with corner
// radius r: icol inside, ocol outside, blended over feather f. It is
// typically used for drop shadows.
func BoxGradient(x, y, w, h, r, f float32, icol, ocol Color) Paint {
	return Paint{
		Xform:      TransformTranslate(x+w*0.5, y+h*0.5),
		Extent:     [2]float32{w * 0.5, h * 0.5},
		Radius:     r,
		Feather:    max(1, f),
		InnerColor: icol,
		OuterColor: ocol,
	}
}

// ImagePattern returns a paint tiling image with its top-left corner at
// (ox, oy), tile size (ex, ey), rotated by angle radians around the
// corner. Repetition follows the image's ImageRepeatX/Y flags.
func ImagePattern(ox, oy, ex, ey, angle float32, image int, alpha float32) Paint {
	p := Paint{
		Xform:   TransformRotate(angle),
		Extent:  [2]float32{ex, ey},
		Image:   image,
		Feather: 0,
	}
	p.Xform[4], p.Xform[5] = ox, oy
	p.InnerColor = RGBAf(1, 1, 1, alpha)
	p.OuterColor = p.InnerColor
	return p
}

// IsSolid reports whether p is a plain color.
func (p Paint) IsSolid() bool {
	return p.Image == 0 && p.InnerColor == p.OuterColor && p.Radius == 0
}

func (p *Paint) scaleAlpha(a float32) {
	p.InnerColor.A *= a
	p.OuterColor.A *= a
}
