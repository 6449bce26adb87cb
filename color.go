package vg

import "math"

// Color is a non-premultiplied RGBA color with components in [0, 1].
// Backends premultiply at blend time.
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// RGBf returns an opaque color from float channels.
func RGBf(r, g, b float32) Color {
	return RGBAf(r, g, b, 1)
}

// RGBA returns a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// RGBAf returns a color from float channels.
func RGBAf(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// TransRGBA returns c with its alpha replaced by a/255.
func TransRGBA(c Color, a uint8) Color {
	c.A = float32(a) / 255
	return c
}

// TransRGBAf returns c with its alpha replaced by a.
func TransRGBAf(c Color, a float32) Color {
	c.A = a
	return c
}

// LerpRGBA linearly interpolates between c0 and c1. u is clamped to [0, 1].
func LerpRGBA(c0, c1 Color, u float32) Color {
	u = clampf(u, 0, 1)
	om := 1 - u
	return Color{
		R: c0.R*om + c1.R*u,
		G: c0.G*om + c1.G*u,
		B: c0.B*om + c1.B*u,
		A: c0.A*om + c1.A*u,
	}
}

// HSL returns an opaque color from hue, saturation and lightness in [0, 1].
func HSL(h, s, l float32) Color {
	return HSLA(h, s, l, 255)
}

// HSLA returns a color from hue, saturation and lightness in [0, 1] and
// an 8-bit alpha. Hue wraps around.
func HSLA(h, s, l float32, a uint8) Color {
	h = float32(math.Mod(float64(h), 1))
	if h < 0 {
		h++
	}
	s = clampf(s, 0, 1)
	l = clampf(l, 0, 1)
	var m2 float32
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return Color{
		R: clampf(hue(h+1.0/3.0, m1, m2), 0, 1),
		G: clampf(hue(h, m1, m2), 0, 1),
		B: clampf(hue(h-1.0/3.0, m1, m2), 0, 1),
		A: float32(a) / 255,
	}
}

func hue(h, m1, m2 float32) float32 {
	if h < 0 {
		h++
	}
	if h > 1 {
		h--
	}
	switch {
	case h < 1.0/6.0:
		return m1 + (m2-m1)*h*6
	case h < 3.0/6.0:
		return m2
	case h < 4.0/6.0:
		return m1 + (m2-m1)*(2.0/3.0-h)*6
	}
	return m1
}

// Premultiplied returns the color with RGB scaled by alpha.
func (c Color) Premultiplied() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// RGBA implements image/color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	p := c.Premultiplied()
	return to16(p.R), to16(p.G), to16(p.B), to16(p.A)
}

func to16(v float32) uint32 {
	return uint32(clampf(v, 0, 1)*0xffff + 0.5)
}
