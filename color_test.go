package vg

import (
	"image/color"
	"testing"
)

func TestRGBARoundTrip(t *testing.T) {
	for _, v := range []uint8{0, 1, 17, 127, 128, 200, 254, 255} {
		c := RGBA(v, 255-v, v/2, v)
		f := RGBAf(float32(v)/255, float32(255-v)/255, float32(v/2)/255, float32(v)/255)
		if absf(c.R-f.R) > 1.0/255 || absf(c.G-f.G) > 1.0/255 ||
			absf(c.B-f.B) > 1.0/255 || absf(c.A-f.A) > 1.0/255 {
			t.Errorf("RGBA(%d) = %+v, RGBAf = %+v", v, c, f)
		}
	}
}

func TestRGBDefaultsOpaque(t *testing.T) {
	if c := RGB(1, 2, 3); c.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", c.A)
	}
	if c := RGBf(0.1, 0.2, 0.3); c.A != 1 {
		t.Errorf("RGBf alpha = %v, want 1", c.A)
	}
}

func TestHSLA(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float32
		want    Color
	}{
		{"red", 0, 1, 0.5, RGBAf(1, 0, 0, 1)},
		{"green", 1.0 / 3.0, 1, 0.5, RGBAf(0, 1, 0, 1)},
		{"blue", 2.0 / 3.0, 1, 0.5, RGBAf(0, 0, 1, 1)},
		{"wrapped red", 1, 1, 0.5, RGBAf(1, 0, 0, 1)},
		{"negative hue", -2.0 / 3.0, 1, 0.5, RGBAf(0, 1, 0, 1)},
		{"grey", 0.4, 0, 0.5, RGBAf(0.5, 0.5, 0.5, 1)},
		{"white", 0, 1, 1, RGBAf(1, 1, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSL(tt.h, tt.s, tt.l)
			if !nearly(got.R, tt.want.R) || !nearly(got.G, tt.want.G) ||
				!nearly(got.B, tt.want.B) || got.A != tt.want.A {
				t.Errorf("HSL(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
	if c := HSLA(0, 1, 0.5, 51); !nearly(c.A, 0.2) {
		t.Errorf("HSLA alpha = %v, want 0.2", c.A)
	}
}

func TestLerpAndTrans(t *testing.T) {
	a, b := RGBAf(0, 0, 0, 0), RGBAf(1, 1, 1, 1)
	if c := LerpRGBA(a, b, 0.25); !nearly(c.R, 0.25) || !nearly(c.A, 0.25) {
		t.Errorf("LerpRGBA(0.25) = %+v", c)
	}
	if c := LerpRGBA(a, b, 2); c != b {
		t.Errorf("LerpRGBA clamps u, got %+v", c)
	}
	if c := TransRGBA(b, 0); c.A != 0 || c.R != 1 {
		t.Errorf("TransRGBA = %+v", c)
	}
	if c := TransRGBAf(b, 0.5); c.A != 0.5 {
		t.Errorf("TransRGBAf = %+v", c)
	}
}

func TestColorImplementsImageColor(t *testing.T) {
	var c color.Color = RGBAf(1, 0, 0, 0.5)
	r, g, _, a := c.RGBA()
	if r != 0x8000 || g != 0 || a != 0x8000 {
		t.Errorf("RGBA() = %x %x %x, want premultiplied half red", r, g, a)
	}
}
