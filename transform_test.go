package vg

import (
	"math"
	"testing"
)

const eps = 1e-4

func nearly(a, b float32) bool { return absf(a-b) < eps }

func transformNearly(a, b Transform) bool {
	for i := range a {
		if !nearly(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestTransformConstructors(t *testing.T) {
	tests := []struct {
		name   string
		m      Transform
		x, y   float32
		wx, wy float32
	}{
		{"identity", TransformIdentity(), 3, 4, 3, 4},
		{"translate", TransformTranslate(10, -5), 3, 4, 13, -1},
		{"scale", TransformScale(2, 3), 3, 4, 6, 12},
		{"rotate 90", TransformRotate(math.Pi / 2), 1, 0, 0, 1},
		{"rotate 180", TransformRotate(math.Pi), 1, 2, -1, -2},
		{"skew x 45", TransformSkewX(math.Pi / 4), 0, 1, 1, 1},
		{"skew y 45", TransformSkewY(math.Pi / 4), 1, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := tt.m.Point(tt.x, tt.y)
			if !nearly(gx, tt.wx) || !nearly(gy, tt.wy) {
				t.Errorf("Point(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, gx, gy, tt.wx, tt.wy)
			}
		})
	}
}

func TestTransformMultiplyOrder(t *testing.T) {
	// Multiply maps by the receiver first.
	m := TransformScale(2, 2)
	m.Multiply(TransformTranslate(10, 0))
	if x, y := m.Point(1, 1); !nearly(x, 12) || !nearly(y, 2) {
		t.Errorf("scale then translate: (%v, %v), want (12, 2)", x, y)
	}

	// Premultiply maps by the argument first.
	p := TransformScale(2, 2)
	p.Premultiply(TransformTranslate(10, 0))
	if x, y := p.Point(1, 1); !nearly(x, 22) || !nearly(y, 2) {
		t.Errorf("translate then scale: (%v, %v), want (22, 2)", x, y)
	}
}

func TestTransformInverse(t *testing.T) {
	tests := []struct {
		name string
		m    Transform
	}{
		{"translate", TransformTranslate(7, -3)},
		{"scale", TransformScale(4, 0.5)},
		{"rotate", TransformRotate(0.7)},
		{"skew", TransformSkewX(0.3)},
		{"composite", func() Transform {
			m := TransformRotate(1.1)
			m.Multiply(TransformScale(3, 2))
			m.Multiply(TransformTranslate(-20, 45))
			return m
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Inverse()
			if !ok {
				t.Fatal("Inverse() reported singular matrix")
			}
			m := tt.m
			m.Multiply(inv)
			if !transformNearly(m, TransformIdentity()) {
				t.Errorf("M * inverse(M) = %v, want identity", m)
			}
		})
	}
}

func TestTransformInverseSingular(t *testing.T) {
	singular := []Transform{
		TransformScale(0, 1),
		TransformScale(1e-7, 1e-7),
		{1, 2, 2, 4, 5, 6},
	}
	for _, m := range singular {
		dst := TransformTranslate(1, 2)
		if m.InverseInto(&dst) {
			t.Errorf("InverseInto(%v) succeeded, want failure", m)
		}
		if dst != TransformTranslate(1, 2) {
			t.Errorf("destination modified on failure: %v", dst)
		}
	}
}

func TestAngleConversion(t *testing.T) {
	if got := DegToRad(180); !nearly(got, math.Pi) {
		t.Errorf("DegToRad(180) = %v", got)
	}
	if got := RadToDeg(math.Pi / 2); !nearly(got, 90) {
		t.Errorf("RadToDeg(pi/2) = %v", got)
	}
}

func TestAverageScale(t *testing.T) {
	// Rotation applied before the scale, as Context.Scale then Rotate builds it.
	m := TransformScale(2, 4)
	m.Premultiply(TransformRotate(0.5))
	if got := m.AverageScale(); !nearly(got, 3) {
		t.Errorf("AverageScale() = %v, want 3", got)
	}
	if got := TransformScale(2, 4).AverageScale(); !nearly(got, 3) {
		t.Errorf("AverageScale(scale) = %v, want 3", got)
	}
}
