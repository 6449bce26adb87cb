package vg

import "math"

const math32Pi = math.Pi

// Transform is a 2D affine transformation stored as [a b c d e f]:
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// A point is mapped as
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Transform [6]float32

// TransformIdentity returns the identity transformation.
func TransformIdentity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

// TransformTranslate returns a translation by (tx, ty).
func TransformTranslate(tx, ty float32) Transform {
	return Transform{1, 0, 0, 1, tx, ty}
}

// TransformScale returns a scale by (sx, sy).
func TransformScale(sx, sy float32) Transform {
	return Transform{sx, 0, 0, sy, 0, 0}
}

// TransformRotate returns a rotation by a radians.
func TransformRotate(a float32) Transform {
	cs, sn := cosf(a), sinf(a)
	return Transform{cs, sn, -sn, cs, 0, 0}
}

// TransformSkewX returns a skew along the x axis by a radians.
func TransformSkewX(a float32) Transform {
	return Transform{1, 0, tanf(a), 1, 0, 0}
}

// TransformSkewY returns a skew along the y axis by a radians.
func TransformSkewY(a float32) Transform {
	return Transform{1, tanf(a), 0, 1, 0, 0}
}

// Multiply sets t to the composition that maps a point by t first and
// then by s.
func (t *Transform) Multiply(s Transform) {
	t0 := t[0]*s[0] + t[1]*s[2]
	t2 := t[2]*s[0] + t[3]*s[2]
	t4 := t[4]*s[0] + t[5]*s[2] + s[4]
	t[1] = t[0]*s[1] + t[1]*s[3]
	t[3] = t[2]*s[1] + t[3]*s[3]
	t[5] = t[4]*s[1] + t[5]*s[3] + s[5]
	t[0] = t0
	t[2] = t2
	t[4] = t4
}

// Premultiply sets t to the composition that maps a point by s first and
// then by t. This is how the Context applies new transforms onto the
// current one.
func (t *Transform) Premultiply(s Transform) {
	s2 := s
	s2.Multiply(*t)
	*t = s2
}

// Inverse returns the inverse of t. ok is false when t is singular, in
// which case the returned transform is the identity.
func (t Transform) Inverse() (inv Transform, ok bool) {
	inv = TransformIdentity()
	ok = t.InverseInto(&inv)
	return inv, ok
}

// InverseInto writes the inverse of t to dst. It reports false and leaves
// dst untouched when the determinant is too close to zero.
func (t Transform) InverseInto(dst *Transform) bool {
	det := float64(t[0])*float64(t[3]) - float64(t[2])*float64(t[1])
	if det > -1e-6 && det < 1e-6 {
		return false
	}
	invdet := 1.0 / det
	dst[0] = float32(float64(t[3]) * invdet)
	dst[2] = float32(float64(-t[2]) * invdet)
	dst[4] = float32((float64(t[2])*float64(t[5]) - float64(t[3])*float64(t[4])) * invdet)
	dst[1] = float32(float64(-t[1]) * invdet)
	dst[3] = float32(float64(t[0]) * invdet)
	dst[5] = float32((float64(t[1])*float64(t[4]) - float64(t[0])*float64(t[5])) * invdet)
	return true
}

// Point applies t to the point (x, y).
func (t Transform) Point(x, y float32) (float32, float32) {
	return x*t[0] + y*t[2] + t[4], x*t[1] + y*t[3] + t[5]
}

// AverageScale returns the mean of the x and y scale factors of t.
func (t Transform) AverageScale() float32 {
	sx := sqrtf(t[0]*t[0] + t[2]*t[2])
	sy := sqrtf(t[1]*t[1] + t[3]*t[3])
	return (sx + sy) * 0.5
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg / 180 * math.Pi
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad / math.Pi * 180
}

func sqrtf(a float32) float32 { return float32(math.Sqrt(float64(a))) }
func sinf(a float32) float32  { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32  { return float32(math.Cos(float64(a))) }
func tanf(a float32) float32  { return float32(math.Tan(float64(a))) }
func acosf(a float32) float32 { return float32(math.Acos(float64(a))) }
func atan2f(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
func absf(a float32) float32 { return float32(math.Abs(float64(a))) }
func floorf(a float32) float32 {
	return float32(math.Floor(float64(a)))
}
func ceilf(a float32) float32 { return float32(math.Ceil(float64(a))) }

func clampf(a, lo, hi float32) float32 {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

func signf(a float32) float32 {
	if a >= 0 {
		return 1
	}
	return -1
}

func cross(dx0, dy0, dx1, dy1 float32) float32 { return dx1*dy0 - dx0*dy1 }

// normalize scales (x, y) to unit length and returns the original length.
func normalize(x, y *float32) float32 {
	d := sqrtf(*x**x + *y**y)
	if d > 1e-6 {
		id := 1.0 / d
		*x *= id
		*y *= id
	}
	return d
}
