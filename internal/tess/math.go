package tess

import "math"

func absf(a float32) float32  { return float32(math.Abs(float64(a))) }
func sqrtf(a float32) float32 { return float32(math.Sqrt(float64(a))) }
func sinf(a float32) float32  { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32  { return float32(math.Cos(float64(a))) }
func acosf(a float32) float32 { return float32(math.Acos(float64(a))) }
func ceilf(a float32) float32 { return float32(math.Ceil(float64(a))) }
func atan2f(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

func normalize(x, y *float32) float32 {
	d := sqrtf(*x**x + *y**y)
	if d > 1e-6 {
		id := 1.0 / d
		*x *= id
		*y *= id
	}
	return d
}

func ptEquals(x1, y1, x2, y2, tol float32) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy < tol*tol
}

func triarea2(ax, ay, bx, by, cx, cy float32) float32 {
	abx, aby := bx-ax, by-ay
	acx, acy := cx-ax, cy-ay
	return acx*aby - abx*acy
}

func polyArea(pts []point) float32 {
	var area float32
	for i := 2; i < len(pts); i++ {
		a, b, c := &pts[0], &pts[i-1], &pts[i]
		area += triarea2(a.x, a.y, b.x, b.y, c.x, c.y)
	}
	return area * 0.5
}

func polyReverse(pts []point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// CurveDivs returns the number of segments needed to approximate an arc of
// radius r spanning arc radians within tol.
func CurveDivs(r, arc, tol float32) int {
	da := acosf(r/(r+tol)) * 2
	return max(2, int(ceilf(arc/da)))
}
