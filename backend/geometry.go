package backend

import (
	"math"

	"github.com/gogpu/vg"
)

// Backends that compute coverage analytically, instead of blending the
// fringe strips a context emits, recover the exact outlines with these.

// FillOutline recovers the path outline from an antialiasing fringe.
// The fill fan is inset by half the fringe; the true edge lies on each
// (inner, outer) pair where the fringe coordinate u reaches 0.75.
func FillOutline(strip []vg.Vertex) []vg.Vertex {
	out := make([]vg.Vertex, 0, len(strip)/2)
	for i := 0; i+1 < len(strip); i += 2 {
		l, r := strip[i], strip[i+1]
		t := float32(0.5)
		if r.U != l.U {
			t = (r.U - 0.75) / (r.U - l.U)
		}
		out = append(out, vg.Vertex{X: r.X + (l.X-r.X)*t, Y: r.Y + (l.Y-r.Y)*t})
	}
	return out
}

// NarrowStrip undoes the antialiasing widening of a stroke strip whose
// edges lie halfWidth from the centreline, halfWidth including the half
// fringe inset. Strips are emitted as (left, right) pairs. A pair is
// scaled towards its midpoint by (halfWidth-inset)/halfWidth, which keeps
// miter corners on their diagonal. Pairs around a round join or cap centre
// (u = 0.5) pull the rim vertex towards the centre instead. Butt and
// square cap pairs (v = 0) are then pulled back by inset along the stroke.
func NarrowStrip(strip []vg.Vertex, halfWidth, inset float32) []vg.Vertex {
	out := append([]vg.Vertex(nil), strip...)
	if inset <= 0 || halfWidth <= 0 {
		return out
	}
	k := min(inset/halfWidth, 1)
	for i := 0; i+1 < len(out); i += 2 {
		a, b := &out[i], &out[i+1]
		switch {
		case a.U == 0.5 && b.U == 0.5:
		case a.U == 0.5:
			b.X, b.Y = b.X+(a.X-b.X)*k, b.Y+(a.Y-b.Y)*k
		case b.U == 0.5:
			a.X, a.Y = a.X+(b.X-a.X)*k, a.Y+(b.Y-a.Y)*k
		default:
			mx, my := (a.X+b.X)*0.5, (a.Y+b.Y)*0.5
			a.X, a.Y = a.X+(mx-a.X)*k, a.Y+(my-a.Y)*k
			b.X, b.Y = b.X+(mx-b.X)*k, b.Y+(my-b.Y)*k
		}
	}
	last := len(out) - len(out)%2 - 2
	for i := 0; i+1 < len(out); i += 2 {
		if out[i].V != 0 || out[i+1].V != 0 {
			continue
		}
		n := i + 2
		if i == last {
			n = i - 2
		}
		if n < 0 || n+1 >= len(out) {
			continue
		}
		pull(&out[i], out[n], inset)
		pull(&out[i+1], out[n+1], inset)
	}
	return out
}

// pull moves v towards to by at most d.
func pull(v *vg.Vertex, to vg.Vertex, d float32) {
	dx, dy := to.X-v.X, to.Y-v.Y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	k := min(d, l) / l
	v.X, v.Y = v.X+dx*k, v.Y+dy*k
}
