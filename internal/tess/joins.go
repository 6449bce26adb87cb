package tess

// calculateJoins computes per-point extrusion vectors and classifies
// corners as left turns, bevels or inner bevels.
func (t *Tessellator) calculateJoins(w float32, join Join, miterLimit float32) {
	var iw float32
	if w > 0 {
		iw = 1.0 / w
	}

	for i := range t.paths {
		path := &t.paths[i]
		pts := t.points[path.first : path.first+path.count]
		path.NBevel = 0
		if len(pts) == 0 {
			continue
		}
		nleft := 0
		p0 := &pts[len(pts)-1]
		for j := range pts {
			p1 := &pts[j]
			dlx0, dly0 := p0.dy, -p0.dx
			dlx1, dly1 := p1.dy, -p1.dx

			p1.dmx = (dlx0 + dlx1) * 0.5
			p1.dmy = (dly0 + dly1) * 0.5
			dmr2 := p1.dmx*p1.dmx + p1.dmy*p1.dmy
			if dmr2 > 0.000001 {
				scale := min(1.0/dmr2, 600)
				p1.dmx *= scale
				p1.dmy *= scale
			}

			p1.flags &= ptCorner

			if cross := p1.dx*p0.dy - p0.dx*p1.dy; cross > 0 {
				nleft++
				p1.flags |= ptLeft
			}

			limit := max(1.01, min(p0.len, p1.len)*iw)
			if dmr2*limit*limit < 1 {
				p1.flags |= ptInnerBevel
			}

			if p1.flags&ptCorner != 0 {
				if dmr2*miterLimit*miterLimit < 1 || join == JoinBevel || join == JoinRound {
					p1.flags |= ptBevel
				}
			}

			if p1.flags&(ptBevel|ptInnerBevel) != 0 {
				path.NBevel++
			}
			p0 = p1
		}
		path.Convex = nleft == len(pts)
	}
}

func chooseBevel(bevel bool, p0, p1 *point, w float32) (x0, y0, x1, y1 float32) {
	if bevel {
		return p1.x + p0.dy*w, p1.y - p0.dx*w, p1.x + p1.dy*w, p1.y - p1.dx*w
	}
	x0, y0 = p1.x+p1.dmx*w, p1.y+p1.dmy*w
	return x0, y0, x0, y0
}

func (t *Tessellator) bevelJoin(p0, p1 *point, lw, rw, lu, ru float32) {
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx

	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := chooseBevel(p1.flags&ptInnerBevel != 0, p0, p1, lw)

		t.vset(lx0, ly0, lu, 1)
		t.vset(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

		if p1.flags&ptBevel != 0 {
			t.vset(lx0, ly0, lu, 1)
			t.vset(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			t.vset(lx1, ly1, lu, 1)
			t.vset(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		} else {
			rx0, ry0 := p1.x-p1.dmx*rw, p1.y-p1.dmy*rw

			t.vset(p1.x, p1.y, 0.5, 1)
			t.vset(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			t.vset(rx0, ry0, ru, 1)
			t.vset(rx0, ry0, ru, 1)

			t.vset(p1.x, p1.y, 0.5, 1)
			t.vset(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		}

		t.vset(lx1, ly1, lu, 1)
		t.vset(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		return
	}

	rx0, ry0, rx1, ry1 := chooseBevel(p1.flags&ptInnerBevel != 0, p0, p1, -rw)

	t.vset(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
	t.vset(rx0, ry0, ru, 1)

	if p1.flags&ptBevel != 0 {
		t.vset(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
		t.vset(rx0, ry0, ru, 1)

		t.vset(p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
		t.vset(rx1, ry1, ru, 1)
	} else {
		lx0, ly0 := p1.x+p1.dmx*lw, p1.y+p1.dmy*lw

		t.vset(p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
		t.vset(p1.x, p1.y, 0.5, 1)

		t.vset(lx0, ly0, lu, 1)
		t.vset(lx0, ly0, lu, 1)

		t.vset(p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
		t.vset(p1.x, p1.y, 0.5, 1)
	}

	t.vset(p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
	t.vset(rx1, ry1, ru, 1)
}

func (t *Tessellator) roundJoin(p0, p1 *point, lw, rw, lu, ru float32, ncap int) {
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx

	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := chooseBevel(p1.flags&ptInnerBevel != 0, p0, p1, lw)
		a0 := atan2f(-dly0, -dlx0)
		a1 := atan2f(-dly1, -dlx1)
		if a1 > a0 {
			a1 -= pi * 2
		}

		t.vset(lx0, ly0, lu, 1)
		t.vset(p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

		n := clampi(int(ceilf((a0-a1)/pi*float32(ncap))), 2, ncap)
		for i := range n {
			u := float32(i) / float32(n-1)
			a := a0 + u*(a1-a0)
			rx, ry := p1.x+cosf(a)*rw, p1.y+sinf(a)*rw
			t.vset(p1.x, p1.y, 0.5, 1)
			t.vset(rx, ry, ru, 1)
		}

		t.vset(lx1, ly1, lu, 1)
		t.vset(p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		return
	}

	rx0, ry0, rx1, ry1 := chooseBevel(p1.flags&ptInnerBevel != 0, p0, p1, -rw)
	a0 := atan2f(dly0, dlx0)
	a1 := atan2f(dly1, dlx1)
	if a1 < a0 {
		a1 += pi * 2
	}

	t.vset(p1.x+dlx0*rw, p1.y+dly0*rw, lu, 1)
	t.vset(rx0, ry0, ru, 1)

	n := clampi(int(ceilf((a1-a0)/pi*float32(ncap))), 2, ncap)
	for i := range n {
		u := float32(i) / float32(n-1)
		a := a0 + u*(a1-a0)
		lx, ly := p1.x+cosf(a)*lw, p1.y+sinf(a)*lw
		t.vset(lx, ly, lu, 1)
		t.vset(p1.x, p1.y, 0.5, 1)
	}

	t.vset(p1.x+dlx1*rw, p1.y+dly1*rw, lu, 1)
	t.vset(rx1, ry1, ru, 1)
}

const pi = 3.14159265358979323846264338327

func clampi(a, lo, hi int) int {
	return max(lo, min(a, hi))
}
