package tess

// ExpandStroke widens every subpath into a ribbon of half-width w.
// fringe is the antialiasing width, zero when antialiasing is off.
func (t *Tessellator) ExpandStroke(w, fringe float32, lineCap Cap, join Join, miterLimit float32) []Path {
	aa := fringe
	var u0, u1 float32 = 0, 1
	ncap := CurveDivs(w, pi, t.TessTol)

	w += aa * 0.5

	// Without antialiasing the shader ramp is disabled.
	if aa == 0 {
		u0, u1 = 0.5, 0.5
	}

	t.calculateJoins(w, join, miterLimit)

	cverts := 0
	for _, p := range t.paths {
		if join == JoinRound {
			cverts += (p.count + p.NBevel*(ncap+2) + 1) * 2
		} else {
			cverts += (p.count + p.NBevel*5 + 1) * 2
		}
		if !p.Closed {
			if lineCap == CapRound {
				cverts += (ncap*2 + 2) * 2
			} else {
				cverts += (3 + 3) * 2
			}
		}
	}
	t.verts = t.verts[:0]
	if cap(t.verts) < cverts {
		t.verts = make([]Vertex, 0, cverts)
	}

	for i := range t.paths {
		path := &t.paths[i]
		pts := t.points[path.first : path.first+path.count]
		path.fillStart, path.fillEnd = len(t.verts), len(t.verts)
		path.strokeStart = len(t.verts)
		path.strokeEnd = len(t.verts)
		if len(pts) < 2 {
			continue
		}

		loop := path.Closed
		var p0, p1 *point
		var s, e int
		if loop {
			p0, p1 = &pts[len(pts)-1], &pts[0]
			s, e = 0, len(pts)
		} else {
			p0, p1 = &pts[0], &pts[1]
			s, e = 1, len(pts)-1
		}

		if !loop {
			dx, dy := p1.x-p0.x, p1.y-p0.y
			normalize(&dx, &dy)
			switch lineCap {
			case CapButt:
				t.buttCapStart(p0, dx, dy, w, -aa*0.5, aa, u0, u1)
			case CapSquare:
				t.buttCapStart(p0, dx, dy, w, w-aa, aa, u0, u1)
			case CapRound:
				t.roundCapStart(p0, dx, dy, w, ncap, u0, u1)
			}
		}

		for j := s; j < e; j++ {
			if p1.flags&(ptBevel|ptInnerBevel) != 0 {
				if join == JoinRound {
					t.roundJoin(p0, p1, w, w, u0, u1, ncap)
				} else {
					t.bevelJoin(p0, p1, w, w, u0, u1)
				}
			} else {
				t.vset(p1.x+p1.dmx*w, p1.y+p1.dmy*w, u0, 1)
				t.vset(p1.x-p1.dmx*w, p1.y-p1.dmy*w, u1, 1)
			}
			p0 = p1
			if j+1 < len(pts) {
				p1 = &pts[j+1]
			}
		}

		if loop {
			first := t.verts[path.strokeStart]
			second := t.verts[path.strokeStart+1]
			t.vset(first.X, first.Y, u0, 1)
			t.vset(second.X, second.Y, u1, 1)
		} else {
			dx, dy := p1.x-p0.x, p1.y-p0.y
			normalize(&dx, &dy)
			switch lineCap {
			case CapButt:
				t.buttCapEnd(p1, dx, dy, w, -aa*0.5, aa, u0, u1)
			case CapSquare:
				t.buttCapEnd(p1, dx, dy, w, w-aa, aa, u0, u1)
			case CapRound:
				t.roundCapEnd(p1, dx, dy, w, ncap, u0, u1)
			}
		}
		path.strokeEnd = len(t.verts)
	}

	return t.commit()
}

func (t *Tessellator) buttCapStart(p *point, dx, dy, w, d, aa, u0, u1 float32) {
	px, py := p.x-dx*d, p.y-dy*d
	dlx, dly := dy, -dx
	t.vset(px+dlx*w-dx*aa, py+dly*w-dy*aa, u0, 0)
	t.vset(px-dlx*w-dx*aa, py-dly*w-dy*aa, u1, 0)
	t.vset(px+dlx*w, py+dly*w, u0, 1)
	t.vset(px-dlx*w, py-dly*w, u1, 1)
}

func (t *Tessellator) buttCapEnd(p *point, dx, dy, w, d, aa, u0, u1 float32) {
	px, py := p.x+dx*d, p.y+dy*d
	dlx, dly := dy, -dx
	t.vset(px+dlx*w, py+dly*w, u0, 1)
	t.vset(px-dlx*w, py-dly*w, u1, 1)
	t.vset(px+dlx*w+dx*aa, py+dly*w+dy*aa, u0, 0)
	t.vset(px-dlx*w+dx*aa, py-dly*w+dy*aa, u1, 0)
}

func (t *Tessellator) roundCapStart(p *point, dx, dy, w float32, ncap int, u0, u1 float32) {
	px, py := p.x, p.y
	dlx, dly := dy, -dx
	for i := range ncap {
		a := float32(i) / float32(ncap-1) * pi
		ax, ay := cosf(a)*w, sinf(a)*w
		t.vset(px-dlx*ax-dx*ay, py-dly*ax-dy*ay, u0, 1)
		t.vset(px, py, 0.5, 1)
	}
	t.vset(px+dlx*w, py+dly*w, u0, 1)
	t.vset(px-dlx*w, py-dly*w, u1, 1)
}

func (t *Tessellator) roundCapEnd(p *point, dx, dy, w float32, ncap int, u0, u1 float32) {
	px, py := p.x, p.y
	dlx, dly := dy, -dx
	t.vset(px+dlx*w, py+dly*w, u0, 1)
	t.vset(px-dlx*w, py-dly*w, u1, 1)
	for i := range ncap {
		a := float32(i) / float32(ncap-1) * pi
		ax, ay := cosf(a)*w, sinf(a)*w
		t.vset(px, py, 0.5, 1)
		t.vset(px-dlx*ax+dx*ay, py-dly*ax+dy*ay, u0, 1)
	}
}
