package tess

// ExpandFill builds fill fans and, when w > 0, antialiasing fringe strips
// of width w around every subpath. Convex single-path shapes get half a
// fringe so they can be drawn without stenciling.
func (t *Tessellator) ExpandFill(w float32, join Join, miterLimit float32) []Path {
	aa := t.FringeWidth
	fringe := w > 0

	t.calculateJoins(w, join, miterLimit)

	cverts := 0
	for _, p := range t.paths {
		cverts += p.count + p.NBevel + 1
		if fringe {
			cverts += (p.count + p.NBevel*5 + 1) * 2
		}
	}
	t.verts = t.verts[:0]
	if cap(t.verts) < cverts {
		t.verts = make([]Vertex, 0, cverts)
	}

	convex := len(t.paths) == 1 && t.paths[0].Convex

	for i := range t.paths {
		path := &t.paths[i]
		pts := t.points[path.first : path.first+path.count]
		path.fillStart, path.fillEnd = len(t.verts), len(t.verts)
		path.strokeStart, path.strokeEnd = len(t.verts), len(t.verts)
		if len(pts) < 3 {
			continue
		}

		woff := 0.5 * aa
		if fringe {
			p0 := &pts[len(pts)-1]
			for j := range pts {
				p1 := &pts[j]
				if p1.flags&ptBevel != 0 {
					dlx0, dly0 := p0.dy, -p0.dx
					dlx1, dly1 := p1.dy, -p1.dx
					if p1.flags&ptLeft != 0 {
						t.vset(p1.x+p1.dmx*woff, p1.y+p1.dmy*woff, 0.5, 1)
					} else {
						t.vset(p1.x+dlx0*woff, p1.y+dly0*woff, 0.5, 1)
						t.vset(p1.x+dlx1*woff, p1.y+dly1*woff, 0.5, 1)
					}
				} else {
					t.vset(p1.x+p1.dmx*woff, p1.y+p1.dmy*woff, 0.5, 1)
				}
				p0 = p1
			}
		} else {
			for _, p := range pts {
				t.vset(p.x, p.y, 0.5, 1)
			}
		}
		path.fillEnd = len(t.verts)

		if !fringe {
			continue
		}

		lw, rw := w+woff, w-woff
		var lu, ru float32 = 0, 1
		path.strokeStart = len(t.verts)

		if convex {
			// Matches the inset fill vertex.
			lw = woff
			lu = 0.5
		}

		p0 := &pts[len(pts)-1]
		for j := range pts {
			p1 := &pts[j]
			if p1.flags&(ptBevel|ptInnerBevel) != 0 {
				t.bevelJoin(p0, p1, lw, rw, lu, ru)
			} else {
				t.vset(p1.x+p1.dmx*lw, p1.y+p1.dmy*lw, lu, 1)
				t.vset(p1.x-p1.dmx*rw, p1.y-p1.dmy*rw, ru, 1)
			}
			p0 = p1
		}

		first := t.verts[path.strokeStart]
		second := t.verts[path.strokeStart+1]
		t.vset(first.X, first.Y, lu, 1)
		t.vset(second.X, second.Y, ru, 1)
		path.strokeEnd = len(t.verts)
	}

	return t.commit()
}
