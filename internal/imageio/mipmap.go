package imageio

// MipChain builds successively halved levels of a w*h image with nch
// interleaved channels, down to 1x1. Level 0 is pix itself and is not
// copied. Each texel is the box-filtered average of its 2x2 parent block;
// odd edges repeat the last row or column.
func MipChain(pix []byte, w, h, nch int) [][]byte {
	levels := [][]byte{pix}
	for w > 1 || h > 1 {
		next, nw, nh := downsample(levels[len(levels)-1], w, h, nch)
		levels = append(levels, next)
		w, h = nw, nh
	}
	return levels
}

// MipSize returns the dimensions of level n of a w*h chain.
func MipSize(w, h, n int) (int, int) {
	for range n {
		w, h = max(1, w/2), max(1, h/2)
	}
	return w, h
}

func downsample(src []byte, sw, sh, nch int) ([]byte, int, int) {
	dw, dh := max(1, sw/2), max(1, sh/2)
	dst := make([]byte, dw*dh*nch)
	for dy := range dh {
		sy0 := dy * 2
		sy1 := min(sy0+1, sh-1)
		for dx := range dw {
			sx0 := dx * 2
			sx1 := min(sx0+1, sw-1)
			for c := range nch {
				sum := uint16(src[(sy0*sw+sx0)*nch+c]) +
					uint16(src[(sy0*sw+sx1)*nch+c]) +
					uint16(src[(sy1*sw+sx0)*nch+c]) +
					uint16(src[(sy1*sw+sx1)*nch+c])
				dst[(dy*dw+dx)*nch+c] = byte(sum / 4)
			}
		}
	}
	return dst, dw, dh
}
