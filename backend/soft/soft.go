// Package soft is a CPU vg backend rendering into an *image.RGBA.
//
// Coverage is computed analytically with golang.org/x/image/vector, so
// the antialiasing fringes that GPU backends draw are not needed: fills
// use the fill polygons only and stroke ribbons are narrowed back to
// their nominal width. Draw calls are queued and rendered on Flush.
package soft

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
	"github.com/gogpu/vg/internal/imageio"
	"golang.org/x/image/vector"
)

func init() {
	backend.Register(backend.NameSoft, func(w, h int) (vg.Backend, error) {
		return New(w, h), nil
	})
}

type texture struct {
	typ   vg.TextureType
	w, h  int
	flags vg.ImageFlags
	pix   []byte
	mips  [][]byte // level 0 aliases pix; nil without ImageGenerateMipmaps
}

func (t *texture) buildMips() {
	if t.flags&vg.ImageGenerateMipmaps == 0 {
		return
	}
	t.mips = imageio.MipChain(t.pix, t.w, t.h, t.typ.BytesPerPixel())
}

type callKind int

const (
	callFill callKind = iota
	callStroke
	callTriangles
)

type call struct {
	kind        callKind
	paint       vg.Paint
	op          vg.CompositeOpState
	scissor     vg.Scissor
	fringe      float32
	strokeWidth float32
	paths       []vg.Path
	verts       []vg.Vertex
}

// Backend renders vg draw calls on the CPU.
//
// The target holds premultiplied colors. A Backend is not safe for
// concurrent use.
type Backend struct {
	dst *image.RGBA

	textures map[int]*texture
	nextID   int

	calls []call
	view  [2]float32
	ratio float32

	ras  *vector.Rasterizer
	mask *image.Alpha
	uv   []float32
	best []float32
}

var _ vg.Backend = (*Backend)(nil)

// New returns a backend with a transparent width*height target. The
// target size should be the window size times the device pixel ratio.
func New(width, height int) *Backend {
	return &Backend{
		dst:      image.NewRGBA(image.Rect(0, 0, width, height)),
		textures: make(map[int]*texture),
		ratio:    1,
		ras:      vector.NewRasterizer(1, 1),
	}
}

// Image returns the render target.
func (b *Backend) Image() *image.RGBA { return b.dst }

// Pixels returns the target pixels as premultiplied RGBA8, row-major.
func (b *Backend) Pixels() []byte { return b.dst.Pix }

// Clear fills the whole target with c.
func (b *Backend) Clear(c vg.Color) {
	p := c.Premultiplied()
	px := color.RGBA{R: to8(p.R), G: to8(p.G), B: to8(p.B), A: to8(p.A)}
	pix := b.dst.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = px.R, px.G, px.B, px.A
	}
}

// Create checks the target. Stroke coverage saturates where segments
// overlap, which is what StencilStrokes asks for.
func (b *Backend) Create(vg.CreateFlags) error {
	if b.dst.Rect.Empty() {
		return fmt.Errorf("%w: %v", backend.ErrInvalidSize, b.dst.Rect.Size())
	}
	return nil
}

func (b *Backend) CreateTexture(typ vg.TextureType, w, h int, flags vg.ImageFlags, data []byte) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("soft: texture size %dx%d", w, h)
	}
	t := &texture{typ: typ, w: w, h: h, flags: flags, pix: make([]byte, w*h*typ.BytesPerPixel())}
	copy(t.pix, data)
	t.buildMips()
	b.nextID++
	b.textures[b.nextID] = t
	return b.nextID, nil
}

func (b *Backend) DeleteTexture(image int) error {
	if _, ok := b.textures[image]; !ok {
		return fmt.Errorf("soft: no texture %d", image)
	}
	delete(b.textures, image)
	return nil
}

// UpdateTexture copies the (x, y, w, h) region from data, which holds the
// whole texture.
func (b *Backend) UpdateTexture(image, x, y, w, h int, data []byte) error {
	t, ok := b.textures[image]
	if !ok {
		return fmt.Errorf("soft: no texture %d", image)
	}
	if x < 0 || y < 0 || x+w > t.w || y+h > t.h {
		return fmt.Errorf("soft: region %d,%d %dx%d outside %dx%d", x, y, w, h, t.w, t.h)
	}
	bpp := t.typ.BytesPerPixel()
	stride := t.w * bpp
	if len(data) < stride*t.h {
		return fmt.Errorf("soft: %d bytes for %dx%d texture", len(data), t.w, t.h)
	}
	for row := y; row < y+h; row++ {
		off := row*stride + x*bpp
		copy(t.pix[off:off+w*bpp], data[off:off+w*bpp])
	}
	t.buildMips()
	return nil
}

func (b *Backend) TextureSize(image int) (int, int, error) {
	t, ok := b.textures[image]
	if !ok {
		return 0, 0, fmt.Errorf("soft: no texture %d", image)
	}
	return t.w, t.h, nil
}

func (b *Backend) Viewport(width, height, devicePixelRatio float32) {
	b.view = [2]float32{width, height}
	b.ratio = devicePixelRatio
	if b.ratio <= 0 {
		b.ratio = 1
	}
}

func (b *Backend) Cancel() { b.calls = b.calls[:0] }

// Flush renders every queued call in order.
func (b *Backend) Flush() {
	for i := range b.calls {
		b.render(&b.calls[i])
	}
	vg.Logger().Debug("soft: flush", "calls", len(b.calls))
	clear(b.calls)
	b.calls = b.calls[:0]
}

func (b *Backend) Delete() {
	clear(b.textures)
	b.calls = nil
}

func copyPaths(paths []vg.Path) []vg.Path {
	out := make([]vg.Path, len(paths))
	for i, p := range paths {
		out[i] = p
		out[i].Fill = append([]vg.Vertex(nil), p.Fill...)
		out[i].Stroke = append([]vg.Vertex(nil), p.Stroke...)
	}
	return out
}

func (b *Backend) Fill(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe float32, bounds [4]float32, paths []vg.Path) {
	b.calls = append(b.calls, call{kind: callFill, paint: *paint, op: op, scissor: *scissor, fringe: fringe, paths: copyPaths(paths)})
}

func (b *Backend) Stroke(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe, strokeWidth float32, paths []vg.Path) {
	b.calls = append(b.calls, call{kind: callStroke, paint: *paint, op: op, scissor: *scissor, fringe: fringe, strokeWidth: strokeWidth, paths: copyPaths(paths)})
}

func (b *Backend) Triangles(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, verts []vg.Vertex, fringe float32) {
	b.calls = append(b.calls, call{kind: callTriangles, paint: *paint, op: op, scissor: *scissor, fringe: fringe, verts: append([]vg.Vertex(nil), verts...)})
}

func to8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
