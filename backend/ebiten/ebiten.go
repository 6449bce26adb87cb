// Package ebiten draws vg frames onto an *ebiten.Image.
//
// Paint evaluation runs in a Kage shader; coverage comes from
// DrawTrianglesShader with the non-zero fill rule and ebiten's own
// antialiasing, so the fringe strips a context emits are folded back into
// exact outlines before drawing. Mipmaps are not generated.
//
// Call Flush (through vg.Context.EndFrame) from the game's Draw method.
package ebiten

import (
	_ "embed"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shader.kage
var shaderSrc []byte

func init() {
	backend.Register(backend.NameEbiten, func(w, h int) (vg.Backend, error) {
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, w, h)
		}
		return New(ebiten.NewImage(w, h)), nil
	})
}

type texture struct {
	img   *ebiten.Image
	typ   vg.TextureType
	w, h  int
	flags vg.ImageFlags
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

// Backend records calls during a frame and draws them on Flush.
type Backend struct {
	dst    *ebiten.Image
	shader *ebiten.Shader

	textures map[int]*texture
	nextID   int

	calls []call
	ratio float32

	vs []ebiten.Vertex
	is []uint16
}

var _ vg.Backend = (*Backend)(nil)

// New returns a backend drawing onto dst. dst may be the screen image
// passed to Draw; swap it between frames with SetTarget.
func New(dst *ebiten.Image) *Backend {
	return &Backend{
		dst:      dst,
		textures: make(map[int]*texture),
		ratio:    1,
	}
}

// Target returns the image frames are drawn onto.
func (b *Backend) Target() *ebiten.Image { return b.dst }

// SetTarget changes the image the next Flush draws onto.
func (b *Backend) SetTarget(dst *ebiten.Image) { b.dst = dst }

// Create checks the target. Strokes are always drawn with overlaps
// covered once, so StencilStrokes needs no extra work.
func (b *Backend) Create(vg.CreateFlags) error {
	if b.dst == nil {
		return fmt.Errorf("ebiten: nil target: %w", backend.ErrInvalidSize)
	}
	s, err := ebiten.NewShader(shaderSrc)
	if err != nil {
		return fmt.Errorf("ebiten: compile shader: %w", err)
	}
	b.shader = s
	return nil
}

func (b *Backend) CreateTexture(typ vg.TextureType, w, h int, flags vg.ImageFlags, data []byte) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("ebiten: texture size %dx%d", w, h)
	}
	t := &texture{img: ebiten.NewImage(w, h), typ: typ, w: w, h: h, flags: flags}
	if data != nil {
		t.img.WritePixels(premultiplied(typ, flags, data, w*h))
	}
	b.nextID++
	b.textures[b.nextID] = t
	return b.nextID, nil
}

func (b *Backend) DeleteTexture(image int) error {
	t, ok := b.textures[image]
	if !ok {
		return fmt.Errorf("ebiten: no texture %d", image)
	}
	t.img.Deallocate()
	delete(b.textures, image)
	return nil
}

// UpdateTexture uploads the (x, y, w, h) region of data, which holds the
// whole texture.
func (b *Backend) UpdateTexture(image, x, y, w, h int, data []byte) error {
	t, ok := b.textures[image]
	if !ok {
		return fmt.Errorf("ebiten: no texture %d", image)
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.w || y+h > t.h {
		return fmt.Errorf("ebiten: region %d,%d %dx%d outside %dx%d", x, y, w, h, t.w, t.h)
	}
	region := cropRegion(data, t.w*t.typ.BytesPerPixel(), t.typ.BytesPerPixel(), x, y, w, h)
	if region == nil {
		return fmt.Errorf("ebiten: %d bytes for %dx%d texture", len(data), t.w, t.h)
	}
	sub := t.img.SubImage(rect(x, y, w, h)).(*ebiten.Image)
	sub.WritePixels(premultiplied(t.typ, t.flags, region, w*h))
	return nil
}

func (b *Backend) TextureSize(image int) (int, int, error) {
	t, ok := b.textures[image]
	if !ok {
		return 0, 0, fmt.Errorf("ebiten: no texture %d", image)
	}
	return t.w, t.h, nil
}

func (b *Backend) Viewport(width, height, devicePixelRatio float32) {
	b.ratio = devicePixelRatio
	if b.ratio <= 0 {
		b.ratio = 1
	}
}

func (b *Backend) Cancel() { b.calls = b.calls[:0] }

// Flush draws every queued call in order.
func (b *Backend) Flush() {
	for i := range b.calls {
		b.draw(&b.calls[i])
	}
	vg.Logger().Debug("ebiten: flush", "calls", len(b.calls))
	clear(b.calls)
	b.calls = b.calls[:0]
}

func (b *Backend) Delete() {
	for id, t := range b.textures {
		t.img.Deallocate()
		delete(b.textures, id)
	}
	if b.shader != nil {
		b.shader.Deallocate()
		b.shader = nil
	}
	b.calls = nil
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

func copyPaths(paths []vg.Path) []vg.Path {
	out := make([]vg.Path, len(paths))
	for i, p := range paths {
		out[i] = p
		out[i].Fill = append([]vg.Vertex(nil), p.Fill...)
		out[i].Stroke = append([]vg.Vertex(nil), p.Stroke...)
	}
	return out
}

func (b *Backend) draw(c *call) {
	if c.scissor.Enabled() && (c.scissor.Extent[0] <= 0 || c.scissor.Extent[1] <= 0) {
		return
	}
	var tex *texture
	if c.paint.Image != 0 {
		tex = b.textures[c.paint.Image]
	}

	b.vs, b.is = b.vs[:0], b.is[:0]
	opts := &ebiten.DrawTrianglesShaderOptions{
		Blend:    blendOf(c.op),
		Uniforms: uniforms(c, tex, b.ratio),
	}
	switch c.kind {
	case callFill:
		b.vs, b.is = appendFill(b.vs, b.is, c.paths, c.fringe, b.ratio)
		opts.FillRule = ebiten.FillRuleNonZero
		opts.AntiAlias = c.fringe > 0
	case callStroke:
		b.vs, b.is = appendStroke(b.vs, b.is, c.paths, c.strokeWidth, c.fringe, b.ratio)
		opts.FillRule = ebiten.FillRuleNonZero
		opts.AntiAlias = c.fringe > 0
	case callTriangles:
		tw, th := 1, 1
		if tex != nil {
			tw, th = tex.w, tex.h
		}
		b.vs, b.is = appendTriangles(b.vs, b.is, c.verts, b.ratio, float32(tw), float32(th))
	}
	if len(b.is) == 0 {
		return
	}
	if len(b.vs) > math.MaxUint16+1 {
		vg.Logger().Warn("ebiten: call dropped, too many vertices", "verts", len(b.vs))
		return
	}
	if tex != nil {
		opts.Images[0] = tex.img
	}
	b.dst.DrawTrianglesShader(b.vs, b.is, b.shader, opts)
}

func rect(x, y, w, h int) image.Rectangle { return image.Rect(x, y, x+w, y+h) }
