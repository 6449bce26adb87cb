// Package gpu turns vg frames into GPU-ready draw lists.
//
// The backend does not own a device. Each Flush resolves the frame into a
// Frame: one vertex buffer, packed fragment uniforms and a call list,
// drawn with the passes described by Pipeline and the WGSL program
// returned by SPIRV. Hosts submit it through the function given to New.
// Texture pixels stay on the CPU until the host uploads them; Texture
// reports which ones changed.
package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
)

//go:embed shaders/vg.wgsl
var shaderWGSL string

func init() {
	backend.Register(backend.NameGPU, func(w, h int) (vg.Backend, error) {
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, w, h)
		}
		return New(nil), nil
	})
}

// Texture is the CPU copy of a texture. Dirty is set whenever Pix
// changes and cleared by the host after uploading.
type Texture struct {
	Type   vg.TextureType
	Width  int
	Height int
	Flags  vg.ImageFlags
	Pix    []byte
	Dirty  bool
}

// Backend builds Frames. It is not safe for concurrent use.
type Backend struct {
	submit func(*Frame)
	spirv  []uint32
	flags  vg.CreateFlags

	textures map[int]*Texture
	nextID   int

	frame Frame
	last  *Frame
}

var _ vg.Backend = (*Backend)(nil)

// New returns a backend that passes every flushed frame to submit. The
// frame is reused after submit returns. submit may be nil; Last still
// reports the most recent frame.
func New(submit func(*Frame)) *Backend {
	return &Backend{submit: submit, textures: make(map[int]*Texture)}
}

// Create compiles the shader program. With vg.StencilStrokes, strokes
// are emitted as CallStencilStroke.
func (b *Backend) Create(flags vg.CreateFlags) error {
	b.flags = flags
	spirvBytes, err := naga.Compile(shaderWGSL)
	if err != nil {
		return fmt.Errorf("gpu: compile shader: %w", err)
	}
	b.spirv = make([]uint32, len(spirvBytes)/4)
	for i := range b.spirv {
		b.spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return nil
}

// SPIRV returns the compiled program with entry points vs_main and
// fs_main. It is nil before Create.
func (b *Backend) SPIRV() []uint32 { return b.spirv }

// WGSL returns the shader source.
func WGSL() string { return shaderWGSL }

func (b *Backend) CreateTexture(typ vg.TextureType, w, h int, flags vg.ImageFlags, data []byte) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("gpu: texture size %dx%d", w, h)
	}
	t := &Texture{Type: typ, Width: w, Height: h, Flags: flags, Pix: make([]byte, w*h*typ.BytesPerPixel()), Dirty: true}
	copy(t.Pix, data)
	b.nextID++
	b.textures[b.nextID] = t
	return b.nextID, nil
}

func (b *Backend) DeleteTexture(image int) error {
	if _, ok := b.textures[image]; !ok {
		return fmt.Errorf("gpu: no texture %d", image)
	}
	delete(b.textures, image)
	return nil
}

// UpdateTexture copies the (x, y, w, h) region from data, which holds the
// whole texture.
func (b *Backend) UpdateTexture(image, x, y, w, h int, data []byte) error {
	t, ok := b.textures[image]
	if !ok {
		return fmt.Errorf("gpu: no texture %d", image)
	}
	if x < 0 || y < 0 || x+w > t.Width || y+h > t.Height {
		return fmt.Errorf("gpu: region %d,%d %dx%d outside %dx%d", x, y, w, h, t.Width, t.Height)
	}
	bpp := t.Type.BytesPerPixel()
	stride := t.Width * bpp
	if len(data) < stride*t.Height {
		return fmt.Errorf("gpu: %d bytes for %dx%d texture", len(data), t.Width, t.Height)
	}
	for row := y; row < y+h; row++ {
		off := row*stride + x*bpp
		copy(t.Pix[off:off+w*bpp], data[off:off+w*bpp])
	}
	t.Dirty = true
	return nil
}

func (b *Backend) TextureSize(image int) (int, int, error) {
	t, ok := b.textures[image]
	if !ok {
		return 0, 0, fmt.Errorf("gpu: no texture %d", image)
	}
	return t.Width, t.Height, nil
}

// Texture returns the texture with id image.
func (b *Backend) Texture(image int) (*Texture, bool) {
	t, ok := b.textures[image]
	return t, ok
}

func (b *Backend) Viewport(width, height, devicePixelRatio float32) {
	b.frame.reset()
	b.frame.ViewSize = [2]float32{width, height}
}

func (b *Backend) Cancel() { b.frame.reset() }

func (b *Backend) Flush() {
	vg.Logger().Debug("gpu: flush", "calls", len(b.frame.Calls), "verts", len(b.frame.Verts), "uniforms", len(b.frame.Uniforms))
	if b.submit != nil && len(b.frame.Calls) > 0 {
		b.submit(&b.frame)
	}
	b.last = b.frame.clone()
	b.frame.reset()
}

// Last returns a copy of the most recently flushed frame, or nil.
func (b *Backend) Last() *Frame { return b.last }

func (b *Backend) Delete() {
	clear(b.textures)
	b.frame = Frame{}
	b.last = nil
}

func (b *Backend) Fill(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe float32, bounds [4]float32, paths []vg.Path) {
	f := &b.frame
	c := Call{Type: CallFill, Image: paint.Image, Blend: BlendState(op)}
	if len(paths) == 1 && paths[0].Convex {
		c.Type = CallConvexFill
	}
	c.PathOffset, c.PathCount = f.appendPaths(paths, true, true)

	if c.Type == CallFill {
		c.TriangleOffset = len(f.Verts)
		f.Verts = appendQuad(f.Verts, bounds)
		c.TriangleCount = len(f.Verts) - c.TriangleOffset

		simple := fragUniforms{strokeThr: -1, kind: kindStencil}
		f.Uniforms, c.UniformOffset = appendUniforms(f.Uniforms, &simple)
		u := b.convertPaint(paint, scissor, fringe, fringe, -1)
		f.Uniforms, _ = appendUniforms(f.Uniforms, &u)
	} else {
		u := b.convertPaint(paint, scissor, fringe, fringe, -1)
		f.Uniforms, c.UniformOffset = appendUniforms(f.Uniforms, &u)
	}
	f.Calls = append(f.Calls, c)
}

func (b *Backend) Stroke(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe, strokeWidth float32, paths []vg.Path) {
	f := &b.frame
	c := Call{Type: CallStroke, Image: paint.Image, Blend: BlendState(op)}
	c.PathOffset, c.PathCount = f.appendPaths(paths, false, true)
	u := b.convertPaint(paint, scissor, strokeWidth, fringe, -1)
	f.Uniforms, c.UniformOffset = appendUniforms(f.Uniforms, &u)
	if b.flags&vg.StencilStrokes != 0 {
		c.Type = CallStencilStroke
		base := b.convertPaint(paint, scissor, strokeWidth, fringe, 1-0.5/255)
		f.Uniforms, _ = appendUniforms(f.Uniforms, &base)
	}
	f.Calls = append(f.Calls, c)
}

func (b *Backend) Triangles(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, verts []vg.Vertex, fringe float32) {
	f := &b.frame
	n := len(verts) / 3 * 3
	c := Call{Type: CallTriangles, Image: paint.Image, Blend: BlendState(op)}
	c.TriangleOffset = len(f.Verts)
	f.Verts = append(f.Verts, verts[:n]...)
	c.TriangleCount = n
	u := b.convertPaint(paint, scissor, 1, fringe, -1)
	u.kind = kindTriangles
	f.Uniforms, c.UniformOffset = appendUniforms(f.Uniforms, &u)
	f.Calls = append(f.Calls, c)
}
