package vg

import (
	"errors"
	"fmt"
	"testing"
)

// call is one draw call seen by fakeBackend. Geometry is copied since the
// slices a backend receives are only valid during the call.
type call struct {
	Op          string
	Paint       Paint
	CompositeOp CompositeOpState
	Scissor     Scissor
	Fringe      float32
	StrokeWidth float32
	Bounds      [4]float32
	Paths       []Path
	Verts       []Vertex
}

type fakeTexture struct {
	typ   TextureType
	w, h  int
	flags ImageFlags
	data  []byte
}

// fakeBackend records draw calls and keeps textures in memory.
type fakeBackend struct {
	Calls []call

	textures map[int]*fakeTexture
	nextID   int
	deleted  []int
	updates  int

	createErr  error
	textureErr error
	deleteErr  error
	// badID makes CreateTexture succeed with id 0.
	badID bool

	created   bool
	flags     CreateFlags
	destroyed bool
	viewport  [3]float32
	flushes   int
	cancels   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{textures: make(map[int]*fakeTexture)}
}

func (b *fakeBackend) Create(flags CreateFlags) error {
	if b.createErr != nil {
		return b.createErr
	}
	b.created = true
	b.flags = flags
	return nil
}

func (b *fakeBackend) CreateTexture(typ TextureType, w, h int, flags ImageFlags, data []byte) (int, error) {
	if b.textureErr != nil {
		return 0, b.textureErr
	}
	if b.badID {
		return 0, nil
	}
	b.nextID++
	t := &fakeTexture{typ: typ, w: w, h: h, flags: flags, data: make([]byte, w*h*typ.BytesPerPixel())}
	copy(t.data, data)
	b.textures[b.nextID] = t
	return b.nextID, nil
}

func (b *fakeBackend) DeleteTexture(image int) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.textures[image]; !ok {
		return fmt.Errorf("no texture %d", image)
	}
	delete(b.textures, image)
	b.deleted = append(b.deleted, image)
	return nil
}

func (b *fakeBackend) UpdateTexture(image, x, y, w, h int, data []byte) error {
	t, ok := b.textures[image]
	if !ok {
		return fmt.Errorf("no texture %d", image)
	}
	if len(data) != len(t.data) {
		return errors.New("size mismatch")
	}
	b.updates++
	copy(t.data, data)
	return nil
}

func (b *fakeBackend) TextureSize(image int) (int, int, error) {
	t, ok := b.textures[image]
	if !ok {
		return 0, 0, fmt.Errorf("no texture %d", image)
	}
	return t.w, t.h, nil
}

func (b *fakeBackend) Viewport(w, h, ratio float32) { b.viewport = [3]float32{w, h, ratio} }
func (b *fakeBackend) Cancel()                      { b.cancels++ }
func (b *fakeBackend) Flush()                       { b.flushes++ }
func (b *fakeBackend) Delete()                      { b.destroyed = true }

func copyPaths(paths []Path) []Path {
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p
		out[i].Fill = append([]Vertex(nil), p.Fill...)
		out[i].Stroke = append([]Vertex(nil), p.Stroke...)
	}
	return out
}

func (b *fakeBackend) Fill(paint *Paint, op CompositeOpState, scissor *Scissor, fringe float32, bounds [4]float32, paths []Path) {
	b.Calls = append(b.Calls, call{Op: "fill", Paint: *paint, CompositeOp: op, Scissor: *scissor,
		Fringe: fringe, Bounds: bounds, Paths: copyPaths(paths)})
}

func (b *fakeBackend) Stroke(paint *Paint, op CompositeOpState, scissor *Scissor, fringe, strokeWidth float32, paths []Path) {
	b.Calls = append(b.Calls, call{Op: "stroke", Paint: *paint, CompositeOp: op, Scissor: *scissor,
		Fringe: fringe, StrokeWidth: strokeWidth, Paths: copyPaths(paths)})
}

func (b *fakeBackend) Triangles(paint *Paint, op CompositeOpState, scissor *Scissor, verts []Vertex, fringe float32) {
	b.Calls = append(b.Calls, call{Op: "triangles", Paint: *paint, CompositeOp: op, Scissor: *scissor,
		Fringe: fringe, Verts: append([]Vertex(nil), verts...)})
}

func newRecordedContext(t *testing.T, flags CreateFlags, opts ...ContextOption) (*Context, *fakeBackend) {
	t.Helper()
	rec := newFakeBackend()
	ctx, err := NewContext(rec, flags, opts...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(ctx.Delete)
	return ctx, rec
}

func beginFrame(t *testing.T, ctx *Context) {
	t.Helper()
	if err := ctx.BeginFrame(800, 600, 1); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
}
