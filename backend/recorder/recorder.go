// Package recorder provides a vg backend that records every call instead
// of drawing. It serves as a test double and for inspecting the geometry
// a Context produces.
package recorder

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
)

func init() {
	backend.Register(backend.NameRecorder, func(w, h int) (vg.Backend, error) {
		return New(), nil
	})
}

// Op names a recorded backend call.
type Op string

const (
	OpFill      Op = "fill"
	OpStroke    Op = "stroke"
	OpTriangles Op = "triangles"
)

// Call is one recorded draw call. Geometry is copied, so it stays valid
// after the call returns.
type Call struct {
	Op          Op
	Paint       vg.Paint
	CompositeOp vg.CompositeOpState
	Scissor     vg.Scissor
	Fringe      float32
	StrokeWidth float32
	Bounds      [4]float32
	Paths       []vg.Path
	Verts       []vg.Vertex
}

// Triangles returns the number of triangles in the call.
func (c *Call) Triangles() int {
	n := len(c.Verts) / 3
	for _, p := range c.Paths {
		n += max(0, len(p.Fill)-2) + max(0, len(p.Stroke)-2)
	}
	return n
}

// Texture is a recorded texture.
type Texture struct {
	Type   vg.TextureType
	Width  int
	Height int
	Flags  vg.ImageFlags
	Data   []byte
}

// Frame is the list of calls between two flushes.
type Frame struct {
	Width, Height, DevicePixelRatio float32
	Calls                           []Call
}

// Recorder implements vg.Backend by recording calls.
//
// Calls of the frame in progress accumulate in Pending; Flush moves them
// to Frames and Cancel drops them.
type Recorder struct {
	Pending []Call
	Frames  []Frame

	textures map[int]*Texture
	nextID   int

	// Flags are the flags the recorder was created with.
	Flags vg.CreateFlags

	viewport [3]float32
	created  bool
	deleted  bool
}

var _ vg.Backend = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{textures: make(map[int]*Texture)}
}

func (r *Recorder) Create(flags vg.CreateFlags) error {
	if r.deleted {
		return fmt.Errorf("recorder: create after delete")
	}
	r.created = true
	r.Flags = flags
	return nil
}

func (r *Recorder) CreateTexture(typ vg.TextureType, w, h int, flags vg.ImageFlags, data []byte) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("recorder: texture size %dx%d", w, h)
	}
	t := &Texture{Type: typ, Width: w, Height: h, Flags: flags, Data: make([]byte, w*h*typ.BytesPerPixel())}
	copy(t.Data, data)
	r.nextID++
	r.textures[r.nextID] = t
	return r.nextID, nil
}

func (r *Recorder) DeleteTexture(image int) error {
	if _, ok := r.textures[image]; !ok {
		return fmt.Errorf("recorder: no texture %d", image)
	}
	delete(r.textures, image)
	return nil
}

// UpdateTexture copies the (x, y, w, h) region of data, laid out with the
// full texture stride, into the texture.
func (r *Recorder) UpdateTexture(image, x, y, w, h int, data []byte) error {
	t, ok := r.textures[image]
	if !ok {
		return fmt.Errorf("recorder: no texture %d", image)
	}
	if x < 0 || y < 0 || x+w > t.Width || y+h > t.Height {
		return fmt.Errorf("recorder: region %d,%d %dx%d outside %dx%d", x, y, w, h, t.Width, t.Height)
	}
	bpp := t.Type.BytesPerPixel()
	stride := t.Width * bpp
	if len(data) < stride*t.Height {
		return fmt.Errorf("recorder: %d bytes for %dx%d", len(data), t.Width, t.Height)
	}
	for row := y; row < y+h; row++ {
		off := row*stride + x*bpp
		copy(t.Data[off:off+w*bpp], data[off:off+w*bpp])
	}
	return nil
}

func (r *Recorder) TextureSize(image int) (int, int, error) {
	t, ok := r.textures[image]
	if !ok {
		return 0, 0, fmt.Errorf("recorder: no texture %d", image)
	}
	return t.Width, t.Height, nil
}

// Texture returns a recorded texture, or nil.
func (r *Recorder) Texture(image int) *Texture { return r.textures[image] }

// Textures returns the number of live textures.
func (r *Recorder) Textures() int { return len(r.textures) }

func (r *Recorder) Viewport(width, height, devicePixelRatio float32) {
	r.viewport = [3]float32{width, height, devicePixelRatio}
}

func (r *Recorder) Cancel() { r.Pending = r.Pending[:0] }

func (r *Recorder) Flush() {
	r.Frames = append(r.Frames, Frame{
		Width:            r.viewport[0],
		Height:           r.viewport[1],
		DevicePixelRatio: r.viewport[2],
		Calls:            r.Pending,
	})
	r.Pending = nil
}

func (r *Recorder) Delete() {
	clear(r.textures)
	r.deleted = true
}

// Deleted reports whether Delete was called.
func (r *Recorder) Deleted() bool { return r.deleted }

func copyPaths(paths []vg.Path) []vg.Path {
	out := make([]vg.Path, len(paths))
	for i, p := range paths {
		out[i] = p
		out[i].Fill = append([]vg.Vertex(nil), p.Fill...)
		out[i].Stroke = append([]vg.Vertex(nil), p.Stroke...)
	}
	return out
}

func (r *Recorder) Fill(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe float32, bounds [4]float32, paths []vg.Path) {
	r.Pending = append(r.Pending, Call{
		Op:          OpFill,
		Paint:       *paint,
		CompositeOp: op,
		Scissor:     *scissor,
		Fringe:      fringe,
		Bounds:      bounds,
		Paths:       copyPaths(paths),
	})
}

func (r *Recorder) Stroke(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, fringe, strokeWidth float32, paths []vg.Path) {
	r.Pending = append(r.Pending, Call{
		Op:          OpStroke,
		Paint:       *paint,
		CompositeOp: op,
		Scissor:     *scissor,
		Fringe:      fringe,
		StrokeWidth: strokeWidth,
		Paths:       copyPaths(paths),
	})
}

func (r *Recorder) Triangles(paint *vg.Paint, op vg.CompositeOpState, scissor *vg.Scissor, verts []vg.Vertex, fringe float32) {
	r.Pending = append(r.Pending, Call{
		Op:          OpTriangles,
		Paint:       *paint,
		CompositeOp: op,
		Scissor:     *scissor,
		Fringe:      fringe,
		Verts:       append([]vg.Vertex(nil), verts...),
	})
}

// Last returns the most recently flushed frame, or nil.
func (r *Recorder) Last() *Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return &r.Frames[len(r.Frames)-1]
}

// Dump logs a summary of every call of f at debug level.
func (f *Frame) Dump(log *slog.Logger) {
	log.Debug("recorder: frame", "size", fmt.Sprintf("%gx%g", f.Width, f.Height), "calls", len(f.Calls))
	for i, c := range f.Calls {
		log.Debug("recorder: call",
			"index", i,
			"op", c.Op,
			"paths", len(c.Paths),
			"triangles", c.Triangles(),
			"image", c.Paint.Image,
			"scissor", c.Scissor.Enabled())
	}
}
