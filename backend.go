package vg

import (
	"github.com/gogpu/vg/fontstash"
	"github.com/gogpu/vg/internal/tess"
)

// Vertex is a device-space position with texture coordinates.
type Vertex = tess.Vertex

// Path is one tessellated subpath handed to a backend. Fill holds a
// triangle fan, Stroke a triangle strip.
type Path = tess.Path

// Winding is the orientation a subpath is forced into before filling.
type Winding = tess.Winding

const (
	// CCW winding marks a solid shape.
	CCW = tess.CCW
	// CW winding marks a hole.
	CW = tess.CW
)

// Solidity aliases the two windings by their fill meaning.
const (
	Solid = tess.CCW
	Hole  = tess.CW
)

// LineCap is the end cap style of open strokes.
type LineCap = tess.Cap

const (
	Butt      = tess.CapButt
	RoundCap  = tess.CapRound
	SquareCap = tess.CapSquare
)

// LineJoin is the corner style between stroke segments.
type LineJoin = tess.Join

const (
	Miter     = tess.JoinMiter
	RoundJoin = tess.JoinRound
	Bevel     = tess.JoinBevel
)

// Align is a bit set of horizontal and vertical text alignment.
type Align = fontstash.Align

const (
	AlignLeft     = fontstash.AlignLeft
	AlignCenter   = fontstash.AlignCenter
	AlignRight    = fontstash.AlignRight
	AlignTop      = fontstash.AlignTop
	AlignMiddle   = fontstash.AlignMiddle
	AlignBottom   = fontstash.AlignBottom
	AlignBaseline = fontstash.AlignBaseline
)

// CreateFlags configure a Context.
type CreateFlags int

const (
	// Antialias enables fringe antialiasing of fills and strokes.
	Antialias CreateFlags = 1 << iota
	// StencilStrokes asks the backend to stencil overlapping stroke
	// segments so translucent strokes do not double blend.
	StencilStrokes
	// Debug enables extra validation and path cache dumps.
	Debug
)

// TextureType is the pixel layout of a backend texture.
type TextureType int

const (
	// TextureAlpha has one 8-bit coverage channel per pixel.
	TextureAlpha TextureType = 1
	// TextureRGBA has four 8-bit channels per pixel.
	TextureRGBA TextureType = 2
)

// BytesPerPixel returns the size of one pixel of the texture type.
func (t TextureType) BytesPerPixel() int {
	if t == TextureAlpha {
		return 1
	}
	return 4
}

// ImageFlags control sampling and lifetime of an image.
type ImageFlags int

const (
	ImageGenerateMipmaps ImageFlags = 1 << 0
	ImageRepeatX         ImageFlags = 1 << 1
	ImageRepeatY         ImageFlags = 1 << 2
	ImageFlipY           ImageFlags = 1 << 3
	ImagePremultiplied   ImageFlags = 1 << 4
	ImageNearest         ImageFlags = 1 << 5
	// ImageNoDelete keeps the backend texture alive when the context is
	// deleted. The caller owns it afterwards.
	ImageNoDelete ImageFlags = 1 << 16
)

// Paint describes how a fill or stroke is shaded. Xform maps paint space
// to device space. Solid colors have equal inner and outer colors.
// Image is an image handle inside a Context and a backend texture id by
// the time a backend receives the paint; 0 means no image.
type Paint struct {
	Xform      Transform
	Extent     [2]float32
	Radius     float32
	Feather    float32
	InnerColor Color
	OuterColor Color
	Image      int
}

// Scissor is a clip rectangle centred on the origin of Xform with half
// size Extent. Extent[0] < 0 disables clipping.
type Scissor struct {
	Xform  Transform
	Extent [2]float32
}

// Enabled reports whether the scissor clips anything.
func (s Scissor) Enabled() bool { return s.Extent[0] >= 0 }

// Backend rasterizes the geometry a Context produces.
//
// All vertex and path slices passed to a backend are only valid for the
// duration of the call. A backend that batches work until Flush must copy
// them.
type Backend interface {
	// Create initializes backend resources. It is called once by NewContext
	// with the context's flags, so that the backend can honor
	// StencilStrokes and Debug.
	Create(flags CreateFlags) error

	// CreateTexture uploads a texture and returns its id, which must be
	// positive. data may be nil for an uninitialized texture.
	CreateTexture(typ TextureType, w, h int, flags ImageFlags, data []byte) (int, error)
	DeleteTexture(image int) error
	// UpdateTexture replaces the rows y..y+h of the texture. data holds
	// the full texture width; x and w bound the changed columns.
	UpdateTexture(image, x, y, w, h int, data []byte) error
	TextureSize(image int) (w, h int, err error)

	Viewport(width, height, devicePixelRatio float32)
	// Cancel drops all work queued since the last Flush.
	Cancel()
	// Flush renders all queued work.
	Flush()

	Fill(paint *Paint, op CompositeOpState, scissor *Scissor, fringe float32, bounds [4]float32, paths []Path)
	Stroke(paint *Paint, op CompositeOpState, scissor *Scissor, fringe, strokeWidth float32, paths []Path)
	Triangles(paint *Paint, op CompositeOpState, scissor *Scissor, verts []Vertex, fringe float32)

	// Delete releases all backend resources.
	Delete()
}
