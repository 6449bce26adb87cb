package vg

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/vg/fontstash"
	"github.com/gogpu/vg/internal/tess"
)

// maxFontImages is the number of glyph atlas textures a frame may use.
const maxFontImages = 4

// Context is an immediate mode drawing context bound to one Backend.
//
// Path and style calls may be made at any time; draw calls (Fill, Stroke,
// Text) only between BeginFrame and EndFrame. A Context is not safe for
// concurrent use.
type Context struct {
	backend Backend
	flags   CreateFlags
	opts    contextOptions

	states []state

	commands   []float32
	cmdX, cmdY float32 // last point in user space
	hasPoint   bool

	tess          *tess.Tessellator
	devicePxRatio float32

	images imageTable

	fonts        FontProvider
	fontImages   [maxFontImages]int // backend texture ids
	fontImageIdx int

	inFrame bool
	closed  bool
	stats   FrameStats
}

// FrameStats counts the work submitted in the current or last frame.
type FrameStats struct {
	DrawCalls       int
	FillTriangles   int
	StrokeTriangles int
	TextTriangles   int
}

var _ io.Closer = (*Context)(nil)

// NewContext creates a context drawing through b. The backend's Create is
// called before NewContext returns; on error the backend is deleted.
func NewContext(b Backend, flags CreateFlags, opts ...ContextOption) (*Context, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		backend: b,
		flags:   flags,
		opts:    o,
		states:  make([]state, 1, o.maxStates),
		tess:    tess.New(1),
	}
	c.states[0] = defaultState()
	c.setDevicePixelRatio(1)

	if err := b.Create(flags); err != nil {
		return nil, fmt.Errorf("vg: create backend: %w", err)
	}

	c.fonts = o.fonts
	if c.fonts == nil {
		stash := fontstash.New(o.atlasWidth, o.atlasHeight)
		stash.SetShaping(o.harfbuzzShaped)
		c.fonts = stash
	}

	w, h := c.fonts.AtlasSize()
	img, err := b.CreateTexture(TextureAlpha, w, h, 0, nil)
	if err == nil && img <= 0 {
		err = fmt.Errorf("texture id %d", img)
	}
	if err != nil {
		b.Delete()
		return nil, fmt.Errorf("%w: font atlas: %w", ErrBackendTexture, err)
	}
	c.fontImages[0] = img

	Logger().Debug("vg: context created", "flags", flags, "atlas", fmt.Sprintf("%dx%d", w, h))
	return c, nil
}

// Backend returns the backend the context draws through.
func (c *Context) Backend() Backend { return c.backend }

// Flags returns the flags the context was created with.
func (c *Context) Flags() CreateFlags { return c.flags }

func (c *Context) setDevicePixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	c.tess.SetDevicePixelRatio(ratio)
	if c.opts.tessTolerance > 0 {
		c.tess.TessTol = c.opts.tessTolerance
	}
	c.tess.Reset()
	c.devicePxRatio = ratio
}

// BeginFrame starts a frame for a window of the given size in logical
// pixels. devicePixelRatio is the ratio of framebuffer to window pixels.
// The state stack is reset to a single default state.
//
// If the previous frame was never ended it is cancelled, the new frame is
// started anyway, and ErrFrameActive is returned.
func (c *Context) BeginFrame(windowWidth, windowHeight, devicePixelRatio float32) error {
	var err error
	if c.inFrame {
		Logger().Warn("vg: BeginFrame inside a frame, cancelling previous frame")
		c.backend.Cancel()
		err = ErrFrameActive
	}

	c.states = c.states[:1]
	c.states[0] = defaultState()
	c.setDevicePixelRatio(devicePixelRatio)
	c.backend.Viewport(windowWidth, windowHeight, devicePixelRatio)

	c.stats = FrameStats{}
	c.inFrame = true
	return err
}

// CancelFrame discards everything drawn since BeginFrame.
func (c *Context) CancelFrame() error {
	if !c.inFrame {
		return ErrNoFrame
	}
	c.backend.Cancel()
	c.inFrame = false
	return nil
}

// EndFrame flushes the frame to the backend.
func (c *Context) EndFrame() error {
	if !c.inFrame {
		return ErrNoFrame
	}
	c.backend.Flush()
	c.inFrame = false
	c.compactFontImages()

	Logger().Debug("vg: frame",
		"calls", c.stats.DrawCalls,
		"fill_tris", c.stats.FillTriangles,
		"stroke_tris", c.stats.StrokeTriangles,
		"text_tris", c.stats.TextTriangles)
	return nil
}

// compactFontImages keeps the atlas texture used last as the first font
// image and releases older ones smaller than it.
func (c *Context) compactFontImages() {
	if c.fontImageIdx == 0 {
		return
	}
	fontImage := c.fontImages[c.fontImageIdx]
	c.fontImages[c.fontImageIdx] = 0
	if fontImage == 0 {
		return
	}
	iw, ih, _ := c.backend.TextureSize(fontImage)

	j := 0
	for i := 0; i < c.fontImageIdx; i++ {
		img := c.fontImages[i]
		if img == 0 {
			continue
		}
		c.fontImages[i] = 0
		nw, nh, _ := c.backend.TextureSize(img)
		if nw < iw || nh < ih {
			if err := c.backend.DeleteTexture(img); err != nil {
				Logger().Warn("vg: delete font image", "image", img, "err", err)
			}
		} else {
			c.fontImages[j] = img
			j++
		}
	}
	c.fontImages[j] = c.fontImages[0]
	c.fontImages[0] = fontImage
	c.fontImageIdx = 0
}

// Stats returns the counters of the current or last frame.
func (c *Context) Stats() FrameStats { return c.stats }

// Delete releases every texture the context owns, except images created
// with ImageNoDelete, and then the backend. The context must not be used
// afterwards.
func (c *Context) Delete() {
	if c.closed {
		return
	}
	c.closed = true
	if c.inFrame {
		c.backend.Cancel()
		c.inFrame = false
	}

	var errs []error
	for i, img := range c.fontImages {
		if img != 0 {
			errs = append(errs, c.backend.DeleteTexture(img))
			c.fontImages[i] = 0
		}
	}
	c.images.each(func(handle int, s *imageSlot) {
		if s.flags&ImageNoDelete == 0 {
			errs = append(errs, c.backend.DeleteTexture(s.tex))
		}
	})
	c.images = imageTable{}

	if err := errors.Join(errs...); err != nil {
		Logger().Warn("vg: texture release failed", "err", err)
	}
	c.backend.Delete()
}

// Close implements io.Closer by calling Delete.
func (c *Context) Close() error {
	c.Delete()
	return nil
}
