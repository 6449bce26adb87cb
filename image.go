package vg

import (
	"fmt"

	"github.com/gogpu/vg/internal/imageio"
)

// CreateImage loads an image file and uploads it as an RGBA texture.
// PNG, JPEG, GIF, BMP, TIFF and WebP files are supported. The returned
// handle is 0 on error.
func (c *Context) CreateImage(path string, flags ImageFlags) (int, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return 0, fmt.Errorf("vg: create image %q: %w", path, err)
	}
	return c.CreateImageRGBA(img.Width, img.Height, flags, img.Pix)
}

// CreateImageMem decodes an in-memory image file.
func (c *Context) CreateImageMem(flags ImageFlags, data []byte) (int, error) {
	img, err := imageio.DecodeBytes(data)
	if err != nil {
		return 0, fmt.Errorf("vg: create image: %w", err)
	}
	return c.CreateImageRGBA(img.Width, img.Height, flags, img.Pix)
}

// CreateImageRGBA uploads w*h straight alpha RGBA8 pixels. data may be nil
// to create an uninitialized image.
//
// The context only tracks textures the backend reports with a positive id
// and no error. Anything a failing CreateTexture allocated stays owned by
// the backend and is never passed to DeleteTexture.
func (c *Context) CreateImageRGBA(w, h int, flags ImageFlags, data []byte) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("%w: size %dx%d", ErrInvalidImage, w, h)
	}
	if data != nil && len(data) < w*h*4 {
		return 0, fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidImage, len(data), w, h)
	}
	tex, err := c.backend.CreateTexture(TextureRGBA, w, h, flags, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBackendTexture, err)
	}
	if tex <= 0 {
		Logger().Warn("vg: backend returned an invalid texture id", "id", tex)
		return 0, fmt.Errorf("%w: texture id %d", ErrBackendTexture, tex)
	}
	return c.images.add(imageSlot{tex: tex, w: w, h: h, flags: flags, typ: TextureRGBA}), nil
}

// UpdateImage replaces all pixels of image.
func (c *Context) UpdateImage(image int, data []byte) error {
	s, ok := c.images.get(image)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidImage, image)
	}
	if len(data) < s.w*s.h*s.typ.BytesPerPixel() {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidImage, len(data), s.w, s.h)
	}
	if err := c.backend.UpdateTexture(s.tex, 0, 0, s.w, s.h, data); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendTexture, err)
	}
	return nil
}

// ImageSize returns the dimensions of image as reported by the backend.
func (c *Context) ImageSize(image int) (w, h int, err error) {
	s, ok := c.images.get(image)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidImage, image)
	}
	w, h, err = c.backend.TextureSize(s.tex)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrBackendTexture, err)
	}
	return w, h, nil
}

// DeleteImage releases image. The handle may be reissued afterwards.
// When the backend fails to delete the texture the handle stays valid,
// so the call can be retried.
func (c *Context) DeleteImage(image int) error {
	s, ok := c.images.get(image)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidImage, image)
	}
	if err := c.backend.DeleteTexture(s.tex); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendTexture, err)
	}
	c.images.remove(image)
	return nil
}
