// Package imageio decodes image files into the tightly packed RGBA8
// pixels accepted by vg image creation, and encodes rendered frames.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned when no registered codec recognises the data.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// Image is decoded non-premultiplied RGBA8 pixel data, row-major with a
// stride of 4*Width.
type Image struct {
	Width, Height int
	Pix           []byte
}

// Load decodes the image file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// DecodeBytes decodes an in-memory image file.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image, detecting the format from its header.
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// FromStdImage converts any image.Image to straight-alpha RGBA8.
func FromStdImage(img image.Image) *Image {
	b := img.Bounds()
	out := &Image{Width: b.Dx(), Height: b.Dy()}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == 4*out.Width {
		out.Pix = append([]byte(nil), nrgba.Pix[:4*out.Width*out.Height]...)
		return out
	}

	dst := image.NewNRGBA(image.Rect(0, 0, out.Width, out.Height))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	out.Pix = dst.Pix
	return out
}

// NRGBA wraps the pixels in an *image.NRGBA without copying.
func (m *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: 4 * m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// Premultiply multiplies the color channels of pix by alpha in place.
func Premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint16(pix[i+3])
		pix[i] = byte(uint16(pix[i]) * a / 255)
		pix[i+1] = byte(uint16(pix[i+1]) * a / 255)
		pix[i+2] = byte(uint16(pix[i+2]) * a / 255)
	}
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := WritePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
