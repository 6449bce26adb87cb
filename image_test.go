package vg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/gogpu/vg/internal/imageio"
)

func TestImageHandles(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	pix := make([]byte, 4*4*4)

	var handles []int
	for range 3 {
		h, err := ctx.CreateImageRGBA(4, 4, 0, pix)
		if err != nil {
			t.Fatalf("CreateImageRGBA: %v", err)
		}
		handles = append(handles, h)
	}
	if handles[0] != 1 || handles[1] != 2 || handles[2] != 3 {
		t.Fatalf("handles = %v, want 1 2 3", handles)
	}

	if err := ctx.DeleteImage(handles[0]); err != nil {
		t.Fatal(err)
	}
	if err := ctx.DeleteImage(handles[1]); err != nil {
		t.Fatal(err)
	}
	if len(rec.deleted) != 2 {
		t.Errorf("backend deleted %v", rec.deleted)
	}

	h, _ := ctx.CreateImageRGBA(4, 4, 0, pix)
	if h != 1 {
		t.Errorf("reused handle = %d, want lowest free slot 1", h)
	}
	if ctx.images.len() != 2 {
		t.Errorf("live images = %d, want 2", ctx.images.len())
	}
}

func TestCreateImageErrors(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)

	tests := []struct {
		name string
		w, h int
		data []byte
		want error
	}{
		{"zero size", 0, 4, nil, ErrInvalidImage},
		{"short data", 4, 4, make([]byte, 10), ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ctx.CreateImageRGBA(tt.w, tt.h, 0, tt.data)
			if h != 0 || !errors.Is(err, tt.want) {
				t.Errorf("got (%d, %v), want (0, %v)", h, err, tt.want)
			}
		})
	}

	rec.textureErr = errors.New("out of memory")
	if _, err := ctx.CreateImageRGBA(2, 2, 0, nil); !errors.Is(err, ErrBackendTexture) {
		t.Errorf("backend failure = %v, want ErrBackendTexture", err)
	}

	rec.textureErr = nil
	rec.badID = true
	if h, err := ctx.CreateImageRGBA(2, 2, 0, nil); h != 0 || !errors.Is(err, ErrBackendTexture) {
		t.Errorf("invalid texture id = (%d, %v), want (0, ErrBackendTexture)", h, err)
	}
	rec.badID = false

	if _, err := ctx.CreateImageMem(0, []byte("not an image")); err == nil {
		t.Error("garbage data decoded")
	}
	if err := ctx.DeleteImage(42); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("DeleteImage(42) = %v", err)
	}
}

func TestDeleteImageFailureKeepsHandle(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	img, err := ctx.CreateImageRGBA(2, 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec.deleteErr = errors.New("device lost")
	if err := ctx.DeleteImage(img); !errors.Is(err, ErrBackendTexture) {
		t.Fatalf("DeleteImage = %v, want ErrBackendTexture", err)
	}
	if _, _, err := ctx.ImageSize(img); err != nil {
		t.Errorf("handle released after failed delete: %v", err)
	}
	rec.deleteErr = nil
	if err := ctx.DeleteImage(img); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, _, err := ctx.ImageSize(img); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("ImageSize after delete = %v, want ErrInvalidImage", err)
	}
}

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCreateImageFromFile(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	data := encodePNG(t, 3, 2, color.NRGBA{R: 255, A: 128})

	h, err := ctx.CreateImageMem(ImageRepeatX, data)
	if err != nil {
		t.Fatalf("CreateImageMem: %v", err)
	}
	tex := rec.textures[ctx.images.slots[h-1].tex]
	if tex.w != 3 || tex.h != 2 || tex.typ != TextureRGBA || tex.flags != ImageRepeatX {
		t.Errorf("texture = %+v", tex)
	}
	// Pixels stay straight alpha.
	if tex.data[0] != 255 || tex.data[3] != 128 {
		t.Errorf("first pixel = %v", tex.data[:4])
	}

	path := filepath.Join(t.TempDir(), "img.png")
	img, _ := imageio.DecodeBytes(data)
	if err := imageio.SavePNG(path, img.NRGBA()); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.CreateImage(path, 0); err != nil {
		t.Errorf("CreateImage: %v", err)
	}
	if _, err := ctx.CreateImage(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Error("missing file loaded")
	}
}

func TestUpdateImageAndSize(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	h, _ := ctx.CreateImageRGBA(2, 2, 0, nil)

	w, hh, err := ctx.ImageSize(h)
	if err != nil || w != 2 || hh != 2 {
		t.Errorf("ImageSize = %d, %d, %v", w, hh, err)
	}

	pix := bytes.Repeat([]byte{9}, 16)
	if err := ctx.UpdateImage(h, pix); err != nil {
		t.Fatalf("UpdateImage: %v", err)
	}
	if rec.updates != 1 || rec.textures[ctx.images.slots[h-1].tex].data[5] != 9 {
		t.Error("update did not reach the backend")
	}
	if err := ctx.UpdateImage(h, pix[:3]); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("short update = %v", err)
	}
	if _, _, err := ctx.ImageSize(7); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("ImageSize(7) = %v", err)
	}
}

func TestPaintImageResolvedToTexture(t *testing.T) {
	ctx, rec := newRecordedContext(t, 0)
	beginFrame(t, ctx)
	h, _ := ctx.CreateImageRGBA(8, 8, 0, nil)
	tex := ctx.images.slots[h-1].tex

	ctx.FillPaint(ImagePattern(0, 0, 8, 8, 0, h, 1))
	ctx.Rect(0, 0, 8, 8)
	ctx.Fill()
	if got := rec.Calls[0].Paint.Image; got != tex {
		t.Errorf("paint image = %d, want texture %d", got, tex)
	}
	if ctx.state().fill.Image != h {
		t.Error("state paint should keep the handle")
	}

	ctx.FillPaint(ImagePattern(0, 0, 8, 8, 0, 99, 1))
	ctx.Fill()
	if got := rec.Calls[1].Paint.Image; got != 0 {
		t.Errorf("unknown image resolved to %d, want 0", got)
	}
}
