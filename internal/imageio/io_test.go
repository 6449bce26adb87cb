package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.SetNRGBA(1, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeBytes(t *testing.T) {
	img, err := DecodeBytes(encodeTestPNG(t))
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if img.Width != 4 || img.Height != 3 || len(img.Pix) != 4*4*3 {
		t.Fatalf("decoded %dx%d with %d bytes", img.Width, img.Height, len(img.Pix))
	}
	off := (2*4 + 1) * 4
	if got := img.Pix[off : off+4]; !bytes.Equal(got, []byte{200, 100, 50, 128}) {
		t.Errorf("pixel = %v, want straight alpha 200,100,50,128", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("empty: %v", err)
	}
	if _, err := DecodeBytes([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("garbage: %v", err)
	}
}

func TestFromStdImageConvertsGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	g.SetGray(1, 1, color.Gray{Y: 90})
	img := FromStdImage(g)
	if got := img.Pix[12:16]; !bytes.Equal(got, []byte{90, 90, 90, 255}) {
		t.Errorf("gray pixel = %v", got)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	if err := os.WriteFile(path, encodeTestPNG(t), 0o600); err != nil {
		t.Fatal(err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out := filepath.Join(dir, "out.png")
	if err := SavePNG(out, img.NRGBA()); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Pix, img.Pix) {
		t.Error("PNG round trip changed pixels")
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestPremultiply(t *testing.T) {
	pix := []byte{255, 128, 0, 128, 10, 20, 30, 255}
	Premultiply(pix)
	want := []byte{128, 64, 0, 128, 10, 20, 30, 255}
	if !bytes.Equal(pix, want) {
		t.Errorf("Premultiply = %v, want %v", pix, want)
	}
}
