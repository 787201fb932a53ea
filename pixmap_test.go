package enhance

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// TestNewPixmapInvalidDimensions verifies dimension validation.
func TestNewPixmapInvalidDimensions(t *testing.T) {
	for _, d := range []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 10}, {10, -1}} {
		if _, err := NewPixmap(d.w, d.h); err != ErrInvalidDimensions {
			t.Errorf("NewPixmap(%d, %d): got %v, want ErrInvalidDimensions", d.w, d.h, err)
		}
	}
}

// TestPixmapGetSetRGBA tests the pixel accessors.
func TestPixmapGetSetRGBA(t *testing.T) {
	pm, err := NewPixmap(10, 10)
	if err != nil {
		t.Fatalf("NewPixmap: %v", err)
	}

	pm.SetRGBA(5, 5, 128, 64, 32, 255)
	r, g, b, a := pm.GetRGBA(5, 5)
	if r != 128 || g != 64 || b != 32 || a != 255 {
		t.Errorf("GetRGBA: got (%d, %d, %d, %d), want (128, 64, 32, 255)", r, g, b, a)
	}

	// Out-of-bounds reads return zero, writes are ignored.
	if r, g, b, a := pm.GetRGBA(-1, 0); r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("out-of-bounds GetRGBA: got (%d, %d, %d, %d), want zeros", r, g, b, a)
	}
	original := make([]uint8, len(pm.Data()))
	copy(original, pm.Data())
	for _, c := range []struct{ x, y int }{{-1, 5}, {10, 5}, {5, -1}, {5, 10}} {
		pm.SetRGBA(c.x, c.y, 255, 0, 0, 255)
	}
	if !bytes.Equal(pm.Data(), original) {
		t.Error("out-of-bounds SetRGBA modified data")
	}
}

// TestPixmapClone verifies clones share no storage with the original.
func TestPixmapClone(t *testing.T) {
	pm, _ := NewPixmap(4, 4)
	pm.Fill(10, 20, 30, 255)

	clone := pm.Clone()
	clone.SetRGBA(0, 0, 99, 99, 99, 99)

	if r, _, _, _ := pm.GetRGBA(0, 0); r != 10 {
		t.Errorf("clone write leaked into original: got r=%d, want 10", r)
	}
}

// TestFromImageNRGBA verifies the fast path copies pixel-exactly.
func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	pm := FromImage(img)
	if pm.Width() != 3 || pm.Height() != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", pm.Width(), pm.Height())
	}
	r, g, b, a := pm.GetRGBA(1, 1)
	if r != 200 || g != 100 || b != 50 || a != 128 {
		t.Errorf("pixel: got (%d, %d, %d, %d), want (200, 100, 50, 128)", r, g, b, a)
	}
}

// TestFromImageGenericMatchesFastPath verifies the generic conversion path
// produces the same bytes as the NRGBA fast path for fully opaque pixels.
func TestFromImageGenericMatchesFastPath(t *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), B: 77, A: 255}
			nrgba.SetNRGBA(x, y, c)
			rgba.Set(x, y, c)
		}
	}

	fast := FromImage(nrgba)
	generic := FromImage(rgba)
	if !bytes.Equal(fast.Data(), generic.Data()) {
		t.Error("generic conversion differs from NRGBA fast path")
	}
}

// TestToImageRoundTrip verifies pixmap -> NRGBA -> pixmap is lossless.
func TestToImageRoundTrip(t *testing.T) {
	pm, _ := NewPixmap(5, 3)
	pm.SetRGBA(2, 1, 1, 2, 3, 4)
	pm.SetRGBA(4, 2, 250, 251, 252, 253)

	back := FromImage(pm.ToImage())
	if !bytes.Equal(pm.Data(), back.Data()) {
		t.Error("ToImage round trip lost data")
	}
}

// TestEncodeJPEGBytes verifies the encoder emits a decodable JPEG with the
// source dimensions.
func TestEncodeJPEGBytes(t *testing.T) {
	pm, _ := NewPixmap(16, 9)
	pm.Fill(180, 120, 60, 255)

	data, err := pm.EncodeJPEGBytes(95)
	if err != nil {
		t.Fatalf("EncodeJPEGBytes: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format: got %q, want jpeg", format)
	}
	if cfg.Width != 16 || cfg.Height != 9 {
		t.Errorf("dimensions: got %dx%d, want 16x9", cfg.Width, cfg.Height)
	}
}
