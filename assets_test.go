package partyhub

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return &buf
}

func TestNormalizeAssetSmallImagePassesThrough(t *testing.T) {
	ref, err := NormalizeAsset(encodeTestPNG(t, 400, 300), "small.png")
	if err != nil {
		t.Fatalf("NormalizeAsset: %v", err)
	}
	if ref.Width != 400 || ref.Height != 300 {
		t.Errorf("dimensions = %dx%d, want 400x300", ref.Width, ref.Height)
	}
	if ref.MimeType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", ref.MimeType)
	}
	if ref.Filename != "small.png" {
		t.Errorf("filename = %q", ref.Filename)
	}
}

func TestNormalizeAssetDownscalesWideImage(t *testing.T) {
	ref, err := NormalizeAsset(encodeTestPNG(t, 2160, 1080), "wide.png")
	if err != nil {
		t.Fatalf("NormalizeAsset: %v", err)
	}
	if ref.Width != 1080 {
		t.Errorf("width = %d, want 1080", ref.Width)
	}
	if ref.Height != 540 {
		t.Errorf("height = %d, want aspect-preserving 540", ref.Height)
	}
}

func TestNormalizeAssetDataAndPreviewTogether(t *testing.T) {
	ref, err := NormalizeAsset(encodeTestPNG(t, 100, 100), "tiny.png")
	if err != nil {
		t.Fatalf("NormalizeAsset: %v", err)
	}
	if len(ref.Data) == 0 {
		t.Fatalf("no normalized bytes")
	}
	if !strings.HasPrefix(ref.Preview, "data:image/jpeg;base64,") {
		t.Errorf("preview = %.40q, want jpeg data URI", ref.Preview)
	}
}

func TestNormalizeAssetRejectsGarbage(t *testing.T) {
	_, err := NormalizeAsset(strings.NewReader("definitely not an image"), "junk.bin")
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeAssetRoundTrip(t *testing.T) {
	ref, err := NormalizeAsset(encodeTestPNG(t, 64, 48), "rt.png")
	if err != nil {
		t.Fatalf("NormalizeAsset: %v", err)
	}
	img, err := DecodeAsset(ref)
	if err != nil {
		t.Fatalf("DecodeAsset: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("decoded bounds = %v, want 64x48", b)
	}
}
