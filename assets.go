package partyhub

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	maxAssetWidth = 1080
	jpegQuality   = 90
	maxUploadSize = 10 << 20 // 10MB
)

// NormalizeAsset decodes an uploaded image from src, downscales it to at
// most maxAssetWidth wide, and re-encodes it as JPEG. The returned
// AssetRef carries both the normalized bytes and the data URI preview,
// so a caller can never observe one without the other.
func NormalizeAsset(src io.Reader, originalName string) (*AssetRef, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Resize if wider than max
	if w > maxAssetWidth {
		newH := h * maxAssetWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxAssetWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxAssetWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	data := buf.Bytes()
	return &AssetRef{
		Filename: originalName,
		MimeType: "image/jpeg",
		Data:     data,
		Preview:  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Width:    w,
		Height:   h,
	}, nil
}

// DecodeAsset decodes the normalized JPEG bytes back into an image for
// rasterization. Always succeeds for an AssetRef produced by
// NormalizeAsset; a decode failure means the ref was built by hand.
func DecodeAsset(ref *AssetRef) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(ref.Data))
	if err != nil {
		return nil, fmt.Errorf("decode asset %q: %w", ref.Filename, err)
	}
	return img, nil
}
