// Package imaging normalizes item photos before they are stored.
// Uploads arrive straight from phone cameras via the QR scanner flow, so
// they are sniffed, bounded, and re-encoded rather than stored as-is.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension bounds the stored width and height of an item photo.
const MaxDimension = 1024

const jpegQuality = 85

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ProcessResult is a normalized photo ready for storage.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Process validates an uploaded photo, shrinks it to fit MaxDimension,
// and re-encodes it as JPEG. The input type is detected from the bytes;
// the client's Content-Type is ignored. Only JPEG and PNG are accepted.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	if detected := http.DetectContentType(data); !allowedTypes[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	if b := img.Bounds(); b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = shrink(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	return &ProcessResult{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// shrink scales the image down so its longer side equals MaxDimension,
// keeping the aspect ratio. Catmull-Rom keeps text on asset tags legible.
func shrink(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := float64(MaxDimension) / float64(max(w, h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
