package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestImage renders a solid-color image in the given format.
func encodeTestImage(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, img)
	default:
		t.Fatalf("unknown format %q", format)
	}
	if err != nil {
		t.Fatalf("encoding %s: %v", format, err)
	}
	return buf.Bytes()
}

func resultBounds(t *testing.T, data []byte) image.Rectangle {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img.Bounds()
}

func TestProcessAcceptedFormats(t *testing.T) {
	for _, format := range []string{"jpeg", "png"} {
		data := encodeTestImage(t, format, 120, 80)
		result, err := Process(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Process %s: %v", format, err)
		}
		// All photos are stored as JPEG regardless of input type.
		if result.MIME != "image/jpeg" {
			t.Errorf("%s: expected image/jpeg output, got %s", format, result.MIME)
		}
		if len(result.Data) == 0 {
			t.Errorf("%s: expected non-empty output", format)
		}
	}
}

func TestProcessShrinksOversizedPhoto(t *testing.T) {
	data := encodeTestImage(t, "jpeg", 3000, 1500)
	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	bounds := resultBounds(t, result.Data)
	if bounds.Dx() != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, bounds.Dx())
	}
	if bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected aspect ratio preserved (height %d), got %d", MaxDimension/2, bounds.Dy())
	}
}

func TestProcessKeepsSmallPhoto(t *testing.T) {
	data := encodeTestImage(t, "jpeg", 64, 48)
	result, err := Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	bounds := resultBounds(t, result.Data)
	if bounds.Dx() != 64 || bounds.Dy() != 48 {
		t.Errorf("small photo should keep its size, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("definitely not a photo"))); err == nil {
		t.Error("expected error for non-image input")
	}
}

func TestProcessRejectsGIF(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a\x01\x00\x01\x00"))); err == nil {
		t.Error("expected error for GIF input")
	}
}
