package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodePNG renders a solid-color PNG of the given size.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 60, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not decodable JPEG: %v", err)
	}
	return img
}

func TestNormalizer_DownsamplesLargeImage(t *testing.T) {
	n := NewNormalizer(0, 0)

	pic, err := n.Normalize(encodePNG(t, 2000, 1000))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if pic.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", pic.MIME)
	}

	img := decodeJPEG(t, pic.Data)
	bounds := img.Bounds()
	if bounds.Dx() != 1000 {
		t.Errorf("width = %d, want 1000", bounds.Dx())
	}
	// Aspect ratio 2:1 preserved.
	if bounds.Dy() != 500 {
		t.Errorf("height = %d, want 500", bounds.Dy())
	}
}

func TestNormalizer_TallImage(t *testing.T) {
	n := NewNormalizer(0, 0)

	pic, err := n.Normalize(encodePNG(t, 600, 2400))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img := decodeJPEG(t, pic.Data)
	bounds := img.Bounds()
	if bounds.Dy() != 1000 {
		t.Errorf("height = %d, want 1000", bounds.Dy())
	}
	if bounds.Dx() != 250 {
		t.Errorf("width = %d, want 250", bounds.Dx())
	}
}

func TestNormalizer_NeverUpscales(t *testing.T) {
	n := NewNormalizer(0, 0)

	pic, err := n.Normalize(encodePNG(t, 50, 40))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img := decodeJPEG(t, pic.Data)
	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 40 {
		t.Errorf("got %dx%d, want 50x40", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizer_AcceptsJPEGInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 30))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	n := NewNormalizer(0, 0)
	pic, err := n.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if pic.Description != "Cover" {
		t.Errorf("Description = %q, want Cover", pic.Description)
	}
	decodeJPEG(t, pic.Data)
}

func TestNormalizer_RejectsGarbage(t *testing.T) {
	n := NewNormalizer(0, 0)
	if _, err := n.Normalize([]byte("definitely not an image")); err == nil {
		t.Error("garbage input should fail")
	}
	if _, err := n.Normalize(nil); err == nil {
		t.Error("empty input should fail")
	}
}

func TestNormalizer_CustomBound(t *testing.T) {
	n := NewNormalizer(100, 50)

	pic, err := n.Normalize(encodePNG(t, 400, 400))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img := decodeJPEG(t, pic.Data)
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Errorf("got %dx%d, want 100x100", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{500, 500, 1000, 500, 500},
		{1000, 1000, 1000, 1000, 1000},
		{2000, 1000, 1000, 1000, 500},
		{1000, 2000, 1000, 500, 1000},
		{3000, 1, 1000, 1000, 1},
	}
	for _, c := range cases {
		w, h := fitWithin(c.w, c.h, c.max)
		if w != c.wantW || h != c.wantH {
			t.Errorf("fitWithin(%d, %d, %d) = %d, %d; want %d, %d",
				c.w, c.h, c.max, w, h, c.wantW, c.wantH)
		}
	}
}
