package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"  // GIF decoder registration
	_ "image/png"  // PNG decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration

	"github.com/lovetheticx/musictag/internal/model"
)

// Default normalization parameters.
//
// Embedded-art consumers vary in decoder robustness, and many players
// reject oversized or unusual images. One bounded JPEG is the safe
// common denominator.
const (
	// DefaultMaxDimension is the longest side allowed after
	// normalization, in pixels.
	DefaultMaxDimension = 1000

	// DefaultJPEGQuality is the baseline JPEG encoding quality.
	DefaultJPEGQuality = 90
)

// Normalizer converts arbitrary input images into the one canonical
// embeddable form: an opaque baseline JPEG whose longer side does not
// exceed MaxDimension.
//
// Example:
//
//	n := artwork.NewNormalizer(1000, 90)
//	pic, err := n.Normalize(pngBytes)
//	// pic.MIME == "image/jpeg", max dimension <= 1000
type Normalizer struct {
	// MaxDimension is the pixel bound for the longer side. Images
	// already within the bound are never upscaled.
	MaxDimension int

	// Quality is the JPEG encoding quality (1-100).
	Quality int
}

// NewNormalizer creates a Normalizer. Non-positive arguments fall back
// to the defaults.
func NewNormalizer(maxDimension, quality int) *Normalizer {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	return &Normalizer{MaxDimension: maxDimension, Quality: quality}
}

// Normalize decodes raw image bytes and re-encodes them as the canonical
// cover picture.
//
// Steps, in order:
//  1. Decode (JPEG, PNG, GIF or WebP).
//  2. Flatten to full-color opaque RGB; alpha is composited over black.
//  3. If either dimension exceeds MaxDimension, downsample with
//     Catmull-Rom resampling, preserving aspect ratio, so the longer
//     side equals MaxDimension. Smaller images are left at their size.
//  4. Encode as baseline JPEG at Quality.
//
// Undecodable input returns an error and no picture.
func (n *Normalizer) Normalize(raw []byte) (model.Picture, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return model.Picture{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return model.Picture{}, fmt.Errorf("decode image: empty %dx%d image", width, height)
	}

	targetW, targetH := fitWithin(width, height, n.MaxDimension)

	// Flattening and scaling share one draw pass onto an RGBA canvas;
	// transparent source pixels composite over the zeroed (black)
	// canvas and the JPEG encoder drops the alpha channel.
	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.Quality}); err != nil {
		return model.Picture{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return model.Picture{
		MIME:        "image/jpeg",
		Description: "Cover",
		Data:        buf.Bytes(),
	}, nil
}

// fitWithin returns the dimensions scaled to fit inside max x max while
// preserving aspect ratio. Dimensions already within the bound are
// returned unchanged.
func fitWithin(width, height, max int) (int, int) {
	if width <= max && height <= max {
		return width, height
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = max
		height = int(float64(max) / ratio)
	} else {
		height = max
		width = int(float64(max) * ratio)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
