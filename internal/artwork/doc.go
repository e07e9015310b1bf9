// Package artwork normalizes user-supplied images into embeddable
// cover art.
//
// # Normalization
//
// Normalize decodes JPEG, PNG, GIF or WebP input, scales it down so
// the longest side is at most MaxDimension (never upscaling), and
// re-encodes the result as baseline JPEG:
//
//	n := artwork.NewNormalizer(0, 0) // defaults: 1000px, quality 90
//	pic, err := n.Normalize(rawImageBytes)
//	// pic.MIME == "image/jpeg", longest side <= 1000px
//
// Every codec embeds the normalized Picture as-is, so cover art is
// byte-identical across container formats for the same input.
package artwork
