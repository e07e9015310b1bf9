package tagedit

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lovetheticx/musictag/internal/artwork"
	"github.com/lovetheticx/musictag/internal/codec"
	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// Editor is the single entry point for tag and cover editing.
//
// Editor resolves the container format from the filename, dispatches to
// the matching per-format codec, and runs the image normalizer before
// any cover write. It holds no per-file state: every call opens the
// file fresh and persists before returning, so the Editor itself can be
// shared freely as long as no two calls target the same path at once
// (concurrent writers to one path are the caller's responsibility).
//
// Example:
//
//	editor := tagedit.NewEditor(nil)
//
//	tags, err := editor.ReadTags("/tmp/session-1/song.mp3")
//	err = editor.WriteTag("/tmp/session-1/song.mp3", model.FieldTitle, "Midnight")
//	err = editor.WriteCover("/tmp/session-1/song.mp3", pngBytes)
type Editor struct {
	normalizer *artwork.Normalizer
}

// NewEditor creates an Editor. A nil normalizer selects the default
// cover normalization (1000 px bound, JPEG quality 90).
func NewEditor(normalizer *artwork.Normalizer) *Editor {
	if normalizer == nil {
		normalizer = artwork.NewNormalizer(artwork.DefaultMaxDimension, artwork.DefaultJPEGQuality)
	}
	return &Editor{normalizer: normalizer}
}

// ReadTags parses the file's metadata into a normalized snapshot.
//
// A failed read makes the file unusable for the session; the returned
// error is ErrUnsupportedFormat or a *codec.ReadError.
func (e *Editor) ReadTags(path string) (model.Tags, error) {
	c, err := e.codecFor(path)
	if err != nil {
		return model.Tags{}, err
	}

	tags, err := c.Read(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Tag read failed")
		return model.Tags{}, err
	}
	log.Debug().
		Str("path", path).
		Stringer("format", c.Kind()).
		Bool("has_cover", tags.HasCover).
		Msg("Tags read")
	return tags, nil
}

// WriteTag sets one field to value and persists immediately.
//
// The value is stored verbatim; empty strings are accepted. Unknown
// fields are rejected with ErrInvalidField before any codec runs. A
// failed write applied no change; earlier writes in the same session
// remain, since every write commits independently.
func (e *Editor) WriteTag(path string, field model.Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %s", codec.ErrInvalidField, field)
	}
	c, err := e.codecFor(path)
	if err != nil {
		return err
	}

	if err := c.WriteField(path, field, value); err != nil {
		log.Debug().Err(err).Str("path", path).Stringer("field", field).Msg("Tag write failed")
		return err
	}
	log.Debug().
		Str("path", path).
		Stringer("format", c.Kind()).
		Stringer("field", field).
		Msg("Tag written")
	return nil
}

// WriteCover normalizes the raw image and embeds it as the only cover.
//
// Undecodable images surface as *codec.ImageError before the container
// is touched. After a successful write the container holds exactly one
// picture regardless of how many existed before.
func (e *Editor) WriteCover(path string, imageBytes []byte) error {
	c, err := e.codecFor(path)
	if err != nil {
		return err
	}

	pic, err := e.normalizer.Normalize(imageBytes)
	if err != nil {
		return &codec.ImageError{Err: err}
	}

	if err := c.WriteCover(path, pic); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Cover write failed")
		return err
	}
	log.Debug().
		Str("path", path).
		Stringer("format", c.Kind()).
		Int("cover_bytes", len(pic.Data)).
		Msg("Cover written")
	return nil
}

// codecFor resolves the codec for a path, translating unknown
// extensions into ErrUnsupportedFormat.
func (e *Editor) codecFor(path string) (codec.Codec, error) {
	kind, err := format.Detect(path)
	if err != nil {
		if errors.Is(err, format.ErrUnknownExtension) {
			return nil, fmt.Errorf("%w: %s", codec.ErrUnsupportedFormat, path)
		}
		return nil, err
	}
	return codec.For(kind)
}
