package codec

import (
	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// Codec is the capability set every supported container format
// implements.
//
// All three operations are short-lived and self-contained: each call
// opens the file fresh, performs exactly one read or one mutation,
// persists immediately, and retains nothing. A failed write means no
// change was applied; there are no partial or deferred writes.
type Codec interface {
	// Kind returns the container format this codec handles.
	Kind() format.Kind

	// Read parses the container's tag structure into a normalized
	// snapshot. Fields absent from the container are unset, never
	// empty strings.
	Read(path string) (model.Tags, error)

	// WriteField sets exactly one field to value and persists. The
	// value is stored verbatim; no length, charset or year-format
	// validation is applied. Other fields and pictures are untouched.
	WriteField(path string, field model.Field, value string) error

	// WriteCover removes every pre-existing embedded picture and
	// inserts the given one, so the container afterwards holds exactly
	// one cover.
	WriteCover(path string, pic model.Picture) error
}

// codecs is the closed dispatch table, one entry per format.Kind.
var codecs = map[format.Kind]Codec{
	format.MP3:       &mp3Codec{},
	format.FLAC:      &flacCodec{},
	format.MP4:       &mp4Codec{},
	format.OggVorbis: &oggCodec{kind: format.OggVorbis},
	format.OggOpus:   &oggCodec{kind: format.OggOpus},
}

// For returns the codec handling the given format kind.
func For(kind format.Kind) (Codec, error) {
	c, ok := codecs[kind]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return c, nil
}
