package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies one of the five supported audio container formats.
type Kind int

const (
	// MP3 is an MPEG audio file carrying ID3v2 tags.
	MP3 Kind = iota

	// FLAC is a Free Lossless Audio Codec stream with Vorbis comments.
	FLAC

	// MP4 is an MPEG-4 audio container (.m4a) with iTunes-style atoms.
	MP4

	// OggVorbis is a Vorbis stream in an Ogg container.
	OggVorbis

	// OggOpus is an Opus stream in an Ogg container.
	OggOpus
)

// String returns the conventional name of the format.
func (k Kind) String() string {
	switch k {
	case MP3:
		return "MP3"
	case FLAC:
		return "FLAC"
	case MP4:
		return "MP4"
	case OggVorbis:
		return "Ogg Vorbis"
	case OggOpus:
		return "Ogg Opus"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every supported format.
func Kinds() []Kind {
	return []Kind{MP3, FLAC, MP4, OggVorbis, OggOpus}
}

// ErrUnknownExtension is returned by Detect for extensions outside the
// supported set. Callers must not attempt to parse such files.
var ErrUnknownExtension = fmt.Errorf("unknown audio file extension")

// extKinds maps lowercase file extensions to their Kind.
var extKinds = map[string]Kind{
	".mp3":  MP3,
	".flac": FLAC,
	".m4a":  MP4,
	".ogg":  OggVorbis,
	".opus": OggOpus,
}

// Detect maps a filename to its container Kind by extension alone.
//
// Matching is case-insensitive, so "song.MP3" and "song.mp3" both yield
// MP3. There is no content sniffing: a renamed file passes detection and
// fails later at parse time, which is the accepted trade-off because the
// caller only forwards files whose declared kind already passed this
// same check.
//
// Example:
//
//	kind, err := format.Detect("song.flac")
//	// kind == format.FLAC
//
//	_, err = format.Detect("song.wav")
//	// errors.Is(err, format.ErrUnknownExtension) == true
func Detect(filename string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := extKinds[ext]
	if !ok {
		return Kind(-1), fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
	}
	return kind, nil
}

// Supported reports whether the filename's extension belongs to a
// supported format.
func Supported(filename string) bool {
	_, err := Detect(filename)
	return err == nil
}
