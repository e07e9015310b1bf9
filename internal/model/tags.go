package model

import "fmt"

// NotSetDisplay is the presentation-layer rendering of an absent tag value.
//
// It is never stored inside a container and never compared against tag
// contents: a file whose title is literally "Not set" round-trips intact.
const NotSetDisplay = "Not set"

// TagValue is an optional tag string.
//
// A tag field read from a container is either present (Set is true, Value
// holds the stored string, possibly empty) or absent. The two cases are
// kept apart so that an empty-but-present value survives a round trip.
//
// Example:
//
//	title := model.SetValue("Midnight")
//	title.Display() // "Midnight"
//
//	missing := model.Unset()
//	missing.Display() // "Not set"
type TagValue struct {
	// Value is the stored string. Meaningful only when Set is true.
	Value string

	// Set reports whether the field exists in the container at all.
	Set bool
}

// SetValue returns a present TagValue holding v.
func SetValue(v string) TagValue {
	return TagValue{Value: v, Set: true}
}

// Unset returns an absent TagValue.
func Unset() TagValue {
	return TagValue{}
}

// Display renders the value for user-facing output.
//
// Absent values render as NotSetDisplay. This is the only place the
// "Not set" text exists; internal code compares Set, never the string.
func (v TagValue) Display() string {
	if !v.Set {
		return NotSetDisplay
	}
	return v.Value
}

// Tags is the normalized view of one audio file's metadata.
//
// Tags is a pure snapshot: it is produced by a single read operation and
// never mutated. After any write, callers re-read the file to observe the
// new state.
type Tags struct {
	// Title is the track title.
	Title TagValue

	// Artist is the lead performer.
	Artist TagValue

	// Album is the album title.
	Album TagValue

	// Year is the release date or year, stored verbatim.
	Year TagValue

	// Genre is the genre text, stored verbatim.
	Genre TagValue

	// HasCover reports whether the container carries at least one
	// embedded picture, using each format's own picture convention.
	HasCover bool
}

// Get returns the value snapshot for one field.
func (t Tags) Get(f Field) TagValue {
	switch f {
	case FieldTitle:
		return t.Title
	case FieldArtist:
		return t.Artist
	case FieldAlbum:
		return t.Album
	case FieldYear:
		return t.Year
	case FieldGenre:
		return t.Genre
	}
	return Unset()
}

// Field identifies one of the five editable tag fields.
//
// The set is closed: every container format maps each Field to exactly
// one format-specific storage key, and no custom fields exist.
type Field int

const (
	// FieldTitle is the track title (ID3 TIT2, Vorbis TITLE, MP4 ©nam).
	FieldTitle Field = iota

	// FieldArtist is the lead performer (ID3 TPE1, Vorbis ARTIST, MP4 ©ART).
	FieldArtist

	// FieldAlbum is the album title (ID3 TALB, Vorbis ALBUM, MP4 ©alb).
	FieldAlbum

	// FieldYear is the release date (ID3 TDRC, Vorbis DATE, MP4 ©day).
	FieldYear

	// FieldGenre is the genre text (ID3 TCON, Vorbis GENRE, MP4 ©gen).
	FieldGenre
)

// Fields lists every editable field in display order.
func Fields() []Field {
	return []Field{FieldTitle, FieldArtist, FieldAlbum, FieldYear, FieldGenre}
}

// String returns the lowercase field name used by the CLI and in logs.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldArtist:
		return "artist"
	case FieldAlbum:
		return "album"
	case FieldYear:
		return "year"
	case FieldGenre:
		return "genre"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Valid reports whether f is one of the five known fields.
func (f Field) Valid() bool {
	return f >= FieldTitle && f <= FieldGenre
}

// ParseField maps a lowercase field name to its Field.
//
// The second return value is false for any name outside the closed set.
func ParseField(name string) (Field, bool) {
	switch name {
	case "title":
		return FieldTitle, true
	case "artist":
		return FieldArtist, true
	case "album":
		return FieldAlbum, true
	case "year":
		return FieldYear, true
	case "genre":
		return FieldGenre, true
	}
	return Field(-1), false
}

// Picture is a normalized embedded cover image.
//
// After normalization the payload is always a baseline JPEG, the MIME
// type "image/jpeg", the description "Cover", and the semantic role is
// front cover. Each codec translates this one shape into its container's
// native picture structure.
type Picture struct {
	// MIME is the payload MIME type.
	MIME string

	// Description is the short text attached to the picture.
	Description string

	// Data is the encoded image payload.
	Data []byte
}
