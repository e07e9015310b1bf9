// Package codec reads and writes tag metadata for each supported
// audio container.
//
// # Codecs
//
// A Codec handles one container format. For returns the codec for a
// detected format.Kind:
//
//	c, err := codec.For(format.MP3)
//	tags, err := c.Read("song.mp3")
//	err = c.WriteField("song.mp3", model.FieldTitle, "New Title")
//	err = c.WriteCover("song.mp3", pic)
//
// MP3 files use ID3v2 text frames and an attached-picture frame.
// FLAC files use Vorbis comment and PICTURE metadata blocks. MP4/M4A
// files use ilst item atoms under moov.udta.meta. Ogg Vorbis and Ogg
// Opus share a Vorbis-comment codec that repaginates the header
// packets in place.
//
// # Errors
//
// Read failures wrap into ReadError and write failures into
// WriteError, both carrying the path and format. ErrUnsupportedFormat
// and ErrInvalidField are sentinels suitable for errors.Is.
//
// All writes go through a temp file in the target directory followed
// by a rename, so a failed write leaves the original untouched.
package codec
