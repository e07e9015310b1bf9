// Package tagedit is the high-level entry point for reading and
// editing audio tags.
//
// # Editor
//
// Editor dispatches on the file extension and delegates to the
// matching container codec:
//
//	ed := tagedit.NewEditor(nil) // default artwork settings
//	tags, err := ed.ReadTags("song.ogg")
//	err = ed.WriteTag("song.ogg", model.FieldGenre, "Ambient")
//	err = ed.WriteCover("song.ogg", rawImageBytes)
//
// WriteCover normalizes the image (JPEG, longest side capped) before
// handing it to the codec, so callers pass raw image bytes in any
// supported encoding.
package tagedit
