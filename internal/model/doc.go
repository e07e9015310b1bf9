// Package model defines the normalized data types shared by every
// container codec.
//
// # Tag Snapshot
//
// Tags is a read-only snapshot of the five editable text fields plus
// whether the file carries embedded cover art:
//
//	tags, err := editor.ReadTags("song.flac")
//	fmt.Println(tags.Title.Display()) // "Not set" when the field is absent
//	fmt.Println(tags.HasCover)
//
// TagValue distinguishes a field that is present but empty from one
// that is absent entirely. Display renders absent values as "Not set";
// code that needs the raw value reads Value and Set directly.
//
// # Fields
//
// Field is the closed enum of editable fields. ParseField maps the
// user-facing names ("title", "artist", "album", "year", "genre") to
// Field values:
//
//	f, err := model.ParseField("artist")
//	tags.Get(f) // TagValue for that field
//
// # Pictures
//
// Picture holds a decoded cover image ready for embedding: MIME type,
// description, and the encoded bytes.
package model
