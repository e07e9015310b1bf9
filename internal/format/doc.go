// Package format detects the audio container of a file from its
// extension.
//
// # Detection
//
// Detect maps a filename to a container Kind, case-insensitively:
//
//	kind, err := format.Detect("Song.FLAC") // format.FLAC
//	kind, err = format.Detect("clip.wav")   // format.ErrUnknownExtension
//
// The recognized extensions are .mp3, .flac, .m4a, .ogg and .opus.
// Detection never inspects file contents; a mislabeled file surfaces
// as a parse error from the codec instead.
package format
