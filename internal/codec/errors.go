package codec

import (
	"errors"
	"fmt"

	"github.com/lovetheticx/musictag/internal/format"
	"github.com/lovetheticx/musictag/internal/model"
)

// Sentinel errors surfaced before any codec touches a file.
var (
	// ErrUnsupportedFormat means the file's extension is outside the
	// supported set. The caller must not attempt to parse the file.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidField means the requested field is outside the closed
	// field set. Rejected before any codec is invoked.
	ErrInvalidField = errors.New("invalid tag field")
)

// ReadError wraps any failure to parse a container's tag structure.
//
// A ReadError makes the file unusable for the current session; it never
// implies a partial read.
type ReadError struct {
	Path   string
	Format format.Kind
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s tags from %s: %v", e.Format, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps any failure to persist a field or cover mutation.
//
// Each write commits independently, so a WriteError leaves previously
// applied writes intact and means the failed write applied no change.
type WriteError struct {
	Path   string
	Format format.Kind
	Field  model.Field // meaningful for field writes only
	Cover  bool
	Err    error
}

func (e *WriteError) Error() string {
	if e.Cover {
		return fmt.Sprintf("write %s cover to %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("write %s field %s to %s: %v", e.Format, e.Field, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ImageError wraps an undecodable or unprocessable cover image. The
// cover write is aborted before the container is touched.
type ImageError struct {
	Err error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("normalize cover image: %v", e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// readErr builds a ReadError unless err already is one.
func readErr(kind format.Kind, path string, err error) error {
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	return &ReadError{Path: path, Format: kind, Err: err}
}

// writeFieldErr builds a WriteError for a field write.
func writeFieldErr(kind format.Kind, path string, field model.Field, err error) error {
	return &WriteError{Path: path, Format: kind, Field: field, Err: err}
}

// writeCoverErr builds a WriteError for a cover write.
func writeCoverErr(kind format.Kind, path string, err error) error {
	return &WriteError{Path: path, Format: kind, Cover: true, Err: err}
}
