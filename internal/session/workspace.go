package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lovetheticx/musictag/internal/codec"
	"github.com/lovetheticx/musictag/internal/format"
)

// Workspace is one editing session's private scratch directory.
//
// The hosting system hands the core raw file bytes and expects the
// mutated file back; Workspace is the piece in between. Each ingested
// file gets a unique name inside a per-session directory, which is what
// keeps concurrently running sessions from colliding on temporary
// paths — the core itself never guards against two writers on one path.
//
// Example:
//
//	ws, err := session.NewWorkspace("")
//	defer ws.Close()
//
//	path, err := ws.Ingest("song.flac", uploadedBytes)
//	// ... edit via tagedit.Editor ...
//	edited, err := ws.Export(path)
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh session directory under baseDir. An
// empty baseDir selects the system temporary directory.
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	dir, err := os.MkdirTemp(baseDir, "musictag-session-")
	if err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	log.Debug().Str("dir", dir).Msg("Session workspace created")
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Ingest stores raw audio bytes under a unique filename that keeps the
// original extension, and returns the path for editing.
//
// Files whose extension is outside the supported set are rejected with
// ErrUnsupportedFormat before anything is written, mirroring the
// detector contract: the transport layer must never hand an unsupported
// kind to a codec.
func (w *Workspace) Ingest(name string, data []byte) (string, error) {
	if !format.Supported(name) {
		return "", fmt.Errorf("%w: %s", codec.ErrUnsupportedFormat, name)
	}
	ext := strings.ToLower(filepath.Ext(name))

	f, err := os.CreateTemp(w.dir, "track-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create session file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write session file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close session file: %w", err)
	}

	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("File ingested")
	return path, nil
}

// Export reads the (possibly mutated) file back for returning to the
// caller.
func (w *Workspace) Export(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export session file: %w", err)
	}
	return data, nil
}

// Remove deletes one session file.
func (w *Workspace) Remove(path string) error {
	return os.Remove(path)
}

// Close removes the workspace directory and everything in it.
func (w *Workspace) Close() error {
	log.Debug().Str("dir", w.dir).Msg("Session workspace removed")
	return os.RemoveAll(w.dir)
}
