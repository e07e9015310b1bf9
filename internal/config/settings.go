package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// WorkDir is where session workspaces are created. Empty means the
	// system temporary directory.
	WorkDir string `json:"work_dir"`

	// CoverMaxSize is the pixel bound for the longer side of embedded
	// cover art.
	CoverMaxSize int `json:"cover_max_size"`

	// CoverJPEGQuality is the JPEG quality used when re-encoding
	// cover art (1-100).
	CoverJPEGQuality int `json:"cover_jpeg_quality"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		WorkDir:          "",
		CoverMaxSize:     1000,
		CoverJPEGQuality: 90,
		Verbose:          false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file yields the defaults; a malformed file is an error.
// Fields absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
