package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.CoverMaxSize != 1000 {
		t.Errorf("CoverMaxSize = %d, want 1000", s.CoverMaxSize)
	}
	if s.CoverJPEGQuality != 90 {
		t.Errorf("CoverJPEGQuality = %d, want 90", s.CoverJPEGQuality)
	}
	if s.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.CoverMaxSize != 1000 {
		t.Errorf("CoverMaxSize = %d, want default 1000", s.CoverMaxSize)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := DefaultSettings()
	s.CoverMaxSize = 800
	s.Verbose = true
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.CoverMaxSize != 800 {
		t.Errorf("CoverMaxSize = %d, want 800", loaded.CoverMaxSize)
	}
	if !loaded.Verbose {
		t.Error("Verbose should survive a round trip")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"cover_max_size": 640}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.CoverMaxSize != 640 {
		t.Errorf("CoverMaxSize = %d, want 640", s.CoverMaxSize)
	}
	if s.CoverJPEGQuality != 90 {
		t.Errorf("CoverJPEGQuality = %d, want default 90", s.CoverJPEGQuality)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed file should fail to load")
	}
}
