// Package config handles application settings persistence.
//
// Settings are stored as JSON. Load falls back to defaults when the
// file does not exist:
//
//	settings, err := config.Load("~/.config/musictag/settings.json")
//	settings.CoverMaxSize = 800
//	err = settings.Save("~/.config/musictag/settings.json")
package config
