package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "tbrowse")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[reading]\nparasPerPage = 4\n\n[privacy]\nsafeMode = false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Reading.ParasPerPage != 4 {
		t.Errorf("parasPerPage = %d", cfg.Reading.ParasPerPage)
	}
	if cfg.Privacy.SafeMode {
		t.Error("explicit safeMode = false was dropped")
	}
	// Untouched sections keep their defaults.
	if cfg.Reading.MaxCharsPerBlock != 2000 || cfg.Search.Engine != "duck_lite" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if !cfg.Privacy.StripTracking {
		t.Error("stripTracking default lost")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "tbrowse")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("reading = [[["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.Search.Engine = "brave"
	cfg.Privacy.SafeMode = false
	cfg.Display.Theme = "night"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}
