// Package config provides configuration loading for tbrowse using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Reading settings control pagination of document text.
type Reading struct {
	ParasPerPage     int `toml:"parasPerPage"`
	MaxCharsPerBlock int `toml:"maxCharsPerBlock"`
	LinksPerPage     int `toml:"linksPerPage"`
}

// Search settings.
type Search struct {
	Engine         string `toml:"engine"`
	ResultsPerPage int    `toml:"resultsPerPage"`
}

// Fetcher settings for HTTP fetching.
type Fetcher struct {
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	ChromePath     string `toml:"chromePath"`
}

// Privacy settings control link filtering.
type Privacy struct {
	SafeMode      bool `toml:"safeMode"`
	StripTracking bool `toml:"stripTracking"`
}

// Display settings.
type Display struct {
	Theme string `toml:"theme"` // "default" or "night"
}

// History settings.
type History struct {
	MaxEntries int `toml:"maxEntries"`
}

// Config is the main configuration struct.
type Config struct {
	Reading Reading `toml:"reading"`
	Search  Search  `toml:"search"`
	Fetcher Fetcher `toml:"fetcher"`
	Privacy Privacy `toml:"privacy"`
	Display Display `toml:"display"`
	History History `toml:"history"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Reading: Reading{
			ParasPerPage:     2,
			MaxCharsPerBlock: 2000,
			LinksPerPage:     5,
		},
		Search: Search{
			Engine:         "duck_lite",
			ResultsPerPage: 10,
		},
		Fetcher: Fetcher{
			UserAgent:      "Mozilla/5.0",
			TimeoutSeconds: 15,
			ChromePath:     "",
		},
		Privacy: Privacy{
			SafeMode:      true,
			StripTracking: true,
		},
		Display: Display{
			Theme: "default",
		},
		History: History{
			MaxEntries: 50,
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tbrowse"), nil
}

// Path returns the path to the user's config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Keys absent from the user's file keep their default values; a missing
// file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the user's config file.
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "config.toml")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
