// Package config loads and validates a project's Smaug.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Filename is the fixed configuration file name at the project root.
const Filename = "Smaug.toml"

// Config represents one project's configuration
type Config struct {
	Project    Project    `toml:"project"`
	DragonRuby DragonRuby `toml:"dragonruby"`
	Itch       *Itch      `toml:"itch,omitempty"`
}

// Project holds the game's own metadata
type Project struct {
	Name        string   `toml:"name"`
	Title       string   `toml:"title,omitempty"`
	Version     string   `toml:"version,omitempty"`
	Authors     []string `toml:"authors,omitempty"`
	URL         string   `toml:"url,omitempty"`
	Icon        string   `toml:"icon,omitempty"`
	CompileRuby bool     `toml:"compile_ruby,omitempty"`
}

// DragonRuby declares which installed toolchain version the project builds with
type DragonRuby struct {
	Version string `toml:"version"`
	Edition string `toml:"edition,omitempty"`
}

// Itch holds publishing coordinates on Itch.io
type Itch struct {
	Username string `toml:"username,omitempty"`
	URL      string `toml:"url,omitempty"`
}

// Load reads and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	// Pick up environment overrides from a .env file when one exists.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath) // #nosec G304 -- path comes from CLI input
	if err != nil {
		return nil, fmt.Errorf("read configuration %s: %w", configPath, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Validate checks the fields the publish pipeline depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return fmt.Errorf("project.name must not be empty")
	}
	return nil
}

const initTemplate = `[project]
name = "mygame"
title = "My Game"
version = "0.1.0"
authors = []

[dragonruby]
version = "5.0"
edition = "standard"
`

// Init writes a starter configuration file. An existing file is only
// overwritten when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create configuration directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(initTemplate), 0o644); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	return nil
}
