// Package metadata derives DragonRuby's game_metadata.txt from a
// project configuration and writes it where the toolchain expects it.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jabawack81/smaug/internal/config"
)

const (
	// Dir is the metadata directory name under the project root.
	Dir = "metadata"
	// Filename is the file name the toolchain reads.
	Filename = "game_metadata.txt"
)

// GameMetadata holds the key=value fields of game_metadata.txt.
type GameMetadata struct {
	DevID     string
	DevTitle  string
	GameID    string
	GameTitle string
	Version   string
	Icon      string
}

// FromConfig derives game metadata from a loaded configuration.
func FromConfig(cfg *config.Config) *GameMetadata {
	md := &GameMetadata{
		GameID:    slug(cfg.Project.Name),
		GameTitle: cfg.Project.Title,
		Version:   cfg.Project.Version,
		Icon:      cfg.Project.Icon,
	}
	if md.GameTitle == "" {
		md.GameTitle = cfg.Project.Name
	}
	if len(cfg.Project.Authors) > 0 {
		md.DevTitle = cfg.Project.Authors[0]
		md.DevID = slug(cfg.Project.Authors[0])
	}
	// The Itch username, when present, is the authoritative developer id.
	if cfg.Itch != nil && cfg.Itch.Username != "" {
		md.DevID = cfg.Itch.Username
	}
	return md
}

// Render serializes the metadata in the toolchain's line format,
// omitting fields with no value.
func (m *GameMetadata) Render() []byte {
	var b strings.Builder
	for _, kv := range []struct{ key, value string }{
		{"devid", m.DevID},
		{"devtitle", m.DevTitle},
		{"gameid", m.GameID},
		{"gametitle", m.GameTitle},
		{"version", m.Version},
		{"icon", m.Icon},
	} {
		if kv.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", kv.key, kv.value)
	}
	return []byte(b.String())
}

// Write persists the metadata file at path, creating its directory.
func (m *GameMetadata) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}
	if err := os.WriteFile(path, m.Render(), 0o644); err != nil {
		return fmt.Errorf("write metadata %s: %w", path, err)
	}
	return nil
}

// slug reduces a display name to the lowercase alphanumeric form the
// toolchain accepts as an identifier.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
