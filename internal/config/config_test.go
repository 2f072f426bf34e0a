package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `[project]
name = "Asteroids"
title = "Asteroids!"
version = "1.2.0"
authors = ["Jane Dev"]

[dragonruby]
version = "4.8"
edition = "pro"

[itch]
username = "janedev"
url = "https://janedev.itch.io/asteroids"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Asteroids", cfg.Project.Name)
	assert.Equal(t, "Asteroids!", cfg.Project.Title)
	assert.Equal(t, "1.2.0", cfg.Project.Version)
	assert.Equal(t, []string{"Jane Dev"}, cfg.Project.Authors)
	assert.Equal(t, "4.8", cfg.DragonRuby.Version)
	assert.Equal(t, "pro", cfg.DragonRuby.Edition)
	require.NotNil(t, cfg.Itch)
	assert.Equal(t, "janedev", cfg.Itch.Username)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), Filename))
	require.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[project\nname =")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EmptyProjectName(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `[project]
name = "  "

[dragonruby]
version = "4.8"
`)
	_, err := Load(path)
	require.ErrorContains(t, err, "project.name")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), Filename)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mygame", cfg.Project.Name)

	// A second init without force refuses to clobber the file.
	require.Error(t, Init(path, false))

	require.NoError(t, Init(path, true))
}
