// Package dragonruby locates installed DragonRuby toolchains.
//
// Installs live under <install root>/<version>/, where the install root
// defaults to ~/.smaug/dragonruby and can be moved with SMAUG_HOME.
// Each install directory may carry an install.yaml manifest written at
// install time; a directory without one is still recognized by its
// directory name alone.
package dragonruby

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const manifestName = "install.yaml"

// ErrNotInstalled reports that no install matches the requested version.
var ErrNotInstalled = errors.New("dragonruby version not installed")

// Install identifies one installed DragonRuby version.
type Install struct {
	Version string
	Edition string
	Dir     string
}

// Manifest is the install-time record kept alongside each version.
type Manifest struct {
	Version     string    `yaml:"version"`
	Edition     string    `yaml:"edition,omitempty"`
	Source      string    `yaml:"source,omitempty"`
	InstalledAt time.Time `yaml:"installed_at,omitempty"`
}

// PublishExec returns the platform-specific name of the publish binary.
func (i *Install) PublishExec() string {
	if runtime.GOOS == "windows" {
		return "dragonruby-publish.exe"
	}
	return "dragonruby-publish"
}

// PublishExecPath returns the full path to the publish binary.
func (i *Install) PublishExecPath() string {
	return filepath.Join(i.Dir, i.PublishExec())
}

// Registry reads installed versions from an install root directory.
type Registry struct {
	root string
}

// NewRegistry creates a registry over the given install root.
func NewRegistry(root string) *Registry {
	return &Registry{root: root}
}

// DefaultRegistry resolves the install root from SMAUG_HOME or the
// user's home directory.
func DefaultRegistry() (*Registry, error) {
	if home := os.Getenv("SMAUG_HOME"); home != "" {
		return NewRegistry(filepath.Join(home, "dragonruby")), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewRegistry(filepath.Join(home, ".smaug", "dragonruby")), nil
}

// Root returns the registry's install root path.
func (r *Registry) Root() string {
	return r.root
}

// Installed lists every install under the root. A missing root means
// nothing is installed, not an error.
func (r *Registry) Installed() ([]Install, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read install root %s: %w", r.root, err)
	}

	var installs []Install
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		installs = append(installs, r.readInstall(entry.Name()))
	}
	return installs, nil
}

// Find returns the install matching the declared version, or an error
// wrapping ErrNotInstalled.
func (r *Registry) Find(version string) (*Install, error) {
	installs, err := r.Installed()
	if err != nil {
		return nil, err
	}
	for _, install := range installs {
		if install.Version == version {
			return &install, nil
		}
	}
	return nil, fmt.Errorf("dragonruby %s: %w", version, ErrNotInstalled)
}

// readInstall builds an Install from a version directory, filling in
// manifest fields when a manifest is present and readable.
func (r *Registry) readInstall(name string) Install {
	install := Install{Version: name, Dir: filepath.Join(r.root, name)}

	data, err := os.ReadFile(filepath.Join(install.Dir, manifestName)) // #nosec G304 -- path rooted at the install root
	if err != nil {
		return install
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return install
	}
	if manifest.Version != "" {
		install.Version = manifest.Version
	}
	install.Edition = manifest.Edition
	return install
}
