// Package project locates and reads cinder.toml, the project manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "cinder.toml"

// Manifest is the parsed cinder.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`
}

type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type BuildSection struct {
	// Entry is the directory holding the sources, relative to the root.
	Entry string `toml:"entry"`
	// Output is the .ll file to write, relative to the root.
	Output string `toml:"output"`
}

// Load reads and decodes a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: package.name is required", path)
	}
	if m.Build.Entry == "" {
		m.Build.Entry = "src"
	}
	if m.Build.Output == "" {
		m.Build.Output = m.Package.Name + ".ll"
	}
	return &m, nil
}

// FindManifest walks up from startDir to locate cinder.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing cinder.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}
