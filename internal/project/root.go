// Package project locates the project root and loads its configuration.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the optional configuration file.
const ConfigFileName = "tabsnap.yaml"

// Markers are the files whose directory is taken as the project root, in
// precedence order within one directory.
var Markers = []string{ConfigFileName, "Cargo.toml"}

// ErrNoProjectRoot is returned when no marker is found.
var ErrNoProjectRoot = errors.New("tabsnap.yaml or Cargo.toml not found in any parent directory")

// FindRoot walks up from the current working directory until it finds a
// marker.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds a marker.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range Markers {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// RootOrCwd returns the project root above startDir, or startDir itself when
// no marker exists.
func RootOrCwd(startDir string) (string, error) {
	root, err := FindRootFrom(startDir)
	if errors.Is(err, ErrNoProjectRoot) {
		return filepath.Abs(startDir)
	}
	return root, err
}
