// Package project locates the Compose project directory a request refers to.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/spf13/afero"
)

// DefaultMarkers are the file names that make a directory a Compose project.
// Any one of them suffices.
var DefaultMarkers = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// DefaultEnvHints are consulted, in order, when no explicit path is given.
var DefaultEnvHints = []string{
	"MCP_PROJECT_DIR",
	"WORKSPACE_ROOT",
	"CURSOR_WORKSPACE_ROOT",
}

// Source records which rule produced a Location.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceSearch   Source = "search"
)

// Location is a located project directory.
type Location struct {
	Dir    string `json:"project_dir"`
	Marker string `json:"compose_file"`
	Source Source `json:"source"`
	EnvVar string `json:"env_var,omitempty"`
}

// Locator finds project directories. The zero value is not usable; use
// NewLocator and override fields in tests.
type Locator struct {
	Fs        afero.Fs
	LookupEnv func(string) (string, bool)
	Getwd     func() (string, error)

	EnvHints []string
	Markers  []string
}

// NewLocator returns a Locator backed by the OS filesystem and environment.
func NewLocator() *Locator {
	return &Locator{
		Fs:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
		Getwd:     os.Getwd,
		EnvHints:  DefaultEnvHints,
		Markers:   DefaultMarkers,
	}
}

// Locate returns the absolute project directory for explicit, which may be
// empty. See Find.
func (l *Locator) Locate(explicit string) (string, error) {
	loc, err := l.Find(explicit)
	if err != nil {
		return "", err
	}
	return loc.Dir, nil
}

// Find resolves the project directory.
//
// A non-empty explicit path must itself be a directory holding a marker
// file; no upward search is done for it. Otherwise the env hints are tried
// in order, then the working directory and each of its ancestors.
func (l *Locator) Find(explicit string) (*Location, error) {
	if explicit != "" {
		return l.fromExplicit(explicit)
	}

	for _, key := range l.EnvHints {
		val, ok := l.LookupEnv(key)
		if !ok || val == "" {
			continue
		}
		dir, err := l.abs(val)
		if err != nil {
			return nil, err
		}
		if !l.isDir(dir) {
			logger.Debug().Str("env", key).Str("path", dir).Msg("project hint is not a directory")
			continue
		}
		if marker := l.marker(dir); marker != "" {
			return &Location{Dir: dir, Marker: marker, Source: SourceEnv, EnvVar: key}, nil
		}
		logger.Debug().Str("env", key).Str("path", dir).Msg("project hint has no compose file")
	}

	cwd, err := l.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	current := filepath.Clean(cwd)
	for {
		if marker := l.marker(current); marker != "" {
			return &Location{Dir: current, Marker: marker, Source: SourceSearch}, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil, &Error{Kind: KindNoProjectFound, Path: cwd}
		}
		current = parent
	}
}

func (l *Locator) fromExplicit(path string) (*Location, error) {
	dir, err := l.abs(path)
	if err != nil {
		return nil, err
	}
	if !l.isDir(dir) {
		return nil, &Error{Kind: KindInvalidPath, Path: path}
	}
	marker := l.marker(dir)
	if marker == "" {
		return nil, &Error{Kind: KindNoMarkerFile, Path: path}
	}
	return &Location{Dir: dir, Marker: marker, Source: SourceExplicit}, nil
}

// HasMarker reports whether dir directly contains a marker file.
func (l *Locator) HasMarker(dir string) bool {
	return l.marker(dir) != ""
}

// marker returns the first marker file found directly inside dir.
func (l *Locator) marker(dir string) string {
	for _, name := range l.Markers {
		info, err := l.Fs.Stat(filepath.Join(dir, name))
		if err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

func (l *Locator) isDir(path string) bool {
	ok, err := afero.IsDir(l.Fs, path)
	return err == nil && ok
}

func (l *Locator) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := l.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}
