package project

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a locator failure.
type ErrorKind string

const (
	KindInvalidPath    ErrorKind = "invalid_path"
	KindNoMarkerFile   ErrorKind = "no_marker_file"
	KindNoProjectFound ErrorKind = "no_project_found"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrInvalidPath    = errors.New("project directory not found")
	ErrNoMarkerFile   = errors.New("no compose file in project directory")
	ErrNoProjectFound = errors.New("no compose project found")
)

// Error is returned by Locator when no project directory can be produced.
type Error struct {
	Kind ErrorKind
	Path string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidPath:
		return fmt.Sprintf("Project directory not found: %s", e.Path)
	case KindNoMarkerFile:
		return fmt.Sprintf("No compose file (docker-compose.yml, compose.yml, etc.) in: %s", e.Path)
	default:
		return "No compose project found. Set project_dir or run from a directory " +
			"containing docker-compose.yml / compose.yml (or set MCP_PROJECT_DIR)."
	}
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidPath:
		return target == ErrInvalidPath
	case KindNoMarkerFile:
		return target == ErrNoMarkerFile
	case KindNoProjectFound:
		return target == ErrNoProjectFound
	}
	return false
}
