// Package loggertest provides test doubles for the logger package.
package loggertest

import (
	"bytes"
	"strings"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log output for assertions. It satisfies
// iostreams.Logger without exposing the rest of zerolog's API.
type TestLogger struct {
	logger zerolog.Logger
	buf    *bytes.Buffer
}

// New creates a test logger that captures all output to a buffer.
func New() *TestLogger {
	buf := &bytes.Buffer{}
	return &TestLogger{
		logger: zerolog.New(buf),
		buf:    buf,
	}
}

// NewNop creates a test logger that discards all output.
func NewNop() *TestLogger {
	return &TestLogger{
		logger: zerolog.Nop(),
		buf:    &bytes.Buffer{},
	}
}

// Debug returns a debug-level zerolog.Event.
func (tl *TestLogger) Debug() *zerolog.Event { return tl.logger.Debug() }

// Info returns an info-level zerolog.Event.
func (tl *TestLogger) Info() *zerolog.Event { return tl.logger.Info() }

// Warn returns a warn-level zerolog.Event.
func (tl *TestLogger) Warn() *zerolog.Event { return tl.logger.Warn() }

// Error returns an error-level zerolog.Event.
func (tl *TestLogger) Error() *zerolog.Event { return tl.logger.Error() }

// Output returns captured log output as a string.
func (tl *TestLogger) Output() string { return tl.buf.String() }

// Lines returns the captured output split into one JSON document per entry.
func (tl *TestLogger) Lines() []string {
	s := strings.TrimSpace(tl.buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Reset clears captured output.
func (tl *TestLogger) Reset() { tl.buf.Reset() }
