package compose

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInstalled means neither "docker compose" nor "docker-compose" runs.
	ErrNotInstalled = errors.New("Docker Compose not found. Install 'docker compose' (v2) or 'docker-compose' (v1).")
	// ErrTimeout means a compose invocation outlived its deadline. It is not retried.
	ErrTimeout = errors.New("compose command timed out")
)

// CommandError is a compose invocation that exited non-zero.
type CommandError struct {
	// Op names the operation in the message; it defaults to the subcommand.
	Op       string
	Args     []string
	ExitCode int
	// Output is the captured stderr, or stdout when stderr was empty.
	Output string
	// Hint is appended to the message when set.
	Hint string
}

func (e *CommandError) Error() string {
	sub := e.Op
	if sub == "" && len(e.Args) > 0 {
		sub = e.Args[0]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compose %s failed (exit %d)", sub, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&sb, ": %s", out)
	}
	if e.Hint != "" {
		sb.WriteString(". ")
		sb.WriteString(e.Hint)
	}
	return sb.String()
}

// ArgumentError rejects a request before compose is invoked.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

// IsArgumentError reports whether err is an *ArgumentError.
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}
