// Package compose drives the Docker Compose CLI for a located project
// directory. Every operation is a single bounded subprocess invocation.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"

	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/project"
)

const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultTimeout      = 120 * time.Second
	DefaultLogsTimeout  = 60 * time.Second
)

// ExecFunc runs argv in dir. It returns the process exit code, or an error
// when the process could not be run or was cut short by ctx.
type ExecFunc func(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) (int, error)

// Options configures NewRunner. Zero durations take the defaults.
type Options struct {
	// Command overrides CLI detection, e.g. "docker compose" or "podman-compose".
	Command      string
	ProbeTimeout time.Duration
	Timeout      time.Duration
	LogsTimeout  time.Duration
	// Stream receives the output of uncaptured invocations (attached up,
	// followed logs). Defaults to os.Stderr; stdout may carry a protocol.
	Stream io.Writer
	// LockDir holds per-project lock files serializing up, down and scale
	// across processes. Empty disables locking.
	LockDir string
}

// Runner runs compose subcommands.
type Runner struct {
	Exec    ExecFunc
	Locator *project.Locator

	command      string
	probeTimeout time.Duration
	timeout      time.Duration
	logsTimeout  time.Duration
	stream       io.Writer
	lockDir      string

	mu       sync.Mutex
	detected []string
}

// NewRunner returns a Runner that executes real processes.
func NewRunner(locator *project.Locator, opts Options) *Runner {
	r := &Runner{
		Exec:         ExecCommand,
		Locator:      locator,
		command:      strings.TrimSpace(opts.Command),
		probeTimeout: opts.ProbeTimeout,
		timeout:      opts.Timeout,
		logsTimeout:  opts.LogsTimeout,
		stream:       opts.Stream,
		lockDir:      opts.LockDir,
	}
	if r.probeTimeout <= 0 {
		r.probeTimeout = DefaultProbeTimeout
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.logsTimeout <= 0 {
		r.logsTimeout = DefaultLogsTimeout
	}
	if r.stream == nil {
		r.stream = os.Stderr
	}
	return r
}

// ExecCommand is the ExecFunc backed by os/exec.
func ExecCommand(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// Command returns the compose invocation prefix, detecting it on first use:
// "docker compose" when it answers "version", else "docker-compose".
func (r *Runner) Command(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.detected != nil {
		return r.detected, nil
	}

	if r.command != "" {
		argv, err := shlex.Split(r.command)
		if err != nil || len(argv) == 0 {
			return nil, &ArgumentError{Message: fmt.Sprintf("invalid compose.command %q", r.command)}
		}
		r.detected = argv
		return argv, nil
	}

	for _, candidate := range [][]string{{"docker", "compose"}, {"docker-compose"}} {
		probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
		argv := append(append([]string(nil), candidate...), "version")
		code, err := r.Exec(probeCtx, "", argv, io.Discard, io.Discard)
		cancel()
		if err == nil && code == 0 {
			logger.Debug().Strs("command", candidate).Msg("compose CLI detected")
			r.detected = candidate
			return candidate, nil
		}
		logger.Debug().Strs("command", candidate).Int("exit", code).Err(err).Msg("compose CLI probe failed")
	}
	return nil, ErrNotInstalled
}

// invocation is one compose subprocess call.
type invocation struct {
	dir     string
	args    []string
	timeout time.Duration // zero means unbounded
	capture bool
}

type output struct {
	stdout string
	stderr string
	code   int
}

// combined returns stderr, or stdout when stderr is empty.
func (o *output) combined() string {
	if s := strings.TrimSpace(o.stderr); s != "" {
		return s
	}
	return strings.TrimSpace(o.stdout)
}

func (r *Runner) run(ctx context.Context, inv invocation) (*output, error) {
	prefix, err := r.Command(ctx)
	if err != nil {
		return nil, err
	}
	argv := append(append([]string(nil), prefix...), inv.args...)

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	var outW, errW io.Writer = &stdout, &stderr
	if !inv.capture {
		outW, errW = r.stream, r.stream
	}

	logger.Debug().Strs("argv", argv).Str("dir", inv.dir).Dur("timeout", inv.timeout).Msg("running compose")
	start := time.Now()
	code, err := r.Exec(ctx, inv.dir, argv, outW, errW)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, inv.timeout, strings.Join(argv, " "))
	case errors.Is(err, exec.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", ErrNotInstalled, err)
	case err != nil:
		return nil, fmt.Errorf("running %s: %w", strings.Join(argv, " "), err)
	}
	logger.Debug().Int("exit", code).Dur("elapsed", time.Since(start)).Msg("compose finished")
	return &output{stdout: stdout.String(), stderr: stderr.String(), code: code}, nil
}

// locate resolves the project directory for an optional explicit path.
func (r *Runner) locate(projectDir string) (*project.Location, error) {
	return r.Locator.Find(projectDir)
}
