package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DefaultLogTail is the tail applied when LogsOptions.Tail is nil.
const DefaultLogTail = 100

// ServiceList marshals as "all" when empty.
type ServiceList []string

func (s ServiceList) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return json.Marshal("all")
	}
	return json.Marshal([]string(s))
}

// UpOptions configures Up.
type UpOptions struct {
	ProjectDir string
	Services   []string
	Build      bool
	Detach     bool
}

// UpResult reports a successful up.
type UpResult struct {
	Status     string      `json:"status"`
	ProjectDir string      `json:"project_dir"`
	Services   ServiceList `json:"services"`
	Message    string      `json:"message"`
}

// Up starts the project's services. Output is streamed rather than captured.
func (r *Runner) Up(ctx context.Context, opts UpOptions) (*UpResult, error) {
	loc, err := r.locate(opts.ProjectDir)
	if err != nil {
		return nil, err
	}
	if err := r.validateServices(loc, opts.Services); err != nil {
		return nil, err
	}

	unlock, err := r.lockProject(ctx, loc.Dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	args := []string{"up"}
	if opts.Detach {
		args = append(args, "-d")
	}
	if opts.Build {
		args = append(args, "--build")
	}
	args = append(args, opts.Services...)

	out, err := r.run(ctx, invocation{dir: loc.Dir, args: args, timeout: r.timeout})
	if err != nil {
		return nil, err
	}
	if out.code != 0 {
		return nil, &CommandError{Op: "up", Args: args, ExitCode: out.code, Hint: "Check docker-compose.yml and container logs."}
	}
	return &UpResult{
		Status:     "started",
		ProjectDir: loc.Dir,
		Services:   opts.Services,
		Message:    "Services started successfully.",
	}, nil
}

// DownOptions configures Down.
type DownOptions struct {
	ProjectDir    string
	Volumes       bool
	RemoveOrphans bool
}

// DownResult reports a successful down.
type DownResult struct {
	Status         string `json:"status"`
	ProjectDir     string `json:"project_dir"`
	VolumesRemoved bool   `json:"volumes_removed"`
	Message        string `json:"message"`
}

// Down stops and removes the project's containers and networks, and its
// named volumes when Volumes is set.
func (r *Runner) Down(ctx context.Context, opts DownOptions) (*DownResult, error) {
	loc, err := r.locate(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	unlock, err := r.lockProject(ctx, loc.Dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	args := []string{"down"}
	if opts.Volumes {
		args = append(args, "--volumes")
	}
	if opts.RemoveOrphans {
		args = append(args, "--remove-orphans")
	}

	out, err := r.run(ctx, invocation{dir: loc.Dir, args: args, timeout: r.timeout, capture: true})
	if err != nil {
		return nil, err
	}
	if out.code != 0 {
		return nil, &CommandError{Op: "down", Args: args, ExitCode: out.code, Output: out.combined()}
	}
	return &DownResult{
		Status:         "stopped",
		ProjectDir:     loc.Dir,
		VolumesRemoved: opts.Volumes,
		Message:        "Services stopped and removed successfully.",
	}, nil
}

// Ps lists the project's containers, including stopped ones when all is set.
func (r *Runner) Ps(ctx context.Context, projectDir string, all bool) ([]Service, error) {
	loc, err := r.locate(projectDir)
	if err != nil {
		return nil, err
	}

	args := []string{"ps", "--format", "json"}
	if all {
		args = append(args, "-a")
	}

	out, err := r.run(ctx, invocation{dir: loc.Dir, args: args, timeout: r.timeout, capture: true})
	if err != nil {
		return nil, err
	}
	if out.code != 0 {
		return nil, &CommandError{Op: "ps", Args: args, ExitCode: out.code, Output: out.combined()}
	}
	return ParsePs(out.stdout), nil
}

// LogsOptions configures Logs. A nil Tail means DefaultLogTail; an explicit
// zero asks for no history.
type LogsOptions struct {
	ProjectDir string
	Services   []string
	Tail       *int
	Follow     bool
}

// LogsResult holds captured logs. Output is "(streaming)" when following.
type LogsResult struct {
	ProjectDir string      `json:"project_dir"`
	Services   ServiceList `json:"services"`
	Tail       int         `json:"tail"`
	Follow     bool        `json:"follow"`
	Output     string      `json:"output"`
}

// Logs returns the last Tail lines of each service's log. When Follow is
// set the logs stream to the runner's stream writer until ctx ends, and the
// exit status is not checked.
func (r *Runner) Logs(ctx context.Context, opts LogsOptions) (*LogsResult, error) {
	loc, err := r.locate(opts.ProjectDir)
	if err != nil {
		return nil, err
	}
	if err := r.validateServices(loc, opts.Services); err != nil {
		return nil, err
	}
	tail := DefaultLogTail
	if opts.Tail != nil && *opts.Tail >= 0 {
		tail = *opts.Tail
	}

	args := []string{"logs", "--tail", strconv.Itoa(tail)}
	if opts.Follow {
		args = append(args, "--follow")
	}
	args = append(args, opts.Services...)

	inv := invocation{dir: loc.Dir, args: args, timeout: r.logsTimeout, capture: true}
	if opts.Follow {
		inv.timeout = 0
		inv.capture = false
	}

	out, err := r.run(ctx, inv)
	if err != nil && !(opts.Follow && errors.Is(err, context.Canceled)) {
		return nil, err
	}
	res := &LogsResult{
		ProjectDir: loc.Dir,
		Services:   opts.Services,
		Tail:       tail,
		Follow:     opts.Follow,
	}
	if opts.Follow {
		res.Output = "(streaming)"
		return res, nil
	}
	if out.code != 0 {
		return nil, &CommandError{Op: "logs", Args: args, ExitCode: out.code, Output: out.combined()}
	}
	res.Output = out.stdout
	return res, nil
}

// ScaleResult reports a successful scale.
type ScaleResult struct {
	Status     string `json:"status"`
	ProjectDir string `json:"project_dir"`
	Service    string `json:"service"`
	Replicas   int    `json:"replicas"`
	Message    string `json:"message"`
}

// Scale sets the replica count of one service via `up -d --scale`.
func (r *Runner) Scale(ctx context.Context, projectDir, service string, count int) (*ScaleResult, error) {
	loc, err := r.locate(projectDir)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &ArgumentError{Message: "Scale count must be >= 0"}
	}
	if service == "" {
		return nil, &ArgumentError{Message: "service is required"}
	}
	if err := r.validateServices(loc, []string{service}); err != nil {
		return nil, err
	}

	unlock, err := r.lockProject(ctx, loc.Dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	args := []string{"up", "-d", "--scale", fmt.Sprintf("%s=%d", service, count)}
	out, err := r.run(ctx, invocation{dir: loc.Dir, args: args, timeout: r.timeout, capture: true})
	if err != nil {
		return nil, err
	}
	if out.code != 0 {
		return nil, &CommandError{
			Op:       "scale",
			Args:     args,
			ExitCode: out.code,
			Output:   out.combined(),
			Hint:     fmt.Sprintf("Ensure service '%s' exists and supports scaling.", service),
		}
	}
	return &ScaleResult{
		Status:     "scaled",
		ProjectDir: loc.Dir,
		Service:    service,
		Replicas:   count,
		Message:    fmt.Sprintf("Service '%s' scaled to %d replica(s).", service, count),
	}, nil
}
