package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/client"

	"github.com/schmitthub/dockmcp/internal/resource"
)

// DockerError represents a user-friendly Docker error with remediation steps.
type DockerError struct {
	Op        string   // Operation that failed (e.g., "connect", "remove", "backup")
	Err       error    // Underlying error
	Message   string   // Human-readable message
	NextSteps []string // Suggested remediation steps
}

func (e *DockerError) Error() string {
	return e.Message
}

func (e *DockerError) Unwrap() error {
	return e.Err
}

// FormatUserError formats the error for display to users with next steps.
func (e *DockerError) FormatUserError() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", e.Message)
	if e.Err != nil {
		fmt.Fprintf(&sb, "  Details: %s\n", e.Err.Error())
	}
	if len(e.NextSteps) > 0 {
		sb.WriteString("\nNext Steps:\n")
		for i, step := range e.NextSteps {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	return sb.String()
}

// ErrDockerNotRunning returns an error for when Docker daemon is not accessible.
func ErrDockerNotRunning(err error) *DockerError {
	return &DockerError{
		Op:      "connect",
		Err:     err,
		Message: "Cannot connect to Docker daemon",
		NextSteps: []string{
			"Ensure Docker is installed",
			"Start Docker Desktop (macOS/Windows) or run 'sudo systemctl start docker' (Linux)",
			"Check if Docker socket is accessible: ls -la /var/run/docker.sock",
			"Set DOCKER_HOST or docker.host in config.yaml if the daemon is remote",
		},
	}
}

// ErrImageInUse returns an error for removing an image a container still uses.
func ErrImageInUse(ref string, err error) *DockerError {
	return &DockerError{
		Op:      "remove",
		Err:     err,
		Message: fmt.Sprintf("Image '%s' is in use. Use force=true to remove it.", ref),
		NextSteps: []string{
			"Remove the containers using it first",
			"Or retry with force=true",
		},
	}
}

// ErrVolumeInUse returns an error for removing a volume a container still mounts.
func ErrVolumeInUse(name string, err error) *DockerError {
	return &DockerError{
		Op:      "remove",
		Err:     err,
		Message: fmt.Sprintf("Volume '%s' is in use. Use force=true to remove it.", name),
		NextSteps: []string{
			"Find the containers mounting it with volume_usage",
			"Or retry with force=true",
		},
	}
}

// ErrNetworkHasEndpoints returns an error for removing a network with
// connected containers.
func ErrNetworkHasEndpoints(name string, err error) *DockerError {
	return &DockerError{
		Op:      "remove",
		Err:     err,
		Message: fmt.Sprintf("Network '%s' has connected containers. Disconnect them first or use force.", name),
		NextSteps: []string{
			"Inspect connected containers with network_info",
			"Disconnect them with network_disconnect",
		},
	}
}

// ErrBackupImageNotFound returns an error for a missing backup helper image.
func ErrBackupImageNotFound(ref string, err error) *DockerError {
	return &DockerError{
		Op:      "backup",
		Err:     err,
		Message: fmt.Sprintf("Image '%s' not found. Try pulling it first.", ref),
		NextSteps: []string{
			"Pull it with image_pull",
			"Or set backup.image in config.yaml to an image available locally",
		},
	}
}

// InvalidArgumentError reports a request the runtime rejected as malformed or
// conflicting, such as creating a network whose name already exists.
type InvalidArgumentError struct {
	Message string
	Err     error
}

func (e *InvalidArgumentError) Error() string { return e.Message }

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

func invalidArgument(err error, format string, args ...any) error {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...), Err: err}
}

// IsInvalidArgument reports whether err is an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// NotFoundError reports a reference the runtime or a registry does not know,
// outside of resolver lookups. It matches resource.ErrNotFound.
type NotFoundError struct {
	Message string
	Err     error
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == resource.ErrNotFound }

func notFound(err error, format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...), Err: err}
}

// IsCommunicationFailure reports whether err means the daemon could not be
// reached or did not answer in time.
func IsCommunicationFailure(err error) bool {
	var de *DockerError
	if errors.As(err, &de) && de.Op == "connect" {
		return true
	}
	return client.IsErrConnectionFailed(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		cerrdefs.IsUnavailable(err) ||
		cerrdefs.IsDeadlineExceeded(err)
}

// isMissing reports whether a direct lookup failed because nothing carries
// the key. Ambiguous ID prefixes and malformed references (such as image
// names with uppercase letters) cannot name a resource either.
func isMissing(err error) bool {
	return cerrdefs.IsNotFound(err) || cerrdefs.IsInvalidArgument(err)
}

// lookupErr maps a direct-lookup failure to resource.ErrNotFound when the
// key names nothing, and passes every other failure through.
func lookupErr(kind resource.Kind, key string, err error) error {
	if isMissing(err) {
		return fmt.Errorf("no such %s %q: %w", kind, key, resource.ErrNotFound)
	}
	return err
}

func containsFold(err error, substr string) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), substr)
}
