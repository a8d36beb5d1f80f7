package tools

import (
	"context"
	"errors"

	cerrdefs "github.com/containerd/errdefs"

	"github.com/schmitthub/dockmcp/internal/compose"
	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/resolver"
	"github.com/schmitthub/dockmcp/internal/resource"
)

// ErrorKind classifies a tool failure for the calling agent.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindAmbiguous            ErrorKind = "ambiguous"
	KindInvalidPath          ErrorKind = "invalid_path"
	KindNoMarkerFile         ErrorKind = "no_marker_file"
	KindNoProjectFound       ErrorKind = "no_project_found"
	KindInvalidArgument      ErrorKind = "invalid_argument"
	KindCommunicationFailure ErrorKind = "communication_failure"
	KindTimeout              ErrorKind = "timeout"
	KindCommandFailed        ErrorKind = "command_failed"
	KindInternal             ErrorKind = "internal"
)

// ErrorDetail is the body of an error record.
type ErrorDetail struct {
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"message"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Matches     []string  `json:"matches,omitempty"`
	Path        string    `json:"path,omitempty"`
	ExitCode    *int      `json:"exit_code,omitempty"`
	Output      string    `json:"output,omitempty"`
	NextSteps   []string  `json:"next_steps,omitempty"`
}

// ErrorRecord is the record returned to the agent for a failed call.
type ErrorRecord struct {
	Error ErrorDetail `json:"error"`
}

// ClassifyError maps err to an error record. It returns nil for nil.
func ClassifyError(err error) *ErrorRecord {
	if err == nil {
		return nil
	}
	d := ErrorDetail{Kind: KindInternal, Message: err.Error()}

	var (
		amb     *resolver.AmbiguousError
		nf      *resolver.NotFoundError
		projErr *project.Error
		cmdErr  *compose.CommandError
		argErr  *ArgumentError
		dockErr *docker.DockerError
	)
	switch {
	case errors.As(err, &amb):
		d.Kind = KindAmbiguous
		d.Matches = amb.Matches
	case errors.As(err, &nf):
		d.Kind = KindNotFound
		d.Suggestions = nf.Suggestions
	case errors.As(err, &projErr):
		d.Kind = ErrorKind(projErr.Kind)
		d.Path = projErr.Path
	case errors.Is(err, compose.ErrTimeout):
		d.Kind = KindTimeout
	case errors.As(err, &cmdErr):
		d.Kind = KindCommandFailed
		code := cmdErr.ExitCode
		d.ExitCode = &code
		d.Output = cmdErr.Output
	case errors.Is(err, compose.ErrNotInstalled):
		d.Kind = KindCommandFailed
	case errors.As(err, &argErr), errors.Is(err, ErrUnknownTool), compose.IsArgumentError(err), docker.IsInvalidArgument(err):
		d.Kind = KindInvalidArgument
	case resolver.IsCommunication(err):
		d.Kind = KindCommunicationFailure
	case errors.As(err, &dockErr) && dockErr.Op == "connect":
		d.Kind = KindCommunicationFailure
		d.NextSteps = dockErr.NextSteps
	case errors.Is(err, context.DeadlineExceeded):
		d.Kind = KindTimeout
	case docker.IsCommunicationFailure(err):
		d.Kind = KindCommunicationFailure
	case errors.As(err, &dockErr):
		d.Kind = KindInvalidArgument
		if errors.Is(err, resource.ErrNotFound) || cerrdefs.IsNotFound(err) {
			d.Kind = KindNotFound
		}
		d.NextSteps = dockErr.NextSteps
	case errors.Is(err, resource.ErrNotFound), cerrdefs.IsNotFound(err):
		d.Kind = KindNotFound
	case cerrdefs.IsInvalidArgument(err), cerrdefs.IsConflict(err):
		d.Kind = KindInvalidArgument
	}
	return &ErrorRecord{Error: d}
}
