package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schmitthub/dockmcp/internal/resource"
)

// NotFoundError reports that no resource matched the query.
// Suggestions lists up to three near-miss names.
type NotFoundError struct {
	Kind        resource.Kind
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s '%s' not found.", e.Kind.Title(), e.Query)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// AmbiguousError reports that several resources matched the query.
// Matches lists the display names of every match so the caller can retry
// with a more specific string.
type AmbiguousError struct {
	Kind    resource.Kind
	Query   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	hint := "Please be more specific."
	if e.Kind == resource.KindImage {
		hint = "Please be more specific (use name:tag format)."
	}
	return fmt.Sprintf("Multiple %s match '%s': %s. %s", e.Kind.Plural(), e.Query, strings.Join(e.Matches, ", "), hint)
}

// CommunicationError reports that the runtime could not be asked at all.
// It is never retried and is distinct from NotFound.
type CommunicationError struct {
	Kind resource.Kind
	Op   string // "lookup" or "list"
	Err  error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Kind.Plural(), e.Err)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAmbiguous reports whether err is an *AmbiguousError.
func IsAmbiguous(err error) bool {
	var amb *AmbiguousError
	return errors.As(err, &amb)
}

// IsCommunication reports whether err is a *CommunicationError.
func IsCommunication(err error) bool {
	var ce *CommunicationError
	return errors.As(err, &ce)
}
