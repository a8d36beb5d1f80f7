// Package tools defines the named operations dockmcp exposes, their JSON
// Schema inputs and the records they return.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/schmitthub/dockmcp/internal/logger"
)

// ErrUnknownTool is returned by Call for a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Handler runs a tool with validated arguments and returns a
// JSON-serializable record.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is a named, callable operation.
type Tool struct {
	Name        string
	Description string
	Input       Schema
	Handler     Handler

	validator *gojsonschema.Schema
}

// Registry holds tools in registration order.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Tool{}}
}

// Register adds t. Names must be unique and the input schema must compile.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Handler == nil {
		return fmt.Errorf("tool %q: name and handler are required", t.Name)
	}
	if _, dup := r.byName[t.Name]; dup {
		return fmt.Errorf("tool %q registered twice", t.Name)
	}
	if t.Input == nil {
		t.Input = Object()
	}
	validator, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Input))
	if err != nil {
		return fmt.Errorf("tool %q: invalid input schema: %w", t.Name, err)
	}
	t.validator = validator

	tool := &t
	r.tools = append(r.tools, tool)
	r.byName[t.Name] = tool
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Tools returns every registered tool in registration order.
func (r *Registry) Tools() []*Tool {
	return r.tools
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Call validates args against the tool's schema and runs it.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := t.validate(args); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := t.Handler(ctx, NewArgs(t.Input, args))
	logger.Debug().Str("tool", name).Dur("elapsed", time.Since(start)).Err(err).Msg("tool call finished")
	return out, err
}

func (t *Tool) validate(args map[string]any) error {
	res, err := t.validator.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return &ArgumentError{Message: fmt.Sprintf("invalid arguments for %s: %v", t.Name, err)}
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return &ArgumentError{Message: fmt.Sprintf("invalid arguments for %s: %s", t.Name, strings.Join(msgs, "; "))}
}

// ArgumentError rejects a call whose arguments do not fit the tool.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }
