package tools

import (
	"context"
	"time"

	"github.com/schmitthub/dockmcp/internal/compose"
	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/resolver"
	"github.com/schmitthub/dockmcp/internal/resource"
)

// Deps are the collaborators tool handlers share.
type Deps struct {
	// OpenDocker opens a daemon handle. Each call gets its own and closes it.
	OpenDocker func(ctx context.Context) (*docker.Client, error)
	Compose    *compose.Runner
	Locator    *project.Locator
	// Timeout bounds each Docker tool call. Zero means unbounded.
	Timeout time.Duration
}

// NewDefaultRegistry builds the registry holding every dockmcp tool.
func NewDefaultRegistry(d *Deps) *Registry {
	r := NewRegistry()
	r.MustRegister(containerTools(d)...)
	r.MustRegister(imageTools(d)...)
	r.MustRegister(networkTools(d)...)
	r.MustRegister(volumeTools(d)...)
	r.MustRegister(composeTools(d)...)
	r.MustRegister(coreTools(d)...)
	return r
}

// session is one scoped daemon handle plus a resolver over it.
type session struct {
	*docker.Client
	resolver *resolver.Resolver
}

// lookup resolves a user identifier to exactly one resource.
func (s *session) lookup(ctx context.Context, kind resource.Kind, query string) (resource.Candidate, error) {
	return s.resolver.Lookup(ctx, kind, query)
}

// withDocker opens a daemon handle for the duration of fn.
func (d *Deps) withDocker(ctx context.Context, fn func(ctx context.Context, s *session) (any, error)) (any, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	c, err := d.OpenDocker(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return fn(ctx, &session{Client: c, resolver: resolver.New(c)})
}

// dockerTool adapts a session handler to a Handler.
func (d *Deps) dockerTool(fn func(ctx context.Context, s *session, args Args) (any, error)) Handler {
	return func(ctx context.Context, args Args) (any, error) {
		return d.withDocker(ctx, func(ctx context.Context, s *session) (any, error) {
			return fn(ctx, s, args)
		})
	}
}
