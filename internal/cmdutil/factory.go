package cmdutil

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/compose"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// Factory provides shared dependencies for CLI commands.
// It is a dependency injection container: the struct defines what
// dependencies exist (the contract), while internal/cmd/factory
// wires the real implementations.
//
// Closure fields are set by the factory constructor and use lazy
// initialization internally. Commands extract only the fields they
// need into per-command Options structs.
type Factory struct {
	// Configuration from flags (set before command execution)
	ConfigPath string
	Debug      bool

	// Version info (set at build time via ldflags)
	Version string
	Commit  string

	// IO streams for input/output (for testability)
	IOStreams *iostreams.IOStreams

	// Dependency providers (closures wired by factory constructor)
	ConfigLoader func() *config.Loader
	Config       func() (*config.Config, error)

	// Docker opens a new daemon handle on every call. Callers Close it.
	Docker  func(context.Context) (*docker.Client, error)
	Locator func() (*project.Locator, error)
	Compose func() (*compose.Runner, error)
	Tools   func() (*tools.Registry, error)
}
