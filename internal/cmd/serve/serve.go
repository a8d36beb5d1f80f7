// Package serve provides the MCP stdio server command.
package serve

import (
	"context"
	"errors"
	"io"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/mcp"
	"github.com/schmitthub/dockmcp/internal/signals"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// ServerName is reported to clients during initialization.
const ServerName = "dockmcp"

const instructions = `Tools accept Docker resources by ID, ID prefix, name or unique partial name.
Ambiguous identifiers fail with the list of matches; retry with one of them.
Compose tools locate the project from project_dir, the MCP_PROJECT_DIR,
WORKSPACE_ROOT or CURSOR_WORKSPACE_ROOT env vars, or the working directory.`

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	IOStreams    *iostreams.IOStreams
	ConfigLoader func() *config.Loader
	Tools        func() (*tools.Registry, error)
	Version      string

	Watch bool
}

// NewCmdServe creates the serve command.
func NewCmdServe(f *cmdutil.Factory, runF func(context.Context, *ServeOptions) error) *cobra.Command {
	opts := &ServeOptions{
		IOStreams:    f.IOStreams,
		ConfigLoader: f.ConfigLoader,
		Tools:        f.Tools,
		Version:      f.Version,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Runs dockmcp as a Model Context Protocol server.

Requests are read as newline-delimited JSON-RPC 2.0 from stdin and answered
on stdout. Logs go to stderr and the log file, never to stdout.

The server exits when stdin closes or on SIGINT/SIGTERM.`,
		Example: `  # Run the server (usually launched by an MCP client)
  dockmcp serve

  # Run with debug logging and a custom config
  dockmcp serve --debug --config ./dockmcp.yaml`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return serveRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload the config file when it changes")

	return cmd
}

func serveRun(ctx context.Context, opts *ServeOptions) error {
	registry, err := opts.Tools()
	if err != nil {
		return err
	}

	if opts.Watch {
		watchConfig(opts.IOStreams, opts.ConfigLoader())
	}

	ctx, cancel := signals.SetupSignalContext(ctx)
	defer cancel()

	srv := mcp.NewServer(registry, mcp.Implementation{Name: ServerName, Version: opts.Version}, instructions)
	logger.Info().Int("tools", len(registry.Tools())).Str("version", opts.Version).Msg("serving MCP on stdio")

	err = srv.Serve(ctx, opts.IOStreams.In, opts.IOStreams.Out)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		logger.Info().Msg("stdin closed, shutting down")
		return nil
	case errors.Is(err, context.Canceled):
		logger.Info().AnErr("cause", context.Cause(ctx)).Msg("shutting down")
		return nil
	}
	return err
}

// watchConfig logs config reloads. Daemon settings apply to the next
// tool call; a config that fails validation keeps the previous one.
func watchConfig(ios *iostreams.IOStreams, loader *config.Loader) {
	log := ios.Logger
	err := loader.Watch(func(e fsnotify.Event, cfg *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("config reload failed, keeping previous config")
			_ = ios.PrintWarning("config reload failed, keeping previous config: %v", err)
			return
		}
		log.Info().Str("file", e.Name).Str("docker_host", cfg.Docker.Host).Msg("config reloaded")
	})
	if err != nil {
		log.Debug().Err(err).Msg("config watch disabled")
	}
}
