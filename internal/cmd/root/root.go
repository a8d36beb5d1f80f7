package root

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmd/project"
	"github.com/schmitthub/dockmcp/internal/cmd/resolve"
	"github.com/schmitthub/dockmcp/internal/cmd/serve"
	"github.com/schmitthub/dockmcp/internal/cmd/tool"
	versioncmd "github.com/schmitthub/dockmcp/internal/cmd/version"
	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/logger"
)

// NewCmdRoot creates the root command for the dockmcp CLI.
func NewCmdRoot(f *cmdutil.Factory, version, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dockmcp",
		Short: "Docker and Compose tools for MCP clients",
		Long: `dockmcp exposes Docker containers, images, networks, volumes and Compose
projects as Model Context Protocol tools.

Resources can be named by ID, ID prefix, name or unique partial name.

Quick start:
  dockmcp serve                       # Run the MCP server on stdio
  dockmcp tool list                   # Show every tool
  dockmcp resolve container web       # Check what "web" refers to
  dockmcp project locate              # Show the Compose project in use`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, buildDate),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", f.Debug).
				Str("config", f.ConfigPath).
				Msg("dockmcp starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&f.Debug, "debug", "D", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&f.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/dockmcp/config.yaml)")

	// Version template
	cmd.SetVersionTemplate(versioncmd.Format(version, buildDate))

	// Register top-level aliases (shortcuts to subcommands)
	registerAliases(cmd, f)

	cmd.AddCommand(serve.NewCmdServe(f, nil))
	cmd.AddCommand(tool.NewCmdTool(f))
	cmd.AddCommand(resolve.NewCmdResolve(f, nil))
	cmd.AddCommand(project.NewCmdProject(f))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, buildDate))

	return cmd
}

// initializeLogger sets up stderr logging plus the rotated log file when
// the config allows it. Falls back to stderr-only logging on any error.
func initializeLogger(f *cmdutil.Factory) {
	if f.Config == nil {
		logger.Init(f.Debug)
		return
	}

	cfg, err := f.Config()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to load config")
		return
	}

	logsDir, err := config.LogsDir()
	if err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to get logs directory")
		return
	}

	if err := logger.InitWithFile(f.Debug, logsDir, cfg.Logging.ToLogger()); err != nil {
		logger.Init(f.Debug)
		logger.Warn().Err(err).Msg("file logging unavailable: failed to initialize file writer")
	}
}
