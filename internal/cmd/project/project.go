// Package project provides the project command and its subcommands.
package project

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmd/project/locate"
	"github.com/schmitthub/dockmcp/internal/cmdutil"
)

// NewCmdProject creates the project command.
// This is a parent command that groups project-related subcommands.
func NewCmdProject(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect Compose project discovery",
		Long: `Inspect how dockmcp finds the Compose project directory.

Compose tools run in the directory found by 'dockmcp project locate'.`,
		Example: `  # Show the project the compose tools would use from here
  dockmcp project locate`,
		// No RunE - this is a parent command
	}

	cmd.AddCommand(locate.NewCmdLocate(f, nil))

	return cmd
}
