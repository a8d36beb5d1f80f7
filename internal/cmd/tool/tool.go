// Package tool provides the tool command and its subcommands.
package tool

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmd/tool/call"
	"github.com/schmitthub/dockmcp/internal/cmd/tool/list"
	"github.com/schmitthub/dockmcp/internal/cmdutil"
)

// NewCmdTool creates the tool parent command.
func NewCmdTool(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "List and call dockmcp tools from the command line",
		Long: `Runs the same tools the MCP server exposes, without an MCP client.

Results are printed as JSON on stdout. Failures are printed as a JSON error
record on stderr and the command exits non-zero.`,
		Example: `  # List every tool
  dockmcp tool list

  # Stop a container by partial name
  dockmcp tool call container_stop --arg container_identifier=web`,
	}

	cmd.AddCommand(list.NewCmdList(f, nil))
	cmd.AddCommand(call.NewCmdCall(f, nil))

	return cmd
}
