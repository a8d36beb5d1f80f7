package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmd/project/locate"
	"github.com/schmitthub/dockmcp/internal/cmd/tool/call"
	"github.com/schmitthub/dockmcp/internal/cmd/tool/list"
	"github.com/schmitthub/dockmcp/internal/cmdutil"
)

// Alias defines a top-level command alias to a subcommand, the way
// `docker run` is an alias for `docker container run`. Each alias creates
// a new command instance from the factory, overriding only Use and
// optionally Example, while inheriting all other properties (flags, RunE, etc.).
type Alias struct {
	// Use sets the command's Use field (required)
	Use string
	// Example optionally replaces the command's Example field (empty preserves original)
	Example string
	// Command is a factory function that creates the target command
	Command func(*cmdutil.Factory) *cobra.Command
}

// topLevelAliases defines all top-level shortcuts to subcommands.
var topLevelAliases = []Alias{
	{
		Use:     "call NAME",
		Example: callExample,
		Command: func(f *cmdutil.Factory) *cobra.Command { return call.NewCmdCall(f, nil) },
	},
	{
		Use:     "tools",
		Example: "  dockmcp tools",
		Command: func(f *cmdutil.Factory) *cobra.Command {
			cmd := list.NewCmdList(f, nil)
			cmd.Aliases = nil
			return cmd
		},
	},
	{
		Use:     "locate [PATH]",
		Example: "  dockmcp locate\n  dockmcp locate ./deploy -q",
		Command: func(f *cmdutil.Factory) *cobra.Command { return locate.NewCmdLocate(f, nil) },
	},
}

// registerAliases adds all top-level aliases to the root command.
func registerAliases(root *cobra.Command, f *cmdutil.Factory) {
	for _, alias := range topLevelAliases {
		if alias.Use == "" {
			panic("alias has empty Use field")
		}
		if alias.Command == nil {
			panic(fmt.Sprintf("alias %q has nil Command factory", alias.Use))
		}
		cmd := alias.Command(f)
		if cmd == nil {
			panic(fmt.Sprintf("alias %q factory returned nil command", alias.Use))
		}
		cmd.Use = alias.Use
		if alias.Example != "" {
			cmd.Example = alias.Example
		}
		root.AddCommand(cmd)
	}
}

const callExample = `  # Inspect a container by partial name
  dockmcp call container_info --arg container_identifier=web

  # Bring up the compose project in the working directory
  dockmcp call compose_up`
