// Package list provides the tool list command.
package list

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// ListOptions holds options for the tool list command.
type ListOptions struct {
	IOStreams *iostreams.IOStreams
	Tools     func() (*tools.Registry, error)

	JSON bool
}

// toolSummary is the --json shape of one tool.
type toolSummary struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema tools.Schema `json:"inputSchema"`
}

// NewCmdList creates the tool list command.
func NewCmdList(f *cmdutil.Factory, runF func(context.Context, *ListOptions) error) *cobra.Command {
	opts := &ListOptions{
		IOStreams: f.IOStreams,
		Tools:     f.Tools,
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available tools",
		Example: `  # Show tool names and descriptions
  dockmcp tool list

  # Include input schemas as JSON
  dockmcp tool list --json`,
		Args: cmdutil.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return listRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print tools with their input schemas as JSON")

	return cmd
}

func listRun(_ context.Context, opts *ListOptions) error {
	registry, err := opts.Tools()
	if err != nil {
		return err
	}
	all := registry.Tools()

	if opts.JSON {
		out := make([]toolSummary, 0, len(all))
		for _, t := range all {
			out = append(out, toolSummary{Name: t.Name, Description: t.Description, InputSchema: t.Input})
		}
		return cmdutil.WriteJSON(opts.IOStreams.Out, out)
	}

	if len(all) == 0 {
		return opts.IOStreams.PrintEmpty("tools")
	}
	tp := opts.IOStreams.NewTablePrinter("NAME", "DESCRIPTION")
	for _, t := range all {
		tp.AddRow(t.Name, t.Description)
	}
	return tp.Render()
}
