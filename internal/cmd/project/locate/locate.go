// Package locate provides the project locate command.
package locate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// LocateOptions holds options for the project locate command.
type LocateOptions struct {
	IOStreams *iostreams.IOStreams
	Locator   func() (*project.Locator, error)

	Path  string
	Quiet bool
}

// NewCmdLocate creates the project locate command.
func NewCmdLocate(f *cmdutil.Factory, runF func(context.Context, *LocateOptions) error) *cobra.Command {
	opts := &LocateOptions{
		IOStreams: f.IOStreams,
		Locator:   f.Locator,
	}

	cmd := &cobra.Command{
		Use:   "locate [PATH]",
		Short: "Find the Compose project directory",
		Long: `Finds the directory holding a compose file.

With PATH, that directory must itself hold a compose file. Without it, the
directories named by MCP_PROJECT_DIR, WORKSPACE_ROOT and
CURSOR_WORKSPACE_ROOT are tried in order, then the working directory and
each of its parents.`,
		Example: `  # Locate from the working directory and env hints
  dockmcp project locate

  # Check an explicit directory, printing only the path
  dockmcp project locate ./deploy -q`,
		Args: cmdutil.RequiresMaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Path = args[0]
			}
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return locateRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print the project directory")

	return cmd
}

func locateRun(_ context.Context, opts *LocateOptions) error {
	locator, err := opts.Locator()
	if err != nil {
		return err
	}

	loc, err := locator.Find(opts.Path)
	if err != nil {
		if werr := cmdutil.WriteJSON(opts.IOStreams.ErrOut, tools.ClassifyError(err)); werr != nil {
			return werr
		}
		return cmdutil.SilentError
	}

	if opts.Quiet {
		_, err := fmt.Fprintln(opts.IOStreams.Out, loc.Dir)
		return err
	}
	return cmdutil.WriteJSON(opts.IOStreams.Out, loc)
}
