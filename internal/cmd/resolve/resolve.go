// Package resolve provides the resolve command.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/resolver"
	"github.com/schmitthub/dockmcp/internal/resource"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// ResolveOptions holds options for the resolve command.
type ResolveOptions struct {
	IOStreams *iostreams.IOStreams
	Docker    func(context.Context) (*docker.Client, error)
	Config    func() (*config.Config, error)

	Kind  resource.Kind
	Query string
	Quiet bool
}

// NewCmdResolve creates the resolve command.
func NewCmdResolve(f *cmdutil.Factory, runF func(context.Context, *ResolveOptions) error) *cobra.Command {
	opts := &ResolveOptions{
		IOStreams: f.IOStreams,
		Docker:    f.Docker,
		Config:    f.Config,
	}

	kinds := make([]string, 0, len(resource.Kinds()))
	for _, k := range resource.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "resolve KIND QUERY",
		Short: "Resolve an identifier to a single Docker resource",
		Long: fmt.Sprintf(`Resolves QUERY to one resource of KIND (%s).

An exact ID or name wins. Otherwise QUERY must match exactly one resource
by case-insensitive substring. Ambiguous and unknown queries exit non-zero
with a JSON error record on stderr.`, strings.Join(kinds, ", ")),
		Example: `  # Resolve a container by partial name
  dockmcp resolve container web

  # Print only the resolved image ID
  dockmcp resolve image nginx -q`,
		Args:      cmdutil.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := resource.ParseKind(args[0])
			if err != nil {
				return cmdutil.FlagErrorWrap(err)
			}
			opts.Kind = kind
			opts.Query = args[1]
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return resolveRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only print the resolved ID")

	return cmd
}

func resolveRun(ctx context.Context, opts *ResolveOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	if cfg.Timeouts.Operation > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeouts.Operation)
		defer cancel()
	}

	res, err := resolveWith(ctx, opts)
	if err == nil {
		err = res.Err()
	}
	if err != nil {
		if werr := cmdutil.WriteJSON(opts.IOStreams.ErrOut, tools.ClassifyError(err)); werr != nil {
			return werr
		}
		return cmdutil.SilentError
	}

	if opts.Quiet {
		_, err := fmt.Fprintln(opts.IOStreams.Out, res.Candidate.Key)
		return err
	}
	return cmdutil.WriteJSON(opts.IOStreams.Out, res)
}

func resolveWith(ctx context.Context, opts *ResolveOptions) (*resolver.Result, error) {
	client, err := opts.Docker(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return resolver.New(client).Resolve(ctx, opts.Kind, opts.Query)
}
