// Package call provides the tool call command.
package call

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams"
	"github.com/schmitthub/dockmcp/internal/logger"
	"github.com/schmitthub/dockmcp/internal/tools"
)

// CallOptions holds options for the tool call command.
type CallOptions struct {
	IOStreams *iostreams.IOStreams
	Tools     func() (*tools.Registry, error)

	Name string
	// Args are raw key=value pairs, coerced by the tool's input schema.
	Args []string
	// JSON is a JSON object of arguments. Args override its keys.
	JSON string
}

// NewCmdCall creates the tool call command.
func NewCmdCall(f *cmdutil.Factory, runF func(context.Context, *CallOptions) error) *cobra.Command {
	opts := &CallOptions{
		IOStreams: f.IOStreams,
		Tools:     f.Tools,
	}

	cmd := &cobra.Command{
		Use:   "call NAME",
		Short: "Call a tool and print its result as JSON",
		Long: `Calls a tool with arguments from --arg and --json.

--arg values are typed by the tool's input schema: integers and booleans
are parsed, lists are comma-separated and maps are comma-separated
key=value pairs. --arg keys override keys from --json.`,
		Example: `  # Inspect a container by partial name
  dockmcp tool call container_info --arg container_identifier=web

  # Tail 20 log lines
  dockmcp tool call container_logs --arg container_identifier=web --arg tail=20

  # Start two compose services from a JSON object
  dockmcp tool call compose_up --json '{"services":["web","db"],"build":true}'`,
		Args: cmdutil.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			if runF != nil {
				return runF(cmd.Context(), opts)
			}
			return callRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Args, "arg", "a", nil, "Tool argument as `key=value` (repeatable)")
	cmd.Flags().StringVar(&opts.JSON, "json", "", "Tool arguments as a JSON object")

	return cmd
}

func callRun(ctx context.Context, opts *CallOptions) error {
	registry, err := opts.Tools()
	if err != nil {
		return err
	}
	tool, ok := registry.Lookup(opts.Name)
	if !ok {
		return cmdutil.FlagErrorf("unknown tool %q; run 'dockmcp tool list' to see available tools", opts.Name)
	}

	args, err := buildArgs(tool.Input, opts.JSON, opts.Args)
	if err != nil {
		return err
	}

	logger.SetContext(tool.Name, "")
	defer logger.ClearContext()

	result, err := registry.Call(ctx, tool.Name, args)
	if err != nil {
		logger.Debug().Err(err).Msg("tool call failed")
		if werr := cmdutil.WriteJSON(opts.IOStreams.ErrOut, tools.ClassifyError(err)); werr != nil {
			return werr
		}
		return cmdutil.SilentError
	}
	return cmdutil.WriteJSON(opts.IOStreams.Out, result)
}

// buildArgs merges the --json object with coerced --arg pairs.
func buildArgs(schema tools.Schema, rawJSON string, pairs []string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(rawJSON) != "" {
		dec := json.NewDecoder(strings.NewReader(rawJSON))
		dec.UseNumber()
		if err := dec.Decode(&args); err != nil {
			return nil, cmdutil.FlagErrorf("invalid --json: %v", err)
		}
	}

	kv, err := cmdutil.ParseKeyValues("arg", pairs)
	if err != nil {
		return nil, err
	}
	if err := cmdutil.ValidateKeys("arg", kv, schema.PropertyNames()); err != nil {
		return nil, err
	}
	flags := cmdutil.KeyValueMap(kv)
	coerced, err := tools.CoerceFlags(schema, flags)
	if err != nil {
		return nil, cmdutil.FlagErrorWrap(err)
	}
	for k, v := range coerced {
		args[k] = v
	}
	return args, nil
}

