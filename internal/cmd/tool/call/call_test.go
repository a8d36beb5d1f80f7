package call

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams/iostreamstest"
	"github.com/schmitthub/dockmcp/internal/resolver"
	"github.com/schmitthub/dockmcp/internal/resource"
	"github.com/schmitthub/dockmcp/internal/tools"
)

func TestNewCmdCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantArgs   []string
		wantJSON   string
		wantErr    bool
		wantErrMsg string
	}{
		{
			name:     "name only",
			input:    "container_list",
			wantName: "container_list",
		},
		{
			name:     "repeated args",
			input:    "container_logs --arg container_identifier=web -a tail=20",
			wantName: "container_logs",
			wantArgs: []string{"container_identifier=web", "tail=20"},
		},
		{
			name:     "json object",
			input:    `compose_up --json '{"build":true}'`,
			wantName: "compose_up",
			wantJSON: `{"build":true}`,
		},
		{
			name:       "missing name",
			input:      "",
			wantErr:    true,
			wantErrMsg: "requires 1 argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &cmdutil.Factory{IOStreams: iostreamstest.New().IOStreams}
			var gotOpts *CallOptions
			cmd := NewCmdCall(f, func(_ context.Context, opts *CallOptions) error {
				gotOpts = opts
				return nil
			})

			argv, err := shlex.Split(tt.input)
			require.NoError(t, err)
			cmd.SetArgs(argv)
			cmd.SetOut(&strings.Builder{})
			cmd.SetErr(&strings.Builder{})

			_, err = cmd.ExecuteC()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, gotOpts)
			assert.Equal(t, tt.wantName, gotOpts.Name)
			assert.Equal(t, tt.wantArgs, gotOpts.Args)
			assert.Equal(t, tt.wantJSON, gotOpts.JSON)
		})
	}
}

// testRegistry holds a "greet" tool echoing its arguments and a "find"
// tool that fails with an ambiguous match.
func testRegistry() *tools.Registry {
	reg := tools.NewRegistry()
	reg.MustRegister(
		tools.Tool{
			Name: "greet",
			Input: tools.Object(
				tools.Required(tools.Str("name", "Who to greet")),
				tools.Int("times", "Repetitions", 1, nil),
				tools.Bool("loud", "Shout", false),
				tools.Strings("tags", "Tags"),
			),
			Handler: func(_ context.Context, args tools.Args) (any, error) {
				return map[string]any{
					"name":  args.String("name"),
					"times": args.Int("times"),
					"loud":  args.Bool("loud"),
					"tags":  args.Strings("tags"),
				}, nil
			},
		},
		tools.Tool{
			Name: "find",
			Handler: func(context.Context, tools.Args) (any, error) {
				return nil, &resolver.AmbiguousError{Kind: resource.KindContainer, Query: "web", Matches: []string{"web-1", "web-2"}}
			},
		},
	)
	return reg
}

func TestCallRun(t *testing.T) {
	tests := []struct {
		name string
		json string
		args []string
		want string
	}{
		{
			name: "typed args",
			args: []string{"name=bo", "times=3", "loud=true", "tags=a,b"},
			want: `{"name":"bo","times":3,"loud":true,"tags":["a","b"]}`,
		},
		{
			name: "defaults",
			args: []string{"name=bo"},
			want: `{"name":"bo","times":1,"loud":false,"tags":null}`,
		},
		{
			name: "args override json",
			json: `{"name":"al","times":2}`,
			args: []string{"name=bo"},
			want: `{"name":"bo","times":2,"loud":false,"tags":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ios := iostreamstest.New()
			opts := &CallOptions{
				IOStreams: ios.IOStreams,
				Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
				Name:      "greet",
				Args:      tt.args,
				JSON:      tt.json,
			}

			require.NoError(t, callRun(context.Background(), opts))
			assert.JSONEq(t, tt.want, ios.OutBuf.String())
			assert.Empty(t, ios.ErrBuf.String())
		})
	}
}

func TestCallRun_ToolError(t *testing.T) {
	ios := iostreamstest.New()
	opts := &CallOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
		Name:      "find",
	}

	err := callRun(context.Background(), opts)
	assert.ErrorIs(t, err, cmdutil.SilentError)
	assert.Empty(t, ios.OutBuf.String())

	var rec tools.ErrorRecord
	require.NoError(t, json.Unmarshal([]byte(ios.ErrBuf.String()), &rec))
	assert.Equal(t, tools.KindAmbiguous, rec.Error.Kind)
	assert.Equal(t, []string{"web-1", "web-2"}, rec.Error.Matches)
}

func TestCallRun_ValidationError(t *testing.T) {
	ios := iostreamstest.New()
	opts := &CallOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
		Name:      "greet",
		Args:      []string{"times=2"},
	}

	err := callRun(context.Background(), opts)
	assert.ErrorIs(t, err, cmdutil.SilentError)
	assert.Contains(t, ios.ErrBuf.String(), `"kind": "invalid_argument"`)
	assert.Contains(t, ios.ErrBuf.String(), "name")
}

func TestCallRun_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    []string
		json    string
		wantErr string
	}{
		{name: "unknown tool", tool: "nope", wantErr: `unknown tool "nope"`},
		{name: "missing equals", tool: "greet", args: []string{"name"}, wantErr: `invalid --arg format: "name"`},
		{name: "unknown key", tool: "greet", args: []string{"colour=red"}, wantErr: `invalid --arg key "colour"; valid keys: loud, name, tags, times`},
		{name: "bad integer", tool: "greet", args: []string{"times=lots"}, wantErr: `must be an integer`},
		{name: "bad json", tool: "greet", json: `{"name":`, wantErr: "invalid --json"},
		{name: "json array", tool: "greet", json: `["bo"]`, wantErr: "invalid --json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &CallOptions{
				IOStreams: iostreamstest.New().IOStreams,
				Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
				Name:      tt.tool,
				Args:      tt.args,
				JSON:      tt.json,
			}

			err := callRun(context.Background(), opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var flagErr *cmdutil.FlagError
			assert.True(t, errors.As(err, &flagErr))
		})
	}
}
