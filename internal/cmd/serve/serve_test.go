package serve

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/config"
	"github.com/schmitthub/dockmcp/internal/iostreams/iostreamstest"
	"github.com/schmitthub/dockmcp/internal/logger/loggertest"
	"github.com/schmitthub/dockmcp/internal/tools"
)

func TestNewCmdServe(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantWatch  bool
		wantErr    bool
		wantErrMsg string
	}{
		{name: "defaults", input: "", wantWatch: true},
		{name: "no watch", input: "--watch=false", wantWatch: false},
		{name: "positional rejected", input: "extra", wantErr: true, wantErrMsg: "accepts no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &cmdutil.Factory{IOStreams: iostreamstest.New().IOStreams, Version: "1.2.3"}

			var gotOpts *ServeOptions
			cmd := NewCmdServe(f, func(_ context.Context, opts *ServeOptions) error {
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
			assert.Equal(t, tt.wantWatch, gotOpts.Watch)
			assert.Equal(t, "1.2.3", gotOpts.Version)
		})
	}
}

func TestServeRun(t *testing.T) {
	ios := iostreamstest.New()
	ios.InBuf.SetInput(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"agent","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"ping_daemon"}}`,
	}, "\n") + "\n")

	reg := tools.NewRegistry()
	reg.MustRegister(tools.Tool{
		Name:        "ping_daemon",
		Description: "Reports pong",
		Handler: func(context.Context, tools.Args) (any, error) {
			return map[string]string{"status": "pong"}, nil
		},
	})

	opts := &ServeOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return reg, nil },
		Version:   "1.2.3",
	}
	require.NoError(t, serveRun(context.Background(), opts))

	byID := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(ios.OutBuf.String()), "\n") {
		var msg struct {
			ID json.RawMessage `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &msg), line)
		byID[string(msg.ID)] = line
	}
	require.Len(t, byID, 3)
	assert.Contains(t, byID["1"], `"serverInfo":{"name":"dockmcp","version":"1.2.3"}`)
	assert.Contains(t, byID["2"], `"name":"ping_daemon"`)
	assert.Contains(t, byID["3"], `pong`)
	assert.Empty(t, ios.ErrBuf.String())
}

func TestServeRun_ToolsError(t *testing.T) {
	ios := iostreamstest.New()
	opts := &ServeOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return nil, errors.New("bad config") },
	}
	assert.EqualError(t, serveRun(context.Background(), opts), "bad config")
	assert.Empty(t, ios.OutBuf.String())
}

func TestServeRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &ServeOptions{
		IOStreams: iostreamstest.New().IOStreams,
		Tools:     func() (*tools.Registry, error) { return tools.NewRegistry(), nil },
	}
	assert.NoError(t, serveRun(ctx, opts))
}

func TestWatchConfig_NoFile(t *testing.T) {
	loader := config.NewLoader(filepath.Join(t.TempDir(), "absent.yaml"))
	tio := iostreamstest.New()
	log := loggertest.New()
	tio.Logger = log

	watchConfig(tio.IOStreams, loader)
	assert.Contains(t, log.Output(), `"message":"config watch disabled"`)
	assert.Empty(t, tio.ErrBuf.String())
}
