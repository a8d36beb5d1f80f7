package list

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/cmdutil"
	"github.com/schmitthub/dockmcp/internal/iostreams/iostreamstest"
	"github.com/schmitthub/dockmcp/internal/tools"
)

func testRegistry() *tools.Registry {
	reg := tools.NewRegistry()
	noop := func(context.Context, tools.Args) (any, error) { return nil, nil }
	reg.MustRegister(
		tools.Tool{Name: "container_list", Description: "List containers", Handler: noop,
			Input: tools.Object(tools.Bool("all", "Include stopped containers", true))},
		tools.Tool{Name: "resolve", Description: "Resolve an identifier", Handler: noop},
	)
	return reg
}

func TestNewCmdList(t *testing.T) {
	f := &cmdutil.Factory{IOStreams: iostreamstest.New().IOStreams}
	var gotOpts *ListOptions
	cmd := NewCmdList(f, func(_ context.Context, opts *ListOptions) error {
		gotOpts = opts
		return nil
	})
	cmd.SetArgs([]string{"--json"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	require.NotNil(t, gotOpts)
	assert.True(t, gotOpts.JSON)
	assert.Equal(t, []string{"ls"}, cmd.Aliases)
}

func TestListRun_Table(t *testing.T) {
	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
	}

	require.NoError(t, listRun(context.Background(), opts))

	lines := strings.Split(strings.TrimSpace(ios.OutBuf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^NAME\s+DESCRIPTION$`, lines[0])
	assert.Regexp(t, `^container_list\s+List containers$`, lines[1])
	assert.Regexp(t, `^resolve\s+Resolve an identifier$`, lines[2])
}

func TestListRun_JSON(t *testing.T) {
	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return testRegistry(), nil },
		JSON:      true,
	}

	require.NoError(t, listRun(context.Background(), opts))

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(ios.OutBuf.String()), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "container_list", got[0]["name"])
	schema := got[0]["inputSchema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "all")
	assert.Equal(t, "resolve", got[1]["name"])
}

func TestListRun_Empty(t *testing.T) {
	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Tools:     func() (*tools.Registry, error) { return tools.NewRegistry(), nil },
	}

	require.NoError(t, listRun(context.Background(), opts))
	assert.Empty(t, ios.OutBuf.String())
	assert.Contains(t, ios.ErrBuf.String(), "No tools found.")
}
