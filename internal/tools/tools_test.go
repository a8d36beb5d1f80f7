package tools_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/docker/dockertest"
	"github.com/schmitthub/dockmcp/internal/project"
	"github.com/schmitthub/dockmcp/internal/resolver"
	"github.com/schmitthub/dockmcp/internal/tools"
)

func newRegistry(t *testing.T, fake *dockertest.FakeClient) *tools.Registry {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/app/compose.yaml", []byte("services: {}\n"), 0o644))
	loc := project.NewLocator()
	loc.Fs = fs
	loc.LookupEnv = func(string) (string, bool) { return "", false }
	loc.Getwd = func() (string, error) { return "/srv/app/src", nil }

	return tools.NewDefaultRegistry(&tools.Deps{
		OpenDocker: func(context.Context) (*docker.Client, error) { return fake.Client, nil },
		Locator:    loc,
		Timeout:    time.Minute,
	})
}

func webContainers(fake *dockertest.FakeClient) {
	fake.SetupContainers(
		dockertest.ContainerFixture("aaa111", "web-frontend", "nginx", "running"),
		dockertest.ContainerFixture("bbb222", "web-backend", "node", "running"),
		dockertest.ContainerFixture("ccc333", "db", "postgres", "exited"),
	)
}

func TestContainerStop_ResolvesPartialName(t *testing.T) {
	fake := dockertest.NewFakeClient()
	webContainers(fake)
	var stopped string
	var opts container.StopOptions
	fake.FakeAPI.ContainerStopFn = func(_ context.Context, id string, o container.StopOptions) error {
		stopped, opts = id, o
		return nil
	}
	r := newRegistry(t, fake)

	out, err := r.Call(context.Background(), "container_stop", map[string]any{"container_identifier": "front"})
	require.NoError(t, err)
	assert.Equal(t, "aaa111", stopped)
	assert.Nil(t, opts.Timeout)
	assert.Equal(t, &docker.ContainerAction{
		ID:      "aaa111",
		Name:    "web-frontend",
		Status:  "stopped",
		Message: "Container 'web-frontend' stopped.",
	}, out)
	assert.True(t, fake.FakeAPI.Closed)
}

func TestContainerStop_Timeout(t *testing.T) {
	fake := dockertest.NewFakeClient()
	webContainers(fake)
	var opts container.StopOptions
	fake.FakeAPI.ContainerStopFn = func(_ context.Context, _ string, o container.StopOptions) error {
		opts = o
		return nil
	}
	r := newRegistry(t, fake)

	_, err := r.Call(context.Background(), "container_stop", map[string]any{"container_identifier": "db", "timeout": 0})
	require.NoError(t, err)
	require.NotNil(t, opts.Timeout)
	assert.Equal(t, 0, *opts.Timeout)
}

func TestContainerInfo_Ambiguous(t *testing.T) {
	fake := dockertest.NewFakeClient()
	webContainers(fake)
	r := newRegistry(t, fake)

	_, err := r.Call(context.Background(), "container_info", map[string]any{"container_identifier": "web"})
	require.Error(t, err)
	assert.True(t, resolver.IsAmbiguous(err))

	rec := tools.ClassifyError(err)
	assert.Equal(t, tools.KindAmbiguous, rec.Error.Kind)
	assert.Equal(t, []string{"web-frontend", "web-backend"}, rec.Error.Matches)
	assert.Equal(t, "Multiple containers match 'web': web-frontend, web-backend. Please be more specific.", rec.Error.Message)
}

func TestContainerLogs_NotFoundSuggests(t *testing.T) {
	fake := dockertest.NewFakeClient()
	webContainers(fake)
	r := newRegistry(t, fake)

	_, err := r.Call(context.Background(), "container_logs", map[string]any{"container_identifier": "cache"})
	rec := tools.ClassifyError(err)
	assert.Equal(t, tools.KindNotFound, rec.Error.Kind)
	assert.Equal(t, "Container 'cache' not found.", rec.Error.Message)
	fake.AssertNotCalled(t, "ContainerLogs")
}

func TestContainerLogs_Tail(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		wantTail string
	}{
		{name: "omitted", args: map[string]any{}, wantTail: "100"},
		{name: "explicit zero", args: map[string]any{"tail": 0}, wantTail: "0"},
		{name: "explicit", args: map[string]any{"tail": 5}, wantTail: "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := dockertest.NewFakeClient()
			webContainers(fake)
			var opts container.LogsOptions
			fake.FakeAPI.ContainerLogsFn = func(_ context.Context, _ string, o container.LogsOptions) (io.ReadCloser, error) {
				opts = o
				return dockertest.LogsBody("", ""), nil
			}
			r := newRegistry(t, fake)

			tt.args["container_identifier"] = "db"
			_, err := r.Call(context.Background(), "container_logs", tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTail, opts.Tail)
		})
	}
}

func TestNetworkConnect(t *testing.T) {
	fake := dockertest.NewFakeClient()
	webContainers(fake)
	fake.SetupNetworks(dockertest.NetworkFixture("net1abc", "backend", "bridge"))
	var netID, cid string
	fake.FakeAPI.NetworkConnectFn = func(_ context.Context, n, c string, _ *network.EndpointSettings) error {
		netID, cid = n, c
		return nil
	}
	r := newRegistry(t, fake)

	out, err := r.Call(context.Background(), "network_connect", map[string]any{
		"network_identifier":   "back",
		"container_identifier": "db",
	})
	require.NoError(t, err)
	assert.Equal(t, "net1abc", netID)
	assert.Equal(t, "ccc333", cid)
	assert.Equal(t, "Connected 'db' to network 'backend'", out.(*docker.NetworkAttachment).Message)
}

func TestResolveTool(t *testing.T) {
	fake := dockertest.NewFakeClient()
	fake.SetupImages(
		dockertest.ImageFixture("sha256:111", "nginx:latest", "nginx:1.25"),
		dockertest.ImageFixture("sha256:222", "postgres:16"),
	)
	r := newRegistry(t, fake)

	out, err := r.Call(context.Background(), "resolve", map[string]any{"kind": "image", "query": "postgres"})
	require.NoError(t, err)
	res := out.(*resolver.Result)
	assert.Equal(t, resolver.OutcomeResolved, res.Outcome)
	assert.Equal(t, "sha256:222", res.Candidate.Key)

	_, err = r.Call(context.Background(), "resolve", map[string]any{"kind": "pod", "query": "x"})
	assert.Equal(t, tools.KindInvalidArgument, tools.ClassifyError(err).Error.Kind)
}

func TestProjectLocateTool(t *testing.T) {
	r := newRegistry(t, dockertest.NewFakeClient())

	out, err := r.Call(context.Background(), "project_locate", nil)
	require.NoError(t, err)
	assert.Equal(t, &project.Location{Dir: "/srv/app", Marker: "compose.yaml", Source: project.SourceSearch}, out)

	_, err = r.Call(context.Background(), "project_locate", map[string]any{"path": "/nowhere"})
	rec := tools.ClassifyError(err)
	assert.Equal(t, tools.KindInvalidPath, rec.Error.Kind)
	assert.Equal(t, "/nowhere", rec.Error.Path)
}

func TestDockerUnavailable(t *testing.T) {
	r := tools.NewDefaultRegistry(&tools.Deps{
		OpenDocker: func(context.Context) (*docker.Client, error) {
			return nil, docker.ErrDockerNotRunning(errors.New("dial unix /var/run/docker.sock: connect: no such file or directory"))
		},
	})

	_, err := r.Call(context.Background(), "volume_list", nil)
	rec := tools.ClassifyError(err)
	assert.Equal(t, tools.KindCommunicationFailure, rec.Error.Kind)
	assert.NotEmpty(t, rec.Error.NextSteps)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"error":{"kind":"communication_failure","message":"Cannot connect to Docker daemon"`)
}

func TestDockerToolTimeout(t *testing.T) {
	fake := dockertest.NewFakeClient()
	var deadline time.Time
	fake.FakeAPI.ContainerListFn = func(ctx context.Context, _ container.ListOptions) ([]container.Summary, error) {
		deadline, _ = ctx.Deadline()
		return nil, nil
	}
	r := newRegistry(t, fake)

	_, err := r.Call(context.Background(), "container_list", nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
