package docker_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/docker/dockertest"
)

func TestListContainers(t *testing.T) {
	fake := dockertest.NewFakeClient()
	fake.SetupContainers(
		dockertest.ContainerFixture("aaa111", "web", "nginx:latest", "running"),
		dockertest.ContainerFixture("bbb222", "db", "postgres:16", "exited"),
	)

	var gotAll bool
	inner := fake.FakeAPI.ContainerListFn
	fake.FakeAPI.ContainerListFn = func(ctx context.Context, opts container.ListOptions) ([]container.Summary, error) {
		gotAll = opts.All
		return inner(ctx, opts)
	}

	list, err := fake.Client.ListContainers(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, gotAll)
	assert.Equal(t, []docker.ContainerSummary{
		{ID: "aaa111", Name: "web", Status: "running", Image: "nginx:latest"},
		{ID: "bbb222", Name: "db", Status: "exited", Image: "postgres:16"},
	}, list)
}

func TestContainerInfo_Ports(t *testing.T) {
	fake := dockertest.NewFakeClient()
	c := dockertest.ContainerFixture("aaa111", "web", "nginx:latest", "running")
	fake.FakeAPI.ContainerInspectFn = func(_ context.Context, _ string) (container.InspectResponse, error) {
		resp := dockertest.InspectFixture(c)
		resp.NetworkSettings.Ports = nat.PortMap{
			"443/tcp": nil,
			"80/tcp":  {{HostIP: "0.0.0.0", HostPort: "8080"}},
		}
		return resp, nil
	}

	info, err := fake.Client.ContainerInfo(context.Background(), "aaa111")
	require.NoError(t, err)
	assert.Equal(t, "web", info.Name)
	assert.Equal(t, "running", info.Status)
	assert.Equal(t, "nginx:latest", info.Image)
	assert.Equal(t, "2024-01-02T03:04:05Z", info.Created)
	assert.Equal(t, map[string][]docker.PortBinding{
		"80/tcp":  {{HostIP: "0.0.0.0", HostPort: "8080"}},
		"443/tcp": {},
	}, info.Ports)
}

func TestContainerLogs_Demultiplexes(t *testing.T) {
	fake := dockertest.NewFakeClient()
	fake.SetupContainers(dockertest.ContainerFixture("aaa111", "web", "nginx", "running"))

	var opts container.LogsOptions
	fake.FakeAPI.ContainerLogsFn = func(_ context.Context, _ string, o container.LogsOptions) (io.ReadCloser, error) {
		opts = o
		return dockertest.LogsBody("hello\n", "oops\n"), nil
	}

	logs, err := fake.Client.ContainerLogs(context.Background(), "aaa111", -1, true)
	require.NoError(t, err)
	assert.Equal(t, "100", opts.Tail)
	assert.True(t, opts.Timestamps)
	assert.Equal(t, docker.DefaultLogTail, logs.Tail)
	assert.Equal(t, "hello\noops\n", logs.Logs)
	assert.Equal(t, "web", logs.Name)
}

func TestContainerStats(t *testing.T) {
	fake := dockertest.NewFakeClient()
	var streamed []bool
	fake.FakeAPI.ContainerStatsFn = func(_ context.Context, _ string, stream bool) (container.StatsResponseReader, error) {
		streamed = append(streamed, stream)
		var s container.StatsResponse
		s.Name = "/web"
		s.ID = "aaa111"
		s.CPUStats.CPUUsage.TotalUsage = 300
		s.CPUStats.SystemUsage = 2000
		s.PreCPUStats.CPUUsage.TotalUsage = 100
		s.PreCPUStats.SystemUsage = 1000
		s.MemoryStats.Usage = 512
		s.MemoryStats.Limit = 4096
		s.Networks = map[string]container.NetworkStats{"eth0": {RxBytes: 10, TxBytes: 20}}
		return dockertest.StatsBody(s), nil
	}

	stats, err := fake.Client.ContainerStats(context.Background(), "aaa111")
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, streamed, "expected one primed, non-streamed sample")
	fake.AssertCalled(t, "ContainerStats")
	assert.Equal(t, "web", stats.Name)
	assert.InDelta(t, 20.0, stats.CPUPercent, 0.0001)
	assert.Equal(t, uint64(512), stats.MemoryUsage)
	assert.Equal(t, uint64(4096), stats.MemoryLimit)
	assert.Equal(t, map[string]docker.NetworkIOStats{"eth0": {RxBytes: 10, TxBytes: 20}}, stats.NetworkIO)
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name                        string
		cpu, preCPU, system, preSys uint64
		want                        float64
	}{
		{name: "busy", cpu: 500, preCPU: 0, system: 1000, preSys: 0, want: 50},
		{name: "no system delta", cpu: 500, preCPU: 100, system: 1000, preSys: 1000, want: 0},
		{name: "system went backwards", cpu: 500, preCPU: 100, system: 900, preSys: 1000, want: 0},
		{name: "first sample", cpu: 250, preCPU: 0, system: 1000, preSys: 0, want: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s container.StatsResponse
			s.CPUStats.CPUUsage.TotalUsage = tt.cpu
			s.PreCPUStats.CPUUsage.TotalUsage = tt.preCPU
			s.CPUStats.SystemUsage = tt.system
			s.PreCPUStats.SystemUsage = tt.preSys
			assert.InDelta(t, tt.want, docker.CPUPercent(&s), 0.0001)
		})
	}
	assert.Zero(t, docker.CPUPercent(nil))
}

func TestStopContainer_Timeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout int
		want    *int
	}{
		{name: "explicit", timeout: 3, want: intPtr(3)},
		{name: "zero kills immediately", timeout: 0, want: intPtr(0)},
		{name: "daemon default", timeout: -1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := dockertest.NewFakeClient()
			var got container.StopOptions
			fake.FakeAPI.ContainerStopFn = func(_ context.Context, _ string, o container.StopOptions) error {
				got = o
				return nil
			}
			rec, err := fake.Client.StopContainer(context.Background(), "aaa111", "web", tt.timeout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Timeout)
			assert.Equal(t, "stopped", rec.Status)
			assert.Equal(t, "Container 'web' stopped.", rec.Message)
		})
	}
}

func TestStartAndRemoveContainer(t *testing.T) {
	fake := dockertest.NewFakeClient()
	fake.FakeAPI.ContainerStartFn = func(_ context.Context, _ string, _ container.StartOptions) error { return nil }
	var force bool
	fake.FakeAPI.ContainerRemoveFn = func(_ context.Context, _ string, o container.RemoveOptions) error {
		force = o.Force
		return nil
	}

	started, err := fake.Client.StartContainer(context.Background(), "aaa111", "web")
	require.NoError(t, err)
	assert.Equal(t, "started", started.Status)

	removed, err := fake.Client.RemoveContainer(context.Background(), "aaa111", "web", true)
	require.NoError(t, err)
	assert.True(t, force)
	assert.Equal(t, "removed", removed.Status)
}

func TestRemoveContainer_Running(t *testing.T) {
	fake := dockertest.NewFakeClient()
	fake.FakeAPI.ContainerRemoveFn = func(_ context.Context, _ string, _ container.RemoveOptions) error {
		return dockertest.ConflictError("cannot remove container \"/web\": container is running: stop the container before removing or force remove")
	}

	_, err := fake.Client.RemoveContainer(context.Background(), "aaa111", "web", false)
	require.Error(t, err)
	assert.True(t, docker.IsInvalidArgument(err))
	assert.EqualError(t, err, "Container 'web' is running. Stop it first or use force=true.")
}

func TestContainerLogs_Tail(t *testing.T) {
	tests := []struct {
		name     string
		tail     int
		wantTail string
		wantRes  int
	}{
		{name: "negative uses default", tail: -1, wantTail: "100", wantRes: docker.DefaultLogTail},
		{name: "zero is kept", tail: 0, wantTail: "0", wantRes: 0},
		{name: "explicit", tail: 7, wantTail: "7", wantRes: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := dockertest.NewFakeClient()
			fake.SetupContainers(dockertest.ContainerFixture("aaa111", "web", "nginx", "running"))
			var opts container.LogsOptions
			fake.FakeAPI.ContainerLogsFn = func(_ context.Context, _ string, o container.LogsOptions) (io.ReadCloser, error) {
				opts = o
				return dockertest.LogsBody("", ""), nil
			}

			logs, err := fake.Client.ContainerLogs(context.Background(), "aaa111", tt.tail, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTail, opts.Tail)
			assert.Equal(t, tt.wantRes, logs.Tail)
		})
	}
}

func TestContainerOps_WrapErrors(t *testing.T) {
	fake := dockertest.NewFakeClient()
	boom := errors.New("boom")
	fake.FakeAPI.ContainerStartFn = func(_ context.Context, _ string, _ container.StartOptions) error { return boom }

	_, err := fake.Client.StartContainer(context.Background(), "aaa111", "web")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "starting container web")
}

func intPtr(i int) *int { return &i }
