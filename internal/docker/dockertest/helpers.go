package dockertest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/assert"

	"github.com/schmitthub/dockmcp/internal/docker"
)

// FakeClient wraps a real *docker.Client backed by a FakeAPIClient.
// Configure behavior via FakeAPI's Fn fields or the Setup helpers; pass
// Client to code under test.
//
//	fake := dockertest.NewFakeClient()
//	fake.SetupContainers(dockertest.ContainerFixture("c1", "web", "nginx", "running"))
//	list, err := fake.Client.ListContainers(ctx, true)
//	fake.AssertCalled(t, "ContainerList")
type FakeClient struct {
	Client  *docker.Client
	FakeAPI *FakeAPIClient
}

// NewFakeClient constructs a FakeClient with the default backup image.
func NewFakeClient() *FakeClient {
	api := &FakeAPIClient{}
	return &FakeClient{
		Client:  docker.NewClientFromAPI(api, docker.Options{}),
		FakeAPI: api,
	}
}

// AssertCalled asserts that the given method was called at least once.
func (f *FakeClient) AssertCalled(t *testing.T, method string) {
	t.Helper()
	assert.Contains(t, f.FakeAPI.Called(), method, "expected %s to be called", method)
}

// AssertNotCalled asserts that the given method was never called.
func (f *FakeClient) AssertNotCalled(t *testing.T, method string) {
	t.Helper()
	assert.NotContains(t, f.FakeAPI.Called(), method, "expected %s not to be called", method)
}

// AssertCalledN asserts that the given method was called exactly n times.
func (f *FakeClient) AssertCalledN(t *testing.T, method string, n int) {
	t.Helper()
	count := 0
	for _, c := range f.FakeAPI.Called() {
		if c == method {
			count++
		}
	}
	assert.Equal(t, n, count, "call count for %s", method)
}

// Reset clears the call recording log.
func (f *FakeClient) Reset() {
	f.FakeAPI.Reset()
}

// --- Errors ---

// NotFoundError returns an error that satisfies errdefs.IsNotFound, shaped
// like the daemon's "No such <kind>" responses.
func NotFoundError(kind, ref string) error {
	return fmt.Errorf("No such %s: %s: %w", kind, ref, cerrdefs.ErrNotFound)
}

// ConflictError returns an error that satisfies errdefs.IsConflict.
func ConflictError(msg string) error {
	return fmt.Errorf("%s: %w", msg, cerrdefs.ErrConflict)
}

// --- Containers ---

// ContainerFixture builds a container.Summary with the given state.
func ContainerFixture(id, name, img, state string) container.Summary {
	return container.Summary{
		ID:    id,
		Names: []string{"/" + name},
		Image: img,
		State: container.ContainerState(state),
	}
}

// InspectFixture builds the inspect response matching a summary.
func InspectFixture(c container.Summary) container.InspectResponse {
	name := ""
	if len(c.Names) > 0 {
		name = c.Names[0]
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:      c.ID,
			Name:    name,
			Created: "2024-01-02T03:04:05Z",
			State:   &container.State{Status: container.ContainerState(c.State)},
		},
		Config:          &container.Config{Image: c.Image},
		NetworkSettings: &container.NetworkSettings{},
		Mounts:          c.Mounts,
	}
}

// SetupContainers serves the containers from ContainerList and resolves
// ContainerInspect by exact ID or name, as the daemon does.
func (f *FakeClient) SetupContainers(containers ...container.Summary) {
	f.FakeAPI.ContainerListFn = func(_ context.Context, _ container.ListOptions) ([]container.Summary, error) {
		return append([]container.Summary(nil), containers...), nil
	}
	f.FakeAPI.ContainerInspectFn = func(_ context.Context, ref string) (container.InspectResponse, error) {
		for _, c := range containers {
			if c.ID == ref {
				return InspectFixture(c), nil
			}
			for _, n := range c.Names {
				if strings.TrimPrefix(n, "/") == ref {
					return InspectFixture(c), nil
				}
			}
		}
		return container.InspectResponse{}, NotFoundError("container", ref)
	}
}

// --- Images ---

// ImageFixture builds an image.Summary carrying the given repo tags.
func ImageFixture(id string, tags ...string) image.Summary {
	return image.Summary{
		ID:       id,
		RepoTags: tags,
		Size:     1024 * 1024,
		Created:  1700000000,
	}
}

// SetupImages serves the images from ImageList and resolves ImageInspect
// by exact ID or repo tag.
func (f *FakeClient) SetupImages(images ...image.Summary) {
	f.FakeAPI.ImageListFn = func(_ context.Context, _ image.ListOptions) ([]image.Summary, error) {
		return append([]image.Summary(nil), images...), nil
	}
	f.FakeAPI.ImageInspectFn = func(_ context.Context, ref string) (image.InspectResponse, error) {
		for _, img := range images {
			if img.ID == ref {
				return imageInspect(img), nil
			}
			for _, t := range img.RepoTags {
				if t == ref {
					return imageInspect(img), nil
				}
			}
		}
		return image.InspectResponse{}, NotFoundError("image", ref)
	}
}

func imageInspect(img image.Summary) image.InspectResponse {
	return image.InspectResponse{
		ID:           img.ID,
		RepoTags:     img.RepoTags,
		Size:         img.Size,
		Architecture: "amd64",
		Os:           "linux",
	}
}

// --- Networks ---

// NetworkFixture builds a network summary.
func NetworkFixture(id, name, driver string) network.Summary {
	return network.Summary{
		ID:     id,
		Name:   name,
		Driver: driver,
		Scope:  "local",
	}
}

// SetupNetworks serves the networks from NetworkList and resolves
// NetworkInspect by exact ID or name.
func (f *FakeClient) SetupNetworks(networks ...network.Summary) {
	f.FakeAPI.NetworkListFn = func(_ context.Context, _ network.ListOptions) ([]network.Summary, error) {
		return append([]network.Summary(nil), networks...), nil
	}
	f.FakeAPI.NetworkInspectFn = func(_ context.Context, ref string, _ network.InspectOptions) (network.Inspect, error) {
		for _, n := range networks {
			if n.ID == ref || n.Name == ref {
				return n, nil
			}
		}
		return network.Inspect{}, NotFoundError("network", ref)
	}
}

// --- Volumes ---

// VolumeFixture builds a local volume.
func VolumeFixture(name string) *volume.Volume {
	return &volume.Volume{
		Name:       name,
		Driver:     "local",
		Mountpoint: "/var/lib/docker/volumes/" + name + "/_data",
		Scope:      "local",
	}
}

// SetupVolumes serves the volumes from VolumeList and resolves VolumeInspect
// by exact name.
func (f *FakeClient) SetupVolumes(volumes ...*volume.Volume) {
	f.FakeAPI.VolumeListFn = func(_ context.Context, _ volume.ListOptions) (volume.ListResponse, error) {
		return volume.ListResponse{Volumes: append([]*volume.Volume(nil), volumes...)}, nil
	}
	f.FakeAPI.VolumeInspectFn = func(_ context.Context, name string) (volume.Volume, error) {
		for _, v := range volumes {
			if v.Name == name {
				return *v, nil
			}
		}
		return volume.Volume{}, NotFoundError("volume", name)
	}
}

// --- Stream bodies ---

// LogsBody returns a multiplexed log stream as the daemon sends it for
// containers without a TTY.
func LogsBody(stdout, stderr string) io.ReadCloser {
	var buf bytes.Buffer
	if stdout != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout))
	}
	if stderr != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr))
	}
	return io.NopCloser(&buf)
}

// StatsBody encodes a stats sample as a single non-streamed stats response.
func StatsBody(s container.StatsResponse) container.StatsResponseReader {
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("StatsBody: %v", err))
	}
	return container.StatsResponseReader{Body: io.NopCloser(bytes.NewReader(data))}
}

// PullBody returns a pull progress stream of JSON messages. A message with
// an "error" key makes the pull fail.
func PullBody(messages ...map[string]any) io.ReadCloser {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range messages {
		_ = enc.Encode(m)
	}
	return io.NopCloser(&buf)
}

// WaitResult returns ContainerWait channels that report the given exit code.
func WaitResult(code int64) (<-chan container.WaitResponse, <-chan error) {
	waitCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	waitCh <- container.WaitResponse{StatusCode: code}
	return waitCh, errCh
}
