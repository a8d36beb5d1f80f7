// Package dockertest provides test doubles for the docker package.
package dockertest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/schmitthub/dockmcp/internal/docker"
)

var _ docker.APIClient = (*FakeAPIClient)(nil)

// FakeAPIClient is a test double for docker.APIClient using the function-field
// pattern. Each method has a corresponding Fn field. If the field is set, the
// fake delegates to it and records the call. If the field is nil, the call
// panics with "not implemented: MethodName".
type FakeAPIClient struct {
	// mu protects Calls from concurrent access.
	mu sync.Mutex

	// Calls records the method names invoked on this fake, in order.
	Calls []string

	// Closed is set once Close has been called.
	Closed bool

	PingFn func(ctx context.Context) (types.Ping, error)

	// --- Container methods ---
	ContainerListFn         func(ctx context.Context, opts container.ListOptions) ([]container.Summary, error)
	ContainerInspectFn      func(ctx context.Context, id string) (container.InspectResponse, error)
	ContainerLogsFn         func(ctx context.Context, id string, opts container.LogsOptions) (io.ReadCloser, error)
	ContainerStatsFn        func(ctx context.Context, id string, stream bool) (container.StatsResponseReader, error)
	ContainerStartFn        func(ctx context.Context, id string, opts container.StartOptions) error
	ContainerStopFn         func(ctx context.Context, id string, opts container.StopOptions) error
	ContainerRemoveFn       func(ctx context.Context, id string, opts container.RemoveOptions) error
	ContainerCreateFn       func(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, netCfg *network.NetworkingConfig, platform *ocispec.Platform, name string) (container.CreateResponse, error)
	ContainerWaitFn         func(ctx context.Context, id string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)

	// --- Image methods ---
	ImageListFn    func(ctx context.Context, opts image.ListOptions) ([]image.Summary, error)
	ImageInspectFn func(ctx context.Context, ref string) (image.InspectResponse, error)
	ImagePullFn    func(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error)
	ImageRemoveFn  func(ctx context.Context, id string, opts image.RemoveOptions) ([]image.DeleteResponse, error)
	ImageSearchFn  func(ctx context.Context, term string, opts registry.SearchOptions) ([]registry.SearchResult, error)
	ImageHistoryFn func(ctx context.Context, id string) ([]image.HistoryResponseItem, error)

	// --- Network methods ---
	NetworkListFn       func(ctx context.Context, opts network.ListOptions) ([]network.Summary, error)
	NetworkInspectFn    func(ctx context.Context, id string, opts network.InspectOptions) (network.Inspect, error)
	NetworkCreateFn     func(ctx context.Context, name string, opts network.CreateOptions) (network.CreateResponse, error)
	NetworkRemoveFn     func(ctx context.Context, id string) error
	NetworkConnectFn    func(ctx context.Context, networkID, containerID string, cfg *network.EndpointSettings) error
	NetworkDisconnectFn func(ctx context.Context, networkID, containerID string, force bool) error
	NetworksPruneFn     func(ctx context.Context, args filters.Args) (network.PruneReport, error)

	// --- Volume methods ---
	VolumeListFn    func(ctx context.Context, opts volume.ListOptions) (volume.ListResponse, error)
	VolumeInspectFn func(ctx context.Context, name string) (volume.Volume, error)
	VolumeCreateFn  func(ctx context.Context, opts volume.CreateOptions) (volume.Volume, error)
	VolumeRemoveFn  func(ctx context.Context, name string, force bool) error
	VolumesPruneFn  func(ctx context.Context, args filters.Args) (volume.PruneReport, error)
}

// record appends a method name to the call log (thread-safe).
func (f *FakeAPIClient) record(method string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, method)
	f.mu.Unlock()
}

// notImplemented panics with a descriptive message for unset function fields.
func notImplemented(method string) {
	panic(fmt.Sprintf("not implemented: %s; set %sFn on FakeAPIClient", method, method))
}

// Reset clears the Calls log.
func (f *FakeAPIClient) Reset() {
	f.mu.Lock()
	f.Calls = nil
	f.mu.Unlock()
}

// Called returns a copy of the call log.
func (f *FakeAPIClient) Called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *FakeAPIClient) Ping(ctx context.Context) (types.Ping, error) {
	if f.PingFn == nil {
		notImplemented("Ping")
	}
	f.record("Ping")
	return f.PingFn(ctx)
}

func (f *FakeAPIClient) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// --- Container method implementations ---

func (f *FakeAPIClient) ContainerList(ctx context.Context, opts container.ListOptions) ([]container.Summary, error) {
	if f.ContainerListFn == nil {
		notImplemented("ContainerList")
	}
	f.record("ContainerList")
	return f.ContainerListFn(ctx, opts)
}

func (f *FakeAPIClient) ContainerInspect(ctx context.Context, id string) (container.InspectResponse, error) {
	if f.ContainerInspectFn == nil {
		notImplemented("ContainerInspect")
	}
	f.record("ContainerInspect")
	return f.ContainerInspectFn(ctx, id)
}

func (f *FakeAPIClient) ContainerLogs(ctx context.Context, id string, opts container.LogsOptions) (io.ReadCloser, error) {
	if f.ContainerLogsFn == nil {
		notImplemented("ContainerLogs")
	}
	f.record("ContainerLogs")
	return f.ContainerLogsFn(ctx, id, opts)
}

func (f *FakeAPIClient) ContainerStats(ctx context.Context, id string, stream bool) (container.StatsResponseReader, error) {
	if f.ContainerStatsFn == nil {
		notImplemented("ContainerStats")
	}
	f.record("ContainerStats")
	return f.ContainerStatsFn(ctx, id, stream)
}

func (f *FakeAPIClient) ContainerStart(ctx context.Context, id string, opts container.StartOptions) error {
	if f.ContainerStartFn == nil {
		notImplemented("ContainerStart")
	}
	f.record("ContainerStart")
	return f.ContainerStartFn(ctx, id, opts)
}

func (f *FakeAPIClient) ContainerStop(ctx context.Context, id string, opts container.StopOptions) error {
	if f.ContainerStopFn == nil {
		notImplemented("ContainerStop")
	}
	f.record("ContainerStop")
	return f.ContainerStopFn(ctx, id, opts)
}

func (f *FakeAPIClient) ContainerRemove(ctx context.Context, id string, opts container.RemoveOptions) error {
	if f.ContainerRemoveFn == nil {
		notImplemented("ContainerRemove")
	}
	f.record("ContainerRemove")
	return f.ContainerRemoveFn(ctx, id, opts)
}

func (f *FakeAPIClient) ContainerCreate(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, netCfg *network.NetworkingConfig, platform *ocispec.Platform, name string) (container.CreateResponse, error) {
	if f.ContainerCreateFn == nil {
		notImplemented("ContainerCreate")
	}
	f.record("ContainerCreate")
	return f.ContainerCreateFn(ctx, cfg, hostCfg, netCfg, platform, name)
}

func (f *FakeAPIClient) ContainerWait(ctx context.Context, id string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	if f.ContainerWaitFn == nil {
		notImplemented("ContainerWait")
	}
	f.record("ContainerWait")
	return f.ContainerWaitFn(ctx, id, condition)
}

// --- Image method implementations ---

func (f *FakeAPIClient) ImageList(ctx context.Context, opts image.ListOptions) ([]image.Summary, error) {
	if f.ImageListFn == nil {
		notImplemented("ImageList")
	}
	f.record("ImageList")
	return f.ImageListFn(ctx, opts)
}

func (f *FakeAPIClient) ImageInspect(ctx context.Context, ref string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	if f.ImageInspectFn == nil {
		notImplemented("ImageInspect")
	}
	f.record("ImageInspect")
	return f.ImageInspectFn(ctx, ref)
}

func (f *FakeAPIClient) ImagePull(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error) {
	if f.ImagePullFn == nil {
		notImplemented("ImagePull")
	}
	f.record("ImagePull")
	return f.ImagePullFn(ctx, ref, opts)
}

func (f *FakeAPIClient) ImageRemove(ctx context.Context, id string, opts image.RemoveOptions) ([]image.DeleteResponse, error) {
	if f.ImageRemoveFn == nil {
		notImplemented("ImageRemove")
	}
	f.record("ImageRemove")
	return f.ImageRemoveFn(ctx, id, opts)
}

func (f *FakeAPIClient) ImageSearch(ctx context.Context, term string, opts registry.SearchOptions) ([]registry.SearchResult, error) {
	if f.ImageSearchFn == nil {
		notImplemented("ImageSearch")
	}
	f.record("ImageSearch")
	return f.ImageSearchFn(ctx, term, opts)
}

func (f *FakeAPIClient) ImageHistory(ctx context.Context, id string, _ ...client.ImageHistoryOption) ([]image.HistoryResponseItem, error) {
	if f.ImageHistoryFn == nil {
		notImplemented("ImageHistory")
	}
	f.record("ImageHistory")
	return f.ImageHistoryFn(ctx, id)
}

// --- Network method implementations ---

func (f *FakeAPIClient) NetworkList(ctx context.Context, opts network.ListOptions) ([]network.Summary, error) {
	if f.NetworkListFn == nil {
		notImplemented("NetworkList")
	}
	f.record("NetworkList")
	return f.NetworkListFn(ctx, opts)
}

func (f *FakeAPIClient) NetworkInspect(ctx context.Context, id string, opts network.InspectOptions) (network.Inspect, error) {
	if f.NetworkInspectFn == nil {
		notImplemented("NetworkInspect")
	}
	f.record("NetworkInspect")
	return f.NetworkInspectFn(ctx, id, opts)
}

func (f *FakeAPIClient) NetworkCreate(ctx context.Context, name string, opts network.CreateOptions) (network.CreateResponse, error) {
	if f.NetworkCreateFn == nil {
		notImplemented("NetworkCreate")
	}
	f.record("NetworkCreate")
	return f.NetworkCreateFn(ctx, name, opts)
}

func (f *FakeAPIClient) NetworkRemove(ctx context.Context, id string) error {
	if f.NetworkRemoveFn == nil {
		notImplemented("NetworkRemove")
	}
	f.record("NetworkRemove")
	return f.NetworkRemoveFn(ctx, id)
}

func (f *FakeAPIClient) NetworkConnect(ctx context.Context, networkID, containerID string, cfg *network.EndpointSettings) error {
	if f.NetworkConnectFn == nil {
		notImplemented("NetworkConnect")
	}
	f.record("NetworkConnect")
	return f.NetworkConnectFn(ctx, networkID, containerID, cfg)
}

func (f *FakeAPIClient) NetworkDisconnect(ctx context.Context, networkID, containerID string, force bool) error {
	if f.NetworkDisconnectFn == nil {
		notImplemented("NetworkDisconnect")
	}
	f.record("NetworkDisconnect")
	return f.NetworkDisconnectFn(ctx, networkID, containerID, force)
}

func (f *FakeAPIClient) NetworksPrune(ctx context.Context, args filters.Args) (network.PruneReport, error) {
	if f.NetworksPruneFn == nil {
		notImplemented("NetworksPrune")
	}
	f.record("NetworksPrune")
	return f.NetworksPruneFn(ctx, args)
}

// --- Volume method implementations ---

func (f *FakeAPIClient) VolumeList(ctx context.Context, opts volume.ListOptions) (volume.ListResponse, error) {
	if f.VolumeListFn == nil {
		notImplemented("VolumeList")
	}
	f.record("VolumeList")
	return f.VolumeListFn(ctx, opts)
}

func (f *FakeAPIClient) VolumeInspect(ctx context.Context, name string) (volume.Volume, error) {
	if f.VolumeInspectFn == nil {
		notImplemented("VolumeInspect")
	}
	f.record("VolumeInspect")
	return f.VolumeInspectFn(ctx, name)
}

func (f *FakeAPIClient) VolumeCreate(ctx context.Context, opts volume.CreateOptions) (volume.Volume, error) {
	if f.VolumeCreateFn == nil {
		notImplemented("VolumeCreate")
	}
	f.record("VolumeCreate")
	return f.VolumeCreateFn(ctx, opts)
}

func (f *FakeAPIClient) VolumeRemove(ctx context.Context, name string, force bool) error {
	if f.VolumeRemoveFn == nil {
		notImplemented("VolumeRemove")
	}
	f.record("VolumeRemove")
	return f.VolumeRemoveFn(ctx, name, force)
}

func (f *FakeAPIClient) VolumesPrune(ctx context.Context, args filters.Args) (volume.PruneReport, error) {
	if f.VolumesPruneFn == nil {
		notImplemented("VolumesPrune")
	}
	f.record("VolumesPrune")
	return f.VolumesPruneFn(ctx, args)
}
