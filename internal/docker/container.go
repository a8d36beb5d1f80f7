package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// DefaultLogTail is the number of log lines returned when none is requested.
const DefaultLogTail = 100

// ContainerSummary is one row of container_list.
type ContainerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Image  string `json:"image"`
}

// ContainerInfo is the container_info record.
type ContainerInfo struct {
	ID      string                   `json:"id"`
	Name    string                   `json:"name"`
	Status  string                   `json:"status"`
	Image   string                   `json:"image"`
	Created string                   `json:"created"`
	Ports   map[string][]PortBinding `json:"ports"`
}

// PortBinding is a host address published for a container port.
type PortBinding struct {
	HostIP   string `json:"host_ip"`
	HostPort string `json:"host_port"`
}

// ContainerLogs is the container_logs record.
type ContainerLogs struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Tail       int    `json:"tail"`
	Timestamps bool   `json:"timestamps"`
	Logs       string `json:"logs"`
}

// ContainerStats is the container_stats record.
type ContainerStats struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	CPUPercent  float64                   `json:"cpu_percent"`
	MemoryUsage uint64                    `json:"memory_usage"`
	MemoryLimit uint64                    `json:"memory_limit"`
	NetworkIO   map[string]NetworkIOStats `json:"network_io"`
}

// NetworkIOStats is the per-interface traffic counter pair.
type NetworkIOStats struct {
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

// ContainerAction reports the outcome of start, stop and remove.
type ContainerAction struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListContainers returns every container, stopped ones included when all is set.
func (c *Client) ListContainers(ctx context.Context, all bool) ([]ContainerSummary, error) {
	list, err := c.api.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	out := make([]ContainerSummary, 0, len(list))
	for _, s := range list {
		name := ""
		if len(s.Names) > 0 {
			name = containerName(s.Names[0])
		}
		out = append(out, ContainerSummary{
			ID:     s.ID,
			Name:   name,
			Status: string(s.State),
			Image:  s.Image,
		})
	}
	return out, nil
}

// ContainerInfo inspects the container with the given ID.
func (c *Client) ContainerInfo(ctx context.Context, id string) (*ContainerInfo, error) {
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspecting container %s: %w", shortID(id), err)
	}
	rec := &ContainerInfo{
		ID:      info.ID,
		Name:    containerName(info.Name),
		Created: info.Created,
		Ports:   map[string][]PortBinding{},
	}
	if info.State != nil {
		rec.Status = string(info.State.Status)
	}
	if info.Config != nil {
		rec.Image = info.Config.Image
	}
	if info.NetworkSettings != nil {
		rec.Ports = portBindings(info.NetworkSettings.Ports)
	}
	return rec, nil
}

// portBindings flattens a nat.PortMap keyed by "port/proto". Exposed but
// unpublished ports map to an empty list.
func portBindings(pm nat.PortMap) map[string][]PortBinding {
	out := make(map[string][]PortBinding, len(pm))
	ports := make([]nat.Port, 0, len(pm))
	for p := range pm {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Int() < ports[j].Int() })
	for _, p := range ports {
		bindings := make([]PortBinding, 0, len(pm[p]))
		for _, b := range pm[p] {
			bindings = append(bindings, PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		out[string(p)] = bindings
	}
	return out
}

// ContainerLogs fetches the last tail lines of the container's output. A
// negative tail uses DefaultLogTail; zero returns no lines.
func (c *Client) ContainerLogs(ctx context.Context, id string, tail int, timestamps bool) (*ContainerLogs, error) {
	if tail < 0 {
		tail = DefaultLogTail
	}
	info, err := c.api.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspecting container %s: %w", shortID(id), err)
	}

	rc, err := c.api.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
		Timestamps: timestamps,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching logs for %s: %w", shortID(id), err)
	}
	defer rc.Close()

	// TTY containers return a raw stream; everything else is multiplexed.
	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = buf.ReadFrom(rc)
	} else {
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return nil, fmt.Errorf("reading logs for %s: %w", shortID(id), err)
	}

	return &ContainerLogs{
		ID:         info.ID,
		Name:       containerName(info.Name),
		Tail:       tail,
		Timestamps: timestamps,
		Logs:       buf.String(),
	}, nil
}

// ContainerStats takes a single primed stats sample. The daemon waits one
// collection cycle so precpu_stats holds the previous reading, which
// CPUPercent needs for a delta. One-shot samples leave precpu_stats zeroed.
func (c *Client) ContainerStats(ctx context.Context, id string) (*ContainerStats, error) {
	resp, err := c.api.ContainerStats(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("fetching stats for %s: %w", shortID(id), err)
	}
	defer resp.Body.Close()

	var s container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding stats for %s: %w", shortID(id), err)
	}

	rec := &ContainerStats{
		ID:          id,
		Name:        containerName(s.Name),
		CPUPercent:  CPUPercent(&s),
		MemoryUsage: s.MemoryStats.Usage,
		MemoryLimit: s.MemoryStats.Limit,
		NetworkIO:   make(map[string]NetworkIOStats, len(s.Networks)),
	}
	if s.ID != "" {
		rec.ID = s.ID
	}
	for iface, n := range s.Networks {
		rec.NetworkIO[iface] = NetworkIOStats{RxBytes: n.RxBytes, TxBytes: n.TxBytes}
	}
	return rec, nil
}

// StartContainer starts the container with the given ID.
func (c *Client) StartContainer(ctx context.Context, id, name string) (*ContainerAction, error) {
	if err := c.api.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container %s: %w", name, err)
	}
	return &ContainerAction{
		ID:      id,
		Name:    name,
		Status:  "started",
		Message: fmt.Sprintf("Container '%s' started.", name),
	}, nil
}

// StopContainer stops the container, waiting up to timeout seconds before
// killing it. A negative timeout uses the daemon default.
func (c *Client) StopContainer(ctx context.Context, id, name string, timeout int) (*ContainerAction, error) {
	opts := container.StopOptions{}
	if timeout >= 0 {
		opts.Timeout = &timeout
	}
	if err := c.api.ContainerStop(ctx, id, opts); err != nil {
		return nil, fmt.Errorf("stopping container %s: %w", name, err)
	}
	return &ContainerAction{
		ID:      id,
		Name:    name,
		Status:  "stopped",
		Message: fmt.Sprintf("Container '%s' stopped.", name),
	}, nil
}

// RemoveContainer removes the container; force kills it first when running.
func (c *Client) RemoveContainer(ctx context.Context, id, name string, force bool) (*ContainerAction, error) {
	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: force}); err != nil {
		if containsFold(err, "stop the container before removing") || containsFold(err, "cannot remove a running container") {
			return nil, invalidArgument(err, "Container '%s' is running. Stop it first or use force=true.", name)
		}
		return nil, fmt.Errorf("removing container %s: %w", name, err)
	}
	return &ContainerAction{
		ID:      id,
		Name:    name,
		Status:  "removed",
		Message: fmt.Sprintf("Container '%s' removed.", name),
	}, nil
}

// shortID truncates a runtime ID to the 12 characters the CLI displays.
func shortID(id string) string {
	const n = 12
	if len(id) > n {
		return id[:n]
	}
	return id
}
