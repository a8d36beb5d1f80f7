package docker

import (
	"context"
	"fmt"
	"sort"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"

	"github.com/schmitthub/dockmcp/internal/logger"
)

// DefaultNetworkDriver is used when network_create names no driver.
const DefaultNetworkDriver = "bridge"

// NetworkSummary is one row of network_list.
type NetworkSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Driver     string   `json:"driver"`
	Scope      string   `json:"scope"`
	Internal   bool     `json:"internal"`
	Containers []string `json:"containers"`
}

// NetworkInfo is the network_info record.
type NetworkInfo struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Driver     string             `json:"driver"`
	Scope      string             `json:"scope"`
	Internal   bool               `json:"internal"`
	Attachable bool               `json:"attachable"`
	Created    string             `json:"created"`
	IPAM       NetworkIPAM        `json:"ipam"`
	Containers []NetworkContainer `json:"containers"`
}

// NetworkIPAM is the address management setup of a network.
type NetworkIPAM struct {
	Driver string              `json:"driver"`
	Config []NetworkIPAMConfig `json:"config"`
}

// NetworkIPAMConfig is one address pool.
type NetworkIPAMConfig struct {
	Subnet  string `json:"subnet,omitempty"`
	IPRange string `json:"ip_range,omitempty"`
	Gateway string `json:"gateway,omitempty"`
}

// NetworkContainer is a container endpoint attached to a network.
type NetworkContainer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IPv4Address string `json:"ipv4_address"`
	IPv6Address string `json:"ipv6_address"`
}

// NetworkCreateOptions configures CreateNetwork.
type NetworkCreateOptions struct {
	Name       string
	Driver     string
	Internal   bool
	Attachable bool
	Labels     map[string]string
}

// NetworkAction reports the outcome of create and remove.
type NetworkAction struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Driver  string `json:"driver,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NetworkAttachment reports the outcome of connect and disconnect.
type NetworkAttachment struct {
	Network     string `json:"network"`
	Container   string `json:"container"`
	IPv4Address string `json:"ipv4_address,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// NetworkPrune is the network_prune record.
type NetworkPrune struct {
	NetworksDeleted []string `json:"networks_deleted"`
	Status          string   `json:"status"`
	Message         string   `json:"message"`
}

// ListNetworks returns every network.
func (c *Client) ListNetworks(ctx context.Context) ([]NetworkSummary, error) {
	list, err := c.api.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}
	out := make([]NetworkSummary, 0, len(list))
	for _, n := range list {
		ids := make([]string, 0, len(n.Containers))
		for id := range n.Containers {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out = append(out, NetworkSummary{
			ID:         n.ID,
			Name:       n.Name,
			Driver:     valueOr(n.Driver, "unknown"),
			Scope:      valueOr(n.Scope, "unknown"),
			Internal:   n.Internal,
			Containers: ids,
		})
	}
	return out, nil
}

// NetworkInfo inspects the network with the given ID.
func (c *Client) NetworkInfo(ctx context.Context, id string) (*NetworkInfo, error) {
	n, err := c.api.NetworkInspect(ctx, id, network.InspectOptions{})
	if err != nil {
		return nil, fmt.Errorf("inspecting network %s: %w", shortID(id), err)
	}
	rec := &NetworkInfo{
		ID:         n.ID,
		Name:       n.Name,
		Driver:     valueOr(n.Driver, "unknown"),
		Scope:      valueOr(n.Scope, "unknown"),
		Internal:   n.Internal,
		Attachable: n.Attachable,
		IPAM:       NetworkIPAM{Driver: n.IPAM.Driver, Config: []NetworkIPAMConfig{}},
		Containers: make([]NetworkContainer, 0, len(n.Containers)),
	}
	if !n.Created.IsZero() {
		rec.Created = n.Created.Format(time.RFC3339Nano)
	}
	for _, cfg := range n.IPAM.Config {
		rec.IPAM.Config = append(rec.IPAM.Config, NetworkIPAMConfig{
			Subnet:  cfg.Subnet,
			IPRange: cfg.IPRange,
			Gateway: cfg.Gateway,
		})
	}
	for cid, ep := range n.Containers {
		rec.Containers = append(rec.Containers, NetworkContainer{
			ID:          cid,
			Name:        ep.Name,
			IPv4Address: ep.IPv4Address,
			IPv6Address: ep.IPv6Address,
		})
	}
	sort.Slice(rec.Containers, func(i, j int) bool { return rec.Containers[i].Name < rec.Containers[j].Name })
	return rec, nil
}

// CreateNetwork creates a network. A name that is already taken is an
// invalid argument.
func (c *Client) CreateNetwork(ctx context.Context, opts NetworkCreateOptions) (*NetworkAction, error) {
	driver := valueOr(opts.Driver, DefaultNetworkDriver)
	resp, err := c.api.NetworkCreate(ctx, opts.Name, network.CreateOptions{
		Driver:     driver,
		Internal:   opts.Internal,
		Attachable: opts.Attachable,
		Labels:     opts.Labels,
	})
	if err != nil {
		if cerrdefs.IsConflict(err) || containsFold(err, "already exists") {
			return nil, invalidArgument(err, "Network '%s' already exists", opts.Name)
		}
		return nil, fmt.Errorf("creating network %s: %w", opts.Name, err)
	}
	if resp.Warning != "" {
		logger.Warn().Str("network", opts.Name).Msg(resp.Warning)
	}
	return &NetworkAction{
		ID:      resp.ID,
		Name:    opts.Name,
		Driver:  driver,
		Status:  "created",
		Message: fmt.Sprintf("Successfully created network '%s'", opts.Name),
	}, nil
}

// RemoveNetwork removes the network with the given ID.
func (c *Client) RemoveNetwork(ctx context.Context, id, name string) (*NetworkAction, error) {
	if err := c.api.NetworkRemove(ctx, id); err != nil {
		if containsFold(err, "active endpoints") || cerrdefs.IsPermissionDenied(err) {
			return nil, ErrNetworkHasEndpoints(name, err)
		}
		return nil, fmt.Errorf("removing network %s: %w", name, err)
	}
	return &NetworkAction{
		ID:      id,
		Name:    name,
		Status:  "removed",
		Message: fmt.Sprintf("Successfully removed network '%s'", name),
	}, nil
}

// containerByRef looks up a container by exact ID or name; partial matches
// are not attempted.
func (c *Client) containerByRef(ctx context.Context, ref string) (id, name string, err error) {
	info, err := c.api.ContainerInspect(ctx, ref)
	if err != nil {
		if isMissing(err) {
			return "", "", notFound(err, "Container '%s' not found", ref)
		}
		return "", "", fmt.Errorf("inspecting container %s: %w", ref, err)
	}
	return info.ID, containerName(info.Name), nil
}

// ConnectContainer attaches the container ref to the network, optionally at
// a static IPv4 address.
func (c *Client) ConnectContainer(ctx context.Context, networkID, networkName, ref, ipv4 string) (*NetworkAttachment, error) {
	cid, cname, err := c.containerByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	var settings *network.EndpointSettings
	if ipv4 != "" {
		settings = &network.EndpointSettings{IPAMConfig: &network.EndpointIPAMConfig{IPv4Address: ipv4}}
	}
	if err := c.api.NetworkConnect(ctx, networkID, cid, settings); err != nil {
		if containsFold(err, "already exists") || containsFold(err, "already attached") {
			return nil, invalidArgument(err, "Container '%s' is already connected to network '%s'", ref, networkName)
		}
		return nil, fmt.Errorf("connecting %s to %s: %w", cname, networkName, err)
	}
	return &NetworkAttachment{
		Network:     networkName,
		Container:   cname,
		IPv4Address: valueOr(ipv4, "auto-assigned"),
		Status:      "connected",
		Message:     fmt.Sprintf("Connected '%s' to network '%s'", cname, networkName),
	}, nil
}

// DisconnectContainer detaches the container ref from the network.
func (c *Client) DisconnectContainer(ctx context.Context, networkID, networkName, ref string, force bool) (*NetworkAttachment, error) {
	cid, cname, err := c.containerByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := c.api.NetworkDisconnect(ctx, networkID, cid, force); err != nil {
		if containsFold(err, "is not connected") {
			return nil, invalidArgument(err, "Container '%s' is not connected to network '%s'", ref, networkName)
		}
		return nil, fmt.Errorf("disconnecting %s from %s: %w", cname, networkName, err)
	}
	return &NetworkAttachment{
		Network:   networkName,
		Container: cname,
		Status:    "disconnected",
		Message:   fmt.Sprintf("Disconnected '%s' from network '%s'", cname, networkName),
	}, nil
}

// PruneNetworks removes every network no container uses.
func (c *Client) PruneNetworks(ctx context.Context) (*NetworkPrune, error) {
	report, err := c.api.NetworksPrune(ctx, filters.NewArgs())
	if err != nil {
		return nil, fmt.Errorf("pruning networks: %w", err)
	}
	deleted := report.NetworksDeleted
	if deleted == nil {
		deleted = []string{}
	}
	return &NetworkPrune{
		NetworksDeleted: deleted,
		Status:          "pruned",
		Message:         fmt.Sprintf("Removed %d unused networks", len(deleted)),
	}, nil
}
