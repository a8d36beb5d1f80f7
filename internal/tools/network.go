package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/resource"
)

var networkIdentifier = Required(Str("network_identifier", "Network ID, full name, or partial name"))

func networkTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "network_list",
			Description: "List networks with their driver, scope and attached container IDs.",
			Handler: d.dockerTool(func(ctx context.Context, s *session, _ Args) (any, error) {
				return s.ListNetworks(ctx)
			}),
		},
		{
			Name:        "network_info",
			Description: "Show a network's IPAM configuration and connected containers.",
			Input:       Object(networkIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				n, err := s.lookup(ctx, resource.KindNetwork, args.String("network_identifier"))
				if err != nil {
					return nil, err
				}
				return s.NetworkInfo(ctx, n.Key)
			}),
		},
		{
			Name:        "network_create",
			Description: "Create a network.",
			Input: Object(
				Required(Str("name", "Network name")),
				Property{Name: "driver", Schema: Schema{"type": "string", "default": docker.DefaultNetworkDriver}, Description: "Network driver"},
				Bool("internal", "Restrict external access", false),
				Bool("attachable", "Allow manual container attachment", true),
				StringMap("labels", "Labels to set on the network"),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.CreateNetwork(ctx, docker.NetworkCreateOptions{
					Name:       args.String("name"),
					Driver:     args.String("driver"),
					Internal:   args.Bool("internal"),
					Attachable: args.Bool("attachable"),
					Labels:     args.StringMap("labels"),
				})
			}),
		},
		{
			Name:        "network_remove",
			Description: "Remove a network with no connected containers.",
			Input:       Object(networkIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				n, err := s.lookup(ctx, resource.KindNetwork, args.String("network_identifier"))
				if err != nil {
					return nil, err
				}
				return s.RemoveNetwork(ctx, n.Key, n.DisplayName())
			}),
		},
		{
			Name:        "network_connect",
			Description: "Connect a container to a network. The container must be named exactly.",
			Input: Object(
				networkIdentifier,
				Required(Str("container_identifier", "Exact container ID or name")),
				Str("ipv4_address", "Static IPv4 address; omit to auto-assign"),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				n, err := s.lookup(ctx, resource.KindNetwork, args.String("network_identifier"))
				if err != nil {
					return nil, err
				}
				return s.ConnectContainer(ctx, n.Key, n.DisplayName(), args.String("container_identifier"), args.String("ipv4_address"))
			}),
		},
		{
			Name:        "network_disconnect",
			Description: "Disconnect a container from a network. The container must be named exactly.",
			Input: Object(
				networkIdentifier,
				Required(Str("container_identifier", "Exact container ID or name")),
				Bool("force", "Force the disconnect", false),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				n, err := s.lookup(ctx, resource.KindNetwork, args.String("network_identifier"))
				if err != nil {
					return nil, err
				}
				return s.DisconnectContainer(ctx, n.Key, n.DisplayName(), args.String("container_identifier"), args.Bool("force"))
			}),
		},
		{
			Name:        "network_prune",
			Description: "Remove every network no container uses.",
			Handler: d.dockerTool(func(ctx context.Context, s *session, _ Args) (any, error) {
				return s.PruneNetworks(ctx)
			}),
		},
	}
}
