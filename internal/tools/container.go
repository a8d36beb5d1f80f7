package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/resource"
)

var containerIdentifier = Required(Str("container_identifier", "Container ID, full name, or partial name (e.g. \"nginx\" or \"my-nginx-container\")"))

func containerTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "container_list",
			Description: "List containers with their ID, name, status and image.",
			Input:       Object(Bool("all", "Include stopped containers", true)),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.ListContainers(ctx, args.Bool("all"))
			}),
		},
		{
			Name:        "container_info",
			Description: "Show a container's status, image, creation time and published ports.",
			Input:       Object(containerIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.ContainerInfo(ctx, c.Key)
			}),
		},
		{
			Name:        "container_logs",
			Description: "Fetch the last lines of a container's log.",
			Input: Object(
				containerIdentifier,
				Int("tail", "Number of lines from the end of the log", docker.DefaultLogTail, intPtr(0)),
				Bool("timestamps", "Prefix each line with its timestamp", false),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				tail := -1
				if args.Has("tail") {
					tail = args.Int("tail")
				}
				return s.ContainerLogs(ctx, c.Key, tail, args.Bool("timestamps"))
			}),
		},
		{
			Name:        "container_stats",
			Description: "Take a one-shot sample of a container's CPU, memory and network usage.",
			Input:       Object(containerIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.ContainerStats(ctx, c.Key)
			}),
		},
		{
			Name:        "container_start",
			Description: "Start a stopped container.",
			Input:       Object(containerIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.StartContainer(ctx, c.Key, c.DisplayName())
			}),
		},
		{
			Name:        "container_stop",
			Description: "Stop a running container.",
			Input: Object(
				containerIdentifier,
				Int("timeout", "Seconds to wait before killing; omit for the daemon default", -1, intPtr(-1)),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.StopContainer(ctx, c.Key, c.DisplayName(), args.Int("timeout"))
			}),
		},
		{
			Name:        "container_remove",
			Description: "Remove a container. A running container needs force=true.",
			Input: Object(
				containerIdentifier,
				Bool("force", "Kill and remove a running container", false),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.RemoveContainer(ctx, c.Key, c.DisplayName(), args.Bool("force"))
			}),
		},
	}
}
