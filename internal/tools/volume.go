package tools

import (
	"context"

	"github.com/schmitthub/dockmcp/internal/docker"
	"github.com/schmitthub/dockmcp/internal/resource"
)

var volumeIdentifier = Required(Str("volume_identifier", "Volume name or partial name"))

func volumeTools(d *Deps) []Tool {
	return []Tool{
		{
			Name:        "volume_list",
			Description: "List volumes with their driver, mountpoint and labels.",
			Handler: d.dockerTool(func(ctx context.Context, s *session, _ Args) (any, error) {
				return s.ListVolumes(ctx)
			}),
		},
		{
			Name:        "volume_info",
			Description: "Show a volume's driver options and status.",
			Input:       Object(volumeIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				v, err := s.lookup(ctx, resource.KindVolume, args.String("volume_identifier"))
				if err != nil {
					return nil, err
				}
				return s.VolumeInfo(ctx, v.Key)
			}),
		},
		{
			Name:        "volume_create",
			Description: "Create a volume.",
			Input: Object(
				Required(Str("name", "Volume name")),
				Property{Name: "driver", Schema: Schema{"type": "string", "default": docker.DefaultVolumeDriver}, Description: "Volume driver"},
				StringMap("driver_opts", "Driver-specific options"),
				StringMap("labels", "Labels to set on the volume"),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				return s.CreateVolume(ctx, docker.VolumeCreateOptions{
					Name:       args.String("name"),
					Driver:     args.String("driver"),
					DriverOpts: args.StringMap("driver_opts"),
					Labels:     args.StringMap("labels"),
				})
			}),
		},
		{
			Name:        "volume_remove",
			Description: "Remove a volume.",
			Input: Object(
				volumeIdentifier,
				Bool("force", "Remove even if in use", false),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				v, err := s.lookup(ctx, resource.KindVolume, args.String("volume_identifier"))
				if err != nil {
					return nil, err
				}
				return s.RemoveVolume(ctx, v.Key, args.Bool("force"))
			}),
		},
		{
			Name:        "volume_prune",
			Description: "Remove unused volumes and report the space reclaimed.",
			Handler: d.dockerTool(func(ctx context.Context, s *session, _ Args) (any, error) {
				return s.PruneVolumes(ctx)
			}),
		},
		{
			Name:        "volume_by_container",
			Description: "List the volumes and bind mounts of a container.",
			Input:       Object(containerIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				c, err := s.lookup(ctx, resource.KindContainer, args.String("container_identifier"))
				if err != nil {
					return nil, err
				}
				return s.VolumesByContainer(ctx, c.Key)
			}),
		},
		{
			Name:        "volume_usage",
			Description: "List the containers that mount a volume.",
			Input:       Object(volumeIdentifier),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				v, err := s.lookup(ctx, resource.KindVolume, args.String("volume_identifier"))
				if err != nil {
					return nil, err
				}
				return s.VolumeUsage(ctx, v.Key)
			}),
		},
		{
			Name:        "volume_backup",
			Description: "Write a tar archive of a volume to a host path using a temporary helper container.",
			Input: Object(
				volumeIdentifier,
				Required(Str("backup_path", "Host path of the tar file to write")),
				Str("container_image", "Helper image with tar; defaults to backup.image (alpine)"),
			),
			Handler: d.dockerTool(func(ctx context.Context, s *session, args Args) (any, error) {
				v, err := s.lookup(ctx, resource.KindVolume, args.String("volume_identifier"))
				if err != nil {
					return nil, err
				}
				return s.BackupVolume(ctx, v.Key, args.String("backup_path"), args.String("container_image"))
			}),
		},
	}
}
